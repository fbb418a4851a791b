package reference

import (
	"context"
	"sort"
	"sync"
	"time"

	"sufragio/pkg/platform/sentinel"
)

// MemoryRegionStore mirrors the postgres store for unit tests.
type MemoryRegionStore struct {
	mu      sync.RWMutex
	nextID  int64
	regions map[int64]Region
}

func NewMemoryRegionStore() *MemoryRegionStore {
	return &MemoryRegionStore{nextID: 1, regions: make(map[int64]Region)}
}

func (s *MemoryRegionStore) List(_ context.Context) ([]Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	regions := make([]Region, 0, len(s.regions))
	for _, r := range s.regions {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions, nil
}

func (s *MemoryRegionStore) FindByID(_ context.Context, id int64) (*Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *MemoryRegionStore) Ensure(_ context.Context, name string) (*Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regions {
		if r.Name == name {
			return &r, nil
		}
	}
	now := time.Now()
	r := Region{ID: s.nextID, Name: name, CreatedAt: now, UpdatedAt: now}
	s.nextID++
	s.regions[r.ID] = r
	return &r, nil
}
