package identity

import (
	"context"
	"sync"
	"time"

	"sufragio/pkg/platform/sentinel"
)

// MemoryVoterStore mirrors the postgres store for unit tests.
type MemoryVoterStore struct {
	mu     sync.RWMutex
	nextID int64
	voters map[int64]Voter
	byDNI  map[string]int64
}

func NewMemoryVoterStore() *MemoryVoterStore {
	return &MemoryVoterStore{
		nextID: 1,
		voters: make(map[int64]Voter),
		byDNI:  make(map[string]int64),
	}
}

func (s *MemoryVoterStore) Create(_ context.Context, voter *Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byDNI[voter.NationalID]; exists {
		return sentinel.ErrConflict
	}
	now := time.Now()
	voter.ID = s.nextID
	s.nextID++
	voter.Active = true
	voter.CreatedAt = now
	voter.UpdatedAt = now
	s.voters[voter.ID] = *voter
	s.byDNI[voter.NationalID] = voter.ID
	return nil
}

func (s *MemoryVoterStore) FindByNationalID(_ context.Context, nationalID string) (*Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byDNI[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	v := s.voters[id]
	return &v, nil
}

func (s *MemoryVoterStore) FindByID(_ context.Context, id int64) (*Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.voters[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}

// CountEligible reports active voters entitled to cast. Test glue for the
// aggregate query the postgres store runs in SQL.
func (s *MemoryVoterStore) CountEligible() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, v := range s.voters {
		if v.Active && v.CanVote() {
			count++
		}
	}
	return count
}

// MemoryRefreshStore mirrors the redis refresh-token store for unit tests.
type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
}

type refreshEntry struct {
	voterID   int64
	expiresAt time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: make(map[string]refreshEntry)}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token string, voterID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{voterID: voterID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Consume(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	delete(s.tokens, token)
	if time.Now().After(entry.expiresAt) {
		return 0, sentinel.ErrExpired
	}
	return entry.voterID, nil
}

func (s *MemoryRefreshStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
