package candidates

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sufragio/pkg/platform/sentinel"
)

// MemoryStore mirrors the postgres store for unit tests. Vote counts are fed
// in by the voting memory store through IncrementVoteCount.
type MemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	parties    map[int64]Party
	candidates map[int64]Candidate
	background map[int64][]BackgroundRecord
	voteCounts map[int64]int64
	regionName map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:     1,
		parties:    make(map[int64]Party),
		candidates: make(map[int64]Candidate),
		background: make(map[int64][]BackgroundRecord),
		voteCounts: make(map[int64]int64),
		regionName: make(map[int64]string),
	}
}

// SetRegionName registers a region name for summaries, standing in for the
// join the postgres store performs.
func (s *MemoryStore) SetRegionName(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regionName[id] = name
}

// IncrementVoteCount records one vote against a candidate. Test glue for the
// aggregate join the postgres store performs in SQL.
func (s *MemoryStore) IncrementVoteCount(candidateID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voteCounts[candidateID]++
}

func (s *MemoryStore) ListParties(_ context.Context) ([]Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var parties []Party
	for _, p := range s.parties {
		if p.Active {
			parties = append(parties, p)
		}
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].Code < parties[j].Code })
	return parties, nil
}

func (s *MemoryStore) FindPartyByID(_ context.Context, id int64) (*Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindPartyByCode(_ context.Context, code string) (*Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.parties {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) EnsureParty(_ context.Context, party *Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, existing := range s.parties {
		if existing.Code == party.Code {
			existing.Name = party.Name
			existing.LogoURL = party.LogoURL
			existing.UpdatedAt = now
			s.parties[id] = existing
			*party = existing
			return nil
		}
	}
	party.ID = s.nextID
	s.nextID++
	party.Active = true
	party.CreatedAt = now
	party.UpdatedAt = now
	s.parties[party.ID] = *party
	return nil
}

func (s *MemoryStore) List(_ context.Context, filters Filters) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var summaries []Summary
	for _, c := range s.candidates {
		if !c.Active || !s.matches(c, filters) {
			continue
		}
		summaries = append(summaries, s.summarize(c))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Party.Code != summaries[j].Party.Code {
			return summaries[i].Party.Code < summaries[j].Party.Code
		}
		return summaries[i].Candidate.PaternalSurname < summaries[j].Candidate.PaternalSurname
	})
	return summaries, nil
}

func (s *MemoryStore) matches(c Candidate, filters Filters) bool {
	if filters.Office != nil && c.Office != *filters.Office {
		return false
	}
	if filters.RegionID != nil && (c.RegionID == nil || *c.RegionID != *filters.RegionID) {
		return false
	}
	if filters.PartyID != nil && c.PartyID != *filters.PartyID {
		return false
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(c.GivenName), needle) &&
			!strings.Contains(strings.ToLower(c.PaternalSurname), needle) &&
			!strings.Contains(strings.ToLower(c.MaternalSurname), needle) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) summarize(c Candidate) Summary {
	summary := Summary{
		Candidate: c,
		Party:     s.parties[c.PartyID],
		VoteCount: s.voteCounts[c.ID],
	}
	if c.RegionID != nil {
		if name, ok := s.regionName[*c.RegionID]; ok {
			summary.RegionName = &name
		}
	}
	return summary
}

func (s *MemoryStore) Find(_ context.Context, id int64) (*Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) FindSummary(_ context.Context, id int64) (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	summary := s.summarize(c)
	return &summary, nil
}

func (s *MemoryStore) Create(_ context.Context, candidate *Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.candidates {
		if existing.GivenName == candidate.GivenName &&
			existing.PaternalSurname == candidate.PaternalSurname &&
			existing.MaternalSurname == candidate.MaternalSurname &&
			existing.Office == candidate.Office &&
			regionEqual(existing.RegionID, candidate.RegionID) {
			return sentinel.ErrConflict
		}
	}
	if _, ok := s.parties[candidate.PartyID]; !ok {
		return sentinel.ErrNotFound
	}
	now := time.Now()
	candidate.ID = s.nextID
	s.nextID++
	candidate.Active = true
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	s.candidates[candidate.ID] = *candidate
	return nil
}

// CountActive reports active candidates across all offices. Test glue for the
// aggregate query the postgres store runs in SQL.
func (s *MemoryStore) CountActive() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, c := range s.candidates {
		if c.Active {
			count++
		}
	}
	return count
}

// Deactivate flips a candidate inactive. Test helper for soft-delete paths.
func (s *MemoryStore) Deactivate(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.candidates[id]; ok {
		c.Active = false
		s.candidates[id] = c
	}
}

// DeactivateParty flips a party inactive. Test helper for soft-delete paths.
func (s *MemoryStore) DeactivateParty(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.parties[id]; ok {
		p.Active = false
		s.parties[id] = p
	}
}

func regionEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *MemoryStore) ListBackground(_ context.Context, candidateID int64) ([]BackgroundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := append([]BackgroundRecord{}, s.background[candidateID]...)
	sort.Slice(records, func(i, j int) bool { return records[i].OccurredOn.After(records[j].OccurredOn) })
	return records, nil
}

func (s *MemoryStore) AddBackground(_ context.Context, record *BackgroundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[record.CandidateID]; !ok {
		return sentinel.ErrNotFound
	}
	record.ID = s.nextID
	s.nextID++
	record.CreatedAt = time.Now()
	s.background[record.CandidateID] = append(s.background[record.CandidateID], *record)
	return nil
}
