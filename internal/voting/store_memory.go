package voting

import (
	"context"
	"sort"
	"sync"
	"time"

	"sufragio/pkg/platform/sentinel"
)

type voteKey struct {
	voterID  int64
	officeID int64
}

// BallotInfo describes a candidate for vote history, supplied by the
// candidate registry when the two memory stores are wired together in tests.
type BallotInfo struct {
	CandidateName string
	PartyName     string
	PartyCode     string
}

// MemoryStore mirrors the postgres store for unit tests. The (voter, office)
// map key plays the role of the unique constraint.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	votes    map[voteKey]Vote
	describe func(candidateID int64) BallotInfo
	onInsert func(candidateID int64)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, votes: make(map[voteKey]Vote)}
}

// SetDescriber installs the candidate lookup used by ListByVoter.
func (s *MemoryStore) SetDescriber(fn func(candidateID int64) BallotInfo) {
	s.describe = fn
}

// SetOnInsert installs a hook fired after each successful insert, standing in
// for the vote-count join the SQL store gets for free.
func (s *MemoryStore) SetOnInsert(fn func(candidateID int64)) {
	s.onInsert = fn
}

func (s *MemoryStore) Insert(_ context.Context, vote *Vote) error {
	s.mu.Lock()
	key := voteKey{voterID: vote.VoterID, officeID: vote.OfficeID}
	if _, exists := s.votes[key]; exists {
		s.mu.Unlock()
		return sentinel.ErrConflict
	}
	vote.ID = s.nextID
	s.nextID++
	vote.CreatedAt = time.Now()
	s.votes[key] = *vote
	s.mu.Unlock()

	if s.onInsert != nil {
		s.onInsert(vote.CandidateID)
	}
	return nil
}

func (s *MemoryStore) HasVoted(_ context.Context, voterID, officeID int64) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vote, ok := s.votes[voteKey{voterID: voterID, officeID: officeID}]
	if !ok {
		return nil, nil
	}
	castAt := vote.CreatedAt
	return &castAt, nil
}

// Count reports the total ballots stored. Test glue for aggregate queries.
func (s *MemoryStore) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.votes))
}

// CountByOffice reports ballots per office id. Test glue for aggregate
// queries.
func (s *MemoryStore) CountByOffice() map[int64]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int64)
	for key := range s.votes {
		counts[key.officeID]++
	}
	return counts
}

func (s *MemoryStore) ListByVoter(_ context.Context, voterID int64) ([]Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	details := make([]Detail, 0)
	for key, vote := range s.votes {
		if key.voterID != voterID {
			continue
		}
		d := Detail{Vote: vote}
		if s.describe != nil {
			info := s.describe(vote.CandidateID)
			d.CandidateName = info.CandidateName
			d.PartyName = info.PartyName
			d.PartyCode = info.PartyCode
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].OfficeID < details[j].OfficeID })
	return details, nil
}
