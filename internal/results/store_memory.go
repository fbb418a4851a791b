package results

import (
	"context"
	"sort"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/reference"
	"sufragio/internal/voting"
)

// MemoryStore composes the feature memory stores to answer the same
// aggregate questions the SQL store answers with joins.
type MemoryStore struct {
	candidates *candidates.MemoryStore
	voters     *identity.MemoryVoterStore
	votes      *voting.MemoryStore
}

func NewMemoryStore(c *candidates.MemoryStore, v *identity.MemoryVoterStore, votes *voting.MemoryStore) *MemoryStore {
	return &MemoryStore{candidates: c, voters: v, votes: votes}
}

func (s *MemoryStore) ResultsByOffice(ctx context.Context, officeID int64, regionID *int64) ([]CandidateResult, error) {
	office, ok := reference.OfficeByID(officeID)
	if !ok {
		return []CandidateResult{}, nil
	}
	summaries, err := s.candidates.List(ctx, candidates.Filters{Office: &office, RegionID: regionID})
	if err != nil {
		return nil, err
	}
	results := make([]CandidateResult, 0, len(summaries))
	for _, summary := range summaries {
		if !summary.Party.Active {
			continue
		}
		results = append(results, CandidateResult{
			CandidateID: summary.Candidate.ID,
			FullName:    summary.Candidate.FullName(),
			PartyName:   summary.Party.Name,
			PartyCode:   summary.Party.Code,
			RegionID:    summary.Candidate.RegionID,
			RegionName:  summary.RegionName,
			Votes:       summary.VoteCount,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})
	return results, nil
}

func (s *MemoryStore) TalliesByParty(ctx context.Context, officeID *int64) ([]PartyTally, error) {
	var filters candidates.Filters
	if officeID != nil {
		if office, ok := reference.OfficeByID(*officeID); ok {
			filters.Office = &office
		}
	}
	summaries, err := s.candidates.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	byParty := make(map[int64]*PartyTally)
	for _, summary := range summaries {
		if !summary.Party.Active {
			continue
		}
		tally, ok := byParty[summary.Party.ID]
		if !ok {
			tally = &PartyTally{
				PartyID: summary.Party.ID,
				Name:    summary.Party.Name,
				Code:    summary.Party.Code,
			}
			byParty[summary.Party.ID] = tally
		}
		tally.Votes += summary.VoteCount
	}
	tallies := make([]PartyTally, 0, len(byParty))
	for _, tally := range byParty {
		if tally.Votes > 0 {
			tallies = append(tallies, *tally)
		}
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return tallies[i].Name < tallies[j].Name
	})
	return tallies, nil
}

func (s *MemoryStore) CountVotesByOffice(_ context.Context) (map[int64]int64, error) {
	return s.votes.CountByOffice(), nil
}

func (s *MemoryStore) CountVotes(_ context.Context) (int64, error) {
	return s.votes.Count(), nil
}

func (s *MemoryStore) CountEligibleVoters(_ context.Context) (int64, error) {
	return s.voters.CountEligible(), nil
}

func (s *MemoryStore) CountActiveCandidates(_ context.Context) (int64, error) {
	return s.candidates.CountActive(), nil
}
