package results

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/reference"
	"sufragio/internal/voting"
)

type ServiceSuite struct {
	suite.Suite
	service    *Service
	candidates *candidates.MemoryStore
	voters     *identity.MemoryVoterStore
	votes      *voting.MemoryStore

	presidentA        *candidates.Candidate
	presidentB        *candidates.Candidate
	representative    *candidates.Candidate
	emptyPartyID      int64
	oppositionPartyID int64
}

func (s *ServiceSuite) SetupTest() {
	ctx := context.Background()

	s.candidates = candidates.NewMemoryStore()
	s.voters = identity.NewMemoryVoterStore()
	s.votes = voting.NewMemoryStore()
	s.votes.SetOnInsert(s.candidates.IncrementVoteCount)

	ruling := &candidates.Party{Name: "Union Civica", Code: "UC"}
	s.Require().NoError(s.candidates.EnsureParty(ctx, ruling))
	opposition := &candidates.Party{Name: "Frente Andino", Code: "FA"}
	s.Require().NoError(s.candidates.EnsureParty(ctx, opposition))
	s.oppositionPartyID = opposition.ID
	empty := &candidates.Party{Name: "Movimiento Sur", Code: "MS"}
	s.Require().NoError(s.candidates.EnsureParty(ctx, empty))
	s.emptyPartyID = empty.ID

	limaID := int64(1)
	s.candidates.SetRegionName(limaID, "Lima")

	s.presidentA = s.addCandidate(ctx, "ROSA", reference.OfficePresident, ruling.ID, nil)
	s.presidentB = s.addCandidate(ctx, "JORGE", reference.OfficePresident, opposition.ID, nil)
	s.representative = s.addCandidate(ctx, "LUCIA", reference.OfficeRepresentative, ruling.ID, &limaID)
	s.addCandidate(ctx, "CARLA", reference.OfficeSenator, empty.ID, nil)

	for i, nationalID := range []string{"11111111", "22222222", "33333333"} {
		voter := &identity.Voter{
			NationalID: nationalID,
			RegionID:   limaID,
			Role:       identity.RoleVoter,
		}
		s.Require().NoError(s.voters.Create(ctx, voter))
		candidateID := s.presidentA.ID
		if i == 2 {
			candidateID = s.presidentB.ID
		}
		s.Require().NoError(s.votes.Insert(ctx, &voting.Vote{
			VoterID:     voter.ID,
			CandidateID: candidateID,
			OfficeID:    reference.OfficePresident.ID(),
		}))
	}

	s.service = NewService(NewMemoryStore(s.candidates, s.voters, s.votes), slog.New(slog.DiscardHandler))
}

func (s *ServiceSuite) addCandidate(ctx context.Context, name string, office reference.Office, partyID int64, regionID *int64) *candidates.Candidate {
	c := &candidates.Candidate{
		GivenName:       name,
		PaternalSurname: name[:1] + "ERNANDEZ",
		MaternalSurname: "VEGA",
		PartyID:         partyID,
		Office:          office,
		RegionID:        regionID,
	}
	s.Require().NoError(s.candidates.Create(ctx, c))
	return c
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestResultsCoverEveryOffice() {
	results, err := s.service.Results(context.Background(), nil)
	s.Require().NoError(err)
	s.Require().Len(results, len(reference.Offices))

	for i, office := range reference.Offices {
		s.Equal(office, results[i].Office)
	}
}

func (s *ServiceSuite) TestResultsOrderedByVotes() {
	results, err := s.service.Results(context.Background(), nil)
	s.Require().NoError(err)

	president := results[0]
	s.Equal(int64(3), president.TotalVotes)
	s.Require().Len(president.Candidates, 2)
	s.Equal(s.presidentA.ID, president.Candidates[0].CandidateID)
	s.Equal(int64(2), president.Candidates[0].Votes)
	s.Equal(s.presidentB.ID, president.Candidates[1].CandidateID)
	s.Equal(int64(1), president.Candidates[1].Votes)
}

func (s *ServiceSuite) TestOfficeTallyWithoutVotes() {
	tally, err := s.service.OfficeTally(context.Background(), reference.OfficeSenator, nil)
	s.Require().NoError(err)
	s.Zero(tally.TotalVotes)
	s.Require().Len(tally.Candidates, 1)
	s.Zero(tally.Candidates[0].Votes)
}

func (s *ServiceSuite) TestResultsByPartyOmitsZeroVoteParties() {
	tallies, err := s.service.ResultsByParty(context.Background(), nil)
	s.Require().NoError(err)

	s.Require().Len(tallies, 2)
	s.Equal("Union Civica", tallies[0].Name)
	s.Equal(int64(2), tallies[0].Votes)
	s.Equal("Frente Andino", tallies[1].Name)
	s.Equal(int64(1), tallies[1].Votes)
	for _, tally := range tallies {
		s.NotEqual(s.emptyPartyID, tally.PartyID)
	}
}

func (s *ServiceSuite) TestStatistics() {
	stats, err := s.service.Statistics(context.Background())
	s.Require().NoError(err)

	s.Equal(int64(3), stats.RegisteredVoters)
	s.Equal(int64(3), stats.TotalVotes)
	s.Equal(int64(4), stats.TotalActiveCandidates)
	s.Require().Len(stats.ByOffice, len(reference.Offices))

	s.Equal(int64(3), stats.ByOffice[0].Votes)
	s.InDelta(1.0, stats.ByOffice[0].Turnout, 0.001)

	// Offices without ballots still get an entry.
	s.Equal(reference.OfficeSenator, stats.ByOffice[1].Office)
	s.Zero(stats.ByOffice[1].Votes)
	s.Zero(stats.ByOffice[1].Turnout)
}

// The sum of per-office totals must always equal the global vote count.
func (s *ServiceSuite) TestTalliesCrossCheck() {
	ctx := context.Background()

	results, err := s.service.Results(ctx, nil)
	s.Require().NoError(err)
	var sum int64
	for _, office := range results {
		sum += office.TotalVotes
	}

	stats, err := s.service.Statistics(ctx)
	s.Require().NoError(err)
	s.Equal(stats.TotalVotes, sum)
}

// Per-candidate votes summed by party must match the by-party tallies.
func (s *ServiceSuite) TestPartyTalliesMatchCandidateSums() {
	ctx := context.Background()

	byParty := make(map[string]int64)
	results, err := s.service.Results(ctx, nil)
	s.Require().NoError(err)
	for _, office := range results {
		for _, candidate := range office.Candidates {
			byParty[candidate.PartyCode] += candidate.Votes
		}
	}

	tallies, err := s.service.ResultsByParty(ctx, nil)
	s.Require().NoError(err)
	for _, tally := range tallies {
		s.Equal(byParty[tally.Code], tally.Votes, "party %s", tally.Code)
	}
	for code, votes := range byParty {
		if votes == 0 {
			continue
		}
		found := false
		for _, tally := range tallies {
			if tally.Code == code {
				found = true
			}
		}
		s.True(found, "party %s missing from tallies", code)
	}
}

func (s *ServiceSuite) TestResultsByPartyOfficeFilter() {
	ctx := context.Background()

	// One extra ballot for the Lima representative so the unfiltered tally
	// differs from the president-only tally.
	s.Require().NoError(s.votes.Insert(ctx, &voting.Vote{
		VoterID:     1,
		CandidateID: s.representative.ID,
		OfficeID:    reference.OfficeRepresentative.ID(),
	}))

	all, err := s.service.ResultsByParty(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(int64(3), all[0].Votes)

	president := reference.OfficePresident
	filtered, err := s.service.ResultsByParty(ctx, &president)
	s.Require().NoError(err)
	s.Require().Len(filtered, 2)
	s.Equal(int64(2), filtered[0].Votes)
	s.Equal(int64(1), filtered[1].Votes)
}

func (s *ServiceSuite) TestResultsRegionFilter() {
	ctx := context.Background()

	cuscoID := int64(2)
	s.candidates.SetRegionName(cuscoID, "Cusco")
	cuscoRep := s.addCandidate(ctx, "PEDRO", reference.OfficeRepresentative, s.oppositionPartyID, &cuscoID)

	results, err := s.service.Results(ctx, &cuscoID)
	s.Require().NoError(err)
	s.Require().Len(results, len(reference.Offices))

	for _, office := range results {
		if office.Office != reference.OfficeRepresentative {
			// National candidates carry no region, so a region filter
			// leaves their offices empty.
			s.Empty(office.Candidates)
			continue
		}
		s.Require().Len(office.Candidates, 1)
		s.Equal(cuscoRep.ID, office.Candidates[0].CandidateID)
	}
}

// Deactivating a candidate must remove their ballots from both the
// per-candidate and the per-party aggregates.
func (s *ServiceSuite) TestTalliesExcludeInactiveCandidates() {
	ctx := context.Background()
	s.candidates.Deactivate(s.presidentB.ID)

	results, err := s.service.Results(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(results[0].Candidates, 1)
	s.Equal(int64(2), results[0].TotalVotes)

	tallies, err := s.service.ResultsByParty(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(tallies, 1)
	s.Equal("Union Civica", tallies[0].Name)
	s.Equal(int64(2), tallies[0].Votes)
}

func (s *ServiceSuite) TestTalliesExcludeInactiveParties() {
	ctx := context.Background()
	s.candidates.DeactivateParty(s.oppositionPartyID)

	results, err := s.service.Results(ctx, nil)
	s.Require().NoError(err)
	for _, row := range results[0].Candidates {
		s.NotEqual(s.presidentB.ID, row.CandidateID)
	}

	tallies, err := s.service.ResultsByParty(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(tallies, 1)
	s.Equal("Union Civica", tallies[0].Name)
}

func (s *ServiceSuite) TestStatisticsCountsOnlyActiveCandidates() {
	ctx := context.Background()
	s.candidates.Deactivate(s.presidentB.ID)

	stats, err := s.service.Statistics(ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.TotalActiveCandidates)
}
