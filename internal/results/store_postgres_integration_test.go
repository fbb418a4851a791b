//go:build integration

package results_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/reference"
	"sufragio/internal/results"
	"sufragio/internal/voting"
	"sufragio/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *results.PostgresStore
	votes    *voting.PostgresStore

	limaID  int64
	cuscoID int64

	presidentA *candidates.Candidate
	presidentB *candidates.Candidate
	limaRep    *candidates.Candidate
	cuscoRep   *candidates.Candidate

	voterA int64
	voterB int64
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = results.NewPostgresStore(s.postgres.DB)
	s.votes = voting.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "votes", "voters", "candidates", "parties", "regions")
	s.Require().NoError(err)

	regions := reference.NewPostgresRegionStore(s.postgres.DB)
	lima, err := regions.Ensure(ctx, "Lima")
	s.Require().NoError(err)
	s.limaID = lima.ID
	cusco, err := regions.Ensure(ctx, "Cusco")
	s.Require().NoError(err)
	s.cuscoID = cusco.ID

	candidateStore := candidates.NewPostgres(s.postgres.DB)
	ruling := &candidates.Party{Name: "Union Civica", Code: "UC"}
	s.Require().NoError(candidateStore.EnsureParty(ctx, ruling))
	opposition := &candidates.Party{Name: "Frente Andino", Code: "FA"}
	s.Require().NoError(candidateStore.EnsureParty(ctx, opposition))

	create := func(name string, office reference.Office, partyID int64, regionID *int64) *candidates.Candidate {
		c := &candidates.Candidate{
			GivenName:       name,
			PaternalSurname: name[:1] + "ERNANDEZ",
			MaternalSurname: "VEGA",
			PartyID:         partyID,
			Office:          office,
			RegionID:        regionID,
		}
		s.Require().NoError(candidateStore.Create(ctx, c))
		return c
	}
	s.presidentA = create("ROSA", reference.OfficePresident, ruling.ID, nil)
	s.presidentB = create("JORGE", reference.OfficePresident, ruling.ID, nil)
	s.limaRep = create("LUCIA", reference.OfficeRepresentative, ruling.ID, &s.limaID)
	s.cuscoRep = create("PEDRO", reference.OfficeRepresentative, opposition.ID, &s.cuscoID)

	voterStore := identity.NewPostgresVoterStore(s.postgres.DB)
	addVoter := func(nationalID string) int64 {
		voter := &identity.Voter{
			NationalID:      nationalID,
			GivenName:       "MARIA",
			PaternalSurname: "QUISPE",
			MaternalSurname: "HUAMAN",
			RegionID:        s.limaID,
			Role:            identity.RoleVoter,
			CredentialHash:  "x",
		}
		s.Require().NoError(voterStore.Create(ctx, voter))
		return voter.ID
	}
	s.voterA = addVoter("11111111")
	s.voterB = addVoter("22222222")
}

func (s *PostgresStoreSuite) cast(voterID int64, candidate *candidates.Candidate) {
	vote := &voting.Vote{
		VoterID:     voterID,
		CandidateID: candidate.ID,
		OfficeID:    candidate.Office.ID(),
	}
	s.Require().NoError(s.votes.Insert(context.Background(), vote))
}

func (s *PostgresStoreSuite) deactivateCandidate(id int64) {
	_, err := s.postgres.DB.ExecContext(context.Background(),
		`UPDATE candidates SET active = FALSE WHERE id = $1`, id)
	s.Require().NoError(err)
}

// A deactivated candidate's ballots must vanish from the per-candidate and
// the per-party aggregates alike, or the two views stop agreeing.
func (s *PostgresStoreSuite) TestInactiveCandidateExcludedEverywhere() {
	ctx := context.Background()
	s.cast(s.voterA, s.presidentA)
	s.cast(s.voterB, s.presidentB)
	s.deactivateCandidate(s.presidentB.ID)

	rows, err := s.store.ResultsByOffice(ctx, reference.OfficePresident.ID(), nil)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(s.presidentA.ID, rows[0].CandidateID)
	s.Equal(int64(1), rows[0].Votes)

	tallies, err := s.store.TalliesByParty(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(tallies, 1)
	s.Equal("UC", tallies[0].Code)
	s.Equal(int64(1), tallies[0].Votes)
}

func (s *PostgresStoreSuite) TestInactivePartyExcludedEverywhere() {
	ctx := context.Background()
	s.cast(s.voterA, s.cuscoRep)
	_, err := s.postgres.DB.ExecContext(ctx,
		`UPDATE parties SET active = FALSE WHERE code = 'FA'`)
	s.Require().NoError(err)

	rows, err := s.store.ResultsByOffice(ctx, reference.OfficeRepresentative.ID(), nil)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(s.limaRep.ID, rows[0].CandidateID)

	tallies, err := s.store.TalliesByParty(ctx, nil)
	s.Require().NoError(err)
	s.Empty(tallies)
}

func (s *PostgresStoreSuite) TestTalliesByPartyOfficeFilter() {
	ctx := context.Background()
	s.cast(s.voterA, s.presidentA)
	s.cast(s.voterA, s.limaRep)
	s.cast(s.voterB, s.cuscoRep)

	all, err := s.store.TalliesByParty(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(int64(2), all[0].Votes)

	officeID := reference.OfficeRepresentative.ID()
	reps, err := s.store.TalliesByParty(ctx, &officeID)
	s.Require().NoError(err)
	s.Require().Len(reps, 2)
	for _, tally := range reps {
		s.Equal(int64(1), tally.Votes)
	}
}

func (s *PostgresStoreSuite) TestResultsByOfficeRegionFilter() {
	ctx := context.Background()
	s.cast(s.voterA, s.limaRep)
	s.cast(s.voterB, s.cuscoRep)

	rows, err := s.store.ResultsByOffice(ctx, reference.OfficeRepresentative.ID(), &s.cuscoID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(s.cuscoRep.ID, rows[0].CandidateID)
	s.Equal(int64(1), rows[0].Votes)
}

func (s *PostgresStoreSuite) TestCountActiveCandidates() {
	ctx := context.Background()

	count, err := s.store.CountActiveCandidates(ctx)
	s.Require().NoError(err)
	s.Equal(int64(4), count)

	s.deactivateCandidate(s.presidentB.ID)
	count, err = s.store.CountActiveCandidates(ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}
