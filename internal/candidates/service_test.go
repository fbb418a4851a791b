package candidates

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	store   *MemoryStore
	regions *reference.MemoryRegionStore

	party *Party
	lima  *reference.Region
}

func (s *ServiceSuite) SetupTest() {
	ctx := context.Background()

	s.store = NewMemoryStore()
	s.regions = reference.NewMemoryRegionStore()
	s.service = NewService(s.store, s.regions, slog.New(slog.DiscardHandler))

	lima, err := s.regions.Ensure(ctx, "Lima")
	s.Require().NoError(err)
	s.lima = lima
	s.store.SetRegionName(lima.ID, lima.Name)

	s.party = &Party{Name: "Union Civica", Code: "UC"}
	s.Require().NoError(s.store.EnsureParty(ctx, s.party))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newCandidate(mutate func(*NewCandidate)) NewCandidate {
	input := NewCandidate{
		GivenName:       "ROSA",
		PaternalSurname: "TORRES",
		MaternalSurname: "VEGA",
		PartyID:         s.party.ID,
		Office:          reference.OfficePresident,
	}
	if mutate != nil {
		mutate(&input)
	}
	return input
}

func (s *ServiceSuite) TestCreateCandidate() {
	candidate, err := s.service.CreateCandidate(context.Background(), s.newCandidate(nil))
	s.Require().NoError(err)
	s.NotZero(candidate.ID)
	s.True(candidate.Active)
	s.Equal("ROSA TORRES VEGA", candidate.FullName())
}

func (s *ServiceSuite) TestCreateCandidateDuplicateTuple() {
	ctx := context.Background()
	_, err := s.service.CreateCandidate(ctx, s.newCandidate(nil))
	s.Require().NoError(err)

	_, err = s.service.CreateCandidate(ctx, s.newCandidate(nil))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	// Same person for a different office is a distinct candidacy.
	_, err = s.service.CreateCandidate(ctx, s.newCandidate(func(n *NewCandidate) {
		n.Office = reference.OfficeSenator
	}))
	s.NoError(err)
}

func (s *ServiceSuite) TestCreateRepresentativeRequiresRegion() {
	_, err := s.service.CreateCandidate(context.Background(), s.newCandidate(func(n *NewCandidate) {
		n.Office = reference.OfficeRepresentative
	}))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.CreateCandidate(context.Background(), s.newCandidate(func(n *NewCandidate) {
		n.Office = reference.OfficeRepresentative
		n.RegionID = &s.lima.ID
	}))
	s.NoError(err)
}

func (s *ServiceSuite) TestCreateCandidateUnknownParty() {
	_, err := s.service.CreateCandidate(context.Background(), s.newCandidate(func(n *NewCandidate) {
		n.PartyID = 999
	}))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateCandidateUnknownRegion() {
	unknown := int64(999)
	_, err := s.service.CreateCandidate(context.Background(), s.newCandidate(func(n *NewCandidate) {
		n.Office = reference.OfficeRepresentative
		n.RegionID = &unknown
	}))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateCandidateBlankNames() {
	_, err := s.service.CreateCandidate(context.Background(), s.newCandidate(func(n *NewCandidate) {
		n.MaternalSurname = "   "
	}))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestListCandidatesFilters() {
	ctx := context.Background()
	_, err := s.service.CreateCandidate(ctx, s.newCandidate(nil))
	s.Require().NoError(err)
	_, err = s.service.CreateCandidate(ctx, s.newCandidate(func(n *NewCandidate) {
		n.GivenName = "LUCIA"
		n.PaternalSurname = "MENDOZA"
		n.Office = reference.OfficeRepresentative
		n.RegionID = &s.lima.ID
	}))
	s.Require().NoError(err)

	office := reference.OfficeRepresentative
	summaries, err := s.service.ListCandidates(ctx, Filters{Office: &office})
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal("LUCIA", summaries[0].Candidate.GivenName)
	s.Require().NotNil(summaries[0].RegionName)
	s.Equal("Lima", *summaries[0].RegionName)

	summaries, err = s.service.ListCandidates(ctx, Filters{Search: "torres"})
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal("ROSA", summaries[0].Candidate.GivenName)
}

func (s *ServiceSuite) TestGetCandidateGroupsBackground() {
	ctx := context.Background()
	candidate, err := s.service.CreateCandidate(ctx, s.newCandidate(nil))
	s.Require().NoError(err)

	for _, kind := range []BackgroundKind{BackgroundComplaint, BackgroundProposal, BackgroundProposal} {
		s.Require().NoError(s.store.AddBackground(ctx, &BackgroundRecord{
			CandidateID: candidate.ID,
			Kind:        kind,
			Title:       string(kind),
			OccurredOn:  time.Now(),
		}))
	}

	detail, err := s.service.GetCandidate(ctx, candidate.ID)
	s.Require().NoError(err)
	s.Len(detail.Complaints, 1)
	s.Empty(detail.Projects)
	s.Len(detail.Proposals, 2)
}

func (s *ServiceSuite) TestGetCandidateInactive() {
	candidate, err := s.service.CreateCandidate(context.Background(), s.newCandidate(nil))
	s.Require().NoError(err)

	s.store.Deactivate(candidate.ID)

	_, err = s.service.GetCandidate(context.Background(), candidate.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGetCandidateNotFound() {
	_, err := s.service.GetCandidate(context.Background(), 999)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDisplayRegionSubstitution() {
	limaName := "Lima"

	ref := DisplayRegion(reference.OfficePresident, nil, nil)
	s.Require().NotNil(ref)
	s.Equal(reference.NationalRegionID, ref.ID)
	s.Equal(reference.NationalRegionName, ref.Name)

	ref = DisplayRegion(reference.OfficeRepresentative, &s.lima.ID, &limaName)
	s.Require().NotNil(ref)
	s.Equal("Lima", ref.Name)

	s.Nil(DisplayRegion(reference.OfficeRepresentative, nil, nil))
}
