package candidates

import (
	"context"
	"errors"
	"log/slog"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
	"sufragio/pkg/platform/sentinel"
)

// Service owns the registry business rules. Validation runs before any write
// so storage errors only ever mean genuine constraint races.
type Service struct {
	store   Store
	regions reference.RegionStore
	logger  *slog.Logger
}

func NewService(store Store, regions reference.RegionStore, logger *slog.Logger) *Service {
	return &Service{store: store, regions: regions, logger: logger}
}

// ListParties returns active parties ordered by code.
func (s *Service) ListParties(ctx context.Context) ([]Party, error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list parties")
	}
	return parties, nil
}

// ListCandidates returns active candidates matching the filters, each with
// its computed vote count.
func (s *Service) ListCandidates(ctx context.Context, filters Filters) ([]Summary, error) {
	summaries, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list candidates")
	}
	return summaries, nil
}

// GetCandidate returns the full detail for one active candidate, with
// background records grouped by kind. Inactive candidates are not found.
func (s *Service) GetCandidate(ctx context.Context, id int64) (*Detail, error) {
	summary, err := s.store.FindSummary(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "candidate not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
	}
	if !summary.Candidate.Active {
		return nil, dErrors.New(dErrors.CodeNotFound, "candidate not found")
	}

	records, err := s.store.ListBackground(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load background records")
	}

	detail := &Detail{
		Summary:    *summary,
		Complaints: []BackgroundRecord{},
		Projects:   []BackgroundRecord{},
		Proposals:  []BackgroundRecord{},
	}
	for _, rec := range records {
		switch rec.Kind {
		case BackgroundComplaint:
			detail.Complaints = append(detail.Complaints, rec)
		case BackgroundProject:
			detail.Projects = append(detail.Projects, rec)
		case BackgroundProposal:
			detail.Proposals = append(detail.Proposals, rec)
		}
	}
	return detail, nil
}

// CreateCandidate validates then commits a new candidate registration. The
// identity tuple constraint remains the authoritative duplicate guard.
func (s *Service) CreateCandidate(ctx context.Context, input NewCandidate) (*Candidate, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.FindPartyByID(ctx, input.PartyID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "party does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check party")
	}
	if input.RegionID != nil {
		if _, err := s.regions.FindByID(ctx, *input.RegionID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeValidation, "region does not exist")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check region")
		}
	}

	candidate := &Candidate{
		GivenName:       input.GivenName,
		PaternalSurname: input.PaternalSurname,
		MaternalSurname: input.MaternalSurname,
		PartyID:         input.PartyID,
		Office:          input.Office,
		RegionID:        input.RegionID,
		PhotoURL:        input.PhotoURL,
	}
	err := s.store.Create(ctx, candidate)
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return nil, dErrors.New(dErrors.CodeConflict, "candidate already registered for this office and region")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeValidation, "party or region does not exist")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create candidate")
	}

	s.logger.InfoContext(ctx, "candidate registered",
		"candidate_id", candidate.ID,
		"office", candidate.Office,
	)
	return candidate, nil
}
