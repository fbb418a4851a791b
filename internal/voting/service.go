package voting

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
	"sufragio/pkg/platform/sentinel"
	"sufragio/pkg/requestcontext"
)

// VoterDirectory is the slice of the identity module the ballot path needs.
type VoterDirectory interface {
	FindByID(ctx context.Context, id int64) (*identity.Voter, error)
}

// CandidateDirectory is the slice of the candidate registry the ballot path
// needs.
type CandidateDirectory interface {
	Find(ctx context.Context, id int64) (*candidates.Candidate, error)
}

// Service coordinates eligibility checks and ballot persistence.
type Service struct {
	store      Store
	voters     VoterDirectory
	candidates CandidateDirectory
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

func NewService(
	store Store,
	voters VoterDirectory,
	candidates CandidateDirectory,
	logger *slog.Logger,
	metrics *Metrics,
) *Service {
	return &Service{
		store:      store,
		voters:     voters,
		candidates: candidates,
		logger:     logger,
		metrics:    metrics,
		tracer:     otel.Tracer("sufragio/voting"),
	}
}

// CastVote records one ballot for the authenticated voter. All checks are
// advisory; the store's uniqueness guarantee decides races.
func (s *Service) CastVote(ctx context.Context, voterID, candidateID int64) (*Vote, error) {
	ctx, span := s.tracer.Start(ctx, "voting.cast",
		trace.WithAttributes(attribute.Int64("candidate.id", candidateID)))
	defer span.End()

	voter, err := s.voters.FindByID(ctx, voterID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "voter not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter")
	}

	candidate, err := s.candidates.Find(ctx, candidateID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementRejections("unknown_candidate")
		return nil, dErrors.New(dErrors.CodeValidation, "candidate not found or inactive")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
	}

	if err := CheckEligibility(voter, candidate); err != nil {
		s.metrics.IncrementRejections(string(dErrors.CodeOf(err)))
		return nil, err
	}

	vote := &Vote{
		VoterID:     voter.ID,
		CandidateID: candidate.ID,
		OfficeID:    candidate.Office.ID(),
	}
	err = s.store.Insert(ctx, vote)
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		s.metrics.IncrementRejections("duplicate")
		return nil, dErrors.New(dErrors.CodeConflict, "already voted for this office")
	case errors.Is(err, sentinel.ErrNotFound):
		// Candidate or voter vanished between the read and the insert.
		return nil, dErrors.New(dErrors.CodeValidation, "candidate not found or inactive")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote")
	}

	s.metrics.IncrementVotesCast(string(candidate.Office))
	s.logger.InfoContext(ctx, "vote cast",
		"voter_id", voter.ID,
		"office", candidate.Office,
		"request_id", requestcontext.RequestID(ctx),
	)
	return vote, nil
}

// CanVote reports whether the voter may still cast for the given office.
func (s *Service) CanVote(ctx context.Context, voterID int64, office reference.Office) (OfficeStatus, error) {
	voter, err := s.voters.FindByID(ctx, voterID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return OfficeStatus{}, dErrors.New(dErrors.CodeUnauthorized, "voter not found")
	}
	if err != nil {
		return OfficeStatus{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter")
	}

	castAt, err := s.store.HasVoted(ctx, voterID, office.ID())
	if err != nil {
		return OfficeStatus{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vote")
	}
	return OfficeStatus{
		Office:   office,
		HasVoted: castAt != nil,
		CanVote:  castAt == nil && voter.Active && voter.CanVote(),
		VotedAt:  castAt,
	}, nil
}

// MyVotes returns the voter's ballot history in office order.
func (s *Service) MyVotes(ctx context.Context, voterID int64) ([]Detail, error) {
	details, err := s.store.ListByVoter(ctx, voterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list votes")
	}
	return details, nil
}
