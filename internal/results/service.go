package results

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
)

// Service assembles tallies for the read endpoints.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Results returns one tally per office in ballot order, optionally narrowed
// to candidates of one region. The three office queries run concurrently;
// each is an independent snapshot.
func (s *Service) Results(ctx context.Context, regionID *int64) ([]OfficeResults, error) {
	results := make([]OfficeResults, len(reference.Offices))

	g, ctx := errgroup.WithContext(ctx)
	for i, office := range reference.Offices {
		g.Go(func() error {
			rows, err := s.store.ResultsByOffice(ctx, office.ID(), regionID)
			if err != nil {
				return err
			}
			var total int64
			for _, row := range rows {
				total += row.Votes
			}
			results[i] = OfficeResults{Office: office, TotalVotes: total, Candidates: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute results")
	}
	return results, nil
}

// OfficeTally returns the tally for a single office.
func (s *Service) OfficeTally(ctx context.Context, office reference.Office, regionID *int64) (OfficeResults, error) {
	rows, err := s.store.ResultsByOffice(ctx, office.ID(), regionID)
	if err != nil {
		return OfficeResults{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute results")
	}
	var total int64
	for _, row := range rows {
		total += row.Votes
	}
	return OfficeResults{Office: office, TotalVotes: total, Candidates: rows}, nil
}

// ResultsByParty aggregates votes per party, omitting parties without votes.
// An office narrows the tally to that office's ballots.
func (s *Service) ResultsByParty(ctx context.Context, office *reference.Office) ([]PartyTally, error) {
	var officeID *int64
	if office != nil {
		id := office.ID()
		officeID = &id
	}
	tallies, err := s.store.TalliesByParty(ctx, officeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute party tallies")
	}
	return tallies, nil
}

// Statistics gathers the participation snapshot. The four counts run
// concurrently through an errgroup.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var (
		registered int64
		totalVotes int64
		candidates int64
		byOffice   map[int64]int64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		registered, err = s.store.CountEligibleVoters(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		totalVotes, err = s.store.CountVotes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.store.CountActiveCandidates(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		byOffice, err = s.store.CountVotesByOffice(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute statistics")
	}

	stats := Statistics{
		RegisteredVoters:      registered,
		TotalVotes:            totalVotes,
		TotalActiveCandidates: candidates,
		ByOffice:              make([]OfficeTurnout, 0, len(reference.Offices)),
	}
	for _, office := range reference.Offices {
		votes := byOffice[office.ID()]
		turnout := 0.0
		if registered > 0 {
			turnout = float64(votes) / float64(registered)
		}
		stats.ByOffice = append(stats.ByOffice, OfficeTurnout{
			Office:  office,
			Votes:   votes,
			Turnout: turnout,
		})
	}
	return stats, nil
}
