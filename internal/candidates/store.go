package candidates

import "context"

// Store abstracts party/candidate persistence. The Ensure/Add methods exist
// for the seed loader, which reuses the same interface.
type Store interface {
	ListParties(ctx context.Context) ([]Party, error)
	FindPartyByID(ctx context.Context, id int64) (*Party, error)
	FindPartyByCode(ctx context.Context, code string) (*Party, error)
	EnsureParty(ctx context.Context, party *Party) error

	List(ctx context.Context, filters Filters) ([]Summary, error)
	Find(ctx context.Context, id int64) (*Candidate, error)
	FindSummary(ctx context.Context, id int64) (*Summary, error)
	Create(ctx context.Context, candidate *Candidate) error

	ListBackground(ctx context.Context, candidateID int64) ([]BackgroundRecord, error)
	AddBackground(ctx context.Context, record *BackgroundRecord) error
}
