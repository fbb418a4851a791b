package voting

import (
	"context"
	"time"
)

// Store persists ballots. Insert must be atomic with respect to the
// (voter, office) uniqueness rule and report a duplicate as a conflict.
type Store interface {
	Insert(ctx context.Context, vote *Vote) error
	HasVoted(ctx context.Context, voterID, officeID int64) (*time.Time, error)
	ListByVoter(ctx context.Context, voterID int64) ([]Detail, error)
}
