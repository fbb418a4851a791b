package identity

import (
	"context"
	"time"
)

// VoterStore abstracts voter persistence. The unique index on national_id is
// the authoritative duplicate-registration guard.
type VoterStore interface {
	Create(ctx context.Context, voter *Voter) error
	FindByNationalID(ctx context.Context, nationalID string) (*Voter, error)
	FindByID(ctx context.Context, id int64) (*Voter, error)
}

// RefreshStore holds opaque refresh tokens. Consume is one-time-use so token
// rotation detects replays.
type RefreshStore interface {
	Save(ctx context.Context, token string, voterID int64, ttl time.Duration) error
	Consume(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, token string) error
}
