package reference

import "context"

// RegionStore abstracts region persistence. Postgres in production, memory in
// unit tests.
type RegionStore interface {
	List(ctx context.Context) ([]Region, error)
	FindByID(ctx context.Context, id int64) (*Region, error)
	// Ensure creates the region when absent and returns it either way.
	// Used by the seed loader only.
	Ensure(ctx context.Context, name string) (*Region, error)
}
