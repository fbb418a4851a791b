package results

import "context"

// Store reads aggregate tallies. All methods are snapshots of committed
// votes; two calls may disagree while casting is in progress. Tallies only
// count votes held by active candidates of active parties, so deactivating a
// candidate removes their ballots from every aggregate at once.
type Store interface {
	ResultsByOffice(ctx context.Context, officeID int64, regionID *int64) ([]CandidateResult, error)
	TalliesByParty(ctx context.Context, officeID *int64) ([]PartyTally, error)
	CountVotesByOffice(ctx context.Context) (map[int64]int64, error)
	CountVotes(ctx context.Context) (int64, error)
	CountEligibleVoters(ctx context.Context) (int64, error)
	CountActiveCandidates(ctx context.Context) (int64, error)
}
