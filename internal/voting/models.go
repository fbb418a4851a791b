// Package voting owns ballot casting. Eligibility checks run in the service,
// but the one-vote-per-office guarantee lives in the votes unique constraint;
// concurrent duplicates are resolved by the database, never by local state.
package voting

import (
	"time"

	"sufragio/internal/reference"
)

// Vote is one ballot cast by one voter for one office.
type Vote struct {
	ID          int64
	VoterID     int64
	CandidateID int64
	OfficeID    int64
	CreatedAt   time.Time
}

// Office resolves the office name backing the stored id.
func (v *Vote) Office() reference.Office {
	office, _ := reference.OfficeByID(v.OfficeID)
	return office
}

// Detail is a vote joined with the chosen candidate and party, the shape the
// ballot-history endpoint returns.
type Detail struct {
	Vote
	CandidateName string
	PartyName     string
	PartyCode     string
}

// OfficeStatus answers "can this voter still cast for this office".
type OfficeStatus struct {
	Office   reference.Office `json:"office"`
	HasVoted bool             `json:"has_voted"`
	CanVote  bool             `json:"can_vote"`
	VotedAt  *time.Time       `json:"voted_at,omitempty"`
}
