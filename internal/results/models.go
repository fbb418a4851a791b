// Package results serves read-only tallies. Everything here is computed from
// the votes table on demand; nothing is cached, so results are always live.
package results

import (
	"sufragio/internal/reference"
)

// CandidateResult is one row of an office tally.
type CandidateResult struct {
	CandidateID int64   `json:"candidate_id"`
	FullName    string  `json:"full_name"`
	PartyName   string  `json:"party_name"`
	PartyCode   string  `json:"party_code"`
	RegionID    *int64  `json:"region_id,omitempty"`
	RegionName  *string `json:"region_name,omitempty"`
	Votes       int64   `json:"votes"`
}

// OfficeResults is the full tally for one office, candidates ordered by votes
// descending then paternal surname.
type OfficeResults struct {
	Office     reference.Office  `json:"office"`
	TotalVotes int64             `json:"total_votes"`
	Candidates []CandidateResult `json:"candidates"`
}

// PartyTally aggregates votes across a party's candidates. Parties with zero
// votes are omitted from by-party listings.
type PartyTally struct {
	PartyID int64  `json:"party_id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Votes   int64  `json:"votes"`
}

// OfficeTurnout is per-office participation. An entry exists for every office
// even before any ballot lands.
type OfficeTurnout struct {
	Office  reference.Office `json:"office"`
	Votes   int64            `json:"votes"`
	Turnout float64          `json:"turnout"`
}

// Statistics is the aggregate participation snapshot.
type Statistics struct {
	RegisteredVoters      int64           `json:"registered_voters"`
	TotalVotes            int64           `json:"total_votes"`
	TotalActiveCandidates int64           `json:"total_active_candidates"`
	ByOffice              []OfficeTurnout `json:"by_office"`
}
