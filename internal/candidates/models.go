// Package candidates manages parties, candidates and their public background
// records. Writes go through a validate-then-commit pipeline; the identity
// tuple constraint is enforced by the store.
package candidates

import (
	"strings"
	"time"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
)

// Party is a political party. Deactivation is a soft delete; deleting a party
// cascades over its candidates at the storage level.
type Party struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BackgroundKind classifies a public disclosure item.
type BackgroundKind string

const (
	BackgroundComplaint BackgroundKind = "complaint"
	BackgroundProject   BackgroundKind = "project"
	BackgroundProposal  BackgroundKind = "proposal"
)

// ParseBackgroundKind validates a kind from external input.
func ParseBackgroundKind(s string) (BackgroundKind, error) {
	switch BackgroundKind(s) {
	case BackgroundComplaint, BackgroundProject, BackgroundProposal:
		return BackgroundKind(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown background kind %q", s)
}

// BackgroundRecord belongs to exactly one candidate and is cascade-deleted
// with it.
type BackgroundRecord struct {
	ID          int64          `json:"id"`
	CandidateID int64          `json:"-"`
	Kind        BackgroundKind `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	OccurredOn  time.Time      `json:"date"`
	SourceURL   string         `json:"source_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Candidate is a person running for one office, optionally scoped to a region.
type Candidate struct {
	ID              int64
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	PartyID         int64
	Office          reference.Office
	RegionID        *int64
	PhotoURL        string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName joins the three name parts for display.
func (c *Candidate) FullName() string {
	return c.GivenName + " " + c.PaternalSurname + " " + c.MaternalSurname
}

// RegionRef is the API-facing region of a candidate.
type RegionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisplayRegion applies the display rule: a stored region renders as-is; a
// missing region renders as the synthetic national region for president and
// senator, and as null otherwise. Display-layer convenience only.
func DisplayRegion(office reference.Office, regionID *int64, regionName *string) *RegionRef {
	if regionID != nil && regionName != nil {
		return &RegionRef{ID: *regionID, Name: *regionName}
	}
	if office == reference.OfficePresident || office == reference.OfficeSenator {
		return &RegionRef{ID: reference.NationalRegionID, Name: reference.NationalRegionName}
	}
	return nil
}

// Summary is a candidate joined with its party, region name and vote count.
type Summary struct {
	Candidate  Candidate
	Party      Party
	RegionName *string
	VoteCount  int64
}

// Detail extends Summary with background records grouped by kind.
type Detail struct {
	Summary
	Complaints []BackgroundRecord
	Projects   []BackgroundRecord
	Proposals  []BackgroundRecord
}

// Filters narrows candidate listings. Zero values mean "no filter".
type Filters struct {
	Office   *reference.Office
	RegionID *int64
	PartyID  *int64
	Search   string
}

// NewCandidate is the write-path input for candidate registration.
type NewCandidate struct {
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	PartyID         int64
	Office          reference.Office
	RegionID        *int64
	PhotoURL        string
}

// Validate applies the pure business rules that need no storage access.
func (n NewCandidate) Validate() error {
	if strings.TrimSpace(n.GivenName) == "" ||
		strings.TrimSpace(n.PaternalSurname) == "" ||
		strings.TrimSpace(n.MaternalSurname) == "" {
		return dErrors.New(dErrors.CodeValidation, "candidate name requires given name and both surnames")
	}
	if _, err := reference.ParseOffice(string(n.Office)); err != nil {
		return err
	}
	if n.Office.RegionScoped() && n.RegionID == nil {
		return dErrors.New(dErrors.CodeValidation, "Representative candidates require an assigned region")
	}
	if n.PartyID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "candidate requires a party")
	}
	return nil
}
