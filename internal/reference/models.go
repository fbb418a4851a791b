// Package reference holds the static lookup entities: regions and offices.
// Offices are a fixed enumerated set; regions are created once at bootstrap.
// Both are delete-protected while referenced.
package reference

import (
	"time"

	dErrors "sufragio/pkg/domain-errors"
)

// Office is one of the three elected positions with independent balloting.
type Office string

const (
	OfficePresident      Office = "president"
	OfficeSenator        Office = "senator"
	OfficeRepresentative Office = "representative"
)

// Offices lists the fixed enumerated set in ballot order.
var Offices = []Office{OfficePresident, OfficeSenator, OfficeRepresentative}

var officeIDs = map[Office]int64{
	OfficePresident:      1,
	OfficeSenator:        2,
	OfficeRepresentative: 3,
}

// ParseOffice validates an office name from user input.
func ParseOffice(s string) (Office, error) {
	switch Office(s) {
	case OfficePresident, OfficeSenator, OfficeRepresentative:
		return Office(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown office %q", s)
}

// ID returns the fixed row id backing the office in the offices table.
func (o Office) ID() int64 { return officeIDs[o] }

// OfficeByID resolves a stored office id back to its name.
func OfficeByID(id int64) (Office, bool) {
	for office, officeID := range officeIDs {
		if officeID == id {
			return office, true
		}
	}
	return "", false
}

// RegionScoped reports whether candidacy and voting for this office are
// restricted to a single region.
func (o Office) RegionScoped() bool { return o == OfficeRepresentative }

// The synthetic national region substituted at the display layer for
// president and senator candidates without a stored region. Never persisted.
const (
	NationalRegionID   int64  = 0
	NationalRegionName string = "Nacional"
)

// Region is a geographic subdivision scoping representative ballots.
type Region struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
