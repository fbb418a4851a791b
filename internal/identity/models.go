// Package identity onboards voters. Registration verifies the national id
// against the external registry collaborator before any local record exists;
// a voter is never created from a vote-casting request.
package identity

import (
	"time"

	dErrors "sufragio/pkg/domain-errors"
)

// Role distinguishes registered voters from guests. Guests can browse but
// never cast.
type Role string

const (
	RoleVoter Role = "voter"
	RoleGuest Role = "guest"
)

// Voter is the local record bound to a region at registration time. The
// region is fixed thereafter; there is deliberately no update path.
type Voter struct {
	ID              int64
	NationalID      string
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	RegionID        int64
	Role            Role
	Active          bool
	CredentialHash  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName joins the three name parts for display.
func (v *Voter) FullName() string {
	return v.GivenName + " " + v.PaternalSurname + " " + v.MaternalSurname
}

// CanVote reports whether the voter role is entitled to cast.
func (v *Voter) CanVote() bool { return v.Role == RoleVoter }

// PersonRecord is the normalized answer from the identity registry.
type PersonRecord struct {
	NationalID      string `json:"national_id"`
	GivenName       string `json:"given_name"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
}

// ValidateNationalID enforces the fixed 8-digit numeric format before any
// registry call is attempted.
func ValidateNationalID(nationalID string) error {
	if len(nationalID) != 8 {
		return dErrors.New(dErrors.CodeValidation, "national id must be exactly 8 numeric digits")
	}
	for _, r := range nationalID {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeValidation, "national id must be exactly 8 numeric digits")
		}
	}
	return nil
}

// TokenPair is issued on successful registration, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int64  `json:"expires_in"`
}
