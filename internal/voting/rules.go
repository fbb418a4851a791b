package voting

import (
	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	dErrors "sufragio/pkg/domain-errors"
)

// CheckEligibility applies the pure casting rules for a voter/candidate pair.
// It deliberately does not look at prior votes; duplicate detection belongs to
// the store so the check and the insert cannot race.
func CheckEligibility(voter *identity.Voter, candidate *candidates.Candidate) error {
	if !voter.Active {
		return dErrors.New(dErrors.CodeForbidden, "voter account is disabled")
	}
	if !voter.CanVote() {
		return dErrors.New(dErrors.CodeForbidden, "guests must register to vote")
	}
	if !candidate.Active {
		return dErrors.New(dErrors.CodeValidation, "candidate unavailable")
	}
	if candidate.Office.RegionScoped() {
		if candidate.RegionID == nil || *candidate.RegionID != voter.RegionID {
			return dErrors.New(dErrors.CodeValidation, "representative votes restricted to voter's own region")
		}
	}
	return nil
}
