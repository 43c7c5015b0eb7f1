package services

import (
	"time"

	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
)

var eligibleCitizenships = map[string]bool{
	"US": true,
	"CA": true,
	"UK": true,
	"AU": true,
	"NZ": true,
}

var eligibleResidencies = map[string]bool{
	"citizen":            true,
	"permanent_resident": true,
}

type EligibilityInput struct {
	DateOfBirth time.Time
	Citizenship string
	Residency   string
}

// CheckEligibility applies the voter eligibility rules: at least 18 years
// old on the evaluation date, an eligible citizenship, and an eligible
// residency status. The first failing rule is returned.
func CheckEligibility(input EligibilityInput, now time.Time) error {
	if ageAt(input.DateOfBirth, now) < 18 {
		return domainerrors.ErrIneligibleAge
	}
	if !eligibleCitizenships[input.Citizenship] {
		return domainerrors.ErrIneligibleCitizenship
	}
	if !eligibleResidencies[input.Residency] {
		return domainerrors.ErrIneligibleResidency
	}
	return nil
}

// ageAt computes full years elapsed, honoring the birthday boundary: a
// voter turning 18 on the evaluation date is already 18.
func ageAt(dateOfBirth, now time.Time) int {
	years := now.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
