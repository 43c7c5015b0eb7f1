package queries

import (
	"context"
	"time"

	"eduvote/contexts/identity-access/registration-service/domain/services"
	"eduvote/contexts/identity-access/registration-service/ports"
)

// EligibilityUseCase answers the pre-screen without creating any state.
type EligibilityUseCase struct {
	Clock ports.Clock
}

type EligibilityCheck struct {
	DateOfBirth time.Time
	Citizenship string
	Residency   string
}

type EligibilityResult struct {
	Eligible bool
	Reason   string
}

func (uc EligibilityUseCase) Check(_ context.Context, check EligibilityCheck) EligibilityResult {
	err := services.CheckEligibility(services.EligibilityInput{
		DateOfBirth: check.DateOfBirth,
		Citizenship: check.Citizenship,
		Residency:   check.Residency,
	}, uc.Clock.Now())
	if err != nil {
		return EligibilityResult{Eligible: false, Reason: err.Error()}
	}
	return EligibilityResult{Eligible: true}
}
