package services

import (
	"errors"
	"testing"
	"time"

	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
)

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input EligibilityInput
		want  error
	}{
		{
			name: "eligible adult",
			input: EligibilityInput{
				DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
				Citizenship: "US",
				Residency:   "citizen",
			},
		},
		{
			name: "eighteenth birthday today",
			input: EligibilityInput{
				DateOfBirth: time.Date(2008, 4, 15, 0, 0, 0, 0, time.UTC),
				Citizenship: "CA",
				Residency:   "permanent_resident",
			},
		},
		{
			name: "eighteenth birthday tomorrow",
			input: EligibilityInput{
				DateOfBirth: time.Date(2008, 4, 16, 0, 0, 0, 0, time.UTC),
				Citizenship: "CA",
				Residency:   "citizen",
			},
			want: domainerrors.ErrIneligibleAge,
		},
		{
			name: "ineligible citizenship",
			input: EligibilityInput{
				DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
				Citizenship: "DE",
				Residency:   "citizen",
			},
			want: domainerrors.ErrIneligibleCitizenship,
		},
		{
			name: "ineligible residency",
			input: EligibilityInput{
				DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
				Citizenship: "UK",
				Residency:   "student_visa",
			},
			want: domainerrors.ErrIneligibleResidency,
		},
		{
			name: "age checked before citizenship",
			input: EligibilityInput{
				DateOfBirth: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
				Citizenship: "DE",
				Residency:   "student_visa",
			},
			want: domainerrors.ErrIneligibleAge,
		},
	}
	for _, tc := range cases {
		err := CheckEligibility(tc.input, now)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
