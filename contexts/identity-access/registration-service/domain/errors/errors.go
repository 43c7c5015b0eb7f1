package errors

import "errors"

var (
	ErrIneligibleAge         = errors.New("voter must be at least 18 years old")
	ErrIneligibleCitizenship = errors.New("citizenship is not eligible")
	ErrIneligibleResidency   = errors.New("residency status is not eligible")
	ErrInvalidRegistration   = errors.New("registration input is invalid")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrVoterNotFound         = errors.New("voter not found")
	ErrTokenInvalid          = errors.New("verification token is invalid")
	ErrTokenExpired          = errors.New("verification token has expired")
	ErrTokenUsed             = errors.New("verification token was already used")
	ErrNotVerified           = errors.New("account email is not verified")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)
