package entities

import "time"

type Voter struct {
	VoterID      string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	DateOfBirth  time.Time
	Citizenship  string
	Residency    string
	IsVerified   bool
	CreatedAt    time.Time
}

// VerificationToken is single-use and expires 24 hours after issuance.
type VerificationToken struct {
	Token     string
	VoterID   string
	ExpiresAt time.Time
	UsedAt    *time.Time
}
