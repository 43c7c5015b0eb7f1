package ports

import (
	"context"
	"time"

	"eduvote/contexts/identity-access/registration-service/domain/entities"
)

// VoterRepository persists voter accounts and verification tokens.
// SaveVoter must return ErrEmailTaken when the email uniqueness constraint
// fires. ConsumeVerificationToken marks the token used and the voter
// verified in one transaction, returning ErrTokenInvalid, ErrTokenExpired,
// or ErrTokenUsed as appropriate.
type VoterRepository interface {
	SaveVoter(ctx context.Context, voter entities.Voter) error
	GetVoter(ctx context.Context, voterID string) (entities.Voter, bool, error)
	GetVoterByEmail(ctx context.Context, email string) (entities.Voter, bool, error)
	SaveVerificationToken(ctx context.Context, token entities.VerificationToken) error
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (entities.Voter, error)
}

// PasswordHasher hides the hashing scheme from the application layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// SessionIssuer mints signed session tokens for verified voters.
type SessionIssuer interface {
	Issue(voterID string, now time.Time) (string, error)
}

// Mailer delivers the verification link. Delivery failures must not lose
// the account; callers log and continue.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email string, token string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// VerificationTokenGenerator yields 64-character lowercase hex tokens from
// a cryptographically secure source.
type VerificationTokenGenerator interface {
	NewVerificationToken(ctx context.Context) (string, error)
}
