package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"eduvote/contexts/identity-access/registration-service/application"
	"eduvote/contexts/identity-access/registration-service/domain/entities"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	"eduvote/contexts/identity-access/registration-service/domain/services"
	"eduvote/contexts/identity-access/registration-service/ports"
)

const (
	minPasswordLength      = 8
	defaultVerificationTTL = 24 * time.Hour
)

// RegisterUseCase creates unverified voter accounts behind the eligibility
// gate and issues single-use verification tokens.
type RegisterUseCase struct {
	Voters          ports.VoterRepository
	Hasher          ports.PasswordHasher
	Mailer          ports.Mailer
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	TokenGen        ports.VerificationTokenGenerator
	VerificationTTL time.Duration
	Logger          *slog.Logger
}

type RegisterCommand struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth time.Time
	Citizenship string
	Residency   string
}

func (uc RegisterUseCase) Register(ctx context.Context, cmd RegisterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now()

	firstName := strings.TrimSpace(cmd.FirstName)
	lastName := strings.TrimSpace(cmd.LastName)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if firstName == "" || lastName == "" || email == "" || !strings.Contains(email, "@") {
		return entities.Voter{}, domainerrors.ErrInvalidRegistration
	}
	if len(cmd.Password) < minPasswordLength {
		return entities.Voter{}, domainerrors.ErrInvalidRegistration
	}

	if err := services.CheckEligibility(services.EligibilityInput{
		DateOfBirth: cmd.DateOfBirth,
		Citizenship: cmd.Citizenship,
		Residency:   cmd.Residency,
	}, now); err != nil {
		return entities.Voter{}, err
	}

	passwordHash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.Voter{}, err
	}
	voterID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Voter{}, err
	}

	voter := entities.Voter{
		VoterID:      voterID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		DateOfBirth:  cmd.DateOfBirth,
		Citizenship:  cmd.Citizenship,
		Residency:    cmd.Residency,
		CreatedAt:    now,
	}
	if err := uc.Voters.SaveVoter(ctx, voter); err != nil {
		return entities.Voter{}, err
	}

	token, err := uc.TokenGen.NewVerificationToken(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	ttl := uc.VerificationTTL
	if ttl <= 0 {
		ttl = defaultVerificationTTL
	}
	if err := uc.Voters.SaveVerificationToken(ctx, entities.VerificationToken{
		Token:     token,
		VoterID:   voterID,
		ExpiresAt: now.Add(ttl),
	}); err != nil {
		return entities.Voter{}, err
	}

	// The account exists even if the email never leaves the building; the
	// voter can request a fresh token later.
	if err := uc.Mailer.SendVerificationEmail(ctx, email, token); err != nil {
		logger.Warn("verification email delivery failed",
			"event", "registration_email_failed",
			"module", "identity-access/registration-service",
			"layer", "application",
			"voter_id", voterID,
			"error", err.Error(),
		)
	}

	logger.Info("voter registered",
		"event", "registration_created",
		"module", "identity-access/registration-service",
		"layer", "application",
		"voter_id", voterID,
	)
	return voter, nil
}
