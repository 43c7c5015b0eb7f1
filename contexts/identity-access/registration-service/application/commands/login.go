package commands

import (
	"context"
	"log/slog"
	"strings"

	"eduvote/contexts/identity-access/registration-service/application"
	"eduvote/contexts/identity-access/registration-service/domain/entities"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	"eduvote/contexts/identity-access/registration-service/ports"
)

// LoginUseCase authenticates verified voters and mints session tokens.
type LoginUseCase struct {
	Voters   ports.VoterRepository
	Hasher   ports.PasswordHasher
	Sessions ports.SessionIssuer
	Clock    ports.Clock
	Logger   *slog.Logger
}

type LoginResult struct {
	Voter entities.Voter
	Token string
}

func (uc LoginUseCase) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	voter, found, err := uc.Voters.GetVoterByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	// An unknown email and a wrong password produce the same denial.
	if !found {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}
	if err := uc.Hasher.Compare(voter.PasswordHash, password); err != nil {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}
	if !voter.IsVerified {
		return LoginResult{}, domainerrors.ErrNotVerified
	}

	token, err := uc.Sessions.Issue(voter.VoterID, uc.Clock.Now())
	if err != nil {
		return LoginResult{}, err
	}

	logger.Info("voter logged in",
		"event", "registration_login",
		"module", "identity-access/registration-service",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return LoginResult{Voter: voter, Token: token}, nil
}
