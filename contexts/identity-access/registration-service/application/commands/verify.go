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

// VerifyUseCase redeems a verification token and activates the account.
type VerifyUseCase struct {
	Voters ports.VoterRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc VerifyUseCase) Verify(ctx context.Context, token string) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)

	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Voter{}, domainerrors.ErrTokenInvalid
	}

	voter, err := uc.Voters.ConsumeVerificationToken(ctx, token, uc.Clock.Now())
	if err != nil {
		return entities.Voter{}, err
	}

	logger.Info("voter verified",
		"event", "registration_verified",
		"module", "identity-access/registration-service",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return voter, nil
}
