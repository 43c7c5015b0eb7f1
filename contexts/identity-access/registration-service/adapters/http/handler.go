package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"eduvote/contexts/identity-access/registration-service/application/commands"
	"eduvote/contexts/identity-access/registration-service/application/queries"
	"eduvote/contexts/identity-access/registration-service/domain/entities"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	httptransport "eduvote/contexts/identity-access/registration-service/transport/http"
	"eduvote/internal/platform/metrics"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Register    commands.RegisterUseCase
	Verify      commands.VerifyUseCase
	Login       commands.LoginUseCase
	Eligibility queries.EligibilityUseCase
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

func (h Handler) EligibilityHandler(ctx context.Context, req httptransport.EligibilityCheckRequest) (httptransport.EligibilityCheckResponse, error) {
	dateOfBirth, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return httptransport.EligibilityCheckResponse{}, domainerrors.ErrInvalidRegistration
	}
	result := h.Eligibility.Check(ctx, queries.EligibilityCheck{
		DateOfBirth: dateOfBirth,
		Citizenship: req.Citizenship,
		Residency:   req.Residency,
	})
	return httptransport.EligibilityCheckResponse{
		Eligible: result.Eligible,
		Reason:   result.Reason,
	}, nil
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.VoterResponse, error) {
	dateOfBirth, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return httptransport.VoterResponse{}, domainerrors.ErrInvalidRegistration
	}
	voter, err := h.Register.Register(ctx, commands.RegisterCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dateOfBirth,
		Citizenship: req.Citizenship,
		Residency:   req.Residency,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	if h.Metrics != nil {
		h.Metrics.VotersRegistered.Inc()
	}
	return mapVoter(voter), nil
}

func (h Handler) VerifyHandler(ctx context.Context, req httptransport.VerifyRequest) (httptransport.VoterResponse, error) {
	voter, err := h.Verify.Verify(ctx, req.Token)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return mapVoter(voter), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Login.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token: result.Token,
		Voter: mapVoter(result.Voter),
	}, nil
}

func mapVoter(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		VoterID:    voter.VoterID,
		FirstName:  voter.FirstName,
		LastName:   voter.LastName,
		Email:      voter.Email,
		IsVerified: voter.IsVerified,
	}
}
