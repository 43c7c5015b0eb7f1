package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registrationerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	registrationhttp "eduvote/contexts/identity-access/registration-service/transport/http"
)

func (s *Server) handleEligibilityCheck(w http.ResponseWriter, r *http.Request) {
	var req registrationhttp.EligibilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registration.Handler.EligibilityHandler(r.Context(), req)
	if err != nil {
		writeRegistrationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registrationhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registration.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeRegistrationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req registrationhttp.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registration.Handler.VerifyHandler(r.Context(), req)
	if err != nil {
		writeRegistrationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registrationhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registration.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeRegistrationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistrationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registrationerrors.ErrIneligibleAge),
		errors.Is(err, registrationerrors.ErrIneligibleCitizenship),
		errors.Is(err, registrationerrors.ErrIneligibleResidency):
		writeError(w, http.StatusUnprocessableEntity, "ineligible", err.Error())
	case errors.Is(err, registrationerrors.ErrInvalidRegistration):
		writeError(w, http.StatusBadRequest, "invalid_registration", err.Error())
	case errors.Is(err, registrationerrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, registrationerrors.ErrTokenInvalid),
		errors.Is(err, registrationerrors.ErrTokenExpired),
		errors.Is(err, registrationerrors.ErrTokenUsed):
		writeError(w, http.StatusBadRequest, "verification_failed", err.Error())
	case errors.Is(err, registrationerrors.ErrNotVerified):
		writeError(w, http.StatusForbidden, "not_verified", err.Error())
	case errors.Is(err, registrationerrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, registrationerrors.ErrVoterNotFound):
		writeError(w, http.StatusNotFound, "voter_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
