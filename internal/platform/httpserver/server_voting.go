package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votingerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	votinghttp "eduvote/contexts/election-operations/voting-engine/transport/http"
)

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}

	var req votinghttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.voting.Handler.CastBallotHandler(r.Context(), voterID, r.PathValue("election_id"), req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}

	resp, err := s.voting.Handler.ReceiptHandler(r.Context(), voterID, r.PathValue("receipt_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingHistory(w http.ResponseWriter, r *http.Request) {
	voterID := s.requireVoter(w, r)
	if voterID == "" {
		return
	}

	resp, err := s.voting.Handler.VotingHistoryHandler(r.Context(), voterID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrElectionNotFound):
		writeError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrElectionNotOpen):
		writeError(w, http.StatusConflict, "election_not_open", err.Error())
	case errors.Is(err, votingerrors.ErrDuplicateVote):
		writeError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidBallot):
		writeError(w, http.StatusUnprocessableEntity, "invalid_ballot", err.Error())
	case errors.Is(err, votingerrors.ErrReceiptAccessDenied):
		writeError(w, http.StatusNotFound, "receipt_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
