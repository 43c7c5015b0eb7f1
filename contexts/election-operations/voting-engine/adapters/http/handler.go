package httpadapter

import (
	"context"
	"errors"
	"log/slog"

	"eduvote/contexts/election-operations/voting-engine/application/commands"
	"eduvote/contexts/election-operations/voting-engine/application/queries"
	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	httptransport "eduvote/contexts/election-operations/voting-engine/transport/http"
	"eduvote/internal/platform/metrics"
)

type Handler struct {
	Cast     commands.CastUseCase
	Receipts queries.ReceiptUseCase
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func (h Handler) CastBallotHandler(ctx context.Context, voterID string, electionID string, req httptransport.CastBallotRequest) (httptransport.ReceiptResponse, error) {
	receipt, err := h.Cast.CastBallot(ctx, commands.CastBallotCommand{
		VoterID:          voterID,
		ElectionID:       electionID,
		CandidateChoices: req.CandidateChoices,
		OptionID:         req.OptionID,
	})
	if err != nil {
		h.countCastFailure(err)
		return httptransport.ReceiptResponse{}, err
	}
	if h.Metrics != nil {
		h.Metrics.BallotsCast.Inc()
	}
	return mapReceipt(receipt), nil
}

func (h Handler) ReceiptHandler(ctx context.Context, voterID string, receiptID string) (httptransport.ReceiptResponse, error) {
	if h.Metrics != nil {
		h.Metrics.ReceiptLookups.Inc()
	}
	receipt, err := h.Receipts.Receipt(ctx, receiptID, voterID)
	if err != nil {
		if h.Metrics != nil && errors.Is(err, domainerrors.ErrReceiptAccessDenied) {
			h.Metrics.ReceiptDenied.Inc()
		}
		return httptransport.ReceiptResponse{}, err
	}
	return mapReceipt(receipt), nil
}

func (h Handler) VotingHistoryHandler(ctx context.Context, voterID string) (httptransport.VotingHistoryResponse, error) {
	entries, err := h.Receipts.VotingHistory(ctx, voterID)
	if err != nil {
		return httptransport.VotingHistoryResponse{}, err
	}
	resp := httptransport.VotingHistoryResponse{
		Items: make([]httptransport.HistoryEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		resp.Items = append(resp.Items, httptransport.HistoryEntryResponse{
			ElectionID:    entry.ElectionID,
			ElectionTitle: entry.ElectionTitle,
			PositionTitle: entry.PositionTitle,
			CandidateName: entry.CandidateName,
			OptionName:    entry.OptionName,
			CastAt:        entry.CastAt,
		})
	}
	return resp, nil
}

func (h Handler) countCastFailure(err error) {
	if h.Metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domainerrors.ErrDuplicateVote):
		h.Metrics.DuplicateRejected.Inc()
	case errors.Is(err, domainerrors.ErrInvalidBallot):
		h.Metrics.InvalidBallots.Inc()
	}
}

func mapReceipt(receipt entities.Receipt) httptransport.ReceiptResponse {
	resp := httptransport.ReceiptResponse{
		ReceiptID:     receipt.ReceiptID,
		ElectionID:    receipt.ElectionID,
		ElectionTitle: receipt.ElectionTitle,
		ElectionType:  string(receipt.Type),
		Choices:       make([]httptransport.ReceiptChoiceEntry, 0, len(receipt.Choices)),
		IssuedAt:      receipt.IssuedAt,
	}
	for _, choice := range receipt.Choices {
		resp.Choices = append(resp.Choices, httptransport.ReceiptChoiceEntry{
			Label:  choice.Label,
			Choice: choice.Choice,
		})
	}
	return resp
}
