package queries

import (
	"context"
	"log/slog"

	"eduvote/contexts/election-operations/voting-engine/application"
	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	"eduvote/contexts/election-operations/voting-engine/ports"
)

// ReceiptUseCase serves receipt retrieval and voting history.
type ReceiptUseCase struct {
	Ballots ports.BallotRepository
	Logger  *slog.Logger
}

// Receipt returns the frozen receipt for the requesting voter. An unknown
// receipt id and a receipt owned by another voter produce the same denial,
// so a caller probing ids learns nothing about which receipts exist.
func (uc ReceiptUseCase) Receipt(ctx context.Context, receiptID string, voterID string) (entities.Receipt, error) {
	logger := application.ResolveLogger(uc.Logger)

	if receiptID == "" || voterID == "" {
		return entities.Receipt{}, domainerrors.ErrReceiptAccessDenied
	}
	receipt, found, err := uc.Ballots.GetReceipt(ctx, receiptID, voterID)
	if err != nil {
		return entities.Receipt{}, err
	}
	if !found {
		logger.Info("receipt lookup denied",
			"event", "receipt_lookup_denied",
			"module", "election-operations/voting-engine",
			"layer", "application",
		)
		return entities.Receipt{}, domainerrors.ErrReceiptAccessDenied
	}
	return receipt, nil
}

// VotingHistory lists the voter's recorded selections labeled with current
// catalog names. Selections whose catalog rows were deleted still appear,
// with the label fields left empty.
func (uc ReceiptUseCase) VotingHistory(ctx context.Context, voterID string) ([]entities.HistoryEntry, error) {
	if voterID == "" {
		return nil, nil
	}
	return uc.Ballots.ListVoterHistory(ctx, voterID)
}
