package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"eduvote/contexts/election-operations/voting-engine/application"
	"eduvote/contexts/election-operations/voting-engine/ports"
	"eduvote/internal/shared/events"
)

// OutboxRelay drains pending outbox rows and publishes them to the event
// bus. Rows are committed alongside the ballot, so every recorded vote
// eventually produces exactly one published event.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) Run(ctx context.Context, period time.Duration) {
	logger := application.ResolveLogger(r.Logger)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox relay stopped",
				"event", "outbox_relay_stopped",
				"module", "election-operations/voting-engine",
				"layer", "worker",
			)
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				logger.Error("outbox relay pass failed",
					"event", "outbox_relay_pass_failed",
					"module", "election-operations/voting-engine",
					"layer", "worker",
					"error", err.Error(),
				)
			}
		}
	}
}

// RunOnce publishes one batch. It stops at the first failing row so ordering
// within the batch is preserved; the failed row is retried on the next pass.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	pending, err := r.Outbox.ListPendingOutbox(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			// A row that cannot be decoded will never publish; park it.
			if markErr := r.Outbox.MarkOutboxFailed(ctx, message.ID); markErr != nil {
				return markErr
			}
			logger.Error("outbox row is not a valid envelope",
				"event", "outbox_relay_bad_payload",
				"module", "election-operations/voting-engine",
				"layer", "worker",
				"message_id", message.ID,
				"error", err.Error(),
			)
			continue
		}

		if err := r.Publisher.Publish(ctx, message.EventType, envelope); err != nil {
			if markErr := r.Outbox.MarkOutboxFailed(ctx, message.ID); markErr != nil {
				return markErr
			}
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, message.ID); err != nil {
			return err
		}

		logger.Info("outbox event published",
			"event", "outbox_relay_published",
			"module", "election-operations/voting-engine",
			"layer", "worker",
			"message_id", message.ID,
			"event_type", message.EventType,
		)
	}
	return nil
}
