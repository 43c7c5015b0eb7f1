package commands

import (
	"context"
	"time"

	"eduvote/contexts/election-operations/voting-engine/ports"
	"eduvote/internal/shared/events"
)

const (
	sourceService     = "election-operations/voting-engine"
	EventVoteRecorded = "vote.recorded"
)

type voteRecordedPayload struct {
	BallotID   string    `json:"ballot_id"`
	VoterID    string    `json:"voter_id"`
	ElectionID string    `json:"election_id"`
	ReceiptID  string    `json:"receipt_id"`
	CastAtUTC  time.Time `json:"cast_at_utc"`
}

func newVotingEnvelope(ctx context.Context, idGen ports.IDGenerator, now time.Time, eventType string, entityID string, payload any) (events.Envelope, error) {
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return events.Envelope{}, err
	}
	correlationID, err := idGen.NewID(ctx)
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  now.UTC(),
		CorrelationID:  correlationID,
		EntityType:     "ballot",
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}, nil
}
