package ports

import (
	"context"
	"time"

	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	"eduvote/internal/shared/events"
	"eduvote/internal/shared/outbox"
)

// CandidateRef and OptionRef carry the identifiers and live labels the cast
// flow needs to validate a submission and freeze the receipt snapshot.
type CandidateRef struct {
	CandidateID string
	Name        string
}

type OptionRef struct {
	OptionID string
	Name     string
}

type PositionBallot struct {
	PositionID string
	Title      string
	MaxVotes   int
	Candidates []CandidateRef
}

type BallotStructure struct {
	ElectionID string
	Type       entities.ElectionType
	Positions  []PositionBallot
	Options    []OptionRef
}

// ElectionCatalog is the voting engine's read-only view of catalog data.
type ElectionCatalog interface {
	GetElection(ctx context.Context, electionID string) (entities.ElectionSnapshot, bool, error)
	GetBallotStructure(ctx context.Context, electionID string) (BallotStructure, error)
}

// BallotRepository persists ballots, receipts, and the outbox row in one
// transaction. RecordBallot must return ErrDuplicateVote when the
// (voter_id, election_id) uniqueness constraint fires and
// ErrReceiptIDCollision when the receipt id is already taken, leaving no
// partial state behind in either case.
type BallotRepository interface {
	RecordBallot(ctx context.Context, ballot entities.Ballot, receipt entities.Receipt, event events.Envelope) error
	GetReceipt(ctx context.Context, receiptID string, voterID string) (entities.Receipt, bool, error)
	ListVoterHistory(ctx context.Context, voterID string) ([]entities.HistoryEntry, error)
	HasVoted(ctx context.Context, voterID string, electionID string) (bool, error)
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, messageID string) error
	MarkOutboxFailed(ctx context.Context, messageID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// VotedHintStore is a non-authoritative fast path for duplicate detection.
// A miss means nothing; a hit lets the cast flow fail early without touching
// the database. Implementations must degrade to no-ops on backend errors.
type VotedHintStore interface {
	HasVotedHint(ctx context.Context, voterID string, electionID string) (bool, error)
	MarkVotedHint(ctx context.Context, voterID string, electionID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ReceiptIDGenerator yields receipt identifiers: 32 lowercase hex characters
// from a cryptographically secure source.
type ReceiptIDGenerator interface {
	NewReceiptID(ctx context.Context) (string, error)
}
