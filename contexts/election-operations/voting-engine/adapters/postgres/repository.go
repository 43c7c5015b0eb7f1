package postgresadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	"eduvote/contexts/election-operations/voting-engine/ports"
	"eduvote/internal/shared/events"
	"eduvote/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
	outboxStatusFailed    = "failed"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// RecordBallot commits the ballot header, its selections, the receipt, and
// the outbox row in one transaction. The uq_ballots_voter_election
// constraint is the duplicate-vote authority; a second ballot for the same
// (voter, election) rolls everything back.
func (r *Repository) RecordBallot(ctx context.Context, ballot entities.Ballot, receipt entities.Receipt, event events.Envelope) error {
	choicesJSON, err := json.Marshal(receipt.Choices)
	if err != nil {
		return r.logError("voting_repo_marshal_choices_failed", err,
			"ballot_id", strings.TrimSpace(ballot.BallotID),
		)
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return r.logError("voting_repo_marshal_event_failed", err,
			"ballot_id", strings.TrimSpace(ballot.BallotID),
		)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := ballotModelFromEntity(ballot)
		if createErr := tx.Create(&header).Error; createErr != nil {
			if isUniqueViolation(createErr) {
				return domainerrors.ErrDuplicateVote
			}
			return createErr
		}

		rows := make([]ballotSelectionModel, 0, len(ballot.Selections))
		for _, selection := range ballot.Selections {
			rows = append(rows, selectionModelFromEntity(ballot.BallotID, selection))
		}
		if len(rows) > 0 {
			if createErr := tx.Create(&rows).Error; createErr != nil {
				return createErr
			}
		}

		receiptRow := receiptModelFromEntity(receipt, string(choicesJSON))
		if createErr := tx.Create(&receiptRow).Error; createErr != nil {
			if isUniqueViolation(createErr) {
				return domainerrors.ErrReceiptIDCollision
			}
			return createErr
		}

		outboxRow := outboxModel{
			MessageID: uuid.NewString(),
			EventType: event.EventType,
			Payload:   eventJSON,
			Status:    outboxStatusPending,
			CreatedAt: ballot.CastAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) || errors.Is(err, domainerrors.ErrReceiptIDCollision) {
			return err
		}
		return r.logError("voting_repo_record_ballot_failed", err,
			"ballot_id", strings.TrimSpace(ballot.BallotID),
			"election_id", strings.TrimSpace(ballot.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetReceipt(ctx context.Context, receiptID string, voterID string) (entities.Receipt, bool, error) {
	var row voteReceiptModel
	err := r.db.WithContext(ctx).
		Where("receipt_id = ? AND voter_id = ?", strings.TrimSpace(receiptID), strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Receipt{}, false, nil
		}
		return entities.Receipt{}, false, r.logError("voting_repo_get_receipt_failed", err)
	}
	receipt, err := row.toEntity()
	if err != nil {
		return entities.Receipt{}, false, r.logError("voting_repo_decode_receipt_failed", err,
			"receipt_id", row.ReceiptID,
		)
	}
	return receipt, true, nil
}

func (r *Repository) HasVoted(ctx context.Context, voterID string, electionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("voter_id = ? AND election_id = ?", strings.TrimSpace(voterID), strings.TrimSpace(electionID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("voting_repo_has_voted_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return count > 0, nil
}

// ListVoterHistory labels each recorded selection with current catalog
// names. Left joins keep selections visible after catalog rows are deleted.
func (r *Repository) ListVoterHistory(ctx context.Context, voterID string) ([]entities.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Table("ballot_selections").
		Select(`ballots.election_id,
			COALESCE(elections.title, '') AS election_title,
			COALESCE(positions.title, '') AS position_title,
			COALESCE(candidates.name, '') AS candidate_name,
			COALESCE(options.name, '') AS option_name,
			ballots.cast_at`).
		Joins("JOIN ballots ON ballots.ballot_id = ballot_selections.ballot_id").
		Joins("LEFT JOIN elections ON elections.id = ballots.election_id").
		Joins("LEFT JOIN positions ON positions.id = ballot_selections.position_id").
		Joins("LEFT JOIN candidates ON candidates.id = ballot_selections.candidate_id").
		Joins("LEFT JOIN options ON options.id = ballot_selections.option_id").
		Where("ballots.voter_id = ?", strings.TrimSpace(voterID)).
		Order("ballots.cast_at DESC, ballot_selections.selection_id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_list_history_failed", err)
	}
	items := make([]entities.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.HistoryEntry{
			ElectionID:    row.ElectionID,
			ElectionTitle: row.ElectionTitle,
			PositionTitle: row.PositionTitle,
			CandidateName: row.CandidateName,
			OptionName:    row.OptionName,
			CastAt:        row.CastAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("voting_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			ID:         row.MessageID,
			EventType:  row.EventType,
			Payload:    append([]byte(nil), row.Payload...),
			Status:     row.Status,
			RetryCount: row.RetryCount,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, messageID string) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("message_id = ?", strings.TrimSpace(messageID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_published_failed", result.Error,
			"message_id", strings.TrimSpace(messageID),
		)
	}
	return nil
}

func (r *Repository) MarkOutboxFailed(ctx context.Context, messageID string) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("message_id = ?", strings.TrimSpace(messageID)).
		Updates(map[string]any{
			"status":      outboxStatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
		})
	if result.Error != nil {
		return r.logError("voting_repo_mark_outbox_failed_failed", result.Error,
			"message_id", strings.TrimSpace(messageID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ballotModel struct {
	BallotID   string    `gorm:"column:ballot_id;primaryKey"`
	VoterID    string    `gorm:"column:voter_id;uniqueIndex:uq_ballots_voter_election"`
	ElectionID string    `gorm:"column:election_id;uniqueIndex:uq_ballots_voter_election"`
	CastAt     time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	return ballotModel{
		BallotID:   strings.TrimSpace(ballot.BallotID),
		VoterID:    strings.TrimSpace(ballot.VoterID),
		ElectionID: strings.TrimSpace(ballot.ElectionID),
		CastAt:     ballot.CastAt.UTC(),
	}
}

type ballotSelectionModel struct {
	SelectionID string `gorm:"column:selection_id;primaryKey"`
	BallotID    string `gorm:"column:ballot_id;index"`
	PositionID  string `gorm:"column:position_id"`
	CandidateID string `gorm:"column:candidate_id"`
	OptionID    string `gorm:"column:option_id"`
}

func (ballotSelectionModel) TableName() string {
	return "ballot_selections"
}

func selectionModelFromEntity(ballotID string, selection entities.Selection) ballotSelectionModel {
	return ballotSelectionModel{
		SelectionID: strings.TrimSpace(selection.SelectionID),
		BallotID:    strings.TrimSpace(ballotID),
		PositionID:  strings.TrimSpace(selection.PositionID),
		CandidateID: strings.TrimSpace(selection.CandidateID),
		OptionID:    strings.TrimSpace(selection.OptionID),
	}
}

type voteReceiptModel struct {
	ReceiptID     string    `gorm:"column:receipt_id;primaryKey"`
	VoterID       string    `gorm:"column:voter_id;index"`
	ElectionID    string    `gorm:"column:election_id"`
	ElectionTitle string    `gorm:"column:election_title"`
	ElectionType  string    `gorm:"column:election_type"`
	Choices       string    `gorm:"column:choices_snapshot;type:jsonb"`
	IssuedAt      time.Time `gorm:"column:issued_at"`
}

func (voteReceiptModel) TableName() string {
	return "vote_receipts"
}

func receiptModelFromEntity(receipt entities.Receipt, choicesJSON string) voteReceiptModel {
	return voteReceiptModel{
		ReceiptID:     strings.TrimSpace(receipt.ReceiptID),
		VoterID:       strings.TrimSpace(receipt.VoterID),
		ElectionID:    strings.TrimSpace(receipt.ElectionID),
		ElectionTitle: receipt.ElectionTitle,
		ElectionType:  string(receipt.Type),
		Choices:       choicesJSON,
		IssuedAt:      receipt.IssuedAt.UTC(),
	}
}

func (m voteReceiptModel) toEntity() (entities.Receipt, error) {
	var choices []entities.ReceiptChoice
	if err := json.Unmarshal([]byte(m.Choices), &choices); err != nil {
		return entities.Receipt{}, err
	}
	return entities.Receipt{
		ReceiptID:     m.ReceiptID,
		VoterID:       m.VoterID,
		ElectionID:    m.ElectionID,
		ElectionTitle: m.ElectionTitle,
		Type:          entities.ElectionType(m.ElectionType),
		Choices:       choices,
		IssuedAt:      m.IssuedAt.UTC(),
	}, nil
}

type outboxModel struct {
	MessageID   string     `gorm:"column:message_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status;index"`
	RetryCount  int        `gorm:"column:retry_count"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "voting_outbox"
}

type historyRow struct {
	ElectionID    string    `gorm:"column:election_id"`
	ElectionTitle string    `gorm:"column:election_title"`
	PositionTitle string    `gorm:"column:position_title"`
	CandidateName string    `gorm:"column:candidate_name"`
	OptionName    string    `gorm:"column:option_name"`
	CastAt        time.Time `gorm:"column:cast_at"`
}

// SystemClock provides wall-clock time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues ballot and selection identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// HexReceiptIDGenerator issues 32-character lowercase hex receipt ids from
// 16 cryptographically random bytes.
type HexReceiptIDGenerator struct{}

func (HexReceiptIDGenerator) NewReceiptID(_ context.Context) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
var _ ports.ReceiptIDGenerator = HexReceiptIDGenerator{}
