package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eduvote/contexts/identity-access/registration-service/domain/entities"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	"eduvote/contexts/identity-access/registration-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) SaveVoter(ctx context.Context, voter entities.Voter) error {
	row := voterModelFromEntity(voter)
	create := r.db.WithContext(ctx).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrEmailTaken
		}
		return r.logError("registration_repo_save_voter_failed", create.Error,
			"voter_id", strings.TrimSpace(voter.VoterID),
		)
	}
	return nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (entities.Voter, bool, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, false, nil
		}
		return entities.Voter{}, false, r.logError("registration_repo_get_voter_failed", err,
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetVoterByEmail(ctx context.Context, email string) (entities.Voter, bool, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, false, nil
		}
		return entities.Voter{}, false, r.logError("registration_repo_get_voter_by_email_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveVerificationToken(ctx context.Context, token entities.VerificationToken) error {
	row := tokenModelFromEntity(token)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("registration_repo_save_token_failed", err,
			"voter_id", strings.TrimSpace(token.VoterID),
		)
	}
	return nil
}

// ConsumeVerificationToken redeems a token and activates the voter in one
// transaction, so a token can never verify two accounts or be replayed.
func (r *Repository) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (entities.Voter, error) {
	var voter entities.Voter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row verificationTokenModel
		err := tx.Where("token = ?", strings.TrimSpace(token)).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrTokenInvalid
			}
			return err
		}
		if row.UsedAt != nil {
			return domainerrors.ErrTokenUsed
		}
		if now.After(row.ExpiresAt) {
			return domainerrors.ErrTokenExpired
		}

		usedAt := now.UTC()
		if err := tx.Model(&verificationTokenModel{}).
			Where("token = ?", row.Token).
			Update("used_at", usedAt).Error; err != nil {
			return err
		}

		result := tx.Model(&voterModel{}).
			Where("id = ?", row.VoterID).
			Update("is_verified", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrVoterNotFound
		}

		var voterRow voterModel
		if err := tx.Where("id = ?", row.VoterID).First(&voterRow).Error; err != nil {
			return err
		}
		voter = voterRow.toEntity()
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrTokenInvalid) ||
			errors.Is(err, domainerrors.ErrTokenUsed) ||
			errors.Is(err, domainerrors.ErrTokenExpired) ||
			errors.Is(err, domainerrors.ErrVoterNotFound) {
			return entities.Voter{}, err
		}
		return entities.Voter{}, r.logError("registration_repo_consume_token_failed", err)
	}
	return voter, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/registration-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("registration repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type voterModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Email        string    `gorm:"column:email;uniqueIndex:uq_voters_email"`
	PasswordHash string    `gorm:"column:password_hash"`
	DateOfBirth  time.Time `gorm:"column:date_of_birth"`
	Citizenship  string    `gorm:"column:citizenship"`
	Residency    string    `gorm:"column:residency"`
	IsVerified   bool      `gorm:"column:is_verified"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (voterModel) TableName() string {
	return "voters"
}

func voterModelFromEntity(voter entities.Voter) voterModel {
	return voterModel{
		ID:           strings.TrimSpace(voter.VoterID),
		FirstName:    voter.FirstName,
		LastName:     voter.LastName,
		Email:        strings.ToLower(strings.TrimSpace(voter.Email)),
		PasswordHash: voter.PasswordHash,
		DateOfBirth:  voter.DateOfBirth.UTC(),
		Citizenship:  voter.Citizenship,
		Residency:    voter.Residency,
		IsVerified:   voter.IsVerified,
		CreatedAt:    voter.CreatedAt.UTC(),
	}
}

func (m voterModel) toEntity() entities.Voter {
	return entities.Voter{
		VoterID:      m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DateOfBirth:  m.DateOfBirth.UTC(),
		Citizenship:  m.Citizenship,
		Residency:    m.Residency,
		IsVerified:   m.IsVerified,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type verificationTokenModel struct {
	Token     string     `gorm:"column:token;primaryKey"`
	VoterID   string     `gorm:"column:voter_id;index"`
	ExpiresAt time.Time  `gorm:"column:expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at"`
}

func (verificationTokenModel) TableName() string {
	return "verification_tokens"
}

func tokenModelFromEntity(token entities.VerificationToken) verificationTokenModel {
	return verificationTokenModel{
		Token:     strings.TrimSpace(token.Token),
		VoterID:   strings.TrimSpace(token.VoterID),
		ExpiresAt: token.ExpiresAt.UTC(),
		UsedAt:    token.UsedAt,
	}
}

// SystemClock provides wall-clock time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues voter identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.VoterRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
