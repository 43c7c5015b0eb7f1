package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	domainerrors "eduvote/contexts/election-operations/catalog-service/domain/errors"
	"eduvote/contexts/election-operations/catalog-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"start_at":    row.StartAt,
			"end_at":      row.EndAt,
			"is_active":   row.IsActive,
			"updated_at":  row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("catalog_repo_save_election_failed", create.Error,
			"election_id", strings.TrimSpace(election.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("catalog_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

// DeleteElection removes the election with its positions, candidates and
// options in one transaction. Issued receipts are untouched: they live in
// the voting engine's snapshot table and never reference catalog rows.
func (r *Repository) DeleteElection(ctx context.Context, electionID string) error {
	id := strings.TrimSpace(electionID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var positionIDs []string
		if err := tx.Model(&positionModel{}).
			Where("election_id = ?", id).
			Pluck("id", &positionIDs).Error; err != nil {
			return err
		}
		if len(positionIDs) > 0 {
			if err := tx.Where("position_id IN ?", positionIDs).
				Delete(&candidateModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("election_id = ?", id).Delete(&positionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", id).Delete(&optionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&electionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrElectionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return err
		}
		return r.logError("catalog_repo_delete_election_failed", err, "election_id", id)
	}
	return nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_elections_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SavePosition(ctx context.Context, position entities.Position) error {
	row := positionModelFromEntity(position)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"max_votes":   row.MaxVotes,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("catalog_repo_save_position_failed", create.Error,
			"position_id", strings.TrimSpace(position.PositionID),
			"election_id", strings.TrimSpace(position.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, r.logError("catalog_repo_get_position_failed", err,
			"position_id", strings.TrimSpace(positionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) DeletePosition(ctx context.Context, positionID string) error {
	id := strings.TrimSpace(positionID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", id).Delete(&candidateModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&positionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPositionNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrPositionNotFound) {
			return err
		}
		return r.logError("catalog_repo_delete_position_failed", err, "position_id", id)
	}
	return nil
}

func (r *Repository) SaveCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":     row.Name,
			"platform": row.Platform,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("catalog_repo_save_candidate_failed", create.Error,
			"candidate_id", strings.TrimSpace(candidate.CandidateID),
			"position_id", strings.TrimSpace(candidate.PositionID),
		)
	}
	return nil
}

func (r *Repository) DeleteCandidate(ctx context.Context, candidateID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		Delete(&candidateModel{})
	if result.Error != nil {
		return r.logError("catalog_repo_delete_candidate_failed", result.Error,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) SaveOption(ctx context.Context, option entities.Option) error {
	row := optionModelFromEntity(option)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":        row.Name,
			"description": row.Description,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("catalog_repo_save_option_failed", create.Error,
			"option_id", strings.TrimSpace(option.OptionID),
			"election_id", strings.TrimSpace(option.ElectionID),
		)
	}
	return nil
}

func (r *Repository) DeleteOption(ctx context.Context, optionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(optionID)).
		Delete(&optionModel{})
	if result.Error != nil {
		return r.logError("catalog_repo_delete_option_failed", result.Error,
			"option_id", strings.TrimSpace(optionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOptionNotFound
	}
	return nil
}

func (r *Repository) GetBallotStructure(ctx context.Context, electionID string) (entities.BallotStructure, error) {
	election, err := r.GetElection(ctx, electionID)
	if err != nil {
		return entities.BallotStructure{}, err
	}

	structure := entities.BallotStructure{
		ElectionID: election.ElectionID,
		Type:       election.Type,
	}

	if election.Type == entities.ElectionTypeCandidate {
		var positionRows []positionModel
		if err := r.db.WithContext(ctx).
			Where("election_id = ?", election.ElectionID).
			Order("created_at ASC").
			Find(&positionRows).Error; err != nil {
			return entities.BallotStructure{}, r.logError("catalog_repo_list_positions_failed", err,
				"election_id", election.ElectionID,
			)
		}
		for _, positionRow := range positionRows {
			var candidateRows []candidateModel
			if err := r.db.WithContext(ctx).
				Where("position_id = ?", positionRow.ID).
				Order("created_at ASC").
				Find(&candidateRows).Error; err != nil {
				return entities.BallotStructure{}, r.logError("catalog_repo_list_candidates_failed", err,
					"position_id", positionRow.ID,
				)
			}
			ballot := entities.PositionBallot{Position: positionRow.toEntity()}
			for _, candidateRow := range candidateRows {
				ballot.Candidates = append(ballot.Candidates, candidateRow.toEntity())
			}
			structure.Positions = append(structure.Positions, ballot)
		}
		return structure, nil
	}

	var optionRows []optionModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", election.ElectionID).
		Order("created_at ASC").
		Find(&optionRows).Error; err != nil {
		return entities.BallotStructure{}, r.logError("catalog_repo_list_options_failed", err,
			"election_id", election.ElectionID,
		)
	}
	for _, optionRow := range optionRows {
		structure.Options = append(structure.Options, optionRow.toEntity())
	}
	return structure, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+7)
	fields = append(fields,
		"event", event,
		"module", "election-operations/catalog-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("catalog repository operation failed", fields...)
	return err
}

// SystemClock provides wall-clock time for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues catalog entity identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type electionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Type        string    `gorm:"column:election_type"`
	StartAt     time.Time `gorm:"column:start_at"`
	EndAt       time.Time `gorm:"column:end_at"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	row := electionModel{
		ID:          strings.TrimSpace(election.ElectionID),
		Title:       strings.TrimSpace(election.Title),
		Description: strings.TrimSpace(election.Description),
		Type:        string(election.Type),
		StartAt:     election.StartAt.UTC(),
		EndAt:       election.EndAt.UTC(),
		IsActive:    election.IsActive,
		CreatedAt:   election.CreatedAt.UTC(),
		UpdatedAt:   election.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:  m.ID,
		Title:       m.Title,
		Description: m.Description,
		Type:        entities.ElectionType(m.Type),
		StartAt:     m.StartAt.UTC(),
		EndAt:       m.EndAt.UTC(),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type positionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;index"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	MaxVotes    int       `gorm:"column:max_votes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

func positionModelFromEntity(position entities.Position) positionModel {
	row := positionModel{
		ID:          strings.TrimSpace(position.PositionID),
		ElectionID:  strings.TrimSpace(position.ElectionID),
		Title:       strings.TrimSpace(position.Title),
		Description: strings.TrimSpace(position.Description),
		MaxVotes:    position.MaxVotes,
		CreatedAt:   position.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:  m.ID,
		ElectionID:  m.ElectionID,
		Title:       m.Title,
		Description: m.Description,
		MaxVotes:    m.MaxVotes,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	PositionID string    `gorm:"column:position_id;index"`
	Name       string    `gorm:"column:name"`
	Platform   string    `gorm:"column:platform"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	row := candidateModel{
		ID:         strings.TrimSpace(candidate.CandidateID),
		PositionID: strings.TrimSpace(candidate.PositionID),
		Name:       strings.TrimSpace(candidate.Name),
		Platform:   strings.TrimSpace(candidate.Platform),
		CreatedAt:  candidate.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		PositionID:  m.PositionID,
		Name:        m.Name,
		Platform:    m.Platform,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type optionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (optionModel) TableName() string {
	return "options"
}

func optionModelFromEntity(option entities.Option) optionModel {
	row := optionModel{
		ID:          strings.TrimSpace(option.OptionID),
		ElectionID:  strings.TrimSpace(option.ElectionID),
		Name:        strings.TrimSpace(option.Name),
		Description: strings.TrimSpace(option.Description),
		CreatedAt:   option.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m optionModel) toEntity() entities.Option {
	return entities.Option{
		OptionID:    m.ID,
		ElectionID:  m.ElectionID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
