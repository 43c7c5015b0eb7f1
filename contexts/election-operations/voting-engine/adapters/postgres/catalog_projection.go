package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	"eduvote/contexts/election-operations/voting-engine/ports"

	"gorm.io/gorm"
)

// CatalogProjection reads the catalog module's tables directly. Both modules
// share the database; the voting engine only ever reads these tables.
type CatalogProjection struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCatalogProjection(db *gorm.DB, logger *slog.Logger) *CatalogProjection {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogProjection{
		db:     db,
		logger: logger,
	}
}

func (p *CatalogProjection) GetElection(ctx context.Context, electionID string) (entities.ElectionSnapshot, bool, error) {
	var row electionProjectionRow
	err := p.db.WithContext(ctx).
		Table("elections").
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ElectionSnapshot{}, false, nil
		}
		return entities.ElectionSnapshot{}, false, p.logError("voting_projection_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return entities.ElectionSnapshot{
		ElectionID: row.ID,
		Title:      row.Title,
		Type:       entities.ElectionType(row.Type),
		StartAt:    row.StartAt.UTC(),
		EndAt:      row.EndAt.UTC(),
		IsActive:   row.IsActive,
	}, true, nil
}

func (p *CatalogProjection) GetBallotStructure(ctx context.Context, electionID string) (ports.BallotStructure, error) {
	election, found, err := p.GetElection(ctx, electionID)
	if err != nil {
		return ports.BallotStructure{}, err
	}
	if !found {
		return ports.BallotStructure{}, gorm.ErrRecordNotFound
	}

	structure := ports.BallotStructure{
		ElectionID: election.ElectionID,
		Type:       election.Type,
	}

	if election.Type == entities.ElectionTypeCandidate {
		var positionRows []positionProjectionRow
		if err := p.db.WithContext(ctx).
			Table("positions").
			Where("election_id = ?", election.ElectionID).
			Order("created_at ASC").
			Find(&positionRows).Error; err != nil {
			return ports.BallotStructure{}, p.logError("voting_projection_list_positions_failed", err,
				"election_id", election.ElectionID,
			)
		}
		for _, positionRow := range positionRows {
			var candidateRows []candidateProjectionRow
			if err := p.db.WithContext(ctx).
				Table("candidates").
				Where("position_id = ?", positionRow.ID).
				Order("created_at ASC").
				Find(&candidateRows).Error; err != nil {
				return ports.BallotStructure{}, p.logError("voting_projection_list_candidates_failed", err,
					"position_id", positionRow.ID,
				)
			}
			ballot := ports.PositionBallot{
				PositionID: positionRow.ID,
				Title:      positionRow.Title,
				MaxVotes:   positionRow.MaxVotes,
			}
			for _, candidateRow := range candidateRows {
				ballot.Candidates = append(ballot.Candidates, ports.CandidateRef{
					CandidateID: candidateRow.ID,
					Name:        candidateRow.Name,
				})
			}
			structure.Positions = append(structure.Positions, ballot)
		}
		return structure, nil
	}

	var optionRows []optionProjectionRow
	if err := p.db.WithContext(ctx).
		Table("options").
		Where("election_id = ?", election.ElectionID).
		Order("created_at ASC").
		Find(&optionRows).Error; err != nil {
		return ports.BallotStructure{}, p.logError("voting_projection_list_options_failed", err,
			"election_id", election.ElectionID,
		)
	}
	for _, optionRow := range optionRows {
		structure.Options = append(structure.Options, ports.OptionRef{
			OptionID: optionRow.ID,
			Name:     optionRow.Name,
		})
	}
	return structure, nil
}

func (p *CatalogProjection) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	p.logger.Error("catalog projection read failed", fields...)
	return err
}

type electionProjectionRow struct {
	ID       string    `gorm:"column:id"`
	Title    string    `gorm:"column:title"`
	Type     string    `gorm:"column:election_type"`
	StartAt  time.Time `gorm:"column:start_at"`
	EndAt    time.Time `gorm:"column:end_at"`
	IsActive bool      `gorm:"column:is_active"`
}

type positionProjectionRow struct {
	ID       string `gorm:"column:id"`
	Title    string `gorm:"column:title"`
	MaxVotes int    `gorm:"column:max_votes"`
}

type candidateProjectionRow struct {
	ID   string `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

type optionProjectionRow struct {
	ID   string `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

var _ ports.ElectionCatalog = (*CatalogProjection)(nil)
