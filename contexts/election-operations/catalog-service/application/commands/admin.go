package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "eduvote/contexts/election-operations/catalog-service/application"
	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	domainerrors "eduvote/contexts/election-operations/catalog-service/domain/errors"
	"eduvote/contexts/election-operations/catalog-service/ports"
)

// CreateElectionCommand is the write-model input for election creation.
type CreateElectionCommand struct {
	Title       string
	Description string
	Type        entities.ElectionType
	StartAt     time.Time
	EndAt       time.Time
}

// UpdateElectionCommand edits metadata and the active flag. The election
// type is immutable after creation.
type UpdateElectionCommand struct {
	ElectionID  string
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	IsActive    bool
}

type AddPositionCommand struct {
	ElectionID  string
	Title       string
	Description string
	MaxVotes    int
}

type AddCandidateCommand struct {
	PositionID string
	Name       string
	Platform   string
}

type AddOptionCommand struct {
	ElectionID  string
	Name        string
	Description string
}

// AdminUseCase orchestrates administrator catalog commands: election
// lifecycle and ballot structure management.
type AdminUseCase struct {
	Catalog ports.ElectionRepository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func (uc AdminUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Title) == "" || !entities.IsValidElectionType(cmd.Type) {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	if cmd.StartAt.IsZero() || cmd.EndAt.IsZero() || !cmd.StartAt.Before(cmd.EndAt) {
		return entities.Election{}, domainerrors.ErrInvalidVotingWindow
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	now := uc.now()
	election := entities.Election{
		ElectionID:  electionID,
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Type:        cmd.Type,
		StartAt:     cmd.StartAt.UTC(),
		EndAt:       cmd.EndAt.UTC(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Catalog.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election created",
		"event", "catalog_election_created",
		"module", "election-operations/catalog-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"election_type", string(election.Type),
	)
	return election, nil
}

func (uc AdminUseCase) UpdateElection(ctx context.Context, cmd UpdateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ElectionID) == "" || strings.TrimSpace(cmd.Title) == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}
	if cmd.StartAt.IsZero() || cmd.EndAt.IsZero() || !cmd.StartAt.Before(cmd.EndAt) {
		return entities.Election{}, domainerrors.ErrInvalidVotingWindow
	}

	election, err := uc.Catalog.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Election{}, err
	}
	election.Title = strings.TrimSpace(cmd.Title)
	election.Description = strings.TrimSpace(cmd.Description)
	election.StartAt = cmd.StartAt.UTC()
	election.EndAt = cmd.EndAt.UTC()
	election.IsActive = cmd.IsActive
	election.UpdatedAt = uc.now()
	if err := uc.Catalog.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election updated",
		"event", "catalog_election_updated",
		"module", "election-operations/catalog-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"is_active", election.IsActive,
	)
	return election, nil
}

func (uc AdminUseCase) DeleteElection(ctx context.Context, electionID string) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(electionID) == "" {
		return domainerrors.ErrInvalidElectionInput
	}
	if err := uc.Catalog.DeleteElection(ctx, strings.TrimSpace(electionID)); err != nil {
		return err
	}
	logger.Info("election deleted",
		"event", "catalog_election_deleted",
		"module", "election-operations/catalog-service",
		"layer", "application",
		"election_id", strings.TrimSpace(electionID),
	)
	return nil
}

func (uc AdminUseCase) AddPosition(ctx context.Context, cmd AddPositionCommand) (entities.Position, error) {
	if strings.TrimSpace(cmd.ElectionID) == "" || strings.TrimSpace(cmd.Title) == "" {
		return entities.Position{}, domainerrors.ErrInvalidElectionInput
	}
	if cmd.MaxVotes < 1 {
		return entities.Position{}, domainerrors.ErrInvalidMaxVotes
	}

	election, err := uc.Catalog.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Position{}, err
	}
	if election.Type != entities.ElectionTypeCandidate {
		return entities.Position{}, domainerrors.ErrElectionTypeMismatch
	}

	positionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Position{}, err
	}
	position := entities.Position{
		PositionID:  positionID,
		ElectionID:  election.ElectionID,
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		MaxVotes:    cmd.MaxVotes,
		CreatedAt:   uc.now(),
	}
	if err := uc.Catalog.SavePosition(ctx, position); err != nil {
		return entities.Position{}, err
	}
	return position, nil
}

func (uc AdminUseCase) DeletePosition(ctx context.Context, positionID string) error {
	if strings.TrimSpace(positionID) == "" {
		return domainerrors.ErrInvalidElectionInput
	}
	return uc.Catalog.DeletePosition(ctx, strings.TrimSpace(positionID))
}

func (uc AdminUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	if strings.TrimSpace(cmd.PositionID) == "" || strings.TrimSpace(cmd.Name) == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidElectionInput
	}
	if _, err := uc.Catalog.GetPosition(ctx, strings.TrimSpace(cmd.PositionID)); err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		PositionID:  strings.TrimSpace(cmd.PositionID),
		Name:        strings.TrimSpace(cmd.Name),
		Platform:    strings.TrimSpace(cmd.Platform),
		CreatedAt:   uc.now(),
	}
	if err := uc.Catalog.SaveCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	return candidate, nil
}

func (uc AdminUseCase) DeleteCandidate(ctx context.Context, candidateID string) error {
	if strings.TrimSpace(candidateID) == "" {
		return domainerrors.ErrInvalidElectionInput
	}
	return uc.Catalog.DeleteCandidate(ctx, strings.TrimSpace(candidateID))
}

func (uc AdminUseCase) AddOption(ctx context.Context, cmd AddOptionCommand) (entities.Option, error) {
	if strings.TrimSpace(cmd.ElectionID) == "" || strings.TrimSpace(cmd.Name) == "" {
		return entities.Option{}, domainerrors.ErrInvalidElectionInput
	}

	election, err := uc.Catalog.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Option{}, err
	}
	if election.Type != entities.ElectionTypeOption {
		return entities.Option{}, domainerrors.ErrElectionTypeMismatch
	}

	optionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Option{}, err
	}
	option := entities.Option{
		OptionID:    optionID,
		ElectionID:  election.ElectionID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   uc.now(),
	}
	if err := uc.Catalog.SaveOption(ctx, option); err != nil {
		return entities.Option{}, err
	}
	return option, nil
}

func (uc AdminUseCase) DeleteOption(ctx context.Context, optionID string) error {
	if strings.TrimSpace(optionID) == "" {
		return domainerrors.ErrInvalidElectionInput
	}
	return uc.Catalog.DeleteOption(ctx, strings.TrimSpace(optionID))
}

func (uc AdminUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
