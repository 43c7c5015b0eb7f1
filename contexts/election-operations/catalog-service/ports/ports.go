package ports

import (
	"context"
	"time"

	"eduvote/contexts/election-operations/catalog-service/domain/entities"
)

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	DeleteElection(ctx context.Context, electionID string) error
	ListElections(ctx context.Context) ([]entities.Election, error)

	SavePosition(ctx context.Context, position entities.Position) error
	GetPosition(ctx context.Context, positionID string) (entities.Position, error)
	DeletePosition(ctx context.Context, positionID string) error

	SaveCandidate(ctx context.Context, candidate entities.Candidate) error
	DeleteCandidate(ctx context.Context, candidateID string) error

	SaveOption(ctx context.Context, option entities.Option) error
	DeleteOption(ctx context.Context, optionID string) error

	GetBallotStructure(ctx context.Context, electionID string) (entities.BallotStructure, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
