package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	domainerrors "eduvote/contexts/election-operations/catalog-service/domain/errors"
	"eduvote/contexts/election-operations/catalog-service/ports"
)

// ElectionView pairs an election with its derived status at query time.
type ElectionView struct {
	Election entities.Election
	Status   entities.ElectionStatus
}

type CatalogUseCase struct {
	Catalog ports.ElectionRepository
	Clock   ports.Clock
}

// ListVoterElections returns active elections that are open or upcoming,
// ordered by start time. Closed and deactivated elections are filtered out
// of the voter-facing listing.
func (uc CatalogUseCase) ListVoterElections(ctx context.Context) ([]ElectionView, error) {
	elections, err := uc.Catalog.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		if !election.IsActive {
			continue
		}
		status := election.StatusAt(now)
		if status == entities.ElectionStatusClosed {
			continue
		}
		views = append(views, ElectionView{Election: election, Status: status})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Election.StartAt.Before(views[j].Election.StartAt)
	})
	return views, nil
}

// ListAllElections is the admin listing: every election with its status.
func (uc CatalogUseCase) ListAllElections(ctx context.Context) ([]ElectionView, error) {
	elections, err := uc.Catalog.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		views = append(views, ElectionView{Election: election, Status: election.StatusAt(now)})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Election.StartAt.Before(views[j].Election.StartAt)
	})
	return views, nil
}

func (uc CatalogUseCase) GetElection(ctx context.Context, electionID string) (ElectionView, error) {
	if strings.TrimSpace(electionID) == "" {
		return ElectionView{}, domainerrors.ErrElectionNotFound
	}
	election, err := uc.Catalog.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{Election: election, Status: election.StatusAt(uc.now())}, nil
}

func (uc CatalogUseCase) BallotStructure(ctx context.Context, electionID string) (entities.BallotStructure, error) {
	if strings.TrimSpace(electionID) == "" {
		return entities.BallotStructure{}, domainerrors.ErrElectionNotFound
	}
	return uc.Catalog.GetBallotStructure(ctx, strings.TrimSpace(electionID))
}

func (uc CatalogUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
