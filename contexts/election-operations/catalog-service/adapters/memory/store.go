package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"eduvote/contexts/election-operations/catalog-service/domain/entities"
	domainerrors "eduvote/contexts/election-operations/catalog-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory catalog used by tests and local wiring.
type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.Election
	positions  map[string]entities.Position
	candidates map[string]entities.Candidate
	options    map[string]entities.Option

	now time.Time
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[election.ElectionID] = election
	}
	return &Store{
		elections:  elections,
		positions:  make(map[string]entities.Position),
		candidates: make(map[string]entities.Candidate),
		options:    make(map[string]entities.Option),
	}
}

// SetNow pins the store clock for deterministic status tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) DeleteElection(_ context.Context, electionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(electionID)
	if _, ok := s.elections[id]; !ok {
		return domainerrors.ErrElectionNotFound
	}
	delete(s.elections, id)
	for positionID, position := range s.positions {
		if position.ElectionID != id {
			continue
		}
		delete(s.positions, positionID)
		for candidateID, candidate := range s.candidates {
			if candidate.PositionID == positionID {
				delete(s.candidates, candidateID)
			}
		}
	}
	for optionID, option := range s.options {
		if option.ElectionID == id {
			delete(s.options, optionID)
		}
	}
	return nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartAt.Before(items[j].StartAt)
	})
	return items, nil
}

func (s *Store) SavePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) DeletePosition(_ context.Context, positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(positionID)
	if _, ok := s.positions[id]; !ok {
		return domainerrors.ErrPositionNotFound
	}
	delete(s.positions, id)
	for candidateID, candidate := range s.candidates {
		if candidate.PositionID == id {
			delete(s.candidates, candidateID)
		}
	}
	return nil
}

func (s *Store) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
	return nil
}

func (s *Store) DeleteCandidate(_ context.Context, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(candidateID)
	if _, ok := s.candidates[id]; !ok {
		return domainerrors.ErrCandidateNotFound
	}
	delete(s.candidates, id)
	return nil
}

func (s *Store) SaveOption(_ context.Context, option entities.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[strings.TrimSpace(option.OptionID)] = option
	return nil
}

func (s *Store) DeleteOption(_ context.Context, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(optionID)
	if _, ok := s.options[id]; !ok {
		return domainerrors.ErrOptionNotFound
	}
	delete(s.options, id)
	return nil
}

func (s *Store) GetBallotStructure(ctx context.Context, electionID string) (entities.BallotStructure, error) {
	election, err := s.GetElection(ctx, electionID)
	if err != nil {
		return entities.BallotStructure{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	structure := entities.BallotStructure{
		ElectionID: election.ElectionID,
		Type:       election.Type,
	}
	if election.Type == entities.ElectionTypeCandidate {
		positions := make([]entities.Position, 0)
		for _, position := range s.positions {
			if position.ElectionID == election.ElectionID {
				positions = append(positions, position)
			}
		}
		sort.Slice(positions, func(i, j int) bool {
			if positions[i].CreatedAt.Equal(positions[j].CreatedAt) {
				return positions[i].PositionID < positions[j].PositionID
			}
			return positions[i].CreatedAt.Before(positions[j].CreatedAt)
		})
		for _, position := range positions {
			ballot := entities.PositionBallot{Position: position}
			candidates := make([]entities.Candidate, 0)
			for _, candidate := range s.candidates {
				if candidate.PositionID == position.PositionID {
					candidates = append(candidates, candidate)
				}
			}
			sort.Slice(candidates, func(i, j int) bool {
				return candidates[i].CandidateID < candidates[j].CandidateID
			})
			ballot.Candidates = candidates
			structure.Positions = append(structure.Positions, ballot)
		}
		return structure, nil
	}

	options := make([]entities.Option, 0)
	for _, option := range s.options {
		if option.ElectionID == election.ElectionID {
			options = append(options, option)
		}
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].OptionID < options[j].OptionID
	})
	structure.Options = options
	return structure, nil
}
