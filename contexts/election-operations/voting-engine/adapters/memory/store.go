package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	"eduvote/contexts/election-operations/voting-engine/ports"
	"eduvote/internal/shared/events"
	"eduvote/internal/shared/outbox"
)

// Store is the in-memory voting-engine backend used by tests and local
// wiring. It enforces the same duplicate-vote and receipt-collision
// semantics as the Postgres adapter.
type Store struct {
	mu             sync.Mutex
	now            time.Time
	idCounter      int
	receiptCounter int
	nextReceiptIDs []string

	elections  map[string]entities.ElectionSnapshot
	structures map[string]ports.BallotStructure
	ballots    map[string]entities.Ballot
	voted      map[string]string
	receipts   map[string]entities.Receipt
	outboxRows []outbox.Message
	hints      map[string]bool
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]entities.ElectionSnapshot),
		structures: make(map[string]ports.BallotStructure),
		ballots:    make(map[string]entities.Ballot),
		voted:      make(map[string]string),
		receipts:   make(map[string]entities.Receipt),
		hints:      make(map[string]bool),
	}
}

// SeedElection registers an election snapshot with its ballot structure.
func (s *Store) SeedElection(election entities.ElectionSnapshot, structure ports.BallotStructure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[election.ElectionID] = election
	s.structures[election.ElectionID] = structure
}

// SetNow pins the clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetNextReceiptIDs queues receipt ids to be returned before the generator
// falls back to sequential ids. Used to force collisions in tests.
func (s *Store) SetNextReceiptIDs(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReceiptIDs = append(s.nextReceiptIDs, ids...)
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idCounter++
	return fmt.Sprintf("id-%04d", s.idCounter), nil
}

func (s *Store) NewReceiptID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nextReceiptIDs) > 0 {
		id := s.nextReceiptIDs[0]
		s.nextReceiptIDs = s.nextReceiptIDs[1:]
		return id, nil
	}
	s.receiptCounter++
	return fmt.Sprintf("%032x", s.receiptCounter), nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.ElectionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	return election, ok, nil
}

func (s *Store) GetBallotStructure(_ context.Context, electionID string) (ports.BallotStructure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	structure, ok := s.structures[electionID]
	if !ok {
		return ports.BallotStructure{}, domainerrors.ErrElectionNotFound
	}
	return structure, nil
}

func (s *Store) RecordBallot(_ context.Context, ballot entities.Ballot, receipt entities.Receipt, event events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	votedKey := votedKey(ballot.VoterID, ballot.ElectionID)
	if _, exists := s.voted[votedKey]; exists {
		return domainerrors.ErrDuplicateVote
	}
	if _, exists := s.receipts[receipt.ReceiptID]; exists {
		return domainerrors.ErrReceiptIDCollision
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	stored := ballot
	stored.Selections = append([]entities.Selection(nil), ballot.Selections...)
	s.ballots[ballot.BallotID] = stored
	s.voted[votedKey] = ballot.BallotID

	storedReceipt := receipt
	storedReceipt.Choices = append([]entities.ReceiptChoice(nil), receipt.Choices...)
	s.receipts[receipt.ReceiptID] = storedReceipt

	s.outboxRows = append(s.outboxRows, outbox.Message{
		ID:        fmt.Sprintf("outbox-%04d", len(s.outboxRows)+1),
		EventType: event.EventType,
		Payload:   payload,
		Status:    "pending",
	})
	return nil
}

func (s *Store) GetReceipt(_ context.Context, receiptID string, voterID string) (entities.Receipt, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt, ok := s.receipts[receiptID]
	if !ok || receipt.VoterID != voterID {
		return entities.Receipt{}, false, nil
	}
	copied := receipt
	copied.Choices = append([]entities.ReceiptChoice(nil), receipt.Choices...)
	return copied, true, nil
}

func (s *Store) HasVoted(_ context.Context, voterID string, electionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.voted[votedKey(voterID, electionID)]
	return ok, nil
}

func (s *Store) ListVoterHistory(_ context.Context, voterID string) ([]entities.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ballots []entities.Ballot
	for _, ballot := range s.ballots {
		if ballot.VoterID == voterID {
			ballots = append(ballots, ballot)
		}
	}
	sort.Slice(ballots, func(i, j int) bool {
		return ballots[i].CastAt.After(ballots[j].CastAt)
	})

	var entries []entities.HistoryEntry
	for _, ballot := range ballots {
		election := s.elections[ballot.ElectionID]
		structure := s.structures[ballot.ElectionID]
		for _, selection := range ballot.Selections {
			entry := entities.HistoryEntry{
				ElectionID:    ballot.ElectionID,
				ElectionTitle: election.Title,
				CastAt:        ballot.CastAt,
			}
			if selection.OptionID != "" {
				for _, option := range structure.Options {
					if option.OptionID == selection.OptionID {
						entry.OptionName = option.Name
					}
				}
			} else {
				for _, position := range structure.Positions {
					if position.PositionID != selection.PositionID {
						continue
					}
					entry.PositionTitle = position.Title
					for _, candidate := range position.Candidates {
						if candidate.CandidateID == selection.CandidateID {
							entry.CandidateName = candidate.Name
						}
					}
				}
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var items []outbox.Message
	for _, row := range s.outboxRows {
		if row.Status != "pending" {
			continue
		}
		copied := row
		copied.Payload = append([]byte(nil), row.Payload...)
		items = append(items, copied)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outboxRows {
		if s.outboxRows[i].ID == messageID {
			s.outboxRows[i].Status = "published"
			return nil
		}
	}
	return nil
}

func (s *Store) MarkOutboxFailed(_ context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outboxRows {
		if s.outboxRows[i].ID == messageID {
			s.outboxRows[i].Status = "failed"
			s.outboxRows[i].RetryCount++
			return nil
		}
	}
	return nil
}

func (s *Store) HasVotedHint(_ context.Context, voterID string, electionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hints[votedKey(voterID, electionID)], nil
}

func (s *Store) MarkVotedHint(_ context.Context, voterID string, electionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints[votedKey(voterID, electionID)] = true
	return nil
}

func votedKey(voterID, electionID string) string {
	return strings.Join([]string{voterID, electionID}, "|")
}

var _ ports.ElectionCatalog = (*Store)(nil)
var _ ports.BallotRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.VotedHintStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.ReceiptIDGenerator = (*Store)(nil)
