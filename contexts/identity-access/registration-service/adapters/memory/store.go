package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eduvote/contexts/identity-access/registration-service/domain/entities"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	"eduvote/contexts/identity-access/registration-service/ports"
)

// Store is the in-memory registration backend used by tests and local
// wiring. Email uniqueness and token consumption behave like the Postgres
// adapter.
type Store struct {
	mu           sync.Mutex
	now          time.Time
	idCounter    int
	tokenCounter int

	voters  map[string]entities.Voter
	byEmail map[string]string
	tokens  map[string]entities.VerificationToken

	// SentEmails records mailer calls for assertions.
	SentEmails []string
}

func NewStore() *Store {
	return &Store{
		voters:  make(map[string]entities.Voter),
		byEmail: make(map[string]string),
		tokens:  make(map[string]entities.VerificationToken),
	}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
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
	return fmt.Sprintf("voter-%04d", s.idCounter), nil
}

func (s *Store) NewVerificationToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenCounter++
	return fmt.Sprintf("%064x", s.tokenCounter), nil
}

func (s *Store) SaveVoter(_ context.Context, voter entities.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[voter.Email]; taken {
		return domainerrors.ErrEmailTaken
	}
	s.voters[voter.VoterID] = voter
	s.byEmail[voter.Email] = voter.VoterID
	return nil
}

func (s *Store) GetVoter(_ context.Context, voterID string) (entities.Voter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[voterID]
	return voter, ok, nil
}

func (s *Store) GetVoterByEmail(_ context.Context, email string) (entities.Voter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voterID, ok := s.byEmail[email]
	if !ok {
		return entities.Voter{}, false, nil
	}
	voter := s.voters[voterID]
	return voter, true, nil
}

func (s *Store) SaveVerificationToken(_ context.Context, token entities.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
	return nil
}

func (s *Store) ConsumeVerificationToken(_ context.Context, token string, now time.Time) (entities.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.tokens[token]
	if !ok {
		return entities.Voter{}, domainerrors.ErrTokenInvalid
	}
	if record.UsedAt != nil {
		return entities.Voter{}, domainerrors.ErrTokenUsed
	}
	if now.After(record.ExpiresAt) {
		return entities.Voter{}, domainerrors.ErrTokenExpired
	}

	voter, ok := s.voters[record.VoterID]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}

	usedAt := now
	record.UsedAt = &usedAt
	s.tokens[token] = record

	voter.IsVerified = true
	s.voters[voter.VoterID] = voter
	return voter, nil
}

// TokenFor returns the newest unexpired token issued to a voter. Test
// helper standing in for reading the verification email.
func (s *Store) TokenFor(voterID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, record := range s.tokens {
		if record.VoterID == voterID && record.UsedAt == nil {
			return token, true
		}
	}
	return "", false
}

func (s *Store) SendVerificationEmail(_ context.Context, email string, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentEmails = append(s.SentEmails, email)
	return nil
}

var _ ports.VoterRepository = (*Store)(nil)
var _ ports.Mailer = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.VerificationTokenGenerator = (*Store)(nil)
