package redisadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"eduvote/contexts/election-operations/voting-engine/ports"
	platformredis "eduvote/internal/platform/redis"
)

// Hint entries expire on their own; the database constraint is the source
// of truth, so a lost or evicted key only costs one extra constraint check.
const hintTTL = 30 * 24 * time.Hour

// VotedHintStore keeps a per-voter marker of elections already voted in.
type VotedHintStore struct {
	client *platformredis.Client
	logger *slog.Logger
}

func NewVotedHintStore(client *platformredis.Client, logger *slog.Logger) *VotedHintStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &VotedHintStore{
		client: client,
		logger: logger,
	}
}

func (s *VotedHintStore) HasVotedHint(ctx context.Context, voterID string, electionID string) (bool, error) {
	value, err := s.client.Get(ctx, hintKey(voterID, electionID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return value == "1", nil
}

func (s *VotedHintStore) MarkVotedHint(ctx context.Context, voterID string, electionID string) error {
	return s.client.Set(ctx, hintKey(voterID, electionID), "1", hintTTL).Err()
}

func hintKey(voterID, electionID string) string {
	return fmt.Sprintf("eduvote:voted:%s:%s", voterID, electionID)
}

var _ ports.VotedHintStore = (*VotedHintStore)(nil)
