package votingengine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	votingengine "eduvote/contexts/election-operations/voting-engine"
	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	"eduvote/contexts/election-operations/voting-engine/ports"
	httptransport "eduvote/contexts/election-operations/voting-engine/transport/http"
	"eduvote/internal/shared/events"
)

var testNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func seedCandidateElection(module votingengine.Module) {
	module.Store.SetNow(testNow)
	module.Store.SeedElection(
		entities.ElectionSnapshot{
			ElectionID: "election-1",
			Title:      "Student Council 2026",
			Type:       entities.ElectionTypeCandidate,
			StartAt:    testNow.Add(-time.Hour),
			EndAt:      testNow.Add(time.Hour),
			IsActive:   true,
		},
		ports.BallotStructure{
			ElectionID: "election-1",
			Type:       entities.ElectionTypeCandidate,
			Positions: []ports.PositionBallot{
				{
					PositionID: "pos-president",
					Title:      "President",
					MaxVotes:   1,
					Candidates: []ports.CandidateRef{
						{CandidateID: "cand-alice", Name: "Alice Chen"},
						{CandidateID: "cand-bob", Name: "Bob Diaz"},
					},
				},
				{
					PositionID: "pos-senate",
					Title:      "Senator",
					MaxVotes:   2,
					Candidates: []ports.CandidateRef{
						{CandidateID: "cand-carol", Name: "Carol Kim"},
						{CandidateID: "cand-dave", Name: "Dave Osei"},
						{CandidateID: "cand-erin", Name: "Erin Walsh"},
					},
				},
			},
		},
	)
}

func seedOptionElection(module votingengine.Module) {
	module.Store.SetNow(testNow)
	module.Store.SeedElection(
		entities.ElectionSnapshot{
			ElectionID: "election-ref",
			Title:      "Library Hours Referendum",
			Type:       entities.ElectionTypeOption,
			StartAt:    testNow.Add(-time.Hour),
			EndAt:      testNow.Add(time.Hour),
			IsActive:   true,
		},
		ports.BallotStructure{
			ElectionID: "election-ref",
			Type:       entities.ElectionTypeOption,
			Options: []ports.OptionRef{
				{OptionID: "opt-yes", Name: "Extend to 24/7"},
				{OptionID: "opt-no", Name: "Keep current hours"},
			},
		},
	)
}

func fullBallot() httptransport.CastBallotRequest {
	return httptransport.CastBallotRequest{
		CandidateChoices: map[string][]string{
			"pos-president": {"cand-alice"},
			"pos-senate":    {"cand-carol", "cand-dave"},
		},
	}
}

func TestCastBallotIssuesReceipt(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	receipt, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}
	if len(receipt.ReceiptID) != 32 {
		t.Fatalf("expected 32-char receipt id, got %q", receipt.ReceiptID)
	}
	if receipt.ElectionTitle != "Student Council 2026" {
		t.Fatalf("unexpected election title %q", receipt.ElectionTitle)
	}
	if len(receipt.Choices) != 3 {
		t.Fatalf("expected 3 receipt choices, got %d", len(receipt.Choices))
	}
	if receipt.Choices[0].Label != "President" || receipt.Choices[0].Choice != "Alice Chen" {
		t.Fatalf("unexpected first choice %+v", receipt.Choices[0])
	}

	voted, err := module.Store.HasVoted(context.Background(), "voter-1", "election-1")
	if err != nil || !voted {
		t.Fatalf("expected recorded ballot, voted=%v err=%v", voted, err)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "vote.recorded" {
		t.Fatalf("expected one pending vote.recorded row, got %+v", pending)
	}
}

func TestDuplicateVoteRejected(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot()); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote error, got %v", err)
	}

	// A different voter is unaffected.
	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-2", "election-1", fullBallot()); err != nil {
		t.Fatalf("second voter cast failed: %v", err)
	}
}

func TestCastOutsideVotingWindowRejected(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	cases := []struct {
		name string
		now  time.Time
	}{
		{"before window", testNow.Add(-2 * time.Hour)},
		{"after window", testNow.Add(2 * time.Hour)},
	}
	for _, tc := range cases {
		module.Store.SetNow(tc.now)
		_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
		if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
			t.Fatalf("%s: expected election not open, got %v", tc.name, err)
		}
	}
}

func TestCastAtWindowBoundariesAccepted(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	module.Store.SetNow(testNow.Add(-time.Hour))
	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-start", "election-1", fullBallot()); err != nil {
		t.Fatalf("cast at start boundary failed: %v", err)
	}
	module.Store.SetNow(testNow.Add(time.Hour))
	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-end", "election-1", fullBallot()); err != nil {
		t.Fatalf("cast at end boundary failed: %v", err)
	}
}

func TestCastRejectedWhenElectionDeactivated(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)
	module.Store.SeedElection(
		entities.ElectionSnapshot{
			ElectionID: "election-1",
			Title:      "Student Council 2026",
			Type:       entities.ElectionTypeCandidate,
			StartAt:    testNow.Add(-time.Hour),
			EndAt:      testNow.Add(time.Hour),
			IsActive:   false,
		},
		ports.BallotStructure{},
	)

	_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected election not open for deactivated election, got %v", err)
	}
}

func TestCastUnknownElection(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-missing", fullBallot())
	if !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found, got %v", err)
	}
}

func TestStructuralValidationRejectsMalformedBallots(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)
	seedOptionElection(module)

	cases := []struct {
		name       string
		electionID string
		req        httptransport.CastBallotRequest
	}{
		{
			name:       "missing position answer",
			electionID: "election-1",
			req: httptransport.CastBallotRequest{
				CandidateChoices: map[string][]string{"pos-president": {"cand-alice"}},
			},
		},
		{
			name:       "too many votes for position",
			electionID: "election-1",
			req: httptransport.CastBallotRequest{
				CandidateChoices: map[string][]string{
					"pos-president": {"cand-alice", "cand-bob"},
					"pos-senate":    {"cand-carol"},
				},
			},
		},
		{
			name:       "candidate from another position",
			electionID: "election-1",
			req: httptransport.CastBallotRequest{
				CandidateChoices: map[string][]string{
					"pos-president": {"cand-carol"},
					"pos-senate":    {"cand-dave"},
				},
			},
		},
		{
			name:       "duplicate candidate in one position",
			electionID: "election-1",
			req: httptransport.CastBallotRequest{
				CandidateChoices: map[string][]string{
					"pos-president": {"cand-alice"},
					"pos-senate":    {"cand-carol", "cand-carol"},
				},
			},
		},
		{
			name:       "unknown position key",
			electionID: "election-1",
			req: httptransport.CastBallotRequest{
				CandidateChoices: map[string][]string{
					"pos-president": {"cand-alice"},
					"pos-ghost":     {"cand-carol"},
				},
			},
		},
		{
			name:       "option vote on candidate election",
			electionID: "election-1",
			req:        httptransport.CastBallotRequest{OptionID: "opt-yes"},
		},
		{
			name:       "unknown option",
			electionID: "election-ref",
			req:        httptransport.CastBallotRequest{OptionID: "opt-maybe"},
		},
		{
			name:       "candidate choices on option election",
			electionID: "election-ref",
			req: httptransport.CastBallotRequest{
				OptionID:         "opt-yes",
				CandidateChoices: map[string][]string{"pos-president": {"cand-alice"}},
			},
		},
		{
			name:       "empty option ballot",
			electionID: "election-ref",
			req:        httptransport.CastBallotRequest{},
		},
	}
	for _, tc := range cases {
		_, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", tc.electionID, tc.req)
		if !errors.Is(err, domainerrors.ErrInvalidBallot) {
			t.Fatalf("%s: expected invalid ballot, got %v", tc.name, err)
		}
	}

	// Nothing was committed by any rejected attempt.
	voted, _ := module.Store.HasVoted(context.Background(), "voter-1", "election-1")
	if voted {
		t.Fatalf("rejected ballots must leave no recorded vote")
	}
}

func TestOptionBallotReceipt(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedOptionElection(module)

	receipt, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-ref", httptransport.CastBallotRequest{
		OptionID: "opt-yes",
	})
	if err != nil {
		t.Fatalf("cast option ballot failed: %v", err)
	}
	if len(receipt.Choices) != 1 {
		t.Fatalf("expected one receipt choice, got %d", len(receipt.Choices))
	}
	if receipt.Choices[0].Label != "Selected Option" || receipt.Choices[0].Choice != "Extend to 24/7" {
		t.Fatalf("unexpected receipt choice %+v", receipt.Choices[0])
	}
}

func TestReceiptSnapshotSurvivesCatalogEdits(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	cast, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}

	// Rename the candidate after the vote.
	module.Store.SeedElection(
		entities.ElectionSnapshot{
			ElectionID: "election-1",
			Title:      "Student Council 2026 (amended)",
			Type:       entities.ElectionTypeCandidate,
			StartAt:    testNow.Add(-time.Hour),
			EndAt:      testNow.Add(time.Hour),
			IsActive:   true,
		},
		ports.BallotStructure{
			ElectionID: "election-1",
			Type:       entities.ElectionTypeCandidate,
			Positions: []ports.PositionBallot{
				{
					PositionID: "pos-president",
					Title:      "President",
					MaxVotes:   1,
					Candidates: []ports.CandidateRef{
						{CandidateID: "cand-alice", Name: "Alice Chen-Lee"},
					},
				},
			},
		},
	)

	receipt, err := module.Handler.ReceiptHandler(context.Background(), "voter-1", cast.ReceiptID)
	if err != nil {
		t.Fatalf("receipt lookup failed: %v", err)
	}
	if receipt.Choices[0].Choice != "Alice Chen" {
		t.Fatalf("receipt snapshot changed after catalog edit: %+v", receipt.Choices[0])
	}

	// History reflects the live label.
	history, err := module.Handler.VotingHistoryHandler(context.Background(), "voter-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	found := false
	for _, item := range history.Items {
		if item.CandidateName == "Alice Chen-Lee" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected history to carry live candidate name, got %+v", history.Items)
	}
}

func TestReceiptLookupNormalizesDenials(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	cast, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}

	_, wrongOwnerErr := module.Handler.ReceiptHandler(context.Background(), "voter-2", cast.ReceiptID)
	_, unknownIDErr := module.Handler.ReceiptHandler(context.Background(), "voter-1", "00000000000000000000000000000000")
	if !errors.Is(wrongOwnerErr, domainerrors.ErrReceiptAccessDenied) {
		t.Fatalf("expected access denied for wrong owner, got %v", wrongOwnerErr)
	}
	if !errors.Is(unknownIDErr, domainerrors.ErrReceiptAccessDenied) {
		t.Fatalf("expected access denied for unknown id, got %v", unknownIDErr)
	}
	if wrongOwnerErr.Error() != unknownIDErr.Error() {
		t.Fatalf("denials must be indistinguishable: %v vs %v", wrongOwnerErr, unknownIDErr)
	}
}

func TestReceiptIDCollisionRetries(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)
	module.Store.SetNextReceiptIDs(
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	)

	first, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot())
	if err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	second, err := module.Handler.CastBallotHandler(context.Background(), "voter-2", "election-1", fullBallot())
	if err != nil {
		t.Fatalf("second cast should regenerate past the collision: %v", err)
	}
	if first.ReceiptID == second.ReceiptID {
		t.Fatalf("collision produced duplicate receipt id %s", first.ReceiptID)
	}
	if second.ReceiptID != "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
		t.Fatalf("expected regenerated id, got %s", second.ReceiptID)
	}
}

func TestConcurrentCastsCommitExactlyOneBallot(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil, nil)
	seedCandidateElection(module)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastBallotHandler(context.Background(), "voter-race", "election-1", fullBallot())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrDuplicateVote):
			duplicates++
		default:
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one committed ballot, got %d", successes)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicate rejections, got %d", attempts-1, duplicates)
	}
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func TestOutboxRelayPublishesRecordedVotes(t *testing.T) {
	publisher := &capturingPublisher{}
	module := votingengine.NewInMemoryModule(publisher, nil)
	seedCandidateElection(module)

	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot()); err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}

	if err := module.Relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay pass failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != "vote.recorded" {
		t.Fatalf("unexpected event type %q", publisher.events[0].EventType)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d rows", len(pending))
	}
}

func TestOutboxRelaySurfacesPublishFailure(t *testing.T) {
	publisher := &capturingPublisher{fail: true}
	module := votingengine.NewInMemoryModule(publisher, nil)
	seedCandidateElection(module)

	if _, err := module.Handler.CastBallotHandler(context.Background(), "voter-1", "election-1", fullBallot()); err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}
	if err := module.Relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay pass to surface publish failure")
	}
}
