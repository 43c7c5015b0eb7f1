package commands

import (
	"context"
	"errors"
	"log/slog"

	"eduvote/contexts/election-operations/voting-engine/application"
	"eduvote/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "eduvote/contexts/election-operations/voting-engine/domain/errors"
	"eduvote/contexts/election-operations/voting-engine/ports"
)

const receiptIDAttempts = 3

// CastUseCase runs the full ballot-casting flow: window check, structural
// validation, duplicate guard, atomic recording, receipt issuance.
type CastUseCase struct {
	Catalog      ports.ElectionCatalog
	Ballots      ports.BallotRepository
	VotedHints   ports.VotedHintStore
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	ReceiptIDGen ports.ReceiptIDGenerator
	Logger       *slog.Logger
}

type CastBallotCommand struct {
	VoterID    string
	ElectionID string
	// CandidateChoices maps position id to the chosen candidate ids.
	// Used for candidate elections; must be empty for option elections.
	CandidateChoices map[string][]string
	// OptionID is the single chosen option for option elections.
	OptionID string
}

func (uc CastUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (entities.Receipt, error) {
	logger := application.ResolveLogger(uc.Logger)

	if cmd.VoterID == "" || cmd.ElectionID == "" {
		return entities.Receipt{}, domainerrors.ErrInvalidBallot
	}

	election, found, err := uc.Catalog.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Receipt{}, err
	}
	if !found {
		return entities.Receipt{}, domainerrors.ErrElectionNotFound
	}

	now := uc.Clock.Now()
	if !election.VotingOpenAt(now) {
		logger.Info("ballot rejected outside voting window",
			"event", "cast_rejected_window",
			"module", "election-operations/voting-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"status", string(election.StatusAt(now)),
			"is_active", election.IsActive,
		)
		return entities.Receipt{}, domainerrors.ErrElectionNotOpen
	}

	// Hint hit short-circuits; a miss or hint-store failure proves nothing
	// and falls through to the database constraint.
	if uc.VotedHints != nil {
		voted, hintErr := uc.VotedHints.HasVotedHint(ctx, cmd.VoterID, cmd.ElectionID)
		if hintErr != nil {
			logger.Warn("voted hint lookup failed",
				"event", "cast_hint_lookup_failed",
				"module", "election-operations/voting-engine",
				"layer", "application",
				"election_id", cmd.ElectionID,
				"error", hintErr.Error(),
			)
		} else if voted {
			return entities.Receipt{}, domainerrors.ErrDuplicateVote
		}
	}

	structure, err := uc.Catalog.GetBallotStructure(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Receipt{}, err
	}

	choices, err := uc.resolveChoices(election, structure, cmd)
	if err != nil {
		return entities.Receipt{}, err
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Receipt{}, err
	}
	selections, err := uc.buildSelections(ctx, election, structure, cmd)
	if err != nil {
		return entities.Receipt{}, err
	}

	ballot := entities.Ballot{
		BallotID:   ballotID,
		VoterID:    cmd.VoterID,
		ElectionID: cmd.ElectionID,
		Selections: selections,
		CastAt:     now,
	}

	// Receipt id collisions are vanishingly rare with 128 random bits, but
	// the recorder surfaces them so a fresh id can be issued without the
	// ballot ever landing twice.
	var receipt entities.Receipt
	for attempt := 1; attempt <= receiptIDAttempts; attempt++ {
		receiptID, genErr := uc.ReceiptIDGen.NewReceiptID(ctx)
		if genErr != nil {
			return entities.Receipt{}, genErr
		}
		receipt = entities.Receipt{
			ReceiptID:     receiptID,
			VoterID:       cmd.VoterID,
			ElectionID:    cmd.ElectionID,
			ElectionTitle: election.Title,
			Type:          election.Type,
			Choices:       choices,
			IssuedAt:      now,
		}

		event, envErr := newVotingEnvelope(ctx, uc.IDGen, now, EventVoteRecorded, ballotID, voteRecordedPayload{
			BallotID:   ballotID,
			VoterID:    cmd.VoterID,
			ElectionID: cmd.ElectionID,
			ReceiptID:  receiptID,
			CastAtUTC:  now.UTC(),
		})
		if envErr != nil {
			return entities.Receipt{}, envErr
		}

		err = uc.Ballots.RecordBallot(ctx, ballot, receipt, event)
		if err == nil {
			break
		}
		if errors.Is(err, domainerrors.ErrReceiptIDCollision) {
			logger.Warn("receipt id collision, regenerating",
				"event", "cast_receipt_collision",
				"module", "election-operations/voting-engine",
				"layer", "application",
				"election_id", cmd.ElectionID,
				"attempt", attempt,
			)
			continue
		}
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			uc.markVotedHint(ctx, logger, cmd.VoterID, cmd.ElectionID)
		}
		return entities.Receipt{}, err
	}
	if err != nil {
		return entities.Receipt{}, err
	}

	uc.markVotedHint(ctx, logger, cmd.VoterID, cmd.ElectionID)

	logger.Info("ballot recorded",
		"event", "cast_ballot_recorded",
		"module", "election-operations/voting-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"ballot_id", ballot.BallotID,
		"receipt_id", receipt.ReceiptID,
		"selections", len(ballot.Selections),
	)
	return receipt, nil
}

// resolveChoices validates the submission against the ballot structure and
// freezes the receipt snapshot labels in structure order.
func (uc CastUseCase) resolveChoices(election entities.ElectionSnapshot, structure ports.BallotStructure, cmd CastBallotCommand) ([]entities.ReceiptChoice, error) {
	switch election.Type {
	case entities.ElectionTypeCandidate:
		return resolveCandidateChoices(structure, cmd)
	case entities.ElectionTypeOption:
		return resolveOptionChoice(structure, cmd)
	default:
		return nil, domainerrors.ErrInvalidBallot
	}
}

func resolveCandidateChoices(structure ports.BallotStructure, cmd CastBallotCommand) ([]entities.ReceiptChoice, error) {
	if cmd.OptionID != "" || len(structure.Positions) == 0 {
		return nil, domainerrors.ErrInvalidBallot
	}
	if len(cmd.CandidateChoices) != len(structure.Positions) {
		return nil, domainerrors.ErrInvalidBallot
	}

	choices := make([]entities.ReceiptChoice, 0, len(structure.Positions))
	for _, position := range structure.Positions {
		chosen, answered := cmd.CandidateChoices[position.PositionID]
		if !answered || len(chosen) == 0 || len(chosen) > position.MaxVotes {
			return nil, domainerrors.ErrInvalidBallot
		}
		seen := make(map[string]bool, len(chosen))
		for _, candidateID := range chosen {
			if seen[candidateID] {
				return nil, domainerrors.ErrInvalidBallot
			}
			seen[candidateID] = true
			name, ok := candidateName(position, candidateID)
			if !ok {
				return nil, domainerrors.ErrInvalidBallot
			}
			choices = append(choices, entities.ReceiptChoice{
				Label:  position.Title,
				Choice: name,
			})
		}
	}
	return choices, nil
}

func resolveOptionChoice(structure ports.BallotStructure, cmd CastBallotCommand) ([]entities.ReceiptChoice, error) {
	if len(cmd.CandidateChoices) != 0 || cmd.OptionID == "" {
		return nil, domainerrors.ErrInvalidBallot
	}
	for _, option := range structure.Options {
		if option.OptionID == cmd.OptionID {
			return []entities.ReceiptChoice{{
				Label:  "Selected Option",
				Choice: option.Name,
			}}, nil
		}
	}
	return nil, domainerrors.ErrInvalidBallot
}

func candidateName(position ports.PositionBallot, candidateID string) (string, bool) {
	for _, candidate := range position.Candidates {
		if candidate.CandidateID == candidateID {
			return candidate.Name, true
		}
	}
	return "", false
}

// buildSelections materializes one persisted row per choice, ordered the
// same way the receipt snapshot is.
func (uc CastUseCase) buildSelections(ctx context.Context, election entities.ElectionSnapshot, structure ports.BallotStructure, cmd CastBallotCommand) ([]entities.Selection, error) {
	var selections []entities.Selection
	if election.Type == entities.ElectionTypeOption {
		selectionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		return []entities.Selection{{
			SelectionID: selectionID,
			OptionID:    cmd.OptionID,
		}}, nil
	}
	for _, position := range structure.Positions {
		for _, candidateID := range cmd.CandidateChoices[position.PositionID] {
			selectionID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			selections = append(selections, entities.Selection{
				SelectionID: selectionID,
				PositionID:  position.PositionID,
				CandidateID: candidateID,
			})
		}
	}
	return selections, nil
}

func (uc CastUseCase) markVotedHint(ctx context.Context, logger *slog.Logger, voterID, electionID string) {
	if uc.VotedHints == nil {
		return
	}
	if err := uc.VotedHints.MarkVotedHint(ctx, voterID, electionID); err != nil {
		logger.Warn("voted hint write failed",
			"event", "cast_hint_write_failed",
			"module", "election-operations/voting-engine",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
	}
}
