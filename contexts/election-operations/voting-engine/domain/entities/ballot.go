package entities

import "time"

type ElectionType string

const (
	ElectionTypeCandidate ElectionType = "candidate"
	ElectionTypeOption    ElectionType = "option"
)

type ElectionStatus string

const (
	ElectionStatusUpcoming ElectionStatus = "upcoming"
	ElectionStatusOpen     ElectionStatus = "open"
	ElectionStatusClosed   ElectionStatus = "closed"
)

// ElectionSnapshot is the read-only election view the voting engine needs:
// the voting window, the ballot type, and the administrative active flag.
// The catalog module owns the underlying data.
type ElectionSnapshot struct {
	ElectionID string
	Title      string
	Type       ElectionType
	StartAt    time.Time
	EndAt      time.Time
	IsActive   bool
}

// StatusAt derives the lifecycle state from the voting window. Boundaries
// are inclusive: a submission at exactly StartAt or EndAt is in-window.
func (e ElectionSnapshot) StatusAt(now time.Time) ElectionStatus {
	switch {
	case now.Before(e.StartAt):
		return ElectionStatusUpcoming
	case now.After(e.EndAt):
		return ElectionStatusClosed
	default:
		return ElectionStatusOpen
	}
}

// VotingOpenAt reports whether a ballot may be cast right now. An election
// deactivated mid-window rejects ballots even while the window is open.
func (e ElectionSnapshot) VotingOpenAt(now time.Time) bool {
	return e.IsActive && e.StatusAt(now) == ElectionStatusOpen
}

// Selection is one recorded choice. Candidate ballots carry position and
// candidate ids; option ballots carry an option id.
type Selection struct {
	SelectionID string
	PositionID  string
	CandidateID string
	OptionID    string
}

// Ballot is one voter's full submission for one election, committed
// atomically. At most one committed ballot exists per (voter, election).
type Ballot struct {
	BallotID   string
	VoterID    string
	ElectionID string
	Selections []Selection
	CastAt     time.Time
}

// ReceiptChoice is one frozen label pair inside a receipt snapshot.
type ReceiptChoice struct {
	Label  string `json:"label"`
	Choice string `json:"choice"`
}

// Receipt proves participation. Choices are resolved to human-readable
// labels at issuance and never recomputed, so later catalog edits cannot
// alter an issued receipt.
type Receipt struct {
	ReceiptID     string
	VoterID       string
	ElectionID    string
	ElectionTitle string
	Type          ElectionType
	Choices       []ReceiptChoice
	IssuedAt      time.Time
}

// HistoryEntry is one selection in a voter's history view, labeled with the
// current catalog names (unlike receipts, history reflects live data).
type HistoryEntry struct {
	ElectionID    string
	ElectionTitle string
	PositionTitle string
	CandidateName string
	OptionName    string
	CastAt        time.Time
}
