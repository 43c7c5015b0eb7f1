package entities

import "time"

type ElectionType string

const (
	ElectionTypeCandidate ElectionType = "candidate"
	ElectionTypeOption    ElectionType = "option"
)

func IsValidElectionType(value ElectionType) bool {
	return value == ElectionTypeCandidate || value == ElectionTypeOption
}

type ElectionStatus string

const (
	ElectionStatusUpcoming ElectionStatus = "upcoming"
	ElectionStatusOpen     ElectionStatus = "open"
	ElectionStatusClosed   ElectionStatus = "closed"
)

type Election struct {
	ElectionID  string
	Title       string
	Description string
	Type        ElectionType
	StartAt     time.Time
	EndAt       time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusAt derives the election lifecycle state from the voting window.
// Boundaries are inclusive: a ballot at exactly start or end is in-window.
func (e Election) StatusAt(now time.Time) ElectionStatus {
	switch {
	case now.Before(e.StartAt):
		return ElectionStatusUpcoming
	case now.After(e.EndAt):
		return ElectionStatusClosed
	default:
		return ElectionStatusOpen
	}
}

type Position struct {
	PositionID  string
	ElectionID  string
	Title       string
	Description string
	MaxVotes    int
	CreatedAt   time.Time
}

type Candidate struct {
	CandidateID string
	PositionID  string
	Name        string
	Platform    string
	CreatedAt   time.Time
}

type Option struct {
	OptionID    string
	ElectionID  string
	Name        string
	Description string
	CreatedAt   time.Time
}

// PositionBallot pairs a position with its candidates for ballot rendering.
type PositionBallot struct {
	Position   Position
	Candidates []Candidate
}

// BallotStructure is the full set of valid selections for one election.
type BallotStructure struct {
	ElectionID string
	Type       ElectionType
	Positions  []PositionBallot
	Options    []Option
}
