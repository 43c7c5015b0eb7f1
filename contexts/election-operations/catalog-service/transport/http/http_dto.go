package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"election_type"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

type UpdateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	IsActive    bool      `json:"is_active"`
}

type ElectionResponse struct {
	ElectionID  string    `json:"election_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"election_type"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	IsActive    bool      `json:"is_active"`
	Status      string    `json:"status"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type AddPositionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	MaxVotes    int    `json:"max_votes"`
}

type PositionResponse struct {
	PositionID  string `json:"position_id"`
	ElectionID  string `json:"election_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	MaxVotes    int    `json:"max_votes"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	PositionID  string `json:"position_id"`
	Name        string `json:"name"`
	Platform    string `json:"platform,omitempty"`
}

type AddOptionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type OptionResponse struct {
	OptionID    string `json:"option_id"`
	ElectionID  string `json:"election_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type BallotPositionEntry struct {
	Position   PositionResponse    `json:"position"`
	Candidates []CandidateResponse `json:"candidates"`
}

type BallotStructureResponse struct {
	ElectionID string                `json:"election_id"`
	Type       string                `json:"election_type"`
	Positions  []BallotPositionEntry `json:"positions,omitempty"`
	Options    []OptionResponse      `json:"options,omitempty"`
}
