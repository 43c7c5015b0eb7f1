package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CastBallotRequest is the submission body. Candidate elections fill
// candidate_choices (position id to candidate ids); option elections fill
// option_id.
type CastBallotRequest struct {
	CandidateChoices map[string][]string `json:"candidate_choices,omitempty"`
	OptionID         string              `json:"option_id,omitempty"`
}

type ReceiptChoiceEntry struct {
	Label  string `json:"label"`
	Choice string `json:"choice"`
}

type ReceiptResponse struct {
	ReceiptID     string               `json:"receipt_id"`
	ElectionID    string               `json:"election_id"`
	ElectionTitle string               `json:"election_title"`
	ElectionType  string               `json:"election_type"`
	Choices       []ReceiptChoiceEntry `json:"choices"`
	IssuedAt      time.Time            `json:"issued_at"`
}

type HistoryEntryResponse struct {
	ElectionID    string    `json:"election_id"`
	ElectionTitle string    `json:"election_title"`
	PositionTitle string    `json:"position_title,omitempty"`
	CandidateName string    `json:"candidate_name,omitempty"`
	OptionName    string    `json:"option_name,omitempty"`
	CastAt        time.Time `json:"cast_at"`
}

type VotingHistoryResponse struct {
	Items []HistoryEntryResponse `json:"items"`
}
