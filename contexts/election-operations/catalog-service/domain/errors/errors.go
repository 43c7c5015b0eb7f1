package errors

import "errors"

var (
	ErrInvalidElectionInput = errors.New("invalid election input")
	ErrInvalidVotingWindow  = errors.New("election start must be before end")
	ErrElectionNotFound     = errors.New("election not found")
	ErrElectionTypeMismatch = errors.New("operation does not match election type")
	ErrInvalidMaxVotes      = errors.New("position max votes must be at least one")
	ErrPositionNotFound     = errors.New("position not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrOptionNotFound       = errors.New("option not found")
)
