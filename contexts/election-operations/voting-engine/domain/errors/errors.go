package errors

import "errors"

var (
	ErrElectionNotFound    = errors.New("election not found")
	ErrElectionNotOpen     = errors.New("election is not open for voting")
	ErrInvalidBallot       = errors.New("ballot does not match the election's structure")
	ErrDuplicateVote       = errors.New("a ballot was already cast for this election")
	ErrReceiptIDCollision  = errors.New("receipt id already exists")
	ErrReceiptAccessDenied = errors.New("receipt not found or access denied")
)
