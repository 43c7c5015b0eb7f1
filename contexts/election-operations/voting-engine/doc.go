// Package votingengine implements vote casting and receipt integrity inside
// the election-operations context.
//
// The module owns the eligibility gate, the duplicate-vote guard, atomic
// ballot recording, and receipt issuance/retrieval, plus outbox-backed event
// production consumed by the worker relay. The persisted uniqueness
// constraint on (voter_id, election_id) is the sole authority for the
// one-ballot-per-election invariant; every cache in front of it is a hint.
// It keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package votingengine
