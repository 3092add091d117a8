// Package arena holds the business rules of the Builders Arena: the vote
// ledger and the builder-profile reconciler. Handlers in api/ translate HTTP
// requests into calls here; persistence goes through repository.Store so the
// rules stay independent of SQL.
package arena

import "errors"

// Sentinel errors surfaced to the API layer. The messages are user-visible
// and match the arena UI copy.
var (
	ErrNotMember     = errors.New("you must be a Rialo server member to vote")
	ErrMissingFields = errors.New("missing participant or event ID")
	ErrVotingClosed  = errors.New("voting is not open for this event")
	ErrDuplicateVote = errors.New("you have already voted for this participant")
	ErrNotFound      = errors.New("not found")
)
