package ledger

import "errors"

// Common errors returned by the session ledger.
var (
	// ErrEmptySession is returned when appending a batch with no moves.
	ErrEmptySession = errors.New("session must contain at least one move")

	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSessionID is returned when a session ID is not a UUID.
	ErrInvalidSessionID = errors.New("invalid session ID")

	// ErrNoSessions is returned when undoing with an empty ledger.
	ErrNoSessions = errors.New("no sessions to undo")
)
