// Package ledger records executed move batches as undoable sessions.
//
// Every successful organize pass appends one session. Undo replays a
// session's moves in reverse, restoring files to their recorded sources,
// and removes the session; history is capped, with the oldest sessions
// evicted unrestored. Monthly move counters are persisted alongside the
// sessions and survive undo.
//
// Example usage:
//
//	led, err := ledger.New(ledger.Config{DBPath: "~/.folder-organizer/state.db"}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer led.Close()
//
//	session, err := led.Append([]ledger.Move{
//	    {Source: "/d/a.pdf", Destination: "/d/Documents/a.pdf"},
//	}, false)
package ledger

import "time"

// DefaultMaxSessions caps the undo history when the config does not.
const DefaultMaxSessions = 10

// Move is one executed source-to-destination file move.
type Move struct {
	// Source is the original file path.
	Source string `json:"source"`

	// Destination is the path the file was moved to.
	Destination string `json:"destination"`
}

// Session is one executed batch of moves, undoable as a unit.
type Session struct {
	// ID is the session UUID.
	ID string `json:"id"`

	// ExecutedAt is when the batch completed.
	ExecutedAt time.Time `json:"executed_at"`

	// Automatic marks batches triggered by the folder watcher rather than
	// a user command.
	Automatic bool `json:"automatic"`

	// Moves lists the executed moves in execution order.
	Moves []Move `json:"moves"`
}

// Config contains ledger configuration.
type Config struct {
	// DBPath is the bolt database file path. Supports ~ expansion.
	DBPath string

	// MaxSessions caps the retained history. Oldest sessions beyond the
	// cap are evicted without being restored. Zero means
	// DefaultMaxSessions.
	MaxSessions int

	// Timeout is the bolt file-lock timeout. Zero means one second.
	Timeout time.Duration
}

// Ledger stores sessions and performs undo.
type Ledger interface {
	// Append records one executed batch and bumps the monthly counter by
	// the number of moves, in a single transaction.
	//
	// Returns:
	//   - The stored session with its generated ID
	//   - ErrEmptySession if moves is empty
	//   - Error for storage failures
	Append(moves []Move, automatic bool) (*Session, error)

	// Latest returns the most recently appended session, or nil when the
	// ledger is empty.
	Latest() (*Session, error)

	// Get retrieves a session by ID.
	//
	// Returns:
	//   - ErrInvalidSessionID if the ID is not a UUID
	//   - ErrSessionNotFound if no such session exists
	Get(id string) (*Session, error)

	// List returns all sessions, most recent first.
	List() ([]*Session, error)

	// UndoLatest undoes the most recent session.
	//
	// Returns:
	//   - The number of files actually restored
	//   - ErrNoSessions when the ledger is empty
	UndoLatest() (int, error)

	// Undo replays the session's moves in reverse order, restoring each
	// file from its destination back to its source, then removes the
	// session. A file is skipped when its destination no longer exists or
	// its source is occupied; skips do not abort the rest. Category
	// directories left empty by the restore are removed.
	//
	// Returns the number of files restored, which may be less than the
	// session's move count.
	Undo(id string) (int, error)

	// Delete removes a session record without restoring any files.
	Delete(id string) error

	// MonthlyStats returns the persisted per-month move counters, keyed
	// by "YYYY-MM". Counters are never decremented, not even by undo.
	MonthlyStats() (map[string]int, error)

	// Close releases the underlying store.
	Close() error
}

// monthKey formats the stats bucket key for a point in time.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
