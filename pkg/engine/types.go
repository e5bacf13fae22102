// Package engine is the long-lived core that owns the organizing state and
// runs scan, execute, and undo passes over the target folders.
//
// Operations serialize on one mutex: manual commands wait their turn,
// automatic passes give up immediately with ErrBusy so the watcher can fold
// them into the next quiet window. Configuration mutators clone the current
// state, persist the clone, and only then swap it in; a failed save never
// leaves half-applied state behind.
//
// Example usage:
//
//	eng, err := engine.New(engine.Config{
//	    App:    cfg,
//	    Ledger: led,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	res, err := eng.QuickOrganize(false)
package engine

import (
	"time"

	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// State describes what the engine is doing right now.
type State int

const (
	// StateIdle means no pass is running.
	StateIdle State = iota

	// StateScanning means a scan pass is listing and planning files.
	StateScanning

	// StateOrganizing means planned moves are being executed.
	StateOrganizing

	// StateUndoing means a recorded batch is being reversed.
	StateUndoing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateOrganizing:
		return "organizing"
	case StateUndoing:
		return "undoing"
	default:
		return "unknown"
	}
}

// PendingMove is one planned, not yet executed, file move.
type PendingMove struct {
	// Source is the file's current path.
	Source string `json:"source"`

	// Destination is the collision-free path the file will move to.
	Destination string `json:"destination"`

	// Name is the bare file name.
	Name string `json:"name"`

	// Category is the classified category.
	Category string `json:"category"`

	// Folder is the target folder the file was found in.
	Folder string `json:"folder"`

	// Reason explains the classification, e.g. "extension .pdf".
	Reason string `json:"reason"`
}

// FolderError records a target folder that could not be scanned.
type FolderError struct {
	// Folder is the configured folder path.
	Folder string `json:"folder"`

	// Reason is the scan failure in human-readable form.
	Reason string `json:"reason"`
}

// ScanSummary reports what one scan pass found.
type ScanSummary struct {
	// Scanned is the number of candidate files inspected.
	Scanned int `json:"scanned"`

	// Excluded is the number of files skipped by exclusion patterns.
	Excluded int `json:"excluded"`

	// Unclassified is the number of files no rule or content sniff matched.
	Unclassified int `json:"unclassified"`

	// Waiting is the number of files left alone because they look like
	// in-progress downloads or were modified too recently.
	Waiting int `json:"waiting"`

	// Planned is the number of moves queued for execution.
	Planned int `json:"planned"`

	// FolderErrors lists folders that could not be scanned.
	FolderErrors []FolderError `json:"folder_errors,omitempty"`
}

// MoveFailure records one planned move that could not be executed.
type MoveFailure struct {
	// Source is the file that failed to move.
	Source string `json:"source"`

	// Reason is the failure in human-readable form.
	Reason string `json:"reason"`
}

// ExecuteResult reports what one execute pass did.
type ExecuteResult struct {
	// SessionID identifies the recorded undo session. Empty when nothing
	// moved or the session could not be recorded.
	SessionID string `json:"session_id,omitempty"`

	// Moved lists the moves that succeeded, in execution order.
	Moved []ledger.Move `json:"moved"`

	// Failed lists the planned moves that could not be executed.
	Failed []MoveFailure `json:"failed,omitempty"`
}

// OrganizeResult combines the scan and execute halves of one organize pass.
type OrganizeResult struct {
	Summary ScanSummary   `json:"summary"`
	Execute ExecuteResult `json:"execute"`
}

// EventKind labels engine lifecycle events.
type EventKind string

const (
	// EventConfigChanged fires after a mutator persists and commits.
	EventConfigChanged EventKind = "config-changed"

	// EventScanFinished fires after a scan pass replaces the pending set.
	EventScanFinished EventKind = "scan-finished"

	// EventBatchExecuted fires after an execute pass moved at least one file.
	EventBatchExecuted EventKind = "batch-executed"

	// EventBatchUndone fires after an undo restored a session.
	EventBatchUndone EventKind = "batch-undone"
)

// Event is one engine lifecycle notification.
type Event struct {
	Kind   EventKind `json:"kind"`
	Detail string    `json:"detail"`
	Time   time.Time `json:"time"`
}

// Config contains engine dependencies and settings.
type Config struct {
	// App is the loaded application configuration. Required.
	App *config.Config

	// ConfigPath is where mutators persist configuration changes.
	// Empty disables persistence (in-memory state only).
	ConfigPath string

	// Ledger stores executed batches for undo. Required.
	Ledger ledger.Ledger

	// Clock supplies the current time. Defaults to time.Now; tests inject
	// a fixed clock to control the stability gate and month bucketing.
	Clock func() time.Time
}

// Engine owns the organizing state and runs passes over target folders.
type Engine interface {
	// Scan rebuilds the pending move set from the current folder contents.
	//
	// Parameters:
	//   - automatic: true when triggered by the watcher; applies the
	//     stability gate so files modified within the debounce window are
	//     reported as waiting instead of planned
	//
	// The pending set is replaced wholesale, the previous plan is
	// discarded. Folders that cannot be scanned are reported in the
	// summary; ErrNoTargetFolders is returned only when no folder could
	// be scanned at all.
	Scan(automatic bool) (*ScanSummary, error)

	// Execute performs the pending moves and records the successes as one
	// undoable session. Each move succeeds or fails independently; the
	// pending set is consumed either way.
	Execute() (*ExecuteResult, error)

	// QuickOrganize runs scan and execute as one pass.
	//
	// Automatic passes refuse to wait: if any operation is in flight they
	// return ErrBusy and the caller re-triggers after the next quiet
	// window. Manual passes block until the engine is free.
	QuickOrganize(automatic bool) (*OrganizeResult, error)

	// Undo reverses the most recent session.
	//
	// Returns the number of files restored, or ErrNothingToUndo when no
	// session remains.
	Undo() (int, error)

	// UndoSession reverses one session by ID.
	UndoSession(id string) (int, error)

	// Pending returns a copy of the planned moves from the last scan.
	Pending() []PendingMove

	// State returns what the engine is doing right now.
	State() State

	// Status returns the current one-line status message.
	Status() string

	// StatusIsError reports whether the status message describes a
	// failed operation rather than normal progress.
	StatusIsError() bool

	// Folders returns a copy of the configured target folders.
	Folders() []string

	// Rules returns a copy of the classification rules in precedence order.
	Rules() []rules.Rule

	// Exclusions returns a copy of the exclusion patterns.
	Exclusions() []string

	// Sessions returns all recorded sessions, most recent first.
	Sessions() ([]*ledger.Session, error)

	// Session retrieves one recorded session by ID.
	Session(id string) (*ledger.Session, error)

	// DeleteSession drops a session record without restoring any files.
	DeleteSession(id string) error

	// UndoAvailable reports whether at least one session can be undone.
	UndoAvailable() bool

	// StatsSnapshot returns the organized-file counters.
	StatsSnapshot() stats.Snapshot

	// Events returns the lifecycle event channel. Events are dropped,
	// never blocked on, when the channel is full.
	Events() <-chan Event

	// AddFolder validates a folder and appends it to the target list.
	AddFolder(path string) error

	// RemoveFolder removes a folder from the target list.
	RemoveFolder(path string) error

	// AddRule adds a new category owning firstExt, at lowest precedence.
	AddRule(category, firstExt string) error

	// RemoveRule deletes a category and all of its extensions.
	RemoveRule(category string) error

	// AddRuleExtension assigns an extension to an existing category.
	AddRuleExtension(category, ext string) error

	// RemoveRuleExtension removes an extension from a category.
	RemoveRuleExtension(category, ext string) error

	// ReorderRules rearranges category precedence.
	ReorderRules(names []string) error

	// AddExclusion validates and appends an exclusion pattern.
	AddExclusion(pattern string) error

	// RemoveExclusion removes an exclusion pattern.
	RemoveExclusion(pattern string) error

	// SetMonthBucketing toggles the YYYY-MM destination directory.
	SetMonthBucketing(enabled bool) error

	// SetDebounce sets the watch-mode quiet window, clamped to 1s-30s.
	// Returns the effective value after clamping.
	SetDebounce(d time.Duration) (time.Duration, error)

	// Close releases the engine. The ledger is owned by the caller and is
	// not closed.
	Close() error
}
