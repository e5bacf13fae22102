// Package watcher turns raw filesystem activity into debounced organize
// triggers.
//
// It uses fsnotify to watch each target folder (non-recursive) and arms a
// per-folder timer on every event; only after a folder has stayed quiet for
// the debounce interval does a single Trigger fire. Bursty activity such as
// a browser download writing in chunks therefore collapses into one trigger.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 3 * time.Second,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/Downloads"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for trigger := range w.Events() {
//	    fmt.Printf("folder %s settled\n", trigger.Folder)
//	}
package watcher

import (
	"context"
	"time"
)

// Trigger is a debounced re-organize request for one folder.
type Trigger struct {
	// Folder is the watched folder that settled.
	Folder string

	// Time is when the debounce window elapsed.
	Time time.Time
}

// Watcher provides debounced folder monitoring.
type Watcher interface {
	// Start begins watching the specified folders.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - folders: Target folders to watch
	//
	// Folders that cannot be watched are skipped with a warning; an error
	// is returned only when none could be watched.
	Start(ctx context.Context, folders []string) error

	// Rebuild replaces the watched folder set without restarting.
	//
	// Pending debounce timers are cancelled; an empty folder list is
	// valid and leaves the watcher idle.
	Rebuild(folders []string) error

	// Stop gracefully shuts down event processing.
	Stop() error

	// Events returns the channel for receiving debounced triggers.
	//
	// The channel is closed when the watcher is closed.
	Events() <-chan Trigger

	// Errors returns the channel for receiving watcher errors.
	//
	// Non-fatal errors are sent to this channel.
	Errors() <-chan error

	// Close closes the watcher and releases resources.
	//
	// Returns error if resources cannot be released cleanly.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet window a folder must sustain after its
	// last event before a trigger fires. Events arriving inside the window
	// restart it.
	// Default: 3s.
	DebounceInterval time.Duration

	// MaxPendingTriggers is the trigger channel buffer size. Triggers
	// beyond it are dropped; the next folder event re-arms the timer.
	// Default: 16.
	MaxPendingTriggers int
}
