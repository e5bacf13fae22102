// Package monitor supervises watch mode.
//
// It owns the folder watcher, routes debounced triggers into automatic
// organize passes, retries passes the engine refused while busy, runs
// optional scheduled sweeps, and publishes status updates for the CLI to
// render. Organize failures are logged and retried on the next trigger;
// watch mode itself never exits on them.
package monitor

import (
	"context"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/engine"
)

// Config holds the watch-mode configuration.
type Config struct {
	// UpdateInterval is how often a status update is published even
	// without folder activity. Default: 30s.
	UpdateInterval time.Duration

	// RetryDelay is how long a busy-deferred organize waits before running
	// again. Default: 3s.
	RetryDelay time.Duration

	// Schedule is an optional cron expression for full sweeps on top of
	// the event-driven passes. Empty disables scheduled sweeps.
	Schedule string
}

// Monitor runs the watch-mode loop around an engine.
type Monitor interface {
	// Start begins watch mode: the folder watcher, the periodic status
	// updates, and the optional schedule. Non-blocking; cancel ctx or
	// call Stop to end it.
	Start(ctx context.Context) error

	// Stop gracefully shuts watch mode down.
	Stop() error

	// Updates returns the channel status updates are published on.
	// Updates are dropped, never blocked on, when the channel is full.
	Updates() <-chan Update

	// Close releases the monitor. The engine, watcher, and notifier are
	// owned by the caller.
	Close() error
}

// Update is one watch-mode status snapshot.
type Update struct {
	// Timestamp of the update.
	Timestamp time.Time

	// State is the engine state at snapshot time.
	State engine.State

	// Status is the engine's one-line status message.
	Status string

	// Pending is the number of planned moves awaiting execution.
	Pending int

	// Organized is the number of files moved by the batch that produced
	// this update; zero for periodic updates.
	Organized int

	// ThisMonth is the running counter for the current month.
	ThisMonth int

	// AllTime is the running counter across all months.
	AllTime int
}
