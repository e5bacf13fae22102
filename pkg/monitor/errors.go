package monitor

import "errors"

var (
	// ErrMonitorClosed is returned when operations are attempted on a closed monitor.
	ErrMonitorClosed = errors.New("monitor is closed")

	// ErrMonitorRunning is returned when trying to start an already running monitor.
	ErrMonitorRunning = errors.New("monitor is already running")

	// ErrNilEngine is returned when constructing a monitor without an engine.
	ErrNilEngine = errors.New("engine is required")

	// ErrNilWatcher is returned when constructing a monitor without a watcher.
	ErrNilWatcher = errors.New("watcher is required")
)
