package watcher

import "errors"

// Common errors returned by the watcher.
var (
	// ErrWatcherClosed is returned when attempting to use a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyRunning is returned when Start is called on a running watcher.
	ErrAlreadyRunning = errors.New("watcher already running")

	// ErrNotRunning is returned when Stop or Rebuild is called on a stopped watcher.
	ErrNotRunning = errors.New("watcher not running")

	// ErrNoValidFolders is returned when none of the requested folders can be watched.
	ErrNoValidFolders = errors.New("no watchable folders")
)
