package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/folder-organizer/pkg/logger"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	triggers chan Trigger
	errors   chan error

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}
	watched  map[string]bool

	// Debouncing state.
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	failureCount int
}

// New creates a new folder watcher.
//
// Parameters:
//   - cfg: Watcher configuration
//   - log: Logger instance (pass logger.Noop() to disable logging)
//
// Returns error if the underlying fsnotify watcher cannot be created.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if log == nil {
		log = logger.Noop()
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 3 * time.Second
	}
	if cfg.MaxPendingTriggers <= 0 {
		cfg.MaxPendingTriggers = 16
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:            fsw,
		logger:         log,
		config:         cfg,
		triggers:       make(chan Trigger, cfg.MaxPendingTriggers),
		errors:         make(chan error, 10),
		stopChan:       make(chan struct{}),
		watched:        make(map[string]bool),
		debounceTimers: make(map[string]*time.Timer),
	}

	log.Debug("folder watcher created",
		"debounce_interval", cfg.DebounceInterval)

	return w, nil
}

// Start begins watching the specified folders.
func (w *watcher) Start(ctx context.Context, folders []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()

	if w.addFolders(folders) == 0 {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return ErrNoValidFolders
	}

	w.logger.Info("watcher started", "folder_count", len(folders))

	// Start event processing loop.
	go w.processEvents(ctx)

	return nil
}

// addFolders subscribes each watchable folder and returns how many took.
// Bad entries are skipped with a warning so one broken folder cannot take
// down the rest.
func (w *watcher) addFolders(folders []string) int {
	added := 0
	for _, folder := range folders {
		expanded := expandHome(folder)

		info, err := os.Stat(expanded)
		if err != nil {
			w.logger.Warn("watch folder not accessible, skipping",
				"folder", expanded,
				"error", err)
			continue
		}
		if !info.IsDir() {
			w.logger.Warn("watch target is not a directory, skipping",
				"folder", expanded)
			continue
		}

		if err := w.fsw.Add(expanded); err != nil {
			w.logger.Warn("failed to watch folder, skipping",
				"folder", expanded,
				"error", err)
			continue
		}

		w.mu.Lock()
		w.watched[expanded] = true
		w.mu.Unlock()

		w.logger.Debug("watching folder", "folder", expanded)
		added++
	}
	return added
}

// Rebuild replaces the watched folder set without restarting.
func (w *watcher) Rebuild(folders []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	old := w.watched
	w.watched = make(map[string]bool)
	w.mu.Unlock()

	for folder := range old {
		if err := w.fsw.Remove(folder); err != nil {
			w.logger.Debug("failed to remove watch",
				"folder", folder,
				"error", err)
		}
	}
	w.cancelTimers()

	if w.addFolders(folders) == 0 && len(folders) > 0 {
		return ErrNoValidFolders
	}

	w.logger.Info("watch list rebuilt", "folder_count", len(folders))
	return nil
}

// Stop gracefully shuts down event processing.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotRunning
	}

	close(w.stopChan)
	w.running = false

	w.logger.Info("watcher stopped")
	return nil
}

// Events returns the channel for receiving debounced triggers.
func (w *watcher) Events() <-chan Trigger {
	return w.triggers
}

// Errors returns the channel for receiving watcher errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close closes the watcher and releases resources.
func (w *watcher) Close() error {
	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	// Stop if running.
	if w.running {
		close(w.stopChan)
		w.running = false
	}

	// Close channels while holding the lock so a firing debounce timer
	// cannot send concurrently.
	close(w.triggers)
	close(w.errors)
	w.mu.Unlock()

	w.cancelTimers()

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Info("watcher closed")
	return nil
}

// processEvents is the main event processing loop.
func (w *watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled, stopping event processing")
			return

		case <-w.stopChan:
			w.logger.Debug("stop signal received")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent folds one raw fsnotify event into its folder's debounce window.
func (w *watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)

	// Hidden files are never organized, so they never trigger a pass.
	if strings.HasPrefix(name, ".") {
		return
	}

	folder := filepath.Dir(event.Name)

	w.mu.RLock()
	known := w.watched[folder]
	w.mu.RUnlock()
	if !known {
		return
	}

	w.logger.Debug("folder activity",
		"folder", folder,
		"file", name,
		"op", event.Op.String())

	w.debounce(folder)
}

// debounce arms or restarts the folder's quiet-window timer.
func (w *watcher) debounce(folder string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[folder]; exists {
		timer.Stop()
	}

	w.debounceTimers[folder] = time.AfterFunc(w.config.DebounceInterval, func() {
		w.fire(folder)
	})
}

// fire delivers a trigger once a folder's quiet window has elapsed.
func (w *watcher) fire(folder string) {
	w.debounceMu.Lock()
	delete(w.debounceTimers, folder)
	w.debounceMu.Unlock()

	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return
	}

	select {
	case w.triggers <- Trigger{Folder: folder, Time: time.Now()}:
	default:
		w.logger.Warn("trigger channel full, dropping trigger",
			"folder", folder)
	}
}

// cancelTimers stops and forgets every pending debounce timer.
func (w *watcher) cancelTimers() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	for folder, timer := range w.debounceTimers {
		timer.Stop()
		delete(w.debounceTimers, folder)
	}
}

// handleError processes watcher errors.
func (w *watcher) handleError(err error) {
	w.mu.Lock()
	w.failureCount++
	count := w.failureCount
	w.mu.Unlock()

	w.logger.Error("watch error",
		"error", err,
		"failure_count", count)

	// Send error to error channel (non-blocking).
	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}

// expandHome expands ~ to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}

	return path
}
