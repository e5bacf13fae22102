package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/logger"
	"github.com/0xmhha/folder-organizer/pkg/notify"
	"github.com/0xmhha/folder-organizer/pkg/watcher"
)

// watchMonitor implements the Monitor interface.
type watchMonitor struct {
	config   Config
	logger   logger.Logger
	engine   engine.Engine
	watcher  watcher.Watcher
	notifier notify.Notifier

	mu       sync.Mutex
	running  bool
	closed   bool
	stopChan chan struct{}
	doneChan chan struct{}

	cron *cron.Cron

	// Scheduled sweeps land here; the buffer of one makes back-to-back
	// cron firings coalesce the same way watcher triggers do.
	sweeps chan struct{}

	updates chan Update
}

// New creates a watch-mode monitor around an engine.
//
// Parameters:
//   - cfg: Monitor configuration
//   - eng: Organize engine
//   - w: Folder watcher
//   - n: Notifier for batch announcements (pass notify.Noop() to disable)
//   - log: Logger instance
//
// Returns:
//   - Configured Monitor
//   - Error if a required dependency is missing
func New(cfg Config, eng engine.Engine, w watcher.Watcher, n notify.Notifier, log logger.Logger) (Monitor, error) {
	if log == nil {
		log = logger.Noop()
	}
	if eng == nil {
		return nil, ErrNilEngine
	}
	if w == nil {
		return nil, ErrNilWatcher
	}
	if n == nil {
		n = notify.Noop()
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}

	m := &watchMonitor{
		config:   cfg,
		logger:   log,
		engine:   eng,
		watcher:  w,
		notifier: n,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		sweeps:   make(chan struct{}, 1),
		updates:  make(chan Update, 10),
	}

	log.Info("monitor created",
		"update_interval", cfg.UpdateInterval,
		"schedule", cfg.Schedule)

	return m, nil
}

// Start implements Monitor.Start.
func (m *watchMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})
	stop, done := m.stopChan, m.doneChan
	m.mu.Unlock()

	folders := m.engine.Folders()
	if err := m.watcher.Start(ctx, folders); err != nil {
		// A folderless or all-broken start is not fatal: scheduled sweeps
		// and status updates still run, and a config change can bring
		// folders in later.
		if !errors.Is(err, watcher.ErrNoValidFolders) {
			m.mu.Lock()
			m.running = false
			m.mu.Unlock()
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		m.logger.Warn("no watchable folders, waiting for configuration",
			"folder_count", len(folders))
	}

	if m.config.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(m.config.Schedule, m.requestSweep); err != nil {
			m.mu.Lock()
			m.running = false
			m.mu.Unlock()
			return fmt.Errorf("invalid schedule %q: %w", m.config.Schedule, err)
		}
		c.Start()
		m.mu.Lock()
		m.cron = c
		m.mu.Unlock()
		m.logger.Info("scheduled sweep enabled", "schedule", m.config.Schedule)
	}

	go m.loop(ctx, stop, done)

	m.logger.Info("monitor started", "folder_count", len(folders))
	return nil
}

// Stop implements Monitor.Stop. Stopping a monitor that is not running is
// a no-op.
func (m *watchMonitor) Stop() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	c := m.cron
	m.cron = nil
	done := m.doneChan
	close(m.stopChan)
	m.mu.Unlock()

	if c != nil {
		c.Stop()
	}

	if err := m.watcher.Stop(); err != nil && !errors.Is(err, watcher.ErrNotRunning) {
		m.logger.Warn("failed to stop watcher", "error", err)
	}

	// Wait for the loop so no update is published after Stop returns.
	<-done

	m.logger.Info("monitor stopped")
	return nil
}

// Updates implements Monitor.Updates.
func (m *watchMonitor) Updates() <-chan Update {
	return m.updates
}

// Close implements Monitor.Close.
func (m *watchMonitor) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	running := m.running
	m.mu.Unlock()

	if running {
		if err := m.Stop(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.logger.Debug("monitor closed")
	return nil
}

// loop is the watch-mode event loop. All engine access happens here, so
// triggers, sweeps, retries, and config changes never race each other.
func (m *watchMonitor) loop(ctx context.Context, stop chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.config.UpdateInterval)
	defer ticker.Stop()

	// Busy-retry timer, armed only while a deferred pass is pending.
	retry := time.NewTimer(m.config.RetryDelay)
	if !retry.Stop() {
		<-retry.C
	}
	defer retry.Stop()
	retryArmed := false

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("context cancelled, stopping monitor loop")
			return

		case <-stop:
			return

		case trigger, ok := <-m.watcher.Events():
			if !ok {
				m.logger.Info("watcher events channel closed")
				return
			}
			m.logger.Debug("folder settled", "folder", trigger.Folder)
			retryArmed = m.organize(ctx, retry, retryArmed)

		case err, ok := <-m.watcher.Errors():
			if !ok {
				m.logger.Info("watcher errors channel closed")
				return
			}
			m.logger.Error("watcher error", "error", err)

		case <-m.sweeps:
			m.logger.Info("scheduled sweep starting")
			retryArmed = m.organize(ctx, retry, retryArmed)

		case <-retry.C:
			retryArmed = false
			m.logger.Debug("retrying deferred organize")
			retryArmed = m.organize(ctx, retry, retryArmed)

		case event, ok := <-m.engine.Events():
			if !ok {
				return
			}
			if event.Kind == engine.EventConfigChanged {
				m.rebuildWatches(ctx)
			}

		case <-ticker.C:
			m.publish(Update{
				Timestamp: time.Now(),
				State:     m.engine.State(),
				Status:    m.engine.Status(),
				Pending:   len(m.engine.Pending()),
				ThisMonth: m.engine.StatsSnapshot().ThisMonth,
				AllTime:   m.engine.StatsSnapshot().AllTime,
			})
		}
	}
}

// organize runs one automatic pass and publishes the outcome. A busy
// engine defers the pass: the retry timer is re-armed in place so deferred
// work coalesces instead of stacking.
func (m *watchMonitor) organize(ctx context.Context, retry *time.Timer, retryArmed bool) bool {
	result, err := m.engine.QuickOrganize(true)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrBusy):
			m.logger.Debug("engine busy, deferring pass", "delay", m.config.RetryDelay)
			if retryArmed {
				if !retry.Stop() {
					select {
					case <-retry.C:
					default:
					}
				}
			}
			retry.Reset(m.config.RetryDelay)
			return true
		case errors.Is(err, engine.ErrNoTargetFolders):
			m.logger.Warn("automatic pass skipped", "error", err)
		default:
			m.logger.Error("automatic organize failed", "error", err)
		}
		return retryArmed
	}

	moved := len(result.Execute.Moved)
	if moved > 0 {
		m.announce(ctx, moved)
	}

	snapshot := m.engine.StatsSnapshot()
	m.publish(Update{
		Timestamp: time.Now(),
		State:     m.engine.State(),
		Status:    m.engine.Status(),
		Pending:   len(m.engine.Pending()),
		Organized: moved,
		ThisMonth: snapshot.ThisMonth,
		AllTime:   snapshot.AllTime,
	})

	return retryArmed
}

// announce sends the batch notification without blocking the loop.
// Delivery failures are logged and forgotten.
func (m *watchMonitor) announce(ctx context.Context, moved int) {
	message := fmt.Sprintf("%d files organized", moved)
	if moved == 1 {
		message = "1 file organized"
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := m.notifier.Send(sendCtx, "Folder Organizer", message); err != nil {
			m.logger.Warn("notification failed", "error", err)
		}
	}()
}

// rebuildWatches points the watcher at the engine's current folder list.
func (m *watchMonitor) rebuildWatches(ctx context.Context) {
	folders := m.engine.Folders()

	err := m.watcher.Rebuild(folders)
	if errors.Is(err, watcher.ErrNotRunning) {
		// The watcher never got off the ground at Start because nothing
		// was watchable; the new folder list may fix that.
		err = m.watcher.Start(ctx, folders)
	}
	if err != nil && !errors.Is(err, watcher.ErrNoValidFolders) {
		m.logger.Error("failed to rebuild watches", "error", err)
		return
	}

	m.logger.Info("watch list updated", "folder_count", len(folders))
}

// requestSweep queues one scheduled sweep, coalescing with any already queued.
func (m *watchMonitor) requestSweep() {
	select {
	case m.sweeps <- struct{}{}:
	default:
	}
}

// publish delivers an update without blocking; stale updates are dropped.
func (m *watchMonitor) publish(update Update) {
	select {
	case m.updates <- update:
	default:
		m.logger.Debug("updates channel full, dropping update")
	}
}
