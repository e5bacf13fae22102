package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/display"
	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/logger"
	"github.com/0xmhha/folder-organizer/pkg/monitor"
	"github.com/0xmhha/folder-organizer/pkg/notify"
	"github.com/0xmhha/folder-organizer/pkg/watcher"
)

// appContext bundles the components every organizing command needs.
type appContext struct {
	cfg        *config.Config
	configPath string
	log        logger.Logger
	led        ledger.Ledger
	eng        engine.Engine
}

// newAppContext loads configuration and wires up ledger and engine.
//
// Parameters:
//   - configPath: Explicit config file path, empty to search
//   - folders: Optional folder override for this invocation; overridden
//     folders are not persisted
//   - quietLogs: Force error-only logging (used by display-heavy commands)
func newAppContext(configPath string, folders []string, quietLogs bool) (*appContext, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if quietLogs {
		level = "error"
	}
	log := logger.New(logger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	// A one-off folder override runs against those folders without
	// touching the configured list.
	persistPath := config.FindPath(configPath)
	if len(folders) > 0 {
		cfg.Folders = folders
		persistPath = ""
	}

	led, err := ledger.New(ledger.Config{
		DBPath:      cfg.Storage.Path,
		MaxSessions: cfg.Ledger.MaxSessions,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	eng, err := engine.New(engine.Config{
		App:        cfg,
		ConfigPath: persistPath,
		Ledger:     led,
	}, log)
	if err != nil {
		_ = led.Close() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &appContext{
		cfg:        cfg,
		configPath: persistPath,
		log:        log,
		led:        led,
		eng:        eng,
	}, nil
}

// Close releases the engine and ledger.
func (a *appContext) Close() {
	if a.eng != nil {
		if err := a.eng.Close(); err != nil {
			a.log.Error("failed to close engine", "error", err)
		}
	}
	if a.led != nil {
		if err := a.led.Close(); err != nil {
			a.log.Error("failed to close ledger", "error", err)
		}
	}
}

// newFormatter builds a display formatter after validating the format name.
func newFormatter(format string, compact bool) (display.Formatter, error) {
	parsed, err := display.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return display.New(display.Config{Format: parsed, Compact: compact}), nil
}

// organizeCommand scans target folders and moves classified files.
type organizeCommand struct {
	folders    []string
	dryRun     bool
	format     string
	compact    bool
	configPath string
}

// Execute runs the organize command.
func (c *organizeCommand) Execute() error {
	formatter, err := newFormatter(c.format, c.compact)
	if err != nil {
		return err
	}

	app, err := newAppContext(c.configPath, c.folders, true)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.eng.Scan(false)
	if err != nil {
		return err
	}

	if err := formatter.FormatMoves(os.Stdout, app.eng.Pending()); err != nil {
		return err
	}

	for _, fe := range summary.FolderErrors {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %s\n", fe.Folder, fe.Reason)
	}

	if c.dryRun {
		c.printSummary(summary)
		return nil
	}

	result, err := app.eng.Execute()
	if err != nil {
		return err
	}

	for _, failure := range result.Failed {
		fmt.Fprintf(os.Stderr, "Warning: could not move %s: %s\n", failure.Source, failure.Reason)
	}

	fmt.Printf("Organized %d files\n", len(result.Moved))
	if result.SessionID != "" {
		fmt.Printf("Undo with: folder-organizer undo %s\n", result.SessionID)
	}
	return nil
}

// printSummary reports the non-planned remainder of a scan.
func (c *organizeCommand) printSummary(summary *engine.ScanSummary) {
	fmt.Printf("Scanned %d files: %d planned, %d excluded, %d unclassified, %d waiting\n",
		summary.Scanned,
		summary.Planned,
		summary.Excluded,
		summary.Unclassified,
		summary.Waiting)
}

// undoCommand restores the files of a recorded session.
type undoCommand struct {
	sessionID  string
	list       bool
	format     string
	configPath string
}

// Execute runs the undo command.
func (c *undoCommand) Execute() error {
	formatter, err := newFormatter(c.format, false)
	if err != nil {
		return err
	}

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if c.list {
		sessions, err := app.eng.Sessions()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		return formatter.FormatSessions(os.Stdout, sessions)
	}

	var restored int
	if c.sessionID == "" {
		restored, err = app.eng.Undo()
	} else {
		restored, err = app.eng.UndoSession(c.sessionID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Restored %d files\n", restored)
	return nil
}

// statsCommand shows the organized-file counters.
type statsCommand struct {
	format     string
	compact    bool
	configPath string
}

// Execute runs the stats command.
func (c *statsCommand) Execute() error {
	formatter, err := newFormatter(c.format, c.compact)
	if err != nil {
		return err
	}

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	return formatter.FormatStats(os.Stdout, app.eng.StatsSnapshot())
}

// watchCommand monitors target folders and organizes automatically.
type watchCommand struct {
	quiet      bool
	configPath string
}

// Execute runs the watch command.
func (c *watchCommand) Execute() error {
	app, err := newAppContext(c.configPath, nil, false)
	if err != nil {
		return err
	}
	defer app.Close()

	// One watch instance per state database. A second invocation exits
	// cleanly instead of fighting over the same folders.
	lock := flock.New(app.cfg.Storage.Path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire watch lock: %w", err)
	}
	if !locked {
		fmt.Println("Another watch instance is already running")
		return nil
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			app.log.Warn("failed to release watch lock", "error", err)
		}
	}()

	w, err := watcher.New(watcher.Config{
		DebounceInterval: app.cfg.Watch.Debounce,
	}, app.log)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			app.log.Error("failed to close watcher", "error", err)
		}
	}()

	notifier := notify.New(app.cfg.Notifications, app.log)

	mon, err := monitor.New(monitor.Config{
		UpdateInterval: app.cfg.Watch.UpdateInterval,
		RetryDelay:     app.cfg.Watch.Debounce,
		Schedule:       app.cfg.Watch.Schedule,
	}, app.eng, w, notifier, app.log)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer func() {
		if err := mon.Close(); err != nil {
			app.log.Error("failed to close monitor", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}

	fmt.Printf("Watching %d folders - press Ctrl+C to stop\n", len(app.eng.Folders()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watch mode...")
			return mon.Stop()

		case update := <-mon.Updates():
			if c.quiet {
				continue
			}
			if update.Organized > 0 {
				fmt.Printf("[%s] organized %d files (this month: %d, all time: %d)\n",
					update.Timestamp.Format("15:04:05"),
					update.Organized,
					update.ThisMonth,
					update.AllTime)
			}
		}
	}
}
