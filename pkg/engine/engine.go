package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/classify"
	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/exclusion"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/logger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/scan"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// engine implements the Engine interface.
//
// mu serializes operations; obsMu guards the observable snapshot so status
// queries never wait behind a long pass. Writers hold mu for the whole
// operation and take obsMu only for the brief commit.
type engine struct {
	mu sync.Mutex

	cfg        *config.Config
	configPath string

	set        *rules.Set
	matcher    exclusion.Matcher
	classifier classify.Classifier
	scanner    scan.Scanner
	led        ledger.Ledger
	tracker    stats.Tracker
	clock      func() time.Time
	logger     logger.Logger

	obsMu     sync.RWMutex
	state     State
	status    string
	statusErr bool
	pending   []PendingMove

	events chan Event
	closed bool
}

// New creates an Engine from a loaded configuration and an open ledger.
//
// The rule set and exclusion patterns are compiled up front; a config that
// passed Validate cannot fail here. Monthly counters are hydrated from the
// ledger so stats survive restarts.
func New(cfg Config, log logger.Logger) (Engine, error) {
	if log == nil {
		log = logger.Noop()
	}
	if cfg.App == nil {
		return nil, ErrNilConfig
	}
	if cfg.Ledger == nil {
		return nil, ErrNilLedger
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	set, err := rules.New(cfg.App.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	matcher, err := exclusion.Compile(cfg.App.Exclusions)
	if err != nil {
		return nil, fmt.Errorf("invalid exclusions: %w", err)
	}

	// Stats start from the ledger's durable totals. A read failure costs
	// the seed, not the engine.
	initial, err := cfg.Ledger.MonthlyStats()
	if err != nil {
		log.Warn("failed to load monthly stats, starting empty", "error", err)
		initial = nil
	}

	e := &engine{
		cfg:        cfg.App,
		configPath: cfg.ConfigPath,
		set:        set,
		matcher:    matcher,
		classifier: classify.New(set, log),
		scanner:    scan.New(log),
		led:        cfg.Ledger,
		tracker:    stats.New(initial, stats.Config{Clock: clock}),
		clock:      clock,
		logger:     log,
		state:      StateIdle,
		status:     "idle",
		events:     make(chan Event, 16),
	}

	log.Info("engine ready",
		"folders", len(cfg.App.Folders),
		"categories", set.Len(),
		"exclusions", len(cfg.App.Exclusions))

	return e, nil
}

// Pending implements Engine.Pending.
func (e *engine) Pending() []PendingMove {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()

	out := make([]PendingMove, len(e.pending))
	copy(out, e.pending)
	return out
}

// State implements Engine.State.
func (e *engine) State() State {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	return e.state
}

// Status implements Engine.Status.
func (e *engine) Status() string {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	return e.status
}

// StatusIsError implements Engine.StatusIsError.
func (e *engine) StatusIsError() bool {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	return e.statusErr
}

// Folders implements Engine.Folders.
func (e *engine) Folders() []string {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()

	out := make([]string, len(e.cfg.Folders))
	copy(out, e.cfg.Folders)
	return out
}

// Rules implements Engine.Rules.
func (e *engine) Rules() []rules.Rule {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	return e.set.Rules()
}

// Exclusions implements Engine.Exclusions.
func (e *engine) Exclusions() []string {
	e.obsMu.RLock()
	defer e.obsMu.RUnlock()
	return e.matcher.Patterns()
}

// Sessions implements Engine.Sessions.
func (e *engine) Sessions() ([]*ledger.Session, error) {
	return e.led.List()
}

// Session implements Engine.Session.
func (e *engine) Session(id string) (*ledger.Session, error) {
	return e.led.Get(id)
}

// DeleteSession implements Engine.DeleteSession.
func (e *engine) DeleteSession(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.led.Delete(id)
}

// UndoAvailable implements Engine.UndoAvailable.
func (e *engine) UndoAvailable() bool {
	latest, err := e.led.Latest()
	if err != nil {
		e.logger.Debug("failed to check undo availability", "error", err)
		return false
	}
	return latest != nil
}

// StatsSnapshot implements Engine.StatsSnapshot.
func (e *engine) StatsSnapshot() stats.Snapshot {
	return e.tracker.Snapshot()
}

// Events implements Engine.Events.
func (e *engine) Events() <-chan Event {
	return e.events
}

// Close implements Engine.Close.
func (e *engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	close(e.events)

	e.logger.Debug("engine closed")
	return nil
}

// setState updates the observable state and status line, clearing any
// error flag from a previous operation.
func (e *engine) setState(state State, status string) {
	e.obsMu.Lock()
	e.state = state
	e.status = status
	e.statusErr = false
	e.obsMu.Unlock()
}

// setStateError is setState for operations that failed outright.
func (e *engine) setStateError(state State, status string) {
	e.obsMu.Lock()
	e.state = state
	e.status = status
	e.statusErr = true
	e.obsMu.Unlock()
}

// setPending replaces the observable pending set.
func (e *engine) setPending(pending []PendingMove) {
	e.obsMu.Lock()
	e.pending = pending
	e.obsMu.Unlock()
}

// emit delivers a lifecycle event without ever blocking an operation.
// Callers hold e.mu, so emit cannot race Close.
func (e *engine) emit(kind EventKind, detail string) {
	if e.closed {
		return
	}

	select {
	case e.events <- Event{Kind: kind, Detail: detail, Time: e.clock()}:
	default:
		e.logger.Debug("event channel full, dropping event", "kind", kind)
	}
}
