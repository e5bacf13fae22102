package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/folder-organizer/pkg/logger"
)

// memoryLedger implements the Ledger interface in memory.
//
// Useful for tests that need session and undo semantics without a
// database file. Undo still performs real filesystem restores; only the
// bookkeeping is volatile.
type memoryLedger struct {
	mu          sync.Mutex
	sessions    []*Session // chronological order
	stats       map[string]int
	maxSessions int
	logger      logger.Logger
}

// NewMemory creates an in-memory ledger.
func NewMemory(maxSessions int, log logger.Logger) Ledger {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if log == nil {
		log = logger.Noop()
	}
	return &memoryLedger{
		stats:       make(map[string]int),
		maxSessions: maxSessions,
		logger:      log,
	}
}

// Append implements Ledger.Append.
func (l *memoryLedger) Append(moves []Move, automatic bool) (*Session, error) {
	if len(moves) == 0 {
		return nil, ErrEmptySession
	}

	session := &Session{
		ID:         uuid.New().String(),
		ExecutedAt: time.Now(),
		Automatic:  automatic,
		Moves:      make([]Move, len(moves)),
	}
	copy(session.Moves, moves)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sessions = append(l.sessions, session)
	l.stats[monthKey(session.ExecutedAt)] += len(session.Moves)

	for len(l.sessions) > l.maxSessions {
		evicted := l.sessions[0]
		l.sessions = l.sessions[1:]
		l.logger.Info("evicted oldest session", "id", evicted.ID)
	}

	return copySession(session), nil
}

// Latest implements Ledger.Latest.
func (l *memoryLedger) Latest() (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.sessions) == 0 {
		return nil, nil
	}
	return copySession(l.sessions[len(l.sessions)-1]), nil
}

// Get implements Ledger.Get.
func (l *memoryLedger) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSessionID, id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sessions {
		if s.ID == id {
			return copySession(s), nil
		}
	}
	return nil, ErrSessionNotFound
}

// List implements Ledger.List.
func (l *memoryLedger) List() ([]*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Session, 0, len(l.sessions))
	for i := len(l.sessions) - 1; i >= 0; i-- {
		out = append(out, copySession(l.sessions[i]))
	}
	return out, nil
}

// UndoLatest implements Ledger.UndoLatest.
func (l *memoryLedger) UndoLatest() (int, error) {
	latest, err := l.Latest()
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, ErrNoSessions
	}
	return l.Undo(latest.ID)
}

// Undo implements Ledger.Undo.
func (l *memoryLedger) Undo(id string) (int, error) {
	session, err := l.Get(id)
	if err != nil {
		return 0, err
	}

	restored := restoreSession(l.logger, session)

	if err := l.Delete(session.ID); err != nil {
		return restored, err
	}
	return restored, nil
}

// Delete implements Ledger.Delete.
func (l *memoryLedger) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSessionID, id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.sessions {
		if s.ID == id {
			l.sessions = append(l.sessions[:i], l.sessions[i+1:]...)
			return nil
		}
	}
	return ErrSessionNotFound
}

// MonthlyStats implements Ledger.MonthlyStats.
func (l *memoryLedger) MonthlyStats() (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.stats))
	for k, v := range l.stats {
		out[k] = v
	}
	return out, nil
}

// Close implements Ledger.Close.
func (l *memoryLedger) Close() error {
	return nil
}

// copySession returns an independent copy so callers cannot alias stored
// state.
func copySession(s *Session) *Session {
	out := *s
	out.Moves = make([]Move, len(s.Moves))
	copy(out.Moves, s.Moves)
	return &out
}
