package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/folder-organizer/pkg/logger"
)

// Bucket names.
var (
	bucketSessions = []byte("sessions") // time key -> Session JSON
	bucketIndex    = []byte("index")    // session ID -> time key
	bucketStats    = []byte("stats")    // YYYY-MM -> move count
)

// boltLedger implements the Ledger interface using BoltDB.
type boltLedger struct {
	db          *bolt.DB
	logger      logger.Logger
	maxSessions int
}

// New creates a bolt-backed ledger.
//
// Parameters:
//   - cfg: Ledger configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Ledger
//   - Error if the database cannot be opened
func New(cfg Config, log logger.Logger) (Ledger, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	dbPath := expandHome(cfg.DBPath)

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSessions, bucketIndex, bucketStats} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return fmt.Errorf("failed to create %s bucket: %w", bucket, createErr)
			}
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after initialization error",
				"error", closeErr)
		}
		return nil, err
	}

	log.Info("session ledger initialized",
		"db_path", dbPath,
		"max_sessions", cfg.MaxSessions)

	return &boltLedger{
		db:          db,
		logger:      log,
		maxSessions: cfg.MaxSessions,
	}, nil
}

// Append implements Ledger.Append.
func (l *boltLedger) Append(moves []Move, automatic bool) (*Session, error) {
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

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	err = l.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(bucketSessions)
		index := tx.Bucket(bucketIndex)
		stats := tx.Bucket(bucketStats)

		key := []byte(timeKey(session))
		if err := sessions.Put(key, data); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		if err := index.Put([]byte(session.ID), key); err != nil {
			return fmt.Errorf("failed to store session index: %w", err)
		}
		if err := bumpStat(stats, monthKey(session.ExecutedAt), len(session.Moves)); err != nil {
			return err
		}

		return l.evictOldest(sessions, index)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("session appended",
		"id", session.ID,
		"moves", len(session.Moves),
		"automatic", session.Automatic)

	return session, nil
}

// Latest implements Ledger.Latest.
func (l *boltLedger) Latest() (*Session, error) {
	var session *Session

	err := l.db.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket(bucketSessions).Cursor().Last()
		if v == nil {
			return nil
		}

		var s Session
		if unmarshalErr := json.Unmarshal(v, &s); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal session: %w", unmarshalErr)
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Get implements Ledger.Get.
func (l *boltLedger) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSessionID, id)
	}

	var session *Session

	err := l.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIndex).Get([]byte(id))
		if key == nil {
			return ErrSessionNotFound
		}

		data := tx.Bucket(bucketSessions).Get(key)
		if data == nil {
			return ErrSessionNotFound
		}

		var s Session
		if unmarshalErr := json.Unmarshal(data, &s); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal session: %w", unmarshalErr)
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// List implements Ledger.List.
func (l *boltLedger) List() ([]*Session, error) {
	sessions := make([]*Session, 0, l.maxSessions)

	err := l.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketSessions).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var s Session
			if unmarshalErr := json.Unmarshal(v, &s); unmarshalErr != nil {
				l.logger.Warn("failed to unmarshal session",
					"key", string(k),
					"error", unmarshalErr)
				continue // Skip invalid entries.
			}
			sessions = append(sessions, &s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// UndoLatest implements Ledger.UndoLatest.
func (l *boltLedger) UndoLatest() (int, error) {
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
func (l *boltLedger) Undo(id string) (int, error) {
	session, err := l.Get(id)
	if err != nil {
		return 0, err
	}

	// File restores run outside the write transaction; only the single
	// engine owner calls into the ledger, so nothing races the replay.
	restored := restoreSession(l.logger, session)

	if err := l.Delete(session.ID); err != nil {
		return restored, err
	}

	l.logger.Info("session undone",
		"id", session.ID,
		"restored", restored,
		"moves", len(session.Moves))

	return restored, nil
}

// Delete implements Ledger.Delete.
func (l *boltLedger) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSessionID, id)
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketIndex)

		key := index.Get([]byte(id))
		if key == nil {
			return ErrSessionNotFound
		}

		if err := tx.Bucket(bucketSessions).Delete(key); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if err := index.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete session index: %w", err)
		}
		return nil
	})
}

// MonthlyStats implements Ledger.MonthlyStats.
func (l *boltLedger) MonthlyStats() (map[string]int, error) {
	stats := make(map[string]int)

	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStats).ForEach(func(k, v []byte) error {
			count, parseErr := strconv.Atoi(string(v))
			if parseErr != nil {
				l.logger.Warn("skipping unreadable stats entry",
					"month", string(k),
					"error", parseErr)
				return nil
			}
			stats[string(k)] = count
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	return stats, nil
}

// Close implements Ledger.Close.
func (l *boltLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	l.logger.Info("session ledger closed")
	return nil
}

// evictOldest trims the history down to the configured cap inside an open
// write transaction. Evicted sessions are gone for good; their files stay
// where they are.
func (l *boltLedger) evictOldest(sessions, index *bolt.Bucket) error {
	count := 0
	if err := sessions.ForEach(func(k, v []byte) error {
		count++
		return nil
	}); err != nil {
		return err
	}

	for ; count > l.maxSessions; count-- {
		k, v := sessions.Cursor().First()
		if k == nil {
			break
		}

		var s Session
		if err := json.Unmarshal(v, &s); err == nil {
			if err := index.Delete([]byte(s.ID)); err != nil {
				return fmt.Errorf("failed to delete evicted index: %w", err)
			}
		}
		if err := sessions.Delete(k); err != nil {
			return fmt.Errorf("failed to evict session: %w", err)
		}

		l.logger.Info("evicted oldest session", "id", s.ID)
	}
	return nil
}

// bumpStat increments one monthly counter inside an open write transaction.
func bumpStat(stats *bolt.Bucket, key string, n int) error {
	current := 0
	if v := stats.Get([]byte(key)); v != nil {
		if parsed, err := strconv.Atoi(string(v)); err == nil {
			current = parsed
		}
	}
	if err := stats.Put([]byte(key), []byte(strconv.Itoa(current+n))); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	return nil
}

// timeKey builds a lexically sortable session key. The ID suffix keeps
// keys unique when two batches land in the same nanosecond.
func timeKey(s *Session) string {
	return fmt.Sprintf("%020d-%s", s.ExecutedAt.UnixNano(), s.ID)
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
