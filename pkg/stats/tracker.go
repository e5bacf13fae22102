package stats

import (
	"sort"
	"sync"
	"time"
)

const monthKeyFormat = "2006-01"

// tracker implements the Tracker interface.
type tracker struct {
	clock func() time.Time

	mu     sync.RWMutex
	months map[string]int // YYYY-MM -> organized files
}

// New creates a tracker seeded with per-month totals, usually the ledger's
// MonthlyStats. The initial map is copied; later changes to it are not seen.
func New(initial map[string]int, cfg Config) Tracker {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	months := make(map[string]int, len(initial))
	for month, count := range initial {
		months[month] = count
	}

	return &tracker{
		clock:  cfg.Clock,
		months: months,
	}
}

// Record implements Tracker.Record.
func (t *tracker) Record(n int) {
	if n <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.months[t.clock().Format(monthKeyFormat)] += n
}

// ThisMonth implements Tracker.ThisMonth.
func (t *tracker) ThisMonth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.months[t.clock().Format(monthKeyFormat)]
}

// AllTime implements Tracker.AllTime.
func (t *tracker) AllTime() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.allTimeLocked()
}

// Months implements Tracker.Months.
func (t *tracker) Months() []MonthCount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.monthsLocked()
}

// Snapshot implements Tracker.Snapshot.
func (t *tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Snapshot{
		ThisMonth: t.months[t.clock().Format(monthKeyFormat)],
		AllTime:   t.allTimeLocked(),
		Months:    t.monthsLocked(),
	}
}

func (t *tracker) allTimeLocked() int {
	total := 0
	for _, count := range t.months {
		total += count
	}
	return total
}

func (t *tracker) monthsLocked() []MonthCount {
	result := make([]MonthCount, 0, len(t.months))
	for month, count := range t.months {
		result = append(result, MonthCount{Month: month, Count: count})
	}

	// YYYY-MM sorts lexically, so reverse string order is reverse time order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month > result[j].Month
	})

	return result
}
