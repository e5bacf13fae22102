// Package stats tracks how many files the organizer has moved.
//
// Counts are attributed to the calendar month a batch executed in and are
// seeded from the ledger's durable per-month totals at startup, so they
// survive restarts. Undoing a batch never decrements: the counters measure
// organizing work performed, not files currently organized.
//
// Example usage:
//
//	initial, _ := led.MonthlyStats()
//	tracker := stats.New(initial, stats.Config{})
//
//	tracker.Record(len(result.Moved))
//	fmt.Printf("organized this month: %d\n", tracker.ThisMonth())
package stats

import "time"

// Tracker accumulates organized-file counts per month.
type Tracker interface {
	// Record adds n organized files to the current month.
	//
	// Parameters:
	//   - n: Number of files moved by the batch; zero or negative is ignored
	Record(n int)

	// ThisMonth returns the count for the current calendar month.
	ThisMonth() int

	// AllTime returns the total across all recorded months.
	AllTime() int

	// Months returns per-month totals, most recent month first.
	Months() []MonthCount

	// Snapshot returns a consistent view of all counters.
	Snapshot() Snapshot
}

// MonthCount is one month's organized-file total.
type MonthCount struct {
	// Month is the calendar month in YYYY-MM form.
	Month string

	// Count is the number of files organized during that month.
	Count int
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	// ThisMonth is the current calendar month's count.
	ThisMonth int

	// AllTime is the total across all months.
	AllTime int

	// Months holds per-month totals, most recent month first.
	Months []MonthCount
}

// Config contains tracker configuration.
type Config struct {
	// Clock supplies the current time for month attribution.
	//
	// Default: time.Now.
	Clock func() time.Time
}
