// Package plan computes collision-free destination paths for classified
// files.
//
// The destination root is <folder>/<category>, with an optional YYYY-MM
// month directory in between. Name collisions are resolved by probing
// "name (1).ext", "name (2).ext", ... against the live filesystem and
// against destinations already planned in the same pass.
//
// A planner remembers what it has handed out, so create one per scan pass
// and discard it; stale plans must never survive across scans.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxProbes bounds the collision probe. Ten thousand same-named files in
// one category folder means something else is wrong.
const maxProbes = 10000

// monthKeyFormat is the fixed, locale-independent month directory name.
const monthKeyFormat = "2006-01"

// Config contains planner settings.
type Config struct {
	// MonthBucketing inserts a YYYY-MM directory between the source folder
	// and the category folder.
	MonthBucketing bool

	// Clock supplies the current time for month bucketing. Defaults to
	// time.Now; tests inject a fixed clock.
	Clock func() time.Time
}

// Planner computes destination paths for one scan pass.
type Planner interface {
	// Plan returns a free destination path for fileName inside the
	// category folder under folder.
	//
	// The returned path is unoccupied both on disk and among the paths
	// this planner has already returned. Returns ErrNoAvailableName when
	// the probe limit is exhausted.
	Plan(fileName, category, folder string) (string, error)
}

// planner implements the Planner interface.
type planner struct {
	monthBucketing bool
	clock          func() time.Time

	// claimed holds destinations handed out earlier in this pass; those
	// files are not on disk yet, so os.Stat alone cannot see them.
	claimed map[string]bool
}

// New creates a Planner for a single scan pass.
func New(cfg Config) Planner {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &planner{
		monthBucketing: cfg.MonthBucketing,
		clock:          clock,
		claimed:        make(map[string]bool),
	}
}

// Plan implements Planner.Plan.
func (p *planner) Plan(fileName, category, folder string) (string, error) {
	if fileName == "" {
		return "", ErrEmptyFileName
	}
	if category == "" {
		return "", ErrEmptyCategory
	}
	if folder == "" {
		return "", ErrEmptyFolder
	}

	root := filepath.Join(folder, category)
	if p.monthBucketing {
		root = filepath.Join(folder, p.clock().Format(monthKeyFormat), category)
	}

	candidate := filepath.Join(root, fileName)
	if p.free(candidate) {
		p.claimed[candidate] = true
		return candidate, nil
	}

	base, suffix := splitName(fileName)
	for n := 1; n <= maxProbes; n++ {
		candidate = filepath.Join(root, fmt.Sprintf("%s (%d)%s", base, n, suffix))
		if p.free(candidate) {
			p.claimed[candidate] = true
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s in %s", ErrNoAvailableName, fileName, root)
}

// free reports whether path is absent from disk and unclaimed in this pass.
func (p *planner) free(path string) bool {
	if p.claimed[path] {
		return false
	}
	if _, err := os.Lstat(path); err == nil {
		return false
	} else if !os.IsNotExist(err) {
		// Unreadable counts as occupied; keep probing rather than risk a
		// clobber.
		return false
	}
	return true
}

// splitName separates a file name into base and dotted-suffix chain.
//
// The suffix starts at the first dot after any leading dots, so
// "archive.tar.gz" splits into "archive" and ".tar.gz" and the collision
// marker lands before the whole chain: "archive (1).tar.gz".
func splitName(fileName string) (base, suffix string) {
	trimmed := strings.TrimLeft(fileName, ".")
	i := strings.Index(trimmed, ".")
	if i < 0 {
		return fileName, ""
	}
	cut := len(fileName) - len(trimmed) + i
	return fileName[:cut], fileName[cut:]
}
