package engine

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/plan"
)

// Scan implements Engine.Scan.
func (e *engine) Scan(automatic bool) (*ScanSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	return e.scanLocked(automatic)
}

// Execute implements Engine.Execute.
func (e *engine) Execute() (*ExecuteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	return e.executeLocked(false)
}

// QuickOrganize implements Engine.QuickOrganize.
func (e *engine) QuickOrganize(automatic bool) (*OrganizeResult, error) {
	if automatic {
		// Automatic passes never queue up behind other work; the watcher
		// re-triggers after the next quiet window instead.
		if !e.mu.TryLock() {
			return nil, ErrBusy
		}
	} else {
		e.mu.Lock()
	}
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	summary, err := e.scanLocked(automatic)
	if err != nil {
		return nil, err
	}

	result, err := e.executeLocked(automatic)
	if err != nil {
		return nil, err
	}

	return &OrganizeResult{Summary: *summary, Execute: *result}, nil
}

// Undo implements Engine.Undo.
func (e *engine) Undo() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrEngineClosed
	}

	e.setState(StateUndoing, "undoing last batch")

	restored, err := e.led.UndoLatest()
	if err != nil {
		if errors.Is(err, ledger.ErrNoSessions) {
			e.setState(StateIdle, "nothing to undo")
			return 0, ErrNothingToUndo
		}
		e.setStateError(StateIdle, "undo failed")
		return 0, err
	}

	e.setState(StateIdle, fmt.Sprintf("restored %d files", restored))
	e.emit(EventBatchUndone, fmt.Sprintf("restored %d files", restored))
	return restored, nil
}

// UndoSession implements Engine.UndoSession.
func (e *engine) UndoSession(id string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrEngineClosed
	}

	e.setState(StateUndoing, "undoing batch "+id)

	restored, err := e.led.Undo(id)
	if err != nil {
		e.setStateError(StateIdle, "undo failed")
		return 0, err
	}

	e.setState(StateIdle, fmt.Sprintf("restored %d files", restored))
	e.emit(EventBatchUndone, fmt.Sprintf("restored %d files", restored))
	return restored, nil
}

// scanLocked rebuilds the pending set. Caller holds e.mu.
func (e *engine) scanLocked(automatic bool) (*ScanSummary, error) {
	e.setState(StateScanning, "scanning folders")

	summary := &ScanSummary{}
	now := e.clock()

	// One planner per pass: it remembers the destinations it has already
	// handed out, which is what makes same-named files from different
	// folders collision-free within the pass.
	planner := plan.New(plan.Config{
		MonthBucketing: e.cfg.Organize.MonthBucketing,
		Clock:          e.clock,
	})

	var pending []PendingMove
	scanned := 0

	for _, folder := range e.cfg.Folders {
		entries, err := e.scanner.List(folder)
		if err != nil {
			e.logger.Warn("skipping folder", "folder", folder, "error", err)
			summary.FolderErrors = append(summary.FolderErrors, FolderError{
				Folder: folder,
				Reason: err.Error(),
			})
			continue
		}
		scanned++

		for _, entry := range entries {
			summary.Scanned++

			if e.matcher.Excluded(entry.Name) {
				summary.Excluded++
				continue
			}

			// Stability gate: automatic passes leave freshly modified
			// files alone; the next trigger picks them up once quiet.
			if automatic && entry.Age(now) < e.cfg.Watch.Debounce {
				summary.Waiting++
				continue
			}

			res := e.classifier.Classify(entry.Name, entry.Path)
			if res.Waiting {
				summary.Waiting++
				continue
			}
			if !res.Matched {
				summary.Unclassified++
				continue
			}

			dest, err := planner.Plan(entry.Name, res.Category, entry.Folder)
			if err != nil {
				e.logger.Warn("failed to plan destination, skipping",
					"file", entry.Path,
					"error", err)
				summary.Unclassified++
				continue
			}

			pending = append(pending, PendingMove{
				Source:      entry.Path,
				Destination: dest,
				Name:        entry.Name,
				Category:    res.Category,
				Folder:      entry.Folder,
				Reason:      res.Reason,
			})
		}
	}

	if scanned == 0 {
		e.setPending(nil)
		if len(e.cfg.Folders) == 0 {
			e.setStateError(StateIdle, "no target folders configured")
		} else {
			e.setStateError(StateIdle, "no usable target folders")
		}
		return summary, ErrNoTargetFolders
	}

	// Deterministic plan order: case-insensitive name, then folder.
	sort.SliceStable(pending, func(i, j int) bool {
		ni, nj := strings.ToLower(pending[i].Name), strings.ToLower(pending[j].Name)
		if ni != nj {
			return ni < nj
		}
		if pending[i].Folder != pending[j].Folder {
			return pending[i].Folder < pending[j].Folder
		}
		return pending[i].Name < pending[j].Name
	})

	summary.Planned = len(pending)
	e.setPending(pending)

	if len(pending) == 0 {
		e.setState(StateIdle, "nothing to organize")
	} else {
		e.setState(StateIdle, fmt.Sprintf("%d files ready to organize", len(pending)))
	}

	e.emit(EventScanFinished, fmt.Sprintf("%d planned of %d scanned", summary.Planned, summary.Scanned))

	e.logger.Debug("scan finished",
		"scanned", summary.Scanned,
		"planned", summary.Planned,
		"excluded", summary.Excluded,
		"unclassified", summary.Unclassified,
		"waiting", summary.Waiting,
		"automatic", automatic)

	return summary, nil
}

// executeLocked performs the pending moves. Caller holds e.mu.
func (e *engine) executeLocked(automatic bool) (*ExecuteResult, error) {
	pending := e.pending
	if len(pending) == 0 {
		e.setState(StateIdle, "nothing to organize")
		return &ExecuteResult{}, nil
	}

	e.setState(StateOrganizing, fmt.Sprintf("organizing %d files", len(pending)))

	result := &ExecuteResult{}
	for _, mv := range pending {
		// The plan may be stale: the user or another process can touch
		// files between scan and execute. Re-check both ends rather than
		// clobber anything.
		if _, err := os.Lstat(mv.Source); err != nil {
			result.Failed = append(result.Failed, MoveFailure{
				Source: mv.Source,
				Reason: "source no longer exists",
			})
			continue
		}
		if _, err := os.Lstat(mv.Destination); err == nil {
			result.Failed = append(result.Failed, MoveFailure{
				Source: mv.Source,
				Reason: "destination occupied",
			})
			continue
		}

		if err := ledger.MoveFile(mv.Source, mv.Destination); err != nil {
			e.logger.Warn("move failed",
				"source", mv.Source,
				"destination", mv.Destination,
				"error", err)
			result.Failed = append(result.Failed, MoveFailure{
				Source: mv.Source,
				Reason: err.Error(),
			})
			continue
		}

		result.Moved = append(result.Moved, ledger.Move{
			Source:      mv.Source,
			Destination: mv.Destination,
		})
	}

	// The pass is consumed whether each move succeeded or not; the next
	// scan re-plans whatever is left.
	e.setPending(nil)

	if len(result.Moved) > 0 {
		session, err := e.led.Append(result.Moved, automatic)
		if err != nil {
			// Files are already moved; losing the record costs undo for
			// this batch, nothing else.
			e.logger.Error("failed to record session", "error", err)
		} else {
			result.SessionID = session.ID
		}
		e.tracker.Record(len(result.Moved))
	}

	status := fmt.Sprintf("organized %d files", len(result.Moved))
	if len(result.Failed) > 0 {
		status = fmt.Sprintf("organized %d files, %d failed", len(result.Moved), len(result.Failed))
	}
	e.setState(StateIdle, status)

	if len(result.Moved) > 0 {
		e.emit(EventBatchExecuted, status)
	}

	e.logger.Info("execute finished",
		"moved", len(result.Moved),
		"failed", len(result.Failed),
		"automatic", automatic)

	return result, nil
}
