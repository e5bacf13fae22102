package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/classify"
	"github.com/0xmhha/folder-organizer/pkg/config"
	"github.com/0xmhha/folder-organizer/pkg/exclusion"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/scan"
)

// AddFolder implements Engine.AddFolder.
func (e *engine) AddFolder(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	abs, err := scan.ValidateFolder(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFolder, err)
	}

	// Case-insensitive comparison: macOS file systems treat ~/downloads
	// and ~/Downloads as the same folder.
	for _, existing := range e.cfg.Folders {
		if strings.EqualFold(normalizeFolder(existing), abs) {
			return fmt.Errorf("%w: %s", ErrFolderExists, abs)
		}
	}

	next := e.cfg.Clone()
	next.Folders = append(next.Folders, abs)
	if err := e.persist(next); err != nil {
		return err
	}
	e.commitConfig(next)

	e.emit(EventConfigChanged, "added folder "+abs)
	e.logger.Info("target folder added", "folder", abs)
	return nil
}

// RemoveFolder implements Engine.RemoveFolder.
//
// The folder does not have to exist on disk anymore; users remove targets
// precisely because they deleted them.
func (e *engine) RemoveFolder(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	want := normalizeFolder(path)

	next := e.cfg.Clone()
	found := -1
	for i, existing := range next.Folders {
		if strings.EqualFold(normalizeFolder(existing), want) {
			found = i
			break
		}
	}
	if found < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownFolder, want)
	}

	next.Folders = append(next.Folders[:found], next.Folders[found+1:]...)
	if err := e.persist(next); err != nil {
		return err
	}
	e.commitConfig(next)

	e.emit(EventConfigChanged, "removed folder "+want)
	e.logger.Info("target folder removed", "folder", want)
	return nil
}

// AddRule implements Engine.AddRule.
func (e *engine) AddRule(category, firstExt string) error {
	return e.mutateRules("added category "+category, func(s *rules.Set) error {
		return s.Add(category, firstExt)
	})
}

// RemoveRule implements Engine.RemoveRule.
func (e *engine) RemoveRule(category string) error {
	return e.mutateRules("removed category "+category, func(s *rules.Set) error {
		return s.Remove(category)
	})
}

// AddRuleExtension implements Engine.AddRuleExtension.
func (e *engine) AddRuleExtension(category, ext string) error {
	return e.mutateRules(fmt.Sprintf("added %s to %s", ext, category), func(s *rules.Set) error {
		return s.AddExtension(category, ext)
	})
}

// RemoveRuleExtension implements Engine.RemoveRuleExtension.
func (e *engine) RemoveRuleExtension(category, ext string) error {
	return e.mutateRules(fmt.Sprintf("removed %s from %s", ext, category), func(s *rules.Set) error {
		return s.RemoveExtension(category, ext)
	})
}

// ReorderRules implements Engine.ReorderRules.
func (e *engine) ReorderRules(names []string) error {
	return e.mutateRules("reordered categories", func(s *rules.Set) error {
		return s.Reorder(names)
	})
}

// mutateRules applies fn to a clone of the rule set, persists, and commits.
// The pattern guarantees a failed mutation or save changes nothing.
func (e *engine) mutateRules(detail string, fn func(*rules.Set) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	next := e.set.Clone()
	if err := fn(next); err != nil {
		return err
	}

	cfgNext := e.cfg.Clone()
	cfgNext.Rules = next.Rules()
	if err := e.persist(cfgNext); err != nil {
		return err
	}

	e.obsMu.Lock()
	e.cfg = cfgNext
	e.set = next
	e.obsMu.Unlock()

	// The classifier snapshots its rule set, so every change rebuilds it.
	e.classifier = classify.New(next, e.logger)

	e.emit(EventConfigChanged, detail)
	e.logger.Info("rules updated", "change", detail)
	return nil
}

// AddExclusion implements Engine.AddExclusion.
func (e *engine) AddExclusion(pattern string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	trimmed := strings.TrimSpace(pattern)
	if err := exclusion.Validate(trimmed); err != nil {
		return err
	}

	current := e.matcher.Patterns()
	for _, p := range current {
		if strings.EqualFold(p, trimmed) {
			return fmt.Errorf("%w: %s", exclusion.ErrDuplicatePattern, trimmed)
		}
	}

	patterns := append(current, trimmed)
	matcher, err := exclusion.Compile(patterns)
	if err != nil {
		return err
	}

	cfgNext := e.cfg.Clone()
	cfgNext.Exclusions = patterns
	if err := e.persist(cfgNext); err != nil {
		return err
	}

	e.obsMu.Lock()
	e.cfg = cfgNext
	e.matcher = matcher
	e.obsMu.Unlock()

	e.emit(EventConfigChanged, "added exclusion "+trimmed)
	e.logger.Info("exclusion added", "pattern", trimmed)
	return nil
}

// RemoveExclusion implements Engine.RemoveExclusion.
func (e *engine) RemoveExclusion(pattern string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	trimmed := strings.TrimSpace(pattern)

	current := e.matcher.Patterns()
	found := -1
	for i, p := range current {
		if strings.EqualFold(p, trimmed) {
			found = i
			break
		}
	}
	if found < 0 {
		return fmt.Errorf("%w: %s", exclusion.ErrUnknownPattern, trimmed)
	}

	patterns := append(current[:found], current[found+1:]...)
	matcher, err := exclusion.Compile(patterns)
	if err != nil {
		return err
	}

	cfgNext := e.cfg.Clone()
	cfgNext.Exclusions = patterns
	if err := e.persist(cfgNext); err != nil {
		return err
	}

	e.obsMu.Lock()
	e.cfg = cfgNext
	e.matcher = matcher
	e.obsMu.Unlock()

	e.emit(EventConfigChanged, "removed exclusion "+trimmed)
	e.logger.Info("exclusion removed", "pattern", trimmed)
	return nil
}

// SetMonthBucketing implements Engine.SetMonthBucketing.
func (e *engine) SetMonthBucketing(enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.cfg.Organize.MonthBucketing == enabled {
		return nil
	}

	next := e.cfg.Clone()
	next.Organize.MonthBucketing = enabled
	if err := e.persist(next); err != nil {
		return err
	}
	e.commitConfig(next)

	detail := "month bucketing off"
	if enabled {
		detail = "month bucketing on"
	}
	e.emit(EventConfigChanged, detail)
	e.logger.Info("organize settings updated", "month_bucketing", enabled)
	return nil
}

// SetDebounce implements Engine.SetDebounce.
func (e *engine) SetDebounce(d time.Duration) (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrEngineClosed
	}

	// The quiet window doubles as the stability gate, so both extremes
	// misbehave: too short moves half-written files, too long organizes
	// nothing.
	if d < time.Second {
		d = time.Second
	}
	if d > 30*time.Second {
		d = 30 * time.Second
	}

	if e.cfg.Watch.Debounce == d {
		return d, nil
	}

	next := e.cfg.Clone()
	next.Watch.Debounce = d
	if err := e.persist(next); err != nil {
		return 0, err
	}
	e.commitConfig(next)

	e.emit(EventConfigChanged, "debounce set to "+d.String())
	e.logger.Info("debounce updated", "debounce", d)
	return d, nil
}

// persist writes a candidate config to disk before it is committed.
// An empty path keeps the state in memory only.
func (e *engine) persist(next *config.Config) error {
	if e.configPath == "" {
		return nil
	}
	if err := config.Save(next, e.configPath); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}
	return nil
}

// commitConfig swaps in an already persisted config.
func (e *engine) commitConfig(next *config.Config) {
	e.obsMu.Lock()
	e.cfg = next
	e.obsMu.Unlock()
}

// normalizeFolder cleans a folder path for comparison without requiring it
// to exist.
func normalizeFolder(path string) string {
	expanded := scan.ExpandHome(strings.TrimSpace(path))
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return filepath.Clean(expanded)
	}
	return filepath.Clean(abs)
}
