// Package config provides configuration management for folder-organizer.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// The file is also the durable home of the organizing state the user edits
// through the CLI: target folders, classification rules, and exclusion
// patterns are written back with Save whenever they change.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Target folders: %v\n", cfg.Folders)
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/0xmhha/folder-organizer/pkg/exclusion"
	"github.com/0xmhha/folder-organizer/pkg/rules"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Rules must form a valid rule set (at least one category)
// - Every exclusion pattern must compile
// - Watch.Debounce and Watch.UpdateInterval must be > 0
// - Ledger.MaxSessions must be > 0
// - Storage.Path must be non-empty.
type Config struct {
	// Target folders to organize
	Folders []string `yaml:"folders"`

	// Classification rules, highest precedence first
	Rules []rules.Rule `yaml:"rules"`

	// Exclusion patterns (dotted suffix, glob, or literal name)
	Exclusions []string `yaml:"exclusions"`

	// Organizing behavior
	Organize OrganizeConfig `yaml:"organize"`

	// Watch mode settings
	Watch WatchConfig `yaml:"watch"`

	// Undo history settings
	Ledger LedgerConfig `yaml:"ledger"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Notification settings
	Notifications NotificationConfig `yaml:"notifications"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// OrganizeConfig contains organizing behavior settings.
type OrganizeConfig struct {
	// Route files into <folder>/<YYYY-MM>/<category> instead of <folder>/<category>
	MonthBucketing bool `yaml:"month_bucketing"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	// Quiet window after filesystem activity before a folder is organized
	Debounce time.Duration `yaml:"debounce"`

	// How often watch mode reports a status update
	UpdateInterval time.Duration `yaml:"update_interval"`

	// Optional cron expression for scheduled sweeps (empty disables)
	Schedule string `yaml:"schedule"`
}

// LedgerConfig contains undo history settings.
type LedgerConfig struct {
	// Maximum sessions kept for undo; oldest evicted beyond this
	MaxSessions int `yaml:"max_sessions"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to the BoltDB state database
	Path string `yaml:"path"`
}

// NotificationConfig contains ntfy push notification settings.
type NotificationConfig struct {
	// Send a notification after each automatic batch
	Enabled bool `yaml:"enabled"`

	// ntfy server base URL
	Server string `yaml:"server"`

	// ntfy topic to publish to
	Topic string `yaml:"topic"`

	// Message priority (min, low, default, high, urgent, or 1-5)
	Priority string `yaml:"priority"`

	// Comma-separated emoji shortcodes
	Tags string `yaml:"tags"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Clone returns a deep copy of the configuration.
//
// The engine mutates a clone, persists it, and only then swaps it in, so
// a failed save never leaves half-applied state behind.
func (c *Config) Clone() *Config {
	next := *c
	next.Folders = append([]string(nil), c.Folders...)
	next.Exclusions = append([]string(nil), c.Exclusions...)
	next.Rules = make([]rules.Rule, len(c.Rules))
	for i, r := range c.Rules {
		next.Rules[i] = rules.Rule{
			Category:   r.Category,
			Extensions: append([]string(nil), r.Extensions...),
		}
	}
	return &next
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns an error if any invariant is violated:
//   - Blank target folder entries
//   - Rules that do not form a valid rule set
//   - Exclusion patterns that do not compile
//   - Invalid durations (must be > 0)
//   - Invalid cron schedule
//   - Invalid notification priority
//   - Invalid log level or format
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	for _, folder := range c.Folders {
		if strings.TrimSpace(folder) == "" {
			return ErrEmptyFolderPath
		}
	}

	// Validate rules and exclusions with their own packages so the CLI
	// reports the same errors for a bad file as for a bad command.
	if _, err := rules.New(c.Rules); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	for _, pattern := range c.Exclusions {
		if err := exclusion.Validate(pattern); err != nil {
			return fmt.Errorf("invalid exclusion %q: %w", pattern, err)
		}
	}

	// Validate watch config
	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}
	if c.Watch.UpdateInterval <= 0 {
		return ErrInvalidUpdateInterval
	}
	if c.Watch.Schedule != "" {
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}

	// Validate ledger config
	if c.Ledger.MaxSessions <= 0 {
		return ErrInvalidMaxSessions
	}

	// Validate storage config
	if c.Storage.Path == "" {
		return ErrNoStoragePath
	}

	// Validate notification config
	if c.Notifications.Enabled {
		if c.Notifications.Server == "" || c.Notifications.Topic == "" {
			return ErrIncompleteNotification
		}
	}
	validPriorities := map[string]bool{
		"":        true,
		"min":     true,
		"low":     true,
		"default": true,
		"high":    true,
		"urgent":  true,
		"1":       true,
		"2":       true,
		"3":       true,
		"4":       true,
		"5":       true,
	}
	if !validPriorities[c.Notifications.Priority] {
		return ErrInvalidPriority
	}

	// Validate logging config
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
//
// Defaults target a typical Downloads-folder workflow: the stock rule set,
// no exclusions, month bucketing off, and a 3 second quiet window for
// watch mode.
func Default() *Config {
	return &Config{
		Folders: defaultFolders(),
		Rules:   rules.Default().Rules(),
		Organize: OrganizeConfig{
			MonthBucketing: false,
		},
		Watch: WatchConfig{
			Debounce:       3 * time.Second,
			UpdateInterval: 30 * time.Second,
		},
		Ledger: LedgerConfig{
			MaxSessions: 10,
		},
		Storage: StorageConfig{
			Path: defaultStatePath(),
		},
		Notifications: NotificationConfig{
			Enabled:  false,
			Server:   "https://ntfy.sh",
			Priority: "default",
			Tags:     "file_folder",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
