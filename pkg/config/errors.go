package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrEmptyFolderPath is returned when a target folder entry is blank.
	ErrEmptyFolderPath = errors.New("target folder path is empty")

	// ErrInvalidDebounce is returned when the watch debounce is <= 0.
	ErrInvalidDebounce = errors.New("invalid watch debounce: must be > 0")

	// ErrInvalidUpdateInterval is returned when the status update interval is <= 0.
	ErrInvalidUpdateInterval = errors.New("invalid watch update interval: must be > 0")

	// ErrInvalidSchedule is returned when the watch schedule is not a valid cron expression.
	ErrInvalidSchedule = errors.New("invalid watch schedule")

	// ErrInvalidMaxSessions is returned when the undo history cap is <= 0.
	ErrInvalidMaxSessions = errors.New("invalid ledger max sessions: must be > 0")

	// ErrNoStoragePath is returned when the state database path is empty.
	ErrNoStoragePath = errors.New("no storage path specified")

	// ErrIncompleteNotification is returned when notifications are enabled
	// without a server and topic.
	ErrIncompleteNotification = errors.New("notifications enabled without server or topic")

	// ErrInvalidPriority is returned when the notification priority is not recognized.
	ErrInvalidPriority = errors.New("invalid notification priority: must be min, low, default, high, urgent, or 1-5")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
