package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for a config file in:
// 1. $FOLDER_ORGANIZER_CONFIG
// 2. ./config.yaml (current directory)
// 3. ~/.config/folder-organizer/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	// Start with default configuration
	cfg := Default()

	// An explicitly requested file (flag or env var) must load; a
	// discovered one is best effort.
	explicit := l.configPath
	if explicit == "" {
		explicit = os.Getenv("FOLDER_ORGANIZER_CONFIG")
	}

	configPath := explicit
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			if explicit != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, just use defaults
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	// Apply environment variable overrides
	cfg = l.applyEnvVars(cfg)

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile searches for a config file in standard locations.
//
// Searches in order:
// 1. ./config.yaml
// 2. ~/.config/folder-organizer/config.yaml
//
// Returns empty string if no config file is found.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		defaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if len(override.Folders) > 0 {
		result.Folders = override.Folders
	}
	if len(override.Rules) > 0 {
		result.Rules = override.Rules
	}
	if len(override.Exclusions) > 0 {
		result.Exclusions = override.Exclusions
	}

	// MonthBucketing is a bool, so we always take the override value
	result.Organize.MonthBucketing = override.Organize.MonthBucketing

	// Merge watch config
	if override.Watch.Debounce > 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}
	if override.Watch.UpdateInterval > 0 {
		result.Watch.UpdateInterval = override.Watch.UpdateInterval
	}
	if override.Watch.Schedule != "" {
		result.Watch.Schedule = override.Watch.Schedule
	}

	// Merge ledger config
	if override.Ledger.MaxSessions > 0 {
		result.Ledger.MaxSessions = override.Ledger.MaxSessions
	}

	// Merge storage config
	if override.Storage.Path != "" {
		result.Storage.Path = override.Storage.Path
	}

	// Merge notification config
	// Enabled is a bool, so we always take the override value
	result.Notifications.Enabled = override.Notifications.Enabled
	if override.Notifications.Server != "" {
		result.Notifications.Server = override.Notifications.Server
	}
	if override.Notifications.Topic != "" {
		result.Notifications.Topic = override.Notifications.Topic
	}
	if override.Notifications.Priority != "" {
		result.Notifications.Priority = override.Notifications.Priority
	}
	if override.Notifications.Tags != "" {
		result.Notifications.Tags = override.Notifications.Tags
	}

	// Merge logging config
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - FOLDER_ORGANIZER_FOLDERS: Comma-separated list of target folders
//   - FOLDER_ORGANIZER_CONFIG: Path to config file
//   - FOLDER_ORGANIZER_STATE: Path to the state database
//   - FOLDER_ORGANIZER_LOG_LEVEL: Log level
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	// FOLDER_ORGANIZER_FOLDERS: comma-separated paths
	if envFolders := os.Getenv("FOLDER_ORGANIZER_FOLDERS"); envFolders != "" {
		folders := strings.Split(envFolders, ",")
		for i := range folders {
			folders[i] = strings.TrimSpace(folders[i])
		}
		result.Folders = folders
	}

	// FOLDER_ORGANIZER_STATE: state database path
	if statePath := os.Getenv("FOLDER_ORGANIZER_STATE"); statePath != "" {
		result.Storage.Path = statePath
	}

	// FOLDER_ORGANIZER_LOG_LEVEL: log level
	if logLevel := os.Getenv("FOLDER_ORGANIZER_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// FindPath returns the config file mutations should be saved to: the
// explicit path when given, $FOLDER_ORGANIZER_CONFIG when set, the first
// discovered candidate, or the default location when none exists yet.
func FindPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("FOLDER_ORGANIZER_CONFIG"); env != "" {
		return env
	}
	if found := (&loader{}).findConfigFile(); found != "" {
		return found
	}
	return defaultConfigPath()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
