package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/exclusion"
	"github.com/0xmhha/folder-organizer/pkg/rules"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify defaults are set
	if len(cfg.Rules) == 0 {
		t.Error("Rules is empty")
	}

	if cfg.Watch.Debounce != 3*time.Second {
		t.Errorf("Watch.Debounce = %v, want 3s", cfg.Watch.Debounce)
	}

	if cfg.Ledger.MaxSessions != 10 {
		t.Errorf("Ledger.MaxSessions = %d, want 10", cfg.Ledger.MaxSessions)
	}

	if cfg.Storage.Path == "" {
		t.Error("Storage.Path not set")
	}

	if cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled = true, want false")
	}

	if cfg.Logging.Level == "" {
		t.Error("Log level not set")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid default config",
			mutate: func(*Config) {},
		},
		{
			name:    "blank folder entry",
			mutate:  func(c *Config) { c.Folders = []string{"  "} },
			wantErr: ErrEmptyFolderPath,
		},
		{
			name:    "no rules",
			mutate:  func(c *Config) { c.Rules = nil },
			wantErr: rules.ErrNoCategories,
		},
		{
			name:    "bad exclusion pattern",
			mutate:  func(c *Config) { c.Exclusions = []string{"[abc"} },
			wantErr: exclusion.ErrBadPattern,
		},
		{
			name:    "zero debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = 0 },
			wantErr: ErrInvalidDebounce,
		},
		{
			name:    "zero update interval",
			mutate:  func(c *Config) { c.Watch.UpdateInterval = 0 },
			wantErr: ErrInvalidUpdateInterval,
		},
		{
			name:    "bad cron schedule",
			mutate:  func(c *Config) { c.Watch.Schedule = "every tuesday" },
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "zero max sessions",
			mutate:  func(c *Config) { c.Ledger.MaxSessions = 0 },
			wantErr: ErrInvalidMaxSessions,
		},
		{
			name:    "empty storage path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantErr: ErrNoStoragePath,
		},
		{
			name: "notifications without topic",
			mutate: func(c *Config) {
				c.Notifications.Enabled = true
				c.Notifications.Topic = ""
			},
			wantErr: ErrIncompleteNotification,
		},
		{
			name:    "bad priority",
			mutate:  func(c *Config) { c.Notifications.Priority = "shout" },
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `
folders:
  - /data/inbox
  - /data/shared
rules:
  - category: Docs
    extensions: [".pdf", ".txt"]
exclusions:
  - "*.tmp"
organize:
  month_bucketing: true
watch:
  debounce: 5s
  update_interval: 1m
  schedule: "0 3 * * *"
ledger:
  max_sessions: 20
storage:
  path: /tmp/state.db
notifications:
  enabled: true
  server: https://ntfy.example.com
  topic: organizer
  priority: high
logging:
  level: debug
  output: stdout
  format: json
`
	filePath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg, err := NewLoader(filePath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Folders) != 2 || cfg.Folders[0] != "/data/inbox" {
		t.Errorf("Folders = %v, want [/data/inbox /data/shared]", cfg.Folders)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Category != "Docs" {
		t.Errorf("Rules = %v, want single Docs rule", cfg.Rules)
	}
	if len(cfg.Exclusions) != 1 || cfg.Exclusions[0] != "*.tmp" {
		t.Errorf("Exclusions = %v, want [*.tmp]", cfg.Exclusions)
	}
	if !cfg.Organize.MonthBucketing {
		t.Error("MonthBucketing = false, want true")
	}
	if cfg.Watch.Debounce != 5*time.Second {
		t.Errorf("Watch.Debounce = %v, want 5s", cfg.Watch.Debounce)
	}
	if cfg.Watch.Schedule != "0 3 * * *" {
		t.Errorf("Watch.Schedule = %q, want 0 3 * * *", cfg.Watch.Schedule)
	}
	if cfg.Ledger.MaxSessions != 20 {
		t.Errorf("Ledger.MaxSessions = %d, want 20", cfg.Ledger.MaxSessions)
	}
	if cfg.Storage.Path != "/tmp/state.db" {
		t.Errorf("Storage.Path = %s, want /tmp/state.db", cfg.Storage.Path)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.Topic != "organizer" {
		t.Errorf("Notifications = %+v, want enabled with topic organizer", cfg.Notifications)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	badPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("folders: [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if _, err := NewLoader(badPath).Load(); err == nil {
		t.Error("Load() with invalid YAML: error = nil, want error")
	}

	missing := filepath.Join(tmpDir, "nonexistent.yaml")
	if _, err := NewLoader(missing).Load(); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() with missing file: error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadMergeKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	// A file that only sets folders keeps the stock rules and timings.
	filePath := filepath.Join(tmpDir, "partial.yaml")
	if err := os.WriteFile(filePath, []byte("folders:\n  - /data/inbox\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg, err := NewLoader(filePath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Folders) != 1 || cfg.Folders[0] != "/data/inbox" {
		t.Errorf("Folders = %v, want [/data/inbox]", cfg.Folders)
	}
	if len(cfg.Rules) != len(Default().Rules) {
		t.Errorf("Rules = %d categories, want stock set", len(cfg.Rules))
	}
	if cfg.Watch.Debounce != 3*time.Second {
		t.Errorf("Watch.Debounce = %v, want default 3s", cfg.Watch.Debounce)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("FOLDER_ORGANIZER_CONFIG", "")

	// Default loading (no config file)
	cfg, err := Load()
	if err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil")
	}

	// Should have default values
	if len(cfg.Rules) == 0 {
		t.Error("Load() returned config with no rules")
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Folders = []string{"/data/inbox"}
	cfg.Organize.MonthBucketing = true
	cfg.Exclusions = []string{".bak", "*.tmp"}

	// Save config
	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Config file not created: %v", err)
	}

	// Load it back and verify
	loadedCfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(loadedCfg.Folders) != 1 || loadedCfg.Folders[0] != "/data/inbox" {
		t.Errorf("Loaded Folders = %v, want [/data/inbox]", loadedCfg.Folders)
	}
	if !loadedCfg.Organize.MonthBucketing {
		t.Error("Loaded MonthBucketing = false, want true")
	}
	if len(loadedCfg.Exclusions) != 2 {
		t.Errorf("Loaded Exclusions = %v, want 2 patterns", loadedCfg.Exclusions)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Ledger.MaxSessions = -1

	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, ErrInvalidMaxSessions) {
		t.Errorf("Save() error = %v, want ErrInvalidMaxSessions", err)
	}
}

func TestEnvVarOverrides(t *testing.T) {
	t.Setenv("FOLDER_ORGANIZER_CONFIG", "")
	t.Setenv("FOLDER_ORGANIZER_FOLDERS", "/env/inbox, /env/shared")
	t.Setenv("FOLDER_ORGANIZER_STATE", "/env/state.db")
	t.Setenv("FOLDER_ORGANIZER_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify env var overrides
	if len(cfg.Folders) != 2 {
		t.Fatalf("got %d folders, want 2", len(cfg.Folders))
	}
	if cfg.Folders[0] != "/env/inbox" || cfg.Folders[1] != "/env/shared" {
		t.Errorf("Folders = %v, want [/env/inbox /env/shared]", cfg.Folders)
	}

	if cfg.Storage.Path != "/env/state.db" {
		t.Errorf("Storage.Path = %s, want /env/state.db", cfg.Storage.Path)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestFindPath(t *testing.T) {
	t.Setenv("FOLDER_ORGANIZER_CONFIG", "")

	if got := FindPath("/x/config.yaml"); got != "/x/config.yaml" {
		t.Errorf("FindPath(explicit) = %s, want /x/config.yaml", got)
	}

	t.Setenv("FOLDER_ORGANIZER_CONFIG", "/env/config.yaml")
	if got := FindPath(""); got != "/env/config.yaml" {
		t.Errorf("FindPath() = %s, want env path", got)
	}
}

// Benchmark config loading.
func BenchmarkLoad(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Load()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	cfg := Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cfg.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
