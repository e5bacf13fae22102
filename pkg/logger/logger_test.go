package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"default config", Config{Level: "info", Output: "stderr", Format: "text"}},
		{"debug level", Config{Level: "debug", Output: "stderr", Format: "text"}},
		{"json format", Config{Level: "info", Output: "stderr", Format: "json"}},
		{"stdout output", Config{Level: "info", Output: "stdout", Format: "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if log := New(tt.config); log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "test.log")

	log := New(Config{
		Level:  "debug",
		Output: logFile,
		Format: "text",
	})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(content, msg) {
			t.Errorf("%q not found in log", msg)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "test.log")

	log := New(Config{
		Level:  "warn",
		Output: logFile,
		Format: "text",
	})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered out")
	}
	if strings.Contains(content, "info message") {
		t.Error("Info message should be filtered out")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("Warn message not found")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message not found")
	}
}

func TestLogWith(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "test.log")

	baseLog := New(Config{
		Level:  "info",
		Output: logFile,
		Format: "text",
	})

	contextLog := baseLog.With("component", "engine")
	contextLog.Info("scan finished", "planned", 3)

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "component") || !strings.Contains(content, "engine") {
		t.Error("Context field component=engine not found")
	}
	if !strings.Contains(content, "planned") {
		t.Error("Field 'planned' not found")
	}
}

func TestJSONOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "test.json")

	log := New(Config{
		Level:  "info",
		Output: logFile,
		Format: "json",
	})

	log.Info("batch executed", "moved", 5, "automatic", true)

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(data, &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if msg, ok := logEntry["msg"].(string); !ok || msg != "batch executed" {
		t.Error("Message not found in JSON log")
	}
	if moved, ok := logEntry["moved"].(float64); !ok || moved != 5 {
		t.Error("Field 'moved' not found or incorrect in JSON log")
	}
}

func TestDefault(t *testing.T) {
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Info("test message")
}

func TestNoop(t *testing.T) {
	log := Noop()
	if log == nil {
		t.Fatal("Noop() returned nil")
	}

	// Should discard all messages without error
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  string
	}{
		{"debug", "debug", "DEBUG"},
		{"info", "info", "INFO"},
		{"warn", "warn", "WARN"},
		{"warning", "warning", "WARN"},
		{"error", "error", "ERROR"},
		{"unknown", "unknown", "INFO"}, // defaults to info
		{"empty", "", "INFO"},          // defaults to info
		{"uppercase", "DEBUG", "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := parseLevel(tt.level)
			if level.String() != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, level, tt.want)
			}
		})
	}
}

func TestGetWriter(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"stdout", "stdout"},
		{"stderr", "stderr"},
		{"empty defaults to stderr", ""},
		{"STDOUT uppercase", "STDOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, err := getWriter(tt.output)
			if err != nil {
				t.Errorf("getWriter() error = %v", err)
				return
			}
			if writer == nil {
				t.Error("getWriter() returned nil writer")
			}
		})
	}
}

func TestFileOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logFile := filepath.Join(tmpDir, "organizer.log")

	log := New(Config{
		Level:  "info",
		Output: logFile,
		Format: "text",
	})

	log.Info("watching folder", "path", "/tmp/downloads")
	log.Error("move failed", "file", "a.pdf")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "watching folder") {
		t.Error("First message not found")
	}
	if !strings.Contains(content, "move failed") {
		t.Error("Second message not found")
	}
}

func BenchmarkLogWithFields(b *testing.B) {
	log := Noop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message", "file", "a.pdf", "moved", 1, "automatic", true)
	}
}
