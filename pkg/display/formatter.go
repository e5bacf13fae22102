package display

import (
	"path/filepath"
	"strings"
)

// New creates a new formatter based on configuration.
//
// Parameters:
//   - cfg: Formatter configuration
//
// Returns a configured Formatter.
func New(cfg Config) Formatter {
	// Set defaults.
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// relativeDestination renders a destination path relative to its source
// folder, which is what the user cares about ("Images/a.jpg" rather than
// the full path).
func relativeDestination(folder, destination string) string {
	rel, err := filepath.Rel(folder, destination)
	if err != nil {
		return destination
	}
	return rel
}

// shortID abbreviates a session UUID for table output.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// joinExtensions renders an extension list as one space-separated field.
func joinExtensions(extensions []string) string {
	return strings.Join(extensions, " ")
}
