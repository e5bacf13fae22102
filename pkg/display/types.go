// Package display provides output formatting for the organizer CLI.
//
// It supports multiple output formats (table, JSON, simple text) for
// pending moves, recorded sessions, statistics, rules, and folders.
package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays data in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays data as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays data in simple text format for scripting.
	FormatSimple Format = "simple"
)

// ParseFormat converts a user-supplied format name.
//
// An empty string means FormatTable. Returns an error naming the valid
// formats when the input is unknown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSimple:
		return FormatSimple, nil
	default:
		return "", fmt.Errorf("invalid format %q (valid: table, json, simple)", s)
	}
}

// Formatter formats organizer data for display.
type Formatter interface {
	// FormatMoves formats the planned moves from a scan.
	//
	// Parameters:
	//   - w: Output writer
	//   - moves: Pending moves to format
	//
	// Returns error if formatting fails.
	FormatMoves(w io.Writer, moves []engine.PendingMove) error

	// FormatSessions formats recorded undo sessions, most recent first.
	FormatSessions(w io.Writer, sessions []*ledger.Session) error

	// FormatStats formats the organized-file counters.
	FormatStats(w io.Writer, snapshot stats.Snapshot) error

	// FormatRules formats the classification rules in precedence order.
	FormatRules(w io.Writer, ruleList []rules.Rule) error

	// FormatFolders formats the target folder list.
	FormatFolders(w io.Writer, folders []string) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
