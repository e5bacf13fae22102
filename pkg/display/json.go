package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// encode writes one value with the configured indentation.
func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatMoves implements Formatter.FormatMoves.
func (f *jsonFormatter) FormatMoves(w io.Writer, moves []engine.PendingMove) error {
	if moves == nil {
		moves = []engine.PendingMove{}
	}
	return f.encode(w, moves)
}

// FormatSessions implements Formatter.FormatSessions.
func (f *jsonFormatter) FormatSessions(w io.Writer, sessions []*ledger.Session) error {
	if sessions == nil {
		sessions = []*ledger.Session{}
	}
	return f.encode(w, sessions)
}

// FormatStats implements Formatter.FormatStats.
func (f *jsonFormatter) FormatStats(w io.Writer, snapshot stats.Snapshot) error {
	months := make([]map[string]interface{}, 0, len(snapshot.Months))
	for _, mc := range snapshot.Months {
		months = append(months, map[string]interface{}{
			"month": mc.Month,
			"count": mc.Count,
		})
	}
	return f.encode(w, map[string]interface{}{
		"this_month": snapshot.ThisMonth,
		"all_time":   snapshot.AllTime,
		"months":     months,
	})
}

// FormatRules implements Formatter.FormatRules.
func (f *jsonFormatter) FormatRules(w io.Writer, ruleList []rules.Rule) error {
	if ruleList == nil {
		ruleList = []rules.Rule{}
	}
	return f.encode(w, ruleList)
}

// FormatFolders implements Formatter.FormatFolders.
func (f *jsonFormatter) FormatFolders(w io.Writer, folders []string) error {
	if folders == nil {
		folders = []string{}
	}
	return f.encode(w, folders)
}
