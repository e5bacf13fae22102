package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

func sampleMoves() []engine.PendingMove {
	return []engine.PendingMove{
		{
			Source:      "/home/u/Downloads/a.jpg",
			Destination: "/home/u/Downloads/Images/a.jpg",
			Name:        "a.jpg",
			Category:    "Images",
			Folder:      "/home/u/Downloads",
			Reason:      "extension .jpg",
		},
		{
			Source:      "/home/u/Downloads/report.pdf",
			Destination: "/home/u/Downloads/Documents/report.pdf",
			Name:        "report.pdf",
			Category:    "Documents",
			Folder:      "/home/u/Downloads",
			Reason:      "extension .pdf",
		},
	}
}

func sampleSessions() []*ledger.Session {
	return []*ledger.Session{
		{
			ID:         "f3b9c9d4-1111-2222-3333-444455556666",
			ExecutedAt: time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
			Automatic:  true,
			Moves: []ledger.Move{
				{Source: "/d/a.jpg", Destination: "/d/Images/a.jpg"},
			},
		},
	}
}

func sampleSnapshot() stats.Snapshot {
	return stats.Snapshot{
		ThisMonth: 12,
		AllTime:   48,
		Months: []stats.MonthCount{
			{Month: "2026-08", Count: 12},
			{Month: "2026-07", Count: 36},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input     string
		want      Format
		wantError bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"simple", FormatSimple, false},
		{"csv", "", true},
		{"TABLE", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantError {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewDefaultsToTable(t *testing.T) {
	f := New(Config{})
	if _, ok := f.(*tableFormatter); !ok {
		t.Errorf("expected table formatter, got %T", f)
	}
}

func TestTableFormatter(t *testing.T) {
	f := New(Config{Format: FormatTable})

	t.Run("moves", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatMoves(&buf, sampleMoves()); err != nil {
			t.Fatalf("FormatMoves failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"a.jpg", "Images", "report.pdf", "Documents", "2 files ready"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty moves", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatMoves(&buf, nil); err != nil {
			t.Fatalf("FormatMoves failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No files to organize") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("sessions", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatSessions(&buf, sampleSessions()); err != nil {
			t.Fatalf("FormatSessions failed: %v", err)
		}

		out := buf.String()
		// Short ID, not the full UUID.
		if !strings.Contains(out, "f3b9c9d4") {
			t.Errorf("output missing session ID prefix:\n%s", out)
		}
		if !strings.Contains(out, "auto") {
			t.Errorf("output missing mode:\n%s", out)
		}
	})

	t.Run("stats", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatStats(&buf, sampleSnapshot()); err != nil {
			t.Fatalf("FormatStats failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"This month", "All time", "2026-08", "2026-07", "36"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("rules", func(t *testing.T) {
		var buf bytes.Buffer
		ruleList := []rules.Rule{
			{Category: "Images", Extensions: []string{".jpg", ".png"}},
		}
		if err := f.FormatRules(&buf, ruleList); err != nil {
			t.Fatalf("FormatRules failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Images") || !strings.Contains(out, ".jpg .png") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("folders", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatFolders(&buf, []string{"/home/u/Downloads"}); err != nil {
			t.Fatalf("FormatFolders failed: %v", err)
		}
		if !strings.Contains(buf.String(), "/home/u/Downloads") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

func TestJSONFormatter(t *testing.T) {
	f := New(Config{Format: FormatJSON})

	t.Run("moves round-trip", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatMoves(&buf, sampleMoves()); err != nil {
			t.Fatalf("FormatMoves failed: %v", err)
		}

		var decoded []engine.PendingMove
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].Category != "Images" {
			t.Errorf("unexpected decode: %+v", decoded)
		}
	})

	t.Run("nil moves encode as empty array", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatMoves(&buf, nil); err != nil {
			t.Fatalf("FormatMoves failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})

	t.Run("stats keys", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatStats(&buf, sampleSnapshot()); err != nil {
			t.Fatalf("FormatStats failed: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["this_month"].(float64) != 12 {
			t.Errorf("unexpected this_month: %v", decoded["this_month"])
		}
		if decoded["all_time"].(float64) != 48 {
			t.Errorf("unexpected all_time: %v", decoded["all_time"])
		}
	})
}

func TestSimpleFormatter(t *testing.T) {
	f := New(Config{Format: FormatSimple})

	t.Run("moves", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatMoves(&buf, sampleMoves()); err != nil {
			t.Fatalf("FormatMoves failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
		}
		if !strings.Contains(lines[0], "a.jpg -> Images/a.jpg [Images]") {
			t.Errorf("unexpected line: %s", lines[0])
		}
	})

	t.Run("stats", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatStats(&buf, sampleSnapshot()); err != nil {
			t.Fatalf("FormatStats failed: %v", err)
		}
		if !strings.Contains(buf.String(), "this_month=12 all_time=48") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("sessions carry full ID", func(t *testing.T) {
		var buf bytes.Buffer
		if err := f.FormatSessions(&buf, sampleSessions()); err != nil {
			t.Fatalf("FormatSessions failed: %v", err)
		}
		if !strings.Contains(buf.String(), "f3b9c9d4-1111-2222-3333-444455556666") {
			t.Errorf("expected full session ID:\n%s", buf.String())
		}
	})
}
