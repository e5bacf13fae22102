package display

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatMoves implements Formatter.FormatMoves.
func (f *tableFormatter) FormatMoves(w io.Writer, moves []engine.PendingMove) error {
	if len(moves) == 0 {
		_, err := fmt.Fprintln(w, "No files to organize")
		return err
	}

	t := f.newTable(w)
	t.AppendHeader(table.Row{"File", "Category", "Destination", "Reason"})
	for _, mv := range moves {
		t.AppendRow(table.Row{
			mv.Name,
			mv.Category,
			relativeDestination(mv.Folder, mv.Destination),
			mv.Reason,
		})
	}
	t.Render()

	if !f.config.Compact {
		if _, err := fmt.Fprintf(w, "\n%d files ready to organize\n", len(moves)); err != nil {
			return err
		}
	}
	return nil
}

// FormatSessions implements Formatter.FormatSessions.
func (f *tableFormatter) FormatSessions(w io.Writer, sessions []*ledger.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No recorded sessions")
		return err
	}

	t := f.newTable(w)
	t.AppendHeader(table.Row{"ID", "Executed", "Mode", "Files"})
	for _, s := range sessions {
		mode := "manual"
		if s.Automatic {
			mode = "auto"
		}
		t.AppendRow(table.Row{
			shortID(s.ID),
			s.ExecutedAt.Format("2006-01-02 15:04:05"),
			mode,
			len(s.Moves),
		})
	}
	t.Render()
	return nil
}

// FormatStats implements Formatter.FormatStats.
func (f *tableFormatter) FormatStats(w io.Writer, snapshot stats.Snapshot) error {
	t := f.newTable(w)
	t.AppendHeader(table.Row{"Period", "Files Organized"})
	t.AppendRow(table.Row{"This month", snapshot.ThisMonth})
	t.AppendRow(table.Row{"All time", snapshot.AllTime})
	t.Render()

	if len(snapshot.Months) == 0 {
		return nil
	}

	if !f.config.Compact {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	monthly := f.newTable(w)
	monthly.AppendHeader(table.Row{"Month", "Files"})
	for _, mc := range snapshot.Months {
		monthly.AppendRow(table.Row{mc.Month, mc.Count})
	}
	monthly.Render()
	return nil
}

// FormatRules implements Formatter.FormatRules.
func (f *tableFormatter) FormatRules(w io.Writer, ruleList []rules.Rule) error {
	if len(ruleList) == 0 {
		_, err := fmt.Fprintln(w, "No rules configured")
		return err
	}

	t := f.newTable(w)
	t.AppendHeader(table.Row{"#", "Category", "Extensions"})
	for i, r := range ruleList {
		t.AppendRow(table.Row{i + 1, r.Category, joinExtensions(r.Extensions)})
	}
	t.Render()
	return nil
}

// FormatFolders implements Formatter.FormatFolders.
func (f *tableFormatter) FormatFolders(w io.Writer, folders []string) error {
	if len(folders) == 0 {
		_, err := fmt.Fprintln(w, "No target folders configured")
		return err
	}

	t := f.newTable(w)
	t.AppendHeader(table.Row{"#", "Folder"})
	for i, folder := range folders {
		t.AppendRow(table.Row{i + 1, folder})
	}
	t.Render()
	return nil
}

// newTable builds a writer-bound table with the house style, clamped to
// the terminal width when the output actually is a terminal.
func (f *tableFormatter) newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.config.Compact {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleRounded)
	}

	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 20 {
			t.SetAllowedRowLength(width)
		}
	}

	return t
}
