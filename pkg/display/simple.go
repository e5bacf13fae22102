package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/folder-organizer/pkg/engine"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
	"github.com/0xmhha/folder-organizer/pkg/rules"
	"github.com/0xmhha/folder-organizer/pkg/stats"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatMoves implements Formatter.FormatMoves.
func (f *simpleFormatter) FormatMoves(w io.Writer, moves []engine.PendingMove) error {
	for _, mv := range moves {
		if _, err := fmt.Fprintf(w, "%s -> %s [%s]\n",
			mv.Name,
			relativeDestination(mv.Folder, mv.Destination),
			mv.Category); err != nil {
			return err
		}
	}
	return nil
}

// FormatSessions implements Formatter.FormatSessions.
func (f *simpleFormatter) FormatSessions(w io.Writer, sessions []*ledger.Session) error {
	for _, s := range sessions {
		mode := "manual"
		if s.Automatic {
			mode = "auto"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %d files\n",
			s.ID,
			s.ExecutedAt.Format("2006-01-02T15:04:05"),
			mode,
			len(s.Moves)); err != nil {
			return err
		}
	}
	return nil
}

// FormatStats implements Formatter.FormatStats.
func (f *simpleFormatter) FormatStats(w io.Writer, snapshot stats.Snapshot) error {
	if _, err := fmt.Fprintf(w, "this_month=%d all_time=%d\n",
		snapshot.ThisMonth, snapshot.AllTime); err != nil {
		return err
	}
	for _, mc := range snapshot.Months {
		if _, err := fmt.Fprintf(w, "%s=%d\n", mc.Month, mc.Count); err != nil {
			return err
		}
	}
	return nil
}

// FormatRules implements Formatter.FormatRules.
func (f *simpleFormatter) FormatRules(w io.Writer, ruleList []rules.Rule) error {
	for _, r := range ruleList {
		if _, err := fmt.Fprintf(w, "%s: %s\n", r.Category, joinExtensions(r.Extensions)); err != nil {
			return err
		}
	}
	return nil
}

// FormatFolders implements Formatter.FormatFolders.
func (f *simpleFormatter) FormatFolders(w io.Writer, folders []string) error {
	for _, folder := range folders {
		if _, err := fmt.Fprintln(w, folder); err != nil {
			return err
		}
	}
	return nil
}
