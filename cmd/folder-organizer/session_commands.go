package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/0xmhha/folder-organizer/pkg/display"
	"github.com/0xmhha/folder-organizer/pkg/ledger"
)

// sessionsCommand handles undo-history subcommands.
type sessionsCommand struct {
	configPath string
}

// Execute runs the sessions command.
func (c *sessionsCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "list":
		return c.runList(subargs)
	case "show":
		return c.runShow(subargs)
	case "delete":
		return c.runDelete(subargs)
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown sessions subcommand: %s", subcommand)
	}
}

// runList lists recorded sessions, most recent first.
func (c *sessionsCommand) runList(args []string) error {
	fs := flag.NewFlagSet("sessions list", flag.ExitOnError)
	format := fs.String("format", "table", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	formatter, err := newFormatter(*format, false)
	if err != nil {
		return err
	}

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	sessions, err := app.eng.Sessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	return formatter.FormatSessions(os.Stdout, sessions)
}

// runShow displays one session's moves.
func (c *sessionsCommand) runShow(args []string) error {
	fs := flag.NewFlagSet("sessions show", flag.ExitOnError)
	format := fs.String("format", "table", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: folder-organizer sessions show <session-id>")
	}
	id := fs.Arg(0)

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := app.eng.Session(id)
	if err != nil {
		return err
	}

	if *format == string(display.FormatJSON) {
		formatter, err := newFormatter(*format, false)
		if err != nil {
			return err
		}
		return formatter.FormatSessions(os.Stdout, []*ledger.Session{session})
	}

	mode := "manual"
	if session.Automatic {
		mode = "automatic"
	}
	fmt.Printf("Session %s\n", session.ID)
	fmt.Printf("Executed: %s (%s)\n", session.ExecutedAt.Format("2006-01-02 15:04:05"), mode)
	fmt.Printf("Moves:\n")
	for _, mv := range session.Moves {
		fmt.Printf("  %s\n    -> %s\n", mv.Source, mv.Destination)
	}
	return nil
}

// runDelete drops a session record without restoring files.
func (c *sessionsCommand) runDelete(args []string) error {
	fs := flag.NewFlagSet("sessions delete", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: folder-organizer sessions delete <session-id>")
	}
	id := fs.Arg(0)

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.DeleteSession(id); err != nil {
		return err
	}

	fmt.Printf("Deleted session %s (files were not restored)\n", id)
	return nil
}

// showHelp displays help for the sessions command.
func (c *sessionsCommand) showHelp() error {
	help := `Sessions - undo history management

Usage:
  folder-organizer sessions <subcommand> [flags]

Subcommands:
  list      List recorded sessions, most recent first
  show      Display one session's moves
  delete    Drop a session record without restoring files

List Flags:
  -format   Output format (table, json, simple) (default: table)

Examples:
  # List recorded sessions
  folder-organizer sessions list

  # Show a session's moves
  folder-organizer sessions show 4f7c2d8a-93b1-4b6e-8e6f-0a1b2c3d4e5f

  # Forget a session without restoring its files
  folder-organizer sessions delete 4f7c2d8a-93b1-4b6e-8e6f-0a1b2c3d4e5f
`
	fmt.Print(help)
	return nil
}
