// Package main provides the folder-organizer CLI application.
//
// Folder Organizer sorts the files accumulating in watched folders into
// category subfolders by extension and content type, with collision-safe
// moves, multi-generation undo, and an automatic watch mode.
package main

import (
	"flag"
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	// Define global flags.
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "show version information")

	// Parse command.
	flag.Parse()

	// Handle version flag.
	if *showVersion {
		fmt.Printf("folder-organizer %s\n", version)
		return nil
	}

	// Get command.
	args := flag.Args()
	if len(args) == 0 {
		return showUsage()
	}

	command := args[0]

	switch command {
	case "organize":
		return runOrganizeCommand(*configPath, args[1:])
	case "preview":
		return runPreviewCommand(*configPath, args[1:])
	case "watch":
		return runWatchCommand(*configPath, args[1:])
	case "undo":
		return runUndoCommand(*configPath, args[1:])
	case "sessions":
		return runSessionsCommand(*configPath, args[1:])
	case "stats":
		return runStatsCommand(*configPath, args[1:])
	case "rules":
		return runRulesCommand(*configPath, args[1:])
	case "folders":
		return runFoldersCommand(*configPath, args[1:])
	case "exclude":
		return runExcludeCommand(*configPath, args[1:])
	case "config":
		return runConfigCommand(*configPath, args[1:])
	case "version":
		fmt.Printf("folder-organizer %s\n", version)
		return nil
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// stringList collects a repeatable string flag.
type stringList []string

// String implements flag.Value.
func (s *stringList) String() string {
	return fmt.Sprintf("%v", []string(*s))
}

// Set implements flag.Value.
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// runOrganizeCommand runs the organize command.
func runOrganizeCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("organize", flag.ExitOnError)
	var folders stringList
	fs.Var(&folders, "folder", "organize this folder only (repeatable)")
	dryRun := fs.Bool("dry-run", false, "plan moves without executing them")
	format := fs.String("format", "table", "output format (table, json, simple)")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &organizeCommand{
		folders:    folders,
		dryRun:     *dryRun,
		format:     *format,
		compact:    *compact,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runPreviewCommand runs the preview command.
func runPreviewCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var folders stringList
	fs.Var(&folders, "folder", "preview this folder only (repeatable)")
	format := fs.String("format", "table", "output format (table, json, simple)")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Preview is organize with the execution half left off.
	cmd := &organizeCommand{
		folders:    folders,
		dryRun:     true,
		format:     *format,
		compact:    *compact,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runWatchCommand runs the watch command.
func runWatchCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	quiet := fs.Bool("quiet", false, "suppress per-batch output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &watchCommand{
		quiet:      *quiet,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runUndoCommand runs the undo command.
func runUndoCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("undo", flag.ExitOnError)
	list := fs.Bool("list", false, "list undoable sessions instead of undoing")
	format := fs.String("format", "table", "output format (table, json, simple)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 1 {
		return fmt.Errorf("undo takes at most one session ID")
	}

	cmd := &undoCommand{
		sessionID:  fs.Arg(0),
		list:       *list,
		format:     *format,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runStatsCommand runs the stats command.
func runStatsCommand(configPath string, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	format := fs.String("format", "table", "output format (table, json, simple)")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &statsCommand{
		format:     *format,
		compact:    *compact,
		configPath: configPath,
	}

	return cmd.Execute()
}

// runSessionsCommand runs the sessions command.
func runSessionsCommand(configPath string, args []string) error {
	cmd := &sessionsCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// runRulesCommand runs the rules command.
func runRulesCommand(configPath string, args []string) error {
	cmd := &rulesCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// runFoldersCommand runs the folders command.
func runFoldersCommand(configPath string, args []string) error {
	cmd := &foldersCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// runExcludeCommand runs the exclude command.
func runExcludeCommand(configPath string, args []string) error {
	cmd := &excludeCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// runConfigCommand runs the config command.
func runConfigCommand(configPath string, args []string) error {
	cmd := &configCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// showUsage displays usage information.
func showUsage() error {
	usage := `Folder Organizer - sorts files into category subfolders

Usage:
  folder-organizer [flags] <command> [command flags]

Commands:
  organize    Scan target folders and move classified files
  preview     Show what organize would do without moving anything
  watch       Monitor target folders and organize automatically
  undo        Restore the files of a recorded session
  sessions    Inspect the undo history (list, show, delete)
  stats       Show organized-file counters
  rules       Manage classification rules
  folders     Manage target folders
  exclude     Manage exclusion patterns
  config      Configuration management (show, path, init, validate)
  version     Show version information
  help        Show this help message

Global Flags:
  -config     Path to configuration file
  -version    Show version information

Organize Command Flags:
  -folder     Organize this folder only (repeatable)
  -dry-run    Plan moves without executing them
  -format     Output format (table, json, simple)
  -compact    Compact output

Undo Command Flags:
  -list       List undoable sessions instead of undoing
  -format     Output format (table, json, simple)

Watch Command Flags:
  -quiet      Suppress per-batch output

Examples:
  # Preview what would be organized
  folder-organizer preview

  # Organize all configured folders
  folder-organizer organize

  # Organize one folder, showing the plan as JSON
  folder-organizer organize -folder ~/Downloads -format json

  # Watch configured folders and organize on changes
  folder-organizer watch

  # Undo the most recent batch
  folder-organizer undo

  # Undo a specific session
  folder-organizer undo 4f7c2d8a-93b1-4b6e-8e6f-0a1b2c3d4e5f

  # Manage rules
  folder-organizer rules list
  folder-organizer rules add Ebooks .epub
  folder-organizer rules add-ext Ebooks .mobi

  # Manage folders and exclusions
  folder-organizer folders add ~/Desktop
  folder-organizer exclude add '*.tmp'

  # Show counters
  folder-organizer stats

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
