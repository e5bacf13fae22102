package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// rulesCommand handles classification-rule subcommands.
type rulesCommand struct {
	configPath string
}

// Execute runs the rules command.
func (c *rulesCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "list":
		return c.runList(subargs)
	case "add":
		return c.runAdd(subargs)
	case "remove":
		return c.runRemove(subargs)
	case "add-ext":
		return c.runAddExt(subargs)
	case "remove-ext":
		return c.runRemoveExt(subargs)
	case "reorder":
		return c.runReorder(subargs)
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown rules subcommand: %s", subcommand)
	}
}

// runList lists rules in precedence order.
func (c *rulesCommand) runList(args []string) error {
	fs := flag.NewFlagSet("rules list", flag.ExitOnError)
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

	return formatter.FormatRules(os.Stdout, app.eng.Rules())
}

// runAdd adds a new category.
func (c *rulesCommand) runAdd(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: folder-organizer rules add <category> <extension>")
	}
	category, ext := args[0], args[1]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.AddRule(category, ext); err != nil {
		return err
	}

	fmt.Printf("Added category %s (%s)\n", category, ext)
	return nil
}

// runRemove deletes a category and its extensions.
func (c *rulesCommand) runRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: folder-organizer rules remove <category>")
	}
	category := args[0]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.RemoveRule(category); err != nil {
		return err
	}

	fmt.Printf("Removed category %s\n", category)
	return nil
}

// runAddExt assigns an extension to an existing category.
func (c *rulesCommand) runAddExt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: folder-organizer rules add-ext <category> <extension>")
	}
	category, ext := args[0], args[1]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.AddRuleExtension(category, ext); err != nil {
		return err
	}

	fmt.Printf("Added %s to %s\n", ext, category)
	return nil
}

// runRemoveExt removes an extension from a category.
func (c *rulesCommand) runRemoveExt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: folder-organizer rules remove-ext <category> <extension>")
	}
	category, ext := args[0], args[1]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.RemoveRuleExtension(category, ext); err != nil {
		return err
	}

	fmt.Printf("Removed %s from %s\n", ext, category)
	return nil
}

// runReorder rearranges category precedence.
func (c *rulesCommand) runReorder(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: folder-organizer rules reorder <category> [category ...]")
	}

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.eng.ReorderRules(args); err != nil {
		return err
	}

	fmt.Printf("Precedence: %s\n", strings.Join(args, " > "))
	return nil
}

// showHelp displays help for the rules command.
func (c *rulesCommand) showHelp() error {
	help := `Rules - classification rule management

Categories are matched in listed order; when two categories could claim a
file, the one listed first wins. Extensions are normalized to lower-case
dotted form.

Usage:
  folder-organizer rules <subcommand> [args]

Subcommands:
  list                              List rules in precedence order
  add <category> <extension>        Add a category owning one extension
  remove <category>                 Remove a category (the last one cannot go)
  add-ext <category> <extension>    Add an extension to a category
  remove-ext <category> <extension> Remove an extension from a category
  reorder <category> [category ...] Set category precedence

Examples:
  folder-organizer rules list
  folder-organizer rules add Ebooks .epub
  folder-organizer rules add-ext Ebooks .mobi
  folder-organizer rules reorder Images Documents Ebooks
`
	fmt.Print(help)
	return nil
}

// foldersCommand handles target-folder subcommands.
type foldersCommand struct {
	configPath string
}

// Execute runs the folders command.
func (c *foldersCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "list":
		return c.runList(subargs)
	case "add":
		return c.runMutate(subargs, "add")
	case "remove":
		return c.runMutate(subargs, "remove")
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown folders subcommand: %s", subcommand)
	}
}

// runList lists the configured target folders.
func (c *foldersCommand) runList(args []string) error {
	fs := flag.NewFlagSet("folders list", flag.ExitOnError)
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

	return formatter.FormatFolders(os.Stdout, app.eng.Folders())
}

// runMutate adds or removes one target folder.
func (c *foldersCommand) runMutate(args []string, op string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: folder-organizer folders %s <path>", op)
	}
	path := args[0]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if op == "add" {
		if err := app.eng.AddFolder(path); err != nil {
			return err
		}
		fmt.Printf("Added target folder %s\n", path)
		return nil
	}

	if err := app.eng.RemoveFolder(path); err != nil {
		return err
	}
	fmt.Printf("Removed target folder %s\n", path)
	return nil
}

// showHelp displays help for the folders command.
func (c *foldersCommand) showHelp() error {
	help := `Folders - target folder management

Usage:
  folder-organizer folders <subcommand> [args]

Subcommands:
  list             List configured target folders
  add <path>       Add a target folder (must exist and be a directory)
  remove <path>    Remove a target folder

Examples:
  folder-organizer folders list
  folder-organizer folders add ~/Desktop
  folder-organizer folders remove ~/Desktop
`
	fmt.Print(help)
	return nil
}

// excludeCommand handles exclusion-pattern subcommands.
type excludeCommand struct {
	configPath string
}

// Execute runs the exclude command.
func (c *excludeCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "list":
		return c.runList()
	case "add":
		return c.runMutate(subargs, "add")
	case "remove":
		return c.runMutate(subargs, "remove")
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown exclude subcommand: %s", subcommand)
	}
}

// runList lists the exclusion patterns.
func (c *excludeCommand) runList() error {
	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	patterns := app.eng.Exclusions()
	if len(patterns) == 0 {
		fmt.Println("No exclusion patterns configured")
		return nil
	}
	for _, pattern := range patterns {
		fmt.Println(pattern)
	}
	return nil
}

// runMutate adds or removes one exclusion pattern.
func (c *excludeCommand) runMutate(args []string, op string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: folder-organizer exclude %s <pattern>", op)
	}
	pattern := args[0]

	app, err := newAppContext(c.configPath, nil, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if op == "add" {
		if err := app.eng.AddExclusion(pattern); err != nil {
			return err
		}
		fmt.Printf("Added exclusion %s\n", pattern)
		return nil
	}

	if err := app.eng.RemoveExclusion(pattern); err != nil {
		return err
	}
	fmt.Printf("Removed exclusion %s\n", pattern)
	return nil
}

// showHelp displays help for the exclude command.
func (c *excludeCommand) showHelp() error {
	help := `Exclude - exclusion pattern management

A pattern starting with "." matches as a file-name suffix, a pattern
containing "*" or "?" matches as a glob against the whole name, and any
other pattern matches the file name literally. All matching ignores case.

Usage:
  folder-organizer exclude <subcommand> [args]

Subcommands:
  list               List exclusion patterns
  add <pattern>      Add an exclusion pattern
  remove <pattern>   Remove an exclusion pattern

Examples:
  folder-organizer exclude list
  folder-organizer exclude add '*.tmp'
  folder-organizer exclude add .iso
  folder-organizer exclude add keepme.pdf
`
	fmt.Print(help)
	return nil
}
