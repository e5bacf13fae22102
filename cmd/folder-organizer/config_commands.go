package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xmhha/folder-organizer/pkg/config"
)

// configCommand handles configuration management subcommands.
type configCommand struct {
	configPath string
}

// Execute runs the config command with given arguments.
func (c *configCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "show":
		return c.runShow(subargs)
	case "path":
		return c.runPath()
	case "init":
		return c.runInit(subargs)
	case "validate":
		return c.runValidate()
	case "help":
		return c.showHelp()
	default:
		return fmt.Errorf("unknown config subcommand: %s", subcommand)
	}
}

// runShow displays the current configuration.
func (c *configCommand) runShow(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	format := fs.String("format", "yaml", "output format (yaml, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFromFile(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch *format {
	case "json":
		return c.showJSON(cfg)
	default:
		return c.showYAML(cfg)
	}
}

// showYAML displays configuration in YAML format.
func (c *configCommand) showYAML(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println("# Current Configuration")
	fmt.Println("# Source: ", c.getConfigSource())
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

// showJSON displays configuration in JSON format.
func (c *configCommand) showJSON(cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// runPath shows the configuration file search paths.
func (c *configCommand) runPath() error {
	paths := []string{
		"./config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "folder-organizer", "config.yaml"),
	}

	fmt.Println("Configuration file search paths (in order of precedence):")
	fmt.Println()

	for i, p := range paths {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Printf("  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Println()
	fmt.Println("Active configuration:", c.getConfigSource())
	return nil
}

// runInit writes a default configuration file.
func (c *configCommand) runInit(args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite an existing file without asking")
	output := fs.String("output", "", "output path for config file (default: ~/.config/folder-organizer/config.yaml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Determine output path.
	outputPath := *output
	if outputPath == "" {
		outputPath = config.FindPath(c.configPath)
	}

	// Check if file exists.
	if _, err := os.Stat(outputPath); err == nil && !*force {
		fmt.Printf("Configuration file already exists at: %s\n", outputPath)
		fmt.Print("Overwrite? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			// If Scanln fails, treat as "no"
			fmt.Println("\nInit cancelled.")
			return nil
		}
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "y" && response != "yes" {
			fmt.Println("Init cancelled.")
			return nil
		}
	}

	if err := config.Save(config.Default(), outputPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Wrote default configuration to: %s\n", outputPath)
	return nil
}

// runValidate loads and validates the active configuration.
func (c *configCommand) runValidate() error {
	cfg, err := config.LoadFromFile(c.configPath)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("Configuration valid")
	fmt.Printf("  folders:    %d\n", len(cfg.Folders))
	fmt.Printf("  categories: %d\n", len(cfg.Rules))
	fmt.Printf("  exclusions: %d\n", len(cfg.Exclusions))
	return nil
}

// getConfigSource returns the path of the active configuration file.
func (c *configCommand) getConfigSource() string {
	if c.configPath != "" {
		return c.configPath
	}

	paths := []string{
		"./config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "folder-organizer", "config.yaml"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return "defaults (no config file found)"
}

// showHelp displays help for config command.
func (c *configCommand) showHelp() error {
	help := `Config - configuration management

Usage:
  folder-organizer config <subcommand> [flags]

Subcommands:
  show      Display current configuration
  path      Show configuration file paths
  init      Write a default configuration file
  validate  Load and validate the active configuration

Show Flags:
  -format   Output format (yaml, json) (default: yaml)

Init Flags:
  -force    Overwrite an existing file without asking
  -output   Output path for config file

Examples:
  # Show current configuration
  folder-organizer config show

  # Show configuration in JSON format
  folder-organizer config show -format json

  # Show configuration file paths
  folder-organizer config path

  # Write a default configuration file
  folder-organizer config init

  # Validate the active configuration
  folder-organizer config validate
`
	fmt.Print(help)
	return nil
}
