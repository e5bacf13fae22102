package config

import (
	"os"
	"path/filepath"
)

// defaultFolders returns the target folders for a fresh install.
//
// Probes the user's Downloads folder and returns it when it exists.
// Otherwise no folders are configured and organizing reports that until
// one is added.
func defaultFolders() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	downloads := filepath.Join(homeDir, "Downloads")
	if _, err := os.Stat(downloads); err == nil {
		return []string{downloads}
	}

	return nil
}

// defaultStatePath returns the default state database path.
//
// Returns: ~/.folder-organizer/state.db.
func defaultStatePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./state.db"
	}

	return filepath.Join(homeDir, ".folder-organizer", "state.db")
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/folder-organizer/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "folder-organizer", "config.yaml")
}
