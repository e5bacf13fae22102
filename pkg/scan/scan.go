// Package scan lists the organizable files inside target folders.
//
// A scan is shallow on purpose: only the immediate regular files of a
// folder are candidates, subdirectories (including previously created
// category folders) are never descended into, and hidden files are left
// alone.
//
// Example usage:
//
//	s := scan.New(logger.Default())
//	entries, err := s.List("~/Downloads")
//	if err != nil {
//	    log.Fatal(err)
//	}
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger defines the logging interface used by the scan package.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Entry describes one candidate file found in a target folder.
type Entry struct {
	// Name is the bare file name.
	Name string

	// Path is the absolute path to the file.
	Path string

	// Folder is the target folder the file was found in.
	Folder string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time, used by the stability gate
	// for automatic runs.
	ModTime time.Time
}

// Age returns how long ago the entry was last modified.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.ModTime)
}

// Scanner lists candidate files in target folders.
type Scanner interface {
	// List returns the immediate regular files of folder.
	//
	// Hidden files, subdirectories, and anything that is not a regular
	// file are skipped. Files whose metadata cannot be read are logged
	// and skipped. Returns ErrFolderNotFound or ErrNotDirectory when the
	// folder itself is unusable.
	List(folder string) ([]Entry, error)
}

// scanner implements the Scanner interface.
type scanner struct {
	logger Logger
}

// New creates a new Scanner instance.
func New(logger Logger) Scanner {
	return &scanner{logger: logger}
}

// List implements Scanner.List.
func (s *scanner) List(folder string) ([]Entry, error) {
	expanded := ExpandHome(folder)

	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, expanded)
		}
		return nil, fmt.Errorf("failed to stat folder %s: %w", expanded, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, expanded)
	}

	dirEntries, err := os.ReadDir(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", expanded, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !de.Type().IsRegular() {
			continue
		}

		fi, err := de.Info()
		if err != nil {
			s.logger.Warn("failed to stat file, skipping",
				"path", filepath.Join(expanded, name),
				"error", err)
			continue
		}

		entries = append(entries, Entry{
			Name:    name,
			Path:    filepath.Join(expanded, name),
			Folder:  expanded,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	s.logger.Debug("scanned folder", "path", expanded, "files", len(entries))
	return entries, nil
}

// ValidateFolder normalizes a target folder path and checks it is usable.
//
// The returned path is absolute, cleaned, and verified to be an existing
// directory. This is the gate every folder passes before it is accepted
// into the target list.
func ValidateFolder(path string) (string, error) {
	expanded := ExpandHome(strings.TrimSpace(path))
	if expanded == "" {
		return "", fmt.Errorf("%w: empty path", ErrFolderNotFound)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFolderNotFound, abs)
		}
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return abs, nil
}

// ExpandHome expands ~ in file paths to the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
