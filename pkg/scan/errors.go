package scan

import "errors"

// Common errors returned by folder scanning.
var (
	// ErrFolderNotFound is returned when a target folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrNotDirectory is returned when a target folder path is not a
	// directory.
	ErrNotDirectory = errors.New("path is not a directory")
)
