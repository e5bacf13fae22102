package plan

import "errors"

// Common errors returned by the path planner.
var (
	// ErrEmptyFileName is returned when planning with an empty file name.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrEmptyCategory is returned when planning with an empty category.
	ErrEmptyCategory = errors.New("category cannot be empty")

	// ErrEmptyFolder is returned when planning with an empty source folder.
	ErrEmptyFolder = errors.New("source folder cannot be empty")

	// ErrNoAvailableName is returned when the collision probe gives up.
	ErrNoAvailableName = errors.New("no available destination name")
)
