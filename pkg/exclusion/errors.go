package exclusion

import "errors"

// Common errors returned when validating exclusion patterns.
var (
	// ErrEmptyPattern is returned when a pattern is empty or only whitespace.
	ErrEmptyPattern = errors.New("exclusion pattern cannot be empty")

	// ErrBadPattern is returned when a glob pattern is malformed.
	ErrBadPattern = errors.New("malformed glob pattern")

	// ErrDuplicatePattern is returned when adding a pattern that is already listed.
	ErrDuplicatePattern = errors.New("exclusion pattern already exists")

	// ErrUnknownPattern is returned when removing a pattern that is not listed.
	ErrUnknownPattern = errors.New("unknown exclusion pattern")
)
