package rules

import "errors"

// Common errors returned by rule set operations.
var (
	// ErrNoCategories is returned when a rule set would contain no categories.
	ErrNoCategories = errors.New("rule set must contain at least one category")

	// ErrCategoryExists is returned when adding a category that already exists.
	ErrCategoryExists = errors.New("category already exists")

	// ErrUnknownCategory is returned when a category is not in the rule set.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrLastCategory is returned when removing the only remaining category.
	ErrLastCategory = errors.New("cannot remove the last category")

	// ErrInvalidCategory is returned when a category name is empty or unusable
	// as a folder name.
	ErrInvalidCategory = errors.New("invalid category name")

	// ErrInvalidExtension is returned when an extension cannot be normalized.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrDuplicateExtension is returned when an extension is already owned by
	// a category.
	ErrDuplicateExtension = errors.New("extension already assigned")

	// ErrUnknownExtension is returned when an extension is not in a category.
	ErrUnknownExtension = errors.New("extension not assigned to category")

	// ErrLastExtension is returned when removing the only extension of a
	// category.
	ErrLastExtension = errors.New("cannot remove the last extension of a category")

	// ErrReorderMismatch is returned when a reorder list does not name every
	// category exactly once.
	ErrReorderMismatch = errors.New("reorder list must name every category exactly once")
)
