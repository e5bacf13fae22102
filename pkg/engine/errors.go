package engine

import "errors"

// Common errors returned by the engine.
var (
	// ErrBusy is returned when an automatic pass finds another operation in
	// flight. The caller coalesces the work into its next trigger.
	ErrBusy = errors.New("another operation is in progress")

	// ErrNoTargetFolders is returned when no configured folder could be
	// scanned.
	ErrNoTargetFolders = errors.New("no usable target folders")

	// ErrFolderExists is returned when adding a folder already in the list.
	ErrFolderExists = errors.New("folder already in target list")

	// ErrUnknownFolder is returned when removing a folder not in the list.
	ErrUnknownFolder = errors.New("folder not in target list")

	// ErrInvalidFolder is returned when a folder cannot become a target.
	ErrInvalidFolder = errors.New("invalid target folder")

	// ErrNothingToUndo is returned when no session remains to undo.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrNilConfig is returned when constructing without an app config.
	ErrNilConfig = errors.New("app config is required")

	// ErrNilLedger is returned when constructing without a ledger.
	ErrNilLedger = errors.New("ledger is required")
)
