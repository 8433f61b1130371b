package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrValueRequired is reported to the prompt when a required field is
	// left empty.
	ErrValueRequired = errors.New("tui: value is required")
)
