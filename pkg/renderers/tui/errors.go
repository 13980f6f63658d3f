package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnavailable is returned by Run when the form could not be shown,
	// for example because the entity to edit failed to load.
	ErrUnavailable = errors.New("tui: form unavailable")
	// ErrNoPage is returned when prompting before anything was rendered.
	ErrNoPage = errors.New("tui: nothing rendered yet")
)
