package script

import "errors"

// Errors for script host operations.
var (
	// ErrHostClosed is returned when operating on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrUnknownCommand is returned by Invoke for a name no script registered.
	ErrUnknownCommand = errors.New("unknown script command")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("script execution timeout")
)
