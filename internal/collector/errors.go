package collector

import "errors"

var (
	// ErrTimeout is returned by Bounded when the operation did not settle
	// before its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrPanic wraps a panic recovered from a collaborator.
	ErrPanic = errors.New("collaborator panicked")
)
