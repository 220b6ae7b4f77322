package lifecycle

import "errors"

var (
	// ErrInvalidState means the requested transition is not an edge of the
	// booking state machine.
	ErrInvalidState = errors.New("transition not allowed from current status")

	// ErrPermissionDenied means the edge exists but the caller is not one of
	// the actors allowed to take it.
	ErrPermissionDenied = errors.New("not authorized for this transition")
)
