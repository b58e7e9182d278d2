package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a chunk or command runs past its timeout.
	ErrTimeout = errors.New("lua execution timeout")
)
