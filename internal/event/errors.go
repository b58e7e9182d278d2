package event

import "errors"

// Sentinel errors for the multiplexer.
var (
	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrEmptyType is returned when subscribing to an empty event type.
	ErrEmptyType = errors.New("event type cannot be empty")

	// ErrClosed is returned when subscribing to a closed multiplexer.
	ErrClosed = errors.New("event mux is closed")
)
