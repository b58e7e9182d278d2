package stroke

import (
	"errors"
	"fmt"
)

// Parse errors. A *ParseError wraps exactly one of these.
var (
	ErrEmpty           = errors.New("empty key description")
	ErrNoKey           = errors.New("key description has no key name")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrEmptyModifier   = errors.New("empty modifier")
)

// ParseError reports a key description that could not be parsed.
type ParseError struct {
	Input  string
	Reason error
	Token  string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse %q: %v %q", e.Input, e.Reason, e.Token)
	}
	return fmt.Sprintf("parse %q: %v", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}
