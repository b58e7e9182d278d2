package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration loading.
var (
	// ErrIncludeDepth indicates too many nested @include directives.
	ErrIncludeDepth = errors.New("include depth exceeded")

	// ErrIncludeType indicates an @include value that is not a path or a
	// list of paths.
	ErrIncludeType = errors.New("@include must be a string or an array of strings")

	// ErrWatcherClosed indicates an operation on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ParseError represents an error while parsing an options file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Line and Column locate the error when the parser reports a position.
	Line   int
	Column int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
