package engine

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an edit touched a read-only mark.
	ErrReadOnly = errors.New("range is read-only")

	// ErrChangeCancelled indicates a beforeChange listener cancelled an edit.
	ErrChangeCancelled = errors.New("change cancelled")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrLineOutOfRange indicates a line number outside the document.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrStaleHandle indicates a line handle whose line was deleted or that
	// belongs to another document.
	ErrStaleHandle = errors.New("stale line handle")

	// ErrMarkCleared indicates an operation on a cleared mark or widget.
	ErrMarkCleared = errors.New("mark has been cleared")

	// ErrEmptyMark indicates a range mark over an empty range that would be
	// cleared immediately.
	ErrEmptyMark = errors.New("empty mark range")

	// ErrUnknownOption indicates an option name the editor does not know.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidOption indicates an option value of the wrong type.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrUnknownCommand indicates a command name with no definition.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyCommandName indicates a command defined without a name.
	ErrEmptyCommandName = errors.New("empty command name")

	// ErrNilCommand indicates a command defined without a function.
	ErrNilCommand = errors.New("nil command")

	// ErrDocAttached indicates a document already attached to another editor.
	ErrDocAttached = errors.New("document is attached to another editor")

	// ErrEmptyQuery indicates an empty search query.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrSelectionCount indicates a text count that does not match the
	// number of selected ranges.
	ErrSelectionCount = errors.New("text count does not match selection")

	// ErrNoMatch indicates a search cursor operation without a current match.
	ErrNoMatch = errors.New("no current match")
)

// CommandError reports an unknown command and the closest known name.
type CommandError struct {
	Name       string
	Suggestion string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown command %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Unwrap returns ErrUnknownCommand.
func (e *CommandError) Unwrap() error {
	return ErrUnknownCommand
}

// OptionError reports a failed option write.
type OptionError struct {
	Name       string
	Suggestion string
	Err        error
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	msg := fmt.Sprintf("option %q: %v", e.Name, e.Err)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *OptionError) Unwrap() error {
	return e.Err
}
