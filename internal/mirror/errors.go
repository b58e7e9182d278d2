package mirror

import (
	"errors"

	"github.com/dshills/mirror/internal/engine"
)

var (
	// ErrNilSession is returned when a constructor is given a nil session.
	ErrNilSession = errors.New("nil session")

	// ErrNilDocument is returned when a nil document is passed where one is
	// required.
	ErrNilDocument = errors.New("nil document")

	// ErrNilOptions is returned when an editor is created without options.
	ErrNilOptions = errors.New("nil editor options")

	// ErrNilCallback is returned when a nil command or key map callback is
	// registered.
	ErrNilCallback = errors.New("nil callback")

	// ErrForeignDocument is returned when a document from another session is
	// attached to an editor.
	ErrForeignDocument = errors.New("document belongs to another session")

	// ErrUnknownEditor is returned by a command invoked on an engine editor
	// the session did not create.
	ErrUnknownEditor = errors.New("editor not owned by session")

	// ErrSessionClosed is returned by constructors after Close.
	ErrSessionClosed = errors.New("session closed")

	// ErrPass is returned by a command that declines the key it is bound
	// to, so lookup continues in the next key map.
	ErrPass = engine.ErrPass
)
