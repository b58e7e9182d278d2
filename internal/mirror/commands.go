package mirror

import (
	"github.com/dshills/mirror/internal/engine"
)

// CommandFunc is a command defined through the facade.
type CommandFunc func(e *Editor) error

// Commands is the session command table. Builtin commands are present from
// the start; registering a defined name shadows the existing command until
// the new one is removed.
type Commands struct {
	session *Session
}

// Register defines the command name, shadowing any current definition.
func (c *Commands) Register(name string, fn CommandFunc) error {
	if fn == nil {
		return ErrNilCallback
	}
	return c.session.commands.Define(name, c.session.adapt(fn))
}

// Remove deletes the current definition of name, restoring the command it
// shadowed. A builtin that shadows nothing is removed outright.
func (c *Commands) Remove(name string) bool {
	return c.session.commands.Remove(name)
}

// Has reports whether name is defined.
func (c *Commands) Has(name string) bool {
	return c.session.commands.Has(name)
}

// Names returns every command name, sorted.
func (c *Commands) Names() []string {
	return c.session.commands.Names()
}

// IsBuiltin reports whether name is one of the engine's builtin commands.
func (c *Commands) IsBuiltin(name string) bool {
	return engine.IsBuiltinCommand(name)
}

// Exec runs the named command on e.
func (c *Commands) Exec(e *Editor, name string) error {
	if e == nil {
		return ErrUnknownEditor
	}
	return e.ExecCommand(name)
}

// adapt turns a facade command into an engine command that looks up the
// wrapper of the editor it runs on.
func (s *Session) adapt(fn CommandFunc) engine.CommandFunc {
	return func(ne *engine.Editor) error {
		e, err := s.editorFor(ne)
		if err != nil {
			return err
		}
		return fn(e)
	}
}
