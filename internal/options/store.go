// Package options provides the editor options facade.
//
// An EditorOptions is usable before an editor exists, as a builder for the
// values handed to the editor constructor, and afterwards as a live view of
// the running editor. It never stores values itself: it reads and writes
// through a Store, which is a detached JSON document until Activate switches
// it to a live store backed by the editor.
package options

import "errors"

// Errors returned by the options facade.
var (
	// ErrAlreadyActive indicates Activate was called on live options.
	ErrAlreadyActive = errors.New("options are already bound to an editor")

	// ErrNilNative indicates Activate was called without an editor.
	ErrNilNative = errors.New("nil native editor")
)

// Mode identifies which store backs an EditorOptions.
type Mode uint8

const (
	// ModeDetached stores values in a document of their own.
	ModeDetached Mode = iota
	// ModeLive reads and writes through a running editor.
	ModeLive
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDetached:
		return "detached"
	case ModeLive:
		return "live"
	default:
		return "unknown"
	}
}

// Store holds option values for an EditorOptions.
//
// Entities are values the live editor cannot hand back as an option value,
// such as a full mode spec when the editor only reports the mode name.
// They are kept beside the option values and carried across activation.
type Store interface {
	Mode() Mode
	Get(name string) (any, bool)
	Set(name string, v any) error
	Entity(name string) (any, bool)
	SetEntity(name string, v any)
}

// Native is the editor surface a live store talks to.
type Native interface {
	Option(name string) (any, bool)
	SetOption(name string, v any) error
}

// EntityNative is implemented by editors that can report the full value
// behind an entity option. A live store prefers it to its own cache.
type EntityNative interface {
	OptionEntity(name string) (any, bool)
}

// entityStore is the entity side cache shared by both stores.
type entityStore struct {
	entities map[string]any
}

// Entity returns the cached entity for name.
func (s *entityStore) Entity(name string) (any, bool) {
	v, ok := s.entities[name]
	return v, ok
}

// SetEntity caches v for name. A nil v drops the entry.
func (s *entityStore) SetEntity(name string, v any) {
	if v == nil {
		delete(s.entities, name)
		return
	}
	if s.entities == nil {
		s.entities = make(map[string]any)
	}
	s.entities[name] = v
}
