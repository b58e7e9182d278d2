package mirror

import (
	"sort"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/registry"
)

// Session owns the wrapper caches and the command and key map tables shared
// by its editors.
type Session struct {
	id     string
	logger *logging.Logger
	mac    bool

	commands *engine.Commands
	keyMaps  *engine.KeyMapTable

	docs     *registry.Registry[string, *Document]
	editors  *registry.Registry[*engine.Editor, *Editor]
	userMaps *registry.Registry[string, *KeyMap]

	closed atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. Documents and editors log through it.
func WithLogger(l *logging.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logging.OrNull(l)
	}
}

// WithMac selects macOS key conventions for the default key map and for
// "Mod" in key descriptions.
func WithMac(mac bool) SessionOption {
	return func(s *Session) {
		s.mac = mac
	}
}

// NewSession creates an empty session holding the builtin commands and key
// maps.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		logger:   logging.NullLogger,
		docs:     registry.New[string, *Document](),
		editors:  registry.New[*engine.Editor, *Editor](),
		userMaps: registry.New[string, *KeyMap](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("session").WithField("session", s.id)
	s.commands = engine.NewCommands()
	s.keyMaps = engine.NewKeyMapTable(s.mac)
	s.logger.Debug("session created")
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger {
	return s.logger
}

// Mac reports whether macOS key conventions are in use.
func (s *Session) Mac() bool {
	return s.mac
}

// Commands returns the session command table.
func (s *Session) Commands() *Commands {
	return &Commands{session: s}
}

// Document returns the cached document with the given id.
func (s *Session) Document(id string) (*Document, bool) {
	return s.docs.Get(id)
}

// Documents returns every live document, ordered by id.
func (s *Session) Documents() []*Document {
	ids := registry.SortedKeys(s.docs)
	out := make([]*Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.docs.Get(id); ok {
			out = append(out, d)
		}
	}
	return out
}

// Editors returns every open editor, ordered by id.
func (s *Session) Editors() []*Editor {
	out := s.editors.Values()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Release drops a document from the session. Its event handlers are
// removed and its wrappers forgotten. A document attached to an editor is
// kept.
func (s *Session) Release(d *Document) bool {
	if d == nil || d.doc.Editor() != nil {
		return false
	}
	if _, ok := s.docs.Remove(d.doc.ID()); !ok {
		return false
	}
	d.close()
	return true
}

// Close closes every editor and releases every document. Constructors fail
// with ErrSessionClosed afterwards.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	for _, ed := range s.editors.Values() {
		ed.Close()
	}
	for _, d := range s.docs.Values() {
		d.close()
	}
	s.docs.Clear()
	s.userMaps.Clear()
	s.logger.Debug("session closed")
}

func (s *Session) check() error {
	if s == nil {
		return ErrNilSession
	}
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

// wrapDoc returns the cached wrapper for d, creating it on first use.
func (s *Session) wrapDoc(d *engine.Doc) *Document {
	if d == nil {
		return nil
	}
	return s.docs.GetOrCreate(d.ID(), func() *Document {
		return newDocument(s, d)
	})
}

// editorFor returns the wrapper of an engine editor.
func (s *Session) editorFor(e *engine.Editor) (*Editor, error) {
	ed, ok := s.editors.Get(e)
	if !ok {
		return nil, ErrUnknownEditor
	}
	return ed, nil
}
