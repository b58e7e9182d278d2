package mirror

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/keymap"
)

// Binding is the value bound to a key description.
type Binding = keymap.Binding[engine.CommandFunc]

// KeyMap is a named key map registered in the session. It can be selected
// by name through the keyMap option, installed as extraKeys, or layered on
// an editor with AddKeyMap.
type KeyMap struct {
	session *Session
	m       *engine.KeyMap
}

// NewKeyMap creates and registers an empty key map that falls through to
// the named maps. A map of the same name is replaced.
func (s *Session) NewKeyMap(name string, chain ...string) (*KeyMap, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.registerKeyMap(engine.NewKeyMap(name, chain...))
}

// LoadKeyMap reads a YAML key map and registers it.
func (s *Session) LoadKeyMap(r io.Reader) (*KeyMap, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	m, err := keymap.LoadYAML[engine.CommandFunc](r)
	if err != nil {
		return nil, err
	}
	return s.registerKeyMap(m)
}

// LoadKeyMapFile reads a YAML key map from path and registers it.
func (s *Session) LoadKeyMapFile(path string) (*KeyMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap: %w", err)
	}
	defer f.Close()
	return s.LoadKeyMap(f)
}

// KeyMap returns the named map, including the builtin ones.
func (s *Session) KeyMap(name string) (*KeyMap, bool) {
	m, ok := s.keyMaps.Get(name)
	if !ok {
		return nil, false
	}
	return s.wrapKeyMap(m), true
}

// KeyMapNames returns the names of every registered map, sorted.
func (s *Session) KeyMapNames() []string {
	return s.keyMaps.Names()
}

// RemoveKeyMap unregisters the named map.
func (s *Session) RemoveKeyMap(name string) bool {
	s.userMaps.Remove(name)
	return s.keyMaps.Remove(name)
}

func (s *Session) registerKeyMap(m *engine.KeyMap) (*KeyMap, error) {
	if err := s.keyMaps.Register(m); err != nil {
		return nil, err
	}
	km := &KeyMap{session: s, m: m}
	s.userMaps.Put(m.Name(), km)
	s.logger.Debug("registered keymap %s", m.Name())
	return km, nil
}

func (s *Session) wrapKeyMap(m *engine.KeyMap) *KeyMap {
	if km, ok := s.userMaps.Get(m.Name()); ok && km.m == m {
		return km
	}
	km := &KeyMap{session: s, m: m}
	s.userMaps.Put(m.Name(), km)
	return km
}

// Name returns the map name.
func (k *KeyMap) Name() string { return k.m.Name() }

// Native returns the wrapped engine map.
func (k *KeyMap) Native() *engine.KeyMap { return k.m }

// Fallthrough returns the names of the maps consulted after this one.
func (k *KeyMap) Fallthrough() []string { return k.m.Fallthrough() }

// Put binds keys to a command name.
func (k *KeyMap) Put(keys, command string) error {
	return k.m.Bind(keys, command)
}

// PutFunc binds keys to a callback.
func (k *KeyMap) PutFunc(keys string, fn CommandFunc) error {
	if fn == nil {
		return ErrNilCallback
	}
	return k.m.BindFunc(keys, k.session.adapt(fn))
}

// Disable makes keys do nothing, stopping the fallthrough chain.
func (k *KeyMap) Disable(keys string) error {
	return k.m.Set(keys, keymap.DisabledBinding[engine.CommandFunc]())
}

// Remove deletes the binding for keys.
func (k *KeyMap) Remove(keys string) bool { return k.m.Delete(keys) }

// Get returns the binding for keys.
func (k *KeyMap) Get(keys string) (Binding, bool) { return k.m.Get(keys) }

// Keys returns every bound key description, normalized and sorted.
func (k *KeyMap) Keys() []string { return k.m.Keys() }

// Len returns the number of bindings.
func (k *KeyMap) Len() int { return k.m.Len() }
