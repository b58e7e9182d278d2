package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/mirror/internal/stroke"
)

// Errors returned by map operations.
var (
	ErrEmptyCommand = errors.New("empty command name")
	ErrNilMap       = errors.New("nil keymap")
	ErrEmptyName    = errors.New("keymap has no name")
)

// Binding is the value bound to a key description: a command name, a
// callback, or an explicit "do nothing".
type Binding[F any] struct {
	// Command names a command to execute. Empty for callback bindings.
	Command string
	// Func is the callback, valid when HasFunc is true.
	Func    F
	HasFunc bool
	// Disabled stops lookup without handling the key.
	Disabled bool
}

// CommandBinding binds to a named command.
func CommandBinding[F any](name string) Binding[F] {
	return Binding[F]{Command: name}
}

// FuncBinding binds to a callback.
func FuncBinding[F any](fn F) Binding[F] {
	return Binding[F]{Func: fn, HasFunc: true}
}

// DisabledBinding blocks the key.
func DisabledBinding[F any]() Binding[F] {
	return Binding[F]{Disabled: true}
}

// String describes the binding.
func (b Binding[F]) String() string {
	switch {
	case b.Disabled:
		return "<disabled>"
	case b.HasFunc:
		return "<func>"
	default:
		return b.Command
	}
}

// Map is a named set of bindings.
type Map[F any] struct {
	mu sync.RWMutex

	name     string
	chain    []string
	bindings map[string]Binding[F]
	// prefixes counts, for each proper prefix of a multi-stroke binding, how
	// many bindings extend it.
	prefixes map[string]int
}

// NewMap creates an empty map that falls through to the named maps.
func NewMap[F any](name string, chain ...string) *Map[F] {
	return &Map[F]{
		name:     name,
		chain:    append([]string(nil), chain...),
		bindings: make(map[string]Binding[F]),
		prefixes: make(map[string]int),
	}
}

// Name returns the map name.
func (m *Map[F]) Name() string {
	return m.name
}

// Fallthrough returns the fallthrough chain.
func (m *Map[F]) Fallthrough() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.chain...)
}

// SetFallthrough replaces the fallthrough chain.
func (m *Map[F]) SetFallthrough(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chain = append([]string(nil), names...)
}

// Set binds keys. An existing binding for the same normalised keys is replaced.
func (m *Map[F]) Set(keys string, b Binding[F]) error {
	seq, err := stroke.ParseMulti(keys)
	if err != nil {
		return err
	}
	if !b.HasFunc && !b.Disabled && b.Command == "" {
		return fmt.Errorf("binding %q: %w", keys, ErrEmptyCommand)
	}

	norm := seq.String()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.bindings[norm]; !exists {
		for _, p := range seq.Prefixes() {
			m.prefixes[p]++
		}
	}
	m.bindings[norm] = b
	return nil
}

// Bind binds keys to a command name.
func (m *Map[F]) Bind(keys, command string) error {
	return m.Set(keys, CommandBinding[F](command))
}

// BindFunc binds keys to a callback.
func (m *Map[F]) BindFunc(keys string, fn F) error {
	return m.Set(keys, FuncBinding(fn))
}

// Delete removes the binding for keys.
func (m *Map[F]) Delete(keys string) bool {
	seq, err := stroke.ParseMulti(keys)
	if err != nil {
		return false
	}
	norm := seq.String()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bindings[norm]; !ok {
		return false
	}
	delete(m.bindings, norm)
	for _, p := range seq.Prefixes() {
		if m.prefixes[p] <= 1 {
			delete(m.prefixes, p)
		} else {
			m.prefixes[p]--
		}
	}
	return true
}

// Get returns the binding for keys.
func (m *Map[F]) Get(keys string) (Binding[F], bool) {
	seq, err := stroke.ParseMulti(keys)
	if err != nil {
		return Binding[F]{}, false
	}
	return m.get(seq.String())
}

func (m *Map[F]) get(norm string) (Binding[F], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bindings[norm]
	return b, ok
}

func (m *Map[F]) isPrefix(norm string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefixes[norm] > 0
}

// Keys returns the normalised keys of every binding, sorted.
func (m *Map[F]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.bindings))
	for k := range m.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bindings.
func (m *Map[F]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bindings)
}

// Clone copies the map under a new name.
func (m *Map[F]) Clone(name string) *Map[F] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := NewMap[F](name, m.chain...)
	for k, v := range m.bindings {
		c.bindings[k] = v
	}
	for k, v := range m.prefixes {
		c.prefixes[k] = v
	}
	return c
}
