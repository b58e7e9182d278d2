package keymap

import (
	"sort"
	"sync"

	"github.com/dshills/mirror/internal/stroke"
)

// Kind is the outcome of a lookup.
type Kind uint8

const (
	// None means no map had anything to say about the keys.
	None Kind = iota
	// Nothing means a binding explicitly disabled the keys.
	Nothing
	// Multi means the keys start a longer binding.
	Multi
	// Handled means a binding accepted the keys.
	Handled
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Nothing:
		return "nothing"
	case Multi:
		return "multi"
	case Handled:
		return "handled"
	default:
		return "none"
	}
}

// Result describes a lookup.
type Result[F any] struct {
	Kind    Kind
	Binding Binding[F]
	// Map is the name of the map that produced the result.
	Map string
}

// Handler executes a binding. Returning false declines it and lets lookup
// continue.
type Handler[F any] func(b Binding[F]) bool

// Table holds maps by name.
type Table[F any] struct {
	mu   sync.RWMutex
	maps map[string]*Map[F]
}

// NewTable creates an empty table.
func NewTable[F any]() *Table[F] {
	return &Table[F]{maps: make(map[string]*Map[F])}
}

// Register adds m, replacing any map of the same name.
func (t *Table[F]) Register(m *Map[F]) error {
	if m == nil {
		return ErrNilMap
	}
	if m.Name() == "" {
		return ErrEmptyName
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maps[m.Name()] = m
	return nil
}

// Get returns the named map.
func (t *Table[F]) Get(name string) (*Map[F], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.maps[name]
	return m, ok
}

// Remove deletes the named map.
func (t *Table[F]) Remove(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.maps[name]; !ok {
		return false
	}
	delete(t.maps, name)
	return true
}

// Names returns the registered map names, sorted.
func (t *Table[F]) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.maps))
	for n := range t.maps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves keys against the named maps in order. Unknown map names
// are skipped. handle may be nil, in which case any binding counts as handled.
func (t *Table[F]) Lookup(keys stroke.MultiStroke, handle Handler[F], names ...string) Result[F] {
	norm := keys.String()
	for _, name := range names {
		m, ok := t.Get(name)
		if !ok {
			continue
		}
		if res := t.lookupIn(m, norm, handle, map[string]bool{}); res.Kind != None {
			return res
		}
	}
	return Result[F]{Kind: None}
}

// LookupMap resolves keys against a map that need not be registered; its
// fallthrough names are resolved through the table.
func (t *Table[F]) LookupMap(m *Map[F], keys stroke.MultiStroke, handle Handler[F]) Result[F] {
	if m == nil {
		return Result[F]{Kind: None}
	}
	return t.lookupIn(m, keys.String(), handle, map[string]bool{})
}

func (t *Table[F]) lookupIn(m *Map[F], norm string, handle Handler[F], seen map[string]bool) Result[F] {
	if seen[m.Name()] {
		return Result[F]{Kind: None}
	}
	seen[m.Name()] = true

	if b, ok := m.get(norm); ok {
		if b.Disabled {
			return Result[F]{Kind: Nothing, Binding: b, Map: m.Name()}
		}
		if handle == nil || handle(b) {
			return Result[F]{Kind: Handled, Binding: b, Map: m.Name()}
		}
	}
	if m.isPrefix(norm) {
		return Result[F]{Kind: Multi, Map: m.Name()}
	}

	for _, name := range m.Fallthrough() {
		next, ok := t.Get(name)
		if !ok {
			continue
		}
		if res := t.lookupIn(next, norm, handle, seen); res.Kind != None {
			return res
		}
	}
	return Result[F]{Kind: None}
}
