package event

import "sync"

// Type names an event, e.g. "change" or "cursorActivity".
type Type string

// Listener receives the raw arguments of a native event.
type Listener func(args ...any)

// ListenerID identifies a listener attached to a Source.
type ListenerID uint64

// Source is an object that emits native events.
type Source interface {
	On(t Type, l Listener) ListenerID
	Off(t Type, id ListenerID)
}

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Listeners is a Source backed by ordered per-type listener lists.
// The zero value is ready to use.
type Listeners struct {
	mu     sync.Mutex
	nextID ListenerID
	byType map[Type][]listenerEntry
}

// On appends a listener for t and returns its id.
func (ls *Listeners) On(t Type, l Listener) ListenerID {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.byType == nil {
		ls.byType = make(map[Type][]listenerEntry)
	}
	ls.nextID++
	ls.byType[t] = append(ls.byType[t], listenerEntry{id: ls.nextID, fn: l})
	return ls.nextID
}

// Off removes the listener with the given id. Unknown ids are ignored.
func (ls *Listeners) Off(t Type, id ListenerID) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	entries := ls.byType[t]
	for i, e := range entries {
		if e.id != id {
			continue
		}
		next := make([]listenerEntry, 0, len(entries)-1)
		next = append(next, entries[:i]...)
		next = append(next, entries[i+1:]...)
		if len(next) == 0 {
			delete(ls.byType, t)
		} else {
			ls.byType[t] = next
		}
		return
	}
}

// Has reports whether any listener is attached for t.
func (ls *Listeners) Has(t Type) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.byType[t]) > 0
}

// Count returns the number of listeners attached for t.
func (ls *Listeners) Count(t Type) int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.byType[t])
}

// Emit calls every listener for t in attachment order. Listeners added or
// removed during Emit take effect from the next emission.
func (ls *Listeners) Emit(t Type, args ...any) {
	ls.mu.Lock()
	entries := ls.byType[t]
	ls.mu.Unlock()

	for _, e := range entries {
		e.fn(args...)
	}
}
