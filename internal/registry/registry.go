// Package registry provides id-keyed identity caches.
//
// A Registry maps the stable id of an engine object to the single wrapper
// created for it, so repeated lookups of the same object return the same
// wrapper. Entries are created lazily and removed explicitly when the
// underlying object is cleared or deleted.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Registry is a concurrency-safe identity cache.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// GetOrCreate returns the value for id, calling create exactly once if the
// id is not yet present. create runs with the registry locked and must not
// call back into the registry.
func (r *Registry[K, V]) GetOrCreate(id K, create func() V) V {
	r.mu.RLock()
	v, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[id]; ok {
		return v
	}
	v = create()
	r.entries[id] = v
	return v
}

// Get returns the value for id.
func (r *Registry[K, V]) Get(id K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[id]
	return v, ok
}

// Put stores v under id, replacing any existing value.
func (r *Registry[K, V]) Put(id K, v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = v
}

// Remove deletes id and returns the value it held.
func (r *Registry[K, V]) Remove(id K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	return v, ok
}

// Contains reports whether id is present.
func (r *Registry[K, V]) Contains(id K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for a snapshot of the entries until fn returns false.
// fn may modify the registry.
func (r *Registry[K, V]) Range(fn func(id K, v V) bool) {
	r.mu.RLock()
	ids := make([]K, 0, len(r.entries))
	vals := make([]V, 0, len(r.entries))
	for k, v := range r.entries {
		ids = append(ids, k)
		vals = append(vals, v)
	}
	r.mu.RUnlock()

	for i := range ids {
		if !fn(ids[i], vals[i]) {
			return
		}
	}
}

// Values returns a snapshot of the values in unspecified order.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]V, 0, len(r.entries))
	for _, v := range r.entries {
		out = append(out, v)
	}
	return out
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[K]V)
}

// SortedKeys returns the keys of a registry whose keys are ordered.
func SortedKeys[K interface{ ~int | ~int64 | ~uint64 | ~string }, V any](r *Registry[K, V]) []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// IDs allocates increasing ids starting at 1.
type IDs struct {
	next atomic.Uint64
}

// Next returns a fresh id.
func (g *IDs) Next() uint64 {
	return g.next.Add(1)
}

// Last returns the most recently allocated id, or 0.
func (g *IDs) Last() uint64 {
	return g.next.Load()
}
