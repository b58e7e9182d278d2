// Package mirror is the typed facade over the editing engine.
//
// A Session owns every wrapper it hands out. Documents, editors, line
// handles, text markers and line widgets are wrapped once and cached by the
// id of the engine object, so asking twice for the same line or mark yields
// the same pointer:
//
//	s := mirror.NewSession()
//	doc, _ := mirror.NewDocument(s, "one\ntwo", mirror.DocumentOptions{})
//	doc.LineHandle(1) == doc.LineHandle(1) // true
//
// Event subscriptions go through an event.Mux per wrapper, so the engine
// listener for an event type is attached on the first subscription and
// detached when the last one is removed.
//
// Following the engine's threading model, a session and everything it wraps
// must be used from a single goroutine.
//
// Constructors reject nil arguments with an error. Accessors and mutators
// absorb engine errors: they log them at Debug level and return a zero value
// or do nothing.
package mirror
