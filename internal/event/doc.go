// Package event connects engine callbacks to typed subscribers.
//
// Engine objects expose a Source: a per-type listener list with On and Off.
// A Mux sits in front of a Source and multiplexes any number of handlers
// onto a single native listener per event type. The native listener is
// attached when the first handler for a type subscribes and detached when
// the last one is removed, so engine objects only pay for events somebody
// is listening to.
//
// Native callback arguments are decoded once per emission by the Mux's
// Decoder and the decoded value is handed to every handler. Handlers run
// without the Mux lock held and may subscribe or unsubscribe during
// dispatch.
//
// Listeners is a ready-made Source for engine types.
package event
