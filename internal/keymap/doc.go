// Package keymap provides name-keyed key binding tables.
//
// A Map binds key descriptions ("Ctrl-S", "Ctrl-K Ctrl-C") to either a
// command name or a callback of the caller's choosing. Keys are normalised
// through the stroke package, so "Alt-Ctrl-X" and "Ctrl-Alt-X" name the same
// binding. Maps may fall through to other maps by name.
//
// # Lookup
//
// Table.Lookup walks the requested maps in order, each followed by its
// fallthrough chain, and reports one of:
//
//	Handled  - a binding ran and accepted the key
//	Multi    - the keys are a prefix of a longer binding; wait for more
//	Nothing  - a binding explicitly disables the keys
//	None     - nothing matched anywhere
//
// A handler may decline a binding (return false), in which case lookup
// continues as if the binding were absent.
//
// # Defaults
//
// RegisterDefaults installs "basic", "pcDefault", "macDefault", "emacsy"
// and "default" bound to the engine's builtin command names.
package keymap
