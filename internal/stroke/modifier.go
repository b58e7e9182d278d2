package stroke

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone means no modifiers.
	ModNone Modifier = 0

	// ModShift is the Shift key.
	ModShift Modifier = 1 << iota
	// ModCmd is Cmd on macOS, Meta/Super elsewhere.
	ModCmd
	// ModCtrl is the Control key.
	ModCtrl
	// ModAlt is Alt, or Option on macOS.
	ModAlt
)

// canonicalOrder is the serialisation precedence. Two strokes holding the
// same set always print identically because of it.
var canonicalOrder = []struct {
	mod  Modifier
	name string
}{
	{ModShift, "Shift"},
	{ModCmd, "Cmd"},
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
}

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty reports whether no modifier is set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Names returns the modifier names in canonical order.
func (m Modifier) Names() []string {
	names := make([]string, 0, len(canonicalOrder))
	for _, c := range canonicalOrder {
		if m.Has(c.mod) {
			names = append(names, c.name)
		}
	}
	return names
}

// String returns the canonical prefix form, e.g. "Shift-Ctrl-".
func (m Modifier) String() string {
	var b strings.Builder
	for _, name := range m.Names() {
		b.WriteString(name)
		b.WriteByte('-')
	}
	return b.String()
}

// modifierFromName resolves a modifier token (case-insensitive). "Mod" is the
// platform command modifier: Cmd on macOS, Ctrl elsewhere.
func modifierFromName(name string, mac bool) (Modifier, bool) {
	switch strings.ToLower(name) {
	case "shift", "s":
		return ModShift, true
	case "cmd", "command", "meta", "m", "super", "win":
		return ModCmd, true
	case "ctrl", "control", "c":
		return ModCtrl, true
	case "alt", "option", "opt", "a":
		return ModAlt, true
	case "mod":
		if mac {
			return ModCmd, true
		}
		return ModCtrl, true
	default:
		return ModNone, false
	}
}

// IsModifierName reports whether name is a modifier token.
func IsModifierName(name string) bool {
	_, ok := modifierFromName(name, false)
	return ok
}
