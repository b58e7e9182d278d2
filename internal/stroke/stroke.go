// Package stroke parses and formats key combination descriptions such as
// "Ctrl-Alt-Space" or "Shift-Cmd-Z".
//
// A description is a dash-separated list of modifiers followed by a key name.
// The minus key is written as a trailing dash: "Ctrl--" is Ctrl plus minus.
// Formatting always emits modifiers in the order Shift, Cmd, Ctrl, Alt, so
// equal combinations produce equal strings whatever order they were written in.
package stroke

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyMinus is the canonical name of the minus key.
const KeyMinus = "-"

// Named keys.
const (
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyEsc       = "Esc"
	KeySpace     = "Space"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyInsert    = "Insert"
	KeyHome      = "Home"
	KeyEnd       = "End"
	KeyPageUp    = "PageUp"
	KeyPageDown  = "PageDown"
	KeyUp        = "Up"
	KeyDown      = "Down"
	KeyLeft      = "Left"
	KeyRight     = "Right"
)

// keyAliases maps lower-cased spellings to canonical key names.
var keyAliases = map[string]string{
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"cr":         KeyEnter,
	"tab":        KeyTab,
	"esc":        KeyEsc,
	"escape":     KeyEsc,
	"space":      KeySpace,
	"spc":        KeySpace,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdn":       KeyPageDown,
	"up":         KeyUp,
	"down":       KeyDown,
	"left":       KeyLeft,
	"right":      KeyRight,
	"minus":      KeyMinus,
	"pause":      "Pause",
	"capslock":   "CapsLock",
	"scrolllock": "ScrollLock",
	"numlock":    "NumLock",
	"printscrn":  "PrintScrn",
}

// Stroke is a single key combination.
type Stroke struct {
	Mods Modifier
	Key  string
}

// New returns a stroke with the key name canonicalised.
func New(mods Modifier, key string) Stroke {
	return Stroke{Mods: mods, Key: CanonicalKey(key)}
}

// CanonicalKey normalises a key name: aliases resolve, single letters are
// upper-cased, function keys become "F<n>". Unknown multi-rune names are kept
// with their first letter upper-cased.
func CanonicalKey(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	if canon, ok := keyAliases[lower]; ok {
		return canon
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return string(unicode.ToUpper(r))
	}
	if lower[0] == 'f' && isDigits(lower[1:]) {
		return "F" + lower[1:]
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Options tunes parsing.
type Options struct {
	// Mac resolves "Mod" to Cmd instead of Ctrl.
	Mac bool
}

// Parse parses a description such as "Ctrl-Alt-Space" using default options.
func Parse(s string) (Stroke, error) {
	return ParseWith(s, Options{})
}

// ParseWith parses a description.
//
// A trailing "--" (or the whole input "-") names the minus key. A lone
// trailing dash, a modifier in the key position, or an unknown modifier is an
// error.
func ParseWith(s string, opts Options) (Stroke, error) {
	input := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Stroke{}, &ParseError{Input: input, Reason: ErrEmpty}
	}

	var prefix, key string
	switch {
	case s == KeyMinus:
		key = KeyMinus
	case strings.HasSuffix(s, "--"):
		prefix, key = s[:len(s)-2], KeyMinus
	case strings.HasSuffix(s, "-"):
		return Stroke{}, &ParseError{Input: input, Reason: ErrNoKey}
	default:
		if i := strings.LastIndexByte(s, '-'); i >= 0 {
			prefix, key = s[:i], s[i+1:]
		} else {
			key = s
		}
		if IsModifierName(key) && utf8.RuneCountInString(key) > 1 {
			return Stroke{}, &ParseError{Input: input, Reason: ErrNoKey, Token: key}
		}
	}

	var mods Modifier
	if prefix != "" {
		for _, tok := range strings.Split(prefix, "-") {
			if tok == "" {
				return Stroke{}, &ParseError{Input: input, Reason: ErrEmptyModifier}
			}
			mod, ok := modifierFromName(tok, opts.Mac)
			if !ok {
				return Stroke{}, &ParseError{Input: input, Reason: ErrUnknownModifier, Token: tok}
			}
			mods = mods.With(mod)
		}
	}

	return Stroke{Mods: mods, Key: CanonicalKey(key)}, nil
}

// MustParse is Parse for descriptions known to be valid. It panics otherwise.
func MustParse(s string) Stroke {
	st, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return st
}

// String returns the canonical description.
func (s Stroke) String() string {
	return s.Mods.String() + s.Key
}

// Equal compares modifier set and key name.
func (s Stroke) Equal(other Stroke) bool {
	return s.Mods == other.Mods && s.Key == other.Key
}

// IsZero reports whether s is the zero stroke.
func (s Stroke) IsZero() bool {
	return s.Mods == ModNone && s.Key == ""
}

// Rune returns the character a stroke types, if it types one. Strokes with
// Ctrl, Alt or Cmd never type.
func (s Stroke) Rune() (rune, bool) {
	if s.Mods.Has(ModCtrl) || s.Mods.Has(ModAlt) || s.Mods.Has(ModCmd) {
		return 0, false
	}
	if s.Key == KeySpace {
		return ' ', true
	}
	if utf8.RuneCountInString(s.Key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.Key)
	if !unicode.IsPrint(r) {
		return 0, false
	}
	if unicode.IsLetter(r) && !s.Mods.Has(ModShift) {
		r = unicode.ToLower(r)
	}
	return r, true
}

// FromRune builds the stroke a typed character corresponds to. Upper-case
// letters carry Shift.
func FromRune(r rune) Stroke {
	if r == ' ' {
		return Stroke{Key: KeySpace}
	}
	if unicode.IsUpper(r) {
		return Stroke{Mods: ModShift, Key: string(r)}
	}
	return Stroke{Key: string(unicode.ToUpper(r))}
}
