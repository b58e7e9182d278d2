package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// OptionType is the value type of an editor option.
type OptionType uint8

const (
	OptionBool OptionType = iota
	OptionInt
	OptionFloat
	OptionString
	OptionStrings
	// OptionAny accepts any value; the option normalises it itself.
	OptionAny
)

// String returns the type name.
func (t OptionType) String() string {
	switch t {
	case OptionBool:
		return "bool"
	case OptionInt:
		return "int"
	case OptionFloat:
		return "float"
	case OptionString:
		return "string"
	case OptionStrings:
		return "[]string"
	default:
		return "any"
	}
}

// ReadOnlyNoCursor is the readOnly value that also hides the cursor and
// keeps the editor from taking focus.
const ReadOnlyNoCursor = "nocursor"

// optionDef describes one option. get and set, when present, route the
// option to state outside the option map.
type optionDef struct {
	name      string
	typ       OptionType
	def       any
	min       *float64
	normalize func(v any) (any, error)
	get       func(e *Editor) any
	set       func(e *Editor, v any) error
}

func minimum(v float64) *float64 { return &v }

// optionDefs and optionIndex are filled in init because option setters
// reach back into the editor.
var (
	optionDefs  []optionDef
	optionIndex map[string]*optionDef
)

func init() {
	optionDefs = []optionDef{
		{name: "value", typ: OptionString, def: "",
			get: func(e *Editor) any { return e.doc.Value() },
			set: func(e *Editor, v any) error { return e.doc.SetValue(v.(string)) }},
		{name: "mode", typ: OptionAny, def: "text/plain", normalize: normalizeMode,
			get: func(e *Editor) any { return ModeName(e.doc.Mode()) },
			set: func(e *Editor, v any) error { e.doc.SetMode(v); return nil }},
		{name: "lineSeparator", typ: OptionString, def: "",
			get: func(e *Editor) any { return e.doc.LineSeparator() },
			set: func(e *Editor, v any) error { e.doc.SetLineSeparator(v.(string)); return nil }},
		{name: "direction", typ: OptionString, def: "ltr", normalize: normalizeDirection,
			get: func(e *Editor) any { return e.doc.Direction() },
			set: func(e *Editor, v any) error { e.doc.SetDirection(v.(string)); return nil }},
		{name: "theme", typ: OptionString, def: "default"},
		{name: "indentUnit", typ: OptionInt, def: 2, min: minimum(0)},
		{name: "smartIndent", typ: OptionBool, def: true},
		{name: "tabSize", typ: OptionInt, def: 4, min: minimum(1)},
		{name: "indentWithTabs", typ: OptionBool, def: false},
		{name: "electricChars", typ: OptionBool, def: true},
		{name: "specialChars", typ: OptionString, def: `[\u0000-\u001f\u007f-\u009f\u00ad\u061c\u200b\u200e\u200f\u2028\u2029\u202d\u202e\u2066\u2067\u2069\ufeff\ufff9-\ufffc]`},
		{name: "rtlMoveVisually", typ: OptionBool, def: false},
		{name: "keyMap", typ: OptionString, def: "default"},
		{name: "extraKeys", typ: OptionAny, def: nil},
		{name: "lineWrapping", typ: OptionBool, def: false},
		{name: "lineNumbers", typ: OptionBool, def: false},
		{name: "firstLineNumber", typ: OptionInt, def: 1},
		{name: "gutters", typ: OptionStrings, def: []string{}},
		{name: "fixedGutter", typ: OptionBool, def: true},
		{name: "scrollbarStyle", typ: OptionString, def: "native"},
		{name: "coverGutterNextToScrollbar", typ: OptionBool, def: false},
		{name: "inputStyle", typ: OptionString, def: "textarea"},
		{name: "readOnly", typ: OptionAny, def: false, normalize: normalizeReadOnly,
			set: func(e *Editor, v any) error {
				e.options["readOnly"] = v
				if v == ReadOnlyNoCursor {
					e.Blur()
				}
				return nil
			}},
		{name: "screenReaderLabel", typ: OptionString, def: ""},
		{name: "showCursorWhenSelecting", typ: OptionBool, def: false},
		{name: "lineWiseCopyCut", typ: OptionBool, def: true},
		{name: "pasteLinesPerSelection", typ: OptionBool, def: true},
		{name: "selectionsMayTouch", typ: OptionBool, def: false},
		{name: "undoDepth", typ: OptionInt, def: DefaultUndoDepth, min: minimum(0),
			set: func(e *Editor, v any) error {
				e.options["undoDepth"] = v
				e.doc.SetUndoDepth(v.(int))
				return nil
			}},
		{name: "historyEventDelay", typ: OptionInt, def: int(DefaultHistoryEventDelay / time.Millisecond), min: minimum(1),
			set: func(e *Editor, v any) error {
				e.options["historyEventDelay"] = v
				e.doc.SetHistoryEventDelay(time.Duration(v.(int)) * time.Millisecond)
				return nil
			}},
		{name: "tabindex", typ: OptionInt, def: 0},
		{name: "autofocus", typ: OptionBool, def: false},
		{name: "dragDrop", typ: OptionBool, def: true},
		{name: "cursorBlinkRate", typ: OptionInt, def: 530},
		{name: "cursorScrollMargin", typ: OptionInt, def: 0, min: minimum(0)},
		{name: "cursorHeight", typ: OptionFloat, def: 1.0, min: minimum(0)},
		{name: "singleCursorHeightPerLine", typ: OptionBool, def: true},
		{name: "resetSelectionOnContextMenu", typ: OptionBool, def: true},
		{name: "workTime", typ: OptionInt, def: 100},
		{name: "workDelay", typ: OptionInt, def: 100},
		{name: "flattenSpans", typ: OptionBool, def: true},
		{name: "addModeClass", typ: OptionBool, def: false},
		{name: "pollInterval", typ: OptionInt, def: 100},
		{name: "maxHighlightLength", typ: OptionInt, def: 10000},
		{name: "viewportMargin", typ: OptionInt, def: 10},
		{name: "spellcheck", typ: OptionBool, def: false},
		{name: "autocorrect", typ: OptionBool, def: false},
		{name: "autocapitalize", typ: OptionBool, def: false},
		{name: "placeholder", typ: OptionString, def: ""},
	}

	optionIndex = make(map[string]*optionDef, len(optionDefs))
	for i := range optionDefs {
		optionIndex[optionDefs[i].name] = &optionDefs[i]
	}
}

// OptionNames returns every option name, sorted.
func OptionNames() []string {
	names := make([]string, 0, len(optionDefs))
	for _, d := range optionDefs {
		names = append(names, d.name)
	}
	sort.Strings(names)
	return names
}

// IsOption reports whether name is a known option.
func IsOption(name string) bool {
	_, ok := optionIndex[name]
	return ok
}

// OptionDefault returns the default value of name.
func OptionDefault(name string) (any, bool) {
	d, ok := optionIndex[name]
	if !ok {
		return nil, false
	}
	return copyValue(d.def), true
}

// OptionTypeOf returns the value type of name.
func OptionTypeOf(name string) (OptionType, bool) {
	d, ok := optionIndex[name]
	if !ok {
		return 0, false
	}
	return d.typ, true
}

// NormalizeOption converts v to the canonical representation of name.
func NormalizeOption(name string, v any) (any, error) {
	d, ok := optionIndex[name]
	if !ok {
		return nil, &OptionError{Name: name, Suggestion: suggest(name, OptionNames()), Err: ErrUnknownOption}
	}
	return d.coerce(v)
}

func (d *optionDef) coerce(v any) (any, error) {
	out, err := coerce(d.typ, v)
	if err != nil {
		return nil, &OptionError{Name: d.name, Err: err}
	}
	if d.min != nil {
		switch n := out.(type) {
		case int:
			if float64(n) < *d.min {
				out = int(*d.min)
			}
		case float64:
			if n < *d.min {
				out = *d.min
			}
		}
	}
	if d.normalize != nil {
		if out, err = d.normalize(out); err != nil {
			return nil, &OptionError{Name: d.name, Err: err}
		}
	}
	return out, nil
}

func coerce(t OptionType, v any) (any, error) {
	switch t {
	case OptionBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case OptionInt:
		if f, ok := toFloat(v); ok && f == math.Trunc(f) {
			return int(f), nil
		}
	case OptionFloat:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	case OptionString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case OptionStrings:
		switch s := v.(type) {
		case []string:
			return append([]string{}, s...), nil
		case []any:
			out := make([]string, 0, len(s))
			for _, x := range s {
				str, ok := x.(string)
				if !ok {
					return nil, fmt.Errorf("%w: want %s, got element %T", ErrInvalidOption, t, x)
				}
				out = append(out, str)
			}
			return out, nil
		case nil:
			return []string{}, nil
		}
	case OptionAny:
		return v, nil
	}
	return nil, fmt.Errorf("%w: want %s, got %T", ErrInvalidOption, t, v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func copyValue(v any) any {
	if s, ok := v.([]string); ok {
		return append([]string{}, s...)
	}
	return v
}

func normalizeReadOnly(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		if x == ReadOnlyNoCursor {
			return x, nil
		}
		return x != "" && x != "false", nil
	case nil:
		return false, nil
	}
	return nil, fmt.Errorf("%w: want bool or %q, got %T", ErrInvalidOption, ReadOnlyNoCursor, v)
}

func normalizeDirection(v any) (any, error) {
	if v == "rtl" {
		return "rtl", nil
	}
	return "ltr", nil
}

func normalizeMode(v any) (any, error) {
	switch m := v.(type) {
	case nil:
		return "text/plain", nil
	case string:
		return m, nil
	case map[string]any:
		if _, ok := m["name"].(string); !ok {
			return nil, fmt.Errorf("%w: mode spec needs a name", ErrInvalidOption)
		}
		return m, nil
	case ModeSpec:
		return m, nil
	}
	return nil, fmt.Errorf("%w: want mode name or spec, got %T", ErrInvalidOption, v)
}

// ModeSpec is a mode name with mode-specific settings.
type ModeSpec struct {
	Name    string
	Options map[string]any
}

// ModeName extracts the mode name from a name or spec.
func ModeName(mode any) string {
	switch m := mode.(type) {
	case string:
		return m
	case ModeSpec:
		return m.Name
	case map[string]any:
		name, _ := m["name"].(string)
		return name
	}
	return ""
}
