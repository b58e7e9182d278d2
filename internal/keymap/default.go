package keymap

// Names of the builtin maps.
const (
	MapBasic      = "basic"
	MapPCDefault  = "pcDefault"
	MapMacDefault = "macDefault"
	MapEmacsy     = "emacsy"
	MapDefault    = "default"
)

var basicBindings = map[string]string{
	"Left":            "goCharLeft",
	"Right":           "goCharRight",
	"Up":              "goLineUp",
	"Down":            "goLineDown",
	"End":             "goLineEnd",
	"Home":            "goLineStartSmart",
	"PageUp":          "goPageUp",
	"PageDown":        "goPageDown",
	"Delete":          "delCharAfter",
	"Backspace":       "delCharBefore",
	"Shift-Backspace": "delCharBefore",
	"Tab":             "defaultTab",
	"Shift-Tab":       "indentAuto",
	"Enter":           "newlineAndIndent",
	"Insert":          "toggleOverwrite",
	"Esc":             "singleSelection",
}

var pcBindings = map[string]string{
	"Ctrl-A":           "selectAll",
	"Ctrl-D":           "deleteLine",
	"Ctrl-Z":           "undo",
	"Shift-Ctrl-Z":     "redo",
	"Ctrl-Y":           "redo",
	"Ctrl-Home":        "goDocStart",
	"Ctrl-End":         "goDocEnd",
	"Ctrl-Up":          "goLineUp",
	"Ctrl-Down":        "goLineDown",
	"Ctrl-Left":        "goWordLeft",
	"Ctrl-Right":       "goWordRight",
	"Alt-Left":         "goLineStart",
	"Alt-Right":        "goLineEnd",
	"Ctrl-Backspace":   "delWordBefore",
	"Ctrl-Delete":      "delWordAfter",
	"Ctrl-[":           "indentLess",
	"Ctrl-]":           "indentMore",
	"Ctrl-U":           "undoSelection",
	"Shift-Ctrl-U":     "redoSelection",
	"Shift-Ctrl-K":     "deleteLine",
	"Ctrl-Enter":       "openLine",
	"Shift-Ctrl-Enter": "newlineAndIndent",
}

var macBindings = map[string]string{
	"Cmd-A":              "selectAll",
	"Cmd-D":              "deleteLine",
	"Cmd-Z":              "undo",
	"Shift-Cmd-Z":        "redo",
	"Cmd-Y":              "redo",
	"Cmd-Home":           "goDocStart",
	"Cmd-Up":             "goDocStart",
	"Cmd-End":            "goDocEnd",
	"Cmd-Down":           "goDocEnd",
	"Alt-Left":           "goWordLeft",
	"Alt-Right":          "goWordRight",
	"Cmd-Left":           "goLineStart",
	"Cmd-Right":          "goLineEnd",
	"Alt-Backspace":      "delWordBefore",
	"Ctrl-Alt-Backspace": "delWordAfter",
	"Alt-Delete":         "delWordAfter",
	"Cmd-Backspace":      "delLineLeft",
	"Cmd-Delete":         "delLineRight",
	"Cmd-[":              "indentLess",
	"Cmd-]":              "indentMore",
	"Cmd-U":              "undoSelection",
	"Shift-Cmd-U":        "redoSelection",
}

var emacsyBindings = map[string]string{
	"Ctrl-F":        "goCharRight",
	"Ctrl-B":        "goCharLeft",
	"Ctrl-P":        "goLineUp",
	"Ctrl-N":        "goLineDown",
	"Alt-F":         "goWordRight",
	"Alt-B":         "goWordLeft",
	"Ctrl-A":        "goLineStart",
	"Ctrl-E":        "goLineEnd",
	"Ctrl-V":        "goPageDown",
	"Shift-Ctrl-V":  "goPageUp",
	"Ctrl-D":        "delCharAfter",
	"Ctrl-H":        "delCharBefore",
	"Alt-D":         "delWordAfter",
	"Alt-Backspace": "delWordBefore",
	"Ctrl-K":        "killLine",
	"Ctrl-T":        "transposeChars",
	"Ctrl-O":        "openLine",
}

// DefaultMaps builds fresh copies of the builtin maps. "default" is pcDefault,
// or macDefault when mac is true.
func DefaultMaps[F any](mac bool) []*Map[F] {
	basic := fromBindings[F](MapBasic, basicBindings)
	pc := fromBindings[F](MapPCDefault, pcBindings, MapBasic)
	macMap := fromBindings[F](MapMacDefault, macBindings, MapBasic, MapEmacsy)
	emacsy := fromBindings[F](MapEmacsy, emacsyBindings)

	def := pc.Clone(MapDefault)
	if mac {
		def = macMap.Clone(MapDefault)
	}
	return []*Map[F]{basic, pc, macMap, emacsy, def}
}

// RegisterDefaults installs the builtin maps into t.
func RegisterDefaults[F any](t *Table[F], mac bool) {
	for _, m := range DefaultMaps[F](mac) {
		// Names are non-empty and maps non-nil, so Register cannot fail.
		_ = t.Register(m)
	}
}

func fromBindings[F any](name string, bindings map[string]string, chain ...string) *Map[F] {
	m := NewMap[F](name, chain...)
	for keys, cmd := range bindings {
		if err := m.Bind(keys, cmd); err != nil {
			panic("keymap: invalid builtin binding " + keys + ": " + err.Error())
		}
	}
	return m
}
