package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/keymap"
	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/stroke"
)

// CommandFunc is an editor command. Returning ErrPass declines the key that
// triggered it so lookup continues.
type CommandFunc func(e *Editor) error

// ErrPass is returned by a command to decline handling.
var ErrPass = errors.New("pass")

// KeyMap is a key map whose callbacks are editor commands.
type KeyMap = keymap.Map[CommandFunc]

// KeyMapTable holds key maps by name.
type KeyMapTable = keymap.Table[CommandFunc]

// NewKeyMap creates an empty key map.
func NewKeyMap(name string, chain ...string) *KeyMap {
	return keymap.NewMap[CommandFunc](name, chain...)
}

// NewKeyMapTable creates a table holding the builtin maps.
func NewKeyMapTable(mac bool) *KeyMapTable {
	t := keymap.NewTable[CommandFunc]()
	keymap.RegisterDefaults(t, mac)
	return t
}

// DefaultPageLines is how many lines goPageUp and goPageDown move.
const DefaultPageLines = 20

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(l *logging.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = logging.OrNull(l).WithComponent("editor")
	}
}

// WithCommands shares a command table between editors.
func WithCommands(c *Commands) EditorOption {
	return func(e *Editor) {
		if c != nil {
			e.commands = c
		}
	}
}

// WithKeyMaps shares a key map table between editors.
func WithKeyMaps(t *KeyMapTable) EditorOption {
	return func(e *Editor) {
		if t != nil {
			e.keyMaps = t
		}
	}
}

// WithMac selects macOS key conventions for the builtin "default" map.
func WithMac(mac bool) EditorOption {
	return func(e *Editor) {
		e.mac = mac
	}
}

// WithPageLines sets how many lines a page motion moves.
func WithPageLines(n int) EditorOption {
	return func(e *Editor) {
		if n > 0 {
			e.pageLines = n
		}
	}
}

// Editor binds a document to options, commands, key maps and focus.
type Editor struct {
	event.Listeners

	doc      *Doc
	options  map[string]any
	commands *Commands
	keyMaps  *KeyMapTable
	extra    []*KeyMap
	logger   *logging.Logger
	mac      bool

	focused       bool
	overwrite     bool
	shift         bool
	suppressEdits bool
	pending       stroke.MultiStroke
	pageLines     int

	goals    []int
	goalSel  Selection
	dialog   *Dialog
	notice   *Dialog
	search   *searchState
	keyState map[string]any
	now      func() time.Time
}

// NewEditor creates an editor over doc, or over a new document built from
// values["value"] and values["mode"] when doc is nil. Unknown names in
// values are ignored; invalid values are an error.
func NewEditor(doc *Doc, values map[string]any, opts ...EditorOption) (*Editor, error) {
	e := &Editor{
		options:   make(map[string]any, len(optionDefs)),
		logger:    logging.NullLogger,
		pageLines: DefaultPageLines,
		keyState:  make(map[string]any),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.commands == nil {
		e.commands = NewCommands()
	}
	if e.keyMaps == nil {
		e.keyMaps = NewKeyMapTable(e.mac)
	}
	for _, d := range optionDefs {
		if d.get == nil {
			e.options[d.name] = copyValue(d.def)
		}
	}

	skip := map[string]bool{}
	if doc == nil {
		text, _ := values["value"].(string)
		sep, _ := values["lineSeparator"].(string)
		doc = NewDoc(text, DocOptions{LineSeparator: sep})
		skip["value"] = true
		skip["lineSeparator"] = true
	} else {
		if doc.editor != nil {
			return nil, ErrDocAttached
		}
		skip["value"] = true
	}

	// Every value is normalized before any is applied, so a rejected option
	// leaves an existing document untouched.
	names := make([]string, 0, len(values))
	normalized := make(map[string]any, len(values))
	var errs []error
	for _, name := range OptionNames() {
		v, ok := values[name]
		if !ok || skip[name] {
			continue
		}
		nv, err := prepareOption(name, v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, name)
		normalized[name] = nv
	}
	for name := range values {
		if !IsOption(name) {
			e.logger.Debug("ignoring unknown option %q", name)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	e.doc = doc
	doc.editor = e
	for _, name := range names {
		if err := e.applyOption(name, normalized[name], false); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		doc.editor = nil
		return nil, errors.Join(errs...)
	}

	if v, _ := e.options["autofocus"].(bool); v {
		e.Focus()
	}
	return e, nil
}

// Doc returns the current document.
func (e *Editor) Doc() *Doc {
	return e.doc
}

// SwapDoc attaches doc and returns the previous document.
func (e *Editor) SwapDoc(doc *Doc) (*Doc, error) {
	if doc == nil {
		return nil, fmt.Errorf("swapping document: %w", ErrStaleHandle)
	}
	if doc.editor != nil && doc.editor != e {
		return nil, ErrDocAttached
	}
	old := e.doc
	if old == doc {
		return old, nil
	}
	old.editor = nil
	e.doc = doc
	doc.editor = e
	e.pending = nil
	e.goals = nil
	e.search = nil
	if depth, ok := e.options["undoDepth"].(int); ok {
		doc.SetUndoDepth(depth)
	}
	e.Emit(EventSwapDoc, e, old)
	return old, nil
}

// Commands returns the command table.
func (e *Editor) Commands() *Commands {
	return e.commands
}

// KeyMaps returns the key map table.
func (e *Editor) KeyMaps() *KeyMapTable {
	return e.keyMaps
}

// Logger returns the editor's logger.
func (e *Editor) Logger() *logging.Logger {
	return e.logger
}

// Option returns the current value of name. Options backed by the document
// read from it; mode reads back as its name only.
func (e *Editor) Option(name string) (any, bool) {
	d, ok := optionIndex[name]
	if !ok {
		return nil, false
	}
	if d.get != nil {
		return d.get(e), true
	}
	return copyValue(e.options[name]), true
}

// OptionEntity returns the full value behind an option whose Option read
// is reduced, such as the mode spec of the current document.
func (e *Editor) OptionEntity(name string) (any, bool) {
	if name == "mode" {
		return copyValue(e.doc.Mode()), true
	}
	return nil, false
}

// SetOption normalises v and applies it, firing EventOptionChange.
func (e *Editor) SetOption(name string, v any) error {
	return e.setOption(name, v, true)
}

func (e *Editor) setOption(name string, v any, notify bool) error {
	nv, err := prepareOption(name, v)
	if err != nil {
		return err
	}
	return e.applyOption(name, nv, notify)
}

// prepareOption converts v into the value stored for name without touching
// any editor.
func prepareOption(name string, v any) (any, error) {
	if !IsOption(name) {
		return nil, &OptionError{Name: name, Suggestion: suggest(name, OptionNames()), Err: ErrUnknownOption}
	}
	if name == "extraKeys" {
		km, err := toKeyMap("extraKeys", v)
		if err != nil {
			return nil, &OptionError{Name: name, Err: err}
		}
		v = km
	}
	return NormalizeOption(name, v)
}

// applyOption stores a value returned by prepareOption.
func (e *Editor) applyOption(name string, nv any, notify bool) error {
	d := optionIndex[name]
	if d.set != nil {
		if err := d.set(e, nv); err != nil {
			return &OptionError{Name: name, Err: err}
		}
	} else {
		e.options[name] = nv
	}
	if name == "keyMap" {
		e.pending = nil
	}
	if notify {
		e.Emit(EventOptionChange, e, name)
	}
	return nil
}

// toKeyMap accepts a *KeyMap, a map of key descriptions to command names,
// or nil.
func toKeyMap(name string, v any) (*KeyMap, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case *KeyMap:
		return m, nil
	case map[string]string:
		km := NewKeyMap(name)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := km.Bind(k, m[k]); err != nil {
				return nil, err
			}
		}
		return km, nil
	case map[string]any:
		km := NewKeyMap(name)
		for k, x := range m {
			var err error
			switch b := x.(type) {
			case string:
				err = km.Bind(k, b)
			case bool:
				if b {
					err = fmt.Errorf("%w: binding %q must be a command or false", ErrInvalidOption, k)
				} else {
					err = km.Set(k, keymap.DisabledBinding[CommandFunc]())
				}
			case CommandFunc:
				err = km.BindFunc(k, b)
			case func(*Editor) error:
				err = km.BindFunc(k, b)
			default:
				err = fmt.Errorf("%w: binding %q has type %T", ErrInvalidOption, k, x)
			}
			if err != nil {
				return nil, err
			}
		}
		return km, nil
	}
	return nil, fmt.Errorf("%w: want key map, got %T", ErrInvalidOption, v)
}

// IsReadOnly reports whether the readOnly option is set.
func (e *Editor) IsReadOnly() bool {
	v := e.options["readOnly"]
	return v == true || v == ReadOnlyNoCursor
}

func (e *Editor) intOption(name string) int {
	n, _ := e.options[name].(int)
	return n
}

func (e *Editor) boolOption(name string) bool {
	b, _ := e.options[name].(bool)
	return b
}

// Focus gives the editor focus. A "nocursor" read-only editor cannot be
// focused.
func (e *Editor) Focus() {
	if e.focused || e.options["readOnly"] == ReadOnlyNoCursor {
		return
	}
	e.focused = true
	e.Emit(EventFocus, e)
}

// Blur removes focus and closes dialogs that close on blur.
func (e *Editor) Blur() {
	if !e.focused {
		return
	}
	e.focused = false
	e.pending = nil
	if d := e.dialog; d != nil && !d.opts.KeepOpenOnBlur {
		d.Close()
	}
	e.Emit(EventBlur, e)
}

// HasFocus reports whether the editor has focus.
func (e *Editor) HasFocus() bool {
	return e.focused
}

// Operation runs fn as one operation on the current document.
func (e *Editor) Operation(fn func()) {
	e.doc.Batch(fn)
}

// docOpEnded is called by the document when an operation finishes.
func (e *Editor) docOpEnded(d *Doc, changes []*Change, selChanged bool) {
	if d != e.doc {
		return
	}
	if !selChanged || !e.goalSel.equal(d.sel) {
		if len(changes) > 0 || selChanged {
			e.goals = nil
		}
	}
	if len(changes) > 0 {
		e.Emit(EventChanges, e, changes)
	}
	if selChanged || len(changes) > 0 {
		e.Emit(EventCursorActivity, e)
	}
}

// ExecCommand runs the named command.
func (e *Editor) ExecCommand(name string) error {
	fn, ok := e.commands.Get(name)
	if !ok {
		return &CommandError{Name: name, Suggestion: suggest(name, e.commands.Names())}
	}
	return fn(e)
}

// Overwrite reports whether typed text replaces the following character.
func (e *Editor) Overwrite() bool {
	return e.overwrite
}

// ToggleOverwrite flips overwrite mode, or sets it when v is given.
func (e *Editor) ToggleOverwrite(v ...bool) {
	if len(v) > 0 {
		e.overwrite = v[0]
		return
	}
	e.overwrite = !e.overwrite
}

// State returns per-editor storage for commands and extensions.
func (e *Editor) State(key string) (any, bool) {
	v, ok := e.keyState[key]
	return v, ok
}

// SetState stores a value for commands and extensions.
func (e *Editor) SetState(key string, v any) {
	if v == nil {
		delete(e.keyState, key)
		return
	}
	e.keyState[key] = v
}

// extending reports whether motions extend the selection.
func (e *Editor) extending() bool {
	return e.shift || e.doc.extend
}

// tabSize returns the normalised tabSize option.
func (e *Editor) tabSize() int {
	return max(e.intOption("tabSize"), 1)
}

// CursorCoords returns the display column of the primary head: the line
// number and the column counted with the tab size.
func (e *Editor) CursorCoords() (line, col int) {
	head := e.doc.Cursor("head")
	text, _ := e.doc.Line(head.Line)
	return head.Line, pos.CountColumn(text, head.Ch, e.tabSize())
}
