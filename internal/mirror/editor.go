package mirror

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/options"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/registry"
	"github.com/dshills/mirror/internal/stroke"
)

// IndentHow selects how a line is re-indented.
type IndentHow = engine.IndentHow

// Editor wraps an engine editor together with the options it was created
// from. After creation the options read and write the running editor.
type Editor struct {
	id      string
	session *Session
	ed      *engine.Editor
	opts    *options.EditorOptions
	mux     *event.Mux
	dialogs *registry.Registry[*engine.Dialog, *Dialog]
	logger  *logging.Logger
}

// NewEditor creates an editor over a new document built from the "value"
// and "mode" options, then switches opts to the running editor.
func NewEditor(s *Session, opts *options.EditorOptions) (*Editor, error) {
	return NewEditorWithDoc(s, nil, opts)
}

// NewEditorWithDoc creates an editor showing doc. Document-backed options
// left at their defaults do not override the document's own settings. A
// nil doc behaves like NewEditor.
func NewEditorWithDoc(s *Session, doc *Document, opts *options.EditorOptions) (*Editor, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if opts == nil {
		return nil, ErrNilOptions
	}
	if opts.Mode() == options.ModeLive {
		return nil, options.ErrAlreadyActive
	}
	values := opts.Values()
	var native *engine.Doc
	if doc != nil {
		if doc.session != s {
			return nil, ErrForeignDocument
		}
		native = doc.doc
		dropDocDefaults(values)
	}

	id := uuid.NewString()
	logger := s.logger.WithComponent("editor").WithField("editor", id)
	ed, err := engine.NewEditor(native, values,
		engine.WithLogger(logger),
		engine.WithCommands(s.commands),
		engine.WithKeyMaps(s.keyMaps),
		engine.WithMac(s.mac),
	)
	if err != nil {
		return nil, fmt.Errorf("creating editor: %w", err)
	}
	if err := opts.Activate(ed); err != nil {
		return nil, err
	}

	e := &Editor{
		id:      id,
		session: s,
		ed:      ed,
		opts:    opts,
		mux:     s.newMux(ed),
		dialogs: registry.New[*engine.Dialog, *Dialog](),
		logger:  logger,
	}
	s.editors.Put(ed, e)
	s.wrapDoc(ed.Doc())
	logger.Debug("editor created")
	return e, nil
}

// docOptions are the options stored on the document rather than the editor.
var docOptions = []string{"mode", "lineSeparator", "direction"}

func dropDocDefaults(values map[string]any) {
	for _, name := range docOptions {
		v, ok := values[name]
		if !ok {
			continue
		}
		def, _ := engine.OptionDefault(name)
		if name == "mode" {
			if spec, isSpec := v.(engine.ModeSpec); isSpec && len(spec.Options) > 0 {
				continue
			}
			v = engine.ModeName(v)
		}
		if s, isString := v.(string); v == nil || (isString && s == def) {
			delete(values, name)
		}
	}
}

// Close forgets the editor and removes its event handlers. The document
// stays in the session.
func (e *Editor) Close() {
	if _, ok := e.session.editors.Remove(e.ed); !ok {
		return
	}
	for _, d := range e.ed.Dialogs() {
		d.Close()
	}
	e.mux.Close()
	e.logger.Debug("editor closed")
}

// ID returns the editor's unique id.
func (e *Editor) ID() string { return e.id }

// Native returns the wrapped engine editor.
func (e *Editor) Native() *engine.Editor { return e.ed }

// Session returns the owning session.
func (e *Editor) Session() *Session { return e.session }

// Options returns the editor options, now backed by the running editor.
func (e *Editor) Options() *options.EditorOptions { return e.opts }

// Doc returns the document the editor shows.
func (e *Editor) Doc() *Document { return e.session.wrapDoc(e.ed.Doc()) }

// SwapDoc shows doc and returns the previous document. It returns nil when
// doc is nil, from another session, or shown by another editor.
func (e *Editor) SwapDoc(doc *Document) *Document {
	if doc == nil || doc.session != e.session {
		e.logger.Debug("swapDoc: %v", ErrForeignDocument)
		return nil
	}
	old, err := e.ed.SwapDoc(doc.doc)
	if err != nil {
		e.logger.Debug("swapDoc: %v", err)
		return nil
	}
	return e.session.wrapDoc(old)
}

// Value returns the text of the current document.
func (e *Editor) Value() string { return e.ed.Doc().Value() }

// SetValue replaces the text of the current document.
func (e *Editor) SetValue(text string) { e.Doc().SetValue(text) }

// Focus gives the editor focus.
func (e *Editor) Focus() { e.ed.Focus() }

// Blur removes focus.
func (e *Editor) Blur() { e.ed.Blur() }

// HasFocus reports whether the editor has focus.
func (e *Editor) HasFocus() bool { return e.ed.HasFocus() }

// IsReadOnly reports whether the readOnly option is set.
func (e *Editor) IsReadOnly() bool { return e.ed.IsReadOnly() }

// ExecCommand runs the named command. Unknown names fail with an
// *engine.CommandError carrying a suggestion.
func (e *Editor) ExecCommand(name string) error {
	return e.ed.ExecCommand(name)
}

// HandleKeys feeds a space-separated key description such as
// "Ctrl-K Ctrl-C" to the editor. It reports whether the last stroke was
// consumed; a malformed description is logged and ignored.
func (e *Editor) HandleKeys(keys string) bool {
	ok, err := e.ed.HandleKeys(keys)
	if err != nil {
		e.logger.Debug("handleKeys %q: %v", keys, err)
		return false
	}
	return ok
}

// HandleKey feeds one stroke to the editor.
func (e *Editor) HandleKey(s stroke.Stroke) bool { return e.ed.HandleKey(s) }

// TypeText inserts text as if typed, replacing the selection.
func (e *Editor) TypeText(text string) {
	if err := e.ed.TypeText(text); err != nil {
		e.logger.Debug("typeText: %v", err)
	}
}

// Operation runs fn as one operation: change and cursor events are
// delivered once it returns.
func (e *Editor) Operation(fn func()) {
	if fn == nil {
		return
	}
	e.ed.Operation(fn)
}

// IndentLine re-indents line n.
func (e *Editor) IndentLine(n int, how IndentHow) {
	if err := e.ed.IndentLine(n, how); err != nil {
		e.logger.Debug("indentLine: %v", err)
	}
}

// IndentSelection re-indents every line touched by the selection.
func (e *Editor) IndentSelection(how IndentHow) {
	if err := e.ed.IndentSelection(how); err != nil {
		e.logger.Debug("indentSelection: %v", err)
	}
}

// SearchCursor starts a search in the current document.
func (e *Editor) SearchCursor(query string, start pos.Position, opts SearchCursorOptions) *SearchCursor {
	return e.Doc().SearchCursor(query, start, opts)
}

// AddLineWidget attaches content to line h of the current document.
func (e *Editor) AddLineWidget(h *LineHandle, content any, opts LineWidgetOptions) *LineWidget {
	return e.Doc().AddLineWidget(h, content, opts)
}

// AddKeyMap layers km over the keyMap and extraKeys options. Later maps
// take precedence unless bottom is set.
func (e *Editor) AddKeyMap(km *KeyMap, bottom bool) {
	if km == nil {
		return
	}
	e.ed.AddKeyMap(km.m, bottom)
}

// RemoveKeyMap removes a map added with AddKeyMap.
func (e *Editor) RemoveKeyMap(km *KeyMap) bool {
	if km == nil {
		return false
	}
	return e.ed.RemoveKeyMap(km.m, "")
}

// SetExtraKeys installs km as the extraKeys option. nil removes it.
func (e *Editor) SetExtraKeys(km *KeyMap) {
	if km == nil {
		e.opts.SetExtraKeys(nil)
		return
	}
	e.opts.SetExtraKeys(km.m)
}

// CursorCoords returns the line and display column of the cursor.
func (e *Editor) CursorCoords() (line, col int) { return e.ed.CursorCoords() }

// OnChange subscribes h to every change of the current document.
func (e *Editor) OnChange(h func(*Editor, *Change)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventChange, func(a []any) { h(e, argAt[*Change](a, 1)) })
}

// OnChanges subscribes h to the batch of changes made by each operation.
func (e *Editor) OnChanges(h func(*Editor, []*Change)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventChanges, func(a []any) { h(e, argAt[[]*Change](a, 1)) })
}

// OnBeforeChange subscribes h to changes about to be applied.
func (e *Editor) OnBeforeChange(h func(*Editor, *BeforeChange)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventBeforeChange, func(a []any) { h(e, argAt[*BeforeChange](a, 1)) })
}

// OnBeforeSelectionChange subscribes h to selection updates about to be
// applied.
func (e *Editor) OnBeforeSelectionChange(h func(*Editor, *SelectionUpdate)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventBeforeSelectionChange, func(a []any) { h(e, argAt[*SelectionUpdate](a, 1)) })
}

// OnCursorActivity subscribes h to operations that moved the cursor or
// changed the text.
func (e *Editor) OnCursorActivity(h func(*Editor)) (*Registration, error) {
	return e.onEditor(engine.EventCursorActivity, h)
}

// OnFocus subscribes h to the editor gaining focus.
func (e *Editor) OnFocus(h func(*Editor)) (*Registration, error) {
	return e.onEditor(engine.EventFocus, h)
}

// OnBlur subscribes h to the editor losing focus.
func (e *Editor) OnBlur(h func(*Editor)) (*Registration, error) {
	return e.onEditor(engine.EventBlur, h)
}

// OnKeyHandled subscribes h to key sequences that ran a binding.
func (e *Editor) OnKeyHandled(h func(e *Editor, keys string)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventKeyHandled, func(a []any) { h(e, argAt[string](a, 1)) })
}

// OnInputRead subscribes h to typed text.
func (e *Editor) OnInputRead(h func(*Editor, *Change)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventInputRead, func(a []any) { h(e, argAt[*Change](a, 1)) })
}

// OnOptionChange subscribes h to option writes.
func (e *Editor) OnOptionChange(h func(e *Editor, name string)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventOptionChange, func(a []any) { h(e, argAt[string](a, 1)) })
}

// OnSwapDoc subscribes h to document swaps. h receives the previous
// document.
func (e *Editor) OnSwapDoc(h func(e *Editor, old *Document)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, engine.EventSwapDoc, func(a []any) { h(e, argAt[*Document](a, 1)) })
}

// Subscribers returns the number of handlers subscribed to t.
func (e *Editor) Subscribers(t event.Type) int { return e.mux.Count(t) }

func (e *Editor) onEditor(t event.Type, h func(*Editor)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(e.mux, t, func([]any) { h(e) })
}
