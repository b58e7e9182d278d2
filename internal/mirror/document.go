package mirror

import (
	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/registry"
)

// DocumentOptions configures a new document.
type DocumentOptions = engine.DocOptions

// CursorOptions configures a selection update. The zero value is the
// default: no origin, no scrolling, bias picked by movement.
type CursorOptions = engine.CursorOptions

// Document wraps an engine document.
type Document struct {
	session *Session
	doc     *engine.Doc
	mux     *event.Mux
	logger  *logging.Logger

	lines   *registry.Registry[uint64, *LineHandle]
	marks   *registry.Registry[uint64, *TextMarker]
	widgets *registry.Registry[uint64, *LineWidget]
}

// NewDocument creates a document holding text.
func NewDocument(s *Session, text string, opts DocumentOptions) (*Document, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.wrapDoc(engine.NewDoc(text, opts)), nil
}

func newDocument(s *Session, d *engine.Doc) *Document {
	return &Document{
		session: s,
		doc:     d,
		mux:     s.newMux(d),
		logger:  s.logger.WithComponent("document").WithField("doc", d.ID()),
		lines:   registry.New[uint64, *LineHandle](),
		marks:   registry.New[uint64, *TextMarker](),
		widgets: registry.New[uint64, *LineWidget](),
	}
}

func (d *Document) close() {
	d.mux.Close()
	for _, m := range d.marks.Values() {
		m.mux.Close()
	}
	for _, l := range d.lines.Values() {
		l.release()
	}
	for _, w := range d.widgets.Values() {
		w.mux.Close()
	}
	d.marks.Clear()
	d.lines.Clear()
	d.widgets.Clear()
}

// ID returns the document id.
func (d *Document) ID() string { return d.doc.ID() }

// Native returns the wrapped engine document.
func (d *Document) Native() *engine.Doc { return d.doc }

// Session returns the owning session.
func (d *Document) Session() *Session { return d.session }

// Editor returns the editor showing the document, or nil.
func (d *Document) Editor() *Editor {
	e := d.doc.Editor()
	if e == nil {
		return nil
	}
	ed, _ := d.session.editors.Get(e)
	return ed
}

// Copy returns a new document with the same text, mode and selection.
// History is copied when copyHistory is set.
func (d *Document) Copy(copyHistory bool) *Document {
	return d.session.wrapDoc(d.doc.Copy(copyHistory))
}

// Value returns the whole text.
func (d *Document) Value() string { return d.doc.Value() }

// SetValue replaces the whole text.
func (d *Document) SetValue(text string) {
	d.absorb("setValue", d.doc.SetValue(text))
}

// Range returns the text between from and to.
func (d *Document) Range(from, to pos.Position) string { return d.doc.Range(from, to) }

// ReplaceRange replaces the text between from and to. An empty to inserts
// at from.
func (d *Document) ReplaceRange(text string, from, to pos.Position) {
	d.ReplaceRangeOrigin(text, from, to, "")
}

// ReplaceRangeOrigin is ReplaceRange with an origin reported to change
// listeners and used for history merging.
func (d *Document) ReplaceRangeOrigin(text string, from, to pos.Position, origin string) {
	d.absorb("replaceRange", d.doc.ReplaceRange(text, from, to, origin))
}

// Insert inserts text at p.
func (d *Document) Insert(text string, p pos.Position) {
	d.absorb("insert", d.doc.Insert(text, p, ""))
}

// Line returns the text of line n, or "" if n is out of range.
func (d *Document) Line(n int) string {
	s, err := d.doc.Line(n)
	d.absorb("line", err)
	return s
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return d.doc.LineCount() }

// FirstLine returns the number of the first line.
func (d *Document) FirstLine() int { return d.doc.FirstLine() }

// LastLine returns the number of the last line.
func (d *Document) LastLine() int { return d.doc.LastLine() }

// LineHandle returns the handle of line n, or nil if n is out of range.
// Repeated calls for the same line return the same handle.
func (d *Document) LineHandle(n int) *LineHandle {
	l, err := d.doc.LineHandle(n)
	if err != nil {
		d.absorb("lineHandle", err)
		return nil
	}
	return d.wrapLine(l)
}

// LineNumber returns the current number of h, or -1 if it was deleted or
// belongs to another document.
func (d *Document) LineNumber(h *LineHandle) int {
	if h == nil {
		return -1
	}
	n, err := d.doc.LineNumber(h.line)
	if err != nil {
		d.absorb("lineNumber", err)
		return -1
	}
	return n
}

// EachLine calls fn for the lines from (inclusive) to to (exclusive) until
// fn returns false.
func (d *Document) EachLine(from, to int, fn func(*LineHandle) bool) {
	if fn == nil {
		return
	}
	d.doc.EachLine(from, to, func(l *engine.Line) bool {
		return fn(d.wrapLine(l))
	})
}

// ClipPos returns p clipped to the document.
func (d *Document) ClipPos(p pos.Position) pos.Position { return d.doc.ClipPos(p) }

// PosFromIndex converts a character offset into a position.
func (d *Document) PosFromIndex(i int) pos.Position { return d.doc.PosFromIndex(i) }

// IndexFromPos converts a position into a character offset.
func (d *Document) IndexFromPos(p pos.Position) int { return d.doc.IndexFromPos(p) }

// WordAt returns the range of the word around p.
func (d *Document) WordAt(p pos.Position) pos.Range { return d.doc.GetWordAt(p) }

// Mode returns the document mode.
func (d *Document) Mode() engine.ModeSpec {
	switch m := d.doc.Mode().(type) {
	case engine.ModeSpec:
		return m
	case map[string]any:
		spec := engine.ModeSpec{Name: engine.ModeName(m)}
		for k, v := range m {
			if k == "name" {
				continue
			}
			if spec.Options == nil {
				spec.Options = map[string]any{}
			}
			spec.Options[k] = v
		}
		return spec
	default:
		return engine.ModeSpec{Name: engine.ModeName(m)}
	}
}

// SetMode records a new mode.
func (d *Document) SetMode(mode engine.ModeSpec) { d.doc.SetMode(mode) }

// LineSeparator returns the configured separator, or "" for the default.
func (d *Document) LineSeparator() string { return d.doc.LineSeparator() }

// Direction returns "ltr" or "rtl".
func (d *Document) Direction() string { return d.doc.Direction() }

// Cursor returns one end of the primary selection: "head" (or ""),
// "anchor", "from", "to", "start" or "end".
func (d *Document) Cursor(which string) pos.Position { return d.doc.Cursor(which) }

// Selections returns every selected range.
func (d *Document) Selections() []pos.Range { return d.doc.Selections() }

// Selection returns the primary selection as an Anchor.
func (d *Document) Selection() pos.Anchor {
	return pos.AnchorOf(d.doc.Selection().PrimaryRange())
}

// SomethingSelected reports whether any range is non-empty.
func (d *Document) SomethingSelected() bool { return d.doc.SomethingSelected() }

// SetCursor collapses the selection to p.
func (d *Document) SetCursor(p pos.Position, opts CursorOptions) { d.doc.SetCursor(p, opts) }

// SetSelection selects from anchor to head.
func (d *Document) SetSelection(anchor, head pos.Position, opts CursorOptions) {
	d.doc.SetSelection(anchor, head, opts)
}

// SetSelections replaces the selection. An empty list is ignored.
func (d *Document) SetSelections(ranges []pos.Range, primary int, opts CursorOptions) {
	d.doc.SetSelections(ranges, primary, opts)
}

// AddSelection adds a range and makes it primary.
func (d *Document) AddSelection(anchor, head pos.Position, opts CursorOptions) {
	d.doc.AddSelection(anchor, head, opts)
}

// ExtendSelection moves the head of the primary range to head, keeping the
// anchor.
func (d *Document) ExtendSelection(head pos.Position, opts CursorOptions) {
	d.doc.ExtendSelection(head, nil, opts)
}

// SelectedText returns the selected text, ranges joined with sep.
func (d *Document) SelectedText(sep string) string { return d.doc.SelectedText(sep) }

// SelectedTexts returns the text of every range.
func (d *Document) SelectedTexts() []string { return d.doc.SelectedTexts() }

// ReplaceSelection replaces every selected range with text. collapse is
// "around", "start" or "" for the end.
func (d *Document) ReplaceSelection(text, collapse string) {
	d.absorb("replaceSelection", d.doc.ReplaceSelection(text, collapse))
}

// ReplaceSelections replaces each range with the matching entry of texts.
func (d *Document) ReplaceSelections(texts []string, collapse string) {
	d.absorb("replaceSelections", d.doc.ReplaceSelections(texts, collapse, ""))
}

// Undo reverts the last change event. It reports whether one was undone.
func (d *Document) Undo() bool {
	err := d.doc.Undo()
	d.absorb("undo", err)
	return err == nil
}

// Redo re-applies the last undone event.
func (d *Document) Redo() bool {
	err := d.doc.Redo()
	d.absorb("redo", err)
	return err == nil
}

// HistorySize returns the number of undo and redo events.
func (d *Document) HistorySize() (undo, redo int) { return d.doc.HistorySize() }

// ClearHistory forgets every undo and redo event.
func (d *Document) ClearHistory() { d.doc.ClearHistory() }

// ChangeGeneration returns a number that changes with every edit. With
// closeEvent set, the next edit starts a new undo event.
func (d *Document) ChangeGeneration(closeEvent bool) int { return d.doc.ChangeGeneration(closeEvent) }

// MarkClean marks the current state as clean.
func (d *Document) MarkClean() { d.doc.MarkClean() }

// IsClean reports whether the document is unchanged since MarkClean, or
// since generation gen when gen is not 0.
func (d *Document) IsClean(gen int) bool { return d.doc.IsClean(gen) }

// Batch runs fn as one operation: change events are delivered when it
// returns.
func (d *Document) Batch(fn func()) {
	if fn == nil {
		return
	}
	d.doc.Batch(fn)
}

// AddLineClass adds class to where ("text", "background", "gutter" or
// "wrap") of line h.
func (d *Document) AddLineClass(h *LineHandle, where, class string) {
	if h == nil {
		return
	}
	d.absorb("addLineClass", d.doc.AddLineClass(h.line, where, class))
}

// RemoveLineClass removes class from where of line h. An empty class
// removes every class.
func (d *Document) RemoveLineClass(h *LineHandle, where, class string) {
	if h == nil {
		return
	}
	d.absorb("removeLineClass", d.doc.RemoveLineClass(h.line, where, class))
}

// OnChange subscribes h to every change.
func (d *Document) OnChange(h func(*Document, *Change)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(d.mux, engine.EventChange, func(a []any) {
		h(argAt[*Document](a, 0), argAt[*Change](a, 1))
	})
}

// OnBeforeChange subscribes h to changes about to be applied. h may cancel
// or rewrite the change.
func (d *Document) OnBeforeChange(h func(*Document, *BeforeChange)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(d.mux, engine.EventBeforeChange, func(a []any) {
		h(argAt[*Document](a, 0), argAt[*BeforeChange](a, 1))
	})
}

// OnCursorActivity subscribes h to operations that moved the selection or
// changed the text.
func (d *Document) OnCursorActivity(h func(*Document)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(d.mux, engine.EventCursorActivity, func(a []any) {
		h(argAt[*Document](a, 0))
	})
}

// OnBeforeSelectionChange subscribes h to selection updates about to be
// applied. h may rewrite the ranges.
func (d *Document) OnBeforeSelectionChange(h func(*Document, *SelectionUpdate)) (*Registration, error) {
	if h == nil {
		return nil, ErrNilCallback
	}
	return on(d.mux, engine.EventBeforeSelectionChange, func(a []any) {
		h(argAt[*Document](a, 0), argAt[*SelectionUpdate](a, 1))
	})
}

// Subscribers returns the number of handlers subscribed to t.
func (d *Document) Subscribers(t event.Type) int { return d.mux.Count(t) }

func (d *Document) absorb(op string, err error) {
	if err != nil {
		d.logger.Debug("%s: %v", op, err)
	}
}
