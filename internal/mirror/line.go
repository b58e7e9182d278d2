package mirror

import (
	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/event"
)

// LineHandle tracks one line across edits. It goes stale when the line is
// deleted; Number then returns -1.
type LineHandle struct {
	doc     *Document
	line    *engine.Line
	mux     *event.Mux
	watchID event.ListenerID
}

// wrapLine returns the cached handle of l. The handle drops itself from the
// cache when the line is deleted.
func (d *Document) wrapLine(l *engine.Line) *LineHandle {
	if l == nil {
		return nil
	}
	return d.lines.GetOrCreate(l.ID(), func() *LineHandle {
		h := &LineHandle{doc: d, line: l, mux: d.session.newMux(l)}
		h.watchID = l.On(engine.EventDelete, func(...any) {
			d.lines.Remove(l.ID())
			d.pruneWidgets()
		})
		return h
	})
}

func (h *LineHandle) release() {
	h.line.Off(engine.EventDelete, h.watchID)
	h.mux.Close()
}

// ID returns the line's unique id.
func (h *LineHandle) ID() uint64 { return h.line.ID() }

// Native returns the wrapped engine line.
func (h *LineHandle) Native() *engine.Line { return h.line }

// Doc returns the owning document.
func (h *LineHandle) Doc() *Document { return h.doc }

// Text returns the line's current text.
func (h *LineHandle) Text() string { return h.line.Text() }

// Deleted reports whether the line was removed.
func (h *LineHandle) Deleted() bool { return h.line.Deleted() }

// Number returns the current line number, or -1 once the line is deleted.
func (h *LineHandle) Number() int {
	n, err := h.line.Number()
	if err != nil {
		return -1
	}
	return n
}

// Class returns the class recorded for where.
func (h *LineHandle) Class(where string) string { return h.line.Class(where) }

// Widgets returns the widgets attached to the line.
func (h *LineHandle) Widgets() []*LineWidget {
	ws := h.line.Widgets()
	out := make([]*LineWidget, 0, len(ws))
	for _, w := range ws {
		out = append(out, h.doc.wrapWidget(w))
	}
	return out
}

// OnDelete subscribes fn to the deletion of the line.
func (h *LineHandle) OnDelete(fn func(*LineHandle)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(h.mux, engine.EventDelete, func([]any) { fn(h) })
}

// OnChange subscribes fn to changes of the line's text.
func (h *LineHandle) OnChange(fn func(*LineHandle, *Change)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(h.mux, engine.EventLineChange, func(a []any) {
		fn(h, argAt[*Change](a, 1))
	})
}

// LineWidgetOptions configures a line widget. The zero value places the
// widget below the line, after any existing widgets.
type LineWidgetOptions = engine.WidgetOptions

// LineWidget is content attached above or below a line.
type LineWidget struct {
	doc    *Document
	widget *engine.LineWidget
	mux    *event.Mux
}

// AddLineWidget attaches content to line h. It returns nil when h is nil or
// no longer in the document.
func (d *Document) AddLineWidget(h *LineHandle, content any, opts LineWidgetOptions) *LineWidget {
	if h == nil {
		return nil
	}
	w, err := d.doc.AddLineWidget(h.line, content, opts)
	if err != nil {
		d.absorb("addLineWidget", err)
		return nil
	}
	return d.wrapWidget(w)
}

// AddLineWidgetAt attaches content to line n.
func (d *Document) AddLineWidgetAt(n int, content any, opts LineWidgetOptions) *LineWidget {
	w, err := d.doc.AddLineWidgetAt(n, content, opts)
	if err != nil {
		d.absorb("addLineWidget", err)
		return nil
	}
	return d.wrapWidget(w)
}

func (d *Document) wrapWidget(w *engine.LineWidget) *LineWidget {
	if w == nil {
		return nil
	}
	return d.widgets.GetOrCreate(w.ID(), func() *LineWidget {
		return &LineWidget{doc: d, widget: w, mux: d.session.newMux(w)}
	})
}

// pruneWidgets forgets widgets removed along with their line.
func (d *Document) pruneWidgets() {
	d.widgets.Range(func(id uint64, w *LineWidget) bool {
		if w.widget.Cleared() {
			d.widgets.Remove(id)
		}
		return true
	})
}

// ID returns the widget's unique id.
func (w *LineWidget) ID() uint64 { return w.widget.ID() }

// Native returns the wrapped engine widget.
func (w *LineWidget) Native() *engine.LineWidget { return w.widget }

// Line returns the handle of the line the widget is attached to.
func (w *LineWidget) Line() *LineHandle { return w.doc.wrapLine(w.widget.Line()) }

// Content returns the widget content.
func (w *LineWidget) Content() any { return w.widget.Content() }

// Options returns the options the widget was created with.
func (w *LineWidget) Options() LineWidgetOptions { return w.widget.Options() }

// Cleared reports whether the widget was removed.
func (w *LineWidget) Cleared() bool { return w.widget.Cleared() }

// Clear removes the widget and forgets its wrapper.
func (w *LineWidget) Clear() {
	w.widget.Clear()
	w.doc.widgets.Remove(w.widget.ID())
}

// Changed signals that the content changed; OnRedraw handlers run at the
// end of the current operation.
func (w *LineWidget) Changed() {
	w.doc.absorb("widgetChanged", w.widget.Changed())
}

// SetHeight records a new height in rows.
func (w *LineWidget) SetHeight(rows int) {
	w.doc.absorb("widgetHeight", w.widget.SetHeight(rows))
}

// OnRedraw subscribes fn to content changes.
func (w *LineWidget) OnRedraw(fn func(*LineWidget)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(w.mux, engine.EventRedraw, func([]any) { fn(w) })
}
