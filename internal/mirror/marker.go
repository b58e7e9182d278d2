package mirror

import (
	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/pos"
)

// TextMarkerOptions configures a range mark. The zero value is a plain
// mark whose ends do not grow with insertions.
type TextMarkerOptions = engine.MarkOptions

// BookmarkOptions configures a bookmark.
type BookmarkOptions = engine.BookmarkOptions

// TextMarker is a range mark or bookmark. It is cached until cleared.
type TextMarker struct {
	doc  *Document
	mark *engine.Mark
	mux  *event.Mux
}

// MarkText marks the range from..to. It returns nil when the range is
// empty and the options do not keep empty marks.
func (d *Document) MarkText(from, to pos.Position, opts TextMarkerOptions) *TextMarker {
	m, err := d.doc.MarkText(from, to, opts)
	if err != nil {
		d.absorb("markText", err)
		return nil
	}
	return d.wrapMark(m)
}

// SetBookmark places a bookmark at p.
func (d *Document) SetBookmark(p pos.Position, opts BookmarkOptions) *TextMarker {
	return d.wrapMark(d.doc.SetBookmark(p, opts))
}

// FindMarks returns the marks touching from..to.
func (d *Document) FindMarks(from, to pos.Position) []*TextMarker {
	return d.wrapMarks(d.doc.FindMarks(from, to))
}

// FindMarksAt returns the marks covering p.
func (d *Document) FindMarksAt(p pos.Position) []*TextMarker {
	return d.wrapMarks(d.doc.FindMarksAt(p))
}

// AllMarks returns every live mark.
func (d *Document) AllMarks() []*TextMarker {
	return d.wrapMarks(d.doc.AllMarks())
}

func (d *Document) wrapMarks(ms []*engine.Mark) []*TextMarker {
	out := make([]*TextMarker, 0, len(ms))
	for _, m := range ms {
		out = append(out, d.wrapMark(m))
	}
	return out
}

// wrapMark returns the cached wrapper of m. The wrapper drops itself from
// the cache when the mark is cleared, including by clearOnEnter.
func (d *Document) wrapMark(m *engine.Mark) *TextMarker {
	if m == nil {
		return nil
	}
	return d.marks.GetOrCreate(m.ID(), func() *TextMarker {
		t := &TextMarker{doc: d, mark: m, mux: d.session.newMux(m)}
		var id event.ListenerID
		id = m.On(engine.EventClear, func(...any) {
			d.marks.Remove(m.ID())
			m.Off(engine.EventClear, id)
		})
		return t
	})
}

// ID returns the mark's unique id.
func (t *TextMarker) ID() uint64 { return t.mark.ID() }

// Native returns the wrapped engine mark.
func (t *TextMarker) Native() *engine.Mark { return t.mark }

// Doc returns the owning document.
func (t *TextMarker) Doc() *Document { return t.doc }

// IsBookmark reports whether the marker is a bookmark.
func (t *TextMarker) IsBookmark() bool { return t.mark.IsBookmark() }

// Options returns the range options. Zero for bookmarks.
func (t *TextMarker) Options() TextMarkerOptions { return t.mark.Options() }

// BookmarkOptions returns the bookmark options. Zero for range marks.
func (t *TextMarker) BookmarkOptions() BookmarkOptions { return t.mark.BookmarkOptions() }

// Cleared reports whether the marker was cleared.
func (t *TextMarker) Cleared() bool { return t.mark.Cleared() }

// Find returns the marked range. ok is false once the marker was cleared
// or edits removed its text. For bookmarks from equals to.
func (t *TextMarker) Find() (from, to pos.Position, ok bool) { return t.mark.Find() }

// Lines returns the handles of the lines the marker covers.
func (t *TextMarker) Lines() []*LineHandle {
	ls := t.mark.Lines()
	out := make([]*LineHandle, 0, len(ls))
	for _, l := range ls {
		out = append(out, t.doc.wrapLine(l))
	}
	return out
}

// Changed signals that a replacement or widget changed size.
func (t *TextMarker) Changed() { t.mark.Changed() }

// Clear removes the marker and forgets its wrapper. Clearing twice is a
// no-op.
func (t *TextMarker) Clear() {
	t.mark.Clear()
	t.doc.marks.Remove(t.mark.ID())
}

// OnClear subscribes fn to Clear. It receives the range the marker covered.
func (t *TextMarker) OnClear(fn func(t *TextMarker, from, to pos.Position)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(t.mux, engine.EventClear, func(a []any) {
		fn(t, argAt[pos.Position](a, 0), argAt[pos.Position](a, 1))
	})
}

// OnHide subscribes fn to edits removing the last of the marked text.
func (t *TextMarker) OnHide(fn func(*TextMarker)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(t.mux, engine.EventHide, func([]any) { fn(t) })
}

// OnUnhide subscribes fn to undo bringing hidden text back.
func (t *TextMarker) OnUnhide(fn func(*TextMarker)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return on(t.mux, engine.EventUnhide, func([]any) { fn(t) })
}
