package engine

import "github.com/dshills/mirror/internal/event"

// Line is a handle to one line of a document. The handle keeps its identity
// while edits move the line around and goes stale when the line is deleted.
type Line struct {
	event.Listeners

	id      uint64
	doc     *Doc
	text    string
	widgets []*LineWidget
	classes map[string]string
	deleted bool
}

// ID returns the handle's unique id.
func (l *Line) ID() uint64 {
	return l.id
}

// Text returns the current text of the line.
func (l *Line) Text() string {
	return l.text
}

// Doc returns the owning document.
func (l *Line) Doc() *Doc {
	return l.doc
}

// Deleted reports whether the line has been removed from its document.
func (l *Line) Deleted() bool {
	return l.deleted
}

// Number returns the current line number, or an error if the line is gone.
func (l *Line) Number() (int, error) {
	return l.doc.LineNumber(l)
}

// Widgets returns the widgets attached to the line, in display order.
func (l *Line) Widgets() []*LineWidget {
	return append([]*LineWidget(nil), l.widgets...)
}

// Class returns the class recorded for where ("text", "background",
// "gutter" or "wrap").
func (l *Line) Class(where string) string {
	return l.classes[where]
}

func (l *Line) clearWidgets() {
	for _, w := range l.widgets {
		w.cleared = true
	}
	l.widgets = nil
}

func (l *Line) removeWidget(w *LineWidget) {
	for i, x := range l.widgets {
		if x == w {
			l.widgets = append(l.widgets[:i:i], l.widgets[i+1:]...)
			return
		}
	}
}
