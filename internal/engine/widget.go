package engine

import (
	"fmt"
	"strings"

	"github.com/dshills/mirror/internal/event"
)

// WidgetOptions configures a line widget.
type WidgetOptions struct {
	CoverGutter       bool
	NoHScroll         bool
	Above             bool
	HandleMouseEvents bool
	ClassName         string
	// InsertAt places the widget among the line's widgets. Nil or out of
	// range appends.
	InsertAt *int
	// Height is the widget height in rows, recorded for the host view.
	Height int
}

// LineWidget is a block of content attached below or above a line.
type LineWidget struct {
	event.Listeners

	id      uint64
	doc     *Doc
	line    *Line
	content any
	opts    WidgetOptions
	cleared bool
}

// ID returns the widget's unique id.
func (w *LineWidget) ID() uint64 {
	return w.id
}

// Line returns the line the widget is attached to.
func (w *LineWidget) Line() *Line {
	return w.line
}

// Content returns the widget content.
func (w *LineWidget) Content() any {
	return w.content
}

// Options returns the widget options.
func (w *LineWidget) Options() WidgetOptions {
	return w.opts
}

// Cleared reports whether the widget was removed, either by Clear or by the
// deletion of its line.
func (w *LineWidget) Cleared() bool {
	return w.cleared
}

// Clear detaches the widget. Clearing twice is a no-op.
func (w *LineWidget) Clear() {
	if w.cleared {
		return
	}
	w.cleared = true
	w.line.removeWidget(w)
}

// Changed tells the widget its content changed; it fires EventRedraw.
func (w *LineWidget) Changed() error {
	if w.cleared {
		return ErrMarkCleared
	}
	w.doc.signalLater(func() { w.Emit(EventRedraw) })
	return nil
}

// SetHeight records a new height and redraws.
func (w *LineWidget) SetHeight(rows int) error {
	if w.cleared {
		return ErrMarkCleared
	}
	w.opts.Height = rows
	return w.Changed()
}

// AddLineWidget attaches content to line.
func (d *Doc) AddLineWidget(line *Line, content any, opts WidgetOptions) (*LineWidget, error) {
	if line == nil || line.doc != d || line.deleted {
		return nil, ErrStaleHandle
	}
	w := &LineWidget{id: objectIDs.Next(), doc: d, line: line, content: content, opts: opts}
	at := len(line.widgets)
	if opts.InsertAt != nil && *opts.InsertAt >= 0 && *opts.InsertAt < at {
		at = *opts.InsertAt
	}
	line.widgets = append(line.widgets, nil)
	copy(line.widgets[at+1:], line.widgets[at:])
	line.widgets[at] = w
	return w, nil
}

// AddLineWidgetAt attaches content to line number n.
func (d *Doc) AddLineWidgetAt(n int, content any, opts WidgetOptions) (*LineWidget, error) {
	l, err := d.LineHandle(n)
	if err != nil {
		return nil, fmt.Errorf("adding widget: %w", err)
	}
	return d.AddLineWidget(l, content, opts)
}

// AddLineClass records class for where on line.
func (d *Doc) AddLineClass(line *Line, where, class string) error {
	if line == nil || line.doc != d || line.deleted {
		return ErrStaleHandle
	}
	if line.classes == nil {
		line.classes = make(map[string]string)
	}
	if cur := line.classes[where]; cur != "" {
		class = cur + " " + class
	}
	line.classes[where] = class
	return nil
}

// RemoveLineClass drops the class recorded for where. An empty class drops
// every class for where.
func (d *Doc) RemoveLineClass(line *Line, where, class string) error {
	if line == nil || line.doc != d || line.deleted {
		return ErrStaleHandle
	}
	cur := line.classes[where]
	if class == "" || cur == class {
		delete(line.classes, where)
		return nil
	}
	var keep []string
	for _, c := range strings.Fields(cur) {
		if c != class {
			keep = append(keep, c)
		}
	}
	line.classes[where] = strings.Join(keep, " ")
	return nil
}
