package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/mirror/internal/pos"
)

// Selection is a set of non-overlapping ranges, sorted by position, with one
// of them primary.
type Selection struct {
	Ranges  []pos.Range
	Primary int
}

// PrimaryRange returns the primary range.
func (s Selection) PrimaryRange() pos.Range {
	if len(s.Ranges) == 0 {
		return pos.Range{}
	}
	return s.Ranges[s.Primary]
}

// SomethingSelected reports whether any range is non-empty.
func (s Selection) SomethingSelected() bool {
	for _, r := range s.Ranges {
		if !r.Empty() {
			return true
		}
	}
	return false
}

func (s Selection) clone() Selection {
	return Selection{Ranges: append([]pos.Range(nil), s.Ranges...), Primary: s.Primary}
}

func (s Selection) equal(o Selection) bool {
	if s.Primary != o.Primary || len(s.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range s.Ranges {
		if !pos.Equal(s.Ranges[i].Anchor, o.Ranges[i].Anchor) || !pos.Equal(s.Ranges[i].Head, o.Ranges[i].Head) {
			return false
		}
	}
	return true
}

func (s Selection) mapThrough(c *Change) Selection {
	out := s.clone()
	for i, r := range out.Ranges {
		out.Ranges[i] = pos.NewRange(mapPos(r.Anchor, c), mapPos(r.Head, c))
	}
	return out
}

// normalize sorts the ranges and merges touching or overlapping ones,
// keeping track of the primary range.
func normalize(ranges []pos.Range, primary int) Selection {
	if len(ranges) == 0 {
		return Selection{}
	}
	if primary < 0 || primary >= len(ranges) {
		primary = len(ranges) - 1
	}
	order := make([]int, len(ranges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pos.Less(ranges[order[i]].From(), ranges[order[j]].From())
	})

	out := []pos.Range{ranges[order[0]]}
	outPrim := 0
	for k := 1; k < len(order); k++ {
		cur := ranges[order[k]]
		prev := out[len(out)-1]
		if pos.Compare(prev.To(), cur.From()) >= 0 {
			from := pos.Min(prev.From(), cur.From())
			to := pos.Max(prev.To(), cur.To())
			if pos.Less(prev.Head, prev.Anchor) {
				out[len(out)-1] = pos.NewRange(to, from)
			} else {
				out[len(out)-1] = pos.NewRange(from, to)
			}
		} else {
			out = append(out, cur)
		}
		if order[k] == primary {
			outPrim = len(out) - 1
		}
	}
	return Selection{Ranges: out, Primary: outPrim}
}

// CursorOptions controls selection updates.
type CursorOptions struct {
	// Origin is reported to beforeSelectionChange listeners.
	Origin string
	// Scroll asks the view to bring the head into view. The engine records
	// it; there is no view to scroll.
	Scroll bool
	// Bias pushes cursors out of atomic marks: negative toward the start,
	// positive toward the end, 0 to pick by the direction of movement.
	Bias int
}

// SelectionUpdate is handed to beforeSelectionChange listeners.
type SelectionUpdate struct {
	Ranges []pos.Range
	Origin string

	updated bool
}

// Update replaces the ranges about to be selected.
func (u *SelectionUpdate) Update(ranges []pos.Range) {
	u.Ranges = append([]pos.Range(nil), ranges...)
	u.updated = true
}

// Selection returns a copy of the current selection.
func (d *Doc) Selection() Selection {
	return d.sel.clone()
}

// Cursor returns one end of the primary range: "head" (default), "anchor",
// "from"/"start" or "to"/"end".
func (d *Doc) Cursor(which string) pos.Position {
	r := d.sel.PrimaryRange()
	switch which {
	case "anchor":
		return r.Anchor
	case "from", "start":
		return r.From()
	case "to", "end":
		return r.To()
	default:
		return r.Head
	}
}

// Selections returns the selected ranges.
func (d *Doc) Selections() []pos.Range {
	return append([]pos.Range(nil), d.sel.Ranges...)
}

// SomethingSelected reports whether any range is non-empty.
func (d *Doc) SomethingSelected() bool {
	return d.sel.SomethingSelected()
}

// SetCursor collapses the selection to p.
func (d *Doc) SetCursor(p pos.Position, opts CursorOptions) {
	d.SetSelection(p, p, opts)
}

// SetSelection selects a single range.
func (d *Doc) SetSelection(anchor, head pos.Position, opts CursorOptions) {
	d.SetSelections([]pos.Range{pos.NewRange(anchor, head)}, 0, opts)
}

// SetSelections replaces the selection. An out-of-range primary selects the
// last range. An empty slice is ignored.
func (d *Doc) SetSelections(ranges []pos.Range, primary int, opts CursorOptions) {
	if len(ranges) == 0 {
		return
	}
	d.startOp()
	defer d.endOp()
	d.setSelectionInner(Selection{Ranges: ranges, Primary: primary}, opts, true)
}

// AddSelection adds a range and makes it primary.
func (d *Doc) AddSelection(anchor, head pos.Position, opts CursorOptions) {
	ranges := append(d.Selections(), pos.NewRange(anchor, head))
	d.SetSelections(ranges, len(ranges)-1, opts)
}

// ExtendSelection moves the head of the primary range to head, keeping the
// anchor. When other is given as well the range spans head..other.
func (d *Doc) ExtendSelection(head pos.Position, other *pos.Position, opts CursorOptions) {
	r := d.sel.PrimaryRange()
	anchor := r.Anchor
	if other != nil {
		anchor = head
		head = *other
	}
	ranges := d.Selections()
	ranges[d.sel.Primary] = pos.NewRange(anchor, head)
	d.SetSelections(ranges, d.sel.Primary, opts)
}

// ExtendSelectionsBy maps every range through fn and extends each range's
// head to the result.
func (d *Doc) ExtendSelectionsBy(fn func(r pos.Range) pos.Position, opts CursorOptions) {
	ranges := d.Selections()
	for i, r := range ranges {
		ranges[i] = pos.NewRange(r.Anchor, fn(r))
	}
	d.SetSelections(ranges, d.sel.Primary, opts)
}

// SetExtending makes cursor motions extend the selection, like a held
// shift key.
func (d *Doc) SetExtending(v bool) {
	d.extend = v
}

// Extending reports whether cursor motions extend the selection.
func (d *Doc) Extending() bool {
	return d.extend
}

// SelectedTexts returns the text of every range.
func (d *Doc) SelectedTexts() []string {
	out := make([]string, len(d.sel.Ranges))
	for i, r := range d.sel.Ranges {
		out[i] = d.Range(r.From(), r.To())
	}
	return out
}

// SelectedText returns the text of every range joined by sep, or by the
// document's line separator when sep is empty.
func (d *Doc) SelectedText(sep string) string {
	if sep == "" {
		sep = d.joinSep()
	}
	return strings.Join(d.SelectedTexts(), sep)
}

// ReplaceSelection replaces every range with text. collapse is "around" to
// select the inserted text, "start" to put the cursor before it, or
// anything else to put it after.
func (d *Doc) ReplaceSelection(text string, collapse string) error {
	texts := make([]string, len(d.sel.Ranges))
	for i := range texts {
		texts[i] = text
	}
	return d.ReplaceSelections(texts, collapse, "")
}

// ReplaceSelections replaces each range with the corresponding text.
func (d *Doc) ReplaceSelections(texts []string, collapse, origin string) error {
	ranges := d.Selections()
	if len(texts) != len(ranges) {
		return fmt.Errorf("%d texts for %d ranges: %w", len(texts), len(ranges), ErrSelectionCount)
	}
	d.startOp()
	defer d.endOp()

	var firstErr error
	after := make([]pos.Range, len(ranges))
	// Apply from the last range so earlier positions stay valid.
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		from, to := r.From(), r.To()
		c, err := d.makeChange(from, to, splitLines(texts[i], d.sep), origin, nil)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			after[i] = r
			continue
		}
		end := from
		if c != nil {
			from, end = c.From, c.End()
			// Shift ranges already placed after this one.
			for j := i + 1; j < len(after); j++ {
				after[j] = pos.NewRange(shiftPos(after[j].Anchor, c), shiftPos(after[j].Head, c))
			}
		}
		switch collapse {
		case "around":
			if pos.Less(r.Head, r.Anchor) {
				after[i] = pos.NewRange(end, from)
			} else {
				after[i] = pos.NewRange(from, end)
			}
		case "start":
			after[i] = pos.Cursor(from)
		default:
			after[i] = pos.Cursor(end)
		}
	}
	d.setSelectionInner(Selection{Ranges: after, Primary: d.sel.Primary}, CursorOptions{Origin: origin}, false)
	return firstErr
}

// setSelectionInner clips, normalizes, filters and stores sel. With
// filter set beforeSelectionChange listeners run first.
func (d *Doc) setSelectionInner(sel Selection, opts CursorOptions, filter bool) {
	if d.op == nil {
		d.startOp()
		defer d.endOp()
	}
	for i, r := range sel.Ranges {
		sel.Ranges[i] = pos.NewRange(d.ClipPos(r.Anchor), d.ClipPos(r.Head))
	}
	next := normalize(sel.Ranges, sel.Primary)

	if filter && (d.Has(EventBeforeSelectionChange) || (d.editor != nil && d.editor.Has(EventBeforeSelectionChange))) {
		u := &SelectionUpdate{Ranges: next.clone().Ranges, Origin: opts.Origin}
		d.Emit(EventBeforeSelectionChange, d, u)
		if d.editor != nil {
			d.editor.Emit(EventBeforeSelectionChange, d.editor, u)
		}
		if u.updated && len(u.Ranges) > 0 {
			for i, r := range u.Ranges {
				u.Ranges[i] = pos.NewRange(d.ClipPos(r.Anchor), d.ClipPos(r.Head))
			}
			next = normalize(u.Ranges, min(next.Primary, len(u.Ranges)-1))
		}
	}

	next = d.skipAtomic(next, opts.Bias)
	if next.equal(d.sel) {
		return
	}
	d.sel = next
	d.op.selChanged = true
	d.clearOnEnter()
}
