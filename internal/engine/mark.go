package engine

import (
	"sort"

	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/pos"
)

// MarkKind distinguishes range marks from bookmarks.
type MarkKind uint8

const (
	// MarkRange covers a span of text.
	MarkRange MarkKind = iota
	// MarkBookmark is a single position.
	MarkBookmark
)

// String returns "range" or "bookmark".
func (k MarkKind) String() string {
	if k == MarkBookmark {
		return "bookmark"
	}
	return "range"
}

// MarkOptions configures a range mark.
type MarkOptions struct {
	ClassName string
	// InclusiveLeft makes text inserted at the start of the mark part of it.
	InclusiveLeft bool
	// InclusiveRight makes text inserted at the end of the mark part of it.
	InclusiveRight bool
	// Atomic marks cannot hold a cursor; cursors are pushed out.
	Atomic bool
	// Collapsed marks hide their text and imply Atomic.
	Collapsed bool
	// ClearOnEnter clears the mark when a cursor enters it.
	ClearOnEnter bool
	// KeepWhenEmpty keeps the mark alive when edits shrink it to nothing.
	KeepWhenEmpty bool
	// ReadOnly marks reject edits that touch them.
	ReadOnly bool
	// ReplacedWith is shown instead of the text. Implies Collapsed.
	ReplacedWith any
	Title        string
	StartStyle   string
	EndStyle     string
	CSS          string
	Attributes   map[string]string
}

// BookmarkOptions configures a bookmark.
type BookmarkOptions struct {
	// Widget is shown at the bookmark.
	Widget any
	// InsertLeft makes text typed at the bookmark end up to its left.
	InsertLeft bool
}

// Mark is a range mark or bookmark that tracks edits.
type Mark struct {
	event.Listeners

	id       uint64
	doc      *Doc
	kind     MarkKind
	from, to pos.Position
	opts     MarkOptions
	bookmark BookmarkOptions

	cleared bool
	hidden  bool
	version int
}

// markSnapshot records a mark's range before a change, for undo.
type markSnapshot struct {
	mark     *Mark
	from, to pos.Position
}

// ID returns the mark's unique id.
func (m *Mark) ID() uint64 {
	return m.id
}

// Kind returns range or bookmark.
func (m *Mark) Kind() MarkKind {
	return m.kind
}

// IsBookmark reports whether m is a bookmark.
func (m *Mark) IsBookmark() bool {
	return m.kind == MarkBookmark
}

// Doc returns the owning document.
func (m *Mark) Doc() *Doc {
	return m.doc
}

// Options returns the range options. Zero for bookmarks.
func (m *Mark) Options() MarkOptions {
	return m.opts
}

// BookmarkOptions returns the bookmark options. Zero for range marks.
func (m *Mark) BookmarkOptions() BookmarkOptions {
	return m.bookmark
}

// Cleared reports whether Clear was called.
func (m *Mark) Cleared() bool {
	return m.cleared
}

// Find returns the current range. ok is false once the mark was cleared or
// edits removed it.
func (m *Mark) Find() (from, to pos.Position, ok bool) {
	if m.cleared || m.hidden {
		return pos.Position{}, pos.Position{}, false
	}
	return m.from, m.to, true
}

// Lines returns the handles of the lines the mark covers.
func (m *Mark) Lines() []*Line {
	if m.cleared || m.hidden {
		return nil
	}
	var out []*Line
	m.doc.EachLine(m.from.Line, m.to.Line+1, func(l *Line) bool {
		out = append(out, l)
		return true
	})
	return out
}

// Changed tells the mark its widget or replacement changed size.
func (m *Mark) Changed() {
	if !m.cleared {
		m.version++
	}
}

// Version counts Changed calls.
func (m *Mark) Version() int {
	return m.version
}

// Clear removes the mark. Clearing twice is a no-op.
func (m *Mark) Clear() {
	if m.cleared {
		return
	}
	d := m.doc
	d.startOp()
	defer d.endOp()

	m.cleared = true
	d.removeMark(m)
	from, to := m.from, m.to
	d.signalLater(func() { m.Emit(EventClear, from, to) })
	if m.opts.Atomic {
		d.setSelectionInner(d.sel.clone(), CursorOptions{}, false)
	}
}

func (m *Mark) atomic() bool {
	return m.kind == MarkRange && m.opts.Atomic
}

// contains reports whether p lies inside m, honouring inclusive ends.
func (m *Mark) contains(p pos.Position) bool {
	left := pos.Compare(m.from, p)
	right := pos.Compare(m.to, p)
	inLeft := left < 0 || (left == 0 && m.opts.InclusiveLeft)
	inRight := right > 0 || (right == 0 && m.opts.InclusiveRight)
	return inLeft && inRight
}

// MarkText marks the range from..to.
func (d *Doc) MarkText(from, to pos.Position, opts MarkOptions) (*Mark, error) {
	from, to = d.clipOrdered(from, to)
	if opts.ReplacedWith != nil {
		opts.Collapsed = true
	}
	if opts.Collapsed {
		opts.Atomic = true
	}
	if pos.Equal(from, to) && !opts.KeepWhenEmpty {
		return nil, ErrEmptyMark
	}

	m := &Mark{id: objectIDs.Next(), doc: d, kind: MarkRange, from: from, to: to, opts: opts}
	d.startOp()
	defer d.endOp()
	d.marks = append(d.marks, m)
	if opts.ReadOnly {
		d.ClearHistory()
	}
	if opts.Atomic {
		d.setSelectionInner(d.sel.clone(), CursorOptions{}, false)
	}
	return m, nil
}

// SetBookmark places a bookmark at p.
func (d *Doc) SetBookmark(p pos.Position, opts BookmarkOptions) *Mark {
	p = d.ClipPos(p)
	m := &Mark{
		id:       objectIDs.Next(),
		doc:      d,
		kind:     MarkBookmark,
		from:     p,
		to:       p,
		bookmark: opts,
		opts:     MarkOptions{KeepWhenEmpty: true},
	}
	d.marks = append(d.marks, m)
	return m
}

// FindMarks returns the marks overlapping from..to. Bookmarks count when
// they lie inside the range or on either end.
func (d *Doc) FindMarks(from, to pos.Position) []*Mark {
	from, to = d.clipOrdered(from, to)
	var out []*Mark
	for _, m := range d.marks {
		if m.kind == MarkBookmark {
			if pos.Compare(m.from, from) >= 0 && pos.Compare(m.from, to) <= 0 {
				out = append(out, m)
			}
			continue
		}
		if pos.Less(m.from, to) && pos.Less(from, m.to) {
			out = append(out, m)
		}
	}
	return out
}

// FindMarksAt returns the marks whose range includes p.
func (d *Doc) FindMarksAt(p pos.Position) []*Mark {
	p = d.ClipPos(p)
	var out []*Mark
	for _, m := range d.marks {
		if pos.Compare(m.from, p) <= 0 && pos.Compare(m.to, p) >= 0 {
			out = append(out, m)
		}
	}
	return out
}

// AllMarks returns every live mark in creation order.
func (d *Doc) AllMarks() []*Mark {
	return append([]*Mark(nil), d.marks...)
}

func (d *Doc) removeMark(m *Mark) {
	for i, x := range d.marks {
		if x == m {
			d.marks = append(d.marks[:i:i], d.marks[i+1:]...)
			return
		}
	}
}

// touchesReadOnly reports whether replacing from..to would modify a
// read-only mark.
func (d *Doc) touchesReadOnly(from, to pos.Position) bool {
	for _, m := range d.marks {
		if !m.opts.ReadOnly || m.kind != MarkRange {
			continue
		}
		if pos.Equal(from, to) {
			if m.contains(from) {
				return true
			}
			continue
		}
		if pos.Less(from, m.to) && pos.Less(m.from, to) {
			return true
		}
	}
	return false
}

func (d *Doc) snapshotMarks(from, to pos.Position) []markSnapshot {
	var out []markSnapshot
	for _, m := range d.marks {
		touch := func(p pos.Position) bool {
			return pos.Compare(p, from) >= 0 && pos.Compare(p, to) <= 0
		}
		if touch(m.from) || touch(m.to) || (pos.Less(m.from, from) && pos.Less(to, m.to)) {
			out = append(out, markSnapshot{mark: m, from: m.from, to: m.to})
		}
	}
	return out
}

// restoreMarks puts marks back where a snapshot saw them, bringing hidden
// marks back to life.
func (d *Doc) restoreMarks(snaps []markSnapshot) {
	for _, s := range snaps {
		m := s.mark
		if m.cleared {
			continue
		}
		m.from, m.to = d.ClipPos(s.from), d.ClipPos(s.to)
		if m.hidden {
			m.hidden = false
			d.marks = append(d.marks, m)
			d.signalLater(func() { m.Emit(EventUnhide) })
		}
	}
	sort.SliceStable(d.marks, func(i, j int) bool { return d.marks[i].id < d.marks[j].id })
}

// adjustMarks maps every mark through c and returns the marks the change
// emptied and removed.
func (d *Doc) adjustMarks(c *Change) []*Mark {
	var hidden []*Mark
	live := d.marks[:0]
	for _, m := range d.marks {
		if m.kind == MarkBookmark {
			m.from = mapBookmark(m.from, c, m.bookmark.InsertLeft)
			m.to = m.from
			live = append(live, m)
			continue
		}
		m.from = mapMarkStart(m.from, c, m.opts.InclusiveLeft)
		m.to = mapMarkEnd(m.to, c, m.opts.InclusiveRight)
		if pos.Less(m.to, m.from) {
			m.to = m.from
		}
		if pos.Equal(m.from, m.to) && !m.opts.KeepWhenEmpty {
			m.hidden = true
			hidden = append(hidden, m)
			continue
		}
		live = append(live, m)
	}
	for i := len(live); i < len(d.marks); i++ {
		d.marks[i] = nil
	}
	d.marks = live
	return hidden
}

func isInsertAt(p pos.Position, c *Change) bool {
	return pos.Equal(c.From, c.To) && pos.Equal(p, c.From)
}

func mapMarkStart(p pos.Position, c *Change, inclusive bool) pos.Position {
	switch {
	case pos.Less(p, c.From):
		return p
	case pos.Less(c.To, p):
		return shiftPos(p, c)
	case pos.Equal(p, c.From) && inclusive:
		return p
	default:
		return c.End()
	}
}

func mapMarkEnd(p pos.Position, c *Change, inclusive bool) pos.Position {
	switch {
	case pos.Less(p, c.From):
		return p
	case pos.Less(c.To, p):
		return shiftPos(p, c)
	case isInsertAt(p, c):
		if inclusive {
			return c.End()
		}
		return p
	case pos.Equal(p, c.To) && inclusive:
		return c.End()
	default:
		return c.From
	}
}

func mapBookmark(p pos.Position, c *Change, insertLeft bool) pos.Position {
	switch {
	case pos.Less(p, c.From):
		return p
	case pos.Less(c.To, p):
		return shiftPos(p, c)
	case isInsertAt(p, c):
		if insertLeft {
			return c.End()
		}
		return p
	case pos.Equal(p, c.To):
		return c.End()
	default:
		return c.From
	}
}

// skipAtomic pushes every range end out of atomic marks. bias picks the
// direction; 0 derives it from the movement relative to the current
// selection.
func (d *Doc) skipAtomic(sel Selection, bias int) Selection {
	hasAtomic := false
	for _, m := range d.marks {
		if m.atomic() {
			hasAtomic = true
			break
		}
	}
	if !hasAtomic {
		return sel
	}

	out := sel.clone()
	for i, r := range out.Ranges {
		dir := bias
		if dir == 0 {
			dir = 1
			if len(d.sel.Ranges) > 0 {
				old := d.sel.Ranges[min(i, len(d.sel.Ranges)-1)].Head
				if pos.Less(r.Head, old) {
					dir = -1
				}
			}
		}
		anchor := d.skipAtomicPos(r.Anchor, dir)
		head := d.skipAtomicPos(r.Head, dir)
		out.Ranges[i] = pos.NewRange(anchor, head)
	}
	return normalize(out.Ranges, out.Primary)
}

func (d *Doc) skipAtomicPos(p pos.Position, dir int) pos.Position {
	for i, n := 0, len(d.marks)+1; i < n; i++ {
		var hit *Mark
		for _, m := range d.marks {
			if m.atomic() && m.contains(p) {
				hit = m
				break
			}
		}
		if hit == nil {
			return p
		}
		next, ok := d.stepOut(hit, dir)
		if !ok {
			next, ok = d.stepOut(hit, -dir)
		}
		if !ok {
			return p
		}
		p = next
	}
	return p
}

// stepOut returns the position just outside m in direction dir.
func (d *Doc) stepOut(m *Mark, dir int) (pos.Position, bool) {
	if dir < 0 {
		if !m.opts.InclusiveLeft {
			return m.from, true
		}
		return d.movePos(m.from, -1)
	}
	if !m.opts.InclusiveRight {
		return m.to, true
	}
	return d.movePos(m.to, 1)
}

// movePos moves p one grapheme cluster, crossing line breaks. ok is false
// at the document edges.
func (d *Doc) movePos(p pos.Position, dir int) (pos.Position, bool) {
	p = d.ClipPos(p)
	text := d.lines[d.index(p.Line)].text
	if dir < 0 {
		if p.Ch > 0 {
			return pos.New(p.Line, pos.PrevCluster(text, p.Ch)), true
		}
		if p.Line > d.first {
			prev := d.lines[d.index(p.Line-1)].text
			return pos.New(p.Line-1, len(prev)), true
		}
		return p, false
	}
	if p.Ch < len(text) {
		return pos.New(p.Line, pos.NextCluster(text, p.Ch)), true
	}
	if p.Line < d.LastLine() {
		return pos.New(p.Line+1, 0), true
	}
	return p, false
}

// clearOnEnter clears marks a cursor head has moved into.
func (d *Doc) clearOnEnter() {
	var hit []*Mark
	for _, m := range d.marks {
		if !m.opts.ClearOnEnter || m.kind != MarkRange {
			continue
		}
		for _, r := range d.sel.Ranges {
			if pos.Less(m.from, r.Head) && pos.Less(r.Head, m.to) {
				hit = append(hit, m)
				break
			}
		}
	}
	for _, m := range hit {
		m.Clear()
	}
}
