package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/mirror/internal/event"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/registry"
)

// Default history settings.
const (
	DefaultUndoDepth         = 200
	DefaultHistoryEventDelay = 1250 * time.Millisecond
)

// objectIDs numbers lines, marks and widgets across every document.
var objectIDs registry.IDs

// DocOptions configures a new document.
type DocOptions struct {
	// Mode is a mode name or a mode spec. It is recorded, never executed.
	Mode any
	// FirstLine is the number of the first line. Defaults to 0.
	FirstLine int
	// LineSeparator splits and joins text. Empty splits on \r\n, \r and \n
	// and joins with \n.
	LineSeparator string
	// Direction is "ltr" or "rtl".
	Direction string
	// UndoDepth bounds the number of undo events. 0 selects DefaultUndoDepth.
	UndoDepth int
	// HistoryEventDelay is how long typing keeps merging into one undo event.
	// 0 selects DefaultHistoryEventDelay.
	HistoryEventDelay time.Duration
}

// Doc is a document: lines of text plus selection, history and marks.
type Doc struct {
	event.Listeners

	id        string
	lines     []*Line
	first     int
	sep       string
	mode      any
	direction string

	sel     Selection
	hist    *history
	marks   []*Mark
	editor  *Editor
	now     func() time.Time
	cleanAt int
	extend  bool

	op *docOp
}

// docOp collects the effects of one operation.
type docOp struct {
	id         int
	depth      int
	changes    []*Change
	recorded   bool
	selChanged bool
	later      []func()
}

var opIDs registry.IDs

// NewDoc creates a document holding text.
func NewDoc(text string, opts DocOptions) *Doc {
	d := &Doc{
		id:        uuid.NewString(),
		first:     opts.FirstLine,
		sep:       opts.LineSeparator,
		mode:      opts.Mode,
		direction: opts.Direction,
		now:       time.Now,
	}
	if d.direction == "" {
		d.direction = "ltr"
	}
	if d.mode == nil {
		d.mode = "text/plain"
	}
	d.hist = newHistory(opts.UndoDepth, opts.HistoryEventDelay)
	for _, l := range splitLines(text, d.sep) {
		d.lines = append(d.lines, d.newLine(l))
	}
	start := pos.New(d.first, 0)
	d.sel = Selection{Ranges: []pos.Range{pos.Cursor(start)}}
	d.cleanAt = d.hist.generation
	return d
}

// ID returns the document's unique id.
func (d *Doc) ID() string {
	return d.id
}

func (d *Doc) newLine(text string) *Line {
	return &Line{id: objectIDs.Next(), doc: d, text: text}
}

// Editor returns the editor the document is attached to, or nil.
func (d *Doc) Editor() *Editor {
	return d.editor
}

// Mode returns the document's mode name or spec.
func (d *Doc) Mode() any {
	return d.mode
}

// SetMode records a new mode.
func (d *Doc) SetMode(mode any) {
	d.mode = mode
}

// Direction returns "ltr" or "rtl".
func (d *Doc) Direction() string {
	return d.direction
}

// SetDirection sets the text direction. Values other than "rtl" mean "ltr".
func (d *Doc) SetDirection(dir string) {
	if dir != "rtl" {
		dir = "ltr"
	}
	d.direction = dir
}

// LineSeparator returns the configured separator, or "" for the default.
func (d *Doc) LineSeparator() string {
	return d.sep
}

// SetLineSeparator changes the separator used by Value and Range.
func (d *Doc) SetLineSeparator(sep string) {
	d.sep = sep
}

func (d *Doc) joinSep() string {
	if d.sep == "" {
		return "\n"
	}
	return d.sep
}

// FirstLine returns the number of the first line.
func (d *Doc) FirstLine() int {
	return d.first
}

// LastLine returns the number of the last line.
func (d *Doc) LastLine() int {
	return d.first + len(d.lines) - 1
}

// LineCount returns the number of lines.
func (d *Doc) LineCount() int {
	return len(d.lines)
}

// Value returns the whole text.
func (d *Doc) Value() string {
	texts := make([]string, len(d.lines))
	for i, l := range d.lines {
		texts[i] = l.text
	}
	return joinLines(texts, d.sep)
}

// SetValue replaces the whole text. Read-only marks do not block it.
// The cursor moves to the start of the document.
func (d *Doc) SetValue(text string) error {
	start := pos.New(d.first, 0)
	end := pos.New(d.LastLine(), len(d.lines[len(d.lines)-1].text))
	after := Selection{Ranges: []pos.Range{pos.Cursor(start)}}
	_, err := d.makeChange(start, end, splitLines(text, d.sep), OriginSetValue, &after)
	return err
}

func (d *Doc) index(line int) int {
	return line - d.first
}

func (d *Doc) validLine(line int) bool {
	i := d.index(line)
	return i >= 0 && i < len(d.lines)
}

// Line returns the text of line n.
func (d *Doc) Line(n int) (string, error) {
	if !d.validLine(n) {
		return "", fmt.Errorf("line %d: %w", n, ErrLineOutOfRange)
	}
	return d.lines[d.index(n)].text, nil
}

// LineHandle returns the handle of line n.
func (d *Doc) LineHandle(n int) (*Line, error) {
	if !d.validLine(n) {
		return nil, fmt.Errorf("line %d: %w", n, ErrLineOutOfRange)
	}
	return d.lines[d.index(n)], nil
}

// LineNumber returns the current number of the line behind h.
func (d *Doc) LineNumber(h *Line) (int, error) {
	if h == nil || h.doc != d || h.deleted {
		return 0, ErrStaleHandle
	}
	for i, l := range d.lines {
		if l == h {
			return d.first + i, nil
		}
	}
	return 0, ErrStaleHandle
}

// EachLine calls fn for lines [from, to) until fn returns false. The range
// is clipped to the document.
func (d *Doc) EachLine(from, to int, fn func(*Line) bool) {
	lo := max(d.index(from), 0)
	hi := min(d.index(to), len(d.lines))
	for i := lo; i < hi; i++ {
		if !fn(d.lines[i]) {
			return
		}
	}
}

// Lines returns the line handles in order.
func (d *Doc) Lines() []*Line {
	return append([]*Line(nil), d.lines...)
}

// ClipPos returns the nearest valid position to p.
func (d *Doc) ClipPos(p pos.Position) pos.Position {
	if p.Line < d.first {
		return pos.New(d.first, 0)
	}
	last := d.LastLine()
	if p.Line > last {
		return pos.New(last, len(d.lines[len(d.lines)-1].text))
	}
	text := d.lines[d.index(p.Line)].text
	ch := p.Ch
	switch {
	case ch > len(text):
		ch = len(text)
	case ch < 0:
		ch = 0
	default:
		ch = pos.ClusterBoundary(text, ch)
	}
	return pos.Position{Line: p.Line, Ch: ch, Sticky: p.Sticky}
}

func (d *Doc) clipOrdered(from, to pos.Position) (pos.Position, pos.Position) {
	from, to = d.ClipPos(from), d.ClipPos(to)
	if pos.Less(to, from) {
		from, to = to, from
	}
	return from, to
}

// Range returns the text between from and to, joined with the document's
// line separator.
func (d *Doc) Range(from, to pos.Position) string {
	from, to = d.clipOrdered(from, to)
	return joinLines(d.rangeLines(from, to), d.sep)
}

func (d *Doc) rangeLines(from, to pos.Position) []string {
	fi, ti := d.index(from.Line), d.index(to.Line)
	if fi == ti {
		return []string{d.lines[fi].text[from.Ch:to.Ch]}
	}
	out := make([]string, 0, ti-fi+1)
	out = append(out, d.lines[fi].text[from.Ch:])
	for i := fi + 1; i < ti; i++ {
		out = append(out, d.lines[i].text)
	}
	return append(out, d.lines[ti].text[:to.Ch])
}

// PosFromIndex converts a byte offset into the text, counting each line
// separator as its length, into a position.
func (d *Doc) PosFromIndex(index int) pos.Position {
	if index < 0 {
		index = 0
	}
	sepLen := len(d.joinSep())
	for i, l := range d.lines {
		if index <= len(l.text) {
			return d.ClipPos(pos.New(d.first+i, index))
		}
		index -= len(l.text) + sepLen
	}
	lastIdx := len(d.lines) - 1
	return pos.New(d.first+lastIdx, len(d.lines[lastIdx].text))
}

// IndexFromPos is the inverse of PosFromIndex.
func (d *Doc) IndexFromPos(p pos.Position) int {
	p = d.ClipPos(p)
	sepLen := len(d.joinSep())
	index := p.Ch
	for i := 0; i < d.index(p.Line); i++ {
		index += len(d.lines[i].text) + sepLen
	}
	return index
}

// Copy returns an independent document with the same text, mode and
// selection. When copyHistory is set the undo history is copied too.
func (d *Doc) Copy(copyHistory bool) *Doc {
	c := NewDoc(d.Value(), DocOptions{
		Mode:              d.mode,
		FirstLine:         d.first,
		LineSeparator:     d.sep,
		Direction:         d.direction,
		UndoDepth:         d.hist.depth,
		HistoryEventDelay: d.hist.delay,
	})
	c.sel = d.sel.clone()
	if copyHistory {
		c.hist = d.hist.clone()
		c.cleanAt = d.cleanAt
	}
	return c
}

// ReplaceRange replaces the text between from and to. An empty origin is
// allowed; origins starting with "+" merge into the previous undo event when
// typed quickly enough.
func (d *Doc) ReplaceRange(text string, from, to pos.Position, origin string) error {
	from, to = d.clipOrdered(from, to)
	_, err := d.makeChange(from, to, splitLines(text, d.sep), origin, nil)
	return err
}

// Insert inserts text at p.
func (d *Doc) Insert(text string, p pos.Position, origin string) error {
	return d.ReplaceRange(text, p, p, origin)
}

// Batch runs fn as one operation: its changes form one undo event and
// cursorActivity fires once at the end.
func (d *Doc) Batch(fn func()) {
	d.startOp()
	defer d.endOp()
	fn()
}

func (d *Doc) startOp() {
	if d.op == nil {
		d.op = &docOp{id: int(opIDs.Next())}
	}
	d.op.depth++
}

func (d *Doc) endOp() {
	op := d.op
	op.depth--
	if op.depth > 0 {
		return
	}
	d.op = nil
	if op.recorded {
		d.hist.closeSelection(d.sel)
	}

	for _, fn := range op.later {
		fn()
	}
	if d.editor != nil {
		d.editor.docOpEnded(d, op.changes, op.selChanged)
	}
	if op.selChanged {
		d.Emit(EventCursorActivity, d)
	}
}

// signalLater queues fn to run when the current operation ends.
func (d *Doc) signalLater(fn func()) {
	if d.op == nil {
		fn()
		return
	}
	d.op.later = append(d.op.later, fn)
}

func isNoop(from, to pos.Position, text []string) bool {
	return pos.Equal(from, to) && len(text) == 1 && text[0] == ""
}

// makeChange runs beforeChange filters, checks read-only marks, applies the
// change, records history and updates the selection. selAfter overrides the
// mapped selection. The applied change is nil when the edit was a no-op.
func (d *Doc) makeChange(from, to pos.Position, text []string, origin string, selAfter *Selection) (*Change, error) {
	if d.hasBeforeChange() {
		bc := &BeforeChange{From: from, To: to, Text: copyStrings(text), Origin: origin, updatable: true}
		d.emitBeforeChange(bc)
		if bc.cancelled {
			return nil, ErrChangeCancelled
		}
		if bc.updated {
			from, to = d.clipOrdered(bc.From, bc.To)
			text = bc.Text
			if len(text) == 0 {
				text = []string{""}
			}
			selAfter = nil
		}
	}
	if isNoop(from, to, text) {
		return nil, nil
	}
	if d.editor != nil && d.editor.suppressEdits && origin != OriginSetValue {
		return nil, ErrReadOnly
	}
	if origin != OriginSetValue && d.touchesReadOnly(from, to) {
		return nil, ErrReadOnly
	}

	d.startOp()
	defer d.endOp()

	selBefore := d.sel.clone()
	c := d.applyChange(from, to, text, origin)
	d.hist.addChange(c, selBefore, d.op.id, d.now())
	d.op.recorded = true

	next := d.sel.mapThrough(c)
	if selAfter != nil {
		next = *selAfter
	}
	d.setSelectionInner(next, CursorOptions{Origin: origin}, false)
	return c, nil
}

func (d *Doc) hasBeforeChange() bool {
	return d.Has(EventBeforeChange) || (d.editor != nil && d.editor.Has(EventBeforeChange))
}

func (d *Doc) emitBeforeChange(bc *BeforeChange) {
	d.Emit(EventBeforeChange, d, bc)
	if d.editor != nil && !bc.cancelled {
		d.editor.Emit(EventBeforeChange, d.editor, bc)
	}
}

// applyChange rewrites the lines, adjusts marks and queues change events.
// It does not touch history or selection.
func (d *Doc) applyChange(from, to pos.Position, text []string, origin string) *Change {
	c := &Change{
		From:    from,
		To:      to,
		Text:    copyStrings(text),
		Removed: d.rangeLines(from, to),
		Origin:  origin,
	}
	c.marks = d.snapshotMarks(from, to)

	fi, ti := d.index(from.Line), d.index(to.Line)
	first, last := d.lines[fi], d.lines[ti]
	prefix, suffix := first.text[:from.Ch], last.text[to.Ch:]
	n := len(text)

	var changed, deleted []*Line
	fresh := func(texts []string) []*Line {
		out := make([]*Line, len(texts))
		for i, t := range texts {
			out[i] = d.newLine(t)
		}
		return out
	}

	switch {
	case from.Ch == 0 && to.Ch == 0 && text[n-1] == "":
		// Whole-line update: the line at to keeps its identity.
		deleted = append(deleted, d.lines[fi:ti]...)
		d.spliceLines(fi, ti, fresh(text[:n-1]))
	case n == 1:
		first.text = prefix + text[0] + suffix
		changed = append(changed, first)
		deleted = append(deleted, d.lines[fi+1:ti+1]...)
		d.spliceLines(fi+1, ti+1, nil)
	case fi == ti:
		first.text = prefix + text[0]
		changed = append(changed, first)
		added := fresh(text[1 : n-1])
		added = append(added, d.newLine(text[n-1]+suffix))
		d.spliceLines(fi+1, fi+1, added)
	default:
		first.text = prefix + text[0]
		last.text = text[n-1] + suffix
		changed = append(changed, first, last)
		deleted = append(deleted, d.lines[fi+1:ti]...)
		d.spliceLines(fi+1, ti, fresh(text[1:n-1]))
	}

	for _, l := range deleted {
		l.deleted = true
		l.clearWidgets()
	}
	hidden := d.adjustMarks(c)

	if d.op != nil {
		d.op.changes = append(d.op.changes, c)
	}
	d.signalLater(func() {
		for _, l := range deleted {
			l.Emit(EventDelete)
		}
		for _, l := range changed {
			if !l.deleted {
				l.Emit(EventLineChange, l, c)
			}
		}
		for _, m := range hidden {
			m.Emit(EventHide)
		}
		d.Emit(EventChange, d, c)
		if d.editor != nil {
			d.editor.Emit(EventChange, d.editor, c)
		}
	})
	return c
}

// spliceLines replaces d.lines[lo:hi] with repl.
func (d *Doc) spliceLines(lo, hi int, repl []*Line) {
	tail := append([]*Line(nil), d.lines[hi:]...)
	d.lines = append(append(d.lines[:lo], repl...), tail...)
}

// String describes the document for logs.
func (d *Doc) String() string {
	return fmt.Sprintf("Doc(%s, %d lines)", d.id, len(d.lines))
}

// wordAt returns the bounds of the word containing ch on line text.
func wordAt(text string, ch int) (int, int) {
	start, end := ch, ch
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	return start, end
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// GetWordAt returns the range of the word around p.
func (d *Doc) GetWordAt(p pos.Position) pos.Range {
	p = d.ClipPos(p)
	text := d.lines[d.index(p.Line)].text
	start, end := wordAt(text, p.Ch)
	return pos.NewRange(pos.New(p.Line, start), pos.New(p.Line, end))
}
