package engine

import (
	"time"

	"github.com/dshills/mirror/internal/pos"
)

// histEvent is one undoable step: the changes applied, in order, and the
// selection around them.
type histEvent struct {
	changes    []*Change
	selBefore  Selection
	selAfter   Selection
	generation int
}

type history struct {
	done   []*histEvent
	undone []*histEvent

	depth int
	delay time.Duration

	generation    int
	maxGeneration int

	lastOp      int
	lastOrigin  string
	lastModTime time.Time
}

func newHistory(depth int, delay time.Duration) *history {
	if depth <= 0 {
		depth = DefaultUndoDepth
	}
	if delay <= 0 {
		delay = DefaultHistoryEventDelay
	}
	return &history{depth: depth, delay: delay, generation: 1, maxGeneration: 1}
}

func (h *history) clone() *history {
	c := *h
	c.done = append([]*histEvent(nil), h.done...)
	c.undone = append([]*histEvent(nil), h.undone...)
	return &c
}

// mergeable reports whether a change in op with origin, made at now, joins
// the last event.
func (h *history) mergeable(op int, origin string, now time.Time) bool {
	if len(h.done) == 0 {
		return false
	}
	if h.lastOp == op {
		return true
	}
	if origin == "" || origin != h.lastOrigin {
		return false
	}
	switch origin[0] {
	case '+':
		return now.Sub(h.lastModTime) < h.delay
	case '*':
		return true
	}
	return false
}

func (h *history) addChange(c *Change, selBefore Selection, op int, now time.Time) {
	if h.mergeable(op, c.Origin, now) {
		cur := h.done[len(h.done)-1]
		cur.changes = append(cur.changes, c)
	} else {
		h.done = append(h.done, &histEvent{
			changes:    []*Change{c},
			selBefore:  selBefore,
			generation: h.generation,
		})
		h.maxGeneration++
		h.generation = h.maxGeneration
		if len(h.done) > h.depth {
			h.done = h.done[len(h.done)-h.depth:]
		}
	}
	h.undone = nil
	h.lastOp = op
	h.lastOrigin = c.Origin
	h.lastModTime = now
}

// closeSelection records the selection after the latest event.
func (h *history) closeSelection(sel Selection) {
	if len(h.done) > 0 {
		h.done[len(h.done)-1].selAfter = sel.clone()
	}
}

// split forces the next change into a new event.
func (h *history) split() {
	h.lastOp = 0
	h.lastOrigin = ""
}

// HistorySize reports the number of undo and redo events.
func (d *Doc) HistorySize() (undo, redo int) {
	return len(d.hist.done), len(d.hist.undone)
}

// ClearHistory drops all undo and redo events.
func (d *Doc) ClearHistory() {
	d.hist.done = nil
	d.hist.undone = nil
	d.hist.split()
}

// SetUndoDepth changes the history bound, trimming old events. A depth of
// 0 keeps no history.
func (d *Doc) SetUndoDepth(depth int) {
	depth = max(depth, 0)
	d.hist.depth = depth
	if len(d.hist.done) > depth {
		d.hist.done = d.hist.done[len(d.hist.done)-depth:]
	}
}

// SetHistoryEventDelay changes how long typing merges into one event.
func (d *Doc) SetHistoryEventDelay(delay time.Duration) {
	if delay > 0 {
		d.hist.delay = delay
	}
}

// ChangeGeneration returns a token for the current state. With closeEvent
// the next change starts a new undo event.
func (d *Doc) ChangeGeneration(closeEvent bool) int {
	if closeEvent {
		d.hist.split()
	}
	return d.hist.generation
}

// MarkClean records the current state as clean.
func (d *Doc) MarkClean() {
	d.cleanAt = d.ChangeGeneration(true)
}

// IsClean reports whether the document is in the state recorded by
// MarkClean, or by the given generation when gen is non-zero.
func (d *Doc) IsClean(gen int) bool {
	if gen == 0 {
		gen = d.cleanAt
	}
	return d.hist.generation == gen
}

// Undo reverts the last event.
func (d *Doc) Undo() error {
	if len(d.hist.done) == 0 {
		return ErrNothingToUndo
	}
	return d.replay(OriginUndo)
}

// Redo reapplies the last undone event.
func (d *Doc) Redo() error {
	if len(d.hist.undone) == 0 {
		return ErrNothingToRedo
	}
	return d.replay(OriginRedo)
}

// replay pops an event from one stack, applies its inverse and pushes the
// inverse onto the other stack.
func (d *Doc) replay(origin string) error {
	if d.editor != nil && d.editor.suppressEdits {
		return ErrReadOnly
	}
	src, dst := &d.hist.done, &d.hist.undone
	if origin == OriginRedo {
		src, dst = dst, src
	}
	ev := (*src)[len(*src)-1]
	*src = (*src)[:len(*src)-1]

	anti := &histEvent{selBefore: ev.selAfter, selAfter: ev.selBefore, generation: d.hist.generation}

	d.startOp()
	defer d.endOp()
	for i := len(ev.changes) - 1; i >= 0; i-- {
		c := ev.changes[i]
		end := c.End()
		if d.hasBeforeChange() {
			bc := &BeforeChange{From: c.From, To: end, Text: copyStrings(c.Removed), Origin: origin}
			d.emitBeforeChange(bc)
			if bc.cancelled {
				*src = nil
				return ErrChangeCancelled
			}
		}
		inv := d.applyChange(c.From, end, c.Removed, origin)
		d.restoreMarks(c.marks)
		anti.changes = append(anti.changes, inv)
	}

	*dst = append(*dst, anti)
	d.hist.generation = ev.generation
	d.hist.split()

	sel := ev.selBefore
	if len(sel.Ranges) == 0 {
		sel = Selection{Ranges: []pos.Range{pos.Cursor(anti.changes[len(anti.changes)-1].End())}}
	}
	d.setSelectionInner(sel.clone(), CursorOptions{Origin: origin}, false)
	return nil
}
