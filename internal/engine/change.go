package engine

import "github.com/dshills/mirror/internal/pos"

// Origins used by the engine itself.
const (
	OriginSetValue  = "setValue"
	OriginUndo      = "undo"
	OriginRedo      = "redo"
	OriginInput     = "+input"
	OriginDelete    = "+delete"
	OriginPaste     = "paste"
	OriginMove      = "+move"
	OriginTranspose = "+transpose"
)

// Change describes an applied edit. To is the end of the replaced range
// before the edit; End is the end of the inserted text after it.
type Change struct {
	From    pos.Position
	To      pos.Position
	Text    []string
	Removed []string
	Origin  string

	marks []markSnapshot
}

// End returns the position just after the inserted text.
func (c *Change) End() pos.Position {
	return changeEnd(c.From, c.Text)
}

func changeEnd(from pos.Position, text []string) pos.Position {
	n := len(text)
	if n == 1 {
		return pos.New(from.Line, from.Ch+len(text[0]))
	}
	return pos.New(from.Line+n-1, len(text[n-1]))
}

// mapPos moves p through c. Positions inside the replaced range go to the
// end of the inserted text.
func mapPos(p pos.Position, c *Change) pos.Position {
	if pos.Less(p, c.From) {
		return p
	}
	if pos.Compare(p, c.To) <= 0 {
		return c.End()
	}
	return shiftPos(p, c)
}

// shiftPos moves a position after c.To by the size difference of c.
func shiftPos(p pos.Position, c *Change) pos.Position {
	end := c.End()
	line := p.Line + end.Line - c.To.Line
	ch := p.Ch
	if p.Line == c.To.Line {
		ch = end.Ch + p.Ch - c.To.Ch
	}
	return pos.Position{Line: line, Ch: ch, Sticky: p.Sticky}
}

// BeforeChange is handed to beforeChange listeners, which may cancel the
// change or, when CanUpdate is true, rewrite it.
type BeforeChange struct {
	From   pos.Position
	To     pos.Position
	Text   []string
	Origin string

	updatable bool
	updated   bool
	cancelled bool
}

// Cancel stops the change.
func (b *BeforeChange) Cancel() {
	b.cancelled = true
}

// Cancelled reports whether a listener cancelled the change.
func (b *BeforeChange) Cancelled() bool {
	return b.cancelled
}

// CanUpdate reports whether Update has any effect. Changes replayed from
// history cannot be rewritten.
func (b *BeforeChange) CanUpdate() bool {
	return b.updatable
}

// Update rewrites the change. A nil text leaves the text unchanged.
func (b *BeforeChange) Update(from, to pos.Position, text []string) {
	if !b.updatable {
		return
	}
	b.From, b.To = from, to
	if text != nil {
		b.Text = copyStrings(text)
	}
	b.updated = true
}
