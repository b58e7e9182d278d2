// Package pos defines document coordinates: positions, ranges and anchors.
//
// Lines and columns are zero-based. Columns count bytes from the start of the
// line, like the engine's storage. A column of EndOfLine stands for "the end of
// whatever the line currently holds" and is clipped by the engine on use.
package pos

import (
	"fmt"
	"math"
)

// EndOfLine is the column sentinel for "end of line". It compares greater
// than every real column.
const EndOfLine = math.MaxInt32

// Sticky says which side of its column a position associates with.
type Sticky uint8

const (
	// StickyNone means no association.
	StickyNone Sticky = iota
	// StickyBefore associates with the character before the column.
	StickyBefore
	// StickyAfter associates with the character after the column.
	StickyAfter
)

// String returns "before", "after" or "".
func (s Sticky) String() string {
	switch s {
	case StickyBefore:
		return "before"
	case StickyAfter:
		return "after"
	default:
		return ""
	}
}

// ParseSticky is the inverse of Sticky.String.
func ParseSticky(s string) Sticky {
	switch s {
	case "before":
		return StickyBefore
	case "after":
		return StickyAfter
	default:
		return StickyNone
	}
}

// Position is a line/column document coordinate.
type Position struct {
	Line   int
	Ch     int
	Sticky Sticky
}

// New returns the position at line, ch.
func New(line, ch int) Position {
	return Position{Line: line, Ch: ch}
}

// NewLine returns the position at the end of line.
func NewLine(line int) Position {
	return Position{Line: line, Ch: EndOfLine}
}

// WithSticky returns a copy of p with the given association.
func (p Position) WithSticky(s Sticky) Position {
	p.Sticky = s
	return p
}

// IsEndOfLine reports whether the column is the EndOfLine sentinel.
func (p Position) IsEndOfLine() bool {
	return p.Ch == EndOfLine
}

// String returns "(line:ch)".
func (p Position) String() string {
	if p.IsEndOfLine() {
		return fmt.Sprintf("(%d:eol)", p.Line)
	}
	return fmt.Sprintf("(%d:%d)", p.Line, p.Ch)
}

// Compare orders positions by line, then column. Sticky is ignored.
func Compare(a, b Position) int {
	switch {
	case a.Line < b.Line:
		return -1
	case a.Line > b.Line:
		return 1
	case a.Ch < b.Ch:
		return -1
	case a.Ch > b.Ch:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b name the same line and column.
func Equal(a, b Position) bool {
	return Compare(a, b) == 0
}

// Less reports whether a sorts before b.
func Less(a, b Position) bool {
	return Compare(a, b) < 0
}

// Min returns the earlier of a and b, preferring a on ties.
func Min(a, b Position) Position {
	if Compare(b, a) < 0 {
		return b
	}
	return a
}

// Max returns the later of a and b, preferring a on ties.
func Max(a, b Position) Position {
	if Compare(b, a) > 0 {
		return b
	}
	return a
}

// Range is a selection-shaped pair of positions. Anchor is the fixed end,
// Head the end that moves.
type Range struct {
	Anchor Position
	Head   Position
}

// NewRange returns the range anchor..head.
func NewRange(anchor, head Position) Range {
	return Range{Anchor: anchor, Head: head}
}

// Cursor returns an empty range at p.
func Cursor(p Position) Range {
	return Range{Anchor: p, Head: p}
}

// From returns the earlier end.
func (r Range) From() Position {
	return Min(r.Anchor, r.Head)
}

// To returns the later end.
func (r Range) To() Position {
	return Max(r.Anchor, r.Head)
}

// Empty reports whether the range selects nothing.
func (r Range) Empty() bool {
	return Equal(r.Anchor, r.Head)
}

// String returns "anchor-head".
func (r Range) String() string {
	return r.Anchor.String() + "-" + r.Head.String()
}

// Anchor is an immutable range whose ordered ends are fixed at construction.
type Anchor struct {
	anchor Position
	head   Position
	from   Position
	to     Position
}

// NewAnchor builds an Anchor, deriving from/to as the min/max of the two ends.
func NewAnchor(anchor, head Position) Anchor {
	return Anchor{
		anchor: anchor,
		head:   head,
		from:   Min(anchor, head),
		to:     Max(anchor, head),
	}
}

// AnchorOf converts a Range.
func AnchorOf(r Range) Anchor {
	return NewAnchor(r.Anchor, r.Head)
}

// Anchor returns the fixed end.
func (a Anchor) Anchor() Position { return a.anchor }

// Head returns the moving end.
func (a Anchor) Head() Position { return a.head }

// From returns the earlier end.
func (a Anchor) From() Position { return a.from }

// To returns the later end.
func (a Anchor) To() Position { return a.to }

// Empty reports whether from and to coincide.
func (a Anchor) Empty() bool { return Equal(a.from, a.to) }

// Range returns the anchor as a plain Range.
func (a Anchor) Range() Range { return Range{Anchor: a.anchor, Head: a.head} }

// String returns "from-to".
func (a Anchor) String() string {
	return a.from.String() + "-" + a.to.String()
}
