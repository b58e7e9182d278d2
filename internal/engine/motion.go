package engine

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/mirror/internal/pos"
)

// Motion units for horizontal movement and deletion.
const (
	UnitChar  = "char"
	UnitWord  = "word"
	UnitGroup = "group"
)

// Motion units for vertical movement.
const (
	UnitLine = "line"
	UnitPage = "page"
)

// charClass groups characters for word and group motions.
type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classAt(text string, i int) charClass {
	r, _ := utf8.DecodeRuneInString(text[i:])
	return classOf(r)
}

func classBefore(text string, i int) charClass {
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return classOf(r)
}

func classOf(r rune) charClass {
	switch {
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classPunct
	}
}

// FindPosH returns the position reached by moving from p in direction dir
// (-1 or 1) by one unit: UnitChar, UnitWord or UnitGroup. The first step may
// cross a line break; word and group motions then stay on the line.
func (d *Doc) FindPosH(p pos.Position, dir int, unit string) pos.Position {
	p = d.ClipPos(p)
	text := d.lines[d.index(p.Line)].text
	atEdge := (dir < 0 && p.Ch == 0) || (dir > 0 && p.Ch == len(text))
	if atEdge || unit == UnitChar {
		next, _ := d.movePos(p, dir)
		if unit == UnitChar || pos.Equal(next, p) {
			return next
		}
		p = next
		text = d.lines[d.index(p.Line)].text
	}

	ch := p.Ch
	if dir > 0 {
		switch unit {
		case UnitWord:
			for ch < len(text) && classAt(text, ch) != classWord {
				ch = pos.NextCluster(text, ch)
			}
			for ch < len(text) && classAt(text, ch) == classWord {
				ch = pos.NextCluster(text, ch)
			}
		default:
			if ch < len(text) {
				c := classAt(text, ch)
				for ch < len(text) && classAt(text, ch) == c {
					ch = pos.NextCluster(text, ch)
				}
			}
		}
		return pos.New(p.Line, ch)
	}
	switch unit {
	case UnitWord:
		for ch > 0 && classBefore(text, ch) != classWord {
			ch = pos.PrevCluster(text, ch)
		}
		for ch > 0 && classBefore(text, ch) == classWord {
			ch = pos.PrevCluster(text, ch)
		}
	default:
		if ch > 0 {
			c := classBefore(text, ch)
			for ch > 0 && classBefore(text, ch) == c {
				ch = pos.PrevCluster(text, ch)
			}
		}
	}
	return pos.New(p.Line, ch)
}

// findPosV moves p by amount lines in direction dir keeping display column
// goal. Moving past either end lands on the document's start or end.
func (d *Doc) findPosV(p pos.Position, dir, amount, goal, tabSize int) pos.Position {
	line := p.Line + dir*amount
	if line < d.first {
		return pos.New(d.first, 0)
	}
	if line > d.LastLine() {
		last := d.LastLine()
		return pos.New(last, len(d.lines[d.index(last)].text))
	}
	text := d.lines[d.index(line)].text
	return pos.New(line, pos.FindColumn(text, goal, tabSize))
}

// moveH moves or extends every range horizontally. A non-empty range
// collapses to its edge in the direction of movement when not extending.
func (e *Editor) moveH(dir int, unit string) {
	d := e.doc
	ext := e.extending()
	ranges := d.Selections()
	for i, r := range ranges {
		switch {
		case ext:
			ranges[i] = pos.NewRange(r.Anchor, d.FindPosH(r.Head, dir, unit))
		case !r.Empty():
			if dir < 0 {
				ranges[i] = pos.Cursor(r.From())
			} else {
				ranges[i] = pos.Cursor(r.To())
			}
		default:
			ranges[i] = pos.Cursor(d.FindPosH(r.Head, dir, unit))
		}
	}
	d.SetSelections(ranges, d.sel.Primary, CursorOptions{Origin: OriginMove, Bias: dir, Scroll: true})
}

// moveV moves or extends every range vertically, keeping each range's goal
// column across consecutive vertical motions.
func (e *Editor) moveV(dir int, unit string) {
	d := e.doc
	amount := 1
	if unit == UnitPage {
		amount = e.pageLines
	}
	ts := e.tabSize()
	ext := e.extending()
	ranges := d.Selections()
	goals := e.goals
	if len(goals) != len(ranges) {
		goals = make([]int, len(ranges))
		for i, r := range ranges {
			text := d.lines[d.index(r.Head.Line)].text
			goals[i] = pos.CountColumn(text, r.Head.Ch, ts)
		}
	}
	for i, r := range ranges {
		head := d.findPosV(r.Head, dir, amount, goals[i], ts)
		if ext {
			ranges[i] = pos.NewRange(r.Anchor, head)
		} else {
			ranges[i] = pos.Cursor(head)
		}
	}
	d.Batch(func() {
		d.SetSelections(ranges, d.sel.Primary, CursorOptions{Origin: OriginMove, Bias: dir, Scroll: true})
		if len(d.sel.Ranges) == len(goals) {
			e.goals = goals
			e.goalSel = d.sel.clone()
		}
	})
}

// moveEach moves or extends every range to the position fn returns.
func (e *Editor) moveEach(fn func(r pos.Range) pos.Position, bias int) {
	d := e.doc
	ext := e.extending()
	ranges := d.Selections()
	for i, r := range ranges {
		head := fn(r)
		if ext {
			ranges[i] = pos.NewRange(r.Anchor, head)
		} else {
			ranges[i] = pos.Cursor(head)
		}
	}
	d.SetSelections(ranges, d.sel.Primary, CursorOptions{Origin: OriginMove, Bias: bias, Scroll: true})
}

// deleteNear deletes the range compute returns for every selected range.
// Overlapping ranges are merged first.
func (e *Editor) deleteNear(compute func(r pos.Range) pos.Range) error {
	d := e.doc
	kill := make([]pos.Range, 0, len(d.sel.Ranges))
	for _, r := range d.sel.Ranges {
		k := compute(r)
		from, to := d.clipOrdered(k.From(), k.To())
		kill = append(kill, pos.NewRange(from, to))
	}
	sort.SliceStable(kill, func(i, j int) bool { return pos.Less(kill[i].From(), kill[j].From()) })
	merged := kill[:0]
	for _, k := range kill {
		if n := len(merged); n > 0 && pos.Compare(k.From(), merged[n-1].To()) <= 0 {
			merged[n-1] = pos.NewRange(merged[n-1].From(), pos.Max(merged[n-1].To(), k.To()))
			continue
		}
		merged = append(merged, k)
	}

	var firstErr error
	d.Batch(func() {
		for i := len(merged) - 1; i >= 0; i-- {
			k := merged[i]
			if _, err := d.makeChange(k.From(), k.To(), []string{""}, OriginDelete, nil); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

// deleteH deletes each selection, or the unit next to each empty cursor.
func (e *Editor) deleteH(dir int, unit string) error {
	d := e.doc
	return e.deleteNear(func(r pos.Range) pos.Range {
		if !r.Empty() {
			return r
		}
		return pos.NewRange(r.Head, d.FindPosH(r.Head, dir, unit))
	})
}

// lineEnd returns the end of line n.
func (d *Doc) lineEnd(n int) pos.Position {
	return pos.New(n, len(d.lines[d.index(n)].text))
}

// docEnd returns the end of the document.
func (d *Doc) docEnd() pos.Position {
	return d.lineEnd(d.LastLine())
}

// smartLineStart returns the first non-whitespace column of p's line, or
// column 0 when p is already there.
func (d *Doc) smartLineStart(p pos.Position) pos.Position {
	text := d.lines[d.index(p.Line)].text
	ws := len(leadingSpace(text))
	if ws == len(text) || p.Ch == ws {
		return pos.New(p.Line, 0)
	}
	return pos.New(p.Line, ws)
}
