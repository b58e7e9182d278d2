package engine

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/mirror/internal/pos"
)

// Commands is a table of named editor commands. It is safe to share
// between editors.
type Commands struct {
	mu   sync.RWMutex
	cmds map[string]CommandFunc
	// shadowed holds, per name, the definitions hidden by later ones,
	// innermost last.
	shadowed map[string][]CommandFunc
}

// NewCommands creates a table holding the builtin commands.
func NewCommands() *Commands {
	c := &Commands{
		cmds:     make(map[string]CommandFunc, len(builtinCommands)),
		shadowed: make(map[string][]CommandFunc),
	}
	for name, fn := range builtinCommands {
		c.cmds[name] = fn
	}
	return c
}

// Define adds a command. A command already defined under name is shadowed
// until the new one is removed.
func (c *Commands) Define(name string, fn CommandFunc) error {
	if name == "" {
		return ErrEmptyCommandName
	}
	if fn == nil {
		return ErrNilCommand
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.cmds[name]; ok {
		c.shadowed[name] = append(c.shadowed[name], prev)
	}
	c.cmds[name] = fn
	return nil
}

// Get returns the named command.
func (c *Commands) Get(name string) (CommandFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.cmds[name]
	return fn, ok
}

// Has reports whether name is defined.
func (c *Commands) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Remove deletes the current definition of name and restores the one it
// shadowed. A builtin that shadows nothing is removed outright.
func (c *Commands) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cmds[name]; !ok {
		return false
	}
	if stack := c.shadowed[name]; len(stack) > 0 {
		c.cmds[name] = stack[len(stack)-1]
		if len(stack) == 1 {
			delete(c.shadowed, name)
		} else {
			c.shadowed[name] = stack[:len(stack)-1]
		}
		return true
	}
	delete(c.cmds, name)
	return true
}

// Names returns every command name, sorted.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.cmds))
	for name := range c.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltinCommand reports whether name is one of the engine's commands.
func IsBuiltinCommand(name string) bool {
	_, ok := builtinCommands[name]
	return ok
}

var builtinCommands map[string]CommandFunc

func init() {
	builtinCommands = map[string]CommandFunc{
		"selectAll": func(e *Editor) error {
			d := e.doc
			d.SetSelection(pos.New(d.first, 0), d.docEnd(), CursorOptions{Origin: OriginMove})
			return nil
		},
		"singleSelection": func(e *Editor) error {
			r := e.doc.sel.PrimaryRange()
			e.doc.SetSelection(r.Anchor, r.Head, CursorOptions{})
			return nil
		},
		"killLine": func(e *Editor) error {
			d := e.doc
			return e.deleteNear(func(r pos.Range) pos.Range {
				if !r.Empty() {
					return r
				}
				end := d.lineEnd(r.Head.Line)
				if r.Head.Ch == end.Ch && r.Head.Line < d.LastLine() {
					return pos.NewRange(r.Head, pos.New(r.Head.Line+1, 0))
				}
				return pos.NewRange(r.Head, end)
			})
		},
		"deleteLine": func(e *Editor) error {
			d := e.doc
			return e.deleteNear(func(r pos.Range) pos.Range {
				return pos.NewRange(pos.New(r.From().Line, 0), d.ClipPos(pos.New(r.To().Line+1, 0)))
			})
		},
		"delLineLeft": func(e *Editor) error {
			return e.deleteNear(func(r pos.Range) pos.Range {
				return pos.NewRange(pos.New(r.From().Line, 0), r.From())
			})
		},
		"delLineRight": func(e *Editor) error {
			d := e.doc
			return e.deleteNear(func(r pos.Range) pos.Range {
				if !r.Empty() {
					return r
				}
				return pos.NewRange(r.Head, d.lineEnd(r.Head.Line))
			})
		},
		"undo":          undoCommand,
		"redo":          redoCommand,
		"undoSelection": undoCommand,
		"redoSelection": redoCommand,
		"goDocStart": func(e *Editor) error {
			first := pos.New(e.doc.first, 0)
			e.moveEach(func(pos.Range) pos.Position { return first }, -1)
			return nil
		},
		"goDocEnd": func(e *Editor) error {
			end := e.doc.docEnd()
			e.moveEach(func(pos.Range) pos.Position { return end }, 1)
			return nil
		},
		"goLineStart": func(e *Editor) error {
			e.moveEach(func(r pos.Range) pos.Position { return pos.New(r.Head.Line, 0) }, 1)
			return nil
		},
		"goLineStartSmart": func(e *Editor) error {
			e.moveEach(func(r pos.Range) pos.Position { return e.doc.smartLineStart(r.Head) }, 1)
			return nil
		},
		"goLineEnd": func(e *Editor) error {
			e.moveEach(func(r pos.Range) pos.Position { return e.doc.lineEnd(r.Head.Line) }, -1)
			return nil
		},
		"goCharLeft":   func(e *Editor) error { e.moveH(-1, UnitChar); return nil },
		"goCharRight":  func(e *Editor) error { e.moveH(1, UnitChar); return nil },
		"goWordLeft":   func(e *Editor) error { e.moveH(-1, UnitWord); return nil },
		"goWordRight":  func(e *Editor) error { e.moveH(1, UnitWord); return nil },
		"goGroupLeft":  func(e *Editor) error { e.moveH(-1, UnitGroup); return nil },
		"goGroupRight": func(e *Editor) error { e.moveH(1, UnitGroup); return nil },
		"goLineUp":     func(e *Editor) error { e.moveV(-1, UnitLine); return nil },
		"goLineDown":   func(e *Editor) error { e.moveV(1, UnitLine); return nil },
		"goPageUp":     func(e *Editor) error { e.moveV(-1, UnitPage); return nil },
		"goPageDown":   func(e *Editor) error { e.moveV(1, UnitPage); return nil },

		"delCharBefore":  func(e *Editor) error { return e.deleteH(-1, UnitChar) },
		"delCharAfter":   func(e *Editor) error { return e.deleteH(1, UnitChar) },
		"delWordBefore":  func(e *Editor) error { return e.deleteH(-1, UnitWord) },
		"delWordAfter":   func(e *Editor) error { return e.deleteH(1, UnitWord) },
		"delGroupBefore": func(e *Editor) error { return e.deleteH(-1, UnitGroup) },
		"delGroupAfter":  func(e *Editor) error { return e.deleteH(1, UnitGroup) },

		"newlineAndIndent": newlineAndIndent,
		"newlineAndIndentContinue": func(e *Editor) error {
			return newlineAndIndent(e)
		},
		"insertTab": func(e *Editor) error {
			return e.replaceEach(func(pos.Range) string { return "\t" })
		},
		"insertSoftTab": func(e *Editor) error {
			ts := e.tabSize()
			return e.replaceEach(func(r pos.Range) string {
				from := r.From()
				col := pos.CountColumn(e.doc.lines[e.doc.index(from.Line)].text, from.Ch, ts)
				return strings.Repeat(" ", ts-col%ts)
			})
		},
		"defaultTab": func(e *Editor) error {
			if e.doc.SomethingSelected() {
				return e.IndentSelection(IndentAdd)
			}
			return e.replaceEach(func(pos.Range) string { return "\t" })
		},
		"indentMore":     func(e *Editor) error { return e.IndentSelection(IndentAdd) },
		"indentLess":     func(e *Editor) error { return e.IndentSelection(IndentSubtract) },
		"indentAuto":     func(e *Editor) error { return e.IndentSelection(IndentSmart) },
		"transposeChars": transposeChars,
		"openLine": func(e *Editor) error {
			return e.doc.ReplaceSelections(repeatText(e.doc.sel.Ranges, e.doc.joinSep()), "start", OriginInput)
		},
		"toggleOverwrite": func(e *Editor) error { e.ToggleOverwrite(); return nil },

		"find":           findCommand,
		"findPersistent": findCommand,
		"findNext":       func(e *Editor) error { return findStep(e, 1) },
		"findPrev":       func(e *Editor) error { return findStep(e, -1) },
		"clearSearch":    func(e *Editor) error { e.ClearSearch(); return nil },
	}
	builtinCommands["goLineLeft"] = builtinCommands["goLineStart"]
	builtinCommands["goLineRight"] = builtinCommands["goLineEnd"]
}

func undoCommand(e *Editor) error {
	if err := e.doc.Undo(); err != nil && !errors.Is(err, ErrNothingToUndo) {
		return err
	}
	return nil
}

func redoCommand(e *Editor) error {
	if err := e.doc.Redo(); err != nil && !errors.Is(err, ErrNothingToRedo) {
		return err
	}
	return nil
}

func repeatText(ranges []pos.Range, text string) []string {
	out := make([]string, len(ranges))
	for i := range out {
		out[i] = text
	}
	return out
}

// replaceEach replaces every range with the text fn returns, typed as input.
func (e *Editor) replaceEach(fn func(r pos.Range) string) error {
	texts := make([]string, len(e.doc.sel.Ranges))
	for i, r := range e.doc.sel.Ranges {
		texts[i] = fn(r)
	}
	return e.doc.ReplaceSelections(texts, "end", OriginInput)
}

func newlineAndIndent(e *Editor) error {
	d := e.doc
	var err error
	d.Batch(func() {
		if err = d.ReplaceSelections(repeatText(d.sel.Ranges, d.joinSep()), "end", OriginInput); err != nil {
			return
		}
		for _, r := range d.Selections() {
			if ierr := e.IndentLine(r.From().Line, IndentSmart); ierr != nil && err == nil {
				err = ierr
			}
		}
	})
	return err
}

func transposeChars(e *Editor) error {
	d := e.doc
	var err error
	d.Batch(func() {
		ranges := d.Selections()
		for i, r := range ranges {
			if !r.Empty() {
				continue
			}
			cur := r.Head
			text := d.lines[d.index(cur.Line)].text
			if text == "" {
				continue
			}
			if cur.Ch == len(text) {
				cur.Ch = pos.PrevCluster(text, cur.Ch)
			}
			if cur.Ch > 0 {
				start := pos.PrevCluster(text, cur.Ch)
				end := pos.NextCluster(text, cur.Ch)
				swapped := text[cur.Ch:end] + text[start:cur.Ch]
				if _, cerr := d.makeChange(pos.New(cur.Line, start), pos.New(cur.Line, end), []string{swapped}, OriginTranspose, nil); cerr != nil {
					err = cerr
					continue
				}
				ranges[i] = pos.Cursor(pos.New(cur.Line, end))
				continue
			}
			if cur.Line <= d.first {
				continue
			}
			prev := d.lines[d.index(cur.Line-1)].text
			if prev == "" {
				continue
			}
			last := pos.PrevCluster(prev, len(prev))
			firstEnd := pos.NextCluster(text, 0)
			repl := []string{text[:firstEnd], prev[last:]}
			if _, cerr := d.makeChange(pos.New(cur.Line-1, last), pos.New(cur.Line, firstEnd), repl, OriginTranspose, nil); cerr != nil {
				err = cerr
				continue
			}
			ranges[i] = pos.Cursor(pos.New(cur.Line, firstEnd))
		}
		d.setSelectionInner(Selection{Ranges: ranges, Primary: d.sel.Primary}, CursorOptions{Origin: OriginTranspose}, false)
	})
	return err
}

// IndentHow selects how IndentLine computes the new indentation.
type IndentHow string

const (
	// IndentPrev copies the previous line's indentation.
	IndentPrev IndentHow = "prev"
	// IndentSmart asks the mode. Modes are not executed, so it behaves like
	// IndentPrev.
	IndentSmart IndentHow = "smart"
	// IndentAdd adds one indentUnit.
	IndentAdd IndentHow = "add"
	// IndentSubtract removes one indentUnit.
	IndentSubtract IndentHow = "subtract"
)

// IndentLine re-indents line n.
func (e *Editor) IndentLine(n int, how IndentHow) error {
	d := e.doc
	if !d.validLine(n) {
		return ErrLineOutOfRange
	}
	ts := e.tabSize()
	text := d.lines[d.index(n)].text
	cur := pos.CountColumn(text, len(leadingSpace(text)), ts)
	var target int
	switch how {
	case IndentAdd:
		target = cur + e.intOption("indentUnit")
	case IndentSubtract:
		target = cur - e.intOption("indentUnit")
	default:
		if n > d.first {
			prev := d.lines[d.index(n-1)].text
			target = pos.CountColumn(prev, len(leadingSpace(prev)), ts)
		}
	}
	return e.setIndentation(n, target)
}

// IndentLineBy changes the indentation of line n by delta columns.
func (e *Editor) IndentLineBy(n, delta int) error {
	d := e.doc
	if !d.validLine(n) {
		return ErrLineOutOfRange
	}
	text := d.lines[d.index(n)].text
	cur := pos.CountColumn(text, len(leadingSpace(text)), e.tabSize())
	return e.setIndentation(n, cur+delta)
}

func (e *Editor) setIndentation(n, target int) error {
	d := e.doc
	target = max(target, 0)
	ts := e.tabSize()
	var b strings.Builder
	if e.boolOption("indentWithTabs") {
		b.WriteString(strings.Repeat("\t", target/ts))
		target %= ts
	}
	b.WriteString(strings.Repeat(" ", target))
	indent := b.String()

	text := d.lines[d.index(n)].text
	old := leadingSpace(text)
	if old == indent {
		return nil
	}
	var err error
	d.Batch(func() {
		if _, err = d.makeChange(pos.New(n, 0), pos.New(n, len(old)), []string{indent}, OriginInput, nil); err != nil {
			return
		}
		ranges := d.Selections()
		moved := false
		for i, r := range ranges {
			if r.Empty() && r.Head.Line == n && r.Head.Ch < len(indent) {
				ranges[i] = pos.Cursor(pos.New(n, len(indent)))
				moved = true
			}
		}
		if moved {
			d.setSelectionInner(Selection{Ranges: ranges, Primary: d.sel.Primary}, CursorOptions{}, false)
		}
	})
	return err
}

// IndentSelection re-indents every line touched by a range. An empty range
// indents its own line.
func (e *Editor) IndentSelection(how IndentHow) error {
	d := e.doc
	var err error
	d.Batch(func() {
		done := -1 << 31
		for _, r := range d.Selections() {
			from, to := r.From().Line, r.To().Line
			if !r.Empty() && to > from && r.To().Ch == 0 {
				to--
			}
			for n := max(from, done+1); n <= to; n++ {
				if ierr := e.IndentLine(n, how); ierr != nil && err == nil {
					err = ierr
				}
				done = n
			}
		}
	})
	return err
}
