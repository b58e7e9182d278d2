package engine

import (
	"errors"
	"strings"

	"github.com/dshills/mirror/internal/keymap"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/stroke"
)

// AddKeyMap layers m over the option key maps. Maps added later take
// precedence unless bottom is set.
func (e *Editor) AddKeyMap(m *KeyMap, bottom bool) {
	if m == nil {
		return
	}
	if bottom {
		e.extra = append(e.extra, m)
		return
	}
	e.extra = append([]*KeyMap{m}, e.extra...)
}

// RemoveKeyMap removes an added map by identity or by name.
func (e *Editor) RemoveKeyMap(m *KeyMap, name string) bool {
	for i, x := range e.extra {
		if (m != nil && x == m) || (m == nil && name != "" && x.Name() == name) {
			e.extra = append(e.extra[:i:i], e.extra[i+1:]...)
			return true
		}
	}
	return false
}

// PendingKeys returns the prefix of a multi-stroke binding typed so far.
func (e *Editor) PendingKeys() stroke.MultiStroke {
	return append(stroke.MultiStroke(nil), e.pending...)
}

// HandleKeys parses a space-separated key description and feeds each
// stroke to HandleKey. It reports whether the last stroke was consumed.
func (e *Editor) HandleKeys(keys string) (bool, error) {
	seq, err := stroke.ParseMultiWith(keys, stroke.Options{Mac: e.mac})
	if err != nil {
		return false, err
	}
	var handled bool
	for _, s := range seq {
		handled = e.HandleKey(s)
	}
	return handled, nil
}

// HandleKey dispatches one stroke. Added key maps are consulted first, then
// extraKeys, then the keyMap option. A stroke that completes no binding but
// types a character inserts it. It reports whether the stroke was consumed.
func (e *Editor) HandleKey(s stroke.Stroke) bool {
	if d := e.activePrompt(); d != nil {
		return d.handleKey(s)
	}

	if len(e.pending) > 0 {
		seq := e.pending.Append(s)
		e.pending = nil
		if e.dispatch(seq, s) {
			return true
		}
	}
	if e.dispatch(stroke.MultiStroke{s}, s) {
		return true
	}

	if r, ok := s.Rune(); ok {
		if err := e.TypeText(string(r)); err != nil {
			e.logger.Debug("typing %q: %v", string(r), err)
		}
		return true
	}
	return false
}

// dispatch resolves seq. A shifted stroke with no binding of its own retries
// without Shift, running only motions, which then extend the selection.
func (e *Editor) dispatch(seq stroke.MultiStroke, s stroke.Stroke) bool {
	if len(seq) == 1 && s.Mods.Has(stroke.ModShift) && s.Key != "" && !isTypedShift(s) {
		if e.dispatchSeq(seq, func(b keymap.Binding[CommandFunc]) bool { return e.runBinding(b, false) }) {
			return true
		}
		plain := stroke.MultiStroke{{Mods: s.Mods.Without(stroke.ModShift), Key: s.Key}}
		return e.dispatchSeq(plain, func(b keymap.Binding[CommandFunc]) bool {
			if b.HasFunc || !isMotion(b.Command) {
				return false
			}
			return e.runBinding(b, true)
		})
	}
	return e.dispatchSeq(seq, func(b keymap.Binding[CommandFunc]) bool { return e.runBinding(b, false) })
}

// isTypedShift reports whether s is Shift plus a printable key, which types
// a character rather than modifying a motion.
func isTypedShift(s stroke.Stroke) bool {
	_, ok := s.Rune()
	return ok
}

func isMotion(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "go") && name[2] >= 'A' && name[2] <= 'Z'
}

func (e *Editor) dispatchSeq(seq stroke.MultiStroke, handle keymap.Handler[CommandFunc]) bool {
	res := e.lookup(seq, handle)
	switch res.Kind {
	case keymap.Multi:
		e.pending = seq
		return true
	case keymap.Handled:
		e.Emit(EventKeyHandled, e, seq.String())
		return true
	case keymap.Nothing:
		return true
	}
	return false
}

func (e *Editor) lookup(seq stroke.MultiStroke, handle keymap.Handler[CommandFunc]) keymap.Result[CommandFunc] {
	for _, m := range e.extra {
		if res := e.keyMaps.LookupMap(m, seq, handle); res.Kind != keymap.None {
			return res
		}
	}
	if km, _ := e.options["extraKeys"].(*KeyMap); km != nil {
		if res := e.keyMaps.LookupMap(km, seq, handle); res.Kind != keymap.None {
			return res
		}
	}
	name, _ := e.options["keyMap"].(string)
	return e.keyMaps.Lookup(seq, handle, name)
}

// runBinding executes b with edits suppressed while the editor is
// read-only. It returns false when the binding declined.
func (e *Editor) runBinding(b keymap.Binding[CommandFunc], shift bool) bool {
	fn := b.Func
	if !b.HasFunc {
		var ok bool
		if fn, ok = e.commands.Get(b.Command); !ok {
			e.logger.Debug("key bound to unknown command %q", b.Command)
			return false
		}
	}
	prevShift, prevSuppress := e.shift, e.suppressEdits
	e.shift = shift
	e.suppressEdits = e.IsReadOnly()
	defer func() {
		e.shift, e.suppressEdits = prevShift, prevSuppress
	}()

	err := fn(e)
	if errors.Is(err, ErrPass) {
		return false
	}
	if err != nil {
		e.logger.Debug("command %s: %v", b, err)
	}
	return true
}

// TypeText inserts text at every range as typed input. In overwrite mode
// an empty range replaces the character after it.
func (e *Editor) TypeText(text string) error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	d := e.doc
	var err error
	var last *Change
	d.Batch(func() {
		before := len(d.op.changes)
		if e.overwrite && !strings.Contains(text, "\n") {
			ranges := d.Selections()
			for i, r := range ranges {
				if r.Empty() {
					line := d.lines[d.index(r.Head.Line)].text
					if r.Head.Ch < len(line) {
						ranges[i] = pos.NewRange(r.Head, pos.New(r.Head.Line, pos.NextCluster(line, r.Head.Ch)))
					}
				}
			}
			d.setSelectionInner(Selection{Ranges: ranges, Primary: d.sel.Primary}, CursorOptions{}, false)
		}
		err = d.ReplaceSelections(repeatText(d.sel.Ranges, text), "end", OriginInput)
		if n := len(d.op.changes); n > before {
			last = d.op.changes[n-1]
		}
	})
	if last != nil {
		e.Emit(EventInputRead, e, last)
	}
	return err
}
