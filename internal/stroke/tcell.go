package stroke

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a terminal key event into a stroke. It returns false for
// keys with no stroke equivalent.
func FromTcell(ev *tcell.EventKey) (Stroke, bool) {
	if ev == nil {
		return Stroke{}, false
	}
	mods := convertTcellMod(ev.Modifiers())
	k := ev.Key()

	switch k {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return Stroke{Mods: mods, Key: KeySpace}, true
		}
		if unicode.IsUpper(r) {
			mods = mods.With(ModShift)
		}
		return Stroke{Mods: mods, Key: string(unicode.ToUpper(r))}, true
	case tcell.KeyEnter:
		return Stroke{Mods: mods, Key: KeyEnter}, true
	case tcell.KeyTab:
		return Stroke{Mods: mods, Key: KeyTab}, true
	case tcell.KeyBacktab:
		return Stroke{Mods: mods.With(ModShift), Key: KeyTab}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Stroke{Mods: mods, Key: KeyBackspace}, true
	case tcell.KeyEscape:
		return Stroke{Mods: mods, Key: KeyEsc}, true
	case tcell.KeyDelete:
		return Stroke{Mods: mods, Key: KeyDelete}, true
	case tcell.KeyInsert:
		return Stroke{Mods: mods, Key: KeyInsert}, true
	case tcell.KeyHome:
		return Stroke{Mods: mods, Key: KeyHome}, true
	case tcell.KeyEnd:
		return Stroke{Mods: mods, Key: KeyEnd}, true
	case tcell.KeyPgUp:
		return Stroke{Mods: mods, Key: KeyPageUp}, true
	case tcell.KeyPgDn:
		return Stroke{Mods: mods, Key: KeyPageDown}, true
	case tcell.KeyUp:
		return Stroke{Mods: mods, Key: KeyUp}, true
	case tcell.KeyDown:
		return Stroke{Mods: mods, Key: KeyDown}, true
	case tcell.KeyLeft:
		return Stroke{Mods: mods, Key: KeyLeft}, true
	case tcell.KeyRight:
		return Stroke{Mods: mods, Key: KeyRight}, true
	case tcell.KeyCtrlSpace:
		return Stroke{Mods: mods.With(ModCtrl), Key: KeySpace}, true
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return Stroke{Mods: mods, Key: fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1)}, true
	}
	// Control letters arrive as ASCII control codes. Tab, Enter and Backspace
	// share codes with Ctrl-I, Ctrl-M and Ctrl-H and were handled above.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		letter := 'A' + rune(k-tcell.KeyCtrlA)
		return Stroke{Mods: mods.With(ModCtrl), Key: string(letter)}, true
	}
	return Stroke{}, false
}

func convertTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModCmd)
	}
	return mods
}
