package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mirror/internal/mirror"
	"github.com/dshills/mirror/internal/pos"
)

// newEditorTable builds the table a command body receives. Positions are
// {line = n, ch = n} tables.
func newEditorTable(L *lua.LState, e *mirror.Editor) *lua.LTable {
	t := L.NewTable()

	// arg returns the index of the n'th real argument, skipping the table
	// itself when the function was called as cm:fn().
	arg := func(L *lua.LState, n int) int {
		if L.Get(1) == t {
			return n + 1
		}
		return n
	}
	doc := func() *mirror.Document { return e.Doc() }

	fns := map[string]lua.LGFunction{
		"getValue": func(L *lua.LState) int {
			L.Push(lua.LString(e.Value()))
			return 1
		},
		"setValue": func(L *lua.LState) int {
			e.SetValue(L.CheckString(arg(L, 1)))
			return 0
		},
		"lineCount": func(L *lua.LState) int {
			L.Push(lua.LNumber(doc().LineCount()))
			return 1
		},
		"firstLine": func(L *lua.LState) int {
			L.Push(lua.LNumber(doc().FirstLine()))
			return 1
		},
		"lastLine": func(L *lua.LState) int {
			L.Push(lua.LNumber(doc().LastLine()))
			return 1
		},
		"getLine": func(L *lua.LState) int {
			n := L.CheckInt(arg(L, 1))
			d := doc()
			if n < d.FirstLine() || n > d.LastLine() {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(d.Line(n)))
			return 1
		},
		"setLine": func(L *lua.LState) int {
			n := L.CheckInt(arg(L, 1))
			text := L.CheckString(arg(L, 2))
			doc().ReplaceRange(text, pos.New(n, 0), pos.NewLine(n))
			return 0
		},
		"getRange": func(L *lua.LState) int {
			from := checkPos(L, arg(L, 1))
			to := checkPos(L, arg(L, 2))
			L.Push(lua.LString(doc().Range(from, to)))
			return 1
		},
		"replaceRange": func(L *lua.LState) int {
			text := L.CheckString(arg(L, 1))
			from := checkPos(L, arg(L, 2))
			to := from
			if L.Get(arg(L, 3)) != lua.LNil {
				to = checkPos(L, arg(L, 3))
			}
			doc().ReplaceRange(text, from, to)
			return 0
		},
		"getCursor": func(L *lua.LState) int {
			L.Push(posToLua(L, doc().Cursor(L.OptString(arg(L, 1), "head"))))
			return 1
		},
		"setCursor": func(L *lua.LState) int {
			doc().SetCursor(checkPos(L, arg(L, 1)), mirror.CursorOptions{})
			return 0
		},
		"setSelection": func(L *lua.LState) int {
			anchor := checkPos(L, arg(L, 1))
			head := anchor
			if L.Get(arg(L, 2)) != lua.LNil {
				head = checkPos(L, arg(L, 2))
			}
			doc().SetSelection(anchor, head, mirror.CursorOptions{})
			return 0
		},
		"somethingSelected": func(L *lua.LState) int {
			L.Push(lua.LBool(doc().SomethingSelected()))
			return 1
		},
		"getSelection": func(L *lua.LState) int {
			L.Push(lua.LString(doc().SelectedText(L.OptString(arg(L, 1), "\n"))))
			return 1
		},
		"replaceSelection": func(L *lua.LState) int {
			doc().ReplaceSelection(L.CheckString(arg(L, 1)), L.OptString(arg(L, 2), ""))
			return 0
		},
		"typeText": func(L *lua.LState) int {
			e.TypeText(L.CheckString(arg(L, 1)))
			return 0
		},
		"indentLine": func(L *lua.LState) int {
			how := L.OptString(arg(L, 2), "prev")
			e.IndentLine(L.CheckInt(arg(L, 1)), mirror.IndentHow(how))
			return 0
		},
		"undo": func(L *lua.LState) int {
			L.Push(lua.LBool(doc().Undo()))
			return 1
		},
		"redo": func(L *lua.LState) int {
			L.Push(lua.LBool(doc().Redo()))
			return 1
		},
		"hasFocus": func(L *lua.LState) int {
			L.Push(lua.LBool(e.HasFocus()))
			return 1
		},
		"getOption": func(L *lua.LState) int {
			v, ok := e.Options().Get(L.CheckString(arg(L, 1)))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLua(L, v))
			return 1
		},
		"setOption": func(L *lua.LState) int {
			name := L.CheckString(arg(L, 1))
			if err := e.Options().Set(name, toGo(L.Get(arg(L, 2)))); err != nil {
				L.RaiseError("setOption %s: %v", name, err)
			}
			return 0
		},
		"execCommand": func(L *lua.LState) int {
			err := e.ExecCommand(L.CheckString(arg(L, 1)))
			switch {
			case errors.Is(err, mirror.ErrPass):
				L.Push(lua.LFalse)
			case err != nil:
				L.RaiseError("%v", err)
			default:
				L.Push(lua.LTrue)
			}
			return 1
		},
	}
	for name, fn := range fns {
		t.RawSetString(name, L.NewFunction(fn))
	}
	return t
}
