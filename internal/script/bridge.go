package script

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mirror/internal/pos"
)

// toGo converts a Lua value to the Go shapes option values use: bool,
// int64, float64, string, []any and map[string]any.
func toGo(lv lua.LValue) any {
	return toGoVisited(lv, map[*lua.LTable]bool{})
}

func toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGo returns a slice for a table with keys 1..n and a map
// otherwise.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && count == n {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			out[i-1] = toGoVisited(t.RawGetInt(i), visited)
		}
		return out
	}

	out := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		out[key] = toGoVisited(v, visited)
	})
	return out
}

// toLua converts a Go value to Lua. Unknown types become their fmt
// representation.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, e := range val {
			t.Append(toLua(L, e))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, toLua(L, val[k]))
		}
		return t
	case pos.Position:
		return posToLua(L, val)
	case lua.LValue:
		return val
	case fmt.Stringer:
		return lua.LString(val.String())
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// posToLua returns {line = n, ch = n}.
func posToLua(L *lua.LState, p pos.Position) *lua.LTable {
	t := L.CreateTable(0, 2)
	t.RawSetString("line", lua.LNumber(p.Line))
	t.RawSetString("ch", lua.LNumber(p.Ch))
	return t
}

// checkPos reads a position at index n, either as a {line, ch} table or
// as two numbers. A missing ch means the end of the line.
func checkPos(L *lua.LState, n int) pos.Position {
	if t, ok := L.Get(n).(*lua.LTable); ok {
		line, ok := L.GetField(t, "line").(lua.LNumber)
		if !ok {
			L.ArgError(n, "position needs a numeric line")
		}
		ch, ok := L.GetField(t, "ch").(lua.LNumber)
		if !ok {
			return pos.NewLine(int(line))
		}
		return pos.New(int(line), int(ch))
	}
	line := L.CheckInt(n)
	if L.Get(n+1) == lua.LNil {
		return pos.NewLine(line)
	}
	return pos.New(line, L.CheckInt(n+1))
}
