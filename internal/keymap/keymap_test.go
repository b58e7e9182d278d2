package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/stroke"
)

type fn func() bool

func seq(t *testing.T, s string) stroke.MultiStroke {
	t.Helper()
	m, err := stroke.ParseMulti(s)
	require.NoError(t, err)
	return m
}

func TestMapNormalizesKeys(t *testing.T) {
	m := NewMap[fn]("test")
	require.NoError(t, m.Bind("Alt-Ctrl-X", "one"))
	require.NoError(t, m.Bind("Ctrl-Alt-X", "two"))

	assert.Equal(t, 1, m.Len())
	b, ok := m.Get("ctrl-alt-x")
	require.True(t, ok)
	assert.Equal(t, "two", b.Command)
	assert.Equal(t, []string{"Ctrl-Alt-X"}, m.Keys())
}

func TestMapRejectsBadBindings(t *testing.T) {
	m := NewMap[fn]("test")
	assert.ErrorIs(t, m.Bind("Ctrl-Alt", "x"), stroke.ErrNoKey)
	assert.ErrorIs(t, m.Bind("Ctrl-S", ""), ErrEmptyCommand)
	assert.Equal(t, 0, m.Len())
}

func TestLookupKinds(t *testing.T) {
	tbl := NewTable[fn]()
	m := NewMap[fn]("main")
	require.NoError(t, m.Bind("Ctrl-S", "save"))
	require.NoError(t, m.Bind("Ctrl-K Ctrl-C", "toggleComment"))
	require.NoError(t, m.Set("Ctrl-Q", DisabledBinding[fn]()))
	require.NoError(t, tbl.Register(m))

	res := tbl.Lookup(seq(t, "Ctrl-S"), nil, "main")
	assert.Equal(t, Handled, res.Kind)
	assert.Equal(t, "save", res.Binding.Command)
	assert.Equal(t, "main", res.Map)

	assert.Equal(t, Multi, tbl.Lookup(seq(t, "Ctrl-K"), nil, "main").Kind)
	assert.Equal(t, Handled, tbl.Lookup(seq(t, "Ctrl-K Ctrl-C"), nil, "main").Kind)
	assert.Equal(t, Nothing, tbl.Lookup(seq(t, "Ctrl-Q"), nil, "main").Kind)
	assert.Equal(t, None, tbl.Lookup(seq(t, "Ctrl-W"), nil, "main").Kind)
	assert.Equal(t, None, tbl.Lookup(seq(t, "Ctrl-S"), nil, "missing").Kind)
}

func TestLookupFallthrough(t *testing.T) {
	tbl := NewTable[fn]()
	base := NewMap[fn]("base")
	require.NoError(t, base.Bind("Ctrl-A", "selectAll"))
	top := NewMap[fn]("top", "base")
	require.NoError(t, top.Bind("Ctrl-B", "bold"))
	require.NoError(t, tbl.Register(base))
	require.NoError(t, tbl.Register(top))

	res := tbl.Lookup(seq(t, "Ctrl-A"), nil, "top")
	assert.Equal(t, Handled, res.Kind)
	assert.Equal(t, "base", res.Map)
}

func TestLookupFallthroughCycle(t *testing.T) {
	tbl := NewTable[fn]()
	require.NoError(t, tbl.Register(NewMap[fn]("a", "b")))
	require.NoError(t, tbl.Register(NewMap[fn]("b", "a")))

	assert.Equal(t, None, tbl.Lookup(seq(t, "X"), nil, "a").Kind)
}

func TestHandlerDecline(t *testing.T) {
	tbl := NewTable[fn]()
	base := NewMap[fn]("base")
	require.NoError(t, base.Bind("Tab", "indent"))
	top := NewMap[fn]("top", "base")
	require.NoError(t, top.Bind("Tab", "complete"))
	require.NoError(t, tbl.Register(base))
	require.NoError(t, tbl.Register(top))

	var tried []string
	res := tbl.Lookup(seq(t, "Tab"), func(b Binding[fn]) bool {
		tried = append(tried, b.Command)
		return b.Command != "complete"
	}, "top")

	assert.Equal(t, Handled, res.Kind)
	assert.Equal(t, "indent", res.Binding.Command)
	assert.Equal(t, []string{"complete", "indent"}, tried)
}

func TestLookupMapUnregistered(t *testing.T) {
	tbl := NewTable[fn]()
	RegisterDefaults(tbl, false)

	extra := NewMap[fn]("extra", MapDefault)
	called := false
	require.NoError(t, extra.BindFunc("F5", func() bool { called = true; return true }))

	res := tbl.LookupMap(extra, seq(t, "F5"), func(b Binding[fn]) bool { return b.Func() })
	assert.Equal(t, Handled, res.Kind)
	assert.True(t, called)

	res = tbl.LookupMap(extra, seq(t, "Ctrl-Z"), nil)
	assert.Equal(t, "undo", res.Binding.Command)
	assert.Equal(t, None, tbl.LookupMap(nil, seq(t, "Ctrl-Z"), nil).Kind)
}

func TestDeleteUpdatesPrefixes(t *testing.T) {
	tbl := NewTable[fn]()
	m := NewMap[fn]("m")
	require.NoError(t, m.Bind("Ctrl-K Ctrl-C", "a"))
	require.NoError(t, m.Bind("Ctrl-K Ctrl-U", "b"))
	require.NoError(t, tbl.Register(m))

	assert.True(t, m.Delete("Ctrl-K Ctrl-C"))
	assert.Equal(t, Multi, tbl.Lookup(seq(t, "Ctrl-K"), nil, "m").Kind)
	assert.True(t, m.Delete("ctrl-k ctrl-u"))
	assert.Equal(t, None, tbl.Lookup(seq(t, "Ctrl-K"), nil, "m").Kind)
	assert.False(t, m.Delete("Ctrl-K Ctrl-U"))
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewMap[fn]("m", "basic")
	require.NoError(t, m.Bind("Ctrl-S", "save"))
	c := m.Clone("c")
	require.NoError(t, c.Bind("Ctrl-O", "open"))

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"basic"}, c.Fallthrough())
}

func TestFallthroughChainIsCopied(t *testing.T) {
	names := []string{"emacsy", "basic"}
	m := NewMap[fn]("m", names...)
	names[0] = "changed"
	assert.Equal(t, []string{"emacsy", "basic"}, m.Fallthrough())

	got := m.Fallthrough()
	got[1] = "changed"
	assert.Equal(t, []string{"emacsy", "basic"}, m.Fallthrough())

	m.SetFallthrough("default")
	assert.Equal(t, []string{"default"}, m.Fallthrough())
}

func TestDefaults(t *testing.T) {
	pc := NewTable[fn]()
	RegisterDefaults(pc, false)
	assert.Equal(t, []string{MapBasic, MapDefault, MapEmacsy, MapMacDefault, MapPCDefault}, pc.Names())

	assert.Equal(t, "undo", pc.Lookup(seq(t, "Ctrl-Z"), nil, MapDefault).Binding.Command)
	assert.Equal(t, "goCharLeft", pc.Lookup(seq(t, "Left"), nil, MapDefault).Binding.Command)
	assert.Equal(t, None, pc.Lookup(seq(t, "Ctrl-F"), nil, MapDefault).Kind)

	mac := NewTable[fn]()
	RegisterDefaults(mac, true)
	assert.Equal(t, "undo", mac.Lookup(seq(t, "Cmd-Z"), nil, MapDefault).Binding.Command)
	// macDefault falls through to emacsy.
	assert.Equal(t, "goCharRight", mac.Lookup(seq(t, "Ctrl-F"), nil, MapDefault).Binding.Command)
}

func TestTableRegister(t *testing.T) {
	tbl := NewTable[fn]()
	assert.ErrorIs(t, tbl.Register(nil), ErrNilMap)
	assert.ErrorIs(t, tbl.Register(NewMap[fn]("")), ErrEmptyName)

	require.NoError(t, tbl.Register(NewMap[fn]("x")))
	_, ok := tbl.Get("x")
	assert.True(t, ok)
	assert.True(t, tbl.Remove("x"))
	assert.False(t, tbl.Remove("x"))
}

func TestLoadYAML(t *testing.T) {
	src := `
name: mine
fallthrough: [default]
bindings:
  Ctrl-S: save
  Ctrl-K Ctrl-C: toggleComment
  Ctrl-Q: false
`
	m, err := LoadYAML[fn](strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "mine", m.Name())
	assert.Equal(t, []string{"default"}, m.Fallthrough())

	b, ok := m.Get("Ctrl-S")
	require.True(t, ok)
	assert.Equal(t, "save", b.Command)
	b, ok = m.Get("Ctrl-Q")
	require.True(t, ok)
	assert.True(t, b.Disabled)
	assert.Equal(t, 3, m.Len())
}

func TestLoadYAMLErrors(t *testing.T) {
	_, err := LoadYAML[fn](strings.NewReader("bindings: {}\n"))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = LoadYAML[fn](strings.NewReader("name: x\nbindings:\n  Ctrl-Alt: save\n  Ctrl-S: true\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, stroke.ErrNoKey)
	assert.Contains(t, err.Error(), "Ctrl-S")

	_, err = LoadYAML[fn](strings.NewReader("name: [\n"))
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: a\nbindings:\n  F1: help\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("name: b\nbindings:\n  F2: save\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("bindings: {}\n"), 0o644))

	tbl := NewTable[fn]()
	err := LoadDir(tbl, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}
