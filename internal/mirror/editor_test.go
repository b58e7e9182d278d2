package mirror

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/options"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/stroke"
)

func TestNewEditorActivatesOptions(t *testing.T) {
	s := NewSession()
	opts := options.New()
	opts.SetValue("one\ntwo")
	opts.SetTabSize(2)
	spec := engine.ModeSpec{Name: "javascript", Options: map[string]any{"json": true}}
	opts.SetLanguage(spec)
	require.Equal(t, options.ModeDetached, opts.Mode())

	e, err := NewEditor(s, opts)
	require.NoError(t, err)

	assert.Equal(t, options.ModeLive, opts.Mode())
	assert.Same(t, opts, e.Options())
	assert.Equal(t, "one\ntwo", e.Value())
	assert.Equal(t, spec, opts.Language(), "entity values survive activation")
	assert.Equal(t, spec, e.Doc().Mode())

	require.NoError(t, e.Native().SetOption("tabSize", 7))
	assert.Equal(t, 7, opts.TabSize(), "reads go to the running editor")

	opts.SetTabSize(0)
	got, _ := e.Native().Option("tabSize")
	assert.Equal(t, 1, got, "writes are normalized by the editor")

	_, err = NewEditor(s, opts)
	assert.ErrorIs(t, err, options.ErrAlreadyActive)
}

func TestNewEditorWithDoc(t *testing.T) {
	s := NewSession()
	doc, err := NewDocumentBuilder(s).Text("package x").Mode("go").Build()
	require.NoError(t, err)

	e, err := NewEditorWithDoc(s, doc, options.New())
	require.NoError(t, err)
	assert.Same(t, doc, e.Doc())
	assert.Same(t, e, doc.Editor())
	assert.Equal(t, "go", e.Options().Language().Name, "default options keep the document mode")
	assert.Equal(t, "package x", e.Value())

	other := NewSession()
	foreign := newDoc(t, other, "x")
	_, err = NewEditorWithDoc(s, foreign, options.New())
	assert.ErrorIs(t, err, ErrForeignDocument)

	_, err = NewEditorWithDoc(s, doc, options.New())
	assert.ErrorIs(t, err, engine.ErrDocAttached)
}

func TestEditorDocOverridesMode(t *testing.T) {
	s := NewSession()
	doc, err := NewDocumentBuilder(s).Mode("go").Build()
	require.NoError(t, err)

	opts := options.New()
	opts.SetLanguage(engine.ModeSpec{Name: "python"})
	_, err = NewEditorWithDoc(s, doc, opts)
	require.NoError(t, err)
	assert.Equal(t, "python", doc.Mode().Name)
}

func TestSwapDocUpdatesLanguage(t *testing.T) {
	s := NewSession()
	opts := options.New()
	opts.SetLanguage(engine.ModeSpec{Name: "javascript", Options: map[string]any{"json": true}})
	e, err := NewEditor(s, opts)
	require.NoError(t, err)

	ts := engine.ModeSpec{Name: "javascript", Options: map[string]any{"typescript": true}}
	doc, err := NewDocumentBuilder(s).ModeSpec(ts).Build()
	require.NoError(t, err)
	require.NotNil(t, e.SwapDoc(doc))

	assert.Equal(t, ts, e.Doc().Mode())
	assert.Equal(t, ts, opts.Language())
}

func TestSwapDoc(t *testing.T) {
	s := NewSession()
	e := newEditor(t, s, "first")
	first := e.Doc()
	second := newDoc(t, s, "second")

	var swapped []*Document
	_, err := e.OnSwapDoc(func(got *Editor, old *Document) {
		assert.Same(t, e, got)
		swapped = append(swapped, old)
	})
	require.NoError(t, err)

	assert.Same(t, first, e.SwapDoc(second))
	assert.Same(t, second, e.Doc())
	assert.Equal(t, []*Document{first}, swapped)
	assert.Nil(t, first.Editor())
	assert.Equal(t, "second", e.Value())

	assert.Nil(t, e.SwapDoc(nil))
	assert.Nil(t, e.SwapDoc(newDoc(t, NewSession(), "x")))
}

func TestEditorFocus(t *testing.T) {
	e := newEditor(t, NewSession(), "")
	var events []string
	_, err := e.OnFocus(func(*Editor) { events = append(events, "focus") })
	require.NoError(t, err)
	_, err = e.OnBlur(func(*Editor) { events = append(events, "blur") })
	require.NoError(t, err)

	e.Focus()
	e.Focus()
	assert.True(t, e.HasFocus())
	e.Blur()
	assert.False(t, e.HasFocus())
	assert.Equal(t, []string{"focus", "blur"}, events)

	e.Options().SetReadOnly(options.ReadOnlyNoCursor)
	e.Focus()
	assert.False(t, e.HasFocus())
	assert.True(t, e.IsReadOnly())
}

func TestEditorEvents(t *testing.T) {
	e := newEditor(t, NewSession(), "ab")

	var changes, batches, reads, activity int
	_, err := e.OnChange(func(got *Editor, c *Change) {
		assert.Same(t, e, got)
		require.NotNil(t, c)
		changes++
	})
	require.NoError(t, err)
	_, err = e.OnChanges(func(_ *Editor, cs []*Change) { batches += len(cs) })
	require.NoError(t, err)
	_, err = e.OnInputRead(func(*Editor, *Change) { reads++ })
	require.NoError(t, err)
	_, err = e.OnCursorActivity(func(*Editor) { activity++ })
	require.NoError(t, err)

	var names []string
	_, err = e.OnOptionChange(func(_ *Editor, name string) { names = append(names, name) })
	require.NoError(t, err)

	var keys []string
	_, err = e.OnKeyHandled(func(_ *Editor, k string) { keys = append(keys, k) })
	require.NoError(t, err)

	e.Operation(func() {
		e.Doc().Insert("1", pos.New(0, 0))
		e.Doc().Insert("2", pos.New(0, 0))
	})
	assert.Equal(t, 2, changes)
	assert.Equal(t, 2, batches)
	assert.Equal(t, 1, activity)

	e.TypeText("x")
	assert.Equal(t, 1, reads)

	e.Options().SetTheme("night")
	assert.Equal(t, []string{"theme"}, names)

	assert.True(t, e.HandleKeys("Ctrl-A"))
	assert.Equal(t, []string{"Ctrl-A"}, keys)
}

func TestEditorBeforeChange(t *testing.T) {
	e := newEditor(t, NewSession(), "")
	_, err := e.OnBeforeChange(func(_ *Editor, bc *BeforeChange) {
		bc.Update(bc.From, bc.To, []string{strings.ToUpper(bc.Text[0])})
	})
	require.NoError(t, err)
	e.TypeText("abc")
	assert.Equal(t, "ABC", e.Value())

	_, err = e.OnBeforeSelectionChange(func(_ *Editor, u *SelectionUpdate) {
		u.Update([]pos.Range{pos.Cursor(pos.New(0, 0))})
	})
	require.NoError(t, err)
	e.Doc().SetCursor(pos.New(0, 2), CursorOptions{})
	assert.Equal(t, pos.New(0, 0), e.Doc().Cursor("head"))
}

func TestHandleKeys(t *testing.T) {
	e := newEditor(t, NewSession(), "abc")
	assert.True(t, e.HandleKeys("End X"))
	assert.Equal(t, "abcx", e.Value())
	assert.False(t, e.HandleKeys("Ctrl-"), "malformed keys are ignored")

	s, err := stroke.Parse("Home")
	require.NoError(t, err)
	assert.True(t, e.HandleKey(s))
	assert.Equal(t, pos.New(0, 0), e.Doc().Cursor("head"))
}

func TestIndent(t *testing.T) {
	e := newEditor(t, NewSession(), "a\nb")
	e.Options().SetIndentUnit(4)
	e.IndentLine(1, engine.IndentAdd)
	assert.Equal(t, "a\n    b", e.Value())

	e.Doc().SetSelection(pos.New(0, 0), pos.New(1, 1), CursorOptions{})
	e.IndentSelection(engine.IndentAdd)
	assert.Equal(t, "    a\n        b", e.Value())
	e.IndentLine(9, engine.IndentAdd)
}

func TestEditorSearchAndWidgets(t *testing.T) {
	e := newEditor(t, NewSession(), "one\ntwo")
	c := e.SearchCursor("two", pos.New(0, 0), SearchCursorOptions{})
	require.NotNil(t, c)
	require.True(t, c.FindNext())
	assert.Equal(t, pos.New(1, 0), c.From())

	w := e.AddLineWidget(e.Doc().LineHandle(1), "lint", LineWidgetOptions{})
	require.NotNil(t, w)
	assert.Same(t, e.Doc().LineHandle(1), w.Line())
}

func TestEditorClose(t *testing.T) {
	s := NewSession()
	e := newEditor(t, s, "")
	_, err := e.OnFocus(func(*Editor) {})
	require.NoError(t, err)
	assert.Equal(t, 1, e.Native().Count(engine.EventFocus))

	e.Close()
	e.Close()
	assert.Empty(t, s.Editors())
	assert.Equal(t, 0, e.Native().Count(engine.EventFocus))
}

func TestCommands(t *testing.T) {
	s := NewSession()
	e := newEditor(t, s, "abc")
	cmds := s.Commands()

	var ran *Editor
	require.NoError(t, cmds.Register("shout", func(got *Editor) error {
		ran = got
		got.SetValue(strings.ToUpper(got.Value()))
		return nil
	}))
	assert.True(t, cmds.Has("shout"))
	assert.Contains(t, cmds.Names(), "shout")
	assert.False(t, cmds.IsBuiltin("shout"))
	assert.True(t, cmds.IsBuiltin("selectAll"))

	require.NoError(t, cmds.Exec(e, "shout"))
	assert.Same(t, e, ran)
	assert.Equal(t, "ABC", e.Value())

	boom := errors.New("boom")
	require.NoError(t, cmds.Register("selectAll", func(*Editor) error { return boom }))
	assert.ErrorIs(t, e.ExecCommand("selectAll"), boom, "user commands shadow builtins")

	err := e.ExecCommand("shoot")
	var ce *engine.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "shout", ce.Suggestion)

	assert.True(t, cmds.Remove("shout"))
	assert.False(t, cmds.Has("shout"))

	assert.True(t, cmds.Remove("selectAll"))
	require.NoError(t, e.ExecCommand("selectAll"), "removing the user command restores the builtin")
	assert.Equal(t, "ABC", e.Doc().SelectedText("\n"))
	assert.ErrorIs(t, cmds.Register("x", nil), ErrNilCallback)
	assert.ErrorIs(t, cmds.Exec(nil, "x"), ErrUnknownEditor)
}

func TestCommandOnForeignEditor(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Commands().Register("mine", func(*Editor) error { return nil }))

	native, err := engine.NewEditor(nil, nil, engine.WithCommands(s.commands))
	require.NoError(t, err)
	assert.ErrorIs(t, native.ExecCommand("mine"), ErrUnknownEditor)
}

func TestDialogs(t *testing.T) {
	e := newEditor(t, NewSession(), "")
	e.Focus()

	var submitted string
	var closed *Dialog
	var inputs []string
	d := e.OpenDialog("Find:", func(v string) { submitted = v }, DialogOptions{
		Value:   "a",
		OnInput: func(_ *Dialog, v string) { inputs = append(inputs, v) },
		OnClose: func(got *Dialog) { closed = got },
	})
	assert.Equal(t, engine.DialogPrompt, d.Kind())
	assert.Equal(t, "Find:", d.Template())
	assert.Same(t, e, d.Editor())
	assert.Equal(t, []*Dialog{d}, e.Dialogs())

	assert.True(t, e.HandleKeys("B"))
	assert.Equal(t, "ab", d.Value())
	assert.Equal(t, []string{"ab"}, inputs)

	e.HandleKeys("Enter")
	assert.Equal(t, "ab", submitted)
	assert.False(t, d.IsOpen())
	assert.Same(t, d, closed)
	assert.Empty(t, e.Dialogs())
}

func TestConfirmAndNotification(t *testing.T) {
	e := newEditor(t, NewSession(), "")
	n := e.OpenNotification("saved", DialogOptions{})
	chosen := -1
	c := e.OpenConfirm("Save?", []func(){func() { chosen = 0 }, func() { chosen = 1 }}, DialogOptions{})
	assert.False(t, n.IsOpen(), "opening a confirmation closes the notification")
	assert.Equal(t, []*Dialog{c}, e.Dialogs())

	c.Choose(1)
	assert.Equal(t, 1, chosen)
	assert.False(t, c.IsOpen())

	n = e.OpenNotification("saved", DialogOptions{Duration: time.Second})
	assert.Equal(t, engine.DialogNotification, n.Kind())
	assert.False(t, e.ExpireNotifications(time.Now()))
	assert.True(t, e.ExpireNotifications(time.Now().Add(2*time.Second)))
	assert.False(t, n.IsOpen())
	assert.Empty(t, e.Dialogs())
}
