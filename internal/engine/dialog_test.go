package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/stroke"
)

func TestPromptTakesKeys(t *testing.T) {
	e := newEditor(t, map[string]any{"value": "text"})
	var submitted []string
	var inputs []string
	dlg := e.OpenDialog("Name:", func(v string) { submitted = append(submitted, v) }, DialogOptions{
		Value:   "x",
		OnInput: func(_ *Dialog, v string) { inputs = append(inputs, v) },
	})
	assert.Equal(t, DialogPrompt, dlg.Kind())
	assert.Equal(t, "Name:", dlg.Template())

	press(t, e, "H I Backspace")
	assert.Equal(t, "xh", dlg.Value())
	assert.Equal(t, []string{"xh", "xhi", "xh"}, inputs)
	assert.Equal(t, "text", e.Doc().Value(), "keys go to the prompt, not the document")

	press(t, e, "Enter")
	assert.Equal(t, []string{"xh"}, submitted)
	assert.False(t, dlg.IsOpen())
	assert.Empty(t, e.Dialogs())

	press(t, e, "Z")
	assert.Equal(t, "ztext", e.Doc().Value())
}

func TestPromptKeepOpenOnEnter(t *testing.T) {
	e := newEditor(t, nil)
	count := 0
	dlg := e.OpenDialog("Go:", func(string) { count++ }, DialogOptions{KeepOpenOnEnter: true})

	press(t, e, "Enter Enter")
	assert.Equal(t, 2, count)
	assert.True(t, dlg.IsOpen())
}

func TestEscapeClosesOnce(t *testing.T) {
	e := newEditor(t, nil)
	closes := 0
	dlg := e.OpenDialog("Q:", nil, DialogOptions{OnClose: func(*Dialog) { closes++ }})

	press(t, e, "Esc")
	dlg.Close()
	assert.False(t, dlg.IsOpen())
	assert.Equal(t, 1, closes)
}

func TestOnKeyDownConsumes(t *testing.T) {
	e := newEditor(t, nil)
	var seen []string
	dlg := e.OpenDialog("Q:", nil, DialogOptions{
		OnKeyDown: func(d *Dialog, s stroke.Stroke) bool {
			seen = append(seen, s.String())
			return s.Key == "A"
		},
	})
	press(t, e, "A B")
	assert.Equal(t, []string{"A", "B"}, seen)
	assert.Equal(t, "b", dlg.Value())
}

func TestOpeningDialogReplacesPrevious(t *testing.T) {
	e := newEditor(t, nil)
	first := e.OpenDialog("one", nil, DialogOptions{})
	second := e.OpenDialog("two", nil, DialogOptions{})

	assert.False(t, first.IsOpen())
	assert.Equal(t, []*Dialog{second}, e.Dialogs())
}

func TestConfirm(t *testing.T) {
	e := newEditor(t, nil)
	var chosen []int
	choices := []func(){
		func() { chosen = append(chosen, 0) },
		func() { chosen = append(chosen, 1) },
	}

	dlg := e.OpenConfirm("Sure?", choices, DialogOptions{})
	assert.Equal(t, DialogConfirm, dlg.Kind())
	press(t, e, "Enter")
	assert.False(t, dlg.IsOpen())

	dlg = e.OpenConfirm("Really?", choices, DialogOptions{})
	dlg.SetValue("ignored")
	assert.Empty(t, dlg.Value())
	dlg.Choose(1)
	dlg.Choose(0)
	assert.Equal(t, []int{0, 1}, chosen)
}

func TestNotifications(t *testing.T) {
	e := newEditor(t, nil)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return start }

	n := e.OpenNotification("saved", DialogOptions{})
	assert.Equal(t, DialogNotification, n.Kind())
	assert.Equal(t, DefaultNotificationDuration, n.Options().Duration)

	assert.False(t, e.ExpireNotifications(start.Add(time.Second)))
	assert.True(t, n.IsOpen())
	assert.True(t, e.ExpireNotifications(start.Add(DefaultNotificationDuration)))
	assert.False(t, n.IsOpen())

	n = e.OpenNotification("again", DialogOptions{Duration: time.Minute})
	prompt := e.OpenDialog("Q:", nil, DialogOptions{})
	assert.False(t, n.IsOpen(), "a prompt closes the notification")
	assert.Equal(t, []*Dialog{prompt}, e.Dialogs())

	n = e.OpenNotification("both", DialogOptions{})
	assert.Equal(t, []*Dialog{prompt, n}, e.Dialogs())
	press(t, e, "K")
	assert.Equal(t, "k", prompt.Value(), "notifications do not take keys")
}

func TestBlurClosesDialogs(t *testing.T) {
	e := newEditor(t, map[string]any{"autofocus": true})
	sticky := e.OpenDialog("stay", nil, DialogOptions{KeepOpenOnBlur: true})
	e.Blur()
	assert.True(t, sticky.IsOpen())

	e.Focus()
	loose := e.OpenDialog("go", nil, DialogOptions{})
	e.Blur()
	require.False(t, loose.IsOpen())
	assert.Empty(t, e.Dialogs())
}
