package mirror

import (
	"time"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/stroke"
)

// DialogKind tells prompts, confirmations and notifications apart.
type DialogKind = engine.DialogKind

const (
	DialogPrompt       = engine.DialogPrompt
	DialogConfirm      = engine.DialogConfirm
	DialogNotification = engine.DialogNotification
)

// DialogOptions configures a dialog. The zero value closes the dialog on
// Enter and on blur and shows notifications for
// engine.DefaultNotificationDuration.
type DialogOptions struct {
	KeepOpenOnEnter bool
	KeepOpenOnBlur  bool
	Bottom          bool
	// Value is the prompt's initial input.
	Value string
	// Duration is how long a notification stays open.
	Duration time.Duration

	OnInput   func(d *Dialog, value string)
	OnKeyDown func(d *Dialog, s stroke.Stroke) bool
	OnClose   func(d *Dialog)
}

// Dialog is an open prompt, confirmation or notification.
type Dialog struct {
	editor *Editor
	dialog *engine.Dialog
}

// native converts the options, routing callbacks through w.
func (o DialogOptions) native(w *Dialog) engine.DialogOptions {
	n := engine.DialogOptions{
		KeepOpenOnEnter: o.KeepOpenOnEnter,
		KeepOpenOnBlur:  o.KeepOpenOnBlur,
		Bottom:          o.Bottom,
		Value:           o.Value,
		Duration:        o.Duration,
		OnClose: func(*engine.Dialog) {
			w.editor.dialogs.Remove(w.dialog)
			if o.OnClose != nil {
				o.OnClose(w)
			}
		},
	}
	if o.OnInput != nil {
		n.OnInput = func(_ *engine.Dialog, v string) { o.OnInput(w, v) }
	}
	if o.OnKeyDown != nil {
		n.OnKeyDown = func(_ *engine.Dialog, s stroke.Stroke) bool { return o.OnKeyDown(w, s) }
	}
	return n
}

// OpenDialog opens a prompt showing template. submit receives the input.
func (e *Editor) OpenDialog(template string, submit func(value string), opts DialogOptions) *Dialog {
	w := &Dialog{editor: e}
	w.dialog = e.ed.OpenDialog(template, submit, opts.native(w))
	e.dialogs.Put(w.dialog, w)
	return w
}

// OpenConfirm opens a confirmation with one callback per button.
func (e *Editor) OpenConfirm(template string, choices []func(), opts DialogOptions) *Dialog {
	w := &Dialog{editor: e}
	w.dialog = e.ed.OpenConfirm(template, choices, opts.native(w))
	e.dialogs.Put(w.dialog, w)
	return w
}

// OpenNotification shows template until its duration passes or it is
// closed.
func (e *Editor) OpenNotification(template string, opts DialogOptions) *Dialog {
	w := &Dialog{editor: e}
	w.dialog = e.ed.OpenNotification(template, opts.native(w))
	e.dialogs.Put(w.dialog, w)
	return w
}

// Dialogs returns the open dialogs: the prompt or confirmation first, then
// the notification.
func (e *Editor) Dialogs() []*Dialog {
	ds := e.ed.Dialogs()
	out := make([]*Dialog, 0, len(ds))
	for _, d := range ds {
		if w, ok := e.dialogs.Get(d); ok {
			out = append(out, w)
		}
	}
	return out
}

// ExpireNotifications closes a notification whose time is up at now.
func (e *Editor) ExpireNotifications(now time.Time) bool {
	return e.ed.ExpireNotifications(now)
}

// Native returns the wrapped engine dialog.
func (d *Dialog) Native() *engine.Dialog { return d.dialog }

// Editor returns the editor showing the dialog.
func (d *Dialog) Editor() *Editor { return d.editor }

// Kind returns the dialog kind.
func (d *Dialog) Kind() DialogKind { return d.dialog.Kind() }

// Template returns the content the dialog was opened with.
func (d *Dialog) Template() string { return d.dialog.Template() }

// Value returns the prompt's input.
func (d *Dialog) Value() string { return d.dialog.Value() }

// SetValue replaces the prompt's input.
func (d *Dialog) SetValue(v string) { d.dialog.SetValue(v) }

// IsOpen reports whether the dialog is open.
func (d *Dialog) IsOpen() bool { return d.dialog.IsOpen() }

// Submit submits the prompt.
func (d *Dialog) Submit() { d.dialog.Submit() }

// Choose presses button i of a confirmation.
func (d *Dialog) Choose(i int) { d.dialog.Choose(i) }

// Close closes the dialog.
func (d *Dialog) Close() { d.dialog.Close() }
