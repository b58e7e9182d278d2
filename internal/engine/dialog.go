package engine

import (
	"time"
	"unicode/utf8"

	"github.com/dshills/mirror/internal/stroke"
)

// DefaultNotificationDuration is how long a notification stays open when
// DialogOptions.Duration is zero.
const DefaultNotificationDuration = 5 * time.Second

// DialogKind tells prompts, confirmations and notifications apart.
type DialogKind uint8

const (
	DialogPrompt DialogKind = iota
	DialogConfirm
	DialogNotification
)

// String returns the kind name.
func (k DialogKind) String() string {
	switch k {
	case DialogConfirm:
		return "confirm"
	case DialogNotification:
		return "notification"
	default:
		return "prompt"
	}
}

// DialogOptions configures a dialog. There is no view: a dialog is state
// that key handling and callers drive.
type DialogOptions struct {
	// KeepOpenOnEnter keeps a prompt open after it was submitted.
	KeepOpenOnEnter bool
	// KeepOpenOnBlur keeps the dialog open when the editor loses focus.
	KeepOpenOnBlur bool
	// Bottom places the dialog below the editor.
	Bottom bool
	// Value is the prompt's initial input.
	Value string
	// OnInput runs after the prompt's input changed.
	OnInput func(d *Dialog, value string)
	// OnKeyDown sees every stroke first; returning true consumes it.
	OnKeyDown func(d *Dialog, s stroke.Stroke) bool
	// OnClose runs once when the dialog closes.
	OnClose func(d *Dialog)
	// Duration is how long a notification stays open.
	Duration time.Duration
}

// Dialog is an open prompt, confirmation or notification.
type Dialog struct {
	editor   *Editor
	kind     DialogKind
	template string
	opts     DialogOptions
	value    string
	submit   func(value string)
	choices  []func()
	opened   time.Time
	closed   bool
}

// OpenDialog opens a prompt showing template. submit receives the input
// when the prompt is submitted. Any open prompt or confirmation closes
// first, as does any notification.
func (e *Editor) OpenDialog(template string, submit func(value string), opts DialogOptions) *Dialog {
	e.closeNotice()
	if e.dialog != nil {
		e.dialog.Close()
	}
	d := &Dialog{editor: e, kind: DialogPrompt, template: template, opts: opts, value: opts.Value, submit: submit, opened: e.now()}
	e.dialog = d
	return d
}

// OpenConfirm opens a confirmation with one callback per button.
func (e *Editor) OpenConfirm(template string, choices []func(), opts DialogOptions) *Dialog {
	e.closeNotice()
	if e.dialog != nil {
		e.dialog.Close()
	}
	d := &Dialog{editor: e, kind: DialogConfirm, template: template, opts: opts, choices: choices, opened: e.now()}
	e.dialog = d
	return d
}

// OpenNotification shows template until Duration passes or it is closed.
// A previous notification closes first.
func (e *Editor) OpenNotification(template string, opts DialogOptions) *Dialog {
	e.closeNotice()
	if opts.Duration <= 0 {
		opts.Duration = DefaultNotificationDuration
	}
	d := &Dialog{editor: e, kind: DialogNotification, template: template, opts: opts, opened: e.now()}
	e.notice = d
	return d
}

// Dialogs returns the open dialogs: the prompt or confirmation first, then
// the notification.
func (e *Editor) Dialogs() []*Dialog {
	var out []*Dialog
	if e.dialog != nil {
		out = append(out, e.dialog)
	}
	if e.notice != nil {
		out = append(out, e.notice)
	}
	return out
}

// ExpireNotifications closes a notification whose duration has passed at
// now. It reports whether one closed.
func (e *Editor) ExpireNotifications(now time.Time) bool {
	n := e.notice
	if n == nil || now.Before(n.opened.Add(n.opts.Duration)) {
		return false
	}
	n.Close()
	return true
}

func (e *Editor) closeNotice() {
	if e.notice != nil {
		e.notice.Close()
	}
}

func (e *Editor) activePrompt() *Dialog {
	if e.dialog == nil || e.dialog.closed {
		return nil
	}
	return e.dialog
}

// Kind returns the dialog kind.
func (d *Dialog) Kind() DialogKind {
	return d.kind
}

// Template returns the content the dialog was opened with.
func (d *Dialog) Template() string {
	return d.template
}

// Options returns the options the dialog was opened with.
func (d *Dialog) Options() DialogOptions {
	return d.opts
}

// Value returns the prompt's current input.
func (d *Dialog) Value() string {
	return d.value
}

// IsOpen reports whether the dialog is still open.
func (d *Dialog) IsOpen() bool {
	return !d.closed
}

// SetValue replaces the prompt's input and runs OnInput.
func (d *Dialog) SetValue(v string) {
	if d.closed || d.kind != DialogPrompt {
		return
	}
	d.value = v
	if d.opts.OnInput != nil {
		d.opts.OnInput(d, v)
	}
}

// Submit hands the input to the prompt's callback and closes the prompt
// unless KeepOpenOnEnter is set.
func (d *Dialog) Submit() {
	if d.closed || d.kind != DialogPrompt {
		return
	}
	if !d.opts.KeepOpenOnEnter {
		d.Close()
	}
	if d.submit != nil {
		d.submit(d.value)
	}
}

// Choose runs the callback of button i and closes the confirmation.
func (d *Dialog) Choose(i int) {
	if d.closed || d.kind != DialogConfirm {
		return
	}
	d.Close()
	if i >= 0 && i < len(d.choices) && d.choices[i] != nil {
		d.choices[i]()
	}
}

// Close closes the dialog. Closing twice does nothing.
func (d *Dialog) Close() {
	if d.closed {
		return
	}
	d.closed = true
	e := d.editor
	if e.dialog == d {
		e.dialog = nil
	}
	if e.notice == d {
		e.notice = nil
	}
	if d.opts.OnClose != nil {
		d.opts.OnClose(d)
	}
}

// handleKey edits a prompt's input: Esc closes, Enter submits, Backspace
// removes a character and printable strokes append.
func (d *Dialog) handleKey(s stroke.Stroke) bool {
	if d.opts.OnKeyDown != nil && d.opts.OnKeyDown(d, s) {
		return true
	}
	if d.closed {
		return true
	}
	if s.Mods.IsEmpty() {
		switch s.Key {
		case stroke.KeyEsc:
			d.Close()
			return true
		case stroke.KeyEnter:
			if d.kind == DialogConfirm {
				d.Choose(0)
			} else {
				d.Submit()
			}
			return true
		case stroke.KeyBackspace:
			if d.value != "" {
				_, size := utf8.DecodeLastRuneInString(d.value)
				d.SetValue(d.value[:len(d.value)-size])
			}
			return true
		}
	}
	if r, ok := s.Rune(); ok {
		d.SetValue(d.value + string(r))
	}
	return true
}
