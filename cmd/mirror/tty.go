package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/mirror/internal/config"
	"github.com/dshills/mirror/internal/mirror"
	"github.com/dshills/mirror/internal/pos"
	"github.com/dshills/mirror/internal/stroke"
)

// notifyFor is how long status notifications stay up.
const notifyFor = 3 * time.Second

// tickEvery drives notification expiry.
const tickEvery = 500 * time.Millisecond

// reloadEvent carries a config reload onto the event loop goroutine, which
// owns the editor.
type reloadEvent struct {
	tcell.EventTime
	reload config.Reload
}

// tty draws one editor on a tcell screen and feeds it keys.
type tty struct {
	a      *app
	screen tcell.Screen

	top, left int
	quit      bool
}

func (a *app) runTTY() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t, err := newTTY(a, screen)
	if err != nil {
		return err
	}
	if a.opts.ConfigPath != "" {
		w, err := config.NewWatcher(ctx, a.opts.ConfigPath, config.WithWatcherLogger(a.logger))
		if err != nil {
			a.logger.Warn("not watching %s: %v", a.opts.ConfigPath, err)
		} else {
			defer w.Close()
			go forwardReloads(w, screen)
		}
	}
	go tick(ctx, screen, tickEvery)

	return t.loop()
}

func newTTY(a *app, screen tcell.Screen) (*tty, error) {
	t := &tty{a: a, screen: screen}

	km, err := a.session.NewKeyMap("tty")
	if err != nil {
		return nil, err
	}
	for keys, cmd := range map[string]string{
		"Ctrl-F": "find",
		"Ctrl-G": "findNext",
		"Esc":    "clearSearch",
	} {
		if err := km.Put(keys, cmd); err != nil {
			return nil, err
		}
	}
	if err := km.PutFunc("Ctrl-S", t.save); err != nil {
		return nil, err
	}
	if err := km.PutFunc("Ctrl-Q", t.requestQuit); err != nil {
		return nil, err
	}
	a.editor.AddKeyMap(km, false)
	return t, nil
}

func forwardReloads(w *config.Watcher, screen tcell.Screen) {
	for r := range w.Reloads() {
		ev := &reloadEvent{reload: r}
		ev.SetEventNow()
		_ = screen.PostEvent(ev)
	}
}

func tick(ctx context.Context, screen tcell.Screen, d time.Duration) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}
}

func (t *tty) loop() error {
	e := t.a.editor
	for !t.quit {
		t.draw()
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if s, ok := stroke.FromTcell(ev); ok {
				e.HandleKey(s)
			}
		case *reloadEvent:
			t.applyReload(ev.reload)
		case *tcell.EventInterrupt:
			e.ExpireNotifications(ev.When())
		}
	}
	return nil
}

func (t *tty) notify(format string, args ...any) {
	t.a.editor.OpenNotification(fmt.Sprintf(format, args...), mirror.DialogOptions{Duration: notifyFor})
}

func (t *tty) save(*mirror.Editor) error {
	if t.a.opts.File == "" {
		t.notify("no file to write")
		return nil
	}
	if err := t.a.save(); err != nil {
		t.notify("%v", err)
		return nil
	}
	t.notify("wrote %s", filepath.Base(t.a.opts.File))
	return nil
}

func (t *tty) requestQuit(e *mirror.Editor) error {
	if e.Doc().IsClean(0) {
		t.quit = true
		return nil
	}
	e.OpenConfirm("Discard unsaved changes? Enter quits, Esc cancels",
		[]func(){func() { t.quit = true }}, mirror.DialogOptions{})
	return nil
}

func (t *tty) applyReload(r config.Reload) {
	if r.Err != nil {
		t.notify("%s: %v", filepath.Base(r.Path), r.Err)
		return
	}
	values := config.DeepMerge(r.Values, config.LoadEnv(config.EnvPrefix, t.a.environ))
	delete(values, "value")
	if err := config.ApplyOptions(t.a.editor.Options(), values); err != nil {
		t.a.logger.Warn("reloaded options: %v", err)
	}
	t.notify("reloaded %s", filepath.Base(r.Path))
}

func (t *tty) draw() {
	e := t.a.editor
	doc := e.Doc()
	s := t.screen
	s.Clear()

	w, h := s.Size()
	body := h - 1
	if w <= 0 || body <= 0 {
		s.Show()
		return
	}

	line, col := e.CursorCoords()
	first := doc.FirstLine()
	row := line - first
	switch {
	case row < t.top:
		t.top = row
	case row >= t.top+body:
		t.top = row - body + 1
	}
	switch {
	case col < t.left:
		t.left = col
	case col >= t.left+w:
		t.left = col - w + 1
	}

	tab := e.Options().TabSize()
	sels := doc.Selections()
	for y := 0; y < body; y++ {
		n := first + t.top + y
		if n > doc.LastLine() {
			break
		}
		t.drawLine(y, n, doc.Line(n), tab, sels, w)
	}

	if t.drawStatus(h-1, w) {
		s.Show()
		return
	}
	s.ShowCursor(col-t.left, row-t.top)
	s.Show()
}

// drawLine renders one document line, expanding tabs and reversing
// selected text.
func (t *tty) drawLine(y, n int, text string, tab int, sels []pos.Range, w int) {
	col, off := 0, 0
	rest, state := text, -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)

		style := tcell.StyleDefault
		if selected(sels, pos.New(n, off)) {
			style = style.Reverse(true)
		}
		if cluster == "\t" {
			next := col + tab - col%tab
			for ; col < next; col++ {
				t.put(col, y, ' ', nil, style, w)
			}
		} else {
			runes := []rune(cluster)
			t.put(col, y, runes[0], runes[1:], style, w)
			col += width
		}
		off += len(cluster)
	}
}

func (t *tty) put(col, y int, r rune, comb []rune, style tcell.Style, w int) {
	x := col - t.left
	if x < 0 || x >= w {
		return
	}
	t.screen.SetContent(x, y, r, comb, style)
}

func selected(sels []pos.Range, p pos.Position) bool {
	for _, r := range sels {
		if r.Empty() {
			continue
		}
		if !pos.Less(p, r.From()) && pos.Less(p, r.To()) {
			return true
		}
	}
	return false
}

// drawStatus renders the bottom line: an open prompt, else a notification,
// else the file and cursor. It reports whether it placed the cursor.
func (t *tty) drawStatus(y, w int) bool {
	e := t.a.editor
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}

	var prompt, notice *mirror.Dialog
	for _, d := range e.Dialogs() {
		if d.Kind() == mirror.DialogNotification {
			notice = d
		} else {
			prompt = d
		}
	}

	switch {
	case prompt != nil:
		x := t.text(0, y, prompt.Template()+prompt.Value(), style, w)
		t.screen.ShowCursor(x, y)
		return true
	case notice != nil:
		t.text(0, y, notice.Template(), style, w)
	default:
		name := t.a.opts.File
		if name == "" {
			name = "[scratch]"
		}
		if !e.Doc().IsClean(0) {
			name += " [+]"
		}
		c := e.Doc().Cursor("head")
		t.text(0, y, fmt.Sprintf(" %s  %d:%d", name, c.Line+1, c.Ch+1), style, w)
	}
	return false
}

// text draws s from column x and returns the column after it.
func (t *tty) text(x, y int, s string, style tcell.Style, w int) int {
	rest, state := s, -1
	for len(rest) > 0 && x < w {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		runes := []rune(cluster)
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}
