package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/pos"
)

func TestDocumentBuilder(t *testing.T) {
	s := NewSession()
	d, err := NewDocumentBuilder(s).
		Text("a\r\nb").
		ModeSpec(engine.ModeSpec{Name: "javascript", Options: map[string]any{"json": true}}).
		FirstLine(10).
		LineSeparator("\r\n").
		Direction("rtl").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "a\r\nb", d.Value())
	assert.Equal(t, 10, d.FirstLine())
	assert.Equal(t, 11, d.LastLine())
	assert.Equal(t, "rtl", d.Direction())
	assert.Equal(t, engine.ModeSpec{Name: "javascript", Options: map[string]any{"json": true}}, d.Mode())

	_, err = NewDocumentBuilder(nil).Build()
	assert.ErrorIs(t, err, ErrNilSession)
}

func TestDocumentEditing(t *testing.T) {
	d := newDoc(t, NewSession(), "hello\nworld")

	d.ReplaceRange("J", pos.New(1, 0), pos.New(1, 1))
	d.Insert("!", pos.NewLine(1))
	assert.Equal(t, "hello\nJorld!", d.Value())
	assert.Equal(t, "Jorld!", d.Line(1))
	assert.Equal(t, 2, d.LineCount())

	d.SetSelection(pos.New(0, 0), pos.New(0, 5), CursorOptions{})
	assert.True(t, d.SomethingSelected())
	assert.Equal(t, "hello", d.SelectedText(""))
	sel := d.Selection()
	assert.Equal(t, pos.New(0, 0), sel.From())
	assert.Equal(t, pos.New(0, 5), sel.To())

	d.ReplaceSelection("bye", "")
	assert.Equal(t, "bye\nJorld!", d.Value())
	assert.Equal(t, pos.New(0, 3), d.Cursor("head"))

	assert.True(t, d.Undo())
	assert.Equal(t, "hello\nJorld!", d.Value())
	assert.True(t, d.Redo())
	assert.Equal(t, "bye\nJorld!", d.Value())
}

func TestLineHandleIdentity(t *testing.T) {
	d := newDoc(t, NewSession(), "one\ntwo\nthree")

	h := d.LineHandle(1)
	require.NotNil(t, h)
	assert.Same(t, h, d.LineHandle(1))

	var seen []*LineHandle
	d.EachLine(0, 3, func(l *LineHandle) bool {
		seen = append(seen, l)
		return true
	})
	require.Len(t, seen, 3)
	assert.Same(t, h, seen[1])

	d.Insert("zero\n", pos.New(0, 0))
	assert.Equal(t, 2, h.Number())
	assert.Equal(t, 2, d.LineNumber(h))
	assert.Same(t, h, d.LineHandle(2))
}

func TestLineHandleDelete(t *testing.T) {
	d := newDoc(t, NewSession(), "one\ntwo\nthree")
	h := d.LineHandle(1)
	w := d.AddLineWidget(h, "note", LineWidgetOptions{})
	require.NotNil(t, w)
	assert.Equal(t, 1, d.widgets.Len())

	var deleted *LineHandle
	_, err := h.OnDelete(func(l *LineHandle) { deleted = l })
	require.NoError(t, err)

	d.ReplaceRange("", pos.New(1, 0), pos.New(2, 0))
	assert.Same(t, h, deleted)
	assert.True(t, h.Deleted())
	assert.Equal(t, -1, h.Number())
	assert.Equal(t, -1, d.LineNumber(h))
	assert.False(t, d.lines.Contains(h.ID()), "deleted handles leave the cache")
	assert.True(t, w.Cleared())
	assert.Equal(t, 0, d.widgets.Len())
	assert.NotSame(t, h, d.LineHandle(1))
}

func TestLineHandleChange(t *testing.T) {
	d := newDoc(t, NewSession(), "abc")
	h := d.LineHandle(0)
	var texts []string
	_, err := h.OnChange(func(l *LineHandle, c *Change) {
		assert.Same(t, h, l)
		texts = append(texts, l.Text()+"|"+c.Text[0])
	})
	require.NoError(t, err)

	d.Insert("Z", pos.New(0, 1))
	assert.Equal(t, []string{"aZbc|Z"}, texts)
}

func TestLineClasses(t *testing.T) {
	d := newDoc(t, NewSession(), "abc")
	h := d.LineHandle(0)
	d.AddLineClass(h, "background", "hot")
	assert.Equal(t, "hot", h.Class("background"))
	d.RemoveLineClass(h, "background", "hot")
	assert.Equal(t, "", h.Class("background"))
	d.AddLineClass(nil, "text", "ignored")
}

func TestLineWidgets(t *testing.T) {
	d := newDoc(t, NewSession(), "one\ntwo")
	h := d.LineHandle(0)

	w := d.AddLineWidgetAt(0, "first", LineWidgetOptions{Above: true})
	require.NotNil(t, w)
	assert.Same(t, h, w.Line())
	assert.Equal(t, "first", w.Content())
	assert.True(t, w.Options().Above)
	assert.Equal(t, []*LineWidget{w}, h.Widgets())
	assert.Nil(t, d.AddLineWidgetAt(9, "x", LineWidgetOptions{}))
	assert.Nil(t, d.AddLineWidget(nil, "x", LineWidgetOptions{}))

	redraws := 0
	_, err := w.OnRedraw(func(got *LineWidget) {
		assert.Same(t, w, got)
		redraws++
	})
	require.NoError(t, err)
	w.Changed()
	w.SetHeight(3)
	assert.Equal(t, 2, redraws)

	w.Clear()
	assert.True(t, w.Cleared())
	assert.Empty(t, h.Widgets())
	assert.Equal(t, 0, d.widgets.Len())
	w.Changed()
}

func TestTextMarkers(t *testing.T) {
	d := newDoc(t, NewSession(), "abcdef")

	m := d.MarkText(pos.New(0, 1), pos.New(0, 4), TextMarkerOptions{ClassName: "hl"})
	require.NotNil(t, m)
	assert.False(t, m.IsBookmark())
	assert.Equal(t, "hl", m.Options().ClassName)
	assert.Equal(t, []*TextMarker{m}, d.FindMarksAt(pos.New(0, 2)))
	assert.Equal(t, []*TextMarker{m}, d.AllMarks())
	assert.Equal(t, []*LineHandle{d.LineHandle(0)}, m.Lines())

	d.Insert("XX", pos.New(0, 0))
	from, to, ok := m.Find()
	require.True(t, ok)
	assert.Equal(t, pos.New(0, 3), from)
	assert.Equal(t, pos.New(0, 6), to)

	var cleared []pos.Position
	_, err := m.OnClear(func(got *TextMarker, from, to pos.Position) {
		assert.Same(t, m, got)
		cleared = append(cleared, from, to)
	})
	require.NoError(t, err)

	m.Clear()
	m.Clear()
	assert.Equal(t, []pos.Position{pos.New(0, 3), pos.New(0, 6)}, cleared)
	assert.True(t, m.Cleared())
	assert.Equal(t, 0, d.marks.Len())
	assert.Empty(t, d.AllMarks())

	assert.Nil(t, d.MarkText(pos.New(0, 2), pos.New(0, 2), TextMarkerOptions{}))
}

func TestClearOnEnterDropsWrapper(t *testing.T) {
	d := newDoc(t, NewSession(), "abcdef")
	m := d.MarkText(pos.New(0, 1), pos.New(0, 4), TextMarkerOptions{ClearOnEnter: true})
	require.NotNil(t, m)

	d.SetCursor(pos.New(0, 2), CursorOptions{})
	assert.True(t, m.Cleared())
	assert.Equal(t, 0, d.marks.Len())
}

func TestBookmarks(t *testing.T) {
	d := newDoc(t, NewSession(), "abc")
	b := d.SetBookmark(pos.New(0, 1), BookmarkOptions{InsertLeft: true})
	require.NotNil(t, b)
	assert.True(t, b.IsBookmark())
	assert.True(t, b.BookmarkOptions().InsertLeft)

	d.Insert("Z", pos.New(0, 1))
	from, to, ok := b.Find()
	require.True(t, ok)
	assert.Equal(t, pos.New(0, 2), from)
	assert.Equal(t, from, to)
	assert.Same(t, b, d.FindMarks(pos.New(0, 0), pos.New(0, 3))[0])
}

func TestMarkerHideAndUnhide(t *testing.T) {
	d := newDoc(t, NewSession(), "abcdef")
	m := d.MarkText(pos.New(0, 1), pos.New(0, 3), TextMarkerOptions{})
	require.NotNil(t, m)

	var events []string
	_, err := m.OnHide(func(*TextMarker) { events = append(events, "hide") })
	require.NoError(t, err)
	_, err = m.OnUnhide(func(*TextMarker) { events = append(events, "unhide") })
	require.NoError(t, err)

	d.ReplaceRange("", pos.New(0, 0), pos.New(0, 4))
	_, _, ok := m.Find()
	assert.False(t, ok)
	d.Undo()
	_, _, ok = m.Find()
	assert.True(t, ok)
	assert.Equal(t, []string{"hide", "unhide"}, events)
}

func TestDocumentEvents(t *testing.T) {
	d := newDoc(t, NewSession(), "abc")

	var changes []*Change
	reg, err := d.OnChange(func(got *Document, c *Change) {
		assert.Same(t, d, got)
		changes = append(changes, c)
	})
	require.NoError(t, err)

	activity := 0
	_, err = d.OnCursorActivity(func(got *Document) {
		assert.Same(t, d, got)
		activity++
	})
	require.NoError(t, err)

	_, err = d.OnBeforeChange(func(_ *Document, bc *BeforeChange) {
		if bc.Text[0] == "nope" {
			bc.Cancel()
		}
	})
	require.NoError(t, err)

	d.Insert("x", pos.New(0, 0))
	d.Insert("nope", pos.New(0, 0))
	require.Len(t, changes, 1)
	assert.Equal(t, []string{"x"}, changes[0].Text)
	assert.Equal(t, "xabc", d.Value())
	assert.Equal(t, 1, activity)

	reg.Remove()
	reg.Remove()
	d.Insert("y", pos.New(0, 0))
	assert.Len(t, changes, 1)
}

func TestBeforeSelectionChange(t *testing.T) {
	d := newDoc(t, NewSession(), "abcdef")
	_, err := d.OnBeforeSelectionChange(func(_ *Document, u *SelectionUpdate) {
		u.Update([]pos.Range{pos.Cursor(pos.New(0, 1))})
	})
	require.NoError(t, err)

	d.SetCursor(pos.New(0, 4), CursorOptions{})
	assert.Equal(t, pos.New(0, 1), d.Cursor("head"))
}

func TestNativeListenerAttachedLazily(t *testing.T) {
	d := newDoc(t, NewSession(), "abc")
	native := d.Native()
	assert.Equal(t, 0, native.Count(engine.EventChange))

	a, err := d.OnChange(func(*Document, *Change) {})
	require.NoError(t, err)
	b, err := d.OnChange(func(*Document, *Change) {})
	require.NoError(t, err)
	assert.Equal(t, 1, native.Count(engine.EventChange), "one native listener per type")
	assert.Equal(t, 2, d.Subscribers(engine.EventChange))

	a.Remove()
	assert.Equal(t, 1, native.Count(engine.EventChange))
	b.Remove()
	assert.Equal(t, 0, native.Count(engine.EventChange))
	assert.Equal(t, 0, d.Subscribers(engine.EventChange))

	_, err = d.OnChange(nil)
	assert.ErrorIs(t, err, ErrNilCallback)
}

func TestSearchCursor(t *testing.T) {
	d := newDoc(t, NewSession(), "foo bar foo")
	c := d.SearchCursor("foo", pos.New(0, 0), SearchCursorOptions{})
	require.NotNil(t, c)

	require.True(t, c.FindNext())
	assert.Equal(t, pos.New(0, 0), c.From())
	require.True(t, c.FindNext())
	assert.Equal(t, pos.New(0, 8), c.From())
	assert.Equal(t, pos.New(0, 11), c.To())
	assert.Equal(t, []string{"foo"}, c.Match())

	c.Replace("baz")
	assert.Equal(t, "foo bar baz", d.Value())
	assert.False(t, c.FindNext())
	assert.False(t, c.Matched())
	c.Replace("ignored")
	assert.Equal(t, "foo bar baz", d.Value())

	assert.Nil(t, d.SearchCursor("", pos.New(0, 0), SearchCursorOptions{}))
	assert.Nil(t, d.SearchCursor("(", pos.New(0, 0), SearchCursorOptions{Regexp: true}))
}

func TestBatchAndHistory(t *testing.T) {
	d := newDoc(t, NewSession(), "")
	gen := d.ChangeGeneration(true)
	changes := 0
	_, err := d.OnChange(func(*Document, *Change) { changes++ })
	require.NoError(t, err)

	d.Batch(func() {
		d.Insert("a", pos.New(0, 0))
		d.Insert("b", pos.New(0, 1))
		assert.Equal(t, 0, changes, "events wait for the end of the batch")
	})
	assert.Equal(t, 2, changes)
	assert.False(t, d.IsClean(gen))
	d.MarkClean()
	assert.True(t, d.IsClean(0))

	undo, redo := d.HistorySize()
	assert.Positive(t, undo)
	assert.Equal(t, 0, redo)
	d.ClearHistory()
	undo, _ = d.HistorySize()
	assert.Equal(t, 0, undo)
	d.Batch(nil)
}

func TestPositionConversions(t *testing.T) {
	d := newDoc(t, NewSession(), "ab\ncd")
	assert.Equal(t, pos.New(1, 1), d.PosFromIndex(4))
	assert.Equal(t, 4, d.IndexFromPos(pos.New(1, 1)))
	assert.Equal(t, pos.New(1, 2), d.ClipPos(pos.New(5, 0)))
	assert.Equal(t, pos.NewRange(pos.New(1, 0), pos.New(1, 2)), d.WordAt(pos.New(1, 1)))
}
