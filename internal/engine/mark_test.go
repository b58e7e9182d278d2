package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/pos"
)

func mustFind(t *testing.T, m *Mark) (pos.Position, pos.Position) {
	t.Helper()
	from, to, ok := m.Find()
	require.True(t, ok, "mark is gone")
	return from, to
}

func TestMarkTracksEdits(t *testing.T) {
	tests := []struct {
		name     string
		opts     MarkOptions
		at       pos.Position
		wantFrom pos.Position
		wantTo   pos.Position
	}{
		{"insert before", MarkOptions{}, p(0, 0), p(0, 3), p(0, 6)},
		{"insert at start, exclusive", MarkOptions{}, p(0, 2), p(0, 3), p(0, 6)},
		{"insert at start, inclusive", MarkOptions{InclusiveLeft: true}, p(0, 2), p(0, 2), p(0, 6)},
		{"insert inside", MarkOptions{}, p(0, 3), p(0, 2), p(0, 6)},
		{"insert at end, exclusive", MarkOptions{}, p(0, 5), p(0, 2), p(0, 5)},
		{"insert at end, inclusive", MarkOptions{InclusiveRight: true}, p(0, 5), p(0, 2), p(0, 6)},
		{"insert after", MarkOptions{}, p(0, 6), p(0, 2), p(0, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoc("abcdefgh", DocOptions{})
			m, err := d.MarkText(p(0, 2), p(0, 5), tt.opts)
			require.NoError(t, err)

			require.NoError(t, d.Insert("X", tt.at, ""))
			from, to := mustFind(t, m)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestMarkAcrossLines(t *testing.T) {
	d := NewDoc("one\ntwo\nthree", DocOptions{})
	m, err := d.MarkText(p(1, 1), p(2, 2), MarkOptions{})
	require.NoError(t, err)
	assert.Len(t, m.Lines(), 2)

	require.NoError(t, d.Insert("zero\n", p(0, 0), ""))
	from, to := mustFind(t, m)
	assert.Equal(t, p(2, 1), from)
	assert.Equal(t, p(3, 2), to)
}

func TestEmptiedMarkHidesAndUndoRestores(t *testing.T) {
	d := NewDoc("abcd", DocOptions{})
	m, err := d.MarkText(p(0, 1), p(0, 3), MarkOptions{})
	require.NoError(t, err)
	var events []string
	m.On(EventHide, func(...any) { events = append(events, "hide") })
	m.On(EventUnhide, func(...any) { events = append(events, "unhide") })

	require.NoError(t, d.ReplaceRange("", p(0, 0), p(0, 4), ""))
	_, _, ok := m.Find()
	assert.False(t, ok)
	assert.Empty(t, d.AllMarks())
	assert.False(t, m.Cleared())

	require.NoError(t, d.Undo())
	from, to := mustFind(t, m)
	assert.Equal(t, p(0, 1), from)
	assert.Equal(t, p(0, 3), to)
	assert.Equal(t, []string{"hide", "unhide"}, events)
}

func TestKeepWhenEmpty(t *testing.T) {
	d := NewDoc("abcd", DocOptions{})
	_, err := d.MarkText(p(0, 1), p(0, 1), MarkOptions{})
	assert.ErrorIs(t, err, ErrEmptyMark)

	m, err := d.MarkText(p(0, 1), p(0, 3), MarkOptions{KeepWhenEmpty: true})
	require.NoError(t, err)
	require.NoError(t, d.ReplaceRange("", p(0, 0), p(0, 4), ""))
	from, to := mustFind(t, m)
	assert.Equal(t, p(0, 0), from)
	assert.Equal(t, p(0, 0), to)
}

func TestReadOnlyMark(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	require.NoError(t, d.Insert("0", p(0, 0), ""))
	_, err := d.MarkText(p(0, 3), p(0, 5), MarkOptions{ReadOnly: true})
	require.NoError(t, err)

	undo, _ := d.HistorySize()
	assert.Equal(t, 0, undo, "read-only marks clear history")

	assert.ErrorIs(t, d.Insert("X", p(0, 4), ""), ErrReadOnly)
	assert.ErrorIs(t, d.ReplaceRange("", p(0, 0), p(0, 4), ""), ErrReadOnly)
	assert.NoError(t, d.Insert("Y", p(0, 3), ""))
	assert.Equal(t, "0abYcdef", d.Value())

	require.NoError(t, d.SetValue("free"))
	assert.Equal(t, "free", d.Value())
}

func TestAtomicMarkPushesCursor(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	_, err := d.MarkText(p(0, 2), p(0, 4), MarkOptions{Atomic: true})
	require.NoError(t, err)

	d.SetCursor(p(0, 3), CursorOptions{})
	assert.Equal(t, p(0, 4), d.Cursor("head"), "moving right lands after the mark")

	d.SetCursor(p(0, 6), CursorOptions{})
	d.SetCursor(p(0, 3), CursorOptions{})
	assert.Equal(t, p(0, 2), d.Cursor("head"), "moving left lands before the mark")

	d.SetCursor(p(0, 3), CursorOptions{Bias: 1})
	assert.Equal(t, p(0, 4), d.Cursor("head"))
}

func TestCollapsedImpliesAtomic(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	m, err := d.MarkText(p(0, 1), p(0, 3), MarkOptions{ReplacedWith: "…"})
	require.NoError(t, err)
	assert.True(t, m.Options().Collapsed)
	assert.True(t, m.Options().Atomic)
}

func TestClearOnEnter(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	m, err := d.MarkText(p(0, 1), p(0, 4), MarkOptions{ClearOnEnter: true})
	require.NoError(t, err)
	var cleared []pos.Position
	m.On(EventClear, func(args ...any) {
		cleared = append(cleared, args[0].(pos.Position), args[1].(pos.Position))
	})

	d.SetCursor(p(0, 4), CursorOptions{})
	assert.False(t, m.Cleared())
	d.SetCursor(p(0, 2), CursorOptions{})
	assert.True(t, m.Cleared())
	assert.Equal(t, []pos.Position{p(0, 1), p(0, 4)}, cleared)
}

func TestMarkClear(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	m, err := d.MarkText(p(0, 1), p(0, 4), MarkOptions{})
	require.NoError(t, err)
	count := 0
	m.On(EventClear, func(...any) { count++ })

	m.Clear()
	m.Clear()
	assert.Equal(t, 1, count)
	assert.True(t, m.Cleared())
	assert.Empty(t, d.AllMarks())
	assert.Nil(t, m.Lines())
}

func TestBookmarks(t *testing.T) {
	tests := []struct {
		name       string
		insertLeft bool
		want       pos.Position
	}{
		{"text goes right", false, p(0, 2)},
		{"text goes left", true, p(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoc("abcd", DocOptions{})
			b := d.SetBookmark(p(0, 2), BookmarkOptions{InsertLeft: tt.insertLeft})
			assert.True(t, b.IsBookmark())

			require.NoError(t, d.Insert("X", p(0, 2), ""))
			from, to := mustFind(t, b)
			assert.Equal(t, tt.want, from)
			assert.Equal(t, from, to)
		})
	}
}

func TestBookmarkSurvivesDeletion(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	b := d.SetBookmark(p(0, 3), BookmarkOptions{})
	require.NoError(t, d.ReplaceRange("", p(0, 1), p(0, 5), ""))
	from, _ := mustFind(t, b)
	assert.Equal(t, p(0, 1), from)
}

func TestFindMarks(t *testing.T) {
	d := NewDoc("abcdefgh", DocOptions{})
	m1, err := d.MarkText(p(0, 0), p(0, 2), MarkOptions{})
	require.NoError(t, err)
	m2, err := d.MarkText(p(0, 5), p(0, 7), MarkOptions{})
	require.NoError(t, err)
	bm := d.SetBookmark(p(0, 3), BookmarkOptions{})

	assert.Equal(t, []*Mark{m1, bm}, d.FindMarks(p(0, 1), p(0, 4)))
	assert.Equal(t, []*Mark{m2}, d.FindMarksAt(p(0, 6)))
	assert.Equal(t, []*Mark{m1, m2, bm}, d.AllMarks())
}

func TestLineWidgets(t *testing.T) {
	d := NewDoc("a\nb\nc", DocOptions{})
	w1, err := d.AddLineWidgetAt(1, "first", WidgetOptions{})
	require.NoError(t, err)
	zero := 0
	w0, err := d.AddLineWidgetAt(1, "zeroth", WidgetOptions{InsertAt: &zero, Above: true})
	require.NoError(t, err)

	line, err := d.LineHandle(1)
	require.NoError(t, err)
	assert.Equal(t, []*LineWidget{w0, w1}, line.Widgets())
	assert.Same(t, line, w1.Line())

	redraws := 0
	w1.On(EventRedraw, func(...any) { redraws++ })
	require.NoError(t, w1.Changed())
	require.NoError(t, w1.SetHeight(3))
	assert.Equal(t, 2, redraws)
	assert.Equal(t, 3, w1.Options().Height)

	w0.Clear()
	assert.Equal(t, []*LineWidget{w1}, line.Widgets())

	require.NoError(t, d.ReplaceRange("", p(1, 0), p(2, 0), ""))
	assert.True(t, w1.Cleared())
	assert.ErrorIs(t, w1.Changed(), ErrMarkCleared)

	_, err = d.AddLineWidget(line, "late", WidgetOptions{})
	assert.ErrorIs(t, err, ErrStaleHandle)
	_, err = d.AddLineWidgetAt(9, "nowhere", WidgetOptions{})
	assert.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestLineClasses(t *testing.T) {
	d := NewDoc("a", DocOptions{})
	line, err := d.LineHandle(0)
	require.NoError(t, err)

	require.NoError(t, d.AddLineClass(line, "background", "err"))
	require.NoError(t, d.AddLineClass(line, "background", "hl"))
	assert.Equal(t, "err hl", line.Class("background"))

	require.NoError(t, d.RemoveLineClass(line, "background", "err"))
	assert.Equal(t, "hl", line.Class("background"))
	require.NoError(t, d.RemoveLineClass(line, "background", ""))
	assert.Empty(t, line.Class("background"))
}
