package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/pos"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		in          []pos.Range
		primary     int
		want        []pos.Range
		wantPrimary int
	}{
		{
			name:        "sorts",
			in:          []pos.Range{pos.Cursor(p(1, 0)), pos.Cursor(p(0, 0))},
			primary:     0,
			want:        []pos.Range{pos.Cursor(p(0, 0)), pos.Cursor(p(1, 0))},
			wantPrimary: 1,
		},
		{
			name:        "merges overlapping",
			in:          []pos.Range{pos.NewRange(p(0, 0), p(0, 4)), pos.NewRange(p(0, 2), p(0, 6))},
			primary:     1,
			want:        []pos.Range{pos.NewRange(p(0, 0), p(0, 6))},
			wantPrimary: 0,
		},
		{
			name:        "keeps inverted direction",
			in:          []pos.Range{pos.NewRange(p(0, 4), p(0, 0)), pos.NewRange(p(0, 3), p(0, 6))},
			primary:     0,
			want:        []pos.Range{pos.NewRange(p(0, 6), p(0, 0))},
			wantPrimary: 0,
		},
		{
			name:        "merges duplicate cursors",
			in:          []pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(0, 1)), pos.Cursor(p(0, 3))},
			primary:     2,
			want:        []pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(0, 3))},
			wantPrimary: 1,
		},
		{
			name:        "out of range primary",
			in:          []pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(0, 3))},
			primary:     7,
			want:        []pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(0, 3))},
			wantPrimary: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.in, tt.primary)
			assert.Equal(t, tt.want, got.Ranges)
			assert.Equal(t, tt.wantPrimary, got.Primary)
		})
	}
}

func TestCursorEnds(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	d.SetSelection(p(0, 4), p(0, 1), CursorOptions{})

	assert.Equal(t, p(0, 1), d.Cursor("head"))
	assert.Equal(t, p(0, 4), d.Cursor("anchor"))
	assert.Equal(t, p(0, 1), d.Cursor("from"))
	assert.Equal(t, p(0, 4), d.Cursor("end"))
	assert.Equal(t, "bcd", d.SelectedText(""))
	assert.True(t, d.SomethingSelected())
}

func TestSetSelectionsClipsAndIgnoresEmpty(t *testing.T) {
	d := NewDoc("ab\ncd", DocOptions{})
	d.SetSelections(nil, 0, CursorOptions{})
	assert.Equal(t, p(0, 0), d.Cursor("head"))

	d.SetSelections([]pos.Range{pos.NewRange(p(-3, 0), p(7, 9))}, 0, CursorOptions{})
	assert.Equal(t, p(0, 0), d.Cursor("anchor"))
	assert.Equal(t, p(1, 2), d.Cursor("head"))
}

func TestAddAndExtendSelection(t *testing.T) {
	d := NewDoc("one two three", DocOptions{})
	d.SetCursor(p(0, 0), CursorOptions{})
	d.AddSelection(p(0, 4), p(0, 7), CursorOptions{})

	sel := d.Selection()
	require.Len(t, sel.Ranges, 2)
	assert.Equal(t, 1, sel.Primary)
	assert.Equal(t, []string{"", "two"}, d.SelectedTexts())

	d.ExtendSelection(p(0, 13), nil, CursorOptions{})
	assert.Equal(t, p(0, 4), d.Cursor("anchor"))
	assert.Equal(t, p(0, 13), d.Cursor("head"))

	other := p(0, 2)
	d.ExtendSelection(p(0, 8), &other, CursorOptions{})
	assert.Equal(t, p(0, 8), d.Cursor("anchor"))
	assert.Equal(t, p(0, 2), d.Cursor("head"))
}

func TestExtendSelectionsBy(t *testing.T) {
	d := NewDoc("abc\ndef", DocOptions{})
	d.SetSelections([]pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(1, 1))}, 0, CursorOptions{})
	d.ExtendSelectionsBy(func(r pos.Range) pos.Position {
		return d.lineEnd(r.Head.Line)
	}, CursorOptions{})
	assert.Equal(t, []string{"bc", "ef"}, d.SelectedTexts())
	assert.Equal(t, "bc|ef", d.SelectedText("|"))
}

func TestReplaceSelections(t *testing.T) {
	tests := []struct {
		name     string
		collapse string
		want     []pos.Range
	}{
		{"end", "", []pos.Range{pos.Cursor(p(0, 2)), pos.Cursor(p(0, 6))}},
		{"start", "start", []pos.Range{pos.Cursor(p(0, 0)), pos.Cursor(p(0, 3))}},
		{"around", "around", []pos.Range{pos.NewRange(p(0, 0), p(0, 2)), pos.NewRange(p(0, 3), p(0, 6))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoc("ab cd ef", DocOptions{})
			d.SetSelections([]pos.Range{
				pos.NewRange(p(0, 0), p(0, 2)),
				pos.NewRange(p(0, 3), p(0, 5)),
			}, 0, CursorOptions{})

			require.NoError(t, d.ReplaceSelections([]string{"XY", "UVW"}, tt.collapse, "paste"))
			assert.Equal(t, "XY UVW ef", d.Value())
			assert.Equal(t, tt.want, d.Selections())
		})
	}
}

func TestReplaceSelectionsCountMismatch(t *testing.T) {
	d := NewDoc("abc", DocOptions{})
	err := d.ReplaceSelections([]string{"a", "b"}, "", "")
	assert.ErrorIs(t, err, ErrSelectionCount)
}

func TestReplaceSelectionIsOneUndoEvent(t *testing.T) {
	d := NewDoc("a b c", DocOptions{})
	d.SetSelections([]pos.Range{pos.Cursor(p(0, 1)), pos.Cursor(p(0, 3)), pos.Cursor(p(0, 5))}, 0, CursorOptions{})
	require.NoError(t, d.ReplaceSelection("!", ""))
	assert.Equal(t, "a! b! c!", d.Value())

	require.NoError(t, d.Undo())
	assert.Equal(t, "a b c", d.Value())
	assert.Len(t, d.Selections(), 3)
}

func TestBeforeSelectionChange(t *testing.T) {
	d := NewDoc("abcdef", DocOptions{})
	var origins []string
	d.On(EventBeforeSelectionChange, func(args ...any) {
		u := args[1].(*SelectionUpdate)
		origins = append(origins, u.Origin)
		if u.Ranges[0].Head.Ch > 3 {
			u.Update([]pos.Range{pos.Cursor(p(0, 3))})
		}
	})

	d.SetCursor(p(0, 5), CursorOptions{Origin: "+move"})
	assert.Equal(t, p(0, 3), d.Cursor("head"))
	assert.Equal(t, []string{"+move"}, origins)
}

func TestCursorActivityOnlyOnChange(t *testing.T) {
	d := NewDoc("abc", DocOptions{})
	count := 0
	d.On(EventCursorActivity, func(...any) { count++ })

	d.SetCursor(p(0, 2), CursorOptions{})
	d.SetCursor(p(0, 2), CursorOptions{})
	assert.Equal(t, 1, count)
}

func TestExtending(t *testing.T) {
	d := NewDoc("abc", DocOptions{})
	assert.False(t, d.Extending())
	d.SetExtending(true)
	assert.True(t, d.Extending())
}
