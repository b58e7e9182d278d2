package stroke

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		mods Modifier
		key  string
	}{
		{"a", ModNone, "A"},
		{"Ctrl-S", ModCtrl, "S"},
		{"ctrl-s", ModCtrl, "S"},
		{"Ctrl-Alt-Space", ModCtrl | ModAlt, KeySpace},
		{"Alt-Ctrl-Space", ModCtrl | ModAlt, KeySpace},
		{"Shift-Cmd-Z", ModShift | ModCmd, "Z"},
		{"Meta-Z", ModCmd, "Z"},
		{"Control-Option-X", ModCtrl | ModAlt, "X"},
		{"Ctrl-Alt--", ModCtrl | ModAlt, KeyMinus},
		{"Ctrl--", ModCtrl, KeyMinus},
		{"-", ModNone, KeyMinus},
		{"Ctrl-minus", ModCtrl, KeyMinus},
		{"Shift-Tab", ModShift, KeyTab},
		{"escape", ModNone, KeyEsc},
		{"Ctrl-return", ModCtrl, KeyEnter},
		{"f5", ModNone, "F5"},
		{"S-A", ModShift, "A"},
		{"Ctrl-A", ModCtrl, "A"},
		{"  Ctrl-Up  ", ModCtrl, KeyUp},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.mods, got.Mods)
			assert.Equal(t, tt.key, got.Key)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"Ctrl-Alt", ErrNoKey},
		{"Ctrl", ErrNoKey},
		{"Ctrl-", ErrNoKey},
		{"Hyper-X", ErrUnknownModifier},
		{"Ctrl--X", ErrEmptyModifier},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.in, pe.Input)
		})
	}
}

func TestAmbiguousMinus(t *testing.T) {
	withMinus, err := Parse("Ctrl-Alt--")
	require.NoError(t, err)
	assert.Equal(t, KeyMinus, withMinus.Key)
	assert.Equal(t, "Ctrl-Alt--", withMinus.String())

	_, err = Parse("Ctrl-Alt")
	require.ErrorIs(t, err, ErrNoKey)
}

func TestCanonicalOrderIndependentOfInput(t *testing.T) {
	inputs := []string{
		"Alt-Ctrl-Shift-Cmd-K",
		"Cmd-Shift-Alt-Ctrl-K",
		"Shift-Cmd-Ctrl-Alt-K",
		"ctrl-alt-cmd-shift-k",
	}
	for _, in := range inputs {
		got, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, "Shift-Cmd-Ctrl-Alt-K", got.String(), in)
	}
}

func TestRoundTrip(t *testing.T) {
	mods := []Modifier{ModNone, ModShift, ModCtrl, ModAlt, ModCmd, ModCtrl | ModAlt, ModShift | ModCmd | ModCtrl | ModAlt}
	keys := []string{"A", KeyMinus, KeySpace, KeyEnter, "F12", "/", KeyPageDown}
	for _, m := range mods {
		for _, k := range keys {
			orig := New(m, k)
			back, err := Parse(orig.String())
			require.NoError(t, err, orig.String())
			assert.True(t, orig.Equal(back), "%s -> %s", orig, back)
		}
	}
}

func TestModParsing(t *testing.T) {
	pc, err := Parse("Mod-S")
	require.NoError(t, err)
	assert.Equal(t, ModCtrl, pc.Mods)

	mac, err := ParseWith("Mod-S", Options{Mac: true})
	require.NoError(t, err)
	assert.Equal(t, ModCmd, mac.Mods)
}

func TestRune(t *testing.T) {
	tests := []struct {
		in     string
		want   rune
		typing bool
	}{
		{"A", 'a', true},
		{"Shift-A", 'A', true},
		{"Space", ' ', true},
		{"/", '/', true},
		{"Ctrl-A", 0, false},
		{"Enter", 0, false},
		{"Alt-X", 0, false},
	}
	for _, tt := range tests {
		r, ok := MustParse(tt.in).Rune()
		assert.Equal(t, tt.typing, ok, tt.in)
		assert.Equal(t, tt.want, r, tt.in)
	}
	assert.Equal(t, "Shift-Q", FromRune('Q').String())
	assert.Equal(t, "Q", FromRune('q').String())
	assert.Equal(t, "Space", FromRune(' ').String())
}

func TestMultiStroke(t *testing.T) {
	seq, err := ParseMulti("Alt-Ctrl-K  ctrl-c")
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Len())
	assert.Equal(t, "Ctrl-Alt-K Ctrl-C", seq.String())
	assert.Equal(t, []string{"Ctrl-Alt-K"}, seq.Prefixes())

	first, err := ParseMulti("Ctrl-Alt-K")
	require.NoError(t, err)
	assert.True(t, seq.HasPrefix(first))
	assert.False(t, first.HasPrefix(seq))

	grown := first.Append(MustParse("Ctrl-C"))
	assert.True(t, grown.Equal(seq))
	assert.Equal(t, 1, first.Len(), "Append must not alias")

	_, err = ParseMulti("Ctrl-K Ctrl")
	assert.ErrorIs(t, err, ErrNoKey)
	_, err = ParseMulti(" ")
	assert.ErrorIs(t, err, ErrEmpty)

	norm, err := Normalize("alt-shift-x")
	require.NoError(t, err)
	assert.Equal(t, "Shift-Alt-X", norm)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("Ctrl-Alt") })
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "X"},
		{"upper rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModNone), "Shift-X"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt), "Alt-F"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "Space"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "Shift-Tab"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "Ctrl-S"},
		{"f3", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone), "F3"},
		{"ctrl left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl), "Ctrl-Left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromTcell(tt.ev)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, ok := FromTcell(nil)
	assert.False(t, ok)
}
