package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/options"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"tabSize":   int64(2),
		"extraKeys": map[string]any{"Ctrl-J": "selectAll"},
		"gutters":   []any{"a"},
	}
	src := map[string]any{
		"tabSize":   int64(4),
		"extraKeys": map[string]any{"Ctrl-K": "killLine"},
		"gutters":   []any{"b"},
	}
	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{
		"tabSize":   int64(4),
		"extraKeys": map[string]any{"Ctrl-J": "selectAll", "Ctrl-K": "killLine"},
		"gutters":   []any{"b"},
	}, got)

	src["gutters"].([]any)[0] = "changed"
	assert.Equal(t, []any{"b"}, got["gutters"], "merged values are copies")

	assert.Equal(t, map[string]any{"x": 1}, DeepMerge(nil, map[string]any{"x": 1}))
}

func TestClone(t *testing.T) {
	orig := map[string]any{"mode": map[string]any{"name": "go"}}
	c := Clone(orig)
	c["mode"].(map[string]any)["name"] = "python"
	assert.Equal(t, "go", orig["mode"].(map[string]any)["name"])
	assert.Nil(t, Clone(nil))
}

func TestLoadEnv(t *testing.T) {
	environ := []string{
		"MIRROR_TAB_SIZE=2",
		"MIRROR_READ_ONLY=nocursor",
		"MIRROR_LINE_NUMBERS=yes",
		"MIRROR_CURSOR_HEIGHT=0.5",
		"MIRROR_GUTTERS=[\"lint\",\"folds\"]",
		"MIRROR_TABINDEX=3",
		"MIRROR_NO_SUCH_THING=1",
		"HOME=/root",
		"MIRROR_=x",
	}
	got := LoadEnv(EnvPrefix, environ)
	assert.Equal(t, map[string]any{
		"tabSize":      int64(2),
		"readOnly":     "nocursor",
		"lineNumbers":  true,
		"cursorHeight": 0.5,
		"gutters":      []any{"lint", "folds"},
		"tabindex":     int64(3),
		"noSuchThing":  int64(1),
	}, got)
}

func TestLoadEnvBooleans(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"YES", true},
		{"On", true},
		{"false", false},
		{"no", false},
		{"OFF", false},
		{"1", int64(1)},
		{"0", int64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := LoadEnv(EnvPrefix, []string{"MIRROR_LINE_WRAPPING=" + tt.raw})
			assert.Equal(t, tt.want, got["lineWrapping"])
		})
	}
}

func TestApplyOptions(t *testing.T) {
	opts := options.New()
	values := map[string]any{
		"tabSize":   int64(2),
		"gutters":   []any{"lint"},
		"mode":      map[string]any{"name": "javascript", "json": true},
		"extraKeys": map[string]any{"Ctrl-J": "selectAll"},
		"tabsize":   int64(9),
		"readOnly":  int64(1),
	}
	err := ApplyOptions(opts, values)
	assert.ErrorIs(t, err, engine.ErrUnknownOption)
	assert.ErrorIs(t, err, engine.ErrInvalidOption)

	assert.Equal(t, 2, opts.TabSize())
	assert.Equal(t, []string{"lint"}, opts.Gutters())
	assert.Equal(t, engine.ModeSpec{Name: "javascript", Options: map[string]any{"json": true}}, opts.Language())
	assert.Equal(t, options.ReadOnlyOff, opts.ReadOnly())

	assert.NoError(t, ApplyOptions(opts, nil))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.toml")
	require.NoError(t, os.WriteFile(path, []byte("tabSize = 2\ntheme = \"night\"\n"), 0o644))

	values, err := Load(path, []string{"MIRROR_TAB_SIZE=6"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tabSize": int64(6), "theme": "night"}, values)

	values, err = Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, os.WriteFile(path, []byte("tabSize = = 2"), 0o644))
	_, err = Load(path, nil)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
