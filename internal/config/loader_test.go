package config

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory file system for loader tests.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func TestLoad(t *testing.T) {
	fsys := memFS{"/opts.toml": `
tabSize = 2
keyMap = "emacsy"
gutters = ["lint", "folds"]
mode = { name = "javascript", json = true }

[extraKeys]
"Ctrl-J" = "selectAll"
`}
	values, err := NewLoader(WithFS(fsys)).Load("/opts.toml")
	require.NoError(t, err)

	assert.Equal(t, int64(2), values["tabSize"])
	assert.Equal(t, "emacsy", values["keyMap"])
	assert.Equal(t, []any{"lint", "folds"}, values["gutters"])
	assert.Equal(t, map[string]any{"name": "javascript", "json": true}, values["mode"])
	assert.Equal(t, map[string]any{"Ctrl-J": "selectAll"}, values["extraKeys"])
}

func TestLoadMissingFile(t *testing.T) {
	values, err := NewLoader(WithFS(memFS{})).Load("/absent.toml")
	assert.NoError(t, err)
	assert.Nil(t, values)
}

func TestLoadParseError(t *testing.T) {
	fsys := memFS{"/bad.toml": "tabSize = 2\nkeyMap = \n"}
	_, err := NewLoader(WithFS(fsys)).Load("/bad.toml")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/bad.toml", pe.Path)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, pe.Error(), "line 2")
}

func TestIncludes(t *testing.T) {
	fsys := memFS{
		"/cfg/main.toml": `
"@include" = ["base.toml", "/shared/keys.toml"]
tabSize = 8

[extraKeys]
"Ctrl-K" = "killLine"
`,
		"/cfg/base.toml": `
tabSize = 2
theme = "night"
`,
		"/shared/keys.toml": `
[extraKeys]
"Ctrl-J" = "selectAll"
"Ctrl-K" = "deleteLine"
`,
	}
	values, err := NewLoader(WithFS(fsys)).Load("/cfg/main.toml")
	require.NoError(t, err)

	assert.NotContains(t, values, "@include")
	assert.Equal(t, int64(8), values["tabSize"], "the including file wins")
	assert.Equal(t, "night", values["theme"])
	assert.Equal(t, map[string]any{"Ctrl-J": "selectAll", "Ctrl-K": "killLine"}, values["extraKeys"])
}

func TestIncludeErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		fsys := memFS{
			"/a.toml": `"@include" = "b.toml"`,
			"/b.toml": `"@include" = "a.toml"`,
		}
		_, err := NewLoader(WithFS(fsys), WithMaxIncludeDepth(4)).Load("/a.toml")
		assert.ErrorIs(t, err, ErrIncludeDepth)
	})
	t.Run("bad type", func(t *testing.T) {
		fsys := memFS{"/a.toml": `"@include" = 3`}
		_, err := NewLoader(WithFS(fsys)).Load("/a.toml")
		assert.ErrorIs(t, err, ErrIncludeType)
	})
	t.Run("missing include", func(t *testing.T) {
		fsys := memFS{"/a.toml": "\"@include\" = \"gone.toml\"\ntabSize = 3"}
		values, err := NewLoader(WithFS(fsys)).Load("/a.toml")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"tabSize": int64(3)}, values)
	})
}

func TestLoadOptionsReader(t *testing.T) {
	values, err := LoadOptionsReader(strings.NewReader("readOnly = \"nocursor\"\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"readOnly": "nocursor"}, values)

	values, err = LoadOptionsReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, values)
}
