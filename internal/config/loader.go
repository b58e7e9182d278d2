package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultMaxIncludeDepth bounds nested @include directives.
const DefaultMaxIncludeDepth = 8

const includeKey = "@include"

// FileSystem reads files for a Loader.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads TOML options files.
type Loader struct {
	fs       FileSystem
	maxDepth int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS reads files through fsys.
func WithFS(fsys FileSystem) LoaderOption {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithMaxIncludeDepth bounds nested @include directives.
func WithMaxIncludeDepth(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxDepth = n
		}
	}
}

// NewLoader creates a loader reading from the operating system.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{fs: OSFS{}, maxDepth: DefaultMaxIncludeDepth}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path and the files it includes. A missing file is not an
// error: the result is nil.
func (l *Loader) Load(path string) (map[string]any, error) {
	return l.load(path, l.maxDepth)
}

// LoadReader parses options from r. Includes resolve against the working
// directory.
func (l *Loader) LoadReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading options: %w", err)
	}
	values, err := parse("<reader>", data)
	if err != nil {
		return nil, err
	}
	return l.resolveIncludes(".", values, l.maxDepth)
}

func (l *Loader) load(path string, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeDepth)
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading options file %s: %w", path, err)
	}
	values, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	return l.resolveIncludes(filepath.Dir(path), values, depth)
}

func (l *Loader) resolveIncludes(dir string, values map[string]any, depth int) (map[string]any, error) {
	raw, ok := values[includeKey]
	if !ok {
		return values, nil
	}
	delete(values, includeKey)

	var includes []string
	switch v := raw.(type) {
	case string:
		includes = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, ErrIncludeType
			}
			includes = append(includes, s)
		}
	default:
		return nil, fmt.Errorf("%w, got %T", ErrIncludeType, raw)
	}

	merged := map[string]any{}
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		included, err := l.load(inc, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		merged = DeepMerge(merged, included)
	}
	return DeepMerge(merged, values), nil
}

func parse(source string, data []byte) (map[string]any, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		pe := &ParseError{Path: source, Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// LoadOptions reads an options file with the default loader.
func LoadOptions(path string) (map[string]any, error) {
	return NewLoader().Load(path)
}

// LoadOptionsReader parses options from r with the default loader.
func LoadOptionsReader(r io.Reader) (map[string]any, error) {
	return NewLoader().LoadReader(r)
}
