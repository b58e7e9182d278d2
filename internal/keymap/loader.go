package keymap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML shape of a keymap file:
//
//	name: mine
//	fallthrough: [default]
//	bindings:
//	  Ctrl-S: save
//	  Ctrl-K Ctrl-C: toggleComment
//	  Ctrl-Q: false
type fileConfig struct {
	Name        string               `yaml:"name"`
	Fallthrough []string             `yaml:"fallthrough"`
	Bindings    map[string]yaml.Node `yaml:"bindings"`
}

// LoadYAML reads one keymap document.
func LoadYAML[F any](r io.Reader) (*Map[F], error) {
	var cfg fileConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}

	m := NewMap[F](cfg.Name, cfg.Fallthrough...)

	keys := make([]string, 0, len(cfg.Bindings))
	for k := range cfg.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		node := cfg.Bindings[k]
		b, err := bindingFromNode[F](&node)
		if err == nil {
			err = m.Set(k, b)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %s: %q: %w", cfg.Name, k, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// LoadYAMLFile reads a keymap file.
func LoadYAMLFile[F any](path string) (*Map[F], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()
	return LoadYAML[F](f)
}

// LoadDir loads every *.yaml and *.yml file in dir into t. Files that fail
// to load are reported together; the rest are still registered.
func LoadDir[F any](t *Table[F], dir string) error {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	var errs []error
	for _, p := range paths {
		m, err := LoadYAMLFile[F](p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		if err := t.Register(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func bindingFromNode[F any](n *yaml.Node) (Binding[F], error) {
	if n.Kind != yaml.ScalarNode {
		return Binding[F]{}, fmt.Errorf("binding must be a command name or false")
	}
	if n.Tag == "!!bool" {
		var v bool
		if err := n.Decode(&v); err != nil {
			return Binding[F]{}, err
		}
		if v {
			return Binding[F]{}, fmt.Errorf("binding must be a command name or false")
		}
		return DisabledBinding[F](), nil
	}
	return CommandBinding[F](n.Value), nil
}
