package config

import (
	"github.com/dshills/mirror/internal/options"
)

// ApplyOptions writes values into opts. Every entry is tried; the errors
// of rejected entries are joined, so errors.Is matches
// engine.ErrUnknownOption and engine.ErrInvalidOption.
func ApplyOptions(opts *options.EditorOptions, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	return opts.Apply(values)
}

// Load reads the options file at path, when path is not empty, and merges
// the MIRROR_ environment variables over it.
func Load(path string, environ []string) (map[string]any, error) {
	values := map[string]any{}
	if path != "" {
		fromFile, err := LoadOptions(path)
		if err != nil {
			return nil, err
		}
		values = DeepMerge(values, fromFile)
	}
	return DeepMerge(values, LoadEnv(EnvPrefix, environ)), nil
}
