package options

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/mirror/internal/engine"
)

// DetachedStore keeps option values in a JSON document seeded with the
// engine defaults. Values that have no JSON form (key maps, callbacks) are
// stored as null and kept in the entity cache.
type DetachedStore struct {
	entityStore
	doc string
}

// NewDetachedStore returns a store holding every option at its default.
func NewDetachedStore() *DetachedStore {
	doc := "{}"
	for _, name := range engine.OptionNames() {
		def, _ := engine.OptionDefault(name)
		var err error
		if doc, err = sjson.Set(doc, name, jsonValue(name, def)); err != nil {
			// Defaults are plain values; a failure here is a programming error.
			panic(fmt.Sprintf("options: seeding %q: %v", name, err))
		}
	}
	return &DetachedStore{doc: doc}
}

// Mode returns ModeDetached.
func (s *DetachedStore) Mode() Mode {
	return ModeDetached
}

// Get returns the stored value of name converted to the option's type.
func (s *DetachedStore) Get(name string) (any, bool) {
	typ, ok := engine.OptionTypeOf(name)
	if !ok {
		return nil, false
	}
	r := gjson.Get(s.doc, name)
	if !r.Exists() {
		def, _ := engine.OptionDefault(name)
		return def, true
	}
	return fromJSON(typ, r), true
}

// Set normalises v and stores it.
func (s *DetachedStore) Set(name string, v any) error {
	nv, err := engine.NormalizeOption(name, v)
	if err != nil {
		return err
	}
	doc, err := sjson.Set(s.doc, name, jsonValue(name, nv))
	if err != nil {
		return fmt.Errorf("storing option %q: %w", name, err)
	}
	s.doc = doc
	return nil
}

// JSON returns the stored document.
func (s *DetachedStore) JSON() string {
	return s.doc
}

// jsonValue projects v onto a value sjson can store.
func jsonValue(name string, v any) any {
	if name == "mode" {
		return engine.ModeName(v)
	}
	switch x := v.(type) {
	case nil, bool, string, int, float64:
		return x
	case []string:
		return append([]string{}, x...)
	}
	return nil
}

func fromJSON(typ engine.OptionType, r gjson.Result) any {
	switch typ {
	case engine.OptionBool:
		return r.Bool()
	case engine.OptionInt:
		return int(r.Int())
	case engine.OptionFloat:
		return r.Float()
	case engine.OptionString:
		return r.String()
	case engine.OptionStrings:
		items := r.Array()
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.String())
		}
		return out
	}
	if r.Type == gjson.Null {
		return nil
	}
	return r.Value()
}
