package options

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/logging"
)

// entityNames lists the options whose full value the live editor does not
// report back.
var entityNames = map[string]bool{
	"mode":      true,
	"extraKeys": true,
}

// EditorOptions is the typed options facade.
type EditorOptions struct {
	store  Store
	logger *logging.Logger
}

// Option configures an EditorOptions.
type Option func(*EditorOptions)

// WithLogger sets the logger used for absorbed setter errors.
func WithLogger(l *logging.Logger) Option {
	return func(o *EditorOptions) {
		o.logger = logging.OrNull(l).WithComponent("options")
	}
}

// New returns detached options holding the defaults.
func New(opts ...Option) *EditorOptions {
	o := &EditorOptions{
		store:  NewDetachedStore(),
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Mode returns the mode of the current store.
func (o *EditorOptions) Mode() Mode {
	return o.store.Mode()
}

// Store returns the current store.
func (o *EditorOptions) Store() Store {
	return o.store
}

// Activate binds the options to a running editor. Cached entities are
// carried into the live store; every later read and write goes through
// native.
func (o *EditorOptions) Activate(native Native) error {
	if native == nil {
		return ErrNilNative
	}
	if o.store.Mode() == ModeLive {
		return ErrAlreadyActive
	}
	live := NewLiveStore(native)
	for name := range entityNames {
		if v, ok := o.store.Entity(name); ok {
			live.SetEntity(name, v)
		}
	}
	o.store = live
	o.logger.Debug("options activated")
	return nil
}

// Get returns the value of name. Entity options fall back to the cached
// entity when the store holds no value for them.
func (o *EditorOptions) Get(name string) (any, bool) {
	v, ok := o.store.Get(name)
	if !ok {
		return nil, false
	}
	if v == nil && entityNames[name] {
		if e, ok := o.store.Entity(name); ok {
			return e, true
		}
	}
	return v, true
}

// Set writes v to name.
func (o *EditorOptions) Set(name string, v any) error {
	if err := o.store.Set(name, v); err != nil {
		return err
	}
	if entityNames[name] {
		o.store.SetEntity(name, entityValue(name, v))
	}
	return nil
}

// Values returns every option value, keyed by name, in the form the engine
// editor constructor accepts.
func (o *EditorOptions) Values() map[string]any {
	names := engine.OptionNames()
	out := make(map[string]any, len(names))
	for _, name := range names {
		if e, ok := o.store.Entity(name); ok {
			out[name] = e
			continue
		}
		if v, ok := o.Get(name); ok {
			out[name] = v
		}
	}
	return out
}

// Names returns every option name, sorted.
func (o *EditorOptions) Names() []string {
	return engine.OptionNames()
}

// Apply writes every entry of values in name order. Rejected entries do
// not stop the others; their errors are joined.
func (o *EditorOptions) Apply(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		if err := o.Set(name, values[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func entityValue(name string, v any) any {
	if name != "mode" {
		return v
	}
	switch m := v.(type) {
	case engine.ModeSpec:
		return m
	case map[string]any:
		return modeSpecFromMap(m)
	}
	return nil
}

func modeSpecFromMap(m map[string]any) engine.ModeSpec {
	spec := engine.ModeSpec{Name: engine.ModeName(m)}
	for k, v := range m {
		if k == "name" {
			continue
		}
		if spec.Options == nil {
			spec.Options = make(map[string]any)
		}
		spec.Options[k] = v
	}
	return spec
}

// set writes through Set and logs a failure instead of returning it.
func (o *EditorOptions) set(name string, v any) {
	if err := o.Set(name, v); err != nil {
		o.logger.Debug("set %s: %v", name, err)
	}
}

func (o *EditorOptions) value(name string) any {
	if v, ok := o.Get(name); ok && v != nil {
		return v
	}
	def, _ := engine.OptionDefault(name)
	return def
}

func (o *EditorOptions) boolValue(name string) bool {
	b, _ := o.value(name).(bool)
	return b
}

func (o *EditorOptions) intValue(name string) int {
	switch n := o.value(name).(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	def, _ := engine.OptionDefault(name)
	n, _ := def.(int)
	return n
}

func (o *EditorOptions) floatValue(name string) float64 {
	switch n := o.value(name).(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	def, _ := engine.OptionDefault(name)
	f, _ := def.(float64)
	return f
}

func (o *EditorOptions) stringValue(name string) string {
	switch s := o.value(name).(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

func (o *EditorOptions) stringsValue(name string) []string {
	s, _ := o.value(name).([]string)
	return append([]string{}, s...)
}
