package mirror

import (
	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/event"
)

// Registration is the handle returned by every On method. Remove detaches
// the handler; removing twice is a no-op.
type Registration = event.Registration

// Event payloads shared with the engine.
type (
	Change          = engine.Change
	BeforeChange    = engine.BeforeChange
	SelectionUpdate = engine.SelectionUpdate
)

// decode turns the raw arguments of an engine event into wrappers, so
// handlers never see engine objects the session already wraps.
func (s *Session) decode(_ event.Type, args []any) any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *engine.Doc:
			out[i] = s.wrapDoc(v)
		case *engine.Editor:
			if ed, ok := s.editors.Get(v); ok {
				out[i] = ed
			} else {
				out[i] = v
			}
		case *engine.Line:
			out[i] = s.wrapDoc(v.Doc()).wrapLine(v)
		default:
			out[i] = a
		}
	}
	return out
}

func (s *Session) newMux(src event.Source) *event.Mux {
	return event.NewMux(src, event.WithDecoder(s.decode), event.WithLogger(s.logger))
}

// argAt returns args[i] as T, or the zero T.
func argAt[T any](args []any, i int) T {
	var zero T
	if i >= len(args) {
		return zero
	}
	v, ok := args[i].(T)
	if !ok {
		return zero
	}
	return v
}

// on subscribes fn to t with the decoded argument list.
func on(m *event.Mux, t event.Type, fn func(args []any)) (*Registration, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return m.Subscribe(t, func(v any) {
		args, _ := v.([]any)
		fn(args)
	})
}
