package event

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/mirror/internal/logging"
)

// Decoder converts the raw arguments of a native event into the value
// handed to handlers.
type Decoder func(t Type, args []any) any

// Handler receives a decoded event.
type Handler func(v any)

// DefaultDecoder passes a single argument through unchanged and returns
// the argument slice otherwise.
func DefaultDecoder(_ Type, args []any) any {
	if len(args) == 1 {
		return args[0]
	}
	return args
}

// MuxOption configures a Mux.
type MuxOption func(*Mux)

// WithDecoder sets the argument decoder.
func WithDecoder(d Decoder) MuxOption {
	return func(m *Mux) {
		if d != nil {
			m.decode = d
		}
	}
}

// WithLogger sets the logger used to report handler panics.
func WithLogger(l *logging.Logger) MuxOption {
	return func(m *Mux) {
		m.logger = logging.OrNull(l).WithComponent("event")
	}
}

type typeState struct {
	regs     []*Registration
	native   ListenerID
	attached bool
}

// Mux multiplexes handlers onto native listeners of a Source.
type Mux struct {
	mu     sync.Mutex
	src    Source
	decode Decoder
	logger *logging.Logger
	types  map[Type]*typeState
	closed bool
}

// NewMux creates a multiplexer over src.
func NewMux(src Source, opts ...MuxOption) *Mux {
	m := &Mux{
		src:    src,
		decode: DefaultDecoder,
		logger: logging.NullLogger,
		types:  make(map[Type]*typeState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registration is a handle to a subscribed handler.
type Registration struct {
	mux     *Mux
	typ     Type
	handler Handler
	removed atomic.Bool
}

// Type returns the event type the handler is subscribed to.
func (r *Registration) Type() Type {
	return r.typ
}

// Active reports whether the handler is still subscribed.
func (r *Registration) Active() bool {
	return !r.removed.Load()
}

// Remove unsubscribes the handler. Calling Remove more than once is a no-op.
func (r *Registration) Remove() {
	if r == nil || !r.removed.CompareAndSwap(false, true) {
		return
	}
	r.mux.remove(r)
}

// Subscribe registers h for events of type t. The native listener for t is
// attached when this is the first handler for t.
func (m *Mux) Subscribe(t Type, h Handler) (*Registration, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if t == "" {
		return nil, ErrEmptyType
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	st, ok := m.types[t]
	if !ok {
		st = &typeState{}
		m.types[t] = st
	}
	reg := &Registration{mux: m, typ: t, handler: h}
	st.regs = append(st.regs, reg)
	if len(st.regs) == 1 && !st.attached {
		st.native = m.src.On(t, m.listenerFor(t))
		st.attached = true
	}
	return reg, nil
}

func (m *Mux) remove(r *Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.types[r.typ]
	if !ok {
		return
	}
	for i, reg := range st.regs {
		if reg != r {
			continue
		}
		next := make([]*Registration, 0, len(st.regs)-1)
		next = append(next, st.regs[:i]...)
		st.regs = append(next, st.regs[i+1:]...)
		break
	}
	if len(st.regs) == 0 {
		m.detach(r.typ, st)
	}
}

// detach must be called with m.mu held.
func (m *Mux) detach(t Type, st *typeState) {
	if st.attached {
		m.src.Off(t, st.native)
		st.attached = false
	}
	delete(m.types, t)
}

func (m *Mux) listenerFor(t Type) Listener {
	return func(args ...any) {
		m.mu.Lock()
		st, ok := m.types[t]
		var regs []*Registration
		if ok {
			regs = st.regs
		}
		m.mu.Unlock()
		if len(regs) == 0 {
			return
		}

		v := m.decode(t, args)
		for _, reg := range regs {
			if !reg.Active() {
				continue
			}
			m.call(reg, v)
		}
	}
}

func (m *Mux) call(reg *Registration, v any) {
	defer func() {
		if p := recover(); p != nil {
			m.logger.WithField("type", string(reg.typ)).Error("handler panicked: %v", p)
		}
	}()
	reg.handler(v)
}

// Count returns the number of handlers subscribed to t.
func (m *Mux) Count(t Type) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.types[t]; ok {
		return len(st.regs)
	}
	return 0
}

// Attached reports whether the native listener for t is attached.
func (m *Mux) Attached(t Type) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.types[t]
	return ok && st.attached
}

// Types returns the event types that currently have handlers.
func (m *Mux) Types() []Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Type, 0, len(m.types))
	for t := range m.types {
		out = append(out, t)
	}
	return out
}

// Close removes every handler and detaches every native listener.
// Subsequent subscriptions fail with ErrClosed.
func (m *Mux) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for t, st := range m.types {
		for _, reg := range st.regs {
			reg.removed.Store(true)
		}
		m.detach(t, st)
	}
}
