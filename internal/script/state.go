package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mirror/internal/logging"
)

// DefaultTimeout bounds a top-level chunk or command call.
const DefaultTimeout = 5 * time.Second

// ModuleName is the name scripts require to reach the editor API.
const ModuleName = "mirror"

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe and neither is a State. Calls
// may nest: a Lua command can run another Lua command through
// execCommand, and only the outermost call arms the timeout.
type State struct {
	L *lua.LState

	timeout time.Duration
	logger  *logging.Logger

	depth  int
	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the limit for one top-level call. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithStateLogger sets the logger that print writes to.
func WithStateLogger(l *logging.Logger) StateOption {
	return func(s *State) {
		s.logger = logging.OrNull(l)
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout: DefaultTimeout,
		logger:  logging.NullLogger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.install()
	return s
}

// openSafeLibraries opens the libraries scripts may use. io, os and debug
// stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func (s *State) install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	allowed := map[string]bool{
		lua.TabLibName:    true,
		lua.StringLibName: true,
		lua.MathLibName:   true,
		ModuleName:        true,
	}
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !allowed[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(s.require(name))
		return 1
	}))

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		s.logger.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// require resolves name from package.loaded, running its preload loader
// the first time.
func (s *State) require(name string) lua.LValue {
	L := s.L
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		L.RaiseError("package table is missing")
		return lua.LNil
	}
	loaded, _ := L.GetField(pkg, "loaded").(*lua.LTable)
	if loaded != nil {
		if mod := L.GetField(loaded, name); mod != lua.LNil {
			return mod
		}
	}
	preload, _ := L.GetField(pkg, "preload").(*lua.LTable)
	if preload == nil {
		L.RaiseError("module %q not found", name)
		return lua.LNil
	}
	loader, ok := L.GetField(preload, name).(*lua.LFunction)
	if !ok {
		L.RaiseError("module %q not found", name)
		return lua.LNil
	}
	L.Push(loader)
	L.Push(lua.LString(name))
	L.Call(1, 1)
	mod := L.Get(-1)
	L.Pop(1)
	if mod == lua.LNil {
		mod = lua.LTrue
	}
	if loaded != nil {
		L.SetField(loaded, name, mod)
	}
	return mod
}

// Preload makes a module available to require.
func (s *State) Preload(name string, loader lua.LGFunction) {
	if s.closed {
		return
	}
	s.L.PreloadModule(name, loader)
}

// DoString runs a chunk of Lua source.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.guard(func() error { return s.L.DoString(code) })
}

// DoFile runs a Lua file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	return s.guard(func() error { return s.L.DoFile(path) })
}

// Call calls fn with args and returns its results.
func (s *State) Call(fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	top := s.L.GetTop()
	err := s.guard(func() error {
		s.L.Push(fn)
		for _, a := range args {
			s.L.Push(a)
		}
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		s.L.SetTop(top)
		return nil, err
	}
	n := s.L.GetTop() - top
	results := make([]lua.LValue, n)
	for i := range results {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return results, nil
}

// guard arms the timeout on the outermost call and turns panics into
// errors.
func (s *State) guard(fn func() error) (err error) {
	var ctx context.Context
	if s.depth == 0 && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			cancel()
		}()
	}
	s.depth++
	defer func() { s.depth-- }()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = fn()
	if err != nil && ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, s.timeout, err)
	}
	return err
}

// LuaState returns the underlying gopher-lua state.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state. It is safe to call more than once.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.L.Close()
	return nil
}
