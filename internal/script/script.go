package script

import (
	"fmt"
	"os"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/mirror"
)

// Script is a loaded Lua chunk and the commands it defined.
type Script struct {
	name     string
	session  *mirror.Session
	state    *State
	logger   *logging.Logger
	pass     *lua.LTable
	commands map[string]bool
}

// Load runs code in a fresh state bound to s. Commands it defines through
// the mirror module are registered in the session command table.
func Load(s *mirror.Session, code string, opts ...StateOption) (*Script, error) {
	return load(s, "<string>", opts, func(st *State) error { return st.DoString(code) })
}

// LoadFile runs the Lua file at path like Load.
func LoadFile(s *mirror.Session, path string, opts ...StateOption) (*Script, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(s, path, opts, func(st *State) error { return st.DoFile(path) })
}

func load(s *mirror.Session, name string, opts []StateOption, run func(*State) error) (*Script, error) {
	if s == nil {
		return nil, mirror.ErrNilSession
	}
	logger := s.Logger().WithComponent("script").WithField("script", name)
	opts = append([]StateOption{WithStateLogger(logger)}, opts...)

	sc := &Script{
		name:     name,
		session:  s,
		state:    NewState(opts...),
		logger:   logger,
		commands: map[string]bool{},
	}
	sc.state.Preload(ModuleName, sc.openModule)

	if err := run(sc.state); err != nil {
		sc.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	logger.Debug("defined %d commands", len(sc.commands))
	return sc, nil
}

// Name returns the file the script came from, or "<string>".
func (sc *Script) Name() string { return sc.name }

// State returns the script's Lua state.
func (sc *Script) State() *State { return sc.state }

// Commands returns the names the script defined, sorted.
func (sc *Script) Commands() []string {
	names := make([]string, 0, len(sc.commands))
	for n := range sc.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close removes the script's commands from the session and closes its
// state. It is safe to call more than once.
func (sc *Script) Close() error {
	if sc.state.IsClosed() {
		return nil
	}
	for name := range sc.commands {
		sc.session.Commands().Remove(name)
	}
	sc.commands = map[string]bool{}
	return sc.state.Close()
}

func (sc *Script) openModule(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"defineCommand": sc.luaDefineCommand,
		"hasCommand": func(L *lua.LState) int {
			L.Push(lua.LBool(sc.session.Commands().Has(L.CheckString(1))))
			return 1
		},
		"commands": func(L *lua.LState) int {
			L.Push(toLua(L, sc.session.Commands().Names()))
			return 1
		},
		"log": func(L *lua.LState) int {
			parts := make([]string, L.GetTop())
			for i := range parts {
				parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
			}
			sc.logger.Info("%s", strings.Join(parts, " "))
			return 0
		},
	})
	sc.pass = L.NewTable()
	L.SetField(mod, "Pass", sc.pass)
	L.Push(mod)
	return 1
}

// luaDefineCommand implements mirror.defineCommand(name, fn).
func (sc *Script) luaDefineCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "command name is empty")
		return 0
	}
	if sc.commands[name] {
		// Redefinition replaces this script's own entry in place.
		sc.session.Commands().Remove(name)
	}
	err := sc.session.Commands().Register(name, func(e *mirror.Editor) error {
		return sc.run(name, fn, e)
	})
	if err != nil {
		delete(sc.commands, name)
		L.RaiseError("defining %s: %v", name, err)
		return 0
	}
	sc.commands[name] = true
	return 0
}

// run calls a Lua command body on e. Returning mirror.Pass from the body
// declines the key that triggered it.
func (sc *Script) run(name string, fn *lua.LFunction, e *mirror.Editor) error {
	results, err := sc.state.Call(fn, newEditorTable(sc.state.L, e))
	if err != nil {
		sc.logger.Debug("command %s: %v", name, err)
		return fmt.Errorf("command %s: %w", name, err)
	}
	if len(results) > 0 && results[0] == sc.pass {
		return mirror.ErrPass
	}
	return nil
}
