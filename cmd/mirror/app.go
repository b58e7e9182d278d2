package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dshills/mirror/internal/config"
	"github.com/dshills/mirror/internal/logging"
	"github.com/dshills/mirror/internal/mirror"
	"github.com/dshills/mirror/internal/options"
	"github.com/dshills/mirror/internal/script"
	"github.com/dshills/mirror/internal/stroke"
)

// app is one driver run: a session with a single editor over the input
// file.
type app struct {
	opts    cliOptions
	environ []string
	logger  *logging.Logger
	logFile *os.File

	session *mirror.Session
	editor  *mirror.Editor
	keyMap  *mirror.KeyMap
	script  *script.Script
}

func newApp(opts cliOptions, stdin io.Reader, stderr io.Writer, environ []string) (_ *app, err error) {
	a := &app{opts: opts, environ: environ}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.initLogger(stderr); err != nil {
		return nil, err
	}

	text, err := readInput(opts, stdin)
	if err != nil {
		return nil, err
	}

	values, err := config.Load(opts.ConfigPath, environ)
	if err != nil {
		return nil, err
	}

	a.session = mirror.NewSession(mirror.WithLogger(a.logger), mirror.WithMac(opts.Mac))

	if opts.KeyMapPath != "" {
		if a.keyMap, err = a.session.LoadKeyMapFile(opts.KeyMapPath); err != nil {
			return nil, fmt.Errorf("loading key map: %w", err)
		}
	}
	if opts.ScriptPath != "" {
		if a.script, err = script.LoadFile(a.session, opts.ScriptPath); err != nil {
			return nil, err
		}
	}

	eo := options.New(options.WithLogger(a.logger))
	if err := config.ApplyOptions(eo, values); err != nil {
		a.logger.Warn("options: %v", err)
	}
	eo.SetValue(text)

	if a.editor, err = mirror.NewEditor(a.session, eo); err != nil {
		return nil, err
	}
	if a.keyMap != nil {
		a.editor.AddKeyMap(a.keyMap, false)
	}
	a.editor.Focus()
	return a, nil
}

func (a *app) initLogger(stderr io.Writer) error {
	out := stderr
	if a.opts.LogPath != "" {
		f, err := os.OpenFile(a.opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		a.logFile = f
		out = f
	}
	a.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(a.opts.LogLevel),
		Output: out,
		Prefix: "mirror",
	})
	if a.opts.TTY && a.logFile == nil {
		// The terminal belongs to the editor.
		a.logger.Disable()
	}
	return nil
}

// readInput returns the file's text. A file that does not exist yet is
// empty; with no file, batch mode reads stdin.
func readInput(opts cliOptions, stdin io.Reader) (string, error) {
	if opts.File == "" {
		if opts.TTY || stdin == nil {
			return "", nil
		}
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(opts.File)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

// runBatch replays -keys and -exec, then prints or writes the result.
func (a *app) runBatch(stdout io.Writer) error {
	if a.opts.Keys != "" {
		if _, err := stroke.ParseMultiWith(a.opts.Keys, stroke.Options{Mac: a.opts.Mac}); err != nil {
			return fmt.Errorf("keys: %w", err)
		}
		if !a.editor.HandleKeys(a.opts.Keys) {
			a.logger.Debug("last key of %q was not handled", a.opts.Keys)
		}
	}
	for _, name := range a.opts.Exec {
		if err := a.editor.ExecCommand(name); err != nil {
			return fmt.Errorf("exec %s: %w", name, err)
		}
	}

	if a.opts.Write {
		return a.save()
	}
	_, err := io.WriteString(stdout, a.editor.Value())
	return err
}

// save writes the editor's text to the input file and marks it clean.
func (a *app) save() error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(a.opts.File); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(a.opts.File, []byte(a.editor.Value()), mode); err != nil {
		return fmt.Errorf("writing %s: %w", a.opts.File, err)
	}
	a.editor.Doc().MarkClean()
	a.logger.Info("wrote %s", a.opts.File)
	return nil
}

// Close releases everything newApp created. It tolerates a partly built
// app.
func (a *app) Close() {
	if a.script != nil {
		_ = a.script.Close()
	}
	if a.editor != nil {
		a.editor.Close()
	}
	if a.session != nil {
		a.session.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
