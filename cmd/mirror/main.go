// Package main is a headless driver for the mirror editor library. It
// loads a file into an editor, applies options, key maps and Lua commands,
// replays keys and commands, and prints or writes the result. With -tty it
// runs an interactive terminal loop instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	ConfigPath string
	KeyMapPath string
	ScriptPath string
	Keys       string
	Exec       []string
	LogLevel   string
	LogPath    string
	TTY        bool
	Write      bool
	Mac        bool
	File       string
}

// errUsage is returned by parseFlags after printing help or version text.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Environ()))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, environ []string) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errUsage) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	a, err := newApp(opts, stdin, stderr, environ)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if opts.TTY {
		err = a.runTTY()
	} else {
		err = a.runBatch(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var exec string
	var showVersion bool

	fs := flag.NewFlagSet("mirror", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to an options file (TOML)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to an options file (shorthand)")
	fs.StringVar(&opts.KeyMapPath, "keymap", "", "Path to a key map file (YAML)")
	fs.StringVar(&opts.ScriptPath, "script", "", "Path to a Lua file defining commands")
	fs.StringVar(&opts.Keys, "keys", "", "Keys to replay, e.g. \"Ctrl-A Backspace\"")
	fs.StringVar(&exec, "exec", "", "Comma-separated commands to run after the keys")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogPath, "log", "", "Write logs to this file instead of stderr")
	fs.BoolVar(&opts.TTY, "tty", false, "Run an interactive terminal editor")
	fs.BoolVar(&opts.Write, "w", false, "Write the result back to the file")
	fs.BoolVar(&opts.Mac, "mac", false, "Use macOS key conventions (Mod is Cmd)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "mirror - headless code editor\n\n")
		fmt.Fprintf(stderr, "Usage: mirror [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mirror -keys \"Ctrl-End Enter\" -exec selectAll,indentMore file.go\n")
		fmt.Fprintf(stderr, "  mirror -script cmds.lua -exec upcaseLine -w notes.txt\n")
		fmt.Fprintf(stderr, "  mirror -tty -config opts.toml file.go\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errUsage
		}
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "mirror %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errUsage
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	for _, name := range strings.Split(exec, ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.Exec = append(opts.Exec, name)
		}
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected one file, got %d", fs.NArg())
	}
	if opts.Write && opts.File == "" {
		return opts, errors.New("-w needs a file")
	}
	return opts, nil
}
