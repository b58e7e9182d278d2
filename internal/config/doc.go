// Package config loads editor options from files and the environment.
//
// An options file is TOML whose top-level keys are option names:
//
//	tabSize = 2
//	keyMap = "emacsy"
//	gutters = ["lint"]
//	mode = { name = "javascript", json = true }
//
//	[extraKeys]
//	"Ctrl-J" = "selectAll"
//
// A file may pull in other files with an "@include" key holding a path or
// a list of paths, resolved against the including file's directory. Values
// in the including file override included ones.
//
// Environment variables named with the MIRROR_ prefix and the option name
// in upper snake case (MIRROR_TAB_SIZE) override file values.
//
// Watcher reloads an options file whenever it changes on disk and hands
// the new values to the caller, who applies them to a live EditorOptions
// on the goroutine that owns the editor.
package config
