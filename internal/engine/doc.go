// Package engine is an in-memory editing engine with the document model of a
// browser code editor: line-oriented documents addressed by (line, ch)
// positions, multiple selections, undo history with generations, text marks
// and bookmarks that track edits, line handles and line widgets, and an
// editor that binds a document to options, commands and key maps.
//
// The engine is not safe for concurrent use. Every Doc and Editor is driven
// from a single goroutine, the way a browser editor runs on its event loop,
// and events are delivered synchronously from inside the operation that
// caused them.
//
// # Positions
//
// Lines are numbered from the document's first line number (0 by default).
// Columns are byte offsets into the line text, always clipped to a grapheme
// cluster boundary. pos.EndOfLine clips to the end of the line.
//
// # Events
//
// Doc, Editor, Line, Mark and LineWidget each embed an event.Listeners and
// emit the events named by the constants in events.go. Listener arguments
// are documented next to each constant.
package engine
