package mirror

import (
	"time"

	"github.com/dshills/mirror/internal/engine"
)

// DocumentBuilder collects the settings of a new document.
type DocumentBuilder struct {
	session *Session
	text    string
	opts    DocumentOptions
}

// NewDocumentBuilder starts a document for s.
func NewDocumentBuilder(s *Session) *DocumentBuilder {
	return &DocumentBuilder{session: s}
}

// Text sets the initial text.
func (b *DocumentBuilder) Text(text string) *DocumentBuilder {
	b.text = text
	return b
}

// Mode sets the mode by name.
func (b *DocumentBuilder) Mode(name string) *DocumentBuilder {
	b.opts.Mode = name
	return b
}

// ModeSpec sets a mode with settings.
func (b *DocumentBuilder) ModeSpec(spec engine.ModeSpec) *DocumentBuilder {
	b.opts.Mode = spec
	return b
}

// FirstLine sets the number of the first line.
func (b *DocumentBuilder) FirstLine(n int) *DocumentBuilder {
	b.opts.FirstLine = n
	return b
}

// LineSeparator sets the separator used to split and join lines.
func (b *DocumentBuilder) LineSeparator(sep string) *DocumentBuilder {
	b.opts.LineSeparator = sep
	return b
}

// Direction sets "ltr" or "rtl".
func (b *DocumentBuilder) Direction(dir string) *DocumentBuilder {
	b.opts.Direction = dir
	return b
}

// UndoDepth bounds the undo history.
func (b *DocumentBuilder) UndoDepth(n int) *DocumentBuilder {
	b.opts.UndoDepth = n
	return b
}

// HistoryEventDelay sets how long typing merges into one undo event.
func (b *DocumentBuilder) HistoryEventDelay(d time.Duration) *DocumentBuilder {
	b.opts.HistoryEventDelay = d
	return b
}

// Build creates the document.
func (b *DocumentBuilder) Build() (*Document, error) {
	return NewDocument(b.session, b.text, b.opts)
}
