package mirror

import (
	"github.com/dshills/mirror/internal/engine"
	"github.com/dshills/mirror/internal/pos"
)

// SearchCursorOptions configures a search. The zero value matches the query
// literally and case-sensitively.
type SearchCursorOptions = engine.SearchOptions

// SearchCursor walks the matches of a query.
type SearchCursor struct {
	doc    *Document
	cursor *engine.SearchCursor
}

// SearchCursor starts a search for query at start. It returns nil for an
// empty query or an invalid regular expression.
func (d *Document) SearchCursor(query string, start pos.Position, opts SearchCursorOptions) *SearchCursor {
	c, err := d.doc.SearchCursor(query, start, opts)
	if err != nil {
		d.absorb("searchCursor", err)
		return nil
	}
	return &SearchCursor{doc: d, cursor: c}
}

// Native returns the wrapped engine cursor.
func (c *SearchCursor) Native() *engine.SearchCursor { return c.cursor }

// FindNext moves to the next match and reports whether there was one.
func (c *SearchCursor) FindNext() bool { return c.cursor.FindNext() }

// FindPrevious moves to the previous match.
func (c *SearchCursor) FindPrevious() bool { return c.cursor.FindPrevious() }

// Matched reports whether the cursor is on a match.
func (c *SearchCursor) Matched() bool { return c.cursor.Matched() }

// From returns the start of the current match.
func (c *SearchCursor) From() pos.Position { return c.cursor.From() }

// To returns the end of the current match.
func (c *SearchCursor) To() pos.Position { return c.cursor.To() }

// Match returns the matched text followed by any regexp groups.
func (c *SearchCursor) Match() []string { return c.cursor.Match() }

// Replace replaces the current match with text.
func (c *SearchCursor) Replace(text string) {
	c.doc.absorb("searchReplace", c.cursor.Replace(text, "+replace"))
}
