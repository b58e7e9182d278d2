package engine

import (
	"regexp"
	"strings"

	"github.com/dshills/mirror/internal/pos"
)

// SearchOptions configures a search cursor.
type SearchOptions struct {
	// CaseFold matches case-insensitively.
	CaseFold bool
	// Regexp treats the query as a regular expression (RE2 syntax, with ^
	// and $ matching at line boundaries).
	Regexp bool
}

// SearchCursor walks the matches of a query through a document.
type SearchCursor struct {
	doc     *Doc
	re      *regexp.Regexp
	from    pos.Position
	to      pos.Position
	matched bool
	groups  []string
}

// SearchCursor creates a cursor that starts searching at start. A literal
// query may span lines.
func (d *Doc) SearchCursor(query string, start pos.Position, opts SearchOptions) (*SearchCursor, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	expr := query
	if !opts.Regexp {
		expr = regexp.QuoteMeta(joinLines(splitLines(query, ""), d.joinSep()))
	}
	flags := "(?m)"
	if opts.CaseFold {
		flags = "(?mi)"
	}
	re, err := regexp.Compile(flags + expr)
	if err != nil {
		return nil, err
	}
	start = d.ClipPos(start)
	return &SearchCursor{doc: d, re: re, from: start, to: start}, nil
}

// SearchCursor creates a search cursor over the editor's document.
func (e *Editor) SearchCursor(query string, start pos.Position, opts SearchOptions) (*SearchCursor, error) {
	return e.doc.SearchCursor(query, start, opts)
}

// FindNext moves to the next match after the current position.
func (c *SearchCursor) FindNext() bool {
	return c.Find(false)
}

// FindPrevious moves to the closest match before the current position.
func (c *SearchCursor) FindPrevious() bool {
	return c.Find(true)
}

// Find moves to the next match, or the previous one when reverse is set.
// On failure the cursor rests at the document edge it ran into.
func (c *SearchCursor) Find(reverse bool) bool {
	d := c.doc
	text := d.Value()
	var loc []int
	if reverse {
		end := d.IndexFromPos(c.from)
		if c.matched && pos.Equal(c.from, c.to) {
			end--
		}
		if end >= 0 {
			all := c.re.FindAllStringSubmatchIndex(text[:end], -1)
			if len(all) > 0 {
				loc = all[len(all)-1]
			}
		}
	} else {
		begin := d.IndexFromPos(c.to)
		if c.matched && pos.Equal(c.from, c.to) {
			begin++
		}
		if begin <= len(text) {
			if m := c.re.FindStringSubmatchIndex(text[begin:]); m != nil {
				for i := range m {
					if m[i] >= 0 {
						m[i] += begin
					}
				}
				loc = m
			}
		}
	}

	if loc == nil {
		c.matched = false
		c.groups = nil
		if reverse {
			c.from = pos.New(d.first, 0)
		} else {
			c.from = d.docEnd()
		}
		c.to = c.from
		return false
	}
	c.matched = true
	c.from = d.PosFromIndex(loc[0])
	c.to = d.PosFromIndex(loc[1])
	c.groups = make([]string, len(loc)/2)
	for i := range c.groups {
		if loc[2*i] >= 0 {
			c.groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return true
}

// From returns the start of the current match.
func (c *SearchCursor) From() pos.Position {
	return c.from
}

// To returns the end of the current match.
func (c *SearchCursor) To() pos.Position {
	return c.to
}

// Matched reports whether the cursor sits on a match.
func (c *SearchCursor) Matched() bool {
	return c.matched
}

// Match returns the matched text followed by its capture groups.
func (c *SearchCursor) Match() []string {
	return append([]string(nil), c.groups...)
}

// Replace replaces the current match with text.
func (c *SearchCursor) Replace(text, origin string) error {
	if !c.matched {
		return ErrNoMatch
	}
	lines := splitLines(text, c.doc.sep)
	if err := c.doc.ReplaceRange(text, c.from, c.to, origin); err != nil {
		return err
	}
	c.to = changeEnd(c.from, lines)
	return nil
}

// searchState is the query of the find commands.
type searchState struct {
	query    string
	caseFold bool
}

// Search selects the next match of query from the primary selection in
// direction dir, wrapping around the document. An all lower-case query
// matches case-insensitively.
func (e *Editor) Search(query string, dir int) (bool, error) {
	if query == "" {
		return false, ErrEmptyQuery
	}
	e.search = &searchState{query: query, caseFold: strings.ToLower(query) == query}
	return e.findAgain(dir), nil
}

// SearchQuery returns the query of the find commands, if any.
func (e *Editor) SearchQuery() (string, bool) {
	if e.search == nil {
		return "", false
	}
	return e.search.query, true
}

// ClearSearch forgets the find commands' query.
func (e *Editor) ClearSearch() {
	e.search = nil
}

func (e *Editor) findAgain(dir int) bool {
	st := e.search
	if st == nil {
		return false
	}
	d := e.doc
	start := d.Cursor("to")
	if dir < 0 {
		start = d.Cursor("from")
	}
	c, err := d.SearchCursor(st.query, start, SearchOptions{CaseFold: st.caseFold})
	if err != nil {
		return false
	}
	found := c.Find(dir < 0)
	if !found {
		wrap := pos.New(d.first, 0)
		if dir < 0 {
			wrap = d.docEnd()
		}
		if c, err = d.SearchCursor(st.query, wrap, SearchOptions{CaseFold: st.caseFold}); err != nil {
			return false
		}
		found = c.Find(dir < 0)
	}
	if found {
		d.SetSelection(c.From(), c.To(), CursorOptions{Origin: "search", Scroll: true})
	}
	return found
}

func findCommand(e *Editor) error {
	initial := ""
	if e.search != nil {
		initial = e.search.query
	}
	e.OpenDialog("Search:", func(q string) {
		if _, err := e.Search(q, 1); err != nil {
			e.logger.Debug("search: %v", err)
		}
	}, DialogOptions{Value: initial})
	return nil
}

// findStep repeats the last search, or prompts for a query when there is
// none.
func findStep(e *Editor, dir int) error {
	if e.search == nil {
		return findCommand(e)
	}
	e.findAgain(dir)
	return nil
}
