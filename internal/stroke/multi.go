package stroke

import "strings"

// MultiStroke is a space-separated sequence of strokes, e.g. "Ctrl-K Ctrl-C".
type MultiStroke []Stroke

// ParseMulti parses a sequence using default options.
func ParseMulti(s string) (MultiStroke, error) {
	return ParseMultiWith(s, Options{})
}

// ParseMultiWith parses a space-separated sequence of descriptions.
func ParseMultiWith(s string, opts Options) (MultiStroke, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, &ParseError{Input: s, Reason: ErrEmpty}
	}
	seq := make(MultiStroke, 0, len(fields))
	for _, f := range fields {
		st, err := ParseWith(f, opts)
		if err != nil {
			return nil, err
		}
		seq = append(seq, st)
	}
	return seq, nil
}

// Normalize parses and re-formats a sequence description.
func Normalize(s string) (string, error) {
	seq, err := ParseMulti(s)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}

// Len returns the number of strokes.
func (m MultiStroke) Len() int {
	return len(m)
}

// String joins the canonical stroke descriptions with spaces.
func (m MultiStroke) String() string {
	parts := make([]string, len(m))
	for i, s := range m {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// Append returns a new sequence with s added.
func (m MultiStroke) Append(s Stroke) MultiStroke {
	out := make(MultiStroke, len(m), len(m)+1)
	copy(out, m)
	return append(out, s)
}

// Equal compares two sequences stroke by stroke.
func (m MultiStroke) Equal(other MultiStroke) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if !m[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading subsequence of m.
func (m MultiStroke) HasPrefix(prefix MultiStroke) bool {
	if len(prefix) > len(m) {
		return false
	}
	return m[:len(prefix)].Equal(prefix)
}

// Prefixes returns the canonical strings of every proper prefix, shortest
// first. "A B C" yields "A" and "A B".
func (m MultiStroke) Prefixes() []string {
	if len(m) < 2 {
		return nil
	}
	out := make([]string, 0, len(m)-1)
	for i := 1; i < len(m); i++ {
		out = append(out, m[:i].String())
	}
	return out
}
