package engine

import "strings"

// splitLines splits text on sep, or on any of \r\n, \r and \n when sep is
// empty. The result always has at least one element.
func splitLines(text, sep string) []string {
	if sep != "" {
		return strings.Split(text, sep)
	}
	if !strings.ContainsAny(text, "\r\n") {
		return []string{text}
	}
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			out = append(out, text[start:i])
			start = i + 1
		case '\r':
			out = append(out, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(out, text[start:])
}

func joinLines(lines []string, sep string) string {
	if sep == "" {
		sep = "\n"
	}
	return strings.Join(lines, sep)
}

// leadingSpace returns the whitespace prefix of s.
func leadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

func copyStrings(s []string) []string {
	return append([]string(nil), s...)
}
