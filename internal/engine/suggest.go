package engine

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to name, or "" when nothing is
// close enough to be a plausible typo.
func suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	limit := max(2, len(name)/3)
	best, bestDist := "", limit+1
	lower := strings.ToLower(name)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if bestDist > limit {
		return ""
	}
	return best
}
