package ruleset

import (
	"strings"

	"github.com/agext/levenshtein"
)

// suggest returns the candidate closest to name, or "" when none is close
// enough to be a plausible typo. Candidates must be sorted so ties resolve
// deterministically.
func suggest(name string, candidates []string) string {
	limit := max(2, len(name)/3)
	lower := strings.ToLower(name)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.Distance(lower, strings.ToLower(c), nil)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
