// Package errfmt builds "did you mean" suggestions for an unknown
// rule, extern, builtin, or pragma-keyword name, ranking the grammar's
// own declared identifiers by fuzzy closeness to the misspelled one.
package errfmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions caps how many candidates Hint will ever name, so a
// grammar with hundreds of rules does not produce an unreadable error.
const maxSuggestions = 3

// Suggest ranks known by fuzzy closeness to got and returns up to n of
// the best matches, closest first. Candidates fuzzy.RankFindNormalizedFold
// considers too dissimilar to got to be worth ranking at all are
// dropped before the cap is applied.
func Suggest (got string, known []string, n int) []string {
	ranks := fuzzy.RankFindNormalizedFold(got, known)
	sort.Sort(ranks)
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// Hint formats a parenthesized "did you mean" suffix for got against
// known, or "" when nothing close enough was found — the return value
// is meant to be appended directly to the end of an error message.
func Hint (got string, known []string) string {
	suggestions := Suggest(got, known, maxSuggestions)
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(" (did you mean %q?)", suggestions[0])
	default:
		quoted := make([]string, len(suggestions))
		for i, s := range suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf(" (did you mean one of %s?)", strings.Join(quoted, ", "))
	}
}
