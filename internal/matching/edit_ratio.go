package matching

import (
	"github.com/agnivade/levenshtein"
)

// EditRatioMatcher scores similarity as 1 − editDistance/maxLen: a plain
// normalized Levenshtein ratio. Cheaper and stricter than the token-set
// matcher; word order and extra tokens lower the score.
type EditRatioMatcher struct{}

// NewEditRatioMatcher creates the fallback edit-distance matcher.
func NewEditRatioMatcher() *EditRatioMatcher {
	return &EditRatioMatcher{}
}

// Name identifies the matcher in configuration and logs.
func (m *EditRatioMatcher) Name() string {
	return MatcherEditRatio
}

// Score returns the edit-distance ratio between a and b.
func (m *EditRatioMatcher) Score(a, b string) float64 {
	return editRatio(a, b)
}

// EditRatio returns the plain edit-distance ratio between a and b,
// independent of any Matcher selection. Callers that always want the
// strict ratio (not the configured matcher) use this directly.
func EditRatio(a, b string) float64 {
	return editRatio(a, b)
}

func editRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
