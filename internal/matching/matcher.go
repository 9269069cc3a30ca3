// Package matching provides the string-similarity engines behind the
// catalog linker. Two interchangeable implementations exist: a token-set
// ratio matcher (order- and duplication-insensitive, the richer default)
// and a plain edit-distance ratio matcher used as fallback. Both score on
// a single 0–1 scale so thresholds are matcher-independent.
package matching

// Matcher scores the similarity of two strings on [0, 1].
//
// Inputs are expected to be pre-normalized (see pkg/textnorm): both sides
// of a comparison must have gone through the same normalizer.
type Matcher interface {
	Score(a, b string) float64
	Name() string
}

// MatcherTokenSet and MatcherEditRatio select an implementation by name.
const (
	MatcherTokenSet  = "tokenset"
	MatcherEditRatio = "editratio"
)

// New returns the matcher selected by name. Unknown names fall back to the
// token-set matcher.
func New(name string) Matcher {
	switch name {
	case MatcherEditRatio:
		return NewEditRatioMatcher()
	default:
		return NewTokenSetMatcher()
	}
}
