package matching

import (
	"sort"
	"strings"
)

// TokenSetMatcher implements a token-set ratio: both strings are split
// into unique sorted tokens, and the score is the best edit-distance ratio
// among the combinations of the shared tokens with each side's remainder.
// A query whose tokens are a subset of the candidate's scores 1.0, which
// makes the matcher robust to packaging noise around an ingredient name.
type TokenSetMatcher struct{}

// NewTokenSetMatcher creates the default token-set matcher.
func NewTokenSetMatcher() *TokenSetMatcher {
	return &TokenSetMatcher{}
}

// Name identifies the matcher in configuration and logs.
func (m *TokenSetMatcher) Name() string {
	return MatcherTokenSet
}

// Score returns the token-set ratio between a and b.
func (m *TokenSetMatcher) Score(a, b string) float64 {
	if a == b {
		return 1
	}

	tokensA := uniqueTokens(a)
	tokensB := uniqueTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	inB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		inB[t] = struct{}{}
	}
	inShared := make(map[string]struct{})
	for _, t := range tokensA {
		if _, ok := inB[t]; ok {
			shared = append(shared, t)
			inShared[t] = struct{}{}
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tokensB {
		if _, ok := inShared[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	base := strings.Join(shared, " ")
	withA := joinNonEmpty(base, strings.Join(onlyA, " "))
	withB := joinNonEmpty(base, strings.Join(onlyB, " "))

	// One side being a token subset of the other is a perfect set match.
	if base != "" && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 1
	}

	score := editRatio(base, withA)
	if s := editRatio(base, withB); s > score {
		score = s
	}
	if s := editRatio(withA, withB); s > score {
		score = s
	}
	return score
}

func uniqueTokens(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
