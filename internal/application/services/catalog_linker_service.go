package services

import (
	"github.com/farmaciavallenar/backend/internal/matching"
)

// LinkResult reports how a query was linked to a candidate key.
type LinkResult struct {
	Key   string
	Score float64
	Exact bool
}

// CatalogLinkerService maps a normalized query string onto an entry of a
// reference set (master catalog keys, registry ingredient keys). Exact
// lookup wins outright; otherwise the best approximate score must clear
// the acceptance threshold. A failed link is the normal "unresolved"
// outcome, not an error.
type CatalogLinkerService struct {
	matcher   matching.Matcher
	threshold float64
}

// NewCatalogLinkerService creates a linker around the given matcher. The
// threshold applies to the matcher's 0–1 score.
func NewCatalogLinkerService(matcher matching.Matcher, threshold float64) *CatalogLinkerService {
	return &CatalogLinkerService{
		matcher:   matcher,
		threshold: threshold,
	}
}

// Link resolves query against candidates. Candidates must be in a stable
// order (the registry keeps its keys sorted); on approximate-score ties
// the first candidate encountered wins.
func (s *CatalogLinkerService) Link(query string, candidates []string) (LinkResult, bool) {
	if query == "" || len(candidates) == 0 {
		return LinkResult{}, false
	}

	for _, candidate := range candidates {
		if candidate == query {
			return LinkResult{Key: candidate, Score: 1, Exact: true}, true
		}
	}

	best := LinkResult{Score: -1}
	for _, candidate := range candidates {
		score := s.matcher.Score(query, candidate)
		if score > best.Score {
			best = LinkResult{Key: candidate, Score: score}
		}
	}

	if best.Score <= s.threshold {
		return LinkResult{}, false
	}
	return best, true
}

// Threshold returns the configured acceptance threshold.
func (s *CatalogLinkerService) Threshold() float64 {
	return s.threshold
}
