package services

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

// SubstitutionRankingService orders a set of interchangeable products by
// substitution priority: certified generics first, certified brands next,
// the product the customer literally asked for third, everything else
// last. Within a rank, cheaper wins.
type SubstitutionRankingService struct {
	logger zerolog.Logger
}

func NewSubstitutionRankingService(logger zerolog.Logger) *SubstitutionRankingService {
	return &SubstitutionRankingService{
		logger: logger.With().Str("service", "substitution_ranking").Logger(),
	}
}

// Rank sorts candidates by (rank ascending, price ascending) and computes
// savings for rank-1 candidates against the reference price. When
// inStockOnly is set, candidates without positive stock are dropped
// before ranking. Candidates are expected to share an active ingredient
// (or, for unresolved ingredients, a name match with the query).
func (s *SubstitutionRankingService) Rank(
	query string,
	candidates []*entities.EnrichedProduct,
	inStockOnly bool,
) []entities.RankedCandidate {
	query = strings.ToUpper(strings.TrimSpace(query))

	ranked := make([]entities.RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if inStockOnly && candidate.Stock <= 0 {
			continue
		}
		rank := rankOf(query, candidate)
		ranked = append(ranked, entities.RankedCandidate{
			Product: candidate,
			Rank:    rank,
			Label:   entities.RankLabel(rank),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rank != ranked[j].Rank {
			return ranked[i].Rank < ranked[j].Rank
		}
		return ranked[i].Product.Price.LessThan(ranked[j].Product.Price)
	})

	s.applySavings(query, ranked)

	return ranked
}

// rankOf evaluates the priority rules in order; the first match wins.
func rankOf(query string, p *entities.EnrichedProduct) int {
	switch {
	case p.IsGeneric && p.IsBioequivalent:
		return entities.RankGenericBioequivalent
	case p.IsBioequivalent:
		return entities.RankBrandBioequivalent
	case query != "" && strings.Contains(p.CleanName, query):
		return entities.RankRequested
	default:
		return entities.RankOther
	}
}

// applySavings computes savings for rank-1 candidates relative to the
// reference price: the price of the first sorted candidate whose clean
// name contains the query, falling back to the first candidate overall.
// Savings never go negative.
func (s *SubstitutionRankingService) applySavings(query string, ranked []entities.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	reference := ranked[0].Product.Price
	if query != "" {
		for _, rc := range ranked {
			if strings.Contains(rc.Product.CleanName, query) {
				reference = rc.Product.Price
				break
			}
		}
	}

	for i := range ranked {
		if ranked[i].Rank != entities.RankGenericBioequivalent {
			continue
		}
		diff := reference.Sub(ranked[i].Product.Price)
		if diff.IsNegative() {
			diff = decimal.Zero
		}
		ranked[i].Savings = &diff
	}
}
