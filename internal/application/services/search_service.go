package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/providers"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
)

const (
	searchCacheKeyPrefix = "search:"
	searchCacheTTL       = 300 // seconds
	searchSeedLimit      = 20
	searchCandidateLimit = 100
)

// SearchResult is the query surface's answer: the resolved ingredient (or
// "DESCONOCIDO") and the ranked substitution candidates.
type SearchResult struct {
	Query            string                     `json:"query"`
	ActiveIngredient string                     `json:"active_ingredient"`
	Candidates       []entities.RankedCandidate `json:"candidates"`
}

// SearchService answers substitution queries: find what the customer
// asked for, resolve its active ingredient, gather every interchangeable
// in-stock product, and rank them. Results are cached briefly since the
// same queries repeat at the counter.
type SearchService struct {
	products repositories.ProductRepository
	index    repositories.ProductIndexRepository
	cache    providers.CacheProvider
	ranker   *SubstitutionRankingService
	logger   zerolog.Logger
}

// NewSearchService wires the query surface. index and cache may be nil;
// the service then reads straight from the repository.
func NewSearchService(
	products repositories.ProductRepository,
	index repositories.ProductIndexRepository,
	cache providers.CacheProvider,
	ranker *SubstitutionRankingService,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		products: products,
		index:    index,
		cache:    cache,
		ranker:   ranker,
		logger:   logger.With().Str("service", "search").Logger(),
	}
}

// Search resolves a free-text query into ranked substitution candidates.
// An empty query or a query with no matches returns an empty result, not
// an error.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.ToUpper(strings.TrimSpace(query))

	result := &SearchResult{
		Query:            query,
		ActiveIngredient: entities.UnknownIngredient,
	}
	if query == "" {
		return result, nil
	}

	if cached, ok := s.fromCache(ctx, query); ok {
		return cached, nil
	}

	seeds, err := s.findSeeds(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return result, nil
	}

	// The first match decides the ingredient, like a clerk picking the
	// top shelf hit.
	result.ActiveIngredient = seeds[0].ActiveIngredient

	candidates, err := s.gatherCandidates(ctx, result.ActiveIngredient, seeds)
	if err != nil {
		return nil, err
	}

	result.Candidates = s.ranker.Rank(query, candidates, true)

	s.toCache(ctx, query, result)
	return result, nil
}

// findSeeds locates products whose name matches the query, preferring
// the search index when one is configured.
func (s *SearchService) findSeeds(ctx context.Context, query string) ([]*entities.EnrichedProduct, error) {
	if s.index != nil {
		seeds, err := s.index.SearchByName(ctx, query, searchSeedLimit)
		if err == nil {
			return seeds, nil
		}
		s.logger.Warn().Err(err).Msg("search index unavailable, falling back to repository")
	}
	return s.products.SearchByName(ctx, query, searchSeedLimit)
}

// gatherCandidates fetches every product sharing the resolved ingredient.
// When the ingredient is unknown the raw name matches stand in as the
// candidate set.
func (s *SearchService) gatherCandidates(
	ctx context.Context,
	ingredient string,
	seeds []*entities.EnrichedProduct,
) ([]*entities.EnrichedProduct, error) {
	if ingredient == entities.UnknownIngredient {
		return seeds, nil
	}
	return s.products.List(ctx, repositories.ProductFilter{
		ActiveIngredient: ingredient,
		InStockOnly:      true,
		Limit:            searchCandidateLimit,
	})
}

func (s *SearchService) fromCache(ctx context.Context, query string) (*SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, searchCacheKeyPrefix+query)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.logger.Warn().Err(err).Msg("discarding malformed cached search result")
		return nil, false
	}
	return &result, true
}

func (s *SearchService) toCache(ctx context.Context, query string, result *SearchResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, searchCacheKeyPrefix+query, raw, searchCacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache search result")
	}
}
