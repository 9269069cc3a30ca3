package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

func rankingProduct(name string, price int64, stock int, generic, bioeq bool) *entities.EnrichedProduct {
	return &entities.EnrichedProduct{
		ParsedProduct: entities.ParsedProduct{
			Original:  name,
			CleanName: name,
		},
		IsGeneric:       generic,
		IsBioequivalent: bioeq,
		Stock:           stock,
		Price:           decimal.NewFromInt(price),
	}
}

func TestRankOrderBeatsPrice(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	candidates := []*entities.EnrichedProduct{
		rankingProduct("PARACETAMOL GENERICO", 1000, 10, true, true),
		rankingProduct("KITADOL", 900, 10, false, true),
		rankingProduct("TAPSIN", 500, 10, false, false),
	}

	ranked := svc.Rank("TAPSIN", candidates, true)
	require.Len(t, ranked, 3)

	assert.Equal(t, "PARACETAMOL GENERICO", ranked[0].Product.CleanName)
	assert.Equal(t, "KITADOL", ranked[1].Product.CleanName)
	assert.Equal(t, "TAPSIN", ranked[2].Product.CleanName)

	assert.Equal(t, entities.RankGenericBioequivalent, ranked[0].Rank)
	assert.Equal(t, entities.RankBrandBioequivalent, ranked[1].Rank)
	assert.Equal(t, entities.RankRequested, ranked[2].Rank)

	assert.Equal(t, "BIO GENERICO", ranked[0].Label)
	assert.Equal(t, "BIO MARCA", ranked[1].Label)
	assert.Equal(t, "SOLICITADO", ranked[2].Label)
}

func TestRankOrderingInvariant(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	candidates := []*entities.EnrichedProduct{
		rankingProduct("OTRO PRODUCTO", 100, 5, false, false),
		rankingProduct("IBUPROFENO GENERICO CARO", 9000, 5, true, true),
		rankingProduct("IBUPIRAC", 50, 5, false, true),
		rankingProduct("IBUPROFENO GENERICO BARATO", 800, 5, true, true),
	}

	ranked := svc.Rank("ACTRON", candidates, true)
	require.Len(t, ranked, 4)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i].Rank, ranked[i-1].Rank,
			"rank must never improve later in the list")
		if ranked[i].Rank == ranked[i-1].Rank {
			assert.False(t, ranked[i].Product.Price.LessThan(ranked[i-1].Product.Price),
				"within a rank, prices must be ascending")
		}
	}

	// Cheapest generic first within rank 1.
	assert.Equal(t, "IBUPROFENO GENERICO BARATO", ranked[0].Product.CleanName)
}

func TestRankSavingsAgainstRequestedReference(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	candidates := []*entities.EnrichedProduct{
		rankingProduct("LOSARTAN GENERICO", 1200, 10, true, true),
		rankingProduct("COZAAR LOSARTAN", 5400, 10, false, false),
	}

	ranked := svc.Rank("COZAAR", candidates, true)
	require.Len(t, ranked, 2)

	// The requested product (COZAAR, $5400) is the reference.
	require.NotNil(t, ranked[0].Savings)
	assert.True(t, ranked[0].Savings.Equal(decimal.NewFromInt(4200)),
		"got %s", ranked[0].Savings)

	// Savings only on rank-1 candidates.
	assert.Nil(t, ranked[1].Savings)
}

func TestRankSavingsNeverNegative(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	// Generic more expensive than the requested reference.
	candidates := []*entities.EnrichedProduct{
		rankingProduct("LOSARTAN GENERICO", 9000, 10, true, true),
		rankingProduct("COZAAR LOSARTAN", 500, 10, false, false),
	}

	ranked := svc.Rank("COZAAR", candidates, true)
	require.NotNil(t, ranked[0].Savings)
	assert.True(t, ranked[0].Savings.IsZero())
}

func TestRankSavingsFallbackReference(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	// No candidate name contains the query: the first sorted candidate is
	// the reference, so the cheapest generic saves nothing against itself.
	candidates := []*entities.EnrichedProduct{
		rankingProduct("IBUPROFENO GENERICO", 800, 10, true, true),
		rankingProduct("IBUPROFENO GENERICO FORTE", 1500, 10, true, true),
	}

	ranked := svc.Rank("DOLORUB", candidates, true)
	require.Len(t, ranked, 2)

	require.NotNil(t, ranked[0].Savings)
	assert.True(t, ranked[0].Savings.IsZero())
	require.NotNil(t, ranked[1].Savings)
	assert.True(t, ranked[1].Savings.IsZero(), "savings clamp at zero, never negative")
}

func TestRankStockFilter(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	candidates := []*entities.EnrichedProduct{
		rankingProduct("PARACETAMOL CON STOCK", 1000, 3, true, true),
		rankingProduct("PARACETAMOL SIN STOCK", 500, 0, true, true),
	}

	ranked := svc.Rank("PARACETAMOL", candidates, true)
	require.Len(t, ranked, 1)
	assert.Equal(t, "PARACETAMOL CON STOCK", ranked[0].Product.CleanName)

	unfiltered := svc.Rank("PARACETAMOL", candidates, false)
	assert.Len(t, unfiltered, 2)
}

func TestRankEmptyCandidates(t *testing.T) {
	svc := NewSubstitutionRankingService(zerolog.Nop())

	assert.Empty(t, svc.Rank("PARACETAMOL", nil, true))
}
