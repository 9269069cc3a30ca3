package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *entities.EnrichedProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) CreateBatch(ctx context.Context, products []*entities.EnrichedProduct) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*entities.EnrichedProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EnrichedProduct), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.EnrichedProduct, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EnrichedProduct), args.Error(1)
}

func (m *mockProductRepo) SearchByName(ctx context.Context, fragment string, limit int) ([]*entities.EnrichedProduct, error) {
	args := m.Called(ctx, fragment, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EnrichedProduct), args.Error(1)
}

func newTestSearchService(repo *mockProductRepo) *services.SearchService {
	return services.NewSearchService(
		repo,
		nil,
		nil,
		services.NewSubstitutionRankingService(zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestSearchHandlerReturnsRankedCandidates(t *testing.T) {
	repo := new(mockProductRepo)
	handler := NewSearchHandler(newTestSearchService(repo), nil)

	seed := &entities.EnrichedProduct{
		ParsedProduct: entities.ParsedProduct{
			Original:  "PARACETAMOL 500 MG",
			CleanName: "PARACETAMOL",
		},
		ActiveIngredient: "PARACETAMOL",
		IsGeneric:        true,
		IsBioequivalent:  true,
		Stock:            10,
		Price:            decimal.NewFromInt(990),
	}

	repo.On("SearchByName", mock.Anything, "PARACETAMOL", mock.Anything).
		Return([]*entities.EnrichedProduct{seed}, nil)
	repo.On("List", mock.Anything, mock.Anything).
		Return([]*entities.EnrichedProduct{seed}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=paracetamol", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	assert.Equal(t, "PARACETAMOL", result.ActiveIngredient)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "BIO GENERICO", result.Candidates[0].Label)
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	repo := new(mockProductRepo)
	handler := NewSearchHandler(newTestSearchService(repo), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()

	handler.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	assert.Equal(t, entities.UnknownIngredient, result.ActiveIngredient)
	assert.Empty(t, result.Candidates)
}
