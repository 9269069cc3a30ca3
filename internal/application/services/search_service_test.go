package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
)

// Mocks

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entities.EnrichedProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CreateBatch(ctx context.Context, products []*entities.EnrichedProduct) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*entities.EnrichedProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EnrichedProduct), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.EnrichedProduct, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EnrichedProduct), args.Error(1)
}

func (m *MockProductRepository) SearchByName(ctx context.Context, fragment string, limit int) ([]*entities.EnrichedProduct, error) {
	args := m.Called(ctx, fragment, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EnrichedProduct), args.Error(1)
}

type MockProductIndex struct {
	mock.Mock
}

func (m *MockProductIndex) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProductIndex) Index(ctx context.Context, product *entities.EnrichedProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductIndex) SearchByName(ctx context.Context, query string, limit int) ([]*entities.EnrichedProduct, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EnrichedProduct), args.Error(1)
}

func searchProduct(name, ingredient string, price int64, generic, bioeq bool) *entities.EnrichedProduct {
	return &entities.EnrichedProduct{
		ParsedProduct: entities.ParsedProduct{
			Original:  name,
			CleanName: name,
		},
		ActiveIngredient: ingredient,
		IsGeneric:        generic,
		IsBioequivalent:  bioeq,
		Stock:            10,
		Price:            decimal.NewFromInt(price),
	}
}

func newSearchService(repo *MockProductRepository, index repositories.ProductIndexRepository) *SearchService {
	return NewSearchService(
		repo,
		index,
		nil,
		NewSubstitutionRankingService(zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestSearchResolvesIngredientAndRanks(t *testing.T) {
	repo := new(MockProductRepository)
	svc := newSearchService(repo, nil)

	seed := searchProduct("KITADOL", "PARACETAMOL", 2990, false, true)
	generic := searchProduct("PARACETAMOL GENERICO", "PARACETAMOL", 990, true, true)

	repo.On("SearchByName", mock.Anything, "KITADOL", searchSeedLimit).
		Return([]*entities.EnrichedProduct{seed}, nil)
	repo.On("List", mock.Anything, repositories.ProductFilter{
		ActiveIngredient: "PARACETAMOL",
		InStockOnly:      true,
		Limit:            searchCandidateLimit,
	}).Return([]*entities.EnrichedProduct{seed, generic}, nil)

	result, err := svc.Search(context.Background(), "kitadol")
	require.NoError(t, err)

	assert.Equal(t, "PARACETAMOL", result.ActiveIngredient)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "PARACETAMOL GENERICO", result.Candidates[0].Product.CleanName)
	assert.Equal(t, entities.RankGenericBioequivalent, result.Candidates[0].Rank)

	repo.AssertExpectations(t)
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := new(MockProductRepository)
	svc := newSearchService(repo, nil)

	result, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, entities.UnknownIngredient, result.ActiveIngredient)
	assert.Empty(t, result.Candidates)
	repo.AssertNotCalled(t, "SearchByName")
}

func TestSearchNoMatches(t *testing.T) {
	repo := new(MockProductRepository)
	svc := newSearchService(repo, nil)

	repo.On("SearchByName", mock.Anything, "INEXISTENTE", searchSeedLimit).
		Return([]*entities.EnrichedProduct{}, nil)

	result, err := svc.Search(context.Background(), "inexistente")
	require.NoError(t, err)

	assert.Equal(t, entities.UnknownIngredient, result.ActiveIngredient)
	assert.Empty(t, result.Candidates)
}

func TestSearchUnresolvedIngredientFallsBackToNameMatches(t *testing.T) {
	repo := new(MockProductRepository)
	svc := newSearchService(repo, nil)

	seed := searchProduct("CREMA HIDRATANTE", entities.UnknownIngredient, 3490, false, false)
	repo.On("SearchByName", mock.Anything, "CREMA", searchSeedLimit).
		Return([]*entities.EnrichedProduct{seed}, nil)

	result, err := svc.Search(context.Background(), "crema")
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, entities.RankRequested, result.Candidates[0].Rank)
	repo.AssertNotCalled(t, "List")
}

func TestSearchIndexFallbackOnError(t *testing.T) {
	repo := new(MockProductRepository)
	index := new(MockProductIndex)
	svc := newSearchService(repo, index)

	seed := searchProduct("IBUPIRAC", "IBUPROFENO", 1990, false, true)

	index.On("SearchByName", mock.Anything, "IBUPIRAC", searchSeedLimit).
		Return(nil, errors.New("connection refused"))
	repo.On("SearchByName", mock.Anything, "IBUPIRAC", searchSeedLimit).
		Return([]*entities.EnrichedProduct{seed}, nil)
	repo.On("List", mock.Anything, mock.Anything).
		Return([]*entities.EnrichedProduct{seed}, nil)

	result, err := svc.Search(context.Background(), "ibupirac")
	require.NoError(t, err)

	assert.Equal(t, "IBUPROFENO", result.ActiveIngredient)
	index.AssertExpectations(t)
	repo.AssertExpectations(t)
}
