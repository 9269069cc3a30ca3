package search

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	tsclient "github.com/farmaciavallenar/backend/internal/infrastructure/clients/typesense"
)

const collectionName = tsclient.ProductsCollection

// TypesenseAdapter implements product name search using Typesense. The
// index stores just enough of each product for the query surface to seed
// an ingredient resolution; the database stays the source of truth.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ProductIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the products collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "clean_name", Type: "string"},
			{Name: "original_name", Type: "string"},
			{Name: "active_ingredient", Type: "string", Facet: pointer.True()},
			{Name: "is_bioequivalent", Type: "bool"},
			{Name: "is_generic", Type: "bool"},
			{Name: "stock", Type: "int32"},
			{Name: "price", Type: "float"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a product document
func (a *TypesenseAdapter) Index(ctx context.Context, product *entities.EnrichedProduct) error {
	price, _ := product.Price.Float64()
	document := map[string]interface{}{
		"id":                product.ID,
		"clean_name":        product.CleanName,
		"original_name":     product.Original,
		"active_ingredient": product.ActiveIngredient,
		"is_bioequivalent":  product.IsBioequivalent,
		"is_generic":        product.IsGeneric,
		"stock":             product.Stock,
		"price":             price,
		"created_at":        product.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}

	return nil
}

// SearchByName searches products by name
func (a *TypesenseAdapter) SearchByName(ctx context.Context, query string, limit int) ([]*entities.EnrichedProduct, error) {
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("clean_name,original_name"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := []*entities.EnrichedProduct{}
	if result.Hits == nil {
		return products, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		products = append(products, documentToProduct(*hit.Document))
	}

	return products, nil
}

// documentToProduct rebuilds a partial entity from the index document.
// Typesense hands back map[string]interface{}, so every cast is guarded.
func documentToProduct(doc map[string]interface{}) *entities.EnrichedProduct {
	product := &entities.EnrichedProduct{}

	if v, ok := doc["id"].(string); ok {
		product.ID = v
	}
	if v, ok := doc["clean_name"].(string); ok {
		product.CleanName = v
	}
	if v, ok := doc["original_name"].(string); ok {
		product.Original = v
	}
	if v, ok := doc["active_ingredient"].(string); ok {
		product.ActiveIngredient = v
	}
	if v, ok := doc["is_bioequivalent"].(bool); ok {
		product.IsBioequivalent = v
	}
	if v, ok := doc["is_generic"].(bool); ok {
		product.IsGeneric = v
	}
	if v, ok := doc["stock"].(float64); ok {
		product.Stock = int(v)
	}
	if v, ok := doc["price"].(float64); ok {
		product.Price = decimal.NewFromFloat(v)
	}

	return product
}
