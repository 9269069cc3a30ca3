package repositories

import (
	"context"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	ActiveIngredient string
	InStockOnly      bool
	Limit            int
}

// ProductRepository defines the persistence boundary for enriched products.
// The engine emits records through it; it never issues storage calls itself.
type ProductRepository interface {
	Create(ctx context.Context, product *entities.EnrichedProduct) error
	CreateBatch(ctx context.Context, products []*entities.EnrichedProduct) error
	GetByID(ctx context.Context, id string) (*entities.EnrichedProduct, error)
	List(ctx context.Context, filter ProductFilter) ([]*entities.EnrichedProduct, error)
	// SearchByName returns products whose clean name contains the given
	// normalized fragment.
	SearchByName(ctx context.Context, fragment string, limit int) ([]*entities.EnrichedProduct, error)
}
