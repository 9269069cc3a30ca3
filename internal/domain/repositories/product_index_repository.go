package repositories

import (
	"context"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

// ProductIndexRepository defines the search-index boundary used by the
// query surface to find seed products by name. The engine works without
// it; callers fall back to ProductRepository.SearchByName.
type ProductIndexRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, product *entities.EnrichedProduct) error
	SearchByName(ctx context.Context, query string, limit int) ([]*entities.EnrichedProduct, error)
}
