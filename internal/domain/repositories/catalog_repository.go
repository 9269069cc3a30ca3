package repositories

import (
	"context"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

// CatalogRepository defines the persistence boundary for the master catalog.
type CatalogRepository interface {
	UpsertBatch(ctx context.Context, entries []*entities.CatalogEntry) error
	GetByName(ctx context.Context, canonicalName string) (*entities.CatalogEntry, error)
	ListNames(ctx context.Context) ([]string, error)
}
