package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

const catalogTable = "master_catalog"

// CatalogAdapter implements CatalogRepository over the master catalog
// table. Entries are keyed by canonical name.
type CatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCatalogAdapter creates a new catalog adapter
func NewCatalogAdapter(client *postgres.Client) repositories.CatalogRepository {
	return &CatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// UpsertBatch inserts or refreshes catalog entries by canonical name
func (a *CatalogAdapter) UpsertBatch(ctx context.Context, entries []*entities.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		records = append(records, goqu.Record{
			"id":             entry.ID,
			"canonical_name": entry.CanonicalName,
			"external_code":  sql.NullString{String: entry.ExternalCode, Valid: entry.ExternalCode != ""},
			"classification": sql.NullString{String: entry.Classification, Valid: entry.Classification != ""},
			"created_at":     entry.CreatedAt,
		})
	}

	query, args, err := a.db.Insert(catalogTable).
		Rows(records...).
		OnConflict(goqu.DoUpdate("canonical_name", goqu.Record{
			"external_code":  goqu.L("EXCLUDED.external_code"),
			"classification": goqu.L("EXCLUDED.classification"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build catalog upsert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert catalog entries", err)
	}

	return nil
}

// GetByName retrieves a catalog entry by canonical name
func (a *CatalogAdapter) GetByName(ctx context.Context, canonicalName string) (*entities.CatalogEntry, error) {
	query, args, err := a.db.Select("id", "canonical_name", "external_code", "classification", "created_at").
		From(catalogTable).
		Where(goqu.Ex{"canonical_name": canonicalName}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry := &entities.CatalogEntry{}
	var externalCode, classification sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.CanonicalName,
		&externalCode,
		&classification,
		&entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("catalog entry %q not found", canonicalName))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get catalog entry", err)
	}

	entry.ExternalCode = externalCode.String
	entry.Classification = classification.String

	return entry, nil
}

// ListNames retrieves every canonical name in deterministic order
func (a *CatalogAdapter) ListNames(ctx context.Context) ([]string, error) {
	query, args, err := a.db.Select("canonical_name").
		From(catalogTable).
		Order(goqu.C("canonical_name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list catalog names", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan catalog name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate catalog names", err)
	}

	return names, nil
}
