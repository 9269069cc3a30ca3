package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

const productsTable = "products"

var productColumns = []interface{}{
	"id", "code", "original_name", "clean_name", "lab",
	"dose_value", "dose_unit", "qty_value", "qty_unit",
	"active_ingredient", "is_bioequivalent", "is_generic",
	"stock", "price", "price_per_unit", "created_at", "updated_at",
}

// ProductAdapter implements ProductRepository
type ProductAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProductAdapter creates a new product adapter
func NewProductAdapter(client *postgres.Client) repositories.ProductRepository {
	return &ProductAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a single enriched product
func (a *ProductAdapter) Create(ctx context.Context, product *entities.EnrichedProduct) error {
	query, args, err := a.db.Insert(productsTable).Rows(productRecord(product)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create product", err)
	}

	return nil
}

// CreateBatch persists a batch of enriched products in one statement
func (a *ProductAdapter) CreateBatch(ctx context.Context, products []*entities.EnrichedProduct) error {
	if len(products) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(products))
	for _, product := range products {
		records = append(records, productRecord(product))
	}

	query, args, err := a.db.Insert(productsTable).Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build batch insert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create product batch", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (a *ProductAdapter) GetByID(ctx context.Context, id string) (*entities.EnrichedProduct, error) {
	query, args, err := a.db.Select(productColumns...).
		From(productsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	product, err := scanProduct(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get product", err)
	}

	return product, nil
}

// List retrieves products matching the filter, cheapest first
func (a *ProductAdapter) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.EnrichedProduct, error) {
	ds := a.db.Select(productColumns...).From(productsTable)

	if filter.ActiveIngredient != "" {
		ds = ds.Where(goqu.Ex{"active_ingredient": filter.ActiveIngredient})
	}
	if filter.InStockOnly {
		ds = ds.Where(goqu.C("stock").Gt(0))
	}

	ds = ds.Order(goqu.C("price").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryProducts(ctx, query, args)
}

// SearchByName retrieves products whose clean name contains the fragment
func (a *ProductAdapter) SearchByName(ctx context.Context, fragment string, limit int) ([]*entities.EnrichedProduct, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := a.db.Select(productColumns...).
		From(productsTable).
		Where(goqu.C("clean_name").Like("%" + fragment + "%")).
		Order(goqu.C("clean_name").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search query", err)
	}

	return a.queryProducts(ctx, query, args)
}

func (a *ProductAdapter) queryProducts(ctx context.Context, query string, args []interface{}) ([]*entities.EnrichedProduct, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query products", err)
	}
	defer rows.Close()

	var products []*entities.EnrichedProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate products", err)
	}

	return products, nil
}

func productRecord(product *entities.EnrichedProduct) goqu.Record {
	record := goqu.Record{
		"id":                product.ID,
		"code":              sql.NullString{String: product.Code, Valid: product.Code != ""},
		"original_name":     product.Original,
		"clean_name":        product.CleanName,
		"lab":               product.Lab,
		"dose_unit":         sql.NullString{String: product.DoseUnit, Valid: product.DoseUnit != ""},
		"qty_unit":          sql.NullString{String: product.QtyUnit, Valid: product.QtyUnit != ""},
		"active_ingredient": product.ActiveIngredient,
		"is_bioequivalent":  product.IsBioequivalent,
		"is_generic":        product.IsGeneric,
		"stock":             product.Stock,
		"price":             product.Price.String(),
		"price_per_unit":    product.PricePerUnit.String(),
		"created_at":        product.CreatedAt,
		"updated_at":        product.UpdatedAt,
	}

	if product.DoseValue != nil {
		record["dose_value"] = product.DoseValue.String()
	} else {
		record["dose_value"] = nil
	}
	if product.QtyValue != nil {
		record["qty_value"] = *product.QtyValue
	} else {
		record["qty_value"] = nil
	}

	return record
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entities.EnrichedProduct, error) {
	product := &entities.EnrichedProduct{}
	var (
		code, doseUnit, qtyUnit sql.NullString
		doseValue, price, ppu   sql.NullString
		qtyValue                sql.NullInt64
	)

	err := row.Scan(
		&product.ID,
		&code,
		&product.Original,
		&product.CleanName,
		&product.Lab,
		&doseValue,
		&doseUnit,
		&qtyValue,
		&qtyUnit,
		&product.ActiveIngredient,
		&product.IsBioequivalent,
		&product.IsGeneric,
		&product.Stock,
		&price,
		&ppu,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Code = code.String
	product.DoseUnit = doseUnit.String
	product.QtyUnit = qtyUnit.String

	if doseValue.Valid {
		if d, err := decimal.NewFromString(doseValue.String); err == nil {
			product.DoseValue = &d
		}
	}
	if qtyValue.Valid {
		qty := int(qtyValue.Int64)
		product.QtyValue = &qty
	}
	if price.Valid {
		product.Price, _ = decimal.NewFromString(price.String)
	}
	if ppu.Valid {
		product.PricePerUnit, _ = decimal.NewFromString(ppu.String)
	}

	return product, nil
}
