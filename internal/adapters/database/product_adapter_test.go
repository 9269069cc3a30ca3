package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
)

func TestProductRecordMapsOptionalFields(t *testing.T) {
	dose := decimal.RequireFromString("500")
	qty := 16
	product := &entities.EnrichedProduct{
		ID: "p-1",
		ParsedProduct: entities.ParsedProduct{
			Original:  "PARACETAMOL 500 MG X16 COMP",
			CleanName: "PARACETAMOL",
			Lab:       entities.UnknownLab,
			DoseValue: &dose,
			DoseUnit:  "MG",
			QtyValue:  &qty,
			QtyUnit:   "COMP",
		},
		ActiveIngredient: "PARACETAMOL",
		IsBioequivalent:  true,
		IsGeneric:        true,
		Stock:            10,
		Price:            decimal.NewFromInt(1590),
		PricePerUnit:     decimal.RequireFromString("99.38"),
	}

	record := productRecord(product)

	assert.Equal(t, "500", record["dose_value"])
	assert.Equal(t, 16, record["qty_value"])
	assert.Equal(t, "1590", record["price"])
	assert.Equal(t, "99.38", record["price_per_unit"])
}

func TestProductRecordNilOptionals(t *testing.T) {
	product := &entities.EnrichedProduct{
		ID: "p-2",
		ParsedProduct: entities.ParsedProduct{
			Original:  "CREMA HIDRATANTE",
			CleanName: "CREMA HIDRATANTE",
			Lab:       entities.UnknownLab,
		},
		ActiveIngredient: entities.UnknownIngredient,
		Price:            decimal.NewFromInt(3490),
	}

	record := productRecord(product)

	assert.Nil(t, record["dose_value"])
	assert.Nil(t, record["qty_value"])
}

func TestProductAdapterQueries(t *testing.T) {
	// Exercising the SQL paths needs a test database.
	t.Skip("Requires database connection")
}
