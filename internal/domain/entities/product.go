package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UnknownLab is the laboratory value assigned when extraction finds none.
	UnknownLab = "NO IDENTIFICADO"

	// UnknownIngredient marks a product whose active ingredient could not be
	// resolved against the registry. It is a valid low-confidence outcome,
	// not an error.
	UnknownIngredient = "DESCONOCIDO"

	// CompoundToken excludes combination products from generic detection.
	CompoundToken = "COMPUESTO"
)

// DoseUnits are the dose units the field extractor recognizes.
var DoseUnits = []string{"MG", "G", "GR", "MCG", "ML", "%", "UI", "GRS"}

// QuantityUnits are the container units the field extractor recognizes.
var QuantityUnits = []string{"COMP", "CAP", "SOBRE", "ML", "AMPOLLA", "FRASCO", "UNID", "UND", "DOSIS", "G"}

// ParsedProduct is the structured form of one raw inventory string.
// Immutable after creation. CleanName never contains the substrings
// consumed as dose, quantity or lab.
type ParsedProduct struct {
	Original  string           `json:"original" db:"original_name"`
	CleanName string           `json:"clean_name" db:"clean_name"`
	Lab       string           `json:"lab" db:"lab"`
	DoseValue *decimal.Decimal `json:"dose_value,omitempty" db:"dose_value"`
	DoseUnit  string           `json:"dose_unit,omitempty" db:"dose_unit"`
	QtyValue  *int             `json:"qty_value,omitempty" db:"qty_value"`
	QtyUnit   string           `json:"qty_unit,omitempty" db:"qty_unit"`
}

// EnrichedProduct is a parsed product annotated with its regulatory
// classification and derived pricing. This is the unit persisted and
// queried downstream.
type EnrichedProduct struct {
	ID   string `json:"id" db:"id"`
	Code string `json:"code,omitempty" db:"code"`

	ParsedProduct

	ActiveIngredient string          `json:"active_ingredient" db:"active_ingredient"`
	IsBioequivalent  bool            `json:"is_bioequivalent" db:"is_bioequivalent"`
	IsGeneric        bool            `json:"is_generic" db:"is_generic"`
	Stock            int             `json:"stock" db:"stock"`
	Price            decimal.Decimal `json:"price" db:"price"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit" db:"price_per_unit"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InventoryRow is the already-selected row the ingestion collaborator
// hands to the engine. Column guessing happens upstream.
type InventoryRow struct {
	ProductName string
	Stock       int
	Price       decimal.Decimal
	Code        string
}
