package main

import (
	"context"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/adapters/database"
	"github.com/farmaciavallenar/backend/internal/adapters/search"
	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/postgres"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/typesense"
	"github.com/farmaciavallenar/backend/internal/infrastructure/observability"
	"github.com/farmaciavallenar/backend/internal/matching"
	"github.com/farmaciavallenar/backend/pkg/config"
	"github.com/farmaciavallenar/backend/pkg/textnorm"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	code TEXT,
	original_name TEXT NOT NULL,
	clean_name TEXT NOT NULL,
	lab TEXT NOT NULL,
	dose_value NUMERIC,
	dose_unit TEXT,
	qty_value INTEGER,
	qty_unit TEXT,
	active_ingredient TEXT NOT NULL,
	is_bioequivalent BOOLEAN NOT NULL DEFAULT FALSE,
	is_generic BOOLEAN NOT NULL DEFAULT FALSE,
	stock INTEGER NOT NULL DEFAULT 0,
	price NUMERIC NOT NULL DEFAULT 0,
	price_per_unit NUMERIC NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_active_ingredient ON products (active_ingredient);
CREATE INDEX IF NOT EXISTS idx_products_clean_name ON products (clean_name);

CREATE TABLE IF NOT EXISTS master_catalog (
	id UUID PRIMARY KEY,
	canonical_name TEXT NOT NULL UNIQUE,
	external_code TEXT,
	classification TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	observability.InitLogger("farmacia-vallenar-seed", "development")
	logger := observability.GetLogger()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ready")

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE products, master_catalog`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	var indexRepo repositories.ProductIndexRepository
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err == nil {
		adapter := search.NewTypesenseAdapter(tsClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		} else {
			indexRepo = adapter
		}
	}

	productRepo := database.NewProductAdapter(pgClient)

	normalizer := textnorm.New(textnorm.DefaultStopWords...)
	linker := services.NewCatalogLinkerService(
		matching.New(cfg.Engine.Matcher),
		cfg.Engine.LinkThreshold,
	)
	classifier := services.NewBioequivalenceService(
		normalizer,
		linker,
		cfg.Engine.GenericRatioThreshold,
		cfg.Engine.CorroborationThreshold,
		*logger,
	)
	ingestion := services.NewInventoryIngestionService(
		services.NewDrugParserService(),
		classifier,
		productRepo,
		indexRepo,
		2,
		*logger,
	)

	// Small demo registry covering the seeded products.
	registry := entities.NewRegistrySnapshot(map[string]*entities.IngredientEntry{
		"PARACETAMOL 500": {
			ActiveIngredient: "PARACETAMOL",
			Generics:         []string{"PARACETAMOL 500"},
			Brands:           []string{"KITADOL", "PANADOL"},
		},
		"IBUPROFENO 400": {
			ActiveIngredient: "IBUPROFENO",
			Generics:         []string{"IBUPROFENO 400"},
			Brands:           []string{"IBUPIRAC", "ACTRON"},
		},
		"LOSARTAN 50": {
			ActiveIngredient: "LOSARTAN POTASICO",
			Generics:         []string{"LOSARTAN 50"},
			Brands:           []string{"COZAAR"},
		},
	}, nil)

	rows := []entities.InventoryRow{
		{Code: "1001", ProductName: "PARACETAMOL 500 MG X 16 COMP LAB. CHILE", Stock: 120, Price: decimal.NewFromInt(890)},
		{Code: "1002", ProductName: "KITADOL 500 MG X 24 COMP", Stock: 40, Price: decimal.NewFromInt(2590)},
		{Code: "1003", ProductName: "PANADOL 500 MG X 16 COMP", Stock: 15, Price: decimal.NewFromInt(3190)},
		{Code: "2001", ProductName: "IBUPROFENO 400 MG X 20 CAP LABORATORIO MINTLAB", Stock: 80, Price: decimal.NewFromInt(1190)},
		{Code: "2002", ProductName: "ACTRON 400 MG X 10 CAP", Stock: 25, Price: decimal.NewFromInt(4290)},
		{Code: "3001", ProductName: "LOSARTAN 50 MG X 30 COMP LAB. ANDROMACO", Stock: 60, Price: decimal.NewFromInt(1490)},
		{Code: "3002", ProductName: "COZAAR 50 MG X 30 COMP", Stock: 10, Price: decimal.NewFromInt(12990)},
		{Code: "9001", ProductName: "CREMA HIDRATANTE CORPORAL 200 ML", Stock: 30, Price: decimal.NewFromInt(5490)},
	}

	summary, err := ingestion.Ingest(ctx, rows, registry)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d products (%d generics, %d bioequivalent, %d unresolved, %d indexed)",
		summary.Persisted, summary.Generics, summary.Bioequivalent, summary.Unresolved, summary.Indexed)
}
