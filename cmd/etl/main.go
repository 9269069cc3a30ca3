package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/farmaciavallenar/backend/internal/adapters/database"
	"github.com/farmaciavallenar/backend/internal/adapters/ingest"
	"github.com/farmaciavallenar/backend/internal/adapters/search"
	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/postgres"
	"github.com/farmaciavallenar/backend/internal/infrastructure/clients/typesense"
	"github.com/farmaciavallenar/backend/internal/infrastructure/observability"
	"github.com/farmaciavallenar/backend/internal/matching"
	"github.com/farmaciavallenar/backend/pkg/config"
	"github.com/farmaciavallenar/backend/pkg/textnorm"
)

func main() {
	var inventoryPath, masterPath, equivalencePath string
	var workers int
	var skipIndex bool
	flag.StringVar(&inventoryPath, "inventory", "", "path to the inventory export (overrides DATA_INVENTORY_PATH)")
	flag.StringVar(&masterPath, "master", "", "path to the CENABAST master catalog (overrides DATA_MASTER_PATH)")
	flag.StringVar(&equivalencePath, "equivalence", "", "path to the ISP equivalence registry (overrides DATA_EQUIVALENCE_PATH)")
	flag.IntVar(&workers, "workers", 4, "classification worker count")
	flag.BoolVar(&skipIndex, "skip-index", false, "skip Typesense indexing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if inventoryPath == "" {
		inventoryPath = cfg.Data.InventoryPath
	}
	if masterPath == "" {
		masterPath = cfg.Data.MasterPath
	}
	if equivalencePath == "" {
		equivalencePath = cfg.Data.EquivalencePath
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-etl", "production")
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	productRepo := database.NewProductAdapter(pgClient)
	catalogRepo := database.NewCatalogAdapter(pgClient)

	var indexRepo repositories.ProductIndexRepository
	if !skipIndex {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Printf("Warning: Typesense unavailable, skipping indexing: %v", err)
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.InitSchema(ctx); err != nil {
				log.Printf("Warning: Failed to init Typesense schema: %v", err)
			} else {
				indexRepo = adapter
			}
		}
	}

	stopWords := cfg.Engine.StopWords
	if len(stopWords) == 0 {
		stopWords = textnorm.DefaultStopWords
	}
	normalizer := textnorm.New(stopWords...)

	// Reference data: equivalence registry and master catalog.
	registryLoader := ingest.NewRegistryLoader(normalizer, *logger)
	registry, err := registryLoader.Load(equivalencePath)
	if err != nil {
		log.Fatalf("Failed to load equivalence registry %s: %v", equivalencePath, err)
	}
	log.Printf("Equivalence registry loaded: %d ingredients", len(registry.Keys()))

	masterLoader := ingest.NewMasterLoader(*logger)
	catalogEntries, err := masterLoader.Load(masterPath)
	if err != nil {
		log.Printf("Warning: Failed to load master catalog %s: %v", masterPath, err)
	} else if len(catalogEntries) > 0 {
		if err := catalogRepo.UpsertBatch(ctx, catalogEntries); err != nil {
			log.Printf("Warning: Failed to persist master catalog: %v", err)
		} else {
			log.Printf("Master catalog upserted: %d entries", len(catalogEntries))
		}
	}

	inventoryLoader := ingest.NewInventoryLoader(*logger)
	rows, err := inventoryLoader.Load(inventoryPath)
	if err != nil {
		log.Fatalf("Failed to load inventory %s: %v", inventoryPath, err)
	}
	log.Printf("Inventory loaded: %d rows", len(rows))

	matcher := matching.New(cfg.Engine.Matcher)
	linker := services.NewCatalogLinkerService(matcher, cfg.Engine.LinkThreshold)
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
		workers,
		*logger,
	)

	summary, err := ingestion.Ingest(ctx, rows, registry)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	observability.RecordIngestion(ctx, metrics, summary.Persisted)

	log.Printf("Ingestion complete: %d rows, %d generics, %d bioequivalent, %d corroborated, %d unresolved, %d persisted, %d indexed",
		summary.RowsProcessed,
		summary.Generics,
		summary.Bioequivalent,
		summary.Corroborated,
		summary.Unresolved,
		summary.Persisted,
		summary.Indexed,
	)
}
