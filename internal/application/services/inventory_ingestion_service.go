package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
)

const ingestionBatchSize = 500

// IngestionSummary reports what a batch run did.
type IngestionSummary struct {
	RowsProcessed int `json:"rows_processed"`
	Generics      int `json:"generics"`
	Bioequivalent int `json:"bioequivalent"`
	Corroborated  int `json:"corroborated"`
	Unresolved    int `json:"unresolved"`
	Persisted     int `json:"persisted"`
	Indexed       int `json:"indexed"`
}

// InventoryIngestionService turns raw inventory rows into classified,
// persisted products. Classification is CPU-bound and parallelized by
// partitioning the rows; the registry snapshot and thresholds are shared
// read-only state for the whole run.
type InventoryIngestionService struct {
	parser     *DrugParserService
	classifier *BioequivalenceService
	products   repositories.ProductRepository
	index      repositories.ProductIndexRepository
	workers    int
	logger     zerolog.Logger
}

// NewInventoryIngestionService wires the batch pipeline. index may be
// nil; indexing failures are logged, never fatal.
func NewInventoryIngestionService(
	parser *DrugParserService,
	classifier *BioequivalenceService,
	products repositories.ProductRepository,
	index repositories.ProductIndexRepository,
	workers int,
	logger zerolog.Logger,
) *InventoryIngestionService {
	if workers <= 0 {
		workers = 4
	}
	return &InventoryIngestionService{
		parser:     parser,
		classifier: classifier,
		products:   products,
		index:      index,
		workers:    workers,
		logger:     logger.With().Str("service", "inventory_ingestion").Logger(),
	}
}

// Ingest classifies and persists a full inventory against one registry
// snapshot.
func (s *InventoryIngestionService) Ingest(
	ctx context.Context,
	rows []entities.InventoryRow,
	registry *entities.RegistrySnapshot,
) (*IngestionSummary, error) {
	summary := &IngestionSummary{RowsProcessed: len(rows)}
	if len(rows) == 0 {
		return summary, nil
	}

	start := time.Now()
	enriched := s.classifyAll(rows, registry)

	for _, product := range enriched {
		switch {
		case product.IsGeneric:
			summary.Generics++
			summary.Bioequivalent++
		case product.IsBioequivalent:
			summary.Bioequivalent++
		}
		if product.ActiveIngredient == entities.UnknownIngredient {
			summary.Unresolved++
		}
	}

	summary.Corroborated = s.reconcile(enriched, registry)

	if err := s.persist(ctx, enriched, summary); err != nil {
		return summary, err
	}

	s.logger.Info().
		Int("rows", summary.RowsProcessed).
		Int("generics", summary.Generics).
		Int("bioequivalent", summary.Bioequivalent).
		Int("unresolved", summary.Unresolved).
		Dur("elapsed", time.Since(start)).
		Msg("inventory ingestion complete")

	return summary, nil
}

// classifyAll parses and classifies every row, partitioned across the
// worker count. Each worker writes only its own slice indexes.
func (s *InventoryIngestionService) classifyAll(
	rows []entities.InventoryRow,
	registry *entities.RegistrySnapshot,
) []*entities.EnrichedProduct {
	enriched := make([]*entities.EnrichedProduct, len(rows))

	workers := s.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	chunk := (len(rows) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(rows) {
			hi = len(rows)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				row := rows[i]
				parsed := s.parser.Parse(row.ProductName)
				product := s.classifier.Classify(*parsed, row.Stock, row.Price, registry)
				product.ID = uuid.NewString()
				product.Code = row.Code
				now := time.Now()
				product.CreatedAt = now
				product.UpdatedAt = now
				enriched[i] = &product
			}
		}(lo, hi)
	}
	wg.Wait()

	return enriched
}

// reconcile runs the looser registry corroboration over products that
// resolved an ingredient but did not classify as bioequivalent: a valid
// registry row whose holder or product name resembles ours flips the
// flag. Returns how many products were flipped.
func (s *InventoryIngestionService) reconcile(
	products []*entities.EnrichedProduct,
	registry *entities.RegistrySnapshot,
) int {
	flipped := 0
	for _, product := range products {
		if product.IsBioequivalent || product.ActiveIngredient == entities.UnknownIngredient {
			continue
		}

		normIngredient := s.classifier.Normalize(product.ActiveIngredient)
		records := registry.EquivalencesFor(normIngredient)
		if len(records) == 0 {
			continue
		}

		normName := s.classifier.Normalize(product.CleanName)
		normLab := s.classifier.Normalize(product.Lab)
		if s.classifier.Corroborate(normName, normLab, records) {
			product.IsBioequivalent = true
			flipped++
		}
	}
	return flipped
}

func (s *InventoryIngestionService) persist(
	ctx context.Context,
	products []*entities.EnrichedProduct,
	summary *IngestionSummary,
) error {
	for lo := 0; lo < len(products); lo += ingestionBatchSize {
		hi := lo + ingestionBatchSize
		if hi > len(products) {
			hi = len(products)
		}
		batch := products[lo:hi]
		if err := s.products.CreateBatch(ctx, batch); err != nil {
			return err
		}
		summary.Persisted += len(batch)
	}

	if s.index == nil {
		return nil
	}
	for _, product := range products {
		if err := s.index.Index(ctx, product); err != nil {
			s.logger.Warn().Err(err).Str("product", product.CleanName).Msg("failed to index product")
			continue
		}
		summary.Indexed++
	}
	return nil
}
