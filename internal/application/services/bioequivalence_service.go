package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	"github.com/farmaciavallenar/backend/internal/matching"
	"github.com/farmaciavallenar/backend/pkg/textnorm"
)

var (
	unresolvedCounterOnce sync.Once
	unresolvedCounter     metric.Int64Counter
)

// BioequivalenceService classifies a parsed product against a registry
// snapshot: resolves its active ingredient, decides whether it is a
// certified generic or a certified brand, and derives the price per unit
// of measure. Classification never fails; an unresolvable product comes
// back with ActiveIngredient = "DESCONOCIDO" and both flags false.
type BioequivalenceService struct {
	normalizer             *textnorm.Normalizer
	linker                 *CatalogLinkerService
	genericThreshold       float64
	corroborationThreshold float64
	logger                 zerolog.Logger
}

func NewBioequivalenceService(
	normalizer *textnorm.Normalizer,
	linker *CatalogLinkerService,
	genericThreshold float64,
	corroborationThreshold float64,
	logger zerolog.Logger,
) *BioequivalenceService {
	return &BioequivalenceService{
		normalizer:             normalizer,
		linker:                 linker,
		genericThreshold:       genericThreshold,
		corroborationThreshold: corroborationThreshold,
		logger:                 logger.With().Str("service", "bioequivalence").Logger(),
	}
}

// Classify enriches a parsed product with its regulatory flags. The
// registry is read-only; concurrent batch callers may share one snapshot.
func (s *BioequivalenceService) Classify(
	parsed entities.ParsedProduct,
	stock int,
	price decimal.Decimal,
	registry *entities.RegistrySnapshot,
) entities.EnrichedProduct {
	enriched := entities.EnrichedProduct{
		ParsedProduct:    parsed,
		ActiveIngredient: entities.UnknownIngredient,
		Stock:            stock,
		Price:            price,
		PricePerUnit:     pricePerUnit(price, parsed.QtyValue),
	}

	name := s.normalizer.Normalize(parsed.CleanName)
	if name == "" {
		name = s.normalizer.Normalize(parsed.Original)
	}
	if name == "" {
		return enriched
	}

	entry, ok := s.resolveIngredient(name, registry)
	if !ok {
		s.recordUnresolved(name)
		return enriched
	}
	enriched.ActiveIngredient = entry.ActiveIngredient

	normIngredient := s.normalizer.Normalize(entry.ActiveIngredient)

	// Generic detection: the ingredient name must appear verbatim, the
	// product must not be a combination, and the overall name must stay
	// close to the bare ingredient. The ratio gate separates descriptive
	// names ("PARACETAMOL 500") from brands that merely mention the
	// ingredient.
	if normIngredient != "" &&
		strings.Contains(name, normIngredient) &&
		!strings.Contains(name, entities.CompoundToken) {
		stripped := strings.Join(strings.Fields(strings.ReplaceAll(name, "MG", " ")), " ")
		if matching.EditRatio(stripped, normIngredient) > s.genericThreshold {
			enriched.IsGeneric = true
			enriched.IsBioequivalent = true
		}
	}

	// A certified brand name in the product name makes it bioequivalent
	// but never generic.
	for _, brand := range entry.Brands {
		normBrand := s.normalizer.Normalize(brand)
		if normBrand != "" && strings.Contains(name, normBrand) {
			enriched.IsBioequivalent = true
			enriched.IsGeneric = false
			break
		}
	}

	return enriched
}

// Corroborate reports whether a regulatory registry row plausibly backs
// the product: its holder resembles the product's laboratory OR its
// product name resembles the product's name, and the certification is
// still in force. This is a looser secondary signal than Classify's
// primary identity match and is used by reconciliation runs.
func (s *BioequivalenceService) Corroborate(
	normalizedName, normalizedLab string,
	records []entities.EquivalenceRecord,
) bool {
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		labScore := matching.EditRatio(normalizedLab, rec.Holder)
		nameScore := matching.EditRatio(normalizedName, rec.ProductName)
		if labScore > s.corroborationThreshold || nameScore > s.corroborationThreshold {
			return true
		}
	}
	return false
}

// Normalize exposes the classifier's normalization so collaborators
// compare strings through the exact same transform.
func (s *BioequivalenceService) Normalize(text string) string {
	return s.normalizer.Normalize(text)
}

// resolveIngredient links the normalized name to an ingredient key,
// first via the catalog linker, then by scanning known brand names for a
// substring hit.
func (s *BioequivalenceService) resolveIngredient(
	name string,
	registry *entities.RegistrySnapshot,
) (*entities.IngredientEntry, bool) {
	if result, ok := s.linker.Link(name, registry.Keys()); ok {
		if entry, found := registry.Lookup(result.Key); found {
			return entry, true
		}
	}

	for _, key := range registry.Keys() {
		entry, _ := registry.Lookup(key)
		if entry == nil {
			continue
		}
		for _, brand := range entry.Brands {
			normBrand := s.normalizer.Normalize(brand)
			if normBrand != "" && strings.Contains(name, normBrand) {
				return entry, true
			}
		}
	}

	return nil, false
}

func (s *BioequivalenceService) recordUnresolved(name string) {
	s.logger.Debug().Str("name", name).Msg("active ingredient not resolved")

	unresolvedCounterOnce.Do(initUnresolvedCounter)
	if unresolvedCounter == nil {
		return
	}
	unresolvedCounter.Add(
		context.Background(),
		1,
		metric.WithAttributes(attribute.String("product.name", name)),
	)
}

func initUnresolvedCounter() {
	meter := otel.Meter("github.com/farmaciavallenar/backend/bioequivalence")
	counter, err := meter.Int64Counter(
		"classification.ingredient_unresolved.count",
		metric.WithDescription("Count of products whose active ingredient could not be resolved"),
	)
	if err == nil {
		unresolvedCounter = counter
	}
}

// pricePerUnit derives the legally required price per unit of measure.
// Missing or non-positive quantities fail softly to zero.
func pricePerUnit(price decimal.Decimal, qty *int) decimal.Decimal {
	if qty == nil || *qty <= 0 {
		return decimal.Zero
	}
	return price.Div(decimal.NewFromInt(int64(*qty))).Round(2)
}
