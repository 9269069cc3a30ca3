package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
	"github.com/farmaciavallenar/backend/pkg/textnorm"
)

// RegistryLoader reads the regulatory bioequivalence export. The file
// carries a few banner lines before the real header, so the header row
// is located by content, not position. Only rows whose status marks them
// equivalent make it into the snapshot.
type RegistryLoader struct {
	normalizer *textnorm.Normalizer
	logger     zerolog.Logger
}

func NewRegistryLoader(normalizer *textnorm.Normalizer, logger zerolog.Logger) *RegistryLoader {
	return &RegistryLoader{
		normalizer: normalizer,
		logger:     logger.With().Str("loader", "registry").Logger(),
	}
}

// Load reads the registry file and builds the snapshot the classifier
// resolves against.
func (l *RegistryLoader) Load(path string) (*entities.RegistrySnapshot, error) {
	records, err := l.LoadEquivalences(path)
	if err != nil {
		return nil, err
	}
	return l.BuildSnapshot(records), nil
}

// LoadEquivalences parses the raw registry rows, already normalized and
// filtered to certified-equivalent entries.
func (l *RegistryLoader) LoadEquivalences(path string) ([]entities.EquivalenceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewMissingInputError(fmt.Sprintf("registry file not found: %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := l.locateHeader(reader)
	if err != nil {
		return nil, err
	}

	ingredientCol := findColumn(header, []string{"Principio Activo"}, nil)
	productCol := findColumn(header, []string{"Producto"}, nil)
	holderCol := findColumn(header, []string{"Titular"}, nil)
	statusCol := findColumn(header, []string{"Estado"}, nil)
	validityCol := findColumn(header, []string{"Vigencia"}, nil)

	if ingredientCol < 0 || productCol < 0 {
		return nil, apperrors.NewValidationError("registry file is missing ingredient or product columns")
	}

	var records []entities.EquivalenceRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		ingredient := strings.TrimSpace(field(row, ingredientCol))
		if ingredient == "" {
			skipped++
			continue
		}

		status := strings.ToUpper(field(row, statusCol))
		if !strings.Contains(status, "EQUIVALENTE") {
			skipped++
			continue
		}

		records = append(records, entities.EquivalenceRecord{
			ActiveIngredient: l.normalizer.Normalize(ingredient),
			ProductName:      l.normalizer.Normalize(field(row, productCol)),
			Holder:           l.normalizer.Normalize(field(row, holderCol)),
			Validity:         strings.ToUpper(strings.TrimSpace(field(row, validityCol))),
		})
	}

	l.logger.Info().
		Str("path", path).
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("equivalence registry loaded")

	return records, nil
}

// BuildSnapshot groups equivalence records into per-ingredient entries.
// The record's own product names become the known brand list; an entry's
// generics are the ingredient name itself, which is how descriptive
// generic products are written.
func (l *RegistryLoader) BuildSnapshot(records []entities.EquivalenceRecord) *entities.RegistrySnapshot {
	ingredients := make(map[string]*entities.IngredientEntry)

	for _, rec := range records {
		key := rec.ActiveIngredient
		if key == "" {
			continue
		}

		entry, ok := ingredients[key]
		if !ok {
			entry = &entities.IngredientEntry{
				ActiveIngredient: key,
				Generics:         []string{key},
			}
			ingredients[key] = entry
		}

		if rec.ProductName != "" && rec.ProductName != key && !containsString(entry.Brands, rec.ProductName) {
			entry.Brands = append(entry.Brands, rec.ProductName)
		}
	}

	return entities.NewRegistrySnapshot(ingredients, records)
}

// locateHeader scans past banner lines until it finds the row holding
// the real column titles.
func (l *RegistryLoader) locateHeader(reader *csv.Reader) ([]string, error) {
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil, apperrors.NewValidationError("registry file has no header row")
		}
		if err != nil {
			continue
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if findColumn(row, []string{"Principio Activo"}, nil) >= 0 {
			return row, nil
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
