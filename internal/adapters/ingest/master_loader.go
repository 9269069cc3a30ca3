package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

// MasterLoader reads the CENABAST master product listing used to
// categorize inventory and seed the master catalog table.
type MasterLoader struct {
	logger zerolog.Logger
}

func NewMasterLoader(logger zerolog.Logger) *MasterLoader {
	return &MasterLoader{
		logger: logger.With().Str("loader", "master").Logger(),
	}
}

// Load reads the master catalog file. Names shorter than four characters
// or rows without a classification are dropped, matching how the listing
// is actually curated.
func (l *MasterLoader) Load(path string) ([]*entities.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewMissingInputError(fmt.Sprintf("master catalog file not found: %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read master catalog header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	nameCol := findColumn(header, []string{"Nombre producto genérico", "Nombre"}, nil)
	codeCol := findColumn(header, []string{"Código", "Codigo"}, nil)
	classCol := findColumn(header, []string{"Clasificación interna", "Clasificación"}, nil)
	if nameCol < 0 {
		return nil, apperrors.NewValidationError("master catalog file has no name column")
	}

	now := time.Now()
	var entries []*entities.CatalogEntry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		name := strings.ToUpper(strings.TrimSpace(field(row, nameCol)))
		if len(name) <= 3 {
			continue
		}
		classification := strings.TrimSpace(field(row, classCol))
		if classification == "" {
			continue
		}

		entries = append(entries, &entities.CatalogEntry{
			ID:             uuid.NewString(),
			CanonicalName:  name,
			ExternalCode:   strings.TrimSpace(field(row, codeCol)),
			Classification: classification,
			CreatedAt:      now,
		})
	}

	l.logger.Info().
		Str("path", path).
		Int("entries", len(entries)).
		Msg("master catalog loaded")

	return entries, nil
}

// CategoryMap indexes classifications by the first word of each
// canonical name, the key used to categorize free-text inventory names.
func CategoryMap(entries []*entities.CatalogEntry) map[string]string {
	categories := make(map[string]string, len(entries))
	for _, entry := range entries {
		words := strings.Fields(entry.CanonicalName)
		if len(words) == 0 {
			continue
		}
		key := words[0]
		if _, ok := categories[key]; !ok {
			categories[key] = entry.Classification
		}
	}
	return categories
}
