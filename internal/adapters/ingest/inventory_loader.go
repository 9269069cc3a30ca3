package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/farmaciavallenar/backend/internal/domain/entities"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

var nonNumeric = regexp.MustCompile(`[^\d\-]`)

// InventoryLoader reads the pharmacy's raw inventory export. Column
// names drift between exports, so they are resolved by keyword guessing
// with an avoid list ("Grupo de Producto" must never be taken for
// "Producto").
type InventoryLoader struct {
	logger zerolog.Logger
}

func NewInventoryLoader(logger zerolog.Logger) *InventoryLoader {
	return &InventoryLoader{
		logger: logger.With().Str("loader", "inventory").Logger(),
	}
}

// Load reads the semicolon-separated inventory file into rows ready for
// ingestion. Rows without a product name are dropped; malformed numbers
// degrade to zero.
func (l *InventoryLoader) Load(path string) ([]entities.InventoryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewMissingInputError(fmt.Sprintf("inventory file not found: %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read inventory header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	productCol := findColumn(header, []string{"Producto", "Descripción"}, []string{"Grupo", "Tipo"})
	if productCol < 0 {
		return nil, apperrors.NewValidationError("inventory file has no product column")
	}
	codeCol := findColumn(header, []string{"Código Barras", "Codigo", "BarCode"}, nil)
	stockCol := findColumn(header, []string{"Stock", "Existencia"}, nil)
	priceCol := findColumn(header, []string{"Precio Venta", "Precio"}, nil)

	var rows []entities.InventoryRow
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}

		name := strings.TrimSpace(field(record, productCol))
		if name == "" {
			dropped++
			continue
		}

		rows = append(rows, entities.InventoryRow{
			ProductName: name,
			Code:        strings.TrimSpace(field(record, codeCol)),
			Stock:       parseInt(field(record, stockCol)),
			Price:       parsePrice(field(record, priceCol)),
		})
	}

	l.logger.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Int("dropped", dropped).
		Msg("inventory loaded")

	return rows, nil
}

// findColumn resolves a header index: exact name first, then the first
// column containing a keyword and none of the avoided words.
func findColumn(header []string, keywords, avoid []string) int {
	for _, key := range keywords {
		for i, col := range header {
			if col == key {
				return i
			}
		}
	}
	for i, col := range header {
		if containsAny(col, avoid) {
			continue
		}
		if containsAny(col, keywords) {
			return i
		}
	}
	return -1
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseInt strips everything but digits and sign; bad values become 0.
func parseInt(raw string) int {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// parsePrice handles both "1.590" style thousand separators and comma
// decimals. Bad values become 0.
func parsePrice(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}

	normalized := strings.ReplaceAll(trimmed, ",", ".")
	if d, err := decimal.NewFromString(normalized); err == nil {
		return d
	}

	cleaned := nonNumeric.ReplaceAllString(trimmed, "")
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
