package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StandardCase(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("ACICLOVIR 200 MG X25 COMP LAB CHILE.")

	assert.Equal(t, "ACICLOVIR", parsed.CleanName)
	assert.Equal(t, "CHILE.", parsed.Lab)
	require.NotNil(t, parsed.DoseValue)
	assert.Equal(t, "200", parsed.DoseValue.String())
	assert.Equal(t, "MG", parsed.DoseUnit)
	require.NotNil(t, parsed.QtyValue)
	assert.Equal(t, 25, *parsed.QtyValue)
	assert.Equal(t, "COMP", parsed.QtyUnit)
}

func TestParse_InhalerCase(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("AEROLIN SALBUTAMOL 100MCG 200DOSIS LAB. GSK")

	assert.Equal(t, "GSK", parsed.Lab)
	require.NotNil(t, parsed.DoseValue)
	assert.Equal(t, "100", parsed.DoseValue.String())
	assert.Equal(t, "MCG", parsed.DoseUnit)
	require.NotNil(t, parsed.QtyValue)
	assert.Equal(t, 200, *parsed.QtyValue)
	assert.Equal(t, "DOSIS", parsed.QtyUnit)
}

func TestParse_OftenoCase(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("3-A OFTENO DICLOFENACO SODICO 10MG X5ML LAB SOPHIA")

	require.NotNil(t, parsed.DoseValue)
	assert.Equal(t, "10", parsed.DoseValue.String())
	assert.Equal(t, "MG", parsed.DoseUnit)
	require.NotNil(t, parsed.QtyValue)
	assert.Equal(t, 5, *parsed.QtyValue)
	assert.Equal(t, "ML", parsed.QtyUnit)
	assert.Contains(t, parsed.CleanName, "OFTENO")
	assert.Contains(t, parsed.CleanName, "DICLOFENACO")
}

func TestParse_BrandPlusGenericName(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("AARTFENACIN FEXOFENADINA CLORHIDRATO 180MG 30 COMP. LAB PHARMARIS")

	assert.Contains(t, parsed.CleanName, "AARTFENACIN")
	assert.Contains(t, parsed.CleanName, "FEXOFENADINA")
	require.NotNil(t, parsed.DoseValue)
	assert.Equal(t, "180", parsed.DoseValue.String())
	require.NotNil(t, parsed.QtyValue)
	assert.Equal(t, 30, *parsed.QtyValue)
	assert.Equal(t, "PHARMARIS", parsed.Lab)
}

func TestParse_DecimalDoseWithComma(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("CLONAZEPAM 0,5 MG X30 COMP")

	require.NotNil(t, parsed.DoseValue)
	assert.Equal(t, "0.5", parsed.DoseValue.String())
	assert.Equal(t, "MG", parsed.DoseUnit)
}

func TestParse_EmptyInput(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("")

	assert.Equal(t, "", parsed.CleanName)
	assert.Equal(t, "NO IDENTIFICADO", parsed.Lab)
	assert.Nil(t, parsed.DoseValue)
	assert.Nil(t, parsed.QtyValue)
	assert.Empty(t, parsed.DoseUnit)
	assert.Empty(t, parsed.QtyUnit)
}

func TestParse_NoStructuredFields(t *testing.T) {
	parser := NewDrugParserService()

	parsed := parser.Parse("agua destilada")

	assert.Equal(t, "AGUA DESTILADA", parsed.CleanName)
	assert.Equal(t, "NO IDENTIFICADO", parsed.Lab)
	assert.Nil(t, parsed.DoseValue)
	assert.Nil(t, parsed.QtyValue)
}

// Re-parsing a clean name must be a fixed point: no further extraction.
func TestParse_CleanNameIdempotent(t *testing.T) {
	parser := NewDrugParserService()

	inputs := []string{
		"ACICLOVIR 200 MG X25 COMP LAB CHILE.",
		"AEROLIN SALBUTAMOL 100MCG 200DOSIS LAB. GSK",
		"3-A OFTENO DICLOFENACO SODICO 10MG X5ML LAB SOPHIA",
		"PARACETAMOL 500 MG X16 COMP",
	}

	for _, input := range inputs {
		first := parser.Parse(input)
		second := parser.Parse(first.CleanName)

		assert.Equal(t, first.CleanName, second.CleanName, "input %q", input)
		assert.Nil(t, second.DoseValue, "input %q", input)
		assert.Nil(t, second.QtyValue, "input %q", input)
		assert.Equal(t, "NO IDENTIFICADO", second.Lab, "input %q", input)
	}
}
