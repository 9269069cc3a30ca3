package ingest

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterLoaderLoad(t *testing.T) {
	content := "Código,Nombre producto genérico,Clasificación interna\n" +
		"100,Paracetamol 500 mg comprimido,Analgésicos\n" +
		"101,Ibu,Antiinflamatorios\n" +
		"102,Losartan 50 mg comprimido,\n" +
		"103,Aciclovir 200 mg comprimido,Antivirales\n"

	loader := NewMasterLoader(zerolog.Nop())
	entries, err := loader.Load(writeTempFile(t, "maestro.csv", content))
	require.NoError(t, err)

	// Too-short names and unclassified rows are dropped.
	require.Len(t, entries, 2)

	assert.Equal(t, "PARACETAMOL 500 MG COMPRIMIDO", entries[0].CanonicalName)
	assert.Equal(t, "100", entries[0].ExternalCode)
	assert.Equal(t, "Analgésicos", entries[0].Classification)
	assert.NotEmpty(t, entries[0].ID)
}

func TestCategoryMapFirstWordWins(t *testing.T) {
	content := "Nombre producto genérico,Clasificación interna\n" +
		"Paracetamol 500 mg,Analgésicos\n" +
		"Paracetamol 1 g,Otra\n" +
		"Aciclovir 200 mg,Antivirales\n"

	loader := NewMasterLoader(zerolog.Nop())
	entries, err := loader.Load(writeTempFile(t, "maestro.csv", content))
	require.NoError(t, err)

	categories := CategoryMap(entries)

	assert.Equal(t, "Analgésicos", categories["PARACETAMOL"])
	assert.Equal(t, "Antivirales", categories["ACICLOVIR"])
}
