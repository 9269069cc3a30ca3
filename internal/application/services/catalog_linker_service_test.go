package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaciavallenar/backend/internal/matching"
)

func TestCatalogLinkerExactPhase(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewTokenSetMatcher(), 0.85)

	candidates := []string{"ACICLOVIR 400", "IBUPROFENO 400", "PARACETAMOL 500"}

	result, ok := linker.Link("PARACETAMOL 500", candidates)
	require.True(t, ok)
	assert.Equal(t, "PARACETAMOL 500", result.Key)
	assert.True(t, result.Exact)
	assert.Equal(t, 1.0, result.Score)
}

func TestCatalogLinkerApproximatePhase(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewTokenSetMatcher(), 0.85)

	candidates := []string{"ACICLOVIR 400", "IBUPROFENO 400"}

	// Token-set scoring treats a token subset as a perfect match, so the
	// extra packaging token does not break the link.
	result, ok := linker.Link("ACICLOVIR 400 COMP", candidates)
	require.True(t, ok)
	assert.Equal(t, "ACICLOVIR 400", result.Key)
	assert.False(t, result.Exact)
	assert.Equal(t, 1.0, result.Score)
}

func TestCatalogLinkerRejectsBelowThreshold(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewTokenSetMatcher(), 0.85)

	candidates := []string{"ACICLOVIR 400", "IBUPROFENO 400"}

	_, ok := linker.Link("VITAMINA C EFERVESCENTE", candidates)
	assert.False(t, ok)
}

func TestCatalogLinkerEmptyInputs(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewTokenSetMatcher(), 0.85)

	_, ok := linker.Link("", []string{"ACICLOVIR 400"})
	assert.False(t, ok)

	_, ok = linker.Link("ACICLOVIR 400", nil)
	assert.False(t, ok)
}

func TestCatalogLinkerFirstCandidateWinsOnTie(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewTokenSetMatcher(), 0.5)

	// Both candidates are token subsets of the query and score 1.0; the
	// first in iteration order must win.
	candidates := []string{"LOSARTAN 50", "LOSARTAN"}

	result, ok := linker.Link("LOSARTAN 50 POTASICO", candidates)
	require.True(t, ok)
	assert.Equal(t, "LOSARTAN 50", result.Key)
}

func TestCatalogLinkerEditRatioMatcher(t *testing.T) {
	linker := NewCatalogLinkerService(matching.NewEditRatioMatcher(), 0.8)

	candidates := []string{"OMEPRAZOL 20", "OMEPRAZOL 40"}

	result, ok := linker.Link("OMEPRAZOL 2O", candidates)
	require.True(t, ok)
	assert.Equal(t, "OMEPRAZOL 20", result.Key)
}
