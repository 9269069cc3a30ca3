package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalForm(t *testing.T) {
	n := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercases and trims", "  paracetamol forte ", "PARACETAMOL FORTE"},
		{"strips stop words as whole words", "PARACETAMOL 500 MG X CAJA", "PARACETAMOL 500"},
		{"keeps words containing stop-word substrings", "ALMAGATO COMPRIMIDO", "ALMAGATO COMPRIMIDO"},
		{"removes special characters", "3-A OFTENO (GOTAS)", "3A OFTENO GOTAS"},
		{"collapses whitespace", "ACIDO   ACETILSALICILICO", "ACIDO ACETILSALICILICO"},
		{"empty input", "", ""},
		{"only stop words", "MG X CAJA", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New()

	inputs := []string{
		"ACICLOVIR 200 MG X25 COMP LAB CHILE.",
		"losartán potásico 50mg",
		"  AEROLIN SALBUTAMOL 100MCG  ",
		"ácido fólico 1 mg comprimidos",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		assert.Equal(t, once, n.Normalize(once), "normalize must be a fixed point for %q", input)
	}
}

func TestNormalize_CustomStopWords(t *testing.T) {
	n := New("GOTAS", "SPRAY")

	assert.Equal(t, "NASIVIN ADULTO", n.Normalize("NASIVIN SPRAY ADULTO"))
	// Default stop words no longer apply.
	assert.Equal(t, "PARACETAMOL MG", n.Normalize("PARACETAMOL MG"))
}
