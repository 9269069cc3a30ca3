package entities

import (
	"github.com/shopspring/decimal"
)

// Substitution ranks, best first. Lower is better.
const (
	RankGenericBioequivalent = 1
	RankBrandBioequivalent   = 2
	RankRequested            = 3
	RankOther                = 4
)

// RankLabel maps a rank to its display label.
func RankLabel(rank int) string {
	switch rank {
	case RankGenericBioequivalent:
		return "BIO GENERICO"
	case RankBrandBioequivalent:
		return "BIO MARCA"
	case RankRequested:
		return "SOLICITADO"
	default:
		return "OTROS"
	}
}

// RankedCandidate is a substitution option computed per query. Transient:
// never persisted. Savings is populated only for rank-1 candidates and is
// always non-negative.
type RankedCandidate struct {
	Product *EnrichedProduct `json:"product"`
	Rank    int              `json:"rank"`
	Label   string           `json:"label"`
	Savings *decimal.Decimal `json:"savings,omitempty"`
}
