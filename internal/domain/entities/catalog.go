package entities

import (
	"sort"
	"strings"
	"time"
)

// CatalogEntry is one row of the master catalog (CENABAST). Owned by the
// batch-load process; read-only to the matching engine.
type CatalogEntry struct {
	ID             string    `json:"id" db:"id"`
	CanonicalName  string    `json:"canonical_name" db:"canonical_name"`
	ExternalCode   string    `json:"external_code" db:"external_code"`
	Classification string    `json:"classification" db:"classification"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// EquivalenceRecord is one row of the regulatory registry: a certified
// bioequivalent product/brand. All fields are stored normalized.
type EquivalenceRecord struct {
	ActiveIngredient string `json:"active_ingredient"`
	ProductName      string `json:"product_name"`
	Holder           string `json:"holder"`
	Validity         string `json:"validity"`
}

// Valid reports whether the record's certification is still in force.
func (r EquivalenceRecord) Valid() bool {
	return !strings.Contains(strings.ToUpper(r.Validity), "NO")
}

// IngredientEntry groups the certified products known for one active
// ingredient at one dose.
type IngredientEntry struct {
	ActiveIngredient string   `json:"active_ingredient"`
	Generics         []string `json:"generics"`
	Brands           []string `json:"brands"`
}

// RegistrySnapshot is the immutable reference set the classifier resolves
// against. Keys are normalized "INGREDIENT DOSE" strings. A snapshot is
// safe for concurrent readers; batch runs share one snapshot.
type RegistrySnapshot struct {
	Ingredients  map[string]*IngredientEntry
	Equivalences []EquivalenceRecord

	keys []string
}

// NewRegistrySnapshot builds a snapshot with a deterministic key order.
func NewRegistrySnapshot(ingredients map[string]*IngredientEntry, equivalences []EquivalenceRecord) *RegistrySnapshot {
	keys := make([]string, 0, len(ingredients))
	for k := range ingredients {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &RegistrySnapshot{
		Ingredients:  ingredients,
		Equivalences: equivalences,
		keys:         keys,
	}
}

// Keys returns the ingredient keys in sorted order. Callers must not
// mutate the returned slice.
func (s *RegistrySnapshot) Keys() []string {
	return s.keys
}

// Lookup returns the entry for a normalized ingredient key.
func (s *RegistrySnapshot) Lookup(key string) (*IngredientEntry, bool) {
	e, ok := s.Ingredients[key]
	return e, ok
}

// EquivalencesFor returns the registry rows for one normalized active
// ingredient, used as the corroboration signal for brand/lab matching.
func (s *RegistrySnapshot) EquivalencesFor(normalizedIngredient string) []EquivalenceRecord {
	var out []EquivalenceRecord
	for _, rec := range s.Equivalences {
		if rec.ActiveIngredient == normalizedIngredient {
			out = append(out, rec)
		}
	}
	return out
}
