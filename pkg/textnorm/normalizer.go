package textnorm

import (
	"regexp"
	"strings"
)

// DefaultStopWords are unit and packaging tokens that carry no identity
// information and are removed before any comparison.
var DefaultStopWords = []string{
	"MG", "COMPRIMIDOS", "CAPSULAS", "JARABE", "CM", "AL", "X", "CAJA", "FRASCO",
}

var nonAlphaNum = regexp.MustCompile(`[^A-Z0-9\s]`)

// Normalizer canonicalizes free text into the comparison key used by every
// matching step: uppercase, stop words stripped as whole words, characters
// outside [A-Z0-9 ] removed, whitespace collapsed.
//
// Both sides of every comparison must go through the same Normalizer
// instance for matching to behave.
type Normalizer struct {
	stopWords []*regexp.Regexp
}

// New creates a Normalizer with the given stop-word list. With no arguments
// it uses DefaultStopWords.
func New(stopWords ...string) *Normalizer {
	if len(stopWords) == 0 {
		stopWords = DefaultStopWords
	}

	n := &Normalizer{
		stopWords: make([]*regexp.Regexp, 0, len(stopWords)),
	}
	for _, word := range stopWords {
		word = strings.ToUpper(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		n.stopWords = append(n.stopWords, regexp.MustCompile(`\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return n
}

// Normalize applies the full canonicalization pipeline. It is deterministic
// and idempotent: Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToUpper(text)

	for _, re := range n.stopWords {
		text = re.ReplaceAllString(text, "")
	}

	text = nonAlphaNum.ReplaceAllString(text, "")

	return strings.Join(strings.Fields(text), " ")
}
