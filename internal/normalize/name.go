// Package normalize holds the string canonicalisation used by scoring and
// classification: company names, domains, phone numbers, blacklists and
// provider query strings.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultStopWords are legal-entity suffixes and filler words dropped from
// company names before comparison.
var DefaultStopWords = []string{
	"the", "inc", "incorporated", "llc", "corp", "corporation", "co", "company",
	"ltd", "limited", "group", "holdings", "holding", "lp", "llp", "pllc",
	"pc", "pa", "plc", "dba", "na",
}

// Normalizer normalizes company names against an injected stop-word set.
type Normalizer struct {
	stop map[string]struct{}
}

// NewNormalizer builds a Normalizer. Stop words are matched case-insensitively
// after punctuation stripping.
func NewNormalizer(stopWords []string) *Normalizer {
	n := &Normalizer{stop: make(map[string]struct{}, len(stopWords))}
	for _, w := range stopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		w = strings.NewReplacer(".", "", "'", "").Replace(w)
		if w != "" {
			n.stop[w] = struct{}{}
		}
	}
	return n
}

var defaultNormalizer = NewNormalizer(DefaultStopWords)

// NormalizeCompanyName normalizes name with DefaultStopWords.
func NormalizeCompanyName(name string) string {
	return defaultNormalizer.Name(name)
}

// Name lower-cases, folds diacritics, strips punctuation except hyphens,
// removes stop words and collapses whitespace. Name(Name(x)) == Name(x).
func (n *Normalizer) Name(name string) string {
	tokens := n.Tokens(name)
	return strings.Join(tokens, " ")
}

// Tokens returns the normalized words of name. When every word is a stop word
// the words are kept, so a name like "Group Inc" never normalizes to "".
func (n *Normalizer) Tokens(name string) []string {
	words := strings.Fields(stripPunctuation(foldCase(name)))
	var kept []string
	for _, w := range words {
		w = strings.Trim(w, "-")
		if w == "" {
			continue
		}
		if _, stop := n.stop[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) > 0 {
		return kept
	}
	out := words[:0]
	for _, w := range words {
		if w = strings.Trim(w, "-"); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// SignificantWords returns normalized words longer than minLen runes.
func (n *Normalizer) SignificantWords(name string, minLen int) []string {
	var out []string
	for _, w := range n.Tokens(name) {
		if len([]rune(w)) > minLen {
			out = append(out, w)
		}
	}
	return out
}

func foldCase(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// stripPunctuation drops apostrophes and periods (so "L.L.C." becomes "llc")
// and turns any other non-alphanumeric rune except '-' into a space.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '’' || r == '.':
		case r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
