package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
)

// Default fuzzy matching tolerances
const (
	defaultMinFuzzyLength     = 3 // words and keywords shorter than this never fuzzy match
	defaultLongTokenLength    = 6 // words longer than this get the long-word tolerance
	defaultShortTokenMistakes = 1
	defaultLongTokenMistakes  = 2
)

// MatchConfig holds the fuzzy matching tolerances. Zero values fall back to the defaults.
type MatchConfig struct {
	MinFuzzyLength     int
	LongTokenLength    int
	ShortTokenMistakes int
	LongTokenMistakes  int
}

// DefaultMatchConfig returns the stock storefront tolerances
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MinFuzzyLength:     defaultMinFuzzyLength,
		LongTokenLength:    defaultLongTokenLength,
		ShortTokenMistakes: defaultShortTokenMistakes,
		LongTokenMistakes:  defaultLongTokenMistakes,
	}
}

// Matcher filters a product catalog against a free-text query.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	minFuzzyLength     int
	longTokenLength    int
	shortTokenMistakes int
	longTokenMistakes  int
}

// NewMatcher creates a matcher with the given tolerances
func NewMatcher(config MatchConfig) *Matcher {
	defaults := DefaultMatchConfig()
	if config.MinFuzzyLength <= 0 {
		config.MinFuzzyLength = defaults.MinFuzzyLength
	}
	if config.LongTokenLength <= 0 {
		config.LongTokenLength = defaults.LongTokenLength
	}
	if config.ShortTokenMistakes <= 0 {
		config.ShortTokenMistakes = defaults.ShortTokenMistakes
	}
	if config.LongTokenMistakes <= 0 {
		config.LongTokenMistakes = defaults.LongTokenMistakes
	}

	return &Matcher{
		minFuzzyLength:     config.MinFuzzyLength,
		longTokenLength:    config.LongTokenLength,
		shortTokenMistakes: config.ShortTokenMistakes,
		longTokenMistakes:  config.LongTokenMistakes,
	}
}

var defaultMatcher = NewMatcher(DefaultMatchConfig())

// SmartSearch returns the products of catalog relevant to query, in catalog order.
//
// An empty or whitespace-only query returns the catalog unchanged. Otherwise a product
// is kept when every query word is either a substring of the product's combined text
// or within the allowed edit distance of one of its keywords.
func SmartSearch(catalog []domain.Product, query string) []domain.Product {
	return defaultMatcher.Match(catalog, query)
}

// Match filters catalog against query using the matcher's tolerances
func (m *Matcher) Match(catalog []domain.Product, query string) []domain.Product {
	words := queryWords(query)
	if len(words) == 0 {
		return catalog
	}
	// Background context never cancels
	result, _ := m.matchIndexed(context.Background(), catalog, buildIndex(catalog), words)
	return result
}

// matchIndexed filters a catalog whose search fields were already derived into index.
// index must be parallel to catalog. Checks ctx between products.
func (m *Matcher) matchIndexed(
	ctx context.Context,
	catalog []domain.Product,
	index productIndex,
	words []string,
) ([]domain.Product, error) {
	result := make([]domain.Product, 0)
	for i := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if m.productMatches(index[i], words) {
			result = append(result, catalog[i])
		}
	}
	return result, nil
}

// productMatches reports whether every query word matches the product
func (m *Matcher) productMatches(entry indexedProduct, words []string) bool {
	for _, word := range words {
		if !m.wordMatches(entry, word) {
			return false
		}
	}
	return true
}

// wordMatches checks a single query word against substring and fuzzy rules
func (m *Matcher) wordMatches(entry indexedProduct, word string) bool {
	if strings.Contains(entry.text, word) {
		return true
	}

	allowed := m.allowedMistakes(word)
	for _, keyword := range entry.keywords {
		if m.fuzzyTokenMatch(word, keyword, allowed) {
			return true
		}
	}
	return false
}

// allowedMistakes returns the edit budget for a query word
func (m *Matcher) allowedMistakes(word string) int {
	if utf8.RuneCountInString(word) > m.longTokenLength {
		return m.longTokenMistakes
	}
	return m.shortTokenMistakes
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func (m *Matcher) fuzzyTokenMatch(word, keyword string, threshold int) bool {
	wordLen := utf8.RuneCountInString(word)
	keywordLen := utf8.RuneCountInString(keyword)

	// Short tokens only ever match by substring
	if wordLen < m.minFuzzyLength || keywordLen < m.minFuzzyLength {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := wordLen - keywordLen
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return LevenshteinDistance(word, keyword) <= threshold
}

// LevenshteinDistance returns the minimum number of single-character insertions,
// deletions and substitutions that turn s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
