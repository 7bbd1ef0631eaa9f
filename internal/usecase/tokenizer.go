package usecase

import (
	"strings"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
)

// normalizeQuery lowercases and trims a raw search query
func normalizeQuery(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

// queryWords splits a normalized query on runs of whitespace.
// Returns nil for an empty or whitespace-only query.
func queryWords(query string) []string {
	return strings.Fields(normalizeQuery(query))
}

// colorNames joins the product's color names with single spaces
func colorNames(product *domain.Product) string {
	if len(product.Colors) == 0 {
		return ""
	}
	names := make([]string, len(product.Colors))
	for i, c := range product.Colors {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// searchText builds the lowercase haystack used for substring matching:
// title, category, description and color names joined by spaces.
func searchText(product *domain.Product) string {
	return strings.ToLower(strings.Join([]string{
		product.Title,
		product.Category,
		product.Description,
		colorNames(product),
	}, " "))
}

// productKeywords returns the comparison set for fuzzy matching.
// Title and color names are split into words; the category is kept whole.
func productKeywords(product *domain.Product) []string {
	titleWords := strings.Fields(strings.ToLower(product.Title))
	colorWords := strings.Fields(strings.ToLower(colorNames(product)))

	keywords := make([]string, 0, len(titleWords)+1+len(colorWords))
	keywords = append(keywords, titleWords...)
	keywords = append(keywords, strings.ToLower(product.Category))
	keywords = append(keywords, colorWords...)
	return keywords
}

// indexedProduct caches the derived search fields of one catalog entry
type indexedProduct struct {
	text     string
	keywords []string
}

// productIndex holds derived search fields for a catalog snapshot, in catalog order
type productIndex []indexedProduct

// buildIndex derives search fields for every product without modifying the catalog
func buildIndex(catalog []domain.Product) productIndex {
	index := make(productIndex, len(catalog))
	for i := range catalog {
		index[i] = indexedProduct{
			text:     searchText(&catalog[i]),
			keywords: productKeywords(&catalog[i]),
		}
	}
	return index
}
