package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
)

// rawProduct mirrors a catalog record as served by the REST backend.
// Required fields are pointers so a missing value can be told apart from an empty one.
type rawProduct struct {
	MongoID     string            `json:"_id"`
	ID          string            `json:"id"`
	Title       *string           `json:"title"`
	Category    *string           `json:"category"`
	Description *string           `json:"description"`
	Colors      []domain.Color    `json:"colors"`
	Price       float64           `json:"price"`
	Images      []string          `json:"images"`
	Sizes       []json.RawMessage `json:"sizes"`
	Stock       int               `json:"stock"`
}

// ParseProducts decodes a catalog payload and validates each record.
// Malformed records are skipped and reported in rejected; err is set only
// when the payload itself cannot be decoded.
func ParseProducts(data []byte) (products []domain.Product, rejected []error, err error) {
	raw, err := decodeProducts(data)
	if err != nil {
		return nil, nil, err
	}
	products, rejected = mapProducts(raw)
	return products, rejected, nil
}

// decodeProducts accepts either a bare JSON array or a {"products": [...]} envelope
func decodeProducts(body []byte) ([]rawProduct, error) {
	trimmed := bytes.TrimSpace(body)

	var raw []rawProduct
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Products []rawProduct `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		return envelope.Products, nil
	}

	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mapProducts converts raw catalog records into domain products.
// Records missing a required field are skipped and reported in rejected.
func mapProducts(raw []rawProduct) (products []domain.Product, rejected []error) {
	products = make([]domain.Product, 0, len(raw))
	for i := range raw {
		product, err := mapProduct(&raw[i])
		if err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		products = append(products, product)
	}
	return products, rejected
}

// mapProduct validates one record and converts it
func mapProduct(r *rawProduct) (domain.Product, error) {
	var missing []string
	if r.Title == nil {
		missing = append(missing, "title")
	}
	if r.Category == nil {
		missing = append(missing, "category")
	}
	if r.Description == nil {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return domain.Product{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidProduct, strings.Join(missing, ", "))
	}

	id := r.MongoID
	if id == "" {
		id = r.ID
	}

	return domain.Product{
		ID:          id,
		Title:       *r.Title,
		Category:    *r.Category,
		Description: *r.Description,
		Colors:      r.Colors,
		Price:       r.Price,
		Images:      r.Images,
		Sizes:       mapSizes(r.Sizes),
		Stock:       r.Stock,
	}, nil
}

// mapSizes flattens size labels that may be strings ("M") or numbers (42)
func mapSizes(sizes []json.RawMessage) []string {
	if len(sizes) == 0 {
		return nil
	}
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		var label string
		if err := json.Unmarshal(s, &label); err == nil {
			out = append(out, label)
			continue
		}
		out = append(out, strings.TrimSpace(string(s)))
	}
	return out
}
