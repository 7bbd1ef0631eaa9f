package domain

// Product is a catalog record as served by the storefront REST backend.
// Only Title, Category, Description and Colors take part in search.
type Product struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Colors      []Color  `json:"colors,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// Color is a named swatch offered for a product
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// SearchRequest represents a product search request
type SearchRequest struct {
	Query string `json:"query" form:"q"`
}

// SearchResponse is the result of a product search
type SearchResponse struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}
