package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/abrahamisaiah129/mima-official-sub000/config"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubCatalog serves a fixed catalog through the real matcher
type stubCatalog struct {
	products  []domain.Product
	err       error
	refreshes int
}

func (s *stubCatalog) Products(ctx context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubCatalog) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	products := usecase.SmartSearch(s.products, request.Query)
	return &domain.SearchResponse{Query: request.Query, Count: len(products), Products: products}, nil
}

func (s *stubCatalog) Refresh(ctx context.Context) ([]domain.Product, error) {
	s.refreshes++
	return s.Products(ctx)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "p1",
			Title:       "VELVET RED STILETTOS",
			Category:    "Heels",
			Description: "Classic high heels with a velvet finish for elegant nights.",
			Colors:      []domain.Color{{Name: "Red", Hex: "#DC2626"}, {Name: "Black", Hex: "#111827"}},
		},
		{
			ID:          "p2",
			Title:       "Urban Chunky Sneaker",
			Category:    "Sneakers",
			Description: "Thick sole street sneaker.",
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Catalog: config.CatalogConfig{BaseURL: "http://catalog.test"},
		Cache:   config.CacheConfig{Type: "memory"},
	}
}

func setupTestRouter(catalog ProductSearcher) *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(catalog, nil), nil)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) domain.SearchResponse {
	t.Helper()
	var resp domain.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(nil)

	w := serve(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mima-search", body["service"])
	assert.NotEmpty(t, body["version"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := serve(router, method, "/health", "")
		assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
	}
}

func TestSearchEndpoint(t *testing.T) {
	router := setupTestRouter(&stubCatalog{products: sampleProducts()})

	t.Run("GET with typo finds product", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/products/search?q=red+stileto", "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeSearch(t, w)
		assert.Equal(t, "red stileto", resp.Query)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "p1", resp.Products[0].ID)
	})

	t.Run("POST body", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/v1/products/search", `{"query":"chunky"}`)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeSearch(t, w)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "p2", resp.Products[0].ID)
	})

	t.Run("no matches is an empty list", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/products/search?q=blue+sandal", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"products":[]`)
	})

	t.Run("missing query returns catalog", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/products/search", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, decodeSearch(t, w).Count)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/v1/products/search", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported method", func(t *testing.T) {
		w := serve(router, http.MethodDelete, "/api/v1/products/search", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductsEndpoints(t *testing.T) {
	catalog := &stubCatalog{products: sampleProducts()}
	router := setupTestRouter(catalog)

	t.Run("lists catalog", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/products", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count    int              `json:"count"`
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		assert.Len(t, body.Products, 2)
	})

	t.Run("refresh", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/v1/products/refresh", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"refreshed"`)
		assert.Equal(t, 1, catalog.refreshes)
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidRequest, http.StatusBadRequest},
		{fmt.Errorf("%w: boom", domain.ErrCatalogUnavailable), http.StatusBadGateway},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := setupTestRouter(&stubCatalog{err: tt.err})
			w := serve(router, http.MethodGet, "/api/v1/products/search?q=red", "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestServiceNotConfigured(t *testing.T) {
	router := setupTestRouter(nil)

	for _, path := range []string{"/api/v1/products", "/api/v1/products/search?q=red"} {
		w := serve(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Contains(t, w.Body.String(), "not configured")
	}
}

func TestSearchWithCatalogService(t *testing.T) {
	svc := usecase.NewCatalogService(
		newMapCache(),
		catalogFunc(func(ctx context.Context) ([]domain.Product, error) { return sampleProducts(), nil }),
		usecase.CatalogServiceConfig{},
		nil,
	)
	router := setupTestRouter(svc)

	w := serve(router, http.MethodGet, "/api/v1/products/search?q=sneker", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSearch(t, w)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Urban Chunky Sneaker", resp.Products[0].Title)
}
