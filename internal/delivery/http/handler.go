package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "mima-search"
	serviceVersion = "1.0.0"
)

// ProductSearcher is the catalog behaviour the handlers depend on
type ProductSearcher interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error)
	Refresh(ctx context.Context) ([]domain.Product, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog ProductSearcher
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil catalog makes the product
// endpoints answer 503.
func NewHandler(catalog ProductSearcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ListProducts returns the full catalog snapshot
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// SearchProducts handles GET /products/search?q=... and POST /products/search {"query": "..."}
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var request domain.SearchRequest
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&request)
	} else {
		err = c.ShouldBindQuery(&request)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid search request: " + err.Error(),
		})
		return
	}

	response, err := h.catalog.Search(c.Request.Context(), &request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// RefreshProducts drops the cached catalog and reloads it
func (h *Handler) RefreshProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	products, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "refreshed",
		"count":  len(products),
	})
}

// ready answers 503 when no catalog service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "search service not configured",
	})
	return false
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
