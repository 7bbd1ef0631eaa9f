package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBurst       = 10
	productsPath       = "/products"
)

// ClientConfig configures the catalog API client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerMinute caps outbound requests; zero disables limiting
	RequestsPerMinute int
	MaxAttempts       int
}

// Client fetches the product catalog from the storefront REST backend
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new catalog API client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(limit, defaultBurst),
		maxAttempts: attempts,
		backoff:     exponentialBackoff,
		logger:      logger.Named("catalog"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// FetchProducts downloads the full product catalog and drops malformed records
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	reqURL := c.baseURL + productsPath

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		status, body, err := c.get(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("catalog request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			continue
		}

		if status != http.StatusOK {
			c.logger.Warn("catalog API error",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.ByteString("body", truncate(body, 512)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, status)
			if !retryable(status) {
				return nil, lastErr
			}
			continue
		}

		products, rejected, err := ParseProducts(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		for _, rej := range rejected {
			c.logger.Warn("dropping malformed product", zap.Error(rej))
		}
		c.logger.Info("catalog fetched",
			zap.Int("products", len(products)),
			zap.Int("rejected", len(rejected)))
		return products, nil
	}

	c.logger.Error("all catalog attempts failed", zap.Int("attempts", c.maxAttempts), zap.Error(lastErr))
	return nil, lastErr
}

// get executes an HTTP GET request and returns status and body
func (c *Client) get(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mima/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", domain.ErrCatalogAPIFailure, err)
	}
	return resp.StatusCode, body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
