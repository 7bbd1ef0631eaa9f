package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
	"go.uber.org/zap"
)

// catalogCacheKey is the cache key for the shared catalog snapshot
const catalogCacheKey = "catalog:products"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
	Match    MatchConfig
}

// catalogSnapshot is an in-process copy of the catalog with its derived search index
type catalogSnapshot struct {
	products []domain.Product
	index    productIndex
	loadedAt time.Time
}

// CatalogService loads the product catalog with caching and runs Smart Search over it
type CatalogService struct {
	cache    domain.CacheRepository
	client   domain.CatalogClient
	matcher  *Matcher
	cacheTTL time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot *catalogSnapshot
	now      func() time.Time
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	client domain.CatalogClient,
	config CatalogServiceConfig,
	logger *zap.Logger,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{
		cache:    cache,
		client:   client,
		matcher:  NewMatcher(config.Match),
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Products returns the current catalog snapshot.
// Flow: in-process snapshot -> shared cache -> catalog API -> cache
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.products, nil
}

// Search filters the catalog against the request query.
// An empty query returns the whole catalog.
func (s *CatalogService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	products := snap.products
	if words := queryWords(request.Query); len(words) > 0 {
		products, err = s.matcher.matchIndexed(ctx, snap.products, snap.index, words)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("catalog search",
		zap.String("query", request.Query),
		zap.Int("catalog", len(snap.products)),
		zap.Int("matches", len(products)))

	return &domain.SearchResponse{
		Query:    request.Query,
		Count:    len(products),
		Products: products,
	}, nil
}

// Refresh drops every cached copy of the catalog and fetches it again
func (s *CatalogService) Refresh(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("failed to evict cached catalog", zap.Error(err))
	}

	return s.Products(ctx)
}

// load returns a fresh snapshot, rebuilding it from cache or the catalog API when stale
func (s *CatalogService) load(ctx context.Context) (*catalogSnapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil && s.now().Sub(snap.loadedAt) < s.cacheTTL {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock
	if s.snapshot != nil && s.now().Sub(s.snapshot.loadedAt) < s.cacheTTL {
		return s.snapshot, nil
	}

	products, err := s.getFromCache(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}

		products, err = s.client.FetchProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}

		if err := s.cache.Set(ctx, catalogCacheKey, products, s.cacheTTL); err != nil {
			// Log but don't fail if caching fails
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
		s.logger.Info("catalog loaded from API", zap.Int("products", len(products)))
	}

	s.snapshot = &catalogSnapshot{
		products: products,
		index:    buildIndex(products),
		loadedAt: s.now(),
	}
	return s.snapshot, nil
}

// getFromCache retrieves the catalog from cache
func (s *CatalogService) getFromCache(ctx context.Context) ([]domain.Product, error) {
	value, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, err
	}

	if products, ok := value.([]domain.Product); ok {
		return products, nil
	}

	// Caches hand back decoded JSON; re-encode it into typed products
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return products, nil
}
