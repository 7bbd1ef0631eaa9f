package http

import (
	"context"
	"sync"
	"time"

	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
)

// catalogFunc adapts a function to domain.CatalogClient
type catalogFunc func(ctx context.Context) ([]domain.Product, error)

func (f catalogFunc) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	return f(ctx)
}

// mapCache is a minimal domain.CacheRepository without expiry
type mapCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]interface{})}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}
