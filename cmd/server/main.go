package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abrahamisaiah129/mima-official-sub000/config"
	httpDelivery "github.com/abrahamisaiah129/mima-official-sub000/internal/delivery/http"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/domain"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/infrastructure/cache"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/infrastructure/catalog"
	"github.com/abrahamisaiah129/mima-official-sub000/internal/usecase"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Mima search backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("failed to initialise cache", zap.String("type", cfg.Cache.Type), zap.Error(err))
	}
	defer closeCache()

	catalogClient := catalog.NewClient(catalog.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerMinute: cfg.RateLimit.Catalog,
	}, logger)
	logger.Info("Catalog API configured", zap.String("base_url", cfg.Catalog.BaseURL))

	catalogService := usecase.NewCatalogService(
		store,
		catalogClient,
		usecase.CatalogServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Match: usecase.MatchConfig{
				MinFuzzyLength:     cfg.Search.MinFuzzyLength,
				LongTokenLength:    cfg.Search.LongTokenLength,
				ShortTokenMistakes: cfg.Search.ShortTokenMistakes,
				LongTokenMistakes:  cfg.Search.LongTokenMistakes,
			},
		},
		logger,
	)

	logger.Info("Search tolerances",
		zap.Int("min_fuzzy_length", cfg.Search.MinFuzzyLength),
		zap.Int("long_token_length", cfg.Search.LongTokenLength),
		zap.Int("short_token_mistakes", cfg.Search.ShortTokenMistakes),
		zap.Int("long_token_mistakes", cfg.Search.LongTokenMistakes))

	// Warm the catalog so the first search doesn't pay for the fetch
	if _, err := catalogService.Products(ctx); err != nil {
		logger.Warn("initial catalog load failed, will retry on first request", zap.Error(err))
	}

	handler := httpDelivery.NewHandler(catalogService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newLogger returns a production logger in production and a development logger elsewhere
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newCache builds the configured cache backend and its close func
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		mc := cache.NewMemoryCache()
		return mc, func() { _ = mc.Close() }, nil
	}
}
