package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ZaguanLabs/doclai"
	"github.com/ZaguanLabs/doclai/cache"
	"github.com/ZaguanLabs/doclai/provider"
)

// buildProvider creates the configured provider wrapped with retries and,
// when a rate is set, rate limiting.
func buildProvider(ctx context.Context, cfg doclai.ProviderConfig, apiKey string) (doclai.AIProvider, error) {
	var p doclai.AIProvider

	switch cfg.Name {
	case "openai":
		key := apiKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
		}
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  key,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "ollama":
		p = provider.NewOllamaProvider(provider.OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "lambda":
		lp, err := provider.NewLambdaProvider(ctx, provider.LambdaConfig{
			Function: cfg.Function,
			Region:   cfg.Region,
		})
		if err != nil {
			return nil, err
		}
		p = lp
	case "mock":
		p = provider.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}

	if cfg.MaxRetries > 0 {
		retry := doclai.DefaultRetryConfig()
		retry.MaxRetries = cfg.MaxRetries
		p = doclai.NewRetryableProvider(p, retry)
	}
	if cfg.RequestsPerMinute > 0 {
		p = doclai.NewRateLimitedProvider(p, doclai.RateLimitConfig{RequestsPerMinute: cfg.RequestsPerMinute})
	}
	return p, nil
}

// openCache returns the configured cache, or nil when caching is off. A
// cache file is loaded into it when present.
func openCache(ctx context.Context, cfg doclai.CacheConfig, logger *slog.Logger) (doclai.TranslationCache, func(), error) {
	noop := func() {}

	ttl, err := time.ParseDuration(cfg.TTL)
	if cfg.TTL != "" && err != nil {
		return nil, noop, fmt.Errorf("invalid cache ttl %q: %w", cfg.TTL, err)
	}

	var tc doclai.TranslationCache
	closeFn := noop
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, TTL: ttl, Logger: logger})
		if err != nil {
			return nil, noop, err
		}
		tc = rc
		closeFn = func() { _ = rc.Close() }
	case cfg.SQLite != "":
		sc, err := cache.NewSQLiteCache(ctx, cache.SQLiteConfig{Path: cfg.SQLite, TTL: ttl, Logger: logger})
		if err != nil {
			return nil, noop, err
		}
		if n, err := sc.Purge(); err == nil && n > 0 {
			logger.Debug("expired cache entries purged", "entries", n)
		}
		tc = sc
		closeFn = func() { _ = sc.Close() }
	case ttl > 0 || cfg.File != "":
		tc = cache.NewInMemoryCacheTTL(ttl)
	default:
		return nil, noop, nil
	}

	if cfg.File != "" {
		res, err := cache.ImportFromFile(cfg.File, tc)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			closeFn()
			return nil, noop, fmt.Errorf("loading cache file: %w", err)
		default:
			logger.Debug("cache loaded", "file", cfg.File, "entries", res.Imported, "failed", res.Failed)
		}
	}
	return tc, closeFn, nil
}

// saveCache writes tc to the cache file, if one is configured.
func saveCache(cfg doclai.CacheConfig, tc doclai.TranslationCache) error {
	if cfg.File == "" || tc == nil {
		return nil
	}
	snap, ok := tc.(cache.Snapshotter)
	if !ok {
		return fmt.Errorf("cache %T cannot be exported", tc)
	}
	return cache.ExportToFile(cfg.File, snap, map[string]string{"tool": doclai.UserAgent()})
}
