// Command doclai-lambda serves document localization as an AWS Lambda function.
//
// Configuration comes from DOCLAI_* environment variables (see
// doclai.ConfigFromEnv) plus DOCLAI_PROVIDER, DOCLAI_MODEL, DOCLAI_BASE_URL,
// DOCLAI_FUNCTION, DOCLAI_REDIS_URL and OPENAI_API_KEY.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ZaguanLabs/doclai"
	"github.com/ZaguanLabs/doclai/cache"
	"github.com/ZaguanLabs/doclai/provider"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	logger := slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithName("doclai")))
	h, err := newHandlerFromEnv(context.Background(), logger)
	if err != nil {
		zl.Error("startup failed", zap.Error(err))
		_ = zl.Sync()
		os.Exit(1)
	}
	lambda.Start(h.handleRequest)
}

func newHandlerFromEnv(ctx context.Context, logger *slog.Logger) (*handler, error) {
	cfg := doclai.ConfigFromEnv(doclai.DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := providerFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	p = doclai.NewRetryableProvider(p, doclai.DefaultRetryConfig())

	var tc doclai.TranslationCache
	if url := os.Getenv("DOCLAI_REDIS_URL"); url != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: url, TTL: 30 * 24 * time.Hour, Logger: logger})
		if err != nil {
			return nil, err
		}
		tc = rc
	} else {
		tc = cache.NewInMemoryCacheTTL(time.Hour)
	}

	return &handler{config: cfg, provider: p, cache: tc, logger: logger}, nil
}

func providerFromEnv(ctx context.Context) (doclai.AIProvider, error) {
	name := os.Getenv("DOCLAI_PROVIDER")
	if name == "" {
		name = "openai"
	}
	model := os.Getenv("DOCLAI_MODEL")
	baseURL := os.Getenv("DOCLAI_BASE_URL")

	switch name {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return provider.NewOpenAIProvider(provider.OpenAIConfig{APIKey: key, Model: model, BaseURL: baseURL}), nil
	case "ollama":
		return provider.NewOllamaProvider(provider.OllamaConfig{BaseURL: baseURL, Model: model}), nil
	case "lambda":
		return provider.NewLambdaProvider(ctx, provider.LambdaConfig{Function: os.Getenv("DOCLAI_FUNCTION")})
	case "mock":
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// isWarmupEvent reports whether event is a scheduled keep-warm ping.
func isWarmupEvent(event json.RawMessage) bool {
	var probe struct {
		Source string `json:"source"`
	}
	return json.Unmarshal(event, &probe) == nil && probe.Source == "warmup"
}
