package doclai

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ConfigFromEnv.
const EnvPrefix = "DOCLAI_"

// Config is the file and environment form of the engine settings.
type Config struct {
	SourceLang    string            `yaml:"source_lang"`
	Topic         string            `yaml:"topic"`
	Style         TranslationStyle  `yaml:"style"`
	Glossary      map[string]string `yaml:"glossary"`
	ExcludedTerms []string          `yaml:"excluded_terms"`

	// ProtectedKeys are added to the default protected key set.
	ProtectedKeys []string `yaml:"protected_keys"`

	MaxChunkBytes           int     `yaml:"max_chunk_bytes"`
	InitialChunkSize        int     `yaml:"initial_chunk_size"`
	MinChunkSize            int     `yaml:"min_chunk_size"`
	ShrinkFactor            float64 `yaml:"shrink_factor"`
	BatchSize               int     `yaml:"batch_size"`
	ParallelLookupThreshold int     `yaml:"parallel_lookup_threshold"`

	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ProviderConfig selects and configures the translation backend.
type ProviderConfig struct {
	Name              string `yaml:"name"` // openai, ollama, lambda or mock
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	Function          string `yaml:"function"` // Lambda function name or ARN
	Region            string `yaml:"region"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	MaxRetries        int    `yaml:"max_retries"`
}

// CacheConfig configures the translation cache.
type CacheConfig struct {
	RedisURL string `yaml:"redis_url"`
	SQLite   string `yaml:"sqlite"` // Database path; ignored when RedisURL is set
	TTL      string `yaml:"ttl"`    // Go duration, e.g. "24h"
	File     string `yaml:"file"`
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	chunking := DefaultChunkConfig()
	return Config{
		SourceLang:              "en",
		Style:                   StyleNeutral,
		MaxChunkBytes:           chunking.MaxBytes,
		InitialChunkSize:        chunking.InitialSize,
		MinChunkSize:            chunking.MinSize,
		ShrinkFactor:            chunking.ShrinkFactor,
		BatchSize:               4,
		ParallelLookupThreshold: 8,
		Provider: ProviderConfig{
			Name:       "openai",
			MaxRetries: 3,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv overlays DOCLAI_* environment variables on base. Unset or
// unparsable variables leave the base value alone.
func ConfigFromEnv(base Config) Config {
	return configFromLookup(base, os.LookupEnv)
}

func configFromLookup(cfg Config, lookup func(string) (string, bool)) Config {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt("MAX_CHUNK_BYTES", &cfg.MaxChunkBytes)
	setInt("INITIAL_CHUNK_SIZE", &cfg.InitialChunkSize)
	setInt("MIN_CHUNK_SIZE", &cfg.MinChunkSize)
	setInt("BATCH_SIZE", &cfg.BatchSize)
	if v, ok := get("SHRINK_FACTOR"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ShrinkFactor = f
		}
	}
	if v, ok := get("PROTECTED_KEYS"); ok {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.ProtectedKeys = append(cfg.ProtectedKeys, k)
			}
		}
	}
	if v, ok := get("SOURCE_LANG"); ok {
		cfg.SourceLang = v
	}
	if v, ok := get("TOPIC"); ok {
		cfg.Topic = v
	}
	return cfg
}

// Validate reports every setting outside its allowed range.
func (c Config) Validate() error {
	var errs []error
	if c.MaxChunkBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_chunk_bytes must be positive, got %d", c.MaxChunkBytes))
	}
	if c.InitialChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("initial_chunk_size must be positive, got %d", c.InitialChunkSize))
	}
	if c.MinChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("min_chunk_size must be positive, got %d", c.MinChunkSize))
	}
	if c.ShrinkFactor <= 0 || c.ShrinkFactor >= 1 {
		errs = append(errs, fmt.Errorf("shrink_factor must be in (0,1), got %g", c.ShrinkFactor))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}
	return errors.Join(errs...)
}

// Normalize replaces every out-of-range setting with its default.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.MaxChunkBytes <= 0 {
		c.MaxChunkBytes = def.MaxChunkBytes
	}
	if c.InitialChunkSize <= 0 {
		c.InitialChunkSize = def.InitialChunkSize
	}
	if c.MinChunkSize <= 0 {
		c.MinChunkSize = def.MinChunkSize
	}
	if c.ShrinkFactor <= 0 || c.ShrinkFactor >= 1 {
		c.ShrinkFactor = def.ShrinkFactor
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.ParallelLookupThreshold <= 0 {
		c.ParallelLookupThreshold = def.ParallelLookupThreshold
	}
	if c.SourceLang == "" {
		c.SourceLang = def.SourceLang
	}
	if c.Style == "" {
		c.Style = def.Style
	}
	return c
}

// Chunking returns the chunk planner limits of c.
func (c Config) Chunking() ChunkConfig {
	return ChunkConfig{
		MaxBytes:     c.MaxChunkBytes,
		InitialSize:  c.InitialChunkSize,
		MinSize:      c.MinChunkSize,
		ShrinkFactor: c.ShrinkFactor,
	}
}

// Options converts c into engine options. Provider, cache, repairer and
// logger are left to the caller.
func (c Config) Options() []EngineOption {
	c = c.Normalize()
	opts := []EngineOption{
		WithSourceLang(c.SourceLang),
		WithChunking(c.Chunking()),
		WithBatchSize(c.BatchSize),
		WithParallelLookupThreshold(c.ParallelLookupThreshold),
		WithStyle(c.Style),
	}
	if c.Topic != "" {
		opts = append(opts, WithTopic(c.Topic))
	}
	if len(c.Glossary) > 0 {
		opts = append(opts, WithGlossary(c.Glossary))
	}
	if len(c.ExcludedTerms) > 0 {
		opts = append(opts, WithExcludedTerms(c.ExcludedTerms))
	}
	if len(c.ProtectedKeys) > 0 {
		opts = append(opts, WithExtraProtectedKeys(c.ProtectedKeys...))
	}
	return opts
}

// LogValue summarises c for structured logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", c.SourceLang),
		slog.Int("max_chunk_bytes", c.MaxChunkBytes),
		slog.Int("initial_chunk_size", c.InitialChunkSize),
		slog.Int("batch_size", c.BatchSize),
		slog.String("provider", c.Provider.Name),
	)
}
