// Command doclai localizes JSON and YAML documents using AI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/doclai"
	"github.com/ZaguanLabs/doclai/processor"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = doclai.Version
	commit    = doclai.GitCommit
	buildDate = doclai.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	lang       string
	source     string
	topic      string
	style      string
	protect    []string
	exclude    []string
	batchSize  int
	configPath string

	providerName string
	model        string
	apiKey       string
	baseURL      string
	function     string
	region       string
	rpm          int
	retries      int

	redisURL  string
	cacheDB   string
	cacheTTL  time.Duration
	cacheFile string

	output   string
	format   string
	diffPath string
	dryRun   bool
	jsonOut  bool
	verbose  bool
	quiet    bool
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   doclai.Name + " [file]",
		Short: "Localize JSON and YAML documents with AI translation",
		Long: `doclai translates every human-readable string of a JSON or YAML document
and writes the document back with the same structure. Identifiers, URLs,
keys such as "id" or "src", placeholders and inline HTML are preserved.

The document is read from the given file, or from stdin when no file is given.

Providers:
  openai   OpenAI chat completions (OPENAI_API_KEY)
  ollama   Local Ollama server
  lambda   AWS Lambda translator function
  mock     Deterministic offline provider`,
		Args:          cobra.MaximumNArgs(1),
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.execute(cmd, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVar(&o.lang, "lang", "", "Target language code (e.g., es_ES, ja_JP)")
	f.StringVar(&o.source, "source", "en", "Source language code")
	f.StringVar(&o.topic, "topic", "", "What the document is about (e.g., 'E-commerce checkout')")
	f.StringVar(&o.style, "style", string(doclai.StyleNeutral), "Translation style: formal, neutral, casual, marketing, technical")
	f.StringSliceVar(&o.protect, "protect", nil, "Extra field names whose values are never translated")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Terms to never translate")
	f.IntVar(&o.batchSize, "batch-size", 4, "Chunks translated concurrently")
	f.StringVar(&o.configPath, "config", "", "YAML configuration file")

	f.StringVar(&o.providerName, "provider", "openai", "Translation provider: openai, ollama, lambda, mock")
	f.StringVar(&o.model, "model", "", "Model name for openai or ollama")
	f.StringVar(&o.apiKey, "api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	f.StringVar(&o.baseURL, "base-url", "", "Provider base URL")
	f.StringVar(&o.function, "function", "", "Lambda function name or ARN")
	f.StringVar(&o.region, "region", "", "AWS region for the lambda provider")
	f.IntVar(&o.rpm, "rpm", 0, "Maximum provider requests per minute (0 = unlimited)")
	f.IntVar(&o.retries, "retries", 3, "Transport retries for retryable provider errors")

	f.StringVar(&o.redisURL, "redis-url", "", "Use a Redis translation cache (e.g., redis://localhost:6379/0)")
	f.StringVar(&o.cacheDB, "cache-db", "", "Use a SQLite translation cache stored at this path")
	f.DurationVar(&o.cacheTTL, "cache-ttl", time.Hour, "Cache entry lifetime (0 disables the in-memory cache)")
	f.StringVar(&o.cacheFile, "cache-file", "", "Load the cache from this file before running and save it after")

	f.StringVarP(&o.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&o.format, "format", "", "Document format: json or yaml (default: from file extension)")
	f.StringVar(&o.diffPath, "diff", "", "Compare with a previous version and show what needs translation")
	f.BoolVar(&o.dryRun, "dry-run", false, "Show what would be translated without calling a provider")
	f.BoolVar(&o.jsonOut, "json", false, "Output the full result as JSON")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug details")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func versionString() string {
	s := doclai.Name + " " + version
	if commit != "unknown" && commit != "" {
		s += "\n  commit:  " + commit
	}
	if buildDate != "unknown" && buildDate != "" {
		s += "\n  built:   " + buildDate
	}
	return s
}

func (o *options) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case o.verbose:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// config merges the config file, DOCLAI_* variables and explicit flags, in
// that order.
func (o *options) config(cmd *cobra.Command) (doclai.Config, error) {
	cfg := doclai.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = doclai.LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}
	cfg = doclai.ConfigFromEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceLang = o.source
	}
	if flags.Changed("topic") {
		cfg.Topic = o.topic
	}
	if flags.Changed("style") {
		cfg.Style = doclai.TranslationStyle(o.style)
	}
	if flags.Changed("batch-size") {
		cfg.BatchSize = o.batchSize
	}
	if len(o.exclude) > 0 {
		cfg.ExcludedTerms = append(cfg.ExcludedTerms, o.exclude...)
	}
	cfg.ProtectedKeys = append(cfg.ProtectedKeys, o.protect...)

	p := &cfg.Provider
	if flags.Changed("provider") || p.Name == "" {
		p.Name = o.providerName
	}
	if o.model != "" {
		p.Model = o.model
	}
	if o.baseURL != "" {
		p.BaseURL = o.baseURL
	}
	if o.function != "" {
		p.Function = o.function
	}
	if o.region != "" {
		p.Region = o.region
	}
	if flags.Changed("rpm") {
		p.RequestsPerMinute = o.rpm
	}
	if flags.Changed("retries") {
		p.MaxRetries = o.retries
	}

	if o.redisURL != "" {
		cfg.Cache.RedisURL = o.redisURL
	}
	if o.cacheDB != "" {
		cfg.Cache.SQLite = o.cacheDB
	}
	if flags.Changed("cache-ttl") || cfg.Cache.TTL == "" {
		cfg.Cache.TTL = o.cacheTTL.String()
	}
	if o.cacheFile != "" {
		cfg.Cache.File = o.cacheFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type input struct {
	name  string
	codec processor.DocumentCodec
	doc   doclai.Value
}

func (o *options) readInput(cmd *cobra.Command, args []string) (*input, error) {
	var data []byte
	var err error
	in := &input{name: "stdin"}

	if len(args) == 0 {
		if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		in.name = filepath.Base(args[0])
	}

	if in.codec, err = o.codecFor(args); err != nil {
		return nil, err
	}
	if in.doc, err = in.codec.Decode(data); err != nil {
		return nil, err
	}
	return in, nil
}

func (o *options) codecFor(args []string) (processor.DocumentCodec, error) {
	switch {
	case o.format != "":
		return processor.ForFormat(o.format)
	case len(args) > 0:
		return processor.ForPath(args[0])
	default:
		return processor.NewJSONCodec(), nil
	}
}

func (o *options) execute(cmd *cobra.Command, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if o.lang == "" {
		_ = cmd.Usage()
		return fmt.Errorf("--lang is required")
	}

	cfg, err := o.config(cmd)
	if err != nil {
		return err
	}
	logger := o.logger(stderr)
	logger.Debug("configuration", "config", cfg)

	in, err := o.readInput(cmd, args)
	if err != nil {
		return err
	}

	keys := doclai.DefaultProtectedKeySet()
	keys.Add(cfg.ProtectedKeys...)
	repairer := processor.NewHTMLRepairer()

	if o.diffPath != "" {
		return o.runDiff(in, keys, repairer, stdout)
	}
	if o.dryRun {
		return o.runDryRun(in, cfg, keys, repairer, stdout)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := buildProvider(ctx, cfg.Provider, o.apiKey)
	if err != nil {
		return err
	}
	tc, closeCache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := append(cfg.Options(),
		doclai.WithRepairer(repairer),
		doclai.WithLogger(logger),
	)
	if tc != nil {
		opts = append(opts, doclai.WithCache(tc))
	}
	engine := doclai.NewEngine(o.lang, p, opts...)

	if !o.quiet {
		fmt.Fprintf(stderr, "Translating %s to %s...\n", in.name, o.lang)
	}

	start := time.Now()
	result, err := engine.Localize(ctx, in.doc)
	elapsed := time.Since(start)

	if saveErr := saveCache(cfg.Cache, tc); saveErr != nil {
		logger.Warn("saving cache failed", "error", saveErr)
	}

	if err != nil {
		if o.jsonOut && result != nil {
			_ = o.writeJSON(stdout, result, elapsed)
		}
		return fmt.Errorf("translation failed: %w", err)
	}

	if err := o.writeResult(stdout, in, result, elapsed); err != nil {
		return err
	}

	if !o.quiet {
		fmt.Fprintf(stderr, "\nDone in %v: %s\n", elapsed.Round(time.Millisecond), result.Summary)
		fmt.Fprintf(stderr, "  Strings found: %d\n", result.TotalLeaves)
		fmt.Fprintf(stderr, "  Translated:    %d\n", result.TranslatedCount)
		fmt.Fprintf(stderr, "  From cache:    %d\n", result.CachedCount)
		fmt.Fprintf(stderr, "  Chunks:        %d (%d fell back)\n", result.Chunks, result.FailedChunks)
		for _, issue := range result.Issues {
			fmt.Fprintf(stderr, "  ! %s\n", issue)
		}
	}
	return nil
}

func (o *options) writeResult(stdout io.Writer, in *input, result *doclai.Result, elapsed time.Duration) error {
	var out io.Writer = stdout
	if o.output != "" {
		f, err := os.Create(o.output) // #nosec G304 - CLI tool writes user-specified files
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if o.jsonOut {
		return o.writeJSON(out, result, elapsed)
	}
	if result.Data == nil {
		return errors.New("translation produced no document")
	}

	data, err := in.codec.Encode(*result.Data)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// JSONOutput is the --json output format.
type JSONOutput struct {
	*doclai.Result
	ElapsedMs int64 `json:"elapsed_ms"`
}

func (o *options) writeJSON(w io.Writer, result *doclai.Result, elapsed time.Duration) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(JSONOutput{Result: result, ElapsedMs: elapsed.Milliseconds()})
}
