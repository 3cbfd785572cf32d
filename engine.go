package doclai

import (
	"context"
	"fmt"
	"log/slog"
)

// AIProvider is the interface for translation backends.
//
// Translate receives a numbered map ("0".."n-1") and must answer with a map
// holding the same keys. Errors and missing keys fail the whole chunk.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) (map[string]string, error)
}

// TranslateRequest contains the parameters for one chunk translation.
type TranslateRequest struct {
	Items         map[string]string     // Numbered map of texts to translate
	Contexts      map[string]ContextTag // Per-key style hints
	SourceLang    string
	TargetLang    string
	Topic         string // What the document is about
	Style         TranslationStyle
	Glossary      map[string]string
	ExcludedTerms []string
	RepairHint    string // Set on the retry after a defective response
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Engine localizes document trees.
type Engine struct {
	targetLang        string
	sourceLang        string
	provider          AIProvider
	cache             TranslationCache
	repairer          MarkupRepairer
	validator         *Validator
	protected         *ProtectedKeySet
	chunking          ChunkConfig
	batchSize         int
	parallelThreshold int
	topic             string
	style             TranslationStyle
	glossary          map[string]string
	excludedTerms     []string
	logger            *slog.Logger
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithSourceLang sets the source language.
func WithSourceLang(lang string) EngineOption {
	return func(e *Engine) {
		e.sourceLang = lang
	}
}

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithRepairer sets the markup-repair capability.
func WithRepairer(r MarkupRepairer) EngineOption {
	return func(e *Engine) {
		e.repairer = r
	}
}

// WithValidator replaces the invariant checks run on each translation.
func WithValidator(v *Validator) EngineOption {
	return func(e *Engine) {
		e.validator = v
	}
}

// WithProtectedKeys replaces the protected key set.
func WithProtectedKeys(keys *ProtectedKeySet) EngineOption {
	return func(e *Engine) {
		e.protected = keys
	}
}

// WithExtraProtectedKeys adds exact leaf names to the protected key set.
func WithExtraProtectedKeys(names ...string) EngineOption {
	return func(e *Engine) {
		if e.protected == nil {
			e.protected = DefaultProtectedKeySet()
		}
		e.protected.Add(names...)
	}
}

// WithChunking sets the chunk planner limits.
func WithChunking(cfg ChunkConfig) EngineOption {
	return func(e *Engine) {
		e.chunking = cfg
	}
}

// WithBatchSize bounds how many chunks are in flight at once.
func WithBatchSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithParallelLookupThreshold sets the number of leaves in a chunk from
// which cache lookups run concurrently.
func WithParallelLookupThreshold(n int) EngineOption {
	return func(e *Engine) {
		e.parallelThreshold = n
	}
}

// WithTopic sets the topic hint sent with every chunk.
func WithTopic(topic string) EngineOption {
	return func(e *Engine) {
		e.topic = topic
	}
}

// WithStyle sets the translation style/register.
func WithStyle(style TranslationStyle) EngineOption {
	return func(e *Engine) {
		e.style = style
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) EngineOption {
	return func(e *Engine) {
		e.glossary = glossary
	}
}

// WithExcludedTerms sets terms that should not be translated.
func WithExcludedTerms(terms []string) EngineOption {
	return func(e *Engine) {
		e.excludedTerms = terms
	}
}

// WithLogger sets the logger used for chunk failures and retries.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine translating into targetLang through provider.
func NewEngine(targetLang string, provider AIProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		targetLang:        targetLang,
		sourceLang:        "en",
		provider:          provider,
		repairer:          NoRepair,
		validator:         DefaultValidator(),
		chunking:          DefaultChunkConfig(),
		batchSize:         4,
		parallelThreshold: 8,
		style:             StyleNeutral,
		logger:            slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.protected == nil {
		e.protected = DefaultProtectedKeySet()
	}

	return e
}

// Localize translates every eligible string of doc and returns a copy of doc
// with the translations in place. doc itself is never modified.
//
// Chunk failures fall back to source text and validation problems are
// reported as Issues; both still yield Success. The returned error is non-nil
// only when Success is false: a count mismatch between extracted and
// translated values, or a provider that failed every chunk.
func (e *Engine) Localize(ctx context.Context, doc Value) (*Result, error) {
	if e.IsSourceLang() {
		return unchanged(doc), nil
	}

	leaves := Extract(doc, e.protected, e.repairer)
	if len(leaves) == 0 {
		return unchanged(doc), nil
	}

	chunks := PlanChunks(leaves, e.chunking)
	outcomes := e.executeChunks(ctx, chunks)

	res := &Result{TotalLeaves: len(leaves), Chunks: len(chunks), Issues: []Issue{}}
	translated := make([]string, 0, len(leaves))
	requested := 0
	var firstErr error
	for _, o := range outcomes {
		translated = append(translated, o.values...)
		res.Issues = append(res.Issues, o.issues...)
		res.TranslatedCount += o.translated
		res.CachedCount += o.cached
		res.TrivialCount += o.trivial
		if o.requested {
			requested++
		}
		if o.err != nil {
			res.FailedChunks++
			if firstErr == nil {
				firstErr = o.err
			}
		}
	}

	out, err := Bind(doc, leaves, translated, e.repairer)
	if err != nil {
		e.logger.Error("binding translations failed", "error", err)
		return failed(res, err), err
	}

	if requested > 0 && res.FailedChunks == requested {
		err := fmt.Errorf("%w: all %d chunk(s) failed: %w", ErrProviderUnavailable, requested, firstErr)
		return failed(res, err), err
	}

	res.Success = true
	res.Data = &out
	res.Summary = summarize(res)
	return res, nil
}

// IsSourceLang reports whether the target language matches the source
// language, in which case Localize returns documents unchanged.
func (e *Engine) IsSourceLang() bool {
	return SameLanguage(e.sourceLang, e.targetLang)
}

// TargetLang returns the target language.
func (e *Engine) TargetLang() string {
	return e.targetLang
}

// SourceLang returns the source language.
func (e *Engine) SourceLang() string {
	return e.sourceLang
}

// ProtectedKeys returns the protected key set in use.
func (e *Engine) ProtectedKeys() *ProtectedKeySet {
	return e.protected
}

// Repairer returns the markup-repair capability in use.
func (e *Engine) Repairer() MarkupRepairer {
	return e.repairer
}

func unchanged(doc Value) *Result {
	data := doc.Clone()
	return &Result{
		Success: true,
		Data:    &data,
		Issues:  []Issue{},
		Summary: "nothing to translate",
	}
}

func failed(res *Result, err error) *Result {
	res.Success = false
	res.Data = nil
	res.Error = err.Error()
	return res
}

func summarize(res *Result) string {
	s := "completed"
	if n := len(res.Issues); n > 0 {
		s = fmt.Sprintf("completed with %d soft issue(s)", n)
	}
	if res.FailedChunks > 0 {
		s += fmt.Sprintf("; %d of %d chunk(s) fell back to source", res.FailedChunks, res.Chunks)
	}
	return s
}
