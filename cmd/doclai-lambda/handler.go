package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ZaguanLabs/doclai"
	"github.com/ZaguanLabs/doclai/processor"
)

// Request is the input event.
type Request struct {
	Document      json.RawMessage         `json:"document"`
	TargetLang    string                  `json:"target_lang"`
	SourceLang    string                  `json:"source_lang,omitempty"`
	Topic         string                  `json:"topic,omitempty"`
	Style         doclai.TranslationStyle `json:"style,omitempty"`
	ProtectedKeys []string                `json:"protected_keys,omitempty"`
	Glossary      map[string]string       `json:"glossary,omitempty"`
}

type handler struct {
	config   doclai.Config
	provider doclai.AIProvider
	cache    doclai.TranslationCache
	logger   *slog.Logger
}

func (h *handler) handleRequest(ctx context.Context, event json.RawMessage) (any, error) {
	if isWarmupEvent(event) {
		return map[string]string{"status": "warm"}, nil
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return h.handle(ctx, req), nil
}

// handle always answers with a Result; request problems and hard failures
// are reported through Success and Error.
func (h *handler) handle(ctx context.Context, req Request) *doclai.Result {
	if req.TargetLang == "" {
		return &doclai.Result{Issues: []doclai.Issue{}, Error: "target_lang is required"}
	}
	if len(req.Document) == 0 {
		return &doclai.Result{Issues: []doclai.Issue{}, Error: "document is required"}
	}

	doc, err := processor.NewJSONCodec().Decode(req.Document)
	if err != nil {
		return &doclai.Result{Issues: []doclai.Issue{}, Error: err.Error()}
	}

	cfg := h.config
	if req.SourceLang != "" {
		cfg.SourceLang = req.SourceLang
	}
	if req.Topic != "" {
		cfg.Topic = req.Topic
	}
	if req.Style != "" {
		cfg.Style = req.Style
	}
	if len(req.Glossary) > 0 {
		cfg.Glossary = req.Glossary
	}
	cfg.ProtectedKeys = append(append([]string(nil), cfg.ProtectedKeys...), req.ProtectedKeys...)

	opts := append(cfg.Options(),
		doclai.WithRepairer(processor.NewHTMLRepairer()),
		doclai.WithLogger(h.logger.With("target", req.TargetLang)),
	)
	if h.cache != nil {
		opts = append(opts, doclai.WithCache(h.cache))
	}

	res, err := doclai.NewEngine(req.TargetLang, h.provider, opts...).Localize(ctx, doc)
	if err != nil {
		h.logger.Error("localization failed", "target", req.TargetLang, "error", err)
	}
	return res
}
