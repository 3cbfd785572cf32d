package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/doclai"
	"github.com/go-resty/resty/v2"
)

// OllamaProvider implements AIProvider against a local Ollama server's
// /api/chat endpoint in JSON format mode.
type OllamaProvider struct {
	http        *resty.Client
	baseURL     string
	model       string
	temperature float64
}

// OllamaConfig holds configuration for the Ollama provider.
type OllamaConfig struct {
	BaseURL     string        // Default: http://localhost:11434
	Model       string        // Default: llama3.1
	Temperature float64       // Default: 0.3
	Timeout     time.Duration // Default: 120s
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	base := cfg.BaseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.1"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OllamaProvider{
		http:        resty.New().SetTimeout(timeout).SetHeader("User-Agent", doclai.UserAgent()),
		baseURL:     strings.TrimRight(base, "/"),
		model:       model,
		temperature: temperature,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// Translate translates one numbered map.
func (p *OllamaProvider) Translate(ctx context.Context, req TranslateRequest) (map[string]string, error) {
	if len(req.Items) == 0 {
		return map[string]string{}, nil
	}

	body := ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: buildSystemPrompt(req)},
			{Role: "user", Content: buildUserMessage(req)},
		},
		Format:  "json",
		Options: map[string]any{"temperature": p.temperature},
	}

	var resp ollamaChatResponse
	r, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		SetError(&resp).
		Post(p.baseURL + "/api/chat")
	if err != nil {
		return nil, &doclai.ProviderError{Message: "ollama request failed", Cause: err, Retryable: ctx.Err() == nil}
	}
	if r.IsError() {
		return nil, &doclai.ProviderError{
			Message:   fmt.Sprintf("ollama chat: %s: %s", r.Status(), abbreviate(resp.Error, 500)),
			Retryable: retryableStatus(r.StatusCode()),
		}
	}

	return parseResponse(resp.Message.Content)
}

// Model returns the model name in use.
func (p *OllamaProvider) Model() string {
	return p.model
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

var _ AIProvider = (*OllamaProvider)(nil)
