package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a deterministic provider for tests and dry runs. It is
// safe for concurrent use by the engine's chunk workers.
type MockProvider struct {
	// Translations maps source text to translation. Unknown texts become
	// Transform(text), or "[text]" when Transform is nil.
	Translations map[string]string
	Transform    func(string) string

	// FailWhen, when set, is consulted before answering; a non-nil error is
	// returned as the call's result.
	FailWhen func(call int, req TranslateRequest) error

	// DropKeys lists keys left out of every answer.
	DropKeys []string

	mu       sync.Mutex
	requests []TranslateRequest
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                "Hola",
			"World":                "Mundo",
			"Hello World":          "Hola Mundo",
			"Welcome to our site.": "Bienvenido a nuestro sitio.",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) (map[string]string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	call := len(m.requests)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailWhen != nil {
		if err := m.FailWhen(call, req); err != nil {
			return nil, err
		}
	}

	drop := make(map[string]bool, len(m.DropKeys))
	for _, k := range m.DropKeys {
		drop[k] = true
	}

	out := make(map[string]string, len(req.Items))
	for key, text := range req.Items {
		if drop[key] {
			continue
		}
		out[key] = m.translate(text)
	}
	return out, nil
}

func (m *MockProvider) translate(text string) string {
	if t, ok := m.Translations[text]; ok {
		return t
	}
	if m.Transform != nil {
		return m.Transform(text)
	}
	return fmt.Sprintf("[%s]", text)
}

// CallCount returns how many times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockProvider) Requests() []TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranslateRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	req := m.requests[len(m.requests)-1]
	return &req
}

// Reset forgets all recorded requests.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

var _ AIProvider = (*MockProvider)(nil)
