package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZaguanLabs/doclai"
)

func TestOllamaProvider_Translate(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: `{"0": "Bonjour"}`},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL + "/", Model: "mistral"})
	resp, err := p.Translate(context.Background(), TranslateRequest{
		Items:      map[string]string{"0": "Hello"},
		TargetLang: "fr_FR",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if resp["0"] != "Bonjour" {
		t.Errorf("Translate = %v", resp)
	}

	if got.Model != "mistral" || got.Format != "json" || got.Stream {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != `{"0":"Hello"}` {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestOllamaProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": "model is loading"}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL})
	_, err := p.Translate(context.Background(), TranslateRequest{Items: map[string]string{"0": "Hello"}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !doclai.IsRetryable(err) {
		t.Errorf("503 should be retryable: %v", err)
	}
}

func TestOllamaProvider_Defaults(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{})
	if p.Model() != "llama3.1" || p.baseURL != "http://localhost:11434" {
		t.Errorf("defaults = %s at %s", p.Model(), p.baseURL)
	}
}
