package doclai

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func fastRetry(n int) RetryConfig {
	return RetryConfig{
		MaxRetries: n,
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   100 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		failures  int // calls that fail before the first success
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"first call succeeds", 3, 0, true, 1, false},
		{"recovers after transient failures", 3, 2, true, 3, false},
		{"permanent failure is not retried", 3, 5, false, 1, true},
		{"gives up after max retries", 2, 5, true, 3, true},
		{"zero retries", 0, 1, true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := WithRetry(context.Background(), fastRetry(tt.retries), func() (map[string]string, error) {
				calls++
				if calls <= tt.failures {
					return nil, &ProviderError{Message: "chunk rejected", Retryable: tt.retryable}
				}
				return map[string]string{"0": "Hola"}, nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr {
				var perr *ProviderError
				if !errors.As(err, &perr) {
					t.Fatalf("expected the last ProviderError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got["0"] != "Hola" {
				t.Errorf("unexpected result %v", got)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for attempt, d := range want {
		if got := cfg.delay(attempt); got != d {
			t.Errorf("delay(%d) = %v, want %v", attempt, got, d)
		}
	}
}

func TestRetryConfig_DelayWithoutBase(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, MaxDelay: 30 * time.Second}
	for attempt := 0; attempt < 4; attempt++ {
		if got := cfg.delay(attempt); got != 0 {
			t.Errorf("delay(%d) = %v, want 0 when BaseDelay is unset", attempt, got)
		}
	}
}

type timeoutError struct{ timeout bool }

func (e timeoutError) Error() string   { return "network" }
func (e timeoutError) Timeout() bool   { return e.timeout }
func (e timeoutError) Temporary() bool { return false }

var _ net.Error = timeoutError{}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"wrapped provider error", &TranslationError{Message: "x", Cause: &ProviderError{Retryable: true}}, true},
		{"generic error", errors.New("some error"), false},
		{"missing keys", &MissingKeyError{Keys: []string{"0"}}, false},
		{"network timeout", timeoutError{timeout: true}, true},
		{"network refused", timeoutError{timeout: false}, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"provider wrapping cancel", &ProviderError{Retryable: true, Cause: context.Canceled}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries 3, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay != 1*time.Second {
		t.Errorf("Expected BaseDelay 1s, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("Expected MaxDelay 30s, got %v", cfg.MaxDelay)
	}
}

// failingProvider fails its first failCount calls.
type failingProvider struct {
	failCount int
	callCount int
}

func (p *failingProvider) Translate(ctx context.Context, req TranslateRequest) (map[string]string, error) {
	p.callCount++
	if p.callCount <= p.failCount {
		return nil, &ProviderError{Message: "temporary failure", Retryable: true}
	}
	return map[string]string{"0": "translated"}, nil
}

func TestRetryableProvider(t *testing.T) {
	inner := &failingProvider{failCount: 2}
	provider := NewRetryableProvider(inner, fastRetry(3))

	result, err := provider.Translate(context.Background(), TranslateRequest{
		Items:      map[string]string{"0": "hello"},
		TargetLang: "es_ES",
	})

	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	if result["0"] != "translated" {
		t.Errorf("Unexpected result: %v", result)
	}
	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}
