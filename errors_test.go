package doclai

import (
	"errors"
	"strings"
	"testing"
)

func TestTranslationError(t *testing.T) {
	cause := errors.New("underlying error")
	err := &TranslationError{Message: "translation failed", Cause: cause}

	if err.Error() != "translation failed: underlying error" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}

	err2 := &TranslationError{Message: "simple error"}
	if err2.Error() != "simple error" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Message: "rate limited", Retryable: true}

	if err.Error() != "provider error: rate limited" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !err.Retryable {
		t.Error("error should be retryable")
	}

	cause := errors.New("503")
	wrapped := &ProviderError{Message: "upstream", Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("ProviderError should unwrap to its cause")
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", ContentType: "yaml"}

	if err.Error() != "processor error (yaml): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestCountMismatchError(t *testing.T) {
	err := &CountMismatchError{Expected: 5, Got: 3}

	expected := "translation count mismatch: expected 5, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}
}

func TestMissingKeyError(t *testing.T) {
	err := &MissingKeyError{Keys: []string{"3", "1"}}

	if err.Error() != "response missing 2 key(s): 1, 3" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if err.Keys[0] != "3" {
		t.Error("Error() must not reorder the caller's keys")
	}
}

func TestAddressError(t *testing.T) {
	err := &AddressError{Address: Address{KeySegment("a"), IndexSegment(2)}, Depth: 1}

	if !strings.Contains(err.Error(), "$.a[2]") || !strings.Contains(err.Error(), "segment 1") {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestRepairHint(t *testing.T) {
	hint := repairHint(&MissingKeyError{Keys: []string{"10", "2"}})
	if !strings.Contains(hint, "2, 10") {
		t.Errorf("keys should be listed numerically, got %q", hint)
	}

	hint = repairHint(errors.New("invalid JSON"))
	if !strings.Contains(hint, "invalid JSON") {
		t.Errorf("hint should describe the failure, got %q", hint)
	}
}
