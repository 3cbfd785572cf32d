package doclai

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"es_ES", "Spanish (Spain)"},
		{"ja-JP", "Japanese (Japan)"},
		{"en", "English (United States)"}, // short code expansion
		{"EN", "English (United States)"},
		{"unknown", "unknown"}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			result := GetLanguageName(tt.code)
			if result != tt.expected {
				t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, result, tt.expected)
			}
		})
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"es-ES", "es_ES"},
		{"en-US", "en_US"},
		{"es_ES", "es_ES"}, // already normalized
		{" fr ", "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeLocale(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLocale(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"en_US": "en",
		"PT-br": "pt",
		"de":    "de",
		"":      "",
	}
	for in, want := range tests {
		if got := BaseLanguage(in); got != want {
			t.Errorf("BaseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameLanguage(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"en", "en_GB", true},
		{"es-ES", "ES", true},
		{"pt_br", "pt-BR", true},
		{"en", "es", false},
		{"zh_CN", "zh_TW", false},
		{"pt_BR", "pt_PT", false},
		{"en_US", "en_GB", false},
	}
	for _, tt := range tests {
		if got := SameLanguage(tt.a, tt.b); got != tt.want {
			t.Errorf("SameLanguage(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGetLocaleClarification(t *testing.T) {
	if got := GetLocaleClarification("pt-BR"); got == "" {
		t.Error("expected guidance for pt_BR")
	}
	if got := GetLocaleClarification("de_DE"); got != "" {
		t.Errorf("expected no guidance for de_DE, got %q", got)
	}
}
