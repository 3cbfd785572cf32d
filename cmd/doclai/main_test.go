package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "doclai") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingLang(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	input := writeFile(t, "en.json", `{"title": "Hello"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", input}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "API key required") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestRun_UnknownFormat(t *testing.T) {
	input := writeFile(t, "page.html", `<p>Hello</p>`)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--lang", "es_ES", "--provider", "mock", input}, &stdout, &stderr); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestRun_MockJSON(t *testing.T) {
	input := writeFile(t, "en.json", `{"id": "home", "title": "Hello", "body": "Welcome to our site."}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--provider", "mock", "--quiet", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}

	want := "{\n  \"id\": \"home\",\n  \"title\": \"Hola\",\n  \"body\": \"Bienvenido a nuestro sitio.\"\n}\n"
	if stdout.String() != want {
		t.Errorf("output = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("--quiet should keep stderr empty, got %q", stderr.String())
	}
}

func TestRun_MockYAMLToFile(t *testing.T) {
	input := writeFile(t, "en.yaml", "title: Hello\nicon: star\n")
	output := filepath.Join(t.TempDir(), "es.yaml")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--provider", "mock", "-o", output, input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "title: Hola\nicon: star\n" {
		t.Errorf("output file = %q", data)
	}
	if !strings.Contains(stderr.String(), "Translating en.yaml to es_ES") {
		t.Errorf("expected progress on stderr, got %q", stderr.String())
	}
}

func TestRun_JSONResult(t *testing.T) {
	input := writeFile(t, "en.json", `{"title": "Hello", "cta": "Go to {url}"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "fr_FR", "--provider", "mock", "--json", "--quiet", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Success     bool            `json:"success"`
		Data        json.RawMessage `json:"data"`
		TotalLeaves int             `json:"total_leaves"`
		Summary     string          `json:"summary"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
	}
	if !out.Success || out.TotalLeaves != 2 || out.Summary != "completed" {
		t.Errorf("unexpected result: %+v", out)
	}
	if !strings.Contains(string(out.Data), `"Hola"`) {
		t.Errorf("data = %s", out.Data)
	}
}

func TestRun_SameLanguageUnchanged(t *testing.T) {
	input := writeFile(t, "en.json", `{"title":"Hello"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "en_GB", "--provider", "mock", "--quiet", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), `"Hello"`) {
		t.Errorf("same-language run should keep the text, got %s", stdout.String())
	}
}

func TestRun_DryRun(t *testing.T) {
	input := writeFile(t, "en.json", `{"id":"x","title":"Hello","items":[{"label":"World","url":"https://a.example"}]}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--dry-run", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Found 2 translatable strings") {
		t.Errorf("expected 2 strings, got:\n%s", out)
	}
	if !strings.Contains(out, "$.items[0].label") {
		t.Errorf("expected addresses in output, got:\n%s", out)
	}
	if strings.Contains(out, "https://a.example") {
		t.Errorf("protected url should not be listed:\n%s", out)
	}
}

func TestRun_DryRunJSONWithProtect(t *testing.T) {
	input := writeFile(t, "en.json", `{"title":"Hello","sku":"AB-1"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--dry-run", "--json", "--protect", "sku", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		LeafCount int `json:"leaf_count"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.LeafCount != 1 {
		t.Errorf("leaf_count = %d, want 1", out.LeafCount)
	}
}

func TestRun_Diff(t *testing.T) {
	prev := writeFile(t, "old.json", `{"title":"Hello","body":"Old text","gone":"Bye"}`)
	input := writeFile(t, "new.json", `{"title":"Hello","body":"New text","extra":"Added"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--diff", prev, input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Unchanged: 1", "Added:     1", "Removed:   1", "Modified:  1", "Needs translation: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_CacheFileRoundTrip(t *testing.T) {
	input := writeFile(t, "en.json", `{"title":"Hello"}`)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	args := []string{"--lang", "es_ES", "--provider", "mock", "--quiet", "--cache-file", cacheFile, input}

	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("first run: %v", err)
	}
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if !strings.Contains(string(data), "Hola") {
		t.Errorf("cache file = %s", data)
	}

	stdout.Reset()
	if err := run(append(args, "--json"), &stdout, &stderr); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var out struct {
		CachedCount int `json:"cached_count"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.CachedCount != 1 {
		t.Errorf("cached_count = %d, want 1", out.CachedCount)
	}
}

func TestRun_SQLiteCache(t *testing.T) {
	input := writeFile(t, "en.json", `{"title":"Hello"}`)
	db := filepath.Join(t.TempDir(), "cache.db")
	args := []string{"--lang", "es_ES", "--provider", "mock", "--quiet", "--json", "--cache-db", db, input}

	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("cache database not created: %v", err)
	}

	stdout.Reset()
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var out struct {
		CachedCount int `json:"cached_count"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.CachedCount != 1 {
		t.Errorf("cached_count = %d, want 1", out.CachedCount)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "doclai.yaml", "protected_keys: [sku]\nprovider:\n  name: mock\n  max_retries: 0\n")
	input := writeFile(t, "en.json", `{"title":"Hello","sku":"Hello"}`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--config", cfg, "--quiet", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), `"sku": "Hello"`) || !strings.Contains(stdout.String(), `"title": "Hola"`) {
		t.Errorf("output = %s", stdout.String())
	}
}
