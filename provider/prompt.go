package provider

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ZaguanLabs/doclai"
)

func buildSystemPrompt(req TranslateRequest) string {
	targetName := doclai.GetLanguageName(req.TargetLang)
	sourceName := "English"
	if req.SourceLang != "" {
		sourceName = doclai.GetLanguageName(req.SourceLang)
	}

	topicText := "The strings come from a structured document such as an app's UI texts or content records."
	if req.Topic != "" {
		topicText = fmt.Sprintf("The strings come from a document about: %s. Adapt the tone to be appropriate for this topic.", req.Topic)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are an expert native translator. You translate content from %s to %s with the fluency and nuance of a highly educated native speaker.

# Context
%s

# Register
%s

# Task
You receive a JSON object whose values are texts to translate. Translate every value into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase sentences to sound completely natural to a native speaker.
- **Idioms**: Never translate idioms literally. Replace them with natural %s equivalents.
- **Markup Tokens**: Tokens like __TAG0__ stand for HTML tags. Keep every token exactly once, in a sensible position.
- **Interpolation**: Do NOT translate placeholders (e.g., {{name}}, {count}, {0}, %%s). Keep ICU keywords like plural, select, one, other untouched; translate only the text inside the branches.
- **Identifiers**: Do NOT translate URLs or email addresses.
- **Formatting**: Preserve meaningful whitespace (leading/trailing spaces, newlines). Use idiomatic punctuation for the target language.`,
		sourceName, targetName, topicText, doclai.GetStyleDescription(req.Style), targetName, targetName)

	if hint := doclai.GetLocaleClarification(req.TargetLang); hint != "" {
		fmt.Fprintf(&b, "\n- **Locale**: %s", hint)
	}

	if len(req.Glossary) > 0 {
		b.WriteString("\n\n# Glossary\nWhen you encounter these phrases, prefer these translations (unless context demands otherwise):")
		for _, source := range sortedKeys(req.Glossary) {
			fmt.Fprintf(&b, "\n- %q → %s", source, req.Glossary[source])
		}
	}

	if lines := contextLines(req); len(lines) > 0 {
		b.WriteString("\n\n# Key Hints\nWhat kind of text each key holds:")
		for _, l := range lines {
			b.WriteString("\n- ")
			b.WriteString(l)
		}
	}

	if len(req.ExcludedTerms) > 0 {
		fmt.Fprintf(&b, "\n\n# Exclusions\nDo NOT translate the following terms. Keep them exactly as they appear in the source:\n- %s",
			strings.Join(req.ExcludedTerms, "\n- "))
	}

	b.WriteString(`

# Format
Return a valid JSON object with exactly the same keys as the input, each mapped to its translated string.
Example: input {"0": "Hello", "1": "Save"} → output {"0": "Hola", "1": "Guardar"}
- Do NOT wrap in Markdown code blocks.
- Do NOT add, drop or rename keys.`)

	if req.RepairHint != "" {
		fmt.Fprintf(&b, "\n\n# Correction\n%s", req.RepairHint)
	}

	return b.String()
}

// contextLines lists the non-generic context tag of each key in key order.
func contextLines(req TranslateRequest) []string {
	var lines []string
	for _, key := range numericKeys(req.Contexts) {
		tag := req.Contexts[key]
		if tag == "" || tag == doclai.ContextText {
			continue
		}
		lines = append(lines, fmt.Sprintf("%q: %s", key, tag))
	}
	return lines
}

func buildUserMessage(req TranslateRequest) string {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(req.Items)
	return strings.TrimRight(buf.String(), "\n")
}

// parseResponse decodes a model answer into a numbered map. It tolerates
// Markdown fences, text around the object and a wrapping "translations" key.
func parseResponse(content string) (map[string]string, error) {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := strings.TrimPrefix(s[i+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, &doclai.ProviderError{Message: "invalid response format", Cause: err}
	}
	if inner, ok := obj["translations"].(map[string]any); ok && len(obj) == 1 {
		obj = inner
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func numericKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}
