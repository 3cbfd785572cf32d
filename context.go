package doclai

import "strings"

// contextRules are checked in order; the first substring hit wins.
var contextRules = []struct {
	tag   ContextTag
	words []string
}{
	{ContextTitle, []string{"title", "heading", "headline", "label", "name"}},
	{ContextSubject, []string{"subject"}},
	{ContextDescription, []string{"description", "desc", "summary", "caption"}},
	{ContextExplanation, []string{"explanation", "hint", "feedback", "rationale", "tooltip"}},
	{ContextMessage, []string{"message", "msg", "reply", "comment"}},
	{ContextContent, []string{"content", "body", "html", "paragraph"}},
}

// ClassifyContext derives a ContextTag from a leaf name such as "pageTitle"
// or "email_body". Unknown names are plain text.
func ClassifyContext(name string) ContextTag {
	lower := strings.ToLower(name)
	if lower == "" {
		return ContextText
	}
	for _, rule := range contextRules {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.tag
			}
		}
	}
	return ContextText
}
