package doclai

import (
	"regexp"
	"strconv"
	"strings"
)

// MarkupRepairer balances HTML-like markup on a best-effort basis.
// Implementations must be idempotent and must not fail.
type MarkupRepairer interface {
	Repair(html string) string
}

// RepairFunc adapts a function to MarkupRepairer.
type RepairFunc func(string) string

// Repair calls f(html).
func (f RepairFunc) Repair(html string) string { return f(html) }

// NoRepair leaves markup untouched.
var NoRepair MarkupRepairer = RepairFunc(func(s string) string { return s })

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	tokenPattern = regexp.MustCompile(`__TAG\d+__`)
)

// HasMarkup reports whether s looks like it carries markup.
func HasMarkup(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

// MarkupToken returns the placeholder standing in for tag n.
func MarkupToken(n int) string {
	return "__TAG" + strconv.Itoa(n) + "__"
}

// ProtectMarkup replaces every <...> span of s, left to right, with a unique
// token and returns the tokenized text with the map needed to reverse it.
// The map is nil when s holds no tags.
func ProtectMarkup(s string) (string, MarkupMap) {
	var m MarkupMap
	n := 0
	out := tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		if m == nil {
			m = make(MarkupMap)
		}
		m[n] = tag
		tok := MarkupToken(n)
		n++
		return tok
	})
	return out, m
}

// RestoreMarkup puts the tags recorded in m back in place of their tokens and
// runs the repairer over the result. Tokens absent from s are skipped; the
// validator reports them as IssueMarkupTokenMissing.
func RestoreMarkup(s string, m MarkupMap, r MarkupRepairer) string {
	if len(m) == 0 {
		return s
	}
	for n, tag := range m {
		s = strings.ReplaceAll(s, MarkupToken(n), tag)
	}
	if r == nil {
		return s
	}
	return r.Repair(s)
}

// onlyMarkupTokens reports whether s, once trimmed, is made of markup tokens
// and whitespace alone.
func onlyMarkupTokens(s string) bool {
	rest := strings.TrimSpace(tokenPattern.ReplaceAllString(s, ""))
	return rest == "" && tokenPattern.MatchString(s)
}
