package doclai

import (
	"regexp"
	"strings"
)

// Check compares one structural property of a source string with its
// translation. Checks are pure; locale-specific variants can be swapped in
// through NewValidator.
type Check interface {
	Kind() IssueKind
	Holds(source, translated string) bool
}

var (
	simplePlaceholderPattern = regexp.MustCompile(`\{\{\s*[A-Za-z_][\w.]*\s*\}\}|\{[A-Za-z_][\w.]*\}|\{\d+\}|%(?:\d+\$)?[sdif]`)
	singlePlaceholderPattern = regexp.MustCompile(`^(?:` + simplePlaceholderPattern.String() + `)$`)
	icuHeadPattern           = regexp.MustCompile(`\{\s*([A-Za-z_]\w*)\s*,\s*(plural|selectordinal|select)\s*,`)
	urlPattern               = regexp.MustCompile(`(?i)https?://[^\s<>"'(){}\[\]]+`)
	emailPattern             = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
)

// PatternCheck compares the matches of a regular expression in both strings.
type PatternCheck struct {
	kind    IssueKind
	pattern *regexp.Regexp
	ordered bool // compare as sequences rather than sets
	counted bool // compare as multisets, so duplicates count
	fold    bool // compare case-insensitively
	trim    string
}

// NewPatternCheck returns a check comparing matches of pattern. When ordered
// is false matches are compared as sets; fold lowercases them first.
func NewPatternCheck(kind IssueKind, pattern *regexp.Regexp, ordered, fold bool) *PatternCheck {
	return &PatternCheck{kind: kind, pattern: pattern, ordered: ordered, fold: fold}
}

// URLCheck requires the same set of http(s) links, ignoring case.
func URLCheck() *PatternCheck {
	c := NewPatternCheck(IssueURLMismatch, urlPattern, false, true)
	c.trim = ".,;:!?"
	return c
}

// EmailCheck requires the same set of email addresses, ignoring case.
func EmailCheck() *PatternCheck {
	return NewPatternCheck(IssueEmailMismatch, emailPattern, false, true)
}

// MarkupTokenCheck requires every protected-markup token to survive exactly
// once per occurrence in the source. Tokens may move.
func MarkupTokenCheck() *PatternCheck {
	c := NewPatternCheck(IssueMarkupTokenMissing, tokenPattern, false, false)
	c.counted = true
	return c
}

func (c *PatternCheck) Kind() IssueKind { return c.kind }

func (c *PatternCheck) Holds(source, translated string) bool {
	a, b := c.find(source), c.find(translated)
	switch {
	case c.ordered:
		return equalSequences(a, b)
	case c.counted:
		return equalMultisets(a, b)
	}
	return equalSets(a, b)
}

func (c *PatternCheck) find(s string) []string {
	matches := c.pattern.FindAllString(s, -1)
	for i, m := range matches {
		if c.trim != "" {
			m = strings.TrimRight(m, c.trim)
		}
		if c.fold {
			m = strings.ToLower(m)
		}
		matches[i] = m
	}
	return matches
}

// PlaceholderCheck requires matching placeholders. ICU plural/select blocks
// compare as a set of "name,type" heads; simple placeholders (%s, %d, {name},
// {{name}}, {0}) outside those blocks must appear in the same order.
type PlaceholderCheck struct{}

func (PlaceholderCheck) Kind() IssueKind { return IssuePlaceholderMismatch }

func (PlaceholderCheck) Holds(source, translated string) bool {
	srcICU, srcRest := splitICU(source)
	dstICU, dstRest := splitICU(translated)
	if !equalSets(srcICU, dstICU) {
		return false
	}
	return equalSequences(
		simplePlaceholderPattern.FindAllString(srcRest, -1),
		simplePlaceholderPattern.FindAllString(dstRest, -1),
	)
}

// Placeholders lists the simple placeholders of s in order, ignoring the
// insides of ICU blocks.
func Placeholders(s string) []string {
	_, rest := splitICU(s)
	return simplePlaceholderPattern.FindAllString(rest, -1)
}

// splitICU returns the heads of top-level ICU blocks in s and s with those
// blocks cut out. An unterminated block runs to the end of s.
func splitICU(s string) (heads []string, rest string) {
	var b strings.Builder
	cursor := 0
	for _, loc := range icuHeadPattern.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] < cursor {
			continue
		}
		heads = append(heads, s[loc[2]:loc[3]]+","+s[loc[4]:loc[5]])
		b.WriteString(s[cursor:loc[0]])
		cursor = closingBrace(s, loc[0]) + 1
	}
	if cursor < len(s) {
		b.WriteString(s[cursor:])
	}
	return heads, b.String()
}

// closingBrace returns the index of the brace closing the one at open,
// or len(s)-1 when it is never closed.
func closingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

func equalSequences(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalSets(a, b []string) bool {
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		if !setA[s] {
			return false
		}
		setB[s] = true
	}
	return len(setA) == len(setB)
}

func equalMultisets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		if counts[s] == 0 {
			return false
		}
		counts[s]--
	}
	return true
}

// Validator runs a fixed list of checks over translated leaves.
type Validator struct {
	checks []Check
}

// NewValidator returns a validator running checks in order.
func NewValidator(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// DefaultValidator checks placeholders, URLs, emails and markup tokens.
func DefaultValidator() *Validator {
	return NewValidator(PlaceholderCheck{}, URLCheck(), EmailCheck(), MarkupTokenCheck())
}

// Validate returns the kind of every check that does not hold.
func (v *Validator) Validate(source, translated string) []IssueKind {
	if v == nil {
		return nil
	}
	var kinds []IssueKind
	for _, c := range v.checks {
		if !c.Holds(source, translated) {
			kinds = append(kinds, c.Kind())
		}
	}
	return kinds
}

// isTrivial reports whether s needs no translation: blank, a lone
// placeholder, or nothing but markup tokens.
func isTrivial(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	return singlePlaceholderPattern.MatchString(trimmed) || onlyMarkupTokens(trimmed)
}

// fixEdgeWhitespace re-wraps the trimmed translation in the source's exact
// leading and trailing whitespace when the translator changed either edge.
func fixEdgeWhitespace(source, translated string) (string, bool) {
	srcLead, srcTrail := edges(source)
	dstLead, dstTrail := edges(translated)
	if len(srcLead) == len(dstLead) && len(srcTrail) == len(dstTrail) {
		return translated, false
	}
	return srcLead + strings.TrimSpace(translated) + srcTrail, true
}

func edges(s string) (lead, trail string) {
	body := strings.TrimSpace(s)
	if body == "" {
		return s, ""
	}
	i := strings.Index(s, body)
	return s[:i], s[i+len(body):]
}
