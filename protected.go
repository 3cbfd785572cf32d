package doclai

import "strings"

// DefaultProtectedKeys are leaf names matched exactly (case-insensitively)
// whose values are identifiers, links or enum-like tags and never translated.
var DefaultProtectedKeys = []string{
	"id", "uuid", "key", "slug", "ref",
	"url", "href", "src", "link", "path",
	"icon", "iconName", "image", "avatar", "color",
	"type", "kind", "scene_type", "status", "variant",
	"email", "from", "to", "cc", "bcc", "sender", "senderEmail", "recipient",
	"locale", "lang", "language", "timezone", "date", "timestamp",
}

// DefaultProtectedSubstrings protect any leaf whose name contains one of them.
var DefaultProtectedSubstrings = []string{
	"url_", "uuid_", "email_address", "emailaddress",
}

// DefaultProtectedSuffixes protect any leaf whose name ends with one of them,
// so "profile_url" and "contactEmail" are protected but "email_subject" is not.
var DefaultProtectedSuffixes = []string{
	"_id", "uuid", "url", "_href", "email", "icon", "_type",
}

// ProtectedKeySet decides which leaf names bypass translation.
// The zero value protects nothing.
type ProtectedKeySet struct {
	exact      map[string]bool
	substrings []string
	suffixes   []string
}

// NewProtectedKeySet builds a set from exact names and name substrings.
// Matching is case-insensitive for both.
func NewProtectedKeySet(exact, substrings []string) *ProtectedKeySet {
	s := &ProtectedKeySet{exact: make(map[string]bool, len(exact))}
	s.Add(exact...)
	s.AddSubstrings(substrings...)
	return s
}

// DefaultProtectedKeySet returns a fresh set holding the default names.
func DefaultProtectedKeySet() *ProtectedKeySet {
	s := NewProtectedKeySet(DefaultProtectedKeys, DefaultProtectedSubstrings)
	s.AddSuffixes(DefaultProtectedSuffixes...)
	return s
}

// Add protects additional exact names.
func (s *ProtectedKeySet) Add(names ...string) {
	if s.exact == nil {
		s.exact = make(map[string]bool, len(names))
	}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			s.exact[n] = true
		}
	}
}

// AddSubstrings protects every name containing one of subs.
func (s *ProtectedKeySet) AddSubstrings(subs ...string) {
	for _, sub := range subs {
		sub = strings.ToLower(strings.TrimSpace(sub))
		if sub != "" {
			s.substrings = append(s.substrings, sub)
		}
	}
}

// AddSuffixes protects every name ending with one of sufs.
func (s *ProtectedKeySet) AddSuffixes(sufs ...string) {
	for _, suf := range sufs {
		suf = strings.ToLower(strings.TrimSpace(suf))
		if suf != "" {
			s.suffixes = append(s.suffixes, suf)
		}
	}
}

// Match reports whether name is protected.
func (s *ProtectedKeySet) Match(name string) bool {
	if s == nil || name == "" {
		return false
	}
	lower := strings.ToLower(name)
	if s.exact[lower] {
		return true
	}
	for _, sub := range s.substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	for _, suf := range s.suffixes {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	return false
}
