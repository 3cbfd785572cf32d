package doclai

import "testing"

func TestProtectedKeySet_Defaults(t *testing.T) {
	s := DefaultProtectedKeySet()

	tests := map[string]bool{
		"id":           true,
		"ID":           true,
		"url":          true,
		"src":          true,
		"iconName":     true,
		"scene_type":   true,
		"profile_url":  true,
		"user_id":      true,
		"contactEmail": true,
		"title":        false,
		"description":  false,
		"":             false,

		"senderEmail":          true,
		"reply_email":          true,
		"image_url":            true,
		"url_path":             true,
		"sender_email_address": true,
		"category_type":        true,
		"email_subject":        false,
		"emailBody":            false,
		"email_body":           false,
		"user_idea":            false,
		"identity_title":       false,
		"iconography_caption":  false,
	}
	for name, want := range tests {
		if got := s.Match(name); got != want {
			t.Errorf("Match(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestProtectedKeySet_Add(t *testing.T) {
	s := NewProtectedKeySet(nil, nil)
	if s.Match("sku") {
		t.Fatal("empty set should match nothing")
	}

	s.Add(" SKU ", "")
	s.AddSubstrings("code")
	s.AddSuffixes("_ref")

	if !s.Match("sku") {
		t.Error("expected sku to match")
	}
	if !s.Match("promoCode") {
		t.Error("expected substring match on promoCode")
	}
	if !s.Match("order_ref") || s.Match("ref_note") {
		t.Error("suffix should only match at the end of the name")
	}
}

func TestProtectedKeySet_ZeroValue(t *testing.T) {
	var s ProtectedKeySet
	if s.Match("id") {
		t.Error("zero value should protect nothing")
	}
	s.Add("id")
	if !s.Match("id") {
		t.Error("Add on zero value should work")
	}

	var nilSet *ProtectedKeySet
	if nilSet.Match("id") {
		t.Error("nil set should protect nothing")
	}
}

func TestDefaultProtectedKeySet_Fresh(t *testing.T) {
	a := DefaultProtectedKeySet()
	a.Add("custom")
	if DefaultProtectedKeySet().Match("custom") {
		t.Error("default sets must not share state")
	}
}
