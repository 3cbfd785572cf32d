package doclai

import (
	"errors"
	"testing"
)

func TestBind_IdentityRoundTrip(t *testing.T) {
	doc := mustParse(t, `{"a":"x","b":[{"c":"<b>y</b>"},2,null],"id":"k"}`)
	leaves := Extract(doc, DefaultProtectedKeySet(), nil)

	sources := make([]string, len(leaves))
	for i, l := range leaves {
		sources[i] = l.Source
	}

	out, err := Bind(doc, leaves, sources, NoRepair)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if !out.Equal(doc) {
		t.Errorf("binding the sources should reproduce the document, got %s", mustJSON(t, out))
	}
}

func TestBind_WritesTranslations(t *testing.T) {
	doc := mustParse(t, `{"title":"Hello","list":["World"]}`)
	leaves := Extract(doc, nil, nil)

	out, err := Bind(doc, leaves, []string{"Hola", "Mundo"}, nil)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if got := mustJSON(t, out); got != `{"title":"Hola","list":["Mundo"]}` {
		t.Errorf("unexpected %s", got)
	}
	if got := mustJSON(t, doc); got != `{"title":"Hello","list":["World"]}` {
		t.Errorf("source modified: %s", got)
	}
}

func TestBind_CountMismatch(t *testing.T) {
	doc := mustParse(t, `["a","b"]`)
	leaves := Extract(doc, nil, nil)

	_, err := Bind(doc, leaves, []string{"x"}, nil)

	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if mismatch.Expected != 2 || mismatch.Got != 1 {
		t.Errorf("unexpected counts %+v", mismatch)
	}
}

func TestBind_AddressNotString(t *testing.T) {
	doc := mustParse(t, `{"a":1}`)
	leaves := []Leaf{{Address: Address{KeySegment("a")}, Source: "x"}}

	if _, err := Bind(doc, leaves, []string{"y"}, nil); err == nil {
		t.Error("expected error binding over a number")
	}
}

func TestBind_UnresolvedAddress(t *testing.T) {
	doc := mustParse(t, `{"a":"x"}`)
	leaves := []Leaf{{Address: Address{KeySegment("b")}, Source: "x"}}

	_, err := Bind(doc, leaves, []string{"y"}, nil)
	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		t.Errorf("expected AddressError, got %v", err)
	}
}
