package doclai

import "testing"

func diffLeaves(t *testing.T, oldDoc, newDoc string) *DiffResult {
	t.Helper()
	keys := DefaultProtectedKeySet()
	return DiffLeaves(Extract(mustParse(t, oldDoc), keys, nil), Extract(mustParse(t, newDoc), keys, nil))
}

func TestDiffLeaves_NoChanges(t *testing.T) {
	doc := `{"title":"Hello","body":"World"}`
	diff := diffLeaves(t, doc, doc)

	if diff.HasChanges() {
		t.Error("Expected no changes for identical content")
	}
	if len(diff.Unchanged) != 2 {
		t.Errorf("Expected 2 unchanged, got %d", len(diff.Unchanged))
	}
	if len(diff.NeedsTranslation()) != 0 {
		t.Error("Nothing should need translation")
	}
}

func TestDiffLeaves_AllNew(t *testing.T) {
	diff := diffLeaves(t, `{}`, `{"title":"Hello","body":"World"}`)

	if len(diff.Added) != 2 {
		t.Errorf("Expected 2 added, got %d", len(diff.Added))
	}
	if len(diff.Removed) != 0 {
		t.Errorf("Expected 0 removed, got %d", len(diff.Removed))
	}
}

func TestDiffLeaves_AllRemoved(t *testing.T) {
	diff := diffLeaves(t, `{"title":"Hello","body":"World"}`, `{}`)

	if len(diff.Added) != 0 {
		t.Errorf("Expected 0 added, got %d", len(diff.Added))
	}
	if len(diff.Removed) != 2 {
		t.Errorf("Expected 2 removed, got %d", len(diff.Removed))
	}
	if !diff.HasChanges() {
		t.Error("Removals are changes")
	}
}

func TestDiffLeaves_Mixed(t *testing.T) {
	diff := diffLeaves(t,
		`{"title":"Hello","body":"World","footer":"Bye"}`,
		`{"title":"Hello","body":"Everyone","extra":"New","items":["x"]}`,
	)

	stats := diff.Stats()
	want := DiffStats{Added: 2, Removed: 1, Unchanged: 1, Modified: 1}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}

	if diff.Modified[0].Old.Source != "World" || diff.Modified[0].New.Source != "Everyone" {
		t.Errorf("Unexpected modification %+v", diff.Modified[0])
	}
	if diff.Removed[0].Address.String() != "$.footer" {
		t.Errorf("Unexpected removal %s", diff.Removed[0].Address)
	}

	needs := diff.NeedsTranslation()
	if len(needs) != 3 {
		t.Fatalf("Expected 3 leaves to translate, got %d", len(needs))
	}
	if needs[0].Source != "New" || needs[1].Source != "x" || needs[2].Source != "Everyone" {
		t.Errorf("Unexpected order: %q %q %q", needs[0].Source, needs[1].Source, needs[2].Source)
	}
}

func TestDiffLeaves_MovedTextIsAddedAndRemoved(t *testing.T) {
	diff := diffLeaves(t, `{"a":"Hello"}`, `{"b":"Hello"}`)

	if len(diff.Added) != 1 || len(diff.Removed) != 1 {
		t.Errorf("Leaves are matched by address, got %+v", diff.Stats())
	}
}

func TestDiffLeaves_ProtectedKeysIgnored(t *testing.T) {
	diff := diffLeaves(t, `{"id":"1","title":"Hi"}`, `{"id":"2","title":"Hi"}`)

	if diff.HasChanges() {
		t.Errorf("Protected values are not leaves, got %+v", diff.Stats())
	}
}
