package doclai

import "testing"

func TestAddress_String(t *testing.T) {
	tests := []struct {
		addr Address
		want string
	}{
		{nil, "$"},
		{Address{KeySegment("title")}, "$.title"},
		{Address{KeySegment("items"), IndexSegment(2), KeySegment("name")}, "$.items[2].name"},
		{Address{IndexSegment(0)}, "$[0]"},
		{Address{KeySegment("with space")}, `$["with space"]`},
		{Address{KeySegment("")}, `$[""]`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddress_Name(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"root", nil, ""},
		{"key", Address{KeySegment("a"), KeySegment("title")}, "title"},
		{"sequence element", Address{KeySegment("tags"), IndexSegment(3)}, "tags"},
		{"nested sequences", Address{KeySegment("grid"), IndexSegment(0), IndexSegment(1)}, "grid"},
		{"top-level sequence", Address{IndexSegment(0)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddress_AppendDoesNotAlias(t *testing.T) {
	base := make(Address, 1, 4)
	base[0] = KeySegment("root")

	a := base.Append(KeySegment("a"))
	b := base.Append(KeySegment("b"))

	if a.String() != "$.root.a" || b.String() != "$.root.b" {
		t.Errorf("appends aliased: %s %s", a, b)
	}
	if len(base) != 1 {
		t.Errorf("receiver modified: %s", base)
	}
}
