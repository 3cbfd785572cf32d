package doclai

import (
	"strconv"
	"strings"
)

// Segment is one step of an Address: a mapping key or a sequence index.
type Segment struct {
	Key   string
	Index int // -1 for key segments
}

// KeySegment returns a segment selecting a mapping member.
func KeySegment(key string) Segment { return Segment{Key: key, Index: -1} }

// IndexSegment returns a segment selecting a sequence element.
func IndexSegment(i int) Segment { return Segment{Index: i} }

// IsIndex reports whether s selects a sequence element.
func (s Segment) IsIndex() bool { return s.Index >= 0 }

// Address locates a node inside a document tree, from the root down.
type Address []Segment

// Append returns a new address extending a by seg. The receiver is not modified.
func (a Address) Append(seg Segment) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, seg)
}

// Name returns the nearest mapping key on the path, scanning from the leaf
// upward. Elements of a sequence are named after the key holding the sequence.
// The root and top-level sequence elements have no name.
func (a Address) Name() string {
	for i := len(a) - 1; i >= 0; i-- {
		if !a[i].IsIndex() {
			return a[i].Key
		}
	}
	return ""
}

// String renders the address as $.key[0].other.
func (a Address) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range a {
		if seg.IsIndex() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if isPlainKey(seg.Key) {
			b.WriteByte('.')
			b.WriteString(seg.Key)
		} else {
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg.Key))
			b.WriteString("]")
		}
	}
	return b.String()
}

func isPlainKey(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
