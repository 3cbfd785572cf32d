package doclai

// Extract walks doc depth-first and returns its translatable leaves in
// document order: sequences by index, mappings in key order.
//
// A leaf is any string whose name (see Address.Name) is not protected.
// Strings carrying markup are repaired, then tokenized with ProtectMarkup.
// Extract does not judge whether a string is worth translating.
func Extract(doc Value, keys *ProtectedKeySet, repairer MarkupRepairer) []Leaf {
	x := extractor{keys: keys, repairer: repairer}
	x.visit(doc, nil)
	return x.leaves
}

type extractor struct {
	keys     *ProtectedKeySet
	repairer MarkupRepairer
	leaves   []Leaf
}

func (x *extractor) visit(v Value, addr Address) {
	switch v.Kind() {
	case KindString:
		x.leaf(v.text, addr)
	case KindSequence:
		for i, item := range v.items {
			x.visit(item, addr.Append(IndexSegment(i)))
		}
	case KindMapping:
		for _, m := range v.members {
			x.visit(m.Value, addr.Append(KeySegment(m.Key)))
		}
	case KindNull, KindBool, KindNumber:
	}
}

func (x *extractor) leaf(s string, addr Address) {
	name := addr.Name()
	if x.keys.Match(name) {
		return
	}
	leaf := Leaf{
		Address: addr,
		Source:  s,
		Context: ClassifyContext(name),
	}
	if HasMarkup(s) {
		if x.repairer != nil {
			s = x.repairer.Repair(s)
		}
		leaf.Source, leaf.Markup = ProtectMarkup(s)
	}
	x.leaves = append(x.leaves, leaf)
}
