package doclai

import "fmt"

// Bind writes translated[i] back to the address of leaves[i] in a deep copy
// of doc, restoring protected markup first. doc is left untouched and the
// copy keeps its shape; only string leaves change.
//
// translated must line up one to one with leaves; anything else is a
// CountMismatchError.
func Bind(doc Value, leaves []Leaf, translated []string, repairer MarkupRepairer) (Value, error) {
	if len(leaves) != len(translated) {
		return Value{}, &CountMismatchError{Expected: len(leaves), Got: len(translated)}
	}

	out := doc.Clone()
	for i, leaf := range leaves {
		text := translated[i]
		if leaf.Markup != nil {
			text = RestoreMarkup(text, leaf.Markup, repairer)
		}

		target, err := out.At(leaf.Address)
		if err != nil {
			return Value{}, err
		}
		if target.kind != KindString {
			return Value{}, fmt.Errorf("address %s holds a %s, not a string", leaf.Address, target.kind)
		}
		target.text = text
	}
	return out, nil
}
