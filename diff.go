package doclai

// DiffResult represents the difference between the leaves of two document
// versions. Leaves are matched by address.
type DiffResult struct {
	// Added contains leaves whose address is new.
	Added []Leaf

	// Removed contains leaves whose address no longer exists.
	Removed []Leaf

	// Unchanged contains leaves with the same address and source text.
	Unchanged []Leaf

	// Modified contains leaves whose address survived but whose text changed.
	Modified []ModifiedLeaf
}

// ModifiedLeaf pairs the two versions of a leaf at one address.
type ModifiedLeaf struct {
	Old Leaf
	New Leaf
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the new-version leaves that have to be sent to a
// provider, in document order of the new version.
func (d *DiffResult) NeedsTranslation() []Leaf {
	result := make([]Leaf, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffLeaves compares the leaves extracted from two versions of a document.
// Added, Unchanged and Modified follow the order of newLeaves; Removed follows
// the order of oldLeaves.
func DiffLeaves(oldLeaves, newLeaves []Leaf) *DiffResult {
	result := &DiffResult{}

	oldByAddr := make(map[string]Leaf, len(oldLeaves))
	for _, leaf := range oldLeaves {
		oldByAddr[leaf.Address.String()] = leaf
	}
	seen := make(map[string]bool, len(newLeaves))

	for _, leaf := range newLeaves {
		addr := leaf.Address.String()
		seen[addr] = true
		prev, ok := oldByAddr[addr]
		switch {
		case !ok:
			result.Added = append(result.Added, leaf)
		case prev.Source == leaf.Source:
			result.Unchanged = append(result.Unchanged, leaf)
		default:
			result.Modified = append(result.Modified, ModifiedLeaf{Old: prev, New: leaf})
		}
	}

	for _, leaf := range oldLeaves {
		if !seen[leaf.Address.String()] {
			result.Removed = append(result.Removed, leaf)
		}
	}

	return result
}
