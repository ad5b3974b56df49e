package tabast

// ChangedRange maps the old span [FromA,ToA) to the new span [FromB,ToB).
// A positions are in the document before all changes, B positions in the
// document after them, so ToA-ToB is the total shift of everything after
// the change.
type ChangedRange struct {
	FromA int
	ToA   int
	FromB int
	ToB   int
}

// touches reports whether the change invalidates the fragment. Ranges are
// half-open: a change that only meets the fragment at its boundary leaves
// it intact, while an insertion strictly inside it does not.
func (c ChangedRange) touches(f *Fragment) bool {
	return c.FromA < f.To && c.ToA > f.From
}

// ApplyChanges reconciles a sorted fragment list with sorted,
// non-overlapping changes. Fragments between changes are kept and moved by
// the size difference accumulated so far; any fragment a change touches is dropped
// whole and must be parsed again.
func ApplyChanges(fragments []*Fragment, changes []ChangedRange) []*Fragment {
	result := make([]*Fragment, 0, len(fragments))
	off := 0
	ci := 0
	for _, f := range fragments {
		for ci < len(changes) && changes[ci].ToA <= f.From {
			off = changes[ci].ToA - changes[ci].ToB
			ci++
		}
		if ci < len(changes) && changes[ci].touches(f) {
			continue
		}
		result = append(result, f.Offset(-off))
	}
	return result
}

// AddTree merges a freshly parsed tree over older fragments: the tree's
// fragments are taken as they are, followed by the old fragments that start
// at or after the tree's end.
func AddTree(tree *Tree, old []*Fragment) []*Fragment {
	result := make([]*Fragment, 0, len(tree.Fragments)+len(old))
	result = append(result, tree.Fragments...)
	for _, f := range old {
		if f.From >= tree.To && f.To > tree.To {
			result = append(result, f)
		}
	}
	return result
}
