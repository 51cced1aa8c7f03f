// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

// Minimal returns the smallest tree that contains
// all the indicated target taxa
// (by identifier or label)
// and preserves the most recent common ancestor relationships
// between every pair of targets found in the source tree.
//
// Internal nodes that are not required
// to preserve the branching between targets
// are removed,
// merging the lengths of the adjacent branches.
// The source tree is not modified.
//
// It also returns the targets that were not found;
// if no target is found,
// the resulting tree is nil.
func Minimal(n *Node, targets []string) (*Node, []string) {
	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	found := make(map[string]bool, len(targets))

	res := make(map[*Node]*Node)
	for _, c := range PostOrder(n) {
		var kept []*Node
		for _, d := range c.Children {
			if r := res[d]; r != nil {
				kept = append(kept, r)
			}
		}

		isTarget := false
		if c.ID != "" && want[c.ID] {
			isTarget = true
			found[c.ID] = true
		}
		if c.Label != "" && want[c.Label] {
			isTarget = true
			found[c.Label] = true
		}

		switch {
		case isTarget || len(kept) > 1:
			nc := shallowCopy(c)
			nc.Children = kept
			res[c] = nc
		case len(kept) == 1:
			// an unneeded unifurcation:
			// the kept child bubbles up
			// taking the length of the removed branch
			r := kept[0]
			if c.HasLength {
				r.Length += c.Length
				r.HasLength = true
			}
			res[c] = r
		}
	}

	var missing []string
	for _, t := range targets {
		if !found[t] {
			missing = append(missing, t)
		}
	}
	return res[n], missing
}
