// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package graft implements the assembly of a skeleton tree,
// replacing its placeholder nodes
// with subtrees taken from a reference taxonomy tree.
package graft

import (
	"fmt"

	"github.com/js-arias/lifetree/tree"
)

// An Index is a lookup table
// from taxon identifiers
// to the nodes of a reference tree.
//
// The reference tree is never modified:
// any retrieval produces a deep copy.
type Index struct {
	root  *tree.Node
	nodes map[string]*tree.Node
}

// NewIndex builds an index for a reference tree
// in a single pass.
// A duplicate identifier in the reference tree
// is an error,
// as it makes the lookup ambiguous.
func NewIndex(root *tree.Node) (*Index, error) {
	ix := &Index{
		root:  root,
		nodes: make(map[string]*tree.Node),
	}
	for _, n := range tree.Nodes(root) {
		if n.ID == "" {
			continue
		}
		if _, dup := ix.nodes[n.ID]; dup {
			return nil, fmt.Errorf("reference tree: duplicate taxon identifier %q", n.ID)
		}
		ix.nodes[n.ID] = n
	}
	return ix, nil
}

// Lookup returns the reference node
// with the given identifier,
// or nil if the identifier is unknown.
func (ix *Index) Lookup(id string) *tree.Node {
	return ix.nodes[id]
}

// Extract returns a deep copy of the subtree
// rooted at the node with the given identifier,
// removing every descendant
// whose identifier is in the exclusion list.
// It returns nil if the identifier is unknown.
//
// If an exclusion leaves an internal node
// with a single child,
// the unifurcation is preserved
// unless collapse is true:
// topology changes must be explicit,
// never incidental.
func (ix *Index) Extract(id string, exclude []string, collapse bool) *tree.Node {
	src := ix.nodes[id]
	if src == nil {
		return nil
	}

	out := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		out[e] = true
	}

	root := copyWithout(src, out)
	if collapse {
		collapseUnifurcations(root)
	}
	return root
}

// copyWithout deep copies a subtree,
// skipping any node whose identifier is excluded.
func copyWithout(src *tree.Node, out map[string]bool) *tree.Node {
	root := tree.Copy(src)
	if len(out) == 0 {
		return root
	}
	for _, n := range tree.Nodes(root) {
		kept := n.Children[:0]
		for _, c := range n.Children {
			if c.ID != "" && out[c.ID] {
				continue
			}
			kept = append(kept, c)
		}
		n.Children = kept
	}
	return root
}

// collapseUnifurcations removes every internal node
// with a single child,
// merging the lengths of the two adjacent branches.
func collapseUnifurcations(root *tree.Node) {
	for _, n := range tree.PostOrder(root) {
		for i, c := range n.Children {
			for len(c.Children) == 1 {
				g := c.Children[0]
				if c.HasLength {
					g.Length += c.Length
					g.HasLength = true
				}
				n.Children[i] = g
				c = g
			}
		}
	}
	for len(root.Children) == 1 {
		c := root.Children[0]
		root.Children = c.Children
		root.Label = c.Label
		root.ID = c.ID
		root.Graft = c.Graft
		if c.HasLength {
			root.Length += c.Length
			root.HasLength = true
		}
	}
}

// A Report contains the recoverable failures
// of a grafting run.
type Report struct {
	// Unresolved contains the graft points
	// that could not be resolved,
	// named by identifier,
	// or by label if the placeholder has no identifier,
	// in tree order.
	Unresolved []string
}

// Graft returns a fresh tree
// built by replacing every placeholder node of the skeleton
// with the subtree retrieved from the index,
// after removing the excluded descendants.
//
// The branch length of the placeholder is kept
// (it is the length of the branch leading into the grafted clade),
// while the lengths inside the clade
// come from the reference tree.
// The placeholder label,
// when defined,
// renames the root of the attached subtree.
//
// A graft point that cannot be resolved
// is left unmodified and reported:
// a missing clade never aborts the whole build.
// Attaching the same reference subtree
// at two different graft points is an error.
// Neither input tree is modified.
func Graft(skeleton *tree.Node, ix *Index) (*tree.Node, *Report, error) {
	merged := tree.Copy(skeleton)
	rep := &Report{}
	used := make(map[string]bool)

	stack := []*tree.Node{merged}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if g := n.Graft; g != nil {
			if err := resolve(n, ix, used, rep); err != nil {
				return nil, nil, err
			}
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return merged, rep, nil
}

func resolve(n *tree.Node, ix *Index, used map[string]bool, rep *Report) error {
	g := n.Graft
	if g.ID == "" {
		rep.Unresolved = append(rep.Unresolved, n.Name())
		return nil
	}
	if used[g.ID] {
		return fmt.Errorf("reference subtree %q attached at more than one graft point", g.ID)
	}

	sub := ix.Extract(g.ID, g.Exclude, false)
	if sub == nil {
		rep.Unresolved = append(rep.Unresolved, g.ID)
		return nil
	}
	used[g.ID] = true

	n.Children = sub.Children
	if n.Label == "" {
		n.Label = sub.Label
	}
	if n.ID == "" {
		n.ID = sub.ID
	}
	n.Graft = nil
	return nil
}
