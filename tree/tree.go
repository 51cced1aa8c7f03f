// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements a rooted phylogenetic tree
// with branch lengths in million years.
//
// Trees can be very large
// (a reference taxonomy can have hundreds of thousands of nodes),
// so all traversals in this package are iterative,
// using an explicit stack instead of recursion.
package tree

import (
	"fmt"
	"slices"
)

// A Node is a node of a phylogenetic tree.
// A node without children is a terminal (a leaf).
// The order of the children is meaningful
// and is preserved by every operation in this module.
type Node struct {
	// Label is the taxon name of the node
	// (it can be empty).
	Label string

	// ID is the stable taxon identifier of the node
	// (it can be empty).
	// Identifiers must be unique inside a tree.
	ID string

	// Length is the length of the branch
	// that connects the node with its parent.
	// It is only valid if HasLength is true;
	// an undefined length is treated as zero
	// when measuring paths.
	Length    float64
	HasLength bool

	// Children is the ordered list of descendants of the node.
	Children []*Node

	// Graft is set if the node is a placeholder
	// to be replaced by an externally supplied subtree.
	Graft *Graft
}

// A Graft is a directive attached to a placeholder node.
// The node must be replaced by the subtree rooted
// at the node with the indicated identifier
// in a reference tree,
// removing any excluded descendant.
type Graft struct {
	// ID is the identifier of the subtree to be attached.
	// If empty,
	// the graft point cannot be resolved.
	ID string

	// Exclude contains the identifiers of the descendants
	// to be removed from the attached subtree.
	Exclude []string
}

// IsLeaf returns true if the node is a terminal.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Name returns the most useful name of a node:
// its label,
// or its identifier if the label is not defined.
func (n *Node) Name() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Nodes returns all the nodes of the tree rooted at n,
// in pre-order
// (parents before children,
// siblings in order).
func Nodes(n *Node) []*Node {
	if n == nil {
		return nil
	}

	var ns []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ns = append(ns, c)
		for i := len(c.Children) - 1; i >= 0; i-- {
			stack = append(stack, c.Children[i])
		}
	}
	return ns
}

// PostOrder returns all the nodes of the tree rooted at n,
// children before parents,
// siblings in order.
func PostOrder(n *Node) []*Node {
	if n == nil {
		return nil
	}

	var ns []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ns = append(ns, c)
		stack = append(stack, c.Children...)
	}
	slices.Reverse(ns)
	return ns
}

// Leaves returns the terminals of the tree rooted at n,
// in tree order.
func Leaves(n *Node) []*Node {
	var ls []*Node
	for _, c := range Nodes(n) {
		if c.IsLeaf() {
			ls = append(ls, c)
		}
	}
	return ls
}

// Copy returns a deep copy of the tree rooted at n.
func Copy(n *Node) *Node {
	if n == nil {
		return nil
	}

	root := shallowCopy(n)
	type frame struct {
		src, dst *Node
	}
	stack := []frame{{n, root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(f.src.Children) == 0 {
			continue
		}
		f.dst.Children = make([]*Node, len(f.src.Children))
		for i, c := range f.src.Children {
			nc := shallowCopy(c)
			f.dst.Children[i] = nc
			stack = append(stack, frame{c, nc})
		}
	}
	return root
}

func shallowCopy(n *Node) *Node {
	c := &Node{
		Label:     n.Label,
		ID:        n.ID,
		Length:    n.Length,
		HasLength: n.HasLength,
	}
	if n.Graft != nil {
		c.Graft = &Graft{
			ID:      n.Graft.ID,
			Exclude: slices.Clone(n.Graft.Exclude),
		}
	}
	return c
}

// Parents returns a map of each node of the tree rooted at n
// to its parent.
// The root maps to nil.
func Parents(n *Node) map[*Node]*Node {
	p := make(map[*Node]*Node)
	p[n] = nil
	for _, c := range Nodes(n) {
		for _, d := range c.Children {
			p[d] = c
		}
	}
	return p
}

// Find returns the first node
// (in pre-order)
// whose identifier or label is equal to name.
// It returns nil if there is no such node.
func Find(n *Node, name string) *Node {
	for _, c := range Nodes(n) {
		if c.ID == name || (c.Label != "" && c.Label == name) {
			return c
		}
	}
	return nil
}

// MRCA returns the most recent common ancestor
// of the two named taxa
// (by identifier or label)
// in the tree rooted at n.
// It returns nil if any of the taxa is not in the tree.
func MRCA(n *Node, a, b string) *Node {
	na := Find(n, a)
	nb := Find(n, b)
	if na == nil || nb == nil {
		return nil
	}
	return mrca(Parents(n), na, nb)
}

func mrca(parents map[*Node]*Node, na, nb *Node) *Node {
	anc := make(map[*Node]bool)
	for p := na; p != nil; p = parents[p] {
		anc[p] = true
	}
	for p := nb; p != nil; p = parents[p] {
		if anc[p] {
			return p
		}
	}
	return nil
}

// MaxDepth returns the length of the longest path
// from n to any of its terminals.
// Undefined branch lengths count as zero.
func MaxDepth(n *Node) float64 {
	below := make(map[*Node]float64)
	for _, c := range PostOrder(n) {
		var max float64
		for _, d := range c.Children {
			v := d.Length + below[d]
			if v > max {
				max = v
			}
		}
		below[c] = max
	}
	return below[n]
}

// Depths returns the path length from the root n
// to every node of the tree.
// Undefined branch lengths count as zero.
func Depths(n *Node) map[*Node]float64 {
	d := make(map[*Node]float64)
	d[n] = 0
	for _, c := range Nodes(n) {
		for _, s := range c.Children {
			d[s] = d[c] + s.Length
		}
	}
	return d
}

// ValidateIDs checks that every identifier defined
// in the tree rooted at n is unique.
func ValidateIDs(n *Node) error {
	ids := make(map[string]bool)
	for _, c := range Nodes(n) {
		if c.ID == "" {
			continue
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate taxon identifier %q", c.ID)
		}
		ids[c.ID] = true
	}
	return nil
}

// LeavesWithoutID returns the terminals of the tree rooted at n
// that do not have a taxon identifier,
// in tree order.
func LeavesWithoutID(n *Node) []*Node {
	var ls []*Node
	for _, c := range Leaves(n) {
		if c.ID == "" {
			ls = append(ls, c)
		}
	}
	return ls
}
