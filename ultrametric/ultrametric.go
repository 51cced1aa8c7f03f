// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ultrametric implements the validation
// and repair of the ultrametricity invariant:
// in a time calibrated tree,
// every terminal must have the same root-to-leaf path length.
package ultrametric

import (
	"math"

	"github.com/js-arias/lifetree/tree"
)

// A LeafAge is the root-to-leaf path length of a terminal.
type LeafAge struct {
	Name string
	Age  float64
}

// LeafAges returns the root-to-leaf path length
// of every terminal of the tree rooted at root,
// in tree order.
// Undefined branch lengths count as zero.
func LeafAges(root *tree.Node) []LeafAge {
	depths := tree.Depths(root)
	ls := tree.Leaves(root)

	ages := make([]LeafAge, 0, len(ls))
	for _, l := range ls {
		ages = append(ages, LeafAge{
			Name: l.Name(),
			Age:  depths[l],
		})
	}
	return ages
}

// A Pair is a pair of terminals
// with root-to-leaf path lengths
// that differ by more than the accepted tolerance.
type Pair struct {
	First, Leaf LeafAge
}

// Check reports every terminal
// whose root-to-leaf path length differs
// from the path length of the first terminal of the tree
// by more than eps.
// An empty result means the tree is ultrametric
// within the tolerance.
func Check(root *tree.Node, eps float64) []Pair {
	ages := LeafAges(root)
	if len(ages) == 0 {
		return nil
	}

	var pairs []Pair
	first := ages[0]
	for _, a := range ages[1:] {
		if math.Abs(a.Age-first.Age) > eps {
			pairs = append(pairs, Pair{First: first, Leaf: a})
		}
	}
	return pairs
}

// Fix repairs the tree rooted at root,
// in place,
// so that it becomes ultrametric:
// for every internal node
// whose children have different subtree depths,
// the branch length of each shallow child is extended
// by the deficit needed to equal the deepest child.
// Nodes are processed bottom-up,
// so a correction never invalidates
// an already repaired subtree.
//
// A branch is never shortened below zero:
// a node that would require it is reported as unfixable
// and left unmodified.
// The topology of the tree is never changed.
func Fix(root *tree.Node) []string {
	var unfixable []string

	below := make(map[*tree.Node]float64)
	for _, n := range tree.PostOrder(root) {
		if n.IsLeaf() {
			continue
		}

		var max float64
		for _, c := range n.Children {
			if d := c.Length + below[c]; d > max {
				max = d
			}
		}
		for _, c := range n.Children {
			adj := max - (c.Length + below[c])
			if adj == 0 {
				continue
			}
			v := round6(c.Length + adj)
			if v < 0 {
				unfixable = append(unfixable, n.Name())
				continue
			}
			c.Length = v
			c.HasLength = true
		}
		below[n] = max
	}
	return unfixable
}

// round6 rounds a branch length to 6 decimal places,
// so repairs do not introduce float noise in the output.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
