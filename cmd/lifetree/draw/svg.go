// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"fmt"
	"io"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/lifetree/tree"
)

const stepY = 10
const margin = 5
const labelSpace = 200

// An svgTree is the layout of a tree
// ready to be drawn as an SVG file.
type svgTree struct {
	root   *tree.Node
	parent map[*tree.Node]*tree.Node
	depth  map[*tree.Node]float64
	x, y   map[*tree.Node]float64
	max    float64
	labels bool

	width, height int
}

func copyTree(t *tree.Node, stepX float64, labels bool) svgTree {
	st := svgTree{
		root:   t,
		parent: tree.Parents(t),
		depth:  tree.Depths(t),
		x:      make(map[*tree.Node]float64),
		y:      make(map[*tree.Node]float64),
		labels: labels,
	}

	for _, d := range st.depth {
		if d > st.max {
			st.max = d
		}
	}

	ls := tree.Leaves(t)
	for i, l := range ls {
		st.y[l] = float64(i+1) * stepY
	}
	for _, n := range tree.PostOrder(t) {
		st.x[n] = margin + st.depth[n]*stepX
		if n.IsLeaf() {
			continue
		}
		first := st.y[n.Children[0]]
		last := st.y[n.Children[len(n.Children)-1]]
		st.y[n] = (first + last) / 2
	}

	st.width = int(margin+st.max*stepX) + margin
	if labels {
		st.width += labelSpace
	}
	st.height = (len(ls) + 2) * stepY
	return st
}

func (st svgTree) draw(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\"?>\n<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\">\n", st.width, st.height); err != nil {
		return err
	}
	fmt.Fprintf(w, "<g stroke-width=\"2\" stroke-linecap=\"round\">\n")

	for _, n := range tree.Nodes(st.root) {
		if p := st.parent[n]; p != nil {
			fmt.Fprintf(w, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\"/>\n",
				st.x[p], st.y[n], st.x[n], st.y[n], st.color(n))
		}
		if n.IsLeaf() {
			continue
		}
		first := n.Children[0]
		last := n.Children[len(n.Children)-1]
		fmt.Fprintf(w, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\"/>\n",
			st.x[n], st.y[first], st.x[n], st.y[last], st.color(n))
	}
	fmt.Fprintf(w, "</g>\n")

	if st.labels {
		fmt.Fprintf(w, "<g font-family=\"Verdana\" font-size=\"10\">\n")
		for _, l := range tree.Leaves(st.root) {
			name := l.Name()
			if name == "" {
				continue
			}
			fmt.Fprintf(w, "<text x=\"%.2f\" y=\"%.2f\">%s</text>\n",
				st.x[l]+3, st.y[l]+3, escape(name))
		}
		fmt.Fprintf(w, "</g>\n")
	}

	if _, err := fmt.Fprintf(w, "</svg>\n"); err != nil {
		return err
	}
	return nil
}

// color returns the gradient color of a node
// scaled by its distance from the root.
func (st svgTree) color(n *tree.Node) string {
	v := 0.0
	if st.max > 0 {
		v = st.depth[n] / st.max
	}
	c := blind.Gradient(v)
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
