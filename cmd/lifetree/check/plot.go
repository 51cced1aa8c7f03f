// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package check

import (
	"github.com/js-arias/lifetree/tree"
	"github.com/js-arias/lifetree/ultrametric"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// agePlot saves a histogram of the terminal ages of a tree
// as a PNG file.
func agePlot(t *tree.Node, name string) error {
	ages := ultrametric.LeafAges(t)

	vals := make(plotter.Values, 0, len(ages))
	for _, a := range ages {
		vals = append(vals, a.Age)
	}

	p := plot.New()
	p.X.Label.Text = "age (Ma)"
	p.Y.Label.Text = "terminals"

	h, err := plotter.NewHist(vals, 16)
	if err != nil {
		return err
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
