// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package check implements a command to validate
// the ultrametricity of a tree.
package check

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
	"github.com/js-arias/lifetree/ultrametric"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

var Command = &command.Command{
	Usage: `check [--epsilon <value>] [--plot <file-prefix>]
	[<tree-file>...]`,
	Short: "check the ultrametricity of a tree",
	Long: `
Command check reads one or more trees in extended Newick format and reports
every terminal whose root-to-leaf path length differs from the path length of
the first terminal by more than a tolerance.

One or more tree files can be given as arguments. If no file is given the
tree will be read from the standard input.

By default, the tolerance is 0.000001 (in branch length units, usually
million years). Use the flag --epsilon to define a different value.

For each tree it also prints the number of terminals, the number of distinct
terminal ages, and the mean, median, and 95% interval of the ages.

If the flag --plot is given with a file prefix, a histogram of the terminal
ages will be saved as a PNG file with the indicated prefix.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var epsilon float64
var plotPrefix string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&epsilon, "epsilon", 0.000001, "")
	c.Flags().StringVar(&plotPrefix, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) == 0 {
		args = append(args, "-")
	}

	for _, a := range args {
		fn := a
		if fn == "-" {
			fn = ""
			a = "stdin"
		}
		t, err := readTree(c.Stdin(), fn)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.Stdout(), "====== %s\n", a)
		pairs := ultrametric.Check(t, epsilon)
		for _, p := range pairs {
			fmt.Fprintf(c.Stdout(), "not ultrametric: %s has age %.6f, but %s has age %.6f\n",
				p.Leaf.Name, p.Leaf.Age, p.First.Name, p.First.Age)
		}

		if err := report(c.Stdout(), t); err != nil {
			return err
		}
		if plotPrefix != "" {
			if err := agePlot(t, plotName(a)); err != nil {
				return err
			}
		}
	}
	return nil
}

func report(w io.Writer, t *tree.Node) error {
	ages := ultrametric.LeafAges(t)
	if len(ages) == 0 {
		fmt.Fprintf(w, "tree without terminals\n")
		return nil
	}

	vals := make([]float64, 0, len(ages))
	distinct := make(map[float64]int, len(ages))
	for _, a := range ages {
		vals = append(vals, a.Age)
		distinct[a.Age]++
	}
	slices.Sort(vals)

	fmt.Fprintf(w, "terminals: %d\n", len(vals))
	fmt.Fprintf(w, "distinct ages: %d\n", len(distinct))
	fmt.Fprintf(w, "mean age: %.6f\n", stat.Mean(vals, nil))
	fmt.Fprintf(w, "median age: %.6f\n", stat.Quantile(0.5, stat.Empirical, vals, nil))
	fmt.Fprintf(w, "95%% ages: %.6f-%.6f\n",
		stat.Quantile(0.025, stat.Empirical, vals, nil),
		stat.Quantile(0.975, stat.Empirical, vals, nil))
	return nil
}

func plotName(a string) string {
	base := filepath.Base(a)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s-%s.png", plotPrefix, base)
}

func readTree(r io.Reader, name string) (*tree.Node, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	t, err := newick.Read(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return t, nil
}
