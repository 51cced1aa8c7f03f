// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// an assembled tree as an SVG file.
package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
)

var Command = &command.Command{
	Usage: `draw [--step <value>] [--nolabels]
	[-o|--output <svg-file>] [<tree-file>]`,
	Short: "draw a tree as an SVG file",
	Long: `
Command draw reads a tree in extended Newick format and draws it into an
SVG-encoded file. Branches are colored by their age, from the root (older,
purple) to the terminals (younger, red), using a color blind friendly
gradient.

The argument of the command is the name of the tree file. If no file is
given, the tree will be read from the standard input.

By default, 10 pixel units will be used per branch length unit; use the flag
--step to define a different value (it can have decimal points).

By default, terminal labels will be drawn. If the flag --nolabels is given,
then it will draw the tree without labels.

By default, the name of the tree file with the '.svg' extension will be used
as the output file name; use the flag -o, or --output, to define a different
name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var stepX float64
var noLabels bool
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&stepX, "step", 10, "")
	c.Flags().BoolVar(&noLabels, "nolabels", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}
	t, err := readTree(c.Stdin(), fn)
	if err != nil {
		return err
	}

	if output == "" {
		output = "tree.svg"
		if fn != "" {
			output = strings.TrimSuffix(fn, ".phy")
			output = strings.TrimSuffix(output, ".nwk")
			output += ".svg"
		}
	}

	st := copyTree(t, stepX, !noLabels)
	return writeSVG(output, st)
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

func writeSVG(name string, t svgTree) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := t.draw(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
