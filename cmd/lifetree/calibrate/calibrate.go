// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package calibrate implements a command to apply
// the age constraints of a lifetree project
// to its assembled tree.
package calibrate

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/calibrate"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/project"
	"github.com/js-arias/lifetree/tree"
	"github.com/js-arias/lifetree/ultrametric"
)

var Command = &command.Command{
	Usage: "calibrate [--fix] [-o|--output <tree-file>] <project-file>",
	Short: "calibrate the ages of the assembled tree",
	Long: `
Command calibrate reads the assembled tree and the age constraints of a
lifetree project, and rescales the branch lengths of the tree so that the age
of each constrained clade matches its target age.

The argument of the command is the name of the project file. The project must
define the trees dataset; the constraints dataset provides the ordered list
of constraints, as lines of the form:

	mrca: taxonA, taxonB, fixage=66;

Constraints are applied in the given order; a constraint nested inside an
already calibrated clade operates on the rescaled lengths, so the later
constraint takes precedence. A constraint that names a taxon absent from the
tree is skipped and reported in the standard error.

If the flag --fix is given, the tree will be repaired to be ultrametric after
the calibration.

By default, the calibrated tree will be written over the tree file of the
project. Use the flag -o, or --output, to define a different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var fixTree bool
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&fixTree, "fix", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	t, err := p.Tree()
	if err != nil {
		return err
	}
	cs, err := p.Constraints()
	if err != nil {
		return err
	}

	rep := calibrate.Calibrate(t, cs)
	for _, m := range rep.Missing {
		fmt.Fprintf(c.Stderr(), "constraint \"mrca: %s, %s\": taxon not in tree\n", m.A, m.B)
	}
	for _, u := range rep.Unscalable {
		fmt.Fprintf(c.Stderr(), "constraint \"mrca: %s, %s\": clade without branch lengths\n", u.A, u.B)
	}
	for _, o := range rep.Repeated {
		fmt.Fprintf(c.Stderr(), "constraint \"mrca: %s, %s\": overridden by a later constraint\n", o.A, o.B)
	}

	if fixTree {
		for _, u := range ultrametric.Fix(t) {
			fmt.Fprintf(c.Stderr(), "unfixable node: %s\n", u)
		}
	}

	if output == "" {
		output = p.Path(project.Trees)
	}
	if err := writeTree(output, t); err != nil {
		return err
	}
	p.Add(project.Trees, output)
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%s: %d of %d constraints applied\n", output, rep.Applied, len(cs))
	return nil
}

func writeTree(name string, t *tree.Node) (err error) {
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
	if err := newick.Write(bw, t); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
