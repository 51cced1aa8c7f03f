// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package build implements a command to assemble
// the tree of life of a lifetree project,
// grafting the reference taxonomy
// into the skeleton tree.
package build

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/graft"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/project"
	"github.com/js-arias/lifetree/tree"
)

var Command = &command.Command{
	Usage: "build [-o|--output <tree-file>] <project-file>",
	Short: "assemble the tree of life of a project",
	Long: `
Command build reads the skeleton tree and the reference taxonomy tree of a
lifetree project, and replaces every grafting placeholder of the skeleton with
the subtree retrieved from the reference, removing any excluded descendant.

The argument of the command is the name of the project file. The project must
define the reference and skeleton datasets.

A placeholder that cannot be resolved is kept verbatim in the output and
reported in the standard error: a missing clade never aborts the build. Scan
the output for leftover '@' markers before using the tree in later stages.

By default, the resulting tree will be written to the tree file defined in
the project, or to 'tree.phy' if none is defined. Use the flag -o, or
--output, to define a different file name. The file will be recorded as the
tree dataset of the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string

func setFlags(c *command.Command) {
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

	ref, err := p.Reference()
	if err != nil {
		return err
	}
	sk, err := p.Skeleton()
	if err != nil {
		return err
	}

	ix, err := graft.NewIndex(ref)
	if err != nil {
		return err
	}

	merged, rep, err := graft.Graft(sk, ix)
	if err != nil {
		return err
	}
	for _, u := range rep.Unresolved {
		fmt.Fprintf(c.Stderr(), "unresolved graft point: %s\n", u)
	}

	if err := tree.ValidateIDs(merged); err != nil {
		return fmt.Errorf("grafted tree: %v", err)
	}
	if ls := tree.LeavesWithoutID(merged); len(ls) > 0 {
		fmt.Fprintf(c.Stderr(), "warning: %d terminals without taxon identifier\n", len(ls))
	}

	if output == "" {
		output = p.Path(project.Trees)
		if output == "" {
			output = "tree.phy"
		}
	}
	if err := writeTree(output, merged); err != nil {
		return err
	}
	p.Add(project.Trees, output)
	if err := p.Write(); err != nil {
		return err
	}

	terms := len(tree.Leaves(merged))
	fmt.Fprintf(c.Stderr(), "%s: %d nodes, %d terminals, %d unresolved graft points\n",
		output, len(tree.Nodes(merged)), terms, len(rep.Unresolved))
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
