// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package fix implements a command to repair
// the ultrametricity of a tree.
package fix

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
	"github.com/js-arias/lifetree/ultrametric"
)

var Command = &command.Command{
	Usage: "fix [-o|--output <tree-file>] [<tree-file>]",
	Short: "repair the ultrametricity of a tree",
	Long: `
Command fix reads a tree in extended Newick format and repairs it to be
ultrametric: for every internal node whose children have different subtree
depths, the branch length of each shallow child is extended by the deficit
needed to equal the deepest child, processed bottom-up. Only branch lengths
are modified; the topology of the tree is never changed.

A branch is never shortened below zero; a node that would require it is
reported in the standard error and left unmodified.

The argument of the command is the name of the tree file. If no file is
given, the tree will be read from the standard input.

By default, the repaired tree will be printed in the standard output. Use the
flag -o, or --output, to define an output file.
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
	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}
	t, err := readTree(c.Stdin(), fn)
	if err != nil {
		return err
	}

	for _, u := range ultrametric.Fix(t) {
		fmt.Fprintf(c.Stderr(), "unfixable node: %s\n", u)
	}

	if output == "" {
		return newick.Write(c.Stdout(), t)
	}
	return writeTree(output, t)
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
