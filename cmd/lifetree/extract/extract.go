// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package extract implements a command to extract
// a subtree from a tree file.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/graft"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
)

var Command = &command.Command{
	Usage: `extract -t|--taxon <identifier>
	[-x|--exclude <identifier>[,<identifier>...]] [--collapse]
	[-o|--output <tree-file>] [<tree-file>]`,
	Short: "extract a subtree from a tree file",
	Long: `
Command extract reads a tree in extended Newick format and prints the subtree
rooted at the node with the indicated taxon identifier.

The argument of the command is the name of the tree file, usually a large
reference taxonomy. If no file is given, the tree will be read from the
standard input.

The flag -t, or --taxon, is required and indicates the identifier of the
subtree to extract. The flag -x, or --exclude, defines a comma separated list
of identifiers of descendants to be removed from the result.

An exclusion can leave an internal node with a single child; by default the
node is preserved, so the topology of the reference is changed only by the
requested removals. Use the flag --collapse to remove such nodes, merging the
lengths of the adjacent branches.

By default, the subtree will be printed in the standard output. Use the flag
-o, or --output, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var taxon string
var exclude string
var collapse bool
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&taxon, "taxon", "", "")
	c.Flags().StringVar(&taxon, "t", "", "")
	c.Flags().StringVar(&exclude, "exclude", "", "")
	c.Flags().StringVar(&exclude, "x", "", "")
	c.Flags().BoolVar(&collapse, "collapse", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if taxon == "" {
		return c.UsageError("flag --taxon undefined")
	}

	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}
	t, err := readTree(c.Stdin(), fn)
	if err != nil {
		return err
	}

	ix, err := graft.NewIndex(t)
	if err != nil {
		return err
	}

	var out []string
	if exclude != "" {
		out = strings.Split(exclude, ",")
	}
	sub := ix.Extract(taxon, out, collapse)
	if sub == nil {
		return fmt.Errorf("taxon %q not in tree", taxon)
	}

	if output == "" {
		return newick.Write(c.Stdout(), sub)
	}
	return writeTree(output, sub)
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
