// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package minimal implements a command to extract
// the minimal tree that covers a set of taxa.
package minimal

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
	Usage: `minimal -t|--taxa <taxon>[,<taxon>...]
	[-o|--output <tree-file>] [<tree-file>]`,
	Short: "extract the minimal tree that covers a set of taxa",
	Long: `
Command minimal reads a tree in extended Newick format and prints the
smallest tree that contains all the indicated taxa and preserves the most
recent common ancestor relationships between every pair of them. Internal
nodes not needed to preserve the branching between the taxa are removed, and
the lengths of the adjacent branches merged.

The argument of the command is the name of the tree file. If no file is
given, the tree will be read from the standard input.

The flag -t, or --taxa, is required and defines a comma separated list of
taxon names or identifiers. A taxon that is not found in the tree is
reported in the standard error.

By default, the resulting tree will be printed in the standard output. Use
the flag -o, or --output, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var taxa string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&taxa, "taxa", "", "")
	c.Flags().StringVar(&taxa, "t", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if taxa == "" {
		return c.UsageError("flag --taxa undefined")
	}

	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}
	t, err := readTree(c.Stdin(), fn)
	if err != nil {
		return err
	}

	targets := strings.Split(taxa, ",")
	for i, tx := range targets {
		targets[i] = strings.TrimSpace(tx)
	}

	mt, missing := tree.Minimal(t, targets)
	for _, m := range missing {
		fmt.Fprintf(c.Stderr(), "taxon not in tree: %s\n", m)
	}
	if mt == nil {
		return fmt.Errorf("no target taxon found in tree")
	}

	if output == "" {
		return newick.Write(c.Stdout(), mt)
	}
	return writeTree(output, mt)
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
