// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package export implements a command to export
// an assembled tree as a time tree collection.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `export [--name <tree-name>] [--age <value>]
	[-o|--output <tsv-file>] [<tree-file>]`,
	Short: "export a tree as a time tree collection",
	Long: `
Command export reads a fully assembled and calibrated tree in Newick format
and writes it as a tab-delimited time tree collection, the format used by
downstream tools such as PhyGeo.

The tree must be free of unresolved graft markers: run the build command and
inspect its report before exporting. It is expected that branch lengths were
given in million years.

The argument of the command is the name of the tree file. If no file is
given, the tree will be read from the standard input.

By default, the tree will be named 'tree'; use the flag --name to define a
different name. By default, the age of the root will be calculated from the
largest branch length between any terminal and the root. To set a different
root age, use the flag --age, with a value in million years.

By default, the collection will be printed in the standard output. Use the
flag -o, or --output, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var rootAge float64
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "name", "tree", "")
	c.Flags().Float64Var(&rootAge, "age", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

const millionYears = 1_000_000

func run(c *command.Command, args []string) error {
	fn := ""
	if len(args) > 0 {
		fn = args[0]
	}

	tc, err := readNewick(c.Stdin(), fn)
	if err != nil {
		return err
	}

	if output == "" {
		if err := tc.TSV(c.Stdout()); err != nil {
			return err
		}
		return nil
	}
	return writeTrees(tc)
}

func readNewick(r io.Reader, name string) (*timetree.Collection, error) {
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

	tc, err := timetree.Newick(r, treeName, int64(rootAge*millionYears))
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return tc, nil
}

func writeTrees(tc *timetree.Collection) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := tc.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", output, err)
	}
	return nil
}
