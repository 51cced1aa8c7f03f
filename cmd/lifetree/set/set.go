// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to set
// the data files of a lifetree project.
package set

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/lifetree/project"
)

var Command = &command.Command{
	Usage: "set <project-file> <dataset> [<path>]",
	Short: "set a data file of a lifetree project",
	Long: `
Command set defines the path of a dataset in a lifetree project. If no project
file exists, a new project will be created.

The first argument of the command is the name of the project file. The second
argument is the dataset keyword, one of:

	reference	the reference taxonomy tree, in extended Newick
	skeleton	the hand curated skeleton tree with the grafting
			placeholders
	constraints	the age calibration constraints, as "mrca:" lines
	trees		the assembled tree

The third argument is the path of the dataset file. If no path is given, the
dataset will be removed from the project.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 2 {
		return c.UsageError("expecting project file and dataset")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	set := project.Dataset(args[1])
	if !project.IsValid(set) {
		return fmt.Errorf("unknown dataset keyword %q", args[1])
	}

	path := ""
	if len(args) > 2 {
		path = args[2]
	}
	p.Add(set, path)

	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}
