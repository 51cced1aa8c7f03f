// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/lifetree/calibrate"
	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
)

// Reference reads the reference taxonomy tree
// as defined in a project.
func (p *Project) Reference() (*tree.Node, error) {
	return p.readTree(Reference, "reference tree")
}

// Skeleton reads the skeleton tree
// as defined in a project.
func (p *Project) Skeleton() (*tree.Node, error) {
	return p.readTree(Skeleton, "skeleton tree")
}

// Tree reads the assembled tree
// as defined in a project.
func (p *Project) Tree() (*tree.Node, error) {
	return p.readTree(Trees, "assembled tree")
}

func (p *Project) readTree(set Dataset, kind string) (*tree.Node, error) {
	name := p.Path(set)
	if name == "" {
		return nil, fmt.Errorf("%s not defined in project %q", kind, p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := newick.Read(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return t, nil
}

// Constraints reads the age calibration constraints
// as defined in a project.
// An undefined constraints dataset is not an error:
// it returns an empty list.
func (p *Project) Constraints() ([]calibrate.Constraint, error) {
	name := p.Path(Constraints)
	if name == "" {
		return nil, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cs, err := calibrate.ReadConstraints(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return cs, nil
}
