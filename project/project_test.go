// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/lifetree/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Reference, "taxonomy.phy"},
		{project.Skeleton, "base.phy"},
		{project.Constraints, "ages.txt"},
		{project.Trees, "life.phy"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := filepath.Join(t.TempDir(), "project.tab")
	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	// an empty path removes the dataset
	if prev := np.Add(project.Trees, ""); prev != "life.phy" {
		t.Errorf("previous path: got %q, want %q", prev, "life.phy")
	}
	if path := np.Path(project.Trees); path != "" {
		t.Errorf("removed dataset: got path %q", path)
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range []project.Dataset{project.Reference, project.Skeleton, project.Constraints, project.Trees} {
		if !project.IsValid(s) {
			t.Errorf("dataset %s: want a valid dataset", s)
		}
	}
	if project.IsValid("not-a-dataset") {
		t.Errorf("unknown dataset reported as valid")
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}
