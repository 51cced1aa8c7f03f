// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ultrametric_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
	"github.com/js-arias/lifetree/ultrametric"
)

func mustRead(t testing.TB, s string) *tree.Node {
	t.Helper()

	n, err := newick.Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unable to read tree %q: %v", s, err)
	}
	return n
}

func newickOf(t testing.TB, n *tree.Node) string {
	t.Helper()

	var sb strings.Builder
	if err := newick.Write(&sb, n); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func TestLeafAges(t *testing.T) {
	n := mustRead(t, "(A:5,(B:2,C:3):2)Root;")

	want := []ultrametric.LeafAge{
		{Name: "A", Age: 5},
		{Name: "B", Age: 4},
		{Name: "C", Age: 5},
	}
	if ages := ultrametric.LeafAges(n); !reflect.DeepEqual(ages, want) {
		t.Errorf("terminal ages: got %v, want %v", ages, want)
	}
}

func TestCheck(t *testing.T) {
	n := mustRead(t, "(A:5,(B:2,C:3):2)Root;")

	pairs := ultrametric.Check(n, 1e-6)
	want := []ultrametric.Pair{
		{
			First: ultrametric.LeafAge{Name: "A", Age: 5},
			Leaf:  ultrametric.LeafAge{Name: "B", Age: 4},
		},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("violations: got %v, want %v", pairs, want)
	}

	// a small deviation must be accepted within the tolerance
	if pairs := ultrametric.Check(n, 1.5); pairs != nil {
		t.Errorf("violations within tolerance: got %v", pairs)
	}
}

func TestFix(t *testing.T) {
	n := mustRead(t, "(A:5,(B:2,C:3):2)Root;")

	if unfix := ultrametric.Fix(n); unfix != nil {
		t.Fatalf("unfixable nodes: %v", unfix)
	}

	// only the short branch is extended
	if got, want := newickOf(t, n), "(A:5,(B:3,C:3):2)Root;"; got != want {
		t.Errorf("repaired tree: got %q, want %q", got, want)
	}
	if pairs := ultrametric.Check(n, 1e-6); pairs != nil {
		t.Errorf("violations after repair: got %v", pairs)
	}
}

func TestFixUnfixable(t *testing.T) {
	// a negative branch inside a deep clade
	// cannot be repaired by extending its siblings
	root := &tree.Node{
		Label: "R",
		Children: []*tree.Node{
			{
				Label: "X", Length: -5, HasLength: true,
				Children: []*tree.Node{
					{Label: "D", Length: 10, HasLength: true},
				},
			},
			{Label: "S", Length: 7, HasLength: true},
		},
	}

	unfix := ultrametric.Fix(root)
	if !reflect.DeepEqual(unfix, []string{"R"}) {
		t.Errorf("unfixable nodes: got %v, want %v", unfix, []string{"R"})
	}
	if x := root.Children[0]; x.Length != -5 {
		t.Errorf("unfixable branch modified: got %.6f", x.Length)
	}
}
