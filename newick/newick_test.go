// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/lifetree/newick"
	"github.com/js-arias/lifetree/tree"
)

func mustRead(t testing.TB, s string) *tree.Node {
	t.Helper()

	n, err := newick.Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unable to read tree %q: %v", s, err)
	}
	return n
}

func TestRoundTrip(t *testing.T) {
	trees := []string{
		"(A:1,(B:1,C:1):2)Root;",
		"(A_id1:1,(B_id2:1,C_id3:1)BC_id4:2)Root_id5;",
		"(A,B)Root;",
		"A;",
		"(Mammals_id10@:3,Birds_id20~-id55-id56@:2)Amniota_id1:5;",
		"(Clade~id456-id55@:1,B:1)Root;",
		"('Homo sapiens':1,B:1)Root;",
		"(A:0.5,B:1.25)Root:66;",
	}
	for _, s := range trees {
		n := mustRead(t, s)
		var sb strings.Builder
		if err := newick.Write(&sb, n); err != nil {
			t.Errorf("tree %q: unable to write: %v", s, err)
			continue
		}
		if got := sb.String(); got != s+"\n" {
			t.Errorf("tree %q: got %q", s, got)
		}
	}
}

func TestReadDirectives(t *testing.T) {
	n := mustRead(t, "(Mammals_id10@:3,Birds_id20~-id55-id56@:2,Clade~id456-id55@:1)Amniota_id1:5;")

	if n.Label != "Amniota" || n.ID != "id1" || n.Graft != nil {
		t.Fatalf("root: got label %q, identifier %q", n.Label, n.ID)
	}

	want := []*tree.Node{
		{
			Label: "Mammals", ID: "id10",
			Length: 3, HasLength: true,
			Graft: &tree.Graft{ID: "id10"},
		},
		{
			Label: "Birds", ID: "id20",
			Length: 2, HasLength: true,
			Graft: &tree.Graft{ID: "id20", Exclude: []string{"id55", "id56"}},
		},
		{
			Label:  "Clade",
			Length: 1, HasLength: true,
			Graft: &tree.Graft{ID: "id456", Exclude: []string{"id55"}},
		},
	}
	if len(n.Children) != len(want) {
		t.Fatalf("root: got %d children, want %d", len(n.Children), len(want))
	}
	for i, w := range want {
		if !reflect.DeepEqual(n.Children[i], w) {
			t.Errorf("child %d: got %+v (graft %+v), want %+v (graft %+v)", i, n.Children[i], n.Children[i].Graft, w, w.Graft)
		}
	}
}

func TestReadComment(t *testing.T) {
	s := `[A tree of amniotes
(used as an example).]
(A_id1:1,B_id2:1)Root;`
	n := mustRead(t, s)
	if n.Label != "Root" || len(n.Children) != 2 {
		t.Errorf("got label %q with %d children", n.Label, len(n.Children))
	}
}

func TestReadQuoted(t *testing.T) {
	n := mustRead(t, "('Homo sapiens_id770315':1,'Pan (chimps)':1)Hominini;")

	h := n.Children[0]
	if h.Label != "Homo sapiens" || h.ID != "id770315" {
		t.Errorf("quoted terminal: got label %q, identifier %q", h.Label, h.ID)
	}
	if p := n.Children[1]; p.Label != "Pan (chimps)" {
		t.Errorf("quoted terminal: got label %q", p.Label)
	}
}

func TestReadNoLength(t *testing.T) {
	n := mustRead(t, "(A,B:1)Root;")
	if a := n.Children[0]; a.HasLength {
		t.Errorf("terminal %q: unexpected branch length %.6f", a.Name(), a.Length)
	}
	if b := n.Children[1]; !b.HasLength || b.Length != 1 {
		t.Errorf("terminal %q: want a branch length", b.Name())
	}
}

func TestReadErrors(t *testing.T) {
	trees := map[string]string{
		"empty":            "",
		"blank":            "   \n\t",
		"comment only":     "[a comment]",
		"unclosed comment": "[a comment (A,B)Root;",
		"open parenthesis": "(A:1,(B:1,C:1):2",
		"extra close":      "(A,B));",
		"no semicolon":     "(A,B)Root",
		"trailing text":    "(A,B)Root; extra",
		"two trees":        "(A,B)R1;(C,D)R2;",
		"bad length":       "(A:12f,B:1)Root;",
		"negative length":  "(A:-1,B:1)Root;",
		"unclosed quote":   "('Homo sapiens:1,B:1)Root;",
		"empty exclusion":  "(A_id1~-id5--id6@:1,B:1)Root;",
		"duplicate id":     "(A_id1:1,B_id1:1)Root;",
	}
	for name, s := range trees {
		if _, err := newick.Read(strings.NewReader(s)); err == nil {
			t.Errorf("%s: tree %q: expecting error", name, s)
		}
	}
}
