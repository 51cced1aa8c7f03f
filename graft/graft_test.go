// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package graft_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/lifetree/graft"
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

func mustIndex(t testing.TB, s string) *graft.Index {
	t.Helper()

	ix, err := graft.NewIndex(mustRead(t, s))
	if err != nil {
		t.Fatalf("unable to index tree %q: %v", s, err)
	}
	return ix
}

func newickOf(t testing.TB, n *tree.Node) string {
	t.Helper()

	var sb strings.Builder
	if err := newick.Write(&sb, n); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func TestIndex(t *testing.T) {
	ix := mustIndex(t, "(P_id1:1,Q_id2:1,R_id3:1)X_id10:1;")

	if n := ix.Lookup("id2"); n == nil || n.Label != "Q" {
		t.Errorf("lookup: got %v, want taxon %q", n, "Q")
	}
	if n := ix.Lookup("id99"); n != nil {
		t.Errorf("lookup of an unknown identifier: got %q", n.Name())
	}

	dup := mustRead(t, "(P_id1:1,Q_id2:1)X_id10;")
	dup.Children[1].ID = "id1"
	if _, err := graft.NewIndex(dup); err == nil {
		t.Errorf("expecting a duplicate identifier error")
	}
}

func TestExtract(t *testing.T) {
	src := "(P_id1:1,Q_id2:1,R_id3:1)X_id10:1;"
	ref := mustRead(t, src)
	ix, err := graft.NewIndex(ref)
	if err != nil {
		t.Fatalf("unable to index tree: %v", err)
	}

	sub := ix.Extract("id10", []string{"id2"}, false)
	if got, want := newickOf(t, sub), "(P_id1:1,R_id3:1)X_id10:1;"; got != want {
		t.Errorf("extract: got %q, want %q", got, want)
	}

	if sub := ix.Extract("id99", nil, false); sub != nil {
		t.Errorf("extract of an unknown identifier: got %q", newickOf(t, sub))
	}

	// the reference tree must be untouched
	if got := newickOf(t, ref); got != src {
		t.Errorf("reference tree modified: got %q", got)
	}
}

func TestExtractCollapse(t *testing.T) {
	ix := mustIndex(t, "(P_id1:1,Q_id2:1)X_id10:2;")

	// an exclusion leaves a unifurcation;
	// it must be preserved unless asked for
	sub := ix.Extract("id10", []string{"id2"}, false)
	if got, want := newickOf(t, sub), "(P_id1:1)X_id10:2;"; got != want {
		t.Errorf("extract: got %q, want %q", got, want)
	}

	sub = ix.Extract("id10", []string{"id2"}, true)
	if got, want := newickOf(t, sub), "P_id1:3;"; got != want {
		t.Errorf("extract with collapse: got %q, want %q", got, want)
	}
}

func TestGraft(t *testing.T) {
	skel := "(A_id100:1,Mammals_id10~-id2@:2)Root_id0;"
	sn := mustRead(t, skel)
	ix := mustIndex(t, "(P_id1:1,Q_id2:1,R_id3:1)Mammalia_id10:5;")

	merged, rep, err := graft.Graft(sn, ix)
	if err != nil {
		t.Fatalf("unable to graft: %v", err)
	}
	if len(rep.Unresolved) > 0 {
		t.Fatalf("unresolved graft points: %v", rep.Unresolved)
	}

	// the placeholder keeps its label and branch length,
	// the attached clade comes without the excluded taxon
	want := "(A_id100:1,(P_id1:1,R_id3:1)Mammals_id10:2)Root_id0;"
	if got := newickOf(t, merged); got != want {
		t.Errorf("grafted tree: got %q, want %q", got, want)
	}
	if err := tree.ValidateIDs(merged); err != nil {
		t.Errorf("grafted tree: %v", err)
	}

	// the skeleton must be untouched
	if got := newickOf(t, sn); got != skel {
		t.Errorf("skeleton tree modified: got %q", got)
	}
}

func TestGraftUnresolved(t *testing.T) {
	sn := mustRead(t, "(A_id100:1,Unknown_id999@:2)Root_id0;")
	ix := mustIndex(t, "(P_id1:1,Q_id2:1)Mammalia_id10:5;")

	merged, rep, err := graft.Graft(sn, ix)
	if err != nil {
		t.Fatalf("unable to graft: %v", err)
	}
	if !reflect.DeepEqual(rep.Unresolved, []string{"id999"}) {
		t.Errorf("unresolved graft points: got %v, want %v", rep.Unresolved, []string{"id999"})
	}

	// a missing clade never aborts the build:
	// the directive is kept verbatim in the output
	want := "(A_id100:1,Unknown_id999@:2)Root_id0;"
	if got := newickOf(t, merged); got != want {
		t.Errorf("grafted tree: got %q, want %q", got, want)
	}
}

func TestGraftTwice(t *testing.T) {
	sn := mustRead(t, "(X_id10@:1,Y~id10@:2)Root;")
	ix := mustIndex(t, "(P_id1:1,Q_id2:1)Mammalia_id10:5;")

	if _, _, err := graft.Graft(sn, ix); err == nil {
		t.Errorf("expecting an error: subtree attached at two graft points")
	}
}
