// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package calibrate implements the age calibration
// of an assembled tree,
// rescaling branch lengths
// so that the ages of named clades
// match a list of supplied constraints.
package calibrate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/lifetree/tree"
)

// A Constraint fixes the age of the most recent common ancestor
// of two named taxa.
// The age is in the same units as the branch lengths
// (usually million years).
type Constraint struct {
	A, B string
	Age  float64
}

// ReadConstraints reads an ordered list of constraints,
// one per text line,
// in the form:
//
//	mrca: taxonA, taxonB, fixage=66;
//
// Blank lines and lines starting with '#' are ignored.
// A malformed line is a fatal error.
func ReadConstraints(r io.Reader) ([]Constraint, error) {
	var cs []Constraint

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := parseConstraint(line)
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", ln, err)
		}
		cs = append(cs, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cs, nil
}

func parseConstraint(line string) (Constraint, error) {
	s, ok := strings.CutPrefix(line, "mrca:")
	if !ok {
		return Constraint{}, fmt.Errorf("expecting \"mrca:\" directive, got %q", line)
	}
	s, ok = strings.CutSuffix(strings.TrimSpace(s), ";")
	if !ok {
		return Constraint{}, fmt.Errorf("expecting ';' at the end of %q", line)
	}

	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return Constraint{}, fmt.Errorf("expecting two taxa and a fixage value, got %q", line)
	}
	c := Constraint{
		A: strings.TrimSpace(fields[0]),
		B: strings.TrimSpace(fields[1]),
	}
	if c.A == "" || c.B == "" {
		return Constraint{}, fmt.Errorf("empty taxon name in %q", line)
	}

	v, ok := strings.CutPrefix(strings.TrimSpace(fields[2]), "fixage=")
	if !ok {
		return Constraint{}, fmt.Errorf("expecting \"fixage=\" value in %q", line)
	}
	age, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid fixage value %q: %v", v, err)
	}
	if age < 0 {
		return Constraint{}, fmt.Errorf("negative fixage value %q", v)
	}
	c.Age = age
	return c, nil
}

// A Report contains the recoverable failures
// of a calibration run.
type Report struct {
	// Applied is the number of constraints applied.
	Applied int

	// Missing contains the constraints
	// that name a taxon absent from the tree.
	Missing []Constraint

	// Unscalable contains the constraints
	// whose clade has no depth to rescale
	// (every branch below the ancestor is zero or undefined).
	Unscalable []Constraint

	// Repeated contains earlier constraints
	// overridden by a later constraint
	// on the same ancestor node
	// (the later one wins).
	Repeated []Constraint
}

// Calibrate rescales the branch lengths of the tree rooted at root,
// in place,
// so that for each constraint
// the depth of the most recent common ancestor of the two named taxa
// becomes the target age.
// Every branch strictly below the ancestor
// is multiplied by target-age / current-depth,
// preserving the relative proportions of the descendant branches;
// the branch above the ancestor is untouched.
//
// Constraints are applied in the given order,
// so a later constraint nested inside an already rescaled clade
// operates on the rescaled lengths
// and takes precedence.
// A constraint that names an absent taxon is skipped and reported.
// The topology of the tree is never modified.
func Calibrate(root *tree.Node, cs []Constraint) *Report {
	parents := tree.Parents(root)
	byName := make(map[string]*tree.Node)
	for _, n := range tree.Nodes(root) {
		if n.ID != "" {
			if _, ok := byName[n.ID]; !ok {
				byName[n.ID] = n
			}
		}
		if n.Label != "" {
			if _, ok := byName[n.Label]; !ok {
				byName[n.Label] = n
			}
		}
	}

	rep := &Report{}
	seen := make(map[*tree.Node]Constraint)
	for _, c := range cs {
		na := byName[c.A]
		nb := byName[c.B]
		if na == nil || nb == nil {
			rep.Missing = append(rep.Missing, c)
			continue
		}
		m := ancestor(parents, na, nb)

		depth := tree.MaxDepth(m)
		if depth <= 0 {
			rep.Unscalable = append(rep.Unscalable, c)
			continue
		}
		if prev, ok := seen[m]; ok {
			rep.Repeated = append(rep.Repeated, prev)
		}

		factor := c.Age / depth
		for _, n := range tree.Nodes(m) {
			if n == m {
				continue
			}
			if n.HasLength {
				n.Length *= factor
			}
		}
		seen[m] = c
		rep.Applied++
	}
	return rep
}

func ancestor(parents map[*tree.Node]*tree.Node, na, nb *tree.Node) *tree.Node {
	anc := make(map[*tree.Node]bool)
	for p := na; p != nil; p = parents[p] {
		anc[p] = true
	}
	for p := nb; p != nil; p = parents[p] {
		if anc[p] {
			return p
		}
	}
	return na
}
