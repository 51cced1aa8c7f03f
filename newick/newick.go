// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package newick implements reading and writing
// of trees in an extended Newick format
// (the "PHY" format).
//
// The format is the standard Newick tree grammar:
// parenthesized,
// comma separated children,
// "label:branch-length" pairs,
// a semicolon at the end,
// optionally preceded by a free text comment
// delimited by square brackets.
//
// Labels can carry a suffix with assembly directives:
//
//	Clade_id123@            the node is a placeholder
//	                        to be replaced by the subtree "id123"
//	                        of a reference tree
//	Clade_id123~-id55@      as above,
//	                        removing the descendant "id55"
//	                        before the attachment
//	Clade~id456-id55@       attach the subtree "id456"
//	                        keeping "Clade" as the node label
//
// A taxon identifier is the token "id" followed by digits,
// attached to the label by an underscore.
package newick

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/js-arias/lifetree/tree"
)

// Read reads a single tree in the extended Newick format.
//
// Syntax errors are fatal
// and report the line and byte offset of the error.
// A duplicate taxon identifier is also a fatal error.
func Read(r io.Reader) (*tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{data: data, line: 1}
	return p.tree()
}

type parser struct {
	data []byte
	pos  int
	line int
}

func (p *parser) errorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return fmt.Errorf("on line %d, at byte %d: %s", p.line, p.pos, msg)
}

func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) skip() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\n':
			p.line++
		case ' ', '\t', '\r':
		default:
			return
		}
		p.pos++
	}
}

// comment skips a bracketed comment block,
// with the position just after the opening bracket.
func (p *parser) comment() error {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '\n' {
			p.line++
		}
		if c == ']' {
			return nil
		}
	}
	return p.errorf("unclosed comment block")
}

func (p *parser) tree() (*tree.Node, error) {
	p.skip()
	for p.peek() == '[' {
		p.pos++
		if err := p.comment(); err != nil {
			return nil, err
		}
		p.skip()
	}
	if p.pos >= len(p.data) {
		return nil, p.errorf("empty input")
	}

	var root *tree.Node
	var stack []*tree.Node
	closed := false
	for {
		p.skip()
		if !closed && p.peek() == '(' {
			n := &tree.Node{}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, n)
			}
			stack = append(stack, n)
			p.pos++
			continue
		}

		// the node that takes the next label:
		// the just closed internal node,
		// or a new terminal
		var n *tree.Node
		if closed {
			n = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		} else {
			n = &tree.Node{}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, n)
			}
		}

		label, err := p.label()
		if err != nil {
			return nil, err
		}
		p.skip()
		if p.peek() == ':' {
			p.pos++
			v, err := p.branchLength()
			if err != nil {
				return nil, err
			}
			n.Length = v
			n.HasLength = true
		}
		if label != "" {
			if err := parseLabel(n, label); err != nil {
				return nil, p.errorf("invalid label %q: %v", label, err)
			}
		}

		if len(stack) == 0 {
			root = n
			break
		}

		p.skip()
		switch p.peek() {
		case ',':
			p.pos++
			closed = false
		case ')':
			p.pos++
			closed = true
		case 0:
			return nil, p.errorf("unbalanced parenthesis: unexpected end of input")
		default:
			return nil, p.errorf("expecting ',' or ')', got %q", string(p.peek()))
		}
	}

	p.skip()
	if p.peek() != ';' {
		if p.peek() == ')' {
			return nil, p.errorf("unbalanced parenthesis")
		}
		return nil, p.errorf("expecting ';' at the end of the tree")
	}
	p.pos++
	p.skip()
	if p.pos < len(p.data) {
		return nil, p.errorf("unexpected text after the tree")
	}

	if err := tree.ValidateIDs(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *parser) label() (string, error) {
	if p.peek() == '\'' {
		p.pos++
		start := p.pos
		for p.pos < len(p.data) {
			c := p.data[p.pos]
			if c == '\'' {
				s := string(p.data[start:p.pos])
				p.pos++
				return s, nil
			}
			if c == '\n' {
				p.line++
			}
			p.pos++
		}
		return "", p.errorf("unclosed quoted label")
	}

	start := p.pos
	for p.pos < len(p.data) {
		if isSep(p.data[p.pos]) {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos]), nil
}

func (p *parser) branchLength() (float64, error) {
	p.skip()
	start := p.pos
	for p.pos < len(p.data) {
		if isSep(p.data[p.pos]) {
			break
		}
		p.pos++
	}
	s := string(p.data[start:p.pos])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, p.errorf("invalid branch length %q", s)
	}
	if v < 0 {
		return 0, p.errorf("negative branch length %q", s)
	}
	return v, nil
}

func isSep(c byte) bool {
	switch c {
	case ',', ';', ':', '(', ')', '[', ']', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

var idSuffix = regexp.MustCompile(`^(?:(.*)_)?(id\d+)$`)

// parseLabel sets the label,
// the taxon identifier,
// and any assembly directive of a node
// from the raw label text.
func parseLabel(n *tree.Node, s string) error {
	if !strings.HasSuffix(s, "@") {
		n.Label, n.ID = splitID(s)
		return nil
	}
	raw := s
	s = strings.TrimSuffix(s, "@")

	g := &tree.Graft{}
	if i := strings.IndexByte(s, '~'); i >= 0 {
		list := s[i+1:]
		s = s[:i]
		for j, e := range strings.Split(list, "-") {
			if j == 0 {
				// an explicit source identifier,
				// empty if the exclusion list
				// starts at a minus sign
				g.ID = e
				continue
			}
			if e == "" {
				return fmt.Errorf("empty excluded identifier in %q", raw)
			}
			g.Exclude = append(g.Exclude, e)
		}
	}
	n.Label, n.ID = splitID(s)
	if g.ID == "" {
		g.ID = n.ID
	}
	n.Graft = g
	return nil
}

func splitID(s string) (label, id string) {
	m := idSuffix.FindStringSubmatch(s)
	if m == nil {
		return s, ""
	}
	return m[1], m[2]
}
