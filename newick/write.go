// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/lifetree/tree"
)

// Write writes the tree rooted at n
// in the extended Newick format.
//
// Unresolved graft directives are written back verbatim,
// so a best-effort output with leftover placeholders
// can be read again.
func Write(w io.Writer, n *tree.Node) error {
	bw := bufio.NewWriter(w)

	type frame struct {
		n    *tree.Node
		next int
	}
	stack := []frame{{n: n}}
	for len(stack) > 0 {
		i := len(stack) - 1
		c := stack[i].n
		if stack[i].next < len(c.Children) {
			if stack[i].next == 0 {
				bw.WriteByte('(')
			} else {
				bw.WriteByte(',')
			}
			d := c.Children[stack[i].next]
			stack[i].next++
			stack = append(stack, frame{n: d})
			continue
		}
		if len(c.Children) > 0 {
			bw.WriteByte(')')
		}
		writeLabel(bw, c)
		if c.HasLength {
			bw.WriteByte(':')
			bw.WriteString(strconv.FormatFloat(c.Length, 'g', -1, 64))
		}
		stack = stack[:i]
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

func writeLabel(w *bufio.Writer, n *tree.Node) {
	s := n.Label
	if n.ID != "" {
		if s != "" {
			s += "_" + n.ID
		} else {
			s = n.ID
		}
	}
	if g := n.Graft; g != nil {
		if g.ID != "" && g.ID != n.ID {
			s += "~" + g.ID + excludeList(g.Exclude)
		} else if len(g.Exclude) > 0 {
			s += "~" + excludeList(g.Exclude)
		}
		s += "@"
	}
	if s == "" {
		return
	}
	if strings.ContainsAny(s, " \t\n\r(),;:[]") {
		w.WriteByte('\'')
		w.WriteString(s)
		w.WriteByte('\'')
		return
	}
	w.WriteString(s)
}

func excludeList(exclude []string) string {
	var sb strings.Builder
	for _, e := range exclude {
		sb.WriteByte('-')
		sb.WriteString(e)
	}
	return sb.String()
}
