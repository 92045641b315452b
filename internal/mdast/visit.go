package mdast

import "strings"

// WalkStatus tells Walk how to continue.
type WalkStatus int

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// WalkFunc is called twice per node: once entering, once leaving.
// The status returned when leaving is ignored unless it is WalkStop.
type WalkFunc func(n Node, entering bool) WalkStatus

// Walk traverses the tree depth-first in document order.
func Walk(n Node, fn WalkFunc) {
	walk(n, fn)
}

func walk(n Node, fn WalkFunc) WalkStatus {
	status := fn(n, true)
	if status == WalkStop {
		return WalkStop
	}
	if p, ok := n.(Parent); ok && status != WalkSkipChildren {
		for _, c := range p.ChildNodes() {
			if walk(c, fn) == WalkStop {
				return WalkStop
			}
		}
	}
	if fn(n, false) == WalkStop {
		return WalkStop
	}
	return WalkContinue
}

// ReplaceFunc inspects a node and either leaves it alone (ok == false) or
// returns the nodes that take its place among its siblings. Returned nodes are
// not visited again.
type ReplaceFunc func(n Node) (replacement []Node, ok bool)

// Replace visits every node below root depth-first and splices in the
// replacements produced by fn. Subtrees for which skip reports true are left
// untouched. The root itself is never replaced.
func Replace(root Node, skip func(Node) bool, fn ReplaceFunc) {
	p, ok := root.(Parent)
	if !ok {
		return
	}
	children := p.ChildNodes()
	var out []Node
	changed := false
	for i, c := range children {
		if skip != nil && skip(c) {
			if changed {
				out = append(out, c)
			}
			continue
		}
		if repl, ok := fn(c); ok {
			if !changed {
				out = append(make([]Node, 0, len(children)+len(repl)), children[:i]...)
				changed = true
			}
			out = append(out, repl...)
			continue
		}
		Replace(c, skip, fn)
		if changed {
			out = append(out, c)
		}
	}
	if changed {
		p.SetChildNodes(out)
	}
}

// ToString concatenates the text content of n and its descendants.
func ToString(n Node) string {
	var b strings.Builder
	Walk(n, func(n Node, entering bool) WalkStatus {
		if !entering {
			return WalkContinue
		}
		switch v := n.(type) {
		case *Text:
			b.WriteString(v.Value)
		case *InlineCode:
			b.WriteString(v.Value)
		case *Other:
			b.WriteString(v.Value)
		}
		return WalkContinue
	})
	return b.String()
}
