package ghref

import (
	"log/slog"

	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

// ignored reports whether a subtree must not be scanned for references.
func ignored(n mdast.Node) bool {
	switch n.(type) {
	case *mdast.Link, *mdast.LinkReference:
		return true
	}
	return false
}

// linkReferences replaces references in every text node outside links.
func (t *Transformer) linkReferences(root mdast.Node) {
	mdast.Replace(root, ignored, func(n mdast.Node) ([]mdast.Node, bool) {
		text, ok := n.(*mdast.Text)
		if !ok {
			return nil, false
		}
		nodes := t.scanText(text)
		if len(nodes) == 1 && nodes[0] == mdast.Node(text) {
			return nil, false
		}
		return nodes, true
	})
}

// scanText runs one pass per resolver, in priority order. Each pass only sees
// the plain text left over by the passes before it. Leftover pieces have lost
// their neighbours, so the passes repeat until nothing changes; a second
// Transform therefore finds nothing new.
func (t *Transformer) scanText(text *mdast.Text) []mdast.Node {
	nodes := []mdast.Node{text}
	for changed := true; changed; {
		changed = false
		for _, r := range t.resolvers() {
			next := make([]mdast.Node, 0, len(nodes))
			for _, n := range nodes {
				piece, ok := n.(*mdast.Text)
				if !ok {
					next = append(next, n)
					continue
				}
				out, split := t.split(piece, r)
				changed = changed || split
				next = append(next, out...)
			}
			nodes = next
		}
	}
	return nodes
}

// split scans text left to right for r's pattern. Accepted spans become the
// resolver's node and the scan resumes after them; anything else moves the
// scan forward by one character. No candidate starts on an escaped character,
// but escaped characters still count as neighbours.
func (t *Transformer) split(text *mdast.Text, r resolver) ([]mdast.Node, bool) {
	s := text.Value
	var out []mdast.Node
	start := 0
	for i := 0; i < len(s); {
		if text.IsEscaped(i) {
			i++
			continue
		}
		c, ok := r.match(s, i)
		if !ok {
			i++
			continue
		}
		mc := MatchContext{Input: s, Index: c.Start, Value: c.value(s)}
		node, ok := r.resolve(c, mc)
		if !ok {
			t.logger.Debug("Rejected reference candidate", slog.String("kind", r.name), slog.String("value", mc.Value))
			i++
			continue
		}
		if c.Start > start {
			out = append(out, text.Slice(start, c.Start))
		}
		out = append(out, node)
		start = c.End
		i = c.End
	}
	if out == nil {
		return []mdast.Node{text}, false
	}
	if start < len(s) {
		out = append(out, text.Slice(start, len(s)))
	}
	return out, true
}
