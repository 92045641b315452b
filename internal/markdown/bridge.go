package markdown

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

// Kinds of passthrough nodes the bridge creates for inline text that is not
// plain text.
const (
	KindSoftBreak = "softBreak"
	KindBreak     = "break"
	KindEmphasis  = "emphasis"
)

// autoLinkLabel marks the label child of a link built from an autolink, so an
// untouched autolink can be handed back to goldmark as is.
type autoLinkLabel struct{}

// FromGoldmark maps a goldmark tree onto an mdast tree. Every mdast node keeps
// the goldmark node (or text segment) it came from in Source, which
// ToGoldmark uses to reuse what was not replaced.
//
// Adjacent text nodes are merged so references spanning goldmark's text
// boundaries are seen whole. Backslash escapes and character references are
// decoded into the text value and their offsets recorded in Text.Escaped.
func FromGoldmark(n gast.Node, source []byte) mdast.Node {
	switch v := n.(type) {
	case *gast.Link:
		l := &mdast.Link{URL: string(v.Destination), Children: fromChildren(v, source), Source: v}
		if len(v.Title) > 0 {
			title := string(v.Title)
			l.Title = &title
		}
		return l
	case *gast.AutoLink:
		label := &mdast.Text{Value: string(v.Label(source)), Source: autoLinkLabel{}}
		return &mdast.Link{URL: string(v.URL(source)), Children: []mdast.Node{label}, Source: v}
	case *gast.Emphasis:
		if v.Level == 2 {
			return &mdast.Strong{Children: fromChildren(v, source), Source: v}
		}
		return &mdast.Other{Kind: KindEmphasis, Children: fromChildren(v, source), Source: v}
	case *gast.CodeSpan:
		return &mdast.InlineCode{Value: codeSpanValue(v, source), Source: v}
	case *gast.Image, *gast.RawHTML, *gast.CodeBlock, *gast.FencedCodeBlock, *gast.HTMLBlock:
		return &mdast.Other{Kind: kindName(n), Source: n}
	case *gast.Text:
		// Only reached for text that cannot be merged, see fromChildren.
		return &mdast.Other{Kind: kindName(n), Value: string(v.Value(source)), Source: n}
	}
	return &mdast.Other{Kind: kindName(n), Children: fromChildren(n, source), Source: n}
}

func fromChildren(parent gast.Node, source []byte) []mdast.Node {
	run := textRun{source: source, out: []mdast.Node{}}
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*gast.Text)
		if !ok || t.IsRaw() || t.Segment.Padding != 0 {
			run.flush()
			run.out = append(run.out, FromGoldmark(c, source))
			continue
		}
		run.addText(t.Segment)
		switch {
		case t.HardLineBreak():
			run.addBreak(KindBreak)
		case t.SoftLineBreak():
			run.addBreak(KindSoftBreak)
		}
	}
	run.flush()
	return run.out
}

// textRun collects consecutive goldmark text segments into mdast nodes.
type textRun struct {
	source  []byte
	out     []mdast.Node
	open    bool
	value   []byte
	escaped []int
	offsets []int
	end     int
}

func (r *textRun) addText(seg text.Segment) {
	if seg.IsEmpty() {
		return
	}
	if r.open && r.end != seg.Start {
		r.flush()
	}
	r.open = true

	s := r.source[:seg.Stop]
	for i := seg.Start; i < seg.Stop; {
		if end, value := escapeAt(s, i); end >= 0 {
			r.escaped = append(r.escaped, len(r.value))
			r.offsets = append(r.offsets, i)
			for k := 1; k < len(value); k++ {
				r.offsets = append(r.offsets, -1)
			}
			r.value = append(r.value, value...)
			i = end
			continue
		}
		r.offsets = append(r.offsets, i)
		r.value = append(r.value, s[i])
		i++
	}
	r.end = seg.Stop
}

func (r *textRun) addBreak(kind string) {
	r.flush()
	r.out = append(r.out, &mdast.Other{Kind: kind, Value: "\n"})
}

func (r *textRun) flush() {
	if !r.open {
		return
	}
	r.out = append(r.out, &mdast.Text{
		Value:   string(r.value),
		Escaped: r.escaped,
		Source:  &textSource{offsets: append(r.offsets, r.end)},
	})
	r.open = false
	r.value, r.escaped, r.offsets = nil, nil, nil
}

// textSource maps a merged text node back to the source it was read from.
// offsets[i] is the source position of byte i of the decoded value, or -1 for
// the trailing bytes of a decoded escape. The last entry is the end of the
// source range.
type textSource struct {
	offsets []int
}

func (t *textSource) segment() text.Segment {
	return text.NewSegment(t.offsets[0], t.offsets[len(t.offsets)-1])
}

// Slice implements mdast.Slicer. A cut through the middle of a decoded escape
// has no source form.
func (t *textSource) Slice(start, end int) any {
	if t.offsets[start] < 0 || t.offsets[end] < 0 {
		return nil
	}
	return &textSource{offsets: t.offsets[start : end+1]}
}

// escapeAt reports the end and decoded value of a backslash escape or
// character reference starting at i, or -1.
func escapeAt(s []byte, i int) (int, string) {
	switch s[i] {
	case '\\':
		if i+1 < len(s) && util.IsPunct(s[i+1]) {
			return i + 2, string(s[i+1])
		}
	case '&':
		j := i + 1
		for j < len(s) && j-i <= 32 && (util.IsAlphaNumeric(s[j]) || s[j] == '#') {
			j++
		}
		if j < len(s) && s[j] == ';' && j > i+1 {
			raw := string(s[i : j+1])
			if decoded := html.UnescapeString(raw); decoded != raw {
				return j + 1, decoded
			}
		}
	}
	return -1, ""
}

func codeSpanValue(n *gast.CodeSpan, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*gast.Text)
		if !ok {
			continue
		}
		v := t.Segment.Value(source)
		if len(v) > 0 && v[len(v)-1] == '\n' {
			b.Write(v[:len(v)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(v)
	}
	return b.String()
}

func kindName(n gast.Node) string {
	name := n.Kind().String()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// ToGoldmark writes an mdast tree produced by FromGoldmark back into the
// goldmark nodes it came from, creating goldmark nodes for everything new.
// It returns the nodes that stand for n among its siblings.
func ToGoldmark(n mdast.Node) []gast.Node {
	switch v := n.(type) {
	case *mdast.Text:
		if src, ok := v.Source.(*textSource); ok {
			return []gast.Node{gast.NewTextSegment(src.segment())}
		}
		// Value is already decoded; write it as is.
		str := gast.NewString([]byte(v.Value))
		str.SetRaw(true)
		return []gast.Node{str}

	case *mdast.InlineCode:
		if src, ok := v.Source.(gast.Node); ok {
			return []gast.Node{src}
		}
		return []gast.Node{NewCodeText([]byte(v.Value))}

	case *mdast.Link:
		switch src := v.Source.(type) {
		case *gast.AutoLink:
			if len(v.Children) == 1 {
				if t, ok := v.Children[0].(*mdast.Text); ok && t.Source == (autoLinkLabel{}) {
					return []gast.Node{src}
				}
			}
			url := v.URL
			if src.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
				url = "mailto:" + url
			}
			return []gast.Node{newLink(url, nil, v.Children)}
		case *gast.Link:
			src.Destination = []byte(v.URL)
			rebuild(src, v.Children)
			return []gast.Node{src}
		}
		return []gast.Node{newLink(v.URL, v.Title, v.Children)}

	case *mdast.Strong:
		src, ok := v.Source.(*gast.Emphasis)
		if !ok {
			src = gast.NewEmphasis(2)
		}
		rebuild(src, v.Children)
		return []gast.Node{src}

	case *mdast.LinkReference:
		if src, ok := v.Source.(gast.Node); ok {
			rebuild(src, v.Children)
			return []gast.Node{src}
		}
		return toGoldmarkAll(v.Children)

	case *mdast.Other:
		if src, ok := v.Source.(gast.Node); ok {
			if v.Children != nil {
				rebuild(src, v.Children)
			}
			return []gast.Node{src}
		}
		switch v.Kind {
		case KindSoftBreak, KindBreak:
			t := gast.NewTextSegment(text.NewSegment(0, 0))
			t.SetSoftLineBreak(v.Kind == KindSoftBreak)
			t.SetHardLineBreak(v.Kind == KindBreak)
			return []gast.Node{t}
		}
		return toGoldmarkAll(v.Children)
	}
	return nil
}

func toGoldmarkAll(children []mdast.Node) []gast.Node {
	var out []gast.Node
	for _, c := range children {
		out = append(out, ToGoldmark(c)...)
	}
	return out
}

func newLink(url string, title *string, children []mdast.Node) *gast.Link {
	l := gast.NewLink()
	l.Destination = []byte(url)
	if title != nil {
		l.Title = []byte(*title)
	}
	rebuild(l, children)
	return l
}

// rebuild replaces the children of parent with the goldmark form of children.
func rebuild(parent gast.Node, children []mdast.Node) {
	converted := toGoldmarkAll(children)
	parent.RemoveChildren(parent)
	for _, c := range converted {
		parent.AppendChild(parent, c)
	}
}
