// Package mdast is a small, closed model of an inline Markdown document tree.
//
// It carries exactly the node variants the reference linker needs to tell apart
// (text, link, link reference, strong, inline code) plus an opaque passthrough
// variant for everything else. Parsers and renderers live elsewhere; they map
// their own trees into this one and back.
package mdast

import "slices"

// Node type names. They follow the mdast vocabulary so trees built by other
// tools read the same.
const (
	TypeText          = "text"
	TypeLink          = "link"
	TypeLinkReference = "linkReference"
	TypeStrong        = "strong"
	TypeInlineCode    = "inlineCode"
)

// Node is implemented only by the types in this package.
type Node interface {
	Type() string
	node()
}

// Parent is a Node that owns an ordered child sequence.
type Parent interface {
	Node
	ChildNodes() []Node
	SetChildNodes(children []Node)
}

// Text is a run of plain text.
//
// Source is an opaque handle to whatever the node was built from (for example a
// goldmark node). Nodes created by transformations leave it nil.
//
// Escaped lists, in ascending order, the offsets in Value where a character
// starts that the author wrote escaped (a backslash escape or a character
// reference). Value holds the decoded character.
type Text struct {
	Value   string
	Escaped []int
	Source  any
}

// Slicer is implemented by Text sources that can follow a Text being cut into
// pieces. Slice returns the source of Value[start:end], or nil.
type Slicer interface {
	Slice(start, end int) any
}

// InlineCode is a code span.
type InlineCode struct {
	Value  string
	Source any
}

// Link is a hyperlink. A nil Title renders as no title.
type Link struct {
	URL      string
	Title    *string
	Children []Node
	Source   any
}

// LinkReference is a reference-style link whose destination lives elsewhere.
type LinkReference struct {
	Identifier    string
	Label         string
	ReferenceType string
	Children      []Node
	Source        any
}

// Strong is strong emphasis.
type Strong struct {
	Children []Node
	Source   any
}

// Other is the passthrough variant for every node type the linker does not
// interpret. A nil Children marks an opaque leaf that is never descended into.
type Other struct {
	Kind     string
	Value    string
	Children []Node
	Source   any
}

func (*Text) Type() string          { return TypeText }
func (*InlineCode) Type() string    { return TypeInlineCode }
func (*Link) Type() string          { return TypeLink }
func (*LinkReference) Type() string { return TypeLinkReference }
func (*Strong) Type() string        { return TypeStrong }
func (o *Other) Type() string       { return o.Kind }

func (*Text) node()          {}
func (*InlineCode) node()    {}
func (*Link) node()          {}
func (*LinkReference) node() {}
func (*Strong) node()        {}
func (*Other) node()         {}

func (n *Link) ChildNodes() []Node              { return n.Children }
func (n *Link) SetChildNodes(c []Node)          { n.Children = c }
func (n *LinkReference) ChildNodes() []Node     { return n.Children }
func (n *LinkReference) SetChildNodes(c []Node) { n.Children = c }
func (n *Strong) ChildNodes() []Node            { return n.Children }
func (n *Strong) SetChildNodes(c []Node)        { n.Children = c }
func (n *Other) ChildNodes() []Node             { return n.Children }
func (n *Other) SetChildNodes(c []Node)         { n.Children = c }

// NewText returns a text node.
func NewText(value string) *Text {
	return &Text{Value: value}
}

// Slice returns the text between start and end, keeping the escaped offsets
// in that range and, when it implements Slicer, the source.
func (n *Text) Slice(start, end int) *Text {
	out := &Text{Value: n.Value[start:end]}
	for _, off := range n.Escaped {
		if off >= start && off < end {
			out.Escaped = append(out.Escaped, off-start)
		}
	}
	if s, ok := n.Source.(Slicer); ok {
		out.Source = s.Slice(start, end)
	}
	return out
}

// IsEscaped reports whether the character at offset i was written escaped.
func (n *Text) IsEscaped(i int) bool {
	_, found := slices.BinarySearch(n.Escaped, i)
	return found
}

// NewInlineCode returns an inline code node.
func NewInlineCode(value string) *InlineCode {
	return &InlineCode{Value: value}
}

// NewLink returns a link without a title.
func NewLink(url string, children ...Node) *Link {
	return &Link{URL: url, Children: children}
}

// NewStrong returns a strong node wrapping children.
func NewStrong(children ...Node) *Strong {
	return &Strong{Children: children}
}

// NewRoot returns an empty passthrough container suitable as a tree root.
func NewRoot(children ...Node) *Other {
	if children == nil {
		children = []Node{}
	}
	return &Other{Kind: "root", Children: children}
}
