package markdown

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindCodeText is the NodeKind of CodeText.
var KindCodeText = gast.NewNodeKind("CodeText")

// CodeText is a code span whose content is not backed by the source, such as
// the abbreviated hash inside a generated commit link. goldmark's own CodeSpan
// can only render source segments.
type CodeText struct {
	gast.BaseInline
	Value []byte
}

// NewCodeText returns a CodeText holding value.
func NewCodeText(value []byte) *CodeText {
	return &CodeText{Value: value}
}

func (n *CodeText) Kind() gast.NodeKind { return KindCodeText }

func (n *CodeText) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

type codeTextRenderer struct{}

func (r *codeTextRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCodeText, r.render)
}

func (r *codeTextRenderer) render(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*CodeText)
	_, _ = w.WriteString("<code>")
	_, _ = w.Write(util.EscapeHTML(n.Value))
	_, _ = w.WriteString("</code>")
	return gast.WalkSkipChildren, nil
}
