package markdown

import (
	"log/slog"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/ghrefs/internal/ghref"
	"git.home.luguber.info/inful/ghrefs/internal/logfields"
	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

// Extension links GitHub references while goldmark parses a document.
// A nil Transformer leaves the tree as parsed.
type Extension struct {
	Transformer *ghref.Transformer
	Logger      *slog.Logger
}

// NewExtension returns an Extension that applies tr to every document.
func NewExtension(tr *ghref.Transformer) *Extension {
	return &Extension{Transformer: tr}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&referenceTransformer{ext: e}, 999),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeTextRenderer{}, 500),
	))
}

type referenceTransformer struct {
	ext *Extension
}

func (t *referenceTransformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	if t.ext.Transformer == nil {
		return
	}
	root := FromGoldmark(doc, reader.Source())
	t.ext.Transformer.Transform(root)
	ToGoldmark(root)

	if t.ext.Logger != nil {
		t.ext.Logger.Debug("Linked references",
			logfields.Repository(t.ext.Transformer.Repository().String()),
			logfields.Count(countLinks(root)))
	}
}

func countLinks(root mdast.Node) int {
	n := 0
	mdast.Walk(root, func(node mdast.Node, entering bool) mdast.WalkStatus {
		if _, ok := node.(*mdast.Link); ok && entering {
			n++
		}
		return mdast.WalkContinue
	})
	return n
}
