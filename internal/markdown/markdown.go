// Package markdown renders Markdown to HTML with GitHub references linked.
//
// Documents are parsed with goldmark. The reference transformer works on the
// mdast model, so the package bridges between the two trees: FromGoldmark
// before the transform and ToGoldmark after it.
package markdown

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/ghrefs/internal/foundation/errors"
	"git.home.luguber.info/inful/ghrefs/internal/ghref"
)

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// Linkify turns bare URLs into links, so full GitHub URLs get shortened.
	Linkify bool
	// XHTML renders void elements as XHTML.
	XHTML bool
	// Logger receives debug output from the reference transform.
	Logger *slog.Logger
}

// New returns a goldmark instance that links references with tr.
func New(tr *ghref.Transformer, opts Options) goldmark.Markdown {
	ext := NewExtension(tr)
	ext.Logger = opts.Logger

	extensions := []goldmark.Extender{extension.Table, extension.Strikethrough}
	if opts.Linkify {
		extensions = append(extensions, extension.Linkify)
	}
	extensions = append(extensions, ext)

	var rendererOpts []renderer.Option
	if opts.XHTML {
		rendererOpts = append(rendererOpts, html.WithXHTML())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Render converts a Markdown body (frontmatter already removed) to HTML.
func Render(body []byte, tr *ghref.Transformer, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := New(tr, opts).Convert(body, &buf); err != nil {
		return nil, errors.InternalError("failed to render markdown").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}
