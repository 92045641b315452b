package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/ghrefs/internal/ghref"
)

type anchor struct {
	Href   string
	Text   string
	Code   bool
	Strong bool
}

func newTransformer(t *testing.T) *ghref.Transformer {
	t.Helper()
	tr, err := ghref.New("foo/bar")
	require.NoError(t, err)
	return tr
}

func render(t *testing.T, src string, opts Options) string {
	t.Helper()
	out, err := Render([]byte(src), newTransformer(t), opts)
	require.NoError(t, err)
	return string(out)
}

// anchors returns every <a> element of an HTML fragment in document order.
func anchors(t *testing.T, fragment string) []anchor {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)

	var out []anchor
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			a := anchor{Text: textContent(n), Code: contains(n, atom.Code), Strong: contains(n, atom.Strong)}
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					a.Href = attr.Val
				}
			}
			out = append(out, a)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func contains(n *html.Node, a atom.Atom) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if (c.Type == html.ElementNode && c.DataAtom == a) || contains(c, a) {
			return true
		}
	}
	return false
}

func TestRender_Paragraph(t *testing.T) {
	got := render(t, "See #4 and @wooorm.\n", Options{})
	assert.Equal(t,
		`<p>See <a href="https://github.com/foo/bar/issues/4">#4</a> and `+
			`<a href="https://github.com/wooorm"><strong>@wooorm</strong></a>.</p>`+"\n",
		got)
}

func TestRender_Commit(t *testing.T) {
	got := render(t, "Fixed in 0123abcd.\n", Options{})
	assert.Equal(t,
		`<p>Fixed in <a href="https://github.com/foo/bar/commit/0123abcd"><code>0123abc</code></a>.</p>`+"\n",
		got)
}

func TestRender_SkipsCode(t *testing.T) {
	got := render(t, "`#4`\n\n```\n#5\n```\n\n    #6\n", Options{})
	assert.Empty(t, anchors(t, got))
	assert.Contains(t, got, "<code>#4</code>")
	assert.Contains(t, got, "#5")
	assert.Contains(t, got, "#6")
}

func TestRender_SkipsExistingLinks(t *testing.T) {
	src := "[#4](https://example.com) [x #5][ref] ![#6](img.png)\n\n[ref]: https://example.com/r\n"
	got := render(t, src, Options{})
	assert.Equal(t, []anchor{
		{Href: "https://example.com", Text: "#4"},
		{Href: "https://example.com/r", Text: "x #5"},
	}, anchors(t, got))
}

func TestRender_ShortensAutolinks(t *testing.T) {
	got := render(t, "<https://github.com/foo/bar/issues/4>\n", Options{})
	assert.Equal(t, []anchor{{Href: "https://github.com/foo/bar/issues/4", Text: "#4"}}, anchors(t, got))
}

func TestRender_KeepsOtherAutolinks(t *testing.T) {
	got := render(t, "<https://example.com/#4> <someone@example.com>\n", Options{})
	assert.Equal(t, []anchor{
		{Href: "https://example.com/#4", Text: "https://example.com/#4"},
		{Href: "mailto:someone@example.com", Text: "someone@example.com"},
	}, anchors(t, got))
}

func TestRender_Linkify(t *testing.T) {
	const src = "see https://github.com/other/repo/commit/0123abcdef\n"

	got := render(t, src, Options{Linkify: true})
	assert.Equal(t, []anchor{{
		Href: "https://github.com/other/repo/commit/0123abcdef",
		Text: "other/repo@0123abc",
		Code: true,
	}}, anchors(t, got))

	plain := render(t, src, Options{})
	assert.Empty(t, anchors(t, plain))
	assert.Contains(t, plain, "https://github.com/other/repo/commit/0123abcdef")
}

func TestRender_Escapes(t *testing.T) {
	got := render(t, "\\#4 and &#35;5 and \\@wooorm\n", Options{})
	assert.Empty(t, anchors(t, got))
	assert.Equal(t, "<p>#4 and #5 and @wooorm</p>\n", got)
}

func TestRender_EscapedNeighbours(t *testing.T) {
	for _, src := range []string{
		"#4\\_x\n",
		"&amp;0123abc\n",
		"a&nbsp;0123abc\n",
		"x\\@wooorm\n",
	} {
		t.Run(src, func(t *testing.T) {
			assert.Empty(t, anchors(t, render(t, src, Options{})))
		})
	}

	assert.Equal(t, "<p>#4_x</p>\n", render(t, "#4\\_x\n", Options{}))

	got := render(t, "@foo\\/bar\n", Options{})
	assert.Equal(t, []anchor{{Href: "https://github.com/foo/bar", Text: "@foo/bar", Strong: true}}, anchors(t, got))
}

func TestRender_KeepsEscapesAroundLinks(t *testing.T) {
	got := render(t, "\\*see\\* #4 &amp; &lt;b&gt;\n", Options{})
	assert.Equal(t,
		`<p>*see* <a href="https://github.com/foo/bar/issues/4">#4</a> &amp; &lt;b&gt;</p>`+"\n",
		got)
}

func TestRender_Breaks(t *testing.T) {
	got := render(t, "first line\n#4  \n#5\n", Options{})
	assert.Len(t, anchors(t, got), 2)
	assert.Contains(t, got, "first line\n<a")
	assert.Contains(t, got, "<br>\n")

	xhtml := render(t, "a  \nb\n", Options{XHTML: true})
	assert.Contains(t, xhtml, "<br />\n")
}

func TestRender_Containers(t *testing.T) {
	src := "*#4* ~~#5~~ **#6**\n\n| a |\n| --- |\n| #7 |\n\n- #8\n"
	got := render(t, src, Options{})

	var hrefs []string
	for _, a := range anchors(t, got) {
		hrefs = append(hrefs, a.Href)
	}
	assert.Equal(t, []string{
		"https://github.com/foo/bar/issues/4",
		"https://github.com/foo/bar/issues/5",
		"https://github.com/foo/bar/issues/6",
		"https://github.com/foo/bar/issues/7",
		"https://github.com/foo/bar/issues/8",
	}, hrefs)
	assert.Contains(t, got, "<em><a ")
	assert.Contains(t, got, "<del><a ")
}

func TestRender_EscapesHTML(t *testing.T) {
	got := render(t, "a < b & #4\n", Options{})
	assert.Equal(t, `<p>a &lt; b &amp; <a href="https://github.com/foo/bar/issues/4">#4</a></p>`+"\n", got)
}

func TestRender_NilTransformer(t *testing.T) {
	const src = "See #4 and @wooorm.\n"
	out, err := Render([]byte(src), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "<p>See #4 and @wooorm.</p>\n", string(out))
}

// The bridge alone must not change what goldmark renders.
func TestBridge_RoundTrip(t *testing.T) {
	docs := []string{
		"plain *em* **strong** `code` [link](https://example.com \"title\")\n",
		"escapes \\* \\_ \\\\ \\# &amp; &copy; &#35; &#x41; &bogus;\n",
		"soft\nbreak  \nhard\\\nbreak\n",
		"# Heading\n\n> quote\n\n1. one\n2. two\n\n- [ ] task\n",
		"<span>raw</span> ![img](a.png) <https://example.com> www.example.com\n",
		"| a | b |\n| --- | --- |\n| ~~x~~ | `y` |\n",
		"```go\nfunc main() {}\n```\n\n<div>\nblock\n</div>\n",
		"a*b c_d_ e** f\n",
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify))
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			src := []byte(doc)

			var want bytes.Buffer
			require.NoError(t, md.Convert(src, &want))

			root := md.Parser().Parse(text.NewReader(src))
			ToGoldmark(FromGoldmark(root, src))
			var got bytes.Buffer
			require.NoError(t, md.Renderer().Render(&got, src, root))

			assert.Equal(t, want.String(), got.String())
		})
	}
}
