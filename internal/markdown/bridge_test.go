package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/ghrefs/internal/mdast"
)

func fromSource(t *testing.T, src string) *mdast.Other {
	t.Helper()
	b := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(b))
	root, ok := FromGoldmark(doc, b).(*mdast.Other)
	require.True(t, ok)
	return root
}

func paragraph(t *testing.T, root *mdast.Other) []mdast.Node {
	t.Helper()
	require.NotEmpty(t, root.Children)
	p, ok := root.Children[0].(*mdast.Other)
	require.True(t, ok)
	assert.Equal(t, "paragraph", p.Kind)
	return p.Children
}

func TestFromGoldmark_Inline(t *testing.T) {
	root := fromSource(t, "a [b](u \"t\") **c** *d* `e` <https://x.y>\n")
	assert.Equal(t, "document", root.Kind)

	var links []*mdast.Link
	var kinds []string
	for _, c := range paragraph(t, root) {
		if _, ok := c.(*mdast.Text); ok {
			continue
		}
		kinds = append(kinds, c.Type())
		if l, ok := c.(*mdast.Link); ok {
			links = append(links, l)
		}
	}
	assert.Equal(t, []string{"link", "strong", KindEmphasis, "inlineCode", "link"}, kinds)

	require.Len(t, links, 2)
	assert.Equal(t, "u", links[0].URL)
	require.NotNil(t, links[0].Title)
	assert.Equal(t, "t", *links[0].Title)
	assert.Equal(t, "https://x.y", links[1].URL)
	assert.Equal(t, "https://x.y", mdast.ToString(links[1]))
}

func TestFromGoldmark_MergesText(t *testing.T) {
	children := paragraph(t, fromSource(t, "a*b \\#4 &amp; c\nd\n"))

	var kinds, values []string
	for _, c := range children {
		kinds = append(kinds, c.Type())
		switch v := c.(type) {
		case *mdast.Text:
			values = append(values, v.Value)
		case *mdast.Other:
			values = append(values, v.Value)
		}
	}
	assert.Equal(t, []string{"text", KindSoftBreak, "text"}, kinds)
	assert.Equal(t, []string{"a*b #4 & c", "\n", "d"}, values)

	first := children[0].(*mdast.Text)
	assert.Equal(t, []int{4, 7}, first.Escaped)
	assert.True(t, first.IsEscaped(4))
	assert.False(t, first.IsEscaped(5))
}

func TestTextSource_Slice(t *testing.T) {
	src := "x &copy;&amp; y\n"
	first := paragraph(t, fromSource(t, src))[0].(*mdast.Text)
	require.Equal(t, "x \u00a9& y", first.Value)

	whole, ok := first.Source.(*textSource)
	require.True(t, ok)
	wholeSeg := whole.segment()
	assert.Equal(t, "x &copy;&amp; y", string(wholeSeg.Value([]byte(src))))

	tail := first.Slice(4, len(first.Value))
	assert.Equal(t, "& y", tail.Value)
	assert.Equal(t, []int{0}, tail.Escaped)
	seg := tail.Source.(*textSource).segment()
	assert.Equal(t, "&amp; y", string(seg.Value([]byte(src))))

	// The copyright sign decodes to two bytes; cutting between them loses
	// the source form.
	assert.Nil(t, first.Slice(3, 5).Source)
}

func TestFromGoldmark_LeavesAreOpaque(t *testing.T) {
	root := fromSource(t, "![alt #4](x.png)\n\n```\n#5\n```\n")
	img := paragraph(t, root)[0].(*mdast.Other)
	assert.Nil(t, img.Children)

	block := root.Children[1].(*mdast.Other)
	assert.Equal(t, "fencedCodeBlock", block.Kind)
	assert.Nil(t, block.Children)
}

func TestToGoldmark_NewNodes(t *testing.T) {
	src := []byte("x\n")
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	root := FromGoldmark(doc, src).(*mdast.Other)
	para := root.Children[0].(*mdast.Other)

	para.Children = []mdast.Node{
		mdast.NewText("see "),
		mdast.NewLink("https://github.com/foo/bar/commit/0123abc", mdast.NewInlineCode("0123abc")),
		mdast.NewStrong(mdast.NewText("!")),
	}
	ToGoldmark(root)

	gpara := doc.FirstChild()
	require.Equal(t, 3, gpara.ChildCount())
	assert.Equal(t, gast.KindString, gpara.FirstChild().Kind())

	link, ok := gpara.FirstChild().NextSibling().(*gast.Link)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/foo/bar/commit/0123abc", string(link.Destination))
	assert.Equal(t, KindCodeText, link.FirstChild().Kind())

	strong, ok := gpara.LastChild().(*gast.Emphasis)
	require.True(t, ok)
	assert.Equal(t, 2, strong.Level)
}
