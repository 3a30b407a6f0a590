package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tr, _, err := Parse(src)
	require.NoError(t, err)
	return tr
}

func byTag(tag string) func(Node) bool {
	return func(n Node) bool { return n.Is(tag) }
}

func TestBuildKeepsParentLinks(t *testing.T) {
	tr := mustParse(t, `<div id="a"><ul><li><span>x</span></li></ul></div>`)

	span, ok := tr.Root().Find(byTag("span"))
	require.True(t, ok)

	var chain []string
	for p, ok := span.Parent(); ok; p, ok = p.Parent() {
		if p.Kind() == ElementNode {
			chain = append(chain, p.Tag())
		}
	}
	assert.Equal(t, []string{"li", "ul", "div", "body", "html"}, chain)
}

func TestLookupMapsLiveNodes(t *testing.T) {
	tr, doc, err := Parse(`<p class="x">hi</p>`)
	require.NoError(t, err)

	body := doc.FirstChild.LastChild
	p := body.FirstChild
	n, ok := tr.Lookup(p)
	require.True(t, ok)
	assert.Equal(t, "p", n.Tag())
	assert.Equal(t, "x", n.Class())

	_, ok = Build(nil).Lookup(p)
	assert.False(t, ok)
}

func TestAttributes(t *testing.T) {
	tr := mustParse(t, `<input type="checkbox" checked data-empty="">`)
	in, ok := tr.Root().Find(byTag("input"))
	require.True(t, ok)

	assert.True(t, in.HasAttr("checked"))
	v, ok := in.Attr("data-empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, "fallback", in.AttrOr("missing", "fallback"))
}

func TestFindAllDocumentOrder(t *testing.T) {
	tr := mustParse(t, `<table><tr><td>1</td><td>2</td></tr><tr><td>3</td></tr></table>`)
	cells := tr.Root().FindAll(byTag("td"))
	require.Len(t, cells, 3)
	for i, want := range []string{"1", "2", "3"} {
		assert.Equal(t, want, cells[i].Text())
	}
}

func TestTextVariants(t *testing.T) {
	tr := mustParse(t, "<div>  a \n  b<pre>  x\n  y</pre><span>c<br>d</span></div>")
	div, ok := tr.Root().Find(byTag("div"))
	require.True(t, ok)

	assert.Equal(t, "  a \n  b  x\n  ycd", div.Text())
	assert.Equal(t, " a b  x\n  ycd", div.CollapsedText())

	span, _ := div.Find(byTag("span"))
	assert.Equal(t, "c\nd", span.LineText())
}

func TestInvalidNodeIsSafe(t *testing.T) {
	var n Node
	assert.False(t, n.Valid())
	assert.Equal(t, "", n.Tag())
	assert.False(t, n.Is("div"))
	assert.Nil(t, n.Children())
	_, ok := n.Parent()
	assert.False(t, ok)
	assert.False(t, n.Has(byTag("p")))
}
