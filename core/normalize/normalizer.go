// Package normalize implements the Normalizer interface.
// It converts pasted HTML into Markdown, which serves as the canonical
// intermediate format for all downstream renderers.
//
// Generic markup is handled by html-to-markdown's base and commonmark
// plugins. The platform rules from package rules are installed in front of
// them and claim the nodes they recognize.
package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/marker"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/clip2md/core/rules"
	"github.com/gaurav-prasanna/clip2md/core/tree"
)

// MarkdownNormalizer converts HTML to Markdown. It holds only read-only
// state and is safe for concurrent use.
type MarkdownNormalizer struct {
	registry *rules.Registry
	opts     rules.Options
}

// New creates a MarkdownNormalizer. A nil registry selects the standard rules.
func New(registry *rules.Registry, opts rules.Options) *MarkdownNormalizer {
	if registry == nil {
		registry = rules.NewRegistry()
	}
	return &MarkdownNormalizer{registry: registry, opts: opts}
}

// Options returns the options the normalizer was built with.
func (n *MarkdownNormalizer) Options() rules.Options { return n.opts }

// Normalize converts an HTML document or fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	// The snapshot must be taken before the converter runs: its
	// pre-render pass collapses whitespace and drops <input> elements,
	// both of which the rules depend on.
	snapshot, doc, err := tree.Parse(input)
	if err != nil {
		return "", err
	}

	conv := n.converter(snapshot)
	markdown, err := conv.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return string(markdown), nil
}

// converter assembles an html-to-markdown converter bound to one snapshot.
func (n *MarkdownNormalizer) converter(snapshot *tree.Tree) *converter.Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(n.commonmarkOptions()...),
		),
	)
	d := &dispatcher{registry: n.registry, opts: n.opts, snapshot: snapshot}
	conv.Register.Renderer(d.render, converter.PriorityEarly)
	return conv
}

func (n *MarkdownNormalizer) commonmarkOptions() []commonmark.OptionFunc {
	heading := commonmark.HeadingStyleATX
	if n.opts.HeadingStyle == "setext" {
		heading = commonmark.HeadingStyleSetext
	}
	opts := []commonmark.OptionFunc{
		commonmark.WithHeadingStyle(heading),
		commonmark.WithCodeBlockFence("```"),
	}
	if n.opts.BulletListMarker != "" {
		opts = append(opts, commonmark.WithBulletListMarker(n.opts.BulletListMarker))
	}
	return opts
}

// dispatcher routes element nodes to the first matching rule and lets
// everything else fall through to the commonmark renderers.
type dispatcher struct {
	registry *rules.Registry
	opts     rules.Options
	snapshot *tree.Tree
}

func (d *dispatcher) render(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	if n.Type != html.ElementNode {
		return converter.RenderTryNext
	}
	switch dom.NodeName(n) {
	case "div", "span", "pre", "code", "li", "ul", "ol", "table", "th", "td":
	default:
		return converter.RenderTryNext
	}

	node, ok := d.snapshot.Lookup(n)
	if !ok {
		return converter.RenderTryNext
	}
	rule, ok := d.registry.Match(node)
	if !ok {
		return converter.RenderTryNext
	}

	switch rule.Category() {
	case rules.CodeBlock:
		// Newlines inside the fence are written as markers so the
		// converter's blank-line trimming cannot reach them.
		lang, code := rules.ReadCodeBlock(node)
		w.WriteString(rules.FormatCodeBlock(lang, code, string(marker.MarkerCodeBlockNewline)))
		return converter.RenderSuccess
	case rules.ListContainer:
		content := d.renderListItems(ctx, n)
		w.WriteString(rule.Render(content, node, d.opts))
		return converter.RenderSuccess
	}

	var content string
	if rules.NeedsContent(rule) {
		content = d.renderChildren(ctx, n, rule.Category())
	}
	w.WriteString(rule.Render(content, node, d.opts))
	return converter.RenderSuccess
}

// renderChildren converts the children of n with the full converter.
// Whitespace between the blocks of a task container is layout and is
// skipped so it cannot leak into line indentation.
func (d *dispatcher) renderChildren(ctx converter.Context, n *html.Node, cat rules.Category) string {
	structural := cat == rules.TaskContainer

	var buf bytes.Buffer
	for _, c := range dom.AllChildNodes(n) {
		if structural && isBlank(c) {
			continue
		}
		ctx.RenderNodes(ctx, &buf, c)
	}
	return buf.String()
}

// renderListItems converts the items of a claimed list. Renderer items go
// through their own rule; plain <li> siblings get the same line shape so a
// mixed list never carries two bullet styles.
func (d *dispatcher) renderListItems(ctx converter.Context, n *html.Node) string {
	var buf bytes.Buffer
	for _, c := range dom.AllChildNodes(n) {
		if isBlank(c) {
			continue
		}
		item, ok := d.plainItem(c)
		if !ok {
			ctx.RenderNodes(ctx, &buf, c)
			continue
		}
		content := d.renderChildren(ctx, c, rules.ListItem)
		buf.WriteString(rules.RenderListItem(content, item, d.opts))
	}
	return buf.String()
}

// plainItem returns the snapshot node of an <li> that no rule claims.
func (d *dispatcher) plainItem(n *html.Node) (tree.Node, bool) {
	if n.Type != html.ElementNode || dom.NodeName(n) != "li" {
		return tree.Node{}, false
	}
	item, ok := d.snapshot.Lookup(n)
	if !ok {
		return tree.Node{}, false
	}
	if _, claimed := d.registry.Match(item); claimed {
		return tree.Node{}, false
	}
	return item, true
}

func isBlank(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}
