package rules

import (
	"strings"

	"github.com/gaurav-prasanna/clip2md/core/tree"
)

// ListDepth counts the <ul>/<ol> ancestors of n.
func ListDepth(n tree.Node) int {
	depth := 0
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if p.Is("ul", "ol") {
			depth++
		}
	}
	return depth
}

// TaskDepth counts the task groups n is nested in. Task lists carry no
// list tags; each level is a role=group div indented with a 24px margin.
func TaskDepth(n tree.Node) int {
	depth := 0
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if !p.Is("div") || p.AttrOr("role", "") != "group" {
			continue
		}
		style := p.AttrOr("style", "")
		if strings.Contains(style, taskMarginKeyword) && strings.Contains(style, taskIndentMarker) {
			depth++
		}
	}
	return depth
}

// RenderListItem formats one list item line. Nested levels are indented
// four spaces each.
func RenderListItem(content string, n tree.Node, opts Options) string {
	content = strings.TrimSpace(content)

	indent := ""
	if depth := ListDepth(n); depth > 1 {
		indent = strings.Repeat("    ", depth-1)
	}
	return indent + opts.bullet() + "   " + content + "\n"
}

// RenderListContainer frames the rendered items of a list as a block.
func RenderListContainer(content string, n tree.Node) string {
	if p, ok := n.Parent(); ok && p.Is("li") {
		return "\n" + content
	}
	return "\n\n" + content + "\n\n"
}

// RenderTask formats a checkbox task. Without a checkbox or a content
// marker the already converted content is returned unchanged.
func RenderTask(content string, n tree.Node) string {
	box, ok := n.Find(isCheckbox)
	if !ok {
		return content
	}
	body, ok := n.Find(isContentMarker)
	if !ok {
		return content
	}

	prefix := "- [ ] "
	if box.HasAttr("checked") {
		prefix = "- [x] "
	}
	indent := strings.Repeat("  ", TaskDepth(n))
	return indent + prefix + singleLine(body.Text()) + "\n"
}
