// Package rules recognizes the platform's non-standard markup and rebuilds
// it as Markdown: fenced and inline code, nested list items, checkbox task
// lists and tables.
//
// Every rule works on an immutable tree.Node snapshot, never fails, and
// falls back to empty output or to the already converted child content
// when the structure it expects is missing.
package rules

import (
	"strings"

	"github.com/gaurav-prasanna/clip2md/core/tree"
)

// Category is the semantic class a node was recognized as.
type Category int

const (
	None Category = iota
	CodeBlock
	InlineCode
	ListItem
	ListContainer
	TaskWrapper
	TaskContainer
	Table
	TableCell
)

func (c Category) String() string {
	switch c {
	case CodeBlock:
		return "code-block"
	case InlineCode:
		return "inline-code"
	case ListItem:
		return "list-item"
	case ListContainer:
		return "list-container"
	case TaskWrapper:
		return "task-wrapper"
	case TaskContainer:
		return "task-container"
	case Table:
		return "table"
	case TableCell:
		return "table-cell"
	default:
		return "none"
	}
}

// codeClassMarkers are class substrings the platform and common syntax
// highlighters put on code block containers.
var codeClassMarkers = []string{
	"code-block",
	"codeBlock",
	"ak-renderer-code-block",
	"codeContent",
	"syntaxhighlighter",
}

const (
	attrCodeLang      = "data-code-lang"
	attrCodeBlock     = "data-ds--code--code-block"
	attrLanguage      = "data-language"
	attrInlineCode    = "data-inline-code"
	attrStartPos      = "data-renderer-start-pos"
	attrComponent     = "data-component"
	attrTaskID        = "data-task-local-id"
	attrTestID        = "data-testid"
	codeLineIDPrefix  = "renderer-code-block-line-"
	taskIndentMarker  = "24px"
	taskMarginKeyword = "margin"
)

// Classify returns the category of n under the standard rule order.
func Classify(n tree.Node) Category {
	if r, ok := standard.Match(n); ok {
		return r.Category()
	}
	return None
}

// IsCodeBlock reports whether n is a code block container.
func IsCodeBlock(n tree.Node) bool {
	if !n.Is("div", "pre", "span") {
		return false
	}
	class := n.Class()

	if n.Is("span") && (nonEmptyAttr(n, attrCodeLang) || n.HasAttr(attrCodeBlock)) {
		return true
	}
	if containsAny(class, codeClassMarkers) || nonEmptyAttr(n, attrLanguage) || nonEmptyAttr(n, attrCodeLang) {
		return true
	}
	if n.Is("pre") {
		if strings.Contains(class, "code") {
			return true
		}
		if p, ok := n.Parent(); ok && strings.Contains(p.Class(), "code") {
			return true
		}
	}
	if n.Is("div") && n.Has(isTag("pre")) {
		return strings.Contains(class, "code") ||
			n.Has(classContains("code")) ||
			n.Has(classContains("syntaxhighlighter")) ||
			n.Has(isCodeInPre)
	}
	return false
}

// IsInlineCode reports whether n is an inline code span.
func IsInlineCode(n tree.Node) bool {
	if !n.Is("span", "code") {
		return false
	}
	class := n.Class()
	return strings.Contains(class, "code") ||
		strings.Contains(class, "monospace") ||
		n.AttrOr(attrInlineCode, "") == "true"
}

// IsListItem reports whether n is a list item produced by the document
// renderer. Checkbox items belong to the task rules.
func IsListItem(n tree.Node) bool {
	return n.Is("li") &&
		n.Has(isRendererParagraph) &&
		!n.Has(isCheckbox)
}

// IsListContainer reports whether n is a list with at least one renderer
// list item among its direct children. Plain items of such a list are
// formatted the same way as the renderer ones.
func IsListContainer(n tree.Node) bool {
	if !n.Is("ul", "ol") {
		return false
	}
	for _, c := range n.Children() {
		if c.Kind() == tree.ElementNode && IsListItem(c) {
			return true
		}
	}
	return false
}

// IsTaskWrapper reports whether n holds a single checkbox task.
func IsTaskWrapper(n tree.Node) bool {
	return n.Is("div") && n.Has(isCheckbox) && n.Has(isContentMarker)
}

// IsTaskContainer reports whether n is a structural task group.
func IsTaskContainer(n tree.Node) bool {
	return n.Is("div") && (nonEmptyAttr(n, attrTaskID) || n.AttrOr("role", "") == "group")
}

func IsTable(n tree.Node) bool { return n.Is("table") }

func IsTableCell(n tree.Node) bool { return n.Is("th", "td") }

func isTag(tags ...string) func(tree.Node) bool {
	return func(n tree.Node) bool { return n.Is(tags...) }
}

func classContains(sub string) func(tree.Node) bool {
	return func(n tree.Node) bool { return strings.Contains(n.Class(), sub) }
}

func isCheckbox(n tree.Node) bool {
	return n.Is("input") && strings.EqualFold(n.AttrOr("type", ""), "checkbox")
}

func isContentMarker(n tree.Node) bool {
	return n.AttrOr(attrComponent, "") == "content"
}

func isRendererParagraph(n tree.Node) bool {
	return n.Is("p") && n.HasAttr(attrStartPos)
}

func isCodeInPre(n tree.Node) bool {
	if !n.Is("code") {
		return false
	}
	p, ok := n.Parent()
	return ok && p.Is("pre")
}

func isCodeLine(n tree.Node) bool {
	return strings.HasPrefix(n.AttrOr(attrTestID, ""), codeLineIDPrefix)
}

func nonEmptyAttr(n tree.Node, key string) bool {
	return n.AttrOr(key, "") != ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
