package rules

import "github.com/gaurav-prasanna/clip2md/core/tree"

// Rule recognizes one kind of platform markup and renders it. content is
// the Markdown the converter already produced for the node's children.
type Rule interface {
	Name() string
	Category() Category
	Match(n tree.Node) bool
	Render(content string, n tree.Node, opts Options) string
}

// Registry is an ordered rule list. The first rule whose Match returns
// true owns the node. A Registry never changes after construction.
type Registry struct {
	rules []Rule
}

// standard backs Classify.
var standard = NewRegistry()

// NewRegistry returns the standard rules in priority order. Cells and
// tables come first since their tags overlap nothing else; task groups
// shadow task wrappers so a group holding several tasks stays a
// pass-through; inline code wins over code block for a span matching both.
func NewRegistry() *Registry {
	return &Registry{rules: []Rule{
		tableCellRule{},
		tableRule{},
		taskContainerRule{},
		taskWrapperRule{},
		listContainerRule{},
		listItemRule{},
		inlineCodeRule{},
		codeBlockRule{},
	}}
}

// Match returns the rule that owns n.
func (r *Registry) Match(n tree.Node) (Rule, bool) {
	if n.Kind() != tree.ElementNode {
		return nil, false
	}
	for _, rule := range r.rules {
		if rule.Match(n) {
			return rule, true
		}
	}
	return nil, false
}

// Rules returns the rules in priority order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Names returns the rule names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}
	return names
}

type codeBlockRule struct{}

func (codeBlockRule) Name() string                                  { return "confluenceCodeBlock" }
func (codeBlockRule) Category() Category                            { return CodeBlock }
func (codeBlockRule) Match(n tree.Node) bool                        { return IsCodeBlock(n) }
func (codeBlockRule) Render(_ string, n tree.Node, _ Options) string { return RenderCodeBlock(n) }

type inlineCodeRule struct{}

func (inlineCodeRule) Name() string                                  { return "confluenceCodeSpan" }
func (inlineCodeRule) Category() Category                            { return InlineCode }
func (inlineCodeRule) Match(n tree.Node) bool                        { return IsInlineCode(n) }
func (inlineCodeRule) Render(_ string, n tree.Node, _ Options) string { return RenderInlineCode(n) }

type listItemRule struct{}

func (listItemRule) Name() string           { return "confluenceListItem" }
func (listItemRule) Category() Category     { return ListItem }
func (listItemRule) Match(n tree.Node) bool { return IsListItem(n) }
func (listItemRule) Render(content string, n tree.Node, opts Options) string {
	return RenderListItem(content, n, opts)
}

type listContainerRule struct{}

func (listContainerRule) Name() string           { return "confluenceList" }
func (listContainerRule) Category() Category     { return ListContainer }
func (listContainerRule) Match(n tree.Node) bool { return IsListContainer(n) }
func (listContainerRule) Render(content string, n tree.Node, _ Options) string {
	return RenderListContainer(content, n)
}

type taskWrapperRule struct{}

func (taskWrapperRule) Name() string           { return "confluenceTaskWrapper" }
func (taskWrapperRule) Category() Category     { return TaskWrapper }
func (taskWrapperRule) Match(n tree.Node) bool { return IsTaskWrapper(n) }
func (taskWrapperRule) Render(content string, n tree.Node, _ Options) string {
	return RenderTask(content, n)
}

type taskContainerRule struct{}

func (taskContainerRule) Name() string                                        { return "confluenceTaskContainer" }
func (taskContainerRule) Category() Category                                  { return TaskContainer }
func (taskContainerRule) Match(n tree.Node) bool                              { return IsTaskContainer(n) }
func (taskContainerRule) Render(content string, _ tree.Node, _ Options) string { return content }

type tableRule struct{}

func (tableRule) Name() string                                  { return "table" }
func (tableRule) Category() Category                            { return Table }
func (tableRule) Match(n tree.Node) bool                        { return IsTable(n) }
func (tableRule) Render(_ string, n tree.Node, _ Options) string { return FormatTable(ReadTable(n)) }

type tableCellRule struct{}

func (tableCellRule) Name() string                                        { return "tableCell" }
func (tableCellRule) Category() Category                                  { return TableCell }
func (tableCellRule) Match(n tree.Node) bool                              { return IsTableCell(n) }
func (tableCellRule) Render(content string, _ tree.Node, _ Options) string { return content }

// NeedsContent reports whether the rule renders from child content. Rules
// that read the node directly let the converter skip the children.
func NeedsContent(r Rule) bool {
	switch r.Category() {
	case CodeBlock, InlineCode, Table:
		return false
	}
	return true
}
