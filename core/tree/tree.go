// Package tree holds an immutable snapshot of a parsed HTML document.
//
// Nodes live in a flat arena and point at their parent by index, so
// ancestor walks are plain loops over integers. The snapshot is taken
// before the Markdown converter runs its own pre-processing (whitespace
// collapsing, removal of form elements), which means rules always see the
// document exactly as it was pasted.
package tree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Kind is the type of a node in the arena.
type Kind uint8

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
)

type node struct {
	kind     Kind
	tag      string // lower-case for elements
	attrs    []html.Attribute
	text     string
	parent   int // -1 for the root
	children []int
}

// Tree is the arena. It is read-only once built and safe for concurrent reads.
type Tree struct {
	nodes []node
	index map[*html.Node]int
}

// Parse parses a complete HTML document and snapshots it.
func Parse(src string) (*Tree, *html.Node, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return Build(doc), doc, nil
}

// Build snapshots the tree rooted at root. Comments, doctypes and raw
// nodes are dropped.
func Build(root *html.Node) *Tree {
	t := &Tree{index: make(map[*html.Node]int)}
	if root != nil {
		t.add(root, -1)
	}
	return t
}

func (t *Tree) add(n *html.Node, parent int) int {
	var nd node
	switch n.Type {
	case html.DocumentNode:
		nd.kind = DocumentNode
	case html.ElementNode:
		nd.kind = ElementNode
		nd.tag = strings.ToLower(n.Data)
		nd.attrs = append([]html.Attribute(nil), n.Attr...)
	case html.TextNode:
		nd.kind = TextNode
		nd.text = n.Data
	default:
		return -1
	}
	nd.parent = parent

	id := len(t.nodes)
	t.nodes = append(t.nodes, nd)
	t.index[n] = id

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cid := t.add(c, id); cid >= 0 {
			t.nodes[id].children = append(t.nodes[id].children, cid)
		}
	}
	return id
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the node the tree was built from.
func (t *Tree) Root() Node {
	if len(t.nodes) == 0 {
		return Node{}
	}
	return Node{t: t, id: 0}
}

// Lookup maps a live parser node back to its snapshot.
func (t *Tree) Lookup(n *html.Node) (Node, bool) {
	id, ok := t.index[n]
	if !ok {
		return Node{}, false
	}
	return Node{t: t, id: id}, true
}

// Node is a lightweight handle into a Tree. The zero value is an invalid node.
type Node struct {
	t  *Tree
	id int
}

func (n Node) Valid() bool { return n.t != nil }

func (n Node) ref() *node { return &n.t.nodes[n.id] }

// ID is the arena index of the node.
func (n Node) ID() int { return n.id }

func (n Node) Kind() Kind {
	if !n.Valid() {
		return DocumentNode
	}
	return n.ref().kind
}

// Tag returns the lower-case tag name, or "" for non-elements.
func (n Node) Tag() string {
	if !n.Valid() {
		return ""
	}
	return n.ref().tag
}

// Is reports whether n is an element with one of the given tag names.
func (n Node) Is(tags ...string) bool {
	tag := n.Tag()
	if tag == "" {
		return false
	}
	for _, t := range tags {
		if tag == t {
			return true
		}
	}
	return false
}

// Attr returns the value of the attribute key and whether it is present.
func (n Node) Attr(key string) (string, bool) {
	if !n.Valid() {
		return "", false
	}
	for _, a := range n.ref().attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n Node) AttrOr(key, fallback string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return fallback
}

func (n Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// Class returns the raw class attribute.
func (n Node) Class() string { return n.AttrOr("class", "") }

// Parent returns the parent node; the root has none.
func (n Node) Parent() (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	p := n.ref().parent
	if p < 0 {
		return Node{}, false
	}
	return Node{t: n.t, id: p}, true
}

// Children returns the element and text children in document order.
func (n Node) Children() []Node {
	if !n.Valid() {
		return nil
	}
	ids := n.ref().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{t: n.t, id: id}
	}
	return out
}

// Find returns the first descendant, in document order, for which match
// returns true. n itself is not considered.
func (n Node) Find(match func(Node) bool) (Node, bool) {
	var found Node
	ok := false
	n.walk(func(d Node) bool {
		if match(d) {
			found, ok = d, true
			return false
		}
		return true
	})
	return found, ok
}

// FindAll returns every matching descendant in document order.
func (n Node) FindAll(match func(Node) bool) []Node {
	var out []Node
	n.walk(func(d Node) bool {
		if match(d) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Has reports whether any descendant matches.
func (n Node) Has(match func(Node) bool) bool {
	_, ok := n.Find(match)
	return ok
}

// walk visits descendants in pre-order until visit returns false.
func (n Node) walk(visit func(Node) bool) {
	if !n.Valid() {
		return
	}
	stack := make([]int, 0, 16)
	kids := n.ref().children
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, kids[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(Node{t: n.t, id: id}) {
			return
		}
		kids := n.t.nodes[id].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}
