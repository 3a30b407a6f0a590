package tree

import (
	"strings"
)

// Text returns the concatenated text of n and its descendants, with
// whitespace exactly as parsed.
func (n Node) Text() string {
	if n.Kind() == TextNode {
		return n.ref().text
	}
	var b strings.Builder
	n.walk(func(d Node) bool {
		if d.Kind() == TextNode {
			b.WriteString(d.ref().text)
		}
		return true
	})
	return b.String()
}

// LineText reads text the way a code line is displayed: text nodes are
// concatenated verbatim and every <br> becomes a newline.
func (n Node) LineText() string {
	var b strings.Builder
	n.walk(func(d Node) bool {
		switch {
		case d.Kind() == TextNode:
			b.WriteString(d.ref().text)
		case d.Is("br"):
			b.WriteByte('\n')
		}
		return true
	})
	return b.String()
}

// CollapsedText returns the text content with every whitespace run
// outside <pre> collapsed to a single space, which is how a browser
// renders the same markup.
func (n Node) CollapsedText() string {
	if n.Kind() == TextNode {
		return collapse(n.ref().text)
	}
	var b strings.Builder
	n.walk(func(d Node) bool {
		if d.Kind() != TextNode {
			return true
		}
		s := d.ref().text
		if !d.insidePre(n) {
			s = collapse(s)
			if strings.HasPrefix(s, " ") && strings.HasSuffix(b.String(), " ") {
				s = s[1:]
			}
		}
		b.WriteString(s)
		return true
	})
	return b.String()
}

// insidePre reports whether a <pre> sits between n and stop, inclusive of stop.
func (n Node) insidePre(stop Node) bool {
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if p.Is("pre") {
			return true
		}
		if p.id == stop.id {
			return false
		}
	}
	return false
}

func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
				space = true
			}
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
