// Package render provides the output renderers for converted documents.
// Markdown is the canonical format; the other renderers derive from it.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/clip2md/core"
)

// MarkdownRenderer writes Markdown, optionally prefixed with a YAML front
// matter block carrying the document metadata.
type MarkdownRenderer struct {
	frontMatter bool
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(frontMatter bool) *MarkdownRenderer {
	return &MarkdownRenderer{frontMatter: frontMatter}
}

// Render returns the Markdown with a single trailing newline.
func (r *MarkdownRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	var buf bytes.Buffer
	if r.frontMatter {
		fm, err := yaml.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("marshaling front matter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(fm)
		buf.WriteString("---\n\n")
	}
	body := strings.TrimRight(markdown, "\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
