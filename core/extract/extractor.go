// Package extract implements the Extractor interface.
// It isolates the document body from a full page by:
//  1. Removing page chrome (navigation, scripts, comments sidebar, etc.)
//  2. Keeping the first content container the document renderer uses
//
// Fragments copied from the clipboard usually have no container at all;
// they are returned with only the noise removed.
package extract

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before extraction. Checkbox inputs are
// deliberately absent: task lists are rebuilt from them.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header",
	"iframe", "video", "audio", "svg", "canvas",
	"button", "select", "textarea",
	"#comments-section", ".page-metadata", "#likes-and-labels-container",
	"[data-testid=\"page-comments\"]", "[data-testid=\"inline-comment-marker\"]",
}

// containerSelectors are tried in order; the first match wins.
var containerSelectors = []string{
	"#main-content",
	".wiki-content",
	".ak-renderer-document",
	"main",
	"article",
}

// HTMLExtractor strips noise from HTML and returns the content fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract takes raw HTML and returns a cleaned HTML fragment.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	content := doc.Find("body").First()
	for _, sel := range containerSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}
	if content.Length() == 0 {
		return "", fmt.Errorf("no content container found in HTML")
	}

	result, err := content.Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return result, nil
}

// Title returns the page title, if any.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Language returns the first non-empty lang attribute of <html>, <body>
// or the content container.
func Language(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	candidates := doc.Find("html, body").Nodes
	for _, sel := range containerSelectors {
		candidates = append(candidates, doc.Find(sel).Nodes...)
	}
	for _, n := range candidates {
		if lang := dom.GetAttributeOr(n, "lang", ""); lang != "" {
			return lang
		}
	}
	return ""
}
