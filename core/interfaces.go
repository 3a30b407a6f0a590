// Package core defines the pipeline interfaces for clip2md.
// Each stage of the pipeline is a clean, testable interface:
// fetch → extract → normalize → render → write.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// PageMetadata describes where a converted document came from.
type PageMetadata struct {
	Source      string `json:"source" yaml:"source"` // file path, URL or "stdin"
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	ConvertedAt string `json:"converted_at" yaml:"converted_at"` // ISO8601
}

// Heading represents a single heading found in the content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in the content.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Task is a checkbox item found in the content.
type Task struct {
	Done  bool   `json:"done"`
	Depth int    `json:"depth"`
	Text  string `json:"text"`
}

// DocumentStructure holds structural metadata parsed from the Markdown.
type DocumentStructure struct {
	Headings      []Heading `json:"headings"`
	Links         []Link    `json:"links"`
	Tasks         []Task    `json:"tasks"`
	CodeBlocks    int       `json:"code_blocks"`
	CodeLanguages []string  `json:"code_languages"`
	Tables        int       `json:"tables"`
	ListItems     int       `json:"list_items"`
}

// DocumentJSON is the complete JSON output for a single document.
type DocumentJSON struct {
	Metadata  PageMetadata      `json:"metadata"`
	Markdown  string            `json:"markdown"`
	Structure DocumentStructure `json:"structure"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor pulls the document body out of a full HTML page.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts HTML into Markdown (the canonical format).
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
