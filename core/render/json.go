package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/gaurav-prasanna/clip2md/core"
)

// JSONRenderer produces the structured JSON report for a document.
type JSONRenderer struct {
	query *gojq.Code
}

// NewJSONRenderer creates a JSONRenderer. A non-empty expr is compiled as
// a jq filter and applied to every report before it is written.
func NewJSONRenderer(expr string) (*JSONRenderer, error) {
	r := &JSONRenderer{}
	if expr == "" {
		return r, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling jq expression: %w", err)
	}
	r.query = code
	return r, nil
}

// Render builds the report from the Markdown and metadata.
func (r *JSONRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	doc := core.DocumentJSON{
		Metadata:  meta,
		Markdown:  markdown,
		Structure: Analyze(markdown),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	if r.query == nil {
		return buf.Bytes(), nil
	}
	return r.filter(buf.Bytes())
}

// filter runs the compiled jq program over data. Each result is encoded
// on its own line, as jq does.
func (r *JSONRenderer) filter(data []byte) ([]byte, error) {
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	iter := r.query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding jq result: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
