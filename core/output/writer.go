// Package output names and writes converted documents.
// A single source is written flat (page.html → page.md, a URL → host_path.md).
// Crawled pages mirror their URL path under the output directory.
package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// StdinSource is the source name used for documents read from stdin.
const StdinSource = "stdin"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{OutputDir: outputDir}, nil
}

// WriteSource writes output for a single file, URL or stdin source.
func (w *Writer) WriteSource(source string, data []byte, ext string) (string, error) {
	return w.write(filepath.Join(w.OutputDir, BaseName(source)+ext), data)
}

// WriteMirrored writes output for a crawled page, mirroring its URL path.
// Example: https://site.com/docs/intro → <dir>/docs/intro.md
func (w *Writer) WriteMirrored(rawURL string, data []byte, ext string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	segs := []string{}
	for _, seg := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segs = append(segs, sanitize(strings.TrimSuffix(seg, filepath.Ext(seg))))
	}
	if len(segs) == 0 {
		segs = []string{"index"}
	}
	return w.write(filepath.Join(append([]string{w.OutputDir}, segs...)...)+ext, data)
}

func (w *Writer) write(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteTo copies rendered output to an arbitrary stream such as stdout.
func WriteTo(out io.Writer, data []byte) error {
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// BaseName derives a flat file name (without extension) from a source.
func BaseName(source string) string {
	if source == "" || source == "-" || source == StdinSource {
		return "clipboard"
	}
	if parsed, err := url.Parse(source); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		parts := []string{sanitize(parsed.Hostname())}
		for _, seg := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
			if seg != "" {
				parts = append(parts, sanitize(strings.TrimSuffix(seg, filepath.Ext(seg))))
			}
		}
		return strings.Join(parts, "_")
	}
	base := filepath.Base(source)
	return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sanitize replaces everything but letters, digits, '-' and '_' with '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
