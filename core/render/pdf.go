package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/clip2md/core"
)

const (
	pageMargin = 15.0
	lineHeight = 5.0
)

var (
	orderedItemRegex = regexp.MustCompile(`^(\s*)(\d+[.)])\s+(.*)$`)
	bulletItemRegex  = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	boldRegex        = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	italicRegex      = regexp.MustCompile(`(?:^|\s)[*_]([^*_]+)[*_](?:\s|$)`)
	inlineCodeRegex  = regexp.MustCompile("`+\\s?([^`]+?)\\s?`+")
	pdfLinkRegex     = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// PDFRenderer renders Markdown as a PDF document using the core fonts.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator("clip2md", true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		w.cell(8, meta.Title, false)
		pdf.Ln(2)
	}
	if meta.Source != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		w.cell(lineHeight, "Source: "+meta.Source, false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	lines := strings.Split(markdown, "\n")
	fence := ""
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := fenceRegex.FindStringSubmatch(line); m != nil && (fence == "" || (m[1] == fence && m[2] == "")) {
			if fence == "" {
				fence = m[1]
			} else {
				fence = ""
			}
			pdf.Ln(2)
			continue
		}
		if fence != "" {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			w.cell(4.5, line, true)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "|"):
			var rows []string
			for ; i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|"); i++ {
				rows = append(rows, strings.TrimSpace(lines[i]))
			}
			i--
			w.table(rows)
		case headingRegex.MatchString(line):
			m := headingRegex.FindStringSubmatch(line)
			w.heading(m[2], len(m[1]))
		case i+1 < len(lines) && setextRegex.MatchString(lines[i+1]) && !listItemRegex.MatchString(line):
			level := 1
			if strings.HasPrefix(lines[i+1], "-") {
				level = 2
			}
			w.heading(trimmed, level)
			i++
		case taskRegex.MatchString(line):
			m := taskRegex.FindStringSubmatch(line)
			box := "[ ]"
			if m[2] != " " {
				box = "[x]"
			}
			w.item(len(m[1]), box+" "+m[3])
		case bulletItemRegex.MatchString(line):
			m := bulletItemRegex.FindStringSubmatch(line)
			w.item(len(m[1]), "• "+m[2])
		case orderedItemRegex.MatchString(line):
			m := orderedItemRegex.FindStringSubmatch(line)
			w.item(len(m[1]), m[2]+" "+m[3])
		default:
			pdf.SetFont("Helvetica", "", 10)
			w.cell(lineHeight, cleanInline(trimmed), false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// pdfWriter wraps gofpdf with the translation to the core font encoding.
type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) cell(h float64, text string, fill bool) {
	w.pdf.MultiCell(0, h, w.tr(text), "", "L", fill)
}

func (w *pdfWriter) heading(text string, level int) {
	sizes := []float64{18, 15, 13, 12, 11, 10}
	size := sizes[len(sizes)-1]
	if level >= 1 && level <= len(sizes) {
		size = sizes[level-1]
	}
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "B", size)
	w.cell(size*0.6, cleanInline(text), false)
	w.pdf.Ln(2)
}

// item writes a list entry indented by its leading whitespace.
func (w *pdfWriter) item(indent int, text string) {
	left, _, _, _ := w.pdf.GetMargins()
	offset := float64(indent) * 1.5
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.SetX(left + offset)
	w.pdf.MultiCell(0, lineHeight, w.tr(cleanInline(text)), "", "L", false)
}

// table lays out pipe table rows in equal-width bordered cells. The
// separator row is dropped and the header is bold.
func (w *pdfWriter) table(rows []string) {
	var cells [][]string
	header := false
	for i, row := range rows {
		if tableSepRegex.MatchString(row) {
			header = i == 1
			continue
		}
		cells = append(cells, splitRow(row))
	}
	cols := 0
	for _, r := range cells {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}

	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	colW := (pageW - left - right) / float64(cols)

	w.pdf.Ln(1)
	for i, r := range cells {
		style := ""
		if i == 0 && header {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, 9)
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(r) {
				text = cleanInline(r[c])
			}
			w.pdf.CellFormat(colW, 6, w.tr(text), "1", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(2)
}

// splitRow splits a pipe table row into its cells, honoring \| escapes.
func splitRow(row string) []string {
	row = strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	var cells []string
	var b strings.Builder
	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row) && row[i+1] == '|':
			b.WriteByte('|')
			i++
		case row[i] == '|':
			cells = append(cells, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(row[i])
		}
	}
	return append(cells, strings.TrimSpace(b.String()))
}

// cleanInline strips inline Markdown formatting.
func cleanInline(text string) string {
	text = boldRegex.ReplaceAllString(text, "$2")
	text = italicRegex.ReplaceAllStringFunc(text, func(s string) string {
		return strings.NewReplacer("*", "", "_", "").Replace(s)
	})
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = pdfLinkRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
