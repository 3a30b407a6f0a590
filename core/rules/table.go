package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/clip2md/core/tree"
)

const minColumnWidth = 3

// lineBreak matches a newline together with the indentation around it.
var lineBreak = regexp.MustCompile(`[ \t]*\n\s*`)

// TableData is a table read out of the document, already padded so every
// row has Columns cells.
type TableData struct {
	Rows    [][]string
	Header  bool
	Columns int
}

// ReadTable collects rows and cells of n in document order.
func ReadTable(n tree.Node) TableData {
	var data TableData
	for i, row := range n.FindAll(isTag("tr")) {
		cells := row.FindAll(isTag("th", "td"))
		text := make([]string, len(cells))
		for j, cell := range cells {
			text[j] = cellText(cell)
		}
		if i == 0 && row.Has(isTag("th")) {
			data.Header = true
		}
		if len(text) > data.Columns {
			data.Columns = len(text)
		}
		data.Rows = append(data.Rows, text)
	}
	for i, row := range data.Rows {
		for len(row) < data.Columns {
			row = append(row, "")
		}
		data.Rows[i] = row
	}
	return data
}

func cellText(cell tree.Node) string {
	return strings.ReplaceAll(singleLine(cell.Text()), "|", `\|`)
}

// singleLine trims text and joins its lines with one space. Spacing
// within a line is kept.
func singleLine(text string) string {
	return lineBreak.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Widths returns the display width of each column, never below three so
// that the separator row stays a valid dash run.
func (d TableData) Widths() []int {
	widths := make([]int, d.Columns)
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for _, row := range d.Rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// FormatTable renders d as a pipe table. Empty tables render as "".
func FormatTable(d TableData) string {
	if len(d.Rows) == 0 || d.Columns == 0 {
		return ""
	}
	widths := d.Widths()

	lines := make([]string, 0, len(d.Rows)+1)
	for i, row := range d.Rows {
		lines = append(lines, formatRow(row, widths))
		if i == 0 && d.Header {
			dashes := make([]string, len(widths))
			for j, w := range widths {
				dashes[j] = strings.Repeat("-", w)
			}
			lines = append(lines, "| "+strings.Join(dashes, " | ")+" |")
		}
	}
	return "\n" + strings.Join(lines, "\n") + "\n\n"
}

func formatRow(row []string, widths []int) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
	}
	return "| " + strings.Join(cells, " | ") + " |"
}
