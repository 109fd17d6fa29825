// Package table lays rows of text out in aligned columns for terminal output.
package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gap = "  "

// Table accumulates rows under an optional header.
type Table struct {
	header     []string
	rows       [][]string
	alignments []Alignment
}

// New creates a table. An empty header prints no header line.
func New(header ...string) *Table {
	return &Table{header: header}
}

// Align sets per-column alignment. Columns without one are left aligned.
func (t *Table) Align(alignments ...Alignment) *Table {
	t.alignments = alignments
	return t
}

// Add appends a row.
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the header and rows, one per line.
func (t *Table) String() string {
	rows := t.rows
	if len(t.header) > 0 {
		rows = append([][]string{t.header}, rows...)
	}
	lines := Format(rows, t.alignments)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Format returns the rows padded according to the widest entry in each column.
// Rows may be ragged; trailing padding is dropped.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(gap)
			}
			pad := strings.Repeat(" ", max(widths[c]-runewidth.StringWidth(cell), 0))
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				b.WriteString(pad)
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}
