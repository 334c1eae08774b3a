package mdw

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

// minColumnWidth is the narrowest separator a pipe table accepts.
const minColumnWidth = 3

func checkTableShape(t *Table) error {
	cols := len(t.Headers)
	if cols == 0 {
		return structuralError(ErrTableShape, "table has no columns")
	}
	if len(t.Alignments) > cols {
		return structuralError(ErrTableShape, "%d alignments for %d columns", len(t.Alignments), cols)
	}
	for i, row := range t.Rows {
		if len(row) != cols {
			return structuralError(ErrTableShape, "row %d has %d cells, want %d", i, len(row), cols)
		}
	}
	return nil
}

func (t *Table) alignment(col int) Alignment {
	if col < len(t.Alignments) {
		return t.Alignments[col]
	}
	return AlignNone
}

func cellHasBlock(c Cell) bool {
	for _, n := range c {
		if IsBlock(n) {
			return true
		}
	}
	return false
}

func tableHasBlockCell(t *Table) bool {
	for _, c := range t.Headers {
		if cellHasBlock(c) {
			return true
		}
	}
	for _, row := range t.Rows {
		for _, c := range row {
			if cellHasBlock(c) {
				return true
			}
		}
	}
	return false
}

func (r *CommonMarkRenderer) table(t *Table) error {
	if err := checkTableShape(t); err != nil {
		return err
	}
	if !r.opts.gfmTables() {
		if r.opts.Strict {
			return unsupportedError("table")
		}
		r.warn("gfm tables disabled; rendering html table")
		return r.tableHTML(t)
	}
	if tableHasBlockCell(t) {
		if r.opts.StrictTables {
			return structuralError(ErrTableBlockCell, "block content in table cell")
		}
		r.warn("table cell holds block content; rendering html table")
		return r.tableHTML(t)
	}

	cols := len(t.Headers)
	grid := make([][]string, 0, len(t.Rows)+1)
	header, err := r.tableCells(t.Headers)
	if err != nil {
		return err
	}
	grid = append(grid, header)
	for _, row := range t.Rows {
		cells, err := r.tableCells(row)
		if err != nil {
			return err
		}
		grid = append(grid, cells)
	}

	widths := make([]int, cols)
	if r.opts.PadTables {
		for i := range widths {
			widths[i] = minColumnWidth
		}
		for _, row := range grid {
			for i, c := range row {
				widths[i] = max(widths[i], ansi.PrintableRuneWidth(c))
			}
		}
	}

	r.writeTableRow(grid[0], widths, t)
	r.w.newline()
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = separatorCell(t.alignment(i), max(minColumnWidth, widths[i]))
	}
	r.writeTableRow(sep, nil, t)
	for _, row := range grid[1:] {
		r.w.newline()
		r.writeTableRow(row, widths, t)
	}
	return nil
}

func (r *CommonMarkRenderer) tableHTML(t *Table) error {
	out, err := r.delegate(func(h *HTMLRenderer) error { return h.node(t, -1) })
	if err != nil {
		return err
	}
	r.w.WriteString(strings.TrimRight(out, "\n"))
	return nil
}

func (r *CommonMarkRenderer) tableCells(cells []Cell) ([]string, error) {
	out := make([]string, len(cells))
	for i, c := range cells {
		s, err := r.capture(' ', false, func() error { return r.renderInlines(c) })
		if err != nil {
			return nil, err
		}
		if strings.ContainsAny(s, "\n\r") {
			return nil, contentError(ErrNewlineInInline, "line break in table cell %d", i)
		}
		out[i] = strings.ReplaceAll(s, "|", `\|`)
	}
	return out, nil
}

// writeTableRow writes one pipe row. widths is nil for unpadded rows.
func (r *CommonMarkRenderer) writeTableRow(cells []string, widths []int, t *Table) {
	var b strings.Builder
	b.WriteByte('|')
	for i, c := range cells {
		b.WriteByte(' ')
		if widths != nil && widths[i] > 0 {
			c = padCell(c, widths[i], t.alignment(i))
		}
		b.WriteString(c)
		b.WriteString(" |")
	}
	r.w.WriteString(b.String())
}

func padCell(s string, width int, a Alignment) string {
	gap := width - ansi.PrintableRuneWidth(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func separatorCell(a Alignment, width int) string {
	switch a {
	case AlignLeft:
		return ":" + strings.Repeat("-", width-1)
	case AlignRight:
		return strings.Repeat("-", width-1) + ":"
	case AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}
