package mdw

// TableBuilder assembles a Table row by row.
type TableBuilder struct {
	t Table
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder { return &TableBuilder{} }

// Headers sets the header cells.
func (b *TableBuilder) Headers(cells ...Cell) *TableBuilder {
	b.t.Headers = cells
	return b
}

// Align sets the column alignments.
func (b *TableBuilder) Align(alignments ...Alignment) *TableBuilder {
	b.t.Alignments = alignments
	return b
}

// Row appends a body row.
func (b *TableBuilder) Row(cells ...Cell) *TableBuilder {
	b.t.Rows = append(b.t.Rows, cells)
	return b
}

// Build returns the table. Shape is checked at render time.
func (b *TableBuilder) Build() *Table {
	t := b.t
	return &t
}

// TextCells returns one Text cell per string.
func TextCells(texts ...string) []Cell {
	cells := make([]Cell, len(texts))
	for i, s := range texts {
		cells[i] = Cell{Text(s)}
	}
	return cells
}

// AlternatingAlignments returns n alignments cycling left, center, right.
func AlternatingAlignments(n int) []Alignment {
	cycle := [...]Alignment{AlignLeft, AlignCenter, AlignRight}
	out := make([]Alignment, n)
	for i := range out {
		out[i] = cycle[i%len(cycle)]
	}
	return out
}
