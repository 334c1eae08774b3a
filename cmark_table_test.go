package mdw

import "testing"

func TestTableUnpadded(t *testing.T) {
	tree := doc(NewTableBuilder().
		Headers(TextCells("Name", "Qty")...).
		Align(AlignLeft, AlignRight).
		Row(TextCells("apple", "3")...).
		Build())
	want := "| Name | Qty |\n| :-- | --: |\n| apple | 3 |\n"
	assertOutput(t, want, renderMarkdown(t, tree, gfmOptions()))
}

func TestTablePadded(t *testing.T) {
	opts := gfmOptions()
	opts.PadTables = true
	tree := doc(NewTableBuilder().
		Headers(TextCells("A", "Long")...).
		Align(AlignCenter, AlignRight).
		Row(TextCells("xx", "y")...).
		Build())
	want := "|  A  | Long |\n| :-: | ---: |\n| xx  |    y |\n"
	assertOutput(t, want, renderMarkdown(t, tree, opts))
}

func TestTableEscapesPipes(t *testing.T) {
	tree := doc(NewTableBuilder().Headers(TextCells("a|b")...).Build())
	assertOutput(t, "| a\\|b |\n| --- |\n", renderMarkdown(t, tree, gfmOptions()))
}

func TestTableShape(t *testing.T) {
	cases := map[string]*Table{
		"no columns":       NewTableBuilder().Build(),
		"short row":        NewTableBuilder().Headers(TextCells("a", "b")...).Row(TextCells("1")...).Build(),
		"extra alignments": NewTableBuilder().Headers(TextCells("a")...).Align(AlignLeft, AlignRight).Build(),
	}
	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			for _, opts := range []Options{gfmOptions(), gfmOptions().WithLenient()} {
				e := renderError(t, doc(table), opts, ErrTableShape)
				if e.Path != "Document/Table[0]" {
					t.Fatalf("unexpected path %q", e.Path)
				}
			}
		})
	}
}

func TestTableBlockCell(t *testing.T) {
	tree := doc(NewTableBuilder().
		Headers(TextCells("A")...).
		Row(Cell{para(Text("x"))}).
		Build())
	renderError(t, tree, gfmOptions(), ErrTableBlockCell)

	want := "<table>\n<thead>\n<tr>\n<th>A</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td><p>x</p>\n</td>\n</tr>\n</tbody>\n</table>\n"
	assertOutput(t, want, renderMarkdown(t, tree, gfmOptions().WithLenient()))
}

func TestTableWithoutGFM(t *testing.T) {
	tree := doc(NewTableBuilder().Headers(TextCells("A")...).Build())
	e := renderError(t, tree, DefaultOptions(), ErrGFMDisabled)
	if e.Category != CategoryUnsupported {
		t.Fatalf("expected unsupported, got %v", e.Category)
	}
	want := "<table>\n<thead>\n<tr>\n<th>A</th>\n</tr>\n</thead>\n</table>\n"
	assertOutput(t, want, renderMarkdown(t, tree, lenientOptions()))
}

func TestTableInsideQuote(t *testing.T) {
	tree := doc(NewBlockQuote(NewTableBuilder().Headers(TextCells("A")...).Row(TextCells("1")...).Build()))
	assertOutput(t, "> | A |\n> | --- |\n> | 1 |\n", renderMarkdown(t, tree, gfmOptions()))
}

func TestAlternatingAlignments(t *testing.T) {
	got := AlternatingAlignments(4)
	want := []Alignment{AlignLeft, AlignCenter, AlignRight, AlignLeft}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("alignment %d: want %v, got %v", i, want[i], got[i])
		}
	}
}
