package mdw

import (
	"errors"
	"testing"
)

func renderMarkdown(t *testing.T, n Node, opts Options, ropts ...RenderOption) string {
	t.Helper()
	out, err := RenderCommonMark(n, opts, ropts...)
	if err != nil {
		t.Fatalf("render commonmark: %v", err)
	}
	return out
}

func renderHTMLString(t *testing.T, n Node, opts HTMLOptions, ropts ...RenderOption) string {
	t.Helper()
	out, err := RenderHTML(n, opts, ropts...)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	return out
}

func assertOutput(t *testing.T, want, got string) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected output\n---want---\n%s\n---got---\n%s", want, got)
	}
}

// renderError renders n expecting failure and returns the typed error.
func renderError(t *testing.T, n Node, opts Options, target error) *Error {
	t.Helper()
	out, err := RenderCommonMark(n, opts)
	if err == nil {
		t.Fatalf("expected %v, got output %q", target, out)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return e
}

func para(content ...Node) *Paragraph { return NewParagraph(content...) }

func doc(children ...Node) *Document { return NewDocument(children...) }

func gfmOptions() Options { return DefaultOptions().WithGFM() }

func lenientOptions() Options { return DefaultOptions().WithLenient() }

// sampleDocument exercises most node kinds under GFM options.
func sampleDocument() *Document {
	return doc(
		NewHeading(1, Text("Release notes")),
		para(Text("This "), NewEmphasis(Text("release")), Text(" adds "), NewStrong(Text("tables")),
			Text(" and "), InlineCode("code"), Text(".")),
		NewUnorderedList(
			Item(para(Text("first"))),
			TaskItem(true, para(Text("done"))),
			Item(para(Text("nested")), NewOrderedList(1, Item(para(Text("a"))), Item(para(Text("b"))))),
		),
		NewBlockQuote(para(Text("quoted "), NewLink("https://example.com", "Example", Text("link")))),
		NewCodeBlock("go", "func main() {}\n"),
		NewTableBuilder().Headers(TextCells("Name", "Value")...).Row(TextCells("a", "1")...).Build(),
		ThematicBreak{},
		para(NewStrikethrough(Text("old")), SoftBreak{}, &Autolink{URL: "https://go.dev"}, HardBreak{}, Text("end")),
	)
}
