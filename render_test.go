package mdw

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestRenderRequest(t *testing.T) {
	var out bytes.Buffer
	tree := doc(para(Text("a"), SoftBreak{}, Text("b")))
	if err := Render(RenderRequest{Node: tree, Writer: &out}); err != nil {
		t.Fatalf("render: %v", err)
	}
	assertOutput(t, "a\nb\n", out.String())

	out.Reset()
	if err := Render(RenderRequest{Node: tree, Writer: &out, Format: FormatHTML}); err != nil {
		t.Fatalf("render html: %v", err)
	}
	assertOutput(t, "<p>a\nb</p>\n", out.String())

	out.Reset()
	opts := DefaultOptions()
	opts.HTML = &HTMLOptions{SoftBreak: " "}
	if err := Render(RenderRequest{Node: tree, Writer: &out, Format: FormatHTML, Options: &opts}); err != nil {
		t.Fatalf("render html with options: %v", err)
	}
	assertOutput(t, "<p>a b</p>\n", out.String())
}

func TestRenderRequestValidation(t *testing.T) {
	if err := Render(RenderRequest{Writer: io.Discard}); err == nil {
		t.Fatalf("expected error for nil node")
	}
	if err := Render(RenderRequest{Node: doc()}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
	if err := Render(RenderRequest{Node: doc(), Writer: io.Discard, Format: Format(9)}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	var out bytes.Buffer
	tree := doc(para(Text("ok")), NewHeading(9))
	err := Render(RenderRequest{Node: tree, Writer: &out})
	if !errors.Is(err, ErrInvalidHeadingLevel) {
		t.Fatalf("expected ErrInvalidHeadingLevel, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRenderSinkErrors(t *testing.T) {
	err := Render(RenderRequest{Node: doc(para(Text("abc"))), Writer: shortWriter{}})
	if !errors.Is(err, ErrSink) || !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected short write sink error, got %v", err)
	}
	if !IsCategory(err, CategorySink) {
		t.Fatalf("expected sink category, got %v", CategoryOf(err))
	}

	closed := errors.New("closed pipe")
	err = Render(RenderRequest{Node: doc(para(Text("abc"))), Writer: failingWriter{err: closed}, Format: FormatHTML})
	if !errors.Is(err, ErrSink) || !errors.Is(err, closed) {
		t.Fatalf("expected sink error wrapping the write error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"":           FormatCommonMark,
		"md":         FormatCommonMark,
		"Markdown":   FormatCommonMark,
		" html ":     FormatHTML,
		"gfm":        FormatCommonMark,
		"commonmark": FormatCommonMark,
	} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if FormatHTML.String() != "html" || FormatCommonMark.String() != "commonmark" {
		t.Fatalf("unexpected format names")
	}
}

func nestedEmphasis(depth int) Node {
	var n Node = Text("x")
	for i := 0; i < depth; i++ {
		n = NewEmphasis(n)
	}
	return doc(para(n))
}

func TestDepthLimit(t *testing.T) {
	deep := nestedEmphasis(DefaultMaxDepth)
	e := renderError(t, deep, DefaultOptions(), ErrDepthExceeded)
	if e.Category != CategoryStructure {
		t.Fatalf("expected structure error, got %v", e.Category)
	}
	if _, err := RenderHTML(deep, DefaultHTMLOptions()); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected html depth error, got %v", err)
	}
	if _, err := RenderCommonMark(deep, DefaultOptions(), WithMaxDepth(0)); err != nil {
		t.Fatalf("unlimited depth: %v", err)
	}

	quotes := doc(NewBlockQuote(NewBlockQuote(para(Text("q")))))
	if _, err := RenderCommonMark(quotes, DefaultOptions(), WithMaxDepth(5)); err != nil {
		t.Fatalf("depth 5: %v", err)
	}
	e = renderErrorWith(t, quotes, DefaultOptions(), ErrDepthExceeded, WithMaxDepth(3))
	if e.Path != "Document/BlockQuote[0]/BlockQuote[0]/Paragraph[0]" {
		t.Fatalf("unexpected path %q", e.Path)
	}
}

func renderErrorWith(t *testing.T, n Node, opts Options, target error, ropts ...RenderOption) *Error {
	t.Helper()
	_, err := RenderCommonMark(n, opts, ropts...)
	var e *Error
	if !errors.Is(err, target) || !errors.As(err, &e) {
		t.Fatalf("expected %v, got %v", target, err)
	}
	return e
}

func TestSoftModeWarningsAreLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tree := doc(NewSetextHeading(4, Text("x")), para(NewStrikethrough(Text("y"))))
	if _, err := RenderCommonMark(tree, lenientOptions(), WithLogger(logger)); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(entries))
	}
	if entries[0].Level != logrus.WarnLevel || entries[0].Data["path"] != "Document/Heading[0]" {
		t.Fatalf("unexpected first entry: %v %v", entries[0].Level, entries[0].Data)
	}
	if entries[1].Data["node"] != "Strikethrough" {
		t.Fatalf("unexpected second entry: %v", entries[1].Data)
	}
}

func TestFlankingFallbackIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tree := doc(para(Text("a"), NewStrong(Text(".b")), Text("c")))
	if _, err := RenderCommonMark(tree, DefaultOptions(), WithLogger(logger)); err != nil {
		t.Fatalf("render: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %v", hook.AllEntries())
	}
	if entry.Data["path"] != "Document/Paragraph[0]/Strong[1]" || entry.Data["node"] != "Strong" {
		t.Fatalf("unexpected entry: %v", entry.Data)
	}
}

func TestRenderIsPure(t *testing.T) {
	tree := sampleDocument()
	before := Clone(tree)
	first := renderMarkdown(t, tree, gfmOptions())
	second := renderMarkdown(t, tree, gfmOptions())
	assertOutput(t, first, second)
	if !Equal(before, tree) {
		t.Fatalf("render modified its input")
	}

	r := NewCommonMarkRenderer(gfmOptions())
	if _, err := r.Render(doc(NewHeading(0))); err == nil {
		t.Fatalf("expected error")
	}
	again, err := r.Render(tree)
	if err != nil {
		t.Fatalf("render after failure: %v", err)
	}
	assertOutput(t, first, again)
}

func TestRenderConcurrent(t *testing.T) {
	tree := sampleDocument()
	opts := gfmOptions()
	want := renderMarkdown(t, tree, opts)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out strings.Builder
			if err := Render(RenderRequest{Node: tree, Writer: &out, Options: &opts}); err != nil {
				errs <- err
				return
			}
			if out.String() != want {
				errs <- errors.New("concurrent render diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestLiteralTextWithoutEscaping(t *testing.T) {
	tree := doc(para(Text("*not* _em_ [x]")))
	assertOutput(t, "*not* _em_ [x]\n", renderMarkdown(t, tree, DefaultOptions()))

	opts := DefaultOptions()
	opts.EscapeSpecialChars = true
	assertOutput(t, "\\*not\\* \\_em\\_ \\[x\\]\n", renderMarkdown(t, tree, opts))
}

func TestEscapeBlockStart(t *testing.T) {
	opts := DefaultOptions()
	opts.EscapeSpecialChars = true
	cases := map[string]string{
		"# h":           "\\# h",
		"- item":        "\\- item",
		"+ item":        "\\+ item",
		"12. x":         "12\\. x",
		"3) x":          "3\\) x",
		"a # b":         "a # b",
		"a & b":         "a & b",
		"&amp;":         "\\&amp;",
		"~tilde~":       "\\~tilde~",
		"~~~":           "\\~~~",
		"```":           "\\`\\`\\`",
		"  x":           "&#32;&#32;x",
		"    code":      "&#32;&#32;&#32;&#32;code",
		"\tx":           "&#9;x",
		" \t# h":        "&#32;&#9;# h",
		"1234567890. x": "1234567890. x",
	}
	for in, want := range cases {
		assertOutput(t, want+"\n", renderMarkdown(t, doc(para(Text(in))), opts))
	}
	assertOutput(t, "~~\\~tilde\\~~~\n", renderMarkdown(t, doc(para(NewStrikethrough(Text("~tilde~")))), opts.WithGFM()))
}

func TestEscapeBangBeforeBracket(t *testing.T) {
	opts := DefaultOptions()
	opts.EscapeSpecialChars = true
	cases := []struct {
		name string
		tree Node
		want string
	}{
		{"link", doc(para(Text("see!"), NewLink("/u", "", Text("a")))), "see\\![a](/u)\n"},
		{"reference link", doc(para(Text("!"), NewReferenceLink("docs"))), "\\![docs]\n"},
		{"bracket in text", doc(para(Text("![x]"))), "!\\[x\\]\n"},
		{"bang before image", doc(para(Text("a!"), NewImage("i.png", "", Text("i")))), "a!![i](i.png)\n"},
		{"bang inside text", doc(para(Text("a! b"), NewLink("/u", "", Text("c")))), "a! b[c](/u)\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertOutput(t, tc.want, renderMarkdown(t, tc.tree, opts))
		})
	}
}
