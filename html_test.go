package mdw

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestHTMLBlocks(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want string
	}{
		{"heading", NewHeading(2, Text("T")), "<h2>T</h2>\n"},
		{"paragraph", para(Text("a<b"), NewEmphasis(Text("e")), InlineCode("x&y")), "<p>a&lt;b<em>e</em><code>x&amp;y</code></p>\n"},
		{"quote", NewBlockQuote(para(Text("q"))), "<blockquote>\n<p>q</p>\n</blockquote>\n"},
		{"code", NewCodeBlock("go run", "x\n"), "<pre><code class=\"language-go\">x\n</code></pre>\n"},
		{"code without newline", NewCodeBlock("", "a<b"), "<pre><code>a&lt;b\n</code></pre>\n"},
		{"empty code", NewCodeBlock("", ""), "<pre><code></code></pre>\n"},
		{"rule", ThematicBreak{}, "<hr />\n"},
		{"tight list", NewUnorderedList(Item(para(Text("a"))), Item(para(Text("b")))), "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
		{"loose list", NewUnorderedList(Item(para(Text("a")), para(Text("b")))), "<ul>\n<li>\n<p>a</p>\n<p>b</p>\n</li>\n</ul>\n"},
		{"empty item", NewUnorderedList(Item()), "<ul>\n<li></li>\n</ul>\n"},
		{"ordered", NewOrderedList(3, Item(para(Text("a"))), NumberedItem(7, para(Text("b")))), "<ol start=\"3\">\n<li>a</li>\n<li value=\"7\">b</li>\n</ol>\n"},
		{"task", NewUnorderedList(TaskItem(true, para(Text("done")))), "<ul>\n<li class=\"task-list-item task-list-item-checked\"><input type=\"checkbox\" disabled=\"\" checked=\"\" /> done</li>\n</ul>\n"},
		{"open task", NewUnorderedList(TaskItem(false)), "<ul>\n<li class=\"task-list-item\"><input type=\"checkbox\" disabled=\"\" /></li>\n</ul>\n"},
		{"raw block", &HTMLBlock{Content: "<div>x</div>"}, "<div>x</div>\n"},
		{"definition", &LinkReferenceDefinition{Label: "a", Destination: "/a"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertOutput(t, tc.want, renderHTMLString(t, doc(tc.node), DefaultHTMLOptions()))
		})
	}
}

func TestHTMLInlines(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want string
	}{
		{"link", NewLink("/u?a=1&b", "T", Text("l")), `<a href="/u?a=1&amp;b" title="T">l</a>`},
		{"image", NewImage("i.png", "t", Text("a "), NewEmphasis(Text("b"))), `<img src="i.png" alt="a b" title="t" />`},
		{"autolink", &Autolink{URL: "https://go.dev"}, `<a href="https://go.dev">https://go.dev</a>`},
		{"email", &Autolink{URL: "me@x.org", Email: true}, `<a href="mailto:me@x.org">me@x.org</a>`},
		{"www", &ExtendedAutolink{URL: "www.x.org"}, `<a href="http://www.x.org">www.x.org</a>`},
		{"strike", NewStrikethrough(Text("s")), "<del>s</del>"},
		{"strong", NewStrong(Text(`"q"`)), "<strong>&quot;q&quot;</strong>"},
		{"hard break", NewStrong(Text("a"), HardBreak{}, Text("b")), "<strong>a<br />\nb</strong>"},
		{"soft break", NewEmphasis(Text("a"), SoftBreak{}, Text("b")), "<em>a\nb</em>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertOutput(t, "<p>"+tc.want+"</p>\n", renderHTMLString(t, doc(para(tc.node)), DefaultHTMLOptions()))
		})
	}
}

func TestHTMLTrimsTrailingHardBreaks(t *testing.T) {
	tree := doc(para(Text("a"), HardBreak{}, HardBreak{}))
	assertOutput(t, "<p>a</p>\n", renderHTMLString(t, tree, DefaultHTMLOptions()))
}

func TestHTMLSelfClosingStyle(t *testing.T) {
	opts := DefaultHTMLOptions()
	opts.SelfClosing = SelfClosingHTML5
	tree := doc(para(Text("a"), HardBreak{}, Text("b")), ThematicBreak{})
	assertOutput(t, "<p>a<br>\nb</p>\n<hr>\n", renderHTMLString(t, tree, opts))
}

func TestHTMLReferenceLinks(t *testing.T) {
	tree := doc(
		para(NewReferenceLink("Docs"), Text(" "), NewReferenceLink("missing"), Text(" "), NewReferenceLink("x", Text("t"))),
		&LinkReferenceDefinition{Label: "docs", Destination: "/d", Title: "D"},
		&LinkReferenceDefinition{Label: "DOCS", Destination: "/ignored"},
	)
	want := "<p><a href=\"/d\" title=\"D\">Docs</a> [missing] [t][x]</p>\n"
	assertOutput(t, want, renderHTMLString(t, tree, DefaultHTMLOptions()))
}

func TestHTMLTables(t *testing.T) {
	table := NewTableBuilder().
		Headers(TextCells("A", "B")...).
		Align(AlignLeft).
		Row(TextCells("1", "2")...).
		Build()
	want := "<table>\n<thead>\n<tr>\n<th style=\"text-align: left;\">A</th>\n<th>B</th>\n</tr>\n</thead>\n" +
		"<tbody>\n<tr>\n<td style=\"text-align: left;\">1</td>\n<td>2</td>\n</tr>\n</tbody>\n</table>\n"
	assertOutput(t, want, renderHTMLString(t, doc(table), DefaultHTMLOptions()))

	opts := DefaultHTMLOptions()
	opts.AlignmentStyle = AlignWithAttribute
	out := renderHTMLString(t, doc(table), opts)
	if !strings.Contains(out, `<th align="left">A</th>`) || strings.Contains(out, "style=") {
		t.Fatalf("expected align attribute, got %q", out)
	}

	bad := NewTableBuilder().Headers(TextCells("A", "B")...).Row(TextCells("1")...).Build()
	if _, err := RenderHTML(doc(bad), DefaultHTMLOptions()); !errors.Is(err, ErrTableShape) {
		t.Fatalf("expected ErrTableShape, got %v", err)
	}
}

func TestHTMLElements(t *testing.T) {
	abbr := NewHTMLElement("abbr", Text("HTML"))
	abbr.SetAttr("title", "it's <b>").SetAttr("class", "x").SetAttr("title", "it's")
	assertOutput(t, "<p><abbr title=\"it's\" class=\"x\">HTML</abbr></p>\n", renderHTMLString(t, doc(para(abbr)), DefaultHTMLOptions()))

	strict := DefaultHTMLOptions()
	strict.StrictAttributeEscaping = true
	assertOutput(t, "<p><abbr title=\"it&#39;s\" class=\"x\">HTML</abbr></p>\n", renderHTMLString(t, doc(para(abbr)), strict))

	br := NewHTMLElement("br")
	assertOutput(t, "<p><br /></p>\n", renderHTMLString(t, doc(para(br)), DefaultHTMLOptions()))

	custom := &HTMLElement{Tag: "x-icon", SelfClosing: true}
	assertOutput(t, "<p><x-icon /></p>\n", renderHTMLString(t, doc(para(custom)), DefaultHTMLOptions()))
	html5 := DefaultHTMLOptions()
	html5.SelfClosing = SelfClosingHTML5
	assertOutput(t, "<p><x-icon></x-icon></p>\n", renderHTMLString(t, doc(para(custom)), html5))
}

func TestHTMLElementDuplicateAttributes(t *testing.T) {
	e := &HTMLElement{Tag: "span", Attributes: []Attribute{{"id", "a"}, {"class", "c"}, {"id", "b"}}}
	assertOutput(t, "<p><span id=\"b\" class=\"c\"></span></p>\n", renderHTMLString(t, doc(para(e)), DefaultHTMLOptions()))
}

func TestHTMLInvalidElements(t *testing.T) {
	bad := NewHTMLElement("1x", Text("c"))
	_, err := RenderHTML(doc(para(bad)), DefaultHTMLOptions())
	var e *Error
	if !errors.Is(err, ErrInvalidHTMLTag) || !errors.As(err, &e) {
		t.Fatalf("expected ErrInvalidHTMLTag, got %v", err)
	}
	if e.Path != "Document/Paragraph[0]/HTMLElement[0]" {
		t.Fatalf("unexpected path %q", e.Path)
	}

	lenient := DefaultHTMLOptions()
	lenient.Strict = false
	assertOutput(t, "<p>&lt;1x&gt;c&lt;/1x&gt;</p>\n", renderHTMLString(t, doc(para(bad)), lenient))

	attr := NewHTMLElement("span").SetAttr("on click", "x")
	if _, err := RenderHTML(doc(para(attr)), DefaultHTMLOptions()); !errors.Is(err, ErrInvalidHTMLAttribute) {
		t.Fatalf("expected ErrInvalidHTMLAttribute, got %v", err)
	}
}

func TestHTMLDisallowedTags(t *testing.T) {
	opts := DefaultHTMLOptions()
	opts.DisallowedTags = DefaultDisallowedTags()
	script := NewHTMLElement("script", Text("x"))
	assertOutput(t, "<p>&lt;script&gt;x&lt;/script&gt;</p>\n", renderHTMLString(t, doc(para(script)), opts))

	block := &HTMLBlock{Content: "<STYLE>p{}</STYLE>\n<div>ok</div>\n"}
	assertOutput(t, "&lt;STYLE>p{}&lt;/STYLE>\n<div>ok</div>\n", renderHTMLString(t, doc(block), opts))

	opts.DisallowedTagMode = DisallowedDrop
	assertOutput(t, "<p>ab</p>\n", renderHTMLString(t, doc(para(Text("a"), script, Text("b"))), opts))
}

func TestFilterHTML(t *testing.T) {
	list := DefaultDisallowedTags()
	cases := map[string]string{
		"<script>x</script>": "&lt;script>x&lt;/script>",
		"<scripts>":          "<scripts>",
		"<title/>":           "&lt;title/>",
		"<title />":          "&lt;title />",
		"<iframe\nsrc=x>":    "&lt;iframe\nsrc=x>",
		"a < b":              "a < b",
		"<textarea>":         "&lt;textarea>",
		"<plaintext":         "<plaintext",
	}
	for in, want := range cases {
		if got := FilterHTML(in, list); got != want {
			t.Fatalf("FilterHTML(%q) = %q, want %q", in, got, want)
		}
	}
	if got := FilterHTML("<script>", nil); got != "<script>" {
		t.Fatalf("empty list changed input: %q", got)
	}
}

func TestSafeHTML(t *testing.T) {
	tree := doc(para(NewStrong(NewHTMLElement("iframe", Text("x")))), &HTMLBlock{Content: "<xmp>"})
	safe := SafeHTML(tree, DefaultDisallowedTags())
	want := doc(para(NewStrong(Text("<iframe>x</iframe>"))), &HTMLBlock{Content: "&lt;xmp>"})
	if !Equal(want, safe) {
		t.Fatalf("unexpected safe tree")
	}
	if _, ok := tree.Children[0].(*Paragraph).Content[0].(*Strong).Content[0].(*HTMLElement); !ok {
		t.Fatalf("SafeHTML modified its input")
	}
}

func TestHTMLBlockInInline(t *testing.T) {
	_, err := RenderHTML(doc(para(NewBlockQuote())), DefaultHTMLOptions())
	var e *Error
	if !errors.Is(err, ErrBlockInInline) || !errors.As(err, &e) {
		t.Fatalf("expected ErrBlockInInline, got %v", err)
	}
	if e.Path != "Document/Paragraph[0]/BlockQuote[0]" {
		t.Fatalf("unexpected path %q", e.Path)
	}
}

func TestHTMLRendererReuse(t *testing.T) {
	h := NewHTMLRenderer(DefaultHTMLOptions())
	if _, err := h.Render(doc(NewHeading(8))); !errors.Is(err, ErrInvalidHeadingLevel) {
		t.Fatalf("expected heading error, got %v", err)
	}
	out, err := h.Render(doc(para(Text("ok"))))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertOutput(t, "<p>ok</p>\n", out)

	bad := DefaultHTMLOptions()
	bad.DisallowedTags = []string{"not a tag"}
	if err := h.SetOptions(bad); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

// TestHTMLWellFormed checks that every opened element is closed in order.
func TestHTMLWellFormed(t *testing.T) {
	out := renderHTMLString(t, sampleDocument(), DefaultHTMLOptions())
	z := html.NewTokenizer(strings.NewReader(out))
	var stack []string
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		name, _ := z.TagName()
		tag := string(name)
		switch tt {
		case html.StartTagToken:
			if !IsVoidElement(tag) {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			if len(stack) == 0 || stack[len(stack)-1] != tag {
				t.Fatalf("unexpected </%s> with open %v in\n%s", tag, stack, out)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed elements %v in\n%s", stack, out)
	}
}
