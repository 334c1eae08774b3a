package mdw

import (
	"errors"
	"strings"
	"testing"
)

// boxExtension is a test extension rendering a fixed marker.
type boxExtension struct {
	name    string
	block   bool
	html    bool
	content []Node
	err     error
	// run, when set, replaces the default CommonMark rendering.
	run func(r *CommonMarkRenderer) error
}

func (b *boxExtension) Name() string { return b.name }
func (b *boxExtension) Block() bool  { return b.block }

func (b *boxExtension) RenderCommonMark(r *CommonMarkRenderer) error {
	if b.err != nil {
		return b.err
	}
	if b.run != nil {
		return b.run(r)
	}
	if b.block {
		r.WriteString("::: " + b.name)
		return nil
	}
	r.WriteString("<" + b.name + ">")
	return r.RenderInline(b.content...)
}

func (b *boxExtension) Equal(other Extension) bool {
	o, ok := other.(*boxExtension)
	return ok && o.name == b.name && o.block == b.block && equalNodes(o.content, b.content)
}

func (b *boxExtension) Clone() Extension {
	c := *b
	c.content = cloneNodes(b.content)
	return &c
}

func (b *boxExtension) SupportsHTML() bool { return b.html }

func (b *boxExtension) RenderHTML(h *HTMLRenderer) error {
	h.WriteRaw(`<div class="` + b.name + `">`)
	if err := h.RenderInline(b.content...); err != nil {
		return err
	}
	h.WriteRaw("</div>\n")
	return nil
}

func TestExtensionBlockCommonMark(t *testing.T) {
	tree := doc(para(Text("a")), NewCustom(&boxExtension{name: "box", block: true}), para(Text("b")))
	assertOutput(t, "a\n\n::: box\n\nb\n", renderMarkdown(t, tree, DefaultOptions()))
}

func TestExtensionInlineCommonMark(t *testing.T) {
	tree := doc(para(Text("a "), NewCustom(&boxExtension{name: "x", content: []Node{NewStrong(Text("b"))}})))
	assertOutput(t, "a <x>**b**\n", renderMarkdown(t, tree, DefaultOptions()))
}

func TestExtensionBlockInInline(t *testing.T) {
	tree := doc(para(NewCustom(&boxExtension{name: "box", block: true})))
	e := renderError(t, tree, DefaultOptions(), ErrBlockInInline)
	if e.Path != "Document/Paragraph[0]/Custom[0]" {
		t.Fatalf("unexpected path %q", e.Path)
	}
	if _, err := RenderHTML(tree, DefaultHTMLOptions()); !errors.Is(err, ErrBlockInInline) {
		t.Fatalf("expected ErrBlockInInline from html, got %v", err)
	}
}

func TestExtensionErrors(t *testing.T) {
	boom := errors.New("boom")
	tree := doc(NewCustom(&boxExtension{name: "box", block: true, err: boom}))
	e := renderError(t, tree, DefaultOptions(), ErrExtension)
	if !errors.Is(e, boom) || e.Category != CategoryExtension || e.Path != "Document/Custom[0]" {
		t.Fatalf("unexpected error: %+v", e)
	}

	coded := doc(NewCustom(&boxExtension{name: "box", block: true, err: NewCodedError("E42", "bad box")}))
	e = renderError(t, coded, DefaultOptions(), ErrExtension)
	if e.Code != "E42" {
		t.Fatalf("expected code E42, got %q", e.Code)
	}
	want := "extension: bad box [E42] (at Document/Custom[0])"
	if e.Error() != want {
		t.Fatalf("unexpected message\n---want---\n%s\n---got---\n%s", want, e.Error())
	}
}

func TestExtensionWithOptions(t *testing.T) {
	ext := &boxExtension{name: "gfm", block: true, run: func(r *CommonMarkRenderer) error {
		return r.WithOptions(r.Options().WithGFM(), func() error {
			return r.RenderBlocks(para(NewStrikethrough(Text("x"))))
		})
	}}
	tree := doc(NewCustom(ext), para(NewStrikethrough(Text("y"))))
	renderError(t, tree, DefaultOptions(), ErrGFMDisabled)

	assertOutput(t, "~~x~~\n", renderMarkdown(t, doc(NewCustom(ext)), DefaultOptions()))
}

func TestWithOptionsRestoresAfterError(t *testing.T) {
	r := NewCommonMarkRenderer(DefaultOptions())
	boom := errors.New("boom")
	err := r.WithOptions(DefaultOptions().WithGFM(), func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if r.Options().GFM.Enabled {
		t.Fatalf("options were not restored")
	}
	bad := DefaultOptions()
	bad.MinFenceLength = 2
	if err := r.WithOptions(bad, func() error { return nil }); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestRenderInProgress(t *testing.T) {
	var setErr, renderErr error
	ext := &boxExtension{name: "reentrant", block: true, run: func(r *CommonMarkRenderer) error {
		setErr = r.SetOptions(DefaultOptions().WithGFM())
		_, renderErr = r.Render(doc(para(Text("nested"))))
		r.WriteString("done")
		return nil
	}}
	r := NewCommonMarkRenderer(DefaultOptions())
	out, err := r.Render(doc(NewCustom(ext)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertOutput(t, "done\n", out)
	if !errors.Is(setErr, ErrRenderInProgress) || !errors.Is(renderErr, ErrRenderInProgress) {
		t.Fatalf("expected ErrRenderInProgress, got %v and %v", setErr, renderErr)
	}
	if err := r.SetOptions(DefaultOptions().WithGFM()); err != nil {
		t.Fatalf("SetOptions after render: %v", err)
	}
}

func TestExtensionWithPrefix(t *testing.T) {
	ext := &boxExtension{name: "aside", block: true, run: func(r *CommonMarkRenderer) error {
		r.WriteString("Aside")
		r.WriteString("\n")
		return r.WithPrefix("| ", func() error {
			return r.RenderBlocks(para(Text("one")), para(Text("two")))
		})
	}}
	assertOutput(t, "Aside\n| one\n|\n| two\n", renderMarkdown(t, doc(NewCustom(ext)), DefaultOptions()))
}

func TestExtensionHTMLCapabilities(t *testing.T) {
	native := &boxExtension{name: "note", block: true, html: true, content: []Node{Text("hi")}}
	fallback := &boxExtension{name: "box", block: true}
	inline := &boxExtension{name: "x", content: []Node{Text("y")}}

	if c := ResolveHTML(native, false); c != CapabilityNative {
		t.Fatalf("native: got %v", c)
	}
	if c := ResolveHTML(fallback, false); c != CapabilityFallback {
		t.Fatalf("fallback: got %v", c)
	}
	if c := ResolveHTML(fallback, true); c != CapabilityUnsupported {
		t.Fatalf("block inline: got %v", c)
	}

	tree := doc(NewCustom(native), NewCustom(fallback), para(Text("a "), NewCustom(inline)))
	want := "<div class=\"note\">hi</div>\n::: box\n<p>a &lt;x&gt;y</p>\n"
	assertOutput(t, want, renderHTMLString(t, tree, DefaultHTMLOptions()))
}

func TestExtensionFallbackOptions(t *testing.T) {
	ext := &boxExtension{name: "s", content: []Node{NewStrikethrough(Text("z"))}}
	tree := doc(para(NewCustom(ext)))
	if _, err := RenderHTML(tree, DefaultHTMLOptions()); !errors.Is(err, ErrGFMDisabled) {
		t.Fatalf("expected ErrGFMDisabled through the fallback, got %v", err)
	} else if !IsCategory(err, CategoryDelegate) {
		t.Fatalf("expected delegate category, got %v", CategoryOf(err))
	}
	out := renderHTMLString(t, tree, DefaultHTMLOptions(), WithFallbackOptions(DefaultOptions().WithGFM()))
	assertOutput(t, "<p>&lt;s&gt;~~z~~</p>\n", out)
}

func TestExtensionEqualAndClone(t *testing.T) {
	a := NewCustom(&boxExtension{name: "x", content: []Node{Text("y")}})
	b := Clone(a)
	if !Equal(a, b) {
		t.Fatalf("clone differs from original")
	}
	b.(*Custom).Ext.(*boxExtension).content[0] = Text("z")
	if Equal(a, b) || !strings.Contains(PlainText(a.Ext.(*boxExtension).content...), "y") {
		t.Fatalf("clone shares content with the original")
	}
}
