package mdw

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer renders node trees to HTML. Like CommonMarkRenderer it is
// not safe for concurrent use.
type HTMLRenderer struct {
	opts HTMLOptions
	cfg  renderConfig
	esc  Escaper
	buf  []byte
	t    traversal

	// inline counts the enclosing inline containers.
	inline int
	refs   *RefCollector
	// cm renders extension fallbacks.
	cm   *CommonMarkRenderer
	busy bool
}

// NewHTMLRenderer returns a renderer for opts.
func NewHTMLRenderer(opts HTMLOptions, ropts ...RenderOption) *HTMLRenderer {
	h := &HTMLRenderer{}
	h.configure(opts, newRenderConfig(ropts))
	return h
}

// RenderHTML renders node with opts.
func RenderHTML(node Node, opts HTMLOptions, ropts ...RenderOption) (string, error) {
	return NewHTMLRenderer(opts, ropts...).Render(node)
}

func (h *HTMLRenderer) configure(opts HTMLOptions, cfg renderConfig) {
	h.opts = opts
	h.cfg = cfg
	h.esc = NewHTMLEscaper(opts)
	h.refs = nil
}

// Options returns the options in effect.
func (h *HTMLRenderer) Options() HTMLOptions { return h.opts }

// Logger returns the logger receiving soft-mode warnings.
func (h *HTMLRenderer) Logger() logrus.FieldLogger { return h.cfg.logger }

// SetOptions replaces the options between renders.
func (h *HTMLRenderer) SetOptions(opts HTMLOptions) error {
	if h.busy {
		return ErrRenderInProgress
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	h.opts = opts
	h.esc = NewHTMLEscaper(opts)
	return nil
}

// WithOptions runs fn with opts installed and restores the previous options
// on every exit path.
func (h *HTMLRenderer) WithOptions(opts HTMLOptions, fn func() error) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	saved, savedEsc := h.opts, h.esc
	defer func() {
		h.opts, h.esc = saved, savedEsc
	}()
	h.opts = opts
	h.esc = NewHTMLEscaper(opts)
	return fn()
}

// Render renders node and returns the output.
func (h *HTMLRenderer) Render(node Node) (string, error) {
	if h.busy {
		return "", ErrRenderInProgress
	}
	if err := h.opts.Validate(); err != nil {
		return "", err
	}
	if node == nil {
		return "", structuralError(ErrInvalidStructure, "nil root node")
	}
	h.refs = collectDefinitions(node)
	defer func() { h.refs = nil }()
	return h.renderWith(func(h *HTMLRenderer) error { return h.node(node, -1) })
}

// renderWith runs fn against a clean buffer and returns what it wrote.
func (h *HTMLRenderer) renderWith(fn func(h *HTMLRenderer) error) (string, error) {
	h.busy = true
	defer func() { h.busy = false }()
	h.buf = h.buf[:0]
	h.t.reset(h.cfg.maxDepth)
	h.inline = 0
	if err := fn(h); err != nil {
		h.buf = h.buf[:0]
		return "", err
	}
	return string(h.buf), nil
}

func collectDefinitions(root Node) *RefCollector {
	var refs *RefCollector
	_ = Walk(root, func(n Node, _ int) error {
		if d, ok := n.(*LinkReferenceDefinition); ok {
			if refs == nil {
				refs = NewRefCollector()
			}
			refs.Add(d)
		}
		return nil
	})
	return refs
}

func (h *HTMLRenderer) warn(reason string) {
	entry := h.cfg.logger.WithField("path", h.t.String())
	if kind, ok := h.t.current(); ok {
		entry = entry.WithField("node", kind.String())
	}
	entry.Warn(reason)
}

// WriteRaw writes s without escaping.
func (h *HTMLRenderer) WriteRaw(s string) {
	h.buf = append(h.buf, s...)
}

// WriteText writes s escaped as character data.
func (h *HTMLRenderer) WriteText(s string) {
	out, _ := h.esc.Escape(ContextHTMLText, s)
	h.buf = append(h.buf, out...)
}

func (h *HTMLRenderer) writeAttr(name, value string) {
	out, _ := h.esc.Escape(ContextHTMLAttribute, value)
	h.buf = append(h.buf, ' ')
	h.buf = append(h.buf, name...)
	h.buf = append(h.buf, `="`...)
	h.buf = append(h.buf, out...)
	h.buf = append(h.buf, '"')
}

// RenderNodes renders nodes at the cursor in the current context.
func (h *HTMLRenderer) RenderNodes(nodes ...Node) error {
	return h.nodes(nodes)
}

// RenderInline renders nodes as inline content.
func (h *HTMLRenderer) RenderInline(nodes ...Node) error {
	return h.inlines(nodes)
}

func (h *HTMLRenderer) nodes(nodes []Node) error {
	for i, n := range nodes {
		if err := h.node(n, i); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTMLRenderer) inlines(nodes []Node) error {
	h.inline++
	defer func() { h.inline-- }()
	return h.nodes(nodes)
}

func (h *HTMLRenderer) node(n Node, index int) error {
	if n == nil {
		return h.t.annotate(structuralError(ErrInvalidStructure, "nil node at index %d", index))
	}
	err := h.t.enter(n.Kind(), index)
	defer h.t.leave()
	if err != nil {
		return err
	}
	if h.inline > 0 && IsBlock(n) {
		return h.t.annotate(structuralError(ErrBlockInInline, "%s in inline position", n.Kind()))
	}
	if err := h.render(n); err != nil {
		return h.t.annotate(err)
	}
	return nil
}

func (h *HTMLRenderer) render(n Node) error {
	switch v := n.(type) {
	case *Document:
		return h.nodes(v.Children)
	case *Heading:
		if v.Level < 1 || v.Level > 6 {
			return structuralError(ErrInvalidHeadingLevel, "heading level %d", v.Level)
		}
		tag := "h" + strconv.Itoa(v.Level)
		h.WriteRaw("<" + tag + ">")
		if err := h.inlines(v.Content); err != nil {
			return err
		}
		h.WriteRaw("</" + tag + ">\n")
	case *Paragraph:
		h.WriteRaw("<p>")
		if err := h.inlines(trimTrailingHardBreaks(v.Content)); err != nil {
			return err
		}
		h.WriteRaw("</p>\n")
	case *BlockQuote:
		h.WriteRaw("<blockquote>\n")
		if err := h.nodes(v.Children); err != nil {
			return err
		}
		h.WriteRaw("</blockquote>\n")
	case *CodeBlock:
		h.codeBlock(v)
	case ThematicBreak:
		h.WriteRaw("<hr" + h.opts.voidEnd() + "\n")
	case *UnorderedList:
		h.WriteRaw("<ul>\n")
		if err := h.list(v.Items, false); err != nil {
			return err
		}
		h.WriteRaw("</ul>\n")
	case *OrderedList:
		h.WriteRaw("<ol")
		if v.Start != 1 {
			h.writeAttr("start", strconv.Itoa(v.Start))
		}
		h.WriteRaw(">\n")
		if err := h.list(v.Items, true); err != nil {
			return err
		}
		h.WriteRaw("</ol>\n")
	case *Table:
		return h.table(v)
	case *HTMLBlock:
		h.htmlBlock(v)
	case *LinkReferenceDefinition:
	case Text:
		h.WriteText(string(v))
	case *Emphasis:
		return h.wrapInline("em", v.Content)
	case *Strong:
		return h.wrapInline("strong", v.Content)
	case *Strikethrough:
		return h.wrapInline("del", v.Content)
	case InlineCode:
		h.WriteRaw("<code>")
		h.WriteText(string(v))
		h.WriteRaw("</code>")
	case *Link:
		h.WriteRaw("<a")
		h.writeAttr("href", v.Destination)
		if v.Title != "" {
			h.writeAttr("title", v.Title)
		}
		h.WriteRaw(">")
		if err := h.inlines(v.Content); err != nil {
			return err
		}
		h.WriteRaw("</a>")
	case *ReferenceLink:
		return h.referenceLink(v)
	case *Autolink:
		href := autolinkTarget(v)
		if v.Email && !strings.HasPrefix(href, "mailto:") {
			href = "mailto:" + href
		}
		h.writeLink(href, v.URL)
	case *ExtendedAutolink:
		href := v.URL
		if strings.HasPrefix(strings.ToLower(href), "www.") {
			href = "http://" + href
		}
		h.writeLink(href, v.URL)
	case *Image:
		h.WriteRaw("<img")
		h.writeAttr("src", v.Destination)
		h.writeAttr("alt", PlainText(v.Alt...))
		if v.Title != "" {
			h.writeAttr("title", v.Title)
		}
		h.WriteRaw(h.opts.voidEnd())
	case HardBreak:
		h.WriteRaw("<br" + h.opts.voidEnd() + "\n")
	case SoftBreak:
		h.WriteRaw(h.opts.SoftBreak)
	case *HTMLElement:
		return h.element(v)
	case *Custom:
		return h.renderCustom(v)
	default:
		return structuralError(ErrInvalidStructure, "unexpected %s", n.Kind())
	}
	return nil
}

func (h *HTMLRenderer) wrapInline(tag string, content []Node) error {
	h.WriteRaw("<" + tag + ">")
	if err := h.inlines(content); err != nil {
		return err
	}
	h.WriteRaw("</" + tag + ">")
	return nil
}

func (h *HTMLRenderer) writeLink(href, text string) {
	h.WriteRaw("<a")
	h.writeAttr("href", href)
	h.WriteRaw(">")
	h.WriteText(text)
	h.WriteRaw("</a>")
}

func (h *HTMLRenderer) codeBlock(c *CodeBlock) {
	h.WriteRaw("<pre><code")
	// The first word of the info string names the language.
	if lang, _, _ := strings.Cut(strings.TrimSpace(c.Language), " "); lang != "" && h.opts.CodeBlockClassPrefix != "" {
		h.writeAttr("class", h.opts.CodeBlockClassPrefix+lang)
	}
	h.WriteRaw(">")
	if c.Content != "" {
		h.WriteText(c.Content)
		if !strings.HasSuffix(c.Content, "\n") {
			h.WriteRaw("\n")
		}
	}
	h.WriteRaw("</code></pre>\n")
}

func (h *HTMLRenderer) htmlBlock(b *HTMLBlock) {
	if b.Content == "" {
		return
	}
	h.WriteRaw(FilterHTML(b.Content, h.opts.DisallowedTags))
	if !strings.HasSuffix(b.Content, "\n") {
		h.WriteRaw("\n")
	}
}

func (h *HTMLRenderer) list(items []ListItem, ordered bool) error {
	tight := listIsTight(items)
	for i, it := range items {
		if err := h.listItem(i, it, tight, ordered); err != nil {
			return err
		}
	}
	return nil
}

func (h *HTMLRenderer) listItem(index int, it ListItem, tight, ordered bool) error {
	err := h.t.enter(KindListItem, index)
	defer h.t.leave()
	if err != nil {
		return err
	}
	task := it.Variant == ItemTask
	h.WriteRaw("<li")
	if task {
		class := "task-list-item"
		if it.Checked {
			class += " task-list-item-checked"
		}
		h.writeAttr("class", class)
	}
	if ordered && it.Numbered {
		h.writeAttr("value", strconv.Itoa(it.Number))
	}
	h.WriteRaw(">")
	if task {
		h.WriteRaw(`<input type="checkbox" disabled=""`)
		if it.Checked {
			h.WriteRaw(` checked=""`)
		}
		h.WriteRaw(h.opts.voidEnd())
		if len(it.Children) > 0 {
			h.WriteRaw(" ")
		}
	}
	if len(it.Children) == 0 {
		h.WriteRaw("</li>\n")
		return nil
	}
	if tight {
		if p, ok := it.Children[0].(*Paragraph); ok {
			if err := h.t.enter(KindParagraph, 0); err != nil {
				h.t.leave()
				return err
			}
			err := h.inlines(trimTrailingHardBreaks(p.Content))
			h.t.leave()
			if err != nil {
				return h.t.annotate(err)
			}
			h.WriteRaw("</li>\n")
			return nil
		}
	}
	h.WriteRaw("\n")
	if err := h.nodes(it.Children); err != nil {
		return err
	}
	h.WriteRaw("</li>\n")
	return nil
}

func (h *HTMLRenderer) table(t *Table) error {
	if err := checkTableShape(t); err != nil {
		return err
	}
	h.WriteRaw("<table>\n<thead>\n<tr>\n")
	for i, c := range t.Headers {
		if err := h.cell("th", c, t.alignment(i)); err != nil {
			return err
		}
	}
	h.WriteRaw("</tr>\n</thead>\n")
	if len(t.Rows) > 0 {
		h.WriteRaw("<tbody>\n")
		for _, row := range t.Rows {
			h.WriteRaw("<tr>\n")
			for i, c := range row {
				if err := h.cell("td", c, t.alignment(i)); err != nil {
					return err
				}
			}
			h.WriteRaw("</tr>\n")
		}
		h.WriteRaw("</tbody>\n")
	}
	h.WriteRaw("</table>\n")
	return nil
}

func (h *HTMLRenderer) cell(tag string, c Cell, a Alignment) error {
	h.WriteRaw("<" + tag)
	if a != AlignNone {
		if h.opts.AlignmentStyle == AlignWithAttribute {
			h.writeAttr("align", a.String())
		} else {
			h.writeAttr("style", "text-align: "+a.String()+";")
		}
	}
	h.WriteRaw(">")
	var err error
	if cellHasBlock(c) {
		err = h.nodes(c)
	} else {
		err = h.inlines(c)
	}
	if err != nil {
		return err
	}
	h.WriteRaw("</" + tag + ">\n")
	return nil
}

func (h *HTMLRenderer) referenceLink(l *ReferenceLink) error {
	content := l.Content
	if len(content) == 0 {
		content = []Node{Text(l.Label)}
	}
	if h.refs != nil {
		if d, ok := h.refs.Lookup(l.Label); ok {
			h.WriteRaw("<a")
			h.writeAttr("href", d.Destination)
			if d.Title != "" {
				h.writeAttr("title", d.Title)
			}
			h.WriteRaw(">")
			if err := h.inlines(content); err != nil {
				return err
			}
			h.WriteRaw("</a>")
			return nil
		}
	}
	h.WriteText("[")
	if err := h.inlines(content); err != nil {
		return err
	}
	h.WriteText("]")
	if len(l.Content) > 0 {
		h.WriteText("[" + l.Label + "]")
	}
	return nil
}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoidElement reports whether tag never has an end tag.
func IsVoidElement(tag string) bool {
	return voidElements[atom.Lookup([]byte(strings.ToLower(tag)))]
}

func (h *HTMLRenderer) element(e *HTMLElement) error {
	if !validTagName(e.Tag) {
		if h.opts.Strict {
			return contentError(ErrInvalidHTMLTag, "tag %q", e.Tag)
		}
		h.warn("invalid html tag name; rendering as text")
		return h.textualize(e)
	}
	attrs := normalizedAttributes(e.Attributes)
	for _, a := range attrs {
		if validAttrName(a.Name) {
			continue
		}
		if h.opts.Strict {
			return contentError(ErrInvalidHTMLAttribute, "attribute %q on <%s>", a.Name, e.Tag)
		}
		h.warn("invalid html attribute name; rendering as text")
		return h.textualize(e)
	}
	if IsDisallowedTag(e.Tag, h.opts.DisallowedTags) {
		if h.opts.DisallowedTagMode == DisallowedDrop {
			return nil
		}
		return h.textualize(e)
	}
	h.WriteRaw("<" + e.Tag)
	for _, a := range attrs {
		h.writeAttr(a.Name, a.Value)
	}
	if IsVoidElement(e.Tag) {
		h.WriteRaw(h.opts.voidEnd())
		return nil
	}
	if e.SelfClosing && len(e.Children) == 0 {
		if h.opts.SelfClosing == SelfClosingXHTML {
			h.WriteRaw(" />")
		} else {
			h.WriteRaw("></" + e.Tag + ">")
		}
		return nil
	}
	h.WriteRaw(">")
	if err := h.nodes(e.Children); err != nil {
		return err
	}
	h.WriteRaw("</" + e.Tag + ">")
	return nil
}

// textualize writes the element's tags as escaped text around its
// rendered children.
func (h *HTMLRenderer) textualize(e *HTMLElement) error {
	h.WriteText(openTagSource(e))
	if e.SelfClosing && len(e.Children) == 0 {
		return nil
	}
	if err := h.nodes(e.Children); err != nil {
		return err
	}
	h.WriteText("</" + e.Tag + ">")
	return nil
}
