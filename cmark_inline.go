package mdw

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func (r *CommonMarkRenderer) renderInlines(nodes []Node) error {
	for i, n := range nodes {
		if n == nil {
			return r.t.annotate(structuralError(ErrInvalidStructure, "nil node at index %d", i))
		}
		var next Node
		if i+1 < len(nodes) {
			next = nodes[i+1]
		}
		if err := r.inline(n, i, next); err != nil {
			return err
		}
	}
	return nil
}

func (r *CommonMarkRenderer) inline(n Node, index int, next Node) error {
	err := r.t.enter(n.Kind(), index)
	defer r.t.leave()
	if err != nil {
		return err
	}
	if err := r.renderInline(n, next); err != nil {
		return r.t.annotate(err)
	}
	return nil
}

func (r *CommonMarkRenderer) renderInline(n Node, next Node) error {
	if IsBlock(n) {
		return structuralError(ErrBlockInInline, "%s in inline position", n.Kind())
	}
	switch v := n.(type) {
	case Text:
		return r.textBefore(string(v), next)
	case *Emphasis:
		return r.delimited(r.opts.EmphasisChar, 1, "em", v.Content, next)
	case *Strong:
		return r.delimited(r.opts.StrongChar, 2, "strong", v.Content, next)
	case *Strikethrough:
		if !r.opts.gfmStrikethrough() {
			if r.opts.Strict {
				return unsupportedError("strikethrough")
			}
			r.warn("gfm strikethrough disabled; rendering content")
			return r.renderInlines(v.Content)
		}
		return r.delimited('~', 2, "del", v.Content, next)
	case InlineCode:
		return r.codeSpan(string(v))
	case *Link:
		return r.link(v)
	case *Image:
		return r.image(v)
	case *Autolink:
		return r.autolink(v)
	case *ExtendedAutolink:
		return r.extendedAutolink(v)
	case *ReferenceLink:
		return r.referenceLink(v, next)
	case HardBreak:
		if r.opts.HardBreakSpaces {
			r.w.WriteString("  \n")
		} else {
			r.w.WriteString("\\\n")
		}
		return nil
	case SoftBreak:
		r.w.newline()
		return nil
	case *HTMLElement:
		return r.htmlElement(v)
	case *Custom:
		return r.customInline(v)
	}
	return structuralError(ErrInvalidStructure, "unexpected %s", n.Kind())
}

func (r *CommonMarkRenderer) text(s string) error {
	if err := r.checkText(s); err != nil {
		return err
	}
	out, err := r.esc.Escape(ContextText, s)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	if r.opts.EscapeSpecialChars && r.w.lineStart() {
		out = escapeBlockStart(out)
	}
	r.w.WriteString(out)
	return nil
}

// textBefore writes s followed by next. A trailing '!' is escaped when
// next opens with a bracket, or the pair would read as an image.
func (r *CommonMarkRenderer) textBefore(s string, next Node) error {
	if !r.opts.EscapeSpecialChars || !strings.HasSuffix(s, "!") || r.firstRune(next) != '[' {
		return r.text(s)
	}
	if err := r.text(s[:len(s)-1]); err != nil {
		return err
	}
	r.w.WriteString(`\!`)
	return nil
}

// delimited wraps content in count copies of c. Nested or adjacent spans
// using the same character switch to the alternate one so they cannot
// merge, and '_' is avoided inside words. Content the delimiters cannot
// flank is wrapped in the inline HTML tag instead.
func (r *CommonMarkRenderer) delimited(c byte, count int, tag string, content []Node, next Node) error {
	prev := r.w.lastRune()
	if c != '~' {
		if n := len(r.emph); n > 0 && r.emph[n-1] == c {
			c = alternateEmphasis(c)
		}
		if prev == rune(c) {
			c = alternateEmphasis(c)
		}
		if c == '_' && (isWordRune(prev) || isWordRune(r.firstRune(next))) {
			c = '*'
		}
	}
	r.emph = append(r.emph, c)
	inner, err := r.capture(c, false, func() error { return r.renderInlines(content) })
	r.emph = r.emph[:len(r.emph)-1]
	if err != nil {
		return err
	}
	core := strings.TrimLeft(inner, " \t")
	lead := inner[:len(inner)-len(core)]
	trimmed := strings.TrimRight(core, " \t")
	trail := core[len(trimmed):]
	if trimmed == "" {
		r.w.WriteString(inner)
		return nil
	}
	before, after := prev, r.firstRune(next)
	if lead != "" {
		before = ' '
	}
	if trail != "" {
		after = ' '
	}
	if !canDelimit(c, before, trimmed, after) {
		r.warn("delimiters cannot flank " + tag + " content; rendering html")
		r.w.WriteString(lead + "<" + tag + ">")
		r.w.WriteString(trimmed)
		r.w.WriteString("</" + tag + ">" + trail)
		return nil
	}
	delim := strings.Repeat(string(c), count)
	r.w.WriteString(lead)
	r.w.WriteString(delim)
	r.w.WriteString(trimmed)
	r.w.WriteString(delim)
	r.w.WriteString(trail)
	return nil
}

// canDelimit reports whether a delimiter run of c before core opens after
// the character before, and one after core closes ahead of after. A zero
// rune is a line edge.
func canDelimit(c byte, before rune, core string, after rune) bool {
	first, _ := utf8.DecodeRuneInString(core)
	last, _ := utf8.DecodeLastRuneInString(core)
	opens := leftFlanking(before, first)
	closes := rightFlanking(last, after)
	if c == '_' {
		opens = opens && (!rightFlanking(before, first) || isPunctRune(before))
		closes = closes && (!leftFlanking(last, after) || isPunctRune(after))
	}
	return opens && closes
}

func leftFlanking(before, next rune) bool {
	return !isSpaceRune(next) && (!isPunctRune(next) || isSpaceRune(before) || isPunctRune(before))
}

func rightFlanking(prev, after rune) bool {
	return !isSpaceRune(prev) && (!isPunctRune(prev) || isSpaceRune(after) || isPunctRune(after))
}

func isSpaceRune(c rune) bool { return c == 0 || unicode.IsSpace(c) }

func isPunctRune(c rune) bool { return unicode.IsPunct(c) || unicode.IsSymbol(c) }

func isWordRune(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }

// firstRune returns the first character n renders as, or 0 when unknown.
func (r *CommonMarkRenderer) firstRune(n Node) rune {
	switch v := n.(type) {
	case Text:
		c, size := utf8.DecodeRuneInString(string(v))
		if size > 0 {
			return c
		}
	case *Emphasis, *Strong:
		return '*'
	case *Strikethrough:
		if r.opts.gfmStrikethrough() {
			return '~'
		}
		if len(v.Content) > 0 {
			return r.firstRune(v.Content[0])
		}
	case InlineCode:
		return '`'
	case *Link, *ReferenceLink:
		return '['
	case *Image:
		return '!'
	case *Autolink, *HTMLElement:
		return '<'
	case *ExtendedAutolink:
		return r.firstRune(Text(v.URL))
	case HardBreak:
		if r.opts.HardBreakSpaces {
			return ' '
		}
		return '\\'
	case SoftBreak:
		return '\n'
	}
	return 0
}

func (r *CommonMarkRenderer) codeSpan(code string) error {
	if err := r.checkText(code); err != nil {
		return err
	}
	s, err := r.esc.Escape(ContextInlineCode, code)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	ticks := strings.Repeat("`", longestRun(s, '`')+1)
	pad := ""
	if s[0] == '`' || s[len(s)-1] == '`' || (s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "") {
		pad = " "
	}
	r.w.WriteString(ticks + pad + s + pad + ticks)
	return nil
}

func (r *CommonMarkRenderer) linkText(seed byte, content []Node, what string) (string, error) {
	saved := r.inLink
	r.inLink = true
	text, err := r.capture(seed, false, func() error { return r.renderInlines(content) })
	r.inLink = saved
	if err != nil {
		return "", err
	}
	if r.opts.Strict && strings.ContainsAny(text, "\n\r") {
		return "", contentError(ErrNewlineInInline, "line break in %s", what)
	}
	return text, nil
}

func (r *CommonMarkRenderer) destinationAndTitle(dest, title string) (string, error) {
	if err := r.checkText(dest); err != nil {
		return "", err
	}
	if err := r.checkText(title); err != nil {
		return "", err
	}
	d, err := r.esc.Escape(ContextLinkDestination, dest)
	if err != nil {
		return "", err
	}
	if title == "" {
		return d, nil
	}
	t, err := r.esc.Escape(ContextLinkTitle, title)
	if err != nil {
		return "", err
	}
	return d + ` "` + t + `"`, nil
}

func (r *CommonMarkRenderer) link(l *Link) error {
	if r.inLink {
		if r.opts.Strict {
			return structuralError(ErrInvalidStructure, "link nested in link")
		}
		r.warn("link nested in link; rendering content")
		return r.renderInlines(l.Content)
	}
	text, err := r.linkText('[', l.Content, "link text")
	if err != nil {
		return err
	}
	target, err := r.destinationAndTitle(l.Destination, l.Title)
	if err != nil {
		return err
	}
	r.w.WriteString("[" + text + "](" + target + ")")
	return nil
}

func (r *CommonMarkRenderer) image(img *Image) error {
	alt, err := r.linkText('[', img.Alt, "image description")
	if err != nil {
		return err
	}
	target, err := r.destinationAndTitle(img.Destination, img.Title)
	if err != nil {
		return err
	}
	r.w.WriteString("![" + alt + "](" + target + ")")
	return nil
}

func validAutolinkURL(url string) bool {
	return url != "" && !strings.ContainsAny(url, " \t\n\r<>")
}

func (r *CommonMarkRenderer) autolink(a *Autolink) error {
	if err := r.checkText(a.URL); err != nil {
		return err
	}
	if !validAutolinkURL(a.URL) || (a.Email && !strings.Contains(a.URL, "@")) {
		return contentError(ErrInvalidURL, "autolink %q", a.URL)
	}
	r.w.WriteString("<" + autolinkTarget(a) + ">")
	return nil
}

// autolinkTarget adds a scheme to non-email URLs that lack one.
func autolinkTarget(a *Autolink) string {
	if !a.Email && !strings.Contains(a.URL, ":") {
		return "https://" + a.URL
	}
	return a.URL
}

func (r *CommonMarkRenderer) extendedAutolink(a *ExtendedAutolink) error {
	if !r.opts.gfmAutolinks() {
		if r.opts.Strict {
			return unsupportedError("extended autolink")
		}
		r.warn("gfm autolinks disabled; rendering text")
		return r.text(a.URL)
	}
	if err := r.checkText(a.URL); err != nil {
		return err
	}
	if !validAutolinkURL(a.URL) {
		return contentError(ErrInvalidURL, "extended autolink %q", a.URL)
	}
	r.w.WriteString(a.URL)
	return nil
}

func (r *CommonMarkRenderer) referenceLink(l *ReferenceLink, next Node) error {
	if NormalizeLabel(l.Label) == "" {
		return structuralError(ErrInvalidStructure, "empty reference label")
	}
	label, err := r.label(l.Label)
	if err != nil {
		return err
	}
	if len(l.Content) == 0 || (len(l.Content) == 1 && l.Content[0] == Text(l.Label)) {
		r.w.WriteString("[" + label + "]")
		// A following bracket or parenthesis would change the link form.
		if c := r.firstRune(next); c == '(' || c == '[' || c == ':' {
			r.w.WriteString("[]")
		}
		return nil
	}
	text, err := r.linkText('[', l.Content, "link text")
	if err != nil {
		return err
	}
	r.w.WriteString("[" + text + "][" + label + "]")
	return nil
}

func (r *CommonMarkRenderer) htmlElement(e *HTMLElement) error {
	out, err := r.delegate(func(h *HTMLRenderer) error { return h.node(e, -1) })
	if err != nil {
		return err
	}
	if strings.ContainsAny(out, "\n\r") {
		return contentError(ErrNewlineInInline, "line break in inline html")
	}
	r.w.WriteString(out)
	return nil
}

func longestRun(s string, c byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}
