package mdw

import "strings"

// EscapeContext is the syntactic position a string is written into.
type EscapeContext uint8

const (
	// ContextText is CommonMark inline text.
	ContextText EscapeContext = iota
	// ContextInlineCode is the content of a code span.
	ContextInlineCode
	// ContextLinkDestination is a link or image destination.
	ContextLinkDestination
	// ContextLinkTitle is a link or image title.
	ContextLinkTitle
	// ContextHTMLAttribute is an HTML attribute value.
	ContextHTMLAttribute
	// ContextCodeBlock is raw code block content.
	ContextCodeBlock
	// ContextHTMLText is HTML character data.
	ContextHTMLText
)

func (c EscapeContext) String() string {
	switch c {
	case ContextText:
		return "text"
	case ContextInlineCode:
		return "inline code"
	case ContextLinkDestination:
		return "link destination"
	case ContextLinkTitle:
		return "link title"
	case ContextHTMLAttribute:
		return "html attribute"
	case ContextCodeBlock:
		return "code block"
	case ContextHTMLText:
		return "html text"
	default:
		return "unknown"
	}
}

// inlineOnly reports whether a newline is forbidden in the context.
func (c EscapeContext) inlineOnly() bool {
	switch c {
	case ContextText, ContextInlineCode, ContextLinkDestination, ContextLinkTitle:
		return true
	}
	return false
}

// Escaper escapes strings for a context. Both renderers share one
// implementation parameterized by their options.
type Escaper interface {
	Escape(ctx EscapeContext, s string) (string, error)
}

type escaper struct {
	special    bool
	tilde      bool
	strictAttr bool
}

// NewEscaper returns the escaper the CommonMark renderer uses for o.
func NewEscaper(o Options) Escaper {
	return escaper{special: o.EscapeSpecialChars, tilde: o.gfmStrikethrough()}
}

// NewHTMLEscaper returns the escaper the HTML renderer uses for o.
func NewHTMLEscaper(o HTMLOptions) Escaper {
	return escaper{strictAttr: o.StrictAttributeEscaping}
}

func (e escaper) Escape(ctx EscapeContext, s string) (string, error) {
	if ctx.inlineOnly() && strings.ContainsAny(s, "\n\r") {
		return "", contentError(ErrNewlineInInline, "newline in %s", ctx)
	}
	switch ctx {
	case ContextText:
		if !e.special {
			return s, nil
		}
		return e.escapeText(s), nil
	case ContextInlineCode, ContextCodeBlock:
		return s, nil
	case ContextLinkDestination:
		return escapeDestination(s), nil
	case ContextLinkTitle:
		return escapeTitle(s), nil
	case ContextHTMLAttribute:
		return escapeHTML(s, e.strictAttr), nil
	case ContextHTMLText:
		return escapeHTML(s, false), nil
	}
	return s, nil
}

func (e escaper) needsBackslash(s string, i int) bool {
	switch s[i] {
	case '\\', '`', '*', '_', '[', ']', '<', '>':
		return true
	case '~':
		return e.tilde
	case '&':
		return i+1 < len(s) && (isASCIILetter(s[i+1]) || s[i+1] == '#')
	}
	return false
}

func (e escaper) escapeText(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if e.needsBackslash(s, i) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + n)
	for i := 0; i < len(s); i++ {
		if e.needsBackslash(s, i) {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeBlockStart escapes text that would open a block construct when it
// begins a line. s is already escaped for ContextText.
func escapeBlockStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case ' ', '\t':
		return leadingBlankRefs(s)
	case '#', '-', '+', '=', '~':
		return "\\" + s
	}
	digits := 0
	for digits < len(s) && digits < 10 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < 10 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + "\\" + s[digits:]
	}
	return s
}

// leadingBlankRefs writes the leading spaces and tabs of s as character
// references, which a parser neither strips nor reads as indentation.
func leadingBlankRefs(s string) string {
	var b strings.Builder
	i := 0
	for ; i < len(s) && (s[i] == ' ' || s[i] == '\t'); i++ {
		if s[i] == ' ' {
			b.WriteString("&#32;")
		} else {
			b.WriteString("&#9;")
		}
	}
	b.WriteString(s[i:])
	return b.String()
}

func escapeDestination(s string) string {
	if needsAngleDestination(s) {
		var b strings.Builder
		b.Grow(len(s) + 2)
		b.WriteByte('<')
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '<', '>', '\\':
				b.WriteByte('\\')
			}
			b.WriteByte(s[i])
		}
		b.WriteByte('>')
		return b.String()
	}
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	return strings.ReplaceAll(s, `\`, `\\`)
}

func needsAngleDestination(s string) bool {
	if s == "" {
		return true
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c < 0x20 || c == 0x7F:
			return true
		case c == '<' || c == '>':
			return true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return true
			}
		}
	}
	return depth != 0
}

func escapeTitle(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func escapeHTML(s string, quotes bool) string {
	if !strings.ContainsAny(s, `<>&"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			if quotes {
				b.WriteString("&#39;")
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIAlnum(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9')
}
