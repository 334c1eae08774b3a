package mdw

import "strings"

// DefaultDisallowedTags returns the GFM tagfilter list.
func DefaultDisallowedTags() []string {
	return []string{"title", "textarea", "style", "xmp", "iframe", "noembed", "noframes", "script", "plaintext"}
}

// IsDisallowedTag reports whether tag is in list, ignoring case.
func IsDisallowedTag(tag string, list []string) bool {
	for _, t := range list {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// FilterHTML applies the GFM tagfilter to raw: the '<' of any opening or
// closing tag named in list is replaced by "&lt;".
func FilterHTML(raw string, list []string) string {
	if len(list) == 0 || strings.IndexByte(raw, '<') < 0 {
		return raw
	}
	var b strings.Builder
	last := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '<' || !filteredTagAt(raw[i+1:], list) {
			continue
		}
		b.WriteString(raw[last:i])
		b.WriteString("&lt;")
		last = i + 1
	}
	if last == 0 {
		return raw
	}
	b.WriteString(raw[last:])
	return b.String()
}

// filteredTagAt reports whether s, the text after a '<', starts a tag whose
// name is in list.
func filteredTagAt(s string, list []string) bool {
	s = strings.TrimPrefix(s, "/")
	for _, tag := range list {
		if len(s) < len(tag) || !strings.EqualFold(s[:len(tag)], tag) {
			continue
		}
		rest := s[len(tag):]
		if rest == "" {
			return false
		}
		switch rest[0] {
		case ' ', '\t', '\n', '\r', '\f', '>':
			return true
		case '/':
			return len(rest) > 1 && rest[1] == '>'
		}
	}
	return false
}

// SafeHTML returns a copy of tree in which every disallowed HTMLElement is
// replaced by its escaped markup as Text, and raw HTML blocks are filtered.
func SafeHTML(tree Node, list []string) Node {
	if tree == nil {
		return nil
	}
	return safeNode(Clone(tree), list)
}

func safeNode(n Node, list []string) Node {
	switch v := n.(type) {
	case *HTMLElement:
		if IsDisallowedTag(v.Tag, list) {
			return Text(elementSource(v))
		}
		v.Children = safeNodes(v.Children, list)
	case *HTMLBlock:
		v.Content = FilterHTML(v.Content, list)
	case *Document:
		v.Children = safeNodes(v.Children, list)
	case *BlockQuote:
		v.Children = safeNodes(v.Children, list)
	case *Heading:
		v.Content = safeNodes(v.Content, list)
	case *Paragraph:
		v.Content = safeNodes(v.Content, list)
	case *Emphasis:
		v.Content = safeNodes(v.Content, list)
	case *Strong:
		v.Content = safeNodes(v.Content, list)
	case *Strikethrough:
		v.Content = safeNodes(v.Content, list)
	case *Link:
		v.Content = safeNodes(v.Content, list)
	case *ReferenceLink:
		v.Content = safeNodes(v.Content, list)
	case *Image:
		v.Alt = safeNodes(v.Alt, list)
	case *UnorderedList:
		safeItems(v.Items, list)
	case *OrderedList:
		safeItems(v.Items, list)
	case *Table:
		for i, c := range v.Headers {
			v.Headers[i] = Cell(safeNodes(c, list))
		}
		for _, row := range v.Rows {
			for i, c := range row {
				row[i] = Cell(safeNodes(c, list))
			}
		}
	}
	return n
}

func safeNodes(nodes []Node, list []string) []Node {
	for i, n := range nodes {
		if n != nil {
			nodes[i] = safeNode(n, list)
		}
	}
	return nodes
}

func safeItems(items []ListItem, list []string) {
	for i := range items {
		items[i].Children = safeNodes(items[i].Children, list)
	}
}

// elementSource returns the markup of e with children flattened to text.
func elementSource(e *HTMLElement) string {
	var b strings.Builder
	b.WriteString(openTagSource(e))
	if e.SelfClosing && len(e.Children) == 0 {
		return b.String()
	}
	b.WriteString(PlainText(e.Children...))
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
	return b.String()
}

func openTagSource(e *HTMLElement) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attributes {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	if e.SelfClosing && len(e.Children) == 0 {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// validTagName reports whether s matches [A-Za-z][A-Za-z0-9-]*.
func validTagName(s string) bool {
	if s == "" || !isASCIILetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isASCIIAlnum(s[i]) && s[i] != '-' {
			return false
		}
	}
	return true
}

// validAttrName reports whether s matches [A-Za-z_:][A-Za-z0-9_.:-]*.
func validAttrName(s string) bool {
	if s == "" || !(isASCIILetter(s[0]) || s[0] == '_' || s[0] == ':') {
		return false
	}
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case isASCIIAlnum(c), c == '_', c == '.', c == ':', c == '-':
		default:
			return false
		}
	}
	return true
}
