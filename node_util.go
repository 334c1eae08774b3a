package mdw

import "strings"

// WalkFunc is called for every node visited by Walk. Returning SkipChildren
// prunes the subtree; any other non-nil error stops the walk.
type WalkFunc func(n Node, depth int) error

// SkipChildren is returned by a WalkFunc to skip a node's children.
var SkipChildren = walkSignal("skip children")

type walkSignal string

func (s walkSignal) Error() string { return string(s) }

// Walk visits n and its descendants depth first. List items and table cells
// are traversed transparently.
func Walk(n Node, fn WalkFunc) error {
	err := walk(n, 0, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk(n Node, depth int, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(n, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	visit := func(nodes []Node) error {
		for _, c := range nodes {
			if err := walk(c, depth+1, fn); err != nil {
				return err
			}
		}
		return nil
	}
	switch v := n.(type) {
	case *UnorderedList:
		for _, it := range v.Items {
			if err := visit(it.Children); err != nil {
				return err
			}
		}
	case *OrderedList:
		for _, it := range v.Items {
			if err := visit(it.Children); err != nil {
				return err
			}
		}
	case *Table:
		for _, h := range v.Headers {
			if err := visit(h); err != nil {
				return err
			}
		}
		for _, row := range v.Rows {
			for _, c := range row {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
	default:
		return visit(children(n))
	}
	return nil
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Document:
		return equalNodes(x.Children, b.(*Document).Children)
	case *Heading:
		y := b.(*Heading)
		return x.Level == y.Level && x.Style == y.Style && equalNodes(x.Content, y.Content)
	case *Paragraph:
		return equalNodes(x.Content, b.(*Paragraph).Content)
	case *BlockQuote:
		return equalNodes(x.Children, b.(*BlockQuote).Children)
	case *CodeBlock:
		return *x == *b.(*CodeBlock)
	case ThematicBreak, HardBreak, SoftBreak:
		return true
	case *UnorderedList:
		return equalItems(x.Items, b.(*UnorderedList).Items)
	case *OrderedList:
		y := b.(*OrderedList)
		return x.Start == y.Start && equalItems(x.Items, y.Items)
	case *Table:
		return equalTables(x, b.(*Table))
	case *HTMLBlock:
		return x.Content == b.(*HTMLBlock).Content
	case *LinkReferenceDefinition:
		return *x == *b.(*LinkReferenceDefinition)
	case Text:
		return x == b.(Text)
	case InlineCode:
		return x == b.(InlineCode)
	case *Emphasis:
		return equalNodes(x.Content, b.(*Emphasis).Content)
	case *Strong:
		return equalNodes(x.Content, b.(*Strong).Content)
	case *Strikethrough:
		return equalNodes(x.Content, b.(*Strikethrough).Content)
	case *Link:
		y := b.(*Link)
		return x.Destination == y.Destination && x.Title == y.Title && equalNodes(x.Content, y.Content)
	case *ReferenceLink:
		y := b.(*ReferenceLink)
		return x.Label == y.Label && equalNodes(x.Content, y.Content)
	case *Autolink:
		return *x == *b.(*Autolink)
	case *ExtendedAutolink:
		return *x == *b.(*ExtendedAutolink)
	case *Image:
		y := b.(*Image)
		return x.Destination == y.Destination && x.Title == y.Title && equalNodes(x.Alt, y.Alt)
	case *HTMLElement:
		y := b.(*HTMLElement)
		if x.Tag != y.Tag || x.SelfClosing != y.SelfClosing || len(x.Attributes) != len(y.Attributes) {
			return false
		}
		for i := range x.Attributes {
			if x.Attributes[i] != y.Attributes[i] {
				return false
			}
		}
		return equalNodes(x.Children, y.Children)
	case *Custom:
		y := b.(*Custom)
		if x.Ext == nil || y.Ext == nil {
			return x.Ext == nil && y.Ext == nil
		}
		return x.Ext.Equal(y.Ext)
	}
	return false
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalItems(a, b []ListItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Variant != y.Variant || x.Numbered != y.Numbered || x.Number != y.Number || x.Checked != y.Checked {
			return false
		}
		if !equalNodes(x.Children, y.Children) {
			return false
		}
	}
	return true
}

func equalTables(a, b *Table) bool {
	if len(a.Headers) != len(b.Headers) || len(a.Rows) != len(b.Rows) || len(a.Alignments) != len(b.Alignments) {
		return false
	}
	for i := range a.Alignments {
		if a.Alignments[i] != b.Alignments[i] {
			return false
		}
	}
	for i := range a.Headers {
		if !equalNodes(a.Headers[i], b.Headers[i]) {
			return false
		}
	}
	for i := range a.Rows {
		if len(a.Rows[i]) != len(b.Rows[i]) {
			return false
		}
		for j := range a.Rows[i] {
			if !equalNodes(a.Rows[i][j], b.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *Document:
		return &Document{Children: cloneNodes(v.Children)}
	case *Heading:
		return &Heading{Level: v.Level, Style: v.Style, Content: cloneNodes(v.Content)}
	case *Paragraph:
		return &Paragraph{Content: cloneNodes(v.Content)}
	case *BlockQuote:
		return &BlockQuote{Children: cloneNodes(v.Children)}
	case *CodeBlock:
		c := *v
		return &c
	case *UnorderedList:
		return &UnorderedList{Items: cloneItems(v.Items)}
	case *OrderedList:
		return &OrderedList{Start: v.Start, Items: cloneItems(v.Items)}
	case *Table:
		t := &Table{
			Headers:    cloneCells(v.Headers),
			Alignments: append([]Alignment(nil), v.Alignments...),
		}
		if v.Rows != nil {
			t.Rows = make([][]Cell, len(v.Rows))
			for i, row := range v.Rows {
				t.Rows[i] = cloneCells(row)
			}
		}
		return t
	case *HTMLBlock:
		c := *v
		return &c
	case *LinkReferenceDefinition:
		c := *v
		return &c
	case *Emphasis:
		return &Emphasis{Content: cloneNodes(v.Content)}
	case *Strong:
		return &Strong{Content: cloneNodes(v.Content)}
	case *Strikethrough:
		return &Strikethrough{Content: cloneNodes(v.Content)}
	case *Link:
		return &Link{Destination: v.Destination, Title: v.Title, Content: cloneNodes(v.Content)}
	case *ReferenceLink:
		return &ReferenceLink{Label: v.Label, Content: cloneNodes(v.Content)}
	case *Autolink:
		c := *v
		return &c
	case *ExtendedAutolink:
		c := *v
		return &c
	case *Image:
		return &Image{Destination: v.Destination, Title: v.Title, Alt: cloneNodes(v.Alt)}
	case *HTMLElement:
		return &HTMLElement{
			Tag:         v.Tag,
			Attributes:  append([]Attribute(nil), v.Attributes...),
			SelfClosing: v.SelfClosing,
			Children:    cloneNodes(v.Children),
		}
	case *Custom:
		if v.Ext == nil {
			return &Custom{}
		}
		return &Custom{Ext: v.Ext.Clone()}
	default:
		// Value variants (Text, InlineCode, breaks) are immutable.
		return n
	}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

func cloneItems(items []ListItem) []ListItem {
	if items == nil {
		return nil
	}
	out := make([]ListItem, len(items))
	for i, it := range items {
		it.Children = cloneNodes(it.Children)
		out[i] = it
	}
	return out
}

func cloneCells(cells []Cell) []Cell {
	if cells == nil {
		return nil
	}
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell(cloneNodes(c))
	}
	return out
}

// PlainText concatenates the literal text of n and its descendants. Breaks
// become spaces.
func PlainText(nodes ...Node) string {
	var b strings.Builder
	for _, n := range nodes {
		_ = Walk(n, func(c Node, _ int) error {
			switch v := c.(type) {
			case Text:
				b.WriteString(string(v))
			case InlineCode:
				b.WriteString(string(v))
			case HardBreak, SoftBreak:
				b.WriteByte(' ')
			case *Autolink:
				b.WriteString(v.URL)
			case *ExtendedAutolink:
				b.WriteString(v.URL)
			case *CodeBlock:
				b.WriteString(v.Content)
			}
			return nil
		})
	}
	return b.String()
}
