package mdw

// Kind identifies a node variant.
type Kind uint8

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindBlockQuote
	KindCodeBlock
	KindThematicBreak
	KindUnorderedList
	KindOrderedList
	KindTable
	KindHTMLBlock
	KindLinkReferenceDefinition
	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindInlineCode
	KindLink
	KindReferenceLink
	KindAutolink
	KindExtendedAutolink
	KindImage
	KindHardBreak
	KindSoftBreak
	KindHTMLElement
	KindCustom
	// KindListItem only appears in error paths; list items are not nodes.
	KindListItem
)

var kindNames = [...]string{
	KindDocument:                "Document",
	KindHeading:                 "Heading",
	KindParagraph:               "Paragraph",
	KindBlockQuote:              "BlockQuote",
	KindCodeBlock:               "CodeBlock",
	KindThematicBreak:           "ThematicBreak",
	KindUnorderedList:           "UnorderedList",
	KindOrderedList:             "OrderedList",
	KindTable:                   "Table",
	KindHTMLBlock:               "HTMLBlock",
	KindLinkReferenceDefinition: "LinkReferenceDefinition",
	KindText:                    "Text",
	KindEmphasis:                "Emphasis",
	KindStrong:                  "Strong",
	KindStrikethrough:           "Strikethrough",
	KindInlineCode:              "InlineCode",
	KindLink:                    "Link",
	KindReferenceLink:           "ReferenceLink",
	KindAutolink:                "Autolink",
	KindExtendedAutolink:        "ExtendedAutolink",
	KindImage:                   "Image",
	KindHardBreak:               "HardBreak",
	KindSoftBreak:               "SoftBreak",
	KindHTMLElement:             "HTMLElement",
	KindCustom:                  "Custom",
	KindListItem:                "ListItem",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is an element of a document tree. The set of implementations is
// closed; caller-defined node types plug in through Custom.
type Node interface {
	Kind() Kind
	node()
}

// IsBlock reports whether n occupies block position.
func IsBlock(n Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case KindDocument, KindHeading, KindParagraph, KindBlockQuote, KindCodeBlock,
		KindThematicBreak, KindUnorderedList, KindOrderedList, KindTable,
		KindHTMLBlock, KindLinkReferenceDefinition:
		return true
	case KindCustom:
		c, ok := n.(*Custom)
		return ok && c.Ext != nil && c.Ext.Block()
	default:
		return false
	}
}

// IsInline reports whether n flows within a line.
func IsInline(n Node) bool {
	return n != nil && !IsBlock(n)
}

// HeadingStyle selects between ATX and Setext headings.
type HeadingStyle uint8

const (
	HeadingATX HeadingStyle = iota
	HeadingSetext
)

// CodeBlockStyle selects between fenced and indented code blocks.
type CodeBlockStyle uint8

const (
	CodeFenced CodeBlockStyle = iota
	CodeIndented
)

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// Document is the root block.
type Document struct {
	Children []Node
}

// Heading is a section heading of level 1 through 6.
type Heading struct {
	Level   int
	Style   HeadingStyle
	Content []Node
}

type Paragraph struct {
	Content []Node
}

type BlockQuote struct {
	Children []Node
}

// CodeBlock holds literal code. Language is the info string and may be empty.
type CodeBlock struct {
	Language string
	Content  string
	Style    CodeBlockStyle
}

type ThematicBreak struct{}

type UnorderedList struct {
	Items []ListItem
}

// OrderedList numbers its items from Start.
type OrderedList struct {
	Start int
	Items []ListItem
}

// ItemKind is the variant of a ListItem.
type ItemKind uint8

const (
	ItemUnordered ItemKind = iota
	ItemOrdered
	ItemTask
)

// ListItem is one entry of a list. Number applies when Numbered is set;
// Checked applies to task items.
type ListItem struct {
	Variant  ItemKind
	Number   int
	Numbered bool
	Checked  bool
	Children []Node
}

// Cell is the inline (or, for HTML fallback, block) content of a table cell.
type Cell []Node

// Table is a GFM table. Alignments may be shorter than Headers; missing
// entries are AlignNone.
type Table struct {
	Headers    []Cell
	Alignments []Alignment
	Rows       [][]Cell
}

// HTMLBlock is raw block-level HTML.
type HTMLBlock struct {
	Content string
}

// LinkReferenceDefinition defines a label usable by ReferenceLink.
type LinkReferenceDefinition struct {
	Label       string
	Destination string
	Title       string
}

// Text is literal inline text.
type Text string

type Emphasis struct {
	Content []Node
}

type Strong struct {
	Content []Node
}

type Strikethrough struct {
	Content []Node
}

// InlineCode is a code span.
type InlineCode string

type Link struct {
	Destination string
	Title       string
	Content     []Node
}

// ReferenceLink refers to a LinkReferenceDefinition by label.
type ReferenceLink struct {
	Label   string
	Content []Node
}

type Autolink struct {
	URL   string
	Email bool
}

// ExtendedAutolink is a GFM bare URL.
type ExtendedAutolink struct {
	URL string
}

type Image struct {
	Destination string
	Title       string
	Alt         []Node
}

type HardBreak struct{}

type SoftBreak struct{}

// Custom carries a caller-defined node.
type Custom struct {
	Ext Extension
}

func (*Document) Kind() Kind                { return KindDocument }
func (*Heading) Kind() Kind                 { return KindHeading }
func (*Paragraph) Kind() Kind               { return KindParagraph }
func (*BlockQuote) Kind() Kind              { return KindBlockQuote }
func (*CodeBlock) Kind() Kind               { return KindCodeBlock }
func (ThematicBreak) Kind() Kind            { return KindThematicBreak }
func (*UnorderedList) Kind() Kind           { return KindUnorderedList }
func (*OrderedList) Kind() Kind             { return KindOrderedList }
func (*Table) Kind() Kind                   { return KindTable }
func (*HTMLBlock) Kind() Kind               { return KindHTMLBlock }
func (*LinkReferenceDefinition) Kind() Kind { return KindLinkReferenceDefinition }
func (Text) Kind() Kind                     { return KindText }
func (*Emphasis) Kind() Kind                { return KindEmphasis }
func (*Strong) Kind() Kind                  { return KindStrong }
func (*Strikethrough) Kind() Kind           { return KindStrikethrough }
func (InlineCode) Kind() Kind               { return KindInlineCode }
func (*Link) Kind() Kind                    { return KindLink }
func (*ReferenceLink) Kind() Kind           { return KindReferenceLink }
func (*Autolink) Kind() Kind                { return KindAutolink }
func (*ExtendedAutolink) Kind() Kind        { return KindExtendedAutolink }
func (*Image) Kind() Kind                   { return KindImage }
func (HardBreak) Kind() Kind                { return KindHardBreak }
func (SoftBreak) Kind() Kind                { return KindSoftBreak }
func (*HTMLElement) Kind() Kind             { return KindHTMLElement }
func (*Custom) Kind() Kind                  { return KindCustom }

func (*Document) node()                {}
func (*Heading) node()                 {}
func (*Paragraph) node()               {}
func (*BlockQuote) node()              {}
func (*CodeBlock) node()               {}
func (ThematicBreak) node()            {}
func (*UnorderedList) node()           {}
func (*OrderedList) node()             {}
func (*Table) node()                   {}
func (*HTMLBlock) node()               {}
func (*LinkReferenceDefinition) node() {}
func (Text) node()                     {}
func (*Emphasis) node()                {}
func (*Strong) node()                  {}
func (*Strikethrough) node()           {}
func (InlineCode) node()               {}
func (*Link) node()                    {}
func (*ReferenceLink) node()           {}
func (*Autolink) node()                {}
func (*ExtendedAutolink) node()        {}
func (*Image) node()                   {}
func (HardBreak) node()                {}
func (SoftBreak) node()                {}
func (*HTMLElement) node()             {}
func (*Custom) node()                  {}

// NewDocument returns a document with the given blocks.
func NewDocument(children ...Node) *Document { return &Document{Children: children} }

// NewHeading returns an ATX heading.
func NewHeading(level int, content ...Node) *Heading {
	return &Heading{Level: level, Content: content}
}

// NewSetextHeading returns a Setext heading. Only levels 1 and 2 are valid.
func NewSetextHeading(level int, content ...Node) *Heading {
	return &Heading{Level: level, Style: HeadingSetext, Content: content}
}

func NewParagraph(content ...Node) *Paragraph { return &Paragraph{Content: content} }

func NewBlockQuote(children ...Node) *BlockQuote { return &BlockQuote{Children: children} }

// NewCodeBlock returns a fenced code block.
func NewCodeBlock(language, content string) *CodeBlock {
	return &CodeBlock{Language: language, Content: content}
}

// NewIndentedCodeBlock returns an indented code block.
func NewIndentedCodeBlock(content string) *CodeBlock {
	return &CodeBlock{Content: content, Style: CodeIndented}
}

func NewUnorderedList(items ...ListItem) *UnorderedList { return &UnorderedList{Items: items} }

func NewOrderedList(start int, items ...ListItem) *OrderedList {
	return &OrderedList{Start: start, Items: items}
}

// Item returns a plain list item.
func Item(children ...Node) ListItem {
	return ListItem{Variant: ItemUnordered, Children: children}
}

// NumberedItem returns an ordered item with an explicit number.
func NumberedItem(number int, children ...Node) ListItem {
	return ListItem{Variant: ItemOrdered, Number: number, Numbered: true, Children: children}
}

// TaskItem returns a GFM task item.
func TaskItem(checked bool, children ...Node) ListItem {
	return ListItem{Variant: ItemTask, Checked: checked, Children: children}
}

func NewEmphasis(content ...Node) *Emphasis { return &Emphasis{Content: content} }

func NewStrong(content ...Node) *Strong { return &Strong{Content: content} }

func NewStrikethrough(content ...Node) *Strikethrough { return &Strikethrough{Content: content} }

func NewLink(destination, title string, content ...Node) *Link {
	return &Link{Destination: destination, Title: title, Content: content}
}

func NewReferenceLink(label string, content ...Node) *ReferenceLink {
	return &ReferenceLink{Label: label, Content: content}
}

func NewImage(destination, title string, alt ...Node) *Image {
	return &Image{Destination: destination, Title: title, Alt: alt}
}

// NewCustom wraps an extension as a node.
func NewCustom(ext Extension) *Custom { return &Custom{Ext: ext} }

// children returns the direct child nodes of n, excluding list items and
// table cells which are not nodes themselves.
func children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return v.Children
	case *Heading:
		return v.Content
	case *Paragraph:
		return v.Content
	case *BlockQuote:
		return v.Children
	case *Emphasis:
		return v.Content
	case *Strong:
		return v.Content
	case *Strikethrough:
		return v.Content
	case *Link:
		return v.Content
	case *ReferenceLink:
		return v.Content
	case *Image:
		return v.Alt
	case *HTMLElement:
		return v.Children
	}
	return nil
}
