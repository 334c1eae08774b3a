package mdw

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
)

// maxOrdinal is the largest list number CommonMark accepts (nine digits).
const maxOrdinal = 999999999

func (r *CommonMarkRenderer) renderBlocks(nodes []Node) error {
	savedPrev := r.prevList
	r.prevList = 0
	defer func() { r.prevList = savedPrev }()
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n == nil {
			return r.t.annotate(structuralError(ErrInvalidStructure, "nil node at index %d", i))
		}
		if IsBlock(n) {
			if err := r.block(n, i); err != nil {
				return err
			}
			continue
		}
		if r.opts.Strict {
			err := r.t.enter(n.Kind(), i)
			if err == nil {
				err = r.t.annotate(structuralError(ErrInlineInBlock, "%s in block position", n.Kind()))
			}
			r.t.leave()
			return err
		}
		j := i + 1
		for j < len(nodes) && nodes[j] != nil && !IsBlock(nodes[j]) {
			j++
		}
		r.warn("wrapping inline content in an implicit paragraph")
		if err := r.block(&Paragraph{Content: nodes[i:j]}, i); err != nil {
			return err
		}
		i = j - 1
	}
	return nil
}

// block renders one block with separation from its predecessor. A block
// that writes nothing leaves the output and state untouched.
func (r *CommonMarkRenderer) block(n Node, index int) error {
	err := r.t.enter(n.Kind(), index)
	defer r.t.leave()
	if err != nil {
		return err
	}
	before := r.w.mark()
	state := r.state
	r.separate()
	start := len(r.w.buf)
	r.w.markBlockStart()
	list := byte(0)
	if err := r.renderBlock(n, &list); err != nil {
		return r.t.annotate(err)
	}
	if len(r.w.buf) == start {
		r.w.restore(before)
		r.state = state
		return nil
	}
	r.prevList = list
	if r.w.atLineStart && r.w.blank > 0 {
		r.state = stateAfterBlankLine
	} else {
		r.state = stateAfterBlock
	}
	return nil
}

func (r *CommonMarkRenderer) separate() {
	switch r.state {
	case stateStartOfDocument:
	case stateAfterBlankLine:
		r.w.ensureNewline()
	default:
		if r.tight {
			r.w.ensureNewline()
		} else {
			r.w.blankLine()
		}
	}
}

// renderBlock writes n. list receives the marker used when n is a list.
func (r *CommonMarkRenderer) renderBlock(n Node, list *byte) error {
	switch v := n.(type) {
	case *Document:
		r.state = stateStartOfDocument
		return r.renderBlocks(v.Children)
	case *Heading:
		return r.heading(v)
	case *Paragraph:
		return r.paragraph(v.Content)
	case *BlockQuote:
		return r.blockquote(v)
	case *CodeBlock:
		return r.codeBlock(v)
	case ThematicBreak:
		r.w.WriteString(strings.Repeat(string(r.opts.ThematicBreakChar), 3))
		return nil
	case *UnorderedList:
		return r.unorderedList(v, list)
	case *OrderedList:
		return r.orderedList(v, list)
	case *Table:
		return r.table(v)
	case *HTMLBlock:
		return r.htmlBlock(v)
	case *LinkReferenceDefinition:
		return r.linkReferenceDefinition(v)
	case *Custom:
		return r.customBlock(v)
	}
	return structuralError(ErrInlineInBlock, "%s in block position", n.Kind())
}

func (r *CommonMarkRenderer) heading(h *Heading) error {
	if h.Level < 1 || h.Level > 6 {
		return structuralError(ErrInvalidHeadingLevel, "heading level %d", h.Level)
	}
	style := h.Style
	if style == HeadingSetext && h.Level > 2 {
		if r.opts.Strict {
			return structuralError(ErrInvalidHeadingLevel, "setext heading level %d", h.Level)
		}
		r.warn("setext heading level above 2; rendering atx")
		style = HeadingATX
	}
	content, err := r.capture(' ', style == HeadingSetext, func() error {
		return r.renderInlines(h.Content)
	})
	if err != nil {
		return err
	}
	if strings.ContainsAny(content, "\n\r") {
		return contentError(ErrNewlineInInline, "line break in heading")
	}
	if style == HeadingSetext && strings.TrimSpace(content) == "" {
		style = HeadingATX
	}
	if style == HeadingSetext {
		r.w.WriteString(content)
		r.w.newline()
		underline := "-"
		if h.Level == 1 {
			underline = "="
		}
		r.w.WriteString(strings.Repeat(underline, max(3, ansi.PrintableRuneWidth(content))))
		return nil
	}
	r.w.WriteString(strings.Repeat("#", h.Level))
	if content != "" {
		_ = r.w.WriteByte(' ')
		r.w.WriteString(protectClosingHashes(content))
	}
	return nil
}

// protectClosingHashes escapes a trailing run of '#' that a parser would
// take for an ATX closing sequence.
func protectClosingHashes(s string) string {
	if !strings.HasSuffix(s, "#") {
		return s
	}
	j := len(s)
	for j > 0 && s[j-1] == '#' {
		j--
	}
	if j > 0 && s[j-1] != ' ' && s[j-1] != '\t' {
		return s
	}
	return s[:j] + "\\" + s[j:]
}

func (r *CommonMarkRenderer) paragraph(content []Node) error {
	if r.opts.TrimParagraphTrailingHardBreaks {
		content = trimTrailingHardBreaks(content)
	}
	r.state = stateInsideInline
	return r.renderInlines(content)
}

func trimTrailingHardBreaks(content []Node) []Node {
	end := len(content)
	for end > 0 {
		if _, ok := content[end-1].(HardBreak); !ok {
			break
		}
		end--
	}
	return content[:end]
}

func (r *CommonMarkRenderer) blockquote(q *BlockQuote) error {
	r.w.pushPrefix("> ")
	defer r.w.popPrefix()
	start := r.w.mark()
	if err := r.container(false, func() error { return r.renderBlocks(q.Children) }); err != nil {
		return err
	}
	if len(r.w.buf) == start.size {
		if r.w.atLineStart {
			r.w.emitBarePrefix()
		} else {
			r.w.buf = r.w.buf[:len(r.w.buf)-1]
		}
	}
	return nil
}

func (r *CommonMarkRenderer) codeBlock(c *CodeBlock) error {
	if err := r.checkText(c.Content); err != nil {
		return err
	}
	if err := r.checkText(c.Language); err != nil {
		return err
	}
	content := strings.TrimSuffix(c.Content, "\n")
	if c.Style == CodeIndented {
		if strings.TrimSpace(content) != "" {
			return r.indentedCode(content)
		}
		r.warn("blank indented code block; rendering fenced")
	}
	lang := strings.TrimSpace(c.Language)
	if strings.ContainsAny(lang, "\n\r") {
		return contentError(ErrNewlineInInline, "newline in code block info string")
	}
	fenceChar := r.opts.FenceChar
	if fenceChar == '`' && strings.IndexByte(lang, '`') >= 0 {
		fenceChar = '~'
	}
	fence := strings.Repeat(string(fenceChar), FenceLength(content, fenceChar, r.opts.MinFenceLength))
	r.w.WriteString(fence)
	r.w.WriteString(lang)
	r.w.newline()
	if content != "" {
		r.w.WriteString(content)
		r.w.newline()
	}
	r.w.WriteString(fence)
	return nil
}

func (r *CommonMarkRenderer) indentedCode(content string) error {
	if r.prevList != 0 {
		// An indented block right after a list would continue its last item.
		r.w.WriteString("<!-- -->")
		r.w.blankLine()
	}
	pad := strings.Repeat(" ", r.opts.IndentSpaces)
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			r.w.newline()
		}
		if line != "" {
			r.w.WriteString(pad)
			r.w.WriteString(line)
		}
	}
	return nil
}

// FenceLength returns the fence length for content: one more than the
// longest run of c on any line, and at least minimum.
func FenceLength(content string, c byte, minimum int) int {
	return max(minimum, longestRun(content, c)+1)
}

// listIsTight reports whether no item holds more than one block.
func listIsTight(items []ListItem) bool {
	for _, it := range items {
		if len(it.Children) > 1 {
			return false
		}
	}
	return true
}

func (r *CommonMarkRenderer) unorderedList(l *UnorderedList, used *byte) error {
	marker := r.opts.ListMarker
	if r.prevList == marker {
		marker = alternateBullet(marker)
	}
	*used = marker
	tight := listIsTight(l.Items)
	prefix := string(marker) + " "
	for i, it := range l.Items {
		if err := r.listItem(i, it, prefix, tight); err != nil {
			return err
		}
	}
	return nil
}

func (r *CommonMarkRenderer) orderedList(l *OrderedList, used *byte) error {
	delim := r.opts.OrderedListDelimiter
	if r.prevList == delim {
		delim = alternateDelimiter(delim)
	}
	*used = delim
	tight := listIsTight(l.Items)
	n := l.Start
	for i, it := range l.Items {
		if it.Numbered {
			n = it.Number
		}
		if n < 0 || n > maxOrdinal {
			return structuralError(ErrInvalidStructure, "list number %d out of range", n)
		}
		prefix := strconv.Itoa(n) + string(delim) + " "
		if err := r.listItem(i, it, prefix, tight); err != nil {
			return err
		}
		n++
	}
	return nil
}

func alternateBullet(c byte) byte {
	if c == '-' {
		return '*'
	}
	return '-'
}

func alternateDelimiter(c byte) byte {
	if c == '.' {
		return ')'
	}
	return '.'
}

func (r *CommonMarkRenderer) listItem(index int, it ListItem, marker string, tight bool) error {
	err := r.t.enter(KindListItem, index)
	defer r.t.leave()
	if err != nil {
		return err
	}
	if index > 0 {
		if tight {
			r.w.ensureNewline()
		} else {
			r.w.blankLine()
		}
	}
	task := it.Variant == ItemTask
	if task && !r.opts.gfmTaskLists() {
		if r.opts.Strict {
			return r.t.annotate(unsupportedError("task list item"))
		}
		r.warn("gfm task lists disabled; rendering plain item")
		task = false
	}
	if len(it.Children) == 0 && !task {
		r.w.WriteString(strings.TrimRight(marker, " "))
		return nil
	}
	r.w.WriteString(marker)
	r.w.pushContinuation(strings.Repeat(" ", len(marker)))
	defer r.w.popPrefix()
	if task {
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		r.w.WriteString(box)
		if len(it.Children) == 0 {
			return nil
		}
		_ = r.w.WriteByte(' ')
	}
	err = r.container(tight, func() error { return r.renderBlocks(it.Children) })
	if err != nil {
		return r.t.annotate(err)
	}
	return nil
}

func (r *CommonMarkRenderer) htmlBlock(b *HTMLBlock) error {
	if err := r.checkText(b.Content); err != nil {
		return err
	}
	out, err := r.delegate(func(h *HTMLRenderer) error {
		h.htmlBlock(b)
		return nil
	})
	if err != nil {
		return err
	}
	r.w.WriteString(strings.TrimRight(out, "\n"))
	return nil
}

func (r *CommonMarkRenderer) linkReferenceDefinition(d *LinkReferenceDefinition) error {
	if !r.opts.PreserveLinkReferenceDefinitions {
		return nil
	}
	if NormalizeLabel(d.Label) == "" {
		return structuralError(ErrInvalidStructure, "empty link reference label")
	}
	if r.refs != nil {
		r.refs.Add(d)
		return nil
	}
	return r.writeDefinition(d)
}

func (r *CommonMarkRenderer) writeDefinition(d *LinkReferenceDefinition) error {
	label, err := r.label(d.Label)
	if err != nil {
		return err
	}
	dest, err := r.esc.Escape(ContextLinkDestination, d.Destination)
	if err != nil {
		return err
	}
	r.w.WriteString("[" + label + "]: " + dest)
	if d.Title != "" {
		title, err := r.esc.Escape(ContextLinkTitle, d.Title)
		if err != nil {
			return err
		}
		r.w.WriteString(` "` + title + `"`)
	}
	return nil
}

func (r *CommonMarkRenderer) writeCollectedRefs() error {
	r.state = stateAfterBlock
	r.tight = false
	r.separate()
	for i, d := range r.refs.Definitions() {
		if i > 0 {
			r.w.ensureNewline()
		}
		if err := r.writeDefinition(d); err != nil {
			return err
		}
	}
	return nil
}

// label escapes a link label.
func (r *CommonMarkRenderer) label(s string) (string, error) {
	if strings.ContainsAny(s, "\n\r") {
		return "", contentError(ErrNewlineInInline, "newline in link label")
	}
	if err := r.checkText(s); err != nil {
		return "", err
	}
	if !strings.ContainsAny(s, `[]\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}
