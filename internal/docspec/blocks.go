package docspec

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pkt.systems/mdw"
	"pkt.systems/mdw/ext"
)

func decodeBlocks(n *yaml.Node) ([]mdw.Node, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		b, err := decodeBlock(n)
		if err != nil {
			return nil, err
		}
		return []mdw.Node{b}, nil
	}
	out := make([]mdw.Node, 0, len(n.Content))
	for _, c := range n.Content {
		b, err := decodeBlock(c)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBlock(n *yaml.Node) (mdw.Node, error) {
	if n.Kind == yaml.ScalarNode {
		return mdw.NewParagraph(mdw.Text(n.Value)), nil
	}
	key, v, err := single(n)
	if err != nil {
		return nil, err
	}
	switch name := key.Value; name {
	case "heading":
		return decodeHeading(v, 1)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(name[1:])
		return decodeHeading(v, level)
	case "paragraph", "p":
		content, err := decodeInlines(v)
		if err != nil {
			return nil, err
		}
		return mdw.NewParagraph(content...), nil
	case "code":
		return decodeCode(v)
	case "list":
		return decodeList(v)
	case "quote":
		children, err := decodeBlocks(v)
		if err != nil {
			return nil, err
		}
		return mdw.NewBlockQuote(children...), nil
	case "html":
		s, err := str(v)
		if err != nil {
			return nil, err
		}
		return &mdw.HTMLBlock{Content: s}, nil
	case "hr":
		return mdw.ThematicBreak{}, nil
	case "ref":
		f, err := fields(v, "label", "url", "title")
		if err != nil {
			return nil, err
		}
		d := &mdw.LinkReferenceDefinition{}
		for _, p := range []struct {
			key string
			dst *string
		}{{"label", &d.Label}, {"url", &d.Destination}, {"title", &d.Title}} {
			if fv := f[p.key]; fv != nil {
				if *p.dst, err = str(fv); err != nil {
					return nil, err
				}
			}
		}
		return d, nil
	case "table":
		return decodeTable(v)
	case "frontmatter":
		return decodeFrontMatter(v)
	case "callout":
		return decodeCallout(v)
	case "document":
		children, err := decodeBlocks(v)
		if err != nil {
			return nil, err
		}
		return mdw.NewDocument(children...), nil
	}
	// Inline forms in block position are passed through so the renderer
	// decides between an error and an implicit paragraph.
	if _, ok := inlineKinds[key.Value]; ok {
		return decodeInline(n)
	}
	return nil, errorf(key, "unknown block %q", key.Value)
}

func decodeHeading(v *yaml.Node, level int) (mdw.Node, error) {
	if v.Kind != yaml.MappingNode {
		content, err := decodeInlines(v)
		if err != nil {
			return nil, err
		}
		return mdw.NewHeading(level, content...), nil
	}
	f, err := fields(v, "level", "text", "style")
	if err != nil {
		return nil, err
	}
	h := &mdw.Heading{Level: level}
	if lv := f["level"]; lv != nil {
		if h.Level, err = integer(lv); err != nil {
			return nil, err
		}
	}
	if t := f["text"]; t != nil {
		if h.Content, err = decodeInlines(t); err != nil {
			return nil, err
		}
	}
	if s := f["style"]; s != nil {
		style, err := str(s)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(style) {
		case "atx", "":
		case "setext":
			h.Style = mdw.HeadingSetext
		default:
			return nil, errorf(s, "unknown heading style %q", style)
		}
	}
	return h, nil
}

func decodeCode(v *yaml.Node) (mdw.Node, error) {
	if v.Kind == yaml.ScalarNode {
		return mdw.NewCodeBlock("", v.Value), nil
	}
	f, err := fields(v, "lang", "content", "indented")
	if err != nil {
		return nil, err
	}
	c := &mdw.CodeBlock{}
	if c.Language, err = str(f["lang"]); err != nil {
		return nil, err
	}
	if c.Content, err = str(f["content"]); err != nil {
		return nil, err
	}
	if ind := f["indented"]; ind != nil {
		on, err := boolean(ind)
		if err != nil {
			return nil, err
		}
		if on {
			c.Style = mdw.CodeIndented
		}
	}
	return c, nil
}

func decodeList(v *yaml.Node) (mdw.Node, error) {
	if v.Kind == yaml.SequenceNode {
		items, err := decodeItems(v)
		if err != nil {
			return nil, err
		}
		return mdw.NewUnorderedList(items...), nil
	}
	f, err := fields(v, "ordered", "start", "items")
	if err != nil {
		return nil, err
	}
	ordered := false
	if o := f["ordered"]; o != nil {
		if ordered, err = boolean(o); err != nil {
			return nil, err
		}
	}
	start := 1
	if s := f["start"]; s != nil {
		if start, err = integer(s); err != nil {
			return nil, err
		}
		ordered = true
	}
	var items []mdw.ListItem
	if it := f["items"]; it != nil {
		if it.Kind != yaml.SequenceNode {
			return nil, errorf(it, "expected a sequence of items")
		}
		if items, err = decodeItems(it); err != nil {
			return nil, err
		}
	}
	if ordered {
		for i := range items {
			if items[i].Variant == mdw.ItemUnordered {
				items[i].Variant = mdw.ItemOrdered
			}
		}
		return mdw.NewOrderedList(start, items...), nil
	}
	return mdw.NewUnorderedList(items...), nil
}

var itemKeys = map[string]bool{"text": true, "blocks": true, "checked": true, "task": true, "number": true}

func decodeItems(n *yaml.Node) ([]mdw.ListItem, error) {
	items := make([]mdw.ListItem, 0, len(n.Content))
	for _, c := range n.Content {
		it, err := decodeItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func decodeItem(n *yaml.Node) (mdw.ListItem, error) {
	switch {
	case isNull(n):
		return mdw.Item(), nil
	case n.Kind == yaml.SequenceNode:
		children, err := decodeBlocks(n)
		if err != nil {
			return mdw.ListItem{}, err
		}
		return mdw.Item(children...), nil
	case n.Kind != yaml.MappingNode || len(n.Content) == 0 || !itemKeys[n.Content[0].Value]:
		b, err := decodeBlock(n)
		if err != nil {
			return mdw.ListItem{}, err
		}
		return mdw.Item(b), nil
	}
	f, err := fields(n, "text", "blocks", "checked", "task", "number")
	if err != nil {
		return mdw.ListItem{}, err
	}
	it := mdw.Item()
	if t := f["text"]; t != nil {
		content, err := decodeInlines(t)
		if err != nil {
			return it, err
		}
		it.Children = append(it.Children, mdw.NewParagraph(content...))
	}
	if b := f["blocks"]; b != nil {
		children, err := decodeBlocks(b)
		if err != nil {
			return it, err
		}
		it.Children = append(it.Children, children...)
	}
	if t := f["task"]; t != nil {
		on, err := boolean(t)
		if err != nil {
			return it, err
		}
		if on {
			it.Variant = mdw.ItemTask
		}
	}
	if c := f["checked"]; c != nil {
		if it.Checked, err = boolean(c); err != nil {
			return it, err
		}
		it.Variant = mdw.ItemTask
	}
	if num := f["number"]; num != nil {
		if it.Number, err = integer(num); err != nil {
			return it, err
		}
		it.Numbered = true
		if it.Variant == mdw.ItemUnordered {
			it.Variant = mdw.ItemOrdered
		}
	}
	return it, nil
}

func decodeTable(v *yaml.Node) (mdw.Node, error) {
	f, err := fields(v, "headers", "align", "rows")
	if err != nil {
		return nil, err
	}
	b := mdw.NewTableBuilder()
	if h := f["headers"]; h != nil {
		cells, err := decodeCells(h)
		if err != nil {
			return nil, err
		}
		b.Headers(cells...)
	}
	if a := f["align"]; a != nil {
		if a.Kind != yaml.SequenceNode {
			return nil, errorf(a, "expected a sequence of alignments")
		}
		aligns := make([]mdw.Alignment, 0, len(a.Content))
		for _, c := range a.Content {
			s, err := str(c)
			if err != nil {
				return nil, err
			}
			al, ok := alignments[strings.ToLower(s)]
			if !ok {
				return nil, errorf(c, "unknown alignment %q", s)
			}
			aligns = append(aligns, al)
		}
		b.Align(aligns...)
	}
	if rows := f["rows"]; rows != nil {
		if rows.Kind != yaml.SequenceNode {
			return nil, errorf(rows, "expected a sequence of rows")
		}
		for _, r := range rows.Content {
			cells, err := decodeCells(r)
			if err != nil {
				return nil, err
			}
			b.Row(cells...)
		}
	}
	return b.Build(), nil
}

var alignments = map[string]mdw.Alignment{
	"":       mdw.AlignNone,
	"none":   mdw.AlignNone,
	"left":   mdw.AlignLeft,
	"center": mdw.AlignCenter,
	"right":  mdw.AlignRight,
}

func decodeCells(n *yaml.Node) ([]mdw.Cell, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence of cells")
	}
	cells := make([]mdw.Cell, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.MappingNode && len(c.Content) == 2 && c.Content[0].Value == "blocks" {
			blocks, err := decodeBlocks(c.Content[1])
			if err != nil {
				return nil, err
			}
			cells = append(cells, mdw.Cell(blocks))
			continue
		}
		content, err := decodeInlines(c)
		if err != nil {
			return nil, err
		}
		cells = append(cells, mdw.Cell(content))
	}
	return cells, nil
}

func decodeFrontMatter(v *yaml.Node) (mdw.Node, error) {
	f, err := fields(v, "format", "data")
	if err != nil {
		return nil, err
	}
	name, err := str(f["format"])
	if err != nil {
		return nil, err
	}
	format, err := ext.ParseFrontMatterFormat(name)
	if err != nil {
		return nil, errorf(v, "%v", err)
	}
	data := map[string]any{}
	if d := f["data"]; d != nil {
		if err := d.Decode(&data); err != nil {
			return nil, errorf(d, "front matter data: %v", err)
		}
	}
	return ext.NewFrontMatter(format, data), nil
}

func decodeCallout(v *yaml.Node) (mdw.Node, error) {
	if v.Kind == yaml.ScalarNode {
		return ext.NewCallout(ext.CalloutType(v.Value)), nil
	}
	f, err := fields(v, "type", "blocks")
	if err != nil {
		return nil, err
	}
	kind, err := str(f["type"])
	if err != nil {
		return nil, err
	}
	children, err := decodeBlocks(f["blocks"])
	if err != nil {
		return nil, err
	}
	return ext.NewCallout(ext.CalloutType(kind), children...), nil
}
