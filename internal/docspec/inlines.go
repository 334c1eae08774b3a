package docspec

import (
	"strings"

	"gopkg.in/yaml.v3"

	"pkt.systems/mdw"
	"pkt.systems/mdw/ext"
)

var inlineKinds = map[string]struct{}{
	"text": {}, "strong": {}, "em": {}, "strike": {}, "code": {},
	"link": {}, "image": {}, "autolink": {}, "url": {}, "ref": {},
	"br": {}, "soft": {}, "html": {}, "mark": {}, "kbd": {},
}

func decodeInlines(n *yaml.Node) ([]mdw.Node, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.SequenceNode:
		out := make([]mdw.Node, 0, len(n.Content))
		for _, c := range n.Content {
			in, err := decodeInline(c)
			if err != nil {
				return nil, err
			}
			out = append(out, in)
		}
		return out, nil
	}
	in, err := decodeInline(n)
	if err != nil {
		return nil, err
	}
	return []mdw.Node{in}, nil
}

func decodeInline(n *yaml.Node) (mdw.Node, error) {
	if n.Kind == yaml.ScalarNode {
		return mdw.Text(n.Value), nil
	}
	key, v, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key.Value {
	case "text":
		s, err := str(v)
		return mdw.Text(s), err
	case "strong", "em", "strike", "mark":
		content, err := decodeInlines(v)
		if err != nil {
			return nil, err
		}
		switch key.Value {
		case "strong":
			return mdw.NewStrong(content...), nil
		case "em":
			return mdw.NewEmphasis(content...), nil
		case "strike":
			return mdw.NewStrikethrough(content...), nil
		default:
			return ext.NewMark(content...), nil
		}
	case "code":
		s, err := str(v)
		return mdw.InlineCode(s), err
	case "link":
		f, err := fields(v, "url", "title", "text")
		if err != nil {
			return nil, err
		}
		l := &mdw.Link{}
		if l.Destination, err = str(f["url"]); err != nil {
			return nil, err
		}
		if l.Title, err = str(f["title"]); err != nil {
			return nil, err
		}
		if l.Content, err = decodeInlines(f["text"]); err != nil {
			return nil, err
		}
		return l, nil
	case "image":
		f, err := fields(v, "src", "title", "alt")
		if err != nil {
			return nil, err
		}
		img := &mdw.Image{}
		if img.Destination, err = str(f["src"]); err != nil {
			return nil, err
		}
		if img.Title, err = str(f["title"]); err != nil {
			return nil, err
		}
		if img.Alt, err = decodeInlines(f["alt"]); err != nil {
			return nil, err
		}
		return img, nil
	case "autolink":
		if v.Kind == yaml.ScalarNode {
			return &mdw.Autolink{URL: v.Value, Email: strings.Contains(v.Value, "@") && !strings.Contains(v.Value, ":")}, nil
		}
		f, err := fields(v, "url", "email")
		if err != nil {
			return nil, err
		}
		a := &mdw.Autolink{}
		if a.URL, err = str(f["url"]); err != nil {
			return nil, err
		}
		if e := f["email"]; e != nil {
			if a.Email, err = boolean(e); err != nil {
				return nil, err
			}
		}
		return a, nil
	case "url":
		s, err := str(v)
		return &mdw.ExtendedAutolink{URL: s}, err
	case "ref":
		if v.Kind == yaml.ScalarNode {
			return mdw.NewReferenceLink(v.Value), nil
		}
		f, err := fields(v, "label", "text")
		if err != nil {
			return nil, err
		}
		label, err := str(f["label"])
		if err != nil {
			return nil, err
		}
		content, err := decodeInlines(f["text"])
		if err != nil {
			return nil, err
		}
		return mdw.NewReferenceLink(label, content...), nil
	case "br":
		return mdw.HardBreak{}, nil
	case "soft":
		return mdw.SoftBreak{}, nil
	case "html":
		return decodeElement(v)
	case "kbd":
		if v.Kind == yaml.ScalarNode {
			return ext.NewKbd(strings.Split(v.Value, "+")...), nil
		}
		var keys []string
		if err := v.Decode(&keys); err != nil {
			return nil, errorf(v, "expected a key list")
		}
		return ext.NewKbd(keys...), nil
	}
	// Blocks in inline position are passed through for the renderer to reject.
	if key.Value == "paragraph" || key.Value == "quote" || key.Value == "callout" {
		return decodeBlock(n)
	}
	return nil, errorf(key, "unknown inline %q", key.Value)
}

func decodeElement(v *yaml.Node) (mdw.Node, error) {
	f, err := fields(v, "tag", "attrs", "children", "self_closing")
	if err != nil {
		return nil, err
	}
	tag, err := str(f["tag"])
	if err != nil {
		return nil, err
	}
	e := mdw.NewHTMLElement(tag)
	if a := f["attrs"]; a != nil {
		if a.Kind != yaml.MappingNode {
			return nil, errorf(a, "expected an attribute mapping")
		}
		for i := 0; i+1 < len(a.Content); i += 2 {
			val, err := str(a.Content[i+1])
			if err != nil {
				return nil, err
			}
			e.SetAttr(a.Content[i].Value, val)
		}
	}
	if c := f["children"]; c != nil {
		if e.Children, err = decodeInlines(c); err != nil {
			return nil, err
		}
	}
	if sc := f["self_closing"]; sc != nil {
		if e.SelfClosing, err = boolean(sc); err != nil {
			return nil, err
		}
	}
	return e, nil
}
