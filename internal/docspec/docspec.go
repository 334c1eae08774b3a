// Package docspec decodes YAML document descriptions into mdw trees.
//
// A description is either a sequence of blocks or a mapping with an optional
// options block and a document sequence:
//
//	options:
//	  preset: gfm
//	  escape: true
//	document:
//	  - h1: Title
//	  - paragraph: ["Some ", {strong: bold}, " text."]
//	  - list: [one, two]
//
// Every node is a single-key mapping naming its kind. A bare string is a
// paragraph in block position and text in inline position. The code, ref and
// html keys name a code block, a link reference definition and a raw HTML
// block in block position, and a code span, a reference link and an HTML
// element in inline position:
//
//	- paragraph:
//	    - {code: "x := 1"}
//	    - " see "
//	    - {ref: {label: docs, text: the docs}}
//	    - {html: {tag: abbr, attrs: {title: HyperText}, children: HTML}}
//	- ref: {label: docs, url: "https://example.com"}
package docspec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"pkt.systems/mdw"
)

// ErrEmpty reports a description without content.
var ErrEmpty = errors.New("empty document description")

// Spec is a decoded description.
type Spec struct {
	Document *mdw.Document
	Options  mdw.Options
	// Preset is the name of the preset the options started from.
	Preset string
}

// Error is a description problem at a YAML position.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return &Error{Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

// Load reads and decodes a description.
func Load(r io.Reader) (*Spec, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document description: %w", err)
	}
	return Parse(src)
}

// Parse decodes a description.
func Parse(src []byte) (*Spec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("parse document description: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, ErrEmpty
	}
	top := root.Content[0]
	spec := &Spec{Options: mdw.DefaultOptions(), Preset: mdw.DefaultPreset().Name()}
	var body *yaml.Node
	switch top.Kind {
	case yaml.SequenceNode:
		body = top
	case yaml.MappingNode:
		for i := 0; i+1 < len(top.Content); i += 2 {
			k, v := top.Content[i], top.Content[i+1]
			switch k.Value {
			case "options":
				if err := decodeOptions(v, spec); err != nil {
					return nil, err
				}
			case "document":
				body = v
			default:
				return nil, errorf(k, "unknown top-level key %q", k.Value)
			}
		}
		if body == nil {
			return nil, errorf(top, "missing document")
		}
	default:
		return nil, errorf(top, "expected a block sequence or a mapping with a document key")
	}
	blocks, err := decodeBlocks(body)
	if err != nil {
		return nil, err
	}
	spec.Document = mdw.NewDocument(blocks...)
	return spec, nil
}

// single returns the key and value of a single-key mapping.
func single(n *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, nil, errorf(n, "expected a single-key mapping")
	}
	return n.Content[0], n.Content[1], nil
}

// fields returns the values of a mapping by key.
func fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		known := false
		for _, a := range allowed {
			if a == k.Value {
				known = true
				break
			}
		}
		if !known {
			return nil, errorf(k, "unknown key %q", k.Value)
		}
		out[k.Value] = n.Content[i+1]
	}
	return out, nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func str(n *yaml.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", errorf(n, "expected a string")
	}
	if n.Tag == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

func integer(n *yaml.Node) (int, error) {
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, errorf(n, "expected an integer")
	}
	return v, nil
}

func boolean(n *yaml.Node) (bool, error) {
	var v bool
	if err := n.Decode(&v); err != nil {
		return false, errorf(n, "expected true or false")
	}
	return v, nil
}

func char(n *yaml.Node) (byte, error) {
	s, err := str(n)
	if err != nil {
		return 0, err
	}
	if len(s) != 1 {
		return 0, errorf(n, "expected a single character")
	}
	return s[0], nil
}

// Render writes the described document to w in format using the
// description's options.
func (s *Spec) Render(w io.Writer, format mdw.Format, ropts ...mdw.RenderOption) error {
	return s.RenderWith(w, format, s.Options, ropts...)
}

// RenderWith is Render with opts in place of the description's options.
func (s *Spec) RenderWith(w io.Writer, format mdw.Format, opts mdw.Options, ropts ...mdw.RenderOption) error {
	return mdw.Render(mdw.RenderRequest{
		Node:          s.Document,
		Writer:        w,
		Format:        format,
		Options:       &opts,
		RenderOptions: ropts,
	})
}
