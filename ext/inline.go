package ext

import (
	"strings"

	"pkt.systems/mdw"
)

// Mark is highlighted text, written "==text==". It has no HTML form of its
// own, so HTML output carries the CommonMark text.
type Mark struct {
	Content []mdw.Node
}

// NewMark wraps highlighted content as a node.
func NewMark(content ...mdw.Node) *mdw.Custom {
	return mdw.NewCustom(&Mark{Content: content})
}

func (m *Mark) Name() string { return "mark" }
func (m *Mark) Block() bool  { return false }

func (m *Mark) RenderCommonMark(r *mdw.CommonMarkRenderer) error {
	if len(m.Content) == 0 {
		return nil
	}
	r.WriteString("==")
	if err := r.RenderInline(m.Content...); err != nil {
		return err
	}
	r.WriteString("==")
	return nil
}

func (m *Mark) Equal(other mdw.Extension) bool {
	o, ok := other.(*Mark)
	return ok && equalNodes(m.Content, o.Content)
}

func (m *Mark) Clone() mdw.Extension {
	return &Mark{Content: cloneNodes(m.Content)}
}

// Kbd is a keyboard shortcut such as Ctrl+C, one <kbd> element per key.
type Kbd struct {
	Keys []string
}

// NewKbd wraps a key combination as a node.
func NewKbd(keys ...string) *mdw.Custom {
	return mdw.NewCustom(&Kbd{Keys: keys})
}

func (k *Kbd) Name() string { return "kbd" }
func (k *Kbd) Block() bool  { return false }

func (k *Kbd) nodes() []mdw.Node {
	out := make([]mdw.Node, 0, 2*len(k.Keys))
	for i, key := range k.Keys {
		if i > 0 {
			out = append(out, mdw.Text("+"))
		}
		out = append(out, mdw.NewHTMLElement("kbd", mdw.Text(strings.TrimSpace(key))))
	}
	return out
}

func (k *Kbd) RenderCommonMark(r *mdw.CommonMarkRenderer) error {
	return r.RenderInline(k.nodes()...)
}

func (k *Kbd) SupportsHTML() bool { return len(k.Keys) > 0 }

func (k *Kbd) RenderHTML(h *mdw.HTMLRenderer) error {
	return h.RenderInline(k.nodes()...)
}

func (k *Kbd) Equal(other mdw.Extension) bool {
	o, ok := other.(*Kbd)
	if !ok || len(o.Keys) != len(k.Keys) {
		return false
	}
	for i := range k.Keys {
		if k.Keys[i] != o.Keys[i] {
			return false
		}
	}
	return true
}

func (k *Kbd) Clone() mdw.Extension {
	return &Kbd{Keys: append([]string(nil), k.Keys...)}
}

func equalNodes(a, b []mdw.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !mdw.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func cloneNodes(nodes []mdw.Node) []mdw.Node {
	if nodes == nil {
		return nil
	}
	out := make([]mdw.Node, len(nodes))
	for i, n := range nodes {
		out[i] = mdw.Clone(n)
	}
	return out
}
