package ext

import (
	"fmt"
	"strings"

	"pkt.systems/mdw"
)

// CalloutType is a GitHub alert kind.
type CalloutType string

const (
	CalloutNote      CalloutType = "note"
	CalloutTip       CalloutType = "tip"
	CalloutImportant CalloutType = "important"
	CalloutWarning   CalloutType = "warning"
	CalloutCaution   CalloutType = "caution"
)

var calloutTitles = map[CalloutType]string{
	CalloutNote:      "Note",
	CalloutTip:       "Tip",
	CalloutImportant: "Important",
	CalloutWarning:   "Warning",
	CalloutCaution:   "Caution",
}

// Callout is a GitHub alert block: a blockquote opened by "[!NOTE]" and
// friends.
type Callout struct {
	Type     CalloutType
	Children []mdw.Node
}

// NewCallout wraps a callout as a node.
func NewCallout(kind CalloutType, children ...mdw.Node) *mdw.Custom {
	return mdw.NewCustom(&Callout{Type: kind, Children: children})
}

func (c *Callout) Name() string { return "callout" }
func (c *Callout) Block() bool  { return true }

func (c *Callout) kind() (CalloutType, error) {
	kind := CalloutType(strings.ToLower(string(c.Type)))
	if kind == "" {
		return CalloutNote, nil
	}
	if _, ok := calloutTitles[kind]; !ok {
		return "", mdw.NewCodedError("callout.type", fmt.Sprintf("unknown callout type %q", c.Type))
	}
	return kind, nil
}

func (c *Callout) RenderCommonMark(r *mdw.CommonMarkRenderer) error {
	kind, err := c.kind()
	if err != nil {
		return err
	}
	return r.WithPrefix("> ", func() error {
		r.WriteString("[!" + strings.ToUpper(string(kind)) + "]")
		if len(c.Children) == 0 {
			return nil
		}
		r.WriteString("\n")
		return r.RenderBlocks(c.Children...)
	})
}

func (c *Callout) SupportsHTML() bool { return true }

func (c *Callout) RenderHTML(h *mdw.HTMLRenderer) error {
	kind, err := c.kind()
	if err != nil {
		return err
	}
	h.WriteRaw(`<div class="markdown-alert markdown-alert-` + string(kind) + `">` + "\n")
	h.WriteRaw(`<p class="markdown-alert-title">`)
	h.WriteText(calloutTitles[kind])
	h.WriteRaw("</p>\n")
	if err := h.RenderNodes(c.Children...); err != nil {
		return err
	}
	h.WriteRaw("</div>\n")
	return nil
}

func (c *Callout) Equal(other mdw.Extension) bool {
	o, ok := other.(*Callout)
	return ok && o.Type == c.Type && equalNodes(c.Children, o.Children)
}

func (c *Callout) Clone() mdw.Extension {
	return &Callout{Type: c.Type, Children: cloneNodes(c.Children)}
}
