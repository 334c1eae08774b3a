package mdw

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Attribute is a single HTML attribute.
type Attribute struct {
	Name  string
	Value string
}

// HTMLElement is an inline HTML element with ordered attributes.
type HTMLElement struct {
	Tag         string
	Attributes  []Attribute
	SelfClosing bool
	Children    []Node
}

// NewHTMLElement returns an element with the given children.
func NewHTMLElement(tag string, children ...Node) *HTMLElement {
	return &HTMLElement{Tag: tag, Children: children}
}

// SetAttr sets name to value. An existing attribute keeps its position.
func (e *HTMLElement) SetAttr(name, value string) *HTMLElement {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			e.Attributes[i].Value = value
			return e
		}
	}
	e.Attributes = append(e.Attributes, Attribute{Name: name, Value: value})
	return e
}

// Attr returns the value of the last attribute named name.
func (e *HTMLElement) Attr(name string) (string, bool) {
	for i := len(e.Attributes) - 1; i >= 0; i-- {
		if e.Attributes[i].Name == name {
			return e.Attributes[i].Value, true
		}
	}
	return "", false
}

// normalizedAttributes collapses duplicates: each name keeps its first
// position and its last value.
func normalizedAttributes(attrs []Attribute) []Attribute {
	if len(attrs) < 2 {
		return attrs
	}
	m := linkedhashmap.New()
	for _, a := range attrs {
		m.Put(a.Name, a.Value)
	}
	if m.Size() == len(attrs) {
		return attrs
	}
	out := make([]Attribute, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		out = append(out, Attribute{Name: it.Key().(string), Value: it.Value().(string)})
	}
	return out
}
