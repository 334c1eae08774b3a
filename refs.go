package mdw

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/text/cases"
)

// NormalizeLabel returns the matching key of a link label: case folded,
// inner whitespace collapsed to one space, outer whitespace removed.
func NormalizeLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}

// RefCollector gathers link reference definitions in first-seen order. A
// later definition of an already known label is ignored.
type RefCollector struct {
	defs *linkedhashmap.Map
}

// NewRefCollector returns an empty collector.
func NewRefCollector() *RefCollector {
	return &RefCollector{defs: linkedhashmap.New()}
}

// Add records d and reports whether its label was new.
func (c *RefCollector) Add(d *LinkReferenceDefinition) bool {
	key := NormalizeLabel(d.Label)
	if key == "" {
		return false
	}
	if _, found := c.defs.Get(key); found {
		return false
	}
	c.defs.Put(key, d)
	return true
}

// Lookup returns the definition matching label.
func (c *RefCollector) Lookup(label string) (*LinkReferenceDefinition, bool) {
	v, found := c.defs.Get(NormalizeLabel(label))
	if !found {
		return nil, false
	}
	return v.(*LinkReferenceDefinition), true
}

func (c *RefCollector) Len() int { return c.defs.Size() }

// Definitions returns the collected definitions in insertion order.
func (c *RefCollector) Definitions() []*LinkReferenceDefinition {
	out := make([]*LinkReferenceDefinition, 0, c.defs.Size())
	it := c.defs.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*LinkReferenceDefinition))
	}
	return out
}
