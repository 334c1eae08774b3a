package mdw

import (
	"strconv"
	"strings"
)

type pathFrame struct {
	kind  Kind
	index int
}

// traversal records the position of the node being rendered and enforces
// the depth limit.
type traversal struct {
	frames   []pathFrame
	maxDepth int
}

func (t *traversal) reset(maxDepth int) {
	t.frames = t.frames[:0]
	t.maxDepth = maxDepth
}

// enter pushes a frame. index is the position among siblings, or -1.
func (t *traversal) enter(kind Kind, index int) error {
	t.frames = append(t.frames, pathFrame{kind: kind, index: index})
	if t.maxDepth > 0 && len(t.frames) > t.maxDepth {
		err := structuralError(ErrDepthExceeded, "depth %d exceeds limit %d", len(t.frames), t.maxDepth)
		return t.annotate(err)
	}
	return nil
}

func (t *traversal) leave() {
	t.frames = t.frames[:len(t.frames)-1]
}

func (t *traversal) depth() int { return len(t.frames) }

// remaining is the depth left for a delegate renderer.
func (t *traversal) remaining() int {
	if t.maxDepth <= 0 {
		return 0
	}
	if n := t.maxDepth - len(t.frames); n > 0 {
		return n
	}
	return 1
}

func (t *traversal) current() (Kind, bool) {
	if len(t.frames) == 0 {
		return 0, false
	}
	return t.frames[len(t.frames)-1].kind, true
}

func (t *traversal) annotate(err error) error {
	kind, ok := t.current()
	if !ok {
		return err
	}
	return annotate(err, kind, t.String())
}

func (t *traversal) String() string {
	var b strings.Builder
	for i, f := range t.frames {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(f.kind.String())
		if f.index >= 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(f.index))
			b.WriteByte(']')
		}
	}
	return b.String()
}
