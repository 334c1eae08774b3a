package mdw

import (
	"strings"
	"unicode/utf8"
)

// lineWriter accumulates output and applies the active line prefixes
// (blockquote markers, list continuation indent) to every line it starts.
type lineWriter struct {
	buf    []byte
	prefix []byte
	marks  []int
	// atLineStart is set when the next byte begins a new output line.
	atLineStart bool
	// fresh marks the first content position of a block, which may sit
	// mid-line after a list marker.
	fresh bool
	// blank counts consecutive empty lines most recently written.
	blank int
	// seed stands in for the previous byte while buf is empty.
	seed byte
}

type writerMark struct {
	size        int
	atLineStart bool
	fresh       bool
	blank       int
}

func (w *lineWriter) reset() {
	w.buf = w.buf[:0]
	w.prefix = w.prefix[:0]
	w.marks = w.marks[:0]
	w.atLineStart = true
	w.fresh = false
	w.blank = 0
	w.seed = 0
}

func (w *lineWriter) mark() writerMark {
	return writerMark{size: len(w.buf), atLineStart: w.atLineStart, fresh: w.fresh, blank: w.blank}
}

func (w *lineWriter) restore(m writerMark) {
	w.buf = w.buf[:m.size]
	w.atLineStart = m.atLineStart
	w.fresh = m.fresh
	w.blank = m.blank
}

// pushPrefix adds a prefix for subsequent lines and, when the current line
// is already started, writes it at the cursor as well.
func (w *lineWriter) pushPrefix(p string) {
	w.marks = append(w.marks, len(w.prefix))
	if !w.atLineStart {
		w.buf = append(w.buf, p...)
	}
	w.prefix = append(w.prefix, p...)
}

// pushContinuation adds a prefix that only applies from the next line on.
func (w *lineWriter) pushContinuation(p string) {
	w.marks = append(w.marks, len(w.prefix))
	w.prefix = append(w.prefix, p...)
}

func (w *lineWriter) popPrefix() {
	n := len(w.marks) - 1
	w.prefix = w.prefix[:w.marks[n]]
	w.marks = w.marks[:n]
}

func (w *lineWriter) WriteString(s string) {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		line := s
		if i >= 0 {
			line = s[:i]
		}
		if line != "" {
			if w.atLineStart {
				w.buf = append(w.buf, w.prefix...)
				w.atLineStart = false
			}
			w.buf = append(w.buf, line...)
			w.fresh = false
			w.blank = 0
		}
		if i < 0 {
			return
		}
		w.newline()
		s = s[i+1:]
	}
}

func (w *lineWriter) WriteByte(c byte) error {
	if c == '\n' {
		w.newline()
		return nil
	}
	if w.atLineStart {
		w.buf = append(w.buf, w.prefix...)
		w.atLineStart = false
	}
	w.buf = append(w.buf, c)
	w.fresh = false
	w.blank = 0
	return nil
}

func (w *lineWriter) newline() {
	if w.atLineStart {
		w.buf = append(w.buf, strings.TrimRight(string(w.prefix), " ")...)
		w.blank++
	}
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
	w.fresh = false
}

// emitBarePrefix starts a line holding only the prefix without trailing
// spaces.
func (w *lineWriter) emitBarePrefix() {
	if !w.atLineStart {
		return
	}
	w.buf = append(w.buf, strings.TrimRight(string(w.prefix), " ")...)
	w.atLineStart = false
	w.fresh = false
	w.blank = 0
}

func (w *lineWriter) ensureNewline() {
	if !w.atLineStart {
		w.newline()
	}
}

func (w *lineWriter) blankLine() {
	w.ensureNewline()
	if w.blank == 0 {
		w.newline()
	}
}

func (w *lineWriter) markBlockStart() { w.fresh = true }

// lineStart reports whether the cursor is where a block construct could
// be recognized.
func (w *lineWriter) lineStart() bool { return w.atLineStart || w.fresh }

// lastRune returns the character before the cursor, '\n' at a line start.
func (w *lineWriter) lastRune() rune {
	if w.atLineStart {
		return '\n'
	}
	if len(w.buf) == 0 {
		return rune(w.seed)
	}
	c, _ := utf8.DecodeLastRune(w.buf)
	return c
}

func (w *lineWriter) String() string { return string(w.buf) }
