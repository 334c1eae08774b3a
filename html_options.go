package mdw

import "fmt"

// SelfClosingStyle selects how void and self-closing elements end.
type SelfClosingStyle uint8

const (
	// SelfClosingXHTML writes "<br />".
	SelfClosingXHTML SelfClosingStyle = iota
	// SelfClosingHTML5 writes "<br>".
	SelfClosingHTML5
)

// DisallowedTagMode selects what happens to disallowed elements.
type DisallowedTagMode uint8

const (
	// DisallowedEscape writes the element as literal text.
	DisallowedEscape DisallowedTagMode = iota
	// DisallowedDrop omits the element and its children.
	DisallowedDrop
)

// AlignmentStyle selects how table cell alignment is written.
type AlignmentStyle uint8

const (
	// AlignWithStyle writes style="text-align: left;".
	AlignWithStyle AlignmentStyle = iota
	// AlignWithAttribute writes align="left".
	AlignWithAttribute
)

// HTMLOptions configures the HTML renderer.
type HTMLOptions struct {
	// Strict rejects invalid tag and attribute names instead of escaping
	// the element as text.
	Strict bool
	// StrictAttributeEscaping also escapes single quotes in attribute values.
	StrictAttributeEscaping bool
	SelfClosing             SelfClosingStyle
	// DisallowedTags are never emitted as markup.
	DisallowedTags    []string
	DisallowedTagMode DisallowedTagMode
	// CodeBlockClassPrefix prefixes the language class of code blocks. An
	// empty prefix omits the class attribute.
	CodeBlockClassPrefix string
	// SoftBreak is written for soft line breaks.
	SoftBreak      string
	AlignmentStyle AlignmentStyle
}

// DefaultHTMLOptions returns strict XHTML-style options.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Strict:               true,
		CodeBlockClassPrefix: "language-",
		SoftBreak:            "\n",
	}
}

// Validate reports unusable HTML options.
func (o HTMLOptions) Validate() error {
	if o.SelfClosing > SelfClosingHTML5 {
		return fmt.Errorf("%w: self-closing style %d", ErrInvalidOptions, o.SelfClosing)
	}
	if o.DisallowedTagMode > DisallowedDrop {
		return fmt.Errorf("%w: disallowed tag mode %d", ErrInvalidOptions, o.DisallowedTagMode)
	}
	for _, tag := range o.DisallowedTags {
		if !validTagName(tag) {
			return fmt.Errorf("%w: disallowed tag %q", ErrInvalidOptions, tag)
		}
	}
	return nil
}

func (o HTMLOptions) voidEnd() string {
	if o.SelfClosing == SelfClosingHTML5 {
		return ">"
	}
	return " />"
}
