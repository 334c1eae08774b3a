package mdw

import "fmt"

// GFMOptions toggles GitHub Flavored Markdown features.
type GFMOptions struct {
	Enabled       bool
	Strikethrough bool
	TaskLists     bool
	Tables        bool
	Autolinks     bool
	// DisallowedHTMLTags are filtered from HTML output when GFM is enabled.
	DisallowedHTMLTags []string
}

// Options configures the CommonMark renderer. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// Strict turns soft-mode recoveries into errors.
	Strict bool
	// HardBreakSpaces renders hard breaks as two trailing spaces instead of
	// a backslash.
	HardBreakSpaces bool
	// IndentSpaces is the indent of indented code blocks.
	IndentSpaces int
	// ListMarker is one of '-', '+', '*'.
	ListMarker byte
	// OrderedListDelimiter is '.' or ')'.
	OrderedListDelimiter byte
	// ThematicBreakChar is one of '-', '*', '_'.
	ThematicBreakChar byte
	// EmphasisChar and StrongChar are '_' or '*'.
	EmphasisChar byte
	StrongChar   byte
	// FenceChar is '`' or '~'; MinFenceLength is at least 3.
	FenceChar      byte
	MinFenceLength int
	// EscapeSpecialChars backslash-escapes inline-significant punctuation in text.
	EscapeSpecialChars              bool
	TrimParagraphTrailingHardBreaks bool
	// StrictTables fails tables with block cells instead of rendering HTML.
	StrictTables bool
	// PadTables pads pipe table cells to the column width.
	PadTables bool
	// PreserveLinkReferenceDefinitions keeps definitions in the output.
	PreserveLinkReferenceDefinitions bool
	// CollectLinkReferenceDefinitions moves definitions to the end of the
	// document, deduplicated by label.
	CollectLinkReferenceDefinitions bool
	// ValidateUTF8 rejects invalid UTF-8 and NUL bytes in content.
	ValidateUTF8 bool
	GFM          GFMOptions
	// HTML overrides the options derived for delegated HTML rendering.
	HTML *HTMLOptions
}

// DefaultOptions returns strict CommonMark options without GFM.
func DefaultOptions() Options {
	return Options{
		Strict:                           true,
		IndentSpaces:                     4,
		ListMarker:                       '-',
		OrderedListDelimiter:             '.',
		ThematicBreakChar:                '-',
		EmphasisChar:                     '_',
		StrongChar:                       '*',
		FenceChar:                        '`',
		MinFenceLength:                   3,
		TrimParagraphTrailingHardBreaks:  true,
		StrictTables:                     true,
		PreserveLinkReferenceDefinitions: true,
		ValidateUTF8:                     true,
		GFM: GFMOptions{
			DisallowedHTMLTags: DefaultDisallowedTags(),
		},
	}
}

// WithGFM returns a copy of o with every GFM feature enabled.
func (o Options) WithGFM() Options {
	o.GFM.Enabled = true
	o.GFM.Strikethrough = true
	o.GFM.TaskLists = true
	o.GFM.Tables = true
	o.GFM.Autolinks = true
	if o.GFM.DisallowedHTMLTags == nil {
		o.GFM.DisallowedHTMLTags = DefaultDisallowedTags()
	}
	return o
}

// WithLenient returns a copy of o with soft-mode recoveries enabled.
func (o Options) WithLenient() Options {
	o.Strict = false
	o.StrictTables = false
	return o
}

func (o Options) gfmStrikethrough() bool { return o.GFM.Enabled && o.GFM.Strikethrough }
func (o Options) gfmTaskLists() bool     { return o.GFM.Enabled && o.GFM.TaskLists }
func (o Options) gfmTables() bool        { return o.GFM.Enabled && o.GFM.Tables }
func (o Options) gfmAutolinks() bool     { return o.GFM.Enabled && o.GFM.Autolinks }

// Validate reports options that cannot produce valid CommonMark.
func (o Options) Validate() error {
	switch o.ListMarker {
	case '-', '+', '*':
	default:
		return fmt.Errorf("%w: list marker %q", ErrInvalidOptions, o.ListMarker)
	}
	switch o.OrderedListDelimiter {
	case '.', ')':
	default:
		return fmt.Errorf("%w: ordered list delimiter %q", ErrInvalidOptions, o.OrderedListDelimiter)
	}
	switch o.ThematicBreakChar {
	case '-', '*', '_':
	default:
		return fmt.Errorf("%w: thematic break char %q", ErrInvalidOptions, o.ThematicBreakChar)
	}
	if !isEmphasisChar(o.EmphasisChar) {
		return fmt.Errorf("%w: emphasis char %q", ErrInvalidOptions, o.EmphasisChar)
	}
	if !isEmphasisChar(o.StrongChar) {
		return fmt.Errorf("%w: strong char %q", ErrInvalidOptions, o.StrongChar)
	}
	if o.FenceChar != '`' && o.FenceChar != '~' {
		return fmt.Errorf("%w: fence char %q", ErrInvalidOptions, o.FenceChar)
	}
	if o.MinFenceLength < 3 {
		return fmt.Errorf("%w: minimum fence length %d", ErrInvalidOptions, o.MinFenceLength)
	}
	if o.IndentSpaces < 4 {
		return fmt.Errorf("%w: indent spaces %d", ErrInvalidOptions, o.IndentSpaces)
	}
	if o.HTML != nil {
		if err := o.HTML.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isEmphasisChar(c byte) bool { return c == '_' || c == '*' }

func alternateEmphasis(c byte) byte {
	if c == '_' {
		return '*'
	}
	return '_'
}

// htmlOptions returns the explicit HTML options or derives them.
func (o Options) htmlOptions() HTMLOptions {
	if o.HTML != nil {
		return *o.HTML
	}
	h := DefaultHTMLOptions()
	h.Strict = o.Strict
	h.SoftBreak = " "
	if o.GFM.Enabled {
		h.DisallowedTags = o.GFM.DisallowedHTMLTags
	} else {
		h.DisallowedTags = nil
	}
	return h
}
