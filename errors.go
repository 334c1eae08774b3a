package mdw

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies render failures.
type ErrorCategory uint8

const (
	CategoryStructure ErrorCategory = iota + 1
	CategoryContent
	CategoryUnsupported
	CategoryDelegate
	CategoryExtension
	CategorySink
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryStructure:
		return "structure"
	case CategoryContent:
		return "content"
	case CategoryUnsupported:
		return "unsupported"
	case CategoryDelegate:
		return "delegate"
	case CategoryExtension:
		return "extension"
	case CategorySink:
		return "sink"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidHeadingLevel reports a heading level outside 1..6.
	ErrInvalidHeadingLevel = errors.New("invalid heading level")
	// ErrBlockInInline reports a block node in an inline-only position.
	ErrBlockInInline = errors.New("block node in inline context")
	// ErrInlineInBlock reports an inline node in a block-only position.
	ErrInlineInBlock = errors.New("inline node in block context")
	// ErrTableShape reports mismatched table rows, headers or alignments.
	ErrTableShape = errors.New("table shape mismatch")
	// ErrTableBlockCell reports block content in a pipe table cell.
	ErrTableBlockCell = errors.New("table cell contains block content")
	// ErrDepthExceeded reports a tree nested deeper than the configured limit.
	ErrDepthExceeded = errors.New("maximum tree depth exceeded")
	// ErrInvalidStructure reports any other unrenderable arrangement.
	ErrInvalidStructure = errors.New("invalid structure")

	// ErrNewlineInInline reports a newline in an inline-only context.
	ErrNewlineInInline = errors.New("newline in inline context")
	// ErrInvalidHTMLTag reports an unusable HTML tag name.
	ErrInvalidHTMLTag = errors.New("invalid html tag")
	// ErrInvalidHTMLAttribute reports an unusable HTML attribute name.
	ErrInvalidHTMLAttribute = errors.New("invalid html attribute")
	// ErrInvalidURL reports an autolink target that cannot be written.
	ErrInvalidURL = errors.New("invalid autolink url")

	// ErrGFMDisabled reports a GFM construct rendered without GFM enabled.
	ErrGFMDisabled = errors.New("gfm feature not enabled")

	// ErrDelegate reports a failed HTML sub-render.
	ErrDelegate = errors.New("html delegate failed")
	// ErrExtension reports a failure raised by an extension node.
	ErrExtension = errors.New("extension failed")

	// ErrSink reports a failure writing rendered output.
	ErrSink = errors.New("output sink failed")

	// ErrInvalidOptions reports options that fail validation.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrRenderInProgress reports reuse of a renderer during a render.
	ErrRenderInProgress = errors.New("render in progress")
)

// Error is the single terminal error of a failed render.
type Error struct {
	Category ErrorCategory
	// Err is the sentinel identifying the failure.
	Err error
	// Code is set for coded extension errors.
	Code    string
	Node    Kind
	HasNode bool
	// Path is the traversal position, e.g. "Document/Paragraph[1]/Strong".
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Category.String())
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("render failed")
	}
	if e.Code != "" {
		b.WriteString(" [")
		b.WriteString(e.Code)
		b.WriteByte(']')
	}
	if e.Path != "" {
		b.WriteString(" (at ")
		b.WriteString(e.Path)
		b.WriteByte(')')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// IsCategory reports whether err is an *Error of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	return CategoryOf(err) == category
}

// CategoryOf returns the category of the outermost *Error in err, or 0.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return 0
}

// NewExtensionError returns a free-form extension validation error.
func NewExtensionError(format string, args ...any) error {
	return &Error{Category: CategoryExtension, Err: ErrExtension, Message: fmt.Sprintf(format, args...)}
}

// NewCodedError returns an extension error carrying a machine-readable code.
func NewCodedError(code, message string) error {
	return &Error{Category: CategoryExtension, Err: ErrExtension, Code: code, Message: message}
}

func newError(category ErrorCategory, sentinel error, format string, args ...any) *Error {
	e := &Error{Category: category, Err: sentinel}
	if format != "" {
		e.Message = fmt.Sprintf(format, args...)
	}
	return e
}

func structuralError(sentinel error, format string, args ...any) *Error {
	return newError(CategoryStructure, sentinel, format, args...)
}

func contentError(sentinel error, format string, args ...any) *Error {
	return newError(CategoryContent, sentinel, format, args...)
}

func unsupportedError(feature string) *Error {
	return newError(CategoryUnsupported, ErrGFMDisabled, "%s requires gfm", feature)
}

// annotate fills in position context without overwriting what a nested
// renderer already recorded.
func annotate(err error, kind Kind, path string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{
			Category: CategoryExtension,
			Err:      ErrExtension,
			Node:     kind,
			HasNode:  true,
			Path:     path,
			Cause:    err,
		}
	}
	if !e.HasNode {
		e.Node = kind
		e.HasNode = true
	}
	if e.Path == "" {
		e.Path = path
	}
	return err
}

func delegateError(cause error, path string) error {
	var e *Error
	if errors.As(cause, &e) && e.Category == CategoryDelegate {
		return cause
	}
	return &Error{Category: CategoryDelegate, Err: ErrDelegate, Path: path, Cause: cause}
}
