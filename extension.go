package mdw

import (
	"errors"
	"strings"
)

// Extension is a caller-defined node. Block reports its classification;
// RenderCommonMark writes it through the renderer's public helpers.
type Extension interface {
	Name() string
	Block() bool
	RenderCommonMark(r *CommonMarkRenderer) error
	Equal(other Extension) bool
	Clone() Extension
}

// HTMLExtension is implemented by extensions that can render HTML directly.
type HTMLExtension interface {
	Extension
	SupportsHTML() bool
	RenderHTML(h *HTMLRenderer) error
}

// Capability is how the HTML renderer handles an extension.
type Capability uint8

const (
	// CapabilityNative renders through RenderHTML.
	CapabilityNative Capability = iota + 1
	// CapabilityFallback renders CommonMark and writes it as escaped text.
	CapabilityFallback
	// CapabilityUnsupported cannot render in the requested position.
	CapabilityUnsupported
)

func (c Capability) String() string {
	switch c {
	case CapabilityNative:
		return "native"
	case CapabilityFallback:
		return "fallback"
	case CapabilityUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ResolveHTML reports how ext renders to HTML when placed inline or in
// block position.
func ResolveHTML(ext Extension, inline bool) Capability {
	if ext == nil || (inline && ext.Block()) {
		return CapabilityUnsupported
	}
	if h, ok := ext.(HTMLExtension); ok && h.SupportsHTML() {
		return CapabilityNative
	}
	return CapabilityFallback
}

func extensionError(ext Extension, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Category: CategoryExtension,
		Err:      ErrExtension,
		Message:  "extension " + ext.Name(),
		Cause:    err,
	}
}

func (r *CommonMarkRenderer) customBlock(c *Custom) error {
	if c.Ext == nil {
		return structuralError(ErrInvalidStructure, "custom node without extension")
	}
	return extensionError(c.Ext, c.Ext.RenderCommonMark(r))
}

func (r *CommonMarkRenderer) customInline(c *Custom) error {
	if c.Ext == nil {
		return structuralError(ErrInvalidStructure, "custom node without extension")
	}
	if c.Ext.Block() {
		return structuralError(ErrBlockInInline, "block extension %s in inline position", c.Ext.Name())
	}
	return extensionError(c.Ext, c.Ext.RenderCommonMark(r))
}

func (h *HTMLRenderer) renderCustom(c *Custom) error {
	if c.Ext == nil {
		return structuralError(ErrInvalidStructure, "custom node without extension")
	}
	switch ResolveHTML(c.Ext, h.inline > 0) {
	case CapabilityNative:
		return extensionError(c.Ext, c.Ext.(HTMLExtension).RenderHTML(h))
	case CapabilityFallback:
		return h.fallback(c)
	default:
		return structuralError(ErrBlockInInline, "block extension %s in inline position", c.Ext.Name())
	}
}

// fallback renders c to CommonMark and writes the result as text.
func (h *HTMLRenderer) fallback(c *Custom) error {
	opts := DefaultOptions()
	if h.cfg.fallback != nil {
		opts = *h.cfg.fallback
	}
	cm := h.cm
	if cm == nil || cm.busy {
		cm = &CommonMarkRenderer{}
		if h.cm == nil {
			h.cm = cm
		}
	}
	cm.configure(opts, renderConfig{logger: h.cfg.logger, maxDepth: h.t.remaining()})
	out, err := cm.Render(c)
	if err != nil {
		return delegateError(err, h.t.String())
	}
	if c.Ext.Block() {
		h.WriteText(strings.TrimRight(out, "\n"))
		h.WriteRaw("\n")
		return nil
	}
	h.WriteText(out)
	return nil
}
