package mdw

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

var commonMarkPool = sync.Pool{
	New: func() any {
		return &CommonMarkRenderer{}
	},
}

var htmlPool = sync.Pool{
	New: func() any {
		return &HTMLRenderer{}
	},
}

// Format is an output language.
type Format uint8

const (
	FormatCommonMark Format = iota
	FormatHTML
)

func (f Format) String() string {
	switch f {
	case FormatCommonMark:
		return "commonmark"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown", "commonmark", "cm", "gfm":
		return FormatCommonMark, nil
	case "html":
		return FormatHTML, nil
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// RenderRequest configures Render.
type RenderRequest struct {
	Node   Node
	Writer io.Writer
	Format Format
	// Options defaults to DefaultOptions.
	Options *Options
	// HTML defaults to the options derived from Options.
	HTML          *HTMLOptions
	RenderOptions []RenderOption
}

// Render renders req.Node with a pooled renderer and writes the result to
// req.Writer. Nothing is written when rendering fails.
func Render(req RenderRequest) error {
	if req.Node == nil {
		return fmt.Errorf("render: node is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	opts := DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	cfg := newRenderConfig(req.RenderOptions)
	var (
		out string
		err error
	)
	switch req.Format {
	case FormatCommonMark:
		if req.HTML != nil {
			h := *req.HTML
			opts.HTML = &h
		}
		r := commonMarkPool.Get().(*CommonMarkRenderer)
		r.configure(opts, cfg)
		out, err = r.Render(req.Node)
		r.configure(Options{}, renderConfig{})
		commonMarkPool.Put(r)
	case FormatHTML:
		hopts := opts.htmlOptions()
		switch {
		case req.HTML != nil:
			hopts = *req.HTML
		case opts.HTML == nil:
			hopts.SoftBreak = DefaultHTMLOptions().SoftBreak
		}
		if cfg.fallback == nil {
			cfg.fallback = &opts
		}
		h := htmlPool.Get().(*HTMLRenderer)
		h.configure(hopts, cfg)
		out, err = h.Render(req.Node)
		h.configure(HTMLOptions{}, renderConfig{})
		htmlPool.Put(h)
	default:
		return fmt.Errorf("render: unknown format %d", req.Format)
	}
	if err != nil {
		return err
	}
	return writeOutput(req.Writer, out)
}
