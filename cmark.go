package mdw

import (
	"github.com/sirupsen/logrus"
)

type blockState uint8

const (
	stateStartOfDocument blockState = iota
	stateAfterBlock
	stateAfterBlankLine
	stateInsideInline
)

// CommonMarkRenderer renders node trees to CommonMark. A renderer is not
// safe for concurrent use; distinct renderers share no state.
type CommonMarkRenderer struct {
	opts Options
	cfg  renderConfig
	esc  Escaper
	w    lineWriter
	t    traversal

	state blockState
	tight bool
	// emph holds the delimiter characters of the open emphasis spans.
	emph   []byte
	inLink bool
	// prevList is the marker of the preceding sibling list, or 0.
	prevList byte
	refs     *RefCollector
	html     *HTMLRenderer
	busy     bool
}

// NewCommonMarkRenderer returns a renderer for opts.
func NewCommonMarkRenderer(opts Options, ropts ...RenderOption) *CommonMarkRenderer {
	r := &CommonMarkRenderer{}
	r.configure(opts, newRenderConfig(ropts))
	return r
}

// RenderCommonMark renders node with opts.
func RenderCommonMark(node Node, opts Options, ropts ...RenderOption) (string, error) {
	return NewCommonMarkRenderer(opts, ropts...).Render(node)
}

func (r *CommonMarkRenderer) configure(opts Options, cfg renderConfig) {
	r.opts = opts
	r.cfg = cfg
	r.esc = NewEscaper(opts)
}

// Options returns the options in effect.
func (r *CommonMarkRenderer) Options() Options { return r.opts }

// Logger returns the logger receiving soft-mode warnings.
func (r *CommonMarkRenderer) Logger() logrus.FieldLogger { return r.cfg.logger }

// SetOptions replaces the options between renders.
func (r *CommonMarkRenderer) SetOptions(opts Options) error {
	if r.busy {
		return ErrRenderInProgress
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	r.opts = opts
	r.esc = NewEscaper(opts)
	return nil
}

// WithOptions runs fn with opts installed and restores the previous options
// on every exit path.
func (r *CommonMarkRenderer) WithOptions(opts Options, fn func() error) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	saved, savedEsc := r.opts, r.esc
	defer func() {
		r.opts, r.esc = saved, savedEsc
	}()
	r.opts = opts
	r.esc = NewEscaper(opts)
	return fn()
}

// Render renders node and returns the output. Block roots end with a
// newline; inline roots do not.
func (r *CommonMarkRenderer) Render(node Node) (string, error) {
	if r.busy {
		return "", ErrRenderInProgress
	}
	if err := r.opts.Validate(); err != nil {
		return "", err
	}
	r.busy = true
	defer func() { r.busy = false }()
	r.reset()
	if err := r.renderRoot(node); err != nil {
		r.w.reset()
		return "", err
	}
	return r.w.String(), nil
}

func (r *CommonMarkRenderer) reset() {
	r.w.reset()
	r.t.reset(r.cfg.maxDepth)
	r.state = stateStartOfDocument
	r.tight = false
	r.emph = r.emph[:0]
	r.inLink = false
	r.prevList = 0
	r.refs = nil
	if r.opts.CollectLinkReferenceDefinitions && r.opts.PreserveLinkReferenceDefinitions {
		r.refs = NewRefCollector()
	}
}

func (r *CommonMarkRenderer) renderRoot(node Node) error {
	if node == nil {
		return structuralError(ErrInvalidStructure, "nil root node")
	}
	if IsInline(node) {
		return r.renderInlines([]Node{node})
	}
	if err := r.block(node, -1); err != nil {
		return err
	}
	if r.refs != nil && r.refs.Len() > 0 {
		if err := r.writeCollectedRefs(); err != nil {
			return err
		}
	}
	if len(r.w.buf) > 0 {
		r.w.ensureNewline()
	}
	return nil
}

func (r *CommonMarkRenderer) warn(reason string) {
	entry := r.cfg.logger.WithField("path", r.t.String())
	if kind, ok := r.t.current(); ok {
		entry = entry.WithField("node", kind.String())
	}
	entry.Warn(reason)
}

// capture renders fn into a scratch writer and returns what it wrote. The
// scratch writer starts mid-line with seed as the preceding byte; fresh
// marks it as the start of a block.
func (r *CommonMarkRenderer) capture(seed byte, fresh bool, fn func() error) (string, error) {
	saved := r.w
	r.w = lineWriter{seed: seed, fresh: fresh}
	err := fn()
	out := r.w.String()
	r.w = saved
	return out, err
}

// delegate runs fn on the HTML renderer with options derived from r.
func (r *CommonMarkRenderer) delegate(fn func(h *HTMLRenderer) error) (string, error) {
	h := r.html
	if h == nil || h.busy {
		h = &HTMLRenderer{}
		if r.html == nil {
			r.html = h
		}
	}
	fallback := r.opts
	h.configure(r.opts.htmlOptions(), renderConfig{
		logger:   r.cfg.logger,
		maxDepth: r.t.remaining(),
		fallback: &fallback,
	})
	out, err := h.renderWith(fn)
	if err != nil {
		return "", delegateError(err, r.t.String())
	}
	return out, nil
}

// WriteString writes s verbatim, applying line prefixes.
func (r *CommonMarkRenderer) WriteString(s string) {
	r.w.WriteString(s)
}

// WriteText writes s escaped as inline text.
func (r *CommonMarkRenderer) WriteText(s string) error {
	return r.text(s)
}

// RenderInline renders inline nodes at the cursor.
func (r *CommonMarkRenderer) RenderInline(nodes ...Node) error {
	return r.renderInlines(nodes)
}

// RenderBlocks renders block nodes as the contents of a fresh container
// starting at the cursor.
func (r *CommonMarkRenderer) RenderBlocks(nodes ...Node) error {
	return r.container(false, func() error { return r.renderBlocks(nodes) })
}

// WithPrefix renders fn with prefix applied to every line it writes.
func (r *CommonMarkRenderer) WithPrefix(prefix string, fn func() error) error {
	r.w.pushPrefix(prefix)
	defer r.w.popPrefix()
	return fn()
}

// container runs fn with fresh block separation state.
func (r *CommonMarkRenderer) container(tight bool, fn func() error) error {
	savedState, savedTight := r.state, r.tight
	r.state = stateStartOfDocument
	r.tight = tight
	err := fn()
	r.state, r.tight = savedState, savedTight
	return err
}
