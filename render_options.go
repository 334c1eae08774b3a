package mdw

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth is the nesting limit applied unless WithMaxDepth changes it.
const DefaultMaxDepth = 1000

// RenderOption configures renderer behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	logger   logrus.FieldLogger
	maxDepth int
	fallback *Options
}

var discardLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{logger: discardLogger, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}

// WithLogger routes soft-mode recovery warnings to logger.
func WithLogger(logger logrus.FieldLogger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.logger = logger
	}
}

// WithMaxDepth bounds tree nesting. Zero or less disables the limit.
func WithMaxDepth(depth int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.maxDepth = depth
	}
}

// WithFallbackOptions sets the CommonMark options the HTML renderer uses
// when an extension has no HTML support.
func WithFallbackOptions(opts Options) RenderOption {
	return func(cfg *renderConfig) {
		o := opts
		cfg.fallback = &o
	}
}
