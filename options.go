package typeset

import (
	"github.com/gogpu/typeset/align"
	"github.com/gogpu/typeset/attrs"
	"github.com/gogpu/typeset/cachekey"
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
	"github.com/gogpu/typeset/shape"
	"github.com/gogpu/typeset/wrap"
)

// Config holds the layout parameters of a Buffer.
type Config struct {
	// MaxWidth is the wrap width in pixels. Zero means unbounded.
	MaxWidth float64
	Wrap     wrap.Mode
	Fit      wrap.Fit
	// Forced defaults to wrap.ForceEvery; wrap.ForceOnce splits an
	// overlong word once and lets the remainder overflow the next line.
	Forced   wrap.Forced

	Alignment align.Mode
	Justify   bool

	// LineHeight is the distance between baselines. Zero uses each line's
	// own ascent, descent and line gap.
	LineHeight float64

	// TabWidth is the tab advance in spaces.
	TabWidth int
	Strategy shape.Strategy
	Base     segment.Base
	Subpixel cachekey.Config
}

// DefaultConfig returns an unbounded, start-aligned configuration using
// the Advanced strategy.
func DefaultConfig() Config {
	return Config{
		Wrap:     wrap.WordOrGlyph,
		Fit:      wrap.FitInclusive,
		Forced:   wrap.ForceEvery,
		TabWidth: shape.DefaultTabWidth,
		Strategy: shape.Advanced,
		Subpixel: cachekey.DefaultConfig(),
	}
}

func (c Config) wrap() wrap.Config {
	return wrap.Config{MaxWidth: c.MaxWidth, Mode: c.Wrap, Fit: c.Fit, Forced: c.Forced}
}

// Option configures a Buffer during creation.
//
// Example:
//
//	b := typeset.New(
//	    typeset.WithCatalog(fonts),
//	    typeset.WithMaxWidth(320),
//	    typeset.WithAlignment(align.Center),
//	)
type Option func(*options)

type options struct {
	cfg      Config
	catalog  font.Catalog
	defaults attrs.Attrs
	runCache *shape.RunCache
}

func defaultOptions() options {
	return options{cfg: DefaultConfig(), defaults: attrs.Default()}
}

// WithCatalog sets the font catalog used to shape text.
func WithCatalog(c font.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithDefaults sets the attributes of text no span overrides.
func WithDefaults(a attrs.Attrs) Option {
	return func(o *options) {
		o.defaults = a
	}
}

// WithMaxWidth sets the wrap width.
func WithMaxWidth(w float64) Option {
	return func(o *options) {
		o.cfg.MaxWidth = w
	}
}

// WithWrap sets the wrap mode.
func WithWrap(m wrap.Mode) Option {
	return func(o *options) {
		o.cfg.Wrap = m
	}
}

// WithAlignment sets the horizontal alignment.
func WithAlignment(m align.Mode) Option {
	return func(o *options) {
		o.cfg.Alignment = m
	}
}

// WithJustify stretches every line but the last of a paragraph to the
// wrap width.
func WithJustify(on bool) Option {
	return func(o *options) {
		o.cfg.Justify = on
	}
}

// WithLineHeight sets a fixed distance between baselines.
func WithLineHeight(h float64) Option {
	return func(o *options) {
		o.cfg.LineHeight = h
	}
}

// WithTabWidth sets the tab advance in spaces.
func WithTabWidth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cfg.TabWidth = n
		}
	}
}

// WithStrategy selects the shaping strategy.
func WithStrategy(s shape.Strategy) Option {
	return func(o *options) {
		o.cfg.Strategy = s
	}
}

// WithBaseDirection sets the paragraph direction policy.
func WithBaseDirection(b segment.Base) Option {
	return func(o *options) {
		o.cfg.Base = b
	}
}

// WithSubpixel sets the subpixel resolution of cache keys.
func WithSubpixel(c cachekey.Config) Option {
	return func(o *options) {
		o.cfg.Subpixel = c
	}
}

// WithRunCache shares a shaped-run cache between buffers. The cache must
// only be shared by buffers using the same catalog.
func WithRunCache(rc *shape.RunCache) Option {
	return func(o *options) {
		o.runCache = rc
	}
}
