package typeset

import (
	"fmt"
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/gogpu/typeset/align"
	"github.com/gogpu/typeset/attrs"
	"github.com/gogpu/typeset/cachekey"
	"github.com/gogpu/typeset/cursor"
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/internal/logging"
	"github.com/gogpu/typeset/segment"
	"github.com/gogpu/typeset/shape"
	"github.com/gogpu/typeset/wrap"
)

// paragraph is the cached layout of one paragraph. All offsets are
// absolute.
type paragraph struct {
	seg     segment.Paragraph
	base    segment.Direction
	glyphs  []shape.Glyph
	metrics font.Metrics
	lines   []wrap.Line

	// shaped is cleared when the text or attributes change; wrapped when
	// the glyphs or the geometry change.
	shaped  bool
	wrapped bool
}

// shift moves the paragraph by delta bytes without touching its layout.
func (p *paragraph) shift(delta int) {
	if delta == 0 {
		return
	}
	p.seg.Start += delta
	p.seg.End += delta
	p.seg.TermEnd += delta
	shiftGlyphs(p.glyphs, delta)
	for i := range p.lines {
		l := &p.lines[i]
		l.Start += delta
		l.End += delta
		shiftGlyphs(l.Glyphs, delta)
	}
}

func (p *paragraph) renumber(idx int) {
	if p.seg.Index == idx {
		return
	}
	p.seg.Index = idx
	for i := range p.lines {
		p.lines[i].Paragraph = idx
	}
}

func shiftGlyphs(glyphs []shape.Glyph, delta int) {
	for i := range glyphs {
		glyphs[i].Start += delta
		glyphs[i].End += delta
	}
}

// Buffer holds styled text and its layout. Edits invalidate only the
// paragraphs they touch; Layout brings the lines up to date.
//
// Buffer is not safe for concurrent use. Several buffers may share a
// catalog and a run cache.
type Buffer struct {
	text  string
	spans *attrs.Index
	cfg   Config

	catalog  font.Catalog
	shaper   *shape.Shaper
	runCache *shape.RunCache
	ownCache bool
	// borrowed is set after LayoutWith so the next Layout reshapes
	// everything with the buffer's own catalog.
	borrowed bool

	paras    []*paragraph
	state    State
	lines    []wrap.Line
	mapper   *cursor.Mapper
	resolver *cachekey.Resolver
	stats    Stats
}

// New creates an empty buffer.
//
// Example:
//
//	fonts := font.NewCollection()
//	if err := fonts.AddGoFonts(); err != nil {
//	    return err
//	}
//	b := typeset.New(typeset.WithCatalog(fonts), typeset.WithMaxWidth(400))
//	b.SetText("Hello, world")
//	if err := b.Layout(); err != nil {
//	    return err
//	}
//	for _, line := range b.Lines() {
//	    ...
//	}
func New(opts ...Option) *Buffer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := &Buffer{
		spans:    attrs.NewIndex(0, o.defaults),
		cfg:      o.cfg,
		catalog:  o.catalog,
		runCache: o.runCache,
		resolver: cachekey.NewResolver(o.cfg.Subpixel),
	}
	if b.runCache == nil {
		b.runCache = shape.NewRunCache(0)
		b.ownCache = true
	}
	b.split()
	return b
}

// split rebuilds the paragraph arena from scratch.
func (b *Buffer) split() {
	b.paras = b.paras[:0]
	for p := range segment.Paragraphs(b.text) {
		b.paras = append(b.paras, &paragraph{seg: p})
	}
}

// touch records that the layout is out of date.
func (b *Buffer) touch() {
	b.mapper = nil
	if len(b.text) == 0 {
		// Lines of the old text must not outlive it; the next layout
		// produces the single empty line.
		b.lines = nil
		b.state = Empty
		return
	}
	b.state = Unshaped
}

func (b *Buffer) reshapeAll() {
	for _, p := range b.paras {
		p.shaped = false
	}
	b.touch()
}

func (b *Buffer) rewrapAll() {
	for _, p := range b.paras {
		p.wrapped = false
	}
	b.touch()
}

func (b *Buffer) boundary(off int) bool {
	return off >= 0 && off <= len(b.text) && (off == len(b.text) || utf8.RuneStart(b.text[off]))
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return b.text }

// Len returns the text length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// State returns the layout state.
func (b *Buffer) State() State { return b.state }

// Config returns the layout configuration.
func (b *Buffer) Config() Config { return b.cfg }

// Catalog returns the attached font catalog, or nil.
func (b *Buffer) Catalog() font.Catalog { return b.catalog }

// Spans returns the attribute spans in order.
func (b *Buffer) Spans() []attrs.Span { return b.spans.Spans() }

// Attrs returns the attributes at offset, where typed text would land.
func (b *Buffer) Attrs(offset int) (attrs.Attrs, error) { return b.spans.At(offset) }

// Stats returns the statistics of the last layout.
func (b *Buffer) Stats() Stats { return b.stats }

// RunCache returns the shaped-run cache.
func (b *Buffer) RunCache() *shape.RunCache { return b.runCache }

// SetText replaces the whole text. Attribute spans are reset to the
// defaults.
func (b *Buffer) SetText(s string) {
	b.text = s
	b.spans.Reset(len(s))
	b.split()
	b.touch()
}

// Insert inserts s at offset.
func (b *Buffer) Insert(offset int, s string) error {
	return b.Replace(offset, offset, s)
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end int) error {
	return b.Replace(start, end, "")
}

// Replace replaces [start, end) with s. Inserted text takes the attributes
// of the text before it. Only the paragraphs the edit touches are shaped
// again; later paragraphs keep their layout.
func (b *Buffer) Replace(start, end int, s string) error {
	if start > end || !b.boundary(start) || !b.boundary(end) {
		return fmt.Errorf("%w: [%d, %d) in text of length %d", ErrInvalidRange, start, end, len(b.text))
	}
	if start == end && s == "" {
		return nil
	}
	if err := b.spans.Remove(start, end); err != nil {
		return err
	}
	if err := b.spans.Insert(start, len(s)); err != nil {
		return err
	}
	b.text = b.text[:start] + s + b.text[end:]
	b.edit(start, end, len(s)-(end-start))
	b.touch()
	return nil
}

// edit re-splits the paragraphs touched by replacing [start, end) of the
// old text, now changed by delta bytes, and shifts the rest.
func (b *Buffer) edit(start, end, delta int) {
	first := 0
	for i, p := range b.paras {
		if p.seg.Start > start {
			break
		}
		first = i
	}
	// An edit right after a CR may join it with an inserted LF.
	if ps := b.paras[first].seg.Start; first > 0 && ps == start && b.text[ps-1] == '\r' {
		first--
	}
	last := first
	for i := first; i < len(b.paras); i++ {
		if b.paras[i].seg.Start > end {
			break
		}
		last = i
	}

	from := b.paras[first].seg.Start
	to := b.paras[last].seg.TermEnd + delta
	fresh := segment.Split(b.text[from:to], from)
	if last < len(b.paras)-1 {
		// The region ends with a terminator; its empty tail belongs to
		// the next, untouched paragraph.
		fresh = fresh[:len(fresh)-1]
	}

	tail := b.paras[last+1:]
	for _, p := range tail {
		p.shift(delta)
	}
	repl := make([]*paragraph, len(fresh))
	for i, seg := range fresh {
		repl[i] = &paragraph{seg: seg}
	}
	b.paras = slices.Concat(b.paras[:first], repl, tail)
	for i, p := range b.paras {
		p.renumber(i)
	}
}

// SetAttrs applies a to [start, end).
func (b *Buffer) SetAttrs(start, end int, a attrs.Attrs) error {
	if err := b.spans.Set(start, end, a); err != nil {
		return err
	}
	for _, p := range b.paras {
		pe := max(p.seg.TermEnd, p.seg.Start+1)
		if p.seg.Start < end && start < pe {
			p.shaped = false
		}
	}
	b.touch()
	return nil
}

// SetDefaults replaces the default attributes, including spans that still
// carry the old defaults.
func (b *Buffer) SetDefaults(a attrs.Attrs) {
	b.spans.SetDefaults(a)
	b.reshapeAll()
}

// SetMaxWidth sets the wrap width.
func (b *Buffer) SetMaxWidth(w float64) {
	b.cfg.MaxWidth = w
	b.rewrapAll()
}

// SetWrap sets the wrap mode.
func (b *Buffer) SetWrap(m wrap.Mode) {
	b.cfg.Wrap = m
	b.rewrapAll()
}

// SetAlignment sets the horizontal alignment.
func (b *Buffer) SetAlignment(m align.Mode) {
	b.cfg.Alignment = m
	b.rewrapAll()
}

// SetJustify enables or disables justification.
func (b *Buffer) SetJustify(on bool) {
	b.cfg.Justify = on
	b.rewrapAll()
}

// SetLineHeight sets a fixed baseline distance, 0 for natural spacing.
func (b *Buffer) SetLineHeight(h float64) {
	b.cfg.LineHeight = h
	b.rewrapAll()
}

// SetTabWidth sets the tab advance in spaces.
func (b *Buffer) SetTabWidth(n int) {
	if n <= 0 {
		return
	}
	b.cfg.TabWidth = n
	b.shaper = nil
	b.reshapeAll()
}

// SetStrategy selects the shaping strategy.
func (b *Buffer) SetStrategy(s shape.Strategy) {
	b.cfg.Strategy = s
	b.reshapeAll()
}

// SetBaseDirection sets the paragraph direction policy.
func (b *Buffer) SetBaseDirection(base segment.Base) {
	b.cfg.Base = base
	b.reshapeAll()
}

// SetCatalog attaches a font catalog. Everything is shaped again on the
// next layout.
func (b *Buffer) SetCatalog(c font.Catalog) {
	b.catalog = c
	b.shaper = nil
	if b.ownCache {
		b.runCache.Clear()
	}
	b.reshapeAll()
}

// SetSubpixel sets the subpixel resolution of cache keys. The layout is
// not affected.
func (b *Buffer) SetSubpixel(c cachekey.Config) {
	b.cfg.Subpixel = c
	b.resolver = cachekey.NewResolver(c)
}

func (b *Buffer) newShaper(c font.Catalog, cache *shape.RunCache) *shape.Shaper {
	opts := []shape.Option{shape.WithTabWidth(b.cfg.TabWidth)}
	if cache != nil {
		opts = append(opts, shape.WithRunCache(cache))
	}
	return shape.New(c, opts...)
}

// Layout shapes dirty paragraphs and re-wraps those whose glyphs or
// geometry changed. It fails with ErrNoCatalog when there is text and no
// catalog, and with font.ErrNoUsableFont when the catalog has no face.
// Empty text lays out as one empty line and leaves the buffer Empty.
func (b *Buffer) Layout() error {
	if b.borrowed {
		b.borrowed = false
		b.reshapeAll()
	}
	if b.catalog != nil && b.shaper == nil {
		b.shaper = b.newShaper(b.catalog, b.runCache)
	}
	return b.layout(b.catalog, b.shaper)
}

// LayoutWith lays out everything with c instead of the attached catalog,
// for this call only.
func (b *Buffer) LayoutWith(c font.Catalog) error {
	b.reshapeAll()
	var sh *shape.Shaper
	if c != nil {
		// The run cache is keyed without the catalog.
		sh = b.newShaper(c, nil)
	}
	err := b.layout(c, sh)
	b.borrowed = true
	return err
}

func (b *Buffer) layout(c font.Catalog, sh *shape.Shaper) error {
	if c == nil && len(b.text) > 0 {
		return ErrNoCatalog
	}
	var st Stats
	seg := segment.New(b.cfg.Base)
	wcfg := b.cfg.wrap()
	for _, p := range b.paras {
		if !p.shaped {
			if err := b.shape(p, c, sh, seg); err != nil {
				return err
			}
			p.shaped, p.wrapped = true, false
			st.Reshaped++
		}
		if !p.wrapped {
			p.lines = wrap.Wrap(wrap.Paragraph{
				Text:    b.text[p.seg.Start:p.seg.End],
				Start:   p.seg.Start,
				TermEnd: p.seg.TermEnd,
				Index:   p.seg.Index,
				Base:    p.base,
				Glyphs:  p.glyphs,
				Metrics: p.metrics,
			}, wcfg)
			for i := range p.lines {
				align.Apply(&p.lines[i], b.cfg.Alignment, b.cfg.Justify)
			}
			p.wrapped = true
			st.Rewrapped++
		}
	}
	b.lines = b.stack()
	b.mapper = nil

	st.Paragraphs = len(b.paras)
	st.Lines = len(b.lines)
	b.stats = st
	if len(b.text) == 0 {
		b.state = Empty
	} else {
		b.state = LaidOut
	}
	logging.L().Debug("typeset: layout",
		"paragraphs", st.Paragraphs,
		"reshaped", st.Reshaped,
		"rewrapped", st.Rewrapped,
		"lines", st.Lines)
	return nil
}

func (b *Buffer) shape(p *paragraph, c font.Catalog, sh *shape.Shaper, seg *segment.Segmenter) error {
	res := seg.Runs(b.text[p.seg.Start:p.seg.End], p.seg.Start)
	p.base = res.Base
	p.glyphs = nil
	p.metrics = font.Metrics{}
	if c == nil {
		return nil
	}
	if p.seg.End > p.seg.Start {
		items := shape.Itemize(res.Runs, b.spans.Intersecting(p.seg.Start, p.seg.End))
		glyphs, err := sh.ShapeItems(b.text, items, b.cfg.Strategy)
		if err != nil {
			return fmt.Errorf("typeset: paragraph %d: %w", p.seg.Index, err)
		}
		p.glyphs = glyphs
	}
	a, err := b.spans.At(p.seg.Start)
	if err != nil {
		return err
	}
	if a.Size <= 0 {
		a.Size = attrs.DefaultSize
	}
	if face, ok := c.Match(a.Query()); ok {
		p.metrics = c.Metrics(face).Scaled(a.Size)
	}
	return nil
}

// stack concatenates the paragraph lines and assigns baselines.
func (b *Buffer) stack() []wrap.Line {
	n := 0
	for _, p := range b.paras {
		n += len(p.lines)
	}
	lines := make([]wrap.Line, 0, n)
	var top float64
	for _, p := range b.paras {
		for _, l := range p.lines {
			h := l.Height()
			if b.cfg.LineHeight > 0 {
				// Half the leading goes above the line.
				l.Y = top + (b.cfg.LineHeight-h)/2 + l.Ascent
				top += b.cfg.LineHeight
			} else {
				l.Y = top + l.Ascent
				top += h
			}
			lines = append(lines, l)
		}
	}
	return lines
}

// Lines returns the lines of the last layout in order. The returned
// lines and their glyphs must not be modified.
func (b *Buffer) Lines() []wrap.Line { return b.lines }

// Glyphs yields every glyph of the last layout with its line index.
func (b *Buffer) Glyphs() iter.Seq2[int, shape.Glyph] {
	return func(yield func(int, shape.Glyph) bool) {
		for li := range b.lines {
			for _, g := range b.lines[li].Glyphs {
				if !yield(li, g) {
					return
				}
			}
		}
	}
}

// Mapper returns a cursor mapper over the current lines, or nil when the
// text changed since the last layout.
func (b *Buffer) Mapper() *cursor.Mapper {
	if b.state == Unshaped || b.lines == nil {
		return nil
	}
	if b.mapper == nil {
		b.mapper = cursor.NewMapper(b.text, b.lines)
	}
	return b.mapper
}

// Resolver returns the cache-key resolver.
func (b *Buffer) Resolver() *cachekey.Resolver { return b.resolver }

// CacheKey returns the raster cache key of glyph g of line, drawn with the
// layout origin at (originX, originY) pixels and the given scale.
func (b *Buffer) CacheKey(g shape.Glyph, line wrap.Line, originX, originY, scale float64) cachekey.Key {
	p := b.resolver.Physical(g, originX, originY+line.Y*scale, scale)
	return b.resolver.Key(p)
}
