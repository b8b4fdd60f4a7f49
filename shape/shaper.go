package shape

import (
	"fmt"
	"slices"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/typeset/attrs"
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/internal/logging"
	"github.com/gogpu/typeset/segment"
)

// Shaper shapes runs against a font.Catalog.
//
// Shaper is safe for concurrent use if its catalog and oracle are.
type Shaper struct {
	catalog  font.Catalog
	oracle   Oracle
	tabWidth int
	cache    *RunCache
	lang     language.Language

	// warned records (face, rune block) pairs already reported missing.
	warned sync.Map
}

// New creates a Shaper for catalog.
func New(catalog font.Catalog, opts ...Option) *Shaper {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.oracle == nil {
		if src, ok := catalog.(font.GoTextSource); ok {
			cfg.oracle = NewHarfBuzz(src)
		}
	}
	lang := language.NewLanguage("en")
	if l, ok := catalog.(font.Localer); ok && l.Locale() != "" {
		lang = language.NewLanguage(l.Locale())
	}
	return &Shaper{
		catalog:  catalog,
		oracle:   cfg.oracle,
		tabWidth: cfg.tabWidth,
		cache:    cfg.cache,
		lang:     lang,
	}
}

// Catalog returns the catalog the shaper resolves faces with.
func (s *Shaper) Catalog() font.Catalog { return s.catalog }

// TabWidth returns the tab width in spaces.
func (s *Shaper) TabWidth() int { return s.tabWidth }

// Item is a bidi run with uniform attributes.
type Item struct {
	Run   segment.Run
	Attrs attrs.Attrs
}

// Itemize splits runs at attribute span boundaries. Both inputs must be
// sorted; zero-length runs are dropped.
func Itemize(runs []segment.Run, spans []attrs.Span) []Item {
	items := make([]Item, 0, len(runs))
	j := 0
	for _, r := range runs {
		if r.Len() == 0 {
			continue
		}
		for j < len(spans) && spans[j].End <= r.Start {
			j++
		}
		pos := r.Start
		for k := j; pos < r.End && k < len(spans); k++ {
			end := min(spans[k].End, r.End)
			if end <= pos {
				continue
			}
			sub := r
			sub.Start, sub.End = pos, end
			items = append(items, Item{Run: sub, Attrs: spans[k].Attrs})
			pos = end
		}
	}
	return items
}

// ShapeItems shapes every item of text and concatenates the glyphs.
func (s *Shaper) ShapeItems(text string, items []Item, strategy Strategy) ([]Glyph, error) {
	var out []Glyph
	for _, it := range items {
		glyphs, err := s.Shape(text, it.Run, it.Attrs, strategy)
		if err != nil {
			return nil, err
		}
		out = append(out, glyphs...)
	}
	return out, nil
}

// Shape shapes text[run.Start:run.End] with attributes a. Glyphs are in
// logical order and carry absolute byte offsets into text.
//
// Shape fails only with ErrUnknownStrategy or, when the catalog has no
// face at all, font.ErrNoUsableFont. Runes no face can render become
// notdef glyphs flagged Missing.
func (s *Shaper) Shape(text string, run segment.Run, a attrs.Attrs, strategy Strategy) ([]Glyph, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	if run.Start < 0 || run.End > len(text) || run.Start > run.End {
		return nil, fmt.Errorf("shape: run [%d, %d) outside text of length %d", run.Start, run.End, len(text))
	}
	if run.Len() == 0 {
		return nil, nil
	}
	if a.Size <= 0 {
		a.Size = attrs.DefaultSize
	}
	primary, ok := s.catalog.Match(a.Query())
	if !ok {
		return nil, font.ErrNoUsableFont
	}
	if strategy == Advanced && s.oracle == nil {
		strategy = Basic
	}
	lang := a.Language
	if lang == "" {
		lang = s.lang
	}

	src := text[run.Start:run.End]
	var key RunKey
	if s.cache != nil {
		key = newRunKey(src, primary, a.Size, run.Direction, a.Script, lang, strategy, s.tabWidth, a.LetterSpacing)
		if cached, ok := s.cache.get(key); ok {
			return s.stamp(slices.Clone(cached), run, a), nil
		}
	}

	glyphs := s.shapeRun(src, run.Direction, primary, a, lang, strategy)
	if s.cache != nil {
		s.cache.put(key, slices.Clone(glyphs))
	}
	return s.stamp(glyphs, run, a), nil
}

// stamp moves run-relative glyphs to absolute offsets and applies the
// attributes that do not affect shaping.
func (s *Shaper) stamp(glyphs []Glyph, run segment.Run, a attrs.Attrs) []Glyph {
	for i := range glyphs {
		g := &glyphs[i]
		g.Start += run.Start
		g.End += run.Start
		g.Level = run.Level
		g.Direction = run.Direction
		g.Color = a.Color
		g.Metadata = a.Metadata
	}
	return glyphs
}

// subRun is a range of runes sharing one face and one script.
type subRun struct {
	start, end int
	face       font.FaceID
	script     language.Script
}

// shapeRun shapes src with offsets relative to it.
func (s *Shaper) shapeRun(src string, dir segment.Direction, primary font.FaceID,
	a attrs.Attrs, lang language.Language, strategy Strategy) []Glyph {
	runes := make([]rune, 0, len(src))
	offsets := make([]int, 0, len(src)+1)
	for i, r := range src {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(src))

	faces, missing := s.selectFaces(runes, primary)
	var scripts []language.Script
	if a.Script != 0 {
		scripts = make([]language.Script, len(runes))
		for i := range scripts {
			scripts[i] = a.Script
		}
	} else {
		scripts = detectScripts(runes)
	}

	glyphs := make([]Glyph, 0, len(runes))
	for _, sr := range splitSubRuns(faces, scripts) {
		m := s.catalog.Metrics(sr.face).Scaled(a.Size)
		start := len(glyphs)
		switch strategy {
		case Advanced:
			glyphs = s.shapeAdvanced(glyphs, runes, offsets, sr, a.Size, lang, dir)
		default:
			glyphs = s.shapeBasic(glyphs, runes, offsets, sr, a.Size, missing)
		}
		for i := start; i < len(glyphs); i++ {
			glyphs[i].Face = sr.face
			glyphs[i].Size = a.Size
			glyphs[i].Ascent = m.Ascent
			glyphs[i].Descent = m.Descent
			glyphs[i].LineGap = m.LineGap
		}
	}

	s.finish(glyphs, src, primary, a)
	return glyphs
}

// selectFaces picks the face of every rune.
func (s *Shaper) selectFaces(runes []rune, primary font.FaceID) ([]font.FaceID, []bool) {
	faces := make([]font.FaceID, len(runes))
	missing := make([]bool, len(runes))
	for i, r := range runes {
		if isIgnorable(r) || r == '\t' {
			faces[i] = primary
			if i > 0 && r != '\t' {
				faces[i] = faces[i-1]
			}
			continue
		}
		if i > 0 && sticksToPrevious(r) {
			if _, ok := s.catalog.Glyph(faces[i-1], r); ok {
				faces[i] = faces[i-1]
				continue
			}
		}
		if _, ok := s.catalog.Glyph(primary, r); ok {
			faces[i] = primary
			continue
		}
		if f, ok := s.fallback(primary, runes, i); ok {
			faces[i] = f
			continue
		}
		faces[i] = primary
		missing[i] = true
		s.warnMissing(primary, r)
	}
	return faces, missing
}

// fallback finds a face for runes[i], passing the surrounding word to
// catalogs that rank candidates by it.
func (s *Shaper) fallback(primary font.FaceID, runes []rune, i int) (font.FaceID, bool) {
	wf, ok := s.catalog.(font.WordFallbacker)
	if !ok {
		return s.catalog.FallbackAfter(primary, runes[i])
	}
	start, end := i, i+1
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	return wf.FallbackInWord(primary, runes[i], runes[start:end])
}

type missingKey struct {
	face  font.FaceID
	block rune
}

// warnMissing logs a missing glyph once per face and 256-rune block.
func (s *Shaper) warnMissing(face font.FaceID, r rune) {
	if _, loaded := s.warned.LoadOrStore(missingKey{face, r >> 8}, struct{}{}); loaded {
		return
	}
	logging.L().Warn("shape: no face covers rune", "rune", fmt.Sprintf("U+%04X", r), "face", face)
}

func splitSubRuns(faces []font.FaceID, scripts []language.Script) []subRun {
	var out []subRun
	start := 0
	for i := 1; i <= len(faces); i++ {
		if i < len(faces) && faces[i] == faces[start] && scripts[i] == scripts[start] {
			continue
		}
		out = append(out, subRun{start: start, end: i, face: faces[start], script: scripts[start]})
		start = i
	}
	return out
}

// shapeBasic appends one nominal glyph per rune.
func (s *Shaper) shapeBasic(dst []Glyph, runes []rune, offsets []int, sr subRun, size float64, missing []bool) []Glyph {
	scale := s.catalog.Metrics(sr.face).Scale(size)
	for i := sr.start; i < sr.end; i++ {
		gid := font.NotDef
		var flags Flags
		if missing[i] {
			flags = Missing
		} else if g, ok := s.catalog.Glyph(sr.face, runes[i]); ok {
			gid = g
		}
		dst = append(dst, Glyph{
			ID:       gid,
			Start:    offsets[i],
			End:      offsets[i+1],
			XAdvance: s.catalog.Advance(sr.face, gid) * scale,
			Flags:    flags,
		})
	}
	return dst
}

// shapeAdvanced appends the oracle's glyphs for a sub-run.
func (s *Shaper) shapeAdvanced(dst []Glyph, runes []rune, offsets []int, sr subRun,
	size float64, lang language.Language, dir segment.Direction) []Glyph {
	out := s.oracle.ShapeRun(Request{
		Face:      sr.face,
		Size:      size,
		Runes:     runes,
		Start:     sr.start,
		End:       sr.end,
		Script:    sr.script,
		Language:  lang,
		Direction: dir,
	})
	for _, og := range out {
		c := min(max(og.Cluster, sr.start), sr.end-1)
		end := min(c+max(og.RuneCount, 1), sr.end)
		var flags Flags
		if og.ID == font.NotDef {
			flags = Missing
		}
		dst = append(dst, Glyph{
			ID:       og.ID,
			Start:    offsets[c],
			End:      offsets[end],
			XAdvance: og.XAdvance,
			YAdvance: og.YAdvance,
			XOffset:  og.XOffset,
			YOffset:  og.YOffset,
			Flags:    flags,
		})
	}
	return dst
}

// finish applies tabs, whitespace and ignorable flags, and letter spacing.
// Offsets in glyphs are relative to src.
func (s *Shaper) finish(glyphs []Glyph, src string, primary font.FaceID, a attrs.Attrs) {
	var tab float64
	for i := range glyphs {
		g := &glyphs[i]
		r, _ := utf8.DecodeRuneInString(src[g.Start:])
		switch {
		case r == '\t':
			if tab == 0 {
				tab = s.spaceAdvance(primary, a.Size) * float64(s.tabWidth)
			}
			g.XAdvance = 0
			if i == 0 || !g.SameCluster(&glyphs[i-1]) {
				g.XAdvance = tab
			}
			g.XOffset, g.YAdvance = 0, 0
			g.Flags = (g.Flags &^ Missing) | Whitespace
		case isIgnorable(r):
			g.XAdvance, g.YAdvance, g.XOffset, g.YOffset = 0, 0, 0, 0
			g.Flags = (g.Flags &^ Missing) | Ignorable
		case unicode.IsSpace(r):
			g.Flags |= Whitespace
		}
	}

	if a.LetterSpacing == 0 {
		return
	}
	for i := range glyphs {
		last := i == len(glyphs)-1 || !glyphs[i].SameCluster(&glyphs[i+1])
		if last && !glyphs[i].Flags.Has(Ignorable) {
			glyphs[i].XAdvance += a.LetterSpacing
		}
	}
}

// spaceAdvance returns the advance of U+0020 in face at size.
func (s *Shaper) spaceAdvance(face font.FaceID, size float64) float64 {
	gid, ok := s.catalog.Glyph(face, ' ')
	if !ok {
		return size / 2
	}
	return s.catalog.Advance(face, gid) * s.catalog.Metrics(face).Scale(size)
}
