package shape

import (
	"math"
	"slices"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
)

// Request is one same-face, same-script sub-run handed to an Oracle.
// Runes holds the whole run so the oracle sees context; only
// Runes[Start:End] is shaped.
type Request struct {
	Face      font.FaceID
	Size      float64
	Runes     []rune
	Start     int
	End       int
	Script    language.Script
	Language  language.Language
	Direction segment.Direction
}

// OracleGlyph is a glyph produced by an Oracle. Cluster is the index in
// Request.Runes of the first rune of the glyph's cluster and RuneCount the
// number of runes in it.
type OracleGlyph struct {
	ID        font.GlyphID
	Cluster   int
	RuneCount int
	XAdvance  float64
	YAdvance  float64
	XOffset   float64
	YOffset   float64
}

// Oracle performs complex shaping of a single sub-run. Results must be in
// logical order: ascending Cluster.
type Oracle interface {
	ShapeRun(req Request) []OracleGlyph
}

// HarfBuzz is the Oracle backed by go-text's HarfBuzz port.
//
// HarfBuzz is safe for concurrent use. HarfbuzzShaper keeps per-call
// buffers and is pooled; go-text faces are borrowed from the catalog under
// the face lock.
type HarfBuzz struct {
	source font.GoTextSource
	pool   sync.Pool
}

var _ Oracle = (*HarfBuzz)(nil)

// NewHarfBuzz returns an oracle shaping with faces from source.
func NewHarfBuzz(source font.GoTextSource) *HarfBuzz {
	return &HarfBuzz{
		source: source,
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// ShapeRun implements Oracle. It returns nil if the face is unknown.
func (h *HarfBuzz) ShapeRun(req Request) []OracleGlyph {
	if req.Start >= req.End {
		return nil
	}
	dir := di.DirectionLTR
	if req.Direction == segment.RTL {
		dir = di.DirectionRTL
	}

	var out shaping.Output
	ok := h.source.UseGoTextFace(req.Face, func(face *gotext.Face) {
		hb := h.pool.Get().(*shaping.HarfbuzzShaper)
		out = hb.Shape(shaping.Input{
			Text:      req.Runes,
			RunStart:  req.Start,
			RunEnd:    req.End,
			Direction: dir,
			Face:      face,
			Size:      floatToFixed(req.Size),
			Script:    req.Script,
			Language:  req.Language,
		})
		h.pool.Put(hb)
	})
	if !ok {
		return nil
	}

	glyphs := make([]OracleGlyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = oracleGlyph(g, dir.IsVertical())
	}
	// HarfBuzz emits right-to-left runs in visual order.
	if dir == di.DirectionRTL {
		slices.Reverse(glyphs)
	}
	slices.SortStableFunc(glyphs, func(a, b OracleGlyph) int { return a.Cluster - b.Cluster })
	return glyphs
}

// oracleGlyph converts one go-text glyph. Advance runs along the
// progression axis.
func oracleGlyph(g shaping.Glyph, vertical bool) OracleGlyph {
	og := OracleGlyph{
		ID:        font.GlyphID(g.GlyphID),
		Cluster:   g.TextIndex(),
		RuneCount: max(g.RunesCount(), 1),
		XOffset:   fixedToFloat(g.XOffset),
		YOffset:   fixedToFloat(g.YOffset),
	}
	if vertical {
		og.YAdvance = fixedToFloat(g.Advance)
	} else {
		og.XAdvance = fixedToFloat(g.Advance)
	}
	return og
}

// floatToFixed converts a float64 size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// fixedToFloat converts a 26.6 fixed point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
