package shape

import (
	"image/color"

	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
)

// Flags describe how a glyph relates to its source text.
type Flags uint8

const (
	// Whitespace marks glyphs of whitespace clusters, tabs included.
	Whitespace Flags = 1 << iota
	// Ignorable marks default-ignorable code points, such as bidi
	// controls. They have zero advance.
	Ignorable
	// Missing marks a notdef placeholder for a rune no face covers.
	Missing
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Glyph is one positioned glyph. A cluster of several glyphs shares the
// same [Start, End) range.
type Glyph struct {
	ID   font.GlyphID
	Face font.FaceID
	// Size is the font size in pixels per em.
	Size float64

	// Start and End are the source byte range of the glyph's cluster.
	Start int
	End   int

	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64

	// X is the pen position within the line, assigned by line wrapping
	// and moved by alignment.
	X float64

	// Ascent, Descent and LineGap are the scaled face metrics.
	Ascent  float64
	Descent float64
	LineGap float64

	Level     uint8
	Direction segment.Direction

	Color    color.NRGBA
	Metadata uint64
	Flags    Flags
}

// IsRTL reports whether the glyph belongs to a right-to-left run.
func (g *Glyph) IsRTL() bool { return g.Direction == segment.RTL }

// SameCluster reports whether g and o come from the same cluster.
func (g *Glyph) SameCluster(o *Glyph) bool { return g.Start == o.Start && g.End == o.End }

// Width returns the total advance of glyphs.
func Width(glyphs []Glyph) float64 {
	var w float64
	for i := range glyphs {
		w += glyphs[i].XAdvance
	}
	return w
}
