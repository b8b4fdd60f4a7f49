// Package align positions the glyphs of wrapped lines within their wrap
// width and optionally justifies them.
//
// Apply recomputes every glyph's X from the advances, so it can be called
// again with another mode. It never changes glyph ids or advances.
package align

import (
	"github.com/gogpu/typeset/segment"
	"github.com/gogpu/typeset/shape"
	"github.com/gogpu/typeset/wrap"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Mode specifies horizontal alignment.
type Mode uint8

const (
	// Start aligns to the left edge of LTR lines and the right edge of RTL
	// lines. This is the default.
	Start Mode = iota
	// End aligns opposite to Start.
	End
	// Center centers the line.
	Center
	// Left aligns to the left edge regardless of direction.
	Left
	// Right aligns to the right edge regardless of direction.
	Right
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Start:
		return "Start"
	case End:
		return "End"
	case Center:
		return "Center"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return unknownStr
	}
}

// absolute resolves Start and End against the base direction.
func (m Mode) absolute(base segment.Direction) Mode {
	switch m {
	case Start:
		if base == segment.RTL {
			return Right
		}
		return Left
	case End:
		if base == segment.RTL {
			return Left
		}
		return Right
	default:
		return m
	}
}

// Apply aligns line within line.MaxWidth. With justify set, a line that is
// not its paragraph's last line is stretched to MaxWidth by widening the
// gaps between words or, without any word gap, between clusters.
func Apply(line *wrap.Line, mode Mode, justify bool) {
	extra := make([]float64, len(line.Glyphs))
	width := line.Width
	slack := line.MaxWidth - line.Width
	if justify && line.MaxWidth > 0 && !line.Last && slack > 0 {
		if distribute(line.Glyphs, extra, slack) {
			width = line.MaxWidth
		}
	}

	var offset float64
	if line.MaxWidth > 0 {
		switch mode.absolute(line.Base) {
		case Right:
			offset = line.MaxWidth - width
		case Center:
			offset = (line.MaxWidth - width) / 2
		}
	}
	offset = max(offset, 0)

	pen := offset
	if line.Base == segment.RTL {
		pen -= line.Hanging
	}
	for i := range line.Glyphs {
		line.Glyphs[i].X = pen
		pen += line.Glyphs[i].XAdvance + extra[i]
	}
	line.X = offset
}

// distribute spreads slack over the gaps of glyphs, which are in visual
// order, writing the space added after each glyph to extra. It reports
// whether any gap was found.
func distribute(glyphs []shape.Glyph, extra []float64, slack float64) bool {
	lo, hi := 0, len(glyphs)
	for lo < hi && isSpace(&glyphs[lo]) {
		lo++
	}
	for hi > lo && isSpace(&glyphs[hi-1]) {
		hi--
	}
	if hi-lo < 2 {
		return false
	}

	// Word gaps: the last glyph of every whitespace cluster in the content.
	var gaps []int
	for i := lo; i < hi; i++ {
		if isSpace(&glyphs[i]) && clusterEnds(glyphs, i) {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		for i := lo; i < hi-1; i++ {
			if clusterEnds(glyphs, i) {
				gaps = append(gaps, i)
			}
		}
	}
	if len(gaps) == 0 {
		return false
	}
	per := slack / float64(len(gaps))
	for _, i := range gaps {
		extra[i] = per
	}
	return true
}

func isSpace(g *shape.Glyph) bool { return g.Flags.Has(shape.Whitespace) }

// clusterEnds reports whether glyph i is the last visual glyph of its
// cluster.
func clusterEnds(glyphs []shape.Glyph, i int) bool {
	return i == len(glyphs)-1 || !glyphs[i].SameCluster(&glyphs[i+1])
}
