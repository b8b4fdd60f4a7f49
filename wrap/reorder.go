package wrap

import "github.com/gogpu/typeset/shape"

// reorder puts the glyphs of one line, given in logical order, into visual
// order. The last trailing glyphs are hanging whitespace.
func reorder(glyphs []shape.Glyph, p Paragraph, trailing int) {
	n := len(glyphs)
	if n == 0 {
		return
	}
	base := p.Base.Level()
	levels := make([]uint8, n)
	for i := range glyphs {
		levels[i] = glyphs[i].Level
	}

	// L1: trailing whitespace and whitespace before a tab take the
	// paragraph level.
	for i := n - trailing; i < n; i++ {
		levels[i] = base
	}
	for i := n - 1; i >= 0; i-- {
		if !isTab(p, &glyphs[i]) {
			continue
		}
		levels[i] = base
		for j := i - 1; j >= 0 && glyphs[j].Flags.Has(shape.Whitespace); j-- {
			levels[j] = base
		}
	}

	// L2: from the highest level down to the lowest odd one, reverse every
	// maximal sequence at that level or above.
	hi, lowOdd := uint8(0), uint8(255)
	for _, l := range levels {
		hi = max(hi, l)
		if l%2 == 1 {
			lowOdd = min(lowOdd, l)
		}
	}
	for lvl := hi; lvl >= lowOdd && lvl > 0; lvl-- {
		for i := 0; i < n; {
			if levels[i] < lvl {
				i++
				continue
			}
			j := i
			for j < n && levels[j] >= lvl {
				j++
			}
			reverse(glyphs[i:j], levels[i:j])
			i = j
		}
	}
}

func reverse(glyphs []shape.Glyph, levels []uint8) {
	for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
		glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
		levels[i], levels[j] = levels[j], levels[i]
	}
}

func isTab(p Paragraph, g *shape.Glyph) bool {
	off := g.Start - p.Start
	return off >= 0 && off < len(p.Text) && p.Text[off] == '\t'
}
