package wrap

import (
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
	"github.com/gogpu/typeset/shape"
)

// Line is one visual line of a paragraph.
type Line struct {
	// Glyphs are in visual order, left to right, with X assigned.
	Glyphs []shape.Glyph

	// Width is the advance of the line content without trailing
	// whitespace. Hanging is the advance of that whitespace.
	Width   float64
	Hanging float64

	Ascent  float64
	Descent float64
	LineGap float64

	// MaxWidth is the wrap width the line was built for, 0 if unbounded.
	MaxWidth float64

	// Start and End are the byte range the line covers, terminator
	// included for the last line of a paragraph.
	Start int
	End   int

	Paragraph int
	// Last reports whether this is the paragraph's last line.
	Last bool
	Base segment.Direction

	// X is the offset applied by alignment. Y is the baseline position,
	// assigned by the caller stacking lines.
	X float64
	Y float64
}

// Height returns ascent + descent + line gap.
func (l *Line) Height() float64 {
	return l.Ascent + l.Descent + l.LineGap
}

// Empty reports whether the line has no glyphs.
func (l *Line) Empty() bool { return len(l.Glyphs) == 0 }

// Contains reports whether offset belongs to the line's range.
func (l *Line) Contains(offset int) bool {
	return offset >= l.Start && offset < l.End
}

// Paragraph is the input to Wrap: one paragraph and its shaped glyphs.
type Paragraph struct {
	// Text is the paragraph without its terminator. Start is its offset
	// in the buffer; glyph offsets are absolute.
	Text    string
	Start   int
	TermEnd int
	Index   int
	Base    segment.Direction
	Glyphs  []shape.Glyph
	// Metrics are the scaled metrics used when a line has no glyphs.
	Metrics font.Metrics
}
