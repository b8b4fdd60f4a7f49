package attrs

import (
	"image/color"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/typeset/font"
)

// Default style values.
const (
	DefaultFamily = font.SansSerif
	DefaultSize   = 16.0
)

// Attrs is the style of a span of text. Attrs is comparable; two spans
// with equal Attrs are merged.
type Attrs struct {
	Family string
	Weight font.Weight
	Slant  font.Style
	// Size is the font size in pixels per em.
	Size float64

	// Color is the foreground color. The zero value means the consumer's
	// default color.
	Color color.NRGBA

	// Metadata is carried to every glyph of the span untouched.
	Metadata uint64

	// Language and Script override detection when non-zero.
	Language language.Language
	Script   language.Script

	// LetterSpacing is added after every cluster, in pixels.
	LetterSpacing float64
}

// Default returns 16px regular sans-serif.
func Default() Attrs {
	return Attrs{
		Family: DefaultFamily,
		Weight: font.WeightNormal,
		Size:   DefaultSize,
	}
}

// Query returns the font query for a.
func (a Attrs) Query() font.Query {
	return font.Query{Family: a.Family, Weight: a.Weight, Style: a.Slant}
}

// WithFamily returns a copy of a with the family replaced.
func (a Attrs) WithFamily(family string) Attrs {
	a.Family = family
	return a
}

// WithWeight returns a copy of a with the weight replaced.
func (a Attrs) WithWeight(w font.Weight) Attrs {
	a.Weight = w
	return a
}

// WithSlant returns a copy of a with the slant replaced.
func (a Attrs) WithSlant(s font.Style) Attrs {
	a.Slant = s
	return a
}

// WithSize returns a copy of a with the size replaced.
func (a Attrs) WithSize(size float64) Attrs {
	a.Size = size
	return a
}

// WithColor returns a copy of a with the color replaced.
func (a Attrs) WithColor(c color.NRGBA) Attrs {
	a.Color = c
	return a
}

// WithMetadata returns a copy of a with the metadata replaced.
func (a Attrs) WithMetadata(m uint64) Attrs {
	a.Metadata = m
	return a
}

// Span is a half-open byte range with its attributes.
type Span struct {
	Start int
	End   int
	Attrs Attrs
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }
