package font

import "strconv"

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// FaceID identifies a face within one catalog. The zero value is NoFace.
type FaceID uint32

// NoFace is the invalid face handle.
const NoFace FaceID = 0

// GlyphID is a font-specific glyph index.
type GlyphID uint32

// NotDef is the glyph every font draws for unsupported codepoints.
const NotDef GlyphID = 0

// Weight is the stroke thickness of a face, from 100 to 900.
type Weight uint16

// Standard weights.
const (
	WeightThin       Weight = 100
	WeightExtraLight Weight = 200
	WeightLight      Weight = 300
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightExtraBold  Weight = 800
	WeightBlack      Weight = 900
)

// String returns the CSS name of standard weights and the number otherwise.
func (w Weight) String() string {
	switch w {
	case WeightThin:
		return "Thin"
	case WeightExtraLight:
		return "ExtraLight"
	case WeightLight:
		return "Light"
	case WeightNormal:
		return "Normal"
	case WeightMedium:
		return "Medium"
	case WeightSemiBold:
		return "SemiBold"
	case WeightBold:
		return "Bold"
	case WeightExtraBold:
		return "ExtraBold"
	case WeightBlack:
		return "Black"
	default:
		return strconv.Itoa(int(w))
	}
}

// distance returns the absolute weight difference.
func (w Weight) distance(o Weight) int {
	d := int(w) - int(o)
	if d < 0 {
		return -d
	}
	return d
}

// Style is the slant of a face.
type Style uint8

const (
	// StyleNormal is an upright face.
	StyleNormal Style = iota
	// StyleItalic is a cursive face.
	StyleItalic
	// StyleOblique is a slanted upright face.
	StyleOblique
)

// String returns the string representation of the style.
func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "Normal"
	case StyleItalic:
		return "Italic"
	case StyleOblique:
		return "Oblique"
	default:
		return unknownStr
	}
}

// Query describes the face a span of text asks for.
type Query struct {
	Family string
	Weight Weight
	Style  Style
}

// normalized fills unset fields with defaults.
func (q Query) normalized() Query {
	if q.Weight == 0 {
		q.Weight = WeightNormal
	}
	return q
}

// Metrics are face-wide vertical metrics in font units.
// Descent is positive below the baseline.
type Metrics struct {
	Ascent     float64
	Descent    float64
	LineGap    float64
	UnitsPerEm int
}

// Scale returns the factor converting font units to pixels at size.
func (m Metrics) Scale(size float64) float64 {
	if m.UnitsPerEm <= 0 {
		return 0
	}
	return size / float64(m.UnitsPerEm)
}

// Scaled returns the metrics converted to pixels at size.
func (m Metrics) Scaled(size float64) Metrics {
	s := m.Scale(size)
	return Metrics{
		Ascent:     m.Ascent * s,
		Descent:    m.Descent * s,
		LineGap:    m.LineGap * s,
		UnitsPerEm: m.UnitsPerEm,
	}
}

// Height returns ascent + descent + line gap.
func (m Metrics) Height() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Description is the metadata a catalog knows about a face.
type Description struct {
	Family    string
	Weight    Weight
	Style     Style
	Monospace bool
}
