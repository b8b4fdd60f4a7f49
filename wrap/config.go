package wrap

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Mode specifies where lines may break.
type Mode uint8

const (
	// WordOrGlyph breaks at word boundaries and splits a word only when
	// it does not fit on a line by itself. This is the default.
	WordOrGlyph Mode = iota

	// None disables wrapping; every paragraph is one line.
	None

	// Word breaks at word boundaries only. Long words overflow.
	Word

	// Glyph breaks at any cluster boundary.
	Glyph
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case WordOrGlyph:
		return "WordOrGlyph"
	case None:
		return "None"
	case Word:
		return "Word"
	case Glyph:
		return "Glyph"
	default:
		return unknownStr
	}
}

// Fit decides whether content ending exactly at MaxWidth fits.
type Fit uint8

const (
	// FitInclusive accepts content as wide as MaxWidth.
	FitInclusive Fit = iota
	// FitExclusive requires content strictly narrower than MaxWidth.
	FitExclusive
)

// String returns the string representation of the fit policy.
func (f Fit) String() string {
	switch f {
	case FitInclusive:
		return "Inclusive"
	case FitExclusive:
		return "Exclusive"
	default:
		return unknownStr
	}
}

// Forced decides how a segment wider than a line is split. With ten
// 10px glyphs and a 35px line, ForceEvery gives lines of 3, 3, 3 and 1
// glyphs; ForceOnce gives 3 and then the remaining 7.
type Forced uint8

const (
	// ForceEvery splits repeatedly until every piece fits.
	ForceEvery Forced = iota
	// ForceOnce splits once; the remainder starts a new line and may
	// overflow it.
	ForceOnce
)

// String returns the string representation of the policy.
func (f Forced) String() string {
	switch f {
	case ForceEvery:
		return "Every"
	case ForceOnce:
		return "Once"
	default:
		return unknownStr
	}
}

// Config controls line breaking.
type Config struct {
	// MaxWidth is the line width in pixels. Zero or less means unbounded.
	MaxWidth float64
	Mode     Mode
	Fit      Fit
	Forced   Forced
}

// DefaultConfig returns unbounded word-or-glyph wrapping.
func DefaultConfig() Config {
	return Config{Mode: WordOrGlyph, Fit: FitInclusive, Forced: ForceEvery}
}

// bounded reports whether lines are limited in width.
func (c Config) bounded() bool {
	return c.MaxWidth > 0 && c.Mode != None
}

// fitEpsilon absorbs float64 accumulation error in width comparisons.
const fitEpsilon = 1e-9

// fits reports whether content of width w fits on a line.
func (c Config) fits(w float64) bool {
	if !c.bounded() {
		return true
	}
	if c.Fit == FitExclusive {
		return w < c.MaxWidth-fitEpsilon
	}
	return w <= c.MaxWidth+fitEpsilon
}
