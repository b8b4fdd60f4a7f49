package font

import "errors"

// Sentinel errors for the font package.
var (
	// ErrNoUsableFont is returned when a catalog has no face at all.
	ErrNoUsableFont = errors.New("font: no usable font")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrUnknownFace is returned for a FaceID the catalog did not issue.
	ErrUnknownFace = errors.New("font: unknown face")
)

// ParseError is returned when a font file cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "font: parse: " + e.Err.Error()
	}
	return "font: parse " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
