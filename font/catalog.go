package font

import gotext "github.com/go-text/typesetting/font"

// Catalog resolves styles to faces and answers coverage and metric queries.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Match returns the best face for q, or false if the catalog is empty.
	Match(q Query) (FaceID, bool)

	// FallbackAfter returns the next face, other than face, that can render
	// r. It returns false when no face covers r.
	FallbackAfter(face FaceID, r rune) (FaceID, bool)

	// Metrics returns the vertical metrics of face in font units.
	Metrics(face FaceID) Metrics

	// Glyph returns the nominal glyph for r, or false if face lacks it.
	Glyph(face FaceID, r rune) (GlyphID, bool)

	// Advance returns the horizontal advance of gid in font units.
	Advance(face FaceID, gid GlyphID) float64
}

// GoTextSource is implemented by catalogs that can hand a go-text face to
// the HarfBuzz shaper. fn runs with exclusive use of the face; UseGoTextFace
// returns false if face is unknown.
type GoTextSource interface {
	UseGoTextFace(face FaceID, fn func(*gotext.Face)) bool
}

// Localer is implemented by catalogs that know the user's locale.
type Localer interface {
	Locale() string
}

// WordFallbacker is implemented by catalogs that rank fallback faces by the
// word a rune appears in. word may be nil.
type WordFallbacker interface {
	FallbackInWord(face FaceID, r rune, word []rune) (FaceID, bool)
}
