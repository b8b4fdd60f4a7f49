// Package shape turns styled, direction-consistent runs of text into
// positioned glyphs.
//
// A Shaper resolves the face for every rune through a font.Catalog,
// falling back face by face until one covers the rune. It then splits
// the run into sub-runs of one face and one script and shapes each one
// with the selected Strategy:
//
//   - Basic maps every rune to its nominal glyph and uses the catalog
//     advance. It needs nothing but the Catalog.
//   - Advanced hands each sub-run to an Oracle, by default the go-text
//     HarfBuzz port, which applies ligatures, kerning and mark placement.
//
// Glyphs are returned in logical order with absolute byte ranges. All
// advances and offsets are float64 pixels; fixed-point values only appear
// at the oracle boundary.
package shape
