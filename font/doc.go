// Package font resolves style queries to font faces and answers the glyph
// coverage and metric questions the shaper asks.
//
// The engine consumes fonts only through Catalog. Two implementations are
// provided: Collection, a go-text backed set of OpenType faces with family
// matching, unicode-range fallbacks and system font discovery, and
// CellCatalog, a fixed-cell catalog for terminal grids.
//
//	c := font.NewCollection()
//	if err := c.AddGoFonts(); err != nil {
//		return err
//	}
//	id, ok := c.Match(font.Query{Family: "sans-serif", Weight: font.WeightBold})
//
// Catalogs are shared read-only by many buffers and are safe for concurrent
// use. Faces are referenced by FaceID; callers never hold face pointers.
package font
