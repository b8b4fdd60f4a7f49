// Package typeset shapes and lays out styled text.
//
// # Overview
//
// typeset turns text plus per-range style attributes into lines of
// positioned glyphs. Each glyph carries a cache key so a renderer can
// rasterize it once and reuse the bitmap. It handles mixed writing
// directions, line wrapping, alignment, justification and caret mapping.
// Nothing here rasterizes.
//
// # Quick Start
//
//	import "github.com/gogpu/typeset"
//
//	fonts := font.NewCollection()
//	fonts.AddGoFonts()
//
//	b := typeset.New(typeset.WithCatalog(fonts), typeset.WithMaxWidth(320))
//	b.SetText("Hello, שלום!")
//	if err := b.Layout(); err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range b.Lines() {
//	    for _, g := range line.Glyphs {
//	        key := b.CacheKey(g, line, 0, 0, 1)
//	        // draw the glyph cached under key at g.X, line.Y
//	    }
//	}
//
// # Architecture
//
// The pipeline runs per paragraph:
//   - segment: paragraph splitting and bidi runs (x/text/unicode/bidi)
//   - attrs: the attribute span index
//   - shape: runs to glyphs, with font fallback (go-text HarfBuzz)
//   - wrap: line breaking (UAX #14) and visual reordering
//   - align: alignment and justification
//   - cachekey: subpixel positions and raster cache keys
//   - cursor: offsets to carets, carets to offsets, selection rectangles
//
// Fonts are reached through the font.Catalog interface. The font package
// ships a go-text backed Collection and a CellCatalog for terminal grids.
//
// # Incremental Layout
//
// A Buffer caches the glyphs and lines of every paragraph. An edit marks
// only the paragraphs it touches; later paragraphs keep their lines with
// shifted offsets. Geometry changes such as the wrap width re-wrap every
// paragraph without shaping again. Stats reports the work done by the
// last Layout.
//
// # Logging
//
// typeset is silent by default. See SetLogger.
package typeset
