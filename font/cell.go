package font

import "github.com/mattn/go-runewidth"

// cellUnitsPerEm is the design grid of CellCatalog.
const cellUnitsPerEm = 1000

// CellFace is the only face of a CellCatalog.
const CellFace FaceID = 1

// CellCatalog is a monospace catalog for character grids. Every rune maps
// to a glyph whose id is the rune itself, and advances are whole cells as
// reported by go-runewidth: 0 for combining marks, 2 for wide East Asian
// characters and 1 otherwise.
type CellCatalog struct {
	cell float64 // cell width in em
}

var _ Catalog = (*CellCatalog)(nil)

// NewCellCatalog returns a catalog whose cell is cellEm em wide. With
// cellEm 1, a glyph at size 10 advances 10 pixels.
func NewCellCatalog(cellEm float64) *CellCatalog {
	if cellEm <= 0 {
		cellEm = 0.6
	}
	return &CellCatalog{cell: cellEm}
}

// Match implements Catalog.
func (*CellCatalog) Match(Query) (FaceID, bool) { return CellFace, true }

// FallbackAfter implements Catalog. The single face covers everything.
func (*CellCatalog) FallbackAfter(FaceID, rune) (FaceID, bool) { return NoFace, false }

// Metrics implements Catalog.
func (*CellCatalog) Metrics(id FaceID) Metrics {
	if id != CellFace {
		return Metrics{}
	}
	return Metrics{Ascent: 800, Descent: 200, UnitsPerEm: cellUnitsPerEm}
}

// Glyph implements Catalog.
func (*CellCatalog) Glyph(id FaceID, r rune) (GlyphID, bool) {
	if id != CellFace {
		return NotDef, false
	}
	return GlyphID(r), true
}

// Advance implements Catalog.
func (c *CellCatalog) Advance(id FaceID, gid GlyphID) float64 {
	if id != CellFace {
		return 0
	}
	return c.cell * cellUnitsPerEm * float64(runewidth.RuneWidth(rune(gid)))
}

// IsMonospace reports true for the cell face.
func (*CellCatalog) IsMonospace(id FaceID) bool { return id == CellFace }
