package cachekey

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/shape"
)

// Flags are raster-affecting glyph properties carried in a key.
type Flags uint16

const (
	// FlagNotDef marks a placeholder for a rune no face covers.
	FlagNotDef Flags = 1 << iota
)

// KeySize is the length of Key.Bytes.
const KeySize = 16

// Key identifies one rasterizable glyph instance.
type Key struct {
	Face  font.FaceID
	Glyph font.GlyphID
	Size  fixed.Int26_6
	SubX  uint8
	SubY  uint8
	Flags Flags
}

// Bytes returns the big-endian encoding of k.
func (k Key) Bytes() [KeySize]byte {
	var b [KeySize]byte
	binary.BigEndian.PutUint32(b[0:], uint32(k.Face))
	binary.BigEndian.PutUint32(b[4:], uint32(k.Glyph))
	binary.BigEndian.PutUint32(b[8:], uint32(k.Size)) //nolint:gosec // two's complement bit pattern
	b[12] = k.SubX
	b[13] = k.SubY
	binary.BigEndian.PutUint16(b[14:], uint16(k.Flags))
	return b
}

// Hash returns the FNV-1a hash of Bytes.
func (k Key) Hash() uint64 {
	b := k.Bytes()
	h := fnv.New64a()
	_, _ = h.Write(b[:])
	return h.Sum64()
}

// Physical is a glyph placed in pixel space.
type Physical struct {
	Glyph shape.Glyph
	// X and Y are the integer pixel position of the glyph origin.
	X int
	Y int
	// SubX and SubY are the subpixel buckets of the origin.
	SubX uint8
	SubY uint8
	// Size is the pixel size after scaling.
	Size fixed.Int26_6
}

// Resolver converts positioned glyphs to physical glyphs and keys.
// It holds no state besides its configuration.
type Resolver struct {
	cfg Config
}

// NewResolver returns a resolver for cfg.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Config returns the resolver configuration.
func (r *Resolver) Config() Config { return r.cfg }

// Physical places g, positioned in line space, at the pixel-space line
// origin (originX, originY) with the given scale. originY is the baseline;
// y grows downward and glyph offsets grow upward.
func (r *Resolver) Physical(g shape.Glyph, originX, originY, scale float64) Physical {
	x := originX + (g.X+g.XOffset)*scale
	y := originY - g.YOffset*scale
	p := Physical{
		Glyph: g,
		Size:  fixed.Int26_6(math.Round(g.Size * scale * 64)),
	}
	p.X, p.SubX = Quantize(x, r.cfg.Horizontal)
	p.Y, p.SubY = Quantize(y, r.cfg.Vertical)
	return p
}

// Key returns the cache key of p.
func (r *Resolver) Key(p Physical) Key {
	flags := r.cfg.Flags
	if p.Glyph.Flags.Has(shape.Missing) {
		flags |= FlagNotDef
	}
	return Key{
		Face:  p.Glyph.Face,
		Glyph: p.Glyph.ID,
		Size:  p.Size,
		SubX:  p.SubX,
		SubY:  p.SubY,
		Flags: flags,
	}
}

// Offset returns the fractional pixel offset the rasterizer should render
// k at.
func (r *Resolver) Offset(k Key) (dx, dy float64) {
	return Offset(k.SubX, r.cfg.Horizontal), Offset(k.SubY, r.cfg.Vertical)
}
