// Package cachekey derives raster cache keys for positioned glyphs.
//
// A glyph's pixel-space position is split into an integer pixel and a
// subpixel bucket. Two glyph instances that fall into the same bucket with
// the same face, glyph id and size rasterize identically and share a key:
//
//	r := cachekey.NewResolver(cachekey.DefaultConfig())
//	p := r.Physical(g, originX, baselineY, 1)
//	key := r.Key(p)
//	draw(p.X, p.Y, atlas.Lookup(key.Bytes()))
//
// Keys never depend on the line or buffer that produced the glyph.
package cachekey

import "math"

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Subpixel is the number of buckets per pixel on one axis.
type Subpixel uint8

const (
	// SubpixelNone snaps to whole pixels.
	SubpixelNone Subpixel = 0
	// Subpixel2 uses positions 0 and 0.5.
	Subpixel2 Subpixel = 2
	// Subpixel4 uses positions 0, 0.25, 0.5 and 0.75.
	Subpixel4 Subpixel = 4
	// Subpixel10 uses tenths of a pixel.
	Subpixel10 Subpixel = 10
)

// String returns the string representation of the resolution.
func (s Subpixel) String() string {
	switch s {
	case SubpixelNone:
		return "None"
	case Subpixel2:
		return "Subpixel2"
	case Subpixel4:
		return "Subpixel4"
	case Subpixel10:
		return "Subpixel10"
	default:
		return unknownStr
	}
}

// Divisions returns the number of buckets, 1 for SubpixelNone.
func (s Subpixel) Divisions() int {
	if s == SubpixelNone {
		return 1
	}
	return int(s)
}

// Quantize splits pos into an integer pixel and a bucket, rounding to the
// nearest bucket. A fraction that rounds up to the next pixel carries into
// the integer part with bucket 0.
//
// With Subpixel4:
//   - 10.0 returns (10, 0)
//   - 10.3 returns (10, 1)
//   - 10.9 returns (11, 0)
//   - -0.25 returns (-1, 3)
func Quantize(pos float64, s Subpixel) (int, uint8) {
	n := float64(s.Divisions())
	floor := math.Floor(pos)
	b := math.Round((pos - floor) * n)
	if b >= n {
		floor++
		b = 0
	}
	return int(floor), uint8(b)
}

// Offset returns the fractional position a bucket stands for.
func Offset(bucket uint8, s Subpixel) float64 {
	return float64(bucket) / float64(s.Divisions())
}

// Config selects the subpixel resolution per axis.
type Config struct {
	Horizontal Subpixel
	Vertical   Subpixel
	// Flags are added to every key, such as a hinting mode the raster
	// cache must tell apart.
	Flags Flags
}

// DefaultConfig returns 4 horizontal buckets and whole vertical pixels.
func DefaultConfig() Config {
	return Config{Horizontal: Subpixel4, Vertical: SubpixelNone}
}

// Multiplier returns how many keys one glyph at one size can produce.
func (c Config) Multiplier() int {
	return c.Horizontal.Divisions() * c.Vertical.Divisions()
}
