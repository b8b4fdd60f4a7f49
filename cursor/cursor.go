// Package cursor maps between byte offsets and caret positions on laid-out
// lines, and renders selections as rectangles.
package cursor

import (
	"errors"
	"fmt"
	"image/color"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

var (
	// ErrInvalidOffset is wrapped by *OffsetError.
	ErrInvalidOffset = errors.New("cursor: invalid offset")

	// ErrInvalidLine is returned for a line index out of range.
	ErrInvalidLine = errors.New("cursor: invalid line")
)

// OffsetError reports an offset outside the text or inside a rune.
type OffsetError struct {
	Offset int
	Len    int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("cursor: invalid offset %d (text length %d)", e.Offset, e.Len)
}

func (e *OffsetError) Unwrap() error { return ErrInvalidOffset }

// Affinity picks a side of an offset that has two visual positions, such
// as the end of a wrapped line or a direction boundary.
type Affinity uint8

const (
	// Before attaches the caret to the character before the offset.
	Before Affinity = iota
	// After attaches the caret to the character after the offset.
	After
)

// String returns the string representation of the affinity.
func (a Affinity) String() string {
	switch a {
	case Before:
		return "Before"
	case After:
		return "After"
	default:
		return unknownStr
	}
}

// Cursor is a caret position in a buffer.
type Cursor struct {
	Offset   int
	Affinity Affinity
	// Color overrides the display color of the caret when set.
	Color *color.NRGBA
}

// Selection is the range between an anchor and the active end. The active
// end is where the caret is drawn.
type Selection struct {
	Anchor Cursor
	Active Cursor
}

// Range returns the selected byte range in logical order.
func (s Selection) Range() (start, end int) {
	return min(s.Anchor.Offset, s.Active.Offset), max(s.Anchor.Offset, s.Active.Offset)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return s.Anchor.Offset == s.Active.Offset }

// Rect is a selected area on one line. X is in line space; Y spans the
// line from its ascent to its descent.
type Rect struct {
	Line int
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }
