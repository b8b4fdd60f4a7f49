package shape

import (
	"errors"
	"fmt"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// ErrUnknownStrategy is returned for a Strategy outside the defined set.
var ErrUnknownStrategy = errors.New("shape: unknown strategy")

// Strategy selects how a run is mapped to glyphs.
type Strategy uint8

const (
	// Basic maps each rune to its nominal glyph with metric advances.
	Basic Strategy = iota
	// Advanced shapes with an Oracle (ligatures, kerning, marks).
	Advanced
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case Basic:
		return "Basic"
	case Advanced:
		return "Advanced"
	default:
		return unknownStr
	}
}

// Validate returns ErrUnknownStrategy for undefined values.
func (s Strategy) Validate() error {
	if s > Advanced {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, s)
	}
	return nil
}
