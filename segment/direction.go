package segment

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Direction is the resolved direction of a run or paragraph.
type Direction uint8

const (
	// LTR is left-to-right (even embedding level).
	LTR Direction = iota
	// RTL is right-to-left (odd embedding level).
	RTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	default:
		return unknownStr
	}
}

// Level returns the base embedding level for a paragraph in direction d.
func (d Direction) Level() uint8 {
	if d == RTL {
		return 1
	}
	return 0
}

// DirectionOf returns the direction implied by an embedding level.
func DirectionOf(level uint8) Direction {
	if level%2 == 1 {
		return RTL
	}
	return LTR
}

// Base selects how a paragraph's base direction is chosen.
type Base uint8

const (
	// BaseAuto uses the first strong character (rules P2 and P3),
	// defaulting to LTR.
	BaseAuto Base = iota
	// BaseLTR forces a left-to-right paragraph.
	BaseLTR
	// BaseRTL forces a right-to-left paragraph.
	BaseRTL
)

// String returns the string representation of the base.
func (b Base) String() string {
	switch b {
	case BaseAuto:
		return "Auto"
	case BaseLTR:
		return "LTR"
	case BaseRTL:
		return "RTL"
	default:
		return unknownStr
	}
}
