package typeset

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// State is the layout state of a Buffer.
type State uint8

const (
	// Empty means the buffer holds no text.
	Empty State = iota
	// Unshaped means text or configuration changed since the last layout.
	Unshaped
	// LaidOut means Lines reflect the current text and configuration.
	LaidOut
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Unshaped:
		return "Unshaped"
	case LaidOut:
		return "LaidOut"
	default:
		return unknownStr
	}
}

// Stats describes the work done by the last layout.
type Stats struct {
	Paragraphs int
	// Reshaped counts paragraphs segmented and shaped again.
	Reshaped int
	// Rewrapped counts paragraphs broken into lines again.
	Rewrapped int
	Lines     int
}
