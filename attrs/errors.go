package attrs

import "errors"

var (
	// ErrOutOfRange is returned for offsets outside the indexed text.
	ErrOutOfRange = errors.New("attrs: offset out of range")

	// ErrEmptyRange is returned when setting attributes on an empty range.
	ErrEmptyRange = errors.New("attrs: empty range")
)
