package typeset

import "errors"

var (
	// ErrNoCatalog is returned by Layout when text must be shaped and no
	// font catalog is attached.
	ErrNoCatalog = errors.New("typeset: no font catalog")

	// ErrInvalidRange is returned for edit ranges outside the text or not
	// on rune boundaries.
	ErrInvalidRange = errors.New("typeset: invalid range")
)
