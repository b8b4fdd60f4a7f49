// Package wrap breaks a shaped paragraph into lines and puts every line
// into visual order.
//
// Break opportunities come from the UAX #14 line segmenter of go-text.
// Lines are filled greedily in logical order. Trailing whitespace hangs past
// the line end and does not count toward the width; a segment wider than
// the whole line is split at cluster boundaries according to Config.Forced.
// Each finished line is reordered with bidi rules L1 and L2 and its glyphs
// receive pen positions from left to right.
package wrap
