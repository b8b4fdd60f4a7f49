// Package attrs maps byte ranges of a text buffer to style attributes.
//
// An Index partitions [0, Len) into sorted, non-overlapping, non-empty
// spans. Every mutation keeps that partition intact and merges neighbours
// whose attributes are equal, so Spans always returns the coarsest
// partition:
//
//	idx := attrs.NewIndex(len(text), attrs.Default())
//	bold := attrs.Default()
//	bold.Weight = font.WeightBold
//	_ = idx.Set(6, 11, bold)
//	a, _ := idx.At(7) // bold
//
// Insert and Remove keep spans in step with text edits.
package attrs
