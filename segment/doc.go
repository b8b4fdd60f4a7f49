// Package segment splits text into paragraphs and bidirectional runs.
//
// Paragraphs end at hard line breaks (LF, CR, CRLF, NEL and U+2029).
// Within a paragraph the Unicode Bidirectional Algorithm assigns every
// character an embedding level; Segmenter reports maximal runs of constant
// level in logical order:
//
//	seg := segment.New(segment.BaseAuto)
//	for run := range seg.Segment("abc שלום def") {
//		fmt.Println(run.Start, run.End, run.Direction)
//	}
//
// Segmentation never fails. Input the algorithm cannot order is reported as
// a single run at the paragraph's base level.
package segment
