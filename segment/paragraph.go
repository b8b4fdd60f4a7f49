package segment

import (
	"iter"
	"unicode/utf8"
)

// Paragraph is a byte range of text terminated by a hard line break or the
// end of the text. [Start, End) excludes the terminator; [End, TermEnd)
// holds it and is empty for the last paragraph.
type Paragraph struct {
	Index   int
	Start   int
	End     int
	TermEnd int
}

// Len returns the paragraph length without its terminator.
func (p Paragraph) Len() int { return p.End - p.Start }

// Paragraphs yields the paragraphs of text in order. Offsets are relative to
// text. Text ending in a line break yields a trailing empty paragraph, so a
// caret after the final break always has a paragraph to live in. Empty text
// yields one empty paragraph.
func Paragraphs(text string) iter.Seq[Paragraph] {
	return func(yield func(Paragraph) bool) {
		start, idx := 0, 0
		for i := 0; i < len(text); {
			n := terminatorLen(text[i:])
			if n == 0 {
				_, size := utf8.DecodeRuneInString(text[i:])
				i += size
				continue
			}
			if !yield(Paragraph{Index: idx, Start: start, End: i, TermEnd: i + n}) {
				return
			}
			idx++
			i += n
			start = i
		}
		yield(Paragraph{Index: idx, Start: start, End: len(text), TermEnd: len(text)})
	}
}

// Split collects Paragraphs(text) with every offset shifted by offset.
func Split(text string, offset int) []Paragraph {
	var out []Paragraph
	for p := range Paragraphs(text) {
		p.Start += offset
		p.End += offset
		p.TermEnd += offset
		out = append(out, p)
	}
	return out
}

// terminatorLen returns the byte length of the hard line break at the start
// of s, or 0.
func terminatorLen(s string) int {
	switch s[0] {
	case '\n':
		return 1
	case '\r':
		if len(s) > 1 && s[1] == '\n' {
			return 2
		}
		return 1
	case 0xC2: // U+0085 NEXT LINE
		if len(s) > 1 && s[1] == 0x85 {
			return 2
		}
	case 0xE2: // U+2029 PARAGRAPH SEPARATOR
		if len(s) > 2 && s[1] == 0x80 && s[2] == 0xA9 {
			return 3
		}
	}
	return 0
}

// IsTerminator reports whether r ends a paragraph.
func IsTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2029':
		return true
	}
	return false
}
