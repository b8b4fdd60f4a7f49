package segment

import (
	"fmt"
	"iter"

	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/typeset/internal/logging"
)

// Run is a maximal byte range of constant embedding level.
type Run struct {
	Start     int
	End       int
	Level     uint8
	Direction Direction
}

// Len returns the byte length of the run.
func (r Run) Len() int { return r.End - r.Start }

// Result is the segmentation of one paragraph.
type Result struct {
	// Base is the resolved paragraph direction.
	Base Direction
	// Runs partition the paragraph in logical order. An empty paragraph has
	// a single zero-length run at the base level.
	Runs []Run
}

// Segmenter applies the bidirectional algorithm paragraph by paragraph.
// The zero value resolves the base direction automatically.
type Segmenter struct {
	Base Base
}

// New returns a Segmenter with the given base direction policy.
func New(base Base) *Segmenter {
	return &Segmenter{Base: base}
}

// Segment yields the runs of every paragraph of text in logical order,
// with offsets relative to text. Each paragraph is segmented only when the
// iteration reaches it.
func (s *Segmenter) Segment(text string) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		for p := range Paragraphs(text) {
			res := s.Runs(text[p.Start:p.End], p.Start)
			for _, r := range res.Runs {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Runs segments a single paragraph. text must not contain a paragraph
// terminator; offset is added to every returned byte offset.
func (s *Segmenter) Runs(text string, offset int) Result {
	base := s.resolveBase(text)
	if text == "" {
		return Result{
			Base: base,
			Runs: []Run{{Start: offset, End: offset, Level: base.Level(), Direction: base}},
		}
	}

	runes := []rune(text)
	levels := s.levels(text, runes, base)
	numberLevels(runes, levels, base)
	attachControls(runes, levels)
	return Result{Base: base, Runs: buildRuns(text, runes, levels, offset)}
}

// resolveBase applies the configured policy to text.
func (s *Segmenter) resolveBase(text string) Direction {
	switch s.Base {
	case BaseLTR:
		return LTR
	case BaseRTL:
		return RTL
	default:
		if d, ok := FirstStrong(text); ok {
			return d
		}
		return LTR
	}
}

// FirstStrong returns the direction of the first strong character of text,
// skipping isolated sequences (rules P2 and P3).
func FirstStrong(text string) (Direction, bool) {
	depth := 0
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.LRI, bidi.RLI, bidi.FSI:
			depth++
		case bidi.PDI:
			if depth > 0 {
				depth--
			}
		case bidi.L:
			if depth == 0 {
				return LTR, true
			}
		case bidi.R, bidi.AL:
			if depth == 0 {
				return RTL, true
			}
		}
	}
	return LTR, false
}

// levels computes a per-rune embedding level. Runs against the paragraph
// direction sit one level above the base.
func (s *Segmenter) levels(text string, runes []rune, base Direction) []uint8 {
	baseLevel := base.Level()
	levels := make([]uint8, len(runes))
	for i := range levels {
		levels[i] = baseLevel
	}

	src, shift := text, 0
	var opts []bidi.Option
	switch {
	case base == RTL:
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	case s.Base == BaseLTR:
		// x/text only forces RTL; a leading LRM pins the paragraph to LTR.
		src, shift = "\u200e"+text, 1
	}

	o, err := order(src, opts)
	if err != nil {
		logging.L().Warn("segment: bidi ordering failed, using base level",
			"err", err, "len", len(text))
		return levels
	}

	for i := 0; i < o.NumRuns(); i++ {
		run := o.Run(i)
		start, end := run.Pos() // rune indices, end inclusive
		lvl := baseLevel
		if (run.Direction() == bidi.RightToLeft) != (base == RTL) {
			lvl = baseLevel + 1
		}
		for j := start; j <= end; j++ {
			k := j - shift
			if k >= 0 && k < len(levels) {
				levels[k] = lvl
			}
		}
	}
	return levels
}

// order runs the x/text algorithm, converting panics on pathological input
// into errors.
func order(text string, opts []bidi.Option) (o bidi.Ordering, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("segment: bidi panic: %v", r)
		}
	}()
	var p bidi.Paragraph
	if _, err = p.SetString(text, opts...); err != nil {
		return bidi.Ordering{}, err
	}
	return p.Order()
}

// attachControls gives explicit directional formatting characters the level
// of their neighbour so they never form runs of their own.
func attachControls(runes []rune, levels []uint8) {
	for i, r := range runes {
		if !IsBidiControl(r) {
			continue
		}
		switch {
		case i > 0:
			levels[i] = levels[i-1]
		default:
			for j := 1; j < len(runes); j++ {
				if !IsBidiControl(runes[j]) {
					levels[i] = levels[j]
					break
				}
			}
		}
	}
}

// IsBidiControl reports whether r is an explicit directional formatting
// character or a directional mark.
func IsBidiControl(r rune) bool {
	switch {
	case r == '\u200e', r == '\u200f', r == '\u061c':
		return true
	case r >= '\u202a' && r <= '\u202e':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
}

func buildRuns(text string, runes []rune, levels []uint8, offset int) []Run {
	runs := make([]Run, 0, 4)
	byteAt := 0
	start := 0
	cur := levels[0]
	for i, r := range runes {
		if levels[i] != cur {
			runs = append(runs, Run{
				Start:     offset + start,
				End:       offset + byteAt,
				Level:     cur,
				Direction: DirectionOf(cur),
			})
			start = byteAt
			cur = levels[i]
		}
		byteAt += runeLen(text, byteAt, r)
	}
	return append(runs, Run{
		Start:     offset + start,
		End:       offset + len(text),
		Level:     cur,
		Direction: DirectionOf(cur),
	})
}

// runeLen returns the byte width of the rune at text[at:]. Invalid UTF-8
// decodes to U+FFFD but occupies a single byte in the source.
func runeLen(text string, at int, r rune) int {
	if r == '\ufffd' && (at+3 > len(text) || text[at:at+3] != "\ufffd") {
		return 1
	}
	return len(string(r))
}
