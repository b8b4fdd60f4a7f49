package cursor

import (
	"math"
	"slices"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/gogpu/typeset/wrap"
)

const epsilon = 1e-9

// Stop is a caret position on a line.
type Stop struct {
	Offset   int
	Affinity Affinity
	X        float64
}

// cluster is one source cluster of a line in visual order.
type cluster struct {
	start, end int
	x0, x1     float64
	rtl        bool
	// bounds are the grapheme boundaries of [start, end], both ends
	// included. Computed on first use.
	bounds []int
}

// Mapper converts between offsets and positions on a fixed set of lines.
// It must be rebuilt when the lines change and is not safe for concurrent
// use.
type Mapper struct {
	text     string
	lines    []wrap.Line
	clusters [][]cluster
}

// NewMapper returns a mapper over lines laid out from text.
func NewMapper(text string, lines []wrap.Line) *Mapper {
	m := &Mapper{
		text:     text,
		lines:    lines,
		clusters: make([][]cluster, len(lines)),
	}
	for i := range lines {
		m.clusters[i] = clustersOf(&lines[i])
	}
	return m
}

func clustersOf(l *wrap.Line) []cluster {
	var out []cluster
	for i := range l.Glyphs {
		g := &l.Glyphs[i]
		if n := len(out); n > 0 && out[n-1].start == g.Start {
			c := &out[n-1]
			c.x0 = min(c.x0, g.X)
			c.x1 = max(c.x1, g.X+g.XAdvance)
			c.end = max(c.end, g.End)
			continue
		}
		out = append(out, cluster{
			start: g.Start,
			end:   g.End,
			x0:    g.X,
			x1:    g.X + g.XAdvance,
			rtl:   g.IsRTL(),
		})
	}
	return out
}

// Text returns the text the mapper was built for.
func (m *Mapper) Text() string { return m.text }

// Lines returns the mapped lines.
func (m *Mapper) Lines() []wrap.Line { return m.lines }

func (m *Mapper) bounds(c *cluster) []int {
	if c.bounds != nil {
		return c.bounds
	}
	c.bounds = []int{c.start}
	if c.end > c.start && c.end <= len(m.text) {
		g := uniseg.NewGraphemes(m.text[c.start:c.end])
		for g.Next() {
			_, to := g.Positions()
			c.bounds = append(c.bounds, c.start+to)
		}
	}
	if c.bounds[len(c.bounds)-1] != c.end {
		c.bounds = append(c.bounds, c.end)
	}
	return c.bounds
}

// caretX returns the position of offset inside c, interpolating between
// grapheme boundaries of multi-grapheme clusters.
func (m *Mapper) caretX(c *cluster, offset int) float64 {
	b := m.bounds(c)
	n := len(b) - 1
	i, found := slices.BinarySearch(b, offset)
	if !found {
		i--
	}
	i = max(min(i, n), 0)
	if n == 0 {
		return c.x0
	}
	d := (c.x1 - c.x0) * float64(i) / float64(n)
	if c.rtl {
		return c.x1 - d
	}
	return c.x0 + d
}

func (m *Mapper) checkOffset(offset int) error {
	if offset < 0 || offset > len(m.text) ||
		(offset < len(m.text) && !utf8.RuneStart(m.text[offset])) {
		return &OffsetError{Offset: offset, Len: len(m.text)}
	}
	return nil
}

// LineOf returns the line a caret at offset is drawn on. At the boundary
// of two lines of one paragraph, Before picks the earlier line.
func (m *Mapper) LineOf(offset int, aff Affinity) (int, error) {
	if err := m.checkOffset(offset); err != nil {
		return 0, err
	}
	if len(m.lines) == 0 {
		return 0, ErrInvalidLine
	}
	li := len(m.lines) - 1
	for i := range m.lines {
		if m.lines[i].Contains(offset) {
			li = i
			break
		}
	}
	if aff == Before && li > 0 && offset == m.lines[li].Start && !m.lines[li-1].Last {
		li--
	}
	return li, nil
}

// OffsetToVisual returns the line and x position of the caret at offset.
// At a direction boundary Before places the caret against the character
// before the offset and After against the one after it.
func (m *Mapper) OffsetToVisual(offset int, aff Affinity) (line int, x float64, err error) {
	li, err := m.LineOf(offset, aff)
	if err != nil {
		return 0, 0, err
	}
	return li, m.lineX(li, offset, aff), nil
}

func (m *Mapper) lineX(li, offset int, aff Affinity) float64 {
	l := &m.lines[li]
	cs := m.clusters[li]
	if len(cs) == 0 {
		return l.X
	}
	var before, after *cluster
	for i := range cs {
		c := &cs[i]
		switch {
		case c.start < offset && offset < c.end:
			return m.caretX(c, offset)
		case c.end == offset:
			before = c
		case c.start == offset:
			after = c
		}
	}
	if after != nil && (aff == After || before == nil) {
		return leading(after)
	}
	if before != nil {
		return trailing(before)
	}
	// Past the content, such as inside a terminator.
	return trailing(m.logicalLast(li))
}

func leading(c *cluster) float64 {
	if c.rtl {
		return c.x1
	}
	return c.x0
}

func trailing(c *cluster) float64 {
	if c.rtl {
		return c.x0
	}
	return c.x1
}

func (m *Mapper) logicalLast(li int) *cluster {
	cs := m.clusters[li]
	last := &cs[0]
	for i := range cs {
		if cs[i].end > last.end {
			last = &cs[i]
		}
	}
	return last
}

// Stops returns the caret stops of a line in visual order. Neighbouring
// clusters share an x position but each contributes its own stop.
func (m *Mapper) Stops(line int) ([]Stop, error) {
	if line < 0 || line >= len(m.lines) {
		return nil, ErrInvalidLine
	}
	l := &m.lines[line]
	cs := m.clusters[line]
	if len(cs) == 0 {
		return []Stop{{Offset: l.Start, Affinity: After, X: l.X}}, nil
	}
	var stops []Stop
	for i := range cs {
		c := &cs[i]
		b := m.bounds(c)
		n := len(b) - 1
		for k := 0; k <= n; k++ {
			j := k
			if c.rtl {
				j = n - k
			}
			aff := After
			if j == n && n > 0 {
				aff = Before
			}
			stops = append(stops, Stop{Offset: b[j], Affinity: aff, X: m.caretX(c, b[j])})
		}
	}
	return stops, nil
}

// VisualToOffset returns the caret stop nearest to x on line. Positions
// beyond either edge of the line clamp to that edge.
func (m *Mapper) VisualToOffset(line int, x float64) (Cursor, error) {
	stops, err := m.Stops(line)
	if err != nil {
		return Cursor{}, err
	}
	best := stops[0]
	dist := math.Abs(x - best.X)
	for _, s := range stops[1:] {
		if d := math.Abs(x - s.X); d < dist-epsilon {
			best, dist = s, d
		}
	}
	return Cursor{Offset: best.Offset, Affinity: best.Affinity}, nil
}

// LineBounds returns the carets at the logical start and end of line.
func (m *Mapper) LineBounds(line int) (start, end Cursor, err error) {
	if line < 0 || line >= len(m.lines) {
		return Cursor{}, Cursor{}, ErrInvalidLine
	}
	l := &m.lines[line]
	start = Cursor{Offset: l.Start, Affinity: After}
	end = Cursor{Offset: l.End, Affinity: Before}
	if l.Last {
		end.Offset = l.Start
		if cs := m.clusters[line]; len(cs) > 0 {
			end.Offset = m.logicalLast(line).end
		}
	}
	return start, end, nil
}

// NextGrapheme returns the grapheme boundary after offset, or len(text).
func NextGrapheme(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	c, _, _, _ := uniseg.FirstGraphemeClusterInString(text[offset:], -1)
	return offset + len(c)
}

// PrevGrapheme returns the grapheme boundary before offset, or 0.
func PrevGrapheme(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	offset = min(offset, len(text))
	prev, pos := 0, 0
	state := -1
	rest := text[:offset]
	for len(rest) > 0 {
		var c string
		c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = pos
		pos += len(c)
	}
	return prev
}
