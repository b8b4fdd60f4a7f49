package wrap

import (
	"github.com/go-text/typesetting/segmenter"

	"github.com/gogpu/typeset/shape"
)

// cluster is a run of glyphs sharing one source range.
type cluster struct {
	first, last int // glyph indices, half-open
	start, end  int // byte range
	width       float64
	space       bool
}

// piece is the clusters between two break opportunities.
type piece struct {
	first, last int // cluster indices, half-open
	contentEnd  int // first trailing whitespace cluster
	content     float64
	trailing    float64
	mandatory   bool
}

// Wrap breaks p into lines. It always returns at least one line; an empty
// paragraph yields a single empty line covering its terminator.
func Wrap(p Paragraph, cfg Config) []Line {
	if len(p.Glyphs) == 0 {
		return []Line{emptyLine(p, cfg)}
	}
	clusters := clustersOf(p.Glyphs)
	pieces := piecesOf(p, clusters, cfg.Mode)
	ranges := fill(clusters, pieces, cfg)

	lines := make([]Line, len(ranges))
	for i, r := range ranges {
		lines[i] = buildLine(p, clusters, r, i == 0, i == len(ranges)-1, cfg)
	}
	return lines
}

func emptyLine(p Paragraph, cfg Config) Line {
	return Line{
		Ascent:    p.Metrics.Ascent,
		Descent:   p.Metrics.Descent,
		LineGap:   p.Metrics.LineGap,
		MaxWidth:  max(cfg.MaxWidth, 0),
		Start:     p.Start,
		End:       p.TermEnd,
		Paragraph: p.Index,
		Last:      true,
		Base:      p.Base,
	}
}

func clustersOf(glyphs []shape.Glyph) []cluster {
	clusters := make([]cluster, 0, len(glyphs))
	for i := range glyphs {
		g := &glyphs[i]
		if n := len(clusters); n > 0 && clusters[n-1].start == g.Start {
			c := &clusters[n-1]
			c.last = i + 1
			c.end = max(c.end, g.End)
			c.width += g.XAdvance
			c.space = c.space && g.Flags.Has(shape.Whitespace)
			continue
		}
		clusters = append(clusters, cluster{
			first: i,
			last:  i + 1,
			start: g.Start,
			end:   g.End,
			width: g.XAdvance,
			space: g.Flags.Has(shape.Whitespace),
		})
	}
	return clusters
}

// breaks returns the UAX #14 break opportunities of p as absolute byte
// offsets, with whether each one is mandatory.
func breaks(p Paragraph) map[int]bool {
	runes := make([]rune, 0, len(p.Text))
	byteAt := make([]int, 0, len(p.Text)+1)
	for i, r := range p.Text {
		runes = append(runes, r)
		byteAt = append(byteAt, p.Start+i)
	}
	byteAt = append(byteAt, p.Start+len(p.Text))

	var seg segmenter.Segmenter
	seg.Init(runes)
	out := make(map[int]bool)
	it := seg.LineIterator()
	for it.Next() {
		l := it.Line()
		end := l.Offset + len(l.Text)
		out[byteAt[end]] = l.IsMandatoryBreak
	}
	return out
}

func piecesOf(p Paragraph, clusters []cluster, mode Mode) []piece {
	opps := breaks(p)
	var pieces []piece
	start := 0
	for i := range clusters {
		next := i + 1
		if next < len(clusters) {
			mandatory, ok := opps[clusters[next].start]
			if !ok && mode != Glyph {
				continue
			}
			pieces = append(pieces, newPiece(clusters, start, next, mandatory))
			start = next
			continue
		}
		pieces = append(pieces, newPiece(clusters, start, next, false))
	}
	return pieces
}

func newPiece(clusters []cluster, first, last int, mandatory bool) piece {
	pc := piece{first: first, last: last, contentEnd: last, mandatory: mandatory}
	for pc.contentEnd > first && clusters[pc.contentEnd-1].space {
		pc.contentEnd--
		pc.trailing += clusters[pc.contentEnd].width
	}
	for _, c := range clusters[first:pc.contentEnd] {
		pc.content += c.width
	}
	return pc
}

// fill distributes pieces over lines and returns the cluster range of
// each line.
func fill(clusters []cluster, pieces []piece, cfg Config) [][2]int {
	var out [][2]int
	lineStart, lineEnd := 0, 0
	var width, hang float64

	flush := func() {
		out = append(out, [2]int{lineStart, lineEnd})
		lineStart = lineEnd
		width, hang = 0, 0
	}

	for _, pc := range pieces {
		if lineEnd > lineStart && !cfg.fits(width+hang+pc.content) {
			flush()
		}
		if lineEnd == lineStart && !cfg.fits(pc.content) && cfg.Mode != Word {
			c := pc.first
			for {
				n := fitCount(clusters[c:pc.contentEnd], cfg)
				if c+n >= pc.contentEnd {
					break
				}
				lineEnd = c + n
				flush()
				c += n
				if cfg.Forced == ForceOnce {
					break
				}
			}
			width = 0
			for _, cl := range clusters[c:pc.contentEnd] {
				width += cl.width
			}
		} else {
			width += hang + pc.content
		}
		lineEnd = pc.last
		hang = pc.trailing
		if pc.mandatory {
			flush()
		}
	}
	if lineStart < len(clusters) {
		flush()
	}
	return out
}

// fitCount returns how many leading clusters fit on an empty line, at
// least one.
func fitCount(clusters []cluster, cfg Config) int {
	var w float64
	for i, c := range clusters {
		w += c.width
		if i > 0 && !cfg.fits(w) {
			return i
		}
	}
	return len(clusters)
}

func buildLine(p Paragraph, clusters []cluster, r [2]int, first, last bool, cfg Config) Line {
	cs, ce := r[0], r[1]
	line := Line{
		MaxWidth:  max(cfg.MaxWidth, 0),
		Start:     clusters[cs].start,
		End:       p.TermEnd,
		Paragraph: p.Index,
		Last:      last,
		Base:      p.Base,
	}
	if first {
		line.Start = p.Start
	}
	if !last {
		line.End = clusters[ce].start
	}

	glyphs := make([]shape.Glyph, clusters[ce-1].last-clusters[cs].first)
	copy(glyphs, p.Glyphs[clusters[cs].first:clusters[ce-1].last])

	trailing := 0
	for i := ce - 1; i >= cs && clusters[i].space; i-- {
		line.Hanging += clusters[i].width
		trailing += clusters[i].last - clusters[i].first
	}
	for _, c := range clusters[cs:ce] {
		line.Width += c.width
	}
	line.Width -= line.Hanging

	for i := range glyphs {
		line.Ascent = max(line.Ascent, glyphs[i].Ascent)
		line.Descent = max(line.Descent, glyphs[i].Descent)
		line.LineGap = max(line.LineGap, glyphs[i].LineGap)
	}
	if line.Ascent == 0 && line.Descent == 0 {
		line.Ascent, line.Descent, line.LineGap = p.Metrics.Ascent, p.Metrics.Descent, p.Metrics.LineGap
	}

	reorder(glyphs, p, trailing)

	// Hanging whitespace of a right-to-left line sits left of the origin.
	pen := 0.0
	if p.Base.Level() == 1 {
		pen = -line.Hanging
	}
	for i := range glyphs {
		glyphs[i].X = pen
		pen += glyphs[i].XAdvance
	}
	line.Glyphs = glyphs
	return line
}
