package cursor

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/typeset/attrs"
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
	"github.com/gogpu/typeset/shape"
	"github.com/gogpu/typeset/wrap"
)

// layout wraps every paragraph of text with 10px cells and stacks the
// lines 10px apart.
func layout(t *testing.T, text string, maxWidth float64) *Mapper {
	t.Helper()
	cat := font.NewCellCatalog(1)
	sh := shape.New(cat)
	a := attrs.Default().WithSize(10)
	var lines []wrap.Line
	for p := range segment.Paragraphs(text) {
		res := segment.New(segment.BaseAuto).Runs(text[p.Start:p.End], p.Start)
		items := shape.Itemize(res.Runs, []attrs.Span{{Start: 0, End: len(text), Attrs: a}})
		glyphs, err := sh.ShapeItems(text, items, shape.Basic)
		if err != nil {
			t.Fatal(err)
		}
		for _, l := range wrap.Wrap(wrap.Paragraph{
			Text:    text[p.Start:p.End],
			Start:   p.Start,
			TermEnd: p.TermEnd,
			Index:   p.Index,
			Base:    res.Base,
			Glyphs:  glyphs,
			Metrics: cat.Metrics(font.CellFace).Scaled(10),
		}, wrap.Config{MaxWidth: maxWidth}) {
			l.Y = float64(len(lines)*10) + l.Ascent
			lines = append(lines, l)
		}
	}
	return NewMapper(text, lines)
}

func TestOffsetToVisualLTR(t *testing.T) {
	m := layout(t, "hello", 0)
	for off := 0; off <= 5; off++ {
		for _, aff := range []Affinity{Before, After} {
			line, x, err := m.OffsetToVisual(off, aff)
			if err != nil {
				t.Fatal(err)
			}
			if line != 0 || x != float64(10*off) {
				t.Errorf("OffsetToVisual(%d, %v) = %d, %v, want 0, %v", off, aff, line, x, 10*off)
			}
		}
	}
}

func TestOffsetToVisualDirectionBoundary(t *testing.T) {
	// Visual order: "abc " then the Hebrew word reversed, then " def".
	m := layout(t, "abc שלום def", 0)
	tests := []struct {
		offset int
		aff    Affinity
		want   float64
	}{
		{4, Before, 40},
		{4, After, 80},
		{12, Before, 40},
		{12, After, 80},
		{6, Before, 70},
		{16, Before, 120},
	}
	for _, tt := range tests {
		_, x, err := m.OffsetToVisual(tt.offset, tt.aff)
		if err != nil {
			t.Fatal(err)
		}
		if x != tt.want {
			t.Errorf("OffsetToVisual(%d, %v) x = %v, want %v", tt.offset, tt.aff, x, tt.want)
		}
	}
	_, before, _ := m.OffsetToVisual(4, Before)
	_, after, _ := m.OffsetToVisual(4, After)
	if before == after {
		t.Errorf("affinities give the same x %v", before)
	}
}

func TestOffsetToVisualWrappedLine(t *testing.T) {
	m := layout(t, "aaaa bbbb", 45)
	if n := len(m.Lines()); n != 2 {
		t.Fatalf("lines = %d, want 2", n)
	}
	line, x, _ := m.OffsetToVisual(5, Before)
	if line != 0 || x != 50 {
		t.Errorf("Before = %d, %v, want 0, 50", line, x)
	}
	line, x, _ = m.OffsetToVisual(5, After)
	if line != 1 || x != 0 {
		t.Errorf("After = %d, %v, want 1, 0", line, x)
	}
}

func TestOffsetToVisualParagraphs(t *testing.T) {
	m := layout(t, "ab\ncd\n", 0)
	tests := []struct {
		offset   int
		aff      Affinity
		wantLine int
		wantX    float64
	}{
		{2, Before, 0, 20},
		{2, After, 0, 20},
		// A hard break has one position regardless of affinity.
		{3, Before, 1, 0},
		{3, After, 1, 0},
		{6, Before, 2, 0},
	}
	for _, tt := range tests {
		line, x, err := m.OffsetToVisual(tt.offset, tt.aff)
		if err != nil {
			t.Fatal(err)
		}
		if line != tt.wantLine || x != tt.wantX {
			t.Errorf("OffsetToVisual(%d, %v) = %d, %v, want %d, %v", tt.offset, tt.aff, line, x, tt.wantLine, tt.wantX)
		}
	}
}

func TestOffsetToVisualLigature(t *testing.T) {
	text := "xffiy"
	lines := []wrap.Line{{
		Glyphs: []shape.Glyph{
			{Start: 0, End: 1, XAdvance: 10},
			{Start: 1, End: 4, XAdvance: 30, X: 10},
			{Start: 4, End: 5, XAdvance: 10, X: 40},
		},
		End:  5,
		Last: true,
	}}
	m := NewMapper(text, lines)
	for off, want := range []float64{0, 10, 20, 30, 40, 50} {
		if _, x, _ := m.OffsetToVisual(off, After); x != want {
			t.Errorf("offset %d x = %v, want %v", off, x, want)
		}
	}

	// The same cluster right to left.
	for i := range lines[0].Glyphs {
		lines[0].Glyphs[i].Direction = segment.RTL
		lines[0].Glyphs[i].Level = 1
	}
	m = NewMapper(text, lines)
	if _, x, _ := m.OffsetToVisual(2, After); x != 30 {
		t.Errorf("rtl offset 2 x = %v, want 30", x)
	}
}

func TestOffsetErrors(t *testing.T) {
	m := layout(t, "é", 0)
	for _, off := range []int{-1, 1, 3} {
		_, _, err := m.OffsetToVisual(off, After)
		var oe *OffsetError
		if !errors.As(err, &oe) || !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("OffsetToVisual(%d) err = %v, want *OffsetError", off, err)
			continue
		}
		if oe.Offset != off || oe.Len != 2 {
			t.Errorf("OffsetError = %+v", oe)
		}
	}
	if _, err := m.VisualToOffset(1, 0); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("VisualToOffset err = %v, want ErrInvalidLine", err)
	}
}

func TestVisualToOffset(t *testing.T) {
	m := layout(t, "abc שלום def", 0)
	tests := []struct {
		x    float64
		want Cursor
	}{
		{-5, Cursor{Offset: 0, Affinity: After}},
		{14, Cursor{Offset: 1, Affinity: Before}},
		{44, Cursor{Offset: 4, Affinity: Before}},
		{47, Cursor{Offset: 10, Affinity: After}},
		{76, Cursor{Offset: 4, Affinity: After}},
		{1000, Cursor{Offset: 16, Affinity: Before}},
	}
	for _, tt := range tests {
		got, err := m.VisualToOffset(0, tt.x)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("VisualToOffset(0, %v) = %+v, want %+v", tt.x, got, tt.want)
		}
	}
}

func TestStops(t *testing.T) {
	m := layout(t, "ab", 0)
	got, err := m.Stops(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []Stop{
		{0, After, 0}, {1, Before, 10},
		{1, After, 10}, {2, Before, 20},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Stops = %v, want %v", got, want)
	}
}

func TestLineBounds(t *testing.T) {
	m := layout(t, "aaaa bbbb", 45)
	start, end, err := m.LineBounds(0)
	if err != nil {
		t.Fatal(err)
	}
	if start.Offset != 0 || end.Offset != 5 || end.Affinity != Before {
		t.Errorf("line 0 bounds = %+v, %+v", start, end)
	}
	start, end, _ = m.LineBounds(1)
	if start.Offset != 5 || end.Offset != 9 {
		t.Errorf("line 1 bounds = %+v, %+v", start, end)
	}
}

func TestSelectionRects(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		sel      Selection
		want     []Rect
	}{
		{
			name: "empty",
			text: "abc",
			sel:  Selection{Anchor: Cursor{Offset: 1}, Active: Cursor{Offset: 1}},
		},
		{
			name: "single run",
			text: "abcd",
			sel:  Selection{Anchor: Cursor{Offset: 3}, Active: Cursor{Offset: 1}},
			want: []Rect{{Line: 0, MinX: 10, MinY: 0, MaxX: 30, MaxY: 10}},
		},
		{
			name: "split by reordering",
			text: "abc שלום def",
			sel:  Selection{Anchor: Cursor{Offset: 2}, Active: Cursor{Offset: 6}},
			want: []Rect{
				{Line: 0, MinX: 20, MinY: 0, MaxX: 40, MaxY: 10},
				{Line: 0, MinX: 70, MinY: 0, MaxX: 80, MaxY: 10},
			},
		},
		{
			name:     "across lines",
			text:     "aaaa bbbb",
			maxWidth: 45,
			sel:      Selection{Anchor: Cursor{Offset: 2}, Active: Cursor{Offset: 7}},
			want: []Rect{
				{Line: 0, MinX: 20, MinY: 0, MaxX: 50, MaxY: 10},
				{Line: 1, MinX: 0, MinY: 10, MaxX: 20, MaxY: 20},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := layout(t, tt.text, tt.maxWidth)
			got, err := tt.sel.Rects(m)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraphemeNavigation(t *testing.T) {
	text := "e\u0301x\r\ny"
	nexts := []struct{ from, want int }{{0, 3}, {3, 4}, {4, 6}, {6, 7}, {7, 7}}
	for _, tt := range nexts {
		if got := NextGrapheme(text, tt.from); got != tt.want {
			t.Errorf("NextGrapheme(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
	prevs := []struct{ from, want int }{{7, 6}, {6, 4}, {4, 3}, {3, 0}, {0, 0}}
	for _, tt := range prevs {
		if got := PrevGrapheme(text, tt.from); got != tt.want {
			t.Errorf("PrevGrapheme(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
}

func TestAffinityString(t *testing.T) {
	if Before.String() != "Before" || After.String() != "After" || Affinity(9).String() != "Unknown" {
		t.Error("Affinity.String mismatch")
	}
}
