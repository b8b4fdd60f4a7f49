package shape

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/typeset/attrs"
	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/segment"
)

// testAttrs is 10px text; with a cell catalog of 1em every glyph advances 10.
func testAttrs() attrs.Attrs {
	return attrs.Default().WithSize(10)
}

func ltr(text string) segment.Run {
	return segment.Run{Start: 0, End: len(text), Direction: segment.LTR}
}

// coverCatalog is a catalog of faces covering fixed rune sets. Every glyph
// is one em wide.
type coverCatalog []func(rune) bool

func (c coverCatalog) Match(font.Query) (font.FaceID, bool) { return 1, len(c) > 0 }

func (c coverCatalog) FallbackAfter(face font.FaceID, r rune) (font.FaceID, bool) {
	for i, cover := range c {
		id := font.FaceID(i + 1)
		if id != face && cover(r) {
			return id, true
		}
	}
	return font.NoFace, false
}

func (c coverCatalog) Metrics(font.FaceID) font.Metrics {
	return font.Metrics{Ascent: 800, Descent: 200, UnitsPerEm: 1000}
}

func (c coverCatalog) Glyph(face font.FaceID, r rune) (font.GlyphID, bool) {
	if int(face) < 1 || int(face) > len(c) || !c[face-1](r) {
		return font.NotDef, false
	}
	return font.GlyphID(r), true
}

func (c coverCatalog) Advance(font.FaceID, font.GlyphID) float64 { return 1000 }

func letters(r rune) bool { return r >= 'a' && r <= 'z' || r == ' ' || r == '\u0301' }
func digits(r rune) bool  { return r >= '0' && r <= '9' || r == '\u0301' }

func TestStrategy(t *testing.T) {
	if Basic.String() != "Basic" || Advanced.String() != "Advanced" || Strategy(7).String() != "Unknown" {
		t.Error("Strategy.String mismatch")
	}
	s := New(font.NewCellCatalog(1))
	_, err := s.Shape("abc", ltr("abc"), testAttrs(), Strategy(7))
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("err = %v, want ErrUnknownStrategy", err)
	}
}

func TestShapeBasicCells(t *testing.T) {
	s := New(font.NewCellCatalog(1))
	text := "hello world"
	glyphs, err := s.Shape(text, ltr(text), testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	if len(glyphs) != 11 {
		t.Fatalf("len = %d, want 11", len(glyphs))
	}
	for i, g := range glyphs {
		if g.Start != i || g.End != i+1 {
			t.Errorf("glyph %d range = [%d, %d)", i, g.Start, g.End)
		}
		if g.XAdvance != 10 {
			t.Errorf("glyph %d advance = %v, want 10", i, g.XAdvance)
		}
		if g.ID != font.GlyphID(text[i]) {
			t.Errorf("glyph %d id = %d, want %d", i, g.ID, text[i])
		}
		if got, want := g.Flags.Has(Whitespace), text[i] == ' '; got != want {
			t.Errorf("glyph %d whitespace = %v, want %v", i, got, want)
		}
	}
	if g := glyphs[0]; g.Ascent != 8 || g.Descent != 2 || g.Size != 10 {
		t.Errorf("metrics = %v/%v size %v", g.Ascent, g.Descent, g.Size)
	}
}

func TestShapeOffsetsAndAttrs(t *testing.T) {
	s := New(font.NewCellCatalog(1))
	text := "xxשל"
	a := testAttrs().WithMetadata(42)
	run := segment.Run{Start: 2, End: len(text), Level: 1, Direction: segment.RTL}
	glyphs, err := s.Shape(text, run, a, Basic)
	if err != nil {
		t.Fatal(err)
	}
	if len(glyphs) != 2 {
		t.Fatalf("len = %d, want 2", len(glyphs))
	}
	if glyphs[0].Start != 2 || glyphs[1].Start != 4 || glyphs[1].End != 6 {
		t.Errorf("ranges = %+v", glyphs)
	}
	for _, g := range glyphs {
		if g.Level != 1 || !g.IsRTL() || g.Metadata != 42 {
			t.Errorf("glyph = %+v", g)
		}
	}
}

func TestShapeTabsAndControls(t *testing.T) {
	s := New(font.NewCellCatalog(1), WithTabWidth(4))
	text := "a\tb\u200fc"
	glyphs, err := s.Shape(text, ltr(text), testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		adv   float64
		flags Flags
	}{
		{10, 0},
		{40, Whitespace},
		{10, 0},
		{0, Ignorable},
		{10, 0},
	}
	if len(glyphs) != len(want) {
		t.Fatalf("len = %d, want %d", len(glyphs), len(want))
	}
	for i, w := range want {
		if glyphs[i].XAdvance != w.adv || glyphs[i].Flags != w.flags {
			t.Errorf("glyph %d = adv %v flags %b, want %v %b", i, glyphs[i].XAdvance, glyphs[i].Flags, w.adv, w.flags)
		}
	}
}

func TestShapeLetterSpacing(t *testing.T) {
	s := New(font.NewCellCatalog(1))
	a := testAttrs()
	a.LetterSpacing = 2
	glyphs, err := s.Shape("ab", ltr("ab"), a, Basic)
	if err != nil {
		t.Fatal(err)
	}
	if w := Width(glyphs); w != 24 {
		t.Errorf("width = %v, want 24", w)
	}
}

func TestShapeFallback(t *testing.T) {
	s := New(coverCatalog{letters, digits})
	text := "ab1\u0301c"
	glyphs, err := s.Shape(text, ltr(text), testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	wantFaces := []font.FaceID{1, 1, 2, 2, 1}
	if len(glyphs) != len(wantFaces) {
		t.Fatalf("len = %d, want %d", len(glyphs), len(wantFaces))
	}
	for i, f := range wantFaces {
		if glyphs[i].Face != f {
			t.Errorf("glyph %d face = %d, want %d", i, glyphs[i].Face, f)
		}
	}
}

func TestShapeMissing(t *testing.T) {
	s := New(coverCatalog{letters})
	text := "a#b"
	glyphs, err := s.Shape(text, ltr(text), testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	if len(glyphs) != 3 {
		t.Fatalf("len = %d, want 3", len(glyphs))
	}
	g := glyphs[1]
	if !g.Flags.Has(Missing) || g.ID != font.NotDef || g.Face != 1 || g.XAdvance != 10 {
		t.Errorf("missing glyph = %+v", g)
	}
}

func TestShapeNoUsableFont(t *testing.T) {
	s := New(font.NewCollection())
	_, err := s.Shape("a", ltr("a"), testAttrs(), Basic)
	if !errors.Is(err, font.ErrNoUsableFont) {
		t.Errorf("err = %v, want ErrNoUsableFont", err)
	}
}

func TestShapeEmptyRun(t *testing.T) {
	s := New(font.NewCellCatalog(1))
	glyphs, err := s.Shape("abc", segment.Run{Start: 1, End: 1}, testAttrs(), Basic)
	if err != nil || glyphs != nil {
		t.Errorf("Shape(empty) = %v, %v", glyphs, err)
	}
	if _, err := s.Shape("abc", segment.Run{Start: 2, End: 9}, testAttrs(), Basic); err == nil {
		t.Error("Shape accepted a run past the text")
	}
}

func TestRunCache(t *testing.T) {
	rc := NewRunCache(4)
	s := New(font.NewCellCatalog(1), WithRunCache(rc))
	text := "ab ab"
	first, err := s.Shape(text, segment.Run{Start: 0, End: 2}, testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Shape(text, segment.Run{Start: 3, End: 5}, testAttrs().WithMetadata(9), Basic)
	if err != nil {
		t.Fatal(err)
	}
	st := rc.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Len != 1 {
		t.Errorf("Stats = %+v, want 1 hit, 1 miss, 1 entry", st)
	}
	if second[0].Start != 3 || second[1].End != 5 || second[0].Metadata != 9 {
		t.Errorf("cached glyphs = %+v", second)
	}
	if first[0].Start != 0 || first[0].Metadata != 0 {
		t.Errorf("first glyphs changed: %+v", first)
	}
	if st.HitRate() != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", st.HitRate())
	}
}

func TestItemize(t *testing.T) {
	bold := attrs.Default().WithWeight(font.WeightBold)
	runs := []segment.Run{
		{Start: 0, End: 4},
		{Start: 4, End: 12, Level: 1, Direction: segment.RTL},
		{Start: 12, End: 16},
	}
	spans := []attrs.Span{
		{Start: 0, End: 6, Attrs: attrs.Default()},
		{Start: 6, End: 16, Attrs: bold},
	}
	got := Itemize(runs, spans)
	want := []struct {
		start, end int
		bold       bool
		dir        segment.Direction
	}{
		{0, 4, false, segment.LTR},
		{4, 6, false, segment.RTL},
		{6, 12, true, segment.RTL},
		{12, 16, true, segment.LTR},
	}
	if len(got) != len(want) {
		t.Fatalf("Itemize = %+v", got)
	}
	for i, w := range want {
		g := got[i]
		if g.Run.Start != w.start || g.Run.End != w.end || (g.Attrs == bold) != w.bold || g.Run.Direction != w.dir {
			t.Errorf("item %d = %+v", i, g)
		}
	}
}

func TestResolveScripts(t *testing.T) {
	tests := []struct {
		text string
		want []language.Script
	}{
		{"a 1", []language.Script{language.Latin, language.Latin, language.Latin}},
		{"א b", []language.Script{language.Hebrew, language.Hebrew, language.Latin}},
		{" b", []language.Script{language.Latin, language.Latin}},
		{"e\u0301", []language.Script{language.Latin, language.Latin}},
		{"12", []language.Script{language.Common, language.Common}},
	}
	for _, tt := range tests {
		got := detectScripts([]rune(tt.text))
		if !slices.Equal(got, tt.want) {
			t.Errorf("detectScripts(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func goFonts(t testing.TB) *font.Collection {
	t.Helper()
	c := font.NewCollection()
	if err := c.AddGoFonts(); err != nil {
		t.Fatalf("AddGoFonts: %v", err)
	}
	return c
}

func TestShapeHarfBuzzGoFonts(t *testing.T) {
	s := New(goFonts(t))
	for _, dir := range []segment.Direction{segment.LTR, segment.RTL} {
		t.Run(dir.String(), func(t *testing.T) {
			text := "Hello, world"
			run := segment.Run{Start: 0, End: len(text), Direction: dir}
			glyphs, err := s.Shape(text, run, testAttrs(), Advanced)
			if err != nil {
				t.Fatalf("Shape: %v", err)
			}
			if len(glyphs) == 0 {
				t.Fatal("no glyphs")
			}
			prev := -1
			for i, g := range glyphs {
				if g.Flags.Has(Missing) {
					t.Errorf("glyph %d missing", i)
				}
				if g.XAdvance <= 0 {
					t.Errorf("glyph %d advance = %v, want > 0", i, g.XAdvance)
				}
				if g.Start < prev {
					t.Errorf("glyph %d start = %d after %d", i, g.Start, prev)
				}
				prev = g.Start
			}
			if glyphs[len(glyphs)-1].End != len(text) {
				t.Errorf("last end = %d, want %d", glyphs[len(glyphs)-1].End, len(text))
			}
		})
	}
}

func TestFixedConversion(t *testing.T) {
	if got := floatToFixed(1.5); got != 96 {
		t.Errorf("floatToFixed(1.5) = %v, want 96", got)
	}
	if got := fixedToFloat(96); got != 1.5 {
		t.Errorf("fixedToFloat(96) = %v, want 1.5", got)
	}
}

func TestOracleGlyphAxis(t *testing.T) {
	g := shaping.Glyph{GlyphID: 7, ClusterIndex: 2, Advance: 640, XOffset: 32, YOffset: -64}
	tests := []struct {
		name     string
		vertical bool
		want     OracleGlyph
	}{
		{"horizontal", false, OracleGlyph{ID: 7, Cluster: 2, RuneCount: 1, XAdvance: 10, XOffset: 0.5, YOffset: -1}},
		{"vertical", true, OracleGlyph{ID: 7, Cluster: 2, RuneCount: 1, YAdvance: 10, XOffset: 0.5, YOffset: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oracleGlyph(g, tt.vertical); got != tt.want {
				t.Errorf("oracleGlyph = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func benchmarkShape(b *testing.B, cat font.Catalog, strategy Strategy) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	s := New(cat)
	b.ResetTimer()
	for range b.N {
		if _, err := s.Shape(text, ltr(text), testAttrs(), strategy); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShapeBasic(b *testing.B) {
	benchmarkShape(b, font.NewCellCatalog(1), Basic)
}

func BenchmarkShapeAdvanced(b *testing.B) {
	benchmarkShape(b, goFonts(b), Advanced)
}

// wordCatalog records the words fallback lookups are asked about.
type wordCatalog struct {
	coverCatalog
	words []string
}

func (c *wordCatalog) FallbackInWord(face font.FaceID, r rune, word []rune) (font.FaceID, bool) {
	c.words = append(c.words, string(word))
	return c.FallbackAfter(face, r)
}

func TestShapeFallbackSeesWord(t *testing.T) {
	cat := &wordCatalog{coverCatalog: coverCatalog{letters, digits}}
	text := "ab 12x 3"
	glyphs, err := New(cat).Shape(text, ltr(text), testAttrs(), Basic)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"12x", "12x", "3"}; !slices.Equal(cat.words, want) {
		t.Errorf("fallback words = %q, want %q", cat.words, want)
	}
	for _, g := range glyphs {
		want := font.FaceID(1)
		if c := text[g.Start]; c >= '0' && c <= '9' {
			want = 2
		}
		if g.Face != want {
			t.Errorf("glyph at %d face = %d, want %d", g.Start, g.Face, want)
		}
	}
}
