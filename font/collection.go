package font

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/maps/treemap"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"

	"github.com/gogpu/typeset/internal/cache"
	"github.com/gogpu/typeset/internal/logging"
)

// Generic family names resolved through aliases.
const (
	SansSerif = "sans-serif"
	Serif     = "serif"
	Monospace = "monospace"
)

// face is one registered face. The go-text face keeps glyph caches and is
// guarded by mu; the cmap lookups behind coverage only read the font.
type face struct {
	id       FaceID
	desc     Description
	metrics  Metrics
	mu       sync.Mutex
	gt       *gotext.Face
	coverage coverage
}

func (f *face) has(r rune) bool {
	return f.coverage.has(r, func(r rune) bool {
		_, ok := f.gt.Font.NominalGlyph(r)
		return ok
	})
}

// supportedIn counts the runes of word the face covers.
func (f *face) supportedIn(word []rune) int {
	n := 0
	for _, r := range word {
		if f.has(r) {
			n++
		}
	}
	return n
}

type matchKey struct {
	q   Query
	gen uint64
}

// Collection is a Catalog of OpenType faces parsed with go-text.
//
// Collection is safe for concurrent use.
type Collection struct {
	mu            sync.RWMutex
	faces         []*face
	families      *treemap.Map // case-folded family -> []FaceID
	aliases       map[string]string
	defaultFamily string
	ranges        []rangeFallback
	locale        string

	// monoScripts lists, per script, the monospaced faces whose cmap
	// covers it, in id order.
	monoScripts map[language.Script][]FaceID

	gen     atomic.Uint64
	matches *cache.Cache[matchKey, []FaceID]
}

var (
	_ Catalog      = (*Collection)(nil)
	_ GoTextSource = (*Collection)(nil)
	_ Localer      = (*Collection)(nil)

	_ WordFallbacker = (*Collection)(nil)
)

// NewCollection creates an empty collection.
func NewCollection(opts ...CollectionOption) *Collection {
	cfg := defaultCollectionConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := &Collection{
		families:      treemap.NewWithStringComparator(),
		aliases:       make(map[string]string),
		monoScripts:   make(map[language.Script][]FaceID),
		defaultFamily: foldFamily(cfg.defaultFamily),
		locale:        cfg.locale,
		matches:       cache.New[matchKey, []FaceID](cfg.matchCacheSize),
	}
	c.matches.OnEvict(func(k matchKey, _ []FaceID) {
		logging.L().Debug("font: match cache eviction", "family", k.q.Family)
	})
	return c
}

func foldFamily(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddFace parses a single OpenType font and registers it.
func (c *Collection) AddFace(data []byte, opts ...FaceOption) (FaceID, error) {
	if len(data) == 0 {
		return NoFace, ErrEmptyFontData
	}
	gt, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return NoFace, &ParseError{Err: err}
	}
	return c.register(gt, opts), nil
}

// AddCollection parses a font file that may hold several faces (.ttc) and
// registers all of them.
func (c *Collection) AddCollection(data []byte, opts ...FaceOption) ([]FaceID, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	gts, err := gotext.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	ids := make([]FaceID, 0, len(gts))
	for _, gt := range gts {
		ids = append(ids, c.register(gt, opts))
	}
	return ids, nil
}

func (c *Collection) register(gt *gotext.Face, opts []FaceOption) FaceID {
	d := gt.Font.Describe()
	desc := Description{
		Family:    d.Family,
		Weight:    weightFromGoText(d.Aspect.Weight),
		Style:     styleFromGoText(d.Aspect.Style),
		Monospace: gt.Font.IsMonospace(),
	}
	for _, o := range opts {
		o(&desc)
	}
	var scripts []language.Script
	if desc.Monospace {
		scripts = cmapScripts(gt)
	}

	c.mu.Lock()
	id := FaceID(len(c.faces) + 1)
	c.faces = append(c.faces, &face{
		id:      id,
		desc:    desc,
		metrics: metricsOf(gt),
		gt:      gt,
	})
	key := foldFamily(desc.Family)
	var ids []FaceID
	if v, ok := c.families.Get(key); ok {
		ids = v.([]FaceID)
	}
	c.families.Put(key, append(ids, id))
	for _, sc := range scripts {
		c.monoScripts[sc] = append(c.monoScripts[sc], id)
	}
	c.mu.Unlock()

	c.gen.Add(1)
	logging.L().Debug("font: face added",
		"id", id, "family", desc.Family, "weight", desc.Weight,
		"style", desc.Style, "monospace", desc.Monospace)
	return id
}

// cmapScripts returns the scripts with at least one code point in the
// face's cmap, ignoring Common and Inherited.
func cmapScripts(gt *gotext.Face) []language.Script {
	seen := make(map[language.Script]struct{})
	it := gt.Font.Cmap.Iter()
	for it.Next() {
		r, _ := it.Char()
		switch sc := language.LookupScript(r); sc {
		case language.Common, language.Inherited, language.Unknown:
		default:
			seen[sc] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func metricsOf(gt *gotext.Face) Metrics {
	upem := int(gt.Font.Upem())
	if upem == 0 {
		upem = 1000
	}
	m := Metrics{UnitsPerEm: upem}
	if ext, ok := gt.FontHExtents(); ok {
		m.Ascent = float64(ext.Ascender)
		m.Descent = float64(-ext.Descender)
		m.LineGap = float64(ext.LineGap)
	} else {
		m.Ascent = 0.8 * float64(upem)
		m.Descent = 0.2 * float64(upem)
	}
	if m.Descent < 0 {
		m.Descent = -m.Descent
	}
	return m
}

func weightFromGoText(w gotext.Weight) Weight {
	if w <= 0 {
		return WeightNormal
	}
	return Weight(w + 0.5)
}

func styleFromGoText(s gotext.Style) Style {
	if s == gotext.StyleItalic {
		return StyleItalic
	}
	return StyleNormal
}

// SetAlias maps a generic family name (sans-serif, serif, monospace, or any
// other) to a concrete family.
func (c *Collection) SetAlias(generic, family string) {
	c.mu.Lock()
	c.aliases[foldFamily(generic)] = foldFamily(family)
	c.mu.Unlock()
	c.gen.Add(1)
}

// SetDefaultFamily sets the family used for unknown family names.
func (c *Collection) SetDefaultFamily(family string) {
	c.mu.Lock()
	c.defaultFamily = foldFamily(family)
	c.mu.Unlock()
	c.gen.Add(1)
}

// Locale returns the collection locale, such as "en-US".
func (c *Collection) Locale() string { return c.locale }

// Len returns the number of registered faces.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.faces)
}

// Faces returns all face ids in registration order.
func (c *Collection) Faces() []FaceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]FaceID, len(c.faces))
	for i, f := range c.faces {
		ids[i] = f.id
	}
	return ids
}

// Families returns the case-folded family names in sorted order.
func (c *Collection) Families() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := c.families.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// Describe returns the metadata of a face.
func (c *Collection) Describe(id FaceID) (Description, error) {
	f := c.face(id)
	if f == nil {
		return Description{}, fmt.Errorf("%w: %d", ErrUnknownFace, id)
	}
	return f.desc, nil
}

// IsMonospace reports whether the face is monospaced.
func (c *Collection) IsMonospace(id FaceID) bool {
	f := c.face(id)
	return f != nil && f.desc.Monospace
}

// MonospaceFaces returns the monospaced faces in registration order.
func (c *Collection) MonospaceFaces() []FaceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []FaceID
	for _, f := range c.faces {
		if f.desc.Monospace {
			ids = append(ids, f.id)
		}
	}
	return ids
}

// MonospaceFacesForScripts returns the monospaced faces covering any of
// scripts, sorted and without duplicates.
func (c *Collection) MonospaceFacesForScripts(scripts ...language.Script) []FaceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []FaceID
	for _, sc := range scripts {
		ids = append(ids, c.monoScripts[sc]...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// SupportedInWord returns how many runes of word the face covers. It
// returns false for an unknown face.
func (c *Collection) SupportedInWord(id FaceID, word string) (int, bool) {
	f := c.face(id)
	if f == nil {
		return 0, false
	}
	return f.supportedIn([]rune(word)), true
}

func (c *Collection) face(id FaceID) *face {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.faceLocked(id)
}

func (c *Collection) faceLocked(id FaceID) *face {
	if id == NoFace || int(id) > len(c.faces) {
		return nil
	}
	return c.faces[id-1]
}

// Match implements Catalog.
func (c *Collection) Match(q Query) (FaceID, bool) {
	ids := c.Matches(q)
	if len(ids) == 0 {
		return NoFace, false
	}
	return ids[0], true
}

// Matches returns every candidate for q, best first. Results are memoized
// until the collection changes.
func (c *Collection) Matches(q Query) []FaceID {
	key := matchKey{q: q.normalized(), gen: c.gen.Load()}
	if ids, ok := c.matches.Get(key); ok {
		return slices.Clone(ids)
	}
	ids := c.computeMatches(key.q)
	c.matches.Set(key, ids)
	return slices.Clone(ids)
}

func (c *Collection) computeMatches(q Query) []FaceID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cands := c.familyFaces(q.Family)
	if len(cands) == 0 {
		return nil
	}

	// Prefer the requested style, then its closest substitute.
	for _, want := range styleOrder(q.Style) {
		var same []*face
		for _, f := range cands {
			if f.desc.Style == want {
				same = append(same, f)
			}
		}
		if len(same) > 0 {
			cands = same
			break
		}
	}

	slices.SortStableFunc(cands, func(a, b *face) int {
		return cmp.Or(
			cmp.Compare(a.desc.Weight.distance(q.Weight), b.desc.Weight.distance(q.Weight)),
			cmp.Compare(a.desc.Weight, b.desc.Weight),
			cmp.Compare(a.id, b.id),
		)
	})
	ids := make([]FaceID, len(cands))
	for i, f := range cands {
		ids[i] = f.id
	}
	return ids
}

func styleOrder(s Style) []Style {
	switch s {
	case StyleItalic:
		return []Style{StyleItalic, StyleOblique, StyleNormal}
	case StyleOblique:
		return []Style{StyleOblique, StyleItalic, StyleNormal}
	default:
		return []Style{StyleNormal, StyleOblique, StyleItalic}
	}
}

// familyFaces resolves a family name through aliases, exact and prefix
// lookup, then the default family, then every face. Caller holds c.mu.
func (c *Collection) familyFaces(name string) []*face {
	key := foldFamily(name)
	if alias, ok := c.aliases[key]; ok {
		key = alias
	}
	for _, k := range []string{key, c.defaultFamily} {
		if k == "" {
			continue
		}
		if v, ok := c.families.Get(k); ok {
			return c.facesOf(v.([]FaceID))
		}
		if fk, v := c.families.Ceiling(k); fk != nil && strings.HasPrefix(fk.(string), k) {
			return c.facesOf(v.([]FaceID))
		}
	}
	return slices.Clone(c.faces)
}

func (c *Collection) facesOf(ids []FaceID) []*face {
	out := make([]*face, 0, len(ids))
	for _, id := range ids {
		if f := c.faceLocked(id); f != nil {
			out = append(out, f)
		}
	}
	return out
}

// FallbackAfter implements Catalog. Candidates are tried in this order:
// range fallbacks constrained to the weight and style of face, unconstrained
// range fallbacks, proportional faces, then monospaced faces.
func (c *Collection) FallbackAfter(id FaceID, r rune) (FaceID, bool) {
	return c.FallbackInWord(id, r, nil)
}

// FallbackInWord implements WordFallbacker. It tries candidates in the
// order of FallbackAfter, except that monospaced faces indexed for the
// script of r come first among the monospaced ones, followed by those
// covering more of word.
func (c *Collection) FallbackInWord(id FaceID, r rune, word []rune) (FaceID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w, s := WeightNormal, StyleNormal
	if f := c.faceLocked(id); f != nil {
		w, s = f.desc.Weight, f.desc.Style
	}
	try := func(cand FaceID) bool {
		if cand == id {
			return false
		}
		f := c.faceLocked(cand)
		return f != nil && f.has(r)
	}

	for _, styled := range []bool{true, false} {
		for _, rf := range c.ranges {
			if rf.styled() == styled && rf.Contains(r) && rf.matches(w, s) && try(rf.face) {
				return rf.face, true
			}
		}
	}
	var mono []*face
	for _, f := range c.faces {
		if f.desc.Monospace {
			mono = append(mono, f)
		} else if try(f.id) {
			return f.id, true
		}
	}
	c.rankMonospace(mono, language.LookupScript(r), word)
	for _, f := range mono {
		if try(f.id) {
			return f.id, true
		}
	}
	return NoFace, false
}

// rankMonospace orders monospaced candidates: faces indexed for script
// first, then by descending coverage of word, then by id. Caller holds
// c.mu.
func (c *Collection) rankMonospace(cands []*face, script language.Script, word []rune) {
	if len(cands) < 2 {
		return
	}
	indexed := c.monoScripts[script]
	in := make(map[FaceID]int, len(cands))
	covered := make(map[FaceID]int, len(cands))
	for _, f := range cands {
		if _, ok := slices.BinarySearch(indexed, f.id); ok {
			in[f.id] = 1
		}
		if len(word) > 0 {
			covered[f.id] = f.supportedIn(word)
		}
	}
	slices.SortStableFunc(cands, func(a, b *face) int {
		return cmp.Or(
			cmp.Compare(in[b.id], in[a.id]),
			cmp.Compare(covered[b.id], covered[a.id]),
			cmp.Compare(a.id, b.id),
		)
	})
}

// Metrics implements Catalog.
func (c *Collection) Metrics(id FaceID) Metrics {
	if f := c.face(id); f != nil {
		return f.metrics
	}
	return Metrics{}
}

// Glyph implements Catalog.
func (c *Collection) Glyph(id FaceID, r rune) (GlyphID, bool) {
	f := c.face(id)
	if f == nil || !f.has(r) {
		return NotDef, false
	}
	gid, ok := f.gt.Font.NominalGlyph(r)
	return GlyphID(gid), ok
}

// Advance implements Catalog.
func (c *Collection) Advance(id FaceID, gid GlyphID) float64 {
	f := c.face(id)
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return float64(f.gt.HorizontalAdvance(gotext.GID(gid)))
}

// UseGoTextFace implements GoTextSource.
func (c *Collection) UseGoTextFace(id FaceID, fn func(*gotext.Face)) bool {
	f := c.face(id)
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.gt)
	return true
}
