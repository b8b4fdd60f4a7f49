package shape

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/go-text/typesetting/language"

	"github.com/gogpu/typeset/font"
	"github.com/gogpu/typeset/internal/cache"
	"github.com/gogpu/typeset/internal/logging"
	"github.com/gogpu/typeset/segment"
)

// DefaultRunCacheCapacity is the default number of entries per shard.
const DefaultRunCacheCapacity = 256

// RunKey identifies a shaped run. Every input that changes the glyphs
// must be part of it; color and metadata are applied after lookup.
type RunKey struct {
	TextHash      uint64
	Face          font.FaceID
	SizeBits      uint64
	Direction     segment.Direction
	Script        language.Script
	Language      language.Language
	Strategy      Strategy
	TabWidth      int
	LetterSpacing uint64
}

// hash returns the FNV-1a hash of every key field.
func (k RunKey) hash() uint64 {
	var buf [8 + 4 + 8 + 1 + 4 + 1 + 4 + 8]byte
	binary.LittleEndian.PutUint64(buf[0:], k.TextHash)
	binary.LittleEndian.PutUint32(buf[8:], uint32(k.Face))
	binary.LittleEndian.PutUint64(buf[12:], k.SizeBits)
	buf[20] = byte(k.Direction)
	binary.LittleEndian.PutUint32(buf[21:], uint32(k.Script))
	buf[25] = byte(k.Strategy)
	binary.LittleEndian.PutUint32(buf[26:], uint32(k.TabWidth)) //nolint:gosec // tab width is small
	binary.LittleEndian.PutUint64(buf[30:], k.LetterSpacing)

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(k.Language))
	return h.Sum64()
}

// hashString computes the FNV-1a hash of s.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func newRunKey(text string, face font.FaceID, size float64, dir segment.Direction,
	script language.Script, lang language.Language, strategy Strategy, tab int, spacing float64) RunKey {
	return RunKey{
		TextHash:      hashString(text),
		Face:          face,
		SizeBits:      math.Float64bits(size),
		Direction:     dir,
		Script:        script,
		Language:      lang,
		Strategy:      strategy,
		TabWidth:      tab,
		LetterSpacing: math.Float64bits(spacing),
	}
}

// CacheStats is a snapshot of RunCache counters.
type CacheStats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// RunCache is a sharded LRU of shaped runs. Cached glyph offsets are
// relative to the run start.
//
// RunCache is safe for concurrent use. Keys do not identify the catalog, so
// a cache may only be shared between shapers of one catalog.
type RunCache struct {
	c *cache.Sharded[RunKey, []Glyph]
}

// NewRunCache creates a cache holding up to perShard entries in each of
// its shards. Non-positive values use DefaultRunCacheCapacity.
func NewRunCache(perShard int) *RunCache {
	if perShard <= 0 {
		perShard = DefaultRunCacheCapacity
	}
	c := cache.NewSharded[RunKey, []Glyph](perShard, RunKey.hash)
	c.OnEvict(func(k RunKey, _ []Glyph) {
		logging.L().Debug("shape: run cache eviction", "face", k.Face, "strategy", k.Strategy)
	})
	return &RunCache{c: c}
}

func (rc *RunCache) get(k RunKey) ([]Glyph, bool) { return rc.c.Get(k) }

func (rc *RunCache) put(k RunKey, glyphs []Glyph) { rc.c.Set(k, glyphs) }

// Len returns the number of cached runs.
func (rc *RunCache) Len() int { return rc.c.Len() }

// Clear removes every entry.
func (rc *RunCache) Clear() { rc.c.Clear() }

// Stats returns hit and miss counters.
func (rc *RunCache) Stats() CacheStats {
	s := rc.c.Stats()
	return CacheStats{Len: s.Len, Hits: s.Hits, Misses: s.Misses}
}
