package font

// UnicodeRange represents a contiguous, inclusive range of code points.
type UnicodeRange struct {
	Start rune
	End   rune
}

// Contains reports whether the rune is in the range.
func (ur UnicodeRange) Contains(r rune) bool {
	return r >= ur.Start && r <= ur.End
}

// Common Unicode blocks for range fallbacks.
var (
	RangeBasicLatin   = UnicodeRange{0x0000, 0x007F}
	RangeLatin1Sup    = UnicodeRange{0x0080, 0x00FF}
	RangeLatinExtA    = UnicodeRange{0x0100, 0x017F}
	RangeLatinExtB    = UnicodeRange{0x0180, 0x024F}
	RangeGreek        = UnicodeRange{0x0370, 0x03FF}
	RangeCyrillic     = UnicodeRange{0x0400, 0x04FF}
	RangeHebrew       = UnicodeRange{0x0590, 0x05FF}
	RangeArabic       = UnicodeRange{0x0600, 0x06FF}
	RangeDevanagari   = UnicodeRange{0x0900, 0x097F}
	RangeThai         = UnicodeRange{0x0E00, 0x0E7F}
	RangeBoxDrawing   = UnicodeRange{0x2500, 0x257F}
	RangeBlockElems   = UnicodeRange{0x2580, 0x259F}
	RangeHiragana     = UnicodeRange{0x3040, 0x309F}
	RangeKatakana     = UnicodeRange{0x30A0, 0x30FF}
	RangeCJKUnified   = UnicodeRange{0x4E00, 0x9FFF}
	RangeHangul       = UnicodeRange{0xAC00, 0xD7AF}
	RangePrivateUse   = UnicodeRange{0xE000, 0xF8FF}
	RangeEmojiFlags   = UnicodeRange{0x1F1E0, 0x1F1FF}
	RangeEmojiMisc    = UnicodeRange{0x1F300, 0x1F5FF}
	RangeEmoji        = UnicodeRange{0x1F600, 0x1F64F}
	RangeEmojiSymbols = UnicodeRange{0x1F680, 0x1F6FF}
)

// rangeFallback routes a code point range to a face, optionally only for
// text of a given weight or style.
type rangeFallback struct {
	UnicodeRange
	face   FaceID
	weight *Weight
	style  *Style
}

func (rf rangeFallback) styled() bool {
	return rf.weight != nil || rf.style != nil
}

func (rf rangeFallback) matches(w Weight, s Style) bool {
	if rf.weight != nil && *rf.weight != w {
		return false
	}
	if rf.style != nil && *rf.style != s {
		return false
	}
	return true
}

// AddRangeFallback routes [start, end] to face whenever the requested face
// cannot render a code point in that range.
func (c *Collection) AddRangeFallback(start, end rune, face FaceID) {
	c.AddRangeFallbackWithStyle(start, end, face, nil, nil)
}

// AddRangeFallbackWithStyle is AddRangeFallback restricted to text whose
// weight and style match. Nil constraints match anything. Styled entries are
// preferred over unstyled ones.
func (c *Collection) AddRangeFallbackWithStyle(start, end rune, face FaceID, weight *Weight, style *Style) {
	if end < start {
		start, end = end, start
	}
	c.mu.Lock()
	c.ranges = append(c.ranges, rangeFallback{
		UnicodeRange: UnicodeRange{start, end},
		face:         face,
		weight:       weight,
		style:        style,
	})
	c.mu.Unlock()
}

// AddBlockFallback is AddRangeFallback for one of the Range* blocks.
func (c *Collection) AddBlockFallback(block UnicodeRange, face FaceID) {
	c.AddRangeFallback(block.Start, block.End, face)
}

// RangeFallback returns the first unstyled range fallback containing r.
func (c *Collection) RangeFallback(r rune) (FaceID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rf := range c.ranges {
		if !rf.styled() && rf.Contains(r) {
			return rf.face, true
		}
	}
	return NoFace, false
}

// RangeFallbackWithStyle returns the first range fallback containing r whose
// constraints accept weight and style, preferring styled entries.
func (c *Collection) RangeFallbackWithStyle(r rune, weight Weight, style Style) (FaceID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, styled := range []bool{true, false} {
		for _, rf := range c.ranges {
			if rf.styled() == styled && rf.Contains(r) && rf.matches(weight, style) {
				return rf.face, true
			}
		}
	}
	return NoFace, false
}

// HasRangeFallbacks reports whether any range fallback is registered.
func (c *Collection) HasRangeFallbacks() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ranges) > 0
}
