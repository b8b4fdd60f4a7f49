package font

import (
	"slices"
	"sync"
)

// Coverage cache limits. Hits are cheap to re-derive from the cmap, so the
// supported list is the smaller one.
const (
	supportedMax    = 512
	notSupportedMax = 1024
)

// coverage memoizes cmap lookups for one face in two sorted, bounded lists.
// Entries past the limit are dropped from the high end.
type coverage struct {
	mu           sync.Mutex
	supported    []rune
	notSupported []rune
}

// has reports whether lookup(r) is true, consulting the cache first.
func (c *coverage) has(r rune, lookup func(rune) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	si, ok := slices.BinarySearch(c.supported, r)
	if ok {
		return true
	}
	ni, ok := slices.BinarySearch(c.notSupported, r)
	if ok {
		return false
	}

	found := lookup(r)
	if found {
		if si < supportedMax {
			c.supported = slices.Insert(c.supported, si, r)
			if len(c.supported) > supportedMax {
				c.supported = c.supported[:supportedMax]
			}
		}
	} else if ni < notSupportedMax {
		c.notSupported = slices.Insert(c.notSupported, ni, r)
		if len(c.notSupported) > notSupportedMax {
			c.notSupported = c.notSupported[:notSupportedMax]
		}
	}
	return found
}

// size returns the cached entry counts.
func (c *coverage) size() (supported, notSupported int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.supported), len(c.notSupported)
}
