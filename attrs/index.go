package attrs

import (
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// entry is the tree value; the span start is the tree key.
type entry struct {
	end   int
	attrs Attrs
}

// Index is an ordered partition of a text into styled spans, stored in a
// red-black tree keyed by span start.
//
// Index is not safe for concurrent use.
type Index struct {
	tree     *redblacktree.Tree
	length   int
	defaults Attrs
}

// NewIndex returns an index covering length bytes with a single span of
// defaults.
func NewIndex(length int, defaults Attrs) *Index {
	idx := &Index{
		tree:     redblacktree.NewWithIntComparator(),
		defaults: defaults,
	}
	idx.Reset(length)
	return idx
}

// Reset discards all spans and covers length bytes with the defaults.
func (idx *Index) Reset(length int) {
	if length < 0 {
		length = 0
	}
	idx.tree.Clear()
	idx.length = length
	if length > 0 {
		idx.tree.Put(0, &entry{end: length, attrs: idx.defaults})
	}
}

// Len returns the indexed text length in bytes.
func (idx *Index) Len() int { return idx.length }

// Defaults returns the attributes used for new text in an empty index.
func (idx *Index) Defaults() Attrs { return idx.defaults }

// SetDefaults replaces the defaults. Spans that carry the old defaults are
// updated too.
func (idx *Index) SetDefaults(a Attrs) {
	old := idx.defaults
	idx.defaults = a
	spans := idx.Spans()
	for i := range spans {
		if spans[i].Attrs == old {
			spans[i].Attrs = a
		}
	}
	idx.rebuild(spans)
}

// At returns the attributes at offset. At(Len()) returns the attributes of
// the last span, and an empty index returns the defaults.
func (idx *Index) At(offset int) (Attrs, error) {
	if offset < 0 || offset > idx.length {
		return Attrs{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, offset, idx.length)
	}
	if idx.length == 0 {
		return idx.defaults, nil
	}
	if offset == idx.length {
		offset--
	}
	node, _ := idx.tree.Floor(offset)
	return node.Value.(*entry).attrs, nil
}

// SpanAt returns the span containing offset, with the same rules as At.
func (idx *Index) SpanAt(offset int) (Span, error) {
	if offset < 0 || offset > idx.length {
		return Span{}, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, offset, idx.length)
	}
	if idx.length == 0 {
		return Span{Attrs: idx.defaults}, nil
	}
	if offset == idx.length {
		offset--
	}
	node, _ := idx.tree.Floor(offset)
	e := node.Value.(*entry)
	return Span{Start: node.Key.(int), End: e.end, Attrs: e.attrs}, nil
}

// SplitAt splits the span containing offset into two spans with identical
// attributes. Splitting at a span boundary is a no-op.
//
// Spans produced by SplitAt survive until the next Set, Insert or Remove
// merges them again.
func (idx *Index) SplitAt(offset int) error {
	if offset < 0 || offset > idx.length {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, offset, idx.length)
	}
	idx.split(offset)
	return nil
}

func (idx *Index) split(offset int) {
	if offset <= 0 || offset >= idx.length {
		return
	}
	node, ok := idx.tree.Floor(offset)
	if !ok || node.Key.(int) == offset {
		return
	}
	e := node.Value.(*entry)
	idx.tree.Put(offset, &entry{end: e.end, attrs: e.attrs})
	e.end = offset
}

// Set applies a to [start, end), overwriting the intersecting parts of
// existing spans and merging with equal neighbours.
func (idx *Index) Set(start, end int, a Attrs) error {
	if start == end {
		return ErrEmptyRange
	}
	if start < 0 || end > idx.length || start > end {
		return fmt.Errorf("%w: [%d, %d) not in [0, %d)", ErrOutOfRange, start, end, idx.length)
	}

	idx.split(start)
	idx.split(end)
	for _, k := range idx.keysIn(start, end) {
		idx.tree.Remove(k)
	}
	idx.tree.Put(start, &entry{end: end, attrs: a})

	// Merge right, then left.
	if node, ok := idx.tree.Get(end); ok {
		if r := node.(*entry); r.attrs == a {
			idx.tree.Remove(end)
			end = r.end
			idx.tree.Put(start, &entry{end: end, attrs: a})
		}
	}
	if start > 0 {
		if node, ok := idx.tree.Floor(start - 1); ok {
			if l := node.Value.(*entry); l.attrs == a {
				idx.tree.Remove(start)
				l.end = end
			}
		}
	}
	return nil
}

// keysIn returns the span starts in [start, end).
func (idx *Index) keysIn(start, end int) []int {
	var keys []int
	for node, ok := idx.tree.Ceiling(start); ok; node, ok = idx.tree.Ceiling(node.Key.(int) + 1) {
		k := node.Key.(int)
		if k >= end {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

// Spans returns all spans in order.
func (idx *Index) Spans() []Span {
	spans := make([]Span, 0, idx.tree.Size())
	it := idx.tree.Iterator()
	for it.Next() {
		e := it.Value().(*entry)
		spans = append(spans, Span{Start: it.Key().(int), End: e.end, Attrs: e.attrs})
	}
	return spans
}

// Intersecting returns the spans overlapping [start, end), clipped to it.
func (idx *Index) Intersecting(start, end int) []Span {
	start, end = max(start, 0), min(end, idx.length)
	if start >= end {
		return nil
	}
	var out []Span
	node, ok := idx.tree.Floor(start)
	for ok {
		s, e := node.Key.(int), node.Value.(*entry)
		if s >= end {
			break
		}
		out = append(out, Span{Start: max(s, start), End: min(e.end, end), Attrs: e.attrs})
		node, ok = idx.tree.Ceiling(e.end)
	}
	return out
}

// Insert records that n bytes were inserted at offset at. The span that
// holds the byte before at grows; at offset 0 the first span grows.
func (idx *Index) Insert(at, n int) error {
	if at < 0 || at > idx.length {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, at, idx.length)
	}
	if n <= 0 {
		return nil
	}
	if idx.length == 0 {
		idx.Reset(n)
		return nil
	}

	spans := idx.Spans()
	grown := false
	for i := range spans {
		switch {
		case grown:
			spans[i].Start += n
			spans[i].End += n
		case at == 0 || (spans[i].Start < at && at <= spans[i].End):
			spans[i].End += n
			grown = true
		}
	}
	idx.length += n
	idx.rebuild(spans)
	return nil
}

// Remove records that the bytes in [start, end) were deleted. Spans inside
// the range disappear and the remaining ones shift left.
func (idx *Index) Remove(start, end int) error {
	if start < 0 || end > idx.length || start > end {
		return fmt.Errorf("%w: [%d, %d) not in [0, %d)", ErrOutOfRange, start, end, idx.length)
	}
	n := end - start
	if n == 0 {
		return nil
	}
	shift := func(x int) int {
		switch {
		case x <= start:
			return x
		case x < end:
			return start
		default:
			return x - n
		}
	}

	spans := idx.Spans()
	kept := spans[:0]
	for _, s := range spans {
		s.Start, s.End = shift(s.Start), shift(s.End)
		if s.Start < s.End {
			kept = append(kept, s)
		}
	}
	idx.length -= n
	idx.rebuild(kept)
	return nil
}

// rebuild replaces the tree with spans, merging equal neighbours.
func (idx *Index) rebuild(spans []Span) {
	idx.tree.Clear()
	var prev *entry
	for _, s := range spans {
		if prev != nil && prev.attrs == s.Attrs && prev.end == s.Start {
			prev.end = s.End
			continue
		}
		prev = &entry{end: s.End, attrs: s.Attrs}
		idx.tree.Put(s.Start, prev)
	}
}

// Validate checks that the spans are sorted, non-empty, non-overlapping
// and cover [0, Len).
func (idx *Index) Validate() error {
	pos := 0
	for _, s := range idx.Spans() {
		if s.Start != pos {
			return fmt.Errorf("attrs: span [%d, %d) leaves a gap or overlap at %d", s.Start, s.End, pos)
		}
		if s.End <= s.Start {
			return fmt.Errorf("attrs: empty span at %d", s.Start)
		}
		pos = s.End
	}
	if pos != idx.length {
		return fmt.Errorf("attrs: spans cover [0, %d), want [0, %d)", pos, idx.length)
	}
	return nil
}
