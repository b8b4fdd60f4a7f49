package cursor

// Rects returns the areas covered by s on the lines of m, in line order and
// left to right. A run of selected clusters that is split by reordering
// produces one rectangle per visual piece.
func (s Selection) Rects(m *Mapper) ([]Rect, error) {
	if s.Empty() {
		return nil, nil
	}
	for _, c := range []Cursor{s.Anchor, s.Active} {
		if err := m.checkOffset(c.Offset); err != nil {
			return nil, err
		}
	}
	start, end := s.Range()

	var rects []Rect
	for li := range m.lines {
		l := &m.lines[li]
		if l.End <= start || l.Start >= end {
			continue
		}
		n := len(rects)
		for i := range m.clusters[li] {
			c := &m.clusters[li][i]
			if c.end <= start || c.start >= end {
				continue
			}
			a, b := m.caretX(c, max(start, c.start)), m.caretX(c, min(end, c.end))
			r := Rect{
				Line: li,
				MinX: min(a, b),
				MaxX: max(a, b),
				MinY: l.Y - l.Ascent,
				MaxY: l.Y + l.Descent,
			}
			if len(rects) > n && rects[len(rects)-1].MaxX >= r.MinX-epsilon {
				rects[len(rects)-1].MaxX = max(rects[len(rects)-1].MaxX, r.MaxX)
				continue
			}
			rects = append(rects, r)
		}
	}
	return rects, nil
}
