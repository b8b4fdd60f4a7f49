package typeset

import (
	"image/color"

	"github.com/gogpu/typeset/cursor"
	"github.com/gogpu/typeset/segment"
)

const epsilon = 1e-9

// Editor adds a caret and a selection to a Buffer. Navigation lays the
// buffer out when needed.
type Editor struct {
	buf    *Buffer
	cur    cursor.Cursor
	anchor int

	// prefX is the x position vertical movement tries to keep.
	prefX   float64
	hasPref bool
}

// NewEditor returns an editor with the caret at the start of b.
func NewEditor(b *Buffer) *Editor {
	return &Editor{buf: b, cur: cursor.Cursor{Affinity: cursor.After}}
}

// Buffer returns the edited buffer.
func (e *Editor) Buffer() *Buffer { return e.buf }

// Cursor returns the caret.
func (e *Editor) Cursor() cursor.Cursor { return e.cur }

// SetCursorColor overrides the caret color; nil restores the default.
func (e *Editor) SetCursorColor(c *color.NRGBA) {
	if c != nil {
		cc := *c
		c = &cc
	}
	e.cur.Color = c
}

// Selection returns the selection from the anchor to the caret.
func (e *Editor) Selection() cursor.Selection {
	return cursor.Selection{
		Anchor: cursor.Cursor{Offset: e.anchor, Affinity: cursor.After},
		Active: e.cur,
	}
}

// SetCursor moves the caret and clears the selection.
func (e *Editor) SetCursor(offset int, aff cursor.Affinity) error {
	return e.SetSelection(offset, offset, aff)
}

// SetSelection selects from anchor to active, with the caret at active.
func (e *Editor) SetSelection(anchor, active int, aff cursor.Affinity) error {
	if !e.buf.boundary(anchor) || !e.buf.boundary(active) {
		return &cursor.OffsetError{Offset: max(anchor, active), Len: e.buf.Len()}
	}
	e.anchor = anchor
	e.cur.Offset, e.cur.Affinity = active, aff
	e.hasPref = false
	return nil
}

// SelectAll selects the whole text.
func (e *Editor) SelectAll() {
	e.anchor = 0
	e.cur.Offset, e.cur.Affinity = e.buf.Len(), cursor.Before
	e.hasPref = false
}

func (e *Editor) collapse(offset int, aff cursor.Affinity) {
	e.anchor = offset
	e.cur.Offset, e.cur.Affinity = offset, aff
	e.hasPref = false
}

// clamp keeps the caret inside text edited behind the editor's back.
func (e *Editor) clamp() {
	n := e.buf.Len()
	if e.cur.Offset > n {
		e.cur.Offset = n
	}
	if e.anchor > n {
		e.anchor = n
	}
}

// Insert replaces the selection, or inserts at the caret, with s.
func (e *Editor) Insert(s string) error {
	e.clamp()
	start, end := e.Selection().Range()
	if err := e.buf.Replace(start, end, s); err != nil {
		return err
	}
	aff := cursor.Before
	if s == "" {
		aff = cursor.After
	}
	e.collapse(start+len(s), aff)
	return nil
}

// Backspace deletes the selection or the grapheme before the caret.
func (e *Editor) Backspace() error {
	e.clamp()
	if !e.Selection().Empty() {
		return e.Insert("")
	}
	off := e.cur.Offset
	if off == 0 {
		return nil
	}
	prev := cursor.PrevGrapheme(e.buf.Text(), off)
	if err := e.buf.Delete(prev, off); err != nil {
		return err
	}
	e.collapse(prev, cursor.After)
	return nil
}

// DeleteForward deletes the selection or the grapheme after the caret.
func (e *Editor) DeleteForward() error {
	e.clamp()
	if !e.Selection().Empty() {
		return e.Insert("")
	}
	off := e.cur.Offset
	next := cursor.NextGrapheme(e.buf.Text(), off)
	if next == off {
		return nil
	}
	if err := e.buf.Delete(off, next); err != nil {
		return err
	}
	e.collapse(off, cursor.After)
	return nil
}

func (e *Editor) mapper() (*cursor.Mapper, error) {
	e.clamp()
	if e.buf.State() == Unshaped || e.buf.Lines() == nil {
		if err := e.buf.Layout(); err != nil {
			return nil, err
		}
	}
	return e.buf.Mapper(), nil
}

// MoveLeft moves the caret one grapheme to the left on screen and clears
// the selection. Past the left edge it continues on the neighbouring line
// in reading order.
func (e *Editor) MoveLeft() error { return e.moveHorizontal(-1) }

// MoveRight moves the caret one grapheme to the right on screen and clears
// the selection.
func (e *Editor) MoveRight() error { return e.moveHorizontal(1) }

func (e *Editor) moveHorizontal(dir int) error {
	m, err := e.mapper()
	if err != nil {
		return err
	}
	li, x, err := m.OffsetToVisual(e.cur.Offset, e.cur.Affinity)
	if err != nil {
		return err
	}
	stops, err := m.Stops(li)
	if err != nil {
		return err
	}
	if dir > 0 {
		for _, s := range stops {
			if s.X > x+epsilon {
				e.collapse(s.Offset, s.Affinity)
				return nil
			}
		}
	} else {
		for i := len(stops) - 1; i >= 0; i-- {
			if stops[i].X < x-epsilon {
				e.collapse(stops[i].Offset, stops[i].Affinity)
				return nil
			}
		}
	}

	lines := m.Lines()
	forward := (dir > 0) == (lines[li].Base == segment.LTR)
	switch {
	case forward && li+1 < len(lines):
		start, _, err := m.LineBounds(li + 1)
		if err != nil {
			return err
		}
		e.collapse(start.Offset, start.Affinity)
	case !forward && li > 0:
		_, end, err := m.LineBounds(li - 1)
		if err != nil {
			return err
		}
		e.collapse(end.Offset, end.Affinity)
	default:
		e.collapse(e.cur.Offset, e.cur.Affinity)
	}
	return nil
}

// MoveUp moves the caret to the previous line, keeping its x position
// across consecutive vertical moves.
func (e *Editor) MoveUp() error { return e.moveVertical(-1) }

// MoveDown moves the caret to the next line.
func (e *Editor) MoveDown() error { return e.moveVertical(1) }

func (e *Editor) moveVertical(dir int) error {
	m, err := e.mapper()
	if err != nil {
		return err
	}
	li, x, err := m.OffsetToVisual(e.cur.Offset, e.cur.Affinity)
	if err != nil {
		return err
	}
	if !e.hasPref {
		e.prefX, e.hasPref = x, true
	}
	target := li + dir
	n := len(m.Lines())
	var c cursor.Cursor
	switch {
	case target < 0:
		c, _, err = m.LineBounds(0)
	case target >= n:
		_, c, err = m.LineBounds(n - 1)
	default:
		c, err = m.VisualToOffset(target, e.prefX)
	}
	if err != nil {
		return err
	}
	e.anchor = c.Offset
	e.cur.Offset, e.cur.Affinity = c.Offset, c.Affinity
	return nil
}

// Home moves the caret to the logical start of its line.
func (e *Editor) Home() error { return e.lineEdge(false) }

// End moves the caret to the logical end of its line.
func (e *Editor) End() error { return e.lineEdge(true) }

func (e *Editor) lineEdge(end bool) error {
	m, err := e.mapper()
	if err != nil {
		return err
	}
	li, err := m.LineOf(e.cur.Offset, e.cur.Affinity)
	if err != nil {
		return err
	}
	start, stop, err := m.LineBounds(li)
	if err != nil {
		return err
	}
	if end {
		start = stop
	}
	e.collapse(start.Offset, start.Affinity)
	return nil
}

// SelectionRects returns the rectangles of the selection.
func (e *Editor) SelectionRects() ([]cursor.Rect, error) {
	m, err := e.mapper()
	if err != nil {
		return nil, err
	}
	return e.Selection().Rects(m)
}

// CursorPosition returns the caret line, its x position and the line
// baseline.
func (e *Editor) CursorPosition() (line int, x, y float64, err error) {
	m, err := e.mapper()
	if err != nil {
		return 0, 0, 0, err
	}
	line, x, err = m.OffsetToVisual(e.cur.Offset, e.cur.Affinity)
	if err != nil {
		return 0, 0, 0, err
	}
	return line, x, m.Lines()[line].Y, nil
}
