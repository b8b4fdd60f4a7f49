package typeset

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/typeset/cursor"
)

func TestEditorTyping(t *testing.T) {
	e := NewEditor(newBuffer())
	if err := e.Insert("hello"); err != nil {
		t.Fatal(err)
	}
	if c := e.Cursor(); c.Offset != 5 || c.Affinity != cursor.Before {
		t.Errorf("cursor = %+v, want 5 Before", c)
	}
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := e.MoveLeft(); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if got := e.Buffer().Text(); got != "hel" {
		t.Errorf("text = %q, want %q", got, "hel")
	}
	if c := e.Cursor(); c.Offset != 2 {
		t.Errorf("cursor offset = %d, want 2", c.Offset)
	}
}

func TestEditorBackspaceGrapheme(t *testing.T) {
	e := NewEditor(newBuffer())
	if err := e.Insert("ae\u0301"); err != nil {
		t.Fatal(err)
	}
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	if got := e.Buffer().Text(); got != "a" {
		t.Errorf("text = %q, want %q", got, "a")
	}
	// Nothing to delete at the edges.
	if err := e.DeleteForward(); err != nil || e.Buffer().Text() != "a" {
		t.Errorf("DeleteForward at end = %v, text %q", err, e.Buffer().Text())
	}
	if err := e.SetCursor(0, cursor.After); err != nil {
		t.Fatal(err)
	}
	if err := e.Backspace(); err != nil || e.Buffer().Text() != "a" {
		t.Errorf("Backspace at start = %v, text %q", err, e.Buffer().Text())
	}
}

func TestEditorMoveAcrossWrappedLines(t *testing.T) {
	b := newBuffer(WithMaxWidth(45))
	b.SetText("aaaa bbbb")
	e := NewEditor(b)
	if err := e.SetCursor(4, cursor.Before); err != nil {
		t.Fatal(err)
	}
	want := []cursor.Cursor{
		{Offset: 5, Affinity: cursor.Before},
		{Offset: 5, Affinity: cursor.After},
		{Offset: 6, Affinity: cursor.Before},
	}
	for i, w := range want {
		if err := e.MoveRight(); err != nil {
			t.Fatal(err)
		}
		if c := e.Cursor(); c.Offset != w.Offset || c.Affinity != w.Affinity {
			t.Errorf("step %d cursor = %+v, want %+v", i, c, w)
		}
	}
	line, x, y, err := e.CursorPosition()
	if err != nil {
		t.Fatal(err)
	}
	if line != 1 || x != 10 || y != 18 {
		t.Errorf("CursorPosition() = %d, %v, %v, want 1, 10, 18", line, x, y)
	}

	// Back to the end of the first line.
	for range 2 {
		if err := e.MoveLeft(); err != nil {
			t.Fatal(err)
		}
	}
	if c := e.Cursor(); c.Offset != 5 || c.Affinity != cursor.Before {
		t.Errorf("cursor = %+v, want 5 Before", c)
	}
}

func TestEditorMoveRightRTL(t *testing.T) {
	b := newBuffer()
	b.SetText("אב")
	e := NewEditor(b)
	// The logical start of a right-to-left line is its right edge.
	if err := e.MoveLeft(); err != nil {
		t.Fatal(err)
	}
	if c := e.Cursor(); c.Offset != 2 {
		t.Errorf("MoveLeft from the start = %+v, want offset 2", c)
	}
	if err := e.MoveRight(); err != nil {
		t.Fatal(err)
	}
	if c := e.Cursor(); c.Offset != 0 {
		t.Errorf("MoveRight back = %+v, want offset 0", c)
	}
}

func TestEditorVertical(t *testing.T) {
	b := newBuffer()
	b.SetText("abcd\nef\nghij")
	e := NewEditor(b)
	if err := e.SetCursor(3, cursor.After); err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		move func() error
		want int
	}{
		{e.MoveDown, 7},
		{e.MoveDown, 11},
		{e.MoveDown, 12},
		{e.MoveUp, 7},
		{e.MoveUp, 3},
		{e.MoveUp, 0},
	}
	for i, s := range steps {
		if err := s.move(); err != nil {
			t.Fatal(err)
		}
		if got := e.Cursor().Offset; got != s.want {
			t.Errorf("step %d offset = %d, want %d", i, got, s.want)
		}
	}
}

func TestEditorHomeEnd(t *testing.T) {
	b := newBuffer()
	b.SetText("abcd\nef\nghij")
	e := NewEditor(b)
	if err := e.SetCursor(10, cursor.After); err != nil {
		t.Fatal(err)
	}
	if err := e.Home(); err != nil {
		t.Fatal(err)
	}
	if got := e.Cursor().Offset; got != 8 {
		t.Errorf("Home = %d, want 8", got)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if got := e.Cursor().Offset; got != 12 {
		t.Errorf("End = %d, want 12", got)
	}
	if err := e.SetCursor(1, cursor.After); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}
	if got := e.Cursor().Offset; got != 4 {
		t.Errorf("End of first paragraph = %d, want 4", got)
	}
}

func TestEditorSelection(t *testing.T) {
	b := newBuffer()
	b.SetText("hello world")
	e := NewEditor(b)
	if err := e.SetSelection(6, 11, cursor.Before); err != nil {
		t.Fatal(err)
	}
	rects, err := e.SelectionRects()
	if err != nil {
		t.Fatal(err)
	}
	if len(rects) != 1 || rects[0].MinX != 60 || rects[0].MaxX != 110 {
		t.Errorf("SelectionRects() = %+v", rects)
	}
	if err := e.Insert("there"); err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "hello there" {
		t.Errorf("text = %q", got)
	}
	if !e.Selection().Empty() {
		t.Error("selection survived Insert")
	}

	e.SelectAll()
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 || b.State() != Empty {
		t.Errorf("after deleting all: len %d state %v", b.Len(), b.State())
	}

	err = e.SetSelection(0, 3, cursor.After)
	var oe *cursor.OffsetError
	if !errors.As(err, &oe) || !errors.Is(err, cursor.ErrInvalidOffset) {
		t.Errorf("SetSelection out of range = %v", err)
	}
}

func TestEditorCursorColor(t *testing.T) {
	e := NewEditor(newBuffer())
	c := color.NRGBA{B: 255, A: 255}
	e.SetCursorColor(&c)
	c.R = 255
	if got := e.Cursor().Color; got == nil || got.R != 0 || got.B != 255 {
		t.Errorf("cursor color = %v", got)
	}
	e.SetCursorColor(nil)
	if e.Cursor().Color != nil {
		t.Error("SetCursorColor(nil) kept a color")
	}
}

func TestEditorClearAllThenMove(t *testing.T) {
	b := newBuffer()
	e := NewEditor(b)
	if err := e.Insert("abc\ndef\nghi"); err != nil {
		t.Fatal(err)
	}
	if err := b.Layout(); err != nil {
		t.Fatal(err)
	}
	e.SelectAll()
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	if b.State() != Empty {
		t.Fatalf("state = %v, want Empty", b.State())
	}
	if n := len(b.Lines()); n != 0 {
		t.Errorf("lines before layout = %d, want 0", n)
	}
	if b.Mapper() != nil {
		t.Error("Mapper() over cleared text should be nil before layout")
	}

	if err := e.MoveDown(); err != nil {
		t.Fatal(err)
	}
	if c := e.Cursor(); c.Offset != 0 {
		t.Errorf("cursor offset = %d, want 0", c.Offset)
	}
	line, x, y, err := e.CursorPosition()
	if err != nil {
		t.Fatal(err)
	}
	lines := b.Lines()
	if len(lines) != 1 || !lines[0].Empty() {
		t.Fatalf("lines = %d, want one empty line", len(lines))
	}
	if line != 0 || x != 0 || y != lines[0].Y {
		t.Errorf("CursorPosition = %d, %v, %v; want 0, 0, %v", line, x, y, lines[0].Y)
	}
	if m := b.Mapper(); m == nil || len(m.Lines()) != 1 {
		t.Error("Mapper() should cover the single empty line")
	}
}
