package render

import (
	"testing"

	"jetuml/diagram"
)

func TestNewCanvasInvalidSize(t *testing.T) {
	if NewCanvas(0, 5) != nil || NewCanvas(5, -1) != nil {
		t.Error("Expected nil canvas for non-positive size")
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(3, 3)
	if err := c.Set(diagram.Point{X: 3, Y: 0}, 'x'); err != ErrOutOfBounds {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	if got := c.Get(diagram.Point{X: -1, Y: 0}); got != ' ' {
		t.Errorf("Expected space outside canvas, got %q", got)
	}
}

func TestCanvasLineCrossing(t *testing.T) {
	c := NewCanvas(5, 5)
	c.DrawHLine(2, 0, 4, '─')
	c.DrawVLine(2, 0, 4, '│')
	if got := c.Get(diagram.Point{X: 2, Y: 2}); got != '┼' {
		t.Errorf("Expected crossing, got %q", got)
	}
}

func TestCanvasWideText(t *testing.T) {
	c := NewCanvas(10, 1)
	used := c.DrawText(diagram.Point{X: 0, Y: 0}, "图a")
	if used != 3 {
		t.Errorf("Expected 3 cells used, got %d", used)
	}
	if got := c.String(); got != "图a" {
		t.Errorf("Expected continuation cell to be skipped, got %q", got)
	}
}

func TestCanvasStringTrims(t *testing.T) {
	c := NewCanvas(6, 4)
	c.DrawBox(0, 0, 3, 2, SharpStyle)
	want := "┌─┐\n└─┘"
	if got := c.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestOrient(t *testing.T) {
	tests := []struct {
		glyph rune
		dir   direction
		want  rune
	}{
		{'▶', north, '▲'},
		{'▶', west, '◀'},
		{'▷', south, '▽'},
		{'◆', west, '◆'},
	}
	for _, tt := range tests {
		if got := orient(tt.glyph, tt.dir); got != tt.want {
			t.Errorf("orient(%q, %d) = %q, want %q", tt.glyph, tt.dir, got, tt.want)
		}
	}
}
