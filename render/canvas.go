package render

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"jetuml/diagram"
)

// ErrOutOfBounds is returned when drawing outside the canvas.
var ErrOutOfBounds = errors.New("position out of bounds")

// continuation marks the cell covered by the right half of a wide rune.
const continuation = '\x00'

// Canvas is a rune matrix with box-drawing primitives.
// Origin (0,0) is top-left; all coordinates are in character cells.
// A Canvas is not safe for concurrent writes.
type Canvas struct {
	matrix [][]rune
	width  int
	height int
}

// NewCanvas creates a blank canvas. It returns nil for non-positive sizes.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		return nil
	}
	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = []rune(strings.Repeat(" ", width))
	}
	return &Canvas{matrix: matrix, width: width, height: height}
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) inside(p diagram.Point) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at p, or ' ' outside the canvas.
func (c *Canvas) Get(p diagram.Point) rune {
	if !c.inside(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at p, merging line characters that cross.
func (c *Canvas) Set(p diagram.Point, char rune) error {
	if !c.inside(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = merge(c.matrix[p.Y][p.X], char)
	return nil
}

// put places a character without merging.
func (c *Canvas) put(p diagram.Point, char rune) {
	if c.inside(p) {
		c.matrix[p.Y][p.X] = char
	}
}

// DrawText writes s starting at p and returns the number of cells used.
// Wide runes take two cells. Text is clipped at the canvas edge.
func (c *Canvas) DrawText(p diagram.Point, s string) int {
	x := p.X
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.put(diagram.Point{X: x, Y: p.Y}, r)
		if w == 2 {
			c.put(diagram.Point{X: x + 1, Y: p.Y}, continuation)
		}
		x += w
	}
	return x - p.X
}

// DrawHLine draws a horizontal line between x1 and x2 inclusive.
func (c *Canvas) DrawHLine(y, x1, x2 int, char rune) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		c.Set(diagram.Point{X: x, Y: y}, char)
	}
}

// DrawVLine draws a vertical line between y1 and y2 inclusive.
func (c *Canvas) DrawVLine(x, y1, y2 int, char rune) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		c.Set(diagram.Point{X: x, Y: y}, char)
	}
}

// DrawBox draws a rectangle outline with the given style.
func (c *Canvas) DrawBox(x, y, width, height int, style BoxStyle) {
	if width < 2 || height < 2 {
		return
	}
	right, bottom := x+width-1, y+height-1
	c.put(diagram.Point{X: x, Y: y}, style.TopLeft)
	c.put(diagram.Point{X: right, Y: y}, style.TopRight)
	c.put(diagram.Point{X: x, Y: bottom}, style.BottomLeft)
	c.put(diagram.Point{X: right, Y: bottom}, style.BottomRight)
	for i := x + 1; i < right; i++ {
		c.put(diagram.Point{X: i, Y: y}, style.Horizontal)
		c.put(diagram.Point{X: i, Y: bottom}, style.Horizontal)
	}
	for j := y + 1; j < bottom; j++ {
		c.put(diagram.Point{X: x, Y: j}, style.Vertical)
		c.put(diagram.Point{X: right, Y: j}, style.Vertical)
	}
}

// DrawDivider draws a compartment separator across a box drawn at x with the given width.
func (c *Canvas) DrawDivider(x, y, width int, style BoxStyle) {
	c.put(diagram.Point{X: x, Y: y}, style.TeeRight)
	c.put(diagram.Point{X: x + width - 1, Y: y}, style.TeeLeft)
	for i := x + 1; i < x+width-1; i++ {
		c.put(diagram.Point{X: i, Y: y}, style.Horizontal)
	}
}

// String returns the canvas rows joined by newlines, with trailing
// spaces and trailing blank rows removed.
func (c *Canvas) String() string {
	if c == nil {
		return ""
	}
	rows := make([]string, 0, c.height)
	for _, row := range c.matrix {
		var sb strings.Builder
		for _, r := range row {
			if r != continuation {
				sb.WriteRune(r)
			}
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return strings.Join(rows, "\n")
}

// TextWidth returns the number of cells s occupies on a terminal.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// merge resolves two characters drawn in the same cell.
func merge(existing, next rune) rune {
	switch {
	case existing == ' ' || existing == next:
		return next
	case isHorizontal(existing) && isVertical(next), isVertical(existing) && isHorizontal(next):
		return '┼'
	default:
		return next
	}
}

func isHorizontal(r rune) bool {
	return r == '─' || r == '┄' || r == '═'
}

func isVertical(r rune) bool {
	return r == '│' || r == '┆' || r == '║'
}
