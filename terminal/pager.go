// Package terminal shows rendered diagrams in an interactive full-screen viewer.
package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Pager holds scroll state over rendered text.
// Offsets are always clamped to the content for the height or width given.
type Pager struct {
	lines  []string
	widest int
	row    int // First visible line
	col    int // First visible cell
}

// NewPager creates a pager over content.
func NewPager(content string) *Pager {
	p := &Pager{}
	p.SetContent(content)
	return p
}

// SetContent replaces the text, keeping the current position where possible.
func (p *Pager) SetContent(content string) {
	p.lines = nil
	if content != "" {
		p.lines = strings.Split(content, "\n")
	}
	p.widest = 0
	for _, line := range p.lines {
		p.widest = max(p.widest, runewidth.StringWidth(line))
	}
}

// Len returns the number of lines.
func (p *Pager) Len() int { return len(p.lines) }

// Offset returns the first visible line and cell.
func (p *Pager) Offset() (row, col int) { return p.row, p.col }

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}

func (p *Pager) maxRow(height int) int { return max(0, len(p.lines)-max(height, 1)) }
func (p *Pager) maxCol(width int) int  { return max(0, p.widest-max(width, 1)) }

// ScrollBy moves the view down by delta lines (up when negative).
func (p *Pager) ScrollBy(delta, height int) {
	p.row = clamp(p.row+delta, p.maxRow(height))
}

// ScrollTo moves the first visible line to line.
func (p *Pager) ScrollTo(line, height int) {
	p.row = clamp(line, p.maxRow(height))
}

// Page scrolls by n screens of the given height.
func (p *Pager) Page(n, height int) {
	p.ScrollBy(n*max(height-1, 1), height)
}

// PanBy moves the view right by delta cells (left when negative).
func (p *Pager) PanBy(delta, width int) {
	p.col = clamp(p.col+delta, p.maxCol(width))
}

// Clamp re-applies the limits after the view size changes.
func (p *Pager) Clamp(width, height int) {
	p.row = clamp(p.row, p.maxRow(height))
	p.col = clamp(p.col, p.maxCol(width))
}

// Visible returns the lines shown in a view of the given height.
func (p *Pager) Visible(height int) []string {
	if height <= 0 || p.row >= len(p.lines) {
		return nil
	}
	end := min(p.row+height, len(p.lines))
	return p.lines[p.row:end]
}
