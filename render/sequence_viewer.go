package render

import (
	"fmt"
	"strings"

	"jetuml/diagram"
)

// SequenceDiagramViewer draws sequence diagrams as participants with
// lifelines and horizontal messages in edge order.
type SequenceDiagramViewer struct {
	ParticipantSpacing  int // Minimum horizontal space between participant boxes
	MessageSpacing      int // Rows between consecutive messages
	MinParticipantWidth int
	Margin              int
}

// NewSequenceDiagramViewer creates a viewer with the default spacing.
func NewSequenceDiagramViewer() *SequenceDiagramViewer {
	return &SequenceDiagramViewer{
		ParticipantSpacing:  10,
		MessageSpacing:      3,
		MinParticipantWidth: 8,
		Margin:              1,
	}
}

type participant struct {
	node     diagram.Node
	x, width int
	lifeline int
}

type message struct {
	edge     diagram.Edge
	from, to *participant
	y        int
}

type sequenceLayout struct {
	participants map[int]*participant
	order        []*participant
	messages     []message
	notes        []*shape
	top          int
	bottom       int // Last lifeline row
	width        int
	height       int
}

// Render draws the diagram. An empty diagram renders as an empty string.
func (v *SequenceDiagramViewer) Render(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}
	if d.Graph().IsEmpty() {
		return "", nil
	}
	l := v.layout(d.Graph())
	c := NewCanvas(l.width, l.height)

	for _, p := range l.order {
		c.DrawBox(p.x, l.top, p.width, 3, SharpStyle)
		name := p.node.Name
		c.DrawText(diagram.Point{X: p.x + (p.width-TextWidth(name))/2, Y: l.top + 1}, name)
		c.DrawVLine(p.lifeline, l.top+3, l.bottom, '┆')
		c.put(diagram.Point{X: p.lifeline, Y: l.top + 2}, '┬')
	}
	for _, m := range l.messages {
		v.drawMessage(c, m)
	}
	for _, n := range l.notes {
		drawShape(c, n)
	}
	return c.String(), nil
}

// Bounds returns the canvas size for the diagram.
func (v *SequenceDiagramViewer) Bounds(d diagram.Diagram) (width, height int) {
	if d == nil || d.Graph().IsEmpty() {
		return 0, 0
	}
	l := v.layout(d.Graph())
	return l.width, l.height
}

func (v *SequenceDiagramViewer) layout(g *diagram.Graph) sequenceLayout {
	l := sequenceLayout{participants: make(map[int]*participant), top: v.Margin}

	spacing := v.ParticipantSpacing
	for _, e := range g.Edges() {
		if isMessage(e.Type) {
			spacing = max(spacing, TextWidth(e.Label)+4)
		}
	}

	x := v.Margin
	var notes []diagram.Node
	for _, n := range g.Children(0) {
		switch n.Type {
		case diagram.ImplicitParameterNode:
			w := max(TextWidth(n.Name)+4, v.MinParticipantWidth)
			p := &participant{node: n, x: x, width: w, lifeline: x + w/2}
			l.participants[n.ID] = p
			l.order = append(l.order, p)
			x += w + spacing
		case diagram.NoteNode:
			notes = append(notes, n)
		}
	}
	right := x - spacing

	y := l.top + 3 + 2
	for _, e := range g.Edges() {
		if !isMessage(e.Type) {
			continue
		}
		from := l.participants[topLevel(g, e.Start)]
		to := l.participants[topLevel(g, e.End)]
		if from == nil || to == nil {
			continue
		}
		l.messages = append(l.messages, message{edge: e, from: from, to: to, y: y})
		if from == to {
			right = max(right, from.lifeline+5+TextWidth(e.Label))
		}
		y += v.MessageSpacing
	}
	l.bottom = y - v.MessageSpacing + 2
	if len(l.messages) == 0 {
		l.bottom = l.top + 4
	}

	height := l.bottom + 1
	nx := v.Margin
	for _, n := range notes {
		s := newShape(g, n)
		s.x, s.y = nx, l.bottom+2
		nx += s.width + 2
		right = max(right, s.x+s.width)
		height = max(height, s.y+s.height)
		l.notes = append(l.notes, s)
	}

	l.width = max(right, 1) + v.Margin + 1
	l.height = height + v.Margin
	return l
}

func isMessage(t diagram.EdgeType) bool {
	return t == diagram.CallEdge || t == diagram.ReturnEdge
}

func (v *SequenceDiagramViewer) drawMessage(c *Canvas, m message) {
	style := styleFor(m.edge.Type)
	h, _ := lineChars(style.dashed)
	lx := m.from.lifeline

	if m.from == m.to {
		c.DrawHLine(m.y, lx+1, lx+3, h)
		c.put(diagram.Point{X: lx + 3, Y: m.y}, '┐')
		c.put(diagram.Point{X: lx + 3, Y: m.y + 1}, '┘')
		c.DrawHLine(m.y+1, lx+2, lx+2, h)
		c.put(diagram.Point{X: lx + 1, Y: m.y + 1}, orient(style.endGlyph, west))
		if m.edge.Label != "" {
			c.DrawText(diagram.Point{X: lx + 5, Y: m.y}, m.edge.Label)
		}
		return
	}

	tx := m.to.lifeline
	if lx < tx {
		c.DrawHLine(m.y, lx+1, tx-1, h)
		c.put(diagram.Point{X: tx - 1, Y: m.y}, orient(style.endGlyph, east))
	} else {
		c.DrawHLine(m.y, tx+1, lx-1, h)
		c.put(diagram.Point{X: tx + 1, Y: m.y}, orient(style.endGlyph, west))
	}
	if label := strings.TrimSpace(m.edge.Label); label != "" {
		left, right := min(lx, tx), max(lx, tx)
		c.DrawText(diagram.Point{X: left + (right-left-TextWidth(label))/2 + 1, Y: m.y - 1}, label)
	}
}
