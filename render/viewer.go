// Package render draws diagrams as Unicode text.
package render

import (
	"fmt"
	"math"
	"strings"

	"jetuml/diagram"
)

// Viewer renders diagrams of one or more kinds.
// Implementations hold no per-call state and may be shared between goroutines.
type Viewer interface {
	// Render draws the diagram and returns the text output.
	Render(d diagram.Diagram) (string, error)
	// Bounds returns the canvas size Render would use.
	Bounds(d diagram.Diagram) (width, height int)
}

// DiagramViewer draws any diagram as boxes on a grid joined by elbow edges.
type DiagramViewer struct {
	HGap   int // Horizontal space between grid columns
	VGap   int // Vertical space between grid rows
	Margin int
}

// NewDiagramViewer creates a viewer with the default spacing.
func NewDiagramViewer() *DiagramViewer {
	return &DiagramViewer{HGap: 8, VGap: 3, Margin: 1}
}

// shape is a node placed on the canvas.
type shape struct {
	node     diagram.Node
	header   []string
	sections [][]string
	style    BoxStyle
	framed   bool
	x, y     int
	width    int
	height   int
}

func (s *shape) midX() int { return s.x + s.width/2 }
func (s *shape) midY() int { return s.y + s.height/2 }

type layoutResult struct {
	shapes map[int]*shape // by top-level node id
	order  []*shape
	width  int
	height int
}

// Render draws the diagram. An empty diagram renders as an empty string.
func (v *DiagramViewer) Render(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}
	g := d.Graph()
	if g.IsEmpty() {
		return "", nil
	}
	l := v.layout(g)
	if len(l.order) == 0 {
		return "", nil
	}
	c := NewCanvas(l.width, l.height)
	for _, s := range l.order {
		drawShape(c, s)
	}
	for _, e := range g.Edges() {
		a := l.shapes[topLevel(g, e.Start)]
		b := l.shapes[topLevel(g, e.End)]
		if a == nil || b == nil {
			continue
		}
		drawEdge(c, e, a, b)
	}
	return c.String(), nil
}

// Bounds returns the canvas size for the diagram.
func (v *DiagramViewer) Bounds(d diagram.Diagram) (width, height int) {
	if d == nil || d.Graph().IsEmpty() {
		return 0, 0
	}
	l := v.layout(d.Graph())
	return l.width, l.height
}

func (v *DiagramViewer) layout(g *diagram.Graph) layoutResult {
	top := g.Children(0)
	res := layoutResult{shapes: make(map[int]*shape, len(top))}
	if len(top) == 0 {
		return res
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(top)))))
	rows := (len(top) + cols - 1) / cols
	colWidth := make([]int, cols)
	rowHeight := make([]int, rows)
	for i, n := range top {
		s := newShape(g, n)
		res.order = append(res.order, s)
		res.shapes[n.ID] = s
		colWidth[i%cols] = max(colWidth[i%cols], s.width)
		rowHeight[i/cols] = max(rowHeight[i/cols], s.height)
	}

	colX := make([]int, cols)
	x := v.Margin
	for c := range colWidth {
		colX[c] = x
		x += colWidth[c] + v.HGap
	}
	rowY := make([]int, rows)
	y := v.Margin
	for r := range rowHeight {
		rowY[r] = y
		y += rowHeight[r] + v.VGap
	}
	for i, s := range res.order {
		c, r := i%cols, i/cols
		s.x = colX[c] + (colWidth[c]-s.width)/2
		s.y = rowY[r]
	}

	// Extra room on the right and bottom for self loops and labels.
	res.width = x - v.HGap + v.Margin + 3
	res.height = y - v.VGap + v.Margin + 2
	return res
}

// topLevel returns the id of the top-level ancestor of a node.
func topLevel(g *diagram.Graph, id int) int {
	for guard := 0; guard < 1000; guard++ {
		n, ok := g.Node(id)
		if !ok {
			return 0
		}
		if n.Parent == 0 {
			return n.ID
		}
		id = n.Parent
	}
	return 0
}

func newShape(g *diagram.Graph, n diagram.Node) *shape {
	name := n.Name
	s := &shape{node: n, style: SharpStyle, framed: true}
	switch n.Type {
	case diagram.ClassNode:
		s.header = []string{name}
		s.sections = nonEmpty(n.Attributes, n.Methods)
	case diagram.InterfaceNode:
		s.header = []string{"«interface»", name}
		s.sections = nonEmpty(n.Methods)
	case diagram.PackageNode:
		s.header = []string{"▭ " + name}
		s.sections = nonEmpty(packageLines(g, n.ID, 0))
	case diagram.ObjectNode:
		s.header = []string{name}
		s.sections = nonEmpty(fieldLines(g, n.ID))
	case diagram.NoteNode:
		s.header = strings.Split(name, "\n")
		s.style = NoteStyle
	case diagram.StateNode, diagram.UseCaseNode:
		s.header = []string{name}
		s.style = RoundedStyle
	case diagram.ActorNode:
		s.header = []string{"o", "/|\\", "/ \\", name}
		s.framed = false
	case diagram.InitialStateNode:
		s.header = []string{"●"}
		s.framed = false
	case diagram.FinalStateNode:
		s.header = []string{"◉"}
		s.framed = false
	default:
		s.header = []string{name}
	}

	content := 0
	for _, line := range s.header {
		content = max(content, TextWidth(line))
	}
	for _, section := range s.sections {
		for _, line := range section {
			content = max(content, TextWidth(line))
		}
	}
	if !s.framed {
		s.width = max(content, 1)
		s.height = len(s.header)
		return s
	}
	s.width = content + 4
	s.height = 2 + len(s.header)
	for _, section := range s.sections {
		s.height += 1 + len(section)
	}
	return s
}

func nonEmpty(sections ...[]string) [][]string {
	var out [][]string
	for _, s := range sections {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func packageLines(g *diagram.Graph, id, depth int) []string {
	if depth > 20 {
		return nil
	}
	var lines []string
	indent := strings.Repeat("  ", depth)
	for _, child := range g.Children(id) {
		label := child.Name
		if child.Type == diagram.InterfaceNode {
			label = "«interface» " + label
		}
		lines = append(lines, indent+"▪ "+label)
		lines = append(lines, packageLines(g, child.ID, depth+1)...)
	}
	return lines
}

func fieldLines(g *diagram.Graph, id int) []string {
	var lines []string
	for _, f := range g.Children(id) {
		value := ""
		if len(f.Attributes) > 0 {
			value = f.Attributes[0]
		}
		lines = append(lines, f.Name+" = "+value)
	}
	return lines
}

func drawShape(c *Canvas, s *shape) {
	center := func(y int, line string) {
		c.DrawText(diagram.Point{X: s.x + (s.width-TextWidth(line))/2, Y: y}, line)
	}
	if !s.framed {
		for i, line := range s.header {
			center(s.y+i, line)
		}
		return
	}
	c.DrawBox(s.x, s.y, s.width, s.height, s.style)
	y := s.y + 1
	for _, line := range s.header {
		center(y, line)
		y++
	}
	for _, section := range s.sections {
		c.DrawDivider(s.x, y, s.width, s.style)
		y++
		for _, line := range section {
			c.DrawText(diagram.Point{X: s.x + 2, Y: y}, line)
			y++
		}
	}
}

// route computes an elbow path from a to b. The glyph direction is the
// direction the end glyph points in.
func route(a, b *shape) (points []diagram.Point, glyphDir direction, horizontal bool) {
	switch {
	case a == b:
		rx, by := a.x+a.width, a.y+a.height
		return []diagram.Point{{X: rx, Y: a.midY()}, {X: rx + 1, Y: a.midY()}, {X: rx + 1, Y: by}, {X: a.midX(), Y: by}}, north, true
	case b.x >= a.x+a.width:
		start := diagram.Point{X: a.x + a.width, Y: a.midY()}
		end := diagram.Point{X: b.x - 1, Y: b.midY()}
		mid := (start.X + end.X) / 2
		return []diagram.Point{start, {X: mid, Y: start.Y}, {X: mid, Y: end.Y}, end}, east, true
	case b.x+b.width <= a.x:
		start := diagram.Point{X: a.x - 1, Y: a.midY()}
		end := diagram.Point{X: b.x + b.width, Y: b.midY()}
		mid := (start.X + end.X) / 2
		return []diagram.Point{start, {X: mid, Y: start.Y}, {X: mid, Y: end.Y}, end}, west, true
	case b.y >= a.y+a.height:
		start := diagram.Point{X: a.midX(), Y: a.y + a.height}
		end := diagram.Point{X: b.midX(), Y: b.y - 1}
		mid := (start.Y + end.Y) / 2
		return []diagram.Point{start, {X: start.X, Y: mid}, {X: end.X, Y: mid}, end}, south, false
	case b.y+b.height <= a.y:
		start := diagram.Point{X: a.midX(), Y: a.y - 1}
		end := diagram.Point{X: b.midX(), Y: b.y + b.height}
		mid := (start.Y + end.Y) / 2
		return []diagram.Point{start, {X: start.X, Y: mid}, {X: end.X, Y: mid}, end}, north, false
	}
	return nil, east, true
}

func drawEdge(c *Canvas, e diagram.Edge, a, b *shape) {
	points, glyphDir, horizontal := route(a, b)
	points = simplify(points)
	if len(points) == 0 {
		return
	}
	style := styleFor(e.Type)
	h, v := lineChars(style.dashed)

	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		if p.Y == q.Y {
			c.DrawHLine(p.Y, p.X, q.X, h)
		} else {
			c.DrawVLine(p.X, p.Y, q.Y, v)
		}
	}
	for i := 1; i < len(points)-1; i++ {
		c.put(points[i], corner(heading(points[i-1], points[i]), heading(points[i], points[i+1])))
	}

	start, end := points[0], points[len(points)-1]
	if style.startGlyph != 0 {
		c.put(start, style.startGlyph)
	}
	if style.endGlyph != 0 {
		c.put(end, orient(style.endGlyph, glyphDir))
	}

	if e.Label != "" {
		if horizontal {
			c.DrawText(diagram.Point{X: start.X + 1, Y: start.Y - 1}, e.Label)
		} else {
			c.DrawText(diagram.Point{X: start.X + 2, Y: start.Y}, e.Label)
		}
	}
}

// simplify drops repeated and collinear points.
func simplify(points []diagram.Point) []diagram.Point {
	var out []diagram.Point
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 {
			a, b := out[n-2], out[n-1]
			if (a.X == b.X && b.X == p.X) || (a.Y == b.Y && b.Y == p.Y) {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func heading(from, to diagram.Point) direction {
	switch {
	case to.X > from.X:
		return east
	case to.X < from.X:
		return west
	case to.Y > from.Y:
		return south
	default:
		return north
	}
}

// corner returns the box-drawing corner for a turn from heading in to heading out.
func corner(in, out direction) rune {
	switch {
	case (in == east && out == south) || (in == north && out == west):
		return '┐'
	case (in == east && out == north) || (in == south && out == west):
		return '┘'
	case (in == west && out == south) || (in == north && out == east):
		return '┌'
	case (in == west && out == north) || (in == south && out == east):
		return '└'
	}
	return '┼'
}
