package render

import "jetuml/diagram"

// BoxStyle defines the characters used to draw a node box.
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
	TeeRight    rune // Left end of a compartment divider
	TeeLeft     rune // Right end of a compartment divider
}

// Box styles used by the viewers.
var (
	SharpStyle = BoxStyle{
		TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘',
		Horizontal: '─', Vertical: '│', TeeRight: '├', TeeLeft: '┤',
	}
	RoundedStyle = BoxStyle{
		TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯',
		Horizontal: '─', Vertical: '│', TeeRight: '├', TeeLeft: '┤',
	}
	DoubleStyle = BoxStyle{
		TopLeft: '╔', TopRight: '╗', BottomLeft: '╚', BottomRight: '╝',
		Horizontal: '═', Vertical: '║', TeeRight: '╟', TeeLeft: '╢',
	}
	NoteStyle = BoxStyle{
		TopLeft: '┌', TopRight: '◥', BottomLeft: '└', BottomRight: '┘',
		Horizontal: '┄', Vertical: '┆', TeeRight: '├', TeeLeft: '┤',
	}
)

// edgeStyle describes how an edge type is drawn.
type edgeStyle struct {
	dashed bool
	// startGlyph is drawn at the source end, endGlyph at the target end.
	// Arrow and triangle glyphs are given pointing right and rotated to the
	// direction of the final segment.
	startGlyph rune
	endGlyph   rune
}

var edgeStyles = map[diagram.EdgeType]edgeStyle{
	diagram.DependencyEdge:            {dashed: true, endGlyph: '▶'},
	diagram.GeneralizationEdge:        {endGlyph: '▷'},
	diagram.AggregationEdge:           {startGlyph: '◇'},
	diagram.CompositionEdge:           {startGlyph: '◆'},
	diagram.AssociationEdge:           {endGlyph: '▶'},
	diagram.NoteEdge:                  {dashed: true},
	diagram.CallEdge:                  {endGlyph: '▶'},
	diagram.ReturnEdge:                {dashed: true, endGlyph: '▶'},
	diagram.StateTransitionEdge:       {endGlyph: '▶'},
	diagram.ObjectReferenceEdge:       {endGlyph: '▶'},
	diagram.ObjectCollaborationEdge:   {},
	diagram.UseCaseAssociationEdge:    {},
	diagram.UseCaseDependencyEdge:     {dashed: true, endGlyph: '▶'},
	diagram.UseCaseGeneralizationEdge: {endGlyph: '▷'},
}

func styleFor(t diagram.EdgeType) edgeStyle {
	if s, ok := edgeStyles[t]; ok {
		return s
	}
	return edgeStyle{endGlyph: '▶'}
}

// directional glyph variants, indexed by direction
var glyphSets = map[rune][4]rune{
	'▶': {'▲', '▶', '▼', '◀'},
	'▷': {'△', '▷', '▽', '◁'},
}

// Direction of travel along the last segment of an edge.
type direction int

const (
	north direction = iota
	east
	south
	west
)

// orient returns the glyph pointing in direction d.
func orient(glyph rune, d direction) rune {
	if set, ok := glyphSets[glyph]; ok {
		return set[d]
	}
	return glyph
}

func lineChars(dashed bool) (horizontal, vertical rune) {
	if dashed {
		return '┄', '┆'
	}
	return '─', '│'
}
