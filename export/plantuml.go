package export

import (
	"fmt"
	"strings"

	"jetuml/builder"
	"jetuml/diagram"
	"jetuml/registry"
)

// PlantUMLExporter exports diagrams to PlantUML syntax
type PlantUMLExporter struct{}

// NewPlantUMLExporter creates a new PlantUML exporter
func NewPlantUMLExporter() *PlantUMLExporter {
	return &PlantUMLExporter{}
}

// Export converts the diagram to PlantUML syntax
func (e *PlantUMLExporter) Export(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	var sb strings.Builder
	sb.WriteString("@startuml\n")
	if name := d.Metadata().Name; name != "" {
		sb.WriteString(fmt.Sprintf("title %s\n", name))
	}
	sb.WriteString("skinparam shadowing false\n\n")

	g := d.Graph()
	switch registry.KindOf(d) {
	case diagram.KindClass:
		e.exportClass(&sb, g)
	case diagram.KindSequence:
		e.exportSequence(&sb, g)
	case diagram.KindState:
		e.exportState(&sb, g)
	case diagram.KindObject:
		e.exportObject(&sb, g)
	case diagram.KindUseCase:
		e.exportUseCase(&sb, g)
	}

	sb.WriteString("@enduml\n")
	return sb.String(), nil
}

func (e *PlantUMLExporter) writeNote(sb *strings.Builder, indent string, n diagram.Node) {
	sb.WriteString(fmt.Sprintf("%snote \"%s\" as %s\n", indent, quote(n.Name), nodeID(n.ID)))
}

// writeNoteEdges links notes to the elements they annotate.
func (e *PlantUMLExporter) writeNoteEdges(sb *strings.Builder, g *diagram.Graph, resolve func(int) int) {
	for _, edge := range g.Edges() {
		if edge.Type == diagram.NoteEdge {
			sb.WriteString(fmt.Sprintf("%s .. %s\n", nodeID(edge.Start), nodeID(resolve(edge.End))))
		}
	}
}

func (e *PlantUMLExporter) exportClass(sb *strings.Builder, g *diagram.Graph) {
	var declare func(parent int, indent string)
	declare = func(parent int, indent string) {
		for _, n := range g.Children(parent) {
			switch n.Type {
			case diagram.PackageNode:
				sb.WriteString(fmt.Sprintf("%spackage \"%s\" as %s {\n", indent, quote(label(n)), nodeID(n.ID)))
				declare(n.ID, indent+"  ")
				sb.WriteString(indent + "}\n")
			case diagram.ClassNode, diagram.InterfaceNode:
				keyword := "class"
				if n.Type == diagram.InterfaceNode {
					keyword = "interface"
				}
				sb.WriteString(fmt.Sprintf("%s%s \"%s\" as %s {\n", indent, keyword, quote(label(n)), nodeID(n.ID)))
				for _, a := range n.Attributes {
					sb.WriteString(fmt.Sprintf("%s  %s\n", indent, a))
				}
				if len(n.Attributes) > 0 && len(n.Methods) > 0 {
					sb.WriteString(indent + "  --\n")
				}
				for _, m := range n.Methods {
					sb.WriteString(fmt.Sprintf("%s  %s\n", indent, m))
				}
				sb.WriteString(indent + "}\n")
			case diagram.NoteNode:
				e.writeNote(sb, indent, n)
			}
		}
	}
	declare(0, "")

	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		var arrow string
		switch edge.Type {
		case diagram.GeneralizationEdge:
			arrow = "--|>"
			start, _ := g.Node(edge.Start)
			end, _ := g.Node(edge.End)
			if start.Type == diagram.ClassNode && end.Type == diagram.InterfaceNode {
				arrow = "..|>"
			}
		case diagram.DependencyEdge:
			arrow = "..>"
		case diagram.AggregationEdge:
			arrow = "o--"
		case diagram.CompositionEdge:
			arrow = "*--"
		case diagram.AssociationEdge:
			arrow = "-->"
		default:
			continue
		}
		sb.WriteString(e.relation(edge.Start, arrow, edge.End, edge.Label))
	}
	e.writeNoteEdges(sb, g, func(id int) int { return id })
}

func (e *PlantUMLExporter) relation(from int, arrow string, to int, text string) string {
	if text != "" {
		return fmt.Sprintf("%s %s %s : %s\n", nodeID(from), arrow, nodeID(to), text)
	}
	return fmt.Sprintf("%s %s %s\n", nodeID(from), arrow, nodeID(to))
}

func (e *PlantUMLExporter) exportSequence(sb *strings.Builder, g *diagram.Graph) {
	for _, n := range g.Children(0) {
		if n.Type == diagram.ImplicitParameterNode {
			sb.WriteString(fmt.Sprintf("participant \"%s\" as %s\n", quote(label(n)), nodeID(n.ID)))
		}
	}

	var messages []diagram.Edge
	for _, edge := range g.Edges() {
		if edge.Type == diagram.CallEdge || edge.Type == diagram.ReturnEdge {
			messages = append(messages, edge)
		}
	}
	if len(messages) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range messages {
		from, to := owner(g, edge.Start), owner(g, edge.End)
		if from == 0 || to == 0 {
			continue
		}
		arrow := "->"
		if edge.Type == diagram.ReturnEdge {
			arrow = "-->"
		}
		sb.WriteString(e.relation(from, arrow, to, edge.Label))
	}

	targets := noteTargets(g)
	for _, n := range g.Children(0) {
		if n.Type != diagram.NoteNode {
			continue
		}
		text := quote(n.Name)
		if over := targets[n.ID]; len(over) > 0 {
			sb.WriteString(fmt.Sprintf("note over %s : %s\n", nodeID(owner(g, over[0])), text))
		} else {
			sb.WriteString(fmt.Sprintf("note across : %s\n", text))
		}
	}
}

// stateRef returns the PlantUML reference for a state node.
// Initial and final pseudo-states are both written as [*].
func stateRef(g *diagram.Graph, id int) string {
	if n, ok := g.Node(id); ok && (n.Type == diagram.InitialStateNode || n.Type == diagram.FinalStateNode) {
		return "[*]"
	}
	return nodeID(id)
}

func (e *PlantUMLExporter) exportState(sb *strings.Builder, g *diagram.Graph) {
	for _, n := range g.Children(0) {
		switch n.Type {
		case diagram.StateNode:
			sb.WriteString(fmt.Sprintf("state \"%s\" as %s\n", quote(label(n)), nodeID(n.ID)))
		case diagram.NoteNode:
			e.writeNote(sb, "", n)
		}
	}
	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		if edge.Type != diagram.StateTransitionEdge {
			continue
		}
		line := fmt.Sprintf("%s --> %s", stateRef(g, edge.Start), stateRef(g, edge.End))
		if edge.Label != "" {
			line += " : " + edge.Label
		}
		sb.WriteString(line + "\n")
	}
	e.writeNoteEdges(sb, g, func(id int) int { return id })
}

func (e *PlantUMLExporter) exportObject(sb *strings.Builder, g *diagram.Graph) {
	for _, n := range g.Children(0) {
		switch n.Type {
		case diagram.ObjectNode:
			fields := g.Children(n.ID)
			if len(fields) == 0 {
				sb.WriteString(fmt.Sprintf("object \"%s\" as %s\n", quote(label(n)), nodeID(n.ID)))
				continue
			}
			sb.WriteString(fmt.Sprintf("object \"%s\" as %s {\n", quote(label(n)), nodeID(n.ID)))
			for _, f := range fields {
				sb.WriteString("  " + fieldText(f) + "\n")
			}
			sb.WriteString("}\n")
		case diagram.NoteNode:
			e.writeNote(sb, "", n)
		}
	}
	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		from, to := owner(g, edge.Start), owner(g, edge.End)
		switch edge.Type {
		case diagram.ObjectReferenceEdge:
			text := edge.Label
			if f, ok := g.Node(edge.Start); ok && f.Type == diagram.FieldNode && text == "" {
				text = f.Name
			}
			sb.WriteString(e.relation(from, "-->", to, text))
		case diagram.ObjectCollaborationEdge:
			sb.WriteString(e.relation(from, "--", to, edge.Label))
		}
	}
	e.writeNoteEdges(sb, g, func(id int) int { return owner(g, id) })
}

func (e *PlantUMLExporter) exportUseCase(sb *strings.Builder, g *diagram.Graph) {
	for _, n := range g.Children(0) {
		switch n.Type {
		case diagram.ActorNode:
			sb.WriteString(fmt.Sprintf("actor \"%s\" as %s\n", quote(label(n)), nodeID(n.ID)))
		case diagram.UseCaseNode:
			sb.WriteString(fmt.Sprintf("usecase \"%s\" as %s\n", quote(label(n)), nodeID(n.ID)))
		case diagram.NoteNode:
			e.writeNote(sb, "", n)
		}
	}
	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		switch edge.Type {
		case diagram.UseCaseAssociationEdge:
			sb.WriteString(e.relation(edge.Start, "--", edge.End, edge.Label))
		case diagram.UseCaseGeneralizationEdge:
			sb.WriteString(e.relation(edge.Start, "--|>", edge.End, edge.Label))
		case diagram.UseCaseDependencyEdge:
			sb.WriteString(e.relation(edge.Start, "..>", edge.End, stereotype(edge.Label)))
		}
	}
	e.writeNoteEdges(sb, g, func(id int) int { return id })
}

// stereotype converts guillemet labels to the ASCII form PlantUML expects.
func stereotype(s string) string {
	switch s {
	case builder.IncludeLabel:
		return "<<include>>"
	case builder.ExtendLabel:
		return "<<extend>>"
	}
	return s
}

// FileExtension returns the recommended file extension
func (e *PlantUMLExporter) FileExtension() string {
	return ".puml"
}

// FormatName returns the format name
func (e *PlantUMLExporter) FormatName() string {
	return "PlantUML"
}
