package export

import (
	"fmt"
	"strings"

	"jetuml/diagram"
	"jetuml/registry"
)

// MermaidExporter exports diagrams to Mermaid syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the diagram to Mermaid syntax.
// Object and use case diagrams have no Mermaid equivalent and are written as flowcharts.
func (e *MermaidExporter) Export(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	var sb strings.Builder
	if name := d.Metadata().Name; name != "" {
		sb.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", name))
	}

	g := d.Graph()
	switch registry.KindOf(d) {
	case diagram.KindClass:
		e.exportClass(&sb, g)
	case diagram.KindSequence:
		e.exportSequence(&sb, g)
	case diagram.KindState:
		e.exportState(&sb, g)
	case diagram.KindObject, diagram.KindUseCase:
		e.exportFlowchart(&sb, g)
	}
	return sb.String(), nil
}

// mermaidText replaces characters Mermaid treats as syntax.
func mermaidText(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}

func (e *MermaidExporter) exportClass(sb *strings.Builder, g *diagram.Graph) {
	sb.WriteString("classDiagram\n")
	targets := noteTargets(g)
	for _, n := range g.Nodes() {
		switch n.Type {
		case diagram.ClassNode, diagram.InterfaceNode:
			sb.WriteString(fmt.Sprintf("    class %s[\"%s\"]\n", nodeID(n.ID), mermaidText(label(n))))
			if n.Type == diagram.InterfaceNode {
				sb.WriteString(fmt.Sprintf("    <<interface>> %s\n", nodeID(n.ID)))
			}
			for _, member := range append(append([]string(nil), n.Attributes...), n.Methods...) {
				sb.WriteString(fmt.Sprintf("    %s : %s\n", nodeID(n.ID), member))
			}
		case diagram.NoteNode:
			if over := targets[n.ID]; len(over) > 0 {
				sb.WriteString(fmt.Sprintf("    note for %s \"%s\"\n", nodeID(over[0]), mermaidText(n.Name)))
			} else {
				sb.WriteString(fmt.Sprintf("    note \"%s\"\n", mermaidText(n.Name)))
			}
		}
	}

	for _, edge := range g.Edges() {
		from, to := nodeID(edge.Start), nodeID(edge.End)
		var line string
		switch edge.Type {
		case diagram.GeneralizationEdge:
			line = fmt.Sprintf("%s <|-- %s", to, from)
		case diagram.DependencyEdge:
			line = fmt.Sprintf("%s ..> %s", from, to)
		case diagram.AggregationEdge:
			line = fmt.Sprintf("%s o-- %s", from, to)
		case diagram.CompositionEdge:
			line = fmt.Sprintf("%s *-- %s", from, to)
		case diagram.AssociationEdge:
			line = fmt.Sprintf("%s --> %s", from, to)
		default:
			continue
		}
		if edge.Label != "" {
			line += " : " + mermaidText(edge.Label)
		}
		sb.WriteString("    " + line + "\n")
	}
}

func (e *MermaidExporter) exportSequence(sb *strings.Builder, g *diagram.Graph) {
	sb.WriteString("sequenceDiagram\n")
	for _, n := range g.Children(0) {
		if n.Type == diagram.ImplicitParameterNode {
			sb.WriteString(fmt.Sprintf("    participant %s as %s\n", nodeID(n.ID), mermaidText(label(n))))
		}
	}
	for _, edge := range g.Edges() {
		arrow := "->>"
		switch edge.Type {
		case diagram.CallEdge:
		case diagram.ReturnEdge:
			arrow = "-->>"
		default:
			continue
		}
		from, to := owner(g, edge.Start), owner(g, edge.End)
		if from == 0 || to == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s%s%s: %s\n", nodeID(from), arrow, nodeID(to), mermaidText(edge.Label)))
	}

	targets := noteTargets(g)
	for _, n := range g.Children(0) {
		if n.Type != diagram.NoteNode {
			continue
		}
		if over := targets[n.ID]; len(over) > 0 {
			sb.WriteString(fmt.Sprintf("    note over %s: %s\n", nodeID(owner(g, over[0])), mermaidText(n.Name)))
		}
	}
}

func (e *MermaidExporter) exportState(sb *strings.Builder, g *diagram.Graph) {
	sb.WriteString("stateDiagram-v2\n")
	for _, n := range g.Children(0) {
		if n.Type == diagram.StateNode {
			sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", mermaidText(label(n)), nodeID(n.ID)))
		}
	}
	for _, edge := range g.Edges() {
		if edge.Type != diagram.StateTransitionEdge {
			continue
		}
		line := fmt.Sprintf("    %s --> %s", stateRef(g, edge.Start), stateRef(g, edge.End))
		if edge.Label != "" {
			line += " : " + mermaidText(edge.Label)
		}
		sb.WriteString(line + "\n")
	}
	targets := noteTargets(g)
	for _, n := range g.Children(0) {
		if over := targets[n.ID]; n.Type == diagram.NoteNode && len(over) > 0 {
			sb.WriteString(fmt.Sprintf("    note right of %s : %s\n", nodeID(over[0]), mermaidText(n.Name)))
		}
	}
}

func (e *MermaidExporter) exportFlowchart(sb *strings.Builder, g *diagram.Graph) {
	sb.WriteString("flowchart LR\n")
	for _, n := range g.Children(0) {
		text := mermaidText(label(n))
		id := nodeID(n.ID)
		switch n.Type {
		case diagram.ObjectNode:
			lines := []string{"<u>" + text + "</u>"}
			for _, f := range g.Children(n.ID) {
				lines = append(lines, mermaidText(fieldText(f)))
			}
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, strings.Join(lines, "<br/>")))
		case diagram.ActorNode:
			sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, text))
		case diagram.UseCaseNode:
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", id, text))
		case diagram.NoteNode:
			sb.WriteString(fmt.Sprintf("    %s>\"%s\"]\n", id, mermaidText(n.Name)))
		default:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, text))
		}
	}

	for _, edge := range g.Edges() {
		from, to := nodeID(owner(g, edge.Start)), nodeID(owner(g, edge.End))
		text := edge.Label
		var arrow string
		switch edge.Type {
		case diagram.ObjectReferenceEdge:
			arrow = "-->"
			if f, ok := g.Node(edge.Start); ok && f.Type == diagram.FieldNode && text == "" {
				text = f.Name
			}
		case diagram.ObjectCollaborationEdge, diagram.UseCaseAssociationEdge:
			arrow = "---"
		case diagram.UseCaseGeneralizationEdge:
			arrow = "==>"
		case diagram.UseCaseDependencyEdge, diagram.NoteEdge:
			arrow = "-.->"
		default:
			continue
		}
		if text != "" {
			sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", from, arrow, mermaidText(text), to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
		}
	}
}

// FileExtension returns the recommended file extension
func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

// FormatName returns the format name
func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}
