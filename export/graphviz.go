package export

import (
	"fmt"
	"strings"

	"jetuml/diagram"
)

// GraphvizExporter exports diagrams to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the diagram to Graphviz DOT syntax.
// Nested nodes are listed inside their top-level ancestor and edges attach to it.
func (e *GraphvizExporter) Export(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	g := d.Graph()
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	if name := d.Metadata().Name; name != "" {
		sb.WriteString(fmt.Sprintf("  label=\"%s\";\n", e.escapeLabel(name)))
	}
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n\n")

	for _, n := range g.Children(0) {
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", nodeID(n.ID), e.nodeAttributes(g, n)))
	}

	edges := g.Edges()
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, edge := range edges {
		from, to := owner(g, edge.Start), owner(g, edge.End)
		if from == 0 || to == 0 {
			continue
		}
		attrs := e.edgeAttributes(edge)
		if attrs != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", nodeID(from), nodeID(to), attrs))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", nodeID(from), nodeID(to)))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return strings.ReplaceAll(label, "\n", `\n`)
}

// escapeRecord escapes characters with meaning inside record labels
func (e *GraphvizExporter) escapeRecord(s string) string {
	s = e.escapeLabel(s)
	for _, c := range []string{"{", "}", "|", "<", ">"} {
		s = strings.ReplaceAll(s, c, `\`+c)
	}
	return s
}

// record builds a record label with one field per section.
func (e *GraphvizExporter) record(sections ...[]string) string {
	var fields []string
	for _, lines := range sections {
		if len(lines) == 0 {
			continue
		}
		escaped := make([]string, len(lines))
		for i, line := range lines {
			escaped[i] = e.escapeRecord(line) + `\l`
		}
		fields = append(fields, strings.Join(escaped, ""))
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func (e *GraphvizExporter) nodeAttributes(g *diagram.Graph, n diagram.Node) string {
	text := e.escapeLabel(label(n))
	switch n.Type {
	case diagram.ClassNode:
		return fmt.Sprintf("shape=record, label=\"%s\"", e.record([]string{label(n)}, n.Attributes, n.Methods))
	case diagram.InterfaceNode:
		return fmt.Sprintf("shape=record, label=\"%s\"", e.record([]string{"«interface»", label(n)}, n.Methods))
	case diagram.PackageNode:
		var members []string
		for _, c := range g.Children(n.ID) {
			members = append(members, label(c))
		}
		return fmt.Sprintf("shape=tab, label=\"%s\"", e.escapeLabel(strings.Join(append([]string{label(n)}, members...), "\n")))
	case diagram.ObjectNode:
		var fields []string
		for _, f := range g.Children(n.ID) {
			fields = append(fields, fieldText(f))
		}
		return fmt.Sprintf("shape=record, label=\"%s\"", e.record([]string{label(n)}, fields))
	case diagram.NoteNode:
		return fmt.Sprintf("shape=note, label=\"%s\"", e.escapeLabel(n.Name))
	case diagram.StateNode:
		return fmt.Sprintf("style=rounded, label=\"%s\"", text)
	case diagram.InitialStateNode:
		return "shape=circle, style=filled, fillcolor=black, label=\"\", width=0.2"
	case diagram.FinalStateNode:
		return "shape=doublecircle, style=filled, fillcolor=black, label=\"\", width=0.2"
	case diagram.ActorNode:
		return fmt.Sprintf("shape=plaintext, label=\"%s\"", text)
	case diagram.UseCaseNode:
		return fmt.Sprintf("shape=ellipse, label=\"%s\"", text)
	}
	return fmt.Sprintf("label=\"%s\"", text)
}

func (e *GraphvizExporter) edgeAttributes(edge diagram.Edge) string {
	var attrs []string
	if edge.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", e.escapeLabel(edge.Label)))
	}
	switch edge.Type {
	case diagram.GeneralizationEdge, diagram.UseCaseGeneralizationEdge:
		attrs = append(attrs, "arrowhead=empty")
	case diagram.AggregationEdge:
		attrs = append(attrs, "dir=back", "arrowtail=odiamond")
	case diagram.CompositionEdge:
		attrs = append(attrs, "dir=back", "arrowtail=diamond")
	case diagram.DependencyEdge, diagram.ReturnEdge, diagram.UseCaseDependencyEdge:
		attrs = append(attrs, "style=dashed")
	case diagram.NoteEdge:
		attrs = append(attrs, "style=dotted", "arrowhead=none")
	case diagram.ObjectCollaborationEdge, diagram.UseCaseAssociationEdge:
		attrs = append(attrs, "arrowhead=none")
	}
	return strings.Join(attrs, ", ")
}

// FileExtension returns the recommended file extension
func (e *GraphvizExporter) FileExtension() string {
	return ".dot"
}

// FormatName returns the format name
func (e *GraphvizExporter) FormatName() string {
	return "Graphviz DOT"
}
