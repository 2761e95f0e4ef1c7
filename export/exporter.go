// Package export provides functionality to export diagrams to various text-based formats
package export

import (
	"fmt"
	"strings"

	"jetuml/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatASCII exports to Unicode art, as shown by the viewers
	FormatASCII Format = "ascii"
	// FormatJSON exports the saved file format
	FormatJSON Format = "json"
	// FormatPlantUML exports to PlantUML syntax
	FormatPlantUML Format = "plantuml"
	// FormatMermaid exports to Mermaid diagram syntax
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports to Graphviz DOT syntax
	FormatGraphviz Format = "graphviz"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d diagram.Diagram) (string, error)
	// FileExtension returns the recommended file extension for this format
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// New creates an exporter for the specified format
func New(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatPlantUML:
		return NewPlantUMLExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "plantuml", "puml":
		return FormatPlantUML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "graphviz", "dot":
		return FormatGraphviz, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatJSON,
		FormatPlantUML,
		FormatMermaid,
		FormatGraphviz,
	}
}

// Descriptions returns human-readable descriptions of all formats
func Descriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:    "Unicode art (terminal viewer output)",
		FormatJSON:     "JSON diagram file",
		FormatPlantUML: "PlantUML diagram syntax",
		FormatMermaid:  "Mermaid diagram syntax (for Markdown)",
		FormatGraphviz: "Graphviz DOT syntax",
	}
}

// nodeID returns the identifier used for a node in generated sources.
func nodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// owner returns the top-level ancestor of a node.
func owner(g *diagram.Graph, id int) int {
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

// label returns the display text of a node, falling back to its id.
func label(n diagram.Node) string {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Sprintf("Node%d", n.ID)
	}
	return n.Name
}

// quote escapes s for use inside a double-quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// fieldText renders an object field node as "name = value".
func fieldText(f diagram.Node) string {
	value := ""
	if len(f.Attributes) > 0 {
		value = f.Attributes[0]
	}
	return f.Name + " = " + value
}

// noteTargets maps each note node to the nodes its note edges point at.
func noteTargets(g *diagram.Graph) map[int][]int {
	targets := make(map[int][]int)
	for _, e := range g.Edges() {
		if e.Type == diagram.NoteEdge {
			targets[e.Start] = append(targets[e.Start], e.End)
		}
	}
	return targets
}
