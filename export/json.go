package export

import (
	"fmt"
	"strings"

	"jetuml/diagram"
	"jetuml/persist"
)

// JSONExporter exports diagrams in the saved file format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a diagram to JSON
func (e *JSONExporter) Export(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}
	var sb strings.Builder
	if err := persist.Encode(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FileExtension returns the file extension for JSON
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name
func (e *JSONExporter) FormatName() string {
	return "JSON"
}
