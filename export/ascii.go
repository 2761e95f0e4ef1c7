package export

import (
	"fmt"

	"jetuml/diagram"
	"jetuml/registry"
)

// ASCIIExporter exports diagrams using the viewer registered for their kind
type ASCIIExporter struct{}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{}
}

// Export converts the diagram to Unicode art
func (e *ASCIIExporter) Export(d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}

	output, err := registry.Viewer(d).Render(d)
	if err != nil {
		return "", fmt.Errorf("failed to render diagram: %w", err)
	}
	return output, nil
}

// FileExtension returns the recommended file extension
func (e *ASCIIExporter) FileExtension() string {
	return ".txt"
}

// FormatName returns the format name
func (e *ASCIIExporter) FormatName() string {
	return "ASCII/Unicode Art"
}
