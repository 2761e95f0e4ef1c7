// Package persist reads and writes diagram files.
//
// A file is a JSON document naming the diagram kind by its display name:
//
//	{"diagram": "classdiagram", "version": "1.0", "metadata": {...}, "nodes": [...], "edges": [...]}
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"jetuml/diagram"
	"jetuml/registry"
)

// FormatVersion is written to every saved file.
const FormatVersion = "1.0"

var (
	ErrUnknownKind   = errors.New("unknown diagram kind")
	ErrVersion       = errors.New("unsupported format version")
	ErrDanglingEdge  = errors.New("edge references a missing node")
	ErrMissingParent = errors.New("node references a missing parent")
	ErrParentCycle   = errors.New("node parent chain forms a cycle")
	ErrKindMismatch  = errors.New("diagram kind does not match file extension")
)

type document struct {
	Diagram  string           `json:"diagram"`
	Version  string           `json:"version"`
	Metadata diagram.Metadata `json:"metadata"`
	Nodes    []diagram.Node   `json:"nodes"`
	Edges    []diagram.Edge   `json:"edges"`
}

// Store saves and loads diagram files.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a store. A nil logger uses slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Encode writes d as an indented JSON document.
func Encode(w io.Writer, d diagram.Diagram) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}
	g := d.Graph()
	doc := document{
		Diagram:  registry.DisplayName(registry.KindOf(d)),
		Version:  FormatVersion,
		Metadata: *d.Metadata(),
		Nodes:    g.Nodes(),
		Edges:    g.Edges(),
	}
	if doc.Nodes == nil {
		doc.Nodes = []diagram.Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []diagram.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	return nil
}

// Decode reads a JSON document using the default logger.
func Decode(r io.Reader) (diagram.Diagram, error) {
	return NewStore(nil).Decode(r)
}

// Decode reads a JSON document and rebuilds the diagram it describes.
// Missing or duplicate ids are renumbered; diagram rules are not checked.
func (s *Store) Decode(r io.Reader) (diagram.Diagram, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse diagram: %w", err)
	}
	if major, _, _ := strings.Cut(doc.Version, "."); major != "1" {
		return nil, fmt.Errorf("version %q: %w", doc.Version, ErrVersion)
	}
	kind, ok := registry.Lookup(doc.Diagram)
	if !ok {
		return nil, fmt.Errorf("%q: %w", doc.Diagram, ErrUnknownKind)
	}

	d := registry.NewDiagram(kind)
	*d.Metadata() = doc.Metadata
	g := d.Graph()
	for _, n := range doc.Nodes {
		stored := g.AddNode(n)
		if stored.ID != n.ID {
			s.logger.Warn("Renumbered node", "from", n.ID, "to", stored.ID, "name", n.Name)
		}
	}
	for _, n := range g.Nodes() {
		if n.Parent == 0 {
			continue
		}
		if _, ok := g.Node(n.Parent); !ok {
			return nil, fmt.Errorf("node %d parent %d: %w", n.ID, n.Parent, ErrMissingParent)
		}
		if g.InParentCycle(n.ID) {
			return nil, fmt.Errorf("node %d parent %d: %w", n.ID, n.Parent, ErrParentCycle)
		}
	}
	for _, e := range doc.Edges {
		_, startOK := g.Node(e.Start)
		_, endOK := g.Node(e.End)
		if !startOK || !endOK {
			return nil, fmt.Errorf("edge %d (%d -> %d): %w", e.ID, e.Start, e.End, ErrDanglingEdge)
		}
		stored := g.AddEdge(e)
		if stored.ID != e.ID {
			s.logger.Warn("Renumbered edge", "from", e.ID, "to", stored.ID)
		}
	}

	s.logger.Debug("Decoded diagram",
		"kind", kind,
		"nodes", len(doc.Nodes),
		"edges", len(doc.Edges))
	return d, nil
}

// PathFor returns path with the file extension for d's kind appended,
// unless path already ends with it.
func PathFor(path string, d diagram.Diagram) string {
	ext := registry.FileExtension(registry.KindOf(d))
	if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
		return path
	}
	return path + ext
}

// Save writes d using the default logger.
func Save(path string, d diagram.Diagram) (string, error) {
	return NewStore(nil).Save(path, d)
}

// Save writes d to path, appending the kind's file extension when missing,
// and returns the path written.
func (s *Store) Save(path string, d diagram.Diagram) (string, error) {
	if d == nil {
		return "", fmt.Errorf("diagram is nil")
	}
	path = PathFor(path, d)
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Debug("Saved diagram", "path", path, "bytes", buf.Len())
	return path, nil
}

// Load reads a diagram using the default logger.
func Load(path string) (diagram.Diagram, error) {
	return NewStore(nil).Load(path)
}

// Load reads the diagram at path. If the path ends with a registered file
// extension, the stored kind must match it.
func (s *Store) Load(path string) (diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagram: %w", err)
	}
	defer f.Close()

	d, err := s.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if want, ok := registry.KindForPath(path); ok {
		if got := registry.KindOf(d); got != want {
			return nil, fmt.Errorf("%s holds a %s diagram, extension implies %s: %w", path, got, want, ErrKindMismatch)
		}
	}
	s.logger.Debug("Loaded diagram", "path", path)
	return d, nil
}
