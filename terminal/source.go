package terminal

import (
	"fmt"
	"path/filepath"

	"jetuml/diagram"
	"jetuml/persist"
	"jetuml/registry"
)

// Source supplies the text the viewer shows.
type Source interface {
	// Title names the content in the status line.
	Title() string
	// Render produces the current text. It is called again on every reload.
	Render() (string, error)
}

// FileSource renders a diagram file with the viewer registered for its kind.
type FileSource struct {
	Path  string
	Store *persist.Store

	kind diagram.Kind
	seen bool
}

// NewFileSource creates a source for the diagram at path.
func NewFileSource(path string, store *persist.Store) *FileSource {
	if store == nil {
		store = persist.NewStore(nil)
	}
	return &FileSource{Path: path, Store: store}
}

// Title returns the file name and, once loaded, the diagram label.
func (s *FileSource) Title() string {
	name := filepath.Base(s.Path)
	if !s.seen {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, registry.Describe(s.kind).Label)
}

// Render loads the file and renders it.
func (s *FileSource) Render() (string, error) {
	d, err := s.Store.Load(s.Path)
	if err != nil {
		return "", err
	}
	s.kind, s.seen = registry.KindOf(d), true
	out, err := registry.Viewer(d).Render(d)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", s.Path, err)
	}
	return out, nil
}
