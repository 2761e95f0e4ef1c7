// Package registry maps each diagram kind to its diagram factory, builder
// factory, viewer and file extension.
//
// The set of kinds is closed. All dispatch on diagram kind goes through this
// package so the rest of the program never switches on concrete diagram types.
package registry

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jetuml/builder"
	"jetuml/diagram"
	"jetuml/render"
	"jetuml/resources"
)

// Descriptor is a read-only summary of a registered kind.
type Descriptor struct {
	Kind          diagram.Kind
	Name          string // Display name, e.g. "classdiagram"
	Label         string // Human-readable label, e.g. "Class Diagram"
	FileExtension string
	Viewer        string // Viewer type name
}

type entry struct {
	kind       diagram.Kind
	name       string
	label      string
	extension  string
	viewerName string
	viewer     render.Viewer
	matches    func(diagram.Diagram) bool
	newDiagram func() diagram.Diagram
	newBuilder func(diagram.Diagram) builder.DiagramBuilder
}

type table struct {
	entries [len(kindNames)]*entry
}

// kindNames holds the display name of each kind, indexed by diagram.Kind.
// Each is the lower-cased name of the concrete diagram type.
var kindNames = [...]string{
	diagram.KindClass:    "classdiagram",
	diagram.KindSequence: "sequencediagram",
	diagram.KindState:    "statediagram",
	diagram.KindObject:   "objectdiagram",
	diagram.KindUseCase:  "usecasediagram",
}

var (
	once    sync.Once
	current *table
)

func registry() *table {
	once.Do(func() {
		current = build(resources.Default())
	})
	return current
}

// isType reports whether d holds a non-nil value of pointer type T.
func isType[T comparable](d diagram.Diagram) bool {
	v, ok := d.(T)
	var zero T
	return ok && v != zero
}

// build creates the table, reading file extensions and labels from b.
// Missing or clashing extensions are faults.
func build(b *resources.Bundle) *table {
	t := &table{}
	add := func(e *entry) {
		e.name = kindNames[e.kind]
		ext, ok := b.Lookup(e.name + ".file.extension")
		if !ok || strings.TrimSpace(ext) == "" {
			fault("init", "no file extension for %s", e.name)
		}
		e.extension = ext
		if label, ok := b.Lookup(e.name + ".label"); ok && label != "" {
			e.label = label
		} else {
			e.label = cases.Title(language.English).String(e.kind.String() + " diagram")
		}
		t.entries[e.kind] = e
	}

	add(&entry{
		kind:       diagram.KindClass,
		viewerName: "DiagramViewer",
		viewer:     render.NewDiagramViewer(),
		matches:    isType[*diagram.ClassDiagram],
		newDiagram: func() diagram.Diagram { return diagram.NewClassDiagram() },
		newBuilder: func(d diagram.Diagram) builder.DiagramBuilder {
			return builder.NewClassDiagramBuilder(d.(*diagram.ClassDiagram))
		},
	})
	add(&entry{
		kind:       diagram.KindSequence,
		viewerName: "SequenceDiagramViewer",
		viewer:     render.NewSequenceDiagramViewer(),
		matches:    isType[*diagram.SequenceDiagram],
		newDiagram: func() diagram.Diagram { return diagram.NewSequenceDiagram() },
		newBuilder: func(d diagram.Diagram) builder.DiagramBuilder {
			return builder.NewSequenceDiagramBuilder(d.(*diagram.SequenceDiagram))
		},
	})
	add(&entry{
		kind:       diagram.KindState,
		viewerName: "DiagramViewer",
		viewer:     render.NewDiagramViewer(),
		matches:    isType[*diagram.StateDiagram],
		newDiagram: func() diagram.Diagram { return diagram.NewStateDiagram() },
		newBuilder: func(d diagram.Diagram) builder.DiagramBuilder {
			return builder.NewStateDiagramBuilder(d.(*diagram.StateDiagram))
		},
	})
	add(&entry{
		kind:       diagram.KindObject,
		viewerName: "DiagramViewer",
		viewer:     render.NewDiagramViewer(),
		matches:    isType[*diagram.ObjectDiagram],
		newDiagram: func() diagram.Diagram { return diagram.NewObjectDiagram() },
		newBuilder: func(d diagram.Diagram) builder.DiagramBuilder {
			return builder.NewObjectDiagramBuilder(d.(*diagram.ObjectDiagram))
		},
	})
	add(&entry{
		kind:       diagram.KindUseCase,
		viewerName: "DiagramViewer",
		viewer:     render.NewDiagramViewer(),
		matches:    isType[*diagram.UseCaseDiagram],
		newDiagram: func() diagram.Diagram { return diagram.NewUseCaseDiagram() },
		newBuilder: func(d diagram.Diagram) builder.DiagramBuilder {
			return builder.NewUseCaseDiagramBuilder(d.(*diagram.UseCaseDiagram))
		},
	})

	seen := make(map[string]string)
	for _, e := range t.entries {
		if other, dup := seen[e.extension]; dup {
			fault("init", "%s and %s share file extension %q", other, e.name, e.extension)
		}
		seen[e.extension] = e.name
	}
	return t
}

func (t *table) entry(op string, k diagram.Kind) *entry {
	if !k.Valid() {
		fault(op, "invalid kind %d", int(k))
	}
	return t.entries[k]
}

func (t *table) kindOf(op string, d diagram.Diagram) diagram.Kind {
	if d == nil {
		fault(op, "nil diagram")
	}
	for _, e := range t.entries {
		if e.matches(d) {
			return e.kind
		}
	}
	fault(op, "%T matches no registered kind", d)
	return 0
}

// FileExtension returns the file extension used to save diagrams of kind k.
func FileExtension(k diagram.Kind) string {
	return registry().entry("FileExtension", k).extension
}

// KindOf returns the kind of d. It panics with a *Fault if d is nil or
// its type is not a registered diagram type.
func KindOf(d diagram.Diagram) diagram.Kind {
	return registry().kindOf("KindOf", d)
}

// NewDiagram creates an empty diagram of kind k.
func NewDiagram(k diagram.Kind) diagram.Diagram {
	t := registry()
	d := t.entry("NewDiagram", k).newDiagram()
	if d == nil || !t.entries[k].matches(d) {
		fault("NewDiagram", "factory for %s returned %T", k, d)
	}
	return d
}

// NewBuilder creates a builder bound to d.
func NewBuilder(d diagram.Diagram) builder.DiagramBuilder {
	t := registry()
	k := t.kindOf("NewBuilder", d)
	b := t.entries[k].newBuilder(d)
	if b == nil || b.Diagram() != d || b.TargetKind() != k {
		fault("NewBuilder", "builder factory for %s is not bound to the diagram", k)
	}
	return b
}

// Viewer returns the viewer for the kind of d. The same instance is returned
// on every call.
func Viewer(d diagram.Diagram) render.Viewer {
	t := registry()
	return t.entries[t.kindOf("Viewer", d)].viewer
}

// ViewerFor returns the viewer for kind k.
func ViewerFor(k diagram.Kind) render.Viewer {
	return registry().entry("ViewerFor", k).viewer
}

// DisplayName returns the lower-cased type name of kind k's diagrams,
// e.g. "classdiagram".
func DisplayName(k diagram.Kind) string {
	return registry().entry("DisplayName", k).name
}

// Kinds returns every registered kind in declaration order.
func Kinds() []diagram.Kind {
	return diagram.Kinds()
}

// Lookup resolves a display name such as "classdiagram", or a short kind
// name such as "class". Matching ignores case.
func Lookup(name string) (diagram.Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range registry().entries {
		if e.name == name {
			return e.kind, true
		}
	}
	if k, err := diagram.ParseKind(name); err == nil {
		return k, true
	}
	return 0, false
}

// KindForPath returns the kind whose file extension path ends with.
// When several extensions match, the longest wins.
func KindForPath(path string) (diagram.Kind, bool) {
	lower := strings.ToLower(path)
	best, found := diagram.Kind(0), false
	longest := 0
	for _, e := range registry().entries {
		ext := strings.ToLower(e.extension)
		if strings.HasSuffix(lower, ext) && len(ext) > longest {
			best, found, longest = e.kind, true, len(ext)
		}
	}
	return best, found
}

// Describe returns a summary of kind k.
func Describe(k diagram.Kind) Descriptor {
	e := registry().entry("Describe", k)
	return Descriptor{
		Kind:          e.kind,
		Name:          e.name,
		Label:         e.label,
		FileExtension: e.extension,
		Viewer:        e.viewerName,
	}
}

// Extensions returns every registered file extension, sorted.
func Extensions() []string {
	var out []string
	for _, e := range registry().entries {
		out = append(out, e.extension)
	}
	sort.Strings(out)
	return out
}
