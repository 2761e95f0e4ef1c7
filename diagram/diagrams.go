package diagram

// Diagram is implemented by the five concrete diagram types of this package
// and by nothing else.
type Diagram interface {
	// Graph returns the mutable node and edge storage of the diagram.
	Graph() *Graph
	// Metadata returns the mutable metadata of the diagram.
	Metadata() *Metadata
	// Clone returns a deep copy with the same concrete type.
	Clone() Diagram

	sealed()
}

type base struct {
	graph Graph
	meta  Metadata
}

func (b *base) Graph() *Graph       { return &b.graph }
func (b *base) Metadata() *Metadata { return &b.meta }
func (b *base) sealed()             {}

func (b *base) cloneBase() base {
	return base{graph: *b.graph.Clone(), meta: b.meta}
}

// ClassDiagram shows classes, interfaces and packages with their relationships.
type ClassDiagram struct{ base }

// SequenceDiagram shows call sequences between object lifelines.
type SequenceDiagram struct{ base }

// StateDiagram shows states and the transitions between them.
type StateDiagram struct{ base }

// ObjectDiagram shows object instances, their fields and references.
type ObjectDiagram struct{ base }

// UseCaseDiagram shows actors and the use cases they take part in.
type UseCaseDiagram struct{ base }

// NewClassDiagram returns an empty class diagram.
func NewClassDiagram() *ClassDiagram { return &ClassDiagram{} }

// NewSequenceDiagram returns an empty sequence diagram.
func NewSequenceDiagram() *SequenceDiagram { return &SequenceDiagram{} }

// NewStateDiagram returns an empty state diagram.
func NewStateDiagram() *StateDiagram { return &StateDiagram{} }

// NewObjectDiagram returns an empty object diagram.
func NewObjectDiagram() *ObjectDiagram { return &ObjectDiagram{} }

// NewUseCaseDiagram returns an empty use case diagram.
func NewUseCaseDiagram() *UseCaseDiagram { return &UseCaseDiagram{} }

func (d *ClassDiagram) Clone() Diagram    { return &ClassDiagram{d.cloneBase()} }
func (d *SequenceDiagram) Clone() Diagram { return &SequenceDiagram{d.cloneBase()} }
func (d *StateDiagram) Clone() Diagram    { return &StateDiagram{d.cloneBase()} }
func (d *ObjectDiagram) Clone() Diagram   { return &ObjectDiagram{d.cloneBase()} }
func (d *UseCaseDiagram) Clone() Diagram  { return &UseCaseDiagram{d.cloneBase()} }
