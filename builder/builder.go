// Package builder mediates edits to diagrams and enforces the editing rules
// of each diagram kind.
package builder

import (
	"fmt"

	"jetuml/diagram"
)

// DiagramBuilder creates the operations that edit one diagram instance.
// Operations are returned unapplied; nothing changes until Execute is called.
type DiagramBuilder interface {
	// Diagram returns the diagram the builder is bound to.
	Diagram() diagram.Diagram
	// TargetKind returns the kind of diagram the builder edits.
	TargetKind() diagram.Kind

	CanAdd(n diagram.Node) bool
	CanConnect(e diagram.Edge) bool

	AddNode(n diagram.Node) (Operation, error)
	Connect(e diagram.Edge) (Operation, error)
	Remove(ids ...int) (Operation, error)
	Rename(id int, name string) (Operation, error)

	// Validate checks every element already in the diagram against the rules.
	Validate() []Violation
}

// builder implements DiagramBuilder on top of a kind's rules table.
type builder struct {
	d     diagram.Diagram
	rules *rules
}

func (b *builder) Diagram() diagram.Diagram { return b.d }

func (b *builder) TargetKind() diagram.Kind { return b.rules.kind }

func (b *builder) CanAdd(n diagram.Node) bool {
	return b.checkNode(b.d.Graph(), n) == nil
}

func (b *builder) CanConnect(e diagram.Edge) bool {
	if b.rules.normalize != nil {
		b.rules.normalize(&e)
	}
	return b.checkEdge(b.d.Graph(), e) == nil
}

// AddNode returns an operation adding n. The node receives a fresh id.
func (b *builder) AddNode(n diagram.Node) (Operation, error) {
	g := b.d.Graph()
	n.ID = 0
	if err := b.checkNode(g, n); err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("add %s %q", n.Type, n.Name)
	return newOperation(g, desc, func(g *diagram.Graph) {
		g.AddNode(n)
	}), nil
}

// Connect returns an operation adding e. The edge receives a fresh id.
func (b *builder) Connect(e diagram.Edge) (Operation, error) {
	g := b.d.Graph()
	e.ID = 0
	if b.rules.normalize != nil {
		b.rules.normalize(&e)
	}
	if err := b.checkEdge(g, e); err != nil {
		return nil, err
	}
	connect := b.rules.connect
	if connect == nil {
		connect = func(g *diagram.Graph, e diagram.Edge) { g.AddEdge(e) }
	}
	desc := fmt.Sprintf("connect %s %d -> %d", e.Type, e.Start, e.End)
	return newOperation(g, desc, func(g *diagram.Graph) {
		connect(g, e)
	}), nil
}

// Remove returns an operation removing nodes and edges by id.
// Removing a node also removes its children and every edge touching them.
func (b *builder) Remove(ids ...int) (Operation, error) {
	g := b.d.Graph()
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: nothing to remove", ErrNotFound)
	}
	for _, id := range ids {
		_, isNode := g.Node(id)
		_, isEdge := g.Edge(id)
		if !isNode && !isEdge {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
	}
	ids = append([]int(nil), ids...)
	return newOperation(g, fmt.Sprintf("remove %v", ids), func(g *diagram.Graph) {
		for _, id := range ids {
			if _, ok := g.Node(id); ok {
				g.RemoveNode(id)
			} else {
				g.RemoveEdge(id)
			}
		}
	}), nil
}

// Rename returns an operation changing the name of a node.
func (b *builder) Rename(id int, name string) (Operation, error) {
	g := b.d.Graph()
	n, ok := g.Node(id)
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNotFound, id)
	}
	if name == "" && !is(n, diagram.NoteNode, diagram.CallNode) {
		return nil, fmt.Errorf("%w: %s %d", ErrEmptyName, n.Type, id)
	}
	desc := fmt.Sprintf("rename %d to %q", id, name)
	return newOperation(g, desc, func(g *diagram.Graph) {
		n.Name = name
		g.UpdateNode(n)
	}), nil
}

func (b *builder) Validate() []Violation {
	g := b.d.Graph()
	var violations []Violation
	for _, n := range g.Nodes() {
		if err := b.checkNode(g, n); err != nil {
			violations = append(violations, Violation{ID: n.ID, Err: err})
		}
	}
	// Each edge is checked against the edges before it, so only the later
	// of two duplicates is reported.
	var seen diagram.Graph
	for _, n := range g.Nodes() {
		seen.AddNode(n)
	}
	for _, e := range g.Edges() {
		if err := b.checkEdge(&seen, e); err != nil {
			violations = append(violations, Violation{ID: e.ID, Err: err})
		}
		seen.AddEdge(e)
	}
	return violations
}

func (b *builder) checkNode(g *diagram.Graph, n diagram.Node) error {
	if !b.rules.allowsNode(n.Type) {
		return fmt.Errorf("%w: %s in a %s diagram", ErrNodeType, n.Type, b.rules.kind)
	}
	if n.Parent == 0 {
		if b.rules.nested[n.Type] {
			return fmt.Errorf("%w: %s needs a parent", ErrParent, n.Type)
		}
		return nil
	}
	parent, ok := g.Node(n.Parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNotFound, n.Parent)
	}
	if !b.rules.canContain(parent.Type, n.Type) {
		return fmt.Errorf("%w: %s cannot contain %s", ErrParent, parent.Type, n.Type)
	}
	if n.ID != 0 && g.InParentCycle(n.ID) {
		return fmt.Errorf("%w: parent chain of %d loops back on itself", ErrParent, n.ID)
	}
	return nil
}

func (b *builder) checkEdge(g *diagram.Graph, e diagram.Edge) error {
	check, allowed := b.rules.edges[e.Type]
	if !allowed && e.Type != diagram.NoteEdge {
		return fmt.Errorf("%w: %s in a %s diagram", ErrEdgeType, e.Type, b.rules.kind)
	}
	start, ok := g.Node(e.Start)
	if !ok {
		return fmt.Errorf("%w: start node %d", ErrNotFound, e.Start)
	}
	end, ok := g.Node(e.End)
	if !ok {
		return fmt.Errorf("%w: end node %d", ErrNotFound, e.End)
	}

	if e.Type == diagram.NoteEdge {
		if start.Type != diagram.NoteNode {
			return endpointError("a note edge starts at a note")
		}
	} else if start.Type == diagram.NoteNode || end.Type == diagram.NoteNode {
		return endpointError("only note edges attach to notes")
	}

	for _, other := range g.Edges() {
		if other.ID != e.ID && other.Type == e.Type && other.Start == e.Start && other.End == e.End {
			return fmt.Errorf("%w: %s %d -> %d", ErrDuplicateEdge, e.Type, e.Start, e.End)
		}
	}

	if check != nil {
		return check(g, e, start, end)
	}
	return nil
}
