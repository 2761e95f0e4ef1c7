package builder

import (
	"fmt"

	"jetuml/diagram"
)

// edgeCheck validates the endpoints of an edge beyond the common rules.
type edgeCheck func(g *diagram.Graph, e diagram.Edge, start, end diagram.Node) error

// rules describes what a diagram kind accepts.
type rules struct {
	kind diagram.Kind
	// nodes lists the node types allowed at top level or nested.
	nodes map[diagram.NodeType]bool
	// contains maps a container type to the child types it accepts.
	contains map[diagram.NodeType][]diagram.NodeType
	// nested lists node types that must have a parent.
	nested map[diagram.NodeType]bool
	// edges maps each allowed edge type to its endpoint check (nil for none).
	edges map[diagram.EdgeType]edgeCheck
	// normalize adjusts an edge before it is checked, for example to default a label.
	normalize func(e *diagram.Edge)
	// connect performs the graph change for a new edge; nil means AddEdge.
	connect func(g *diagram.Graph, e diagram.Edge)
}

func (r *rules) allowsNode(t diagram.NodeType) bool {
	return t == diagram.NoteNode || r.nodes[t]
}

func (r *rules) canContain(parent, child diagram.NodeType) bool {
	for _, t := range r.contains[parent] {
		if t == child {
			return true
		}
	}
	return false
}

func nodeSet(types ...diagram.NodeType) map[diagram.NodeType]bool {
	m := make(map[diagram.NodeType]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

func is(n diagram.Node, types ...diagram.NodeType) bool {
	for _, t := range types {
		if n.Type == t {
			return true
		}
	}
	return false
}

func endpointError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEndpoint, fmt.Sprintf(format, args...))
}

// Class diagrams

var classRules = &rules{
	kind:  diagram.KindClass,
	nodes: nodeSet(diagram.ClassNode, diagram.InterfaceNode, diagram.PackageNode),
	contains: map[diagram.NodeType][]diagram.NodeType{
		diagram.PackageNode: {diagram.ClassNode, diagram.InterfaceNode, diagram.PackageNode, diagram.NoteNode},
	},
	edges: map[diagram.EdgeType]edgeCheck{
		diagram.DependencyEdge:     classifiers,
		diagram.AssociationEdge:    classifiers,
		diagram.AggregationEdge:    classifiers,
		diagram.CompositionEdge:    classifiers,
		diagram.GeneralizationEdge: generalization,
	},
}

func classifiers(_ *diagram.Graph, e diagram.Edge, start, end diagram.Node) error {
	types := []diagram.NodeType{diagram.ClassNode, diagram.InterfaceNode, diagram.PackageNode}
	if !is(start, types...) || !is(end, types...) {
		return endpointError("%s connects classes, interfaces and packages", e.Type)
	}
	return nil
}

func generalization(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if !is(start, diagram.ClassNode, diagram.InterfaceNode) || !is(end, diagram.ClassNode, diagram.InterfaceNode) {
		return endpointError("generalization connects classes and interfaces")
	}
	if start.ID == end.ID {
		return endpointError("a type cannot generalize itself")
	}
	if start.Type == diagram.InterfaceNode && end.Type != diagram.InterfaceNode {
		return endpointError("an interface can only extend an interface")
	}
	return nil
}

// Sequence diagrams

var sequenceRules = &rules{
	kind:  diagram.KindSequence,
	nodes: nodeSet(diagram.ImplicitParameterNode, diagram.CallNode),
	contains: map[diagram.NodeType][]diagram.NodeType{
		diagram.ImplicitParameterNode: {diagram.CallNode},
	},
	nested: nodeSet(diagram.CallNode),
	edges: map[diagram.EdgeType]edgeCheck{
		diagram.CallEdge:   call,
		diagram.ReturnEdge: callReturn,
	},
	connect: connectCall,
}

func call(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if !is(start, diagram.CallNode) {
		return endpointError("a call starts at a call")
	}
	if !is(end, diagram.CallNode, diagram.ImplicitParameterNode) {
		return endpointError("a call ends at a call or an object lifeline")
	}
	if start.ID == end.ID {
		return endpointError("a call cannot target its own activation")
	}
	return nil
}

func callReturn(g *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if !is(start, diagram.CallNode) || !is(end, diagram.CallNode) {
		return endpointError("a return connects two calls")
	}
	if start.ID == end.ID {
		return endpointError("a call cannot return to itself")
	}
	for _, e := range g.Edges() {
		if e.Type == diagram.CallEdge && e.Start == end.ID && e.End == start.ID {
			return nil
		}
	}
	return endpointError("no call from %d to %d to return from", end.ID, start.ID)
}

// connectCall adds an activation on a lifeline that is called directly.
func connectCall(g *diagram.Graph, e diagram.Edge) {
	if e.Type == diagram.CallEdge {
		e.End = activation(g, e.End)
	}
	g.AddEdge(e)
}

func activation(g *diagram.Graph, id int) int {
	n, ok := g.Node(id)
	if !ok || n.Type != diagram.ImplicitParameterNode {
		return id
	}
	return g.AddNode(diagram.Node{Type: diagram.CallNode, Parent: id}).ID
}

// State diagrams

var stateRules = &rules{
	kind:  diagram.KindState,
	nodes: nodeSet(diagram.StateNode, diagram.InitialStateNode, diagram.FinalStateNode),
	edges: map[diagram.EdgeType]edgeCheck{
		diagram.StateTransitionEdge: transition,
	},
}

func transition(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if start.Type == diagram.FinalStateNode {
		return endpointError("no transition can leave a final state")
	}
	if end.Type == diagram.InitialStateNode {
		return endpointError("no transition can enter an initial state")
	}
	return nil
}

// Object diagrams

var objectRules = &rules{
	kind:  diagram.KindObject,
	nodes: nodeSet(diagram.ObjectNode, diagram.FieldNode),
	contains: map[diagram.NodeType][]diagram.NodeType{
		diagram.ObjectNode: {diagram.FieldNode},
	},
	nested: nodeSet(diagram.FieldNode),
	edges: map[diagram.EdgeType]edgeCheck{
		diagram.ObjectReferenceEdge:     reference,
		diagram.ObjectCollaborationEdge: collaboration,
	},
}

func reference(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if start.Type != diagram.FieldNode || end.Type != diagram.ObjectNode {
		return endpointError("a reference goes from a field to an object")
	}
	return nil
}

func collaboration(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if start.Type != diagram.ObjectNode || end.Type != diagram.ObjectNode {
		return endpointError("a collaboration connects two objects")
	}
	return nil
}

// Use case diagrams

// Labels accepted on use case dependencies.
const (
	IncludeLabel = "«include»"
	ExtendLabel  = "«extend»"
)

var useCaseRules = &rules{
	kind:  diagram.KindUseCase,
	nodes: nodeSet(diagram.ActorNode, diagram.UseCaseNode),
	edges: map[diagram.EdgeType]edgeCheck{
		diagram.UseCaseAssociationEdge:    useCaseAssociation,
		diagram.UseCaseGeneralizationEdge: useCaseGeneralization,
		diagram.UseCaseDependencyEdge:     useCaseDependency,
	},
	normalize: func(e *diagram.Edge) {
		if e.Type == diagram.UseCaseDependencyEdge && e.Label == "" {
			e.Label = IncludeLabel
		}
	},
}

func useCaseAssociation(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	actorToCase := start.Type == diagram.ActorNode && end.Type == diagram.UseCaseNode
	caseToActor := start.Type == diagram.UseCaseNode && end.Type == diagram.ActorNode
	if !actorToCase && !caseToActor {
		return endpointError("an association connects an actor and a use case")
	}
	return nil
}

func useCaseGeneralization(_ *diagram.Graph, _ diagram.Edge, start, end diagram.Node) error {
	if start.Type != end.Type {
		return endpointError("generalization connects elements of the same type")
	}
	if start.ID == end.ID {
		return endpointError("an element cannot generalize itself")
	}
	return nil
}

func useCaseDependency(_ *diagram.Graph, e diagram.Edge, start, end diagram.Node) error {
	if start.Type != diagram.UseCaseNode || end.Type != diagram.UseCaseNode {
		return endpointError("a dependency connects two use cases")
	}
	if e.Label != IncludeLabel && e.Label != ExtendLabel {
		return fmt.Errorf("%w: %q, expected %s or %s", ErrLabel, e.Label, IncludeLabel, ExtendLabel)
	}
	return nil
}
