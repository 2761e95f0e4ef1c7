package builder

import "jetuml/diagram"

// ClassDiagramBuilder edits class diagrams.
type ClassDiagramBuilder struct{ builder }

// SequenceDiagramBuilder edits sequence diagrams. Calls that target an object
// lifeline directly get a new activation on that lifeline.
type SequenceDiagramBuilder struct{ builder }

// StateDiagramBuilder edits state diagrams.
type StateDiagramBuilder struct{ builder }

// ObjectDiagramBuilder edits object diagrams.
type ObjectDiagramBuilder struct{ builder }

// UseCaseDiagramBuilder edits use case diagrams.
type UseCaseDiagramBuilder struct{ builder }

// NewClassDiagramBuilder returns a builder bound to d.
func NewClassDiagramBuilder(d *diagram.ClassDiagram) *ClassDiagramBuilder {
	return &ClassDiagramBuilder{builder{d: d, rules: classRules}}
}

// NewSequenceDiagramBuilder returns a builder bound to d.
func NewSequenceDiagramBuilder(d *diagram.SequenceDiagram) *SequenceDiagramBuilder {
	return &SequenceDiagramBuilder{builder{d: d, rules: sequenceRules}}
}

// NewStateDiagramBuilder returns a builder bound to d.
func NewStateDiagramBuilder(d *diagram.StateDiagram) *StateDiagramBuilder {
	return &StateDiagramBuilder{builder{d: d, rules: stateRules}}
}

// NewObjectDiagramBuilder returns a builder bound to d.
func NewObjectDiagramBuilder(d *diagram.ObjectDiagram) *ObjectDiagramBuilder {
	return &ObjectDiagramBuilder{builder{d: d, rules: objectRules}}
}

// NewUseCaseDiagramBuilder returns a builder bound to d.
func NewUseCaseDiagramBuilder(d *diagram.UseCaseDiagram) *UseCaseDiagramBuilder {
	return &UseCaseDiagramBuilder{builder{d: d, rules: useCaseRules}}
}

// NodeTypes returns the node types a builder of the given kind accepts.
func NodeTypes(k diagram.Kind) []diagram.NodeType {
	r := rulesFor(k)
	if r == nil {
		return nil
	}
	var out []diagram.NodeType
	for _, t := range allNodeTypes {
		if r.allowsNode(t) {
			out = append(out, t)
		}
	}
	return out
}

// EdgeTypes returns the edge types a builder of the given kind accepts.
func EdgeTypes(k diagram.Kind) []diagram.EdgeType {
	r := rulesFor(k)
	if r == nil {
		return nil
	}
	var out []diagram.EdgeType
	for _, t := range allEdgeTypes {
		if _, ok := r.edges[t]; ok || t == diagram.NoteEdge {
			out = append(out, t)
		}
	}
	return out
}

func rulesFor(k diagram.Kind) *rules {
	switch k {
	case diagram.KindClass:
		return classRules
	case diagram.KindSequence:
		return sequenceRules
	case diagram.KindState:
		return stateRules
	case diagram.KindObject:
		return objectRules
	case diagram.KindUseCase:
		return useCaseRules
	}
	return nil
}

var allNodeTypes = []diagram.NodeType{
	diagram.ClassNode, diagram.InterfaceNode, diagram.PackageNode,
	diagram.ImplicitParameterNode, diagram.CallNode,
	diagram.StateNode, diagram.InitialStateNode, diagram.FinalStateNode,
	diagram.ObjectNode, diagram.FieldNode,
	diagram.ActorNode, diagram.UseCaseNode,
	diagram.NoteNode,
}

var allEdgeTypes = []diagram.EdgeType{
	diagram.DependencyEdge, diagram.GeneralizationEdge, diagram.AggregationEdge,
	diagram.CompositionEdge, diagram.AssociationEdge,
	diagram.CallEdge, diagram.ReturnEdge,
	diagram.StateTransitionEdge,
	diagram.ObjectReferenceEdge, diagram.ObjectCollaborationEdge,
	diagram.UseCaseAssociationEdge, diagram.UseCaseDependencyEdge, diagram.UseCaseGeneralizationEdge,
	diagram.NoteEdge,
}
