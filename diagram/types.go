// Package diagram contains the UML data model shared by builders, viewers and persistence.
package diagram

// Point represents a 2D coordinate in character cells.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NodeType names the kind of element a node represents.
type NodeType string

// Node types across all diagram kinds.
const (
	ClassNode             NodeType = "ClassNode"
	InterfaceNode         NodeType = "InterfaceNode"
	PackageNode           NodeType = "PackageNode"
	NoteNode              NodeType = "NoteNode"
	ImplicitParameterNode NodeType = "ImplicitParameterNode"
	CallNode              NodeType = "CallNode"
	StateNode             NodeType = "StateNode"
	InitialStateNode      NodeType = "InitialStateNode"
	FinalStateNode        NodeType = "FinalStateNode"
	ObjectNode            NodeType = "ObjectNode"
	FieldNode             NodeType = "FieldNode"
	ActorNode             NodeType = "ActorNode"
	UseCaseNode           NodeType = "UseCaseNode"
)

// EdgeType names the kind of relationship an edge represents.
type EdgeType string

// Edge types across all diagram kinds.
const (
	DependencyEdge            EdgeType = "DependencyEdge"
	GeneralizationEdge        EdgeType = "GeneralizationEdge"
	AggregationEdge           EdgeType = "AggregationEdge"
	CompositionEdge           EdgeType = "CompositionEdge"
	AssociationEdge           EdgeType = "AssociationEdge"
	NoteEdge                  EdgeType = "NoteEdge"
	CallEdge                  EdgeType = "CallEdge"
	ReturnEdge                EdgeType = "ReturnEdge"
	StateTransitionEdge       EdgeType = "StateTransitionEdge"
	ObjectReferenceEdge       EdgeType = "ObjectReferenceEdge"
	ObjectCollaborationEdge   EdgeType = "ObjectCollaborationEdge"
	UseCaseAssociationEdge    EdgeType = "UseCaseAssociationEdge"
	UseCaseDependencyEdge     EdgeType = "UseCaseDependencyEdge"
	UseCaseGeneralizationEdge EdgeType = "UseCaseGeneralizationEdge"
)

// Node represents an element of a diagram.
type Node struct {
	ID         int      `json:"id"`
	Type       NodeType `json:"type"`
	Name       string   `json:"name,omitempty"`
	Attributes []string `json:"attributes,omitempty"` // Class attributes or object field values
	Methods    []string `json:"methods,omitempty"`
	Parent     int      `json:"parent,omitempty"` // 0 for top-level nodes
	Position   Point    `json:"position"`
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	ID    int      `json:"id"`
	Type  EdgeType `json:"type"`
	Start int      `json:"start"` // Source node ID
	End   int      `json:"end"`   // Target node ID
	Label string   `json:"label,omitempty"`
}

// Metadata contains optional diagram metadata.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Created string `json:"created,omitempty"`
	Version string `json:"version,omitempty"`
}

func (n Node) clone() Node {
	c := n
	if n.Attributes != nil {
		c.Attributes = append([]string(nil), n.Attributes...)
	}
	if n.Methods != nil {
		c.Methods = append([]string(nil), n.Methods...)
	}
	return c
}
