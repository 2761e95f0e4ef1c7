package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jetuml/diagram"
)

// add applies a node addition and returns the stored node.
func add(t *testing.T, b DiagramBuilder, n diagram.Node) diagram.Node {
	t.Helper()
	g := b.Diagram().Graph()
	id := g.NextID()
	op, err := b.AddNode(n)
	require.NoError(t, err)
	op.Execute()
	got, ok := g.Node(id)
	require.True(t, ok)
	return got
}

func connect(t *testing.T, b DiagramBuilder, e diagram.Edge) {
	t.Helper()
	op, err := b.Connect(e)
	require.NoError(t, err)
	op.Execute()
}

func TestClassDiagramRules(t *testing.T) {
	b := NewClassDiagramBuilder(diagram.NewClassDiagram())
	require.Equal(t, diagram.KindClass, b.TargetKind())

	pkg := add(t, b, diagram.Node{Type: diagram.PackageNode, Name: "model"})
	shape := add(t, b, diagram.Node{Type: diagram.InterfaceNode, Name: "Shape"})
	circle := add(t, b, diagram.Node{Type: diagram.ClassNode, Name: "Circle", Parent: pkg.ID})
	note := add(t, b, diagram.Node{Type: diagram.NoteNode, Name: "remember"})

	connect(t, b, diagram.Edge{Type: diagram.GeneralizationEdge, Start: circle.ID, End: shape.ID})
	connect(t, b, diagram.Edge{Type: diagram.NoteEdge, Start: note.ID, End: circle.ID})

	_, err := b.AddNode(diagram.Node{Type: diagram.StateNode})
	require.ErrorIs(t, err, ErrNodeType)

	_, err = b.AddNode(diagram.Node{Type: diagram.ClassNode, Parent: shape.ID})
	require.ErrorIs(t, err, ErrParent)

	_, err = b.AddNode(diagram.Node{Type: diagram.ClassNode, Parent: 999})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.Connect(diagram.Edge{Type: diagram.GeneralizationEdge, Start: circle.ID, End: circle.ID})
	require.ErrorIs(t, err, ErrEndpoint)

	_, err = b.Connect(diagram.Edge{Type: diagram.GeneralizationEdge, Start: shape.ID, End: circle.ID})
	require.ErrorIs(t, err, ErrEndpoint, "an interface cannot extend a class")

	_, err = b.Connect(diagram.Edge{Type: diagram.GeneralizationEdge, Start: circle.ID, End: shape.ID})
	require.ErrorIs(t, err, ErrDuplicateEdge)

	_, err = b.Connect(diagram.Edge{Type: diagram.DependencyEdge, Start: circle.ID, End: note.ID})
	require.ErrorIs(t, err, ErrEndpoint, "only note edges attach to notes")

	_, err = b.Connect(diagram.Edge{Type: diagram.NoteEdge, Start: circle.ID, End: note.ID})
	require.ErrorIs(t, err, ErrEndpoint)

	_, err = b.Connect(diagram.Edge{Type: diagram.CallEdge, Start: circle.ID, End: shape.ID})
	require.ErrorIs(t, err, ErrEdgeType)

	require.True(t, b.CanConnect(diagram.Edge{Type: diagram.AggregationEdge, Start: pkg.ID, End: circle.ID}))
	require.False(t, b.CanAdd(diagram.Node{Type: diagram.ActorNode}))
	require.Empty(t, b.Validate())
}

func TestSequenceCallCreatesActivation(t *testing.T) {
	d := diagram.NewSequenceDiagram()
	b := NewSequenceDiagramBuilder(d)

	client := add(t, b, diagram.Node{Type: diagram.ImplicitParameterNode, Name: "client"})
	server := add(t, b, diagram.Node{Type: diagram.ImplicitParameterNode, Name: "server"})
	caller := add(t, b, diagram.Node{Type: diagram.CallNode, Parent: client.ID})

	_, err := b.AddNode(diagram.Node{Type: diagram.CallNode})
	require.ErrorIs(t, err, ErrParent, "calls live on a lifeline")

	connect(t, b, diagram.Edge{Type: diagram.CallEdge, Start: caller.ID, End: server.ID, Label: "fetch()"})

	callees := d.Graph().Children(server.ID)
	require.Len(t, callees, 1)
	require.Equal(t, diagram.CallNode, callees[0].Type)

	edges := d.Graph().Edges()
	require.Len(t, edges, 1)
	require.Equal(t, caller.ID, edges[0].Start)
	require.Equal(t, callees[0].ID, edges[0].End)

	// Return only along an existing call
	_, err = b.Connect(diagram.Edge{Type: diagram.ReturnEdge, Start: caller.ID, End: callees[0].ID})
	require.ErrorIs(t, err, ErrEndpoint)
	connect(t, b, diagram.Edge{Type: diagram.ReturnEdge, Start: callees[0].ID, End: caller.ID})

	_, err = b.Connect(diagram.Edge{Type: diagram.CallEdge, Start: caller.ID, End: caller.ID})
	require.ErrorIs(t, err, ErrEndpoint)

	// Calls leave from an activation, never from a bare lifeline
	before := len(d.Graph().Nodes())
	_, err = b.Connect(diagram.Edge{Type: diagram.CallEdge, Start: client.ID, End: server.ID})
	require.ErrorIs(t, err, ErrEndpoint)
	require.False(t, b.CanConnect(diagram.Edge{Type: diagram.CallEdge, Start: client.ID, End: server.ID}))
	require.Len(t, d.Graph().Nodes(), before, "a rejected call adds no activation")

	require.Empty(t, b.Validate())
}

func TestStateDiagramRules(t *testing.T) {
	b := NewStateDiagramBuilder(diagram.NewStateDiagram())

	initial := add(t, b, diagram.Node{Type: diagram.InitialStateNode})
	idle := add(t, b, diagram.Node{Type: diagram.StateNode, Name: "Idle"})
	final := add(t, b, diagram.Node{Type: diagram.FinalStateNode})

	connect(t, b, diagram.Edge{Type: diagram.StateTransitionEdge, Start: initial.ID, End: idle.ID})
	connect(t, b, diagram.Edge{Type: diagram.StateTransitionEdge, Start: idle.ID, End: idle.ID, Label: "tick"})
	connect(t, b, diagram.Edge{Type: diagram.StateTransitionEdge, Start: idle.ID, End: final.ID})

	_, err := b.Connect(diagram.Edge{Type: diagram.StateTransitionEdge, Start: idle.ID, End: initial.ID})
	require.ErrorIs(t, err, ErrEndpoint)
	_, err = b.Connect(diagram.Edge{Type: diagram.StateTransitionEdge, Start: final.ID, End: idle.ID})
	require.ErrorIs(t, err, ErrEndpoint)
	_, err = b.Connect(diagram.Edge{Type: diagram.DependencyEdge, Start: idle.ID, End: final.ID})
	require.ErrorIs(t, err, ErrEdgeType)
}

func TestObjectDiagramRules(t *testing.T) {
	b := NewObjectDiagramBuilder(diagram.NewObjectDiagram())

	order := add(t, b, diagram.Node{Type: diagram.ObjectNode, Name: "order:Order"})
	customer := add(t, b, diagram.Node{Type: diagram.ObjectNode, Name: "alice:Customer"})
	owner := add(t, b, diagram.Node{Type: diagram.FieldNode, Name: "owner", Parent: order.ID})

	_, err := b.AddNode(diagram.Node{Type: diagram.FieldNode, Name: "loose"})
	require.ErrorIs(t, err, ErrParent)

	connect(t, b, diagram.Edge{Type: diagram.ObjectReferenceEdge, Start: owner.ID, End: customer.ID})
	connect(t, b, diagram.Edge{Type: diagram.ObjectCollaborationEdge, Start: order.ID, End: customer.ID})

	_, err = b.Connect(diagram.Edge{Type: diagram.ObjectReferenceEdge, Start: order.ID, End: customer.ID})
	require.ErrorIs(t, err, ErrEndpoint)
	_, err = b.Connect(diagram.Edge{Type: diagram.ObjectCollaborationEdge, Start: owner.ID, End: customer.ID})
	require.ErrorIs(t, err, ErrEndpoint)
}

func TestUseCaseDiagramRules(t *testing.T) {
	d := diagram.NewUseCaseDiagram()
	b := NewUseCaseDiagramBuilder(d)

	user := add(t, b, diagram.Node{Type: diagram.ActorNode, Name: "User"})
	admin := add(t, b, diagram.Node{Type: diagram.ActorNode, Name: "Admin"})
	login := add(t, b, diagram.Node{Type: diagram.UseCaseNode, Name: "Log in"})
	audit := add(t, b, diagram.Node{Type: diagram.UseCaseNode, Name: "Audit"})

	connect(t, b, diagram.Edge{Type: diagram.UseCaseAssociationEdge, Start: user.ID, End: login.ID})
	connect(t, b, diagram.Edge{Type: diagram.UseCaseAssociationEdge, Start: audit.ID, End: admin.ID})
	connect(t, b, diagram.Edge{Type: diagram.UseCaseGeneralizationEdge, Start: admin.ID, End: user.ID})
	connect(t, b, diagram.Edge{Type: diagram.UseCaseDependencyEdge, Start: audit.ID, End: login.ID})

	edges := d.Graph().Edges()
	require.Equal(t, IncludeLabel, edges[len(edges)-1].Label, "dependency label defaults to include")

	_, err := b.Connect(diagram.Edge{Type: diagram.UseCaseDependencyEdge, Start: login.ID, End: audit.ID, Label: "uses"})
	require.ErrorIs(t, err, ErrLabel)
	require.True(t, b.CanConnect(diagram.Edge{Type: diagram.UseCaseDependencyEdge, Start: login.ID, End: audit.ID, Label: ExtendLabel}))

	_, err = b.Connect(diagram.Edge{Type: diagram.UseCaseAssociationEdge, Start: user.ID, End: admin.ID})
	require.ErrorIs(t, err, ErrEndpoint)
	_, err = b.Connect(diagram.Edge{Type: diagram.UseCaseGeneralizationEdge, Start: user.ID, End: login.ID})
	require.ErrorIs(t, err, ErrEndpoint)
}

func TestRemoveAndRename(t *testing.T) {
	d := diagram.NewClassDiagram()
	b := NewClassDiagramBuilder(d)
	a := add(t, b, diagram.Node{Type: diagram.ClassNode, Name: "A"})
	c := add(t, b, diagram.Node{Type: diagram.ClassNode, Name: "C"})
	connect(t, b, diagram.Edge{Type: diagram.AssociationEdge, Start: a.ID, End: c.ID})

	op, err := b.Rename(a.ID, "Account")
	require.NoError(t, err)
	op.Execute()
	got, _ := d.Graph().Node(a.ID)
	require.Equal(t, "Account", got.Name)

	_, err = b.Rename(a.ID, "")
	require.ErrorIs(t, err, ErrEmptyName)
	_, err = b.Rename(404, "x")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.Remove()
	require.ErrorIs(t, err, ErrNotFound)
	_, err = b.Remove(404)
	require.ErrorIs(t, err, ErrNotFound)

	op, err = b.Remove(c.ID)
	require.NoError(t, err)
	op.Execute()
	require.Len(t, d.Graph().Nodes(), 1)
	require.Empty(t, d.Graph().Edges())

	op.Undo()
	require.Len(t, d.Graph().Nodes(), 2)
	require.Len(t, d.Graph().Edges(), 1)
}

func TestValidateReportsBrokenElements(t *testing.T) {
	d := diagram.NewStateDiagram()
	g := d.Graph()
	s := g.AddNode(diagram.Node{Type: diagram.StateNode, Name: "S"})
	initial := g.AddNode(diagram.Node{Type: diagram.InitialStateNode})
	bad := g.AddNode(diagram.Node{Type: diagram.ClassNode, Name: "stray"})
	into := g.AddEdge(diagram.Edge{Type: diagram.StateTransitionEdge, Start: s.ID, End: initial.ID})
	first := g.AddEdge(diagram.Edge{Type: diagram.StateTransitionEdge, Start: initial.ID, End: s.ID})
	dup := g.AddEdge(diagram.Edge{Type: diagram.StateTransitionEdge, Start: initial.ID, End: s.ID})

	violations := NewStateDiagramBuilder(d).Validate()
	ids := make([]int, len(violations))
	for i, v := range violations {
		ids[i] = v.ID
	}
	require.ElementsMatch(t, []int{bad.ID, into.ID, dup.ID}, ids)
	require.NotContains(t, ids, first.ID)
	require.ErrorIs(t, violations[0], ErrNodeType)
}

func TestNodeAndEdgeTypes(t *testing.T) {
	require.Equal(t, []diagram.NodeType{diagram.StateNode, diagram.InitialStateNode, diagram.FinalStateNode, diagram.NoteNode},
		NodeTypes(diagram.KindState))
	require.Equal(t, []diagram.EdgeType{diagram.StateTransitionEdge, diagram.NoteEdge}, EdgeTypes(diagram.KindState))
	require.Contains(t, EdgeTypes(diagram.KindSequence), diagram.ReturnEdge)
	require.Nil(t, NodeTypes(diagram.Kind(99)))
}

func TestValidateReportsParentCycle(t *testing.T) {
	d := diagram.NewClassDiagram()
	g := d.Graph()
	self := g.AddNode(diagram.Node{ID: 1, Type: diagram.PackageNode, Name: "self", Parent: 1})
	top := g.AddNode(diagram.Node{Type: diagram.PackageNode, Name: "top"})
	g.AddNode(diagram.Node{Type: diagram.ClassNode, Name: "Inner", Parent: top.ID})

	violations := NewClassDiagramBuilder(d).Validate()
	require.Len(t, violations, 1)
	require.Equal(t, self.ID, violations[0].ID)
	require.ErrorIs(t, violations[0], ErrParent)
}
