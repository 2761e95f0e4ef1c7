package diagram

// Graph holds the ordered nodes and edges of a diagram.
// The zero value is an empty graph ready to use.
type Graph struct {
	nodes  []Node
	edges  []Edge
	nextID int
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.clone()
	}
	return out
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// NextID returns the id the next added element will receive.
func (g *Graph) NextID() int {
	if g.nextID < 1 {
		return 1
	}
	return g.nextID
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (Node, bool) {
	if i := g.nodeIndex(id); i >= 0 {
		return g.nodes[i].clone(), true
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id int) (Edge, bool) {
	if i := g.edgeIndex(id); i >= 0 {
		return g.edges[i], true
	}
	return Edge{}, false
}

// AddNode appends a node and returns it as stored.
// A positive, unused ID is kept; otherwise a fresh one is assigned.
func (g *Graph) AddNode(n Node) Node {
	n = n.clone()
	n.ID = g.claim(n.ID, g.nodeIndex(n.ID) >= 0 || g.edgeIndex(n.ID) >= 0)
	g.nodes = append(g.nodes, n)
	return n.clone()
}

// AddEdge appends an edge and returns it as stored.
// Endpoints are not checked here; builders enforce the diagram rules.
func (g *Graph) AddEdge(e Edge) Edge {
	e.ID = g.claim(e.ID, g.nodeIndex(e.ID) >= 0 || g.edgeIndex(e.ID) >= 0)
	g.edges = append(g.edges, e)
	return e
}

// claim reserves an id. Ids are shared between nodes and edges and never reused.
func (g *Graph) claim(id int, taken bool) int {
	next := g.NextID()
	if id <= 0 || taken {
		id = next
	}
	if id >= next {
		g.nextID = id + 1
	}
	return id
}

// UpdateNode replaces the stored node with the same ID, keeping its parent.
func (g *Graph) UpdateNode(n Node) bool {
	i := g.nodeIndex(n.ID)
	if i < 0 {
		return false
	}
	n = n.clone()
	n.Parent = g.nodes[i].Parent
	g.nodes[i] = n
	return true
}

// RemoveNode removes a node, its descendants and every edge touching them.
// It returns what was removed, in graph order.
func (g *Graph) RemoveNode(id int) ([]Node, []Edge) {
	if g.nodeIndex(id) < 0 {
		return nil, nil
	}
	doomed := map[int]bool{id: true}
	// Children always follow their parent in insertion order, but a reparented
	// node may not, so iterate to a fixed point.
	for changed := true; changed; {
		changed = false
		for _, n := range g.nodes {
			if !doomed[n.ID] && doomed[n.Parent] {
				doomed[n.ID] = true
				changed = true
			}
		}
	}

	var removedNodes []Node
	kept := g.nodes[:0:0]
	for _, n := range g.nodes {
		if doomed[n.ID] {
			removedNodes = append(removedNodes, n)
		} else {
			kept = append(kept, n)
		}
	}
	g.nodes = kept

	var removedEdges []Edge
	keptEdges := g.edges[:0:0]
	for _, e := range g.edges {
		if doomed[e.Start] || doomed[e.End] {
			removedEdges = append(removedEdges, e)
		} else {
			keptEdges = append(keptEdges, e)
		}
	}
	g.edges = keptEdges
	return removedNodes, removedEdges
}

// RemoveEdge removes a single edge.
func (g *Graph) RemoveEdge(id int) (Edge, bool) {
	i := g.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}
	e := g.edges[i]
	g.edges = append(g.edges[:i:i], g.edges[i+1:]...)
	return e, true
}

// Children returns the direct children of a node.
// Passing 0 returns the top-level nodes.
func (g *Graph) Children(id int) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Parent == id {
			out = append(out, n.clone())
		}
	}
	return out
}

// InParentCycle reports whether following parents from the node leads back
// to a node already visited, so the chain never reaches the top level.
func (g *Graph) InParentCycle(id int) bool {
	seen := make(map[int]bool)
	for id != 0 {
		if seen[id] {
			return true
		}
		seen[id] = true
		i := g.nodeIndex(id)
		if i < 0 {
			return false
		}
		id = g.nodes[i].Parent
	}
	return false
}

// EdgesOf returns every edge that starts or ends at the node.
func (g *Graph) EdgesOf(id int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Start == id || e.End == id {
			out = append(out, e)
		}
	}
	return out
}

// Clone creates a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:  make([]Node, len(g.nodes)),
		edges:  append([]Edge(nil), g.edges...),
		nextID: g.nextID,
	}
	for i, n := range g.nodes {
		c.nodes[i] = n.clone()
	}
	return c
}

// Restore replaces the contents of g with a deep copy of other.
func (g *Graph) Restore(other *Graph) {
	*g = *other.Clone()
}

func (g *Graph) nodeIndex(id int) int {
	if id <= 0 {
		return -1
	}
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (g *Graph) edgeIndex(id int) int {
	if id <= 0 {
		return -1
	}
	for i := range g.edges {
		if g.edges[i].ID == id {
			return i
		}
	}
	return -1
}
