package builder

import (
	"strings"

	"jetuml/diagram"
)

// Operation is a reversible edit of a diagram.
// Operations are created by a builder and applied through a Session or directly.
type Operation interface {
	Execute()
	Undo()
	String() string
}

// graphOperation captures the graph before executing so Undo restores it exactly,
// including element order and the id counter.
type graphOperation struct {
	desc   string
	graph  *diagram.Graph
	apply  func(g *diagram.Graph)
	before *diagram.Graph
}

func newOperation(g *diagram.Graph, desc string, apply func(g *diagram.Graph)) *graphOperation {
	return &graphOperation{desc: desc, graph: g, apply: apply}
}

func (o *graphOperation) Execute() {
	o.before = o.graph.Clone()
	o.apply(o.graph)
}

func (o *graphOperation) Undo() {
	if o.before == nil {
		return
	}
	o.graph.Restore(o.before)
	o.before = nil
}

func (o *graphOperation) String() string {
	return o.desc
}

// CompoundOperation runs several operations as one.
type CompoundOperation struct {
	ops []Operation
}

// Compound groups operations; they execute in order and undo in reverse.
func Compound(ops ...Operation) *CompoundOperation {
	return &CompoundOperation{ops: ops}
}

func (c *CompoundOperation) Execute() {
	for _, op := range c.ops {
		op.Execute()
	}
}

func (c *CompoundOperation) Undo() {
	for i := len(c.ops) - 1; i >= 0; i-- {
		c.ops[i].Undo()
	}
}

func (c *CompoundOperation) String() string {
	parts := make([]string, len(c.ops))
	for i, op := range c.ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, "; ")
}

// Len returns the number of grouped operations.
func (c *CompoundOperation) Len() int {
	return len(c.ops)
}
