package graph

import "github.com/aotgraph/aotgraph/internal/attr"

// Node is one step of the graph: an operator applied to an ordered
// list of input symbols, with an ordered list of output symbols and a
// fixed attribute vector. Nodes are appended in an order that is by
// construction a valid topological sort — Graph.Op only accepts
// inputs that already exist, so a node's outputs can never feed back
// into an earlier node.
type Node struct {
	Op      OperatorKind
	Attrs   attr.Vector
	Inputs  []Symbol
	Outputs []Symbol
}
