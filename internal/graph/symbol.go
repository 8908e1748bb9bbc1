package graph

import "github.com/aotgraph/aotgraph/internal/tensor"

// Kind distinguishes what role a Symbol plays in its Graph.
type Kind int

const (
	// KindInput marks a symbol fed by the caller on every forward/inference call.
	KindInput Kind = iota
	// KindParam marks a symbol owned by the graph's ParamTable.
	KindParam
	// KindIntermediate marks a symbol produced by a Node (includes graph outputs and the loss).
	KindIntermediate
)

// Symbol is a cheap value type identifying a tensor slot in an arena.
// It carries everything static about that slot — shape, trainability,
// role — but never the tensor data itself, which lives in an Arena[T].
type Symbol struct {
	id        int
	shape     tensor.Shape
	trainable bool
	kind      Kind
}

// ID returns the symbol's monotonically assigned id. Arenas use this
// as a direct slice index.
func (s Symbol) ID() int {
	return s.id
}

// Shape returns the symbol's declared shape.
func (s Symbol) Shape() tensor.Shape {
	return s.shape
}

// Trainable reports whether this symbol participates in backward
// accumulation — true iff Model.Grad reports a gradient for it.
func (s Symbol) Trainable() bool {
	return s.trainable
}

// Kind reports whether the symbol is a graph input, a parameter, or an
// intermediate/output value produced by a node.
func (s Symbol) Kind() Kind {
	return s.kind
}

// Valid reports whether this Symbol was actually produced by a Graph
// (the zero Symbol is never valid, since no Graph hands out id 0...-1 pairs
// that aren't backed by a real entry).
func (s Symbol) Valid() bool {
	return s.shape != nil
}
