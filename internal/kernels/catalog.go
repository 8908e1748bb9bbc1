// Package kernels is the operator catalog: per-operator result-shape,
// forward and backward contracts (§4.F of the specification). Every
// concrete operator registers its ResultShapeFunc with internal/graph
// from an init() function and is looked up by internal/executor
// through a Catalog[T] built once per Model.
package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// ErrOperatorNotImplemented is returned when a Model tries to dispatch
// a node whose operator kind has a registered shape function (so it
// can appear in a graph and pass construction-time shape checks) but
// no forward/backward kernel — the placeholder arithmetic/conv
// operators described in the specification's §4.F.
var ErrOperatorNotImplemented = errors.New("kernels: operator has no forward/backward implementation in this build")

// StaticOperator is a kernel with fixed arity 1-3 whose input and
// output shapes are known at graph-build time.
type StaticOperator[T tensor.Numeric] interface {
	// Forward writes output given inputs and the node's attributes.
	Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector)

	// Backward returns a freshly allocated gradient for inputs[slot],
	// given the upstream gradient of the node's (single) output. Only
	// called when inputs[slot] is trainable.
	Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) *tensor.Tensor[T]
}

// DynamicOperator is a kernel taking a variable input list; it
// indexes the arena itself via the full input/output tensor slices
// rather than through a fixed slot.
type DynamicOperator[T tensor.Numeric] interface {
	// ForwardDynamic writes output given every input tensor in order.
	ForwardDynamic(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector)

	// BackwardDynamic accumulates the gradient for inputs[slot] into
	// gradTarget in place (+=), given output's upstream gradient.
	BackwardDynamic(slot int, inputs []*tensor.Tensor[T], output *tensor.Tensor[T], upstreamGrad, gradTarget *tensor.Tensor[T], attrs attr.Vector)
}

// Catalog is the set of static and dynamic operator kernels a single
// Model[T] dispatches against. It's built fresh per dtype by NewCatalog
// rather than held in a package-level map, since a bare package
// variable can't carry T as an unbound type parameter.
type Catalog[T tensor.Numeric] struct {
	static  map[graph.OperatorKind]StaticOperator[T]
	dynamic map[graph.OperatorKind]DynamicOperator[T]
}

// NewCatalog builds the catalog of every fully implemented operator
// for dtype T. MATMUL and CONV2D are intentionally absent: they have
// registered ResultShapeFuncs (so graphs can declare nodes of those
// kinds) but no kernel here, per the specification's framing of them
// as placeholders.
func NewCatalog[T tensor.Numeric]() *Catalog[T] {
	return &Catalog[T]{
		static: map[graph.OperatorKind]StaticOperator[T]{
			graph.SIGMOID:   Sigmoid[T]{},
			graph.RELU:      Relu[T]{},
			graph.TANH:      Tanh[T]{},
			graph.CLIP:      Clip[T]{},
			graph.SQUEEZE:   Squeeze[T]{},
			graph.UNSQUEEZE: Unsqueeze[T]{},
			graph.MAXPOOL2D: MaxPool2D[T]{},
			graph.ADD:       Add[T]{},
			graph.MUL:       Mul[T]{},
		},
		dynamic: map[graph.OperatorKind]DynamicOperator[T]{
			graph.CONCAT: Concat[T]{},
		},
	}
}

// Static looks up the static kernel for kind.
func (c *Catalog[T]) Static(kind graph.OperatorKind) (StaticOperator[T], bool) {
	op, ok := c.static[kind]
	return op, ok
}

// Dynamic looks up the dynamic kernel for kind.
func (c *Catalog[T]) Dynamic(kind graph.OperatorKind) (DynamicOperator[T], bool) {
	op, ok := c.dynamic[kind]
	return op, ok
}
