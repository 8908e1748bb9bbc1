package graph

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/tensor"
)

// ResultShapeFunc computes the output shapes a node of some operator
// kind would produce from its input shapes and attributes. It is pure
// — no tensor data is touched — so one registration covers every
// dtype a Model is eventually instantiated with.
type ResultShapeFunc func(inputShapes []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error)

var shapeRegistry = map[OperatorKind]ResultShapeFunc{}

// RegisterShapeFn registers the shape-inference function for an
// operator kind. internal/kernels calls this from an init() function
// for every operator it implements — the same open-registration idiom
// the standard library's database/sql package uses for drivers, which
// lets the kernel catalog depend on graph without graph depending
// back on kernels.
func RegisterShapeFn(kind OperatorKind, fn ResultShapeFunc) {
	shapeRegistry[kind] = fn
}

// lookupShapeFn is used by Graph.Op; returns ok=false if no kernel
// package has registered a shape function for kind.
func lookupShapeFn(kind OperatorKind) (ResultShapeFunc, bool) {
	fn, ok := shapeRegistry[kind]
	return fn, ok
}
