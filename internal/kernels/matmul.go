package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// MATMUL has a registered result-shape function so graphs can declare
// nodes of this kind, but no forward/backward kernel in this build —
// one of the specification's "placeholders for arithmetic/conv ops
// assumed specified elsewhere in the catalog." A Model that dispatches
// a MATMUL node at execution time fails with ErrOperatorNotImplemented.
func init() {
	graph.RegisterShapeFn(graph.MATMUL, func(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
		if len(inputs) != 2 {
			return nil, errors.Errorf("matmul: expected exactly 2 inputs, got %d", len(inputs))
		}
		a, b := inputs[0], inputs[1]
		if a.Rank() != 2 || b.Rank() != 2 {
			return nil, errors.Errorf("matmul: expected rank-2 inputs, got ranks %d and %d", a.Rank(), b.Rank())
		}
		if a[1] != b[0] {
			return nil, errors.Errorf("matmul: inner dimension mismatch %d vs %d", a[1], b[0])
		}
		return []tensor.Shape{{a[0], b[1]}}, nil
	})
}
