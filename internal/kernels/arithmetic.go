package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

func sameShape(inputs []tensor.Shape) (tensor.Shape, error) {
	if len(inputs) != 2 {
		return nil, errors.Errorf("expected exactly 2 inputs, got %d", len(inputs))
	}
	if !inputs[0].Equal(inputs[1]) {
		return nil, errors.Errorf("shape mismatch: %s vs %s", inputs[0], inputs[1])
	}
	return inputs[0], nil
}

func init() {
	graph.RegisterShapeFn(graph.ADD, func(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
		out, err := sameShape(inputs)
		if err != nil {
			return nil, err
		}
		return []tensor.Shape{out}, nil
	})
	graph.RegisterShapeFn(graph.MUL, func(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
		out, err := sameShape(inputs)
		if err != nil {
			return nil, err
		}
		return []tensor.Shape{out}, nil
	})
}

// Add is same-shape elementwise addition. Broadcasting is out of
// scope — the specification treats ADD/MUL as catalog entries it
// assumes are "specified elsewhere," and a same-shape kernel is
// enough to exercise a multi-input static operator end to end.
type Add[T tensor.Numeric] struct{}

// Forward writes inputs[0] + inputs[1] into output.
func (Add[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	tensor.ApplyBinary(output, inputs[0], inputs[1], func(a, b T) T { return a + b })
}

// Backward passes the upstream gradient through unchanged to either
// operand, since d(a+b)/da = d(a+b)/db = 1.
func (Add[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	return upstreamGrad.Clone()
}

// Mul is same-shape elementwise multiplication.
type Mul[T tensor.Numeric] struct{}

// Forward writes inputs[0] * inputs[1] into output.
func (Mul[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	tensor.ApplyBinary(output, inputs[0], inputs[1], func(a, b T) T { return a * b })
}

// Backward computes d(a*b)/da = b and d(a*b)/db = a, scaled by the
// upstream gradient.
func (Mul[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	other := inputs[1-slot]
	grad := tensor.New[T](other.Shape())
	tensor.ApplyBinary(grad, other, upstreamGrad, func(o, ug T) T { return o * ug })
	return grad
}
