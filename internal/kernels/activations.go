package kernels

import (
	"math"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
)

func init() {
	identity := func(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
		return []tensor.Shape{inputs[0]}, nil
	}
	graph.RegisterShapeFn(graph.SIGMOID, identity)
	graph.RegisterShapeFn(graph.RELU, identity)
	graph.RegisterShapeFn(graph.TANH, identity)
}

func sigmoidOf[T tensor.Numeric](x T) T {
	return T(1 / (1 + math.Exp(-float64(x))))
}

// Sigmoid is the logistic activation: sigmoid(x) = 1 / (1 + exp(-x)).
//
// Backward: d(sigmoid(x))/dx = sigmoid(x) * (1 - sigmoid(x)), ported
// from the teacher's SigmoidOp; sigmoid(x) is recomputed from the
// input element rather than read from the node's output tensor.
type Sigmoid[T tensor.Numeric] struct{}

// Forward writes sigmoid(inputs[0]) into output.
func (Sigmoid[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	tensor.Apply(output, inputs[0], sigmoidOf[T])
}

// Backward computes grad_input = upstreamGrad * sigmoid(x) * (1 - sigmoid(x)).
func (Sigmoid[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	x := inputs[slot]
	grad := tensor.New[T](x.Shape())
	tensor.ApplyBinary(grad, x, upstreamGrad, func(xi, ug T) T {
		s := sigmoidOf(xi)
		return ug * s * (1 - s)
	})
	return grad
}

// Relu is the rectified-linear activation: relu(x) = max(0, x).
//
// The subgradient at x == 0 is fixed to 0 for determinism, per the
// specification — ported from the teacher's ReLUOp, whose mask-based
// backward is equivalent but expressed here as a single fused pass.
type Relu[T tensor.Numeric] struct{}

// Forward writes max(0, inputs[0]) into output.
func (Relu[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	tensor.Apply(output, inputs[0], func(x T) T {
		if x > 0 {
			return x
		}
		return 0
	})
}

// Backward computes grad_input = upstreamGrad where x > 0, else 0.
func (Relu[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	x := inputs[slot]
	grad := tensor.New[T](x.Shape())
	tensor.ApplyBinary(grad, x, upstreamGrad, func(xi, ug T) T {
		if xi > 0 {
			return ug
		}
		return 0
	})
	return grad
}

// Tanh is the hyperbolic-tangent activation.
//
// Backward: d(tanh(x))/dx = 1 - tanh(x)^2, ported from the teacher's
// TanhOp.
type Tanh[T tensor.Numeric] struct{}

// Forward writes tanh(inputs[0]) into output.
func (Tanh[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	tensor.Apply(output, inputs[0], func(x T) T {
		return T(math.Tanh(float64(x)))
	})
}

// Backward computes grad_input = upstreamGrad * (1 - tanh(x)^2).
func (Tanh[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	x := inputs[slot]
	grad := tensor.New[T](x.Shape())
	tensor.ApplyBinary(grad, x, upstreamGrad, func(xi, ug T) T {
		th := T(math.Tanh(float64(xi)))
		return ug * (1 - th*th)
	})
	return grad
}
