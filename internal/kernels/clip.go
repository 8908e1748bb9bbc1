package kernels

import (
	"math"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
)

func init() {
	graph.RegisterShapeFn(graph.CLIP, func(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
		return []tensor.Shape{inputs[0]}, nil
	})
}

func clipBounds(attrs attr.Vector) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if v, ok := attrs.Lookup("min"); ok {
		if i, ok := v.ToInt(); ok {
			lo = float64(i)
		}
	}
	if v, ok := attrs.Lookup("max"); ok {
		if i, ok := v.ToInt(); ok {
			hi = float64(i)
		}
	}
	return lo, hi
}

// Clip clamps every element to [min, max]. Either bound may be absent
// from the node's attributes, in which case it defaults to -Inf/+Inf —
// i.e. unbounded on that side — matching the specification's
// conservative reading of a one-sided clip.
type Clip[T tensor.Numeric] struct{}

// Forward writes clamp(inputs[0], min, max) into output.
func (Clip[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) {
	lo, hi := clipBounds(attrs)
	tensor.Apply(output, inputs[0], func(x T) T {
		v := float64(x)
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		return T(v)
	})
}

// Backward passes the upstream gradient through unchanged wherever the
// input was inside the closed interval [min, max] — including exactly
// at a bound — and zero wherever it was strictly outside.
func (Clip[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) *tensor.Tensor[T] {
	lo, hi := clipBounds(attrs)
	x := inputs[slot]
	grad := tensor.New[T](x.Shape())
	tensor.ApplyBinary(grad, x, upstreamGrad, func(xi, ug T) T {
		v := float64(xi)
		if v < lo || v > hi {
			return 0
		}
		return ug
	})
	return grad
}
