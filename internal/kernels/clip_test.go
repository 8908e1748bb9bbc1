package kernels

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestClip_ForwardClampsBothBounds(t *testing.T) {
	x := tensor.FromData[float32](tensor.Shape{5}, []float32{-5, -1, 0, 1, 5})
	out := tensor.New[float32](tensor.Shape{5})
	attrs := attr.New(attr.Int("min", -1), attr.Int("max", 1))

	var c Clip[float32]
	c.Forward(out, []*tensor.Tensor[float32]{x}, attrs)
	assert.Equal(t, []float32{-1, -1, 0, 1, 1}, out.Data())
}

func TestClip_BackwardPassesThroughAtBoundsAndZerosOutside(t *testing.T) {
	x := tensor.FromData[float32](tensor.Shape{5}, []float32{-5, -1, 0, 1, 5})
	upstream := tensor.FromData[float32](tensor.Shape{5}, []float32{1, 1, 1, 1, 1})
	attrs := attr.New(attr.Int("min", -1), attr.Int("max", 1))

	var c Clip[float32]
	grad := c.Backward(0, upstream, []*tensor.Tensor[float32]{x}, attrs)
	assert.Equal(t, []float32{0, 1, 1, 1, 0}, grad.Data())
}

func TestClip_MissingBoundsDefaultToUnbounded(t *testing.T) {
	x := tensor.FromData[float32](tensor.Shape{3}, []float32{-100, 0, 100})
	out := tensor.New[float32](tensor.Shape{3})

	var c Clip[float32]
	c.Forward(out, []*tensor.Tensor[float32]{x}, nil)
	assert.Equal(t, []float32{-100, 0, 100}, out.Data())
}

func TestClip_OneSidedBound(t *testing.T) {
	x := tensor.FromData[float32](tensor.Shape{3}, []float32{-100, 0, 100})
	out := tensor.New[float32](tensor.Shape{3})
	attrs := attr.New(attr.Int("max", 10))

	var c Clip[float32]
	c.Forward(out, []*tensor.Tensor[float32]{x}, attrs)
	assert.Equal(t, []float32{-100, 0, 10}, out.Data())
}
