package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// squeezeAxes reads the single `dim` attribute or the `dims` attribute
// from attrs — never both — per the specification's conservative
// choice that the two spellings are mutually exclusive; supplying both
// is an error. Returns the axes to drop in the order given. When
// neither attribute is present, axes is nil and the caller drops every
// extent-1 axis of the input shape.
func squeezeAxes(attrs attr.Vector) (axes []int, explicit bool, err error) {
	if attrs.Has("dim") && attrs.Has("dims") {
		return nil, false, errors.New("squeeze: dim and dims are mutually exclusive")
	}
	if v, ok := attrs.Lookup("dim"); ok {
		d, ok := v.ToInt()
		if !ok {
			return nil, false, errors.Wrap(graph.ErrUnknownAttribute, "squeeze: dim has the wrong kind")
		}
		return []int{d}, true, nil
	}
	if v, ok := attrs.Lookup("dims"); ok {
		ds, ok := v.ToIntSlice()
		if !ok {
			return nil, false, errors.Wrap(graph.ErrUnknownAttribute, "squeeze: dims has the wrong kind")
		}
		return ds, true, nil
	}
	return nil, false, nil
}

// allUnitAxes returns every axis of in with extent 1, ascending.
func allUnitAxes(in tensor.Shape) []int {
	var axes []int
	for i, extent := range in {
		if extent == 1 {
			axes = append(axes, i)
		}
	}
	return axes
}

func squeezeResultShape(in tensor.Shape, axes []int) (tensor.Shape, error) {
	drop := make(map[int]bool, len(axes))
	for _, a := range axes {
		if a < 0 || a >= in.Rank() {
			return nil, errors.Errorf("squeeze: axis %d out of range for rank %d", a, in.Rank())
		}
		if in[a] != 1 {
			return nil, errors.Errorf("squeeze: axis %d has extent %d, not 1", a, in[a])
		}
		drop[a] = true
	}
	out := make(tensor.Shape, 0, in.Rank()-len(drop))
	for i, extent := range in {
		if !drop[i] {
			out = append(out, extent)
		}
	}
	return out, nil
}

func init() {
	graph.RegisterShapeFn(graph.SQUEEZE, func(inputs []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error) {
		axes, explicit, err := squeezeAxes(attrs)
		if err != nil {
			return nil, err
		}
		if !explicit {
			axes = allUnitAxes(inputs[0])
		}
		out, err := squeezeResultShape(inputs[0], axes)
		if err != nil {
			return nil, err
		}
		return []tensor.Shape{out}, nil
	})
}

// Squeeze drops unit-extent axes named by the node's dim/dims
// attribute. Since Tensor buffers are exclusively owned and never
// shared between symbols (unlike the teacher's copy-on-write
// RawTensor views), squeeze is a data copy rather than a reshape of a
// shared buffer — the element order is unchanged either way, since
// dropping unit axes never reorders the underlying flat buffer.
type Squeeze[T tensor.Numeric] struct{}

// Forward copies inputs[0]'s data into output, whose shape already
// has the squeezed axes removed.
func (Squeeze[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	copy(output.Data(), inputs[0].Data())
}

// Backward reshapes the upstream gradient back to the unsqueezed
// input shape; the data itself is untouched since squeeze never
// reorders elements.
func (Squeeze[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	grad := tensor.New[T](inputs[slot].Shape())
	copy(grad.Data(), upstreamGrad.Data())
	return grad
}
