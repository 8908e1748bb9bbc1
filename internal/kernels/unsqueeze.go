package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// unsqueezeAxes mirrors squeezeAxes: at most one of dim/dims may be
// present, naming the axes to insert into the *output* shape (i.e.
// post-insertion indices), ascending. When neither is present, axes is
// nil and the caller prepends a single unit axis at position 0.
func unsqueezeAxes(attrs attr.Vector) (axes []int, explicit bool, err error) {
	if attrs.Has("dim") && attrs.Has("dims") {
		return nil, false, errors.New("unsqueeze: dim and dims are mutually exclusive")
	}
	if v, ok := attrs.Lookup("dim"); ok {
		d, ok := v.ToInt()
		if !ok {
			return nil, false, errors.Wrap(graph.ErrUnknownAttribute, "unsqueeze: dim has the wrong kind")
		}
		return []int{d}, true, nil
	}
	if v, ok := attrs.Lookup("dims"); ok {
		ds, ok := v.ToIntSlice()
		if !ok {
			return nil, false, errors.Wrap(graph.ErrUnknownAttribute, "unsqueeze: dims has the wrong kind")
		}
		return ds, true, nil
	}
	return nil, false, nil
}

func unsqueezeResultShape(in tensor.Shape, axes []int) (tensor.Shape, error) {
	outRank := in.Rank() + len(axes)
	insert := make(map[int]bool, len(axes))
	for _, a := range axes {
		if a < 0 || a >= outRank {
			return nil, errors.Errorf("unsqueeze: axis %d out of range for result rank %d", a, outRank)
		}
		insert[a] = true
	}
	out := make(tensor.Shape, outRank)
	src := 0
	for i := range out {
		if insert[i] {
			out[i] = 1
		} else {
			out[i] = in[src]
			src++
		}
	}
	return out, nil
}

func init() {
	graph.RegisterShapeFn(graph.UNSQUEEZE, func(inputs []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error) {
		axes, explicit, err := unsqueezeAxes(attrs)
		if err != nil {
			return nil, err
		}
		if !explicit {
			axes = []int{0}
		}
		out, err := unsqueezeResultShape(inputs[0], axes)
		if err != nil {
			return nil, err
		}
		return []tensor.Shape{out}, nil
	})
}

// Unsqueeze inserts unit-extent axes named by the node's dim/dims
// attribute. Like Squeeze, it copies rather than reinterpreting a
// shared view, since inserting a unit axis never reorders elements.
type Unsqueeze[T tensor.Numeric] struct{}

// Forward copies inputs[0]'s data into output, whose shape already
// has the new unit axes inserted.
func (Unsqueeze[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) {
	copy(output.Data(), inputs[0].Data())
}

// Backward reshapes the upstream gradient back to the pre-unsqueeze
// input shape.
func (Unsqueeze[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], _ attr.Vector) *tensor.Tensor[T] {
	grad := tensor.New[T](inputs[slot].Shape())
	copy(grad.Data(), upstreamGrad.Data())
	return grad
}
