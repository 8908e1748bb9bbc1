package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

func concatAxis(attrs attr.Vector, rank int) (int, error) {
	v, ok := attrs.Lookup("dim")
	if !ok {
		return 0, errors.Wrap(graph.ErrUnknownAttribute, "concat: requires a dim attribute")
	}
	dim, ok := v.ToInt()
	if !ok {
		return 0, errors.Wrap(graph.ErrUnknownAttribute, "concat: dim has the wrong kind")
	}
	if dim < 0 || dim >= rank {
		return 0, errors.Errorf("concat: dim %d out of range for rank %d", dim, rank)
	}
	return dim, nil
}

func init() {
	graph.RegisterShapeFn(graph.CONCAT, func(inputs []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error) {
		if len(inputs) == 0 {
			return nil, errors.New("concat: at least one input required")
		}
		rank := inputs[0].Rank()
		dim, err := concatAxis(attrs, rank)
		if err != nil {
			return nil, err
		}
		total := 0
		for i, shape := range inputs {
			if shape.Rank() != rank {
				return nil, errors.Errorf("concat: input %d has rank %d, expected %d", i, shape.Rank(), rank)
			}
			for d := 0; d < rank; d++ {
				if d == dim {
					total += shape[d]
					continue
				}
				if shape[d] != inputs[0][d] {
					return nil, errors.Errorf("concat: input %d mismatches on axis %d (%d != %d)", i, d, shape[d], inputs[0][d])
				}
			}
		}
		return []tensor.Shape{inputs[0].WithDim(dim, total)}, nil
	})
}

// Concat is the specification's one concretely implemented
// variable-arity operator — every other catalog entry has fixed arity
// and so fits StaticOperator. Ported from the teacher's CPUBackend.Cat,
// re-expressed over strided coordinate walks against exclusively owned
// Tensor[T] buffers rather than the teacher's shared RawTensor/DType
// dispatch.
type Concat[T tensor.Numeric] struct{}

// ForwardDynamic writes every input tensor's data into its slice of
// output along the concatenation axis.
func (Concat[T]) ForwardDynamic(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) {
	outShape := output.Shape()
	outStrides := outShape.Strides()
	dim, err := concatAxis(attrs, outShape.Rank())
	if err != nil {
		panic(err)
	}

	offset := 0
	for _, in := range inputs {
		shape := in.Shape()
		strides := shape.Strides()
		n := shape.NumElements()
		for i := 0; i < n; i++ {
			rem := i
			outIdx := 0
			for d := 0; d < shape.Rank(); d++ {
				coord := rem / strides[d]
				rem %= strides[d]
				if d == dim {
					coord += offset
				}
				outIdx += coord * outStrides[d]
			}
			output.Store(outIdx, in.Load(i))
		}
		offset += shape[dim]
	}
}

// BackwardDynamic accumulates the slice of upstreamGrad corresponding
// to inputs[slot]'s span along the concatenation axis into gradTarget.
func (Concat[T]) BackwardDynamic(slot int, inputs []*tensor.Tensor[T], output *tensor.Tensor[T], upstreamGrad, gradTarget *tensor.Tensor[T], attrs attr.Vector) {
	outShape := output.Shape()
	outStrides := outShape.Strides()
	dim, err := concatAxis(attrs, outShape.Rank())
	if err != nil {
		panic(err)
	}

	offset := 0
	for i := 0; i < slot; i++ {
		offset += inputs[i].Shape()[dim]
	}

	shape := gradTarget.Shape()
	strides := shape.Strides()
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		rem := i
		outIdx := 0
		for d := 0; d < shape.Rank(); d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d == dim {
				coord += offset
			}
			outIdx += coord * outStrides[d]
		}
		gradTarget.Store(i, gradTarget.Load(i)+upstreamGrad.Load(outIdx))
	}
}
