package executor

import (
	"github.com/aotgraph/aotgraph/internal/arena"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/kernels"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// nodeDispatch is one entry of the per-node dispatch table Model
// builds once at construction: a vector of function handles closing
// over a single Node's inputs/outputs/attrs and its resolved kernel,
// rather than re-resolving the catalog and re-reading the Node on
// every Forward/Backward call. This is the "vector of function
// handles built once" specialization strategy the specification
// allows as an alternative to fully unrolling the graph into Go code.
type nodeDispatch[T tensor.Numeric] struct {
	forward  func(tensors *arena.Arena[T]) error
	backward func(tensors, grads *arena.Arena[T]) error
}

// buildDispatch resolves every node's kernel once and returns one
// nodeDispatch entry per node, in graph order. A node whose operator
// has a registered shape function but no kernel in catalog (MATMUL,
// CONV2D) gets an entry whose forward/backward both fail with
// kernels.ErrOperatorNotImplemented — the failure is deferred to
// execution time rather than construction time, since a graph that
// never reaches such a node at runtime (e.g. it's only needed for
// training and the caller only ever calls Inference) should not be
// rejected outright.
func buildDispatch[T tensor.Numeric](nodes []graph.Node, catalog *kernels.Catalog[T]) []nodeDispatch[T] {
	out := make([]nodeDispatch[T], len(nodes))
	for i, n := range nodes {
		n := n
		if static, ok := catalog.Static(n.Op); ok {
			out[i] = staticDispatch(n, static)
			continue
		}
		if dynamic, ok := catalog.Dynamic(n.Op); ok {
			out[i] = dynamicDispatch(n, dynamic)
			continue
		}
		out[i] = unimplementedDispatch[T](n)
	}
	return out
}

func staticDispatch[T tensor.Numeric](n graph.Node, op kernels.StaticOperator[T]) nodeDispatch[T] {
	out := n.Outputs[0]
	return nodeDispatch[T]{
		forward: func(tensors *arena.Arena[T]) error {
			inputs := gatherInputs(tensors, n.Inputs)
			op.Forward(tensors.Get(out), inputs, n.Attrs)
			return nil
		},
		backward: func(tensors, grads *arena.Arena[T]) error {
			inputs := gatherInputs(tensors, n.Inputs)
			upstream := grads.Get(out)
			for slot, in := range n.Inputs {
				if !in.Trainable() {
					continue
				}
				delta := op.Backward(slot, upstream, inputs, n.Attrs)
				accumulate(grads.Get(in), delta)
			}
			return nil
		},
	}
}

func dynamicDispatch[T tensor.Numeric](n graph.Node, op kernels.DynamicOperator[T]) nodeDispatch[T] {
	out := n.Outputs[0]
	return nodeDispatch[T]{
		forward: func(tensors *arena.Arena[T]) error {
			inputs := gatherInputs(tensors, n.Inputs)
			op.ForwardDynamic(tensors.Get(out), inputs, n.Attrs)
			return nil
		},
		backward: func(tensors, grads *arena.Arena[T]) error {
			inputs := gatherInputs(tensors, n.Inputs)
			output := tensors.Get(out)
			upstream := grads.Get(out)
			for slot, in := range n.Inputs {
				if !in.Trainable() {
					continue
				}
				op.BackwardDynamic(slot, inputs, output, upstream, grads.Get(in), n.Attrs)
			}
			return nil
		},
	}
}

func unimplementedDispatch[T tensor.Numeric](n graph.Node) nodeDispatch[T] {
	fail := func(*arena.Arena[T]) error {
		return errors.Wrapf(kernels.ErrOperatorNotImplemented, "node operator %s", n.Op)
	}
	return nodeDispatch[T]{
		forward:  fail,
		backward: func(tensors, grads *arena.Arena[T]) error { return fail(tensors) },
	}
}

func gatherInputs[T tensor.Numeric](tensors *arena.Arena[T], syms []graph.Symbol) []*tensor.Tensor[T] {
	out := make([]*tensor.Tensor[T], len(syms))
	for i, s := range syms {
		out[i] = tensors.Get(s)
	}
	return out
}

// accumulate adds delta into dst in place (dst += delta), the
// gradient-accumulation convention every trainable symbol's GRADS
// entry follows when more than one node reads it.
func accumulate[T tensor.Numeric](dst, delta *tensor.Tensor[T]) {
	tensor.ApplyBinary(dst, dst, delta, func(a, b T) T { return a + b })
}
