package graph

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityShapeFn is a test-only registration standing in for a real
// kernel package, so graph tests don't need to import internal/kernels.
func identityShapeFn(inputs []tensor.Shape, _ attr.Vector) ([]tensor.Shape, error) {
	return []tensor.Shape{inputs[0]}, nil
}

func init() {
	RegisterShapeFn(9001, identityShapeFn)
}

const testOp OperatorKind = 9001

func TestGraph_InputAndParamAllocateDistinctSymbols(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{2, 2}, false)
	w := g.Param(tensor.Shape{2, 2}, ZeroInit(), true)

	assert.NotEqual(t, x.ID(), w.ID())
	assert.False(t, x.Trainable())
	assert.True(t, w.Trainable())
	assert.Equal(t, KindInput, x.Kind())
	assert.Equal(t, KindParam, w.Kind())
}

func TestGraph_OpChainsOutputsAsInputs(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{3}, false)

	y, err := g.Op(testOp, []Symbol{x}, nil)
	require.NoError(t, err)
	require.Len(t, y, 1)

	z, err := g.Op(testOp, []Symbol{y[0]}, nil)
	require.NoError(t, err)
	require.Len(t, z, 1)

	assert.Len(t, g.Nodes(), 2)
	assert.True(t, y[0].Trainable(), "node outputs are always trainable")
}

func TestGraph_OpRejectsUnknownSymbol(t *testing.T) {
	g1 := NewGraph()
	g2 := NewGraph()
	foreign := g2.Input(tensor.Shape{1}, false)

	_, err := g1.Op(testOp, []Symbol{foreign}, nil)
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestGraph_OpRejectsUnregisteredOperator(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	_, err := g.Op(OperatorKind(424242), []Symbol{x}, nil)
	assert.ErrorIs(t, err, ErrUnregisteredOperator)
}

func TestGraph_LossDuplicateRejected(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	y, err := g.Op(testOp, []Symbol{x}, nil)
	require.NoError(t, err)

	require.NoError(t, g.Loss(y[0]))
	err = g.Loss(y[0])
	assert.ErrorIs(t, err, ErrDuplicateLoss)
}

func TestGraph_NumInferenceNodes(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	a, _ := g.Op(testOp, []Symbol{x}, nil)
	b, _ := g.Op(testOp, []Symbol{a[0]}, nil)
	_, _ = g.Op(testOp, []Symbol{b[0]}, nil) // trailing node, not on the output path

	require.NoError(t, g.Out(b[0]))
	k, ok := g.NumInferenceNodes()
	require.True(t, ok)
	assert.Equal(t, 2, k)
}

func TestGraph_NumInferenceNodesUndefinedWithNoOutputs(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	_, _ = g.Op(testOp, []Symbol{x}, nil)

	_, ok := g.NumInferenceNodes()
	assert.False(t, ok)
}

func TestGraph_NumInferenceNodesUndefinedWhenOutputIsInput(t *testing.T) {
	g := NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	require.NoError(t, g.Out(x))

	_, ok := g.NumInferenceNodes()
	assert.False(t, ok)
}
