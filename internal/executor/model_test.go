package executor

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMulReluLoss builds x (input, non-trainable) * w (param,
// trainable) -> RELU -> loss, the smallest graph that exercises both
// static dispatch stages and cross-node gradient accumulation.
func buildMulReluLoss() (*graph.Graph, graph.Symbol, graph.Symbol, graph.Symbol) {
	g := graph.NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	w := g.Param(tensor.Shape{1}, graph.DataInit([]float64{2}), true)

	mul, err := g.Op(graph.MUL, []graph.Symbol{x, w}, nil)
	if err != nil {
		panic(err)
	}
	relu, err := g.Op(graph.RELU, []graph.Symbol{mul[0]}, nil)
	if err != nil {
		panic(err)
	}
	if err := g.Out(relu[0]); err != nil {
		panic(err)
	}
	if err := g.Loss(relu[0]); err != nil {
		panic(err)
	}
	return g, x, w, relu[0]
}

func TestModel_ForwardComputesLoss(t *testing.T) {
	g, x, _, _ := buildMulReluLoss()
	m, err := NewModel[float32](g)
	require.NoError(t, err)

	loss, err := m.Forward(tensor.FromData[float32](tensor.Shape{1}, []float32{3}))
	require.NoError(t, err)
	assert.Equal(t, float32(6), loss.Load(0), "relu(3 * 2) = 6")
	_ = x
}

func TestModel_BackwardAccumulatesParamGradient(t *testing.T) {
	g, _, w, _ := buildMulReluLoss()
	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Forward(tensor.FromData[float32](tensor.Shape{1}, []float32{3}))
	require.NoError(t, err)

	require.NoError(t, m.Backward(tensor.FromData[float32](tensor.Shape{1}, []float32{1})))

	grad, ok := m.Grad(w)
	require.True(t, ok)
	assert.Equal(t, float32(3), grad.Load(0), "d(relu(x*w))/dw = x when x*w > 0")
}

func TestModel_BackwardDefaultsUpstreamGradToOnesWhenNil(t *testing.T) {
	g, _, w, _ := buildMulReluLoss()
	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Forward(tensor.FromData[float32](tensor.Shape{1}, []float32{3}))
	require.NoError(t, err)

	require.NoError(t, m.Backward(nil))

	grad, ok := m.Grad(w)
	require.True(t, ok)
	assert.Equal(t, float32(3), grad.Load(0), "nil upstream grad seeds the loss gradient with ones")
}

func TestModel_BackwardSkipsNonTrainableInput(t *testing.T) {
	g, x, _, _ := buildMulReluLoss()
	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Forward(tensor.FromData[float32](tensor.Shape{1}, []float32{3}))
	require.NoError(t, err)
	require.NoError(t, m.Backward(tensor.FromData[float32](tensor.Shape{1}, []float32{1})))

	_, ok := m.Grad(x)
	assert.False(t, ok, "x was declared non-trainable")
}

func TestModel_ForwardRejectsWrongInputCount(t *testing.T) {
	g, _, _, _ := buildMulReluLoss()
	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Forward()
	assert.ErrorIs(t, err, ErrInputCountMismatch)
}

func TestModel_InferenceStopsAtSmallestSufficientPrefix(t *testing.T) {
	g := graph.NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	a, err := g.Op(graph.RELU, []graph.Symbol{x}, nil)
	require.NoError(t, err)
	b, err := g.Op(graph.RELU, []graph.Symbol{a[0]}, nil)
	require.NoError(t, err)
	_, err = g.Op(graph.RELU, []graph.Symbol{b[0]}, nil) // trailing, never on the output path
	require.NoError(t, err)
	require.NoError(t, g.Out(b[0]))

	m, err := NewModel[float32](g)
	require.NoError(t, err)

	k, ok := m.NumInferenceNodes()
	require.True(t, ok)
	assert.Equal(t, 2, k)

	outputs, err := m.Inference(tensor.FromData[float32](tensor.Shape{1}, []float32{-5}))
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, float32(0), outputs[0].Load(0))
}

func TestModel_InferenceUndefinedWithoutOutputs(t *testing.T) {
	g := graph.NewGraph()
	x := g.Input(tensor.Shape{1}, false)
	_, err := g.Op(graph.RELU, []graph.Symbol{x}, nil)
	require.NoError(t, err)

	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Inference(tensor.FromData[float32](tensor.Shape{1}, []float32{1}))
	assert.ErrorIs(t, err, ErrNoInferenceSchedule)
}

func TestModel_UnimplementedOperatorFailsAtDispatch(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(tensor.Shape{2, 3}, false)
	b := g.Input(tensor.Shape{3, 4}, false)
	y, err := g.Op(graph.MATMUL, []graph.Symbol{a, b}, nil)
	require.NoError(t, err)
	require.NoError(t, g.Out(y[0]))
	require.NoError(t, g.Loss(y[0]))

	m, err := NewModel[float32](g)
	require.NoError(t, err)

	_, err = m.Forward(tensor.New[float32](tensor.Shape{2, 3}), tensor.New[float32](tensor.Shape{3, 4}))
	require.Error(t, err)
}

func TestModel_ClipForwardRespectsAttributes(t *testing.T) {
	g := graph.NewGraph()
	x := g.Input(tensor.Shape{3}, false)
	y, err := g.Op(graph.CLIP, []graph.Symbol{x}, attr.New(attr.Int("min", 0), attr.Int("max", 10)))
	require.NoError(t, err)
	require.NoError(t, g.Out(y[0]))
	require.NoError(t, g.Loss(y[0]))

	m, err := NewModel[float32](g)
	require.NoError(t, err)

	loss, err := m.Forward(tensor.FromData[float32](tensor.Shape{3}, []float32{-5, 5, 50}))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5, 10}, loss.Data())
}
