package arena

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func freshSymbols(g *graph.Graph, n int) []graph.Symbol {
	out := make([]graph.Symbol, n)
	for i := range out {
		out[i] = g.Input(tensor.Shape{1}, false)
	}
	return out
}

func TestArena_AppendGetRoundTrip(t *testing.T) {
	g := graph.NewGraph()
	syms := freshSymbols(g, 2)

	a := New[float32]()
	t0 := tensor.FromData[float32](tensor.Shape{1}, []float32{1})
	t1 := tensor.FromData[float32](tensor.Shape{1}, []float32{2})
	a.Append(t0, syms[0])
	a.Append(t1, syms[1])

	assert.Same(t, t0, a.Get(syms[0]))
	assert.Same(t, t1, a.Get(syms[1]))
	assert.Equal(t, 2, a.Len())
}

func TestArena_AppendOutOfOrderPanics(t *testing.T) {
	g := graph.NewGraph()
	syms := freshSymbols(g, 2)

	a := New[float32]()
	assert.Panics(t, func() {
		a.Append(tensor.New[float32](tensor.Shape{1}), syms[1])
	})
}

func TestArena_GetUnallocatedPanics(t *testing.T) {
	g := graph.NewGraph()
	syms := freshSymbols(g, 1)
	a := New[float32]()
	assert.Panics(t, func() { a.Get(syms[0]) })
}

func TestArena_ClearResetsLen(t *testing.T) {
	g := graph.NewGraph()
	syms := freshSymbols(g, 1)
	a := New[float32]()
	a.Append(tensor.New[float32](tensor.Shape{1}), syms[0])
	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.False(t, a.Has(syms[0]))
}

func TestArena_SetOverwrites(t *testing.T) {
	g := graph.NewGraph()
	syms := freshSymbols(g, 1)
	a := New[float32]()
	a.Append(tensor.New[float32](tensor.Shape{1}), syms[0])

	replacement := tensor.FromData[float32](tensor.Shape{1}, []float32{42})
	a.Set(syms[0], replacement)
	assert.Same(t, replacement, a.Get(syms[0]))
}
