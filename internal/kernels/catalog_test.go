package kernels

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/stretchr/testify/assert"
)

func TestNewCatalog_HasEveryFullyImplementedOperator(t *testing.T) {
	c := NewCatalog[float32]()

	for _, kind := range []graph.OperatorKind{
		graph.SIGMOID, graph.RELU, graph.TANH, graph.CLIP,
		graph.SQUEEZE, graph.UNSQUEEZE, graph.MAXPOOL2D, graph.ADD, graph.MUL,
	} {
		_, ok := c.Static(kind)
		assert.True(t, ok, "%s should have a static kernel", kind)
	}

	_, ok := c.Dynamic(graph.CONCAT)
	assert.True(t, ok, "CONCAT should have a dynamic kernel")
}

func TestNewCatalog_LacksPlaceholderOperators(t *testing.T) {
	c := NewCatalog[float32]()

	_, ok := c.Static(graph.MATMUL)
	assert.False(t, ok, "MATMUL is a registered-shape-only placeholder")

	_, ok = c.Static(graph.CONV2D)
	assert.False(t, ok, "CONV2D is a registered-shape-only placeholder")
}
