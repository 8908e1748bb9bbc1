package graph

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// Graph is an immutable-once-built DAG of Nodes plus the declared
// inputs, parameters, outputs and optional loss symbol described in
// the specification's data model (§3, §4.D). Symbols are appended
// monotonically and never removed; because Op only accepts inputs
// that already exist, the node list is a topological order by
// construction — there is no separate cycle check to run.
type Graph struct {
	inputs  []Symbol
	params  ParamTable
	nodes   []Node
	outputs []Symbol
	lossOut *Symbol

	nextID int
}

// NewGraph returns an empty graph ready for construction.
func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) allocSymbol(shape tensor.Shape, trainable bool, kind Kind) Symbol {
	s := Symbol{id: g.nextID, shape: shape.Clone(), trainable: trainable, kind: kind}
	g.nextID++
	return s
}

// Input declares a graph input symbol. trainable is almost always
// false for inputs (they're fed fresh data every call) but the flag
// exists for the rare case of a learned, input-shaped constant.
func (g *Graph) Input(shape tensor.Shape, trainable bool) Symbol {
	s := g.allocSymbol(shape, trainable, KindInput)
	g.inputs = append(g.inputs, s)
	return s
}

// Param declares a parameter symbol with the given initializer. Params
// are trainable by default in every caller this module ships, but the
// flag is explicit rather than defaulted, per Go convention.
func (g *Graph) Param(shape tensor.Shape, init InitSpec, trainable bool) Symbol {
	s := g.allocSymbol(shape, trainable, KindParam)
	g.params = append(g.params, ParamEntry{Symbol: s, Init: init})
	return s
}

// known reports whether s's id lies in the range of ids this graph has
// allocated. A symbol from another Graph whose id falls inside that
// range is not told apart from one of this graph's own.
func (g *Graph) known(s Symbol) bool {
	return s.id >= 0 && s.id < g.nextID
}

// Op appends a node of the given operator kind, computes its output
// shapes via the kind's registered ResultShapeFunc, allocates one
// fresh output symbol per result shape, and returns them in order.
//
// Every returned output symbol is marked trainable: node outputs
// always receive a GRADS entry (they're the point backward seeds the
// upstream gradient into), independent of whether any of their own
// inputs are trainable.
func (g *Graph) Op(op OperatorKind, inputs []Symbol, attrs attr.Vector) ([]Symbol, error) {
	for _, in := range inputs {
		if !g.known(in) {
			return nil, errors.Wrapf(ErrUnknownSymbol, "operator %s", op)
		}
	}

	fn, ok := lookupShapeFn(op)
	if !ok {
		return nil, errors.Wrapf(ErrUnregisteredOperator, "operator %s", op)
	}

	inputShapes := make([]tensor.Shape, len(inputs))
	for i, in := range inputs {
		inputShapes[i] = in.Shape()
	}

	outputShapes, err := fn(inputShapes, attrs)
	if err != nil {
		if errors.Is(err, ErrUnknownAttribute) {
			return nil, err
		}
		return nil, errors.Wrapf(ErrShapeMismatch, "operator %s: %v", op, err)
	}

	outputs := make([]Symbol, len(outputShapes))
	for i, shape := range outputShapes {
		outputs[i] = g.allocSymbol(shape, true, KindIntermediate)
	}

	g.nodes = append(g.nodes, Node{Op: op, Attrs: attrs, Inputs: inputs, Outputs: outputs})
	return outputs, nil
}

// Out marks symbol as a graph output to be returned by Inference.
func (g *Graph) Out(symbol Symbol) error {
	if !g.known(symbol) {
		return errors.Wrap(ErrUnknownSymbol, "Out")
	}
	for _, o := range g.outputs {
		if o.id == symbol.id {
			return nil
		}
	}
	g.outputs = append(g.outputs, symbol)
	return nil
}

// Loss marks symbol as the graph's distinguished loss output. At most
// one loss symbol may be registered; a second call returns
// ErrDuplicateLoss.
func (g *Graph) Loss(symbol Symbol) error {
	if !g.known(symbol) {
		return errors.Wrap(ErrUnknownSymbol, "Loss")
	}
	if g.lossOut != nil {
		return ErrDuplicateLoss
	}
	g.lossOut = &symbol
	return nil
}

// Inputs returns the declared graph inputs, in declaration order.
func (g *Graph) Inputs() []Symbol {
	return g.inputs
}

// Params returns the declared parameter table, in declaration order.
func (g *Graph) Params() ParamTable {
	return g.params
}

// Nodes returns the declared nodes, in declaration (and therefore
// forward-execution) order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Outputs returns the declared graph outputs, in declaration order.
func (g *Graph) Outputs() []Symbol {
	return g.outputs
}

// LossOut returns the declared loss symbol, if any.
func (g *Graph) LossOut() (Symbol, bool) {
	if g.lossOut == nil {
		return Symbol{}, false
	}
	return *g.lossOut, true
}

// NumSymbols returns the total number of symbols this graph has
// allocated (inputs + params + every node output). Arenas use this to
// size themselves up front.
func (g *Graph) NumSymbols() int {
	return g.nextID
}

// NumInferenceNodes returns the smallest prefix length K of Nodes such
// that executing nodes[0:K] produces every symbol in Outputs. Outputs
// that are themselves graph inputs or parameters (never produced by a
// node) are already resident in TENSORS before any node runs and so
// don't constrain K. ok is false if Outputs is empty or none of the
// declared outputs is produced by any node — in either case inference
// is disabled, per the specification's definition of
// n_inference_nodes.
func (g *Graph) NumInferenceNodes() (k int, ok bool) {
	if len(g.outputs) == 0 {
		return 0, false
	}
	wanted := make(map[int]bool, len(g.outputs))
	for _, o := range g.outputs {
		wanted[o.id] = true
	}

	lastNeeded := -1
	anyProducedByNode := false
	for i, n := range g.nodes {
		for _, out := range n.Outputs {
			if wanted[out.id] {
				anyProducedByNode = true
				lastNeeded = i
			}
		}
	}
	if !anyProducedByNode {
		return 0, false
	}
	return lastNeeded + 1, true
}
