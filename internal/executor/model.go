// Package executor specializes a built internal/graph.Graph into a
// Model[T]: two dtype-specialized arenas (TENSORS and GRADS in the
// specification's terms) plus a per-node dispatch table resolved once
// against internal/kernels' operator catalog. There is no runtime
// interpreter — Forward, Backward and Inference all walk the same
// fixed node order the Graph was built in.
package executor

import (
	"sort"
	"time"

	"github.com/aotgraph/aotgraph/internal/arena"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/kernels"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Model is the single owner of a graph's two process-wide-by-design
// arenas. The specification describes TENSORS and GRADS as singletons
// shared by the whole running program, but that can't survive being
// made generic over a dtype — an unbound type parameter T has nowhere
// to live on a package-level var. Model[T] is the idiomatic
// alternative: exactly one Model per (graph, dtype) pair owns both
// arenas outright, which gives the same "one TENSORS, one GRADS"
// guarantee per live model without a global.
type Model[T tensor.Numeric] struct {
	graph   *graph.Graph
	symbols []graph.Symbol // every declared symbol, indexed by Symbol.ID()

	tensors *arena.Arena[T]
	grads   *arena.Arena[T]

	dispatch []nodeDispatch[T]

	nInferenceNodes int
	hasSchedule     bool

	metrics *nodeMetrics
}

// NewModel builds a Model around an already-constructed Graph: it
// allocates both arenas, initializes every parameter from its
// InitSpec, and resolves the per-node dispatch table. Construction
// never fails outright over a missing loss or inference schedule —
// those only block the corresponding operations later (a missing loss
// blocks Forward and Backward; a missing schedule blocks Inference) —
// but both are logged as warnings, since a graph built without
// either is very likely a mistake.
func NewModel[T tensor.Numeric](g *graph.Graph) (*Model[T], error) {
	symbols, err := collectSymbolsByID(g)
	if err != nil {
		return nil, err
	}

	m := &Model[T]{
		graph:    g,
		symbols:  symbols,
		tensors:  arena.New[T](),
		grads:    arena.New[T](),
		dispatch: buildDispatch(g.Nodes(), kernels.NewCatalog[T]()),
		metrics:  newNodeMetrics(len(g.Nodes())),
	}

	paramInit := make(map[int]graph.InitSpec, len(g.Params()))
	for _, p := range g.Params() {
		paramInit[p.Symbol.ID()] = p.Init
	}

	for _, s := range symbols {
		m.tensors.Append(initialTensor[T](s, paramInit), s)
		m.grads.Append(tensor.New[T](s.Shape()), s)
	}

	if _, ok := g.LossOut(); !ok {
		klog.Warningf("executor: graph has no loss output; Forward and Backward will be unavailable")
	}
	if k, ok := g.NumInferenceNodes(); ok {
		m.nInferenceNodes, m.hasSchedule = k, true
	} else {
		klog.Warningf("executor: graph has no well-defined n_inference_nodes; Inference will be unavailable")
	}

	return m, nil
}

// collectSymbolsByID gathers every symbol the graph has allocated —
// inputs, parameters, and every node's outputs — and returns them
// sorted by Symbol.ID(). allocSymbol assigns ids densely starting at
// 0, so the result's length must equal NumSymbols(); a mismatch means
// a symbol exists that this graph didn't originate (a programming
// error in the caller, not a data problem), and is reported rather
// than silently tolerated.
func collectSymbolsByID(g *graph.Graph) ([]graph.Symbol, error) {
	all := make([]graph.Symbol, 0, g.NumSymbols())
	all = append(all, g.Inputs()...)
	for _, p := range g.Params() {
		all = append(all, p.Symbol)
	}
	for _, n := range g.Nodes() {
		all = append(all, n.Outputs...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })

	if len(all) != g.NumSymbols() {
		return nil, errors.Errorf("executor: collected %d symbols, graph declares %d", len(all), g.NumSymbols())
	}
	return all, nil
}

// initialTensor returns the zero-valued starting tensor for a symbol:
// zeros for inputs and node outputs (both get overwritten before
// they're ever read), or the parameter's declared initializer.
func initialTensor[T tensor.Numeric](s graph.Symbol, paramInit map[int]graph.InitSpec) *tensor.Tensor[T] {
	init, ok := paramInit[s.ID()]
	if !ok {
		return tensor.New[T](s.Shape())
	}
	t := tensor.New[T](s.Shape())
	switch init.Kind {
	case graph.InitZeros:
		// already zero
	case graph.InitData:
		storeUpTo(t, init.Data)
	case graph.InitNamed:
		if fn, ok := lookupInitializer(init.Named); ok {
			storeUpTo(t, fn(s.Shape(), init.Data))
		} else {
			klog.Warningf("executor: no initializer registered as %q; leaving parameter zero-filled", init.Named)
		}
	}
	return t
}

func storeUpTo[T tensor.Numeric](t *tensor.Tensor[T], data []float64) {
	for i, v := range data {
		if i >= t.NumElements() {
			break
		}
		t.Store(i, T(v))
	}
}

// bindInputs copies each supplied tensor into its declared input
// symbol's TENSORS slot.
func (m *Model[T]) bindInputs(inputs []*tensor.Tensor[T]) error {
	declared := m.graph.Inputs()
	if len(inputs) != len(declared) {
		return errors.Wrapf(ErrInputCountMismatch, "got %d, want %d", len(inputs), len(declared))
	}
	for i, sym := range declared {
		if !inputs[i].Shape().Equal(sym.Shape()) {
			return errors.Wrapf(ErrInputShapeMismatch, "input %d: got %s, want %s", i, inputs[i].Shape(), sym.Shape())
		}
		m.tensors.Get(sym).CopyFrom(inputs[i])
	}
	return nil
}

// runForward executes dispatch[0:k] in order, assuming inputs are
// already bound into TENSORS.
func (m *Model[T]) runForward(k int) error {
	for i := 0; i < k; i++ {
		if err := m.metrics.track(i, func() error { return m.dispatch[i].forward(m.tensors) }); err != nil {
			return err
		}
	}
	return nil
}

// Forward runs every node in the graph and returns the loss tensor.
// It requires a loss output to have been registered; use Inference
// for a forward pass that only needs the declared outputs.
func (m *Model[T]) Forward(inputs ...*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	lossSym, ok := m.graph.LossOut()
	if !ok {
		return nil, ErrNoLossRegistered
	}
	if err := m.bindInputs(inputs); err != nil {
		return nil, err
	}
	if err := m.runForward(len(m.dispatch)); err != nil {
		return nil, err
	}
	return m.tensors.Get(lossSym).Clone(), nil
}

// Inference runs only the nodes[0:n_inference_nodes] prefix and
// returns the declared graph outputs, in declaration order. It
// requires n_inference_nodes to be well-defined.
func (m *Model[T]) Inference(inputs ...*tensor.Tensor[T]) ([]*tensor.Tensor[T], error) {
	if !m.hasSchedule {
		return nil, ErrNoInferenceSchedule
	}
	if err := m.bindInputs(inputs); err != nil {
		return nil, err
	}
	if err := m.runForward(m.nInferenceNodes); err != nil {
		return nil, err
	}
	outputs := m.graph.Outputs()
	out := make([]*tensor.Tensor[T], len(outputs))
	for i, sym := range outputs {
		out[i] = m.tensors.Get(sym).Clone()
	}
	return out, nil
}

// Backward seeds the loss symbol's gradient with upstreamGrad, then
// walks every node in reverse declaration order accumulating gradients
// into GRADS for every trainable symbol they read. upstreamGrad is
// optional: pass nil to seed the loss gradient with ones, the usual
// choice for a scalar loss. Forward (not Inference) must have been run
// first, since Backward reads every node's forward-pass inputs out of
// TENSORS.
func (m *Model[T]) Backward(upstreamGrad *tensor.Tensor[T]) error {
	lossSym, ok := m.graph.LossOut()
	if !ok {
		return ErrNoLossRegistered
	}

	for _, s := range m.symbols {
		if s.Trainable() {
			m.grads.Get(s).Fill(0)
		}
	}
	if upstreamGrad == nil {
		m.grads.Get(lossSym).Fill(1)
	} else {
		m.grads.Get(lossSym).CopyFrom(upstreamGrad)
	}

	nodes := m.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if err := m.dispatch[i].backward(m.tensors, m.grads); err != nil {
			return err
		}
	}
	return nil
}

// Grad returns the accumulated gradient for a symbol, if it's
// trainable. Per the specification's GRADS invariant, a non-trainable
// symbol has no gradient entry at all — Grad reports that as ok=false
// rather than returning a zero tensor, even though internally GRADS is
// a dense arena sized like TENSORS for the same reason Model uses a
// dense arena rather than a sparse map: O(1) access without a
// per-lookup existence branch in the hot path.
func (m *Model[T]) Grad(sym graph.Symbol) (*tensor.Tensor[T], bool) {
	if !sym.Trainable() {
		return nil, false
	}
	return m.grads.Get(sym).Clone(), true
}

// NumInferenceNodes returns the graph's n_inference_nodes, if defined.
func (m *Model[T]) NumInferenceNodes() (int, bool) {
	return m.nInferenceNodes, m.hasSchedule
}

// NodeDurations exposes per-node wall-clock timings from the most
// recent Forward/Inference pass. Populated only in a -tags debug
// build; nil (and free to obtain) otherwise.
func (m *Model[T]) NodeDurations() []time.Duration {
	return m.metrics.Durations()
}
