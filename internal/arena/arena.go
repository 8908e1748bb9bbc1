// Package arena implements the symbol-keyed tensor stores (TENSORS and
// GRADS in the specification's terms) that Model owns. An Arena is
// append-only during allocation and then mutated in place by kernels;
// Symbol ids are assigned monotonically by a Graph, so an Arena can
// use a plain slice indexed by id for true O(1) access instead of a
// map.
package arena

import (
	"fmt"

	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
)

// Arena is a process-wide-by-convention, Symbol-keyed Tensor store.
// Exactly one Arena of each of TENSORS and GRADS exists per live
// Model[T] — see Model's doc comment for why that's the idiomatic
// stand-in for the specification's global-arena design once the
// store is generic over a dtype.
type Arena[T tensor.Numeric] struct {
	slots []*tensor.Tensor[T]
}

// New returns an empty Arena.
func New[T tensor.Numeric]() *Arena[T] {
	return &Arena[T]{}
}

// Clear drops every entry and resets the arena to empty, so that a new
// graph's symbol ids — which restart at 0 — can be appended without
// aliasing earlier tensors. NewModel does not call it: each Model
// allocates two fresh arenas instead.
func (a *Arena[T]) Clear() {
	a.slots = nil
}

// Append inserts t at symbol's slot. symbol.ID() must equal the
// arena's current length (ids are assigned and appended in the same
// monotonic order); appending out of order or appending a symbol that
// already has an entry is a fatal programming error and panics,
// matching the specification's treatment of arena invariant
// violations as programmer errors rather than recoverable conditions.
func (a *Arena[T]) Append(t *tensor.Tensor[T], symbol graph.Symbol) {
	if symbol.ID() != len(a.slots) {
		panic(fmt.Sprintf("arena: Append out of order: symbol id %d, arena has %d entries", symbol.ID(), len(a.slots)))
	}
	a.slots = append(a.slots, t)
}

// Get returns the tensor at symbol's slot. Panics if the symbol has no
// entry — every symbol read during execution must have been appended
// beforehand, per the specification's arena invariants.
func (a *Arena[T]) Get(symbol graph.Symbol) *tensor.Tensor[T] {
	if symbol.ID() < 0 || symbol.ID() >= len(a.slots) || a.slots[symbol.ID()] == nil {
		panic(fmt.Sprintf("arena: no entry for symbol id %d", symbol.ID()))
	}
	return a.slots[symbol.ID()]
}

// Has reports whether symbol has an entry in this arena, without
// panicking — Set uses it to reject writes to a symbol that was never
// appended.
func (a *Arena[T]) Has(symbol graph.Symbol) bool {
	return symbol.ID() >= 0 && symbol.ID() < len(a.slots) && a.slots[symbol.ID()] != nil
}

// Set overwrites the tensor at symbol's slot. Panics if the symbol has
// no entry yet (use Append for first insertion).
func (a *Arena[T]) Set(symbol graph.Symbol, t *tensor.Tensor[T]) {
	if !a.Has(symbol) {
		panic(fmt.Sprintf("arena: Set on unallocated symbol id %d", symbol.ID()))
	}
	a.slots[symbol.ID()] = t
}

// Len returns the number of entries currently held.
func (a *Arena[T]) Len() int {
	return len(a.slots)
}
