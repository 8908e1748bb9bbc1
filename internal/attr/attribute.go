// Package attr implements the small, name-keyed attribute bag
// attached to every graph node: integer scalars, fixed-length integer
// tuples (kernel/stride/padding/dilation pairs for MAXPOOL2D, and
// SQUEEZE/UNSQUEEZE's `dims` lists), and shape literals.
package attr

import "github.com/aotgraph/aotgraph/internal/tensor"

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindInt holds a single integer scalar.
	KindInt Kind = iota
	// KindIntPair holds a tuple of integers: a 2-tuple from Pair, or any
	// length from Ints.
	KindIntPair
	// KindShape holds a tensor.Shape literal.
	KindShape
)

// Value is a tagged union over the attribute value kinds an operator
// can read. Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Int     int
	IntPair []int
	Shape   tensor.Shape
}

// ToInt extracts the integer scalar. ok is false if this value isn't
// a KindInt.
func (v Value) ToInt() (int, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// ToPair extracts a 2-tuple of integers, the common case for
// kernel_size/stride/padding/dilation attributes.
func (v Value) ToPair() ([2]int, bool) {
	if v.Kind != KindIntPair || len(v.IntPair) != 2 {
		return [2]int{}, false
	}
	return [2]int{v.IntPair[0], v.IntPair[1]}, true
}

// ToShape extracts a tensor.Shape literal.
func (v Value) ToShape() (tensor.Shape, bool) {
	if v.Kind != KindShape {
		return nil, false
	}
	return v.Shape, true
}

// ToIntSlice extracts a variable-length integer tuple (used for the
// `dims` spelling of SQUEEZE/UNSQUEEZE, which may list any number of
// axes).
func (v Value) ToIntSlice() ([]int, bool) {
	if v.Kind != KindIntPair {
		return nil, false
	}
	out := make([]int, len(v.IntPair))
	copy(out, v.IntPair)
	return out, true
}

// namedValue pairs an attribute name with its value.
type namedValue struct {
	name  string
	value Value
}

// Vector is an ordered name -> Value list attached to a graph Node.
// Lookups are by name; unknown names return ok=false rather than a
// zero value, so callers can tell "absent" apart from "present and
// zero."
type Vector []namedValue

// Int returns a named entry holding an integer scalar, for use with
// New.
func Int(name string, v int) namedValue {
	return namedValue{name: name, value: Value{Kind: KindInt, Int: v}}
}

// Pair returns a named entry holding a 2-tuple, for use with New.
func Pair(name string, a, b int) namedValue {
	return namedValue{name: name, value: Value{Kind: KindIntPair, IntPair: []int{a, b}}}
}

// Ints returns a named entry holding a variable-length integer tuple,
// for use with New.
func Ints(name string, vs ...int) namedValue {
	cp := make([]int, len(vs))
	copy(cp, vs)
	return namedValue{name: name, value: Value{Kind: KindIntPair, IntPair: cp}}
}

// ShapeAttr returns a named entry holding a shape literal, for use
// with New.
func ShapeAttr(name string, shape tensor.Shape) namedValue {
	return namedValue{name: name, value: Value{Kind: KindShape, Shape: shape}}
}

// New builds a Vector from a list of named values produced by Int,
// Pair, Ints or ShapeAttr.
func New(entries ...namedValue) Vector {
	out := make(Vector, len(entries))
	copy(out, entries)
	return out
}

// Lookup returns the value bound to name, if any.
func (v Vector) Lookup(name string) (Value, bool) {
	for _, e := range v {
		if e.name == name {
			return e.value, true
		}
	}
	return Value{}, false
}

// Has reports whether name is present in the vector.
func (v Vector) Has(name string) bool {
	_, ok := v.Lookup(name)
	return ok
}
