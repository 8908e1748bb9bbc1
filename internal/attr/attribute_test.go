package attr

import (
	"testing"

	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestVector_LookupKnownAndUnknown(t *testing.T) {
	v := New(Int("dim", 1), Pair("stride", 2, 2))

	got, ok := v.Lookup("dim")
	assert.True(t, ok)
	i, ok := got.ToInt()
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = v.Lookup("missing")
	assert.False(t, ok)
}

func TestVector_PairAndIntSlice(t *testing.T) {
	v := New(Pair("kernel_size", 2, 3), Ints("dims", 0, 2, 4))

	kv, _ := v.Lookup("kernel_size")
	pair, ok := kv.ToPair()
	assert.True(t, ok)
	assert.Equal(t, [2]int{2, 3}, pair)

	dv, _ := v.Lookup("dims")
	dims, ok := dv.ToIntSlice()
	assert.True(t, ok)
	assert.Equal(t, []int{0, 2, 4}, dims)
}

func TestVector_ShapeAttr(t *testing.T) {
	v := New(ShapeAttr("shape", tensor.Shape{1, 3, 4}))
	sv, ok := v.Lookup("shape")
	assert.True(t, ok)
	s, ok := sv.ToShape()
	assert.True(t, ok)
	assert.True(t, s.Equal(tensor.Shape{1, 3, 4}))
}

func TestVector_WrongKindExtraction(t *testing.T) {
	v := New(Int("dim", 1))
	dv, _ := v.Lookup("dim")
	_, ok := dv.ToPair()
	assert.False(t, ok)
}

func TestVector_Has(t *testing.T) {
	v := New(Int("dim", 0))
	assert.True(t, v.Has("dim"))
	assert.False(t, v.Has("dims"))
}
