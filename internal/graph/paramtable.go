package graph

// InitKind distinguishes how a parameter's initial values are
// produced when a Model allocates its arena.
type InitKind int

const (
	// InitZeros fills the parameter with zeros (the default when no InitSpec is given).
	InitZeros InitKind = iota
	// InitData copies InitSpec.Data verbatim into the parameter's tensor.
	InitData
	// InitNamed calls a registered named initializer (e.g. "ones", "constant").
	InitNamed
)

// InitSpec describes how a parameter's tensor should be populated.
// Named takes priority over Data, which takes priority over the
// zero-fill default — this mirrors the precedence spec.md §4.G lists
// for Model construction.
type InitSpec struct {
	Kind  InitKind
	Named string
	Data  []float64
}

// ZeroInit is the default InitSpec: the parameter's tensor is zero-filled.
func ZeroInit() InitSpec {
	return InitSpec{Kind: InitZeros}
}

// DataInit returns an InitSpec that copies explicit data into the
// parameter's tensor at allocation time.
func DataInit(data []float64) InitSpec {
	return InitSpec{Kind: InitData, Data: data}
}

// NamedInit returns an InitSpec that defers to a named initializer
// registered with the executor (e.g. "constant"). Data is optional and,
// if present, is passed through to the initializer as a hint.
func NamedInit(name string, data ...float64) InitSpec {
	return InitSpec{Kind: InitNamed, Named: name, Data: data}
}

// ParamEntry pairs a parameter Symbol with the InitSpec that produced it.
type ParamEntry struct {
	Symbol Symbol
	Init   InitSpec
}

// ParamTable is the ordered list of a Graph's parameters, in
// declaration order.
type ParamTable []ParamEntry
