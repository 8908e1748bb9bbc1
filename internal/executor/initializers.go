package executor

import "github.com/aotgraph/aotgraph/internal/tensor"

// InitializerFunc produces a parameter's initial flat data given its
// shape and the optional hint passed to graph.NamedInit.
type InitializerFunc func(shape tensor.Shape, hint []float64) []float64

var namedInitializers = map[string]InitializerFunc{
	"zeros": func(shape tensor.Shape, _ []float64) []float64 {
		return make([]float64, shape.NumElements())
	},
	"ones": func(shape tensor.Shape, _ []float64) []float64 {
		data := make([]float64, shape.NumElements())
		for i := range data {
			data[i] = 1
		}
		return data
	},
	"constant": func(shape tensor.Shape, hint []float64) []float64 {
		v := 0.0
		if len(hint) > 0 {
			v = hint[0]
		}
		data := make([]float64, shape.NumElements())
		for i := range data {
			data[i] = v
		}
		return data
	},
}

// RegisterInitializer makes a named initializer available to
// graph.NamedInit. Call from an init() function, the same
// open-registration idiom internal/graph uses for ResultShapeFuncs.
func RegisterInitializer(name string, fn InitializerFunc) {
	namedInitializers[name] = fn
}

func lookupInitializer(name string) (InitializerFunc, bool) {
	fn, ok := namedInitializers[name]
	return fn, ok
}
