package kernels

import (
	"math"

	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// poolGeometry is the (kernel_size, stride, padding, dilation) 2-tuple
// bundle MAXPOOL2D reads from its node's attributes. stride defaults
// to kernel_size and dilation defaults to (1,1) when absent, matching
// the common convolution-arithmetic convention; padding defaults to
// (0,0).
type poolGeometry struct {
	kh, kw int
	sh, sw int
	ph, pw int
	dh, dw int
}

func readPair(attrs attr.Vector, name string, defA, defB int) (int, int, error) {
	v, ok := attrs.Lookup(name)
	if !ok {
		return defA, defB, nil
	}
	p, ok := v.ToPair()
	if !ok {
		return 0, 0, errors.Wrapf(graph.ErrUnknownAttribute, "maxpool2d: %s has the wrong kind", name)
	}
	return p[0], p[1], nil
}

func poolGeometryOf(attrs attr.Vector) (poolGeometry, error) {
	var g poolGeometry
	var err error
	if g.kh, g.kw, err = readPair(attrs, "kernel_size", 0, 0); err != nil {
		return g, err
	}
	if g.kh <= 0 || g.kw <= 0 {
		return g, errors.Wrap(graph.ErrUnknownAttribute, "maxpool2d: requires a kernel_size attribute")
	}
	if g.sh, g.sw, err = readPair(attrs, "stride", g.kh, g.kw); err != nil {
		return g, err
	}
	if g.ph, g.pw, err = readPair(attrs, "padding", 0, 0); err != nil {
		return g, err
	}
	if g.dh, g.dw, err = readPair(attrs, "dilation", 1, 1); err != nil {
		return g, err
	}
	return g, nil
}

func poolOutExtent(in, pad, dilation, kernel, stride int) int {
	return (in+2*pad-dilation*(kernel-1)-1)/stride + 1
}

func init() {
	graph.RegisterShapeFn(graph.MAXPOOL2D, func(inputs []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error) {
		in := inputs[0]
		if in.Rank() != 4 {
			return nil, errors.Errorf("maxpool2d: expected rank-4 input [N,C,H,W], got rank %d", in.Rank())
		}
		g, err := poolGeometryOf(attrs)
		if err != nil {
			return nil, err
		}
		hOut := poolOutExtent(in[2], g.ph, g.dh, g.kh, g.sh)
		wOut := poolOutExtent(in[3], g.pw, g.dw, g.kw, g.sw)
		if hOut <= 0 || wOut <= 0 {
			return nil, errors.Errorf("maxpool2d: non-positive output extent %dx%d", hOut, wOut)
		}
		return []tensor.Shape{{in[0], in[1], hOut, wOut}}, nil
	})
}

// MaxPool2D is 2D max pooling over a rank-4 [N,C,H,W] input, with
// full (kernel_size, stride, padding, dilation) geometry.
//
// A window that falls entirely in the implicit padding (possible at
// the input's border when padding is large relative to the kernel)
// has no real element to take a maximum over; its output is -Inf and
// it deposits no gradient anywhere, since there is no input position
// for the gradient to route to. Ties within a window break to the
// first-scanned position, scanning row-major.
type MaxPool2D[T tensor.Numeric] struct{}

// argmaxWindow scans the pooling window for output position (n, c,
// outH, outW) and returns the flat input index of its maximum, or -1
// if every position in the window falls in implicit padding.
func argmaxWindow[T tensor.Numeric](in *tensor.Tensor[T], g poolGeometry, n, c, outH, outW, H, W int) (int, T) {
	hStart := outH*g.sh - g.ph
	wStart := outW*g.sw - g.pw

	best := -1
	var bestVal T = T(math.Inf(-1))
	for kh := 0; kh < g.kh; kh++ {
		h := hStart + kh*g.dh
		if h < 0 || h >= H {
			continue
		}
		for kw := 0; kw < g.kw; kw++ {
			w := wStart + kw*g.dw
			if w < 0 || w >= W {
				continue
			}
			idx := ((n*in.Shape()[1]+c)*H+h)*W + w
			val := in.Load(idx)
			if best == -1 || val > bestVal {
				best = idx
				bestVal = val
			}
		}
	}
	return best, bestVal
}

// Forward writes the max of each pooling window into output.
func (MaxPool2D[T]) Forward(output *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) {
	in := inputs[0]
	g, err := poolGeometryOf(attrs)
	if err != nil {
		panic(err)
	}
	shape := in.Shape()
	N, C, H, W := shape[0], shape[1], shape[2], shape[3]
	outShape := output.Shape()
	HOut, WOut := outShape[2], outShape[3]

	for n := 0; n < N; n++ {
		for c := 0; c < C; c++ {
			for outH := 0; outH < HOut; outH++ {
				for outW := 0; outW < WOut; outW++ {
					best, bestVal := argmaxWindow(in, g, n, c, outH, outW, H, W)
					outIdx := ((n*C+c)*HOut+outH)*WOut + outW
					if best == -1 {
						output.Store(outIdx, T(math.Inf(-1)))
					} else {
						output.Store(outIdx, bestVal)
					}
				}
			}
		}
	}
}

// Backward routes each output position's upstream gradient to the
// input position that produced its max, accumulating with += since
// overlapping windows (stride < kernel_size) can route more than one
// output to the same input element. Windows with no real max (fully
// in padding) deposit nothing.
func (MaxPool2D[T]) Backward(slot int, upstreamGrad *tensor.Tensor[T], inputs []*tensor.Tensor[T], attrs attr.Vector) *tensor.Tensor[T] {
	in := inputs[slot]
	g, err := poolGeometryOf(attrs)
	if err != nil {
		panic(err)
	}
	shape := in.Shape()
	N, C, H, W := shape[0], shape[1], shape[2], shape[3]
	gradShape := upstreamGrad.Shape()
	HOut, WOut := gradShape[2], gradShape[3]

	grad := tensor.New[T](in.Shape())
	for n := 0; n < N; n++ {
		for c := 0; c < C; c++ {
			for outH := 0; outH < HOut; outH++ {
				for outW := 0; outW < WOut; outW++ {
					best, _ := argmaxWindow(in, g, n, c, outH, outW, H, W)
					if best == -1 {
						continue
					}
					outIdx := ((n*C+c)*HOut+outH)*WOut + outW
					grad.Store(best, grad.Load(best)+upstreamGrad.Load(outIdx))
				}
			}
		}
	}
	return grad
}
