package kernels

import (
	"github.com/aotgraph/aotgraph/internal/attr"
	"github.com/aotgraph/aotgraph/internal/graph"
	"github.com/aotgraph/aotgraph/internal/tensor"
	"github.com/pkg/errors"
)

// CONV2D's output geometry is generalized from the teacher's
// Conv2D (stride, padding only) to the same four-tuple convention
// MaxPool2D uses, for consistency across the catalog — but like
// MATMUL, it has no forward/backward kernel here: it's a registered
// placeholder per the specification's framing of arithmetic/conv ops.
func init() {
	graph.RegisterShapeFn(graph.CONV2D, func(inputs []tensor.Shape, attrs attr.Vector) ([]tensor.Shape, error) {
		if len(inputs) != 2 {
			return nil, errors.Errorf("conv2d: expected exactly 2 inputs (input, kernel), got %d", len(inputs))
		}
		in, kernel := inputs[0], inputs[1]
		if in.Rank() != 4 {
			return nil, errors.Errorf("conv2d: expected rank-4 input [N,C,H,W], got rank %d", in.Rank())
		}
		if kernel.Rank() != 4 {
			return nil, errors.Errorf("conv2d: expected rank-4 kernel [C_out,C_in,K_h,K_w], got rank %d", kernel.Rank())
		}
		if in[1] != kernel[1] {
			return nil, errors.Errorf("conv2d: input channels %d != kernel channels %d", in[1], kernel[1])
		}
		g, err := poolGeometryFromConvAttrs(attrs, kernel[2], kernel[3])
		if err != nil {
			return nil, err
		}
		hOut := poolOutExtent(in[2], g.ph, g.dh, g.kh, g.sh)
		wOut := poolOutExtent(in[3], g.pw, g.dw, g.kw, g.sw)
		if hOut <= 0 || wOut <= 0 {
			return nil, errors.Errorf("conv2d: non-positive output extent %dx%d", hOut, wOut)
		}
		return []tensor.Shape{{in[0], kernel[0], hOut, wOut}}, nil
	})
}

// poolGeometryFromConvAttrs reads CONV2D's stride/padding/dilation
// attributes, with the kernel extents taken from the kernel tensor's
// own shape rather than a kernel_size attribute. Padding and dilation
// default as in poolGeometry; stride defaults to (1,1) rather than to
// the kernel extents.
func poolGeometryFromConvAttrs(attrs attr.Vector, kh, kw int) (poolGeometry, error) {
	g := poolGeometry{kh: kh, kw: kw}
	var err error
	if g.sh, g.sw, err = readPair(attrs, "stride", 1, 1); err != nil {
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
