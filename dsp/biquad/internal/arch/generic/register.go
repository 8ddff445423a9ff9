package generic

import (
	"github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "generic",
		SIMDLevel:    cpu.SIMDNone,
		Priority:     0,
		ProcessBlock: processBlock,
	})
}

// processBlock is a 2x-unrolled direct-form kernel. Each input is read
// before its output slot is written, so dst may alias src.
func processBlock(c registry.Coefficients, s registry.State, dst, src []float64) registry.State {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2 := s.X1, s.X2
	y1, y2 := s.Y1, s.Y2

	i := 0
	n := len(src)
	for ; i+1 < n; i += 2 {
		in0 := src[i]
		out0 := b0*in0 + b1*x1 + b2*x2 - a1*y1 - a2*y2

		in1 := src[i+1]
		out1 := b0*in1 + b1*in0 + b2*x1 - a1*out0 - a2*y1

		x2, x1 = in0, in1
		y2, y1 = out0, out1

		dst[i] = out0
		dst[i+1] = out1
	}

	if i < n {
		in := src[i]
		out := b0*in + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, in
		y2, y1 = y1, out
		dst[i] = out
	}

	return registry.State{X1: x1, X2: x2, Y1: y1, Y2: y2}
}
