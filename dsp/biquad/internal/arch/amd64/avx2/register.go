//go:build amd64 && !purego

package avx2

import (
	"github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

// processBlock is a 4x-unrolled direct-form kernel selected for
// AVX2-capable CPUs. TODO: replace with explicit AVX2 asm kernel.
func processBlock(c registry.Coefficients, s registry.State, dst, src []float64) registry.State {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2
	x1, x2 := s.X1, s.X2
	y1, y2 := s.Y1, s.Y2

	i := 0
	n := len(src)
	for ; i+3 < n; i += 4 {
		in0 := src[i]
		out0 := b0*in0 + b1*x1 + b2*x2 - a1*y1 - a2*y2

		in1 := src[i+1]
		out1 := b0*in1 + b1*in0 + b2*x1 - a1*out0 - a2*y1

		in2 := src[i+2]
		out2 := b0*in2 + b1*in1 + b2*in0 - a1*out1 - a2*out0

		in3 := src[i+3]
		out3 := b0*in3 + b1*in2 + b2*in1 - a1*out2 - a2*out1

		x2, x1 = in2, in3
		y2, y1 = out2, out3

		dst[i] = out0
		dst[i+1] = out1
		dst[i+2] = out2
		dst[i+3] = out3
	}

	for ; i < n; i++ {
		in := src[i]
		out := b0*in + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, in
		y2, y1 = y1, out
		dst[i] = out
	}

	return registry.State{X1: x1, X2: x2, Y1: y1, Y2: y2}
}
