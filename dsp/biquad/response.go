package biquad

import (
	"math"
	"sync"

	"github.com/bradhowes/LPF-sub000/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for polynomial part evaluation.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (numRe, numIm, denRe, denIm, denMag []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	buf.data = core.EnsureLen(buf.data, 5*n)
	numRe = buf.data[:n]
	numIm = buf.data[n : 2*n]
	denRe = buf.data[2*n : 3*n]
	denIm = buf.data[3*n : 4*n]
	denMag = buf.data[4*n : 5*n]
	return numRe, numIm, denRe, denIm, denMag, buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// MagnitudeAt evaluates |H| on the unit circle at one frequency normalized
// by Nyquist (0 = DC, 1 = Nyquist). Degenerate results clamp to unity so a
// response display never renders NaN, Inf, or runaway values.
func (c *Coefficients) MagnitudeAt(normFreq float64) float64 {
	theta := math.Pi * normFreq
	zr := math.Cos(theta)
	zi := math.Sin(theta)
	z2r := zr*zr - zi*zi
	z2i := 2 * zr * zi

	numRe := c.B0*z2r + c.B1*zr + c.B2
	numIm := c.B0*z2i + c.B1*zi
	denRe := z2r + c.A1*zr + c.A2
	denIm := z2i + c.A1*zi

	num := math.Sqrt(numRe*numRe + numIm*numIm)
	den := math.Sqrt(denRe*denRe + denIm*denIm)

	return clampMagnitude(num / den)
}

// ResponseMagnitudes evaluates |H| at each Nyquist-normalized query
// frequency, clamping degenerate results to unity per [MagnitudeAt].
//
// The numerator and denominator polynomial parts are reduced with
// SIMD-assisted vector magnitudes; scratch is pooled, so in steady state
// only the returned slice allocates. This path serves response displays
// and is never called from the render thread.
func ResponseMagnitudes(c Coefficients, normFreqs []float64) []float64 {
	if len(normFreqs) == 0 {
		return nil
	}

	out := make([]float64, len(normFreqs))
	numRe, numIm, denRe, denIm, denMag, buf := getScratch(len(normFreqs))

	for i, f := range normFreqs {
		theta := math.Pi * f
		zr := math.Cos(theta)
		zi := math.Sin(theta)
		z2r := zr*zr - zi*zi
		z2i := 2 * zr * zi

		numRe[i] = c.B0*z2r + c.B1*zr + c.B2
		numIm[i] = c.B0*z2i + c.B1*zi
		denRe[i] = z2r + c.A1*zr + c.A2
		denIm[i] = z2i + c.A1*zi
	}

	vecmath.Magnitude(out, numRe, numIm)
	vecmath.Magnitude(denMag, denRe, denIm)

	for i := range out {
		out[i] = clampMagnitude(out[i] / denMag[i])
	}

	putScratch(buf)
	return out
}

// clampMagnitude maps non-finite and out-of-range magnitudes to straight
// through (1.0) instead of letting garbage reach a display.
func clampMagnitude(m float64) float64 {
	if core.IsBadValue(m) {
		return 1
	}

	return m
}
