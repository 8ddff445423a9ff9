package biquad

import (
	"math"

	"github.com/bradhowes/LPF-sub000/dsp/core"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows the direct-form difference equation:
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// DesignLowPass computes low-pass coefficients from a cutoff normalized by
// Nyquist (0..1; callers divide their cutoff in Hz by the Nyquist frequency,
// keeping the design sample-rate-free) and a resonance in dB. Positive
// resonance boosts the region near cutoff, negative attenuates it.
//
// The design is closed form and pure: identical inputs yield bit-identical
// coefficients. Unity gain at DC falls out of the construction.
func DesignLowPass(cutoff, resonanceDB float64) Coefficients {
	r := core.DBToLinear(-resonanceDB)
	k := 0.5 * r * math.Sin(math.Pi*cutoff)
	c1 := (1 - k) / (1 + k)
	c2 := (1 + c1) * math.Cos(math.Pi*cutoff)
	c3 := (1 + c1 - c2) * 0.25

	return Coefficients{
		B0: c3,
		B1: 2 * c3,
		B2: c3,
		A1: -c2,
		A2: c1,
	}
}
