package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/bradhowes/LPF-sub000/dsp/biquad"
	"github.com/bradhowes/LPF-sub000/dsp/core"
)

// Errors returned by response measurement functions.
var (
	ErrInvalidSize       = errors.New("response: FFT size must be a power of two and >= 2")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
)

// Analyzer measures realized magnitude responses at a fixed sample rate and
// FFT size. The FFT plan and spectrum scratch are reused across
// measurements.
type Analyzer struct {
	sampleRate float64
	size       int

	plan *algofft.Plan[complex128]

	impulse []float64
	padded  []complex128
	freq    []complex128
	re      []float64
	im      []float64
}

// NewAnalyzer creates a response analyzer. size sets the FFT length and must
// be a power of two.
func NewAnalyzer(sampleRate float64, size int) (*Analyzer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if size < 2 || size&(size-1) != 0 {
		return nil, ErrInvalidSize
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	return &Analyzer{
		sampleRate: sampleRate,
		size:       size,
		plan:       plan,
		impulse:    make([]float64, size),
		padded:     make([]complex128, size),
		freq:       make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
	}, nil
}

// SampleRate returns the analyzer sample rate.
func (a *Analyzer) SampleRate() float64 {
	return a.sampleRate
}

// Size returns the FFT length.
func (a *Analyzer) Size() int {
	return a.size
}

// Bins returns the number of single-sided spectrum bins, Size/2 + 1.
func (a *Analyzer) Bins() int {
	return a.size/2 + 1
}

// BinFrequencies returns the center frequency in Hz of every measured bin,
// from DC up to Nyquist.
func (a *Analyzer) BinFrequencies() []float64 {
	out := make([]float64, a.Bins())
	for i := range out {
		out[i] = float64(i) * a.sampleRate / float64(a.size)
	}
	return out
}

// Measure drives a fresh filter section built from coeffs with a unit
// impulse and returns the single-sided magnitude spectrum of the response.
//
// The impulse response is truncated at the FFT length, so strongly resonant
// designs need a size long enough for their tail to die out below the
// accuracy of interest.
func (a *Analyzer) Measure(coeffs biquad.Coefficients) ([]float64, error) {
	core.Zero(a.impulse)
	a.impulse[0] = 1

	sec := biquad.NewSection(coeffs)
	sec.ProcessBlock(a.impulse)

	for i, v := range a.impulse {
		a.padded[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.freq, a.padded); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := a.Bins()
	for i := range bins {
		a.re[i] = real(a.freq[i])
		a.im[i] = imag(a.freq[i])
	}

	out := make([]float64, bins)
	vecmath.Magnitude(out, a.re, a.im)
	return out, nil
}

// CompareDesigned measures coeffs and returns the maximum absolute
// deviation between the measured spectrum and the closed-form magnitude
// response at the bin frequencies.
//
// The bin exactly on Nyquist is not compared: the closed form clamps its
// degenerate evaluation there to unity while the measurement keeps the true
// residual.
func (a *Analyzer) CompareDesigned(coeffs biquad.Coefficients) (float64, error) {
	measured, err := a.Measure(coeffs)
	if err != nil {
		return 0, err
	}

	maxDev := 0.0
	for i := range len(measured) - 1 {
		normFreq := 2 * float64(i) / float64(a.size)
		dev := math.Abs(measured[i] - coeffs.MagnitudeAt(normFreq))
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev, nil
}
