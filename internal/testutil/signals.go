// Package testutil provides deterministic stimulus signals and slice
// assertions shared by the filter and measurement tests.
package testutil

import "math"

// DeterministicSine generates a sine wave with phase 0 at the first sample.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Impulse generates a unit impulse at pos. Out-of-range positions yield
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos < 0 || pos >= length {
		return out
	}
	out[pos] = 1
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	if value == 0 {
		return out
	}
	for i := range out {
		out[i] = value
	}
	return out
}
