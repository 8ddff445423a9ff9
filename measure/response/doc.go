// Package response measures the magnitude response a filter actually
// realizes, as opposed to the one its coefficients promise.
//
// The analyzer drives a freshly constructed biquad section with a unit
// impulse, transforms the truncated impulse response, and reports the
// single-sided magnitude spectrum:
//
//   - Measure: magnitude per FFT bin from DC to Nyquist
//   - BinFrequencies: bin centers in Hz for plotting and lookup
//   - CompareDesigned: worst-case deviation from the closed-form response
//
// # Usage
//
//	analyzer, err := response.NewAnalyzer(44100, 4096)
//	mags, err := analyzer.Measure(biquad.DesignLowPass(0.05, 6))
//	fmt.Printf("DC gain %.3f\n", mags[0])
package response
