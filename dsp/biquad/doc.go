// Package biquad provides the low-pass biquad runtime: closed-form
// coefficient design, per-channel direct-form block processing, and
// unit-circle magnitude response evaluation.
//
// A [Section] filters one channel and keeps the direct-form delay line
// (two prior inputs, two prior outputs). Block processing goes through an
// architecture-selected kernel chosen once per process from CPU features.
// [Filter] owns one Section per channel and memoizes [DesignLowPass]
// inputs, so an unchanged parameter set costs three comparisons per block.
//
// Response evaluation ([Coefficients.MagnitudeAt], [ResponseMagnitudes])
// is display-oriented: degenerate values clamp to unity instead of
// surfacing NaN or Inf.
package biquad
