// Package param provides lock-free parameter smoothing for render threads.
//
// A Ramper decouples the goroutines that publish parameter changes from the
// goroutine that renders audio. Writers publish targets through atomics;
// the render goroutine owns the ramp state and walks it one sample at a
// time, so a parameter glides to its target instead of stepping audibly.
package param

import (
	"math"
	"sync/atomic"
)

// Ramper carries a parameter value toward its most recently published
// target over a fixed number of samples. Set and Value are safe from any
// goroutine; StartRamping, GetAndStep, StepBy, Current and Reset belong to
// the render goroutine alone.
type Ramper struct {
	pending atomic.Uint64 // math.Float64bits of the latest target
	changes atomic.Int32

	// Ramp state, owned by the render goroutine.
	lastUpdate int32
	slope      float64
	offset     float64
	remaining  int
}

// NewRamper returns a ramper resting at the given value.
func NewRamper(value float64) *Ramper {
	r := &Ramper{}
	r.pending.Store(math.Float64bits(value))
	r.offset = value
	return r
}

// Set publishes a new target. The render goroutine picks it up on its next
// StartRamping call.
func (r *Ramper) Set(value float64) {
	r.pending.Store(math.Float64bits(value))
	r.changes.Add(1)
}

// SetRamped publishes a new target and begins ramping toward it right
// away, without waiting for the next StartRamping call. Used when applying
// a scheduled parameter event that carries its own ramp duration. The
// change counter is left alone so a pending control-thread Set still gets
// its own ramp later. Call only from the render goroutine.
func (r *Ramper) SetRamped(value float64, duration int) {
	r.pending.Store(math.Float64bits(value))
	r.startRamp(duration)
}

// Value returns the most recently published target.
func (r *Ramper) Value() float64 {
	return math.Float64frombits(r.pending.Load())
}

// StartRamping begins a ramp from the current position to the pending
// target if a new target has been published since the last call, and
// reports whether a ramp is in progress. A duration of zero or less jumps
// straight to the target.
func (r *Ramper) StartRamping(duration int) bool {
	if counter := r.changes.Load(); counter != r.lastUpdate {
		r.lastUpdate = counter
		r.startRamp(duration)
	}
	return r.remaining != 0
}

func (r *Ramper) startRamp(duration int) {
	target := r.Value()
	if duration <= 0 {
		r.jumpTo(target)
		return
	}
	r.slope = (r.Current() - target) / float64(duration)
	r.remaining = duration
	r.offset = target
}

func (r *Ramper) jumpTo(value float64) {
	r.offset = value
	r.slope = 0
	r.remaining = 0
}

// GetAndStep advances the ramp one sample and returns the value at the new
// position. The Nth call after a ramp over N samples begins returns the
// target exactly; further calls keep returning it.
func (r *Ramper) GetAndStep() float64 {
	if r.remaining > 0 {
		r.remaining--
	}
	return r.Current()
}

// StepBy advances the ramp by frames samples without evaluating each
// position. Values of frames at or past the end of the ramp finish it.
func (r *Ramper) StepBy(frames int) {
	if frames <= 0 {
		return
	}
	if frames >= r.remaining {
		r.remaining = 0
		return
	}
	r.remaining -= frames
}

// Current returns the value at the ramp's current position without
// advancing it. Once a ramp has finished this is the target itself.
func (r *Ramper) Current() float64 {
	return r.slope*float64(r.remaining) + r.offset
}

// Ramping reports whether a ramp is still in progress.
func (r *Ramper) Ramping() bool {
	return r.remaining != 0
}

// Reset parks the ramper on the pending target and clears change tracking.
// The published value itself is kept.
func (r *Ramper) Reset() {
	r.jumpTo(r.Value())
	r.changes.Store(0)
	r.lastUpdate = 0
}
