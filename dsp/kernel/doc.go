// Package kernel composes the real-time low-pass render engine: an event
// scheduler that interleaves parameter and MIDI events with sample
// rendering, an input staging buffer fed by an upstream pull callback,
// lock-free ramped parameters, and the biquad filter core.
//
// The render entry point is Kernel.Process. It never allocates, never
// blocks and never logs; everything it needs is sized up front by Start.
// Control-side calls (SetValue, SetBypass) communicate with the render
// goroutine through atomics only.
package kernel
