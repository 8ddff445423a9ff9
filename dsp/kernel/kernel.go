package kernel

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/bradhowes/LPF-sub000/dsp/biquad"
	"github.com/bradhowes/LPF-sub000/dsp/core"
	"github.com/bradhowes/LPF-sub000/dsp/param"
)

// Parameter addresses recognized by SetValue, Value and parameter events.
const (
	AddressCutoff    uint64 = 1
	AddressResonance uint64 = 2
)

// Engine defaults, matching the classic low-pass demo configuration.
const (
	DefaultSampleRate  = 44100.0
	DefaultChannels    = 2
	DefaultMaxFrames   = 512
	DefaultRampMs      = 20.0
	DefaultCutoffHz    = 400.0
	DefaultResonanceDB = 20.0
)

// Parameter bounds enforced on the control path.
const (
	minCutoffHz    = 12.0
	maxCutoffRatio = 0.99 // of Nyquist
	minResonanceDB = -20.0
	maxResonanceDB = 40.0
)

var (
	// ErrTooManyFrames is returned by Process when the frame count exceeds
	// the configured maximum.
	ErrTooManyFrames = errors.New("kernel: frame count exceeds configured maximum")
	// ErrNotStarted is returned by Process before Start or after Stop.
	ErrNotStarted = errors.New("kernel: not started")
	// ErrRunning is returned by Configure and Start while the kernel is
	// already rendering.
	ErrRunning = errors.New("kernel: running")
)

// Format describes the stream the kernel renders.
type Format struct {
	SampleRate float64
	Channels   int
	MaxFrames  int
}

// Option configures a Kernel at construction.
type Option func(*Kernel)

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(hz float64) Option {
	return func(k *Kernel) { k.format.SampleRate = hz }
}

// WithChannels sets the channel count.
func WithChannels(n int) Option {
	return func(k *Kernel) { k.format.Channels = n }
}

// WithMaxFrames sets the largest frame count a single Process call may
// carry.
func WithMaxFrames(n int) Option {
	return func(k *Kernel) { k.format.MaxFrames = n }
}

// WithRampMs sets the glide window applied to control-thread parameter
// changes, in milliseconds.
func WithRampMs(ms float64) Option {
	return func(k *Kernel) { k.rampMs = ms }
}

// WithCutoffHz sets the initial cutoff frequency. Values outside the valid
// range are clamped.
func WithCutoffHz(hz float64) Option {
	return func(k *Kernel) { k.initialCutoffHz = hz }
}

// WithResonanceDB sets the initial resonance. Values outside the valid
// range are clamped.
func WithResonanceDB(db float64) Option {
	return func(k *Kernel) { k.initialResonanceDB = db }
}

// Kernel is the render engine: a low-pass biquad over N channels driven by
// two ramped parameters, fed by an upstream pull callback, with scheduled
// events applied at exact sample positions.
//
// Configure, Start, Stop, SetValue and Value belong to the control
// goroutine; Process belongs to the render goroutine; Magnitudes may run
// anywhere.
type Kernel struct {
	proc   *Processor[*Kernel]
	filter *biquad.Filter

	cutoff    *param.Ramper // Hz
	resonance *param.Ramper // dB

	format        Format
	nyquist       float64
	nyquistPeriod float64
	rampMs        float64
	rampFrames    int

	initialCutoffHz    float64
	initialResonanceDB float64

	started atomic.Bool
}

// New builds a stopped kernel. Call Start before Process.
func New(opts ...Option) (*Kernel, error) {
	k := &Kernel{
		format: Format{
			SampleRate: DefaultSampleRate,
			Channels:   DefaultChannels,
			MaxFrames:  DefaultMaxFrames,
		},
		rampMs:             DefaultRampMs,
		initialCutoffHz:    DefaultCutoffHz,
		initialResonanceDB: DefaultResonanceDB,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}

	if err := validateFormat(k.format); err != nil {
		return nil, err
	}
	if k.rampMs < 0 {
		return nil, fmt.Errorf("kernel: ramp window must be >= 0 ms: %f", k.rampMs)
	}

	k.proc = NewProcessor(k)
	k.filter = biquad.NewFilter()
	k.applyFormat()
	k.cutoff = param.NewRamper(k.clampCutoff(k.initialCutoffHz))
	k.resonance = param.NewRamper(clampResonance(k.initialResonanceDB))
	return k, nil
}

func validateFormat(f Format) error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("kernel: sample rate must be > 0: %f", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("kernel: channel count must be > 0: %d", f.Channels)
	}
	if f.MaxFrames <= 0 {
		return fmt.Errorf("kernel: max frames must be > 0: %d", f.MaxFrames)
	}
	return nil
}

func (k *Kernel) applyFormat() {
	k.nyquist = 0.5 * k.format.SampleRate
	k.nyquistPeriod = 1 / k.nyquist
	k.rampFrames = int(math.Floor(k.rampMs / 1000 * k.format.SampleRate))
}

func (k *Kernel) clampCutoff(hz float64) float64 {
	return core.Clamp(hz, minCutoffHz, k.nyquist*maxCutoffRatio)
}

func clampResonance(db float64) float64 {
	return core.Clamp(db, minResonanceDB, maxResonanceDB)
}

// Configure adopts a new stream format. Only valid while stopped; pending
// parameter values carry over, re-clamped against the new Nyquist limit.
func (k *Kernel) Configure(f Format) error {
	if k.started.Load() {
		return ErrRunning
	}
	if err := validateFormat(f); err != nil {
		return err
	}

	k.format = f
	k.applyFormat()
	k.cutoff.Set(k.clampCutoff(k.cutoff.Value()))
	k.cutoff.Reset()
	k.resonance.Reset()
	return nil
}

// Format returns the current stream format.
func (k *Kernel) Format() Format {
	return k.format
}

// Start allocates render resources and primes the filter design.
func (k *Kernel) Start() error {
	if k.started.Load() {
		return ErrRunning
	}

	k.proc.Configure(k.format.Channels, k.format.MaxFrames)
	k.filter.Reset()
	k.filter.CalculateParams(k.cutoff.Value()*k.nyquistPeriod, k.resonance.Value(), k.format.Channels)
	k.cutoff.Reset()
	k.resonance.Reset()
	k.started.Store(true)
	return nil
}

// Stop releases render resources. Safe to call repeatedly.
func (k *Kernel) Stop() {
	if !k.started.CompareAndSwap(true, false) {
		return
	}
	k.proc.Release()
	k.filter.Reset()
}

// SetValue publishes a new parameter target from the control goroutine.
// The value glides over the configured ramp window; out-of-range values
// are clamped.
func (k *Kernel) SetValue(address uint64, value float64) error {
	switch address {
	case AddressCutoff:
		k.cutoff.Set(k.clampCutoff(value))
	case AddressResonance:
		k.resonance.Set(clampResonance(value))
	default:
		return fmt.Errorf("kernel: unknown parameter address: %d", address)
	}
	return nil
}

// Value returns a parameter's most recently published target.
func (k *Kernel) Value(address uint64) (float64, error) {
	switch address {
	case AddressCutoff:
		return k.cutoff.Value(), nil
	case AddressResonance:
		return k.resonance.Value(), nil
	default:
		return 0, fmt.Errorf("kernel: unknown parameter address: %d", address)
	}
}

// SetBypass switches pass-through mode on or off.
func (k *Kernel) SetBypass(bypass bool) {
	k.proc.SetBypass(bypass)
}

// Bypassed reports whether pass-through mode is active.
func (k *Kernel) Bypassed() bool {
	return k.proc.Bypassed()
}

// Process pulls frames samples from the upstream callback, renders them
// through the filter and applies scheduled events at their exact sample
// positions. out must hold Format().Channels slices of at least frames
// samples each; a nil out[ch] requests in-place rendering on the staged
// input for that channel.
func (k *Kernel) Process(now int64, frames int, out [][]float64, events *Event, pull PullFunc) error {
	if !k.started.Load() {
		return ErrNotStarted
	}
	if frames > k.format.MaxFrames {
		return ErrTooManyFrames
	}
	if frames <= 0 {
		return nil
	}
	return k.proc.ProcessAndRender(now, frames, 0, out, events, pull)
}

// Magnitudes evaluates the filter's analytic magnitude response at the
// given frequencies in Hz, designing a throwaway coefficient set from the
// current parameter targets. Safe from any goroutine; degenerate results
// clamp to unity.
func (k *Kernel) Magnitudes(freqsHz []float64) []float64 {
	c := biquad.DesignLowPass(k.cutoff.Value()*k.nyquistPeriod, k.resonance.Value())

	normalized := make([]float64, len(freqsHz))
	for i, f := range freqsHz {
		normalized[i] = f * k.nyquistPeriod
	}
	return biquad.ResponseMagnitudes(c, normalized)
}

// RenderFrames filters one sub-block, refreshing the coefficient design
// from the ramped parameter values. Part of the Renderer contract; not
// called directly.
func (k *Kernel) RenderFrames(ins, outs [][]float64, frames int) {
	cutoffHz := k.rampedValue(k.cutoff, frames)
	resonanceDB := k.rampedValue(k.resonance, frames)
	k.filter.CalculateParams(cutoffHz*k.nyquistPeriod, resonanceDB, len(ins))
	k.filter.Apply(ins, outs, frames)
}

// rampedValue advances a parameter's ramp by a whole sub-block and returns
// the value used to design it. One coefficient update per sub-block keeps
// the design cost bounded while ramp positions stay sample-accurate across
// arbitrary event splits.
func (k *Kernel) rampedValue(r *param.Ramper, frames int) float64 {
	r.StartRamping(k.rampFrames)
	v := r.GetAndStep()
	r.StepBy(frames - 1)
	return v
}

// HandleParameterEvent applies a scheduled parameter change. Events
// carrying their own ramp duration begin ramping immediately; the rest
// glide over the kernel's ramp window like a control-thread SetValue.
// Part of the Renderer contract; not called directly.
func (k *Kernel) HandleParameterEvent(ev *Event) {
	var r *param.Ramper
	var value float64
	switch ev.Address {
	case AddressCutoff:
		r, value = k.cutoff, k.clampCutoff(ev.Value)
	case AddressResonance:
		r, value = k.resonance, clampResonance(ev.Value)
	default:
		return
	}

	if ev.RampFrames > 0 {
		r.SetRamped(value, ev.RampFrames)
		return
	}
	r.Set(value)
}

// HandleMIDIEvent accepts and ignores MIDI events. Part of the Renderer
// contract; not called directly.
func (k *Kernel) HandleMIDIEvent(ev *Event) {}
