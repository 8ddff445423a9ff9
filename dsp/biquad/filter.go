package biquad

// Filter runs one low-pass biquad across multiple channels. Coefficient
// design is memoized: CalculateParams recomputes only when cutoff,
// resonance, or the channel count actually changed, which keeps the
// per-block cost of an unchanged parameter set at three comparisons.
type Filter struct {
	coeffs   Coefficients
	sections []Section

	lastCutoff    float64
	lastResonance float64
	lastChannels  int

	generation uint64
}

// NewFilter returns a Filter with no designed coefficients yet. The first
// CalculateParams call always recomputes.
func NewFilter() *Filter {
	return &Filter{lastCutoff: -1}
}

// CalculateParams designs coefficients for a Nyquist-normalized cutoff,
// a resonance in dB, and a channel count, skipping the work when all three
// match the previous call. Channel state survives a pure coefficient
// change; a channel-count change reuses existing per-channel state where
// possible.
//
// Growing the channel count may allocate, so it must only happen while the
// engine is reconfigured, never from a live render call.
func (f *Filter) CalculateParams(cutoff, resonanceDB float64, channels int) {
	if cutoff == f.lastCutoff && resonanceDB == f.lastResonance && channels == f.lastChannels {
		return
	}

	f.coeffs = DesignLowPass(cutoff, resonanceDB)

	if cap(f.sections) < channels {
		next := make([]Section, channels)
		copy(next, f.sections)
		f.sections = next
	} else {
		f.sections = f.sections[:channels]
	}

	for ch := range f.sections {
		f.sections[ch].Coefficients = f.coeffs
	}

	f.generation++
	f.lastCutoff = cutoff
	f.lastResonance = resonanceDB
	f.lastChannels = channels
}

// Apply filters frames samples from ins into outs, one Section per channel,
// then scrubs every channel's delay line so denormal or overflow creep
// cannot persist across blocks. CalculateParams must have been called with
// a channel count covering len(ins). outs[ch] may alias ins[ch].
func (f *Filter) Apply(ins, outs [][]float64, frames int) {
	for ch := range f.sections {
		f.sections[ch].ProcessBlockTo(outs[ch][:frames], ins[ch][:frames])
		f.sections[ch].ScrubState()
	}
}

// Coefficients returns the most recently designed coefficient set.
func (f *Filter) Coefficients() Coefficients {
	return f.coeffs
}

// Generation returns the number of genuine coefficient recomputes so far.
// Response displays can use it to redraw only when the design changed.
func (f *Filter) Generation() uint64 {
	return f.generation
}

// Channels returns the channel count of the last design.
func (f *Filter) Channels() int {
	return len(f.sections)
}

// Reset clears every channel's delay line.
func (f *Filter) Reset() {
	for ch := range f.sections {
		f.sections[ch].Reset()
	}
}

// ChannelState returns the delay-line state of one channel, for inspection.
func (f *Filter) ChannelState(ch int) [4]float64 {
	return f.sections[ch].State()
}
