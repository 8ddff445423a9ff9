// Package osc provides a table-lookup low-frequency oscillator for driving
// parameter modulation.
package osc

import (
	"fmt"
	"math"
)

// Waveform identifies the shape stored in an oscillator's wavetable.
type Waveform int

const (
	WaveformSine Waveform = iota
	WaveformTriangle
	WaveformSquare
	WaveformSawtooth
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformTriangle:
		return "triangle"
	case WaveformSquare:
		return "square"
	case WaveformSawtooth:
		return "sawtooth"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// LFO emits samples of a periodic waveform by table lookup with linear
// interpolation. Clones share one read-only wavetable while keeping
// independent phase, so per-channel modulators stay cheap.
type LFO struct {
	samples   []float64
	phase     float64
	increment float64
}

// NewLFO builds an oscillator over a fresh wavetable of the given size.
func NewLFO(w Waveform, tableSize int) (*LFO, error) {
	if tableSize <= 0 {
		return nil, fmt.Errorf("lfo table size must be > 0: %d", tableSize)
	}

	fill, err := tableFill(w, tableSize)
	if err != nil {
		return nil, err
	}

	samples := make([]float64, tableSize)
	for i := range samples {
		samples[i] = fill(i)
	}
	return &LFO{samples: samples}, nil
}

func tableFill(w Waveform, size int) (func(int) float64, error) {
	theta := 2 * math.Pi / float64(size)
	half := float64(size) / 2

	switch w {
	case WaveformSine:
		return func(i int) float64 {
			return math.Sin(theta * float64(i))
		}, nil
	case WaveformTriangle:
		return func(i int) float64 {
			return 2 / math.Pi * math.Asin(math.Sin(theta*float64(i)))
		}, nil
	case WaveformSquare:
		return func(i int) float64 {
			if float64(i) < half {
				return 1
			}
			return -1
		}, nil
	case WaveformSawtooth:
		return func(i int) float64 {
			if float64(i) < half {
				return float64(i) / half
			}
			return float64(i)/half - 2
		}, nil
	default:
		return nil, fmt.Errorf("unknown lfo waveform: %d", int(w))
	}
}

// Clone returns an oscillator sharing this one's wavetable and frequency
// with phase state of its own.
func (l *LFO) Clone() *LFO {
	return &LFO{samples: l.samples, increment: l.increment}
}

// Start sets the oscillator frequency relative to the stream sample rate.
// Both rates are in Hz.
func (l *LFO) Start(sampleRate, freqHz float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("lfo sample rate must be > 0: %f", sampleRate)
	}
	if freqHz <= 0 {
		return fmt.Errorf("lfo frequency must be > 0: %f", freqHz)
	}
	l.increment = float64(len(l.samples)) * freqHz / sampleRate
	return nil
}

// Tick returns the next oscillator sample and advances the phase.
func (l *LFO) Tick() float64 {
	i1 := int(l.phase)
	i2 := i1 + 1
	if i2 == len(l.samples) {
		i2 = 0
	}

	w := l.phase - float64(i1)

	l.phase += l.increment
	if size := float64(len(l.samples)); l.phase >= size {
		l.phase = math.Mod(l.phase, size)
	}

	return (1-w)*l.samples[i1] + w*l.samples[i2]
}

// Reset rewinds the phase to the start of the table.
func (l *LFO) Reset() {
	l.phase = 0
}
