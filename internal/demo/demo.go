// Package demo renders the filter sweep material shared by the playback
// and bounce commands: a raw source swept through the low-pass kernel by
// per-block cutoff ramp events derived from a wavetable LFO.
package demo

import (
	"fmt"
	"math"
	"strings"

	"github.com/bradhowes/LPF-sub000/dsp/kernel"
	"github.com/bradhowes/LPF-sub000/dsp/osc"
	"github.com/bradhowes/LPF-sub000/dsp/signal"
)

// Source selects the raw material fed through the filter.
type Source int

// Available demo sources.
const (
	SourceSawtooth Source = iota
	SourceSine
	SourceNoise
)

// String returns the command line name of the source.
func (s Source) String() string {
	switch s {
	case SourceSawtooth:
		return "sawtooth"
	case SourceSine:
		return "sine"
	case SourceNoise:
		return "noise"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// ParseSource maps a command line name to a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "saw", "sawtooth":
		return SourceSawtooth, nil
	case "sine":
		return SourceSine, nil
	case "noise":
		return SourceNoise, nil
	default:
		return 0, fmt.Errorf("invalid source %q (expected sawtooth|sine|noise)", name)
	}
}

// ParseWaveform maps a command line name to an LFO waveform.
func ParseWaveform(name string) (osc.Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine":
		return osc.WaveformSine, nil
	case "triangle":
		return osc.WaveformTriangle, nil
	case "square":
		return osc.WaveformSquare, nil
	case "saw", "sawtooth":
		return osc.WaveformSawtooth, nil
	default:
		return 0, fmt.Errorf("invalid waveform %q (expected sine|triangle|square|sawtooth)", name)
	}
}

// Config describes one rendered demo take.
type Config struct {
	SampleRate   float64
	Seconds      float64
	BlockFrames  int // 0 picks the kernel default
	Source       Source
	SourceHz     float64
	Gain         float64
	CutoffHz     float64 // sweep center
	ResonanceDB  float64
	LFOWave      osc.Waveform
	LFORateHz    float64
	DepthOctaves float64
}

const lfoTableSize = 256

// Render produces the mono demo signal. Each block schedules one cutoff
// ramp event spanning the block, so the sweep glides instead of stepping.
func Render(cfg Config) ([]float64, error) {
	if cfg.Seconds <= 0 {
		return nil, fmt.Errorf("demo: seconds must be > 0: %f", cfg.Seconds)
	}
	if cfg.DepthOctaves < 0 {
		return nil, fmt.Errorf("demo: depth octaves must be >= 0: %f", cfg.DepthOctaves)
	}
	blockFrames := cfg.BlockFrames
	if blockFrames == 0 {
		blockFrames = kernel.DefaultMaxFrames
	}

	k, err := kernel.New(
		kernel.WithSampleRate(cfg.SampleRate),
		kernel.WithChannels(1),
		kernel.WithMaxFrames(blockFrames),
		kernel.WithCutoffHz(cfg.CutoffHz),
		kernel.WithResonanceDB(cfg.ResonanceDB),
	)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	if err := k.Start(); err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	defer k.Stop()

	lfo, err := osc.NewLFO(cfg.LFOWave, lfoTableSize)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	// The LFO advances once per block, not per sample.
	if err := lfo.Start(cfg.SampleRate/float64(blockFrames), cfg.LFORateHz); err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	total := int(math.Round(cfg.Seconds * cfg.SampleRate))
	src, err := renderSource(cfg, total)
	if err != nil {
		return nil, err
	}

	out := make([]float64, total)
	pull := func(now int64, frames, bus int, dst [][]float64) error {
		copy(dst[0], src[now:now+int64(frames)])
		return nil
	}

	for offset := 0; offset < total; offset += blockFrames {
		frames := blockFrames
		if rem := total - offset; rem < frames {
			frames = rem
		}

		cutoff := cfg.CutoffHz * math.Pow(2, lfo.Tick()*cfg.DepthOctaves)
		ev := &kernel.Event{
			Time:       int64(offset),
			Kind:       kernel.EventParameterRamp,
			Address:    kernel.AddressCutoff,
			Value:      cutoff,
			RampFrames: frames,
		}

		dst := [][]float64{out[offset : offset+frames]}
		if err := k.Process(int64(offset), frames, dst, ev, pull); err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
	}
	return out, nil
}

func renderSource(cfg Config, samples int) ([]float64, error) {
	g := signal.NewGenerator(cfg.SampleRate)

	var (
		src []float64
		err error
	)
	switch cfg.Source {
	case SourceSawtooth:
		src, err = g.Sawtooth(cfg.SourceHz, cfg.Gain, samples)
	case SourceSine:
		src, err = g.Sine(cfg.SourceHz, cfg.Gain, samples)
	case SourceNoise:
		src, err = g.WhiteNoise(cfg.Gain, samples)
	default:
		return nil, fmt.Errorf("demo: unknown source %d", int(cfg.Source))
	}
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	return src, nil
}
