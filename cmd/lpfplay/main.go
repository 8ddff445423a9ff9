// Command lpfplay renders a low-pass filter sweep and plays it on the
// default audio device.
//
// Usage:
//
//	lpfplay [flags]
//
// A raw source (sawtooth, sine, or noise) runs through the filter kernel
// while a wavetable LFO sweeps the cutoff around its center frequency.
//
// Examples:
//
//	lpfplay
//	lpfplay -source noise -cutoff 1200 -resonance 20
//	lpfplay -lfo square -lfo-rate 1 -depth 3
package main

import (
	"bytes"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/bradhowes/LPF-sub000/internal/demo"
)

func main() {
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	seconds := flag.Float64("seconds", 6, "length of the rendered sweep")
	source := flag.String("source", "sawtooth", "source material (sawtooth, sine, noise)")
	freq := flag.Float64("freq", 110, "source frequency in Hz (ignored for noise)")
	gain := flag.Float64("gain", 0.25, "source amplitude")
	cutoff := flag.Float64("cutoff", 800, "sweep center cutoff in Hz")
	resonance := flag.Float64("resonance", 10, "filter resonance in dB")
	lfoWave := flag.String("lfo", "triangle", "sweep LFO waveform (sine, triangle, square, sawtooth)")
	lfoRate := flag.Float64("lfo-rate", 0.25, "sweep LFO rate in Hz")
	depth := flag.Float64("depth", 2, "sweep depth in octaves around the center")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lpfplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a low-pass filter sweep and plays it on the default audio device.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lpfplay\n")
		fmt.Fprintf(os.Stderr, "  lpfplay -source noise -cutoff 1200 -resonance 20\n")
		fmt.Fprintf(os.Stderr, "  lpfplay -lfo square -lfo-rate 1 -depth 3\n")
	}
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", flag.Arg(0))
		os.Exit(1)
	}

	src, err := demo.ParseSource(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	wave, err := demo.ParseWaveform(*lfoWave)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	samples, err := demo.Render(demo.Config{
		SampleRate:   float64(*rate),
		Seconds:      *seconds,
		Source:       src,
		SourceHz:     *freq,
		Gain:         *gain,
		CutoffHz:     *cutoff,
		ResonanceDB:  *resonance,
		LFOWave:      wave,
		LFORateHz:    *lfoRate,
		DepthOctaves: *depth,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("playing %.1fs %s sweep: cutoff %.0f Hz +/-%.1f oct at %.2f Hz (%s LFO), resonance %.1f dB\n",
		*seconds, src, *cutoff, *depth, *lfoRate, wave, *resonance)

	if err := play(*rate, samples); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func play(rate int, samples []float64) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(bytes.NewReader(packFloat32LE(samples)))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

func packFloat32LE(samples []float64) []byte {
	buf := make([]byte, 4*len(samples))
	for i, v := range samples {
		bits := math.Float32bits(float32(v))
		buf[4*i] = byte(bits)
		buf[4*i+1] = byte(bits >> 8)
		buf[4*i+2] = byte(bits >> 16)
		buf[4*i+3] = byte(bits >> 24)
	}
	return buf
}
