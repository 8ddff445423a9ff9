// Command lpfrender renders a low-pass filter sweep to a 16-bit WAV file.
//
// Usage:
//
//	lpfrender [flags]
//
// A raw source (sawtooth, sine, or noise) runs through the filter kernel
// while a wavetable LFO sweeps the cutoff around its center frequency. The
// result is bounced to disk instead of played, so it works without an
// audio device.
//
// Examples:
//
//	lpfrender
//	lpfrender -o sweep.wav -seconds 10
//	lpfrender -source noise -cutoff 1200 -resonance 20 -o noise.wav
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/bradhowes/LPF-sub000/dsp/core"
	"github.com/bradhowes/LPF-sub000/internal/demo"
)

func main() {
	out := flag.String("o", "lpf-demo.wav", "output WAV path")
	dither := flag.Bool("dither", true, "apply triangular dither before 16-bit quantization")
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
		fmt.Fprintf(os.Stderr, "Usage: lpfrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a low-pass filter sweep to a 16-bit WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lpfrender\n")
		fmt.Fprintf(os.Stderr, "  lpfrender -o sweep.wav -seconds 10\n")
		fmt.Fprintf(os.Stderr, "  lpfrender -source noise -cutoff 1200 -resonance 20 -o noise.wav\n")
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

	if err := writeWAV(*out, *rate, samples, *dither); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(v))
	}

	fmt.Printf("wrote %s: %.1fs %s sweep at %d Hz (%d samples, peak %.1f dBFS)\n",
		*out, *seconds, src, *rate, len(samples), core.LinearToDB(peak))
}

func writeWAV(path string, rate int, samples []float64, dither bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           quantize16(samples, dither),
		SourceBitDepth: 16,
	}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return f.Close()
}

// quantize16 clamps to [-1, 1] and scales to the 16-bit integer range,
// optionally adding one LSB of triangular dither before rounding.
func quantize16(samples []float64, dither bool) []int {
	var rng *rand.Rand
	if dither {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	data := make([]int, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		scaled := v * 32767
		if rng != nil {
			scaled += rng.Float64() - rng.Float64()
		}
		n := int(math.Round(scaled))
		if n > 32767 {
			n = 32767
		} else if n < -32768 {
			n = -32768
		}
		data[i] = n
	}
	return data
}
