package kernel

import "errors"

// ErrNoConnection is returned by Process when no pull callback was
// supplied, mirroring a render call with no upstream node attached.
var ErrNoConnection = errors.New("kernel: no input connection")

// PullFunc obtains upstream samples for a render cycle. It must fill
// dst[ch][:frames] for every channel and may not retain dst.
type PullFunc func(now int64, frames, bus int, dst [][]float64) error

// inputBuffer stages upstream samples in a pre-allocated backing store so
// the render path never allocates.
type inputBuffer struct {
	backing [][]float64
	staged  [][]float64
}

func (b *inputBuffer) configure(channels, maxFrames int) {
	b.backing = make([][]float64, channels)
	b.staged = make([][]float64, channels)
	for ch := range b.backing {
		b.backing[ch] = make([]float64, maxFrames)
	}
}

func (b *inputBuffer) release() {
	b.backing = nil
	b.staged = nil
}

// pull prepares per-channel destinations of exactly frames samples and
// invokes the upstream callback. The slice headers are rebuilt on every
// call; an in-place render may have republished them downstream.
func (b *inputBuffer) pull(now int64, frames, bus int, fn PullFunc) ([][]float64, error) {
	if fn == nil {
		return nil, ErrNoConnection
	}
	for ch := range b.backing {
		b.staged[ch] = b.backing[ch][:frames]
	}
	if err := fn(now, frames, bus, b.staged); err != nil {
		return nil, err
	}
	return b.staged, nil
}
