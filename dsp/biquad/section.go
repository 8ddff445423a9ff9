package biquad

import (
	"sync"

	archregistry "github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/registry"
	"github.com/bradhowes/LPF-sub000/dsp/core"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Section is a single-channel biquad with coefficients and the direct-form
// delay line: two prior inputs and two prior outputs.
type Section struct {
	Coefficients

	x1, x2 float64
	y1, y2 float64
}

var (
	processBlockImpl     archregistry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.B1*s.x1 + s.B2*s.x2 - s.A1*s.y1 - s.A2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	s.ProcessBlockTo(buf, buf)
}

// ProcessBlockTo filters src into dst through the architecture-selected
// kernel. Both slices must have the same length; dst may be the same slice
// as src for in-place processing. Zero-alloc.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	coeffs := archregistry.Coefficients{
		B0: s.B0,
		B1: s.B1,
		B2: s.B2,
		A1: s.A1,
		A2: s.A2,
	}

	state := processBlockImpl(coeffs, archregistry.State{
		X1: s.x1, X2: s.x2, Y1: s.y1, Y2: s.y2,
	}, dst, src)

	s.x1, s.x2 = state.X1, state.X2
	s.y1, s.y2 = state.Y1, state.Y2
}

func initProcessBlockKernel() {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil {
		panic("biquad: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	if entry.ProcessBlock == nil {
		panic("biquad: selected kernel missing ProcessBlock")
	}

	processBlockImpl = entry.ProcessBlock
}

func (s *Section) processBlockScalar(dst, src []float64) {
	for i, x := range src {
		dst[i] = s.ProcessSample(x)
	}
}

// ScrubState flushes delay-line values that drifted into denormal range,
// overflow range, or NaN back to exact zero. Run after every block so a
// single bad sample cannot circulate in the feedback path indefinitely.
func (s *Section) ScrubState() {
	s.x1 = core.FlushBadValues(s.x1)
	s.x2 = core.FlushBadValues(s.x2)
	s.y1 = core.FlushBadValues(s.y1)
	s.y2 = core.FlushBadValues(s.y2)
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.x1 = 0
	s.x2 = 0
	s.y1 = 0
	s.y2 = 0
}

// State returns the current delay-line state [x1, x2, y1, y2].
func (s *Section) State() [4]float64 {
	return [4]float64{s.x1, s.x2, s.y1, s.y2}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [4]float64) {
	s.x1 = state[0]
	s.x2 = state[1]
	s.y1 = state[2]
	s.y2 = state[3]
}
