//go:build amd64 && !purego

package biquad

import (
	"sync"
	"testing"

	archregistry "github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func resetProcessBlockDispatchForTest() {
	processBlockImpl = nil
	processBlockInitOnce = sync.Once{}
}

// withForcedFeatures pins CPU detection for one subtest and restores real
// detection afterwards.
func withForcedFeatures(t *testing.T, f cpu.Features) {
	t.Helper()
	cpu.SetForcedFeatures(f)
	resetProcessBlockDispatchForTest()
	t.Cleanup(func() {
		cpu.ResetDetection()
		resetProcessBlockDispatchForTest()
	})
}

func TestProcessBlockKernelSelection_AMD64(t *testing.T) {
	for _, tt := range []struct {
		name     string
		features cpu.Features
		want     string
	}{
		{
			name:     "force-generic",
			features: cpu.Features{ForceGeneric: true, Architecture: "amd64"},
			want:     "generic",
		},
		{
			// No SSE2 kernel is registered, so SSE2-only hardware takes the
			// generic path.
			name:     "sse2-falls-back",
			features: cpu.Features{HasSSE2: true, Architecture: "amd64"},
			want:     "generic",
		},
		{
			name:     "avx2",
			features: cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
			want:     "avx2",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			withForcedFeatures(t, tt.features)

			entry := archregistry.Global.Lookup(cpu.DetectFeatures())
			if entry == nil {
				t.Fatal("Lookup returned nil")
			}
			if entry.Name != tt.want {
				t.Fatalf("selected kernel %q, want %q", entry.Name, tt.want)
			}

			c := DesignLowPass(0.0125, 8)
			src := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, -0.1, 0.4, -0.9}

			ref := make([]float64, len(src))
			sRef := NewSection(c)
			sRef.processBlockScalar(ref, src)

			// Split across two calls so the delay line must survive the
			// kernel boundary.
			got := make([]float64, len(src))
			sGot := NewSection(c)
			sGot.ProcessBlockTo(got[:4], src[:4])
			sGot.ProcessBlockTo(got[4:], src[4:])

			for i := range got {
				if !almostEqual(got[i], ref[i], eps) {
					t.Fatalf("sample %d: kernel %.15f, scalar %.15f", i, got[i], ref[i])
				}
			}
			st1, st2 := sRef.State(), sGot.State()
			for i := range st1 {
				if !almostEqual(st1[i], st2[i], eps) {
					t.Fatalf("state slot %d diverged: scalar %v, kernel %v", i, st1, st2)
				}
			}
		})
	}
}

func TestProcessBlockAVX2RemainderTail(t *testing.T) {
	withForcedFeatures(t, cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"})

	c := DesignLowPass(0.31, -3)
	src := []float64{0.9, -0.4, 0.2, 0.7, -1, 0.05, 0.6, -0.8, 0.3}

	// The unrolled kernel consumes four samples per iteration; every length
	// from 1 through len(src) lands on a different remainder.
	for n := 1; n <= len(src); n++ {
		ref := make([]float64, n)
		sRef := NewSection(c)
		sRef.processBlockScalar(ref, src[:n])

		got := make([]float64, n)
		sGot := NewSection(c)
		sGot.ProcessBlockTo(got, src[:n])

		for i := range got {
			if !almostEqual(got[i], ref[i], eps) {
				t.Fatalf("n=%d sample %d: kernel %.15f, scalar %.15f", n, i, got[i], ref[i])
			}
		}
	}
}

func BenchmarkProcessBlockTo_Kernels(b *testing.B) {
	for _, mode := range []struct {
		name     string
		features cpu.Features
	}{
		{"Generic", cpu.Features{ForceGeneric: true, Architecture: "amd64"}},
		{"AVX2", cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"}},
	} {
		b.Run(mode.name, func(b *testing.B) {
			cpu.SetForcedFeatures(mode.features)
			resetProcessBlockDispatchForTest()
			b.Cleanup(func() {
				cpu.ResetDetection()
				resetProcessBlockDispatchForTest()
			})

			s := NewSection(DesignLowPass(0.018, 6))
			src := make([]float64, 4096)
			dst := make([]float64, 4096)
			for i := range src {
				src[i] = float64(i) * 0.001
			}

			b.SetBytes(4096 * 8)
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				s.ProcessBlockTo(dst, src)
			}
		})
	}
}
