//go:build amd64 && !purego

package biquad

import (
	_ "github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/amd64/avx2" // register AVX2 backend
	_ "github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/generic"   // register generic backend
	_ "github.com/bradhowes/LPF-sub000/dsp/biquad/internal/arch/registry"  // initialize backend registry
)
