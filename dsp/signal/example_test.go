package signal_test

import (
	"fmt"
	"math"

	"github.com/bradhowes/LPF-sub000/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(1000)
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}
	if math.Abs(x[4]) < 1e-12 {
		x[4] = 0
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleGenerator_Sawtooth() {
	g := signal.NewGenerator(4)
	x, err := g.Sawtooth(1, 1, 4)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.1f %.1f %.1f %.1f\n", x[0], x[1], x[2], x[3])

	// Output:
	// -1.0 -0.5 0.0 0.5
}

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}
