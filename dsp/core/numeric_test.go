package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestFlushBadValues(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "denormal range", value: 1e-20, expected: 0},
		{name: "overflow range", value: 1e20, expected: 0},
		{name: "nan", value: math.NaN(), expected: 0},
		{name: "ordinary", value: 5.0, expected: 5.0},
		{name: "negative ordinary", value: -0.25, expected: -0.25},
		{name: "negative denormal", value: -1e-20, expected: 0},
		{name: "inf", value: math.Inf(1), expected: 0},
		{name: "zero", value: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlushBadValues(tt.value)
			if got != tt.expected {
				t.Fatalf("FlushBadValues(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestIsBadValue_Boundaries(t *testing.T) {
	if IsBadValue(1e-15) {
		t.Fatal("1e-15 is inside the allowed range")
	}
	if IsBadValue(1e15) {
		t.Fatal("1e15 is inside the allowed range")
	}
	if !IsBadValue(math.Nextafter(1e-15, 0)) {
		t.Fatal("values below 1e-15 must be flagged")
	}
	if !IsBadValue(math.Nextafter(1e15, math.Inf(1))) {
		t.Fatal("values above 1e15 must be flagged")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !NearlyEqual(DBToLinear(-20), 0.1, 1e-12) {
		t.Fatalf("DBToLinear(-20) = %v, want 0.1", DBToLinear(-20))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}
