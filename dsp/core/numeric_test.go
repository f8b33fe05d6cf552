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

func TestCentsToRatio(t *testing.T) {
	if got := CentsToRatio(0); got != 1 {
		t.Fatalf("CentsToRatio(0) = %v, want exactly 1", got)
	}
	if got := CentsToRatio(1200); !NearlyEqual(got, 2, 1e-9) {
		t.Fatalf("CentsToRatio(1200) = %v, want 2", got)
	}
	if got := CentsToRatio(-1200); !NearlyEqual(got, 0.5, 1e-9) {
		t.Fatalf("CentsToRatio(-1200) = %v, want 0.5", got)
	}

	for _, cents := range []float64{-25, -7.5, 3, 25} {
		back := RatioToCents(CentsToRatio(cents))
		if !NearlyEqual(back, cents, 1e-6) {
			t.Fatalf("RatioToCents(CentsToRatio(%v)) = %v", cents, back)
		}
	}
	if !math.IsNaN(RatioToCents(0)) {
		t.Fatal("expected NaN for zero ratio")
	}
}

func TestMsToSamples(t *testing.T) {
	tests := []struct {
		name       string
		ms         float64
		sampleRate float64
		want       int
	}{
		{name: "50ms at 48k", ms: 50, sampleRate: 48000, want: 2400},
		{name: "zero", ms: 0, sampleRate: 48000, want: 0},
		{name: "negative", ms: -3, sampleRate: 48000, want: 0},
		{name: "NaN", ms: math.NaN(), sampleRate: 48000, want: 0},
		{name: "rounds", ms: 1, sampleRate: 44100, want: 44},
		{name: "bad rate", ms: 10, sampleRate: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MsToSamples(tt.ms, tt.sampleRate); got != tt.want {
				t.Fatalf("MsToSamples(%v, %v) = %d, want %d", tt.ms, tt.sampleRate, got, tt.want)
			}
		})
	}
}
