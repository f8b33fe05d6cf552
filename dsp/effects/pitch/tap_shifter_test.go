package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-chorus/internal/testutil"
)

func TestNewTapShifterValidation(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		maxBlock   int
		windowMs   float64
	}{
		{"zero rate", 0, 128, 40},
		{"nan rate", math.NaN(), 128, 40},
		{"zero block", 48000, 0, 40},
		{"window too short", 48000, 128, 1},
		{"window too long", 48000, 128, 500},
		{"nan window", 48000, 128, math.NaN()},
		{"window under eight samples", 1000, 128, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTapShifterWindow(tt.sampleRate, tt.maxBlock, tt.windowMs); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTapShifterUnityRatioIsPureDelay(t *testing.T) {
	const sampleRate = 48000.0

	p, err := NewTapShifter(sampleRate, 256)
	if err != nil {
		t.Fatalf("NewTapShifter() error = %v", err)
	}
	if p.Window() != 1920 {
		t.Fatalf("Window() = %d, want 1920", p.Window())
	}
	lat := p.Latency()
	if lat != 962 {
		t.Fatalf("Latency() = %d, want 962", lat)
	}

	input := testutil.DeterministicNoise(5, 0.8, 6000)
	got := drive(t, p, input, 256)
	if len(got) != len(input) {
		t.Fatalf("produced %d samples, want %d", len(got), len(input))
	}
	testutil.RequireDelayed(t, got, input, lat, 1e-12)
}

func TestTapShifterMovesDominantFrequency(t *testing.T) {
	const (
		sampleRate = 48000.0
		inFreq     = 440.0
		n          = 1 << 15
		analysis   = 1 << 14
	)

	for _, ratio := range []float64{0.8, 1.25} {
		p, err := NewTapShifter(sampleRate, 512)
		if err != nil {
			t.Fatalf("NewTapShifter() error = %v", err)
		}
		if err := p.SetPitchRatio(ratio); err != nil {
			t.Fatalf("SetPitchRatio() error = %v", err)
		}

		input := testutil.DeterministicSine(inFreq, sampleRate, 0.5, n)
		out := drive(t, p, input, 512)
		testutil.RequireFinite(t, out)

		got := dominantFrequencyHz(t, out[len(out)-analysis:], sampleRate)
		want := inFreq * ratio
		if math.Abs(got-want) > want*0.03 {
			t.Fatalf("ratio %.2f: dominant frequency = %.2f Hz, want about %.2f Hz", ratio, got, want)
		}
	}
}

func TestTapShifterProcessBoundedByQueue(t *testing.T) {
	p, err := NewTapShifter(48000, 32)
	if err != nil {
		t.Fatalf("NewTapShifter() error = %v", err)
	}

	input := make([]float64, 32)
	if n := p.Process(input); n != 32 {
		t.Fatalf("first Process() = %d, want 32", n)
	}
	if n := p.Process(input); n != 32 {
		t.Fatalf("second Process() = %d, want 32", n)
	}
	if n := p.Process(input); n != 0 {
		t.Fatalf("Process() on full queue = %d, want 0", n)
	}

	dst := make([]float64, 10)
	p.Retrieve(dst)
	if n := p.Process(input); n != 10 {
		t.Fatalf("Process() after Retrieve(10) = %d, want 10", n)
	}
}
