package pitch

import (
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// drive streams input through s in blocks of the given size and returns
// everything retrieved, in order.
func drive(t *testing.T, s Stretcher, input []float64, block int) []float64 {
	t.Helper()

	out := make([]float64, 0, len(input))
	dst := make([]float64, block)
	for start := 0; start < len(input); start += block {
		end := min(start+block, len(input))
		if n := s.Process(input[start:end]); n != end-start {
			t.Fatalf("Process() accepted %d of %d", n, end-start)
		}
		n := s.Retrieve(dst[:end-start])
		out = append(out, dst[:n]...)
	}
	return out
}

func dominantFrequencyHz(t *testing.T, signal []float64, sampleRate float64) float64 {
	t.Helper()

	if len(signal) == 0 {
		return 0
	}

	plan, err := algofft.NewPlan64(len(signal))
	if err != nil {
		t.Fatalf("failed to create FFT plan: %v", err)
	}

	in := make([]complex128, len(signal))

	out := make([]complex128, len(signal))
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	if err := plan.Forward(out, in); err != nil {
		t.Fatalf("forward FFT failed: %v", err)
	}

	maxBin := 1
	maxMag := 0.0

	for k := 1; k <= len(signal)/2; k++ {
		re := real(out[k])
		im := imag(out[k])

		mag := re*re + im*im
		if mag > maxMag {
			maxMag = mag
			maxBin = k
		}
	}

	return sampleRate * float64(maxBin) / float64(len(signal))
}
