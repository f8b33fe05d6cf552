package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// Delayed returns src shifted right by delay samples, zero-filled at the
// start and truncated to len(src).
func Delayed(src []float64, delay int) []float64 {
	out := make([]float64, len(src))
	if delay < 0 || delay >= len(src) {
		return out
	}
	copy(out[delay:], src)
	return out
}

// Block is a half-open [Start, End) span of a longer signal.
type Block struct {
	Start, End int
}

// Blocks splits total samples into consecutive spans, cycling through
// sizes. Non-positive sizes are skipped; with none usable the result is a
// single span.
func Blocks(total int, sizes ...int) []Block {
	var usable []int
	for _, s := range sizes {
		if s > 0 {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return []Block{{0, total}}
	}

	var out []Block
	for start, i := 0, 0; start < total; i++ {
		end := min(start+usable[i%len(usable)], total)
		out = append(out, Block{start, end})
		start = end
	}
	return out
}
