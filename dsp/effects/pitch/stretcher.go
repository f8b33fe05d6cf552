package pitch

import (
	"errors"
	"fmt"
	"math"
)

const (
	defaultRatio = 1.0

	// MinRatio and MaxRatio bound the pitch ratios every Stretcher accepts.
	MinRatio = 0.5
	MaxRatio = 2.0
)

// ErrRatioOutOfRange is returned by SetPitchRatio for unsupported ratios.
var ErrRatioOutOfRange = errors.New("pitch: ratio out of range")

// Stretcher is the chunked streaming contract shared by all shifters.
//
// Process hands input to the shifter and reports how many samples it
// accepted; a shifter may hold samples back for its algorithmic latency.
// Retrieve moves up to len(dst) finished samples into dst and reports how
// many were produced. Producing fewer than requested is normal. Neither
// call blocks, and output that has not been retrieved is never dropped.
//
// Latency is fixed at construction and is informational only.
type Stretcher interface {
	SetPitchRatio(ratio float64) error
	PitchRatio() float64

	Process(input []float64) int
	Retrieve(dst []float64) int

	Latency() int
	Reset()
}

var (
	_ Stretcher = (*Identity)(nil)
	_ Stretcher = (*TapShifter)(nil)
	_ Stretcher = (*SpectralShifter)(nil)
)

func validateRatio(ratio float64) error {
	if !isFinitePositive(ratio) || ratio < MinRatio || ratio > MaxRatio {
		return fmt.Errorf("%w: must be in [%f, %f]: %f", ErrRatioOutOfRange, MinRatio, MaxRatio, ratio)
	}
	return nil
}

func validateStream(sampleRate float64, maxBlock int) error {
	if !isFinitePositive(sampleRate) {
		return fmt.Errorf("pitch sample rate must be positive and finite: %f", sampleRate)
	}
	if maxBlock <= 0 {
		return fmt.Errorf("pitch max block must be > 0: %d", maxBlock)
	}
	return nil
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
