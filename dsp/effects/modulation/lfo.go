package modulation

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Waveform selects the LFO output shape.
type Waveform int

const (
	// WaveformSine produces a sine wave.
	WaveformSine Waveform = iota
	// WaveformTriangle produces a triangle wave in phase with the sine.
	WaveformTriangle
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// LFO is a low-frequency oscillator evaluated at a reduced update rate.
//
// Each call to NextSample advances the phase by 2π·frequency/updateRate and
// returns the waveform value in [-1, 1]. The phase accumulator wraps every
// period and is never re-derived from an absolute tick count, so changing
// the frequency bends the waveform without a jump.
type LFO struct {
	updateRate float64
	frequency  float64
	waveform   Waveform

	phase    float64
	phaseInc float64
}

// NewLFO creates a sine LFO ticking updateRate times per second.
func NewLFO(updateRate float64) (*LFO, error) {
	if updateRate <= 0 || math.IsNaN(updateRate) || math.IsInf(updateRate, 0) {
		return nil, fmt.Errorf("lfo update rate must be positive and finite: %f", updateRate)
	}
	return &LFO{updateRate: updateRate, waveform: WaveformSine}, nil
}

// SetFrequency sets the oscillation frequency in Hz. It applies from the
// next evaluated sample. Range checks are the caller's job; NaN and Inf
// are stored as 0.
func (l *LFO) SetFrequency(hz float64) {
	if math.IsNaN(hz) || math.IsInf(hz, 0) {
		hz = 0
	}
	l.frequency = hz
	l.phaseInc = twoPi * hz / l.updateRate
}

// SetWaveform selects the output shape.
func (l *LFO) SetWaveform(w Waveform) error {
	if w != WaveformSine && w != WaveformTriangle {
		return fmt.Errorf("lfo waveform not supported: %v", w)
	}
	l.waveform = w
	return nil
}

// NextSample advances one update tick and returns the new value.
func (l *LFO) NextSample() float64 {
	l.phase += l.phaseInc
	if l.phase >= twoPi || l.phase < 0 {
		l.phase = math.Mod(l.phase, twoPi)
		if l.phase < 0 {
			l.phase += twoPi
		}
	}
	return l.value()
}

// Value returns the waveform at the current phase without advancing.
func (l *LFO) Value() float64 { return l.value() }

// Reset returns the phase to zero.
func (l *LFO) Reset() { l.phase = 0 }

// Frequency returns the oscillation frequency in Hz.
func (l *LFO) Frequency() float64 { return l.frequency }

// UpdateRate returns the number of ticks per second.
func (l *LFO) UpdateRate() float64 { return l.updateRate }

// Phase returns the current phase in radians, in [0, 2π).
func (l *LFO) Phase() float64 { return l.phase }

// Waveform returns the output shape.
func (l *LFO) Waveform() Waveform { return l.waveform }

func (l *LFO) value() float64 {
	if l.waveform == WaveformTriangle {
		t := l.phase / twoPi
		switch {
		case t < 0.25:
			return 4 * t
		case t < 0.75:
			return 2 - 4*t
		default:
			return 4*t - 4
		}
	}
	return math.Sin(l.phase)
}
