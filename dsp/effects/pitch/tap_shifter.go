package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-chorus/dsp/interp"
	"github.com/cwbudde/algo-chorus/dsp/ring"
)

const (
	defaultTapWindowMs = 40.0
	minTapWindowMs     = 5.0
	maxTapWindowMs     = 120.0

	// tapGuard keeps both taps far enough behind the write head for
	// 4-point interpolation.
	tapGuard = 2
)

// TapShifter performs time-domain pitch shifting with two read taps that
// sweep through a short delay window.
//
// Each tap's delay drifts by (1 - ratio) samples per sample and wraps
// inside the window; the taps sit half a window apart and are crossfaded
// with complementary raised-cosine gains so the wrap of one tap happens
// while its gain is zero.
//
// Pitch ratio:
//   - 1.0 = unchanged
//   - 2.0 = one octave up
//   - 0.5 = one octave down
//
// One output sample is produced per input sample.
type TapShifter struct {
	sampleRate float64
	pitchRatio float64
	windowMs   float64

	window  int
	history *ring.Buffer
	write   int
	delay   float64

	queue   *ring.Queue
	scratch []float64
}

// NewTapShifter constructs a time-domain shifter that accepts up to
// maxBlock samples per Process call.
func NewTapShifter(sampleRate float64, maxBlock int) (*TapShifter, error) {
	return NewTapShifterWindow(sampleRate, maxBlock, defaultTapWindowMs)
}

// NewTapShifterWindow is like NewTapShifter with an explicit sweep window
// in milliseconds.
func NewTapShifterWindow(sampleRate float64, maxBlock int, windowMs float64) (*TapShifter, error) {
	if err := validateStream(sampleRate, maxBlock); err != nil {
		return nil, err
	}
	if windowMs < minTapWindowMs || windowMs > maxTapWindowMs || math.IsNaN(windowMs) {
		return nil, fmt.Errorf("tap shifter window must be in [%f, %f] ms: %f",
			minTapWindowMs, maxTapWindowMs, windowMs)
	}

	window := int(math.Round(windowMs * 0.001 * sampleRate))
	if window < 8 {
		return nil, fmt.Errorf("tap shifter window too short at %f Hz: %d samples", sampleRate, window)
	}

	history, err := ring.New(window + tapGuard + 4)
	if err != nil {
		return nil, err
	}
	queue, err := ring.NewQueue(2 * maxBlock)
	if err != nil {
		return nil, err
	}

	return &TapShifter{
		sampleRate: sampleRate,
		pitchRatio: defaultRatio,
		windowMs:   windowMs,
		window:     window,
		history:    history,
		queue:      queue,
		scratch:    make([]float64, maxBlock),
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (p *TapShifter) SampleRate() float64 { return p.sampleRate }

// PitchRatio returns the pitch ratio.
func (p *TapShifter) PitchRatio() float64 { return p.pitchRatio }

// Window returns the sweep window in samples.
func (p *TapShifter) Window() int { return p.window }

// SetPitchRatio updates the pitch shift ratio.
func (p *TapShifter) SetPitchRatio(ratio float64) error {
	if err := validateRatio(ratio); err != nil {
		return fmt.Errorf("tap shifter: %w", err)
	}
	p.pitchRatio = ratio
	return nil
}

// Latency returns the mean tap delay in samples.
func (p *TapShifter) Latency() int { return tapGuard + p.window/2 }

// Reset clears history, tap position and queued output.
func (p *TapShifter) Reset() {
	p.history.Clear()
	p.queue.Clear()
	p.write = 0
	p.delay = 0
}

// Process shifts input and queues the result. It accepts as many samples
// as the output queue has room for.
func (p *TapShifter) Process(input []float64) int {
	n := min(len(input), p.queue.Free())
	done := 0
	for done < n {
		chunk := min(n-done, len(p.scratch))
		out := p.scratch[:chunk]
		for i, x := range input[done : done+chunk] {
			out[i] = p.tick(x)
		}
		p.queue.Push(out)
		done += chunk
	}
	return n
}

// Retrieve moves up to len(dst) shifted samples into dst.
func (p *TapShifter) Retrieve(dst []float64) int { return p.queue.Pop(dst) }

func (p *TapShifter) tick(x float64) float64 {
	p.history.Set(p.write, x)
	p.write = p.history.Wrap(p.write + 1)

	w := float64(p.window)
	d1 := p.delay
	d2 := d1 + 0.5*w
	if d2 >= w {
		d2 -= w
	}

	g := math.Sin(math.Pi * d1 / w)
	g1 := g * g
	y := g1*p.readFractional(d1+tapGuard) + (1-g1)*p.readFractional(d2+tapGuard)

	p.delay += 1 - p.pitchRatio
	if p.delay >= w {
		p.delay -= w
	} else if p.delay < 0 {
		p.delay += w
	}
	return y
}

// readFractional reads delay samples behind the newest sample using cubic
// Hermite interpolation.
func (p *TapShifter) readFractional(delay float64) float64 {
	idx := int(math.Floor(delay))
	t := delay - float64(idx)
	newest := p.write - 1

	xm1 := p.history.At(newest - (idx - 1))
	x0 := p.history.At(newest - idx)
	x1 := p.history.At(newest - (idx + 1))
	x2 := p.history.At(newest - (idx + 2))
	return interp.Hermite4(t, xm1, x0, x1, x2)
}
