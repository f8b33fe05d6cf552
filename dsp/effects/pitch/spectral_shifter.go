package pitch

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-chorus/dsp/interp"
	"github.com/cwbudde/algo-chorus/dsp/ring"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultSpectralFrameSize = 1024
	minSpectralFrameSize     = 64
	maxSpectralFrameSize     = 16384
	spectralOverlap          = 4
	spectralNormFloor        = 1e-12
)

// SpectralShifter performs streaming frequency-domain pitch shifting.
//
// Input is analysed every hop = frameSize/4 samples with a periodic Hann
// window. Magnitudes and instantaneous frequencies are moved from bin k/ratio
// to bin k with linear interpolation, phases are accumulated per bin, and
// the resynthesised frames are overlap-added. Each completed frame releases
// hop samples, so Retrieve yields output in hop-sized steps after an initial
// latency of frameSize-hop samples.
//
// This processor is mono and not thread-safe.
type SpectralShifter struct {
	sampleRate float64
	pitchRatio float64
	frameSize  int
	hop        int

	plan *algofft.Plan[complex128]

	windowCoeffs []float64
	normInv      []float64
	omega        []float64
	prevPhase    []float64
	sumPhase     []float64

	history *ring.Buffer
	write   int
	pending int

	analysisSpectrum  []complex128
	synthesisSpectrum []complex128
	timeFrame         []complex128
	accum             []float64
	queue             *ring.Queue

	// Work buffers (allocated once in the constructor).
	gathered    []float64
	windowed    []float64
	emit        []float64
	magnitudes  []float64
	instFreqs   []float64
	shiftedMag  []float64
	shiftedFreq []float64

	faults uint64
}

// NewSpectralShifter creates a frequency-domain shifter with the default
// frame size that accepts up to maxBlock samples per Process call.
func NewSpectralShifter(sampleRate float64, maxBlock int) (*SpectralShifter, error) {
	return NewSpectralShifterFrame(sampleRate, maxBlock, defaultSpectralFrameSize)
}

// NewSpectralShifterFrame is like NewSpectralShifter with an explicit FFT
// frame size. frameSize must be a power of two in [64, 16384].
func NewSpectralShifterFrame(sampleRate float64, maxBlock, frameSize int) (*SpectralShifter, error) {
	if err := validateStream(sampleRate, maxBlock); err != nil {
		return nil, err
	}
	if frameSize < minSpectralFrameSize || frameSize > maxSpectralFrameSize || !isPowerOf2(frameSize) {
		return nil, fmt.Errorf("spectral frame size must be power-of-two in [%d, %d]: %d",
			minSpectralFrameSize, maxSpectralFrameSize, frameSize)
	}

	plan, err := algofft.NewPlan64(frameSize)
	if err != nil {
		return nil, fmt.Errorf("spectral shifter: failed to create FFT plan: %w", err)
	}

	hop := frameSize / spectralOverlap
	bins := frameSize/2 + 1

	history, err := ring.New(frameSize)
	if err != nil {
		return nil, err
	}
	// A full block can complete ceil(maxBlock/hop) frames on top of the
	// hop-sized remainder already queued.
	queue, err := ring.NewQueue(maxBlock + 2*hop)
	if err != nil {
		return nil, err
	}

	s := &SpectralShifter{
		sampleRate:        sampleRate,
		pitchRatio:        defaultRatio,
		frameSize:         frameSize,
		hop:               hop,
		plan:              plan,
		windowCoeffs:      hannPeriodic(frameSize),
		normInv:           make([]float64, hop),
		omega:             make([]float64, bins),
		prevPhase:         make([]float64, bins),
		sumPhase:          make([]float64, bins),
		history:           history,
		analysisSpectrum:  make([]complex128, frameSize),
		synthesisSpectrum: make([]complex128, frameSize),
		timeFrame:         make([]complex128, frameSize),
		accum:             make([]float64, frameSize),
		queue:             queue,
		gathered:          make([]float64, frameSize),
		windowed:          make([]float64, frameSize),
		emit:              make([]float64, hop),
		magnitudes:        make([]float64, bins),
		instFreqs:         make([]float64, bins),
		shiftedMag:        make([]float64, bins),
		shiftedFreq:       make([]float64, bins),
	}

	for k := range bins {
		s.omega[k] = 2 * math.Pi * float64(k) / float64(frameSize)
	}
	for i := range hop {
		sum := 0.0
		for j := i; j < frameSize; j += hop {
			w := s.windowCoeffs[j]
			sum += w * w
		}
		if sum > spectralNormFloor {
			s.normInv[i] = 1 / sum
		}
	}

	return s, nil
}

// SampleRate returns the sample rate in Hz.
func (s *SpectralShifter) SampleRate() float64 { return s.sampleRate }

// PitchRatio returns the pitch-shift ratio.
func (s *SpectralShifter) PitchRatio() float64 { return s.pitchRatio }

// FrameSize returns the FFT frame size.
func (s *SpectralShifter) FrameSize() int { return s.frameSize }

// Hop returns the analysis and synthesis hop size in samples.
func (s *SpectralShifter) Hop() int { return s.hop }

// Faults returns the number of frames dropped because a transform failed.
func (s *SpectralShifter) Faults() uint64 { return s.faults }

// SetPitchRatio updates the pitch-shift ratio.
func (s *SpectralShifter) SetPitchRatio(ratio float64) error {
	if err := validateRatio(ratio); err != nil {
		return fmt.Errorf("spectral shifter: %w", err)
	}
	s.pitchRatio = ratio
	return nil
}

// Latency returns the analysis-to-output delay in samples.
func (s *SpectralShifter) Latency() int { return s.frameSize - s.hop }

// Reset clears phase tracking, history and queued output.
func (s *SpectralShifter) Reset() {
	clear(s.prevPhase)
	clear(s.sumPhase)
	clear(s.accum)
	s.history.Clear()
	s.queue.Clear()
	s.write = 0
	s.pending = 0
}

// Process feeds input into the analysis window. It stops early, and
// reports the shorter count, only when the output queue cannot take the
// next frame's hop.
func (s *SpectralShifter) Process(input []float64) int {
	for i, x := range input {
		if s.pending == s.hop-1 && s.queue.Free() < s.hop {
			return i
		}
		s.history.Set(s.write, x)
		s.write = s.history.Wrap(s.write + 1)
		s.pending++
		if s.pending == s.hop {
			s.pending = 0
			s.runFrame()
		}
	}
	return len(input)
}

// Retrieve moves up to len(dst) finished samples into dst.
func (s *SpectralShifter) Retrieve(dst []float64) int { return s.queue.Pop(dst) }

func (s *SpectralShifter) runFrame() {
	if err := s.resynthesize(); err != nil {
		s.faults++
		clear(s.timeFrame)
	}

	for i := range s.frameSize {
		s.accum[i] += real(s.timeFrame[i]) * s.windowCoeffs[i]
	}
	for i := range s.hop {
		s.emit[i] = s.accum[i] * s.normInv[i]
	}
	s.queue.Push(s.emit)

	copy(s.accum, s.accum[s.hop:])
	clear(s.accum[s.frameSize-s.hop:])
}

func (s *SpectralShifter) resynthesize() error {
	// The write cursor points at the oldest sample of the window.
	s.history.ReadInto(s.gathered, s.write)
	vecmath.MulBlock(s.windowed, s.gathered, s.windowCoeffs)
	for i, v := range s.windowed {
		s.timeFrame[i] = complex(v, 0)
	}

	if err := s.plan.Forward(s.analysisSpectrum, s.timeFrame); err != nil {
		return fmt.Errorf("spectral shifter: forward FFT failed: %w", err)
	}

	half := s.frameSize / 2
	hopF := float64(s.hop)
	ratio := s.pitchRatio

	// Compute magnitudes and instantaneous frequencies.
	for k := 0; k <= half; k++ {
		re := real(s.analysisSpectrum[k])
		im := imag(s.analysisSpectrum[k])
		s.magnitudes[k] = math.Hypot(re, im)
		phase := math.Atan2(im, re)

		delta := wrapPhase(phase - s.prevPhase[k] - s.omega[k]*hopF)
		s.instFreqs[k] = s.omega[k] + delta/hopF
		s.prevPhase[k] = phase
	}

	// Bin shifting with linear interpolation.
	for k := 0; k <= half; k++ {
		// srcK == half is the Nyquist bin itself and must survive unity ratio.
		srcK := float64(k) / ratio
		if srcK > float64(half) {
			s.shiftedMag[k] = 0
			s.shiftedFreq[k] = s.omega[k]
			continue
		}

		lo := int(srcK)
		frac := srcK - float64(lo)
		hi := min(lo+1, half)
		s.shiftedMag[k] = interp.Linear2(frac, s.magnitudes[lo], s.magnitudes[hi])
		s.shiftedFreq[k] = interp.Linear2(frac, s.instFreqs[lo], s.instFreqs[hi]) * ratio
	}

	for k := 0; k <= half; k++ {
		s.sumPhase[k] = wrapPhase(s.sumPhase[k] + s.shiftedFreq[k]*hopF)
		s.synthesisSpectrum[k] = complex(
			s.shiftedMag[k]*math.Cos(s.sumPhase[k]),
			s.shiftedMag[k]*math.Sin(s.sumPhase[k]),
		)
	}

	// Mirror for real-valued IFFT.
	s.synthesisSpectrum[0] = complex(real(s.synthesisSpectrum[0]), 0)
	s.synthesisSpectrum[half] = complex(real(s.synthesisSpectrum[half]), 0)
	for k := 1; k < half; k++ {
		v := s.synthesisSpectrum[k]
		s.synthesisSpectrum[s.frameSize-k] = complex(real(v), -imag(v))
	}

	if err := s.plan.Inverse(s.timeFrame, s.synthesisSpectrum); err != nil {
		return fmt.Errorf("spectral shifter: inverse FFT failed: %w", err)
	}
	return nil
}

func hannPeriodic(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return out
}

func wrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	return x - math.Pi
}

func isPowerOf2(v int) bool {
	return v > 0 && (v&(v-1)) == 0
}
