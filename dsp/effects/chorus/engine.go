package chorus

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-chorus/dsp/core"
	"github.com/cwbudde/algo-chorus/dsp/effects/modulation"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
	"github.com/cwbudde/algo-chorus/dsp/ring"
	"github.com/cwbudde/algo-vecmath"
)

// State is the engine lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StatePrepared
	StateProcessing
	StateReleased
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNotPrepared is returned when blocks arrive before Prepare or after
	// Release.
	ErrNotPrepared = errors.New("chorus: engine not prepared")

	// ErrBlockTooLarge is returned for blocks longer than the prepared
	// maximum.
	ErrBlockTooLarge = errors.New("chorus: block exceeds prepared maximum")

	// ErrShortOutput is returned when an output channel is shorter than the
	// input block.
	ErrShortOutput = errors.New("chorus: output shorter than input")

	// ErrChannelLayout is returned by Process for anything other than one
	// input and two output channels.
	ErrChannelLayout = errors.New("chorus: need 1 input and 2 output channels")
)

// Engine mixes a dry signal with a delayed, pitch-modulated copy.
//
// Each block is written into a delay ring and a dry ring. The wet path
// reads the delay ring DelayMs behind the block's write cursor, so a delay
// of 0 echoes the block just written, and runs it through the stretcher at
// ratio 2^((base + lfo*depth)/1200). Spans that cross the ring's end are
// fed to the stretcher as two separate calls, and whatever each call
// retrieves is added to the matching part of the wet channel. The dry path
// copies the dry ring DryOffsetMs behind its own cursor.
//
// The reported latency is the stretcher's own and is not compensated in
// the delay arithmetic.
//
// ProcessBlock must not run concurrently with Prepare, Reset or Release.
// Parameter setters may be called from any goroutine.
type Engine struct {
	factory       pitch.Factory
	params        *Params
	decimation    int
	bufferSeconds float64
	waveform      modulation.Waveform

	state      State
	sampleRate float64
	maxBlock   int

	delayRing  *ring.Buffer
	dryRing    *ring.Buffer
	delayWrite int
	dryWrite   int

	lfo        *modulation.LFO
	lfoValue   float64
	lfoPending int

	stretcher pitch.Stretcher
	scratch   []float64

	stats counters
}

// New creates an unprepared engine.
func New(opts ...Option) (*Engine, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	if s.decimation < 1 {
		return nil, fmt.Errorf("chorus lfo decimation must be >= 1: %d", s.decimation)
	}
	if s.bufferSeconds <= 0 || math.IsNaN(s.bufferSeconds) || math.IsInf(s.bufferSeconds, 0) {
		return nil, fmt.Errorf("chorus buffer seconds must be positive and finite: %f", s.bufferSeconds)
	}

	lfo, err := modulation.NewLFO(1)
	if err != nil {
		return nil, err
	}
	if err := lfo.SetWaveform(s.waveform); err != nil {
		return nil, fmt.Errorf("chorus: %w", err)
	}

	factory := s.factory
	if factory == nil {
		registry := s.registry
		if registry == nil {
			registry = pitch.DefaultRegistry()
		}
		factory = registry.Lookup(s.engineName)
		if factory == nil {
			return nil, fmt.Errorf("chorus: %w: %q", pitch.ErrUnknownEngine, s.engineName)
		}
	}

	params := s.params
	if params == nil {
		params = NewParams()
	}

	return &Engine{
		factory:       factory,
		params:        params,
		decimation:    s.decimation,
		bufferSeconds: s.bufferSeconds,
		waveform:      s.waveform,
		state:         StateUninitialized,
	}, nil
}

// Prepare sizes the ring buffers for sampleRate and blocks of up to
// maxBlock samples, builds a fresh stretcher and resets all stream state.
// It may be called in any state. On error the engine is left unchanged.
func (e *Engine) Prepare(sampleRate float64, maxBlock int) error {
	cfg := core.ProcessorConfig{
		SampleRate:    sampleRate,
		BlockSize:     maxBlock,
		BufferSeconds: e.bufferSeconds,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("chorus: %w", err)
	}

	maxDelay := core.MsToSamples(max(DelayRange.Max, DryOffsetRange.Max), sampleRate)
	capacity := max(cfg.BufferSamples(), maxDelay+maxBlock)

	delayRing, err := ring.New(capacity)
	if err != nil {
		return fmt.Errorf("chorus: delay ring: %w", err)
	}
	dryRing, err := ring.New(capacity)
	if err != nil {
		return fmt.Errorf("chorus: dry ring: %w", err)
	}

	lfo, err := modulation.NewLFO(sampleRate / float64(e.decimation))
	if err != nil {
		return fmt.Errorf("chorus: %w", err)
	}
	if err := lfo.SetWaveform(e.waveform); err != nil {
		return fmt.Errorf("chorus: %w", err)
	}

	stretcher, err := e.factory(sampleRate, maxBlock)
	if err != nil {
		return fmt.Errorf("chorus: stretcher: %w", err)
	}
	if stretcher == nil {
		return errors.New("chorus: stretcher factory returned nil")
	}
	stretcher.Reset()

	e.sampleRate = sampleRate
	e.maxBlock = maxBlock
	e.delayRing = delayRing
	e.dryRing = dryRing
	e.lfo = lfo
	e.stretcher = stretcher
	e.scratch = core.EnsureLen(e.scratch, maxBlock)
	e.resetStream()
	e.stats.reset()
	e.state = StatePrepared

	return nil
}

// Reset clears the ring buffers, cursors, LFO phase and stretcher state
// for a stream restart without reallocating.
func (e *Engine) Reset() error {
	if e.state != StatePrepared && e.state != StateProcessing {
		return ErrNotPrepared
	}
	e.delayRing.Clear()
	e.dryRing.Clear()
	e.stretcher.Reset()
	e.resetStream()
	e.state = StatePrepared
	return nil
}

func (e *Engine) resetStream() {
	e.delayWrite = 0
	e.dryWrite = 0
	e.lfo.Reset()
	e.lfoValue = e.lfo.Value()
	e.lfoPending = 0
}

// Release drops buffers and the stretcher. ProcessBlock fails with
// ErrNotPrepared until the next Prepare.
func (e *Engine) Release() {
	e.delayRing = nil
	e.dryRing = nil
	e.lfo = nil
	e.stretcher = nil
	e.scratch = nil
	e.delayWrite = 0
	e.dryWrite = 0
	e.state = StateReleased
}

// ProcessBlock consumes one mono input block and writes len(input) samples
// to dry (overwritten) and wet (accumulated).
//
// Wet samples the stretcher did not produce are left as they were. The
// call does not allocate.
func (e *Engine) ProcessBlock(input, dry, wet []float64) error {
	if e.state != StatePrepared && e.state != StateProcessing {
		return ErrNotPrepared
	}
	n := len(input)
	if n > e.maxBlock {
		return ErrBlockTooLarge
	}
	if len(dry) < n || len(wet) < n {
		return ErrShortOutput
	}
	e.state = StateProcessing

	delayMs := e.params.DelayMs()
	dryOffsetMs := e.params.DryOffsetMs()
	baseCents := e.params.BasePitchCents()
	depthCents := e.params.LFODepthCents()
	rateHz := e.params.LFORateHz()

	if err := e.delayRing.Write(e.delayWrite, input); err != nil {
		return err
	}
	if err := e.dryRing.Write(e.dryWrite, input); err != nil {
		return err
	}

	readPos := e.readPosition(e.delayRing, e.delayWrite, delayMs)
	dryReadPos := e.readPosition(e.dryRing, e.dryWrite, dryOffsetMs)

	e.advanceLFO(n, rateHz)
	if err := e.stretcher.SetPitchRatio(core.CentsToRatio(baseCents + e.lfoValue*depthCents)); err != nil {
		e.stats.ratioErrors.Add(1)
	}

	first, second := e.delayRing.Read(readPos, n)
	e.stretch(first, wet[:len(first)])
	e.stretch(second, wet[len(first):n])

	first, second = e.dryRing.Read(dryReadPos, n)
	split := core.CopyInto(dry, first)
	core.CopyInto(dry[split:n], second)

	e.delayWrite = e.delayRing.Wrap(e.delayWrite + n)
	e.dryWrite = e.dryRing.Wrap(e.dryWrite + n)

	e.stats.blocks.Add(1)
	e.stats.samples.Add(uint64(n))

	return nil
}

// Process is the host callback boundary: inputs[0] is the mono source,
// outputs[0] receives dry and outputs[1] wet. The wet channel is cleared
// before processing so unproduced samples are silent. Extra channels are
// ignored.
func (e *Engine) Process(inputs, outputs [][]float64) error {
	if len(inputs) < 1 || len(outputs) < 2 {
		return ErrChannelLayout
	}
	in := inputs[0]
	if len(outputs[0]) < len(in) || len(outputs[1]) < len(in) {
		return ErrShortOutput
	}
	core.Zero(outputs[1][:len(in)])
	return e.ProcessBlock(in, outputs[0], outputs[1])
}

// readPosition returns the ring offset delayMs behind cursor. The delay is
// limited so a full block never reads past the cursor's block.
func (e *Engine) readPosition(r *ring.Buffer, cursor int, delayMs float64) int {
	d := min(core.MsToSamples(delayMs, e.sampleRate), r.Capacity()-e.maxBlock)
	return r.Wrap(cursor - d)
}

// advanceLFO ticks the modulator once per decimation samples of audio,
// carrying the remainder into the next block.
func (e *Engine) advanceLFO(n int, rateHz float64) {
	e.lfo.SetFrequency(rateHz)
	e.lfoPending += n
	for e.lfoPending >= e.decimation {
		e.lfoPending -= e.decimation
		e.lfoValue = e.lfo.NextSample()
	}
}

// stretch feeds span to the stretcher and adds what it retrieves to the
// start of out.
func (e *Engine) stretch(span, out []float64) {
	n := len(span)
	if n == 0 {
		return
	}

	if accepted := e.stretcher.Process(span); accepted < n {
		e.stats.rejectedSamples.Add(uint64(n - max(accepted, 0)))
	}

	got := min(max(e.stretcher.Retrieve(e.scratch[:n]), 0), n)
	if got > 0 {
		vecmath.AddBlockInPlace(out[:got], e.scratch[:got])
	}
	if got < n {
		e.stats.shortfallEvents.Add(1)
		e.stats.shortfallSamples.Add(uint64(n - got))
	}
}

// State returns the lifecycle stage.
func (e *Engine) State() State { return e.state }

// Latency returns the stretcher's reported latency in samples, or 0 when
// the engine is not prepared.
func (e *Engine) Latency() int {
	if e.stretcher == nil {
		return 0
	}
	return e.stretcher.Latency()
}

// Params returns the live parameter set.
func (e *Engine) Params() *Params { return e.params }

// Stats returns a snapshot of the processing counters. It is safe to call
// from any goroutine.
func (e *Engine) Stats() Stats { return e.stats.snapshot() }

// SampleRate returns the prepared sample rate, or 0.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlock returns the prepared maximum block length, or 0.
func (e *Engine) MaxBlock() int { return e.maxBlock }

// Capacity returns the ring buffer length in samples, or 0 when the
// engine is not prepared.
func (e *Engine) Capacity() int {
	if e.delayRing == nil {
		return 0
	}
	return e.delayRing.Capacity()
}

// LFOValue returns the modulator output used for the most recent block.
func (e *Engine) LFOValue() float64 { return e.lfoValue }

// PitchRatio returns the ratio last pushed to the stretcher, or 1 when the
// engine is not prepared.
func (e *Engine) PitchRatio() float64 {
	if e.stretcher == nil {
		return 1
	}
	return e.stretcher.PitchRatio()
}

// SetDelayMs forwards to Params.SetDelayMs.
func (e *Engine) SetDelayMs(ms float64) float64 { return e.params.SetDelayMs(ms) }

// SetBasePitchCents forwards to Params.SetBasePitchCents.
func (e *Engine) SetBasePitchCents(cents float64) float64 {
	return e.params.SetBasePitchCents(cents)
}

// SetLFORateHz forwards to Params.SetLFORateHz.
func (e *Engine) SetLFORateHz(hz float64) float64 { return e.params.SetLFORateHz(hz) }

// SetLFODepthCents forwards to Params.SetLFODepthCents.
func (e *Engine) SetLFODepthCents(cents float64) float64 {
	return e.params.SetLFODepthCents(cents)
}

// SetDryOffsetMs forwards to Params.SetDryOffsetMs.
func (e *Engine) SetDryOffsetMs(ms float64) float64 { return e.params.SetDryOffsetMs(ms) }
