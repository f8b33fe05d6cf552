package chorus

import (
	"github.com/cwbudde/algo-chorus/dsp/effects/modulation"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
)

const (
	defaultEngineName    = pitch.EngineTap
	defaultLFODecimation = 100
	defaultBufferSeconds = 1.0
)

type settings struct {
	factory       pitch.Factory
	registry      *pitch.Registry
	engineName    string
	params        *Params
	decimation    int
	bufferSeconds float64
	waveform      modulation.Waveform
}

func defaultSettings() settings {
	return settings{
		engineName:    defaultEngineName,
		decimation:    defaultLFODecimation,
		bufferSeconds: defaultBufferSeconds,
		waveform:      modulation.WaveformSine,
	}
}

// Option configures an Engine at construction.
type Option func(*settings)

// WithStretcher uses factory to build the pitch stretcher on every Prepare.
// It takes precedence over WithRegistryEngine.
func WithStretcher(factory pitch.Factory) Option {
	return func(s *settings) {
		s.factory = factory
	}
}

// WithRegistryEngine selects a stretcher by name from the registry set with
// WithRegistry, or from pitch.DefaultRegistry.
func WithRegistryEngine(name string) Option {
	return func(s *settings) {
		s.engineName = name
	}
}

// WithRegistry sets the registry WithRegistryEngine resolves against.
func WithRegistry(r *pitch.Registry) Option {
	return func(s *settings) {
		s.registry = r
	}
}

// WithParams shares an existing parameter set with the engine.
func WithParams(p *Params) Option {
	return func(s *settings) {
		s.params = p
	}
}

// WithLFODecimation evaluates the LFO once every n audio samples.
func WithLFODecimation(n int) Option {
	return func(s *settings) {
		s.decimation = n
	}
}

// WithBufferSeconds sets the minimum ring buffer length in seconds.
func WithBufferSeconds(seconds float64) Option {
	return func(s *settings) {
		s.bufferSeconds = seconds
	}
}

// WithLFOWaveform selects the modulation shape.
func WithLFOWaveform(w modulation.Waveform) Option {
	return func(s *settings) {
		s.waveform = w
	}
}
