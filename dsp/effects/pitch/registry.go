package pitch

import (
	"errors"
	"fmt"
	"sort"
)

// Engine names registered by DefaultRegistry.
const (
	EngineIdentity = "identity"
	EngineTap      = "tap"
	EngineSpectral = "spectral"
)

// Factory builds one Stretcher for a prepared stream.
type Factory func(sampleRate float64, maxBlock int) (Stretcher, error)

// Registry maps engine names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	// ErrUnknownEngine is returned by New for names without a factory.
	ErrUnknownEngine = errors.New("pitch: unknown engine")

	errDuplicateEngine = errors.New("pitch: duplicate engine")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the identity, tap and
// spectral engines.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(EngineIdentity, func(_ float64, maxBlock int) (Stretcher, error) {
		return NewIdentity(maxBlock, 0)
	})
	r.MustRegister(EngineTap, func(sampleRate float64, maxBlock int) (Stretcher, error) {
		return NewTapShifter(sampleRate, maxBlock)
	})
	r.MustRegister(EngineSpectral, func(sampleRate float64, maxBlock int) (Stretcher, error) {
		return NewSpectralShifter(sampleRate, maxBlock)
	})
	return r
}

// Register adds a factory for the given engine name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("pitch: empty engine name")
	}

	if factory == nil {
		return errors.New("pitch: nil engine factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEngine, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for the given engine name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named engine.
func (r *Registry) New(name string, sampleRate float64, maxBlock int) (Stretcher, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return factory(sampleRate, maxBlock)
}
