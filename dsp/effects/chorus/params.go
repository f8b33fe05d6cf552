package chorus

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-chorus/dsp/core"
)

// Range describes the accepted interval and default of one parameter.
type Range struct {
	Min     float64
	Max     float64
	Default float64
}

// Clamp limits v to r. NaN maps to the default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	return core.Clamp(v, r.Min, r.Max)
}

// Parameter ranges exposed to the control surface.
var (
	DelayRange     = Range{Min: 0, Max: 100, Default: 0}
	BasePitchRange = Range{Min: -25, Max: 25, Default: 5}
	LFORateRange   = Range{Min: 0, Max: 10, Default: 1}
	LFODepthRange  = Range{Min: 0, Max: 25, Default: 10}
	DryOffsetRange = Range{Min: 0, Max: 100, Default: 0}
)

// Values is a plain copy of all parameters.
type Values struct {
	DelayMs        float64
	BasePitchCents float64
	LFORateHz      float64
	LFODepthCents  float64
	DryOffsetMs    float64
}

// DefaultValues returns every parameter at its default.
func DefaultValues() Values {
	return Values{
		DelayMs:        DelayRange.Default,
		BasePitchCents: BasePitchRange.Default,
		LFORateHz:      LFORateRange.Default,
		LFODepthCents:  LFODepthRange.Default,
		DryOffsetMs:    DryOffsetRange.Default,
	}
}

// Params holds the chorus controls. Each value is stored as float64 bits
// in an atomic word, so a reader never observes a torn scalar. Updates to
// different parameters are not ordered with respect to each other.
type Params struct {
	delayMs        atomicFloat
	basePitchCents atomicFloat
	lfoRateHz      atomicFloat
	lfoDepthCents  atomicFloat
	dryOffsetMs    atomicFloat
}

// NewParams returns parameters set to their defaults.
func NewParams() *Params {
	p := &Params{}
	p.Apply(DefaultValues())
	return p
}

// SetDelayMs sets the wet delay in milliseconds and returns the stored value.
func (p *Params) SetDelayMs(ms float64) float64 {
	return p.delayMs.store(DelayRange.Clamp(ms))
}

// SetBasePitchCents sets the static pitch offset and returns the stored value.
func (p *Params) SetBasePitchCents(cents float64) float64 {
	return p.basePitchCents.store(BasePitchRange.Clamp(cents))
}

// SetLFORateHz sets the modulation rate and returns the stored value.
func (p *Params) SetLFORateHz(hz float64) float64 {
	return p.lfoRateHz.store(LFORateRange.Clamp(hz))
}

// SetLFODepthCents sets the modulation depth and returns the stored value.
func (p *Params) SetLFODepthCents(cents float64) float64 {
	return p.lfoDepthCents.store(LFODepthRange.Clamp(cents))
}

// SetDryOffsetMs sets the dry path offset in milliseconds and returns the
// stored value.
func (p *Params) SetDryOffsetMs(ms float64) float64 {
	return p.dryOffsetMs.store(DryOffsetRange.Clamp(ms))
}

// DelayMs returns the wet delay in milliseconds.
func (p *Params) DelayMs() float64 { return p.delayMs.load() }

// BasePitchCents returns the static pitch offset in cents.
func (p *Params) BasePitchCents() float64 { return p.basePitchCents.load() }

// LFORateHz returns the modulation rate in Hz.
func (p *Params) LFORateHz() float64 { return p.lfoRateHz.load() }

// LFODepthCents returns the modulation depth in cents.
func (p *Params) LFODepthCents() float64 { return p.lfoDepthCents.load() }

// DryOffsetMs returns the dry path offset in milliseconds.
func (p *Params) DryOffsetMs() float64 { return p.dryOffsetMs.load() }

// Apply sets every parameter from v, clamping each one.
func (p *Params) Apply(v Values) {
	p.SetDelayMs(v.DelayMs)
	p.SetBasePitchCents(v.BasePitchCents)
	p.SetLFORateHz(v.LFORateHz)
	p.SetLFODepthCents(v.LFODepthCents)
	p.SetDryOffsetMs(v.DryOffsetMs)
}

// Snapshot returns the current values. Fields are read one at a time.
func (p *Params) Snapshot() Values {
	return Values{
		DelayMs:        p.DelayMs(),
		BasePitchCents: p.BasePitchCents(),
		LFORateHz:      p.LFORateHz(),
		LFODepthCents:  p.LFODepthCents(),
		DryOffsetMs:    p.DryOffsetMs(),
	}
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *atomicFloat) store(v float64) float64 {
	a.bits.Store(math.Float64bits(v))
	return v
}
