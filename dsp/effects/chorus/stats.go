package chorus

import "sync/atomic"

// Stats is a snapshot of the engine's processing counters.
type Stats struct {
	// Blocks and Samples count processed blocks and input samples.
	Blocks  uint64
	Samples uint64

	// ShortfallEvents counts Retrieve calls that produced fewer samples
	// than requested; ShortfallSamples is the summed difference.
	ShortfallEvents  uint64
	ShortfallSamples uint64

	// RejectedSamples counts input the stretcher refused to accept.
	RejectedSamples uint64

	// RatioErrors counts pitch ratios the stretcher rejected.
	RatioErrors uint64
}

type counters struct {
	blocks           atomic.Uint64
	samples          atomic.Uint64
	shortfallEvents  atomic.Uint64
	shortfallSamples atomic.Uint64
	rejectedSamples  atomic.Uint64
	ratioErrors      atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Blocks:           c.blocks.Load(),
		Samples:          c.samples.Load(),
		ShortfallEvents:  c.shortfallEvents.Load(),
		ShortfallSamples: c.shortfallSamples.Load(),
		RejectedSamples:  c.rejectedSamples.Load(),
		RatioErrors:      c.ratioErrors.Load(),
	}
}

func (c *counters) reset() {
	c.blocks.Store(0)
	c.samples.Store(0)
	c.shortfallEvents.Store(0)
	c.shortfallSamples.Store(0)
	c.rejectedSamples.Store(0)
	c.ratioErrors.Store(0)
}
