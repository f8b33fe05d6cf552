package pitch

import (
	"fmt"

	"github.com/cwbudde/algo-chorus/dsp/ring"
)

// Identity passes input through unchanged after a fixed latency. The
// pitch ratio is stored but not applied.
type Identity struct {
	ratio   float64
	latency int
	queue   *ring.Queue
}

// NewIdentity creates a pass-through shifter able to take maxBlock samples
// per Process call with latency samples of delay.
func NewIdentity(maxBlock, latency int) (*Identity, error) {
	if maxBlock <= 0 {
		return nil, fmt.Errorf("identity max block must be > 0: %d", maxBlock)
	}
	if latency < 0 {
		return nil, fmt.Errorf("identity latency must be >= 0: %d", latency)
	}
	q, err := ring.NewQueue(maxBlock + latency)
	if err != nil {
		return nil, err
	}
	id := &Identity{ratio: defaultRatio, latency: latency, queue: q}
	id.Reset()
	return id, nil
}

// SetPitchRatio records ratio.
func (id *Identity) SetPitchRatio(ratio float64) error {
	if err := validateRatio(ratio); err != nil {
		return err
	}
	id.ratio = ratio
	return nil
}

// PitchRatio returns the last accepted ratio.
func (id *Identity) PitchRatio() float64 { return id.ratio }

// Process queues input.
func (id *Identity) Process(input []float64) int { return id.queue.Push(input) }

// Retrieve dequeues up to len(dst) samples.
func (id *Identity) Retrieve(dst []float64) int { return id.queue.Pop(dst) }

// Latency returns the configured delay in samples.
func (id *Identity) Latency() int { return id.latency }

// Reset drops queued samples and re-primes the latency.
func (id *Identity) Reset() {
	id.queue.Clear()
	id.queue.PushZeros(id.latency)
}
