package ring

import (
	"errors"
	"fmt"
)

// ErrSpanTooLong is returned when a write span exceeds the buffer capacity.
var ErrSpanTooLong = errors.New("ring: span exceeds capacity")

// Buffer is a fixed-capacity circular sample store.
//
// Offsets passed to Write, Read and At are absolute positions that are
// reduced modulo the capacity, so negative offsets and offsets beyond the
// capacity are both valid.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer holding capacity samples.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}
	return &Buffer{samples: make([]float64, capacity)}, nil
}

// Capacity returns the number of samples the buffer holds.
func (b *Buffer) Capacity() int {
	return len(b.samples)
}

// Wrap reduces pos into [0, Capacity()).
func (b *Buffer) Wrap(pos int) int {
	size := len(b.samples)
	pos %= size
	if pos < 0 {
		pos += size
	}
	return pos
}

// Write stores src starting at offset. A span that crosses the end of the
// buffer continues at index 0.
func (b *Buffer) Write(offset int, src []float64) error {
	size := len(b.samples)
	n := len(src)
	if n > size {
		return fmt.Errorf("%w: %d > %d", ErrSpanTooLong, n, size)
	}
	if n == 0 {
		return nil
	}

	pos := b.Wrap(offset)
	first := size - pos
	if first >= n {
		copy(b.samples[pos:pos+n], src)
		return nil
	}
	copy(b.samples[pos:], src[:first])
	copy(b.samples[:n-first], src[first:])
	return nil
}

// Read returns length samples starting at offset as views into the
// backing store. second is empty unless the span crosses the wrap
// boundary; first followed by second is the logical result. length is
// clamped to [0, Capacity()].
//
// The views alias the buffer and are invalidated by the next Write over
// the same region.
func (b *Buffer) Read(offset, length int) (first, second []float64) {
	size := len(b.samples)
	length = min(max(length, 0), size)
	if length == 0 {
		return nil, nil
	}

	pos := b.Wrap(offset)
	head := size - pos
	if head >= length {
		return b.samples[pos : pos+length], nil
	}
	return b.samples[pos:], b.samples[:length-head]
}

// ReadInto copies len(dst) samples starting at offset into dst and returns
// the number of samples copied.
func (b *Buffer) ReadInto(dst []float64, offset int) int {
	first, second := b.Read(offset, len(dst))
	n := copy(dst, first)
	n += copy(dst[n:], second)
	return n
}

// At returns the sample stored at offset.
func (b *Buffer) At(offset int) float64 {
	return b.samples[b.Wrap(offset)]
}

// Set stores one sample at offset.
func (b *Buffer) Set(offset int, v float64) {
	b.samples[b.Wrap(offset)] = v
}

// Clear zeroes the stored samples.
func (b *Buffer) Clear() {
	clear(b.samples)
}
