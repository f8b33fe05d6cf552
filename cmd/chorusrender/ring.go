package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallnest/ringbuffer"
)

// ringWriter blocks until all of p fits into the ring, sleeping briefly
// while the consumer drains it.
type ringWriter struct {
	ctx  context.Context
	ring *ringbuffer.RingBuffer
}

func (w *ringWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		if err := w.ctx.Err(); err != nil {
			return written, err
		}
		n, err := w.ring.Write(p[written:])
		written += n
		switch {
		case err == nil:
		case errors.Is(err, ringbuffer.ErrIsFull), errors.Is(err, ringbuffer.ErrTooMuchDataToWrite):
			if n == 0 {
				time.Sleep(time.Millisecond)
			}
		default:
			return written, fmt.Errorf("playback ring: %w", err)
		}
	}
	return written, nil
}

// readFrames copies whole frames from ring into p without blocking and
// pads the rest of p with silence. It returns the number of bytes taken
// from the ring.
func readFrames(ring *ringbuffer.RingBuffer, p []byte) int {
	avail := min(ring.Length(), len(p))
	avail -= avail % bytesPerFrame

	n := 0
	if avail > 0 {
		n, _ = ring.TryRead(p[:avail])
	}
	clear(p[n:])
	return n
}
