//go:build !headless

package main

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/smallnest/ringbuffer"
)

// ringPlayer plays rendered frames through oto. The render loop writes
// into a ring buffer; oto's reader goroutine drains it and never blocks.
type ringPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *ringbuffer.RingBuffer

	eof         atomic.Bool
	drained     atomic.Bool
	bytesPlayed atomic.Uint64
	silentBytes atomic.Uint64
}

func newRingPlayer(sampleRate, ringMs int) (*ringPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	ringSize := max(sampleRate*bytesPerFrame*ringMs/1000, bytesPerFrame*1024)
	p := &ringPlayer{
		ctx:  ctx,
		ring: ringbuffer.New(ringSize),
	}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Writer returns the producer side of the ring.
func (p *ringPlayer) Writer(ctx context.Context) io.Writer {
	return &ringWriter{ctx: ctx, ring: p.ring}
}

// Read is called by oto on its own goroutine.
func (p *ringPlayer) Read(b []byte) (int, error) {
	n := readFrames(p.ring, b)
	p.bytesPlayed.Add(uint64(n))
	if n < len(b) {
		if p.eof.Load() && p.ring.Length() == 0 {
			p.drained.Store(true)
		} else {
			p.silentBytes.Add(uint64(len(b) - n))
		}
	}
	return len(b), nil
}

func (p *ringPlayer) Start() { p.player.Play() }

// Finish marks the end of input; Drained reports true once the ring is empty.
func (p *ringPlayer) Finish() { p.eof.Store(true) }

func (p *ringPlayer) Drained() bool { return p.drained.Load() }

// SilentBytes returns the padding inserted while the ring ran dry.
func (p *ringPlayer) SilentBytes() uint64 { return p.silentBytes.Load() }

func (p *ringPlayer) Close() error {
	return p.player.Close()
}
