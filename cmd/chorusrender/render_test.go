package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-chorus/dsp/effects/chorus"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
	"github.com/cwbudde/algo-chorus/internal/testutil"
	"github.com/smallnest/ringbuffer"
)

func decodeStereo(t *testing.T, data []byte) (left, right []float64) {
	t.Helper()
	if len(data)%bytesPerFrame != 0 {
		t.Fatalf("output length %d is not a whole number of frames", len(data))
	}
	for i := 0; i < len(data); i += bytesPerFrame {
		left = append(left, float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))))
		right = append(right, float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i+4:]))))
	}
	return left, right
}

func toFloat32(src []float64) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(float32(v))
	}
	return out
}

func TestRenderWritesDryAndWetFrames(t *testing.T) {
	e, err := chorus.New(chorus.WithRegistryEngine(pitch.EngineIdentity))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Prepare(1000, 64); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	e.SetDelayMs(10)

	input := testutil.DeterministicNoise(3, 0.5, 1000)
	var buf bytes.Buffer
	res, err := render(context.Background(), e, input, renderConfig{block: 64, jitter: true, seed: 7}, &buf)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}

	if res.frames != len(input) {
		t.Fatalf("frames = %d, want %d", res.frames, len(input))
	}
	if res.blocks < len(input)/64 {
		t.Fatalf("blocks = %d, want at least %d", res.blocks, len(input)/64)
	}

	left, right := decodeStereo(t, buf.Bytes())
	want := toFloat32(input)
	testutil.RequireSliceNearlyEqual(t, left, want, 0)
	testutil.RequireDelayed(t, right, want, 10, 0)

	if res.dryPeak <= 0 || res.dryPeak > 0.5 || res.wetRMS <= 0 {
		t.Fatalf("unexpected levels: %+v", res)
	}
}

func TestRenderStopsOnCancel(t *testing.T) {
	e, err := chorus.New(chorus.WithRegistryEngine(pitch.EngineIdentity))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Prepare(1000, 16); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = render(ctx, e, make([]float64, 100), renderConfig{block: 16}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("render() error = %v, want context.Canceled", err)
	}
}

func TestEncodeStereo(t *testing.T) {
	dst := make([]byte, 3*bytesPerFrame)
	out := encodeStereo(dst, []float64{0.5, -1, 0.25}, []float64{1, 0})
	left, right := decodeStereo(t, out)
	testutil.RequireSliceNearlyEqual(t, left, []float64{0.5, -1}, 0)
	testutil.RequireSliceNearlyEqual(t, right, []float64{1, 0}, 0)
}

func TestReadFramesKeepsAlignment(t *testing.T) {
	ring := ringbuffer.New(64)
	if _, err := ring.Write(bytes.Repeat([]byte{0xAA}, 20)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	p := bytes.Repeat([]byte{0xFF}, 32)
	n := readFrames(ring, p)
	if n != 16 {
		t.Fatalf("readFrames() = %d, want 16", n)
	}
	for i, b := range p {
		want := byte(0xAA)
		if i >= n {
			want = 0
		}
		if b != want {
			t.Fatalf("byte %d = %#x, want %#x", i, b, want)
		}
	}
	if ring.Length() != 4 {
		t.Fatalf("ring kept %d bytes, want 4", ring.Length())
	}
}

func TestRingWriterWaitsForConsumer(t *testing.T) {
	ring := ringbuffer.New(16)
	w := &ringWriter{ctx: context.Background(), ring: ring}

	var got []byte
	done := make(chan struct{})
	go func() {
		defer close(done)
		p := make([]byte, 8)
		for len(got) < 64 {
			if n := readFrames(ring, p); n > 0 {
				got = append(got, p[:n]...)
				continue
			}
			time.Sleep(100 * time.Microsecond)
		}
	}()

	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i)
	}
	if n, err := w.Write(src); err != nil || n != 64 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	<-done

	if !bytes.Equal(got, src) {
		t.Fatalf("consumer saw %v, want %v", got, src)
	}
}

func TestRingWriterHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &ringWriter{ctx: ctx, ring: ringbuffer.New(8)}

	cancel()
	if _, err := w.Write(make([]byte, 32)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write() error = %v, want context.Canceled", err)
	}
}

func TestRingWriterReportsClosedRing(t *testing.T) {
	ring := ringbuffer.New(8)
	ring.CloseWriter()
	w := &ringWriter{ctx: context.Background(), ring: ring}

	n, err := w.Write(make([]byte, 32))
	if !errors.Is(err, ringbuffer.ErrWriteOnClosed) {
		t.Fatalf("Write() error = %v, want ErrWriteOnClosed", err)
	}
	if n != 0 {
		t.Fatalf("Write() = %d, want 0", n)
	}
}

func TestRingWriterSplitsOversizedWrites(t *testing.T) {
	ring := ringbuffer.New(8)
	w := &ringWriter{ctx: context.Background(), ring: ring}

	done := make(chan struct{})
	var got []byte
	go func() {
		defer close(done)
		p := make([]byte, 8)
		for len(got) < 24 {
			if n := readFrames(ring, p); n > 0 {
				got = append(got, p[:n]...)
				continue
			}
			time.Sleep(100 * time.Microsecond)
		}
	}()

	// Each ring write takes at most 8 bytes and reports ErrTooMuchDataToWrite.
	if n, err := w.Write(bytes.Repeat([]byte{7}, 24)); err != nil || n != 24 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	<-done
	if !bytes.Equal(got, bytes.Repeat([]byte{7}, 24)) {
		t.Fatalf("consumer saw %v", got)
	}
}
