package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-chorus/dsp/effects/chorus"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
)

func testOptions(t *testing.T) options {
	t.Helper()
	return options{
		sampleRate: 8000,
		block:      64,
		seconds:    0.1,
		source:     "sine",
		freq:       440,
		seed:       1,
		values:     chorus.DefaultValues(),
		decimation: 100,
		waveform:   "sine",
		engine:     pitch.EngineIdentity,
		outPath:    filepath.Join(t.TempDir(), "out.f32"),
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	opts := testOptions(t)
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	info, err := os.Stat(opts.outPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if want := int64(800 * bytesPerFrame); info.Size() != want {
		t.Fatalf("output size = %d, want %d", info.Size(), want)
	}
}

func TestRunReturnsRenderError(t *testing.T) {
	opts := testOptions(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run() error = %v, want context.Canceled", err)
	}
	// The output file was created and closed on the error path.
	if err := os.Remove(opts.outPath); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

func TestRunReportsSetupErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*options)
		want   error
	}{
		{"unknown engine", func(o *options) { o.engine = "nope" }, pitch.ErrUnknownEngine},
		{"unknown source", func(o *options) { o.source = "square" }, nil},
		{"unknown waveform", func(o *options) { o.waveform = "saw" }, nil},
		{"bad block", func(o *options) { o.block = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			tt.modify(&opts)
			err := run(context.Background(), opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("run() error = %v, want %v", err, tt.want)
			}
		})
	}
}
