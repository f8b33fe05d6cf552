package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-chorus/dsp/effects/chorus"
	dspsignal "github.com/cwbudde/algo-chorus/dsp/signal"
)

const bytesPerFrame = 2 * 4

type renderConfig struct {
	block  int
	jitter bool
	seed   int64
}

type renderResult struct {
	frames  int
	blocks  int
	dryPeak float64
	dryRMS  float64
	wetPeak float64
	wetRMS  float64
}

// render feeds input through e the way a host would, in blocks of at most
// cfg.block samples, and writes each block to w as interleaved float32 LE
// stereo frames.
func render(ctx context.Context, e *chorus.Engine, input []float64, cfg renderConfig, w io.Writer) (renderResult, error) {
	if cfg.block <= 0 {
		return renderResult{}, fmt.Errorf("render block must be > 0: %d", cfg.block)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	dry := make([]float64, len(input))
	wet := make([]float64, len(input))
	frame := make([]byte, cfg.block*bytesPerFrame)

	var res renderResult
	for start := 0; start < len(input); {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n := cfg.block
		if cfg.jitter {
			n = 1 + rng.Intn(cfg.block)
		}
		end := min(start+n, len(input))

		err := e.Process(
			[][]float64{input[start:end]},
			[][]float64{dry[start:end], wet[start:end]},
		)
		if err != nil {
			return res, err
		}

		buf := encodeStereo(frame, dry[start:end], wet[start:end])
		if _, err := w.Write(buf); err != nil {
			return res, fmt.Errorf("write block: %w", err)
		}

		res.blocks++
		res.frames = end
		start = end
	}

	res.dryPeak = dspsignal.Peak(dry)
	res.dryRMS = dspsignal.RMS(dry)
	res.wetPeak = dspsignal.Peak(wet)
	res.wetRMS = dspsignal.RMS(wet)
	return res, nil
}

// encodeStereo interleaves left and right into dst as float32 LE frames
// and returns the filled prefix.
func encodeStereo(dst []byte, left, right []float64) []byte {
	n := min(len(left), len(right))
	out := dst[:n*bytesPerFrame]
	for i := range n {
		binary.LittleEndian.PutUint32(out[i*bytesPerFrame:], math.Float32bits(float32(left[i])))
		binary.LittleEndian.PutUint32(out[i*bytesPerFrame+4:], math.Float32bits(float32(right[i])))
	}
	return out
}
