// Command chorusrender runs a generated test signal through the chorus
// engine and writes or plays the dry/wet result.
//
// Usage:
//
//	chorusrender [flags]
//
// The output is interleaved stereo, dry on the left and wet on the right,
// as 32-bit float little-endian frames.
//
// Examples:
//
//	chorusrender -list
//	chorusrender -source saw -freq 220 -delay 12 -depth 15 -out chorus.f32
//	chorusrender -engine spectral -block 256 -jitter -play
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cwbudde/algo-chorus/dsp/core"
	"github.com/cwbudde/algo-chorus/dsp/effects/chorus"
	"github.com/cwbudde/algo-chorus/dsp/effects/modulation"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
	dspsignal "github.com/cwbudde/algo-chorus/dsp/signal"
)

// options holds the parsed command line.
type options struct {
	sampleRate int
	block      int
	jitter     bool
	seconds    float64
	source     string
	freq       float64
	seed       int64
	values     chorus.Values
	decimation int
	waveform   string
	engine     string
	outPath    string
	play       bool
	ringMs     int
}

func main() {
	defaults := chorus.DefaultValues()

	var (
		opts options
		list bool
	)
	flag.IntVar(&opts.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&opts.block, "block", 512, "maximum host block length in samples")
	flag.BoolVar(&opts.jitter, "jitter", false, "use random block lengths up to -block")
	flag.Float64Var(&opts.seconds, "seconds", 5, "length of the generated signal")
	flag.StringVar(&opts.source, "source", "saw", "test signal: sine|saw|noise")
	flag.Float64Var(&opts.freq, "freq", 220, "test tone frequency in Hz")
	flag.Int64Var(&opts.seed, "seed", 1, "seed for noise and block jitter")
	flag.Float64Var(&opts.values.DelayMs, "delay", defaults.DelayMs, "wet delay in ms (0-100)")
	flag.Float64Var(&opts.values.BasePitchCents, "pitch", defaults.BasePitchCents, "base pitch offset in cents (-25..25)")
	flag.Float64Var(&opts.values.LFORateHz, "lfo-rate", defaults.LFORateHz, "LFO rate in Hz (0-10)")
	flag.Float64Var(&opts.values.LFODepthCents, "depth", defaults.LFODepthCents, "LFO depth in cents (0-25)")
	flag.Float64Var(&opts.values.DryOffsetMs, "dry-offset", defaults.DryOffsetMs, "dry path offset in ms (0-100)")
	flag.IntVar(&opts.decimation, "decimation", 100, "audio samples per LFO update")
	flag.StringVar(&opts.waveform, "waveform", "sine", "LFO waveform: sine|triangle")
	flag.StringVar(&opts.engine, "engine", pitch.EngineTap, "pitch engine name (see -list)")
	flag.StringVar(&opts.outPath, "out", "", "write interleaved float32 LE stereo to this file")
	flag.BoolVar(&opts.play, "play", false, "play the result on the default audio device")
	flag.IntVar(&opts.ringMs, "ring-ms", 250, "playback ring buffer size in ms")
	flag.BoolVar(&list, "list", false, "list available pitch engines and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chorusrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a test signal through the pitch-modulated chorus engine.\n")
		fmt.Fprintf(os.Stderr, "Output frames are stereo float32 LE: left = dry, right = wet.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if list {
		for _, name := range pitch.DefaultRegistry().Names() {
			fmt.Println(name)
		}
		return
	}

	if opts.outPath == "" && !opts.play {
		fmt.Fprintln(os.Stderr, "Error: nothing to do, set -out and/or -play")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run renders and delivers the signal. Every resource it opens is released
// before it returns, including on error.
func run(ctx context.Context, opts options) error {
	wf, err := parseWaveform(opts.waveform)
	if err != nil {
		return err
	}

	input, err := generate(opts.source, float64(opts.sampleRate), opts.freq, opts.seconds, opts.seed)
	if err != nil {
		return err
	}

	params := chorus.NewParams()
	params.Apply(opts.values)

	engine, err := chorus.New(
		chorus.WithRegistry(pitch.DefaultRegistry()),
		chorus.WithRegistryEngine(opts.engine),
		chorus.WithParams(params),
		chorus.WithLFODecimation(opts.decimation),
		chorus.WithLFOWaveform(wf),
	)
	if err != nil {
		return err
	}
	if err := engine.Prepare(float64(opts.sampleRate), opts.block); err != nil {
		return fmt.Errorf("failed to prepare engine: %w", err)
	}
	defer engine.Release()

	var sinks []io.Writer

	if opts.outPath != "" {
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		sinks = append(sinks, f)
	}

	var player *ringPlayer
	if opts.play {
		player, err = newRingPlayer(opts.sampleRate, opts.ringMs)
		if err != nil {
			return fmt.Errorf("failed to open audio output: %w", err)
		}
		defer player.Close()
		player.Start()
		sinks = append(sinks, player.Writer(ctx))
	}

	v := params.Snapshot()
	fmt.Printf("Engine %s, %d Hz, block %d (jitter %v), ring %d samples\n",
		opts.engine, opts.sampleRate, opts.block, opts.jitter, engine.Capacity())
	fmt.Printf("Delay %.1f ms, pitch %+.1f cents, LFO %.2f Hz x %.1f cents (%s), dry offset %.1f ms\n",
		v.DelayMs, v.BasePitchCents, v.LFORateHz, v.LFODepthCents, wf, v.DryOffsetMs)
	fmt.Printf("Reported latency: %d samples (%.1f ms)\n",
		engine.Latency(), 1000*float64(engine.Latency())/float64(opts.sampleRate))

	start := time.Now()
	res, err := render(ctx, engine, input, renderConfig{
		block:  opts.block,
		jitter: opts.jitter,
		seed:   opts.seed,
	}, io.MultiWriter(sinks...))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	elapsed := time.Since(start)

	if player != nil {
		player.Finish()
		waitDrained(ctx, player)
		if silent := player.SilentBytes(); silent > 0 {
			fmt.Printf("Playback underflow: %.1f ms of silence inserted\n",
				1000*float64(silent)/bytesPerFrame/float64(opts.sampleRate))
		}
	}

	printSummary(res, engine.Stats(), float64(opts.sampleRate), elapsed)
	return nil
}

func generate(source string, sampleRate, freq, seconds float64, seed int64) ([]float64, error) {
	samples := int(seconds * sampleRate)
	g := dspsignal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate)},
		dspsignal.WithSeed(seed),
	)

	switch strings.ToLower(source) {
	case "sine":
		return g.Sine(freq, 0.5, samples)
	case "saw":
		return g.Sawtooth(freq, 0.5, samples)
	case "noise":
		return g.WhiteNoise(0.25, samples)
	default:
		return nil, fmt.Errorf("unknown source %q (use sine, saw or noise)", source)
	}
}

func parseWaveform(name string) (modulation.Waveform, error) {
	switch strings.ToLower(name) {
	case "sine":
		return modulation.WaveformSine, nil
	case "triangle":
		return modulation.WaveformTriangle, nil
	default:
		return 0, fmt.Errorf("unknown waveform %q (use sine or triangle)", name)
	}
}

func waitDrained(ctx context.Context, p *ringPlayer) {
	for !p.Drained() {
		select {
		case <-ctx.Done():
			fmt.Println("\nPlayback interrupted")
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
	fmt.Println("Playback complete")
}

func printSummary(res renderResult, st chorus.Stats, sampleRate float64, elapsed time.Duration) {
	audio := float64(res.frames) / sampleRate
	fmt.Printf("Rendered %d frames (%.2f s) in %d blocks, %v (%.1fx real time)\n",
		res.frames, audio, res.blocks, elapsed.Round(time.Millisecond), audio/elapsed.Seconds())
	fmt.Printf("  dry: peak %.4f  rms %.4f\n", res.dryPeak, res.dryRMS)
	fmt.Printf("  wet: peak %.4f  rms %.4f\n", res.wetPeak, res.wetRMS)
	fmt.Printf("  stretcher shortfall: %d events, %d samples\n", st.ShortfallEvents, st.ShortfallSamples)
	if st.RejectedSamples > 0 || st.RatioErrors > 0 {
		fmt.Printf("  rejected samples: %d, ratio errors: %d\n", st.RejectedSamples, st.RatioErrors)
	}
}
