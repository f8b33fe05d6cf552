package chorus

import (
	"testing"

	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
	"github.com/cwbudde/algo-chorus/internal/testutil"
)

func benchmarkEngine(b *testing.B, engine string, block int) {
	b.Helper()

	e, err := New(WithRegistryEngine(engine))
	if err != nil {
		b.Fatal(err)
	}
	if err := e.Prepare(48000, block); err != nil {
		b.Fatal(err)
	}
	e.SetLFORateHz(2)
	e.SetLFODepthCents(15)

	in := testutil.DeterministicSine(440, 48000, 0.5, block)
	dry := make([]float64, block)
	wet := make([]float64, block)

	b.ReportAllocs()
	b.SetBytes(int64(block * 8))

	for b.Loop() {
		if err := e.ProcessBlock(in, dry, wet); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineIdentity512(b *testing.B) { benchmarkEngine(b, pitch.EngineIdentity, 512) }
func BenchmarkEngineTap512(b *testing.B)      { benchmarkEngine(b, pitch.EngineTap, 512) }
func BenchmarkEngineTap64(b *testing.B)       { benchmarkEngine(b, pitch.EngineTap, 64) }
func BenchmarkEngineSpectral512(b *testing.B) { benchmarkEngine(b, pitch.EngineSpectral, 512) }
