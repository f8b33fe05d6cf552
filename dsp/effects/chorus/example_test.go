package chorus_test

import (
	"fmt"

	"github.com/cwbudde/algo-chorus/dsp/effects/chorus"
	"github.com/cwbudde/algo-chorus/dsp/effects/pitch"
)

func ExampleEngine() {
	e, err := chorus.New(chorus.WithRegistryEngine(pitch.EngineIdentity))
	if err != nil {
		panic(err)
	}
	if err := e.Prepare(1000, 4); err != nil {
		panic(err)
	}

	// Two samples of delay, no pitch movement.
	e.SetDelayMs(2)
	e.SetLFODepthCents(0)

	dry := make([]float64, 4)
	wet := make([]float64, 4)
	for _, block := range [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}} {
		clear(wet)
		if err := e.ProcessBlock(block, dry, wet); err != nil {
			panic(err)
		}
		fmt.Println(dry, wet)
	}

	// Output:
	// [1 2 3 4] [0 0 1 2]
	// [5 6 7 8] [3 4 5 6]
}

func ExampleParams() {
	p := chorus.NewParams()
	fmt.Println(p.SetDelayMs(250), p.SetBasePitchCents(-40), p.SetLFORateHz(1.5))
	// Output: 100 -25 1.5
}
