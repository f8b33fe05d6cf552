// Package chorus provides a pitch-modulated chorus engine.
//
// The Engine records mono input into two ring buffers, reads a delayed
// copy back through a pitch.Stretcher whose ratio is swept by an LFO, and
// writes the result as a wet channel next to an optionally offset dry
// channel.
//
// Processing is block-based and allocation-free after Prepare. Parameters
// live in a Params value that any goroutine may update while blocks are
// running; each scalar is read atomically once per block.
package chorus
