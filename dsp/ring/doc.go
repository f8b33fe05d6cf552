// Package ring provides fixed-capacity circular sample storage for
// block-based streaming.
//
// [Buffer] is the wrap-aware primitive: writes and reads of up to one
// capacity are split into at most two contiguous spans at the wrap
// boundary. Callers own the cursors, so several independent cursors can
// share one Buffer. [Queue] is a FIFO built on the same primitive.
//
// Neither type locks. Each buffer must have a single writer and a single
// reader at a time.
package ring
