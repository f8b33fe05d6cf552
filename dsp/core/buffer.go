package core

// EnsureLen returns buf resliced to n samples when its capacity allows,
// otherwise a new zeroed slice. Callers that prepare once and reuse the
// result on the audio path never allocate after the first call.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}

// Zero silences buf.
func Zero(buf []float64) {
	clear(buf)
}

// CopyInto copies as much of src as fits into dst and returns the count.
// Copying the second half of a wrapped ring read into dst[n:] completes a
// contiguous block.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst, src[:n])
	return n
}
