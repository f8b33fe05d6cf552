package ring

// Queue is a bounded FIFO of samples backed by a Buffer.
type Queue struct {
	buf   *Buffer
	read  int
	count int
}

// NewQueue returns an empty Queue able to hold capacity samples.
func NewQueue(capacity int) (*Queue, error) {
	buf, err := New(capacity)
	if err != nil {
		return nil, err
	}
	return &Queue{buf: buf}, nil
}

// Capacity returns the maximum number of queued samples.
func (q *Queue) Capacity() int { return q.buf.Capacity() }

// Len returns the number of queued samples.
func (q *Queue) Len() int { return q.count }

// Free returns the number of samples that can be pushed without loss.
func (q *Queue) Free() int { return q.buf.Capacity() - q.count }

// Push appends as many samples from src as fit and returns that count.
func (q *Queue) Push(src []float64) int {
	n := min(len(src), q.Free())
	if n == 0 {
		return 0
	}
	// n never exceeds capacity, so Write cannot fail.
	_ = q.buf.Write(q.read+q.count, src[:n])
	q.count += n
	return n
}

// PushZeros appends n zero samples, bounded by the free space, and returns
// the number appended.
func (q *Queue) PushZeros(n int) int {
	n = min(max(n, 0), q.Free())
	first, second := q.buf.Read(q.read+q.count, n)
	clear(first)
	clear(second)
	q.count += n
	return n
}

// Pop moves up to len(dst) of the oldest samples into dst and returns the
// number moved.
func (q *Queue) Pop(dst []float64) int {
	n := min(len(dst), q.count)
	if n == 0 {
		return 0
	}
	q.buf.ReadInto(dst[:n], q.read)
	q.read = q.buf.Wrap(q.read + n)
	q.count -= n
	return n
}

// Clear drops all queued samples.
func (q *Queue) Clear() {
	q.buf.Clear()
	q.read = 0
	q.count = 0
}
