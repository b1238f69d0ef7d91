package trail

// ring is a fixed-capacity FIFO. head is the oldest element.
type ring[T any] struct {
	buf  []T
	head int
	size int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) len() int { return r.size }
func (r *ring[T]) cap() int { return len(r.buf) }

func (r *ring[T]) full() bool { return r.size == len(r.buf) }

// push appends v, overwriting the oldest element when full.
func (r *ring[T]) push(v T) {
	if r.full() {
		r.buf[r.head] = v
		r.head = (r.head + 1) % len(r.buf)
		return
	}
	r.buf[(r.head+r.size)%len(r.buf)] = v
	r.size++
}

// pop removes and returns the oldest element.
func (r *ring[T]) pop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return v, true
}

// appendTo appends the contents in insertion order.
func (r *ring[T]) appendTo(dst []T) []T {
	end := r.head + r.size
	if end <= len(r.buf) {
		return append(dst, r.buf[r.head:end]...)
	}
	dst = append(dst, r.buf[r.head:]...)
	return append(dst, r.buf[:end-len(r.buf)]...)
}

func (r *ring[T]) reset() {
	clear(r.buf)
	r.head, r.size = 0, 0
}

// Ring keeps the most recent Capacity points and drops exactly the oldest
// one per append once full.
type Ring struct {
	points *ring[Point]
}

func NewRing(capacity int) *Ring {
	return &Ring{points: newRing[Point](capacity)}
}

func (r *Ring) Append(p Point) { r.points.push(p) }

func (r *Ring) Snapshot() []Point {
	return r.points.appendTo(make([]Point, 0, r.points.len()))
}

func (r *Ring) Count() int    { return r.points.len() }
func (r *Ring) Capacity() int { return r.points.cap() }
func (r *Ring) Reset()        { r.points.reset() }
