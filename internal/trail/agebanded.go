package trail

// band maps a fractional age (0 = oldest) to a keep interval.
type band struct {
	below float64
	every int
}

var ageBands = []band{
	{below: 0.2, every: 8},
	{below: 0.4, every: 4},
	{below: 0.7, every: 2},
	{below: 1.0, every: 1},
}

func keepEvery(age float64) int {
	for _, b := range ageBands {
		if age < b.below {
			return b.every
		}
	}
	return 1
}

// AgeBanded holds a single buffer of at most Total points. Overflow triggers
// a synchronous compaction that thins old points harder than new ones and
// never touches the newest KeepRecent points.
type AgeBanded struct {
	buf        []Point
	total      int
	keepRecent int
	target     float64
	rebuilds   int
}

func NewAgeBanded(total, keepRecent int, target float64) *AgeBanded {
	return &AgeBanded{
		buf:        make([]Point, 0, total+1),
		total:      total,
		keepRecent: keepRecent,
		target:     target,
	}
}

func (a *AgeBanded) Append(p Point) {
	a.buf = append(a.buf, p)
	if len(a.buf) > a.total {
		a.compact()
	}
}

// compact rebuilds the buffer in place.
func (a *AgeBanded) compact() {
	n := len(a.buf)
	protect := min(a.keepRecent, n)
	cut := n - protect

	w := 0
	for i := 0; i < cut; i++ {
		if i%keepEvery(float64(i)/float64(n)) == 0 {
			a.buf[w] = a.buf[i]
			w++
		}
	}

	limit := max(int(a.target*float64(a.total))-protect, 0)
	drop := max(w-limit, 0)

	m := copy(a.buf, a.buf[drop:w])
	m += copy(a.buf[m:], a.buf[cut:n])
	clear(a.buf[m:n])
	a.buf = a.buf[:m]
	a.rebuilds++
}

func (a *AgeBanded) Snapshot() []Point {
	out := make([]Point, len(a.buf))
	copy(out, a.buf)
	return out
}

func (a *AgeBanded) Count() int    { return len(a.buf) }
func (a *AgeBanded) Capacity() int { return a.total }

// Rebuilds is the number of compactions run so far.
func (a *AgeBanded) Rebuilds() int { return a.rebuilds }

func (a *AgeBanded) Reset() {
	clear(a.buf)
	a.buf = a.buf[:0]
	a.rebuilds = 0
}
