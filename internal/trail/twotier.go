package trail

// TwoTier keeps a full-density recent tier and a decimated sparse tier.
// Points leaving the recent tier are moved to the sparse tier one in every
// SparseEvery; the sparse tier drops its oldest point when full.
type TwoTier struct {
	recent *ring[Point]
	sparse *ring[Point]
	every  int
	moved  int
}

func NewTwoTier(recent, every, sparseCap int) *TwoTier {
	return &TwoTier{
		recent: newRing[Point](recent),
		sparse: newRing[Point](sparseCap),
		every:  every,
	}
}

func (t *TwoTier) Append(p Point) {
	if t.recent.full() {
		old, _ := t.recent.pop()
		if t.moved%t.every == 0 {
			t.sparse.push(old)
		}
		t.moved++
	}
	t.recent.push(p)
}

func (t *TwoTier) Snapshot() []Point {
	out := make([]Point, 0, t.Count())
	out = t.sparse.appendTo(out)
	return t.recent.appendTo(out)
}

func (t *TwoTier) Count() int    { return t.recent.len() + t.sparse.len() }
func (t *TwoTier) Capacity() int { return t.recent.cap() + t.sparse.cap() }

func (t *TwoTier) Reset() {
	t.recent.reset()
	t.sparse.reset()
	t.moved = 0
}

// Recent returns the full-density tier, oldest first.
func (t *TwoTier) Recent() []Point {
	return t.recent.appendTo(make([]Point, 0, t.recent.len()))
}

// Sparse returns the decimated tier, oldest first.
func (t *TwoTier) Sparse() []Point {
	return t.sparse.appendTo(make([]Point, 0, t.sparse.len()))
}

func (t *TwoTier) Layers() []Layer {
	return []Layer{
		{Name: "sparse", Opacity: 0.3, Points: t.Sparse()},
		{Name: "recent", Opacity: 0.8, Points: t.Recent()},
	}
}
