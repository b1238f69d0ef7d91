package trail

import (
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is one sampled trajectory point. Index is the integration step that
// produced it.
type Point struct {
	Index int
	T     float64
	Pos   r2.Vec
	Vel   r2.Vec
}

func PointAt(index int, s dynamo.State) Point {
	return Point{Index: index, T: s.T, Pos: s.Pos, Vel: s.Vel}
}

func (p Point) State() dynamo.State {
	return dynamo.State{T: p.T, Pos: p.Pos, Vel: p.Vel}
}

// Store accumulates points over an unbounded run in bounded memory.
type Store interface {
	Append(p Point)
	// Snapshot returns the retained points, oldest first. The slice is a copy.
	Snapshot() []Point
	// Count is the number of points currently retained.
	Count() int
	// Capacity is the upper bound on Count.
	Capacity() int
	Reset()
}

// Layer is a group of points drawn together.
type Layer struct {
	Name    string
	Opacity float64
	Points  []Point
}

// Layered is implemented by stores whose points render in several passes.
type Layered interface {
	Layers() []Layer
}

// Series is implemented by stores that hold an exact series wider than
// their snapshot.
type Series interface {
	Series() []Point
}

// Layers returns the render passes of s, oldest first.
func Layers(s Store) []Layer {
	if l, ok := s.(Layered); ok {
		return l.Layers()
	}
	return []Layer{{Name: "trail", Opacity: 0.8, Points: s.Snapshot()}}
}

// Exportable returns the points an export of s should contain.
func Exportable(s Store) []Point {
	if sr, ok := s.(Series); ok {
		return sr.Series()
	}
	return s.Snapshot()
}
