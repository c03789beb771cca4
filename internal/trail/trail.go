// Package trail keeps a short position history per particle for the
// trails view.
package trail

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/particle-life/internal/life"
)

// Recorder stores the last few positions of every body in a ring buffer
// shared by all bodies.
type Recorder struct {
	length int
	points [][]r2.Vec
	head   int
	filled int

	// what the history was recorded against
	tick    uint64
	species int
}

// NewRecorder keeps up to length positions per body. length is at least 2.
func NewRecorder(length int) *Recorder {
	return &Recorder{length: max(2, length)}
}

// Reset drops all history.
func (r *Recorder) Reset() {
	r.points = nil
	r.head, r.filled = 0, 0
}

// Record appends the positions of f. A frame from the same tick as the
// previous one is ignored. A change in population or species means the
// particles were reseeded, so history starts over.
func (r *Recorder) Record(f life.Frame) {
	if len(r.points) != len(f.Bodies) || r.species != f.Species {
		r.Reset()
		r.points = make([][]r2.Vec, len(f.Bodies))
		for i := range r.points {
			r.points[i] = make([]r2.Vec, r.length)
		}
		r.species = f.Species
	} else if r.filled > 0 && f.Tick == r.tick {
		return
	}

	for i, b := range f.Bodies {
		r.points[i][r.head] = r2.Vec{X: b.X, Y: b.Y}
	}
	r.head = (r.head + 1) % r.length
	r.filled = min(r.filled+1, r.length)
	r.tick = f.Tick
}

// Len returns how many positions are held per body.
func (r *Recorder) Len() int {
	return r.filled
}

// Segments calls fn for each consecutive pair of recorded positions of
// body i, oldest first.
func (r *Recorder) Segments(i int, fn func(from, to r2.Vec)) {
	if i < 0 || i >= len(r.points) {
		return
	}
	path := r.points[i]
	start := (r.head - r.filled + r.length) % r.length
	for k := 1; k < r.filled; k++ {
		fn(path[(start+k-1)%r.length], path[(start+k)%r.length])
	}
}
