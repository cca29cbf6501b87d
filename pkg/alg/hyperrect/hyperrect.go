// Package hyperrect provides axis-aligned half-open hyper-rectangles
// ("rects") in n-dimensional integer coordinate space, with the geometry
// operations a recursive domain decomposition needs: volume, center,
// intersection, containment, and subdivision into 2^n quadrants at the
// per-axis floor midpoint.
//
// The quadrant ordering produced by Subdivide is canonical: quadrant i
// selects, independently per axis k, the low half [Low[k], m[k]) when bit k
// of i is clear and the high half [m[k], High[k]) when it is set. Consumers
// that index children by quadrant number rely on this ordering being stable.
//
// Rects are values. No operation mutates its receiver; Subdivide and
// Intersect return freshly allocated rects.
package hyperrect

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned half-open box [Low[i], High[i]) per axis.
// A well-formed rect has len(Low) == len(High) and Low[i] <= High[i]
// on every axis. The zero-dimensional rect has volume 1 (the empty
// product) and is treated as a point.
type Rect struct {
	Low  []int
	High []int
}

// New creates a rect from the given bounds. Both slices are copied, so the
// caller may reuse its buffers.
func New(low, high []int) Rect {
	r := Rect{
		Low:  make([]int, len(low)),
		High: make([]int, len(high)),
	}

	copy(r.Low, low)
	copy(r.High, high)

	return r
}

// Point creates the unit-volume rect covering exactly the cell at coords.
func Point(coords []int) Rect {
	r := Rect{
		Low:  make([]int, len(coords)),
		High: make([]int, len(coords)),
	}

	copy(r.Low, coords)

	for i, c := range coords {
		r.High[i] = c + 1
	}

	return r
}

// Dim returns the number of axes.
func (r Rect) Dim() int {
	return len(r.Low)
}

// Volume returns the number of cells covered: the product of per-axis
// extents. It is 0 iff the rect is empty on some axis. The product is
// accumulated in int64 without overflow checking; callers building large
// domains validate sizes up front.
func (r Rect) Volume() int64 {
	prod := int64(1)

	for i := range r.Low {
		prod *= int64(r.High[i] - r.Low[i])
	}

	return prod
}

// IsEmpty reports whether the rect covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Volume() == 0
}

// IsPoint reports whether the rect covers exactly one cell.
func (r Rect) IsPoint() bool {
	return r.Volume() == 1
}

// Center returns the per-axis floor midpoint (Low[i]+High[i])/2.
func (r Rect) Center() []int {
	m := make([]int, len(r.Low))

	for i := range r.Low {
		m[i] = floorMid(r.Low[i], r.High[i])
	}

	return m
}

// Subdivide splits the rect into exactly 2^n quadrants at its center.
// Quadrant i selects the low half on axis k when bit k of i is clear and
// the high half when it is set. The quadrants of a non-empty rect are
// pairwise interior-disjoint and their volumes sum to the parent's volume.
//
// On an axis of extent 1 the midpoint equals the low bound, so the low
// half is empty and only bit-1 quadrants on that axis are non-empty.
// Every non-empty quadrant strictly shrinks on each axis of extent >= 2,
// which is what terminates recursive subdivision for arbitrary extents.
func (r Rect) Subdivide() []Rect {
	n := len(r.Low)
	m := r.Center()

	quads := make([]Rect, 1<<n)

	for i := range quads {
		q := Rect{
			Low:  make([]int, n),
			High: make([]int, n),
		}

		for k := range n {
			if i&(1<<k) != 0 {
				q.Low[k] = m[k]
				q.High[k] = r.High[k]
			} else {
				q.Low[k] = r.Low[k]
				q.High[k] = m[k]
			}
		}

		quads[i] = q
	}

	return quads
}

// Intersect returns the per-axis intersection [max(Low), min(High)).
// An axis with an empty intersection is clamped to [0, 0); the only
// contract for such results is that Volume reports 0.
func (r Rect) Intersect(other Rect) Rect {
	n := len(r.Low)

	out := Rect{
		Low:  make([]int, n),
		High: make([]int, n),
	}

	for i := range n {
		lo := max(r.Low[i], other.Low[i])
		hi := min(r.High[i], other.High[i])

		if lo >= hi {
			continue // Leave the axis clamped at [0, 0).
		}

		out.Low[i] = lo
		out.High[i] = hi
	}

	return out
}

// Equal reports whether both bounds match on every axis. Each axis is
// compared independently; rects of different dimension are never equal.
func (r Rect) Equal(other Rect) bool {
	if len(r.Low) != len(other.Low) {
		return false
	}

	for i := range r.Low {
		if r.Low[i] != other.Low[i] || r.High[i] != other.High[i] {
			return false
		}
	}

	return true
}

// Disjoint reports whether the two rects share no cell. Rects intersect
// only when every axis interval intersects, so a single separated axis
// makes them disjoint. Empty rects are disjoint from everything.
func (r Rect) Disjoint(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return true
	}

	for i := range r.Low {
		if other.Low[i] >= r.High[i] || other.High[i] <= r.Low[i] {
			return true
		}
	}

	return false
}

// Contains reports whether other lies entirely within r. An empty other
// is contained in anything of matching dimension.
func (r Rect) Contains(other Rect) bool {
	if len(r.Low) != len(other.Low) {
		return false
	}

	if other.IsEmpty() {
		return true
	}

	for i := range r.Low {
		if other.Low[i] < r.Low[i] || other.High[i] > r.High[i] {
			return false
		}
	}

	return true
}

// String renders the rect as "[l0,h0)x[l1,h1)x...".
func (r Rect) String() string {
	var b strings.Builder

	for i := range r.Low {
		if i > 0 {
			b.WriteByte('x')
		}

		fmt.Fprintf(&b, "[%d,%d)", r.Low[i], r.High[i])
	}

	return b.String()
}

// floorMid returns floor((lo+hi)/2) without intermediate overflow.
// For lo <= hi this equals lo + (hi-lo)/2 exactly.
func floorMid(lo, hi int) int {
	return lo + (hi-lo)/2
}
