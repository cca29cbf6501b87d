// Package lazygrid provides an n-dimensional range-aggregation grid: an
// integer grid supporting assign-to-range, add-to-range, and sum-over-range,
// each in time logarithmic in the grid extent rather than linear in cell
// count. It is backed by a lazy-propagation segment tree whose nodes
// correspond to recursive 2^n-ary subdivisions of the full domain
// (see [hyperrect.Rect.Subdivide]).
//
// Node geometry is never stored; the sub-rect of a node is recomputed by
// subdivision as a traversal descends. Each node holds only an aggregate
// sum and a pending [Operation] that summarizes updates not yet
// materialized into its children. Nodes live in a flat arena allocated
// once at construction: apply and query traversals never allocate.
//
// Queries mutate internal state: descending past a partially-covered node
// pushes that node's pending operation into its children. A Tree therefore
// requires external mutual exclusion for any concurrent use, reads
// included.
package lazygrid

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/hyperrect"
)

// Sentinel validation errors.
var (
	// ErrNoDimensions is returned when dims is empty.
	ErrNoDimensions = errors.New("lazygrid: dims must name at least one axis")

	// ErrTooManyDimensions is returned when the axis count exceeds maxAxes;
	// the per-node fan-out is 2^n and becomes unusable long before overflow.
	ErrTooManyDimensions = errors.New("lazygrid: too many axes")

	// ErrNonPositiveDim is returned when any axis size is zero or negative.
	ErrNonPositiveDim = errors.New("lazygrid: axis sizes must be positive")

	// ErrGridTooLarge is returned when the cell count overflows int64.
	ErrGridTooLarge = errors.New("lazygrid: grid cell count overflows int64")

	// ErrLengthMismatch is returned when the initial values slice does not
	// hold exactly one value per grid cell.
	ErrLengthMismatch = errors.New("lazygrid: values length must equal the product of dims")

	// ErrDimensionMismatch is returned when a rect's axis count differs
	// from the grid's.
	ErrDimensionMismatch = errors.New("lazygrid: rect dimension does not match the grid")

	// ErrMalformedRect is returned when a rect has low > high on some axis.
	ErrMalformedRect = errors.New("lazygrid: rect has low > high on some axis")

	// ErrOutOfBounds is returned when a rect extends outside the grid.
	ErrOutOfBounds = errors.New("lazygrid: rect extends outside the grid domain")
)

// maxAxes caps the dimension count. The fan-out per internal node is 2^n
// child slots, so even modest axis counts dominate memory regardless of
// cell count.
const maxAxes = 16

// Operation and status labels reported to a [Recorder].
const (
	OpAssign = "assign"
	OpAdd    = "add"
	OpApply  = "apply"
	OpQuery  = "query"
	OpGet    = "get"

	StatusOK    = "ok"
	StatusError = "error"
)

// node is one arena slot: the aggregate sum over the node's implicit
// sub-rect and the operation deferred for its subtree. kids is the arena
// index of the first of 2^n contiguous child slots; 0 marks a leaf, since
// slot 0 is the root and can never be anyone's child.
type node struct {
	sum     int64
	pending Operation
	kids    int
}

// Tree is an n-dimensional lazy segment tree over the grid [0, dims).
// Construct with [New]; the grid cannot be resized afterwards.
type Tree struct {
	domain hyperrect.Rect
	dims   []int
	fanout int // 2^n child slots per internal node.
	cells  int64
	nodes  []node
	depth  int

	rec    Recorder
	logger *slog.Logger
}

// New builds a tree over a grid with the given per-axis sizes, initialized
// from values in row-major order (the last axis varies fastest). The
// length of values must equal the product of dims. The entire node arena
// is allocated here; subsequent operations never grow it.
func New(values []int64, dims []int, opts ...Option) (*Tree, error) {
	n := len(dims)
	if n == 0 {
		return nil, ErrNoDimensions
	}

	if n > maxAxes {
		return nil, ErrTooManyDimensions
	}

	cells := int64(1)

	for _, d := range dims {
		if d <= 0 {
			return nil, ErrNonPositiveDim
		}

		next, ok := mulInt64(cells, int64(d))
		if !ok {
			return nil, ErrGridTooLarge
		}

		cells = next
	}

	if int64(len(values)) != cells {
		return nil, ErrLengthMismatch
	}

	t := &Tree{
		domain: hyperrect.New(make([]int, n), dims),
		dims:   append([]int(nil), dims...),
		fanout: 1 << n,
		cells:  cells,
		rec:    nopRecorder{},
	}

	for _, opt := range opts {
		opt(t)
	}

	// Leaves number exactly cells and internal nodes fewer than cells, so
	// 2*cells is a reasonable starting capacity; saturated (extent-1) axes
	// can push the slot count higher and the arena grows as needed.
	t.nodes = make([]node, 1, 2*int(cells)+1)
	t.build(0, t.domain, values, 0)

	if t.logger != nil {
		t.logger.Debug("grid built",
			slog.Int("axes", n),
			slog.Int64("cells", cells),
			slog.Int("node_slots", len(t.nodes)),
			slog.Int("depth", t.depth),
		)
	}

	return t, nil
}

// Dims returns a copy of the per-axis grid sizes.
func (t *Tree) Dims() []int {
	return append([]int(nil), t.dims...)
}

// Domain returns a copy of the full grid rect [0, dims).
func (t *Tree) Domain() hyperrect.Rect {
	return hyperrect.New(t.domain.Low, t.domain.High)
}

// AssignRange sets every cell of r to value.
func (t *Tree) AssignRange(r hyperrect.Rect, value int64) error {
	return t.applyNamed(OpAssign, r, Assign(value))
}

// AddRange increments every cell of r by delta.
func (t *Tree) AddRange(r hyperrect.Rect, delta int64) error {
	return t.applyNamed(OpAdd, r, Add(delta))
}

// Apply applies an arbitrary operation to every cell of r. AssignRange
// and AddRange are the two named specializations.
func (t *Tree) Apply(r hyperrect.Rect, op Operation) error {
	return t.applyNamed(OpApply, r, op)
}

// QueryRange returns the sum of all cells in r. Although logically a
// read, it may materialize pending operations along the descent path.
func (t *Tree) QueryRange(r hyperrect.Rect) (int64, error) {
	return t.queryNamed(OpQuery, r)
}

// Get returns the value of the single cell at coords.
func (t *Tree) Get(coords []int) (int64, error) {
	return t.queryNamed(OpGet, hyperrect.Point(coords))
}

// applyNamed validates r and runs the apply recursion from the root.
// Validation failures leave the tree untouched.
func (t *Tree) applyNamed(name string, r hyperrect.Rect, op Operation) error {
	start := time.Now()

	if err := t.checkRect(r); err != nil {
		t.rec.RecordOp(name, StatusError, time.Since(start))

		return err
	}

	if !r.IsEmpty() && !op.IsIdentity() {
		t.applyR(0, r, t.domain, op)
	}

	t.rec.RecordOp(name, StatusOK, time.Since(start))

	return nil
}

// queryNamed validates r and runs the query recursion from the root.
func (t *Tree) queryNamed(name string, r hyperrect.Rect) (int64, error) {
	start := time.Now()

	if err := t.checkRect(r); err != nil {
		t.rec.RecordOp(name, StatusError, time.Since(start))

		return 0, err
	}

	var sum int64
	if !r.IsEmpty() {
		sum = t.queryR(0, r, t.domain)
	}

	t.rec.RecordOp(name, StatusOK, time.Since(start))

	return sum, nil
}

// checkRect rejects rects that violate the operation preconditions:
// matching dimension, low <= high per axis, contained in the domain.
func (t *Tree) checkRect(r hyperrect.Rect) error {
	if r.Dim() != t.domain.Dim() || len(r.High) != t.domain.Dim() {
		return ErrDimensionMismatch
	}

	for i := range r.Low {
		if r.Low[i] > r.High[i] {
			return ErrMalformedRect
		}
	}

	if !t.domain.Contains(r) {
		return ErrOutOfBounds
	}

	return nil
}

// applyR applies op to the cells of query. Precondition: domain contains
// query and query is non-empty.
func (t *Tree) applyR(v int, query, domain hyperrect.Rect, op Operation) {
	if query.Equal(domain) {
		// Exact cover: fold op into this node's aggregate now and defer it
		// for the subtree. Points have no subtree to defer to.
		nd := &t.nodes[v]
		nd.pending.ComposeWith(op)
		nd.sum = op.Evaluate(nd.sum, domain)

		if domain.IsPoint() {
			nd.pending.clear()
		}

		return
	}

	quads := domain.Subdivide()
	t.push(v, domain, quads)

	kids := t.nodes[v].kids

	for i, q := range quads {
		sub := q.Intersect(query)
		if sub.IsEmpty() {
			continue
		}

		t.applyR(kids+i, sub, q, op)
	}

	t.refresh(v)
}

// queryR returns the sum over query. Precondition: domain contains query
// and query is non-empty.
func (t *Tree) queryR(v int, query, domain hyperrect.Rect) int64 {
	if query.Equal(domain) {
		return t.nodes[v].sum
	}

	quads := domain.Subdivide()
	t.push(v, domain, quads)

	kids := t.nodes[v].kids

	var sum int64

	for i, q := range quads {
		sub := q.Intersect(query)
		if sub.IsEmpty() {
			continue
		}

		sum += t.queryR(kids+i, sub, q)
	}

	return sum
}

// push materializes v's pending operation into every non-empty child:
// the child's pending absorbs it (composition, not overwrite) and the
// child's aggregate is updated immediately, so sums stay current at every
// node a traversal can reach. Point children never retain pending state.
// v's own aggregate already reflects the operation from the moment it was
// composed, so v is only cleared here, never re-evaluated.
func (t *Tree) push(v int, domain hyperrect.Rect, quads []hyperrect.Rect) {
	nd := &t.nodes[v]
	if nd.kids == 0 {
		panic("lazygrid: push reached a childless node at " + domain.String())
	}

	p := nd.pending
	if p.IsIdentity() {
		return
	}

	distributed := 0

	for i, q := range quads {
		if q.IsEmpty() {
			continue
		}

		child := &t.nodes[nd.kids+i]
		child.pending.ComposeWith(p)
		child.sum = p.Evaluate(child.sum, q)

		if q.IsPoint() {
			child.pending.clear()
		}

		distributed++
	}

	nd.pending.clear()
	t.rec.RecordPush(distributed)
}

// refresh recomputes v's aggregate from its children. Empty-quadrant
// slots hold zero and contribute nothing.
func (t *Tree) refresh(v int) {
	kids := t.nodes[v].kids

	var sum int64

	for i := range t.fanout {
		sum += t.nodes[kids+i].sum
	}

	t.nodes[v].sum = sum
}

// build recursively allocates the arena: leaf sums come from values via
// row-major indexing, internal sums from children. Empty quadrants keep
// their zero slot and are never descended into again.
func (t *Tree) build(v int, domain hyperrect.Rect, values []int64, depth int) {
	if depth > t.depth {
		t.depth = depth
	}

	if domain.IsPoint() {
		t.nodes[v].sum = values[t.linearIndex(domain.Low)]

		return
	}

	kids := len(t.nodes)
	t.nodes[v].kids = kids
	t.nodes = append(t.nodes, make([]node, t.fanout)...)

	var sum int64

	for i, q := range domain.Subdivide() {
		if q.IsEmpty() {
			continue
		}

		t.build(kids+i, q, values, depth+1)
		sum += t.nodes[kids+i].sum
	}

	t.nodes[v].sum = sum
}

// linearIndex maps grid coordinates to the row-major position in the
// initial values slice: the last axis varies fastest.
func (t *Tree) linearIndex(coords []int) int64 {
	idx := int64(coords[0])

	for i := 1; i < len(coords); i++ {
		idx = idx*int64(t.dims[i]) + int64(coords[i])
	}

	return idx
}

// mulInt64 multiplies two positive int64 values, reporting overflow.
func mulInt64(a, b int64) (int64, bool) {
	prod := a * b
	if a != 0 && prod/a != b {
		return 0, false
	}

	return prod, true
}
