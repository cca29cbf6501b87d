package lazygrid

import (
	"fmt"

	"github.com/Sumatoshi-tech/gridrange/pkg/alg/hyperrect"
)

// opKind distinguishes the three operation variants. The identity variant
// is explicit rather than an "all fields zero" convention, although the
// zero Operation is deliberately the identity so that freshly allocated
// node arenas start with no pending work.
type opKind uint8

const (
	opIdentity opKind = iota
	opAdd
	opReset
)

// Operation is the lazy algebra element deferred at tree nodes: identity
// (no effect), add(delta) (increment every cell), or reset(value) (set
// every cell). Operations compose associatively, which is what lets a
// node hold a single pending Operation summarizing any sequence of
// deferred updates to its subtree.
type Operation struct {
	kind   opKind
	amount int64
}

// Identity returns the no-effect operation.
func Identity() Operation {
	return Operation{kind: opIdentity}
}

// Add returns the operation that increments every covered cell by delta.
func Add(delta int64) Operation {
	return Operation{kind: opAdd, amount: delta}
}

// Assign returns the operation that sets every covered cell to value.
func Assign(value int64) Operation {
	return Operation{kind: opReset, amount: value}
}

// IsIdentity reports whether the operation has no effect. Add(0) evaluates
// identically but reports false; callers never need to distinguish them.
func (o Operation) IsIdentity() bool {
	return o.kind == opIdentity
}

// IsReset reports whether the operation discards prior cell values.
func (o Operation) IsReset() bool {
	return o.kind == opReset
}

// Evaluate returns the sum over domain after applying o to a region whose
// current sum is current. A reset sets every cell to the amount, so the
// new sum is volume*amount regardless of current; identity and add
// contribute volume*amount on top of current (zero for identity).
func (o Operation) Evaluate(current int64, domain hyperrect.Rect) int64 {
	if o.kind == opReset {
		return domain.Volume() * o.amount
	}

	return current + domain.Volume()*o.amount
}

// ComposeWith mutates o to represent "apply o, then apply other". A reset
// in other discards o entirely; an add accumulates onto o's amount, which
// doubles as the reset target when o is itself a reset (reset-then-add
// collapses to a reset at the shifted value).
func (o *Operation) ComposeWith(other Operation) {
	switch other.kind {
	case opReset:
		*o = other
	case opAdd:
		o.amount += other.amount

		if o.kind == opIdentity {
			o.kind = opAdd
		}
	case opIdentity:
		// No effect.
	}
}

// clear restores the identity state.
func (o *Operation) clear() {
	*o = Identity()
}

// String renders the operation for diagnostics.
func (o Operation) String() string {
	switch o.kind {
	case opAdd:
		return fmt.Sprintf("add(%d)", o.amount)
	case opReset:
		return fmt.Sprintf("assign(%d)", o.amount)
	default:
		return "identity"
	}
}
