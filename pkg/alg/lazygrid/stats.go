package lazygrid

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"
)

// nodeSlotBytes is the in-memory size of one arena slot.
const nodeSlotBytes = int64(unsafe.Sizeof(node{}))

// Stats describes the built tree: grid shape, arena footprint, and the
// deepest subdivision level. All values are fixed at construction.
type Stats struct {
	Axes        int
	Depth       int
	NodeSlots   int
	Cells       int64
	MemoryBytes int64
}

// Stats returns size and shape statistics for the tree.
func (t *Tree) Stats() Stats {
	return Stats{
		Axes:        t.domain.Dim(),
		Depth:       t.depth,
		NodeSlots:   len(t.nodes),
		Cells:       t.cells,
		MemoryBytes: int64(len(t.nodes)) * nodeSlotBytes,
	}
}

// String renders the stats in human-readable form.
func (s Stats) String() string {
	return fmt.Sprintf("%d axes, %s cells, %s node slots (%s), depth %d",
		s.Axes,
		humanize.Comma(s.Cells),
		humanize.Comma(int64(s.NodeSlots)),
		humanize.IBytes(uint64(s.MemoryBytes)),
		s.Depth,
	)
}
