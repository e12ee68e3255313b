package nmt

import (
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// Node is one vertex of the tree: a hash plus the namespace range it covers.
// The tree holds nodes in flat per-level slices addressed by integer index;
// there is no pointer graph, matching the builder's array-of-layers shape.
type Node struct {
	Hash    [hashutil.Size]byte
	NSRange namespace.Range
}
