package erasure

// Layout computes the shape of the (stripes x n) leaf matrix for a blob of
// a given unpadded size, and the row/column index maps over it. It is pure
// math: no hashing, no allocation beyond the returned struct.
type Layout struct {
	Params  Params
	Stripes int
}

// NewLayout derives the stripe count covering originalSize bytes. A
// zero-length blob still occupies exactly one (fully padding) stripe, so
// that a degenerate empty blob has a well-defined, non-empty leaf matrix.
func NewLayout(p Params, originalSize int64) Layout {
	stripeBytes := int64(p.StripePayload())
	stripes := int((originalSize + stripeBytes - 1) / stripeBytes)
	if stripes == 0 {
		stripes = 1
	}
	return Layout{Params: p, Stripes: stripes}
}

// TotalLeaves returns stripes * n.
func (l Layout) TotalLeaves() int { return l.Stripes * l.Params.N }

// IsDataColumn reports whether col indexes a data shard rather than parity.
func (l Layout) IsDataColumn(col int) bool { return col < l.Params.K }

// LeafIndex maps (stripe, col) to its position in the flat leaf sequence.
func (l Layout) LeafIndex(stripe, col int) int { return stripe*l.Params.N + col }

// StripeCol is the inverse of LeafIndex.
func (l Layout) StripeCol(leafIndex int) (stripe, col int) {
	return leafIndex / l.Params.N, leafIndex % l.Params.N
}
