package nmt

import (
	"fmt"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// Builder accumulates leaves in append order and produces the root on
// Finalize. It does not reorder leaves; callers wanting range proofs must
// append in non-decreasing namespace order themselves.
type Builder struct {
	leaves    []Node
	finalized bool
	layers    [][]Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append hashes (ns, payload) and appends the resulting leaf node.
func (b *Builder) Append(ns namespace.ID, payload []byte) error {
	return b.AppendDigest(ns, hashutil.PayloadDigest(payload))
}

// AppendEncoded decodes a canonically encoded leaf and appends it.
func (b *Builder) AppendEncoded(encoded []byte) error {
	ns, payload, n, err := DecodeOne(encoded)
	if err != nil {
		return err
	}
	if n != len(encoded) {
		return fmt.Errorf("%w: trailing bytes after encoded leaf", daerrors.ErrValidation)
	}
	return b.Append(ns, payload)
}

// AppendDigest appends a leaf given its namespace and precomputed payload
// digest, i.e. the (ns, payload_hash) form spec.md §4.2 calls for.
func (b *Builder) AppendDigest(ns namespace.ID, digest [hashutil.Size]byte) error {
	if b.finalized {
		return fmt.Errorf("%w: append to finalized tree", daerrors.ErrConflict)
	}
	h := hashutil.LeafHashFromDigest(ns.Bytes(), digest)
	b.leaves = append(b.leaves, Node{Hash: h, NSRange: namespace.Singleton(ns)})
	return nil
}

// Len returns the number of leaves appended so far.
func (b *Builder) Len() int {
	return len(b.leaves)
}

// Finalize builds the tree bottom-up and returns the root. Further appends
// fail after this call. An empty builder is rejected: the DA root's
// empty-block convention is a block-level concern, not an NMT one.
func (b *Builder) Finalize() ([hashutil.Size]byte, error) {
	if b.finalized {
		return b.layers[len(b.layers)-1][0].Hash, nil
	}
	if len(b.leaves) == 0 {
		return [hashutil.Size]byte{}, fmt.Errorf("%w: cannot finalize an empty tree", daerrors.ErrValidation)
	}
	b.layers = buildLayers(b.leaves)
	b.finalized = true
	return b.Root()
}

// Root returns the finalized root. Call only after Finalize.
func (b *Builder) Root() ([hashutil.Size]byte, error) {
	if !b.finalized {
		return [hashutil.Size]byte{}, fmt.Errorf("%w: tree not finalized", daerrors.ErrConflict)
	}
	return b.layers[len(b.layers)-1][0].Hash, nil
}

func buildLayers(leaves []Node) [][]Node {
	layers := make([][]Node, 1, 8)
	layers[0] = leaves
	cur := leaves
	for len(cur) > 1 {
		next := make([]Node, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			left := cur[i]
			right := left
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			combined := namespace.Union(left.NSRange, right.NSRange)
			h := hashutil.InnerHash(left.Hash[:], right.Hash[:], combined.Min.Bytes(), combined.Max.Bytes())
			next = append(next, Node{Hash: h, NSRange: combined})
		}
		layers = append(layers, next)
		cur = next
	}
	return layers
}

func siblingIndex(idx, layerLen int) int {
	if idx%2 == 0 {
		if idx+1 < layerLen {
			return idx + 1
		}
		return idx
	}
	return idx - 1
}
