package blob

import (
	"encoding/hex"

	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// Commitment is the NMT root over a blob's ordered leaves.
type Commitment struct {
	Namespace namespace.ID
	Root      [hashutil.Size]byte
	Size      int64
}

// StorageKey is the lowercase hex content address of the commitment's root
// (no 0x prefix), the key the store uses on disk and in its index, and the
// value its two leading byte pairs fan out into directory shards from. The
// 0x prefix callers see on the wire is added at the HTTP/CLI boundary, not
// carried in this value.
func (c Commitment) StorageKey() string {
	return hex.EncodeToString(c.Root[:])
}

// Meta carries the erasure-coding shape alongside a commitment, metadata
// needed to decode or re-derive leaves later.
type Meta struct {
	Mime        string
	DataShards  int
	TotalShards int
	ShareBytes  int
}

// Ref is a compact lookup key for a stored blob.
type Ref struct {
	Root       [hashutil.Size]byte
	StorageKey string
}
