package blob

import (
	"fmt"
	"io"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/erasure"
	"github.com/animica/da/namespace"
	"github.com/animica/da/nmt"
)

// DefaultMaxBlobBytes is the soft size cap enforced when a source exposes a
// size hint or once the actual byte count is known.
const DefaultMaxBlobBytes = 8 << 20

// DefaultParams (k=8, n=16, 512-byte shares) is used when the caller
// supplies no explicit erasure parameters.
var DefaultParams = erasure.Params{K: 8, N: 16, ShareBytes: 512}

// builderPool bounds the number of concurrently in-flight tree builds when
// Commit is called from many goroutines at once.
var builderPool = nmt.MustNewPool(8)

type commitConfig struct {
	mime    string
	params  erasure.Params
	maxSize int64
}

// CommitOption customizes Commit's behavior.
type CommitOption func(*commitConfig)

// WithMime attaches a MIME type to the resulting Meta.
func WithMime(mime string) CommitOption {
	return func(c *commitConfig) { c.mime = mime }
}

// WithParams overrides the erasure parameters used to encode the blob.
func WithParams(p erasure.Params) CommitOption {
	return func(c *commitConfig) { c.params = p }
}

// WithMaxSize overrides the soft size cap; zero disables the cap.
func WithMaxSize(n int64) CommitOption {
	return func(c *commitConfig) { c.maxSize = n }
}

// Commit drives src through the erasure encoder and NMT builder, producing
// a Commitment, its Meta, and the concatenated encoded leaf bytes. ns is
// taken as already validated (see namespace.New). It enforces the soft
// size cap when a hint or the actual size is available, encodes the blob
// into ordered namespaced leaves, and folds them into an NMT root.
func Commit(src Source, ns namespace.ID, opts ...CommitOption) (Commitment, Meta, []byte, error) {
	cfg := commitConfig{params: DefaultParams, maxSize: DefaultMaxBlobBytes}
	for _, opt := range opts {
		opt(&cfg)
	}

	if hint, ok := src.SizeHint(); ok && cfg.maxSize > 0 && hint > cfg.maxSize {
		return Commitment{}, Meta{}, nil, fmt.Errorf("%w: blob size hint %d exceeds cap %d", daerrors.ErrResource, hint, cfg.maxSize)
	}

	r, err := src.Open()
	if err != nil {
		return Commitment{}, Meta{}, nil, fmt.Errorf("%w: opening source: %v", daerrors.ErrIO, err)
	}
	defer r.Close()

	var limited io.Reader = r
	if cfg.maxSize > 0 {
		limited = io.LimitReader(r, cfg.maxSize+1)
	}
	data, err := io.ReadAll(limited)
	if err != nil {
		return Commitment{}, Meta{}, nil, fmt.Errorf("%w: reading source: %v", daerrors.ErrIO, err)
	}
	if cfg.maxSize > 0 && int64(len(data)) > cfg.maxSize {
		return Commitment{}, Meta{}, nil, fmt.Errorf("%w: blob size %d exceeds cap %d", daerrors.ErrResource, len(data), cfg.maxSize)
	}

	shards, err := erasure.Encode(data, cfg.params)
	if err != nil {
		return Commitment{}, Meta{}, nil, err
	}

	builder := builderPool.Acquire()
	defer builderPool.Release(builder)
	leaves := make([]byte, 0, len(shards)*cfg.params.ShareBytes)
	for _, sh := range shards {
		if err := builder.Append(ns, sh.LeafPayload); err != nil {
			return Commitment{}, Meta{}, nil, err
		}
		leaves = append(leaves, nmt.EncodeLeaf(ns, sh.LeafPayload)...)
	}

	root, err := builder.Finalize()
	if err != nil {
		return Commitment{}, Meta{}, nil, err
	}

	commitment := Commitment{Namespace: ns, Root: root, Size: int64(len(data))}
	meta := Meta{
		Mime:        cfg.mime,
		DataShards:  cfg.params.K,
		TotalShards: cfg.params.N,
		ShareBytes:  cfg.params.ShareBytes,
	}
	return commitment, meta, leaves, nil
}

// CommitBytes is the in-memory-bytes convenience variant.
func CommitBytes(data []byte, ns namespace.ID, opts ...CommitOption) (Commitment, Meta, []byte, error) {
	return Commit(FromBytes(data), ns, opts...)
}

// CommitFile is the file-path convenience variant.
func CommitFile(path string, ns namespace.ID, opts ...CommitOption) (Commitment, Meta, []byte, error) {
	return Commit(FromFile(path), ns, opts...)
}
