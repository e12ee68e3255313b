// Package erasure implements Reed-Solomon erasure coding over GF(2^8) for
// stripe/share partitioning, encode, and decode-from-any-k recovery.
//
// This package is deliberately not backed by a third-party Reed-Solomon
// library: the canonical field construction (primitive polynomial 0x11D,
// generator alpha=2) must be frozen byte-for-byte across implementations,
// which only a from-scratch construction under our own control guarantees.
package erasure

import (
	"fmt"

	"github.com/animica/da/daerrors"
)

// Params fixes the shape of the erasure code: k data shards and n-k parity
// shards per stripe, each shard share_bytes long.
type Params struct {
	K          int
	N          int
	ShareBytes int
}

// NewParams validates 1 <= k < n and share_bytes > 0.
func NewParams(k, n, shareBytes int) (Params, error) {
	if k < 1 {
		return Params{}, fmt.Errorf("%w: k must be >= 1, got %d", daerrors.ErrValidation, k)
	}
	if n <= k {
		return Params{}, fmt.Errorf("%w: n (%d) must be greater than k (%d)", daerrors.ErrValidation, n, k)
	}
	if shareBytes <= 0 {
		return Params{}, fmt.Errorf("%w: share_bytes must be > 0, got %d", daerrors.ErrValidation, shareBytes)
	}
	if n > 256 {
		return Params{}, fmt.Errorf("%w: n (%d) exceeds GF(2^8) field size", daerrors.ErrValidation, n)
	}
	return Params{K: k, N: n, ShareBytes: shareBytes}, nil
}

// Parity returns n - k.
func (p Params) Parity() int { return p.N - p.K }

// StripePayload returns k * share_bytes, the amount of blob payload one
// stripe of data shards covers.
func (p Params) StripePayload() int { return p.K * p.ShareBytes }
