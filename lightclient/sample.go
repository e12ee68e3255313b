// Package lightclient implements data-availability sampling: drawing a
// sample of leaf indices against a committed root, fetching each leaf and
// its inclusion proof from a serving peer, and verifying them concurrently.
package lightclient

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/daroot"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
	"github.com/animica/da/nmt"
	"github.com/animica/da/sampling"
)

// SampleLeaf is what a serving peer returns for one requested index.
type SampleLeaf struct {
	Namespace namespace.ID
	Payload   []byte
	Proof     nmt.InclusionProof
}

// FetchFunc fetches the leaf and inclusion proof at index from a serving
// peer. Implementations own their own transport and timeouts; Sample only
// requires it to respect ctx cancellation.
type FetchFunc func(ctx context.Context, index int) (SampleLeaf, error)

// Report summarizes one sampling run.
type Report struct {
	Root          [hashutil.Size]byte
	Indices       []int
	Verified      int
	FailedIndices []int
	Accepted      bool
}

// MaxConcurrentFetches bounds in-flight sample fetches, mirroring the
// store's bounded-worker GC pattern.
const MaxConcurrentFetches = 16

// DrawIndices picks samples indices (at most totalLeaves) uniformly without
// replacement from [0, totalLeaves), returned sorted. A non-nil seed produces a reproducible draw; nil draws
// from the package's default, non-reproducible source.
func DrawIndices(totalLeaves int, samples int, seed *int64) ([]int, error) {
	if totalLeaves <= 0 {
		return nil, fmt.Errorf("%w: totalLeaves must be positive", daerrors.ErrValidation)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: samples must be positive", daerrors.ErrValidation)
	}
	if samples > totalLeaves {
		samples = totalLeaves
	}

	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(defaultSeed()))
	}

	pool := make([]int, totalLeaves)
	for i := range pool {
		pool[i] = i
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	out := append([]int(nil), pool[:samples]...)
	sort.Ints(out)
	return out, nil
}

// Sample draws plan.Samples indices (or uses indices if non-nil, to allow
// stratified or caller-supplied draws), fetches each leaf and proof
// concurrently bounded by MaxConcurrentFetches, and verifies every proof
// against root. Any verification failure rejects the whole blob: Accepted
// is true iff every drawn index verified.
func Sample(ctx context.Context, root [hashutil.Size]byte, totalLeaves int, plan sampling.Plan, fetch FetchFunc, indices []int, seed *int64) (Report, error) {
	if indices == nil {
		drawn, err := DrawIndices(totalLeaves, plan.Samples, seed)
		if err != nil {
			return Report{}, err
		}
		indices = drawn
	}

	results := make([]bool, len(indices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)

	for i, idx := range indices {
		i, idx := i, idx
		g.Go(func() error {
			leaf, err := fetch(gctx, idx)
			if err != nil {
				return fmt.Errorf("%w: fetching sample %d: %v", daerrors.ErrIO, idx, err)
			}
			digest := hashutil.PayloadDigest(leaf.Payload)
			results[i] = nmt.VerifyInclusion(root, leaf.Namespace, digest, leaf.Proof)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Root: root, Indices: indices}
	for i, ok := range results {
		if ok {
			report.Verified++
		} else {
			report.FailedIndices = append(report.FailedIndices, indices[i])
		}
	}
	report.Accepted = len(report.FailedIndices) == 0 && report.Verified == len(indices)
	return report, nil
}

// RequireLeavesMode returns a validation error when mode is not
// daroot.ModeLeaves. Sampling requires share-level leaves; a commitments-
// mode block provides inclusion binding only, so sampling collapses to a
// per-commitment inclusion check instead of true DAS (Open Question #3).
func RequireLeavesMode(mode daroot.Mode) error {
	if mode != daroot.ModeLeaves {
		return fmt.Errorf("%w: sampling requires leaves-mode blocks, got %q", daerrors.ErrValidation, mode)
	}
	return nil
}
