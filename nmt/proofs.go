package nmt

import (
	"fmt"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// Side records which side of a combine step the "current" hash sat on.
type Side int

const (
	Left Side = iota
	Right
)

// ProofStep is one level of an inclusion proof's sibling chain.
type ProofStep struct {
	Side         Side
	SiblingHash  [hashutil.Size]byte
	SiblingRange namespace.Range
}

// InclusionProof is the sibling chain for a single leaf index.
type InclusionProof struct {
	LeafIndex int
	Steps     []ProofStep
}

// InclusionProof builds the sibling chain for leaf index.
func (b *Builder) InclusionProof(index int) (InclusionProof, error) {
	if !b.finalized {
		return InclusionProof{}, fmt.Errorf("%w: tree not finalized", daerrors.ErrConflict)
	}
	if index < 0 || index >= len(b.layers[0]) {
		return InclusionProof{}, fmt.Errorf("%w: leaf index %d out of range", daerrors.ErrValidation, index)
	}

	idx := index
	var steps []ProofStep
	for level := 0; level < len(b.layers)-1; level++ {
		layer := b.layers[level]
		sib := siblingIndex(idx, len(layer))
		side := Right
		if idx%2 == 1 {
			side = Left
		}
		steps = append(steps, ProofStep{Side: side, SiblingHash: layer[sib].Hash, SiblingRange: layer[sib].NSRange})
		idx /= 2
	}
	return InclusionProof{LeafIndex: index, Steps: steps}, nil
}

// RangeStepKind distinguishes the three ways a level can reduce the active
// index set: merging two active siblings, combining an active node with an
// emitted sibling on one side, or duplicating an unpaired active node.
type RangeStepKind int

const (
	StepMerge RangeStepKind = iota
	StepSiblingLeft
	StepSiblingRight
	StepDup
)

// RangeStep is one combine operation within a level of a range proof.
type RangeStep struct {
	Kind         RangeStepKind
	SiblingHash  [hashutil.Size]byte
	SiblingRange namespace.Range
}

// RangeProof is the minimal-cut multi-proof for a contiguous leaf span.
type RangeProof struct {
	Start  int
	Count  int
	Levels [][]RangeStep
}

// RangeProof builds the minimal-cut proof for leaves [start, start+count).
func (b *Builder) RangeProof(start, count int) (RangeProof, error) {
	if !b.finalized {
		return RangeProof{}, fmt.Errorf("%w: tree not finalized", daerrors.ErrConflict)
	}
	n := len(b.layers[0])
	if count <= 0 || start < 0 || start+count > n {
		return RangeProof{}, fmt.Errorf("%w: range [%d,%d) out of bounds for %d leaves", daerrors.ErrValidation, start, start+count, n)
	}

	active := make([]int, count)
	for i := range active {
		active[i] = start + i
	}

	var levels [][]RangeStep
	for level := 0; level < len(b.layers)-1; level++ {
		layer := b.layers[level]
		activeSet := make(map[int]bool, len(active))
		for _, idx := range active {
			activeSet[idx] = true
		}
		processed := make(map[int]bool, len(active))
		var steps []RangeStep
		var next []int
		for _, idx := range active {
			if processed[idx] {
				continue
			}
			processed[idx] = true
			sib := siblingIndex(idx, len(layer))
			switch {
			case sib == idx:
				steps = append(steps, RangeStep{Kind: StepDup})
			case activeSet[sib]:
				processed[sib] = true
				steps = append(steps, RangeStep{Kind: StepMerge})
			default:
				kind := StepSiblingRight
				if idx%2 == 1 {
					kind = StepSiblingLeft
				}
				steps = append(steps, RangeStep{Kind: kind, SiblingHash: layer[sib].Hash, SiblingRange: layer[sib].NSRange})
			}
			next = append(next, idx/2)
		}
		levels = append(levels, steps)
		active = next
	}
	return RangeProof{Start: start, Count: count, Levels: levels}, nil
}
