package daroot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
	"github.com/animica/da/nmt"
)

func mkCommit(b byte) [hashutil.Size]byte {
	var c [hashutil.Size]byte
	for i := range c {
		c[i] = b
	}
	return c
}

func TestComputeEmptyBlockConvention(t *testing.T) {
	root, err := Compute(nil, ModeLeaves)
	require.NoError(t, err)
	assert.Equal(t, hashutil.EmptyDomain(), root)
}

// S5 — commitments mode, deterministic and order-sensitive.
func TestComputeCommitmentsModeOrderSensitive(t *testing.T) {
	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	a := Inclusion{Namespace: ns1, Commitment: mkCommit(0x11), Size: 100}
	b := Inclusion{Namespace: ns2, Commitment: mkCommit(0x22), Size: 50}

	rootAB, err := Compute([]Inclusion{a, b}, ModeCommitments)
	require.NoError(t, err)
	rootBA, err := Compute([]Inclusion{b, a}, ModeCommitments)
	require.NoError(t, err)
	assert.NotEqual(t, rootAB, rootBA)

	require.NoError(t, Validate(rootAB, []Inclusion{a, b}, ModeCommitments))
	assert.Error(t, Validate(rootAB, []Inclusion{b, a}, ModeCommitments))
}

func TestAutoModePicksLeavesWhenAllPresent(t *testing.T) {
	ns1, _ := namespace.New(1)
	leaf := nmt.EncodeLeaf(ns1, []byte("x"))
	incl := Inclusion{Namespace: ns1, Commitment: mkCommit(0x01), Leaves: [][]byte{leaf}}

	rootAuto, err := Compute([]Inclusion{incl}, ModeAuto)
	require.NoError(t, err)
	rootLeaves, err := Compute([]Inclusion{incl}, ModeLeaves)
	require.NoError(t, err)
	assert.Equal(t, rootLeaves, rootAuto)
}

func TestAutoModeFallsBackToCommitments(t *testing.T) {
	ns1, _ := namespace.New(1)
	incl := Inclusion{Namespace: ns1, Commitment: mkCommit(0x01)}

	rootAuto, err := Compute([]Inclusion{incl}, ModeAuto)
	require.NoError(t, err)
	rootCommit, err := Compute([]Inclusion{incl}, ModeCommitments)
	require.NoError(t, err)
	assert.Equal(t, rootCommit, rootAuto)
}

func TestComputeLeavesModeRequiresLeaves(t *testing.T) {
	ns1, _ := namespace.New(1)
	incl := Inclusion{Namespace: ns1, Commitment: mkCommit(0x01)}
	_, err := Compute([]Inclusion{incl}, ModeLeaves)
	assert.Error(t, err)
}

func TestValidateRejectsTamperedRoot(t *testing.T) {
	ns1, _ := namespace.New(1)
	incl := Inclusion{Namespace: ns1, Commitment: mkCommit(0x01)}
	root, err := Compute([]Inclusion{incl}, ModeCommitments)
	require.NoError(t, err)

	root[0] ^= 0xFF
	assert.Error(t, Validate(root, []Inclusion{incl}, ModeCommitments))
}
