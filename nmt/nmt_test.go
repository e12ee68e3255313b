package nmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/namespace"
)

func buildTiny(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	require.NoError(t, b.Append(ns1, []byte("a")))
	require.NoError(t, b.Append(ns1, []byte("b")))
	require.NoError(t, b.Append(ns2, []byte("c")))
	return b
}

func TestFinalizeRejectsEmptyTree(t *testing.T) {
	b := NewBuilder()
	_, err := b.Finalize()
	assert.Error(t, err)
}

func TestAppendAfterFinalizeFails(t *testing.T) {
	b := buildTiny(t)
	_, err := b.Finalize()
	require.NoError(t, err)

	ns3, _ := namespace.New(3)
	err = b.Append(ns3, []byte("d"))
	assert.Error(t, err)
}

// S2 — tiny tree: root is deterministic and stable across runs.
func TestTinyTreeRootDeterministic(t *testing.T) {
	root1, err := buildTiny(t).Finalize()
	require.NoError(t, err)
	root2, err := buildTiny(t).Finalize()
	require.NoError(t, err)
	assert.Equal(t, root1, root2)
}

func TestInclusionProofVerifies(t *testing.T) {
	b := buildTiny(t)
	root, err := b.Finalize()
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	proof, err := b.InclusionProof(1)
	require.NoError(t, err)
	require.Len(t, proof.Steps, 2)

	ok := VerifyInclusionFromEncoded(root, EncodeLeaf(ns1, []byte("b")), proof)
	assert.True(t, ok)
}

func TestInclusionProofRejectsBitFlip(t *testing.T) {
	b := buildTiny(t)
	root, err := b.Finalize()
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	proof, err := b.InclusionProof(1)
	require.NoError(t, err)

	proof.Steps[0].SiblingHash[0] ^= 0xFF
	ok := VerifyInclusionFromEncoded(root, EncodeLeaf(ns1, []byte("b")), proof)
	assert.False(t, ok)
}

func TestInclusionProofRejectsRootFlip(t *testing.T) {
	b := buildTiny(t)
	root, err := b.Finalize()
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	proof, err := b.InclusionProof(0)
	require.NoError(t, err)

	root[0] ^= 0xFF
	ok := VerifyInclusionFromEncoded(root, EncodeLeaf(ns1, []byte("a")), proof)
	assert.False(t, ok)
}

func TestRangeProofFullSpan(t *testing.T) {
	b := buildTiny(t)
	root, err := b.Finalize()
	require.NoError(t, err)

	proof, err := b.RangeProof(0, 3)
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	leaves := [][]byte{EncodeLeaf(ns1, []byte("a")), EncodeLeaf(ns1, []byte("b")), EncodeLeaf(ns2, []byte("c"))}

	assert.True(t, VerifyRangeFromEncoded(root, proof, leaves))
}

func TestRangeProofPartialSpan(t *testing.T) {
	b := buildTiny(t)
	root, err := b.Finalize()
	require.NoError(t, err)

	proof, err := b.RangeProof(1, 2)
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	leaves := [][]byte{EncodeLeaf(ns1, []byte("b")), EncodeLeaf(ns2, []byte("c"))}

	assert.True(t, VerifyRangeFromEncoded(root, proof, leaves))
}

func TestRangeProofOutOfBounds(t *testing.T) {
	b := buildTiny(t)
	_, err := b.Finalize()
	require.NoError(t, err)

	_, err = b.RangeProof(2, 5)
	assert.Error(t, err)
}

func TestRootDiffersByOrder(t *testing.T) {
	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)

	b1 := NewBuilder()
	require.NoError(t, b1.Append(ns1, []byte("x")))
	require.NoError(t, b1.Append(ns2, []byte("y")))
	root1, err := b1.Finalize()
	require.NoError(t, err)

	b2 := NewBuilder()
	require.NoError(t, b2.Append(ns2, []byte("y")))
	require.NoError(t, b2.Append(ns1, []byte("x")))
	root2, err := b2.Finalize()
	require.NoError(t, err)

	assert.NotEqual(t, root1, root2)
}

func TestPoolComputeRootMatchesBuilder(t *testing.T) {
	pool, err := NewPool(2)
	require.NoError(t, err)

	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	nss := []namespace.ID{ns1, ns1, ns2}
	payloads := [][]byte{[]byte("a"), []byte("b"), []byte("c")}

	gotRoot, err := pool.ComputeRoot(nss, payloads)
	require.NoError(t, err)

	want, err := buildTiny(t).Finalize()
	require.NoError(t, err)

	assert.Equal(t, want, gotRoot)
}
