package blob

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/erasure"
	"github.com/animica/da/namespace"
	"github.com/animica/da/nmt"
)

func TestCommitBytesProducesValidRoot(t *testing.T) {
	ns, _ := namespace.New(5)
	params, err := erasure.NewParams(2, 4, 4)
	require.NoError(t, err)

	commitment, meta, leaves, err := CommitBytes([]byte("HELLOWORLD"), ns, WithParams(params))
	require.NoError(t, err)

	assert.Equal(t, ns, commitment.Namespace)
	assert.EqualValues(t, 10, commitment.Size)
	assert.Equal(t, 2, meta.DataShards)
	assert.Equal(t, 4, meta.TotalShards)

	nss, payloads, err := nmt.IterLeaves(leaves)
	require.NoError(t, err)
	require.Equal(t, len(nss), len(payloads))

	b := nmt.NewBuilder()
	for i := range nss {
		require.NoError(t, b.Append(nss[i], payloads[i]))
	}
	root, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, commitment.Root, root)
}

func TestCommitDeterministic(t *testing.T) {
	ns, _ := namespace.New(1)
	c1, _, _, err := CommitBytes([]byte("same payload"), ns)
	require.NoError(t, err)
	c2, _, _, err := CommitBytes([]byte("same payload"), ns)
	require.NoError(t, err)
	assert.Equal(t, c1.Root, c2.Root)
}

func TestCommitRejectsOversizedSource(t *testing.T) {
	ns, _ := namespace.New(1)
	_, _, _, err := CommitBytes(bytes.Repeat([]byte{1}, 100), ns, WithMaxSize(10))
	assert.Error(t, err)
}

func TestFromReaderHasNoSizeHint(t *testing.T) {
	ns, _ := namespace.New(1)
	r := bytes.NewReader([]byte("streamed"))
	_, hasHint := FromReader(r).SizeHint()
	assert.False(t, hasHint)
	_, _, _, err := Commit(FromReader(r), ns)
	assert.NoError(t, err)
}

func TestFromChunksConcatenates(t *testing.T) {
	ns, _ := namespace.New(1)
	chunked, _, _, err := Commit(FromChunks([][]byte{[]byte("HELLO"), []byte("WORLD")}), ns)
	require.NoError(t, err)
	direct, _, _, err := CommitBytes([]byte("HELLOWORLD"), ns)
	require.NoError(t, err)
	assert.Equal(t, direct.Root, chunked.Root)
}
