package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 5, 127, 128, 300, 1 << 32, 1<<64 - 1}
	for _, v := range cases {
		buf := WriteUvarint(nil, v)
		got, n, err := ReadUvarint(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestReadUvarintTruncated(t *testing.T) {
	_, _, err := ReadUvarint(nil)
	assert.Error(t, err)

	// A varint whose continuation bit is always set never terminates.
	buf := make([]byte, MaxVarintLen)
	for i := range buf {
		buf[i] = 0x80
	}
	_, _, err = ReadUvarint(buf)
	assert.Error(t, err)
}

func TestSum256Deterministic(t *testing.T) {
	a := Sum256([]byte("hello"), []byte("world"))
	b := Sum256([]byte("hello"), []byte("world"))
	assert.Equal(t, a, b)

	c := Sum256([]byte("hello"), []byte("worlD"))
	assert.NotEqual(t, a, c)
}

func TestLeafAndInnerHashDiffer(t *testing.T) {
	leaf := LeafHash([]byte{0, 0, 0, 7}, []byte("hello"))
	inner := InnerHash(leaf[:], leaf[:], []byte{0, 0, 0, 7}, []byte{0, 0, 0, 7})
	assert.NotEqual(t, leaf, inner)
}

func TestConstantTimeEqual(t *testing.T) {
	a := Sum256([]byte("x"))
	b := a
	assert.True(t, ConstantTimeEqual(a, b))
	b[0] ^= 0xFF
	assert.False(t, ConstantTimeEqual(a, b))
}
