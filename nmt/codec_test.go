package nmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/namespace"
)

func TestEncodeDecodeLeafRoundTrip(t *testing.T) {
	ns, _ := namespace.New(7)
	encoded := EncodeLeaf(ns, []byte("hello"))

	// S1: ns_be=0x00000007, uvarint(5)=0x05, data="hello"
	assert.Equal(t, []byte{0, 0, 0, 7, 5, 'h', 'e', 'l', 'l', 'o'}, encoded)

	gotNS, payload, n, err := DecodeOne(encoded)
	require.NoError(t, err)
	assert.Equal(t, ns, gotNS)
	assert.Equal(t, []byte("hello"), payload)
	assert.Equal(t, len(encoded), n)
}

func TestDecodeOneRejectsTruncation(t *testing.T) {
	ns, _ := namespace.New(1)
	encoded := EncodeLeaf(ns, []byte("data"))

	_, _, _, err := DecodeOne(encoded[:namespace.Width])
	assert.Error(t, err)

	_, _, _, err = DecodeOne(encoded[:len(encoded)-1])
	assert.Error(t, err)
}

func TestDecodeOneRejectsOverlongLength(t *testing.T) {
	ns, _ := namespace.New(1)
	encoded := EncodeLeaf(ns, []byte("x"))
	// Corrupt the length byte to declare far more data than present.
	encoded[namespace.Width] = 0x7F
	_, _, _, err := DecodeOne(encoded)
	assert.Error(t, err)
}

func TestIterLeaves(t *testing.T) {
	ns1, _ := namespace.New(1)
	ns2, _ := namespace.New(2)
	buf := append(EncodeLeaf(ns1, []byte("a")), EncodeLeaf(ns2, []byte("bb"))...)

	nss, payloads, err := IterLeaves(buf)
	require.NoError(t, err)
	require.Len(t, nss, 2)
	assert.Equal(t, ns1, nss[0])
	assert.Equal(t, ns2, nss[1])
	assert.Equal(t, []byte("a"), payloads[0])
	assert.Equal(t, []byte("bb"), payloads[1])
}
