package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBech32mRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	addr, err := EncodeAddress("da", data)
	require.NoError(t, err)

	hrp, got, err := DecodeAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, "da", hrp)
	assert.Equal(t, data, got)
}

func TestBech32mRejectsTamperedChecksum(t *testing.T) {
	addr, err := EncodeAddress("da", []byte{1, 2, 3})
	require.NoError(t, err)

	tampered := []byte(addr)
	last := tampered[len(tampered)-1]
	if last == 'q' {
		tampered[len(tampered)-1] = 'p'
	} else {
		tampered[len(tampered)-1] = 'q'
	}
	_, _, err = DecodeAddress(string(tampered))
	assert.Error(t, err)
}

func TestSignBytesMarshalDeterministic(t *testing.T) {
	var commit, policy [32]byte
	commit[0] = 0xAA
	policy[0] = 0xBB

	sb := New("chain-1", commit, 7, 100, policy, 1, "da1exampleaddr", 1234)
	b1, err := sb.Marshal()
	require.NoError(t, err)
	b2, err := sb.Marshal()
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestSignAndVerify(t *testing.T) {
	var commit, policy [32]byte
	sb := New("chain-1", commit, 1, 10, policy, 1, "da1signer", 1000)

	signFn := func(algID uint32, signBytes []byte) ([]byte, error) {
		return []byte("sig-over-bytes"), nil
	}
	w, err := Sign(sb, signFn)
	require.NoError(t, err)

	verifyFn := func(algID uint32, signer string, signBytes []byte, signature []byte) (bool, error) {
		return string(signature) == "sig-over-bytes" && signer == "da1signer", nil
	}
	require.NoError(t, Verify(w, verifyFn, "chain-1", policy[:]))
}

func TestVerifyRejectsChainIDMismatchBeforeSignature(t *testing.T) {
	var commit, policy [32]byte
	sb := New("chain-1", commit, 1, 10, policy, 1, "da1signer", 1000)
	w, err := Sign(sb, func(uint32, []byte) ([]byte, error) { return []byte("sig"), nil })
	require.NoError(t, err)

	called := false
	verifyFn := func(uint32, string, []byte, []byte) (bool, error) {
		called = true
		return true, nil
	}
	err = Verify(w, verifyFn, "chain-2", policy[:])
	assert.Error(t, err)
	assert.False(t, called, "signature verification must not run after a binding mismatch")
}

func TestWireReceiptMarshalIncludesSignature(t *testing.T) {
	var commit, policy [32]byte
	sb := New("chain-1", commit, 1, 10, policy, 1, "da1signer", 1000)
	w, err := Sign(sb, func(uint32, []byte) ([]byte, error) { return []byte("sig-bytes"), nil })
	require.NoError(t, err)

	full, err := w.Marshal()
	require.NoError(t, err)
	signOnly, err := w.SignBytes.Marshal()
	require.NoError(t, err)
	assert.Greater(t, len(full), len(signOnly))
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	var commit, policy [32]byte
	sb := New("chain-1", commit, 1, 10, policy, 1, "da1signer", 1000)
	w, err := Sign(sb, func(uint32, []byte) ([]byte, error) { return []byte("sig"), nil })
	require.NoError(t, err)

	err = Verify(w, func(uint32, string, []byte, []byte) (bool, error) { return false, nil }, "chain-1", policy[:])
	assert.Error(t, err)
}
