// Package hashutil provides the pooled SHA3-256 primitives and the
// domain-tag conventions shared by the namespace, nmt, and daroot packages.
package hashutil

import (
	shash "hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// Size is the digest length in bytes of every hash produced by this package.
const Size = 32

// Domain tags, embedded as the first byte of the hash input.
const (
	LeafPrefix  byte = 0x00
	InnerPrefix byte = 0x01
)

var hasherPool = &sync.Pool{
	New: func() any { return sha3.New256() },
}

// Sum256 hashes the concatenation of slices with SHA3-256, reusing a pooled
// hasher the way the teacher's merkle.sha256Pool does for SHA-256.
func Sum256(slices ...[]byte) [Size]byte {
	h := hasherPool.Get().(shash.Hash)
	defer func() {
		h.Reset()
		hasherPool.Put(h)
	}()

	for _, s := range slices {
		h.Write(s)
	}
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// EmptyDomain returns the hash of the empty byte string, used as the
// block-level DA root convention for an inclusion-free block.
func EmptyDomain() [Size]byte {
	return Sum256(nil)
}

// PayloadDigest returns SHA3-256(uvarint(len(data)) || data), the inner
// digest a leaf hash is built over.
func PayloadDigest(data []byte) [Size]byte {
	return Sum256(WriteUvarint(nil, uint64(len(data))), data)
}

// LeafHash returns SHA3-256(0x00 || nsBE || SHA3-256(uvarint(len) || data)).
func LeafHash(nsBE []byte, data []byte) [Size]byte {
	digest := PayloadDigest(data)
	return LeafHashFromDigest(nsBE, digest)
}

// LeafHashFromDigest returns SHA3-256(0x00 || nsBE || digest) given an
// already-computed payload digest, as used when the builder is fed
// (namespace, payload_hash) pairs directly.
func LeafHashFromDigest(nsBE []byte, digest [Size]byte) [Size]byte {
	return Sum256([]byte{LeafPrefix}, nsBE, digest[:])
}

// InnerHash returns SHA3-256(0x01 || left || right || nsMinBE || nsMaxBE).
func InnerHash(left, right, nsMinBE, nsMaxBE []byte) [Size]byte {
	return Sum256([]byte{InnerPrefix}, left, right, nsMinBE, nsMaxBE)
}

// ConstantTimeEqual compares two digests without early-exit timing leaks.
func ConstantTimeEqual(a, b [Size]byte) bool {
	var v byte
	for i := 0; i < Size; i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
