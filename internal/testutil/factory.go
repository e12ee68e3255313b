// Package testutil provides small generation helpers shared by the
// package-level test files across this module.
package testutil

import (
	crand "crypto/rand"
)

// RandomBytes returns size cryptographically random bytes, panicking on any
// read error since test fixture generation has no sane recovery path.
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	_, err := crand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

// Repeat returns a slice of count copies of s.
func Repeat[T any](s T, count int) []T {
	ss := make([]T, count)
	for i := 0; i < count; i++ {
		ss[i] = s
	}
	return ss
}
