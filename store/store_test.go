package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/internal/testutil"
	"github.com/animica/da/namespace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// S4 — store idempotence, retrieval, pin/GC lifecycle.
func TestAddBytesIdempotentAndReadable(t *testing.T) {
	s := openTestStore(t)
	ns, _ := namespace.New(10)

	ref1, err := s.AddBytes([]byte("payload"), ns)
	require.NoError(t, err)
	ref2, err := s.AddBytes([]byte("payload"), ns)
	require.NoError(t, err)
	assert.Equal(t, ref1, ref2)

	data, err := s.Read(ref1.Root)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	records, err := s.ListByNamespace(ns)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPinPreventsGC(t *testing.T) {
	s := openTestStore(t)
	ns, _ := namespace.New(1)
	ref, err := s.AddBytes([]byte("pin me"), ns)
	require.NoError(t, err)

	require.NoError(t, s.Pin(ref.Root, "keep"))
	pinned, err := s.IsPinned(ref.Root)
	require.NoError(t, err)
	assert.True(t, pinned)

	result, err := s.GC(GCOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)

	_, err = s.Read(ref.Root)
	assert.NoError(t, err)

	require.NoError(t, s.Unpin(ref.Root, "keep"))
	pinned, err = s.IsPinned(ref.Root)
	require.NoError(t, err)
	assert.False(t, pinned)

	result, err = s.GC(GCOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	_, err = s.Read(ref.Root)
	assert.Error(t, err)
}

func TestGCDryRunDoesNotMutate(t *testing.T) {
	s := openTestStore(t)
	ns, _ := namespace.New(1)
	ref, err := s.AddBytes([]byte("unpinned"), ns)
	require.NoError(t, err)

	result, err := s.GC(GCOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Candidates, 1)
	assert.Equal(t, 0, result.Deleted)

	_, err = s.Read(ref.Root)
	assert.NoError(t, err)
}

func TestAddBytesRoundTripsRandomPayload(t *testing.T) {
	s := openTestStore(t)
	ns, _ := namespace.New(7)

	payload := testutil.RandomBytes(4096)
	ref, err := s.AddBytes(payload, ns)
	require.NoError(t, err)

	data, err := s.Read(ref.Root)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestGetRefNotFound(t *testing.T) {
	s := openTestStore(t)
	var bogus [32]byte
	bogus[0] = 0xFF
	_, err := s.GetRef(bogus)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ns, _ := namespace.New(1)
	_, err := s.AddBytes([]byte("abc"), ns)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalBlobs)
	assert.EqualValues(t, 3, stats.TotalBytes)
}
