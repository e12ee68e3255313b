package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBounds(t *testing.T) {
	id, err := New(42)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestNewWithBitsRejectsOutOfRange(t *testing.T) {
	_, err := NewWithBits(256, 8)
	assert.Error(t, err)

	id, err := NewWithBits(255, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 255, id)
}

func TestReservedVsUser(t *testing.T) {
	reserved, _ := New(10)
	user, _ := New(1000)
	assert.True(t, reserved.IsReserved())
	assert.False(t, reserved.IsUser())
	assert.True(t, user.IsUser())
	assert.False(t, user.IsReserved())
}

func TestBytesRoundTrip(t *testing.T) {
	id, _ := New(123456)
	b := id.Bytes()
	assert.Len(t, b, Width)

	got, err := FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestFromBytesRejectsWrongWidth(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestRangeInvariants(t *testing.T) {
	_, err := NewRange(ID(5), ID(3))
	assert.Error(t, err)

	r, err := NewRange(ID(1), ID(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, r.Width())
	assert.True(t, r.Contains(ID(1)))
	assert.False(t, r.Contains(ID(2)))
}

func TestUnion(t *testing.T) {
	a := Range{Min: 2, Max: 5}
	b := Range{Min: 1, Max: 3}
	u := Union(a, b)
	assert.Equal(t, Range{Min: 1, Max: 5}, u)
}

func TestBeforeOrdering(t *testing.T) {
	a := Range{Min: 1, Max: 2}
	b := Range{Min: 2, Max: 3}
	c := Range{Min: 3, Max: 4}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.Before(c))
}
