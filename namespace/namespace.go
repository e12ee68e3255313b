// Package namespace implements the numeric namespace identifiers and ranges
// that partition blobs in the DA subsystem.
package namespace

import (
	"encoding/binary"
	"fmt"

	"github.com/animica/da/daerrors"
)

// Bits is the configured width of a namespace id. The default matches
// spec.md's default of 32 bits; callers needing a narrower id space can
// validate against a smaller Bits value explicitly via NewWithBits.
const Bits = 32

// Width is the big-endian byte width of an encoded namespace id.
const Width = Bits / 8

// ReservedMax is the highest id in the reserved band; ids at or below it are
// reserved for protocol use, ids above it belong to user-space applications.
const ReservedMax ID = 255

// ID is a non-negative namespace identifier, 0 <= id < 2^Bits.
type ID uint32

// New validates id against the default Bits width.
func New(id uint32) (ID, error) {
	return NewWithBits(id, Bits)
}

// NewWithBits validates id against an explicit bit width.
func NewWithBits(id uint32, bits int) (ID, error) {
	if bits <= 0 || bits > 32 {
		return 0, fmt.Errorf("%w: namespace bit width %d out of range", daerrors.ErrValidation, bits)
	}
	if bits < 32 {
		limit := uint32(1) << uint(bits)
		if id >= limit {
			return 0, fmt.Errorf("%w: namespace %d exceeds %d-bit bound", daerrors.ErrValidation, id, bits)
		}
	}
	return ID(id), nil
}

// IsReserved reports whether id falls in the protocol-reserved band.
func (id ID) IsReserved() bool { return id <= ReservedMax }

// IsUser reports whether id falls in the user-application band.
func (id ID) IsUser() bool { return id > ReservedMax }

// Bytes returns the fixed-width big-endian encoding of id.
func (id ID) Bytes() []byte {
	buf := make([]byte, Width)
	binary.BigEndian.PutUint32(buf, uint32(id))
	return buf
}

// FromBytes decodes a fixed-width big-endian namespace id.
func FromBytes(b []byte) (ID, error) {
	if len(b) != Width {
		return 0, fmt.Errorf("%w: namespace encoding must be %d bytes, got %d", daerrors.ErrValidation, Width, len(b))
	}
	return ID(binary.BigEndian.Uint32(b)), nil
}

func (id ID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// Range is a closed interval [Min, Max] of namespace ids, Min <= Max.
type Range struct {
	Min ID
	Max ID
}

// NewRange validates min <= max and constructs a Range.
func NewRange(min, max ID) (Range, error) {
	if min > max {
		return Range{}, fmt.Errorf("%w: namespace range min %d > max %d", daerrors.ErrValidation, min, max)
	}
	return Range{Min: min, Max: max}, nil
}

// Singleton returns the degenerate range [id, id].
func Singleton(id ID) Range {
	return Range{Min: id, Max: id}
}

// Width returns max - min + 1.
func (r Range) Width() uint64 {
	return uint64(r.Max) - uint64(r.Min) + 1
}

// Union returns the smallest range covering both a and b.
func Union(a, b Range) Range {
	min := a.Min
	if b.Min < min {
		min = b.Min
	}
	max := a.Max
	if b.Max > max {
		max = b.Max
	}
	return Range{Min: min, Max: max}
}

// Contains reports whether id falls within r.
func (r Range) Contains(id ID) bool {
	return id >= r.Min && id <= r.Max
}

// Before reports whether r lies entirely below other, i.e. r.Max <= other.Min,
// the ordering constraint range-proof combine steps enforce at every level.
func (r Range) Before(other Range) bool {
	return r.Max <= other.Min
}
