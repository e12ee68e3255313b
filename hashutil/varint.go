package hashutil

import (
	"encoding/binary"
	"fmt"

	"github.com/animica/da/daerrors"
)

var errTruncated = daerrors.ErrValidation

// MaxVarintLen bounds how many bytes ReadUvarint will consume before
// declaring the input malformed, preventing unbounded reads on corrupt data.
const MaxVarintLen = binary.MaxVarintLen64

// WriteUvarint appends the unsigned LEB128 encoding of v to dst and returns
// the result.
func WriteUvarint(dst []byte, v uint64) []byte {
	var buf [MaxVarintLen]byte
	n := binary.PutUvarint(buf[:], v)
	return append(dst, buf[:n]...)
}

// ReadUvarint decodes an unsigned LEB128 varint from the head of buf,
// returning the value and the number of bytes consumed. It rejects
// truncated input and overlong encodings explicitly rather than panicking.
func ReadUvarint(buf []byte) (value uint64, n int, err error) {
	if len(buf) == 0 {
		return 0, 0, fmt.Errorf("%w: empty varint", errTruncated)
	}
	limit := len(buf)
	if limit > MaxVarintLen {
		limit = MaxVarintLen
	}
	value, n = binary.Uvarint(buf[:limit])
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: truncated varint", errTruncated)
	}
	if n < 0 {
		return 0, 0, fmt.Errorf("%w: varint overflows 64 bits", errTruncated)
	}
	return value, n, nil
}
