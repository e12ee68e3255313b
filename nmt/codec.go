package nmt

import (
	"fmt"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// EncodeLeaf produces the canonical leaf bytes ns_be || uvarint(len) || data.
func EncodeLeaf(ns namespace.ID, data []byte) []byte {
	out := make([]byte, 0, namespace.Width+hashutil.MaxVarintLen+len(data))
	out = append(out, ns.Bytes()...)
	out = hashutil.WriteUvarint(out, uint64(len(data)))
	out = append(out, data...)
	return out
}

// DecodeOne decodes a single encoded leaf from the head of buf, returning
// the namespace, payload, and offset of the next leaf. It rejects
// truncated input, overlong declared lengths, and malformed varints.
func DecodeOne(buf []byte) (ns namespace.ID, payload []byte, next int, err error) {
	if len(buf) < namespace.Width {
		return 0, nil, 0, fmt.Errorf("%w: leaf shorter than namespace width", daerrors.ErrValidation)
	}
	ns, err = namespace.FromBytes(buf[:namespace.Width])
	if err != nil {
		return 0, nil, 0, err
	}
	rest := buf[namespace.Width:]
	length, n, err := hashutil.ReadUvarint(rest)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("%w: leaf length varint: %v", daerrors.ErrValidation, err)
	}
	rest = rest[n:]
	if length > uint64(len(rest)) {
		return 0, nil, 0, fmt.Errorf("%w: leaf declares length %d exceeding available %d bytes", daerrors.ErrValidation, length, len(rest))
	}
	payload = rest[:length]
	next = namespace.Width + n + int(length)
	return ns, payload, next, nil
}

// IterLeaves decodes every leaf in buf in sequence, erroring if any trailing
// bytes remain after the last complete leaf.
func IterLeaves(buf []byte) ([]namespace.ID, [][]byte, error) {
	var nss []namespace.ID
	var payloads [][]byte
	offset := 0
	for offset < len(buf) {
		ns, payload, n, err := DecodeOne(buf[offset:])
		if err != nil {
			return nil, nil, err
		}
		nss = append(nss, ns)
		payloads = append(payloads, payload)
		offset += n
	}
	return nss, payloads, nil
}
