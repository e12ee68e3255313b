package erasure

import (
	"fmt"
	"sort"

	"github.com/animica/da/daerrors"
)

// DecodeStripe recovers the k full-length data shards of one stripe given
// at least k of its n columns, keyed by column index 0..n-1. Every supplied
// payload must be exactly p.ShareBytes long (callers must re-pad a trimmed
// data leaf back to full width using known padding before calling this).
func DecodeStripe(available map[int][]byte, p Params) ([][]byte, error) {
	if len(available) < p.K {
		return nil, fmt.Errorf("%w: stripe has only %d of %d required shards", daerrors.ErrDecodeFailure, len(available), p.K)
	}

	cols := make([]int, 0, len(available))
	for c := range available {
		if c < 0 || c >= p.N {
			return nil, fmt.Errorf("%w: column %d out of range [0,%d)", daerrors.ErrValidation, c, p.N)
		}
		cols = append(cols, c)
	}
	sort.Ints(cols)
	cols = cols[:p.K]

	payloads := make([][]byte, p.K)
	for i, c := range cols {
		buf := available[c]
		if len(buf) != p.ShareBytes {
			return nil, fmt.Errorf("%w: column %d payload length %d, want %d", daerrors.ErrValidation, c, len(buf), p.ShareBytes)
		}
		payloads[i] = buf
	}

	gen := generatorMatrix(p)
	sub := gen.subMatrix(cols)
	inv, err := sub.invert()
	if err != nil {
		return nil, err
	}

	data := make([][]byte, p.K)
	for j := 0; j < p.K; j++ {
		row := inv[j]
		shard := make([]byte, p.ShareBytes)
		for off := 0; off < p.ShareBytes; off++ {
			shard[off] = mulRowVec(row, payloads, off)
		}
		data[j] = shard
	}
	return data, nil
}

// DecodeResult is the outcome of DecodeBlob.
type DecodeResult struct {
	Data          []byte
	SizeAmbiguous bool
}

// DecodeBlob recovers every stripe and concatenates the data shards,
// trimming to the known original size when available, else to the last
// present data leaf's declared length, else returning the full padded
// buffer with SizeAmbiguous set.
func DecodeBlob(stripesAvailable []map[int][]byte, p Params, originalSize *int64, lastPresentDataLen *int) (DecodeResult, error) {
	buf := make([]byte, 0, len(stripesAvailable)*p.StripePayload())
	for i, available := range stripesAvailable {
		dataShards, err := DecodeStripe(available, p)
		if err != nil {
			return DecodeResult{}, fmt.Errorf("stripe %d: %w", i, err)
		}
		for _, shard := range dataShards {
			buf = append(buf, shard...)
		}
	}

	switch {
	case originalSize != nil:
		if *originalSize < 0 || *originalSize > int64(len(buf)) {
			return DecodeResult{}, fmt.Errorf("%w: declared original size %d exceeds decoded length %d", daerrors.ErrValidation, *originalSize, len(buf))
		}
		return DecodeResult{Data: buf[:*originalSize]}, nil
	case lastPresentDataLen != nil:
		fullStripes := len(stripesAvailable) - 1
		total := int64(fullStripes)*int64(p.StripePayload()) + int64(p.K-1)*int64(p.ShareBytes) + int64(*lastPresentDataLen)
		if total < 0 || total > int64(len(buf)) {
			return DecodeResult{}, fmt.Errorf("%w: computed size %d exceeds decoded length %d", daerrors.ErrValidation, total, len(buf))
		}
		return DecodeResult{Data: buf[:total]}, nil
	default:
		return DecodeResult{Data: buf, SizeAmbiguous: true}, nil
	}
}
