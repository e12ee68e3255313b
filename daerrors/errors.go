// Package daerrors defines the sentinel errors and error-kind taxonomy
// shared across the DA subsystem. Components raise these directly or wrap
// them with fmt.Errorf("...: %w", ...); the retrieval service is the only
// place that maps a Kind to a wire status.
package daerrors

import "errors"

// Kind classifies an error for wire-level mapping. It is independent of the
// Go error chain: a handler extracts it via KindOf, which walks the chain
// with errors.Is against the sentinels below.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidProof
	KindDecodeFailure
	KindConflict
	KindResource
	KindIO
	KindStoreCorruption
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindInvalidProof:
		return "invalid-proof"
	case KindDecodeFailure:
		return "decode-failure"
	case KindConflict:
		return "conflict"
	case KindResource:
		return "resource"
	case KindIO:
		return "io"
	case KindStoreCorruption:
		return "store-corruption"
	default:
		return "unknown"
	}
}

var (
	// ErrValidation covers malformed leaf bytes, bad hex, bad range headers,
	// out-of-bounds namespaces, and size-over-cap inputs.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers unknown commitments and missing payloads for an
	// indexed row that is not itself corrupt.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProof covers any hash, structural, or side mismatch during
	// verification, including namespace-order violations.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrDecodeFailure covers fewer than k leaves per stripe and singular
	// erasure submatrices.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrConflict covers appends to a finalized tree and pins against a
	// nonexistent root.
	ErrConflict = errors.New("conflict")

	// ErrResource covers oversized request bodies and rate-limit rejects.
	ErrResource = errors.New("resource exhausted")

	// ErrIO covers filesystem or database failures during a write.
	ErrIO = errors.New("io error")

	// ErrStoreCorruption is raised when a stored payload's recomputed root
	// disagrees with its indexed commitment. Distinct from ErrInvalidProof
	// per the proof-path/corruption split called out in the design notes.
	ErrStoreCorruption = errors.New("store corruption")
)

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	{KindValidation, ErrValidation},
	{KindNotFound, ErrNotFound},
	{KindInvalidProof, ErrInvalidProof},
	{KindDecodeFailure, ErrDecodeFailure},
	{KindConflict, ErrConflict},
	{KindResource, ErrResource},
	{KindStoreCorruption, ErrStoreCorruption},
	{KindIO, ErrIO},
}

// KindOf walks err's chain against the known sentinels and returns the
// matching Kind, or KindUnknown if none match.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindUnknown
}
