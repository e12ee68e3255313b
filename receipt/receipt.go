// Package receipt implements the canonical CBOR acceptance receipt: its
// signed byte layout, wire form, and pluggable sign/verify interface.
package receipt

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
)

// DomainTag distinguishes receipt SignBytes from any other signed payload
// in the system, the ASCII bytes "ARCT" read as a big-endian uint32.
const DomainTag uint64 = 0x41524354

// MaxSignBytesSize bounds a receipt's SignBytes the same soft cap as a
// blob, per spec.md §4.8.
const MaxSignBytesSize = 8 << 20

// SignBytes is the canonical, integer-keyed map a signer commits to. Field
// order is fixed by key, not declaration order, by fxamacker/cbor's
// canonical encoding mode.
type SignBytes struct {
	DomainTag  uint64  `cbor:"1,keyasint"`
	ChainID    string  `cbor:"2,keyasint"`
	Commitment []byte  `cbor:"3,keyasint"`
	Namespace  uint32  `cbor:"4,keyasint"`
	Size       int64   `cbor:"5,keyasint"`
	Mime       *string `cbor:"6,keyasint,omitempty"`
	PolicyRoot []byte  `cbor:"7,keyasint"`
	AlgID      uint32  `cbor:"8,keyasint"`
	Signer     string  `cbor:"9,keyasint"`
	Timestamp  int64   `cbor:"10,keyasint"`
}

// WireReceipt is SignBytes plus the signature, under a further key.
type WireReceipt struct {
	SignBytes
	Signature []byte `cbor:"11,keyasint"`
}

var canonicalMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("receipt: building canonical cbor mode: %v", err))
	}
	return m
}()

// Marshal produces the canonical CBOR bytes a signer signs over.
func (s SignBytes) Marshal() ([]byte, error) {
	out, err := canonicalMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling sign bytes: %v", daerrors.ErrValidation, err)
	}
	if len(out) > MaxSignBytesSize {
		return nil, fmt.Errorf("%w: sign bytes %d bytes exceeds cap %d", daerrors.ErrResource, len(out), MaxSignBytesSize)
	}
	return out, nil
}

// New builds a SignBytes with DomainTag pre-filled.
func New(chainID string, commitment [hashutil.Size]byte, ns uint32, size int64, policyRoot [hashutil.Size]byte, algID uint32, signer string, timestamp int64) SignBytes {
	return SignBytes{
		DomainTag:  DomainTag,
		ChainID:    chainID,
		Commitment: commitment[:],
		Namespace:  ns,
		Size:       size,
		PolicyRoot: policyRoot[:],
		AlgID:      algID,
		Signer:     signer,
		Timestamp:  timestamp,
	}
}

// SignFunc produces a signature over signBytes under algID, issued by the
// bech32m address encoded as signer in the SignBytes.
type SignFunc func(algID uint32, signBytes []byte) ([]byte, error)

// VerifyFunc checks that signature is valid for signBytes under algID,
// issued by signer.
type VerifyFunc func(algID uint32, signer string, signBytes []byte, signature []byte) (bool, error)

// Marshal produces the canonical CBOR bytes of the full wire receipt,
// including the signature under key 11. Distinct from SignBytes.Marshal,
// which a promoted-method call would otherwise shadow this with (dropping
// the signature), so WireReceipt defines its own.
func (w WireReceipt) Marshal() ([]byte, error) {
	out, err := canonicalMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling wire receipt: %v", daerrors.ErrValidation, err)
	}
	if len(out) > MaxSignBytesSize {
		return nil, fmt.Errorf("%w: wire receipt %d bytes exceeds cap %d", daerrors.ErrResource, len(out), MaxSignBytesSize)
	}
	return out, nil
}

// Sign marshals s and invokes signFn to produce the full wire receipt.
func Sign(s SignBytes, signFn SignFunc) (WireReceipt, error) {
	sb, err := s.Marshal()
	if err != nil {
		return WireReceipt{}, err
	}
	sig, err := signFn(s.AlgID, sb)
	if err != nil {
		return WireReceipt{}, fmt.Errorf("%w: signing receipt: %v", daerrors.ErrIO, err)
	}
	return WireReceipt{SignBytes: s, Signature: sig}, nil
}

// Verify checks a wire receipt's bindings, then its signature via verifyFn.
// ExpectChainID/ExpectPolicyRoot mismatches fail before signature
// verification is attempted, per spec.md §4.8.
func Verify(w WireReceipt, verifyFn VerifyFunc, expectChainID string, expectPolicyRoot []byte) error {
	if expectChainID != "" && w.ChainID != expectChainID {
		return fmt.Errorf("%w: receipt chain id %q does not match expected %q", daerrors.ErrValidation, w.ChainID, expectChainID)
	}
	if expectPolicyRoot != nil && string(w.PolicyRoot) != string(expectPolicyRoot) {
		return fmt.Errorf("%w: receipt policy root does not match expected value", daerrors.ErrValidation)
	}

	sb, err := w.SignBytes.Marshal()
	if err != nil {
		return err
	}
	ok, err := verifyFn(w.AlgID, w.Signer, sb, w.Signature)
	if err != nil {
		return fmt.Errorf("%w: verifying receipt signature: %v", daerrors.ErrInvalidProof, err)
	}
	if !ok {
		return fmt.Errorf("%w: receipt signature does not verify", daerrors.ErrInvalidProof)
	}
	return nil
}
