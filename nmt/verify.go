package nmt

import (
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
)

// VerifyInclusion recomputes the root from a leaf's (namespace, payload
// digest) and the proof's sibling chain, and compares against root in
// constant time. It fails closed: any structural mismatch returns false.
func VerifyInclusion(root [hashutil.Size]byte, ns namespace.ID, payloadDigest [hashutil.Size]byte, proof InclusionProof) bool {
	cur := hashutil.LeafHashFromDigest(ns.Bytes(), payloadDigest)
	curRange := namespace.Singleton(ns)

	for _, step := range proof.Steps {
		var combined namespace.Range
		var h [hashutil.Size]byte
		switch step.Side {
		case Left:
			// current hash sits on the right; sibling is on the left.
			if !step.SiblingRange.Before(curRange) {
				return false
			}
			combined = namespace.Union(step.SiblingRange, curRange)
			h = hashutil.InnerHash(step.SiblingHash[:], cur[:], combined.Min.Bytes(), combined.Max.Bytes())
		case Right:
			if !curRange.Before(step.SiblingRange) {
				return false
			}
			combined = namespace.Union(curRange, step.SiblingRange)
			h = hashutil.InnerHash(cur[:], step.SiblingHash[:], combined.Min.Bytes(), combined.Max.Bytes())
		default:
			return false
		}
		cur = h
		curRange = combined
	}
	return hashutil.ConstantTimeEqual(cur, root)
}

// VerifyInclusionFromEncoded decodes the encoded leaf and verifies it.
func VerifyInclusionFromEncoded(root [hashutil.Size]byte, encodedLeaf []byte, proof InclusionProof) bool {
	ns, payload, n, err := DecodeOne(encodedLeaf)
	if err != nil || n != len(encodedLeaf) {
		return false
	}
	return VerifyInclusion(root, ns, hashutil.PayloadDigest(payload), proof)
}

type rangeItem struct {
	hash [hashutil.Size]byte
	rng  namespace.Range
}

// VerifyRange recomputes the root from per-leaf (namespace, payload digest)
// pairs and the range proof's level-by-level combine operations, rejecting
// any namespace-ordering violation at a combine step.
func VerifyRange(root [hashutil.Size]byte, proof RangeProof, nss []namespace.ID, payloadDigests [][hashutil.Size]byte) bool {
	if proof.Count != len(nss) || proof.Count != len(payloadDigests) || proof.Count == 0 {
		return false
	}

	queue := make([]rangeItem, proof.Count)
	for i := range queue {
		h := hashutil.LeafHashFromDigest(nss[i].Bytes(), payloadDigests[i])
		queue[i] = rangeItem{hash: h, rng: namespace.Singleton(nss[i])}
	}

	for _, steps := range proof.Levels {
		var next []rangeItem
		qi := 0
		for _, step := range steps {
			switch step.Kind {
			case StepDup:
				if qi >= len(queue) {
					return false
				}
				cur := queue[qi]
				qi++
				h := hashutil.InnerHash(cur.hash[:], cur.hash[:], cur.rng.Min.Bytes(), cur.rng.Max.Bytes())
				next = append(next, rangeItem{hash: h, rng: cur.rng})
			case StepMerge:
				if qi+1 >= len(queue) {
					return false
				}
				a, b := queue[qi], queue[qi+1]
				qi += 2
				if !a.rng.Before(b.rng) {
					return false
				}
				combined := namespace.Union(a.rng, b.rng)
				h := hashutil.InnerHash(a.hash[:], b.hash[:], combined.Min.Bytes(), combined.Max.Bytes())
				next = append(next, rangeItem{hash: h, rng: combined})
			case StepSiblingLeft:
				if qi >= len(queue) {
					return false
				}
				cur := queue[qi]
				qi++
				if !step.SiblingRange.Before(cur.rng) {
					return false
				}
				combined := namespace.Union(step.SiblingRange, cur.rng)
				h := hashutil.InnerHash(step.SiblingHash[:], cur.hash[:], combined.Min.Bytes(), combined.Max.Bytes())
				next = append(next, rangeItem{hash: h, rng: combined})
			case StepSiblingRight:
				if qi >= len(queue) {
					return false
				}
				cur := queue[qi]
				qi++
				if !cur.rng.Before(step.SiblingRange) {
					return false
				}
				combined := namespace.Union(cur.rng, step.SiblingRange)
				h := hashutil.InnerHash(cur.hash[:], step.SiblingHash[:], combined.Min.Bytes(), combined.Max.Bytes())
				next = append(next, rangeItem{hash: h, rng: combined})
			default:
				return false
			}
		}
		if qi != len(queue) {
			return false
		}
		queue = next
	}

	if len(queue) != 1 {
		return false
	}
	return hashutil.ConstantTimeEqual(queue[0].hash, root)
}

// VerifyRangeFromEncoded decodes each encoded leaf and verifies the range.
func VerifyRangeFromEncoded(root [hashutil.Size]byte, proof RangeProof, encodedLeaves [][]byte) bool {
	if len(encodedLeaves) != proof.Count {
		return false
	}
	nss := make([]namespace.ID, len(encodedLeaves))
	digests := make([][hashutil.Size]byte, len(encodedLeaves))
	for i, enc := range encodedLeaves {
		ns, payload, n, err := DecodeOne(enc)
		if err != nil || n != len(enc) {
			return false
		}
		nss[i] = ns
		digests[i] = hashutil.PayloadDigest(payload)
	}
	return VerifyRange(root, proof, nss, digests)
}
