package fuse

import (
	"encoding/binary"

	"github.com/chalametpir/chalametpir-go/ring"
	"github.com/zeebo/blake3"
)

// keyHash64 derives a domain-separated 64-bit hash of key, bound to seed.
// blake3 is used purely as a fast, seedable non-cryptographic hash here
// (spec §4.C.2's "mix via a fast non-cryptographic hash"); it carries no
// security requirement, unlike ring's use of blake2b for matrix expansion.
func keyHash64(seed uint64, domain byte, key []byte) uint64 {
	h := blake3.New()
	var prefix [9]byte
	binary.LittleEndian.PutUint64(prefix[:8], seed)
	prefix[8] = domain
	h.Write(prefix[:])
	h.Write(key)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

const (
	domainSegment    = 0
	domainOffset0    = 1
	domainOffset1    = 2
	domainOffset2    = 3
	domainFingerBody = 4
)

// fingerprintRow derives the w-digit fingerprint row for key, bound to seed.
// blake3's extendable output (unlike blake2b, which needed the counter-mode
// construction in ring/prng.go) supplies the w*4 bytes directly from one
// keyed hash. Digit 0 is forced nonzero, matching spec §4.C's
// fingerprint(key) != 0 invariant.
func fingerprintRow(seed uint64, key []byte, w, plaintextBits int) []ring.Elem {
	h := blake3.New()
	var prefix [9]byte
	binary.LittleEndian.PutUint64(prefix[:8], seed)
	prefix[8] = domainFingerBody
	h.Write(prefix[:])
	h.Write(key)

	out := make([]byte, w*4)
	d := h.Digest()
	d.Read(out)

	mask := (ring.Elem(1) << uint(plaintextBits)) - 1
	row := make([]ring.Elem, w)
	for i := 0; i < w; i++ {
		row[i] = binary.LittleEndian.Uint32(out[i*4:]) & mask
	}
	if row[0] == 0 {
		row[0] = 1
	}
	return row
}
