// Package fuse implements the modified Binary Fuse Filter used by
// ChalametPIR's keyword layer: a 3-wise peelable filter whose slot
// "fingerprints" are full rows of field elements mod p, not the 8/16-bit
// hashes of the upstream xorf/binaryfusefilter family. The peeling algorithm
// is the portable part; the slot payload is vector-valued.
package fuse

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"

	"github.com/chalametpir/chalametpir-go/ring"
	"golang.org/x/exp/slices"
)

// RandomSeedSource returns a seedFn suitable for Build that draws each
// candidate seed from the operating system's CSPRNG. Construction does
// not need a cryptographically binding seed (spec §4.C's hash is
// explicitly "fast, non-cryptographic"); randomness here just avoids
// adversarial or accidental seed collisions across independently built
// filters.
func RandomSeedSource() func() uint64 {
	return func() uint64 {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		return binary.LittleEndian.Uint64(buf[:])
	}
}

const (
	minSegmentLen = 1 << 11
	maxSegmentLen = 1 << 18
	maxSeedRetries = 100
)

// ErrFilterConstructionFailed is returned when peeling fails for every seed
// tried within the retry budget.
var ErrFilterConstructionFailed = errors.New("fuse: filter construction failed after seed retries")

// Filter is a constructed Binary Fuse Filter: its public parameters
// (Seed, SegmentLen, SegmentCountLen, M, W, PlaintextBits) are enough for a
// client to compute Locations and FingerprintRow without access to the slot
// contents.
type Filter struct {
	Seed            uint64
	SegmentLen      uint64
	SegmentCountLen uint64
	M               uint64
	W               int
	PlaintextBits   int

	// Slots is the m x w matrix of assigned rows. Row j of Slots is row j of
	// the PIR database D (spec §4.D: "slot array at index j becomes row j
	// of D").
	Slots *ring.Matrix
}

// SegmentLength returns the segment_len derived from a key-set size, per
// spec §3: segment_len = 1 << floor(log2(floor(size^0.58))), clamped to
// [2^11, 2^18].
func SegmentLength(size int) uint64 {
	if size < 1 {
		size = 1
	}
	base := math.Floor(math.Pow(float64(size), 0.58))
	if base < 1 {
		base = 1
	}
	l := uint64(1) << uint(math.Floor(math.Log2(base)))
	if l < minSegmentLen {
		l = minSegmentLen
	}
	if l > maxSegmentLen {
		l = maxSegmentLen
	}
	return l
}

// SegmentCountLen returns the addressable slot count: the smallest multiple
// of segmentLen covering ceil(1.125*size) slots.
func SegmentCountLen(size int, segmentLen uint64) uint64 {
	needed := uint64(math.Ceil(1.125 * float64(size)))
	if needed == 0 {
		needed = segmentLen
	}
	c := ((needed + segmentLen - 1) / segmentLen) * segmentLen
	if c == 0 {
		c = segmentLen
	}
	return c
}

// Locations returns the three slot indices a key hashes to, one per a run
// of three consecutive segments — the structure the peeling algorithm
// relies on to guarantee a non-empty degree-1 frontier.
func (f *Filter) Locations(key []byte) (h0, h1, h2 int) {
	segmentCount := f.SegmentCountLen / f.SegmentLen
	segIdx := keyHash64(f.Seed, domainSegment, key) % segmentCount
	o0 := keyHash64(f.Seed, domainOffset0, key) % f.SegmentLen
	o1 := keyHash64(f.Seed, domainOffset1, key) % f.SegmentLen
	o2 := keyHash64(f.Seed, domainOffset2, key) % f.SegmentLen
	h0 = int(segIdx*f.SegmentLen + o0)
	h1 = int((segIdx+1)*f.SegmentLen + o1)
	h2 = int((segIdx+2)*f.SegmentLen + o2)
	return
}

// FingerprintRow returns the deterministic per-key fingerprint row used in
// both construction (spec §4.C.4) and lookup (§4.C.5). Its first digit is
// guaranteed nonzero, matching the invariant that fingerprint(key) != 0.
func (f *Filter) FingerprintRow(key []byte) []ring.Elem {
	return fingerprintRow(f.Seed, key, f.W, f.PlaintextBits)
}

// Build constructs a filter over keys, with valueDigits[i] holding the
// w-1 value digits for keys[i] (digit 0 of every slot row is reserved for
// the fingerprint contract; Build prepends it, the caller never supplies
// it). w and plaintextBits size every row. Construction retries with a
// fresh seed up to 100 times before returning ErrFilterConstructionFailed
// (spec §4.C.3, §7), the only internally-retrying operation in the scheme.
func Build(keys [][]byte, valueDigits [][]ring.Elem, w, plaintextBits int, seedFn func() uint64) (*Filter, error) {
	if len(keys) != len(valueDigits) {
		panic("fuse: Build: keys and valueDigits length mismatch")
	}
	for _, v := range valueDigits {
		if len(v) != w-1 {
			panic("fuse: Build: value digit row has wrong width")
		}
	}

	segmentLen := SegmentLength(len(keys))
	segmentCountLen := SegmentCountLen(len(keys), segmentLen)
	m := segmentCountLen + 2*segmentLen

	// Peeling order otherwise depends on the caller's key order (e.g. Go's
	// randomized map iteration in keyword.NewDatabase), making two builds
	// over the same logical key set produce different slot assignments
	// even for the same seed. Canonicalizing to lexicographic key order
	// first makes Build a pure function of (keys, valueDigits, seed).
	keys, valueDigits = sortByKey(keys, valueDigits)

	for attempt := 0; attempt < maxSeedRetries; attempt++ {
		f := &Filter{
			Seed:            seedFn(),
			SegmentLen:      segmentLen,
			SegmentCountLen: segmentCountLen,
			M:               m,
			W:               w,
			PlaintextBits:   plaintextBits,
		}

		if ok := f.tryBuild(keys, valueDigits); ok {
			return f, nil
		}
	}

	return nil, ErrFilterConstructionFailed
}

// sortByKey returns copies of keys and valueDigits reordered into
// ascending lexicographic key order.
func sortByKey(keys [][]byte, valueDigits [][]ring.Elem) ([][]byte, [][]ring.Elem) {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) bool {
		return bytes.Compare(keys[a], keys[b]) < 0
	})

	sortedKeys := make([][]byte, len(keys))
	sortedDigits := make([][]ring.Elem, len(valueDigits))
	for newIdx, oldIdx := range order {
		sortedKeys[newIdx] = keys[oldIdx]
		sortedDigits[newIdx] = valueDigits[oldIdx]
	}
	return sortedKeys, sortedDigits
}

// tryBuild attempts one peel-and-assign pass for the seed already set on f.
// It reports whether every key could be peeled.
func (f *Filter) tryBuild(keys [][]byte, valueDigits [][]ring.Elem) bool {
	m := int(f.M)
	locs := make([][3]int, len(keys))
	count := make([]uint8, m)
	xorIdx := make([]int, m)

	for i, k := range keys {
		h0, h1, h2 := f.Locations(k)
		locs[i] = [3]int{h0, h1, h2}
		count[h0]++
		count[h1]++
		count[h2]++
		xorIdx[h0] ^= i
		xorIdx[h1] ^= i
		xorIdx[h2] ^= i
	}

	queue := make([]int, 0, m)
	for s := 0; s < m; s++ {
		if count[s] == 1 {
			queue = append(queue, s)
		}
	}

	order := make([]int, 0, len(keys))
	ownedSlot := make([]int, len(keys))
	done := make([]bool, len(keys))

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if count[s] != 1 {
			continue
		}
		keyIdx := xorIdx[s]
		if done[keyIdx] {
			continue
		}
		done[keyIdx] = true
		ownedSlot[keyIdx] = s
		order = append(order, keyIdx)

		for _, slot := range locs[keyIdx] {
			count[slot]--
			xorIdx[slot] ^= keyIdx
			if count[slot] == 1 {
				queue = append(queue, slot)
			}
		}
	}

	if len(order) != len(keys) {
		return false
	}

	slots := ring.NewMatrix(m, f.W)
	for idx := len(order) - 1; idx >= 0; idx-- {
		keyIdx := order[idx]
		owned := ownedSlot[keyIdx]
		loc := locs[keyIdx]

		var other1, other2 int
		switch owned {
		case loc[0]:
			other1, other2 = loc[1], loc[2]
		case loc[1]:
			other1, other2 = loc[0], loc[2]
		default:
			other1, other2 = loc[0], loc[1]
		}

		valueRow := make([]ring.Elem, f.W)
		copy(valueRow[1:], valueDigits[keyIdx])

		row := ring.XorRows(valueRow, slots.Row(other1), f.PlaintextBits)
		row = ring.XorRows(row, slots.Row(other2), f.PlaintextBits)
		row = ring.XorRows(row, f.FingerprintRow(keys[keyIdx]), f.PlaintextBits)
		slots.SetRow(owned, row)
	}

	f.Slots = slots
	return true
}
