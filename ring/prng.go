package ring

import (
	"crypto/rand"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// PRNG is a seedable, reproducible source of pseudorandom bytes, in the
// same io.Reader-shaped style samplers elsewhere in the package read
// their keystream from. ChalametPIR's samplers only ever need Read and
// Reset: there is no clocked/seekable PRNG state to expose beyond that
// (ChalametPIR has no multi-party CRS to replay at a fixed position).
type PRNG interface {
	Read(p []byte) (int, error)
	// Reset rewinds the PRNG to its initial state, so the same byte stream
	// can be replayed from the start.
	Reset()
}

// keyedPRNG is a blake2b-keyed counter-mode stream: block i of the output
// is blake2b-512(key, counter=i). golang.org/x/crypto/blake2b has no XOF
// mode in this version, so ChalametPIR builds one by repeatedly clocking
// the keyed hash with an incrementing counter to refill a buffer.
type keyedPRNG struct {
	key     []byte
	counter uint64
	buf     []byte
	pos     int
}

// NewKeyedPRNG returns a PRNG deterministically derived from key. Equal keys
// produce identical byte streams; this is the primitive spec §4.A requires
// for expanding A_seed into the public matrix A.
func NewKeyedPRNG(key []byte) (PRNG, error) {
	// blake2b keys must be at most 64 bytes; longer keys are themselves
	// hashed down first so any seed length is accepted.
	k := key
	if len(k) > 64 {
		sum := blake2b.Sum512(k)
		k = sum[:]
	}
	p := &keyedPRNG{key: append([]byte{}, k...)}
	p.Reset()
	return p, nil
}

// NewPRNG returns a PRNG seeded from the operating system's CSPRNG. Used to
// draw the fresh, non-deterministic (s, e) for every client session
// (spec §9 "Determinism vs. freshness").
func NewPRNG() (PRNG, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return NewKeyedPRNG(seed)
}

func (p *keyedPRNG) Reset() {
	p.counter = 0
	p.buf = nil
	p.pos = 0
}

func (p *keyedPRNG) refill() {
	h, err := blake2b.New512(p.key)
	if err != nil {
		// key length is normalized to <= 64 bytes in NewKeyedPRNG, so this
		// can only happen on a programmer error.
		panic(err)
	}
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], p.counter)
	h.Write(ctr[:])
	p.buf = h.Sum(nil)
	p.pos = 0
	p.counter++
}

func (p *keyedPRNG) Read(out []byte) (int, error) {
	n := 0
	for n < len(out) {
		if p.buf == nil || p.pos == len(p.buf) {
			p.refill()
		}
		c := copy(out[n:], p.buf[p.pos:])
		p.pos += c
		n += c
	}
	return n, nil
}
