package ring

import "encoding/binary"

// SecretSampler draws the client's LWE secret s uniformly from Z_q^n.
// Every 4-byte read from prng is already a valid, uniform Z_q element:
// q = 2^32 has no rejection region, unlike a prime-modulus uniform
// sampler, which must mask-and-reject to stay within its modulus.
type SecretSampler struct {
	prng PRNG
}

// NewSecretSampler returns a sampler drawing uniform Z_q elements from prng.
func NewSecretSampler(prng PRNG) *SecretSampler {
	return &SecretSampler{prng: prng}
}

// Read draws one uniform element.
func (s *SecretSampler) Read() Elem {
	var buf [4]byte
	if _, err := s.prng.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// ReadVec fills a freshly allocated length-n vector of independent uniform
// samples.
func (s *SecretSampler) ReadVec(n int) []Elem {
	buf := make([]byte, n*4)
	if _, err := s.prng.Read(buf); err != nil {
		panic(err)
	}
	out := make([]Elem, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out
}
