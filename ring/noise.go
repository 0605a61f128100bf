package ring

import "math/bits"

// DefaultNoiseEta is the centered-binomial half-width that
// frodopir.Session.Query uses for every query's error vector. With eta=12 the
// sampled error is deterministically bounded by +-12 (see NoiseSampler.Read),
// comfortably inside Delta/4 = 16384 for the largest supported plaintext
// width (plaintextBits=16); smaller plaintextBits only widen that margin.
// DESIGN.md records the analysis and ring/noise_test.go checks the empirical
// distribution against it with github.com/montanaflynn/stats.
const DefaultNoiseEta = 12

// NoiseSampler draws LWE error terms from a centered binomial distribution
// CBD_eta: the difference of two independent Hamming weights of eta
// uniformly random bits. Its support is exactly [-eta, eta], so the noise
// bound required by spec §4.A/§8 holds with probability 1, not merely "with
// overwhelming probability" — stronger than the spec requires, and simpler
// to reason about than a table-driven discrete Gaussian sampler using
// Knuth-Yao sampling (not part of this package), whose per-coefficient
// branching is exactly what spec §1's non-goals ask to
// avoid on the query/response hot path. Grounded on that sampler's
// "read raw PRNG bytes, derive a small bounded integer from their bits"
// shape, generalized from a 3-valued ternary output to a centered-binomial
// one.
type NoiseSampler struct {
	prng PRNG
	eta  int
}

// NewNoiseSampler returns a sampler drawing CBD_eta noise from prng. eta
// must be positive.
func NewNoiseSampler(prng PRNG, eta int) *NoiseSampler {
	if eta <= 0 {
		panic("ring: NewNoiseSampler: eta must be positive")
	}
	return &NoiseSampler{prng: prng, eta: eta}
}

// Read draws one noise sample, returned as an Elem in Z_q: a value in
// [-eta, eta] is represented by its two's-complement wraparound, which is
// exactly how it must be added to other Z_q elements (spec §3 "natural
// wrap").
func (s *NoiseSampler) Read() Elem {
	a := s.sampleBits(s.eta)
	b := s.sampleBits(s.eta)
	return Elem(a) - Elem(b)
}

// ReadVec fills a freshly allocated length-n vector of independent samples.
func (s *NoiseSampler) ReadVec(n int) []Elem {
	out := make([]Elem, n)
	for i := range out {
		out[i] = s.Read()
	}
	return out
}

// sampleBits returns the Hamming weight of n independently sampled uniform
// bits.
func (s *NoiseSampler) sampleBits(n int) int {
	buf := make([]byte, (n+7)/8)
	if _, err := s.prng.Read(buf); err != nil {
		panic(err)
	}

	// Mask off any bits beyond n in the last byte so they don't bias the
	// weight count.
	if rem := n % 8; rem != 0 {
		buf[len(buf)-1] &= (1 << uint(rem)) - 1
	}

	weight := 0
	for _, b := range buf {
		weight += bits.OnesCount8(b)
	}
	return weight
}
