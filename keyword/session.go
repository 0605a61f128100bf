package keyword

import (
	"fmt"

	"github.com/chalametpir/chalametpir-go/frodopir"
	"github.com/chalametpir/chalametpir-go/ring"
)

// Session is a client's one-shot keyword-query handle: three independent
// frodopir.Sessions, one per Binary Fuse Filter slot (spec §4.F keyword
// mode: "three independent such queries... independent s^(k)").
type Session struct {
	inner [3]*frodopir.Session
	key   []byte
	used  bool
}

// NewSession returns a fresh, unconsumed keyword session bound to params
// (the shared index-PIR parameters; m must equal the filter's slot count).
func NewSession(params frodopir.Parameters) *Session {
	return &Session{
		inner: [3]*frodopir.Session{
			frodopir.NewSession(params),
			frodopir.NewSession(params),
			frodopir.NewSession(params),
		},
	}
}

// Query runs the filter's Locations lookup for key and issues three
// independent frodopir queries, one per slot index. Returns the three
// query vectors in slot order (h0, h1, h2).
func (s *Session) Query(descriptor Descriptor, key []byte) ([3][]ring.Elem, error) {
	var out [3][]ring.Elem
	h0, h1, h2 := descriptor.Locations(key)
	indices := [3]int{h0, h1, h2}

	for i, idx := range indices {
		q, err := s.inner[i].Query(idx)
		if err != nil {
			return out, fmt.Errorf("keyword: Query: slot %d: %w", i, err)
		}
		out[i] = q
	}

	s.key = key
	return out, nil
}

// Parse recovers the keyword's value from the three server responses
// (spec §4.H step 5 / §4.C step 5): each response is parsed through its
// matching inner session, the three digit rows are XORed together, the
// key's fingerprint row is XORed out, and the result is decoded.
func (s *Session) Parse(params frodopir.Parameters, descriptor Descriptor, responses [3][]ring.Elem) ([]byte, error) {
	if s.used {
		return nil, fmt.Errorf("%w: Parse called twice on the same session", frodopir.ErrParamsAlreadyUsed)
	}
	if s.key == nil {
		return nil, fmt.Errorf("%w: Parse called before Query", frodopir.ErrParamsAlreadyUsed)
	}

	digits := make([][]ring.Elem, 3)
	for i, r := range responses {
		d, err := s.inner[i].ParsedDigits(params, r)
		if err != nil {
			return nil, fmt.Errorf("keyword: Parse: slot %d: %w", i, err)
		}
		digits[i] = d
	}

	plaintextBits := int(params.PlaintextBits())
	combined := ring.XorRows(digits[0], digits[1], plaintextBits)
	combined = ring.XorRows(combined, digits[2], plaintextBits)

	fingerprint := descriptor.FingerprintRow(s.key)
	recovered := ring.XorRows(combined, fingerprint, plaintextBits)

	s.used = true
	return ring.DecodeRow(recovered[1:], plaintextBits), nil
}
