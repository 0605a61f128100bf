package frodopir

import (
	"fmt"

	"github.com/chalametpir/chalametpir-go/ring"
)

// Session is a client's one-shot query/parse handle (spec §3 "Client
// session"). Its secret fields are zeroed after Parse runs; the struct
// must not be reused or aliased across goroutines (spec §5 "secret
// material").
type Session struct {
	params  Parameters
	s       []ring.Elem
	e       []ring.Elem
	index   int
	queried bool
	used    bool
}

// NewSession returns a fresh, unconsumed session bound to params.
func NewSession(params Parameters) *Session {
	return &Session{params: params}
}

// Query samples a fresh secret s and error e, builds the query vector
// q = A.s + e with q[index] bumped by Delta (spec §4.F steps 1-4), and
// retains (s, index) for the matching Parse call. Returns
// ErrParamsAlreadyUsed if the session has already issued a query.
func (sess *Session) Query(index int) ([]ring.Elem, error) {
	if sess.queried {
		return nil, fmt.Errorf("%w: Query called twice on the same session", ErrParamsAlreadyUsed)
	}
	if index < 0 || uint64(index) >= sess.params.M() {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrDimensionMismatch, index, sess.params.M())
	}

	prng, err := ring.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("frodopir: Query: %w", err)
	}

	secretSampler := ring.NewSecretSampler(prng)
	s := secretSampler.ReadVec(int(sess.params.N()))

	noisePrng, err := ring.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("frodopir: Query: %w", err)
	}
	noiseSampler := ring.NewNoiseSampler(noisePrng, ring.DefaultNoiseEta)
	e := noiseSampler.ReadVec(int(sess.params.M()))

	expander := ring.NewMatrixExpander(sess.params.ASeed())
	a := expander.Expand(int(sess.params.M()), int(sess.params.N()))

	q := a.MulVec(s)
	for i := range q {
		q[i] += e[i]
	}
	q[index] += sess.params.Delta()

	sess.s = s
	sess.e = e
	sess.index = index
	sess.queried = true

	return q, nil
}

// Parse recovers the plaintext bytes stored at the queried index from
// the server's response r (spec §4.H). Returns ErrDimensionMismatch if
// len(response) != params.W(), and ErrParamsAlreadyUsed if Parse has
// already run or Query has not yet run.
func (sess *Session) Parse(params Parameters, response []ring.Elem) ([]byte, error) {
	if sess.used {
		return nil, fmt.Errorf("%w: Parse called twice on the same session", ErrParamsAlreadyUsed)
	}
	if !sess.queried {
		return nil, fmt.Errorf("%w: Parse called before Query", ErrParamsAlreadyUsed)
	}
	if uint64(len(response)) != params.W() {
		return nil, fmt.Errorf("%w: response has %d elements, want %d", ErrDimensionMismatch, len(response), params.W())
	}

	hint := params.Hint()
	if hint == nil {
		return nil, fmt.Errorf("frodopir: Parse: params has no hint matrix, run Setup first")
	}

	ms := hint.TransposeMulVec(sess.s)

	t := make([]ring.Elem, len(response))
	for j := range t {
		t[j] = response[j] - ms[j]
	}

	d := make([]ring.Elem, len(t))
	for j, tj := range t {
		d[j] = ring.RoundDiv(tj, int(params.PlaintextBits()))
	}

	sess.used = true
	zero(sess.s)
	zero(sess.e)

	return ring.DecodeRow(d, int(params.PlaintextBits())), nil
}

// ParsedDigits is Parse's XOR-combinable intermediate form, used by the
// keyword package to combine three sessions' digit rows before decoding.
// It runs steps 1-2 of spec §4.H without the final decode_row step.
func (sess *Session) ParsedDigits(params Parameters, response []ring.Elem) ([]ring.Elem, error) {
	if sess.used {
		return nil, fmt.Errorf("%w: ParsedDigits called after Parse/ParsedDigits", ErrParamsAlreadyUsed)
	}
	if !sess.queried {
		return nil, fmt.Errorf("%w: ParsedDigits called before Query", ErrParamsAlreadyUsed)
	}
	if uint64(len(response)) != params.W() {
		return nil, fmt.Errorf("%w: response has %d elements, want %d", ErrDimensionMismatch, len(response), params.W())
	}

	hint := params.Hint()
	if hint == nil {
		return nil, fmt.Errorf("frodopir: ParsedDigits: params has no hint matrix, run Setup first")
	}

	ms := hint.TransposeMulVec(sess.s)

	d := make([]ring.Elem, len(response))
	for j := range d {
		t := response[j] - ms[j]
		d[j] = ring.RoundDiv(t, int(params.PlaintextBits()))
	}

	sess.used = true
	zero(sess.s)
	zero(sess.e)

	return d, nil
}

func zero(v []ring.Elem) {
	for i := range v {
		v[i] = 0
	}
}
