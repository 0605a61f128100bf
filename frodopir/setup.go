package frodopir

import (
	"crypto/rand"
	"fmt"

	"github.com/chalametpir/chalametpir-go/ring"
)

// Setup runs the offline server setup of spec §4.E: it expands A from the
// given seed (used as A_seed), computes the public hint M = A^T.D over Z_q, and returns
// a Parameters with A_seed and M populated. Setup is deterministic and
// idempotent given (db, seed): calling it twice with the same db and an
// explicit seed yields byte-identical parameters.
func Setup(db *Database, params Parameters, seed [32]byte) (Parameters, error) {
	if db.Rows() != int(params.M()) {
		return Parameters{}, fmt.Errorf("%w: db has %d rows, params.M()=%d", ErrDimensionMismatch, db.Rows(), params.M())
	}
	if db.Cols() != int(params.W()) {
		return Parameters{}, fmt.Errorf("%w: db has %d cols, params.W()=%d", ErrDimensionMismatch, db.Cols(), params.W())
	}

	expander := ring.NewMatrixExpander(seed)
	a := expander.Expand(int(params.M()), int(params.N()))

	numShards := int(params.NumShards())
	hint := ring.MulTransposeFirst(a, db.Matrix(), numShards)

	params.aSeed = seed
	params.hint = hint
	return params, nil
}

// NewSetupSeed draws a fresh, uniformly random 32-byte A_seed from the
// operating system's CSPRNG, for callers that don't need a specific seed
// (unlike, e.g., reproducing a known test vector, which needs a fixed one).
func NewSetupSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, err
	}
	return seed, nil
}
