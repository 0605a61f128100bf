package frodopir

import (
	"fmt"

	"github.com/chalametpir/chalametpir-go/ring"
)

// Respond computes the server's response r = D^T.q to a client query
// vector (spec §4.G). It is stateless: the server holds only
// (A_seed, M, D) and may serve any number of concurrent queries, each a
// fresh call to Respond. Returns ErrDimensionMismatch if len(query) !=
// db.Rows().
func Respond(db *Database, query []ring.Elem) ([]ring.Elem, error) {
	if len(query) != db.Rows() {
		return nil, fmt.Errorf("%w: query has %d elements, db has %d rows", ErrDimensionMismatch, len(query), db.Rows())
	}
	return db.Matrix().TransposeMulVec(query), nil
}
