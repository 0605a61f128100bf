package frodopir

import (
	"errors"
	"fmt"

	"github.com/chalametpir/chalametpir-go/ring"
)

// ErrDbEncodingOverflow is returned when an input value exceeds the byte
// width implied by Parameters.ElemSizeBits (spec §7).
var ErrDbEncodingOverflow = errors.New("frodopir: value exceeds element size")

// Database is the server's plaintext-free, already-encoded DB matrix D
// (spec §3 "DB matrix"): m rows of w field-element digits each, one row
// per index.
type Database struct {
	matrix *ring.Matrix
}

// NewDatabase encodes values (one per index) into a Database per spec
// §4.D's index mode. len(values) must equal params.M(); any value longer
// than ceil(ElemSizeBits/8) bytes is rejected with ErrDbEncodingOverflow.
func NewDatabase(values [][]byte, params Parameters) (*Database, error) {
	if uint64(len(values)) != params.M() {
		return nil, fmt.Errorf("%w: got %d values, params.M()=%d", ErrInvalidParams, len(values), params.M())
	}

	maxBytes := int((uint64(params.ElemSizeBits()) + 7) / 8)
	m := ring.NewMatrix(int(params.M()), int(params.W()))

	for i, v := range values {
		if len(v) > maxBytes {
			return nil, fmt.Errorf("%w: value %d is %d bytes, max %d", ErrDbEncodingOverflow, i, len(v), maxBytes)
		}
		m.SetRow(i, ring.EncodeRow(v, int(params.W()), int(params.PlaintextBits())))
	}

	return &Database{matrix: m}, nil
}

// NewDatabaseFromMatrix wraps an already-encoded matrix as a Database —
// used by the keyword package, whose rows come from a fuse.Filter's slot
// array rather than from raw values (spec §4.D keyword mode: "slot array
// at index j becomes row j of D").
func NewDatabaseFromMatrix(m *ring.Matrix) *Database {
	return &Database{matrix: m}
}

// Rows returns the number of DB rows (m).
func (d *Database) Rows() int { return d.matrix.Rows }

// Cols returns the row width (w).
func (d *Database) Cols() int { return d.matrix.Cols }

// Matrix exposes the underlying row-major matrix, e.g. for Setup's
// hint computation.
func (d *Database) Matrix() *ring.Matrix { return d.matrix }
