package ring

import (
	"encoding/binary"
	"runtime"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// MatrixExpander deterministically expands a 32-byte seed into the public
// LWE matrix A by hashing A_seed || row_index || col_index_block through a
// keyed-hash keystream. Every 4-byte read from the per-row keystream is
// already a valid, uniform element of Z_{2^32}: unlike a prime-modulus
// uniform sampler, which must mask-and-reject because its modulus is an
// arbitrary NTT-friendly prime, ChalametPIR's modulus q = 2^32 makes every
// 32-bit read valid, so there is no rejection loop here.
type MatrixExpander struct {
	seed [32]byte
}

// NewMatrixExpander returns an expander bound to seed.
func NewMatrixExpander(seed [32]byte) *MatrixExpander {
	return &MatrixExpander{seed: seed}
}

// ExpandRow deterministically derives the n-element row at index row. Rows
// are independent of each other (each keyed by seed || row), so this can be
// called concurrently for distinct rows without synchronization — matching
// spec §4.A's "parallelizable by row".
func (e *MatrixExpander) ExpandRow(row, n int) []Elem {
	var rowBytes [8]byte
	binary.LittleEndian.PutUint64(rowBytes[:], uint64(row))

	rowKey := blake2b.Sum256(append(append([]byte{}, e.seed[:]...), rowBytes[:]...))

	prng, err := NewKeyedPRNG(rowKey[:])
	if err != nil {
		panic(err)
	}

	buf := make([]byte, n*4)
	if _, err := prng.Read(buf); err != nil {
		panic(err)
	}

	out := make([]Elem, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out
}

// Expand materializes the full rows x cols matrix A, sharding rows across
// GOMAXPROCS goroutines — the parallelism boundary spec §5 names for setup.
func (e *MatrixExpander) Expand(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)

	workers := runtime.GOMAXPROCS(0)
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (rows + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				m.SetRow(i, e.ExpandRow(i, cols))
			}
		}(start, end)
	}
	wg.Wait()

	return m
}
