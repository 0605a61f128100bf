package ring

import (
	"runtime"
	"sync"
)

// Matrix is a row-major matrix over Z_q, backed by a single flat slice,
// in the usual flat-backing-array layout for dense numeric data.
type Matrix struct {
	Rows, Cols int
	Data       []Elem
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]Elem, rows*cols)}
}

// Row returns the i-th row as a slice sharing the matrix's backing array.
func (m *Matrix) Row(i int) []Elem {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// At returns the element at (i, j).
func (m *Matrix) At(i, j int) Elem {
	return m.Data[i*m.Cols+j]
}

// Set writes the element at (i, j).
func (m *Matrix) Set(i, j int, v Elem) {
	m.Data[i*m.Cols+j] = v
}

// SetRow overwrites the i-th row with row, which must have length m.Cols.
func (m *Matrix) SetRow(i int, row []Elem) {
	copy(m.Row(i), row)
}

// column returns a freshly allocated copy of the j-th column.
func (m *Matrix) column(j int) []Elem {
	col := make([]Elem, m.Rows)
	for i := 0; i < m.Rows; i++ {
		col[i] = m.Data[i*m.Cols+j]
	}
	return col
}

// workerCount caps goroutine fan-out at GOMAXPROCS, the usual bound for
// CPU-bound parallel dispatch over a fixed column partition.
func workerCount(n int) int {
	w := runtime.GOMAXPROCS(0)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// MulVec computes r = m*v, i.e. r[i] = sum_j m[i][j]*v[j]. Requires
// len(v) == m.Cols; returns a slice of length m.Rows. Used for the client
// query q = A*s (spec §4.F), parallelized by output row per spec §5.
func (m *Matrix) MulVec(v []Elem) []Elem {
	r := make([]Elem, m.Rows)

	workers := workerCount(m.Rows)
	var wg sync.WaitGroup
	chunk := (m.Rows + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > m.Rows {
			end = m.Rows
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				var acc Elem
				row := m.Row(i)
				for j, vj := range v {
					acc += row[j] * vj
				}
				r[i] = acc
			}
		}(start, end)
	}
	wg.Wait()

	return r
}

// TransposeMulVec computes r = m^T*v, i.e. r[j] = sum_i m[i][j]*v[i].
// Requires len(v) == m.Rows; returns a slice of length m.Cols. This is the
// "mat_vec" operation of spec §4.B, used by the server response
// (r = D^T*q, spec §4.G) and by client parsing (t = r - M^T*s, spec §4.H).
// Parallelized across output columns j, matching spec §5's partition
// boundary.
func (m *Matrix) TransposeMulVec(v []Elem) []Elem {
	r := make([]Elem, m.Cols)

	workers := workerCount(m.Cols)
	var wg sync.WaitGroup
	chunk := (m.Cols + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > m.Cols {
			end = m.Cols
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				var acc Elem
				for i := 0; i < m.Rows; i++ {
					acc += m.Data[i*m.Cols+j] * v[i]
				}
				r[j] = acc
			}
		}(start, end)
	}
	wg.Wait()

	return r
}

// MulTransposeFirst computes M = a^T*d, where a is m x n and d is m x w,
// yielding the n x w hint matrix of spec §4.E ("M = A.D", stated there with
// A's transpose implicit, since A is m x n). Column k of M is a^T applied to
// column k of d, so this reduces to w independent TransposeMulVec calls,
// themselves sharded into numShards cosmetic groups (spec §3) each run by
// its own goroutine.
func MulTransposeFirst(a, d *Matrix, numShards int) *Matrix {
	if a.Rows != d.Rows {
		panic("ring: MulTransposeFirst: row dimension mismatch")
	}

	out := NewMatrix(a.Cols, d.Cols)

	if numShards < 1 {
		numShards = 1
	}
	if numShards > d.Cols {
		numShards = d.Cols
	}

	var wg sync.WaitGroup
	chunk := (d.Cols + numShards - 1) / numShards

	for s := 0; s < numShards; s++ {
		start := s * chunk
		end := start + chunk
		if end > d.Cols {
			end = d.Cols
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				col := a.TransposeMulVec(d.column(k))
				for i, v := range col {
					out.Set(i, k, v)
				}
			}
		}(start, end)
	}
	wg.Wait()

	return out
}
