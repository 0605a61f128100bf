package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixMulVec(t *testing.T) {
	// [1 2 3]   [1]   [1*1+2*1+3*1]   [6]
	// [4 5 6] * [1] = [4*1+5*1+6*1] = [15]
	m := NewMatrix(2, 3)
	m.SetRow(0, []Elem{1, 2, 3})
	m.SetRow(1, []Elem{4, 5, 6})

	r := m.MulVec([]Elem{1, 1, 1})
	require.Equal(t, []Elem{6, 15}, r)

	r2 := m.MulVec([]Elem{1, 0, 2})
	require.Equal(t, []Elem{1 + 6, 4 + 12}, r2)
}

func TestMatrixTransposeMulVec(t *testing.T) {
	// m is 2x3:
	// [1 2 3]
	// [4 5 6]
	// m^T is 3x2, m^T * v for v = [1, 1] sums each column.
	m := NewMatrix(2, 3)
	m.SetRow(0, []Elem{1, 2, 3})
	m.SetRow(1, []Elem{4, 5, 6})

	r := m.TransposeMulVec([]Elem{1, 1})
	require.Equal(t, []Elem{1 + 4, 2 + 5, 3 + 6}, r)

	r2 := m.TransposeMulVec([]Elem{2, 0})
	require.Equal(t, []Elem{2, 4, 6}, r2)
}

func TestMulTransposeFirst(t *testing.T) {
	// a is 2x2, d is 2x2. out = a^T * d.
	a := NewMatrix(2, 2)
	a.SetRow(0, []Elem{1, 0})
	a.SetRow(1, []Elem{0, 1})

	d := NewMatrix(2, 2)
	d.SetRow(0, []Elem{5, 6})
	d.SetRow(1, []Elem{7, 8})

	out := MulTransposeFirst(a, d, 2)
	require.Equal(t, 2, out.Rows)
	require.Equal(t, 2, out.Cols)
	// a is identity so a^T*d == d.
	require.Equal(t, []Elem{5, 6}, out.Row(0))
	require.Equal(t, []Elem{7, 8}, out.Row(1))
}

func TestMulTransposeFirstAgainstNaive(t *testing.T) {
	a := NewMatrix(3, 2)
	a.SetRow(0, []Elem{1, 2})
	a.SetRow(1, []Elem{3, 4})
	a.SetRow(2, []Elem{5, 6})

	d := NewMatrix(3, 4)
	d.SetRow(0, []Elem{1, 0, 2, 1})
	d.SetRow(1, []Elem{0, 1, 1, 2})
	d.SetRow(2, []Elem{2, 2, 0, 1})

	out := MulTransposeFirst(a, d, 3)

	for i := 0; i < a.Cols; i++ {
		for k := 0; k < d.Cols; k++ {
			var want Elem
			for r := 0; r < a.Rows; r++ {
				want += a.At(r, i) * d.At(r, k)
			}
			require.Equal(t, want, out.At(i, k))
		}
	}
}

func TestMatrixSetGet(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, 9)
	m.Set(1, 1, 7)
	require.Equal(t, Elem(9), m.At(0, 0))
	require.Equal(t, Elem(7), m.At(1, 1))
	require.Equal(t, Elem(0), m.At(0, 1))
}
