package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatrixExpanderDeterministic(t *testing.T) {
	seed := [32]byte{1, 2, 3, 4}

	e1 := NewMatrixExpander(seed)
	e2 := NewMatrixExpander(seed)

	row1 := e1.ExpandRow(5, 16)
	row2 := e2.ExpandRow(5, 16)
	require.Equal(t, row1, row2)
}

func TestMatrixExpanderRowsAreIndependent(t *testing.T) {
	seed := [32]byte{9, 9, 9}
	e := NewMatrixExpander(seed)

	row0 := e.ExpandRow(0, 8)
	row1 := e.ExpandRow(1, 8)
	require.NotEqual(t, row0, row1)
}

func TestMatrixExpanderDifferentSeedsDiffer(t *testing.T) {
	e1 := NewMatrixExpander([32]byte{1})
	e2 := NewMatrixExpander([32]byte{2})

	require.NotEqual(t, e1.ExpandRow(0, 8), e2.ExpandRow(0, 8))
}

func TestExpandMatchesExpandRow(t *testing.T) {
	seed := [32]byte{7, 7, 7}
	e := NewMatrixExpander(seed)

	m := e.Expand(6, 4)
	require.Equal(t, 6, m.Rows)
	require.Equal(t, 4, m.Cols)

	for i := 0; i < m.Rows; i++ {
		require.Equal(t, e.ExpandRow(i, 4), m.Row(i))
	}
}
